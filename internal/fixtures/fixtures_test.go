package fixtures

import (
	"alcyxob/coach-platform/internal/domain"
	"alcyxob/coach-platform/internal/repository/memory"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"golang.org/x/crypto/bcrypt"
)

func TestLoad(t *testing.T) {
	data, err := Load()
	require.NoError(t, err)

	require.Len(t, data.Templates, 2)
	for _, tpl := range data.Templates {
		require.Len(t, tpl.Days, domain.PlanLength)
		for i, d := range tpl.Days {
			assert.Equal(t, i+1, d.Day)
			assert.NotEmpty(t, d.Meals)
			assert.NotEmpty(t, d.Exercises)
		}
	}
	first := data.Templates[0]
	assert.Equal(t, "m-1-1", first.Days[0].Meals[0].ID)
	assert.Equal(t, "e-30-1", first.Days[29].Exercises[0].ID)
	assert.Equal(t, domain.TaskTypeMeal, first.Days[0].Meals[0].Type)

	// Days must not share task slices.
	first.Days[0].Meals[0].Completed = true
	assert.False(t, first.Days[1].Meals[0].Completed)

	require.Len(t, data.Users, 1)
	assert.Equal(t, "user", data.Users[0].User.Username)
	assert.NotEmpty(t, data.Recipes)
	assert.NotEmpty(t, data.Exercises)
	assert.NotEmpty(t, data.Products)
}

func TestParse_Invalid(t *testing.T) {
	_, err := Parse([]byte("templates: [oops"))
	assert.Error(t, err)
}

func TestSeed(t *testing.T) {
	ctx := context.Background()
	repos := memory.NewRepositories()
	logger := zaptest.NewLogger(t)

	require.NoError(t, Seed(ctx, repos, logger))
	// A second run finds everything in place.
	require.NoError(t, Seed(ctx, repos, logger))

	templates, err := repos.Templates.List(ctx)
	require.NoError(t, err)
	assert.Len(t, templates, 2)

	u, err := repos.Users.GetByUsername(ctx, "user")
	require.NoError(t, err)
	assert.Equal(t, templates[0].Name, u.Category)
	assert.Len(t, u.Plan, domain.PlanLength)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("user")))

	recipes, err := repos.Recipes.List(ctx)
	require.NoError(t, err)
	assert.Len(t, recipes, 2)
	products, err := repos.Products.List(ctx)
	require.NoError(t, err)
	assert.Len(t, products, 2)
}

func TestSeedData_UnknownTemplate(t *testing.T) {
	data := &Data{Users: []SeedUser{{User: domain.User{ID: "u1", Username: "x", Role: domain.RoleUser}, TemplateID: "nope"}}}
	err := SeedData(context.Background(), data, memory.NewRepositories(), zaptest.NewLogger(t))
	assert.Error(t, err)
}
