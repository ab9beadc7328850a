package service

import (
	"alcyxob/coach-platform/internal/domain"
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestCreateUser_CopiesTemplate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	tpl, _, _ := env.breakfastTemplate(t)

	u := env.createUser(t, "ali", tpl.ID)
	assert.NotEmpty(t, u.ID)
	assert.Equal(t, domain.RoleUser, u.Role)
	assert.False(t, u.IsBlocked)
	assert.Equal(t, 1, u.CurrentDay)
	assert.Zero(t, u.Progress)
	assert.Zero(t, u.Streak)
	assert.Equal(t, "Ozish", u.Category)
	assert.Equal(t, "2024-03-15", u.StartDate)
	assert.Empty(t, u.PasswordHash)
	assert.NotNil(t, u.WeightHistory)
	assert.NotNil(t, u.Messages)
	if diff := cmp.Diff(tpl.Days, u.Plan); diff != "" {
		t.Errorf("plan differs from template (-template +plan):\n%s", diff)
	}

	stored, err := env.repos.Users.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("parol123")))
}

func TestCreateUser_UnknownTemplateLeavesRosterUnchanged(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.roster.CreateUser(ctx, NewUserFields{Name: "Ali", Username: "ali", Password: "p"}, "does-not-exist")
	assert.ErrorIs(t, err, ErrTemplateNotFound)

	users, err := env.roster.ListUsers(ctx)
	require.NoError(t, err)
	assert.Empty(t, users)
}

func TestCreateUser_Validation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	tpl, _, _ := env.breakfastTemplate(t)
	env.createUser(t, "ali", tpl.ID)

	_, err := env.roster.CreateUser(ctx, NewUserFields{Name: "Ali 2", Username: "ali", Password: "p"}, tpl.ID)
	assert.ErrorIs(t, err, ErrUsernameTaken)

	_, err = env.roster.CreateUser(ctx, NewUserFields{Name: "Fake", Username: "creator", Password: "p"}, tpl.ID)
	assert.ErrorIs(t, err, ErrUsernameTaken)

	_, err = env.roster.CreateUser(ctx, NewUserFields{Username: "vali", Password: "p"}, tpl.ID)
	assert.ErrorIs(t, err, ErrUserFieldsMissing)
}

func TestPlanIsolation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	tpl, meal, exercise := env.breakfastTemplate(t)
	u1 := env.createUser(t, "ali", tpl.ID)
	u2 := env.createUser(t, "vali", tpl.ID)

	_, err := env.completion.CompleteExerciseTask(ctx, u1.ID, 1, exercise.ID)
	require.NoError(t, err)
	_, err = env.completion.SubmitMealProof(ctx, u1.ID, 1, meal.ID, jpeg())
	require.NoError(t, err)

	other, err := env.roster.GetUser(ctx, u2.ID)
	require.NoError(t, err)
	if diff := cmp.Diff(u2.Plan, other.Plan); diff != "" {
		t.Errorf("second user's plan changed (-want +got):\n%s", diff)
	}
	stored, err := env.templates.GetTemplate(ctx, tpl.ID)
	require.NoError(t, err)
	if diff := cmp.Diff(tpl.Days, stored.Days); diff != "" {
		t.Errorf("template changed (-want +got):\n%s", diff)
	}
}

func TestAssignPlan(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	tpl, _, exercise := env.breakfastTemplate(t)
	other, err := env.templates.CreateTemplate(ctx, "Vazn olish", "")
	require.NoError(t, err)
	u := env.createUser(t, "ali", tpl.ID)

	// Give the user some state that must survive.
	_, err = env.repos.Users.Update(ctx, u.ID, func(x *domain.User) error {
		x.CurrentDay = 12
		x.Streak = 7
		x.Weight = 77
		x.Role = domain.RoleAdmin
		x.IsBlocked = true
		return nil
	})
	require.NoError(t, err)
	_, err = env.completion.CompleteExerciseTask(ctx, u.ID, 1, exercise.ID)
	require.NoError(t, err)

	got, err := env.roster.AssignPlan(ctx, u.ID, other.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.CurrentDay)
	assert.Equal(t, 7, got.Streak)
	assert.Equal(t, 77.0, got.Weight)
	assert.Equal(t, domain.RoleAdmin, got.Role)
	assert.True(t, got.IsBlocked)
	assert.Equal(t, "Vazn olish", got.Category)
	if diff := cmp.Diff(other.Days, got.Plan); diff != "" {
		t.Errorf("plan mismatch (-want +got):\n%s", diff)
	}

	_, err = env.roster.AssignPlan(ctx, "nobody", tpl.ID)
	assert.ErrorIs(t, err, ErrUserNotFound)
	_, err = env.roster.AssignPlan(ctx, u.ID, "nothing")
	assert.ErrorIs(t, err, ErrTemplateNotFound)
}

func TestAssignPlan_Idempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	tpl, _, _ := env.breakfastTemplate(t)
	u := env.createUser(t, "ali", tpl.ID)

	once, err := env.roster.AssignPlan(ctx, u.ID, tpl.ID)
	require.NoError(t, err)
	twice, err := env.roster.AssignPlan(ctx, u.ID, tpl.ID)
	require.NoError(t, err)

	if diff := cmp.Diff(once.Plan, twice.Plan); diff != "" {
		t.Errorf("re-assignment accumulated content (-once +twice):\n%s", diff)
	}
	assert.Len(t, twice.Plan[0].Meals, 1)
}

func TestRemoveTaskDoesNotPropagateToAssignedUsers(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	tpl, meal, _ := env.breakfastTemplate(t)
	u := env.createUser(t, "ali", tpl.ID)

	require.NoError(t, env.templates.RemoveTask(ctx, tpl.ID, 0, domain.TaskTypeMeal, meal.ID))

	got, err := env.roster.GetUser(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, got.Plan[0].Meals, 1)
	assert.Equal(t, meal.ID, got.Plan[0].Meals[0].ID)
}

func TestRosterMutations_UnknownUser(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.roster.SetBlocked(ctx, "nobody", true)
	assert.ErrorIs(t, err, ErrUserNotFound)
	_, err = env.roster.SetRole(ctx, "nobody", domain.RoleAdmin)
	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.ErrorIs(t, env.roster.DeleteUser(ctx, "nobody"), ErrUserNotFound)
	_, err = env.roster.GetUser(ctx, "nobody")
	assert.ErrorIs(t, err, ErrUserNotFound)
	_, err = env.roster.ListProofs(ctx, "nobody")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestSetBlockedSetRoleDelete(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	tpl, _, _ := env.breakfastTemplate(t)
	u := env.createUser(t, "ali", tpl.ID)

	got, err := env.roster.SetBlocked(ctx, u.ID, true)
	require.NoError(t, err)
	assert.True(t, got.IsBlocked)

	got, err = env.roster.SetRole(ctx, u.ID, domain.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, got.Role)

	_, err = env.roster.SetRole(ctx, u.ID, domain.RoleCreator)
	assert.ErrorIs(t, err, ErrInvalidRole)
	_, err = env.roster.SetRole(ctx, u.ID, domain.RoleGuest)
	assert.ErrorIs(t, err, ErrInvalidRole)

	require.NoError(t, env.roster.DeleteUser(ctx, u.ID))
	users, err := env.roster.ListUsers(ctx)
	require.NoError(t, err)
	assert.Empty(t, users)
}

func TestListProofs(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	tpl, meal, _ := env.breakfastTemplate(t)
	u := env.createUser(t, "ali", tpl.ID)

	proofs, err := env.roster.ListProofs(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, proofs)

	_, err = env.completion.SubmitMealProof(ctx, u.ID, 1, meal.ID, jpeg())
	require.NoError(t, err)

	proofs, err = env.roster.ListProofs(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, proofs, 1)
	assert.Equal(t, 1, proofs[0].Day)
	assert.Equal(t, meal.ID, proofs[0].Task.ID)
	assert.Equal(t, domain.ReviewPending, proofs[0].Task.Status)
}
