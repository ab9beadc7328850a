package service

import (
	"alcyxob/coach-platform/internal/domain"
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedLibrary(t *testing.T, env *testEnv) {
	t.Helper()
	ctx := context.Background()
	recipes := []domain.Recipe{
		{ID: "r1", Name: "Tovuqli salat", Description: "Yengil tushlik", Category: "lunch", Ingredients: []domain.Ingredient{
			{ID: "i1", Name: "Tovuq", Amount: 200, Unit: "g", Category: "protein"},
			{ID: "i2", Name: "Bodring", Amount: 1, Unit: "dona", Category: "vegetables"},
			{ID: "i3", Name: "Tuz", Amount: 1, Unit: "chimdim"},
		}},
		{ID: "r2", Name: "Omlet", Description: "Tezkor nonushta", Category: "breakfast", Ingredients: []domain.Ingredient{
			{ID: "i4", Name: "tovuq ", Amount: 100, Unit: "G", Category: "protein"},
			{ID: "i5", Name: "Tuxum", Amount: 3, Unit: "dona", Category: "protein"},
			{ID: "i6", Name: "Sut", Amount: 50, Unit: "ml", Category: "dairy"},
		}},
	}
	for i := range recipes {
		require.NoError(t, env.repos.Recipes.Create(ctx, &recipes[i]))
	}
	exercises := []domain.Exercise{
		{ID: "e1", Name: "Squats", Description: "Oyoqlar uchun", MuscleGroup: domain.MuscleLegs, Difficulty: "beginner"},
		{ID: "e2", Name: "Push-ups", MuscleGroup: domain.MuscleChest, Difficulty: "beginner"},
		{ID: "e3", Name: "Lunges", MuscleGroup: domain.MuscleLegs, Difficulty: "intermediate"},
	}
	for i := range exercises {
		require.NoError(t, env.repos.Exercises.Create(ctx, &exercises[i]))
	}
}

func recipeIDs(views []RecipeView) []string {
	ids := []string{}
	for _, v := range views {
		ids = append(ids, v.ID)
	}
	return ids
}

func TestSearchRecipes(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	seedLibrary(t, env)
	tpl, _, _ := env.breakfastTemplate(t)
	u := env.createUser(t, "ali", tpl.ID)

	fav, err := env.library.ToggleFavorite(ctx, u.ID, "r2")
	require.NoError(t, err)
	assert.True(t, fav)

	tests := []struct {
		name     string
		query    string
		category string
		want     []string
	}{
		{"everything", "", "", []string{"r1", "r2"}},
		{"all filter", "", FilterAll, []string{"r1", "r2"}},
		{"by name, case-insensitive", "OMLET", "", []string{"r2"}},
		{"by description", "tushlik", "", []string{"r1"}},
		{"by category", "", "lunch", []string{"r1"}},
		{"favorites", "", FilterFavorites, []string{"r2"}},
		{"no match", "pizza", "", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := env.library.SearchRecipes(ctx, u.ID, tt.query, tt.category)
			require.NoError(t, err)
			if diff := cmp.Diff(tt.want, recipeIDs(got)); diff != "" {
				t.Errorf("ids mismatch (-want +got):\n%s", diff)
			}
		})
	}

	_, err = env.library.SearchRecipes(ctx, "nobody", "", "")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestToggleFavorite(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	seedLibrary(t, env)
	tpl, _, _ := env.breakfastTemplate(t)
	u := env.createUser(t, "ali", tpl.ID)

	on, err := env.library.ToggleFavorite(ctx, u.ID, "r1")
	require.NoError(t, err)
	assert.True(t, on)

	view, err := env.library.GetRecipe(ctx, u.ID, "r1")
	require.NoError(t, err)
	assert.True(t, view.IsFavorite)

	off, err := env.library.ToggleFavorite(ctx, u.ID, "r1")
	require.NoError(t, err)
	assert.False(t, off)

	_, err = env.library.ToggleFavorite(ctx, u.ID, "missing")
	assert.ErrorIs(t, err, ErrRecipeNotFound)
	_, err = env.library.ToggleFavorite(ctx, "nobody", "r1")
	assert.ErrorIs(t, err, ErrUserNotFound)
	_, err = env.library.GetRecipe(ctx, u.ID, "missing")
	assert.ErrorIs(t, err, ErrRecipeNotFound)
}

func TestShoppingList(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	seedLibrary(t, env)

	list, err := env.library.ShoppingList(ctx, []string{"r1", "r2", "r1"})
	require.NoError(t, err)

	want := &ShoppingList{
		RecipeIDs: []string{"r1", "r2"},
		Groups: []ShoppingGroup{
			{Category: "protein", Title: shoppingCategoryTitles["protein"], Items: []domain.Ingredient{
				{ID: "i1", Name: "Tovuq", Amount: 300, Unit: "g", Category: "protein"},
				{ID: "i5", Name: "Tuxum", Amount: 3, Unit: "dona", Category: "protein"},
			}},
			{Category: "vegetables", Title: shoppingCategoryTitles["vegetables"], Items: []domain.Ingredient{
				{ID: "i2", Name: "Bodring", Amount: 1, Unit: "dona", Category: "vegetables"},
			}},
			{Category: "dairy", Title: shoppingCategoryTitles["dairy"], Items: []domain.Ingredient{
				{ID: "i6", Name: "Sut", Amount: 50, Unit: "ml", Category: "dairy"},
			}},
			{Category: "other", Title: shoppingCategoryTitles["other"], Items: []domain.Ingredient{
				{ID: "i3", Name: "Tuz", Amount: 1, Unit: "chimdim", Category: "other"},
			}},
		},
	}
	if diff := cmp.Diff(want, list); diff != "" {
		t.Errorf("shopping list mismatch (-want +got):\n%s", diff)
	}

	empty, err := env.library.ShoppingList(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, empty.Groups)
	assert.NotNil(t, empty.RecipeIDs)

	_, err = env.library.ShoppingList(ctx, []string{"r1", "missing"})
	assert.ErrorIs(t, err, ErrRecipeNotFound)
}

func TestSearchExercises(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	seedLibrary(t, env)

	legs, err := env.library.SearchExercises(ctx, "", domain.MuscleLegs, "")
	require.NoError(t, err)
	assert.Len(t, legs, 2)

	easyLegs, err := env.library.SearchExercises(ctx, "", domain.MuscleLegs, "beginner")
	require.NoError(t, err)
	require.Len(t, easyLegs, 1)
	assert.Equal(t, "e1", easyLegs[0].ID)

	byQuery, err := env.library.SearchExercises(ctx, "push", FilterAll, FilterAll)
	require.NoError(t, err)
	require.Len(t, byQuery, 1)
	assert.Equal(t, "e2", byQuery[0].ID)

	all, err := env.library.SearchExercises(ctx, "", "", "")
	require.NoError(t, err)
	groups := GroupExercisesByMuscle(all)
	require.Len(t, groups, 2)
	assert.Equal(t, domain.MuscleLegs, groups[0].MuscleGroup)
	assert.Len(t, groups[0].Exercises, 2)
	assert.Equal(t, domain.MuscleChest, groups[1].MuscleGroup)

	_, err = env.library.GetExercise(ctx, "missing")
	assert.ErrorIs(t, err, ErrExerciseNotFound)
	e, err := env.library.GetExercise(ctx, "e3")
	require.NoError(t, err)
	assert.Equal(t, "Lunges", e.Name)
}
