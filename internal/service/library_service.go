package service

import (
	"alcyxob/coach-platform/internal/domain"
	"alcyxob/coach-platform/internal/repository"
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
)

// --- Error Definitions ---
var (
	ErrRecipeNotFound   = errors.New("recipe not found")
	ErrExerciseNotFound = errors.New("exercise not found")
)

// Recipe category filters besides the meal categories themselves.
const (
	FilterAll       = "all"
	FilterFavorites = "favorites"
)

// shoppingCategoryTitles are the display headings of ingredient groups.
var shoppingCategoryTitles = map[string]string{
	"protein":    "🥩 Oqsillar",
	"carbs":      "🍞 Uglevod",
	"vegetables": "🥗 Sabzavotlar",
	"dairy":      "🥛 Sut mahsulotlari",
	"spices":     "🧂 Ziravorlar",
	"other":      "📦 Boshqalar",
}

// shoppingCategoryOrder fixes the group order of a shopping list.
var shoppingCategoryOrder = []string{"protein", "carbs", "vegetables", "dairy", "spices", "other"}

// RecipeView is a recipe annotated for one user.
type RecipeView struct {
	domain.Recipe
	IsFavorite bool `json:"isFavorite"`
}

// ShoppingGroup is the ingredients of one category.
type ShoppingGroup struct {
	Category string              `json:"category"`
	Title    string              `json:"title"`
	Items    []domain.Ingredient `json:"items"`
}

// ShoppingList aggregates the ingredients of several recipes.
type ShoppingList struct {
	RecipeIDs []string        `json:"recipeIds"`
	Groups    []ShoppingGroup `json:"groups"`
}

// ExerciseGroup is the exercises of one muscle group.
type ExerciseGroup struct {
	MuscleGroup string            `json:"muscleGroup"`
	Exercises   []domain.Exercise `json:"exercises"`
}

// LibraryService serves the recipe and exercise libraries.
type LibraryService interface {
	SearchRecipes(ctx context.Context, userID, query, category string) ([]RecipeView, error)
	GetRecipe(ctx context.Context, userID, recipeID string) (*RecipeView, error)
	ToggleFavorite(ctx context.Context, userID, recipeID string) (bool, error)
	ShoppingList(ctx context.Context, recipeIDs []string) (*ShoppingList, error)
	SearchExercises(ctx context.Context, query, muscleGroup, difficulty string) ([]domain.Exercise, error)
	GetExercise(ctx context.Context, exerciseID string) (*domain.Exercise, error)
}

type libraryService struct {
	recipeRepo   repository.RecipeRepository
	exerciseRepo repository.ExerciseRepository
	userRepo     repository.UserRepository
	logger       *zap.Logger
}

// NewLibraryService creates a new instance of libraryService.
func NewLibraryService(
	recipeRepo repository.RecipeRepository,
	exerciseRepo repository.ExerciseRepository,
	userRepo repository.UserRepository,
	logger *zap.Logger,
) LibraryService {
	return &libraryService{
		recipeRepo:   recipeRepo,
		exerciseRepo: exerciseRepo,
		userRepo:     userRepo,
		logger:       logger,
	}
}

// matchesQuery is a case-insensitive substring match on name or description.
func matchesQuery(query, name, description string) bool {
	if query == "" {
		return true
	}
	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(name), q) || strings.Contains(strings.ToLower(description), q)
}

// SearchRecipes filters by query and category. Category is "all", "favorites"
// or a meal category; empty means "all".
func (s *libraryService) SearchRecipes(ctx context.Context, userID, query, category string) ([]RecipeView, error) {
	user, err := getUser(ctx, s.userRepo, userID)
	if err != nil {
		return nil, err
	}
	recipes, err := s.recipeRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	query = strings.TrimSpace(query)
	if category == "" {
		category = FilterAll
	}
	out := []RecipeView{}
	for _, r := range recipes {
		fav := user.IsFavorite(r.ID)
		if !matchesQuery(query, r.Name, r.Description) {
			continue
		}
		switch category {
		case FilterAll:
		case FilterFavorites:
			if !fav {
				continue
			}
		default:
			if r.Category != category {
				continue
			}
		}
		out = append(out, RecipeView{Recipe: r, IsFavorite: fav})
	}
	return out, nil
}

func (s *libraryService) GetRecipe(ctx context.Context, userID, recipeID string) (*RecipeView, error) {
	user, err := getUser(ctx, s.userRepo, userID)
	if err != nil {
		return nil, err
	}
	r, err := s.recipeRepo.GetByID(ctx, recipeID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRecipeNotFound
		}
		return nil, err
	}
	return &RecipeView{Recipe: *r, IsFavorite: user.IsFavorite(r.ID)}, nil
}

// ToggleFavorite flips the recipe in the user's favorites and reports the new state.
func (s *libraryService) ToggleFavorite(ctx context.Context, userID, recipeID string) (bool, error) {
	if _, err := s.recipeRepo.GetByID(ctx, recipeID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return false, ErrRecipeNotFound
		}
		return false, err
	}

	var favorite bool
	_, err := s.userRepo.Update(ctx, userID, func(u *domain.User) error {
		for i, id := range u.FavoriteRecipeIDs {
			if id == recipeID {
				u.FavoriteRecipeIDs = append(u.FavoriteRecipeIDs[:i], u.FavoriteRecipeIDs[i+1:]...)
				favorite = false
				return nil
			}
		}
		u.FavoriteRecipeIDs = append(u.FavoriteRecipeIDs, recipeID)
		favorite = true
		return nil
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return false, ErrUserNotFound
		}
		return false, err
	}
	return favorite, nil
}

// ShoppingList merges the ingredients of the given recipes. Lines with the same
// name and unit are summed; groups follow a fixed category order and items
// keep first-seen order.
func (s *libraryService) ShoppingList(ctx context.Context, recipeIDs []string) (*ShoppingList, error) {
	type lineKey struct{ name, unit string }

	lines := map[lineKey]int{} // index into items
	var items []domain.Ingredient
	seen := map[string]bool{}
	var ids []string

	for _, id := range recipeIDs {
		if seen[id] {
			continue
		}
		seen[id] = true
		r, err := s.recipeRepo.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, ErrRecipeNotFound
			}
			return nil, err
		}
		ids = append(ids, id)
		for _, ing := range r.Ingredients {
			k := lineKey{strings.ToLower(strings.TrimSpace(ing.Name)), strings.ToLower(ing.Unit)}
			if i, ok := lines[k]; ok {
				items[i].Amount += ing.Amount
				continue
			}
			if ing.Category == "" {
				ing.Category = "other"
			}
			lines[k] = len(items)
			items = append(items, ing)
		}
	}

	byCategory := map[string][]domain.Ingredient{}
	for _, it := range items {
		c := it.Category
		if _, known := shoppingCategoryTitles[c]; !known {
			c = "other"
		}
		byCategory[c] = append(byCategory[c], it)
	}
	list := &ShoppingList{RecipeIDs: ids, Groups: []ShoppingGroup{}}
	if list.RecipeIDs == nil {
		list.RecipeIDs = []string{}
	}
	for _, c := range shoppingCategoryOrder {
		if len(byCategory[c]) == 0 {
			continue
		}
		list.Groups = append(list.Groups, ShoppingGroup{
			Category: c,
			Title:    shoppingCategoryTitles[c],
			Items:    byCategory[c],
		})
	}
	return list, nil
}

// SearchExercises filters by query, muscle group and difficulty. Empty or
// "all" disables a filter.
func (s *libraryService) SearchExercises(ctx context.Context, query, muscleGroup, difficulty string) ([]domain.Exercise, error) {
	exercises, err := s.exerciseRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	query = strings.TrimSpace(query)
	out := []domain.Exercise{}
	for _, e := range exercises {
		if !matchesQuery(query, e.Name, e.Description) {
			continue
		}
		if muscleGroup != "" && muscleGroup != FilterAll && e.MuscleGroup != muscleGroup {
			continue
		}
		if difficulty != "" && difficulty != FilterAll && e.Difficulty != difficulty {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (s *libraryService) GetExercise(ctx context.Context, exerciseID string) (*domain.Exercise, error) {
	e, err := s.exerciseRepo.GetByID(ctx, exerciseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExerciseNotFound
		}
		return nil, err
	}
	return e, nil
}

// GroupExercisesByMuscle groups exercises by muscle group in first-seen order.
func GroupExercisesByMuscle(exercises []domain.Exercise) []ExerciseGroup {
	index := map[string]int{}
	groups := []ExerciseGroup{}
	for _, e := range exercises {
		i, ok := index[e.MuscleGroup]
		if !ok {
			i = len(groups)
			index[e.MuscleGroup] = i
			groups = append(groups, ExerciseGroup{MuscleGroup: e.MuscleGroup})
		}
		groups[i].Exercises = append(groups[i].Exercises, e)
	}
	return groups
}
