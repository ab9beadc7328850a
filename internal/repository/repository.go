package repository

import (
	"alcyxob/coach-platform/internal/domain"
	"context"                                // Standard for request-scoped deadlines, cancellation signals, etc.
)

// Error constants for repository layer
var (
	ErrNotFound     = RepositoryError("not found")
	ErrConflict     = RepositoryError("already exists")
	ErrUpdateFailed = RepositoryError("update failed")
	ErrDeleteFailed = RepositoryError("delete failed")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// Every repository hands out copies. Mutating a returned value never changes
// stored state; changes go through Update, which applies the mutator to a
// private copy and stores it only when the mutator returns nil.

// TemplateRepository defines the interface for interacting with plan templates.
type TemplateRepository interface {
	Create(ctx context.Context, tpl *domain.PlanTemplate) error
	GetByID(ctx context.Context, id string) (*domain.PlanTemplate, error)
	List(ctx context.Context) ([]domain.PlanTemplate, error)
	Update(ctx context.Context, id string, mutate func(*domain.PlanTemplate) error) (*domain.PlanTemplate, error)
}

// UserRepository defines the interface for interacting with the roster.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	Update(ctx context.Context, id string, mutate func(*domain.User) error) (*domain.User, error)
	Delete(ctx context.Context, id string) error
}

// ExerciseRepository defines the interface for the exercise library.
type ExerciseRepository interface {
	Create(ctx context.Context, exercise *domain.Exercise) error
	GetByID(ctx context.Context, id string) (*domain.Exercise, error)
	List(ctx context.Context) ([]domain.Exercise, error)
}

// RecipeRepository defines the interface for the recipe library.
type RecipeRepository interface {
	Create(ctx context.Context, recipe *domain.Recipe) error
	GetByID(ctx context.Context, id string) (*domain.Recipe, error)
	List(ctx context.Context) ([]domain.Recipe, error)
}

// ProgressPhotoRepository defines the interface for progress photo metadata.
// The image itself resides in file storage.
type ProgressPhotoRepository interface {
	Create(ctx context.Context, photo *domain.ProgressPhoto) error
	GetByID(ctx context.Context, id string) (*domain.ProgressPhoto, error)
	ListByUserID(ctx context.Context, userID string) ([]domain.ProgressPhoto, error)
}

// ProductRepository defines the interface for marketplace products.
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	List(ctx context.Context) ([]domain.Product, error)
}

// PurchaseRepository defines the interface for purchase records.
type PurchaseRepository interface {
	// Create returns ErrConflict when the user already holds a pending or
	// completed purchase of the same product.
	Create(ctx context.Context, purchase *domain.Purchase) error
	ListByUserID(ctx context.Context, userID string) ([]domain.Purchase, error)
}

// Repositories bundles every repository so backends can be swapped as a unit.
type Repositories struct {
	Templates      TemplateRepository
	Users          UserRepository
	Exercises      ExerciseRepository
	Recipes        RecipeRepository
	ProgressPhotos ProgressPhotoRepository
	Products       ProductRepository
	Purchases      PurchaseRepository
}
