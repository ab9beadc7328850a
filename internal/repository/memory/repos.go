package memory

import (
	"alcyxob/coach-platform/internal/domain"
	"alcyxob/coach-platform/internal/repository"
	"context"
	"errors"
	"sort"
	"time"
)

// NewRepositories returns an empty in-memory backend.
func NewRepositories() repository.Repositories {
	return repository.Repositories{
		Templates:      NewTemplateRepository(),
		Users:          NewUserRepository(),
		Exercises:      NewExerciseRepository(),
		Recipes:        NewRecipeRepository(),
		ProgressPhotos: NewProgressPhotoRepository(),
		Products:       NewProductRepository(),
		Purchases:      NewPurchaseRepository(),
	}
}

// --- Templates ---

type templateRepository struct {
	items *collection[domain.PlanTemplate]
}

// NewTemplateRepository creates an in-memory repository.TemplateRepository.
func NewTemplateRepository() repository.TemplateRepository {
	return &templateRepository{items: newCollection(domain.PlanTemplate.Clone)}
}

func (r *templateRepository) Create(ctx context.Context, tpl *domain.PlanTemplate) error {
	if tpl.ID == "" || tpl.Name == "" {
		return errors.New("template id and name are required")
	}
	now := time.Now().UTC()
	tpl.CreatedAt = now
	tpl.UpdatedAt = now
	return r.items.insert(tpl.ID, *tpl)
}

func (r *templateRepository) GetByID(ctx context.Context, id string) (*domain.PlanTemplate, error) {
	tpl, err := r.items.get(id)
	if err != nil {
		return nil, err
	}
	return &tpl, nil
}

func (r *templateRepository) List(ctx context.Context) ([]domain.PlanTemplate, error) {
	return r.items.filter(nil), nil
}

func (r *templateRepository) Update(ctx context.Context, id string, mutate func(*domain.PlanTemplate) error) (*domain.PlanTemplate, error) {
	tpl, err := r.items.update(id, func(t *domain.PlanTemplate) error {
		version := t.Version
		if err := mutate(t); err != nil {
			return err
		}
		t.ID = id // identity is not mutable
		t.UpdatedAt = time.Now().UTC()
		t.Version = version + 1
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &tpl, nil
}

// --- Users ---

type userRepository struct {
	items *collection[domain.User]
}

// NewUserRepository creates an in-memory repository.UserRepository.
func NewUserRepository() repository.UserRepository {
	return &userRepository{items: newCollection(domain.User.Clone)}
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	if user.ID == "" || user.Username == "" || user.Role == "" {
		return errors.New("user id, username, and role are required")
	}
	if _, err := r.items.find(func(u domain.User) bool { return u.Username == user.Username }); err == nil {
		return repository.ErrConflict
	}
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now
	return r.items.insert(user.ID, *user)
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	u, err := r.items.get(id)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	u, err := r.items.find(func(u domain.User) bool { return u.Username == username })
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) List(ctx context.Context) ([]domain.User, error) {
	return r.items.filter(nil), nil
}

func (r *userRepository) Update(ctx context.Context, id string, mutate func(*domain.User) error) (*domain.User, error) {
	u, err := r.items.update(id, func(u *domain.User) error {
		version := u.Version
		if err := mutate(u); err != nil {
			return err
		}
		u.ID = id
		u.UpdatedAt = time.Now().UTC()
		u.Version = version + 1
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) Delete(ctx context.Context, id string) error {
	return r.items.remove(id)
}

// --- Exercises ---

type exerciseRepository struct {
	items *collection[domain.Exercise]
}

// NewExerciseRepository creates an in-memory repository.ExerciseRepository.
func NewExerciseRepository() repository.ExerciseRepository {
	return &exerciseRepository{items: newCollection(domain.Exercise.Clone)}
}

func (r *exerciseRepository) Create(ctx context.Context, exercise *domain.Exercise) error {
	if exercise.ID == "" || exercise.Name == "" {
		return errors.New("exercise id and name are required")
	}
	if exercise.CreatedAt.IsZero() {
		exercise.CreatedAt = time.Now().UTC()
	}
	return r.items.insert(exercise.ID, *exercise)
}

func (r *exerciseRepository) GetByID(ctx context.Context, id string) (*domain.Exercise, error) {
	e, err := r.items.get(id)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *exerciseRepository) List(ctx context.Context) ([]domain.Exercise, error) {
	return r.items.filter(nil), nil
}

// --- Recipes ---

type recipeRepository struct {
	items *collection[domain.Recipe]
}

// NewRecipeRepository creates an in-memory repository.RecipeRepository.
func NewRecipeRepository() repository.RecipeRepository {
	return &recipeRepository{items: newCollection(domain.Recipe.Clone)}
}

func (r *recipeRepository) Create(ctx context.Context, recipe *domain.Recipe) error {
	if recipe.ID == "" || recipe.Name == "" {
		return errors.New("recipe id and name are required")
	}
	if recipe.CreatedAt.IsZero() {
		recipe.CreatedAt = time.Now().UTC()
	}
	return r.items.insert(recipe.ID, *recipe)
}

func (r *recipeRepository) GetByID(ctx context.Context, id string) (*domain.Recipe, error) {
	rec, err := r.items.get(id)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *recipeRepository) List(ctx context.Context) ([]domain.Recipe, error) {
	return r.items.filter(nil), nil
}

// --- Progress photos ---

type progressPhotoRepository struct {
	items *collection[domain.ProgressPhoto]
}

// NewProgressPhotoRepository creates an in-memory repository.ProgressPhotoRepository.
func NewProgressPhotoRepository() repository.ProgressPhotoRepository {
	return &progressPhotoRepository{items: newCollection(domain.ProgressPhoto.Clone)}
}

func (r *progressPhotoRepository) Create(ctx context.Context, photo *domain.ProgressPhoto) error {
	if photo.ID == "" || photo.UserID == "" || photo.ImageURL == "" {
		return errors.New("photo requires id, userId, and imageUrl")
	}
	photo.UploadedAt = time.Now().UTC()
	return r.items.insert(photo.ID, *photo)
}

func (r *progressPhotoRepository) GetByID(ctx context.Context, id string) (*domain.ProgressPhoto, error) {
	p, err := r.items.get(id)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ListByUserID returns the user's photos ordered by date, oldest first.
func (r *progressPhotoRepository) ListByUserID(ctx context.Context, userID string) ([]domain.ProgressPhoto, error) {
	photos := r.items.filter(func(p domain.ProgressPhoto) bool { return p.UserID == userID })
	sort.SliceStable(photos, func(i, j int) bool { return photos[i].Date < photos[j].Date })
	return photos, nil
}

// --- Products ---

type productRepository struct {
	items *collection[domain.Product]
}

// NewProductRepository creates an in-memory repository.ProductRepository.
func NewProductRepository() repository.ProductRepository {
	return &productRepository{items: newCollection(domain.Product.Clone)}
}

func (r *productRepository) Create(ctx context.Context, product *domain.Product) error {
	if product.ID == "" || product.Name == "" {
		return errors.New("product id and name are required")
	}
	if product.CreatedAt.IsZero() {
		product.CreatedAt = time.Now().UTC()
	}
	return r.items.insert(product.ID, *product)
}

func (r *productRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	p, err := r.items.get(id)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *productRepository) List(ctx context.Context) ([]domain.Product, error) {
	return r.items.filter(nil), nil
}

// --- Purchases ---

type purchaseRepository struct {
	items *collection[domain.Purchase]
}

// NewPurchaseRepository creates an in-memory repository.PurchaseRepository.
func NewPurchaseRepository() repository.PurchaseRepository {
	return &purchaseRepository{items: newCollection(func(p domain.Purchase) domain.Purchase { return p })}
}

func (r *purchaseRepository) Create(ctx context.Context, purchase *domain.Purchase) error {
	if purchase.ID == "" || purchase.UserID == "" || purchase.ProductID == "" {
		return errors.New("purchase requires id, userId, and productId")
	}
	purchase.PurchasedAt = time.Now().UTC()
	if purchase.Status == domain.PurchaseFailed {
		return r.items.insert(purchase.ID, *purchase)
	}
	return r.items.insertUnless(purchase.ID, *purchase, func(p domain.Purchase) bool {
		return p.UserID == purchase.UserID && p.ProductID == purchase.ProductID && p.Status != domain.PurchaseFailed
	})
}

func (r *purchaseRepository) ListByUserID(ctx context.Context, userID string) ([]domain.Purchase, error) {
	return r.items.filter(func(p domain.Purchase) bool { return p.UserID == userID }), nil
}
