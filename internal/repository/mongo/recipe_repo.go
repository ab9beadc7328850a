package mongo

import (
	"alcyxob/coach-platform/internal/domain"
	"alcyxob/coach-platform/internal/repository"
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const recipeCollectionName = "recipes"

type mongoRecipeRepository struct {
	collection *mongo.Collection
}

// NewMongoRecipeRepository creates a new Recipe repository backed by MongoDB.
func NewMongoRecipeRepository(db *mongo.Database) repository.RecipeRepository {
	return &mongoRecipeRepository{
		collection: db.Collection(recipeCollectionName),
	}
}

func (r *mongoRecipeRepository) Create(ctx context.Context, recipe *domain.Recipe) error {
	if recipe.ID == "" || recipe.Name == "" {
		return errors.New("recipe id and name are required")
	}
	if recipe.CreatedAt.IsZero() {
		recipe.CreatedAt = time.Now().UTC()
	}
	if _, err := r.collection.InsertOne(ctx, recipe); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repository.ErrConflict
		}
		return err
	}
	return nil
}

func (r *mongoRecipeRepository) GetByID(ctx context.Context, id string) (*domain.Recipe, error) {
	var recipe domain.Recipe
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&recipe)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &recipe, nil
}

func (r *mongoRecipeRepository) List(ctx context.Context) ([]domain.Recipe, error) {
	return findAll[domain.Recipe](ctx, r.collection, bson.M{}, "createdAt")
}

// EnsureRecipeIndexes creates necessary indexes for the recipes collection.
func EnsureRecipeIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "category", Value: 1}},
			Options: options.Index(),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
