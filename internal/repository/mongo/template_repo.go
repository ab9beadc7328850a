// internal/repository/mongo/template_repo.go
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

const templateCollectionName = "plan_templates"

// mongoTemplateRepository implements repository.TemplateRepository
type mongoTemplateRepository struct {
	collection *mongo.Collection
}

// NewMongoTemplateRepository creates a new plan template repository.
func NewMongoTemplateRepository(db *mongo.Database) repository.TemplateRepository {
	return &mongoTemplateRepository{
		collection: db.Collection(templateCollectionName),
	}
}

// Create inserts a new template. The caller supplies the ID.
func (r *mongoTemplateRepository) Create(ctx context.Context, tpl *domain.PlanTemplate) error {
	if tpl.ID == "" || tpl.Name == "" {
		return errors.New("template id and name are required")
	}
	now := time.Now().UTC().Truncate(time.Millisecond)
	tpl.CreatedAt = now
	tpl.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, tpl); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repository.ErrConflict
		}
		return err
	}
	return nil
}

// GetByID retrieves a single template by its ID.
func (r *mongoTemplateRepository) GetByID(ctx context.Context, id string) (*domain.PlanTemplate, error) {
	var tpl domain.PlanTemplate
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&tpl)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &tpl, nil
}

// List returns every template, oldest first.
func (r *mongoTemplateRepository) List(ctx context.Context) ([]domain.PlanTemplate, error) {
	return findAll[domain.PlanTemplate](ctx, r.collection, bson.M{}, "createdAt")
}

// Update reads the template, applies mutate and writes it back only if no
// other writer touched it in between. A lost race is retried.
func (r *mongoTemplateRepository) Update(ctx context.Context, id string, mutate func(*domain.PlanTemplate) error) (*domain.PlanTemplate, error) {
	for attempt := 0; attempt < maxUpdateAttempts; attempt++ {
		tpl, err := r.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		prev := tpl.Version
		if err := mutate(tpl); err != nil {
			return nil, err
		}
		tpl.ID = id
		tpl.UpdatedAt = time.Now().UTC().Truncate(time.Millisecond)
		tpl.Version = prev + 1

		ok, err := replaceIfUnchanged(ctx, r.collection, id, prev, tpl)
		if err != nil {
			return nil, err
		}
		if ok {
			return tpl, nil
		}
	}
	return nil, repository.ErrUpdateFailed
}

// EnsureTemplateIndexes creates necessary indexes. Call during startup.
func EnsureTemplateIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "createdAt", Value: 1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "name", Value: 1}},
			Options: options.Index(),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
