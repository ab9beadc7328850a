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

const userCollectionName = "users"

// mongoUserRepository implements the repository.UserRepository interface using MongoDB.
type mongoUserRepository struct {
	collection *mongo.Collection
}

// NewMongoUserRepository creates a new instance of mongoUserRepository.
// It expects a connected *mongo.Database instance.
func NewMongoUserRepository(db *mongo.Database) repository.UserRepository {
	return &mongoUserRepository{
		collection: db.Collection(userCollectionName),
	}
}

// Create inserts a new user. Username uniqueness is enforced by the unique
// index from EnsureUserIndexes.
func (r *mongoUserRepository) Create(ctx context.Context, user *domain.User) error {
	if user.ID == "" || user.Username == "" || user.Role == "" {
		return errors.New("user id, username, and role are required")
	}
	now := time.Now().UTC().Truncate(time.Millisecond)
	user.CreatedAt = now
	user.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repository.ErrConflict
		}
		return err
	}
	return nil
}

func (r *mongoUserRepository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	var user domain.User
	err := r.collection.FindOne(ctx, filter).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// GetByID retrieves a user by ID.
func (r *mongoUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

// GetByUsername retrieves a user by login name.
func (r *mongoUserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"username": username})
}

// List returns the whole roster in creation order.
func (r *mongoUserRepository) List(ctx context.Context) ([]domain.User, error) {
	return findAll[domain.User](ctx, r.collection, bson.M{}, "createdAt")
}

// Update applies mutate with optimistic concurrency on the version counter.
func (r *mongoUserRepository) Update(ctx context.Context, id string, mutate func(*domain.User) error) (*domain.User, error) {
	for attempt := 0; attempt < maxUpdateAttempts; attempt++ {
		user, err := r.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		prev := user.Version
		if err := mutate(user); err != nil {
			return nil, err
		}
		user.ID = id
		user.UpdatedAt = time.Now().UTC().Truncate(time.Millisecond)
		user.Version = prev + 1

		ok, err := replaceIfUnchanged(ctx, r.collection, id, prev, user)
		if err != nil {
			if mongo.IsDuplicateKeyError(err) {
				return nil, repository.ErrConflict
			}
			return nil, err
		}
		if ok {
			return user, nil
		}
	}
	return nil, repository.ErrUpdateFailed
}

// Delete removes a user from the roster.
func (r *mongoUserRepository) Delete(ctx context.Context, id string) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureUserIndexes creates necessary indexes for the users collection.
// Call this once during application startup.
func EnsureUserIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "username", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "role", Value: 1}},
			Options: options.Index(),
		},
		{
			// Roster views group users by assigned template.
			Keys:    bson.D{{Key: "category", Value: 1}},
			Options: options.Index().SetSparse(true),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
