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

const progressPhotoCollectionName = "progress_photos"

// mongoProgressPhotoRepository implements repository.ProgressPhotoRepository
type mongoProgressPhotoRepository struct {
	collection *mongo.Collection
}

// NewMongoProgressPhotoRepository creates a new progress photo repository backed by MongoDB.
func NewMongoProgressPhotoRepository(db *mongo.Database) repository.ProgressPhotoRepository {
	return &mongoProgressPhotoRepository{
		collection: db.Collection(progressPhotoCollectionName),
	}
}

// Create inserts photo metadata. The image must already be in file storage.
func (r *mongoProgressPhotoRepository) Create(ctx context.Context, photo *domain.ProgressPhoto) error {
	if photo.ID == "" || photo.UserID == "" || photo.ImageURL == "" {
		return errors.New("photo requires id, userId, and imageUrl")
	}
	photo.UploadedAt = time.Now().UTC()

	_, err := r.collection.InsertOne(ctx, photo)
	return err
}

// GetByID retrieves photo metadata by its ID.
func (r *mongoProgressPhotoRepository) GetByID(ctx context.Context, id string) (*domain.ProgressPhoto, error) {
	var photo domain.ProgressPhoto
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&photo)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &photo, nil
}

// ListByUserID returns the user's photos ordered by date, oldest first.
func (r *mongoProgressPhotoRepository) ListByUserID(ctx context.Context, userID string) ([]domain.ProgressPhoto, error) {
	return findAll[domain.ProgressPhoto](ctx, r.collection, bson.M{"userId": userID}, "date")
}

// EnsureProgressPhotoIndexes creates necessary indexes for the progress_photos collection.
func EnsureProgressPhotoIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "date", Value: 1}},
			Options: options.Index(),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
