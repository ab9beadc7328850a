package mongo

import (
	"alcyxob/coach-platform/internal/repository"
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// Default connection timeout
const defaultTimeout = 10 * time.Second

// ConnectDB establishes a connection to MongoDB and verifies it with a ping.
func ConnectDB(uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}

	// The connect call can succeed against an unresponsive server, so ping separately.
	pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer pingCancel()

	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		disconnectCtx, disconnectCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer disconnectCancel()
		_ = client.Disconnect(disconnectCtx)
		return nil, err
	}
	return client, nil
}

// DisconnectDB gracefully disconnects the MongoDB client.
func DisconnectDB(client *mongo.Client) error {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()
	return client.Disconnect(ctx)
}

// NewRepositories wires every Mongo-backed repository against db.
func NewRepositories(db *mongo.Database) repository.Repositories {
	return repository.Repositories{
		Templates:      NewMongoTemplateRepository(db),
		Users:          NewMongoUserRepository(db),
		Exercises:      NewMongoExerciseRepository(db),
		Recipes:        NewMongoRecipeRepository(db),
		ProgressPhotos: NewMongoProgressPhotoRepository(db),
		Products:       NewMongoProductRepository(db),
		Purchases:      NewMongoPurchaseRepository(db),
	}
}

// EnsureIndexes creates the indexes of every collection. Failures are logged
// and do not stop the others.
func EnsureIndexes(ctx context.Context, db *mongo.Database, logger *zap.Logger) {
	steps := []struct {
		collection string
		ensure     func(context.Context, *mongo.Collection) error
	}{
		{templateCollectionName, EnsureTemplateIndexes},
		{userCollectionName, EnsureUserIndexes},
		{exerciseCollectionName, EnsureExerciseIndexes},
		{recipeCollectionName, EnsureRecipeIndexes},
		{progressPhotoCollectionName, EnsureProgressPhotoIndexes},
		{purchaseCollectionName, EnsurePurchaseIndexes},
	}
	for _, s := range steps {
		if err := s.ensure(ctx, db.Collection(s.collection)); err != nil {
			logger.Warn("failed to create indexes", zap.String("collection", s.collection), zap.Error(err))
		}
	}
}

// maxUpdateAttempts bounds the optimistic read-modify-write loop.
const maxUpdateAttempts = 3

// replaceIfUnchanged writes doc only if the stored version still equals prev.
// It reports false when another writer got there first. Documents written
// before versioning carry no field and count as version 0.
func replaceIfUnchanged(ctx context.Context, coll *mongo.Collection, id string, prev int64, doc interface{}) (bool, error) {
	filter := bson.M{"_id": id, "version": prev}
	if prev == 0 {
		filter["version"] = bson.M{"$in": bson.A{int64(0), nil}}
	}
	result, err := coll.ReplaceOne(ctx, filter, doc)
	if err != nil {
		return false, err
	}
	return result.MatchedCount == 1, nil
}

// findAll decodes every document matching filter, sorted ascending by sortKey.
func findAll[T any](ctx context.Context, coll *mongo.Collection, filter interface{}, sortKey string) ([]T, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: sortKey, Value: 1}})
	cursor, err := coll.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	out := []T{}
	if err = cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
