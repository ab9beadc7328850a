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

const (
	productCollectionName  = "products"
	purchaseCollectionName = "purchases"
)

// mongoProductRepository implements repository.ProductRepository
type mongoProductRepository struct {
	collection *mongo.Collection
}

// NewMongoProductRepository creates a new product repository backed by MongoDB.
func NewMongoProductRepository(db *mongo.Database) repository.ProductRepository {
	return &mongoProductRepository{
		collection: db.Collection(productCollectionName),
	}
}

func (r *mongoProductRepository) Create(ctx context.Context, product *domain.Product) error {
	if product.ID == "" || product.Name == "" {
		return errors.New("product id and name are required")
	}
	if product.CreatedAt.IsZero() {
		product.CreatedAt = time.Now().UTC()
	}
	if _, err := r.collection.InsertOne(ctx, product); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repository.ErrConflict
		}
		return err
	}
	return nil
}

func (r *mongoProductRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	var product domain.Product
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&product)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

func (r *mongoProductRepository) List(ctx context.Context) ([]domain.Product, error) {
	return findAll[domain.Product](ctx, r.collection, bson.M{}, "createdAt")
}

// mongoPurchaseRepository implements repository.PurchaseRepository
type mongoPurchaseRepository struct {
	collection *mongo.Collection
}

// NewMongoPurchaseRepository creates a new purchase repository backed by MongoDB.
func NewMongoPurchaseRepository(db *mongo.Database) repository.PurchaseRepository {
	return &mongoPurchaseRepository{
		collection: db.Collection(purchaseCollectionName),
	}
}

// Create records a purchase.
func (r *mongoPurchaseRepository) Create(ctx context.Context, purchase *domain.Purchase) error {
	if purchase.ID == "" || purchase.UserID == "" || purchase.ProductID == "" {
		return errors.New("purchase requires id, userId, and productId")
	}
	purchase.PurchasedAt = time.Now().UTC()

	if _, err := r.collection.InsertOne(ctx, purchase); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repository.ErrConflict
		}
		return err
	}
	return nil
}

// ListByUserID returns a user's purchases, oldest first.
func (r *mongoPurchaseRepository) ListByUserID(ctx context.Context, userID string) ([]domain.Purchase, error) {
	return findAll[domain.Purchase](ctx, r.collection, bson.M{"userId": userID}, "purchasedAt")
}

// EnsurePurchaseIndexes creates necessary indexes for the purchases collection.
func EnsurePurchaseIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "purchasedAt", Value: 1}},
			Options: options.Index(),
		},
		// One live purchase per user and product; failed ones may repeat.
		// $in in a partial filter needs MongoDB 6.0 or newer.
		{
			Keys: bson.D{{Key: "userId", Value: 1}, {Key: "productId", Value: 1}},
			Options: options.Index().
				SetName("live_purchase_unique").
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"status": bson.M{"$in": bson.A{
					domain.PurchasePending, domain.PurchaseCompleted,
				}}}),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
