package service

import (
	"alcyxob/coach-platform/internal/domain"
	"alcyxob/coach-platform/internal/repository"
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// --- Error Definitions ---
var (
	ErrProductNotFound      = errors.New("product not found")
	ErrInvalidPaymentMethod = errors.New("payment method must be click, payme, payze or cash")
	ErrAlreadyPurchased     = errors.New("product already purchased")
)

// ProductView is a product annotated for one user.
type ProductView struct {
	domain.Product
	FormattedPrice string `json:"formattedPrice"`
	IsPurchased    bool   `json:"isPurchased"`
}

// MarketplaceService lists products and records purchases. Payment itself
// happens elsewhere; purchases start pending.
type MarketplaceService interface {
	ListProducts(ctx context.Context, userID string, productType string) ([]ProductView, error)
	Purchase(ctx context.Context, userID, productID string, method domain.PaymentMethod) (*domain.Purchase, error)
	ListPurchases(ctx context.Context, userID string) ([]domain.Purchase, error)
}

type marketplaceService struct {
	productRepo  repository.ProductRepository
	purchaseRepo repository.PurchaseRepository
	userRepo     repository.UserRepository
	logger       *zap.Logger
}

// NewMarketplaceService creates a new instance of marketplaceService.
func NewMarketplaceService(
	productRepo repository.ProductRepository,
	purchaseRepo repository.PurchaseRepository,
	userRepo repository.UserRepository,
	logger *zap.Logger,
) MarketplaceService {
	return &marketplaceService{
		productRepo:  productRepo,
		purchaseRepo: purchaseRepo,
		userRepo:     userRepo,
		logger:       logger,
	}
}

// purchasedSet returns the ids of products with a non-failed purchase.
func (s *marketplaceService) purchasedSet(ctx context.Context, userID string) (map[string]bool, error) {
	purchases, err := s.purchaseRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	set := make(map[string]bool, len(purchases))
	for _, p := range purchases {
		if p.Status != domain.PurchaseFailed {
			set[p.ProductID] = true
		}
	}
	return set, nil
}

// ListProducts returns products of productType ("all" or empty for every type).
func (s *marketplaceService) ListProducts(ctx context.Context, userID string, productType string) ([]ProductView, error) {
	products, err := s.productRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	purchased, err := s.purchasedSet(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := []ProductView{}
	for _, p := range products {
		if productType != "" && productType != FilterAll && string(p.Type) != productType {
			continue
		}
		out = append(out, ProductView{
			Product:        p,
			FormattedPrice: domain.FormatPrice(p.Price, p.Currency),
			IsPurchased:    purchased[p.ID],
		})
	}
	return out, nil
}

// Purchase records a pending purchase. The repository refuses a second live
// purchase of the same product, so concurrent requests record at most one.
func (s *marketplaceService) Purchase(ctx context.Context, userID, productID string, method domain.PaymentMethod) (*domain.Purchase, error) {
	if !method.Valid() {
		return nil, ErrInvalidPaymentMethod
	}
	if _, err := getUser(ctx, s.userRepo, userID); err != nil {
		return nil, err
	}
	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	purchase := &domain.Purchase{
		ID:            uuid.NewString(),
		UserID:        userID,
		ProductID:     product.ID,
		Amount:        product.Price,
		Currency:      product.Currency,
		PaymentMethod: method,
		Status:        domain.PurchasePending,
	}
	if err := s.purchaseRepo.Create(ctx, purchase); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrAlreadyPurchased
		}
		return nil, err
	}
	s.logger.Info("purchase recorded",
		zap.String("userId", userID),
		zap.String("productId", productID),
		zap.String("method", string(method)))
	return purchase, nil
}

func (s *marketplaceService) ListPurchases(ctx context.Context, userID string) ([]domain.Purchase, error) {
	return s.purchaseRepo.ListByUserID(ctx, userID)
}
