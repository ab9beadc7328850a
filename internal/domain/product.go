package domain

import (
	"fmt"
	"time"
)

// ProductType classifies marketplace products.
type ProductType string

const (
	ProductEbook       ProductType = "ebook"
	ProductVideoCourse ProductType = "video-course"
	ProductMealPlan    ProductType = "meal-plan"
	ProductWorkoutPlan ProductType = "workout-plan"
	ProductSupplement  ProductType = "supplement"
)

// Product is a marketplace item.
type Product struct {
	ID              string      `bson:"_id" json:"id"`
	Name            string      `bson:"name" json:"name"`
	Description     string      `bson:"description" json:"description"`
	Type            ProductType `bson:"type" json:"type"`
	Price           float64     `bson:"price" json:"price"`
	Currency        string      `bson:"currency" json:"currency"` // "UZS" or "USD"
	ImageURL        string      `bson:"imageUrl" json:"imageUrl"`
	PreviewImages   []string    `bson:"previewImages,omitempty" json:"previewImages,omitempty"`
	Features        []string    `bson:"features" json:"features"`
	DownloadURL     string      `bson:"downloadUrl,omitempty" json:"-"` // handed out only after purchase
	VideoPreviewURL string      `bson:"videoPreviewUrl,omitempty" json:"videoPreviewUrl,omitempty"`
	Rating          float64     `bson:"rating,omitempty" json:"rating,omitempty"`
	Reviews         int         `bson:"reviews,omitempty" json:"reviews,omitempty"`
	CreatedAt       time.Time   `bson:"createdAt" json:"createdAt"`
}

// Clone returns a copy of the product with its own slices.
func (p Product) Clone() Product {
	c := p
	c.PreviewImages = cloneStrings(p.PreviewImages)
	c.Features = cloneStrings(p.Features)
	return c
}

// FormatPrice renders a price the way the storefront shows it.
func FormatPrice(price float64, currency string) string {
	if currency == "UZS" {
		return fmt.Sprintf("%.0fK UZS", price/1000)
	}
	return fmt.Sprintf("$%g", price)
}

// PaymentMethod names the provider a purchase is paid with.
type PaymentMethod string

const (
	PaymentClick PaymentMethod = "click"
	PaymentPayme PaymentMethod = "payme"
	PaymentPayze PaymentMethod = "payze"
	PaymentCash  PaymentMethod = "cash"
)

// Valid reports whether m is a known payment method.
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentClick, PaymentPayme, PaymentPayze, PaymentCash:
		return true
	}
	return false
}

// PurchaseStatus type for purchase lifecycle
type PurchaseStatus string

const (
	PurchasePending   PurchaseStatus = "pending"
	PurchaseCompleted PurchaseStatus = "completed"
	PurchaseFailed    PurchaseStatus = "failed"
)

// Purchase records a user buying a product.
type Purchase struct {
	ID            string         `bson:"_id" json:"id"`
	UserID        string         `bson:"userId" json:"userId"`
	ProductID     string         `bson:"productId" json:"productId"`
	Amount        float64        `bson:"amount" json:"amount"`
	Currency      string         `bson:"currency" json:"currency"`
	PaymentMethod PaymentMethod  `bson:"paymentMethod" json:"paymentMethod"`
	Status        PurchaseStatus `bson:"status" json:"status"`
	PurchasedAt   time.Time      `bson:"purchasedAt" json:"purchasedAt"`
}
