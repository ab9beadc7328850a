package api

import (
	"alcyxob/coach-platform/internal/domain"
	"alcyxob/coach-platform/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// MarketHandler serves the product catalog and purchases.
type MarketHandler struct {
	marketService service.MarketplaceService
	logger        *zap.Logger
}

func NewMarketHandler(marketService service.MarketplaceService, logger *zap.Logger) *MarketHandler {
	return &MarketHandler{marketService: marketService, logger: logger}
}

type PurchaseRequest struct {
	PaymentMethod domain.PaymentMethod `json:"paymentMethod" binding:"required"`
}

// ListProducts handles ?type=.
func (h *MarketHandler) ListProducts(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	products, err := h.marketService.ListProducts(c.Request.Context(), userID, c.Query("type"))
	if err != nil {
		respondError(c, h.logger, err, "Failed to list products")
		return
	}
	c.JSON(http.StatusOK, products)
}

func (h *MarketHandler) Purchase(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	var req PurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	purchase, err := h.marketService.Purchase(c.Request.Context(), userID, c.Param("id"), req.PaymentMethod)
	if err != nil {
		respondError(c, h.logger, err, "Failed to record purchase")
		return
	}
	c.JSON(http.StatusCreated, purchase)
}

func (h *MarketHandler) ListPurchases(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	purchases, err := h.marketService.ListPurchases(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.logger, err, "Failed to list purchases")
		return
	}
	c.JSON(http.StatusOK, purchases)
}
