package api

import (
	"alcyxob/coach-platform/internal/domain"
	"alcyxob/coach-platform/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ApplicationHandler accepts landing page sign-ups. No auth.
type ApplicationHandler struct {
	applicationService service.ApplicationService
	logger             *zap.Logger
}

func NewApplicationHandler(applicationService service.ApplicationService, logger *zap.Logger) *ApplicationHandler {
	return &ApplicationHandler{applicationService: applicationService, logger: logger}
}

func (h *ApplicationHandler) Submit(c *gin.Context) {
	var form domain.Application
	if err := c.ShouldBindJSON(&form); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	res, err := h.applicationService.SubmitApplication(c.Request.Context(), form)
	if err != nil {
		respondError(c, h.logger, err, "Failed to submit application")
		return
	}
	c.JSON(http.StatusCreated, res)
}
