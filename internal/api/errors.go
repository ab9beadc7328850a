package api

import (
	"alcyxob/coach-platform/internal/service"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// errorStatus maps service errors to HTTP status codes. Anything not listed
// is a 500.
var errorStatus = []struct {
	err    error
	status int
}{
	{service.ErrTemplateNotFound, http.StatusNotFound},
	{service.ErrUserNotFound, http.StatusNotFound},
	{service.ErrTaskNotFound, http.StatusNotFound},
	{service.ErrRecipeNotFound, http.StatusNotFound},
	{service.ErrExerciseNotFound, http.StatusNotFound},
	{service.ErrPhotoNotFound, http.StatusNotFound},
	{service.ErrProductNotFound, http.StatusNotFound},

	{service.ErrTemplateNameRequired, http.StatusBadRequest},
	{service.ErrTemplateShape, http.StatusBadRequest},
	{service.ErrDayOutOfRange, http.StatusBadRequest},
	{service.ErrInvalidTaskType, http.StatusBadRequest},
	{service.ErrTaskTitleRequired, http.StatusBadRequest},
	{service.ErrInvalidRole, http.StatusBadRequest},
	{service.ErrUserFieldsMissing, http.StatusBadRequest},
	{service.ErrProofRequired, http.StatusBadRequest},
	{service.ErrProofNotImage, http.StatusBadRequest},
	{service.ErrPhotoImage, http.StatusBadRequest},
	{service.ErrWeightRequired, http.StatusBadRequest},
	{service.ErrInvalidDate, http.StatusBadRequest},
	{service.ErrInvalidPaymentMethod, http.StatusBadRequest},
	{service.ErrApplicationFields, http.StatusBadRequest},

	{service.ErrUsernameTaken, http.StatusConflict},
	{service.ErrTaskIDTaken, http.StatusConflict},
	{service.ErrProofAlreadyReviewed, http.StatusConflict},
	{service.ErrAlreadyPurchased, http.StatusConflict},

	{service.ErrInvalidCredentials, http.StatusUnauthorized},
	{service.ErrInvalidToken, http.StatusUnauthorized},
	{service.ErrAccountBlocked, http.StatusForbidden},
	{service.ErrPhotoAccessDenied, http.StatusForbidden},
	{service.ErrTooManyAttempts, http.StatusTooManyRequests},
}

func statusFor(err error) int {
	for _, e := range errorStatus {
		if errors.Is(err, e.err) {
			return e.status
		}
	}
	return http.StatusInternalServerError
}

// respondError answers with the status mapped from err. Unmapped errors are
// logged and hidden behind fallback.
func respondError(c *gin.Context, logger *zap.Logger, err error, fallback string) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		logger.Error(fallback, zap.String("path", c.FullPath()), zap.Error(err))
		abortWithError(c, status, fallback)
		return
	}
	abortWithError(c, status, err.Error())
}
