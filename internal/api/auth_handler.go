package api

import (
	"alcyxob/coach-platform/internal/domain"
	"alcyxob/coach-platform/internal/service"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AuthHandler holds the authentication service dependency.
type AuthHandler struct {
	authService   service.AuthService
	rosterService service.RosterService
	logger        *zap.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService service.AuthService, rosterService service.RosterService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{authService: authService, rosterService: rosterService, logger: logger}
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token     string        `json:"token"`
	Role      domain.Role   `json:"role"`
	Subject   string        `json:"subject"`
	ExpiresAt time.Time     `json:"expiresAt"`
	User      *UserResponse `json:"user,omitempty"`
}

// Login godoc
// @Summary Log in a user or the creator
// @Tags Auth
// @Accept json
// @Produce json
// @Param credentials body LoginRequest true "Login credentials"
// @Success 200 {object} LoginResponse "Login successful"
// @Failure 401 {object} gin.H "Wrong login or password"
// @Failure 403 {object} gin.H "Account blocked"
// @Failure 429 {object} gin.H "Too many failed attempts"
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	res, err := h.authService.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondError(c, h.logger, err, "Could not process login")
		return
	}

	resp := LoginResponse{
		Token:     res.Token,
		Role:      res.Role,
		Subject:   res.Subject,
		ExpiresAt: res.ExpiresAt,
	}
	if res.User != nil {
		u := MapUserToResponse(res.User)
		resp.User = &u
	}
	c.JSON(http.StatusOK, resp)
}

// Me returns the caller's identity, plus the roster entry for non-creators.
func (h *AuthHandler) Me(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}
	role, _ := getUserRoleFromContext(c)
	if role == domain.RoleCreator {
		c.JSON(http.StatusOK, gin.H{"userId": userID, "role": role})
		return
	}

	user, err := h.rosterService.GetUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.logger, err, "Failed to load profile")
		return
	}
	c.JSON(http.StatusOK, gin.H{"userId": userID, "role": role, "user": MapUserToResponse(user)})
}
