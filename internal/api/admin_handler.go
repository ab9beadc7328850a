package api

import (
	"alcyxob/coach-platform/internal/domain"
	"alcyxob/coach-platform/internal/service"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AdminHandler serves template editing and roster management.
type AdminHandler struct {
	templateService service.TemplateService
	rosterService   service.RosterService
	urls            urlResolver
	logger          *zap.Logger
}

func NewAdminHandler(
	templateService service.TemplateService,
	rosterService service.RosterService,
	urls urlResolver,
	logger *zap.Logger,
) *AdminHandler {
	return &AdminHandler{
		templateService: templateService,
		rosterService:   rosterService,
		urls:            urls,
		logger:          logger,
	}
}

// --- DTOs ---

type TemplateRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

type TaskRequest struct {
	ID           string   `json:"id"`
	Title        string   `json:"title" binding:"required"`
	Description  string   `json:"description"`
	Meta         string   `json:"meta"`
	Time         string   `json:"time"`
	VideoURL     string   `json:"videoUrl"`
	ImageURL     string   `json:"imageUrl"`
	Instructions []string `json:"instructions"`
}

type VideoRequest struct {
	VideoURL string `json:"videoUrl"`
}

type CreateUserRequest struct {
	Name       string  `json:"name" binding:"required"`
	Username   string  `json:"username" binding:"required"`
	Password   string  `json:"password" binding:"required"`
	Phone      string  `json:"phone"`
	Weight     float64 `json:"weight"`
	Height     float64 `json:"height"`
	GoalWeight float64 `json:"goalWeight"`
	Age        int     `json:"age"`
	TemplateID string  `json:"templateId" binding:"required"`
}

type AssignPlanRequest struct {
	TemplateID string `json:"templateId" binding:"required"`
}

type BlockRequest struct {
	Blocked *bool `json:"blocked" binding:"required"`
}

type RoleRequest struct {
	Role domain.Role `json:"role" binding:"required"`
}

type ProofResponse struct {
	Day  int         `json:"day"`
	Task domain.Task `json:"task"`
}

// dayIndexParam reads the 0-based :dayIndex path parameter.
func dayIndexParam(c *gin.Context) (int, bool) {
	i, err := strconv.Atoi(c.Param("dayIndex"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "dayIndex must be an integer")
		return 0, false
	}
	return i, true
}

// --- Templates ---

func (h *AdminHandler) ListTemplates(c *gin.Context) {
	templates, err := h.templateService.ListTemplates(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err, "Failed to list templates")
		return
	}
	c.JSON(http.StatusOK, templates)
}

func (h *AdminHandler) CreateTemplate(c *gin.Context) {
	var req TemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	tpl, err := h.templateService.CreateTemplate(c.Request.Context(), req.Name, req.Description)
	if err != nil {
		respondError(c, h.logger, err, "Failed to create template")
		return
	}
	c.JSON(http.StatusCreated, tpl)
}

func (h *AdminHandler) GetTemplate(c *gin.Context) {
	tpl, err := h.templateService.GetTemplate(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err, "Failed to get template")
		return
	}
	c.JSON(http.StatusOK, tpl)
}

func (h *AdminHandler) RenameTemplate(c *gin.Context) {
	var req TemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	tpl, err := h.templateService.RenameTemplate(c.Request.Context(), c.Param("id"), req.Name, req.Description)
	if err != nil {
		respondError(c, h.logger, err, "Failed to update template")
		return
	}
	c.JSON(http.StatusOK, tpl)
}

// AddTask appends a task to day :dayIndex (0-based) of the template.
func (h *AdminHandler) AddTask(c *gin.Context) {
	dayIndex, ok := dayIndexParam(c)
	if !ok {
		return
	}
	var req TaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	task, err := h.templateService.AddTask(c.Request.Context(), c.Param("id"), dayIndex,
		domain.TaskType(c.Param("taskType")),
		domain.Task{
			ID:           req.ID,
			Title:        req.Title,
			Description:  req.Description,
			Meta:         req.Meta,
			Time:         req.Time,
			VideoURL:     req.VideoURL,
			ImageURL:     req.ImageURL,
			Instructions: req.Instructions,
		})
	if err != nil {
		respondError(c, h.logger, err, "Failed to add task")
		return
	}
	c.JSON(http.StatusCreated, task)
}

func (h *AdminHandler) RemoveTask(c *gin.Context) {
	dayIndex, ok := dayIndexParam(c)
	if !ok {
		return
	}
	err := h.templateService.RemoveTask(c.Request.Context(), c.Param("id"), dayIndex,
		domain.TaskType(c.Param("taskType")), c.Param("taskId"))
	if err != nil {
		respondError(c, h.logger, err, "Failed to remove task")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *AdminHandler) SetDayVideo(c *gin.Context) {
	dayIndex, ok := dayIndexParam(c)
	if !ok {
		return
	}
	var req VideoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	if err := h.templateService.SetDayVideo(c.Request.Context(), c.Param("id"), dayIndex, req.VideoURL); err != nil {
		respondError(c, h.logger, err, "Failed to set day video")
		return
	}
	c.Status(http.StatusNoContent)
}

// --- Users ---

func (h *AdminHandler) ListUsers(c *gin.Context) {
	users, err := h.rosterService.ListUsers(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err, "Failed to list users")
		return
	}
	c.JSON(http.StatusOK, MapUsersToResponse(users))
}

func (h *AdminHandler) CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	user, err := h.rosterService.CreateUser(c.Request.Context(), service.NewUserFields{
		Name:       req.Name,
		Username:   req.Username,
		Password:   req.Password,
		Phone:      req.Phone,
		Weight:     req.Weight,
		Height:     req.Height,
		GoalWeight: req.GoalWeight,
		Age:        req.Age,
	}, req.TemplateID)
	if err != nil {
		respondError(c, h.logger, err, "Failed to create user")
		return
	}
	c.JSON(http.StatusCreated, MapUserToResponse(user))
}

// GetUser returns the profile together with the full plan.
func (h *AdminHandler) GetUser(c *gin.Context) {
	ctx := c.Request.Context()
	user, err := h.rosterService.GetUser(ctx, c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err, "Failed to get user")
		return
	}
	plan := make([]DayResponse, len(user.Plan))
	for i, d := range user.Plan {
		plan[i] = h.urls.day(ctx, d)
	}
	c.JSON(http.StatusOK, gin.H{"user": MapUserToResponse(user), "plan": plan})
}

func (h *AdminHandler) AssignPlan(c *gin.Context) {
	var req AssignPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	user, err := h.rosterService.AssignPlan(c.Request.Context(), c.Param("id"), req.TemplateID)
	if err != nil {
		respondError(c, h.logger, err, "Failed to assign plan")
		return
	}
	c.JSON(http.StatusOK, MapUserToResponse(user))
}

func (h *AdminHandler) SetBlocked(c *gin.Context) {
	var req BlockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	user, err := h.rosterService.SetBlocked(c.Request.Context(), c.Param("id"), *req.Blocked)
	if err != nil {
		respondError(c, h.logger, err, "Failed to update user")
		return
	}
	c.JSON(http.StatusOK, MapUserToResponse(user))
}

// SetRole is mounted behind RoleMiddleware(domain.RoleCreator).
func (h *AdminHandler) SetRole(c *gin.Context) {
	var req RoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	user, err := h.rosterService.SetRole(c.Request.Context(), c.Param("id"), req.Role)
	if err != nil {
		respondError(c, h.logger, err, "Failed to update role")
		return
	}
	c.JSON(http.StatusOK, MapUserToResponse(user))
}

func (h *AdminHandler) DeleteUser(c *gin.Context) {
	if err := h.rosterService.DeleteUser(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.logger, err, "Failed to delete user")
		return
	}
	c.Status(http.StatusNoContent)
}

// ListProofs feeds the admin proof gallery.
func (h *AdminHandler) ListProofs(c *gin.Context) {
	ctx := c.Request.Context()
	proofs, err := h.rosterService.ListProofs(ctx, c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err, "Failed to list proofs")
		return
	}
	out := make([]ProofResponse, len(proofs))
	for i, p := range proofs {
		task := p.Task
		task.ProofImage = h.urls.resolve(ctx, task.ProofImage)
		out[i] = ProofResponse{Day: p.Day, Task: task}
	}
	c.JSON(http.StatusOK, out)
}
