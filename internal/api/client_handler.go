package api

import (
	"alcyxob/coach-platform/internal/domain"
	"alcyxob/coach-platform/internal/service"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// MaxImageBytes caps uploaded proof and progress images.
const MaxImageBytes = 10 << 20

// ClientHandler serves the end user's own plan and progress.
type ClientHandler struct {
	rosterService     service.RosterService
	completionService service.CompletionService
	progressService   service.ProgressService
	urls              urlResolver
	logger            *zap.Logger
}

func NewClientHandler(
	rosterService service.RosterService,
	completionService service.CompletionService,
	progressService service.ProgressService,
	urls urlResolver,
	logger *zap.Logger,
) *ClientHandler {
	return &ClientHandler{
		rosterService:     rosterService,
		completionService: completionService,
		progressService:   progressService,
		urls:              urls,
		logger:            logger,
	}
}

type WeightRequest struct {
	Date   string  `json:"date"`
	Weight float64 `json:"weight" binding:"required"`
}

// callerID reads the authenticated user id or aborts the request.
func callerID(c *gin.Context) (string, bool) {
	id, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return "", false
	}
	return id, true
}

// dayParam reads the 1-based :day path parameter.
func dayParam(c *gin.Context) (int, bool) {
	day, err := strconv.Atoi(c.Param("day"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "day must be an integer")
		return 0, false
	}
	return day, true
}

// readImage loads the multipart "image" file.
func readImage(c *gin.Context) (service.Image, bool) {
	fh, err := c.FormFile("image")
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "image file is required")
		return service.Image{}, false
	}
	if fh.Size > MaxImageBytes {
		abortWithError(c, http.StatusRequestEntityTooLarge, fmt.Sprintf("image exceeds %d bytes", MaxImageBytes))
		return service.Image{}, false
	}
	f, err := fh.Open()
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "failed to read image")
		return service.Image{}, false
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, MaxImageBytes+1))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "failed to read image")
		return service.Image{}, false
	}
	contentType := fh.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(data)
	}
	return service.Image{Data: data, ContentType: contentType}, true
}

// GetPlan returns every day of the caller's plan.
func (h *ClientHandler) GetPlan(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	user, err := h.rosterService.GetUser(ctx, userID)
	if err != nil {
		respondError(c, h.logger, err, "Failed to load plan")
		return
	}
	days := make([]DayResponse, len(user.Plan))
	for i, d := range user.Plan {
		days[i] = h.urls.day(ctx, d)
	}
	c.JSON(http.StatusOK, gin.H{
		"currentDay": user.CurrentDay,
		"category":   user.Category,
		"days":       days,
	})
}

func (h *ClientHandler) GetDay(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	day, ok := dayParam(c)
	if !ok {
		return
	}
	view, err := h.completionService.GetDay(c.Request.Context(), userID, day)
	if err != nil {
		respondError(c, h.logger, err, "Failed to load day")
		return
	}
	c.JSON(http.StatusOK, h.urls.day(c.Request.Context(), view.Day))
}

func (h *ClientHandler) CompleteExercise(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	day, ok := dayParam(c)
	if !ok {
		return
	}
	res, err := h.completionService.CompleteExerciseTask(c.Request.Context(), userID, day, c.Param("taskId"))
	if err != nil {
		respondError(c, h.logger, err, "Failed to complete exercise")
		return
	}
	c.JSON(http.StatusOK, h.urls.completion(c.Request.Context(), res))
}

// SubmitMealProof accepts a multipart "image" for a meal task.
func (h *ClientHandler) SubmitMealProof(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	day, ok := dayParam(c)
	if !ok {
		return
	}
	img, ok := readImage(c)
	if !ok {
		return
	}
	res, err := h.completionService.SubmitMealProof(c.Request.Context(), userID, day, c.Param("taskId"), img)
	if err != nil {
		respondError(c, h.logger, err, "Failed to submit proof")
		return
	}
	c.JSON(http.StatusOK, h.urls.completion(c.Request.Context(), res))
}

// --- Progress ---

func (h *ClientHandler) ListProgressPhotos(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	photos, err := h.progressService.ListProgressPhotos(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.logger, err, "Failed to list progress photos")
		return
	}
	c.JSON(http.StatusOK, h.urls.photos(c.Request.Context(), photos))
}

// optionalFloat parses a form value; empty means unset.
func optionalFloat(c *gin.Context, key string) (*float64, error) {
	raw := c.PostForm(key)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, fmt.Errorf("%s must be a number", key)
	}
	return &v, nil
}

// AddProgressPhoto accepts multipart fields image, weight, date, notes and
// the optional measurements chest, waist, hips, arms, thighs.
func (h *ClientHandler) AddProgressPhoto(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	img, ok := readImage(c)
	if !ok {
		return
	}
	weight, err := strconv.ParseFloat(c.PostForm("weight"), 64)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, service.ErrWeightRequired.Error())
		return
	}

	var m domain.BodyMeasurement
	for key, dst := range map[string]**float64{
		"chest": &m.Chest, "waist": &m.Waist, "hips": &m.Hips, "arms": &m.Arms, "thighs": &m.Thighs,
	} {
		v, err := optionalFloat(c, key)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, err.Error())
			return
		}
		*dst = v
	}

	photo, err := h.progressService.AddProgressPhoto(c.Request.Context(), userID, service.NewProgressPhoto{
		Date:         c.PostForm("date"),
		Image:        img,
		Weight:       weight,
		Notes:        c.PostForm("notes"),
		Measurements: &m,
	})
	if err != nil {
		respondError(c, h.logger, err, "Failed to add progress photo")
		return
	}
	photo.ImageURL = h.urls.resolve(c.Request.Context(), photo.ImageURL)
	c.JSON(http.StatusCreated, photo)
}

// ComparePhotos diffs ?before=<id>&after=<id>.
func (h *ClientHandler) ComparePhotos(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	before, after := c.Query("before"), c.Query("after")
	if before == "" || after == "" {
		abortWithError(c, http.StatusBadRequest, "before and after are required")
		return
	}
	ctx := c.Request.Context()
	cmp, err := h.progressService.ComparePhotos(ctx, userID, before, after)
	if err != nil {
		respondError(c, h.logger, err, "Failed to compare photos")
		return
	}
	cmp.Before.ImageURL = h.urls.resolve(ctx, cmp.Before.ImageURL)
	cmp.After.ImageURL = h.urls.resolve(ctx, cmp.After.ImageURL)
	c.JSON(http.StatusOK, cmp)
}

func (h *ClientHandler) LogWeight(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	var req WeightRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	user, err := h.progressService.LogWeight(c.Request.Context(), userID, req.Date, req.Weight)
	if err != nil {
		respondError(c, h.logger, err, "Failed to log weight")
		return
	}
	c.JSON(http.StatusOK, MapUserToResponse(user))
}
