package api

import (
	"alcyxob/coach-platform/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// LibraryHandler serves recipes, favorites, the shopping list and exercises.
type LibraryHandler struct {
	libraryService service.LibraryService
	logger         *zap.Logger
}

func NewLibraryHandler(libraryService service.LibraryService, logger *zap.Logger) *LibraryHandler {
	return &LibraryHandler{libraryService: libraryService, logger: logger}
}

type ShoppingListRequest struct {
	RecipeIDs []string `json:"recipeIds" binding:"required"`
}

// SearchRecipes handles ?q=&category=.
func (h *LibraryHandler) SearchRecipes(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	recipes, err := h.libraryService.SearchRecipes(c.Request.Context(), userID, c.Query("q"), c.Query("category"))
	if err != nil {
		respondError(c, h.logger, err, "Failed to search recipes")
		return
	}
	c.JSON(http.StatusOK, recipes)
}

func (h *LibraryHandler) GetRecipe(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	recipe, err := h.libraryService.GetRecipe(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err, "Failed to get recipe")
		return
	}
	c.JSON(http.StatusOK, recipe)
}

func (h *LibraryHandler) ToggleFavorite(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	recipeID := c.Param("id")
	fav, err := h.libraryService.ToggleFavorite(c.Request.Context(), userID, recipeID)
	if err != nil {
		respondError(c, h.logger, err, "Failed to update favorites")
		return
	}
	c.JSON(http.StatusOK, gin.H{"recipeId": recipeID, "isFavorite": fav})
}

func (h *LibraryHandler) ShoppingList(c *gin.Context) {
	var req ShoppingListRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	list, err := h.libraryService.ShoppingList(c.Request.Context(), req.RecipeIDs)
	if err != nil {
		respondError(c, h.logger, err, "Failed to build shopping list")
		return
	}
	c.JSON(http.StatusOK, list)
}

// SearchExercises handles ?q=&muscleGroup=&difficulty=; grouped=true returns
// the result grouped by muscle group.
func (h *LibraryHandler) SearchExercises(c *gin.Context) {
	exercises, err := h.libraryService.SearchExercises(c.Request.Context(), c.Query("q"), c.Query("muscleGroup"), c.Query("difficulty"))
	if err != nil {
		respondError(c, h.logger, err, "Failed to search exercises")
		return
	}
	if c.Query("grouped") == "true" {
		c.JSON(http.StatusOK, service.GroupExercisesByMuscle(exercises))
		return
	}
	c.JSON(http.StatusOK, exercises)
}

func (h *LibraryHandler) GetExercise(c *gin.Context) {
	exercise, err := h.libraryService.GetExercise(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err, "Failed to get exercise")
		return
	}
	c.JSON(http.StatusOK, exercise)
}
