package api

import (
	"alcyxob/coach-platform/internal/domain"
	"alcyxob/coach-platform/internal/service"
	"alcyxob/coach-platform/internal/storage"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Services is everything the HTTP layer calls into.
type Services struct {
	Auth         service.AuthService
	Templates    service.TemplateService
	Roster       service.RosterService
	Completion   service.CompletionService
	Library      service.LibraryService
	Progress     service.ProgressService
	Marketplace  service.MarketplaceService
	Applications service.ApplicationService
	Files        storage.FileStorage
}

func SetupRoutes(router *gin.Engine, svc Services, logger *zap.Logger) {
	urls := urlResolver{files: svc.Files, logger: logger}

	authHandler := NewAuthHandler(svc.Auth, svc.Roster, logger)
	adminHandler := NewAdminHandler(svc.Templates, svc.Roster, urls, logger)
	clientHandler := NewClientHandler(svc.Roster, svc.Completion, svc.Progress, urls, logger)
	libraryHandler := NewLibraryHandler(svc.Library, logger)
	marketHandler := NewMarketHandler(svc.Marketplace, logger)
	applicationHandler := NewApplicationHandler(svc.Applications, logger)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiV1 := router.Group("/api/v1")
	{
		apiV1.POST("/auth/login", authHandler.Login)
		apiV1.POST("/applications", applicationHandler.Submit)
	}

	protected := apiV1.Group("")
	protected.Use(AuthMiddleware(svc.Auth, svc.Roster, logger))
	{
		protected.GET("/me", authHandler.Me)

		// --- End user routes ---
		client := protected.Group("")
		client.Use(RoleMiddleware(domain.RoleUser, domain.RoleAdmin))
		{
			client.GET("/plan", clientHandler.GetPlan)
			client.GET("/plan/days/:day", clientHandler.GetDay)
			client.POST("/plan/days/:day/exercises/:taskId/complete", clientHandler.CompleteExercise)
			client.POST("/plan/days/:day/meals/:taskId/proof", clientHandler.SubmitMealProof)

			client.GET("/progress/photos", clientHandler.ListProgressPhotos)
			client.POST("/progress/photos", clientHandler.AddProgressPhoto)
			client.GET("/progress/compare", clientHandler.ComparePhotos)
			client.POST("/progress/weight", clientHandler.LogWeight)

			client.GET("/recipes", libraryHandler.SearchRecipes)
			client.GET("/recipes/:id", libraryHandler.GetRecipe)
			client.POST("/recipes/:id/favorite", libraryHandler.ToggleFavorite)
			client.POST("/shopping-list", libraryHandler.ShoppingList)
			client.GET("/exercises", libraryHandler.SearchExercises)
			client.GET("/exercises/:id", libraryHandler.GetExercise)

			client.GET("/products", marketHandler.ListProducts)
			client.POST("/products/:id/purchase", marketHandler.Purchase)
			client.GET("/purchases", marketHandler.ListPurchases)
		}

		// --- Admin routes ---
		admin := protected.Group("/admin")
		admin.Use(RoleMiddleware(domain.RoleAdmin, domain.RoleCreator))
		{
			admin.GET("/templates", adminHandler.ListTemplates)
			admin.POST("/templates", adminHandler.CreateTemplate)
			admin.GET("/templates/:id", adminHandler.GetTemplate)
			admin.PATCH("/templates/:id", adminHandler.RenameTemplate)
			admin.POST("/templates/:id/days/:dayIndex/tasks/:taskType", adminHandler.AddTask)
			admin.DELETE("/templates/:id/days/:dayIndex/tasks/:taskType/:taskId", adminHandler.RemoveTask)
			admin.PUT("/templates/:id/days/:dayIndex/video", adminHandler.SetDayVideo)

			admin.GET("/users", adminHandler.ListUsers)
			admin.POST("/users", adminHandler.CreateUser)
			admin.GET("/users/:id", adminHandler.GetUser)
			admin.DELETE("/users/:id", adminHandler.DeleteUser)
			admin.PUT("/users/:id/plan", adminHandler.AssignPlan)
			admin.PUT("/users/:id/blocked", adminHandler.SetBlocked)
			admin.PUT("/users/:id/role", RoleMiddleware(domain.RoleCreator), adminHandler.SetRole)
			admin.GET("/users/:id/proofs", adminHandler.ListProofs)
		}
	}
}
