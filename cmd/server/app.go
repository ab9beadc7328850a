package main

import (
	"alcyxob/coach-platform/internal/api"
	"alcyxob/coach-platform/internal/cache"
	"alcyxob/coach-platform/internal/config"
	"alcyxob/coach-platform/internal/fixtures"
	"alcyxob/coach-platform/internal/repository"
	"alcyxob/coach-platform/internal/repository/memory"
	"alcyxob/coach-platform/internal/repository/mongo"
	"alcyxob/coach-platform/internal/service"
	"alcyxob/coach-platform/internal/share"
	"alcyxob/coach-platform/internal/storage"
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// app is the wired server: repositories, storage, services and router.
type app struct {
	cfg     config.Config
	logger  *zap.Logger
	repos   repository.Repositories
	router  *gin.Engine
	closers []func()
}

func newApp(ctx context.Context, cfg config.Config, logger *zap.Logger) (*app, error) {
	a := &app{cfg: cfg, logger: logger}
	if err := a.initRepositories(ctx); err != nil {
		a.close()
		return nil, err
	}

	var fileStorage storage.FileStorage
	switch cfg.Storage.Driver {
	case config.DriverS3:
		s3, err := storage.NewS3Storage(ctx, cfg.S3, logger)
		if err != nil {
			a.close()
			return nil, fmt.Errorf("failed to initialize S3 storage: %w", err)
		}
		fileStorage = s3
	default:
		logger.Warn("using in-memory file storage; uploads are lost on restart")
		fileStorage = storage.NewMemoryStorage()
	}

	guard := service.NewNoopLoginGuard()
	if cfg.Redis.URL != "" {
		rc, err := cache.NewRedisCache(cfg.Redis.URL, logger)
		if err != nil {
			a.close()
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		a.closers = append(a.closers, func() { _ = rc.Close() })
		guard = service.NewLoginGuard(rc, cfg.Auth.MaxFailedLogins, cfg.Auth.LockoutWindow, logger)
	}

	svc := api.Services{
		Auth:         service.NewAuthService(a.repos.Users, cfg.Superuser, guard, cfg.JWT, logger),
		Templates:    service.NewTemplateService(a.repos.Templates, logger),
		Roster:       service.NewRosterService(a.repos.Users, a.repos.Templates, cfg.Superuser.Username, time.Now, logger),
		Completion:   service.NewCompletionService(a.repos.Users, fileStorage, time.Now, logger),
		Library:      service.NewLibraryService(a.repos.Recipes, a.repos.Exercises, a.repos.Users, logger),
		Progress:     service.NewProgressService(a.repos.ProgressPhotos, a.repos.Users, fileStorage, time.Now, logger),
		Marketplace:  service.NewMarketplaceService(a.repos.Products, a.repos.Purchases, a.repos.Users, logger),
		Applications: service.NewApplicationService(share.NewTelegramSharer(cfg.Share.TelegramAdmin, logger), cfg.Share.TelegramAdmin, logger),
		Files:        fileStorage,
	}

	if !cfg.Log.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	a.router = gin.New()
	a.router.Use(gin.Recovery(), api.RequestLogger(logger))
	a.router.MaxMultipartMemory = api.MaxImageBytes
	api.SetupRoutes(a.router, svc, logger)
	return a, nil
}

func (a *app) initRepositories(ctx context.Context) error {
	if a.cfg.Database.Driver != config.DriverMongo {
		a.logger.Warn("using in-memory repositories; data is lost on restart")
		a.repos = memory.NewRepositories()
		return nil
	}

	client, err := mongo.ConnectDB(a.cfg.Database.URI)
	if err != nil {
		return fmt.Errorf("could not connect to MongoDB: %w", err)
	}
	a.closers = append(a.closers, func() {
		if err := mongo.DisconnectDB(client); err != nil {
			a.logger.Error("failed to disconnect MongoDB", zap.Error(err))
		}
	})
	db := client.Database(a.cfg.Database.Name)
	a.repos = mongo.NewRepositories(db)

	// Index creation runs in the background; the server does not wait for it.
	go func() {
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), time.Minute)
		defer cancel()
		mongo.EnsureIndexes(ctx, db, a.logger)
	}()
	return nil
}

func (a *app) seed(ctx context.Context) error {
	if err := fixtures.Seed(ctx, a.repos, a.logger); err != nil {
		return fmt.Errorf("failed to seed fixtures: %w", err)
	}
	return nil
}

// close releases resources in reverse order of acquisition.
func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}
