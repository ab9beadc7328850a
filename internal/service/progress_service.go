package service

import (
	"alcyxob/coach-platform/internal/domain"
	"alcyxob/coach-platform/internal/repository"
	"alcyxob/coach-platform/internal/storage"
	"context"
	"errors"
	"fmt"
	"path"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// --- Error Definitions ---
var (
	ErrPhotoNotFound     = errors.New("progress photo not found")
	ErrPhotoAccessDenied = errors.New("progress photo belongs to another user")
	ErrPhotoImage        = errors.New("photo image is required")
	ErrWeightRequired    = errors.New("weight must be positive")
	ErrInvalidDate       = errors.New("date must be YYYY-MM-DD")
	ErrPhotoStoreFailed  = errors.New("failed to store progress photo")
)

// NewProgressPhoto is the user input of AddProgressPhoto. An empty Date means today.
type NewProgressPhoto struct {
	Date         string
	Image        Image
	Weight       float64
	Notes        string
	Measurements *domain.BodyMeasurement
}

// ProgressService tracks progress photos and body weight.
type ProgressService interface {
	AddProgressPhoto(ctx context.Context, userID string, in NewProgressPhoto) (*domain.ProgressPhoto, error)
	ListProgressPhotos(ctx context.Context, userID string) ([]domain.ProgressPhoto, error)
	ComparePhotos(ctx context.Context, userID, beforeID, afterID string) (*domain.PhotoComparison, error)
	LogWeight(ctx context.Context, userID, date string, weight float64) (*domain.User, error)
}

type progressService struct {
	photoRepo   repository.ProgressPhotoRepository
	userRepo    repository.UserRepository
	fileStorage storage.FileStorage
	now         Clock
	logger      *zap.Logger
}

// NewProgressService creates a new instance of progressService.
func NewProgressService(
	photoRepo repository.ProgressPhotoRepository,
	userRepo repository.UserRepository,
	fileStorage storage.FileStorage,
	now Clock,
	logger *zap.Logger,
) ProgressService {
	if now == nil {
		now = time.Now
	}
	return &progressService{
		photoRepo:   photoRepo,
		userRepo:    userRepo,
		fileStorage: fileStorage,
		now:         now,
		logger:      logger,
	}
}

// normalizeDate defaults to today and validates the layout.
func (s *progressService) normalizeDate(date string) (string, error) {
	if date == "" {
		return s.now().Format(domain.PhotoDateLayout), nil
	}
	if _, err := time.Parse(domain.PhotoDateLayout, date); err != nil {
		return "", ErrInvalidDate
	}
	return date, nil
}

func (s *progressService) AddProgressPhoto(ctx context.Context, userID string, in NewProgressPhoto) (*domain.ProgressPhoto, error) {
	if err := in.Image.validate(); err != nil {
		return nil, ErrPhotoImage
	}
	if in.Weight <= 0 {
		return nil, ErrWeightRequired
	}
	date, err := s.normalizeDate(in.Date)
	if err != nil {
		return nil, err
	}
	if _, err := getUser(ctx, s.userRepo, userID); err != nil {
		return nil, err
	}

	photoID := uuid.NewString()
	objectKey := path.Join("progress", userID, fmt.Sprintf("%s.%s", photoID, in.Image.extension()))
	uri, err := s.fileStorage.Store(ctx, objectKey, in.Image.ContentType, in.Image.Data)
	if err != nil {
		s.logger.Error("failed to store progress photo", zap.String("key", objectKey), zap.Error(err))
		return nil, ErrPhotoStoreFailed
	}

	photo := &domain.ProgressPhoto{
		ID:       photoID,
		UserID:   userID,
		Date:     date,
		ImageURL: uri,
		Weight:   in.Weight,
		Notes:    in.Notes,
	}
	if in.Measurements != nil && !in.Measurements.Empty() {
		m := *in.Measurements
		photo.Measurements = &m
	}
	if err := s.photoRepo.Create(ctx, photo); err != nil {
		cleanupCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		if delErr := s.fileStorage.DeleteObject(cleanupCtx, objectKey); delErr != nil {
			s.logger.Error("failed to delete orphaned progress photo", zap.String("key", objectKey), zap.Error(delErr))
		}
		return nil, err
	}
	s.logger.Info("progress photo added", zap.String("userId", userID), zap.String("photoId", photoID))
	return photo, nil
}

func (s *progressService) ListProgressPhotos(ctx context.Context, userID string) ([]domain.ProgressPhoto, error) {
	return s.photoRepo.ListByUserID(ctx, userID)
}

func (s *progressService) ownPhoto(ctx context.Context, userID, photoID string) (*domain.ProgressPhoto, error) {
	p, err := s.photoRepo.GetByID(ctx, photoID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPhotoNotFound
		}
		return nil, err
	}
	if p.UserID != userID {
		return nil, ErrPhotoAccessDenied
	}
	return p, nil
}

// ComparePhotos diffs two of the user's photos, before minus after.
func (s *progressService) ComparePhotos(ctx context.Context, userID, beforeID, afterID string) (*domain.PhotoComparison, error) {
	before, err := s.ownPhoto(ctx, userID, beforeID)
	if err != nil {
		return nil, err
	}
	after, err := s.ownPhoto(ctx, userID, afterID)
	if err != nil {
		return nil, err
	}
	cmp, err := domain.ComparePhotos(*before, *after)
	if err != nil {
		return nil, ErrInvalidDate
	}
	return &cmp, nil
}

// LogWeight appends to the weight history and updates the current weight.
func (s *progressService) LogWeight(ctx context.Context, userID, date string, weight float64) (*domain.User, error) {
	if weight <= 0 {
		return nil, ErrWeightRequired
	}
	date, err := s.normalizeDate(date)
	if err != nil {
		return nil, err
	}
	user, err := s.userRepo.Update(ctx, userID, func(u *domain.User) error {
		u.WeightHistory = append(u.WeightHistory, domain.WeightEntry{Date: date, Weight: weight})
		u.Weight = weight
		return nil
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	user.PasswordHash = ""
	return user, nil
}
