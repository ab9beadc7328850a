package service

import (
	"alcyxob/coach-platform/internal/domain"
	"alcyxob/coach-platform/internal/repository"
	"alcyxob/coach-platform/internal/storage"
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// --- Error Definitions ---
var (
	ErrProofRequired        = errors.New("proof image is required")
	ErrProofNotImage        = errors.New("proof must be an image")
	ErrProofAlreadyReviewed = errors.New("proof has already been reviewed")
	ErrProofStoreFailed     = errors.New("failed to store proof image")
)

// ProofTimeLayout is the wall-clock format of Task.ProofTimestamp.
const ProofTimeLayout = "15:04"

// Image is an uploaded picture: raw bytes and their MIME type.
type Image struct {
	Data        []byte
	ContentType string
}

func (img Image) validate() error {
	if len(img.Data) == 0 {
		return ErrProofRequired
	}
	if !strings.HasPrefix(strings.ToLower(img.ContentType), "image/") {
		return ErrProofNotImage
	}
	return nil
}

// extension derives a file extension from the MIME subtype ("image/jpeg" -> "jpeg").
func (img Image) extension() string {
	_, sub, ok := strings.Cut(img.ContentType, "/")
	if !ok || sub == "" {
		return "bin"
	}
	sub, _, _ = strings.Cut(sub, ";")
	return strings.TrimSpace(sub)
}

// DayView is one day of a user's plan with its derived state. DayComplete is
// computed from the tasks; Day.IsCompleted is the stored flag and is left
// untouched.
type DayView struct {
	Day         domain.DailyPlan `json:"day"`
	DayComplete bool             `json:"dayComplete"`
	Progress    int              `json:"progress"`
}

func newDayView(d domain.DailyPlan) DayView {
	return DayView{
		Day:         d,
		DayComplete: domain.DayCompletionCheck(d),
		Progress:    domain.DailyProgress(d),
	}
}

// CompletionResult is the changed task plus the day it lives in, so callers
// can react to the day becoming complete.
type CompletionResult struct {
	Task domain.Task `json:"task"`
	DayView
}

// CompletionService mutates task state inside one user's plan. Days are 1-based.
type CompletionService interface {
	GetDay(ctx context.Context, userID string, day int) (*DayView, error)
	CompleteExerciseTask(ctx context.Context, userID string, day int, taskID string) (*CompletionResult, error)
	SubmitMealProof(ctx context.Context, userID string, day int, taskID string, img Image) (*CompletionResult, error)
}

type completionService struct {
	userRepo    repository.UserRepository
	fileStorage storage.FileStorage
	now         Clock
	logger      *zap.Logger
}

// NewCompletionService creates a new instance of completionService.
func NewCompletionService(userRepo repository.UserRepository, fileStorage storage.FileStorage, now Clock, logger *zap.Logger) CompletionService {
	if now == nil {
		now = time.Now
	}
	return &completionService{
		userRepo:    userRepo,
		fileStorage: fileStorage,
		now:         now,
		logger:      logger,
	}
}

func (s *completionService) GetDay(ctx context.Context, userID string, day int) (*DayView, error) {
	user, err := getUser(ctx, s.userRepo, userID)
	if err != nil {
		return nil, err
	}
	d, ok := user.DayPlan(day)
	if !ok {
		return nil, ErrDayOutOfRange
	}
	view := newDayView(*d)
	return &view, nil
}

// mutateTask applies fn to the task of type t inside the user's day and
// returns the result. Nothing is stored when fn fails.
func (s *completionService) mutateTask(ctx context.Context, userID string, day int, t domain.TaskType, taskID string, fn func(*domain.Task) error) (*CompletionResult, error) {
	var result CompletionResult
	_, err := s.userRepo.Update(ctx, userID, func(u *domain.User) error {
		d, ok := u.DayPlan(day)
		if !ok {
			return ErrDayOutOfRange
		}
		i := d.FindTask(t, taskID)
		if i < 0 {
			return ErrTaskNotFound
		}
		task := &(*d.Tasks(t))[i]
		if err := fn(task); err != nil {
			return err
		}
		result = CompletionResult{Task: task.Clone(), DayView: newDayView(d.Clone())}
		return nil
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &result, nil
}

// CompleteExerciseTask marks an exercise done. Completing it again is a no-op.
func (s *completionService) CompleteExerciseTask(ctx context.Context, userID string, day int, taskID string) (*CompletionResult, error) {
	res, err := s.mutateTask(ctx, userID, day, domain.TaskTypeExercise, taskID, func(task *domain.Task) error {
		task.Completed = true
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Debug("exercise completed",
		zap.String("userId", userID), zap.Int("day", day), zap.String("taskId", taskID),
		zap.Bool("dayComplete", res.DayComplete))
	return res, nil
}

// proofEditable reports whether the user may (re)submit a proof for the task.
// Reviewed proofs are final.
func proofEditable(task domain.Task) bool {
	return task.Status == "" || task.Status == domain.ReviewPending
}

// SubmitMealProof stores the image, then marks the meal completed with the
// proof attached and review pending. If the plan update fails the stored
// image is deleted again.
func (s *completionService) SubmitMealProof(ctx context.Context, userID string, day int, taskID string, img Image) (*CompletionResult, error) {
	if err := img.validate(); err != nil {
		return nil, err
	}

	// Check the target first so a bad request never leaves an orphan object.
	user, err := getUser(ctx, s.userRepo, userID)
	if err != nil {
		return nil, err
	}
	d, ok := user.DayPlan(day)
	if !ok {
		return nil, ErrDayOutOfRange
	}
	i := d.FindTask(domain.TaskTypeMeal, taskID)
	if i < 0 {
		return nil, ErrTaskNotFound
	}
	if !proofEditable(d.Meals[i]) {
		return nil, ErrProofAlreadyReviewed
	}

	objectKey := path.Join("proofs", userID, fmt.Sprintf("day-%02d", day), fmt.Sprintf("%s.%s", uuid.NewString(), img.extension()))
	uri, err := s.fileStorage.Store(ctx, objectKey, img.ContentType, img.Data)
	if err != nil {
		s.logger.Error("failed to store proof", zap.String("key", objectKey), zap.Error(err))
		return nil, ErrProofStoreFailed
	}

	stamp := s.now().Format(ProofTimeLayout)
	res, err := s.mutateTask(ctx, userID, day, domain.TaskTypeMeal, taskID, func(task *domain.Task) error {
		if !proofEditable(*task) {
			return ErrProofAlreadyReviewed
		}
		task.Completed = true
		task.ProofImage = uri
		task.ProofTimestamp = stamp
		task.Status = domain.ReviewPending
		return nil
	})
	if err != nil {
		// Compensate: the object is useless without the task pointing at it.
		cleanupCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		if delErr := s.fileStorage.DeleteObject(cleanupCtx, objectKey); delErr != nil {
			s.logger.Error("failed to delete orphaned proof", zap.String("key", objectKey), zap.Error(delErr))
		}
		return nil, err
	}

	s.logger.Info("meal proof submitted",
		zap.String("userId", userID), zap.Int("day", day), zap.String("taskId", taskID),
		zap.Bool("dayComplete", res.DayComplete))
	return res, nil
}
