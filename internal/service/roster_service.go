package service

import (
	"alcyxob/coach-platform/internal/domain"
	"alcyxob/coach-platform/internal/repository"
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// --- Error Definitions ---
var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUsernameTaken     = errors.New("username is already taken")
	ErrInvalidRole       = errors.New("role must be user or admin")
	ErrUserFieldsMissing = errors.New("name, username and password are required")
	ErrHashingFailed     = errors.New("failed to hash password")
)

// Clock returns the current time. Services take one so tests can pin it.
type Clock func() time.Time

// NewUserFields is the admin-supplied part of a new roster entry.
type NewUserFields struct {
	Name       string
	Username   string
	Password   string
	Phone      string
	Weight     float64
	Height     float64
	GoalWeight float64
	Age        int
}

// Proof is a meal task carrying a proof image, located by its 1-based day.
type Proof struct {
	Day  int         `json:"day"`
	Task domain.Task `json:"task"`
}

// RosterService manages roster membership and plan assignment.
type RosterService interface {
	CreateUser(ctx context.Context, fields NewUserFields, templateID string) (*domain.User, error)
	AssignPlan(ctx context.Context, userID, templateID string) (*domain.User, error)
	SetBlocked(ctx context.Context, userID string, blocked bool) (*domain.User, error)
	SetRole(ctx context.Context, userID string, role domain.Role) (*domain.User, error)
	DeleteUser(ctx context.Context, userID string) error
	GetUser(ctx context.Context, userID string) (*domain.User, error)
	ListUsers(ctx context.Context) ([]domain.User, error)
	ListProofs(ctx context.Context, userID string) ([]Proof, error)
}

type rosterService struct {
	userRepo     repository.UserRepository
	templateRepo repository.TemplateRepository
	reserved     string // superuser name, never a roster entry
	now          Clock
	logger       *zap.Logger
}

// NewRosterService creates a new instance of rosterService. reservedUsername
// is refused for roster entries.
func NewRosterService(
	userRepo repository.UserRepository,
	templateRepo repository.TemplateRepository,
	reservedUsername string,
	now Clock,
	logger *zap.Logger,
) RosterService {
	if now == nil {
		now = time.Now
	}
	return &rosterService{
		userRepo:     userRepo,
		templateRepo: templateRepo,
		reserved:     reservedUsername,
		now:          now,
		logger:       logger,
	}
}

func (s *rosterService) getTemplate(ctx context.Context, templateID string) (*domain.PlanTemplate, error) {
	tpl, err := s.templateRepo.GetByID(ctx, templateID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTemplateNotFound
		}
		return nil, err
	}
	return tpl, nil
}

// CreateUser adds a user whose plan is an independent copy of the template's
// days. Nothing is written when the template does not resolve.
func (s *rosterService) CreateUser(ctx context.Context, fields NewUserFields, templateID string) (*domain.User, error) {
	fields.Name = strings.TrimSpace(fields.Name)
	fields.Username = strings.TrimSpace(fields.Username)
	if fields.Name == "" || fields.Username == "" || fields.Password == "" {
		return nil, ErrUserFieldsMissing
	}
	if s.reserved != "" && fields.Username == s.reserved {
		return nil, ErrUsernameTaken
	}

	tpl, err := s.getTemplate(ctx, templateID)
	if err != nil {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(fields.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, ErrHashingFailed
	}

	user := &domain.User{
		ID:            uuid.NewString(),
		Name:          fields.Name,
		Username:      fields.Username,
		PasswordHash:  string(hashedPassword),
		Phone:         strings.TrimSpace(fields.Phone),
		Role:          domain.RoleUser,
		IsBlocked:     false,
		Category:      tpl.Name,
		StartDate:     s.now().Format(domain.PhotoDateLayout),
		CurrentDay:    1,
		Streak:        0,
		Progress:      0,
		Weight:        fields.Weight,
		Height:        fields.Height,
		GoalWeight:    fields.GoalWeight,
		Age:           fields.Age,
		Plan:          domain.CloneDays(tpl.Days),
		WeightHistory: []domain.WeightEntry{},
		Messages:      []domain.Message{},
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrUsernameTaken
		}
		return nil, err
	}
	s.logger.Info("user created",
		zap.String("userId", user.ID),
		zap.String("username", user.Username),
		zap.String("templateId", tpl.ID))

	user.PasswordHash = ""
	return user, nil
}

// AssignPlan replaces the user's plan with a fresh copy of the template and
// restarts at day 1. Weight, streak, role and block state are kept.
func (s *rosterService) AssignPlan(ctx context.Context, userID, templateID string) (*domain.User, error) {
	tpl, err := s.getTemplate(ctx, templateID)
	if err != nil {
		return nil, err
	}
	user, err := s.updateUser(ctx, userID, func(u *domain.User) error {
		u.Plan = domain.CloneDays(tpl.Days)
		u.Category = tpl.Name
		u.CurrentDay = 1
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("plan assigned", zap.String("userId", userID), zap.String("templateId", templateID))
	return user, nil
}

func (s *rosterService) SetBlocked(ctx context.Context, userID string, blocked bool) (*domain.User, error) {
	user, err := s.updateUser(ctx, userID, func(u *domain.User) error {
		u.IsBlocked = blocked
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("user block state changed", zap.String("userId", userID), zap.Bool("blocked", blocked))
	return user, nil
}

func (s *rosterService) SetRole(ctx context.Context, userID string, role domain.Role) (*domain.User, error) {
	if !role.Assignable() {
		return nil, ErrInvalidRole
	}
	return s.updateUser(ctx, userID, func(u *domain.User) error {
		u.Role = role
		return nil
	})
}

func (s *rosterService) DeleteUser(ctx context.Context, userID string) error {
	if err := s.userRepo.Delete(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	s.logger.Info("user deleted", zap.String("userId", userID))
	return nil
}

func (s *rosterService) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	user, err := getUser(ctx, s.userRepo, userID)
	if err != nil {
		return nil, err
	}
	user.PasswordHash = ""
	return user, nil
}

func (s *rosterService) ListUsers(ctx context.Context) ([]domain.User, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		users[i].PasswordHash = ""
	}
	return users, nil
}

// ListProofs returns every meal task with a proof image, in day order.
func (s *rosterService) ListProofs(ctx context.Context, userID string) ([]Proof, error) {
	user, err := getUser(ctx, s.userRepo, userID)
	if err != nil {
		return nil, err
	}
	proofs := []Proof{}
	for _, day := range user.Plan {
		for _, meal := range day.Meals {
			if meal.HasProof() {
				proofs = append(proofs, Proof{Day: day.Day, Task: meal.Clone()})
			}
		}
	}
	return proofs, nil
}

func (s *rosterService) updateUser(ctx context.Context, userID string, mutate func(*domain.User) error) (*domain.User, error) {
	user, err := s.userRepo.Update(ctx, userID, mutate)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	user.PasswordHash = ""
	return user, nil
}

// getUser loads a user and maps a missing id to ErrUserNotFound.
func getUser(ctx context.Context, repo repository.UserRepository, userID string) (*domain.User, error) {
	user, err := repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}
