package service

import (
	"alcyxob/coach-platform/internal/domain"
	"alcyxob/coach-platform/internal/repository"
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// --- Error Definitions ---
var (
	ErrTemplateNotFound     = errors.New("template not found")
	ErrTemplateNameRequired = errors.New("template name is required")
	ErrTemplateShape        = errors.New("template must keep exactly 30 days")
	ErrDayOutOfRange        = errors.New("day index out of range")
	ErrTaskNotFound         = errors.New("task not found")
	ErrTaskIDTaken          = errors.New("task id already used in this list")
	ErrInvalidTaskType      = errors.New("task type must be meal or exercise")
	ErrTaskTitleRequired    = errors.New("task title is required")
)

// TemplateService owns the catalog of 30-day plan templates.
// Day indexes are zero-based (0..29).
type TemplateService interface {
	CreateTemplate(ctx context.Context, name, description string) (*domain.PlanTemplate, error)
	GetTemplate(ctx context.Context, id string) (*domain.PlanTemplate, error)
	ListTemplates(ctx context.Context) ([]domain.PlanTemplate, error)
	// UpdateTemplate replaces the stored template with the mutated copy.
	// An unknown id is ignored and reported as success.
	UpdateTemplate(ctx context.Context, id string, mutate func(*domain.PlanTemplate) error) error
	RenameTemplate(ctx context.Context, id, name, description string) (*domain.PlanTemplate, error)
	AddTask(ctx context.Context, templateID string, dayIndex int, taskType domain.TaskType, task domain.Task) (*domain.Task, error)
	RemoveTask(ctx context.Context, templateID string, dayIndex int, taskType domain.TaskType, taskID string) error
	SetDayVideo(ctx context.Context, templateID string, dayIndex int, url string) error
}

type templateService struct {
	templateRepo repository.TemplateRepository
	logger       *zap.Logger
}

// NewTemplateService creates a new instance of templateService.
func NewTemplateService(templateRepo repository.TemplateRepository, logger *zap.Logger) TemplateService {
	return &templateService{
		templateRepo: templateRepo,
		logger:       logger,
	}
}

func (s *templateService) CreateTemplate(ctx context.Context, name, description string) (*domain.PlanTemplate, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrTemplateNameRequired
	}
	tpl := domain.NewPlanTemplate(uuid.NewString(), name, strings.TrimSpace(description))
	if err := s.templateRepo.Create(ctx, &tpl); err != nil {
		return nil, err
	}
	s.logger.Info("template created", zap.String("templateId", tpl.ID), zap.String("name", tpl.Name))
	return &tpl, nil
}

func (s *templateService) GetTemplate(ctx context.Context, id string) (*domain.PlanTemplate, error) {
	tpl, err := s.templateRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTemplateNotFound
		}
		return nil, err
	}
	return tpl, nil
}

func (s *templateService) ListTemplates(ctx context.Context) ([]domain.PlanTemplate, error) {
	return s.templateRepo.List(ctx)
}

// update runs mutate against the stored template and keeps the 30-day shape.
func (s *templateService) update(ctx context.Context, id string, mutate func(*domain.PlanTemplate) error) (*domain.PlanTemplate, error) {
	tpl, err := s.templateRepo.Update(ctx, id, func(t *domain.PlanTemplate) error {
		if err := mutate(t); err != nil {
			return err
		}
		if len(t.Days) != domain.PlanLength {
			return ErrTemplateShape
		}
		for i := range t.Days {
			t.Days[i].Day = i + 1
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTemplateNotFound
		}
		return nil, err
	}
	return tpl, nil
}

func (s *templateService) UpdateTemplate(ctx context.Context, id string, mutate func(*domain.PlanTemplate) error) error {
	_, err := s.update(ctx, id, mutate)
	if errors.Is(err, ErrTemplateNotFound) {
		s.logger.Debug("update of unknown template dropped", zap.String("templateId", id))
		return nil
	}
	return err
}

func (s *templateService) RenameTemplate(ctx context.Context, id, name, description string) (*domain.PlanTemplate, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrTemplateNameRequired
	}
	return s.update(ctx, id, func(t *domain.PlanTemplate) error {
		t.Name = name
		t.Description = strings.TrimSpace(description)
		return nil
	})
}

// dayAt bounds-checks a zero-based day index.
func dayAt(t *domain.PlanTemplate, dayIndex int) (*domain.DailyPlan, error) {
	if dayIndex < 0 || dayIndex >= len(t.Days) {
		return nil, ErrDayOutOfRange
	}
	return &t.Days[dayIndex], nil
}

// AddTask appends task to the day's meal or exercise list. A task without an
// id gets a generated one; its type always follows the list.
func (s *templateService) AddTask(ctx context.Context, templateID string, dayIndex int, taskType domain.TaskType, task domain.Task) (*domain.Task, error) {
	if !taskType.Valid() {
		return nil, ErrInvalidTaskType
	}
	if dayIndex < 0 || dayIndex >= domain.PlanLength {
		return nil, ErrDayOutOfRange
	}
	task.Title = strings.TrimSpace(task.Title)
	if task.Title == "" {
		return nil, ErrTaskTitleRequired
	}
	if task.ID == "" {
		task.ID = uuid.NewString()
	}
	task.Type = taskType
	// Templates carry no user progress.
	task.Completed = false
	task.ProofImage = ""
	task.ProofTimestamp = ""
	task.Status = ""

	_, err := s.update(ctx, templateID, func(t *domain.PlanTemplate) error {
		day, err := dayAt(t, dayIndex)
		if err != nil {
			return err
		}
		if day.FindTask(taskType, task.ID) >= 0 {
			return ErrTaskIDTaken
		}
		tasks := day.Tasks(taskType)
		*tasks = append(*tasks, task.Clone())
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &task, nil
}

func (s *templateService) RemoveTask(ctx context.Context, templateID string, dayIndex int, taskType domain.TaskType, taskID string) error {
	if !taskType.Valid() {
		return ErrInvalidTaskType
	}
	_, err := s.update(ctx, templateID, func(t *domain.PlanTemplate) error {
		day, err := dayAt(t, dayIndex)
		if err != nil {
			return err
		}
		i := day.FindTask(taskType, taskID)
		if i < 0 {
			return ErrTaskNotFound
		}
		tasks := day.Tasks(taskType)
		*tasks = append((*tasks)[:i], (*tasks)[i+1:]...)
		return nil
	})
	return err
}

func (s *templateService) SetDayVideo(ctx context.Context, templateID string, dayIndex int, url string) error {
	_, err := s.update(ctx, templateID, func(t *domain.PlanTemplate) error {
		day, err := dayAt(t, dayIndex)
		if err != nil {
			return err
		}
		day.VideoURL = strings.TrimSpace(url)
		return nil
	})
	return err
}
