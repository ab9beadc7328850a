package api

import (
	"alcyxob/coach-platform/internal/domain"
	"alcyxob/coach-platform/internal/service"
	"alcyxob/coach-platform/internal/storage"
	"context"
	"time"

	"go.uber.org/zap"
)

// UserResponse excludes sensitive info like password hash
type UserResponse struct {
	ID                string               `json:"id"`
	Name              string               `json:"name"`
	Username          string               `json:"username"`
	Phone             string               `json:"phone,omitempty"`
	Role              domain.Role          `json:"role"`
	IsBlocked         bool                 `json:"isBlocked"`
	Category          string               `json:"category,omitempty"`
	StartDate         string               `json:"startDate,omitempty"`
	CurrentDay        int                  `json:"currentDay"`
	Streak            int                  `json:"streak"`
	Progress          int                  `json:"progress"`
	Weight            float64              `json:"weight"`
	Height            float64              `json:"height"`
	GoalWeight        float64              `json:"goalWeight"`
	Age               int                  `json:"age"`
	WeightHistory     []domain.WeightEntry `json:"weightHistory"`
	FavoriteRecipeIDs []string             `json:"favoriteRecipeIds"`
	CreatedAt         time.Time            `json:"createdAt"`
}

// MapUserToResponse converts a domain User to a UserResponse DTO. The plan is
// served separately.
func MapUserToResponse(user *domain.User) UserResponse {
	if user == nil {
		return UserResponse{}
	}
	resp := UserResponse{
		ID:                user.ID,
		Name:              user.Name,
		Username:          user.Username,
		Phone:             user.Phone,
		Role:              user.Role,
		IsBlocked:         user.IsBlocked,
		Category:          user.Category,
		StartDate:         user.StartDate,
		CurrentDay:        user.CurrentDay,
		Streak:            user.Streak,
		Progress:          user.Progress,
		Weight:            user.Weight,
		Height:            user.Height,
		GoalWeight:        user.GoalWeight,
		Age:               user.Age,
		WeightHistory:     user.WeightHistory,
		FavoriteRecipeIDs: user.FavoriteRecipeIDs,
		CreatedAt:         user.CreatedAt,
	}
	if resp.WeightHistory == nil {
		resp.WeightHistory = []domain.WeightEntry{}
	}
	if resp.FavoriteRecipeIDs == nil {
		resp.FavoriteRecipeIDs = []string{}
	}
	return resp
}

// MapUsersToResponse converts a slice of domain.User to UserResponse DTOs.
func MapUsersToResponse(users []domain.User) []UserResponse {
	out := make([]UserResponse, len(users))
	for i := range users {
		out[i] = MapUserToResponse(&users[i])
	}
	return out
}

// DayResponse is one plan day. IsCompleted is derived from the tasks;
// RecordedComplete is the stored flag.
type DayResponse struct {
	Day                 int           `json:"day"`
	Meals               []domain.Task `json:"meals"`
	Exercises           []domain.Task `json:"exercises"`
	VideoURL            string        `json:"videoUrl,omitempty"`
	MotivationalMessage string        `json:"motivationalMessage,omitempty"`
	IsCompleted         bool          `json:"isCompleted"`
	RecordedComplete    bool          `json:"recordedComplete"`
	Progress            int           `json:"progress"`
}

// CompletionResponse is the changed task plus its day.
type CompletionResponse struct {
	Task domain.Task `json:"task"`
	Day  DayResponse `json:"day"`
}

// urlResolver rewrites stored object URIs into fetchable URLs.
type urlResolver struct {
	files  storage.FileStorage
	logger *zap.Logger
}

// resolve returns a fetchable URL for uri. On failure the raw URI is kept.
func (r urlResolver) resolve(ctx context.Context, uri string) string {
	if uri == "" {
		return ""
	}
	url, err := r.files.ResolveURL(ctx, uri)
	if err != nil {
		r.logger.Warn("failed to resolve object url", zap.String("uri", uri), zap.Error(err))
		return uri
	}
	return url
}

func (r urlResolver) tasks(ctx context.Context, tasks []domain.Task) []domain.Task {
	out := make([]domain.Task, len(tasks))
	for i, t := range tasks {
		t.ProofImage = r.resolve(ctx, t.ProofImage)
		out[i] = t
	}
	return out
}

func (r urlResolver) day(ctx context.Context, d domain.DailyPlan) DayResponse {
	return DayResponse{
		Day:                 d.Day,
		Meals:               r.tasks(ctx, d.Meals),
		Exercises:           r.tasks(ctx, d.Exercises),
		VideoURL:            d.VideoURL,
		MotivationalMessage: d.MotivationalMessage,
		IsCompleted:         domain.DayCompletionCheck(d),
		RecordedComplete:    d.IsCompleted,
		Progress:            domain.DailyProgress(d),
	}
}

func (r urlResolver) completion(ctx context.Context, res *service.CompletionResult) CompletionResponse {
	task := res.Task
	task.ProofImage = r.resolve(ctx, task.ProofImage)
	return CompletionResponse{Task: task, Day: r.day(ctx, res.Day)}
}

func (r urlResolver) photos(ctx context.Context, photos []domain.ProgressPhoto) []domain.ProgressPhoto {
	out := make([]domain.ProgressPhoto, len(photos))
	for i, p := range photos {
		p.ImageURL = r.resolve(ctx, p.ImageURL)
		out[i] = p
	}
	return out
}
