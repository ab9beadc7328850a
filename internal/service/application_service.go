package service

import (
	"alcyxob/coach-platform/internal/domain"
	"alcyxob/coach-platform/internal/share"
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
)

var ErrApplicationFields = errors.New("first name and phone are required")

// SubmittedApplication is what the landing page gets back: the message text
// and the links that open it in Telegram.
type SubmittedApplication struct {
	Text     string `json:"text"`
	ShareURL string `json:"shareUrl"`
	AdminURL string `json:"adminUrl"`
}

// ApplicationService accepts landing page sign-ups.
type ApplicationService interface {
	SubmitApplication(ctx context.Context, form domain.Application) (*SubmittedApplication, error)
}

type applicationService struct {
	sharer share.Sharer
	admin  string
	logger *zap.Logger
}

// NewApplicationService creates a new instance of applicationService.
func NewApplicationService(sharer share.Sharer, adminHandle string, logger *zap.Logger) ApplicationService {
	return &applicationService{sharer: sharer, admin: adminHandle, logger: logger}
}

func (s *applicationService) SubmitApplication(ctx context.Context, form domain.Application) (*SubmittedApplication, error) {
	form.FirstName = strings.TrimSpace(form.FirstName)
	form.Phone = strings.TrimSpace(form.Phone)
	if form.FirstName == "" || form.Phone == "" {
		return nil, ErrApplicationFields
	}

	text := form.Text()
	s.sharer.ShareExternally(ctx, text)

	return &SubmittedApplication{
		Text:     text,
		ShareURL: share.TelegramShareURL(text),
		AdminURL: share.TelegramChatURL(s.admin),
	}, nil
}
