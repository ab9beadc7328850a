// Package share hands finished texts to an external messaging target.
package share

import (
	"context"
	"net/url"
	"strings"

	"go.uber.org/zap"
)

// Sharer delivers a text to an external target. Delivery is fire-and-forget:
// there is nothing for the caller to act on afterwards.
type Sharer interface {
	ShareExternally(ctx context.Context, text string)
}

// TelegramShareURL builds the t.me share link that opens a composer with text
// pre-filled.
func TelegramShareURL(text string) string {
	// Spaces as %20, the way browsers encode URI components.
	return "https://t.me/share/url?text=" + strings.ReplaceAll(url.QueryEscape(text), "+", "%20")
}

// TelegramChatURL links to a Telegram user or channel by handle.
func TelegramChatURL(handle string) string {
	return "https://t.me/" + strings.TrimPrefix(handle, "@")
}

// TelegramSharer records texts addressed to the admin handle. The client opens
// the share link itself; the server keeps a log line per submission.
type TelegramSharer struct {
	admin  string
	logger *zap.Logger
}

// NewTelegramSharer creates a Sharer targeting the given admin handle.
func NewTelegramSharer(admin string, logger *zap.Logger) *TelegramSharer {
	return &TelegramSharer{admin: admin, logger: logger}
}

func (s *TelegramSharer) ShareExternally(ctx context.Context, text string) {
	s.logger.Info("application shared",
		zap.String("target", TelegramChatURL(s.admin)),
		zap.Int("length", len(text)))
}

// Admin returns the admin handle texts are addressed to.
func (s *TelegramSharer) Admin() string {
	return s.admin
}
