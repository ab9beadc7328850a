package service

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// AttemptCounter is an expiring per-key counter. cache.RedisCache implements it.
type AttemptCounter interface {
	Incr(ctx context.Context, key string, ttl time.Duration) (int64, error)
	Count(ctx context.Context, key string) (int64, error)
	Delete(ctx context.Context, key string) error
}

// LoginGuard throttles repeated failed logins per username. Counter outages
// never block a login; they are logged and the guard lets the attempt through.
type LoginGuard interface {
	Allow(ctx context.Context, username string) bool
	RecordFailure(ctx context.Context, username string)
	Reset(ctx context.Context, username string)
}

type counterLoginGuard struct {
	counter     AttemptCounter
	maxFailures int64
	window      time.Duration
	logger      *zap.Logger
}

// NewLoginGuard returns a guard that refuses logins once maxFailures failures
// have been recorded within window. maxFailures <= 0 disables it.
func NewLoginGuard(counter AttemptCounter, maxFailures int, window time.Duration, logger *zap.Logger) LoginGuard {
	if counter == nil || maxFailures <= 0 {
		return NewNoopLoginGuard()
	}
	return &counterLoginGuard{
		counter:     counter,
		maxFailures: int64(maxFailures),
		window:      window,
		logger:      logger,
	}
}

// loginAttemptKey is case-sensitive, like roster usernames.
func loginAttemptKey(username string) string {
	return "login:failed:" + username
}

func (g *counterLoginGuard) Allow(ctx context.Context, username string) bool {
	n, err := g.counter.Count(ctx, loginAttemptKey(username))
	if err != nil {
		g.logger.Warn("login guard unavailable", zap.Error(err))
		return true
	}
	return n < g.maxFailures
}

func (g *counterLoginGuard) RecordFailure(ctx context.Context, username string) {
	n, err := g.counter.Incr(ctx, loginAttemptKey(username), g.window)
	if err != nil {
		g.logger.Warn("failed to record login failure", zap.Error(err))
		return
	}
	if n == g.maxFailures {
		g.logger.Warn("login locked", zap.String("username", username), zap.Duration("window", g.window))
	}
}

func (g *counterLoginGuard) Reset(ctx context.Context, username string) {
	if err := g.counter.Delete(ctx, loginAttemptKey(username)); err != nil {
		g.logger.Warn("failed to reset login failures", zap.Error(err))
	}
}

type noopLoginGuard struct{}

// NewNoopLoginGuard returns a guard that allows everything.
func NewNoopLoginGuard() LoginGuard { return noopLoginGuard{} }

func (noopLoginGuard) Allow(context.Context, string) bool { return true }
func (noopLoginGuard) RecordFailure(context.Context, string) {}
func (noopLoginGuard) Reset(context.Context, string) {}
