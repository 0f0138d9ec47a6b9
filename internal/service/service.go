// Package service composes the repository, the authorization rules and the
// credential primitives into the application's use cases. Every exported
// method runs in exactly one store transaction.
package service

import (
	"context"
	"errors"
	"time"

	"bookshelf/internal/apperr"
	"bookshelf/internal/authz"
	"bookshelf/internal/repository"

	"go.uber.org/zap"
)

const (
	DefaultLimit = 10
	MaxLimit     = 100
)

// Tokens issues and resolves bearer tokens.
type Tokens interface {
	Issue(username string) (token string, expiresAt time.Time, err error)
	Resolve(token string) (*Claims, error)
}

// Revoker records the instant before which a user's tokens are void.
type Revoker interface {
	Revoke(ctx context.Context, username string, at time.Time) error
	RevokedAt(ctx context.Context, username string) (time.Time, error)
}

type Config struct {
	Store       repository.Store
	Tokens      Tokens
	Revocations Revoker
	Logger      *zap.Logger
	Now         func() time.Time
}

type Service struct {
	store   repository.Store
	tokens  Tokens
	revoker Revoker
	log     *zap.Logger
	now     func() time.Time
}

func New(cfg Config) *Service {
	s := &Service{
		store:   cfg.Store,
		tokens:  cfg.Tokens,
		revoker: cfg.Revocations,
		log:     cfg.Logger,
		now:     cfg.Now,
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// Page is an offset/limit window over a listing.
type Page struct {
	Skip  int
	Limit int
}

func (p Page) normalize() (Page, error) {
	if p.Skip < 0 {
		return p, apperr.Validation("skip must not be negative")
	}
	if p.Limit == 0 {
		p.Limit = DefaultLimit
	}
	if p.Limit < 1 || p.Limit > MaxLimit {
		return p, apperr.Validationf("limit must be between 1 and %d", MaxLimit)
	}
	return p, nil
}

func (s *Service) authorize(actor int, action authz.Action, target authz.Target) error {
	d := authz.Authorize(actor, action, target)
	if !d.Allowed {
		s.log.Debug("authorization denied",
			zap.Int("actor", actor),
			zap.Stringer("action", action),
			zap.String("reason", string(d.Reason)),
		)
	}
	return d.Err()
}

// finish passes application errors through unchanged and turns everything
// else into a single infrastructure failure.
func (s *Service) finish(op string, err error) error {
	if err == nil {
		return nil
	}
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		return err
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	s.log.Error("store failure", zap.String("op", op), zap.Error(err))
	return apperr.Internal(op+" failed", err)
}

// notFoundAs maps repository.ErrNotFound to a taxonomy error and leaves
// other errors alone.
func notFoundAs(err error, msg string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperr.NotFound(msg)
	}
	return err
}

// revoke 寫入撤銷標記；交易已提交，失敗只記錄不回傳
func (s *Service) revoke(ctx context.Context, username string) {
	if s.revoker == nil {
		return
	}
	if err := s.revoker.Revoke(ctx, username, s.now()); err != nil {
		s.log.Error("token revocation failed", zap.String("username", username), zap.Error(err))
	}
}
