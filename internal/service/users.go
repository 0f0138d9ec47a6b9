package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"bookshelf/internal/apperr"
	"bookshelf/internal/authz"
	"bookshelf/internal/model"
	"bookshelf/internal/repository"

	"go.uber.org/zap"
)

const TokenType = "bearer"

type Token struct {
	AccessToken string
	TokenType   string
	ExpiresAt   time.Time
}

func (s *Service) Register(ctx context.Context, username, password string) (*model.User, error) {
	if strings.TrimSpace(username) == "" {
		return nil, apperr.Validation("username is required")
	}
	if err := checkPassword("password", password); err != nil {
		return nil, err
	}
	hash, err := HashPassword(password)
	if err != nil {
		return nil, s.finish("register", err)
	}

	var user *model.User
	err = s.store.WithTx(ctx, func(repo repository.Repository) error {
		_, err := repo.GetUserByName(ctx, username)
		if err == nil {
			return apperr.Conflict("username already registered")
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return err
		}
		user, err = repo.CreateUser(ctx, &model.User{Username: username, PasswordHash: hash})
		if errors.Is(err, repository.ErrDuplicate) {
			return apperr.Conflict("username already registered")
		}
		return err
	})
	if err != nil {
		return nil, s.finish("register", err)
	}
	s.log.Info("user registered", zap.Int("user_id", user.ID), zap.String("username", user.Username))
	return user, nil
}

// Login 不區分使用者不存在與密碼錯誤
func (s *Service) Login(ctx context.Context, username, password string) (*Token, error) {
	var user *model.User
	err := s.store.WithTx(ctx, func(repo repository.Repository) error {
		var err error
		user, err = repo.GetUserByName(ctx, username)
		return err
	})
	if errors.Is(err, repository.ErrNotFound) {
		burnCompare(password)
		return nil, apperr.ErrInvalidCredentials
	}
	if err != nil {
		return nil, s.finish("login", err)
	}
	if err := ComparePassword(user.PasswordHash, password); err != nil {
		return nil, apperr.ErrInvalidCredentials
	}

	access, expiresAt, err := s.tokens.Issue(user.Username)
	if err != nil {
		return nil, s.finish("login", err)
	}
	return &Token{AccessToken: access, TokenType: TokenType, ExpiresAt: expiresAt}, nil
}

// Authenticate resolves a bearer token to its user.
func (s *Service) Authenticate(ctx context.Context, token string) (*model.User, error) {
	claims, err := s.tokens.Resolve(token)
	if err != nil {
		return nil, apperr.ErrUnauthenticated.WithCause(err)
	}

	if s.revoker != nil {
		revokedAt, err := s.revoker.RevokedAt(ctx, claims.Username())
		if err != nil {
			return nil, s.finish("authenticate", err)
		}
		if !revokedAt.IsZero() && claims.IssuedAt.Time.Before(revokedAt) {
			return nil, apperr.Unauthenticated("token has been revoked")
		}
	}

	var user *model.User
	err = s.store.WithTx(ctx, func(repo repository.Repository) error {
		var err error
		user, err = repo.GetUserByName(ctx, claims.Username())
		return err
	})
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperr.ErrUnauthenticated
	}
	if err != nil {
		return nil, s.finish("authenticate", err)
	}
	return user, nil
}

// ChangePassword 需先通過授權，再驗證舊密碼，最後寫入新雜湊
func (s *Service) ChangePassword(ctx context.Context, actor, userID int, oldPassword, newPassword string) error {
	if err := checkPassword("new password", newPassword); err != nil {
		return err
	}
	newHash, err := HashPassword(newPassword)
	if err != nil {
		return s.finish("change password", err)
	}

	var username string
	err = s.store.WithTx(ctx, func(repo repository.Repository) error {
		target := authz.Missing(authz.KindUser)
		user, err := repo.GetUserByID(ctx, userID)
		switch {
		case err == nil:
			target = authz.Owned(authz.KindUser, user.ID)
		case !errors.Is(err, repository.ErrNotFound):
			return err
		}
		if err := s.authorize(actor, authz.ChangePassword, target); err != nil {
			return err
		}
		if err := ComparePassword(user.PasswordHash, oldPassword); err != nil {
			return apperr.ErrInvalidCredentials
		}
		username = user.Username
		return repo.UpdateUserPasswordHash(ctx, user.ID, newHash)
	})
	if err != nil {
		return s.finish("change password", err)
	}

	s.revoke(ctx, username)
	s.log.Info("password changed", zap.Int("user_id", userID))
	return nil
}

// DeleteUser removes the user with every book and tag it owns. Tags owned
// by the user are detached from other users' books as well.
func (s *Service) DeleteUser(ctx context.Context, actor, userID int) (repository.DeleteStats, error) {
	var (
		stats    repository.DeleteStats
		username string
	)
	err := s.store.WithTx(ctx, func(repo repository.Repository) error {
		target := authz.Missing(authz.KindUser)
		user, err := repo.GetUserByID(ctx, userID)
		switch {
		case err == nil:
			target = authz.Owned(authz.KindUser, user.ID)
		case !errors.Is(err, repository.ErrNotFound):
			return err
		}
		if err := s.authorize(actor, authz.DeleteUser, target); err != nil {
			return err
		}
		username = user.Username
		stats, err = repo.DeleteUserCascade(ctx, user.ID)
		return notFoundAs(err, "user not found")
	})
	if err != nil {
		return repository.DeleteStats{}, s.finish("delete user", err)
	}

	s.revoke(ctx, username)
	s.log.Info("user deleted",
		zap.Int("user_id", userID),
		zap.Int64("books", stats.Books),
		zap.Int64("tags", stats.Tags),
		zap.Int64("associations", stats.Associations),
	)
	return stats, nil
}

func (s *Service) GetUser(ctx context.Context, id int) (*model.User, error) {
	var user *model.User
	err := s.store.WithTx(ctx, func(repo repository.Repository) error {
		var err error
		user, err = repo.GetUserByID(ctx, id)
		return notFoundAs(err, "user not found")
	})
	if err != nil {
		return nil, s.finish("get user", err)
	}
	return user, nil
}

func (s *Service) ListUsers(ctx context.Context, p Page) ([]model.User, error) {
	p, err := p.normalize()
	if err != nil {
		return nil, err
	}
	var users []model.User
	err = s.store.WithTx(ctx, func(repo repository.Repository) error {
		var err error
		users, err = repo.ListUsers(ctx, p.Skip, p.Limit)
		return err
	})
	if err != nil {
		return nil, s.finish("list users", err)
	}
	return users, nil
}
