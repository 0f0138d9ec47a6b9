package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"bookshelf/internal/apperr"
	"bookshelf/internal/authz"
	"bookshelf/internal/model"
	"bookshelf/internal/repository"

	"go.uber.org/zap"
)

func tagConflict(name string) error {
	return apperr.Conflict(fmt.Sprintf("tag %q already exists", name))
}

// CreateTag creates a tag explicitly. Unlike tag resolution during book
// writes, an existing name is a conflict.
func (s *Service) CreateTag(ctx context.Context, actor int, name string) (*model.Tag, error) {
	if err := s.authorize(actor, authz.CreateTag, authz.Target{Kind: authz.KindTag}); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperr.Validation("tag name is required")
	}

	var tag *model.Tag
	err := s.store.WithTx(ctx, func(repo repository.Repository) error {
		_, err := repo.GetTagByName(ctx, name)
		if err == nil {
			return tagConflict(name)
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return err
		}
		tag, err = repo.CreateTag(ctx, &model.Tag{Name: name, OwnerID: actor})
		if errors.Is(err, repository.ErrDuplicate) {
			return tagConflict(name)
		}
		return err
	})
	if err != nil {
		return nil, s.finish("create tag", err)
	}
	s.log.Info("tag created", zap.Int("tag_id", tag.ID), zap.String("name", tag.Name), zap.Int("owner_id", actor))
	return tag, nil
}

// DeleteTag removes the tag and its associations with every book.
func (s *Service) DeleteTag(ctx context.Context, actor, tagID int) error {
	err := s.store.WithTx(ctx, func(repo repository.Repository) error {
		target := authz.Missing(authz.KindTag)
		tag, err := repo.GetTagByID(ctx, tagID)
		switch {
		case err == nil:
			target = authz.Owned(authz.KindTag, tag.OwnerID)
		case !errors.Is(err, repository.ErrNotFound):
			return err
		}
		if err := s.authorize(actor, authz.DeleteTag, target); err != nil {
			return err
		}
		return notFoundAs(repo.DeleteTag(ctx, tagID), "tag not found")
	})
	if err != nil {
		return s.finish("delete tag", err)
	}
	s.log.Info("tag deleted", zap.Int("tag_id", tagID), zap.Int("actor", actor))
	return nil
}

func (s *Service) GetTag(ctx context.Context, id int) (*model.Tag, error) {
	var tag *model.Tag
	err := s.store.WithTx(ctx, func(repo repository.Repository) error {
		var err error
		tag, err = repo.GetTagByID(ctx, id)
		return notFoundAs(err, "tag not found")
	})
	if err != nil {
		return nil, s.finish("get tag", err)
	}
	return tag, nil
}

func (s *Service) ListTags(ctx context.Context, p Page) ([]model.Tag, error) {
	p, err := p.normalize()
	if err != nil {
		return nil, err
	}
	var tags []model.Tag
	err = s.store.WithTx(ctx, func(repo repository.Repository) error {
		var err error
		tags, err = repo.ListTags(ctx, p.Skip, p.Limit)
		return err
	})
	if err != nil {
		return nil, s.finish("list tags", err)
	}
	return tags, nil
}
