package service

import (
	"context"
	"errors"
	"strings"

	"bookshelf/internal/apperr"
	"bookshelf/internal/authz"
	"bookshelf/internal/model"
	"bookshelf/internal/repository"

	"go.uber.org/zap"
)

type BookInput struct {
	Title   string
	Author  string
	Rating  int
	Comment *string
	Tags    []string
}

// BookPatch 的 nil 欄位代表不變更；非 nil 代表覆寫（空字串也是值）
// Tags 只會新增關聯，不會移除
type BookPatch struct {
	Title   *string
	Author  *string
	Rating  *int
	Comment *string
	Tags    []string
}

func (p BookPatch) validate() error {
	if p.Title != nil && strings.TrimSpace(*p.Title) == "" {
		return apperr.Validation("title must not be empty")
	}
	if p.Author != nil && strings.TrimSpace(*p.Author) == "" {
		return apperr.Validation("author must not be empty")
	}
	return nil
}

// Apply overwrites the present fields of b and reports whether any
// column changed value.
func (p BookPatch) Apply(b *model.Book) bool {
	changed := false
	if p.Title != nil && *p.Title != b.Title {
		b.Title = *p.Title
		changed = true
	}
	if p.Author != nil && *p.Author != b.Author {
		b.Author = *p.Author
		changed = true
	}
	if p.Rating != nil && *p.Rating != b.Rating {
		b.Rating = *p.Rating
		changed = true
	}
	if p.Comment != nil && (b.Comment == nil || *p.Comment != *b.Comment) {
		comment := *p.Comment
		b.Comment = &comment
		changed = true
	}
	return changed
}

// normalizeTagNames trims names, rejects blanks and drops repeats while
// keeping the first-seen order.
func normalizeTagNames(names []string) ([]string, error) {
	out := make([]string, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			return nil, apperr.Validation("tag names must not be empty")
		}
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out, nil
}

// resolveTags attaches every named tag to book, reusing existing tags and
// creating missing ones owned by actor. It must run in the transaction that
// wrote the book.
func (s *Service) resolveTags(ctx context.Context, repo repository.Repository, actor int, book *model.Book, names []string) error {
	for _, name := range names {
		tag, created, err := repo.EnsureTag(ctx, name, actor)
		if err != nil {
			return err
		}
		if created {
			s.log.Info("tag created", zap.Int("tag_id", tag.ID), zap.String("name", tag.Name), zap.Int("owner_id", actor))
		}
		if book.HasTag(tag.ID) {
			continue
		}
		if err := repo.AttachTag(ctx, book.ID, tag.ID); err != nil {
			return err
		}
		book.Tags = append(book.Tags, *tag)
	}
	return nil
}

func (s *Service) CreateBook(ctx context.Context, actor int, in BookInput) (*model.Book, error) {
	if err := s.authorize(actor, authz.CreateBook, authz.Target{Kind: authz.KindBook}); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Title) == "" {
		return nil, apperr.Validation("title is required")
	}
	if strings.TrimSpace(in.Author) == "" {
		return nil, apperr.Validation("author is required")
	}
	names, err := normalizeTagNames(in.Tags)
	if err != nil {
		return nil, err
	}

	var book *model.Book
	err = s.store.WithTx(ctx, func(repo repository.Repository) error {
		created, err := repo.CreateBook(ctx, &model.Book{
			Title:   in.Title,
			Author:  in.Author,
			Rating:  in.Rating,
			Comment: in.Comment,
			OwnerID: actor,
		})
		if err != nil {
			return err
		}
		if err := s.resolveTags(ctx, repo, actor, created, names); err != nil {
			return err
		}
		book, err = repo.GetBook(ctx, created.ID)
		return err
	})
	if err != nil {
		return nil, s.finish("create book", err)
	}
	s.log.Info("book created", zap.Int("book_id", book.ID), zap.Int("owner_id", actor), zap.Int("tags", len(book.Tags)))
	return book, nil
}

func (s *Service) UpdateBook(ctx context.Context, actor, bookID int, patch BookPatch) (*model.Book, error) {
	if err := patch.validate(); err != nil {
		return nil, err
	}
	names, err := normalizeTagNames(patch.Tags)
	if err != nil {
		return nil, err
	}

	var book *model.Book
	err = s.store.WithTx(ctx, func(repo repository.Repository) error {
		current, target, err := loadBook(ctx, repo, bookID)
		if err != nil {
			return err
		}
		if err := s.authorize(actor, authz.UpdateBook, target); err != nil {
			return err
		}
		if patch.Apply(current) {
			if err := repo.UpdateBook(ctx, current); err != nil {
				return notFoundAs(err, "book not found")
			}
		}
		if err := s.resolveTags(ctx, repo, actor, current, names); err != nil {
			return err
		}
		book, err = repo.GetBook(ctx, bookID)
		return err
	})
	if err != nil {
		return nil, s.finish("update book", err)
	}
	return book, nil
}

func (s *Service) DeleteBook(ctx context.Context, actor, bookID int) error {
	err := s.store.WithTx(ctx, func(repo repository.Repository) error {
		_, target, err := loadBook(ctx, repo, bookID)
		if err != nil {
			return err
		}
		if err := s.authorize(actor, authz.DeleteBook, target); err != nil {
			return err
		}
		return notFoundAs(repo.DeleteBook(ctx, bookID), "book not found")
	})
	if err != nil {
		return s.finish("delete book", err)
	}
	s.log.Info("book deleted", zap.Int("book_id", bookID), zap.Int("actor", actor))
	return nil
}

func (s *Service) GetBook(ctx context.Context, id int) (*model.Book, error) {
	var book *model.Book
	err := s.store.WithTx(ctx, func(repo repository.Repository) error {
		var err error
		book, err = repo.GetBook(ctx, id)
		return notFoundAs(err, "book not found")
	})
	if err != nil {
		return nil, s.finish("get book", err)
	}
	return book, nil
}

func (s *Service) ListBooks(ctx context.Context, p Page) ([]model.Book, error) {
	p, err := p.normalize()
	if err != nil {
		return nil, err
	}
	var books []model.Book
	err = s.store.WithTx(ctx, func(repo repository.Repository) error {
		var err error
		books, err = repo.ListBooks(ctx, p.Skip, p.Limit)
		return err
	})
	if err != nil {
		return nil, s.finish("list books", err)
	}
	return books, nil
}

// loadBook returns the book (nil when absent) and its authorization target.
func loadBook(ctx context.Context, repo repository.Repository, id int) (*model.Book, authz.Target, error) {
	book, err := repo.GetBook(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, authz.Missing(authz.KindBook), nil
	}
	if err != nil {
		return nil, authz.Target{}, err
	}
	return book, authz.Owned(authz.KindBook, book.OwnerID), nil
}
