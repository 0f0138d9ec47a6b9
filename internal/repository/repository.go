// Package repository holds the persistence contract for users, books and tags
// and its Postgres implementation.
package repository

import (
	"context"
	"errors"

	"bookshelf/internal/model"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)

// DeleteStats counts the rows removed by DeleteUserCascade besides the user.
type DeleteStats struct {
	Books        int64
	Tags         int64
	Associations int64
}

// Repository is the set of primitives available inside one transaction.
// Lookups return ErrNotFound, uniqueness violations ErrDuplicate.
type Repository interface {
	GetUserByID(ctx context.Context, id int) (*model.User, error)
	GetUserByName(ctx context.Context, username string) (*model.User, error)
	CreateUser(ctx context.Context, u *model.User) (*model.User, error)
	UpdateUserPasswordHash(ctx context.Context, userID int, passwordHash string) error
	DeleteUserCascade(ctx context.Context, userID int) (DeleteStats, error)
	ListUsers(ctx context.Context, offset, limit int) ([]model.User, error)

	// GetBook loads the book together with its tags.
	GetBook(ctx context.Context, id int) (*model.Book, error)
	CreateBook(ctx context.Context, b *model.Book) (*model.Book, error)
	// UpdateBook writes title, author, rating and comment. The owner is never written.
	UpdateBook(ctx context.Context, b *model.Book) error
	DeleteBook(ctx context.Context, id int) error
	ListBooks(ctx context.Context, offset, limit int) ([]model.Book, error)

	GetTagByID(ctx context.Context, id int) (*model.Tag, error)
	GetTagByName(ctx context.Context, name string) (*model.Tag, error)
	CreateTag(ctx context.Context, t *model.Tag) (*model.Tag, error)
	// EnsureTag returns the tag named name, creating it for ownerID when it
	// does not exist yet. created reports whether this call inserted it.
	EnsureTag(ctx context.Context, name string, ownerID int) (tag *model.Tag, created bool, err error)
	// AttachTag is idempotent.
	AttachTag(ctx context.Context, bookID, tagID int) error
	DeleteTag(ctx context.Context, id int) error
	ListTags(ctx context.Context, offset, limit int) ([]model.Tag, error)
}

// Store runs fn inside a single transaction. A non-nil error from fn rolls
// back every write fn made.
type Store interface {
	WithTx(ctx context.Context, fn func(Repository) error) error
}
