package memory

import (
	"context"
	"errors"
	"testing"

	"bookshelf/internal/model"
	"bookshelf/internal/repository"

	"github.com/stretchr/testify/require"
)

func seed(t *testing.T, s *Store) (alice, bob *model.User) {
	t.Helper()
	err := s.WithTx(context.Background(), func(repo repository.Repository) error {
		var err error
		if alice, err = repo.CreateUser(context.Background(), &model.User{Username: "alice", PasswordHash: "h"}); err != nil {
			return err
		}
		bob, err = repo.CreateUser(context.Background(), &model.User{Username: "bob", PasswordHash: "h"})
		return err
	})
	require.NoError(t, err)
	return alice, bob
}

func TestUsers(t *testing.T) {
	s := New()
	ctx := context.Background()
	alice, bob := seed(t, s)
	require.Equal(t, 1, alice.ID)
	require.Equal(t, 2, bob.ID)

	err := s.WithTx(ctx, func(repo repository.Repository) error {
		_, err := repo.CreateUser(ctx, &model.User{Username: "alice"})
		require.ErrorIs(t, err, repository.ErrDuplicate)

		// 大小寫視為不同使用者
		_, err = repo.CreateUser(ctx, &model.User{Username: "Alice"})
		require.NoError(t, err)

		u, err := repo.GetUserByName(ctx, "bob")
		require.NoError(t, err)
		require.Equal(t, bob.ID, u.ID)

		_, err = repo.GetUserByID(ctx, 99)
		require.ErrorIs(t, err, repository.ErrNotFound)

		require.NoError(t, repo.UpdateUserPasswordHash(ctx, alice.ID, "h2"))
		require.ErrorIs(t, repo.UpdateUserPasswordHash(ctx, 99, "h2"), repository.ErrNotFound)

		users, err := repo.ListUsers(ctx, 1, 1)
		require.NoError(t, err)
		require.Len(t, users, 1)
		require.Equal(t, "bob", users[0].Username)

		users, err = repo.ListUsers(ctx, 10, 10)
		require.NoError(t, err)
		require.Empty(t, users)
		return nil
	})
	require.NoError(t, err)
}

func TestRollbackRestoresSnapshot(t *testing.T) {
	s := New()
	ctx := context.Background()
	seed(t, s)

	boom := errors.New("boom")
	err := s.WithTx(ctx, func(repo repository.Repository) error {
		_, err := repo.CreateBook(ctx, &model.Book{Title: "Dune", Author: "Herbert", OwnerID: 1})
		require.NoError(t, err)
		_, _, err = repo.EnsureTag(ctx, "scifi", 1)
		require.NoError(t, err)
		return boom
	})
	require.ErrorIs(t, err, boom)

	users, books, tags, links := s.Counts()
	require.Equal(t, 2, users)
	require.Zero(t, books)
	require.Zero(t, tags)
	require.Zero(t, links)
}

func TestTagsAndLinks(t *testing.T) {
	s := New()
	ctx := context.Background()
	alice, bob := seed(t, s)

	err := s.WithTx(ctx, func(repo repository.Repository) error {
		b1, err := repo.CreateBook(ctx, &model.Book{Title: "Dune", Author: "Herbert", OwnerID: alice.ID})
		require.NoError(t, err)
		b2, err := repo.CreateBook(ctx, &model.Book{Title: "Foundation", Author: "Asimov", OwnerID: bob.ID})
		require.NoError(t, err)

		tag, created, err := repo.EnsureTag(ctx, "scifi", alice.ID)
		require.NoError(t, err)
		require.True(t, created)
		again, created, err := repo.EnsureTag(ctx, "scifi", bob.ID)
		require.NoError(t, err)
		require.False(t, created)
		require.Equal(t, tag.ID, again.ID)
		require.Equal(t, alice.ID, again.OwnerID)

		require.NoError(t, repo.AttachTag(ctx, b1.ID, tag.ID))
		require.NoError(t, repo.AttachTag(ctx, b1.ID, tag.ID))
		require.NoError(t, repo.AttachTag(ctx, b2.ID, tag.ID))
		require.ErrorIs(t, repo.AttachTag(ctx, 99, tag.ID), repository.ErrNotFound)

		_, err = repo.CreateTag(ctx, &model.Tag{Name: "scifi", OwnerID: bob.ID})
		require.ErrorIs(t, err, repository.ErrDuplicate)

		got, err := repo.GetBook(ctx, b1.ID)
		require.NoError(t, err)
		require.Len(t, got.Tags, 1)

		books, err := repo.ListBooks(ctx, 0, 10)
		require.NoError(t, err)
		require.Len(t, books, 2)
		require.Equal(t, tag.ID, books[1].Tags[0].ID)

		require.NoError(t, repo.DeleteTag(ctx, tag.ID))
		got, err = repo.GetBook(ctx, b2.ID)
		require.NoError(t, err)
		require.Empty(t, got.Tags)
		require.ErrorIs(t, repo.DeleteTag(ctx, tag.ID), repository.ErrNotFound)
		return nil
	})
	require.NoError(t, err)
}

func TestUpdateBookKeepsOwner(t *testing.T) {
	s := New()
	ctx := context.Background()
	alice, bob := seed(t, s)

	err := s.WithTx(ctx, func(repo repository.Repository) error {
		b, err := repo.CreateBook(ctx, &model.Book{Title: "Dune", Author: "Herbert", OwnerID: alice.ID})
		require.NoError(t, err)
		comment := "great"
		require.NoError(t, repo.UpdateBook(ctx, &model.Book{ID: b.ID, Title: "Dune Messiah", Author: "Herbert", Comment: &comment, OwnerID: bob.ID}))
		comment = "mutated after write"

		got, err := repo.GetBook(ctx, b.ID)
		require.NoError(t, err)
		require.Equal(t, "Dune Messiah", got.Title)
		require.Equal(t, alice.ID, got.OwnerID)
		require.Equal(t, "great", *got.Comment)

		require.ErrorIs(t, repo.UpdateBook(ctx, &model.Book{ID: 42}), repository.ErrNotFound)
		require.NoError(t, repo.DeleteBook(ctx, b.ID))
		require.ErrorIs(t, repo.DeleteBook(ctx, b.ID), repository.ErrNotFound)
		return nil
	})
	require.NoError(t, err)
}

func TestDeleteUserCascade(t *testing.T) {
	s := New()
	ctx := context.Background()
	alice, bob := seed(t, s)

	var bobBook *model.Book
	require.NoError(t, s.WithTx(ctx, func(repo repository.Repository) error {
		aliceBook, _ := repo.CreateBook(ctx, &model.Book{Title: "Dune", Author: "Herbert", OwnerID: alice.ID})
		bobBook, _ = repo.CreateBook(ctx, &model.Book{Title: "Foundation", Author: "Asimov", OwnerID: bob.ID})
		aliceTag, _, _ := repo.EnsureTag(ctx, "scifi", alice.ID)
		bobTag, _, _ := repo.EnsureTag(ctx, "classic", bob.ID)
		require.NoError(t, repo.AttachTag(ctx, aliceBook.ID, aliceTag.ID))
		require.NoError(t, repo.AttachTag(ctx, aliceBook.ID, bobTag.ID))
		require.NoError(t, repo.AttachTag(ctx, bobBook.ID, aliceTag.ID))
		require.NoError(t, repo.AttachTag(ctx, bobBook.ID, bobTag.ID))
		return nil
	}))

	t.Run("failure rolls back every step", func(t *testing.T) {
		s.FailOn("DeleteUserCascade", errors.New("disk full"))
		err := s.WithTx(ctx, func(repo repository.Repository) error {
			_, err := repo.DeleteUserCascade(ctx, alice.ID)
			return err
		})
		require.Error(t, err)
		s.FailOn("DeleteUserCascade", nil)

		users, books, tags, links := s.Counts()
		require.Equal(t, []int{2, 2, 2, 4}, []int{users, books, tags, links})
	})

	t.Run("removes owned rows and all their associations", func(t *testing.T) {
		var stats repository.DeleteStats
		err := s.WithTx(ctx, func(repo repository.Repository) error {
			var err error
			stats, err = repo.DeleteUserCascade(ctx, alice.ID)
			return err
		})
		require.NoError(t, err)
		require.Equal(t, repository.DeleteStats{Books: 1, Tags: 1, Associations: 3}, stats)

		users, books, tags, links := s.Counts()
		require.Equal(t, []int{1, 1, 1, 1}, []int{users, books, tags, links})

		require.NoError(t, s.WithTx(ctx, func(repo repository.Repository) error {
			got, err := repo.GetBook(ctx, bobBook.ID)
			require.NoError(t, err)
			require.Len(t, got.Tags, 1)
			require.Equal(t, "classic", got.Tags[0].Name)
			return nil
		}))
	})

	t.Run("missing user", func(t *testing.T) {
		err := s.WithTx(ctx, func(repo repository.Repository) error {
			_, err := repo.DeleteUserCascade(ctx, alice.ID)
			return err
		})
		require.ErrorIs(t, err, repository.ErrNotFound)
	})
}

func TestWithTxCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	called := false
	err := New().WithTx(ctx, func(repository.Repository) error { called = true; return nil })
	require.ErrorIs(t, err, context.Canceled)
	require.False(t, called)
}
