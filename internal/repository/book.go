// File: internal/repository/book.go
package repository

import (
	"context"
	"fmt"

	"bookshelf/internal/model"

	"github.com/jackc/pgx/v5"
)

const bookColumns = `id, title, author, rating, comment, owner_id, created_at`

func scanBook(row pgx.Row) (*model.Book, error) {
	b := &model.Book{}
	if err := row.Scan(
		&b.ID,
		&b.Title,
		&b.Author,
		&b.Rating,
		&b.Comment,
		&b.OwnerID,
		&b.CreatedAt,
	); err != nil {
		return nil, err
	}
	b.Tags = []model.Tag{}
	return b, nil
}

func (r *Queries) GetBook(ctx context.Context, id int) (*model.Book, error) {
	b, err := scanBook(r.q.QueryRow(ctx,
		`SELECT `+bookColumns+` FROM books WHERE id = $1`,
		id,
	))
	if err != nil {
		return nil, translate("GetBook", err)
	}
	byBook, err := r.tagsForBooks(ctx, []int{b.ID})
	if err != nil {
		return nil, fmt.Errorf("GetBook: %w", err)
	}
	if tags, ok := byBook[b.ID]; ok {
		b.Tags = tags
	}
	return b, nil
}

func (r *Queries) CreateBook(ctx context.Context, b *model.Book) (*model.Book, error) {
	row := r.q.QueryRow(ctx,
		`INSERT INTO books (title, author, rating, comment, owner_id)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at`,
		b.Title,
		b.Author,
		b.Rating,
		b.Comment,
		b.OwnerID,
	)
	if err := row.Scan(&b.ID, &b.CreatedAt); err != nil {
		return nil, translate("CreateBook", err)
	}
	if b.Tags == nil {
		b.Tags = []model.Tag{}
	}
	return b, nil
}

func (r *Queries) UpdateBook(ctx context.Context, b *model.Book) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE books SET title = $1, author = $2, rating = $3, comment = $4
		 WHERE id = $5`,
		b.Title,
		b.Author,
		b.Rating,
		b.Comment,
		b.ID,
	)
	if err != nil {
		return translate("UpdateBook", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("UpdateBook: %w", ErrNotFound)
	}
	return nil
}

func (r *Queries) DeleteBook(ctx context.Context, id int) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM book_tags WHERE book_id = $1`, id); err != nil {
		return translate("DeleteBook", err)
	}
	tag, err := r.q.Exec(ctx, `DELETE FROM books WHERE id = $1`, id)
	if err != nil {
		return translate("DeleteBook", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("DeleteBook: %w", ErrNotFound)
	}
	return nil
}

func (r *Queries) ListBooks(ctx context.Context, offset, limit int) ([]model.Book, error) {
	rows, err := r.q.Query(ctx,
		`SELECT `+bookColumns+` FROM books ORDER BY id OFFSET $1 LIMIT $2`,
		offset,
		limit,
	)
	if err != nil {
		return nil, translate("ListBooks", err)
	}
	books := []model.Book{}
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			rows.Close()
			return nil, translate("ListBooks", err)
		}
		books = append(books, *b)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, translate("ListBooks", err)
	}
	if len(books) == 0 {
		return books, nil
	}

	// 一次載入整頁書籍的標籤，避免 N+1
	ids := make([]int, len(books))
	for i := range books {
		ids[i] = books[i].ID
	}
	byBook, err := r.tagsForBooks(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("ListBooks: %w", err)
	}
	for i := range books {
		if tags, ok := byBook[books[i].ID]; ok {
			books[i].Tags = tags
		}
	}
	return books, nil
}

func (r *Queries) tagsForBooks(ctx context.Context, bookIDs []int) (map[int][]model.Tag, error) {
	rows, err := r.q.Query(ctx,
		`SELECT bt.book_id, t.id, t.name, t.owner_id, t.created_at
		 FROM book_tags bt
		 JOIN tags t ON t.id = bt.tag_id
		 WHERE bt.book_id = ANY($1)
		 ORDER BY bt.book_id, t.id`,
		bookIDs,
	)
	if err != nil {
		return nil, translate("tagsForBooks", err)
	}
	defer rows.Close()

	out := make(map[int][]model.Tag, len(bookIDs))
	for rows.Next() {
		var bookID int
		var t model.Tag
		if err := rows.Scan(&bookID, &t.ID, &t.Name, &t.OwnerID, &t.CreatedAt); err != nil {
			return nil, translate("tagsForBooks", err)
		}
		out[bookID] = append(out[bookID], t)
	}
	if err := rows.Err(); err != nil {
		return nil, translate("tagsForBooks", err)
	}
	return out, nil
}
