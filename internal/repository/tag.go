// File: internal/repository/tag.go
package repository

import (
	"context"
	"errors"
	"fmt"

	"bookshelf/internal/model"

	"github.com/jackc/pgx/v5"
)

const tagColumns = `id, name, owner_id, created_at`

func scanTag(row pgx.Row) (*model.Tag, error) {
	t := &model.Tag{}
	if err := row.Scan(&t.ID, &t.Name, &t.OwnerID, &t.CreatedAt); err != nil {
		return nil, err
	}
	return t, nil
}

func (r *Queries) GetTagByID(ctx context.Context, id int) (*model.Tag, error) {
	t, err := scanTag(r.q.QueryRow(ctx,
		`SELECT `+tagColumns+` FROM tags WHERE id = $1`,
		id,
	))
	if err != nil {
		return nil, translate("GetTagByID", err)
	}
	return t, nil
}

func (r *Queries) GetTagByName(ctx context.Context, name string) (*model.Tag, error) {
	t, err := scanTag(r.q.QueryRow(ctx,
		`SELECT `+tagColumns+` FROM tags WHERE name = $1`,
		name,
	))
	if err != nil {
		return nil, translate("GetTagByName", err)
	}
	return t, nil
}

func (r *Queries) CreateTag(ctx context.Context, t *model.Tag) (*model.Tag, error) {
	row := r.q.QueryRow(ctx,
		`INSERT INTO tags (name, owner_id)
		 VALUES ($1, $2)
		 RETURNING id, created_at`,
		t.Name,
		t.OwnerID,
	)
	if err := row.Scan(&t.ID, &t.CreatedAt); err != nil {
		return nil, translate("CreateTag", err)
	}
	return t, nil
}

// EnsureTag 在名稱衝突時不會中斷 transaction：
// ON CONFLICT DO NOTHING 會等待並讓出給另一個已提交的插入，之後再查一次即可取得該列
func (r *Queries) EnsureTag(ctx context.Context, name string, ownerID int) (*model.Tag, bool, error) {
	t, err := scanTag(r.q.QueryRow(ctx,
		`INSERT INTO tags (name, owner_id)
		 VALUES ($1, $2)
		 ON CONFLICT (name) DO NOTHING
		 RETURNING `+tagColumns,
		name,
		ownerID,
	))
	if err == nil {
		return t, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, false, translate("EnsureTag", err)
	}

	t, err = r.GetTagByName(ctx, name)
	if err != nil {
		return nil, false, fmt.Errorf("EnsureTag: %w", err)
	}
	return t, false, nil
}

func (r *Queries) AttachTag(ctx context.Context, bookID, tagID int) error {
	_, err := r.q.Exec(ctx,
		`INSERT INTO book_tags (book_id, tag_id)
		 VALUES ($1, $2)
		 ON CONFLICT DO NOTHING`,
		bookID,
		tagID,
	)
	if err != nil {
		return translate("AttachTag", err)
	}
	return nil
}

// DeleteTag also detaches the tag from every book, whoever owns it.
func (r *Queries) DeleteTag(ctx context.Context, id int) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM book_tags WHERE tag_id = $1`, id); err != nil {
		return translate("DeleteTag", err)
	}
	tag, err := r.q.Exec(ctx, `DELETE FROM tags WHERE id = $1`, id)
	if err != nil {
		return translate("DeleteTag", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("DeleteTag: %w", ErrNotFound)
	}
	return nil
}

func (r *Queries) ListTags(ctx context.Context, offset, limit int) ([]model.Tag, error) {
	rows, err := r.q.Query(ctx,
		`SELECT `+tagColumns+` FROM tags ORDER BY id OFFSET $1 LIMIT $2`,
		offset,
		limit,
	)
	if err != nil {
		return nil, translate("ListTags", err)
	}
	defer rows.Close()

	tags := []model.Tag{}
	for rows.Next() {
		t, err := scanTag(rows)
		if err != nil {
			return nil, translate("ListTags", err)
		}
		tags = append(tags, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, translate("ListTags", err)
	}
	return tags, nil
}
