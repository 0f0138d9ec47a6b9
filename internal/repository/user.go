// File: internal/repository/user.go
package repository

import (
	"context"
	"fmt"

	"bookshelf/internal/model"

	"github.com/jackc/pgx/v5"
)

const userColumns = `id, username, password_hash, created_at`

func scanUser(row pgx.Row) (*model.User, error) {
	u := &model.User{}
	if err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.CreatedAt); err != nil {
		return nil, err
	}
	return u, nil
}

func (r *Queries) GetUserByID(ctx context.Context, id int) (*model.User, error) {
	u, err := scanUser(r.q.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`,
		id,
	))
	if err != nil {
		return nil, translate("GetUserByID", err)
	}
	return u, nil
}

func (r *Queries) GetUserByName(ctx context.Context, username string) (*model.User, error) {
	u, err := scanUser(r.q.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = $1`,
		username,
	))
	if err != nil {
		return nil, translate("GetUserByName", err)
	}
	return u, nil
}

func (r *Queries) CreateUser(ctx context.Context, u *model.User) (*model.User, error) {
	row := r.q.QueryRow(ctx,
		`INSERT INTO users (username, password_hash)
		 VALUES ($1, $2)
		 RETURNING id, created_at`,
		u.Username,
		u.PasswordHash,
	)
	if err := row.Scan(&u.ID, &u.CreatedAt); err != nil {
		return nil, translate("CreateUser", err)
	}
	return u, nil
}

func (r *Queries) UpdateUserPasswordHash(ctx context.Context, userID int, passwordHash string) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE users
		 SET password_hash = $1
		 WHERE id = $2`,
		passwordHash,
		userID,
	)
	if err != nil {
		return translate("UpdateUserPasswordHash", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("UpdateUserPasswordHash: %w", ErrNotFound)
	}
	return nil
}

// 依外鍵順序刪除，全部在呼叫端的同一個 transaction 內
var deleteUserCascadeSQL = []string{
	`DELETE FROM book_tags WHERE book_id IN (SELECT id FROM books WHERE owner_id = $1)`,
	`DELETE FROM books WHERE owner_id = $1`,
	`DELETE FROM book_tags WHERE tag_id IN (SELECT id FROM tags WHERE owner_id = $1)`,
	`DELETE FROM tags WHERE owner_id = $1`,
	`DELETE FROM users WHERE id = $1`,
}

func (r *Queries) DeleteUserCascade(ctx context.Context, userID int) (DeleteStats, error) {
	var affected [5]int64
	for i, stmt := range deleteUserCascadeSQL {
		tag, err := r.q.Exec(ctx, stmt, userID)
		if err != nil {
			return DeleteStats{}, translate("DeleteUserCascade", err)
		}
		affected[i] = tag.RowsAffected()
	}
	if affected[4] == 0 {
		return DeleteStats{}, fmt.Errorf("DeleteUserCascade: %w", ErrNotFound)
	}
	return DeleteStats{
		Books:        affected[1],
		Tags:         affected[3],
		Associations: affected[0] + affected[2],
	}, nil
}

func (r *Queries) ListUsers(ctx context.Context, offset, limit int) ([]model.User, error) {
	rows, err := r.q.Query(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY id OFFSET $1 LIMIT $2`,
		offset,
		limit,
	)
	if err != nil {
		return nil, translate("ListUsers", err)
	}
	defer rows.Close()

	users := []model.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, translate("ListUsers", err)
		}
		users = append(users, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, translate("ListUsers", err)
	}
	return users, nil
}
