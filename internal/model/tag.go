// File: internal/model/tag.go
package model

import "time"

// Tag names are unique across all users. OwnerID is the creator and only
// matters for deletion.
type Tag struct {
	ID        int       `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	OwnerID   int       `db:"owner_id" json:"owner_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
