// File: internal/model/book.go
package model

import "time"

// Book 屬於單一使用者，OwnerID 建立後不可變更
type Book struct {
	ID        int       `db:"id" json:"id"`
	Title     string    `db:"title" json:"title"`
	Author    string    `db:"author" json:"author"`
	Rating    int       `db:"rating" json:"rating"`
	Comment   *string   `db:"comment" json:"comment"`
	OwnerID   int       `db:"owner_id" json:"owner_id"`
	Tags      []Tag     `db:"-" json:"tags"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// HasTag reports whether tagID is already associated with the book.
func (b *Book) HasTag(tagID int) bool {
	for _, t := range b.Tags {
		if t.ID == tagID {
			return true
		}
	}
	return false
}
