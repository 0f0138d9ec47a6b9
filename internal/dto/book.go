// File: internal/dto/book.go
package dto

import (
	"time"

	"bookshelf/internal/model"
)

// swagger:model dto.CreateBookRequest
type CreateBookRequest struct {
	Title   string   `json:"title" validate:"required,max=512" example:"Dune"`
	Author  string   `json:"author" validate:"required,max=512" example:"Frank Herbert"`
	Rating  int      `json:"rating" example:"5"`
	Comment *string  `json:"comment" example:"worth a reread"`
	Tags    []string `json:"tags" validate:"omitempty,max=32,dive,required,max=64" example:"scifi,classic"`
}

// UpdateBookRequest 欄位為 null 或省略時不變更；空字串的 comment 會清空內容
// swagger:model dto.UpdateBookRequest
type UpdateBookRequest struct {
	Title   *string  `json:"title" validate:"omitempty,max=512" example:"Dune Messiah"`
	Author  *string  `json:"author" validate:"omitempty,max=512" example:"Frank Herbert"`
	Rating  *int     `json:"rating" example:"4"`
	Comment *string  `json:"comment" example:""`
	Tags    []string `json:"tags" validate:"omitempty,max=32,dive,required,max=64" example:"desert"`
}

// swagger:model dto.BookResponse
type BookResponse struct {
	ID        int           `json:"id" example:"1"`
	Title     string        `json:"title" example:"Dune"`
	Author    string        `json:"author" example:"Frank Herbert"`
	Rating    int           `json:"rating" example:"5"`
	Comment   *string       `json:"comment" example:"worth a reread"`
	OwnerID   int           `json:"owner_id" example:"1"`
	Tags      []TagResponse `json:"tags"`
	CreatedAt time.Time     `json:"created_at" example:"2025-05-01T15:04:05Z"`
}

func NewBookResponse(b *model.Book) BookResponse {
	return BookResponse{
		ID:        b.ID,
		Title:     b.Title,
		Author:    b.Author,
		Rating:    b.Rating,
		Comment:   b.Comment,
		OwnerID:   b.OwnerID,
		Tags:      NewTagResponses(b.Tags),
		CreatedAt: b.CreatedAt,
	}
}

func NewBookResponses(books []model.Book) []BookResponse {
	out := make([]BookResponse, 0, len(books))
	for i := range books {
		out = append(out, NewBookResponse(&books[i]))
	}
	return out
}
