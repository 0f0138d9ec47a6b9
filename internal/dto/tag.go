// File: internal/dto/tag.go
package dto

import (
	"time"

	"bookshelf/internal/model"
)

// swagger:model dto.CreateTagRequest
type CreateTagRequest struct {
	Name string `json:"name" form:"name" validate:"required,max=64" example:"scifi"`
}

// swagger:model dto.TagResponse
type TagResponse struct {
	ID        int       `json:"id" example:"1"`
	Name      string    `json:"name" example:"scifi"`
	OwnerID   int       `json:"owner_id" example:"1"`
	CreatedAt time.Time `json:"created_at" example:"2025-05-01T15:04:05Z"`
}

func NewTagResponse(t *model.Tag) TagResponse {
	return TagResponse{ID: t.ID, Name: t.Name, OwnerID: t.OwnerID, CreatedAt: t.CreatedAt}
}

func NewTagResponses(tags []model.Tag) []TagResponse {
	out := make([]TagResponse, 0, len(tags))
	for i := range tags {
		out = append(out, NewTagResponse(&tags[i]))
	}
	return out
}
