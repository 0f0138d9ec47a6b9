// File: internal/dto/pagination.go
package dto

// PageQuery 對應 ?skip=&limit=，limit 為 0 時使用預設值
type PageQuery struct {
	Skip  int `query:"skip" validate:"min=0" example:"0"`
	Limit int `query:"limit" validate:"min=0,max=100" example:"10"`
}
