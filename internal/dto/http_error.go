// File: internal/dto/http_error.go
package dto

import "bookshelf/internal/apperr"

// HTTPError 全域錯誤響應模型
// swagger:model dto.HTTPError
type HTTPError struct {
	// message 錯誤描述
	Message string `json:"message" example:"book not found"`
	// code 機器可讀的錯誤碼
	Code string `json:"code,omitempty" example:"NOT_FOUND"`
}

// NewHTTPError renders err for clients. Causes of internal errors are never exposed.
func NewHTTPError(err error) HTTPError {
	return HTTPError{Message: apperr.MessageOf(err), Code: string(apperr.CodeOf(err))}
}
