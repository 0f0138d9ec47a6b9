// File: internal/handler/tags/tag.go
package tags

import (
	"context"
	"net/http"

	"bookshelf/internal/dto"
	"bookshelf/internal/handler"
	"bookshelf/internal/middleware"
	"bookshelf/internal/model"
	"bookshelf/internal/service"

	"github.com/labstack/echo/v4"
)

// Service 是 tags 端點需要的 service 方法
type Service interface {
	CreateTag(ctx context.Context, actor int, name string) (*model.Tag, error)
	GetTag(ctx context.Context, id int) (*model.Tag, error)
	ListTags(ctx context.Context, p service.Page) ([]model.Tag, error)
	DeleteTag(ctx context.Context, actor, tagID int) error
}

// CreateTagHandler 建立標籤；名稱全域唯一
// @Summary     Create a tag
// @Tags        tags
// @Accept      json
// @Accept      application/x-www-form-urlencoded
// @Produce     json
// @Param       body body     dto.CreateTagRequest true "標籤名稱"
// @Success     201  {object} dto.TagResponse
// @Failure     400  {object} dto.HTTPError
// @Failure     401  {object} dto.HTTPError
// @Failure     409  {object} dto.HTTPError
// @Security    BearerAuth
// @Router      /tags [post]
func CreateTagHandler(svc Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req dto.CreateTagRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, dto.HTTPError{Message: "invalid request payload", Code: "VALIDATION"})
		}
		if err := c.Validate(&req); err != nil {
			return c.JSON(http.StatusBadRequest, dto.HTTPError{Message: err.Error(), Code: "VALIDATION"})
		}

		tag, err := svc.CreateTag(c.Request().Context(), middleware.ActorID(c), req.Name)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusCreated, dto.NewTagResponse(tag))
	}
}

// GetTagHandler 取得單一標籤
// @Summary     Get tag by ID
// @Tags        tags
// @Produce     json
// @Param       id  path     int true "標籤 ID"
// @Success     200 {object} dto.TagResponse
// @Failure     404 {object} dto.HTTPError
// @Router      /tags/{id} [get]
func GetTagHandler(svc Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := handler.PathID(c, "id")
		if err != nil {
			return err
		}
		tag, err := svc.GetTag(c.Request().Context(), id)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, dto.NewTagResponse(tag))
	}
}

// ListTagsHandler 分頁列出標籤
// @Summary     List tags
// @Tags        tags
// @Produce     json
// @Param       skip  query    int false "略過筆數" default(0)
// @Param       limit query    int false "每頁筆數 (1-100)" default(10)
// @Success     200   {array}  dto.TagResponse
// @Failure     400   {object} dto.HTTPError
// @Router      /tags [get]
func ListTagsHandler(svc Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		page, err := handler.BindPage(c)
		if err != nil {
			return err
		}
		tags, err := svc.ListTags(c.Request().Context(), page)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, dto.NewTagResponses(tags))
	}
}

// DeleteTagHandler 刪除標籤，所有書上的關聯一併移除
// @Summary     Delete a tag
// @Tags        tags
// @Param       id  path int true "標籤 ID"
// @Success     204
// @Failure     401 {object} dto.HTTPError
// @Failure     403 {object} dto.HTTPError
// @Failure     404 {object} dto.HTTPError
// @Security    BearerAuth
// @Router      /tags/{id} [delete]
func DeleteTagHandler(svc Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := handler.PathID(c, "id")
		if err != nil {
			return err
		}
		if err := svc.DeleteTag(c.Request().Context(), middleware.ActorID(c), id); err != nil {
			return err
		}
		return c.NoContent(http.StatusNoContent)
	}
}
