// File: internal/handler/books/book.go
package books

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

// Service 是 books 端點需要的 service 方法
type Service interface {
	CreateBook(ctx context.Context, actor int, in service.BookInput) (*model.Book, error)
	GetBook(ctx context.Context, id int) (*model.Book, error)
	ListBooks(ctx context.Context, p service.Page) ([]model.Book, error)
	UpdateBook(ctx context.Context, actor, bookID int, patch service.BookPatch) (*model.Book, error)
	DeleteBook(ctx context.Context, actor, bookID int) error
}

func invalidBody(c echo.Context, err error) error {
	return c.JSON(http.StatusBadRequest, dto.HTTPError{Message: err.Error(), Code: "VALIDATION"})
}

// CreateBookHandler 新增書籍，tags 會自動建立或重用
// @Summary     Create a book
// @Tags        books
// @Accept      json
// @Produce     json
// @Param       body body     dto.CreateBookRequest true "書籍資料"
// @Success     201  {object} dto.BookResponse
// @Failure     400  {object} dto.HTTPError
// @Failure     401  {object} dto.HTTPError
// @Security    BearerAuth
// @Router      /books [post]
func CreateBookHandler(svc Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req dto.CreateBookRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, dto.HTTPError{Message: "invalid request payload", Code: "VALIDATION"})
		}
		if err := c.Validate(&req); err != nil {
			return invalidBody(c, err)
		}

		book, err := svc.CreateBook(c.Request().Context(), middleware.ActorID(c), service.BookInput{
			Title:   req.Title,
			Author:  req.Author,
			Rating:  req.Rating,
			Comment: req.Comment,
			Tags:    req.Tags,
		})
		if err != nil {
			return err
		}
		return c.JSON(http.StatusCreated, dto.NewBookResponse(book))
	}
}

// GetBookHandler 取得單一書籍
// @Summary     Get book by ID
// @Tags        books
// @Produce     json
// @Param       id  path     int true "書籍 ID"
// @Success     200 {object} dto.BookResponse
// @Failure     404 {object} dto.HTTPError
// @Router      /books/{id} [get]
func GetBookHandler(svc Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := handler.PathID(c, "id")
		if err != nil {
			return err
		}
		book, err := svc.GetBook(c.Request().Context(), id)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, dto.NewBookResponse(book))
	}
}

// ListBooksHandler 分頁列出書籍
// @Summary     List books
// @Tags        books
// @Produce     json
// @Param       skip  query    int false "略過筆數" default(0)
// @Param       limit query    int false "每頁筆數 (1-100)" default(10)
// @Success     200   {array}  dto.BookResponse
// @Failure     400   {object} dto.HTTPError
// @Router      /books [get]
func ListBooksHandler(svc Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		page, err := handler.BindPage(c)
		if err != nil {
			return err
		}
		books, err := svc.ListBooks(c.Request().Context(), page)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, dto.NewBookResponses(books))
	}
}

// UpdateBookHandler 部分更新書籍
// @Summary     Update a book
// @Description 只更新有提供的欄位；comment 傳空字串會清空，tags 只新增不移除
// @Tags        books
// @Accept      json
// @Produce     json
// @Param       id   path     int                   true "書籍 ID"
// @Param       body body     dto.UpdateBookRequest true "要更新的欄位"
// @Success     200  {object} dto.BookResponse
// @Failure     400  {object} dto.HTTPError
// @Failure     401  {object} dto.HTTPError
// @Failure     403  {object} dto.HTTPError
// @Failure     404  {object} dto.HTTPError
// @Security    BearerAuth
// @Router      /books/{id} [patch]
func UpdateBookHandler(svc Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := handler.PathID(c, "id")
		if err != nil {
			return err
		}
		var req dto.UpdateBookRequest
		if err := (&echo.DefaultBinder{}).BindBody(c, &req); err != nil {
			return c.JSON(http.StatusBadRequest, dto.HTTPError{Message: "invalid request payload", Code: "VALIDATION"})
		}
		if err := c.Validate(&req); err != nil {
			return invalidBody(c, err)
		}

		book, err := svc.UpdateBook(c.Request().Context(), middleware.ActorID(c), id, service.BookPatch{
			Title:   req.Title,
			Author:  req.Author,
			Rating:  req.Rating,
			Comment: req.Comment,
			Tags:    req.Tags,
		})
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, dto.NewBookResponse(book))
	}
}

// DeleteBookHandler 刪除書籍
// @Summary     Delete a book
// @Tags        books
// @Param       id  path int true "書籍 ID"
// @Success     204
// @Failure     401 {object} dto.HTTPError
// @Failure     403 {object} dto.HTTPError
// @Failure     404 {object} dto.HTTPError
// @Security    BearerAuth
// @Router      /books/{id} [delete]
func DeleteBookHandler(svc Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := handler.PathID(c, "id")
		if err != nil {
			return err
		}
		if err := svc.DeleteBook(c.Request().Context(), middleware.ActorID(c), id); err != nil {
			return err
		}
		return c.NoContent(http.StatusNoContent)
	}
}
