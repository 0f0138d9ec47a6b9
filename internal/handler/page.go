package handler

import (
	"bookshelf/internal/apperr"
	"bookshelf/internal/dto"
	"bookshelf/internal/service"

	"github.com/labstack/echo/v4"
)

// BindPage 解析 ?skip=&limit=；範圍檢查交給 service
func BindPage(c echo.Context) (service.Page, error) {
	var q dto.PageQuery
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, &q); err != nil {
		return service.Page{}, apperr.Validation("skip and limit must be integers")
	}
	return service.Page{Skip: q.Skip, Limit: q.Limit}, nil
}

// PathID 讀取路徑上的整數 id
func PathID(c echo.Context, name string) (int, error) {
	var id int
	if err := echo.PathParamsBinder(c).MustInt(name, &id).BindError(); err != nil {
		return 0, apperr.Validationf("invalid %s", name)
	}
	if id < 1 {
		return 0, apperr.Validationf("invalid %s", name)
	}
	return id, nil
}
