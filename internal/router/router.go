// File: internal/router/router.go
package router

import (
	"github.com/labstack/echo/v4"

	"bookshelf/internal/cache"
	"bookshelf/internal/database"
	"bookshelf/internal/handler"
	"bookshelf/internal/handler/auth"
	"bookshelf/internal/handler/books"
	"bookshelf/internal/handler/tags"
	"bookshelf/internal/handler/users"
	"bookshelf/internal/middleware"
)

// Service 是所有 handler 需要的 service 方法集合，*service.Service 實作它
type Service interface {
	middleware.Authenticator
	auth.Authenticator
	users.Service
	books.Service
	tags.Service
}

// Setup 註冊所有路由與中介層
// 讀取端點公開，寫入端點需要 Bearer token
func Setup(e *echo.Echo, db database.DB, c cache.Cache, svc Service) {
	api := e.Group("/api")
	requireAuth := middleware.RequireAuth(svc)

	// 健康檢查
	api.GET("/ping", handler.PingHandler(db, c))

	// 登入
	api.POST("/token", auth.TokenHandler(svc))

	// 當前使用者；靜態路徑優先於 /users/:id
	api.GET("/users/me", users.GetMeHandler(), requireAuth)
	api.DELETE("/users/me", users.DeleteMeHandler(svc), requireAuth)
	api.PATCH("/users/me/password", users.UpdateMyPasswordHandler(svc), requireAuth)

	api.POST("/users", users.CreateUserHandler(svc))
	api.GET("/users", users.ListUsersHandler(svc))
	api.GET("/users/:id", users.GetUserHandler(svc))
	api.DELETE("/users/:id", users.DeleteUserHandler(svc), requireAuth)

	api.GET("/books", books.ListBooksHandler(svc))
	api.POST("/books", books.CreateBookHandler(svc), requireAuth)
	api.GET("/books/:id", books.GetBookHandler(svc))
	api.PATCH("/books/:id", books.UpdateBookHandler(svc), requireAuth)
	api.DELETE("/books/:id", books.DeleteBookHandler(svc), requireAuth)

	api.GET("/tags", tags.ListTagsHandler(svc))
	api.POST("/tags", tags.CreateTagHandler(svc), requireAuth)
	api.GET("/tags/:id", tags.GetTagHandler(svc))
	api.DELETE("/tags/:id", tags.DeleteTagHandler(svc), requireAuth)
}
