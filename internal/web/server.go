// Package web is the server-rendered front end. It holds no data of its
// own; every page is built from REST API calls.
package web

import (
	"embed"
	"errors"
	"io/fs"
	"log"
	"net/http"

	"wms-backend/internal/auth"
	"wms-backend/internal/config"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/template/html/v2"
)

//go:embed templates
var templateFS embed.FS

func New(cfg *config.Config) (*fiber.App, error) {
	sub, err := fs.Sub(templateFS, "templates")
	if err != nil {
		return nil, err
	}
	engine := html.NewFileSystem(http.FS(sub), ".html")

	authenticator, err := auth.NewAuthenticator(cfg.AdminUser, cfg.AdminPassword, cfg.JWTSecret)
	if err != nil {
		return nil, err
	}
	h := &handlers{
		client: NewClient(cfg.APIBaseURL, cfg.QueryTimeout),
		auth:   authenticator,
	}

	app := fiber.New(fiber.Config{
		Views: engine,
		ErrorHandler: errorHandler,
	})

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path} ${error}\n",
	}))
	app.Use(authenticator.RequireSession("/login", "/static"))

	app.Get("/", func(c *fiber.Ctx) error { return c.Redirect("/product") })
	app.Get("/login", h.loginPage)
	app.Post("/login", h.login)
	app.Get("/logout", h.logout)

	for _, res := range resources {
		app.Get(res.Path, h.list(res))
		app.Get(res.Path+"/add", h.addForm(res))
		app.Post(res.Path+"/add", h.add(res))
		app.Post(res.Path+"/delete/:id<int>", h.remove(res))
		if res.Export {
			app.Get(res.Path+"/export", h.export(res))
		}
	}

	return app, nil
}

// errorHandler keeps internal errors out of the page; fiber errors such as
// 404 keep their own message.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "系統發生錯誤，請稍後再試"

	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		message = fe.Message
	} else {
		log.Printf("ERROR [%s %s]: %v", c.Method(), c.Path(), err)
	}
	return c.Status(code).SendString(message)
}
