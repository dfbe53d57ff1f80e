package web

import (
	"errors"
	"log"

	"wms-backend/internal/auth"

	"github.com/gofiber/fiber/v2"
)

const (
	msgUnreachable = "連線後端伺服器失敗，請確認 API 服務是否開啟"
	msgLoginFailed = "帳號或密碼錯誤，請重試"
)

type handlers struct {
	client *Client
	auth   *auth.Authenticator
}

func (h *handlers) render(c *fiber.Ctx, page string, data fiber.Map, inline ...Flash) error {
	data["Flashes"] = append(popFlash(c), inline...)
	data["Nav"] = resources
	if user, ok := c.Locals(auth.CtxUserKey).(string); ok {
		data["User"] = user
	}
	return c.Render(page, data, "layouts/base")
}

func (h *handlers) loginPage(c *fiber.Ctx) error {
	return h.render(c, "pages/login", fiber.Map{"Title": "登入"})
}

func (h *handlers) login(c *fiber.Ctx) error {
	token, err := h.auth.Login(c.FormValue("username"), c.FormValue("password"))
	if err != nil {
		if !errors.Is(err, auth.ErrInvalidCredentials) {
			log.Println("Login error:", err)
		}
		setFlash(c, "danger", msgLoginFailed)
		return c.Redirect("/login")
	}
	h.auth.SetSession(c, token)
	return c.Redirect("/product")
}

func (h *handlers) logout(c *fiber.Ctx) error {
	h.auth.ClearSession(c)
	setFlash(c, "info", "您已成功登出")
	return c.Redirect("/login")
}

func (h *handlers) list(res resource) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var inline []Flash
		rows, err := res.rows(h.client, listQuery(c, res.DateParam))
		if err != nil {
			inline = append(inline, failure("無法取得資料", err))
			rows = []tableRow{}
		}

		return h.render(c, "pages/list", fiber.Map{
			"Title":     res.Title,
			"Resource":  res,
			"Rows":      rows,
			"Query":     c.Query("q"),
			"DateParam": res.DateParam,
			"Date":      c.Query(res.DateParam),
		}, inline...)
	}
}

func (h *handlers) addForm(res resource) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return h.render(c, "pages/form", fiber.Map{
			"Title":    res.Title + " - 新增",
			"Resource": res,
			"Fields":   res.fields(h.client),
		})
	}
}

func (h *handlers) add(res resource) fiber.Handler {
	return func(c *fiber.Ctx) error {
		payload, err := res.payload(c)
		if err != nil {
			setFlash(c, "danger", err.Error())
			return c.Redirect(res.Path + "/add")
		}

		if err := h.client.Post(res.APIPath, payload, nil); err != nil {
			f := failure("建立失敗", err)
			setFlash(c, f.Kind, f.Message)
			return c.Redirect(res.Path + "/add")
		}

		setFlash(c, "success", "建立成功！")
		return c.Redirect(res.Path)
	}
}

func (h *handlers) remove(res resource) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := h.client.Delete(res.APIPath + c.Params("id")); err != nil {
			f := failure("刪除失敗", err)
			setFlash(c, f.Kind, f.Message)
			return c.Redirect(res.Path)
		}
		setFlash(c, "success", "已刪除")
		return c.Redirect(res.Path)
	}
}

func (h *handlers) export(res resource) fiber.Handler {
	return func(c *fiber.Ctx) error {
		body, contentType, err := h.client.Download(res.APIPath + "export" + listQuery(c, res.DateParam))
		if err != nil {
			f := failure("匯出失敗", err)
			setFlash(c, f.Kind, f.Message)
			return c.Redirect(res.Path)
		}
		c.Set(fiber.HeaderContentType, contentType)
		c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+res.Path[1:]+`.xlsx"`)
		return c.Send(body)
	}
}

// failure turns a client error into a flash: the API's own detail for
// rejected requests, a warning when the API is unreachable.
func failure(prefix string, err error) Flash {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return Flash{Kind: "danger", Message: prefix + "：" + apiErr.Detail}
	}
	log.Printf("API request failed: %v", err)
	return Flash{Kind: "warning", Message: msgUnreachable}
}
