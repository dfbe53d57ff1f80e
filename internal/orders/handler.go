package orders

import (
	"fmt"
	"strconv"
	"time"

	"wms-backend/internal/query"
	"wms-backend/internal/request"

	"github.com/gofiber/fiber/v2"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Register mounts the aggregate routes for m on r. The export route is
// registered before "/:id" so it is not parsed as an id.
func Register[H any, L any](r fiber.Router, m *Manager[H, L], timeout time.Duration) {
	r.Get("/", ListHandler(m, timeout))
	r.Get("/export", ExportHandler(m, timeout))
	r.Post("/", CreateHandler(m, timeout))
	r.Get("/:id", GetHandler(m, timeout))
	r.Put("/:id", UpdateHandler(m, timeout))
	r.Delete("/:id", DeleteHandler(m, timeout))
}

// GET /api/v1/{inbound|requisitions}/?io_date=2023-12-01&q=&skip=&limit=&expand=
func ListHandler[H any, L any](m *Manager[H, L], timeout time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		f, err := query.ParseFilter(c, m.kind.DateParam)
		if err != nil {
			return err
		}

		ctx, cancel := request.Context(c, timeout)
		defer cancel()

		list, err := m.List(ctx, f)
		if err != nil {
			return err
		}
		return c.JSON(list)
	}
}

// GET /api/v1/{inbound|requisitions}/:id?expand=true
func GetHandler[H any, L any](m *Manager[H, L], timeout time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := request.ID(c)
		if err != nil {
			return err
		}

		ctx, cancel := request.Context(c, timeout)
		defer cancel()

		h, err := m.Get(ctx, id, c.QueryBool("expand", false))
		if err != nil {
			return err
		}
		return c.JSON(h)
	}
}

func CreateHandler[H any, L any](m *Manager[H, L], timeout time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		h := new(H)
		if err := request.Body(c, h); err != nil {
			return err
		}

		ctx, cancel := request.Context(c, timeout)
		defer cancel()

		created, err := m.Create(ctx, h)
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(created)
	}
}

// PUT replaces the header fields and the whole line list.
func UpdateHandler[H any, L any](m *Manager[H, L], timeout time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := request.ID(c)
		if err != nil {
			return err
		}
		h := new(H)
		if err := request.Body(c, h); err != nil {
			return err
		}

		ctx, cancel := request.Context(c, timeout)
		defer cancel()

		updated, err := m.Update(ctx, id, h)
		if err != nil {
			return err
		}
		return c.JSON(updated)
	}
}

func DeleteHandler[H any, L any](m *Manager[H, L], timeout time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := request.ID(c)
		if err != nil {
			return err
		}

		ctx, cancel := request.Context(c, timeout)
		defer cancel()

		if err := m.Delete(ctx, id); err != nil {
			return err
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// GET /api/v1/{inbound|requisitions}/export, without a limit every
// matching header is exported.
func ExportHandler[H any, L any](m *Manager[H, L], timeout time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		f, err := query.ParseFilter(c, m.kind.DateParam)
		if err != nil {
			return err
		}
		if c.Query("limit") == "" {
			f.Limit = 0
		}

		ctx, cancel := request.Context(c, timeout)
		defer cancel()

		buf, err := m.Export(ctx, f)
		if err != nil {
			return err
		}

		filename := fmt.Sprintf("%s-%s.xlsx", m.kind.AuditType, time.Now().Format("20060102"))
		c.Set(fiber.HeaderContentType, xlsxContentType)
		c.Set(fiber.HeaderContentDisposition, "attachment; filename="+strconv.Quote(filename))
		return c.Send(buf.Bytes())
	}
}
