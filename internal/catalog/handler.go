package catalog

import (
	"time"

	"wms-backend/internal/query"
	"wms-backend/internal/request"

	"github.com/gofiber/fiber/v2"
)

// Register mounts list/get/create/update/delete for repo on r.
func Register[T any, I Input[T]](r fiber.Router, repo *Repository[T], timeout time.Duration) {
	r.Get("/", ListHandler(repo, timeout))
	r.Post("/", CreateHandler[T, I](repo, timeout))
	r.Get("/:id", GetHandler(repo, timeout))
	r.Put("/:id", UpdateHandler[T, I](repo, timeout))
	r.Delete("/:id", DeleteHandler(repo, timeout))
}

// GET /api/v1/{resource}/?skip=0&limit=10&q=
func ListHandler[T any](repo *Repository[T], timeout time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		f, err := query.ParseFilter(c, "")
		if err != nil {
			return err
		}

		ctx, cancel := request.Context(c, timeout)
		defer cancel()

		list, err := repo.List(ctx, f)
		if err != nil {
			return err
		}
		return c.JSON(list)
	}
}

// GET /api/v1/{resource}/:id
func GetHandler[T any](repo *Repository[T], timeout time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := request.ID(c)
		if err != nil {
			return err
		}

		ctx, cancel := request.Context(c, timeout)
		defer cancel()

		rec, err := repo.Get(ctx, id)
		if err != nil {
			return err
		}
		return c.JSON(rec)
	}
}

// POST /api/v1/{resource}/
func CreateHandler[T any, I Input[T]](repo *Repository[T], timeout time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in I
		if err := request.Body(c, &in); err != nil {
			return err
		}
		rec, err := in.Record()
		if err != nil {
			return err
		}

		ctx, cancel := request.Context(c, timeout)
		defer cancel()

		if err := repo.Create(ctx, rec); err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(rec)
	}
}

// PUT /api/v1/{resource}/:id, only the fields present in the body change.
func UpdateHandler[T any, I Input[T]](repo *Repository[T], timeout time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := request.ID(c)
		if err != nil {
			return err
		}

		var in I
		if err := request.Body(c, &in); err != nil {
			return err
		}
		changes, err := in.Changes()
		if err != nil {
			return err
		}

		ctx, cancel := request.Context(c, timeout)
		defer cancel()

		rec, err := repo.Update(ctx, id, changes)
		if err != nil {
			return err
		}
		return c.JSON(rec)
	}
}

// DELETE /api/v1/{resource}/:id
func DeleteHandler[T any](repo *Repository[T], timeout time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := request.ID(c)
		if err != nil {
			return err
		}

		ctx, cancel := request.Context(c, timeout)
		defer cancel()

		if err := repo.Delete(ctx, id); err != nil {
			return err
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
