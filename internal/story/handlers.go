package story

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/darshan87986/cultural-explorer/internal/query"
)

func RegisterRoutes(r fiber.Router, svc *Service) {
	r.Get("/", func(c *fiber.Ctx) error {
		stories, err := svc.List(c.Context())
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "stories unavailable")
		}
		stories = query.Run(stories, query.Options{
			Term:     c.Query("q"),
			Category: query.CategoryAll,
			Sort:     c.Query("sort", query.SortNewest),
		})
		return c.JSON(fiber.Map{"stories": stories})
	})

	r.Get("/:id", func(c *fiber.Ctx) error {
		st, err := svc.Get(c.Context(), c.Params("id"))
		switch {
		case errors.Is(err, ErrStoryNotFound):
			return fiber.NewError(fiber.StatusNotFound, "story not found")
		case err != nil:
			return fiber.NewError(fiber.StatusInternalServerError, "story unavailable")
		}
		return c.JSON(st)
	})

	r.Post("/", func(c *fiber.Ctx) error {
		var input Story
		if err := c.BodyParser(&input); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid body")
		}
		created, err := svc.Create(c.Context(), input)
		switch {
		case errors.Is(err, ErrMissingFields):
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		case err != nil:
			return fiber.NewError(fiber.StatusInternalServerError, "story not stored")
		}
		return c.Status(fiber.StatusCreated).JSON(created)
	})
}
