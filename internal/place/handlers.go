package place

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/darshan87986/cultural-explorer/internal/query"
)

type reviewRequest struct {
	AuthorName string `json:"author_name"`
	Rating     int    `json:"rating"`
	Comment    string `json:"comment"`
}

type mediaRequest struct {
	URL     string `json:"url"`
	Caption string `json:"caption"`
}

// RegisterRoutes mounts the catalog. Browsing is public; filtering and
// sorting happen in-process over the full list.
func RegisterRoutes(r fiber.Router, svc *Service, remote *RemoteClient) {
	r.Get("/", func(c *fiber.Ctx) error {
		places, err := svc.List(c.Context())
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "places unavailable")
		}
		places = query.Run(places, query.Options{
			Term:     c.Query("q"),
			Category: c.Query("category", query.CategoryAll),
			Sort:     c.Query("sort", query.SortRating),
		})
		return c.JSON(fiber.Map{"places": places})
	})

	r.Get("/markers", func(c *fiber.Ctx) error {
		markers, err := svc.Markers(c.Context())
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "markers unavailable")
		}
		return c.JSON(fiber.Map{"markers": markers})
	})

	r.Get("/nearby", func(c *fiber.Ctx) error {
		lat := c.QueryFloat("lat")
		lng := c.QueryFloat("lng")
		radius := c.QueryFloat("radius_km", 50)
		limit := c.QueryInt("limit", 10)

		nearby, err := svc.Nearby(c.Context(), lat, lng, radius, limit)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "places unavailable")
		}
		return c.JSON(fiber.Map{"places": nearby})
	})

	r.Post("/submit", func(c *fiber.Ctx) error {
		if remote == nil {
			return fiber.NewError(fiber.StatusServiceUnavailable, "remote directory not configured")
		}
		var sub Submission
		if err := c.BodyParser(&sub); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid body")
		}
		if sub.Name == "" || sub.Description == "" {
			return fiber.NewError(fiber.StatusBadRequest, "name and description required")
		}
		if err := remote.Submit(c.Context(), sub); err != nil {
			return fiber.NewError(fiber.StatusBadGateway, "submission failed, retry")
		}
		return c.SendStatus(fiber.StatusAccepted)
	})

	r.Post("/import", func(c *fiber.Ctx) error {
		if remote == nil {
			return fiber.NewError(fiber.StatusServiceUnavailable, "remote directory not configured")
		}
		count, err := remote.ImportRemote(c.Context(), svc)
		if err != nil {
			return fiber.NewError(fiber.StatusBadGateway, "import failed")
		}
		return c.JSON(fiber.Map{"imported": count})
	})

	r.Post("/reviews/:reviewID/helpful", func(c *fiber.Ctx) error {
		count, err := svc.MarkHelpful(c.Context(), c.Params("reviewID"))
		switch {
		case errors.Is(err, ErrReviewNotFound):
			return fiber.NewError(fiber.StatusNotFound, "review not found")
		case err != nil:
			return fiber.NewError(fiber.StatusInternalServerError, "update failed")
		}
		return c.JSON(fiber.Map{"helpful_count": count})
	})

	r.Get("/:id", func(c *fiber.Ctx) error {
		p, err := svc.Get(c.Context(), c.Params("id"))
		switch {
		case errors.Is(err, ErrPlaceNotFound):
			return fiber.NewError(fiber.StatusNotFound, "place not found")
		case err != nil:
			return fiber.NewError(fiber.StatusInternalServerError, "place unavailable")
		}
		return c.JSON(p)
	})

	r.Get("/:id/similar", func(c *fiber.Ctx) error {
		similar, err := svc.Similar(c.Context(), c.Params("id"))
		switch {
		case errors.Is(err, ErrPlaceNotFound):
			return fiber.NewError(fiber.StatusNotFound, "place not found")
		case err != nil:
			return fiber.NewError(fiber.StatusInternalServerError, "places unavailable")
		}
		return c.JSON(fiber.Map{"places": similar})
	})

	r.Get("/:id/reviews", func(c *fiber.Ctx) error {
		reviews, err := svc.Reviews(c.Context(), c.Params("id"))
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "reviews unavailable")
		}
		return c.JSON(fiber.Map{"reviews": reviews})
	})

	r.Post("/:id/reviews", func(c *fiber.Ctx) error {
		var req reviewRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid body")
		}
		review, err := svc.AddReview(c.Context(), c.Params("id"), req.AuthorName, req.Rating, req.Comment)
		switch {
		case errors.Is(err, ErrInvalidRating):
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		case errors.Is(err, ErrPlaceNotFound):
			return fiber.NewError(fiber.StatusNotFound, "place not found")
		case err != nil:
			return fiber.NewError(fiber.StatusInternalServerError, "review not stored")
		}
		return c.Status(fiber.StatusCreated).JSON(review)
	})

	r.Get("/:id/media", func(c *fiber.Ctx) error {
		media, err := svc.Media(c.Context(), c.Params("id"))
		switch {
		case errors.Is(err, ErrPlaceNotFound):
			return fiber.NewError(fiber.StatusNotFound, "place not found")
		case err != nil:
			return fiber.NewError(fiber.StatusInternalServerError, "media unavailable")
		}
		return c.JSON(fiber.Map{"media": media})
	})

	r.Post("/:id/media", func(c *fiber.Ctx) error {
		var req mediaRequest
		if err := c.BodyParser(&req); err != nil || req.URL == "" {
			return fiber.NewError(fiber.StatusBadRequest, "url required")
		}
		media, err := svc.AddMedia(c.Context(), c.Params("id"), req.URL, req.Caption)
		switch {
		case errors.Is(err, ErrPlaceNotFound):
			return fiber.NewError(fiber.StatusNotFound, "place not found")
		case err != nil:
			return fiber.NewError(fiber.StatusInternalServerError, "media not stored")
		}
		return c.Status(fiber.StatusCreated).JSON(media)
	})
}
