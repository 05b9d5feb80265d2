package booking

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes mounts the user-facing booking surface.
func RegisterRoutes(r fiber.Router, svc *Service, protect fiber.Handler) {
	r.Use(protect)

	r.Post("/", func(c *fiber.Ctx) error {
		var req CreateRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid body")
		}

		created, err := svc.Create(c.Context(), userID(c), req)
		switch {
		case errors.Is(err, ErrMissingFields):
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		case err != nil:
			return fiber.NewError(fiber.StatusInternalServerError, "booking not stored")
		}
		return c.Status(fiber.StatusCreated).JSON(created)
	})

	r.Get("/", func(c *fiber.Ctx) error {
		ledger, err := svc.List(c.Context(), userID(c))
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "bookings unavailable")
		}
		return c.JSON(fiber.Map{"bookings": ledger})
	})

	r.Get("/confirmed", func(c *fiber.Ctx) error {
		confirmed, err := svc.ListConfirmed(c.Context(), userID(c))
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "bookings unavailable")
		}
		return c.JSON(fiber.Map{"bookings": confirmed})
	})

	r.Get("/pending", func(c *fiber.Ctx) error {
		pending, ok, err := svc.Pending(c.Context(), userID(c))
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "bookings unavailable")
		}
		if !ok {
			return fiber.NewError(fiber.StatusNotFound, "no pending booking")
		}
		return c.JSON(pending)
	})

	r.Post("/:id/cancel", func(c *fiber.Ctx) error {
		if err := svc.Cancel(c.Context(), userID(c), c.Params("id")); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "cancel failed")
		}
		return c.SendStatus(fiber.StatusNoContent)
	})
}

type paymentCallback struct {
	UserID    string `json:"user_id"`
	BookingID string `json:"booking_id"`
}

// RegisterWebhookRoutes mounts the payment provider callback. The provider
// does not carry a user token, so the callback names the user explicitly.
func RegisterWebhookRoutes(r fiber.Router, svc *Service) {
	r.Post("/payments/complete", func(c *fiber.Ctx) error {
		var cb paymentCallback
		if err := c.BodyParser(&cb); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid body")
		}
		if cb.UserID == "" || cb.BookingID == "" {
			return fiber.NewError(fiber.StatusBadRequest, "user_id and booking_id required")
		}

		confirmed, err := svc.ConfirmPayment(c.Context(), cb.UserID, cb.BookingID)
		switch {
		case errors.Is(err, ErrInvalidTransition):
			return fiber.NewError(fiber.StatusConflict, "booking is not awaiting payment")
		case err != nil:
			return fiber.NewError(fiber.StatusInternalServerError, "confirmation failed")
		}
		return c.JSON(confirmed)
	})
}

func userID(c *fiber.Ctx) string {
	id, _ := c.Locals("user_id").(string)
	return id
}
