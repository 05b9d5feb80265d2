package session

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/darshan87986/cultural-explorer/internal/auth"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterAuthRoutes mounts login and logout. Logout requires a valid token
// so it knows whose session to clear.
func RegisterAuthRoutes(r fiber.Router, svc *Service, protect fiber.Handler) {
	r.Post("/login", func(c *fiber.Ctx) error {
		var req loginRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid body")
		}

		sess, token, err := svc.Login(c.Context(), req.Email, req.Password)
		switch {
		case errors.Is(err, ErrMissingCredentials):
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		case errors.Is(err, auth.ErrInvalidCredentials):
			return fiber.NewError(fiber.StatusUnauthorized, "invalid credentials")
		case err != nil:
			return fiber.NewError(fiber.StatusBadGateway, "login unavailable, retry")
		}

		return c.JSON(fiber.Map{"token": token, "session": sess})
	})

	r.Post("/logout", protect, func(c *fiber.Ctx) error {
		if err := svc.Logout(c.Context(), userID(c)); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "logout failed")
		}
		return c.SendStatus(fiber.StatusNoContent)
	})
}

// RegisterProfileRoutes mounts the profile, wishlist and visited surface.
func RegisterProfileRoutes(r fiber.Router, svc *Service, protect fiber.Handler) {
	r.Use(protect)

	r.Get("/", func(c *fiber.Ctx) error {
		sess, err := svc.Current(c.Context(), userID(c))
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "session unavailable")
		}
		return c.JSON(sess)
	})

	r.Patch("/", func(c *fiber.Ctx) error {
		var patch ProfileUpdate
		if err := c.BodyParser(&patch); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid body")
		}
		if err := svc.UpdateProfile(c.Context(), userID(c), patch); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "update failed")
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	r.Get("/wishlist", func(c *fiber.Ctx) error {
		ids, err := svc.Wishlist(c.Context(), userID(c))
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "wishlist unavailable")
		}
		return c.JSON(fiber.Map{"place_ids": ids})
	})

	r.Get("/wishlist/:placeID", func(c *fiber.Ctx) error {
		in, err := svc.IsInWishlist(c.Context(), userID(c), c.Params("placeID"))
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "wishlist unavailable")
		}
		return c.JSON(fiber.Map{"in_wishlist": in})
	})

	r.Post("/wishlist/:placeID", func(c *fiber.Ctx) error {
		if err := svc.AddToWishlist(c.Context(), userID(c), c.Params("placeID")); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "wishlist update failed")
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	r.Delete("/wishlist/:placeID", func(c *fiber.Ctx) error {
		if err := svc.RemoveFromWishlist(c.Context(), userID(c), c.Params("placeID")); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "wishlist update failed")
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	r.Post("/visited/:placeID", func(c *fiber.Ctx) error {
		if err := svc.AddToVisited(c.Context(), userID(c), c.Params("placeID")); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "visited update failed")
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	r.Delete("/visited/:placeID", func(c *fiber.Ctx) error {
		if err := svc.RemoveFromVisited(c.Context(), userID(c), c.Params("placeID")); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "visited update failed")
		}
		return c.SendStatus(fiber.StatusNoContent)
	})
}

func userID(c *fiber.Ctx) string {
	id, _ := c.Locals("user_id").(string)
	return id
}
