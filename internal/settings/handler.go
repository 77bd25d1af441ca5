package settings

import (
	"github.com/gofiber/fiber/v2"
	"github.com/velomart/storefront-backend/internal/user"
)

// Handler serves the cart policy. The read side is public because guest
// clients fetch it before any authentication exists; updates require a
// signed-in admin identity.
type Handler struct {
	service *Service
}

func NewHandler(s *Service) *Handler {
	return &Handler{service: s}
}

func (h *Handler) RegisterPublicRoutes(app *fiber.App) {
	app.Get("/api/v1/settings/cart", h.getCartConfig)
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Put("/api/v1/settings/cart", h.updateCartConfig)
}

// response nests the cart object so more settings sections can ride along
// later without breaking clients.
type configResponse struct {
	Success bool       `json:"success"`
	Data    configData `json:"data"`
}

type configData struct {
	Cart CartConfig `json:"cart"`
}

func (h *Handler) getCartConfig(c *fiber.Ctx) error {
	cfg := h.service.GetCartConfig(c.Context())
	return c.JSON(configResponse{Success: true, Data: configData{Cart: cfg}})
}

func (h *Handler) updateCartConfig(c *fiber.Ctx) error {
	if _, err := user.GetUserIDFromCtx(c); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	payload := new(CartConfig)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	if err := h.service.UpdateCartConfig(c.Context(), *payload); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(configResponse{Success: true, Data: configData{Cart: *payload}})
}
