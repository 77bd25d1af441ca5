package cart

import (
	"github.com/gofiber/fiber/v2"
	"github.com/velomart/storefront-backend/internal/user"
)

// Handler exposes the server cart API. Every endpoint answers with the same
// envelope so clients have a single failure signal.
type Handler struct {
	service *Service
}

func NewHandler(s *Service) *Handler {
	return &Handler{service: s}
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Get("/api/v1/cart", h.getCart)
	app.Post("/api/v1/cart/sync", h.syncCart)
	app.Post("/api/v1/cart/items", h.upsertItem)
	app.Delete("/api/v1/cart/items", h.removeItem)
	app.Delete("/api/v1/cart", h.clearCart)
}

type itemRequest struct {
	ProductID int             `json:"productID"`
	Quantity  int             `json:"quantity"`
	Variants  []VariantOption `json:"variants,omitempty"`
}

type syncRequest struct {
	Items []SyncItem `json:"items"`
}

func ok(c *fiber.Ctx, items []Line, total int) error {
	return c.JSON(Envelope{Success: true, Data: &Data{Items: items, TotalPrice: total}})
}

func fail(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(Envelope{Success: false, Message: message})
}

func (h *Handler) getCart(c *fiber.Ctx) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "unauthorized")
	}

	items, total, err := h.service.Get(userID)
	if err != nil {
		return h.failFor(c, err)
	}
	return ok(c, items, total)
}

func (h *Handler) upsertItem(c *fiber.Ctx) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "unauthorized")
	}

	payload := new(itemRequest)
	if err := c.BodyParser(payload); err != nil {
		return fail(c, fiber.StatusBadRequest, err.Error())
	}
	if payload.ProductID <= 0 {
		return fail(c, fiber.StatusBadRequest, "invalid productID")
	}

	items, total, err := h.service.Upsert(userID, payload.ProductID, payload.Quantity, payload.Variants)
	if err != nil {
		return h.failFor(c, err)
	}
	return ok(c, items, total)
}

func (h *Handler) syncCart(c *fiber.Ctx) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "unauthorized")
	}

	payload := new(syncRequest)
	if err := c.BodyParser(payload); err != nil {
		return fail(c, fiber.StatusBadRequest, err.Error())
	}

	items, total, err := h.service.Sync(userID, payload.Items)
	if err != nil {
		return h.failFor(c, err)
	}
	return ok(c, items, total)
}

func (h *Handler) removeItem(c *fiber.Ctx) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "unauthorized")
	}

	payload := new(itemRequest)
	if err := c.BodyParser(payload); err != nil {
		return fail(c, fiber.StatusBadRequest, err.Error())
	}
	if payload.ProductID <= 0 {
		return fail(c, fiber.StatusBadRequest, "invalid productID")
	}

	items, total, err := h.service.Remove(userID, payload.ProductID, payload.Variants)
	if err != nil {
		return h.failFor(c, err)
	}
	return ok(c, items, total)
}

func (h *Handler) clearCart(c *fiber.Ctx) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "unauthorized")
	}

	if err := h.service.Clear(userID); err != nil {
		return h.failFor(c, err)
	}
	return ok(c, []Line{}, 0)
}

func (h *Handler) failFor(c *fiber.Ctx, err error) error {
	switch err {
	case ErrUserNotFound:
		return fail(c, fiber.StatusNotFound, "user not found")
	case ErrProductNotFound:
		return fail(c, fiber.StatusNotFound, "product not found")
	default:
		return fail(c, fiber.StatusInternalServerError, err.Error())
	}
}
