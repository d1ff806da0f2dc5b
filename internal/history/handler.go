package history

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/Sharpe73/GastoSmart-sub000/internal/auth"
)

type Handler struct {
	Store Store
}

func NewHandler(store Store) *Handler {
	return &Handler{Store: store}
}

func (h *Handler) List(c *fiber.Ctx) error {
	userID, err := auth.UserID(c)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "no autorizado")
	}

	items, err := h.Store.ListByUser(auth.Context(c), userID)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "no se pudieron listar los históricos")
	}

	return c.JSON(items)
}

func (h *Handler) Detail(c *fiber.Ctx) error {
	userID, err := auth.UserID(c)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "no autorizado")
	}

	s, err := h.Store.Get(auth.Context(c), c.Params("id"), userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "histórico no encontrado")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "no se pudo obtener el histórico")
	}

	return c.JSON(s)
}
