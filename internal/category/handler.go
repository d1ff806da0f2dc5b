package category

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/Sharpe73/GastoSmart-sub000/internal/auth"
)

type Handler struct {
	Store Store
}

func NewHandler(store Store) *Handler {
	return &Handler{Store: store}
}

func (h *Handler) Create(c *fiber.Ctx) error {
	userID, err := auth.UserID(c)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "no autorizado")
	}

	var req UpsertCategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "cuerpo inválido")
	}

	req.Nombre = strings.TrimSpace(req.Nombre)
	if req.Nombre == "" {
		return fiber.NewError(fiber.StatusBadRequest, "nombre es obligatorio")
	}

	cat, err := h.Store.Insert(auth.Context(c), userID, req.Nombre)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "no se pudo crear la categoría")
	}

	return c.Status(fiber.StatusCreated).JSON(cat)
}

func (h *Handler) List(c *fiber.Ctx) error {
	userID, err := auth.UserID(c)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "no autorizado")
	}

	items, err := h.Store.ListByUser(auth.Context(c), userID)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "no se pudieron listar las categorías")
	}

	return c.JSON(items)
}

func (h *Handler) Update(c *fiber.Ctx) error {
	userID, err := auth.UserID(c)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "no autorizado")
	}

	var req UpsertCategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "cuerpo inválido")
	}

	req.Nombre = strings.TrimSpace(req.Nombre)
	if req.Nombre == "" {
		return fiber.NewError(fiber.StatusBadRequest, "nombre es obligatorio")
	}

	cat, err := h.Store.Update(auth.Context(c), c.Params("id"), userID, req.Nombre)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "categoría no encontrada")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "no se pudo actualizar la categoría")
	}

	return c.JSON(cat)
}

func (h *Handler) Delete(c *fiber.Ctx) error {
	userID, err := auth.UserID(c)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "no autorizado")
	}

	id := c.Params("id")
	if err := h.Store.Delete(auth.Context(c), id, userID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "categoría no encontrada")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "no se pudo eliminar la categoría")
	}

	return c.JSON(fiber.Map{"id": id})
}
