package expense

import (
	"errors"
	"strings"
	"time"

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

	var req UpsertExpenseRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "cuerpo inválido")
	}

	req.Descripcion = strings.TrimSpace(req.Descripcion)
	if req.Descripcion == "" {
		return fiber.NewError(fiber.StatusBadRequest, "descripcion es obligatoria")
	}
	if req.Monto <= 0 {
		return fiber.NewError(fiber.StatusBadRequest, "monto debe ser mayor a cero")
	}

	fecha, err := parseFecha(req.Fecha)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "fecha debe ser YYYY-MM-DD")
	}

	exp := &Expense{
		UserID:      userID,
		Descripcion: req.Descripcion,
		Monto:       req.Monto,
		Fecha:       fecha,
		CategoriaID: req.CategoriaID,
		DocumentoID: req.DocumentoID,
	}

	created, err := h.Store.Insert(auth.Context(c), exp)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "no se pudo registrar el gasto")
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *Handler) List(c *fiber.Ctx) error {
	userID, err := auth.UserID(c)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "no autorizado")
	}

	items, err := h.Store.ListByUser(auth.Context(c), userID)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "no se pudieron listar los gastos")
	}

	return c.JSON(items)
}

func (h *Handler) Update(c *fiber.Ctx) error {
	userID, err := auth.UserID(c)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "no autorizado")
	}

	var req UpsertExpenseRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "cuerpo inválido")
	}

	req.Descripcion = strings.TrimSpace(req.Descripcion)
	if req.Descripcion == "" {
		return fiber.NewError(fiber.StatusBadRequest, "descripcion es obligatoria")
	}
	if req.Monto <= 0 {
		return fiber.NewError(fiber.StatusBadRequest, "monto debe ser mayor a cero")
	}

	fecha, err := parseFecha(req.Fecha)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "fecha debe ser YYYY-MM-DD")
	}

	exp := &Expense{
		ID:          c.Params("id"),
		UserID:      userID,
		Descripcion: req.Descripcion,
		Monto:       req.Monto,
		Fecha:       fecha,
		CategoriaID: req.CategoriaID,
		DocumentoID: req.DocumentoID,
	}

	updated, err := h.Store.Update(auth.Context(c), exp)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "gasto no encontrado")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "no se pudo actualizar el gasto")
	}

	return c.JSON(updated)
}

func (h *Handler) Delete(c *fiber.Ctx) error {
	userID, err := auth.UserID(c)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "no autorizado")
	}

	id := c.Params("id")
	if err := h.Store.Delete(auth.Context(c), id, userID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "gasto no encontrado")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "no se pudo eliminar el gasto")
	}

	return c.JSON(fiber.Map{"id": id})
}

func parseFecha(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Now(), nil
	}
	return time.Parse("2006-01-02", raw)
}
