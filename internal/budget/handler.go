package budget

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

func (h *Handler) Upsert(c *fiber.Ctx) error {
	userID, err := auth.UserID(c)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "no autorizado")
	}

	var req UpsertBudgetRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "cuerpo inválido")
	}

	if req.Salario <= 0 {
		return fiber.NewError(fiber.StatusBadRequest, "salario debe ser mayor a cero")
	}
	inicio, err := time.Parse("2006-01-02", strings.TrimSpace(req.FechaInicio))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "fecha_inicio debe ser YYYY-MM-DD")
	}
	fin, err := time.Parse("2006-01-02", strings.TrimSpace(req.FechaFin))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "fecha_fin debe ser YYYY-MM-DD")
	}

	b, err := h.Store.Upsert(auth.Context(c), userID, req.Salario, inicio, fin)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "no se pudo guardar el presupuesto")
	}

	return c.Status(fiber.StatusCreated).JSON(b)
}

func (h *Handler) GetCurrent(c *fiber.Ctx) error {
	userID, err := auth.UserID(c)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "no autorizado")
	}

	b, err := h.Store.GetCurrent(auth.Context(c), userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			// No budget yet is a normal state, not an error.
			return c.JSON(nil)
		}
		return fiber.NewError(fiber.StatusInternalServerError, "no se pudo obtener el presupuesto")
	}

	return c.JSON(b)
}

func (h *Handler) GetBalance(c *fiber.Ctx) error {
	userID, err := auth.UserID(c)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "no autorizado")
	}

	ctx := auth.Context(c)
	b, err := h.Store.GetCurrent(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return c.JSON(fiber.Map{"message": "aún no has registrado un presupuesto"})
		}
		return fiber.NewError(fiber.StatusInternalServerError, "no se pudo obtener el presupuesto")
	}

	total, err := h.Store.SumExpenses(ctx, userID, b.FechaInicio, b.FechaFin)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "no se pudo calcular el saldo")
	}

	return c.JSON(NewBalance(b, total))
}
