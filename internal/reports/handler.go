package reports

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Sharpe73/GastoSmart-sub000/internal/auth"
)

type Handler struct {
	Store Store
}

func NewHandler(store Store) *Handler {
	return &Handler{Store: store}
}

func (h *Handler) ExpensesByMonth(c *fiber.Ctx) error {
	userID, err := auth.UserID(c)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "no autorizado")
	}

	items, err := h.Store.ExpensesByMonth(auth.Context(c), userID)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "no se pudo generar el reporte")
	}

	return c.JSON(items)
}

func (h *Handler) ExpensesByMonthPDF(c *fiber.Ctx) error {
	userID, err := auth.UserID(c)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "no autorizado")
	}

	items, err := h.Store.ExpensesByMonth(auth.Context(c), userID)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "no se pudo generar el reporte")
	}

	pdfBytes, err := BuildMonthlyPDF(items)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "no se pudo generar el PDF")
	}

	c.Set("Content-Type", "application/pdf")
	c.Set("Content-Disposition", "attachment; filename=gastos-por-mes.pdf")
	return c.Send(pdfBytes)
}
