package goal

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

	var req CreateGoalRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "cuerpo inválido")
	}

	req.Nombre = strings.TrimSpace(req.Nombre)
	if req.Nombre == "" {
		return fiber.NewError(fiber.StatusBadRequest, "nombre es obligatorio")
	}
	if req.MontoObjetivo <= 0 {
		return fiber.NewError(fiber.StatusBadRequest, "monto_objetivo debe ser mayor a cero")
	}

	g, err := h.Store.InsertGoal(auth.Context(c), userID, req.Nombre, req.MontoObjetivo)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "no se pudo crear la meta")
	}

	return c.Status(fiber.StatusCreated).JSON(g)
}

func (h *Handler) List(c *fiber.Ctx) error {
	userID, err := auth.UserID(c)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "no autorizado")
	}

	items, err := h.Store.ListGoals(auth.Context(c), userID)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "no se pudieron listar las metas")
	}

	return c.JSON(items)
}

func (h *Handler) Delete(c *fiber.Ctx) error {
	userID, err := auth.UserID(c)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "no autorizado")
	}

	id := c.Params("id")
	if err := h.Store.DeleteGoal(auth.Context(c), id, userID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "meta no encontrada")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "no se pudo eliminar la meta")
	}

	return c.JSON(fiber.Map{"id": id})
}

func (h *Handler) CreateContribution(c *fiber.Ctx) error {
	userID, err := auth.UserID(c)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "no autorizado")
	}

	var req CreateContributionRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "cuerpo inválido")
	}

	req.MetaID = strings.TrimSpace(req.MetaID)
	if req.MetaID == "" {
		return fiber.NewError(fiber.StatusBadRequest, "meta_id es obligatorio")
	}
	// A positive monto is an aporte, a negative one a retiro. Zero does
	// nothing and is rejected.
	if req.Monto == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "monto no puede ser cero")
	}

	g, err := h.Store.RecordContribution(auth.Context(c), req.MetaID, userID, req.Monto)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "meta no encontrada")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "no se pudo registrar el aporte")
	}

	return c.Status(fiber.StatusCreated).JSON(g)
}

func (h *Handler) ListContributions(c *fiber.Ctx) error {
	userID, err := auth.UserID(c)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "no autorizado")
	}

	items, err := h.Store.ListContributions(auth.Context(c), c.Params("meta_id"), userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "meta no encontrada")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "no se pudieron listar los aportes")
	}

	return c.JSON(items)
}

func (h *Handler) DeleteContribution(c *fiber.Ctx) error {
	userID, err := auth.UserID(c)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "no autorizado")
	}

	g, err := h.Store.RevertContribution(auth.Context(c), c.Params("id"), userID)
	if err != nil {
		if errors.Is(err, ErrContributionNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "aporte no encontrado")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "no se pudo revertir el aporte")
	}

	return c.JSON(g)
}
