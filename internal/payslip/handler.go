package payslip

import (
	"errors"
	"io"
	"strconv"
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

func (h *Handler) Upload(c *fiber.Ctx) error {
	userID, err := auth.UserID(c)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "no autorizado")
	}

	file, err := c.FormFile("file")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "debes adjuntar un archivo")
	}

	mes, err1 := strconv.Atoi(strings.TrimSpace(c.FormValue("mes")))
	anio, err2 := strconv.Atoi(strings.TrimSpace(c.FormValue("anio")))
	if err1 != nil || err2 != nil || mes < 1 || mes > 12 {
		return fiber.NewError(fiber.StatusBadRequest, "mes y anio inválidos")
	}

	src, err := file.Open()
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "no se pudo leer el archivo")
	}
	defer src.Close()

	content, err := io.ReadAll(src)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "no se pudo leer el archivo")
	}

	d, err := h.Store.Insert(auth.Context(c), userID, mes, anio, content)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "no se pudo guardar la liquidación")
	}

	return c.Status(fiber.StatusCreated).JSON(d)
}

func (h *Handler) List(c *fiber.Ctx) error {
	userID, err := auth.UserID(c)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "no autorizado")
	}

	items, err := h.Store.ListByUser(auth.Context(c), userID)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "no se pudieron listar las liquidaciones")
	}

	return c.JSON(items)
}

func (h *Handler) Download(c *fiber.Ctx) error {
	userID, err := auth.UserID(c)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "no autorizado")
	}

	d, err := h.Store.Fetch(auth.Context(c), c.Params("id"), userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "liquidación no encontrada")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "no se pudo descargar la liquidación")
	}
	if len(d.Content) == 0 {
		return fiber.NewError(fiber.StatusNotFound, "liquidación no encontrada")
	}

	c.Set("Content-Type", "application/pdf")
	c.Set("Content-Disposition", "inline; filename=liquidacion-"+d.ID+".pdf")
	return c.Send(d.Content)
}
