package identity

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/Sharpe73/GastoSmart-sub000/internal/audit"
	"github.com/Sharpe73/GastoSmart-sub000/internal/auth"
)

type Mailer interface {
	SendTemporaryPassword(ctx context.Context, to, nombre, tempPassword string) error
}

type Handler struct {
	Store  Store
	Mailer Mailer
	Secret []byte
	Log    *zap.Logger
	Audit  *audit.Logger
}

func NewHandler(store Store, mailer Mailer, secret []byte, log *zap.Logger, auditLog *audit.Logger) *Handler {
	return &Handler{Store: store, Mailer: mailer, Secret: secret, Log: log, Audit: auditLog}
}

// recordAudit is best-effort; an audit insert failure never fails the
// request it describes.
func (h *Handler) recordAudit(c *fiber.Ctx, action string, userID *string) {
	ip := c.IP()
	err := h.Audit.Record(auth.Context(c), audit.Entry{
		UserID:     userID,
		Action:     action,
		EntityType: "usuario",
		EntityID:   userID,
		IP:         &ip,
	})
	if err != nil {
		h.Log.Warn("audit write failed", zap.String("action", action), zap.Error(err))
	}
}

func (h *Handler) Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "cuerpo inválido")
	}

	req.Nombre = strings.TrimSpace(req.Nombre)
	req.Apellido = strings.TrimSpace(req.Apellido)
	req.Email = strings.TrimSpace(req.Email)
	if req.Nombre == "" || req.Apellido == "" || req.Email == "" || req.Password == "" {
		return fiber.NewError(fiber.StatusBadRequest, "nombre, apellido, email y password son obligatorios")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "error interno")
	}

	u := &User{
		Nombre:       req.Nombre,
		Apellido:     req.Apellido,
		Email:        req.Email,
		PasswordHash: string(hashed),
	}

	created, err := h.Store.CreateUser(auth.Context(c), u)
	if err != nil {
		if errors.Is(err, ErrEmailTaken) {
			return fiber.NewError(fiber.StatusBadRequest, "el email ya está registrado")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "no se pudo crear el usuario")
	}

	h.recordAudit(c, "register", &created.ID)

	return c.Status(fiber.StatusCreated).JSON(created.Profile())
}

func (h *Handler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "cuerpo inválido")
	}

	ctx := auth.Context(c)
	u, err := h.Store.GetByEmail(ctx, strings.TrimSpace(req.Email))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return fiber.NewError(fiber.StatusUnauthorized, "credenciales inválidas")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "error interno")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "credenciales inválidas")
	}

	// A pending temporary password blocks token issuance until the user
	// picks a new one.
	if u.MustChangePassword {
		return c.JSON(RequiresChangeResponse{
			RequiresChange: true,
			Email:          u.Email,
			Message:        "debes cambiar tu contraseña temporal",
		})
	}

	token, err := GenerateToken(h.Secret, u)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "no se pudo crear el token")
	}

	if err := h.Store.TouchLastLogin(ctx, u.ID); err != nil {
		h.Log.Warn("failed to update last_login_at", zap.Error(err))
	}
	h.recordAudit(c, "login", &u.ID)

	return c.JSON(LoginResponse{Token: token, Usuario: u.Profile()})
}

func (h *Handler) ForgotPassword(c *fiber.Ctx) error {
	var req ForgotPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "cuerpo inválido")
	}
	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" {
		return fiber.NewError(fiber.StatusBadRequest, "email es obligatorio")
	}

	ctx := auth.Context(c)
	u, err := h.Store.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "usuario no encontrado")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "error interno")
	}

	temp, err := newTemporaryPassword()
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "error interno")
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(temp), bcrypt.DefaultCost)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "error interno")
	}

	if err := h.Store.SetTemporaryPassword(ctx, u.ID, string(hashed)); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "no se pudo generar la contraseña temporal")
	}

	// The temporary password is already persisted at this point; a delivery
	// failure leaves the account waiting on a secret the user never got.
	// Known tradeoff of the flow, so it is logged loudly.
	if err := h.Mailer.SendTemporaryPassword(ctx, u.Email, u.Nombre, temp); err != nil {
		h.Log.Error("temporary password email failed after persisting the hash",
			zap.String("email", u.Email), zap.Error(err))
		return fiber.NewError(fiber.StatusInternalServerError, "no se pudo enviar el correo")
	}

	h.recordAudit(c, "olvidar_password", &u.ID)

	return c.JSON(fiber.Map{"message": "se envió una contraseña temporal a tu correo"})
}

func (h *Handler) ResetPassword(c *fiber.Ctx) error {
	var req ResetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "cuerpo inválido")
	}
	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || req.NewPassword == "" {
		return fiber.NewError(fiber.StatusBadRequest, "email y nueva_password son obligatorios")
	}

	ctx := auth.Context(c)
	u, err := h.Store.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "usuario no encontrado")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "error interno")
	}

	if !u.MustChangePassword {
		return fiber.NewError(fiber.StatusBadRequest, "no hay un cambio de contraseña pendiente")
	}

	// The new password must differ from the temporary one currently stored.
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.NewPassword)) == nil {
		return fiber.NewError(fiber.StatusBadRequest, "la nueva contraseña no puede ser igual a la temporal")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "error interno")
	}

	if err := h.Store.SetPassword(ctx, u.ID, string(hashed)); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "no se pudo actualizar la contraseña")
	}

	h.recordAudit(c, "reset_password", &u.ID)

	return c.JSON(fiber.Map{"message": "contraseña actualizada"})
}

func newTemporaryPassword() (string, error) {
	b := make([]byte, 6)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
