package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var testSecret = []byte("test-secret")

type fakeStore struct {
	byEmail map[string]*User
	nextID  int
}

func newFakeStore() *fakeStore {
	return &fakeStore{byEmail: make(map[string]*User)}
}

func (f *fakeStore) CreateUser(_ context.Context, u *User) (*User, error) {
	if _, exists := f.byEmail[u.Email]; exists {
		return nil, ErrEmailTaken
	}
	f.nextID++
	u.ID = "22222222-2222-2222-2222-22222222222" + string(rune('0'+f.nextID))
	u.CreatedAt = time.Now()
	f.byEmail[u.Email] = u
	return u, nil
}

func (f *fakeStore) GetByEmail(_ context.Context, email string) (*User, error) {
	u, ok := f.byEmail[email]
	if !ok {
		return nil, ErrNotFound
	}
	return u, nil
}

func (f *fakeStore) TouchLastLogin(_ context.Context, id string) error { return nil }

func (f *fakeStore) SetTemporaryPassword(_ context.Context, id, hash string) error {
	for _, u := range f.byEmail {
		if u.ID == id {
			u.PasswordHash = hash
			u.MustChangePassword = true
			return nil
		}
	}
	return ErrNotFound
}

func (f *fakeStore) SetPassword(_ context.Context, id, hash string) error {
	for _, u := range f.byEmail {
		if u.ID == id {
			u.PasswordHash = hash
			u.MustChangePassword = false
			return nil
		}
	}
	return ErrNotFound
}

type fakeMailer struct {
	sent []string // temp passwords handed off
	fail bool
}

func (m *fakeMailer) SendTemporaryPassword(_ context.Context, to, nombre, tempPassword string) error {
	if m.fail {
		return errors.New("smtp down")
	}
	m.sent = append(m.sent, tempPassword)
	return nil
}

func newTestApp(store Store, mail Mailer) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			var fe *fiber.Error
			if errors.As(err, &fe) {
				code = fe.Code
			}
			return c.Status(code).JSON(fiber.Map{"error": err.Error()})
		},
	})
	h := NewHandler(store, mail, testSecret, zap.NewNop(), nil)
	app.Post("/auth/register", h.Register)
	app.Post("/auth/login", h.Login)
	app.Post("/auth/olvidar-password", h.ForgotPassword)
	app.Post("/auth/reset-password", h.ResetPassword)
	return app
}

func postJSON(t *testing.T, app *fiber.App, path string, body any) (map[string]any, int) {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest("POST", path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	res, err := app.Test(req)
	require.NoError(t, err)
	var decoded map[string]any
	_ = json.NewDecoder(res.Body).Decode(&decoded)
	return decoded, res.StatusCode
}

func registerBody(email string) map[string]any {
	return map[string]any{
		"nombre":   "Ana",
		"apellido": "Pérez",
		"email":    email,
		"password": "hunter22",
	}
}

func TestRegisterValidatesFields(t *testing.T) {
	app := newTestApp(newFakeStore(), &fakeMailer{})

	body, status := postJSON(t, app, "/auth/register", map[string]any{"email": "a@b.cl"})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Contains(t, body["error"], "obligatorios")
}

func TestRegisterNeverReturnsHash(t *testing.T) {
	app := newTestApp(newFakeStore(), &fakeMailer{})

	body, status := postJSON(t, app, "/auth/register", registerBody("ana@test.cl"))
	require.Equal(t, fiber.StatusCreated, status)
	assert.NotContains(t, body, "password_hash")
	assert.NotContains(t, body, "password")
	assert.Equal(t, "ana@test.cl", body["email"])
}

func TestDuplicateEmailLeavesOriginalUntouched(t *testing.T) {
	store := newFakeStore()
	app := newTestApp(store, &fakeMailer{})

	_, status := postJSON(t, app, "/auth/register", registerBody("ana@test.cl"))
	require.Equal(t, fiber.StatusCreated, status)
	originalHash := store.byEmail["ana@test.cl"].PasswordHash

	_, status = postJSON(t, app, "/auth/register", registerBody("ana@test.cl"))
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, originalHash, store.byEmail["ana@test.cl"].PasswordHash)
}

func TestLoginIssuesToken(t *testing.T) {
	app := newTestApp(newFakeStore(), &fakeMailer{})

	postJSON(t, app, "/auth/register", registerBody("ana@test.cl"))
	body, status := postJSON(t, app, "/auth/login", map[string]any{"email": "ana@test.cl", "password": "hunter22"})
	require.Equal(t, fiber.StatusOK, status)

	tokenStr, ok := body["token"].(string)
	require.True(t, ok)

	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) { return testSecret, nil })
	require.NoError(t, err)
	claims := token.Claims.(jwt.MapClaims)
	assert.Equal(t, "ana@test.cl", claims["email"])
	assert.Equal(t, "Ana", claims["nombre"])
	assert.NotEmpty(t, claims["user_id"])

	exp, err := claims.GetExpirationTime()
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(2*time.Hour), exp.Time, time.Minute)
}

func TestLoginBadCredentials(t *testing.T) {
	app := newTestApp(newFakeStore(), &fakeMailer{})
	postJSON(t, app, "/auth/register", registerBody("ana@test.cl"))

	_, status := postJSON(t, app, "/auth/login", map[string]any{"email": "ana@test.cl", "password": "wrong"})
	assert.Equal(t, fiber.StatusUnauthorized, status)

	_, status = postJSON(t, app, "/auth/login", map[string]any{"email": "nadie@test.cl", "password": "hunter22"})
	assert.Equal(t, fiber.StatusUnauthorized, status)
}

func TestPendingChangeBlocksToken(t *testing.T) {
	store := newFakeStore()
	app := newTestApp(store, &fakeMailer{})

	postJSON(t, app, "/auth/register", registerBody("ana@test.cl"))
	store.byEmail["ana@test.cl"].MustChangePassword = true

	body, status := postJSON(t, app, "/auth/login", map[string]any{"email": "ana@test.cl", "password": "hunter22"})
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, true, body["requiresChange"])
	assert.Equal(t, "ana@test.cl", body["email"])
	assert.NotContains(t, body, "token")
}

func TestForgotPasswordFlow(t *testing.T) {
	store := newFakeStore()
	mail := &fakeMailer{}
	app := newTestApp(store, mail)

	postJSON(t, app, "/auth/register", registerBody("ana@test.cl"))

	_, status := postJSON(t, app, "/auth/olvidar-password", map[string]any{"email": "nadie@test.cl"})
	assert.Equal(t, fiber.StatusNotFound, status)

	_, status = postJSON(t, app, "/auth/olvidar-password", map[string]any{"email": "ana@test.cl"})
	require.Equal(t, fiber.StatusOK, status)
	require.Len(t, mail.sent, 1)

	u := store.byEmail["ana@test.cl"]
	assert.True(t, u.MustChangePassword)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(mail.sent[0])))
}

func TestResetPassword(t *testing.T) {
	store := newFakeStore()
	mail := &fakeMailer{}
	app := newTestApp(store, mail)

	postJSON(t, app, "/auth/register", registerBody("ana@test.cl"))

	// Without a pending flag the reset is refused.
	_, status := postJSON(t, app, "/auth/reset-password", map[string]any{"email": "ana@test.cl", "nueva_password": "nueva123"})
	assert.Equal(t, fiber.StatusBadRequest, status)

	postJSON(t, app, "/auth/olvidar-password", map[string]any{"email": "ana@test.cl"})
	temp := mail.sent[0]

	// Reusing the temporary password is refused.
	_, status = postJSON(t, app, "/auth/reset-password", map[string]any{"email": "ana@test.cl", "nueva_password": temp})
	assert.Equal(t, fiber.StatusBadRequest, status)

	_, status = postJSON(t, app, "/auth/reset-password", map[string]any{"email": "ana@test.cl", "nueva_password": "nueva123"})
	require.Equal(t, fiber.StatusOK, status)

	u := store.byEmail["ana@test.cl"]
	assert.False(t, u.MustChangePassword)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("nueva123")))
}

func TestMailFailureSurfacesAsError(t *testing.T) {
	store := newFakeStore()
	app := newTestApp(store, &fakeMailer{fail: true})

	postJSON(t, app, "/auth/register", registerBody("ana@test.cl"))
	_, status := postJSON(t, app, "/auth/olvidar-password", map[string]any{"email": "ana@test.cl"})
	assert.Equal(t, fiber.StatusInternalServerError, status)

	// The documented tradeoff: state is already overwritten.
	assert.True(t, store.byEmail["ana@test.cl"].MustChangePassword)
}
