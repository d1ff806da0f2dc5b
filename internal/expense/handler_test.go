package expense

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http/httptest"
	"sort"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testUser = "11111111-1111-1111-1111-111111111111"

type fakeStore struct {
	rows   map[string]*Expense
	nextID int
}

func newFakeStore() *fakeStore {
	return &fakeStore{rows: make(map[string]*Expense)}
}

func (f *fakeStore) Insert(_ context.Context, exp *Expense) (*Expense, error) {
	f.nextID++
	exp.ID = fmt.Sprintf("g%d", f.nextID)
	exp.CreatedAt = time.Now()
	cp := *exp
	f.rows[exp.ID] = &cp
	return exp, nil
}

func (f *fakeStore) ListByUser(_ context.Context, userID string) ([]Expense, error) {
	out := make([]Expense, 0)
	for _, e := range f.rows {
		if e.UserID == userID {
			out = append(out, *e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Fecha.After(out[j].Fecha) })
	return out, nil
}

func (f *fakeStore) Update(_ context.Context, exp *Expense) (*Expense, error) {
	cur, ok := f.rows[exp.ID]
	if !ok || cur.UserID != exp.UserID {
		return nil, ErrNotFound
	}
	exp.CreatedAt = cur.CreatedAt
	cp := *exp
	f.rows[exp.ID] = &cp
	return exp, nil
}

func (f *fakeStore) Delete(_ context.Context, id, userID string) error {
	cur, ok := f.rows[id]
	if !ok || cur.UserID != userID {
		return ErrNotFound
	}
	delete(f.rows, id)
	return nil
}

func newTestApp(store Store) *fiber.App {
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
	authStub := func(c *fiber.Ctx) error {
		c.Locals("user_id", testUser)
		return c.Next()
	}
	h := NewHandler(store)
	app.Post("/gastos", authStub, h.Create)
	app.Get("/gastos", authStub, h.List)
	app.Put("/gastos/:id", authStub, h.Update)
	app.Delete("/gastos/:id", authStub, h.Delete)
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body any) (map[string]any, int) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	res, err := app.Test(req)
	require.NoError(t, err)
	var decoded map[string]any
	_ = json.NewDecoder(res.Body).Decode(&decoded)
	return decoded, res.StatusCode
}

func listIDs(t *testing.T, app *fiber.App) []string {
	t.Helper()
	req := httptest.NewRequest("GET", "/gastos", nil)
	res, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, res.StatusCode)
	var items []map[string]any
	require.NoError(t, json.NewDecoder(res.Body).Decode(&items))
	ids := make([]string, 0, len(items))
	for _, it := range items {
		ids = append(ids, it["id"].(string))
	}
	return ids
}

func TestCreateValidation(t *testing.T) {
	app := newTestApp(newFakeStore())

	_, status := doJSON(t, app, "POST", "/gastos", map[string]any{"monto": 100})
	assert.Equal(t, fiber.StatusBadRequest, status)

	_, status = doJSON(t, app, "POST", "/gastos", map[string]any{"descripcion": "pan"})
	assert.Equal(t, fiber.StatusBadRequest, status)

	_, status = doJSON(t, app, "POST", "/gastos", map[string]any{"descripcion": "pan", "monto": 100, "fecha": "15-01-2024"})
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestCreateDefaultsFechaToToday(t *testing.T) {
	app := newTestApp(newFakeStore())

	body, status := doJSON(t, app, "POST", "/gastos", map[string]any{"descripcion": "pan", "monto": 100})
	require.Equal(t, fiber.StatusCreated, status)

	fecha, err := time.Parse(time.RFC3339, body["fecha"].(string))
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now(), fecha, time.Minute)
}

func TestUpdateRoundTrip(t *testing.T) {
	app := newTestApp(newFakeStore())

	created, status := doJSON(t, app, "POST", "/gastos", map[string]any{"descripcion": "pan", "monto": 100, "fecha": "2024-01-15"})
	require.Equal(t, fiber.StatusCreated, status)
	id := created["id"].(string)

	updated, status := doJSON(t, app, "PUT", "/gastos/"+id, map[string]any{"descripcion": "pan integral", "monto": 120, "fecha": "2024-01-15"})
	require.Equal(t, fiber.StatusOK, status)

	assert.Equal(t, id, updated["id"])
	assert.Equal(t, "pan integral", updated["descripcion"])
	assert.Equal(t, 120.0, updated["monto"])
	assert.Equal(t, created["fecha"], updated["fecha"])
}

func TestUpdateUnknownExpense(t *testing.T) {
	app := newTestApp(newFakeStore())

	_, status := doJSON(t, app, "PUT", "/gastos/nope", map[string]any{"descripcion": "x", "monto": 1})
	assert.Equal(t, fiber.StatusNotFound, status)
}

func TestDeleteRemovesFromList(t *testing.T) {
	app := newTestApp(newFakeStore())

	created, _ := doJSON(t, app, "POST", "/gastos", map[string]any{"descripcion": "pan", "monto": 100})
	id := created["id"].(string)
	require.Contains(t, listIDs(t, app), id)

	body, status := doJSON(t, app, "DELETE", "/gastos/"+id, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, id, body["id"])

	assert.NotContains(t, listIDs(t, app), id)
}

func TestOwnershipScoping(t *testing.T) {
	store := newFakeStore()
	foreign := &Expense{ID: "ajeno", UserID: "someone-else", Descripcion: "no tuyo", Monto: 50, Fecha: time.Now()}
	store.rows[foreign.ID] = foreign
	app := newTestApp(store)

	_, status := doJSON(t, app, "PUT", "/gastos/ajeno", map[string]any{"descripcion": "mío ahora", "monto": 1})
	assert.Equal(t, fiber.StatusNotFound, status)

	_, status = doJSON(t, app, "DELETE", "/gastos/ajeno", nil)
	assert.Equal(t, fiber.StatusNotFound, status)

	assert.NotContains(t, listIDs(t, app), "ajeno")
}

func TestListNewestFirst(t *testing.T) {
	app := newTestApp(newFakeStore())

	doJSON(t, app, "POST", "/gastos", map[string]any{"descripcion": "viejo", "monto": 1, "fecha": "2024-01-01"})
	doJSON(t, app, "POST", "/gastos", map[string]any{"descripcion": "nuevo", "monto": 1, "fecha": "2024-03-01"})

	req := httptest.NewRequest("GET", "/gastos", nil)
	res, err := app.Test(req)
	require.NoError(t, err)
	var items []map[string]any
	require.NoError(t, json.NewDecoder(res.Body).Decode(&items))
	require.Len(t, items, 2)
	assert.Equal(t, "nuevo", items[0]["descripcion"])
}
