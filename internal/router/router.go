package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Sharpe73/GastoSmart-sub000/internal/budget"
	"github.com/Sharpe73/GastoSmart-sub000/internal/category"
	"github.com/Sharpe73/GastoSmart-sub000/internal/expense"
	"github.com/Sharpe73/GastoSmart-sub000/internal/goal"
	"github.com/Sharpe73/GastoSmart-sub000/internal/history"
	"github.com/Sharpe73/GastoSmart-sub000/internal/identity"
	"github.com/Sharpe73/GastoSmart-sub000/internal/payslip"
	"github.com/Sharpe73/GastoSmart-sub000/internal/reports"
)

type Router struct {
	IdentityHandler *identity.Handler
	CategoryHandler *category.Handler
	ExpenseHandler  *expense.Handler
	BudgetHandler   *budget.Handler
	GoalHandler     *goal.Handler
	PayslipHandler  *payslip.Handler
	HistoryHandler  *history.Handler
	ReportsHandler  *reports.Handler
	AuthMW          fiber.Handler
}

// RegisterRoutes mounts the whole API surface. Everything except the auth
// group requires a bearer token.
func (r *Router) RegisterRoutes(app *fiber.App) {
	authLimit := RateLimitAuth()
	writeLimit := RateLimitWrite()

	app.Post("/auth/register", authLimit, r.IdentityHandler.Register)
	app.Post("/auth/login", authLimit, r.IdentityHandler.Login)
	app.Post("/auth/olvidar-password", authLimit, r.IdentityHandler.ForgotPassword)
	app.Post("/auth/reset-password", authLimit, r.IdentityHandler.ResetPassword)

	app.Get("/categorias", r.AuthMW, r.CategoryHandler.List)
	app.Post("/categorias", r.AuthMW, writeLimit, r.CategoryHandler.Create)
	app.Put("/categorias/:id", r.AuthMW, writeLimit, r.CategoryHandler.Update)
	app.Delete("/categorias/:id", r.AuthMW, writeLimit, r.CategoryHandler.Delete)

	app.Get("/gastos", r.AuthMW, r.ExpenseHandler.List)
	app.Post("/gastos", r.AuthMW, writeLimit, r.ExpenseHandler.Create)
	app.Put("/gastos/:id", r.AuthMW, writeLimit, r.ExpenseHandler.Update)
	app.Delete("/gastos/:id", r.AuthMW, writeLimit, r.ExpenseHandler.Delete)

	app.Get("/presupuesto", r.AuthMW, r.BudgetHandler.GetCurrent)
	app.Post("/presupuesto", r.AuthMW, writeLimit, r.BudgetHandler.Upsert)
	app.Get("/presupuesto/saldo", r.AuthMW, r.BudgetHandler.GetBalance)

	app.Get("/metas", r.AuthMW, r.GoalHandler.List)
	app.Post("/metas", r.AuthMW, writeLimit, r.GoalHandler.Create)
	app.Delete("/metas/:id", r.AuthMW, writeLimit, r.GoalHandler.Delete)

	app.Post("/aportes", r.AuthMW, writeLimit, r.GoalHandler.CreateContribution)
	app.Get("/aportes/:meta_id", r.AuthMW, r.GoalHandler.ListContributions)
	app.Delete("/aportes/:id", r.AuthMW, writeLimit, r.GoalHandler.DeleteContribution)

	app.Post("/liquidaciones", r.AuthMW, writeLimit, r.PayslipHandler.Upload)
	app.Get("/liquidaciones", r.AuthMW, r.PayslipHandler.List)
	app.Get("/liquidaciones/:id/descargar", r.AuthMW, r.PayslipHandler.Download)

	app.Get("/historicos", r.AuthMW, r.HistoryHandler.List)
	app.Get("/historicos/:id", r.AuthMW, r.HistoryHandler.Detail)

	app.Get("/reportes/gastos-por-mes", r.AuthMW, r.ReportsHandler.ExpensesByMonth)
	app.Get("/reportes/gastos-por-mes/pdf", r.AuthMW, r.ReportsHandler.ExpensesByMonthPDF)
}
