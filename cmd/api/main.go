package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/Sharpe73/GastoSmart-sub000/internal/audit"
	"github.com/Sharpe73/GastoSmart-sub000/internal/budget"
	"github.com/Sharpe73/GastoSmart-sub000/internal/category"
	"github.com/Sharpe73/GastoSmart-sub000/internal/config"
	"github.com/Sharpe73/GastoSmart-sub000/internal/expense"
	"github.com/Sharpe73/GastoSmart-sub000/internal/goal"
	"github.com/Sharpe73/GastoSmart-sub000/internal/history"
	"github.com/Sharpe73/GastoSmart-sub000/internal/identity"
	"github.com/Sharpe73/GastoSmart-sub000/internal/logger"
	"github.com/Sharpe73/GastoSmart-sub000/internal/mailer"
	"github.com/Sharpe73/GastoSmart-sub000/internal/payslip"
	"github.com/Sharpe73/GastoSmart-sub000/internal/reports"
	"github.com/Sharpe73/GastoSmart-sub000/internal/router"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// Logger is not up yet; stderr is all we have.
		panic(err)
	}

	if err := logger.Init(cfg.Env == "dev", os.Getenv("LOG_LEVEL")); err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()
	log := logger.Get()

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal("error creating pgx pool", zap.Error(err))
	}
	defer pool.Close()
	if err := pool.Ping(ctx); err != nil {
		log.Fatal("error pinging database", zap.Error(err))
	}

	app := fiber.New(fiber.Config{
		BodyLimit: 10 * 1024 * 1024, // payslip PDFs
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			message := "error interno del servidor"

			var fiberErr *fiber.Error
			if errors.As(err, &fiberErr) {
				code = fiberErr.Code
				message = fiberErr.Message
			}
			if code == fiber.StatusInternalServerError {
				log.Error("unhandled request failure", zap.String("path", c.Path()), zap.Error(err))
			}

			return c.Status(code).JSON(fiber.Map{"error": message})
		},
	})

	app.Use(router.CorsMiddleware(cfg.CORSOrigin))
	app.Use(requestLogger(log))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"ok": true})
	})

	secret := []byte(cfg.JWTSecret)
	mail := mailer.New(cfg.MailAPIURL, cfg.MailAPIKey, cfg.MailFrom)

	r := &router.Router{
		IdentityHandler: identity.NewHandler(identity.NewRepository(pool), mail, secret, log, audit.New(pool)),
		CategoryHandler: category.NewHandler(category.NewRepository(pool)),
		ExpenseHandler:  expense.NewHandler(expense.NewRepository(pool)),
		BudgetHandler:   budget.NewHandler(budget.NewRepository(pool)),
		GoalHandler:     goal.NewHandler(goal.NewRepository(pool)),
		PayslipHandler:  payslip.NewHandler(payslip.NewRepository(pool)),
		HistoryHandler:  history.NewHandler(history.NewRepository(pool)),
		ReportsHandler:  reports.NewHandler(reports.NewRepository(pool)),
		AuthMW:          buildJWTMiddleware(secret, pool),
	}
	r.RegisterRoutes(app)

	go func() {
		log.Info("listening", zap.String("port", cfg.Port))
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatal("server stopped", zap.Error(err))
		}
	}()

	// Drain in-flight requests before releasing the pool.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Error("shutdown error", zap.Error(err))
	}
}

func requestLogger(log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		log.Info("request",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", c.Response().StatusCode()),
			zap.Duration("duration", time.Since(start)),
		)
		return err
	}
}

func buildJWTMiddleware(secret []byte, pool *pgxpool.Pool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "token requerido")
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return fiber.NewError(fiber.StatusUnauthorized, "token inválido")
		}

		token, err := jwt.Parse(parts[1], func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("unexpected signing method")
			}
			return secret, nil
		})
		if err != nil || !token.Valid {
			return fiber.NewError(fiber.StatusUnauthorized, "token inválido")
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "token inválido")
		}

		userIDVal, ok := claims["user_id"].(string)
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "token inválido")
		}
		if _, err := uuid.Parse(userIDVal); err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "token inválido")
		}

		c.Locals("user_id", userIDVal)
		if email, ok := claims["email"].(string); ok {
			c.Locals("email", email)
		}
		if nombre, ok := claims["nombre"].(string); ok {
			c.Locals("nombre", nombre)
		}

		// Best-effort presence marker, never blocks the request.
		go func(uid string) {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_, _ = pool.Exec(ctx, `UPDATE usuarios SET last_seen_at = NOW() WHERE id = $1::uuid`, uid)
		}(userIDVal)

		return c.Next()
	}
}
