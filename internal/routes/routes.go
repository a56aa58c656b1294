package routes

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"

	"github.com/veribill/veribill/internal/auth"
	"github.com/veribill/veribill/internal/config"
	"github.com/veribill/veribill/internal/identity"
	"github.com/veribill/veribill/internal/middleware"
	"github.com/veribill/veribill/internal/notification"
	"github.com/veribill/veribill/internal/otp"
	"github.com/veribill/veribill/internal/payments"
)

// Deps aggregates shared dependencies required to wire routes.
type Deps struct {
	Cfg    config.Config
	DB     *pgxpool.Pool
	Cache  *redis.Client
	Logger *slog.Logger
	Cron   *cron.Cron
	// Mailer overrides the config-derived mail transport when set (tests).
	Mailer notification.Mailer
}

// Setup configures middlewares and all application routes.
func Setup(app *fiber.App, d Deps) error {
	// Dev mode may fall back to in-memory stores; anywhere else the backing
	// services are mandatory.
	if !d.Cfg.IsDev() {
		if d.DB == nil {
			return fmt.Errorf("database is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
		if d.Cache == nil {
			return fmt.Errorf("redis is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
	}

	// Middlewares
	app.Use(recover.New())
	app.Use(cors.New())
	app.Use(middleware.RequestID())
	app.Use(middleware.Audit(d.Logger))
	if d.Cache != nil {
		app.Use(middleware.Idempotency(d.Cache, d.Cfg.IdempotencyTTL, d.Logger))
	}

	// Health
	RegisterHealthRoutes(app, d)

	// Repositories
	var userRepo identity.Repository
	var otpRepo otp.Repository
	var paymentRepo payments.Repository
	if d.DB != nil {
		userRepo = identity.NewPostgresRepository(d.DB)
		otpRepo = otp.NewPostgresRepository(d.DB)
		paymentRepo = payments.NewPostgresRepository(d.DB)
	} else {
		userRepo = identity.NewMemoryRepository()
		otpRepo = otp.NewMemoryRepository()
		paymentRepo = payments.NewMemoryRepository()
	}

	// Services
	identitySvc := identity.NewService(userRepo)
	tokenSvc := auth.NewService(d.Cfg.JWTSecret, d.Cfg.TokenTTL)

	mailer := d.Mailer
	if mailer == nil {
		if d.Cfg.SMTPHost != "" {
			mailer = notification.NewSMTPMailer(d.Cfg.SMTPHost, d.Cfg.SMTPPort, d.Cfg.SMTPUsername, d.Cfg.SMTPPassword, d.Cfg.MailFrom)
		} else {
			mailer = notification.NewLogMailer(d.Logger)
		}
	}
	otpSvc := otp.NewService(otpRepo, mailer, d.Cfg.OTPTTL, d.Logger)
	paymentSvc := payments.NewService(paymentRepo)

	// Handlers
	authHandler := auth.NewHandler(identitySvc, tokenSvc, d.Logger)
	otpHandler := otp.NewHandler(otpSvc, d.Logger)
	paymentHandler := payments.NewHandler(paymentSvc, d.Logger)

	// Public routes
	RegisterAuthRoutes(app, authHandler, middleware.ContactRateLimit(d.Cache, d.Cfg.RatePerMinute, "login"))
	RegisterOTPRoutes(app, otpHandler, middleware.ContactRateLimit(d.Cache, d.Cfg.RatePerMinute, "otp"))
	RegisterPaymentRoutes(app, paymentHandler)

	// Protected routes
	RegisterProfileRoute(app, identitySvc, middleware.BearerAuth(tokenSvc))

	// Expiry sweep keeps the otps table bounded.
	if d.Cron != nil {
		spec := fmt.Sprintf("@every %s", d.Cfg.OTPSweepEvery)
		if _, err := d.Cron.AddFunc(spec, func() {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if _, err := otpSvc.PurgeExpired(ctx); err != nil {
				d.Logger.Error("otp sweep failed", "error", err)
			}
		}); err != nil {
			return fmt.Errorf("schedule otp sweep: %w", err)
		}
	}

	return nil
}
