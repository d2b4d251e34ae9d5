package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"rentguy/internal/config"
	"rentguy/internal/handlers"
	"rentguy/internal/jobs"
	"rentguy/internal/jobs/background"
	"rentguy/internal/logger"
	"rentguy/internal/repositories"
	"rentguy/internal/services"
	"rentguy/internal/sessions"
	"rentguy/pkg/database"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const version = "1.0.0"

// @title RentGuy API
// @version 1.0
// @description Property management: properties, units, tenants, leases, VAT invoices, maintenance and WhatsApp messaging.
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "rentguy",
		Short:        "RentGuy property management API",
		Version:      version,
		SilenceUsage: true,
	}
	root.AddCommand(newServeCmd(), newMigrateCmd(), newWorkerCmd())
	return root
}

// bootstrap loads configuration, sets up logging and opens the database.
func bootstrap(ctx context.Context) (*config.Config, *logrus.Logger, *pgxpool.Pool, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("invalid configuration: %w", err)
	}
	log := logger.Init(cfg.AppName, cfg.LogLevel, cfg.LogFormat)

	pool, err := database.NewPool(ctx, cfg.DatabaseURL, log)
	if err != nil {
		return nil, nil, nil, err
	}
	return cfg, log, pool, nil
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			cfg, log, pool, err := bootstrap(ctx)
			if err != nil {
				return err
			}
			defer pool.Close()

			app, err := buildApp(ctx, cfg, log, pool)
			if err != nil {
				return err
			}
			e := newServer(cfg, log, app)

			errCh := make(chan error, 1)
			go func() {
				log.WithField("port", cfg.Port).Info("Starting HTTP server")
				if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}

			log.Info("Shutting down HTTP server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()
			return e.Shutdown(shutdownCtx)
		},
	}
}

func newMigrateCmd() *cobra.Command {
	migrate := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or revert database migrations",
	}

	run := func(fn func(ctx context.Context, m *database.Migrator, log logrus.FieldLogger) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, _ []string) error {
			_, log, pool, err := bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			defer pool.Close()

			m, err := database.NewMigrator(pool, log)
			if err != nil {
				return err
			}
			return fn(cmd.Context(), m, log)
		}
	}

	migrate.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			RunE: run(func(ctx context.Context, m *database.Migrator, log logrus.FieldLogger) error {
				n, err := m.Up(ctx)
				if err != nil {
					return err
				}
				log.WithField("applied", n).Info("Migrations up to date")
				return nil
			}),
		},
		&cobra.Command{
			Use:   "down",
			Short: "Revert the most recent migration",
			RunE: run(func(ctx context.Context, m *database.Migrator, log logrus.FieldLogger) error {
				reverted, err := m.Down(ctx)
				if err != nil {
					return err
				}
				if reverted == "" {
					log.Info("No migrations to revert")
					return nil
				}
				log.WithField("version", reverted).Info("Reverted migration")
				return nil
			}),
		},
	)
	return migrate
}

func newWorkerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "worker",
		Short: "Run the overdue invoice and lease expiry sweeps",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			cfg, log, pool, err := bootstrap(ctx)
			if err != nil {
				return err
			}
			defer pool.Close()

			sweeper := jobs.NewSweeper(repositories.NewInvoiceRepo(pool), repositories.NewLeaseRepo(pool), log)
			scheduler, err := background.NewJobScheduler(sweeper, cfg.SweepInterval, log)
			if err != nil {
				return err
			}
			log.WithFields(logrus.Fields{
				"interval": cfg.SweepInterval,
				"jobs":     scheduler.JobNames(),
			}).Info("Worker ready")
			scheduler.Start()

			<-ctx.Done()
			return scheduler.Stop()
		},
	}
}

// app is every handler group the router mounts, plus what the middleware needs.
type app struct {
	auth        services.AuthService
	health      *handlers.HealthHandlers
	authH       *handlers.AuthHandlers
	users       *handlers.UserHandlers
	properties  *handlers.PropertyHandlers
	units       *handlers.UnitHandlers
	tenants     *handlers.TenantHandlers
	leases      *handlers.LeaseHandlers
	invoices    *handlers.InvoiceHandlers
	maintenance *handlers.MaintenanceHandlers
	whatsapp    *handlers.WhatsAppHandlers
}

// buildApp wires repositories, services and handlers. Optional integrations
// are left nil when unconfigured and the dependent feature degrades.
func buildApp(ctx context.Context, cfg *config.Config, log *logrus.Logger, pool *pgxpool.Pool) (*app, error) {
	store, err := sessions.NewRedisStore(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		return nil, err
	}
	if err := store.Ping(ctx); err != nil {
		log.WithError(err).Warn("Redis unreachable at startup; login and token refresh will fail until it recovers")
	}

	var documents services.DocumentStore
	if cfg.StorageEnabled() {
		documents, err = services.NewMinioStore(cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioBucket, cfg.MinioUseSSL)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize object storage: %w", err)
		}
		if err := documents.EnsureBucket(ctx); err != nil {
			log.WithError(err).WithField("bucket", cfg.MinioBucket).Warn("Could not ensure document bucket")
		}
	} else {
		log.Warn("MINIO_ENDPOINT not set; invoice documents are disabled")
	}

	var messenger services.Messenger
	var validator services.SignatureValidator
	if cfg.WhatsAppEnabled() {
		messenger = services.NewTwilioMessenger(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.WhatsAppFrom)
		validator = services.NewTwilioSignatureValidator(cfg.TwilioAuthToken)
	} else {
		log.Warn("Twilio credentials not set; WhatsApp messaging is disabled")
	}

	var mailer services.Mailer
	if cfg.EmailEnabled() {
		mailer = services.NewSendGridMailer(cfg.SendGridAPIKey, cfg.FromEmail, "RentGuy")
	}

	var google services.GoogleVerifier
	if cfg.GoogleClientID != "" {
		google, err = services.NewGoogleVerifier(ctx, cfg.GoogleJWKSURL, cfg.GoogleClientID, log)
		if err != nil {
			log.WithError(err).Warn("Google sign-in is disabled")
			google = nil
		}
	}

	userRepo := repositories.NewUserRepo(pool)
	propertyRepo := repositories.NewPropertyRepo(pool)
	unitRepo := repositories.NewUnitRepo(pool)
	tenantRepo := repositories.NewTenantRepo(pool)
	leaseRepo := repositories.NewLeaseRepo(pool)
	invoiceRepo := repositories.NewInvoiceRepo(pool)
	maintenanceRepo := repositories.NewMaintenanceRepo(pool)
	messageRepo := repositories.NewWhatsAppMessageRepo(pool)

	notifier := services.NewNotifier(messenger, mailer, log)
	authSvc := services.NewAuthService(userRepo, store, google, cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL, log)
	userSvc := services.NewUserService(userRepo, authSvc)
	propertySvc := services.NewPropertyService(propertyRepo)
	unitSvc := services.NewUnitService(unitRepo, propertyRepo)
	tenantSvc := services.NewTenantService(tenantRepo, notifier)
	leaseSvc := services.NewLeaseService(leaseRepo, unitRepo, tenantRepo, notifier, log)
	invoiceSvc := services.NewInvoiceService(invoiceRepo, leaseRepo, documents, notifier, log)
	maintenanceSvc := services.NewMaintenanceService(maintenanceRepo, userRepo, log)
	whatsAppSvc := services.NewWhatsAppService(messageRepo, tenantRepo, messenger, validator, cfg.WhatsAppWebhookURL, cfg.WhatsAppFrom, log)

	checks := map[string]handlers.Pinger{"database": pool, "redis": store}
	if documents != nil {
		checks["storage"] = documents
	}

	return &app{
		auth:        authSvc,
		health:      handlers.NewHealthHandlers(checks, version, log),
		authH:       handlers.NewAuthHandlers(authSvc, log),
		users:       handlers.NewUserHandlers(userSvc, log),
		properties:  handlers.NewPropertyHandlers(propertySvc, log),
		units:       handlers.NewUnitHandlers(unitSvc, log),
		tenants:     handlers.NewTenantHandlers(tenantSvc, log),
		leases:      handlers.NewLeaseHandlers(leaseSvc, log),
		invoices:    handlers.NewInvoiceHandlers(invoiceSvc, log),
		maintenance: handlers.NewMaintenanceHandlers(maintenanceSvc, log),
		whatsapp:    handlers.NewWhatsAppHandlers(whatsAppSvc, log),
	}, nil
}
