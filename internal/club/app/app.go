package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/smtp"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	httpapi "github.com/topcarsvalley/clubd/internal/club/http"
	"github.com/topcarsvalley/clubd/internal/club/mail"
	"github.com/topcarsvalley/clubd/internal/club/service"
	"github.com/topcarsvalley/clubd/internal/club/storage"
	"github.com/topcarsvalley/clubd/internal/club/store"
	"github.com/topcarsvalley/clubd/internal/club/store/drivers/sqlite"
	"github.com/topcarsvalley/clubd/pkg/cryptox"
	"github.com/topcarsvalley/clubd/pkg/jwtx"
	"github.com/topcarsvalley/clubd/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags. Later problem
	BuildVersion = "v0.1.0"
)

// Application encapsulates the club service with all its dependencies
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies
	db     store.Store
	keys   *jwtx.KeySet
	photos storage.ObjectStorage

	// Services
	sessionService      *service.SessionService
	inviteService       *service.InviteService
	identityService     *service.IdentityService
	bootstrapService    *service.BootstrapService
	eventService        *service.EventService
	vehicleService      *service.VehicleService
	partnerService      *service.PartnerService
	contactService      *service.ContactService
	housekeepingService *service.HousekeepingService

	// HTTP server
	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "clubd",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	// Set pepper path for password hashing
	cryptox.SetPepperPath(app.cfg.PepperFile)

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	keys, signer, verifier, err := InitSessionKeys(app.cfg, app.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize session keys: %w", err)
	}
	app.keys = keys

	if err := app.initPhotoStorage(); err != nil {
		return nil, err
	}

	app.initServices(signer)
	app.initHTTP(verifier)

	return app, nil
}

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	app.housekeepingService.Start()

	app.logger.Info("club service starting", "port", app.cfg.Port, "version", BuildVersion)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down club service...")

	// Give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	app.housekeepingService.Stop()

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("club service stopped")
	return nil
}

// initDatabase initializes the database and applies migrations
func (app *Application) initDatabase() error {
	host := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", app.cfg.DatabaseFile)
	db, err := sqlite.NewStore(host)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully")
	return nil
}

// initPhotoStorage selects the vehicle photo backend. Without a configured
// MinIO endpoint photos live in process memory and vanish on restart, which
// is only acceptable for dev.
func (app *Application) initPhotoStorage() error {
	if app.cfg.MinioEndpoint == "" {
		app.photos = storage.NewMemoryStorage(app.cfg.MinioBucket)
		app.logger.Warn("no MINIO_ENDPOINT configured, vehicle photos are stored in memory")
		return nil
	}

	client, err := storage.NewMinioClient(storage.MinioConfig{
		Endpoint:  app.cfg.MinioEndpoint,
		AccessKey: app.cfg.MinioAccessKey,
		SecretKey: app.cfg.MinioSecretKey,
		Bucket:    app.cfg.MinioBucket,
		UseSSL:    app.cfg.MinioUseSSL,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize object storage: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := client.EnsureBucket(ctx); err != nil {
		return fmt.Errorf("failed to ensure photo bucket: %w", err)
	}

	app.photos = client
	app.logger.Info("object storage ready", "endpoint", app.cfg.MinioEndpoint, "bucket", app.cfg.MinioBucket)
	return nil
}

// initMail builds the invite dispatcher. Without an SMTP relay invites are
// only ever surfaced through API responses and logs.
func (app *Application) initMail() mail.Dispatcher {
	if app.cfg.SMTPAddr == "" {
		app.logger.Warn("no SMTP_ADDR configured, invite emails will not be sent")
		return mail.NopDispatcher{}
	}

	var auth smtp.Auth
	if app.cfg.SMTPUsername != "" {
		host := app.cfg.SMTPAddr
		if i := strings.IndexByte(host, ':'); i >= 0 {
			host = host[:i]
		}
		auth = smtp.PlainAuth("", app.cfg.SMTPUsername, app.cfg.SMTPPassword, host)
	}

	return mail.NewSMTPDispatcher(app.cfg.SMTPAddr, app.cfg.SMTPFrom, auth)
}

// initServices initializes all business logic services
func (app *Application) initServices(signer jwtx.Signer) {
	app.sessionService = &service.SessionService{
		Store:  app.db,
		Signer: signer,
		Issuer: app.cfg.Issuer,
		TTL:    app.cfg.SessionTTL,
	}

	app.inviteService = &service.InviteService{
		Store:         app.db,
		Mail:          app.initMail(),
		AcceptURLBase: app.cfg.AcceptURLBase,
	}

	app.identityService = &service.IdentityService{Store: app.db}
	app.bootstrapService = &service.BootstrapService{
		Store: app.db,
		Token: app.cfg.BootstrapToken,
	}
	app.eventService = &service.EventService{Store: app.db}
	app.vehicleService = &service.VehicleService{
		Store:  app.db,
		Photos: app.photos,
	}
	app.partnerService = &service.PartnerService{Store: app.db}
	app.contactService = &service.ContactService{
		Store:   app.db,
		Invites: app.inviteService,
	}

	app.housekeepingService = service.NewHousekeepingService(
		app.db,
		app.logger,
		app.cfg.HousekeepingInterval,
	)
}

// initHTTP initializes the HTTP router and server
func (app *Application) initHTTP(verifier jwtx.Verifier) {
	router := httpapi.NewRouter(
		app.keys,
		verifier,
		app.cfg.Issuer,
		BuildVersion,
		app.db,
		app.logger,
	)

	// Wire services to router
	router.SessionService = app.sessionService
	router.InviteService = app.inviteService
	router.IdentityService = app.identityService
	router.BootstrapService = app.bootstrapService
	router.EventService = app.eventService
	router.VehicleService = app.vehicleService
	router.PartnerService = app.partnerService
	router.ContactService = app.contactService
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
