// @title Institute API
// @version 1.0
// @description Events, contact messages and accounts for the institute website.
// @BasePath /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the JWT.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"institutebackend/config"
	_ "institutebackend/docs"
	"institutebackend/internal/adapters/auth"
	"institutebackend/internal/adapters/email"
	"institutebackend/internal/adapters/storage"
	deliveryhttp "institutebackend/internal/delivery/http"
	"institutebackend/internal/delivery/http/controllers"
	"institutebackend/internal/delivery/http/helpers"
	"institutebackend/internal/delivery/http/stream"
	"institutebackend/internal/domain"
	"institutebackend/internal/repository/sqlstore"
	"institutebackend/internal/services"
)

const (
	requestTimeout  = 10 * time.Second
	shutdownTimeout = 30 * time.Second
)

func main() {
	if err := run(); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := config.NewLogger(cfg.Environment, cfg.LogLevel)
	slog.SetDefault(logger)
	logger.Info("database configuration", "db", cfg.DB.LogValue())

	// Canceled on SIGINT/SIGTERM; every request context derives from it so open streams end on shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := sqlstore.Open(ctx, sqlstore.Options{
		Dialect:      sqlstore.Dialect(cfg.DB.Driver),
		DSN:          cfg.DB.DSN(),
		MaxOpenConns: cfg.DB.MaxConns,
	})
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer db.Close()

	if _, now, err := db.ServerTime(ctx); err == nil {
		logger.Info("database connected", "driver", cfg.DB.Driver, "server_time", now)
	}

	if cfg.DB.Migrate {
		if err := sqlstore.Migrate(db); err != nil {
			return fmt.Errorf("migrating database: %w", err)
		}
	}

	images, err := newImageStore(cfg, logger)
	if err != nil {
		return err
	}

	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    cfg.Mail.Provider,
		FromAddress: cfg.Mail.FromAddress,
		FromName:    cfg.Mail.FromName,
		SES: email.SESConfig{
			Region:             cfg.Mail.AWSRegion,
			AccessKeyID:        cfg.Mail.AWSAccessKeyID,
			SecretAccessKey:    cfg.Mail.AWSSecretAccessKey,
			InsecureSkipVerify: cfg.Mail.InsecureSkipVerify,
		},
	}, logger)
	if err != nil {
		return fmt.Errorf("creating mailer: %w", err)
	}

	eventRepo := sqlstore.NewEventRepository(db)
	contactRepo := sqlstore.NewContactRepository(db)
	userRepo := sqlstore.NewUserRepository(db)

	hasher := auth.NewBcryptHasher(auth.DefaultCost)
	tokens := auth.NewJWT(cfg.JWTSecret)

	emailService := services.NewEmailService(mailer, email.NewTemplateRenderer(), logger)
	eventService := services.NewEventService(eventRepo, images, cfg.FeedRecentLimit, requestTimeout, logger)
	contactService := services.NewContactService(contactRepo, emailService, cfg.Mail.NotifyAddress, requestTimeout, logger)
	authService := services.NewAuthService(userRepo, hasher, tokens, cfg.JWTExpiry)
	userService := services.NewUserService(userRepo, hasher)

	errs := helpers.NewErrorWriter(logger, cfg.IsProduction())
	router := deliveryhttp.NewRouter(deliveryhttp.RouterConfig{
		Logger:           logger,
		AllowedOrigins:   cfg.AllowedOrigins(),
		ContactRateLimit: cfg.ContactRateLimit,
		PublicDir:        cfg.PublicDir,
		Verifier:         tokens,
		Admin:            services.NewAdminAuthorizer(userRepo),
		Errors:           errs,
	}, deliveryhttp.Controllers{
		System:  controllers.NewSystemController(logger, db, cfg.Environment, errs),
		Auth:    controllers.NewAuthController(logger, authService, errs),
		User:    controllers.NewUserController(logger, userService, errs),
		Event:   controllers.NewEventController(logger, eventService, errs),
		Contact: controllers.NewContactController(logger, contactService, errs),
		Feed:    stream.NewPublisher(eventService, cfg.FeedInterval, logger),
	})

	// No WriteTimeout: the event feed holds responses open.
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       60 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("starting server", "addr", srv.Addr, "env", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
	}

	logger.Info("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	logger.Info("server stopped")
	return nil
}

func newImageStore(cfg *config.Config, logger *slog.Logger) (domain.ImageStore, error) {
	switch cfg.UploadStorage {
	case "cloudinary":
		store, err := storage.NewCloudinaryStore(storage.CloudinaryConfig{
			CloudName: cfg.Cloudinary.CloudName,
			APIKey:    cfg.Cloudinary.APIKey,
			APISecret: cfg.Cloudinary.APISecret,
			Folder:    cfg.Cloudinary.Folder,
		})
		if err != nil {
			return nil, err
		}
		logger.Info("image storage", "backend", "cloudinary", "folder", cfg.Cloudinary.Folder)
		return store, nil
	default:
		store, err := storage.NewLocalStore(cfg.PublicDir)
		if err != nil {
			return nil, err
		}
		logger.Info("image storage", "backend", "local", "dir", cfg.PublicDir)
		return store, nil
	}
}
