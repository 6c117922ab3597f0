package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"luxbyte/internal/config"
	"luxbyte/internal/domain"
	"luxbyte/internal/email/noop"
	"luxbyte/internal/email/ses"
	"luxbyte/internal/handler"
	"luxbyte/internal/intake"
	"luxbyte/internal/manifest"
	"luxbyte/internal/port"
	"luxbyte/internal/repository/postgres"
	"luxbyte/internal/router"
	"luxbyte/internal/service"
	s3storage "luxbyte/internal/storage/s3"
	"luxbyte/pkg/logger"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Initialize(logger.Config{
		Level:       cfg.Log.Level,
		Environment: cfg.Server.Environment,
	}); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logger.Sync()

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// Repositories
	userRepo := postgres.NewUserRepo(db)
	regRepo := postgres.NewRegistrationRepo(db)
	slotRepo := postgres.NewSlotRepo(db)
	docRepo := postgres.NewDocumentRepo(db)

	// Storage
	s3Client, err := s3storage.NewS3Client(&cfg.S3)
	if err != nil {
		return fmt.Errorf("failed to initialize S3 client: %w", err)
	}

	// Email
	var emailSender port.EmailSender
	switch cfg.Email.Provider {
	case "ses":
		emailSender, err = ses.NewSESSender(cfg.Email.Region, cfg.Email.FromAddress, cfg.Email.FromName, cfg.Email.FrontendURL)
		if err != nil {
			return fmt.Errorf("failed to initialize SES sender: %w", err)
		}
	default:
		emailSender = noop.NewNoopSender()
	}

	// Services
	registry := manifest.NewRegistry()
	authSvc := service.NewAuthService(userRepo, cfg.JWT)
	checklistSvc := service.NewChecklistService(regRepo, slotRepo, registry)
	regSvc := service.NewRegistrationService(regRepo, slotRepo, userRepo, registry, checklistSvc, emailSender)
	uploadSvc := service.NewUploadService(regRepo, slotRepo, docRepo, s3Client, registry, cfg.S3, cfg.Upload)
	uploadSvc.SetProgressFunc(func(registrationID uuid.UUID, requirementID string, status domain.SlotStatus) {
		logger.Info("upload slot transition",
			zap.String("registration_id", registrationID.String()),
			zap.String("requirement_id", requirementID),
			zap.String("status", string(status)))
	})
	exportSvc := service.NewExportService(regRepo, slotRepo, userRepo, registry, checklistSvc)
	controller := intake.NewController(cfg.Upload.MaxFileSizeBytes())

	// Handlers
	authH := handler.NewAuthHandler(authSvc)
	manifestH := handler.NewManifestHandler(registry)
	regH := handler.NewRegistrationHandler(regSvc, checklistSvc)
	uploadH := handler.NewUploadHandler(controller, uploadSvc)
	exportH := handler.NewExportHandler(exportSvc)
	healthH := handler.NewHealthHandler(db)

	r := router.Setup(cfg, authSvc, authH, manifestH, regH, uploadH, exportH, healthH)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Background sweep for slots whose upload never settled.
	watchdog := service.NewSlotWatchdog(slotRepo, cfg.Watchdog)
	go watchdog.Start(ctx)

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", zap.String("addr", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	return nil
}
