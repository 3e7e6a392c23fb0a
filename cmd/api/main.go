package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"webapp/internal/config"
	"webapp/internal/database"
	"webapp/internal/logging"
	"webapp/internal/mailer"
	"webapp/internal/middleware"
	"webapp/internal/modules/health"
	"webapp/internal/modules/image"
	"webapp/internal/modules/user"
	"webapp/internal/pkg/response"
	"webapp/internal/repository"
	"webapp/internal/storage"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	closeLog, err := logging.Init(cfg.IsDev(), cfg.LogFile)
	if err != nil {
		log.Fatal(err)
	}
	defer closeLog()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		slog.Error("database connect failed", "error", err)
		return
	}
	defer database.Close(db)

	if err := database.Migrate(db); err != nil {
		slog.Error("migration failed", "error", err)
		return
	}

	store, err := storage.NewS3Storage(ctx, storage.S3Config{
		Region:    cfg.S3Region,
		Bucket:    cfg.S3Bucket,
		AccessKey: cfg.S3AccessKey,
		SecretKey: cfg.S3SecretKey,
		Endpoint:  cfg.S3Endpoint,
	})
	if err != nil {
		slog.Error("object storage init failed", "error", err)
		return
	}

	var m mailer.Mailer
	if cfg.ResendAPIKey != "" && !cfg.IsDev() {
		m = mailer.NewResendMailer(cfg.ResendAPIKey, cfg.EmailFrom)
	} else {
		m = mailer.NewDevConsoleMailer()
	}
	dispatcher := mailer.NewDispatcher(m, cfg.MailQueueLen)
	defer dispatcher.Close()

	userRepo := repository.NewUserRepository(db)
	imageRepo := repository.NewImageRepository(db)

	userService := user.NewService(userRepo, dispatcher, cfg.AppURL, cfg.EmailVerification, cfg.VerifyTokenTTL)
	userHandler := user.NewHandler(userService)

	imageService := image.NewService(imageRepo, store)
	imageHandler := image.NewHandler(imageService)

	healthHandler := health.NewHandler(db)

	if !cfg.IsDev() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(middleware.RequestLogger())

	r.HandleMethodNotAllowed = true
	r.NoMethod(func(c *gin.Context) {
		response.Empty(c, http.StatusMethodNotAllowed)
	})
	r.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/healthz/") {
			response.Empty(c, http.StatusBadRequest)
			return
		}
		response.Empty(c, http.StatusNotFound)
	})

	user.RegisterRoutes(r, userHandler, userRepo, cfg.EmailVerification)
	image.RegisterRoutes(r, imageHandler, userRepo, cfg.EmailVerification)
	health.RegisterRoutes(r, healthHandler)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		slog.Info("server listening", "port", cfg.Port, "env", cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown failed", "error", err)
	}
}
