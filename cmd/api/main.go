package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/yudhapratama/desaku/backend/internal/config"
	"github.com/yudhapratama/desaku/backend/internal/handler"
	activityhandler "github.com/yudhapratama/desaku/backend/internal/handler/activity"
	authhandler "github.com/yudhapratama/desaku/backend/internal/handler/auth"
	chathandler "github.com/yudhapratama/desaku/backend/internal/handler/chat"
	letterhandler "github.com/yudhapratama/desaku/backend/internal/handler/letter"
	newshandler "github.com/yudhapratama/desaku/backend/internal/handler/news"
	"github.com/yudhapratama/desaku/backend/internal/mail"
	activityservice "github.com/yudhapratama/desaku/backend/internal/service/activity"
	authservice "github.com/yudhapratama/desaku/backend/internal/service/auth"
	letterservice "github.com/yudhapratama/desaku/backend/internal/service/letter"
	newsservice "github.com/yudhapratama/desaku/backend/internal/service/news"
	"github.com/yudhapratama/desaku/backend/internal/service/responder"
	"github.com/yudhapratama/desaku/backend/internal/store"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
		log.Println("continuing with system environment variables only")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer logger.Sync()

	if cfg.Database.URL == "" {
		logger.Fatal("DATABASE_URL is required")
	}
	db, err := store.Open(cfg.Database.URL)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := store.RunMigrations(db, cfg.Database.MigrationsPath); err != nil {
		logger.Fatal("failed to apply migrations", zap.Error(err))
	}

	// Stores
	messageStore := store.NewPostgresMessageStore(db)
	userStore := store.NewPostgresUserStore(db)
	newsStore := store.NewPostgresNewsStore(db)
	activityStore := store.NewPostgresActivityStore(db)
	letterStore := store.NewPostgresLetterStore(db)

	// Mail is optional; without SMTP the letter workflow still works, the
	// notification is just dropped.
	var mailer mail.Mailer
	if cfg.Mail.Enabled {
		mailer = mail.NewSMTPMailer(mail.SMTPConfig{
			Host:     cfg.Mail.Host,
			Port:     cfg.Mail.Port,
			Username: cfg.Mail.Username,
			Password: cfg.Mail.Password,
			From:     cfg.Mail.From,
		})
		logger.Info("mail notifications enabled", zap.String("host", cfg.Mail.Host))
	} else {
		mailer = mail.NopMailer{Logger: logger}
		logger.Info("SMTP not configured, mail notifications disabled")
	}

	// Services
	authFeed := authservice.NewFeed()
	authSvc := authservice.NewService(authservice.Options{
		Users:       userStore,
		Feed:        authFeed,
		Logger:      logger,
		TokenSecret: cfg.Auth.TokenSecret,
		TokenTTL:    cfg.Auth.TokenTTL,
		AdminEmails: cfg.Auth.AdminEmails,
	})
	newsSvc := newsservice.NewService(newsStore)
	activitySvc := activityservice.NewService(activityStore)
	letterSvc := letterservice.NewService(letterStore, userStore, mailer, logger)
	canned := responder.New()

	router := handler.NewRouter(authSvc, handler.Handlers{
		Auth: authhandler.New(authSvc),
		Chat: chathandler.New(messageStore, canned, authSvc, authFeed, logger, chathandler.Config{
			DelayMin: cfg.Chat.DelayMin,
			DelayMax: cfg.Chat.DelayMax,
		}),
		News:     newshandler.New(newsSvc),
		Activity: activityhandler.New(activitySvc),
		Letter:   letterhandler.New(letterSvc),
	})

	startServer(ctx, cfg.Server, router, logger)
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler, logger *zap.Logger) {
	srv := &http.Server{
		Addr:              serverCfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	logger.Info("desaku backend listening", zap.String("addr", serverCfg.Addr))
	if err := runServer(ctx, srv); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
