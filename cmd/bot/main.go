package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"task-reminder-bot/internal/bot"
	"task-reminder-bot/internal/config"
	"task-reminder-bot/internal/conversation"
	"task-reminder-bot/internal/database"
	"task-reminder-bot/internal/handlers"
	"task-reminder-bot/internal/logger"
	"task-reminder-bot/internal/notify"
	"task-reminder-bot/internal/telemetry"
	"task-reminder-bot/internal/workers"
)

func main() {
	debugFlag := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	debugMode := cfg.DebugMode || *debugFlag

	// Console encoding for local debugging, JSON otherwise
	var zapLogger *zap.Logger
	if debugMode {
		zapLogger, err = logger.NewDevelopmentLogger(true)
	} else {
		zapLogger, err = logger.NewProductionLogger(false)
	}
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() {
		_ = zapLogger.Sync()
	}()

	zapLogger.Info("Starting task reminder bot",
		zap.Bool("debug_mode", debugMode),
		zap.Duration("reminder_interval", cfg.ReminderInterval),
		zap.Duration("reminder_window", cfg.ReminderWindow),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Optional tracing
	if cfg.OTELEnabled {
		tp, err := telemetry.InitTracer(ctx, "task-reminder-bot", cfg.OTELEndpoint)
		if err != nil {
			zapLogger.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := telemetry.Shutdown(shutdownCtx, tp); err != nil {
				zapLogger.Warn("Failed to shut down tracing", zap.Error(err))
			}
		}()
	}

	// Database
	db, err := database.New(cfg.DatabaseURL)
	if err != nil {
		zapLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			zapLogger.Warn("Failed to close database connection", zap.Error(err))
		}
	}()

	if err := db.Migrate(ctx); err != nil {
		zapLogger.Fatal("Failed to run migrations", zap.Error(err))
	}

	zapLogger.Info("Connected to database")

	taskRepo := database.NewTaskRepository(db)

	// Telegram
	api, err := notify.NewBotAPI(cfg.TelegramToken, cfg.DispatchTimeout)
	if err != nil {
		zapLogger.Fatal("Failed to connect to Telegram", zap.Error(err))
	}
	api.Debug = debugMode

	dispatcher := notify.NewTelegramDispatcher(api)

	// Core components
	conversations := conversation.NewManager(taskRepo, zapLogger, cfg.ConversationTTL, cfg.SweepInterval)
	scheduler := workers.NewReminderScheduler(taskRepo, dispatcher, zapLogger, cfg.ReminderInterval, cfg.ReminderWindow)

	botSvc, err := bot.New(api, taskRepo, conversations, zapLogger, cfg.RateLimit)
	if err != nil {
		zapLogger.Fatal("Failed to build bot", zap.Error(err))
	}

	// Ops HTTP surface
	router := handlers.NewRouter(
		handlers.NewHealthChecker(db),
		handlers.NewStatsHandler(taskRepo, zapLogger),
	)
	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error { return botSvc.Run(ctx) })
	g.Go(func() error { return scheduler.Start(ctx) })
	g.Go(func() error { return conversations.Run(ctx) })
	g.Go(func() error {
		zapLogger.Info("Ops endpoint listening", zap.String("port", cfg.HTTPPort))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		zapLogger.Fatal("Shutting down after failure", zap.Error(err))
	}

	zapLogger.Info("Shutdown complete")
}
