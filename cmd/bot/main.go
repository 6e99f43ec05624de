package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"homework_status_bot/internal/app"
	"homework_status_bot/internal/domain/notification"
	"homework_status_bot/internal/infra/config"
	idb "homework_status_bot/internal/infra/database"
	ihttp "homework_status_bot/internal/infra/http"
	"homework_status_bot/internal/infra/logger"
	"homework_status_bot/internal/infra/memory"
	"homework_status_bot/internal/infra/metrics"
	"homework_status_bot/internal/infra/practicum"
	"homework_status_bot/internal/infra/scheduler"
	"homework_status_bot/internal/infra/telegram"

	"github.com/sirupsen/logrus"
)

const (
	exitOK            = 0
	exitFailure       = 1
	exitMissingConfig = 2

	memoryJournalSize = 100
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Could not load application configuration: %v\n", err)
		return exitFailure
	}

	logFile, err := logger.Init(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Could not initialize logger: %v\n", err)
		return exitFailure
	}
	defer logFile.Close()
	log := logger.Get()

	chatID, code := checkCredentials(cfg, log)
	if code != exitOK {
		return code
	}
	log.WithFields(logrus.Fields{
		"environment":  cfg.Environment,
		"retry_period": cfg.RetryPeriod.String(),
		"endpoint":     cfg.Endpoint,
	}).Info("Configuration loaded")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	metrics.MustRegister()

	var journal notification.Repository
	if cfg.DatabaseURL != "" {
		db, err := idb.NewPostgresConnection(ctx, cfg.DatabaseURL)
		if err != nil {
			log.WithError(err).Error("Could not connect to database")
			return exitFailure
		}
		defer db.Close()
		if err := idb.EnsureSchema(ctx, db); err != nil {
			log.WithError(err).Error("Could not prepare delivery journal schema")
			return exitFailure
		}
		journal = idb.NewPostgresNotificationRepository(db)
		log.Info("Delivery journal: postgres")
	} else {
		journal = memory.NewNotificationRepository(memoryJournalSize)
		log.Info("Delivery journal: in-memory")
	}

	bot, err := telegram.NewBot(cfg.TelegramToken, "", cfg.RequestTimeout, true)
	if err != nil {
		log.WithError(err).Error("Could not create Telegram bot")
		return exitFailure
	}
	sender := app.NewNotificationService(
		telegram.NewTelebotAdapter(bot, cfg.SendRate),
		journal,
		chatID,
		log.WithField("component", "notification_service"),
	)

	api := practicum.NewClient(cfg.Endpoint, cfg.PracticumToken, cfg.RequestTimeout, log.WithField("component", "practicum"))
	pauser := scheduler.NewFixedDelay(cfg.RetryPeriod, log.WithField("component", "scheduler"))
	poller := app.NewPoller(
		api,
		memory.NewStatusRepository(),
		sender,
		pauser,
		log.WithField("component", "poller"),
		time.Now().Unix(),
	)

	var server *ihttp.Server
	if cfg.MetricsAddr != "" {
		server = ihttp.NewServer(poller, journal, log.WithField("component", "http"))
		go func() {
			if err := server.Start(cfg.MetricsAddr); err != nil {
				log.WithError(err).Error("HTTP server stopped")
			}
		}()
	}

	if err := poller.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.WithError(err).Error("Polling loop stopped unexpectedly")
	}

	log.Info("Shutting down")
	if server != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Warn("HTTP server shutdown failed")
		}
	}
	log.Info("Stopped")
	return exitOK
}

// checkCredentials validates the required variables and returns the chat id
// together with the exit code to stop with, or exitOK.
func checkCredentials(cfg *config.AppConfig, log *logrus.Logger) (int64, int) {
	if _, ok := cfg.CheckTokens(log); !ok {
		log.Error("Program stopped: required environment variables are missing")
		return 0, exitMissingConfig
	}
	chatID, err := cfg.ChatID()
	if err != nil {
		log.WithError(err).Error("Invalid TELEGRAM_CHAT_ID")
		return 0, exitFailure
	}
	return chatID, exitOK
}
