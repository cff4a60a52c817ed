package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"homework_status_bot/internal/app"
	"homework_status_bot/internal/domain/notification"
	"homework_status_bot/internal/infra/config"
	idb "homework_status_bot/internal/infra/database"
	"homework_status_bot/internal/infra/logger"
	"homework_status_bot/internal/infra/practicum"
	"homework_status_bot/internal/infra/scheduler"
	"homework_status_bot/internal/infra/telegram"

	"github.com/alecthomas/kong"
	"github.com/sirupsen/logrus"
)

const databaseStartupTimeout = 10 * time.Second

var cli struct {
	Version kong.VersionFlag
	EnvFile []string `help:"Extra .env files to load (default: ./.env)." type:"path" name:"env-file"`
	Once    bool     `help:"Run a single poll cycle and exit."`
}

func main() {
	kong.Parse(&cli,
		kong.Name("homework-bot"),
		kong.Description("Watches homework review statuses and reports changes to Telegram."),
		kong.UsageOnError(),
		kong.Vars{"version": "v1.0.0"},
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, cli.EnvFile, cli.Once)
	stop()
	os.Exit(code)
}

// run wires the bot and blocks until ctx is done, or until one cycle has
// finished when once is set. It returns the process exit code.
func run(ctx context.Context, envFiles []string, once bool) int {
	cfg, cfgErr := config.Load(envFiles...)

	log, logCloser, err := logger.New(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Could not initialize logger: %v\n", err)
		return 1
	}
	defer logCloser.Close()
	mainLogger := log.WithField("component", "main")

	// No client exists yet: an incomplete configuration never reaches the network.
	if cfgErr != nil {
		for _, name := range cfg.MissingVariables {
			mainLogger.WithField("variable", name).Error("Отсутствует обязательная переменная окружения")
		}
		mainLogger.Logf(logrus.FatalLevel, "FATAL: Could not load application configuration: %v", cfgErr)
		return 1
	}
	mainLogger.WithFields(logrus.Fields{
		"log_level":     cfg.LogLevel,
		"environment":   cfg.Environment,
		"poll_interval": cfg.PollInterval.String(),
		"chat_id":       cfg.TelegramChatID,
	}).Info("Configuration loaded")

	bot, err := telegram.NewBot(cfg.TelegramToken, cfg.TelegramAPIURL, cfg.RequestTimeout)
	if err != nil {
		mainLogger.Logf(logrus.FatalLevel, "FATAL: %v", err)
		return 1
	}
	notifier := app.NewNotifier(telegram.NewTelebotAdapter(bot), cfg.TelegramChatID, log.WithField("component", "notifier"))

	journal := openJournal(ctx, cfg, mainLogger)

	source := practicum.NewClient(cfg.PracticumURL, cfg.PracticumToken, cfg.RequestTimeout, log.WithField("component", "practicum"))
	poller := app.NewStatusPoller(source, notifier, journal, log.WithField("component", "poller"), time.Now)

	if once {
		if err := poller.RunCycle(ctx); err != nil {
			return 1
		}
		return 0
	}

	pollScheduler := scheduler.NewPollScheduler(poller, cfg.PollInterval, log.WithField("component", "scheduler"))
	go pollScheduler.Start()

	<-ctx.Done() // Block until a signal is received

	mainLogger.Info("Shutting down application...")
	pollScheduler.Stop()
	mainLogger.Info("Application shut down gracefully.")
	return 0
}

// openJournal connects the optional delivery journal. A database problem is
// never fatal: the bot falls back to not journaling.
func openJournal(ctx context.Context, cfg *config.AppConfig, log *logrus.Entry) notification.Journal {
	if cfg.DatabaseURL == "" {
		log.Debug("DATABASE_URL is not set, delivery journal disabled")
		return notification.NopJournal{}
	}

	dbCtx, cancel := context.WithTimeout(ctx, databaseStartupTimeout)
	defer cancel()

	db, err := idb.NewPostgresConnection(dbCtx, cfg.DatabaseURL)
	if err != nil {
		log.WithError(err).Error("Could not connect to database, delivery journal disabled")
		return notification.NopJournal{}
	}
	if err := idb.EnsureSchema(dbCtx, db); err != nil {
		db.Close()
		log.WithError(err).Error("Could not prepare journal schema, delivery journal disabled")
		return notification.NopJournal{}
	}

	// The pool lives as long as the process.
	log.Info("Database connection established, delivery journal enabled.")
	return idb.NewPostgresDeliveryJournal(db)
}
