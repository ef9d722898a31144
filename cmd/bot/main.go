package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"grading_overview_bot/internal/app"
	"grading_overview_bot/internal/domain/grading"
	"grading_overview_bot/internal/infra/config"
	idb "grading_overview_bot/internal/infra/database"
	"grading_overview_bot/internal/infra/httpapi"
	"grading_overview_bot/internal/infra/logger"
	"grading_overview_bot/internal/infra/scheduler"
	"grading_overview_bot/internal/infra/telegram"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Could not load application configuration")
	}

	log := logger.New(cfg.LogLevel, cfg.Environment)
	mainLogger := log.WithField("component", "main")
	mainLogger.WithFields(logrus.Fields{
		"environment": cfg.Environment,
		"bot":         cfg.BotEnabled(),
		"http_addr":   cfg.HTTPAddr,
	}).Info("Grading overview bot starting")

	db, err := idb.NewPostgresConnection(cfg.DatabaseURL, idb.PoolConfig{
		MaxOpenConns: cfg.DBMaxOpenConns,
		MaxIdleConns: cfg.DBMaxIdleConns,
	})
	if err != nil {
		mainLogger.WithError(err).Fatal("Could not connect to database")
	}
	defer db.Close()
	mainLogger.Info("Database connection established")

	activityRepo := idb.NewPostgresActivityRepository(db)
	learnerRepo := idb.NewPostgresLearnerRepository(db)
	catalogRepo := idb.NewPostgresCatalogRepository(db)

	gradingService := app.NewGradingService(
		activityRepo,
		learnerRepo,
		catalogRepo,
		log.WithField("component", "grading"),
		app.WithGradingScreenURL(cfg.GradingScreenURL),
		app.WithDefaults(grading.Defaults{PerPage: cfg.GradingPerPage, Role: cfg.LearnerRole}),
	)
	catalogService := app.NewCatalogService(catalogRepo)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var (
		bot            *telebot.Bot
		digestSchedule *scheduler.DigestScheduler
	)
	if cfg.BotEnabled() {
		bot, err = telebot.NewBot(telebot.Settings{
			Token:  cfg.TelegramToken,
			Poller: &telebot.LongPoller{Timeout: 10 * time.Second},
			OnError: func(err error, c telebot.Context) {
				entry := log.WithField("component", "telebot").WithError(err)
				if c != nil && c.Sender() != nil && c.Chat() != nil {
					entry = entry.WithFields(logrus.Fields{
						"sender_id": c.Sender().ID,
						"chat_id":   c.Chat().ID,
						"text":      c.Text(),
					})
				}
				entry.Error("Telegram handler error")
			},
		})
		if err != nil {
			mainLogger.WithError(err).Fatal("Could not create Telegram bot")
		}

		access := telegram.Access{AdminID: cfg.AdminTelegramID, ManagerID: cfg.ManagerTelegramID}
		botLogger := log.WithField("component", "telegram")
		telegram.RegisterBotCommands(bot, access, botLogger)
		telegram.RegisterGradingHandlers(ctx, bot, gradingService, catalogService, access, botLogger)
		mainLogger.Info("Telegram handlers registered")

		digestService := app.NewDigestService(
			gradingService,
			telegram.NewTelebotAdapter(bot),
			cfg.ManagerTelegramID,
			log.WithField("component", "digest"),
		)
		digestSchedule = scheduler.NewDigestScheduler(digestService, log.WithField("component", "scheduler"), cfg.CronSpecDigest)
		if err := digestSchedule.Start(); err != nil {
			mainLogger.WithError(err).Fatal("Could not start digest scheduler")
		}

		go bot.Start()
	}

	var server *http.Server
	if cfg.HTTPAddr != "" {
		handler := httpapi.NewHandler(gradingService, catalogService, log.WithField("component", "httpapi"))
		server = httpapi.NewServer(cfg.HTTPAddr, handler)
		go func() {
			mainLogger.WithField("addr", cfg.HTTPAddr).Info("HTTP API listening")
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				mainLogger.WithError(err).Error("HTTP API stopped unexpectedly")
				stop()
			}
		}()
	}

	if bot == nil && server == nil {
		mainLogger.Warn("Neither the Telegram bot nor the HTTP API is enabled, exiting")
		return
	}

	<-ctx.Done()
	mainLogger.Info("Shutting down application...")

	if server != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		if err := server.Shutdown(shutdownCtx); err != nil {
			mainLogger.WithError(err).Error("HTTP API shutdown failed")
		}
		cancel()
	}
	if digestSchedule != nil {
		digestSchedule.Stop()
	}
	if bot != nil {
		bot.Stop()
	}
	mainLogger.Info("Application shut down gracefully")
}
