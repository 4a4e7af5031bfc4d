package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"jornada/internal/api"
	"jornada/internal/config"
	"jornada/internal/db"
	"jornada/internal/notify"
	"jornada/internal/services"
)

const minimumSecretKeyLength = 32

var placeholderSecretKeys = map[string]struct{}{
	config.DefaultSecretKey:                      {},
	"replace_with_at_least_32_random_characters": {},
}

func runServe() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	location := cfg.Location()
	time.Local = location

	secret, err := resolveSecretKey(cfg)
	if err != nil {
		return err
	}

	database, err := db.OpenSQLite(cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("database init failed: %w", err)
	}

	handler, err := api.NewHandler(database, secret, location, cfg.SecureCookies)
	if err != nil {
		return fmt.Errorf("handler init failed: %w", err)
	}

	app := newFiberApp(handler)

	scheduler, err := startReminderScheduler(cfg, db.NewRepositories(database), location)
	if err != nil {
		return err
	}

	sigCtx, stopSignals := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	go func() {
		<-sigCtx.Done()
		if scheduler != nil {
			scheduler.Stop()
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			log.Printf("server shutdown failed: %v", err)
		}
	}()

	log.Printf("jornada listening on %s (db: %s, tz: %s)", cfg.ListenAddr, cfg.DatabasePath, location.String())
	if err := app.Listen(cfg.ListenAddr); err != nil {
		return fmt.Errorf("server exited: %w", err)
	}
	return nil
}

func newFiberApp(handler *api.Handler) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "Jornada",
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(compress.New())

	api.RegisterRoutes(app, handler)
	return app
}

// resolveSecretKey refuses to boot with a missing, placeholder or short JWT
// signing key. There is no insecure development fallback.
func resolveSecretKey(cfg *config.Config) (string, error) {
	secret := strings.TrimSpace(cfg.SecretKey)
	if secret == "" {
		return "", errors.New("secret_key is required: set JORNADA_SECRET_KEY or secret_key in jornada.yaml")
	}
	if _, placeholder := placeholderSecretKeys[secret]; placeholder || cfg.UsingDefaultSecret() {
		return "", errors.New("secret_key still has a placeholder value, generate a random one")
	}
	if len(secret) < minimumSecretKeyLength {
		return "", fmt.Errorf("secret_key must be at least %d characters, got %d", minimumSecretKeyLength, len(secret))
	}
	return secret, nil
}

// startReminderScheduler wires the end-of-day open-work reminder when both the
// reminder and a Telegram channel are configured. Returns nil when disabled.
func startReminderScheduler(cfg *config.Config, repositories *db.Repositories, location *time.Location) (*services.Scheduler, error) {
	if !cfg.Reminder.Enabled || cfg.Telegram.BotToken == "" {
		log.Printf("reminder: disabled (enabled=%t, telegram configured=%t)", cfg.Reminder.Enabled, cfg.Telegram.BotToken != "")
		return nil, nil
	}

	notifier, err := notify.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
	if err != nil {
		return nil, fmt.Errorf("telegram init failed: %w", err)
	}

	minOpenAge := time.Duration(cfg.Reminder.MinOpenMinutes) * time.Minute
	reminder := services.NewReminderService(repositories.ClockSessions, repositories.TimeEntries, notifier, location, minOpenAge)

	hour, minute, err := config.ParseClock(cfg.Reminder.Time)
	if err != nil {
		return nil, err
	}

	scheduler := services.NewScheduler(location)
	if _, err := scheduler.ScheduleDaily(hour, minute, func() {
		if err := reminder.SendDailySummary(time.Now()); err != nil {
			log.Printf("reminder: daily summary failed: %v", err)
		}
	}); err != nil {
		return nil, fmt.Errorf("schedule reminder: %w", err)
	}

	scheduler.Start()
	log.Printf("reminder: scheduled daily at %02d:%02d (%s)", hour, minute, location.String())
	return scheduler, nil
}
