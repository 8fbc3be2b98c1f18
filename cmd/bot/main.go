package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"picturecards/internal/config"
	"picturecards/internal/handler"
	"picturecards/internal/repository/postgres"
	"picturecards/internal/service"
	"picturecards/internal/speech/openai"
	"picturecards/internal/telegram"
	"picturecards/internal/tone"

	"github.com/golang-migrate/migrate/v4"
	postgresdb "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	tele "gopkg.in/telebot.v3"
)

func main() {
	// Initialize logger
	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting Picture Cards Bot")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	logger.Info("Configuration loaded successfully")

	// Connect to database with retries
	db, err := connectDatabase(cfg.DSN(), logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("Database connection established")

	// Run migrations
	if err := runMigrations(db, logger); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	logger.Info("Database migrations completed")

	// Initialize repositories
	playerRepo := postgres.NewPlayerRepo(db)
	catalogRepo := postgres.NewCatalogRepo(db)

	// Load the catalog once; every game shares it
	catalogService := service.NewCatalogService(catalogRepo, logger)
	cards, err := catalogService.Load()
	if err != nil {
		logger.Fatal("Failed to load catalog", zap.Error(err))
	}

	// Initialize Telegram bot
	bot, err := tele.NewBot(tele.Settings{
		Token:  cfg.BotToken,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	})
	if err != nil {
		logger.Fatal("Failed to create bot", zap.Error(err))
	}

	logger.Info("Telegram bot initialized")

	// Initialize services
	authService := service.NewAuthService(playerRepo, cfg.BotPassword)
	gameService := service.NewGameService(
		cards,
		newPresenterFactory(bot, cfg.Media, logger),
		service.GameConfig{
			DefaultCycleSize:  cfg.Game.DefaultCycleSize,
			CycleSizes:        cfg.Game.CycleSizes,
			AdvanceDelay:      cfg.Game.AdvanceDelay,
			RepeatProbability: cfg.Game.RepeatProbability,
		},
		logger,
	)
	speechService := service.NewSpeechService(newTranscriber(cfg.Speech, logger), logger)

	// Initialize handler
	h := handler.NewHandler(bot, authService, gameService, speechService, logger)
	h.RegisterHandlers()

	logger.Info("Handlers registered")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		runCleanupJob(ctx, gameService, cfg.Game.SessionTTL, logger)
		return nil
	})

	g.Go(func() error {
		logger.Info("Bot started successfully")
		bot.Start()
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		logger.Info("Shutdown signal received, stopping bot...")
		bot.Stop()
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Bot stopped with error", zap.Error(err))
		return
	}

	logger.Info("Bot stopped gracefully")
}

// newPresenterFactory renders each chat through the bot. Tones are
// rendered once and shared by every chat.
func newPresenterFactory(bot *tele.Bot, media config.MediaConfig, logger *zap.Logger) service.PresenterFactory {
	var tones *telegram.Tones
	if media.TonesEnabled {
		tones = telegram.NewTones(tone.DefaultSampleRate, logger)
	}

	opts := telegram.Options{
		ImageDir:         media.ImageDir,
		ImageFallbackURL: media.ImageFallbackURL,
	}

	return func(chatID int64) service.Presenter {
		return telegram.NewPresenter(bot, chatID, opts, tones, logger)
	}
}

// newTranscriber returns nil when voice answers are not configured
func newTranscriber(cfg config.SpeechConfig, logger *zap.Logger) service.Transcriber {
	if cfg.APIKey == "" {
		logger.Info("OPENAI_API_KEY not set, voice answers disabled")
		return nil
	}

	opts := []openai.Option{
		openai.WithModel(cfg.Model),
		openai.WithLanguage(cfg.Language),
		openai.WithTimeout(30 * time.Second),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
	}

	t, err := openai.New(cfg.APIKey, opts...)
	if err != nil {
		logger.Warn("Voice answers disabled", zap.Error(err))
		return nil
	}
	return t
}

// connectDatabase connects to PostgreSQL with retries
func connectDatabase(dsn string, logger *zap.Logger) (*sql.DB, error) {
	var db *sql.DB
	var err error

	maxRetries := 30
	retryDelay := 2 * time.Second

	for i := 0; i < maxRetries; i++ {
		db, err = sql.Open("postgres", dsn)
		if err != nil {
			logger.Warn("Failed to open database connection",
				zap.Int("attempt", i+1),
				zap.Error(err),
			)
			time.Sleep(retryDelay)
			continue
		}

		if err = db.Ping(); err != nil {
			logger.Warn("Failed to ping database",
				zap.Int("attempt", i+1),
				zap.Error(err),
			)
			db.Close()
			time.Sleep(retryDelay)
			continue
		}

		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(5 * time.Minute)

		return db, nil
	}

	return nil, fmt.Errorf("failed to connect to database after %d attempts: %w", maxRetries, err)
}

// runMigrations creates the schema and seeds the default catalog
func runMigrations(db *sql.DB, logger *zap.Logger) error {
	driver, err := postgresdb.WithInstance(db, &postgresdb.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		"file://migrations",
		"postgres",
		driver,
	)
	if err != nil {
		return fmt.Errorf("failed to create migration instance: %w", err)
	}

	err = m.Up()
	switch {
	case errors.Is(err, migrate.ErrNoChange):
		logger.Info("No new migrations to apply")
	case err != nil:
		return fmt.Errorf("failed to run migrations: %w", err)
	default:
		logger.Info("Migrations applied successfully")
	}

	return nil
}

// runCleanupJob drops games idle for longer than ttl
func runCleanupJob(ctx context.Context, gameService *service.GameService, ttl time.Duration, logger *zap.Logger) {
	interval := ttl / 4
	if interval < time.Minute {
		interval = time.Minute
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Cleanup job stopped")
			return
		case <-ticker.C:
			gameService.EvictIdle(ttl)
		}
	}
}
