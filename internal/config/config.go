package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	BotToken    string
	BotPassword string
	Database    DatabaseConfig
	Game        GameConfig
	Media       MediaConfig
	Speech      SpeechConfig
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
}

// GameConfig holds gameplay settings
type GameConfig struct {
	DefaultCycleSize  int
	CycleSizes        []int
	AdvanceDelay      time.Duration
	RepeatProbability float64
	SessionTTL        time.Duration
}

// MediaConfig holds settings for pictures and sounds
type MediaConfig struct {
	ImageDir         string
	ImageFallbackURL string
	TonesEnabled     bool
}

// SpeechConfig holds voice answer settings. Speech is disabled when
// APIKey is empty.
type SpeechConfig struct {
	APIKey   string
	BaseURL  string
	Model    string
	Language string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (ignore error if not exists)
	_ = godotenv.Load()

	cfg := &Config{
		BotToken:    os.Getenv("BOT_TOKEN"),
		BotPassword: os.Getenv("BOT_PASSWORD"),
		Database:    loadDatabase(),
		Media: MediaConfig{
			ImageDir:         getEnv("IMAGE_DIR", "assets"),
			ImageFallbackURL: getEnv("IMAGE_FALLBACK_URL", "https://picsum.photos/seed/%s/600/400"),
		},
		Speech: SpeechConfig{
			APIKey:   os.Getenv("OPENAI_API_KEY"),
			BaseURL:  os.Getenv("OPENAI_BASE_URL"),
			Model:    getEnv("STT_MODEL", "whisper-1"),
			Language: getEnv("STT_LANGUAGE", "ru"),
		},
	}

	// Validate required fields
	if cfg.BotToken == "" {
		return nil, fmt.Errorf("BOT_TOKEN is required")
	}
	if cfg.BotPassword == "" {
		return nil, fmt.Errorf("BOT_PASSWORD is required")
	}
	if cfg.Database.Password == "" {
		return nil, fmt.Errorf("DB_PASSWORD is required")
	}

	game, err := loadGame()
	if err != nil {
		return nil, err
	}
	cfg.Game = game

	if cfg.Media.TonesEnabled, err = getEnvBool("TONES_ENABLED", false); err != nil {
		return nil, err
	}
	if err := checkFallbackURL(cfg.Media.ImageFallbackURL); err != nil {
		return nil, err
	}

	return cfg, nil
}

// checkFallbackURL requires exactly one %s verb, which receives the item id
func checkFallbackURL(pattern string) error {
	if strings.Count(pattern, "%s") != 1 || strings.Contains(fmt.Sprintf(pattern, "id"), "%!") {
		return fmt.Errorf("IMAGE_FALLBACK_URL=%q: must contain exactly one %%s for the item id", pattern)
	}
	return nil
}

// LoadDatabase reads only the database settings, for tools that do not
// talk to Telegram
func LoadDatabase() (DatabaseConfig, error) {
	_ = godotenv.Load()

	db := loadDatabase()
	if db.Password == "" {
		return DatabaseConfig{}, fmt.Errorf("DB_PASSWORD is required")
	}
	return db, nil
}

func loadDatabase() DatabaseConfig {
	return DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnv("DB_PORT", "5432"),
		Name:     getEnv("DB_NAME", "picturecards"),
		User:     getEnv("DB_USER", "picturecards"),
		Password: os.Getenv("DB_PASSWORD"),
	}
}

func loadGame() (GameConfig, error) {
	var (
		game GameConfig
		err  error
	)

	if game.DefaultCycleSize, err = getEnvInt("DEFAULT_CYCLE_SIZE", 5); err != nil {
		return game, err
	}
	if game.DefaultCycleSize < 1 {
		return game, fmt.Errorf("DEFAULT_CYCLE_SIZE must be positive")
	}

	if game.CycleSizes, err = getEnvInts("CYCLE_SIZES", []int{3, 5, 10}); err != nil {
		return game, err
	}

	if game.AdvanceDelay, err = getEnvDuration("ADVANCE_DELAY", 600*time.Millisecond); err != nil {
		return game, err
	}
	if game.AdvanceDelay < 0 {
		return game, fmt.Errorf("ADVANCE_DELAY must not be negative")
	}

	if game.RepeatProbability, err = getEnvFloat("REPEAT_PROBABILITY", 0.5); err != nil {
		return game, err
	}
	if game.RepeatProbability < 0 || game.RepeatProbability > 1 {
		return game, fmt.Errorf("REPEAT_PROBABILITY must be between 0 and 1")
	}

	if game.SessionTTL, err = getEnvDuration("SESSION_TTL", 24*time.Hour); err != nil {
		return game, err
	}
	if game.SessionTTL <= 0 {
		return game, fmt.Errorf("SESSION_TTL must be positive")
	}

	return game, nil
}

// DSN returns PostgreSQL connection string
func (c *Config) DSN() string {
	return c.Database.DSN()
}

// DSN returns PostgreSQL connection string
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		d.Host,
		d.Port,
		d.User,
		d.Password,
		d.Name,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s=%q is not an integer: %w", key, value, err)
	}
	return n, nil
}

func getEnvInts(key string, defaultValue []int) ([]int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}

	var result []int
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("%s=%q: %q is not an integer: %w", key, value, part, err)
		}
		if n < 1 {
			return nil, fmt.Errorf("%s=%q: sizes must be positive", key, value)
		}
		result = append(result, n)
	}
	return result, nil
}

func getEnvFloat(key string, defaultValue float64) (float64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("%s=%q is not a number: %w", key, value, err)
	}
	return f, nil
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s=%q is not a valid duration: %w", key, value, err)
	}
	return d, nil
}

func getEnvBool(key string, defaultValue bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("%s=%q is not a boolean: %w", key, value, err)
	}
	return b, nil
}
