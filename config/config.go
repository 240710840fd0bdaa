package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// Default city is Matsue (OpenWeatherMap city id 1857550).
const DEFAULT_CITY_ID = "1857550"
const DEFAULT_CITY_NAME = "松江市"

const OPENWEATHER_ENDPOINT_BASE = "https://api.openweathermap.org/data/2.5"
const GROQ_ENDPOINT_BASE = "https://api.groq.com/openai/v1"
const LINE_ENDPOINT_BASE = "https://api.line.me/v2/bot"

// Config holds every runtime setting. It is built once at process start
// from the environment and never mutated afterwards.
type Config struct {
	// Forecast provider
	OpenWeatherAPIKey string
	CityID            string
	CityName          string

	// Pressure analysis thresholds (hPa)
	PressureThreshold       float64
	PressureChangeThreshold float64
	PressureAlertThreshold  float64

	// Advice generation
	UseGroq    bool
	GroqAPIKey string

	// Notification dispatch
	LineChannelAccessToken string
	LineUserID             string

	// Snapshot store
	SnapshotEnabled bool
	RedisAddr       string
	RedisPassword   string
	RedisDB         int

	// Regional fan-out
	RegionCustomization bool
	CustomCityIDs       []string

	// Server / scheduling
	HTTPPort   string
	NotifyCron string

	// Chart rendering
	ChartEnabled bool
	ChartPath    string
}

// Load reads the configuration from the environment, consulting a .env
// file when one is present.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		zap.L().Info("No .env file found, using environment variables")
	}

	cfg := &Config{
		OpenWeatherAPIKey: getEnv("OPENWEATHER_API_KEY", ""),
		CityID:            getEnv("CITY_ID", DEFAULT_CITY_ID),
		CityName:          getEnv("CITY_NAME", DEFAULT_CITY_NAME),

		PressureThreshold:       parseFloat(getEnv("PRESSURE_THRESHOLD", "1010")),
		PressureChangeThreshold: parseFloat(getEnv("PRESSURE_CHANGE_THRESHOLD", "6")),
		PressureAlertThreshold:  parseFloat(getEnv("PRESSURE_ALERT_THRESHOLD", "8")),

		UseGroq:    parseBool(getEnv("USE_GROQ", "true")),
		GroqAPIKey: getEnv("GROQ_API_KEY", ""),

		LineChannelAccessToken: getEnv("LINE_CHANNEL_ACCESS_TOKEN", ""),
		LineUserID:             getEnv("LINE_USER_ID", ""),

		SnapshotEnabled: parseBool(getEnv("SNAPSHOT_ENABLED", "false")),
		RedisAddr:       getEnv("REDIS_ADDR", "redis:6379"),
		RedisPassword:   getEnv("REDIS_PASSWORD", ""),
		RedisDB:         parseInt(getEnv("REDIS_DB", "0")),

		RegionCustomization: parseBool(getEnv("REGION_CUSTOMIZATION", "false")),
		CustomCityIDs:       splitList(getEnv("CUSTOM_CITY_IDS", "")),

		HTTPPort:   getEnv("HTTP_PORT", "8080"),
		NotifyCron: getEnv("NOTIFY_CRON", "0 7 * * *"),

		ChartEnabled: parseBool(getEnv("CHART_ENABLED", "false")),
		ChartPath:    getEnv("CHART_PATH", "pressure_trend.html"),
	}

	if cfg.OpenWeatherAPIKey == "" {
		zap.L().Warn("OPENWEATHER_API_KEY is not set, forecast fetches will use synthetic data")
	}
	if !cfg.DispatchEnabled() {
		zap.L().Warn("LINE credentials are not set, notifications will be disabled")
	}
	if cfg.UseGroq && cfg.GroqAPIKey == "" {
		zap.L().Warn("GROQ_API_KEY is not set, canned health advice will be used")
	}

	return cfg
}

// GeneratorEnabled reports whether the external advice-generation tier may
// be called at all: both the feature flag and the credential are required.
func (c *Config) GeneratorEnabled() bool {
	return c.UseGroq && c.GroqAPIKey != ""
}

// DispatchEnabled reports whether LINE notifications can be sent.
func (c *Config) DispatchEnabled() bool {
	return c.LineChannelAccessToken != "" && c.LineUserID != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseFloat(value string) float64 {
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		zap.L().Warn("Failed to parse float", zap.String("value", value), zap.Error(err))
		return 0
	}
	return f
}

func parseInt(value string) int {
	i, err := strconv.Atoi(value)
	if err != nil {
		zap.L().Warn("Failed to parse int", zap.String("value", value), zap.Error(err))
		return 0
	}
	return i
}

func parseBool(value string) bool {
	return strings.EqualFold(strings.TrimSpace(value), "true")
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
