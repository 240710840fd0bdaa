package di

import (
	"context"

	"kiatsu-notification/api"
	"kiatsu-notification/api/groq"
	"kiatsu-notification/api/line"
	"kiatsu-notification/api/openweather"
	"kiatsu-notification/config"
	"kiatsu-notification/dao/redis"
	"kiatsu-notification/db"
	"kiatsu-notification/pressure"
	"kiatsu-notification/server"
	"kiatsu-notification/server/handlers"
	services "kiatsu-notification/service"

	goredis "github.com/go-redis/redis/v8"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// Requests per second allowed against the forecast provider, shared by
// the main city and the regional fan-out.
const FORECAST_RATE_LIMIT_RPS = 1.0
const FORECAST_RATE_LIMIT_BURST = 2

// Container holds all application dependencies.
type Container struct {
	Config                  *config.Config
	RedisClient             db.RedisClient
	SnapshotDao             *redis.RedisSnapshotDAO
	ForecastAPI             openweather.ForecastAPI
	AdviceComposer          *pressure.Composer
	MessageBuilder          *pressure.MessageBuilder
	Notifier                line.Notifier
	PressureNotifierService *services.PressureNotifierService
	NotifyHandler           *handlers.NotifyHandler
	MuxRouter               *mux.Router
	Router                  *server.Router
	KiatsuHttpServer        *server.KiatsuHttpServer
}

// NewContainer initializes and wires up all dependencies.
func NewContainer(cfg *config.Config, logger *zap.Logger) *Container {
	ctx := context.Background()

	// Snapshot store, only when persistence is enabled
	var redisClient db.RedisClient
	var snapshotDao *redis.RedisSnapshotDAO
	if cfg.SnapshotEnabled {
		redisInternalClient := goredis.NewClient(&goredis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		redisClient = db.NewStoreRedisClient(ctx, redisInternalClient)
		snapshotDao = redis.NewRedisSnapshotDAO(redisClient, logger)
	}

	// Forecast provider - synthetic when no credential is configured
	var forecastAPI openweather.ForecastAPI
	if cfg.OpenWeatherAPIKey != "" {
		logger.Info("Using OpenWeatherMap forecast client")
		httpClient := api.NewHTTPClient(config.OPENWEATHER_ENDPOINT_BASE)
		client := openweather.NewOpenWeatherClient(httpClient, FORECAST_RATE_LIMIT_RPS, FORECAST_RATE_LIMIT_BURST)
		client.SetAPIKey(cfg.OpenWeatherAPIKey)
		forecastAPI = client
	} else {
		logger.Info("Using synthetic forecast client")
		forecastAPI = openweather.NewSyntheticForecastClient()
	}

	// Advice composer with its optional generation tier
	var generator groq.AdviceGenerator
	if cfg.GeneratorEnabled() {
		generator = groq.NewGroqClient(api.NewHTTPClient(config.GROQ_ENDPOINT_BASE), cfg.GroqAPIKey, logger)
	}
	adviceComposer := pressure.NewComposer(generator, cfg.GeneratorEnabled(), logger)

	messageBuilder := pressure.NewMessageBuilder(cfg, adviceComposer)

	notifier := line.NewLineClient(api.NewHTTPClient(config.LINE_ENDPOINT_BASE), cfg.LineChannelAccessToken)

	notifierService := services.NewPressureNotifierService(
		cfg, forecastAPI, snapshotDao, messageBuilder, notifier, logger)

	notifyHandler := handlers.NewNotifyHandler(notifierService, logger)

	muxRouter := mux.NewRouter()
	router := server.NewRouter(notifyHandler, muxRouter)
	kiatsuHttpServer := server.NewKiatsuHttpServer(router, muxRouter, cfg.HTTPPort, logger)

	return &Container{
		Config:                  cfg,
		RedisClient:             redisClient,
		SnapshotDao:             snapshotDao,
		ForecastAPI:             forecastAPI,
		AdviceComposer:          adviceComposer,
		MessageBuilder:          messageBuilder,
		Notifier:                notifier,
		PressureNotifierService: notifierService,
		NotifyHandler:           notifyHandler,
		MuxRouter:               muxRouter,
		Router:                  router,
		KiatsuHttpServer:        kiatsuHttpServer,
	}
}
