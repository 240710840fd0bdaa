package services

import (
	"context"
	"fmt"
	"time"

	"kiatsu-notification/api/line"
	"kiatsu-notification/api/openweather"
	"kiatsu-notification/config"
	"kiatsu-notification/dao/redis"
	"kiatsu-notification/models"
	"kiatsu-notification/pressure"
	"kiatsu-notification/util"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// One invocation must finish comfortably inside this window; every
// external call is a single blocking attempt.
const RUN_TIMEOUT = 60 * time.Second

// PressureNotifierService orchestrates one notification pass: fetch the
// forecast payloads, snapshot them, compose the two messages and dispatch
// them, then fan out to the extra regions.
type PressureNotifierService struct {
	cfg         *config.Config
	forecastAPI openweather.ForecastAPI
	snapshotDao *redis.RedisSnapshotDAO
	builder     *pressure.MessageBuilder
	notifier    line.Notifier
	logger      *zap.Logger
	scheduler   *cron.Cron
	now         func() time.Time
}

// NewPressureNotifierService constructs the service with its dependencies.
// snapshotDao may be nil when persistence is disabled.
func NewPressureNotifierService(
	cfg *config.Config,
	forecastAPI openweather.ForecastAPI,
	snapshotDao *redis.RedisSnapshotDAO,
	builder *pressure.MessageBuilder,
	notifier line.Notifier,
	logger *zap.Logger,
) *PressureNotifierService {
	return &PressureNotifierService{
		cfg:         cfg,
		forecastAPI: forecastAPI,
		snapshotDao: snapshotDao,
		builder:     builder,
		notifier:    notifier,
		logger:      logger,
		now:         time.Now,
	}
}

// Run executes one complete notification pass. Only a failed dispatch is
// returned as an error; every other failure degrades into fallback output.
func (s *PressureNotifierService) Run(ctx context.Context) error {
	s.logger.Info("Starting pressure notification run")

	fiveDay := s.fetchForecast(ctx, s.cfg.CityID)
	hourly := s.fetchForecast(ctx, s.cfg.CityID)

	s.saveSnapshots(fiveDay, hourly)

	fiveDayMessage := s.builder.BuildFiveDay(ctx, fiveDay)
	hourlyMessage := s.builder.BuildHourly(ctx, hourly, s.previousDayBaseline())

	if err := s.dispatch(ctx, fiveDayMessage, hourlyMessage); err != nil {
		return err
	}

	s.notifyCustomRegions(ctx)
	s.renderChart(fiveDay)

	s.logger.Info("Pressure notification run completed")
	return nil
}

// Preview composes both messages without dispatching or persisting.
func (s *PressureNotifierService) Preview(ctx context.Context) (fiveDayMessage, hourlyMessage string) {
	fiveDay := s.fetchForecast(ctx, s.cfg.CityID)
	hourly := s.fetchForecast(ctx, s.cfg.CityID)
	return s.builder.BuildFiveDay(ctx, fiveDay),
		s.builder.BuildHourly(ctx, hourly, s.previousDayBaseline())
}

// StartPeriodicJob schedules Run with the configured cron expression.
func (s *PressureNotifierService) StartPeriodicJob(cronSpec string) error {
	s.scheduler = cron.New()
	_, err := s.scheduler.AddFunc(cronSpec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), RUN_TIMEOUT)
		defer cancel()

		if err := s.Run(ctx); err != nil {
			s.logger.Error("Scheduled notification run failed", zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule notification job %q: %w", cronSpec, err)
	}

	s.scheduler.Start()
	s.logger.Info("Notification schedule started", zap.String("cron", cronSpec))
	return nil
}

// StopPeriodicJob stops the cron scheduler, waiting for a running job.
func (s *PressureNotifierService) StopPeriodicJob() {
	if s.scheduler != nil {
		<-s.scheduler.Stop().Done()
	}
}

// fetchForecast retrieves the forecast payload for a city, substituting
// the synthetic series when the provider is unreachable so the formatting
// pipeline still runs.
func (s *PressureNotifierService) fetchForecast(ctx context.Context, cityID string) *models.ForecastResponse {
	forecast, err := s.forecastAPI.FetchForecast(ctx, cityID)
	if err != nil {
		s.logger.Error("Forecast fetch failed, generating synthetic data",
			zap.String("city_id", cityID), zap.Error(err))
		return openweather.SyntheticForecast(s.now(), cityID)
	}
	return forecast
}

// saveSnapshots persists both payloads and trims entries older than two
// days. Failures are logged, never fatal.
func (s *PressureNotifierService) saveSnapshots(fiveDay, hourly *models.ForecastResponse) {
	if !s.cfg.SnapshotEnabled || s.snapshotDao == nil {
		s.logger.Info("Snapshot persistence is disabled")
		return
	}

	now := s.now()
	for dataType, payload := range map[string]*models.ForecastResponse{
		models.SNAPSHOT_TYPE_DAILY:  fiveDay,
		models.SNAPSHOT_TYPE_HOURLY: hourly,
	} {
		if err := s.snapshotDao.SaveSnapshot(dataType, now, payload); err != nil {
			s.logger.Error("Failed to save forecast snapshot",
				zap.String("data_type", dataType), zap.Error(err))
			continue
		}
		if err := s.snapshotDao.CleanupOldSnapshots(dataType, now); err != nil {
			s.logger.Warn("Failed to clean up old snapshots",
				zap.String("data_type", dataType), zap.Error(err))
		}
	}
}

// previousDayBaseline loads yesterday's hourly payload for the 24h delta,
// nil when persistence is off or no snapshot exists.
func (s *PressureNotifierService) previousDayBaseline() *models.ForecastResponse {
	if !s.cfg.SnapshotEnabled || s.snapshotDao == nil {
		return nil
	}

	snapshot, err := s.snapshotDao.GetPreviousDaySnapshot(models.SNAPSHOT_TYPE_HOURLY, s.now())
	if err != nil {
		s.logger.Warn("Failed to load previous-day snapshot", zap.Error(err))
		return nil
	}
	if snapshot == nil {
		s.logger.Info("No previous-day snapshot available")
		return nil
	}
	return &snapshot.Data
}

// dispatch pushes both composed messages. A send failure aborts the run:
// it is the one failure the caller must observe.
func (s *PressureNotifierService) dispatch(ctx context.Context, messages ...string) error {
	if !s.cfg.DispatchEnabled() {
		s.logger.Warn("LINE credentials missing, skipping notification dispatch")
		return nil
	}

	for _, message := range messages {
		if err := s.notifier.Push(ctx, s.cfg.LineUserID, message); err != nil {
			return fmt.Errorf("notification dispatch failed: %w", err)
		}
		s.logger.Info("Notification dispatched", zap.Int("length", len(message)))
	}
	return nil
}

// notifyCustomRegions sends the short regional message for each extra
// city id. Per-city failures are logged and skipped.
func (s *PressureNotifierService) notifyCustomRegions(ctx context.Context) {
	if !s.cfg.RegionCustomization || len(s.cfg.CustomCityIDs) == 0 {
		return
	}

	s.logger.Info("Starting regional fan-out", zap.Int("cities", len(s.cfg.CustomCityIDs)))
	for _, cityID := range s.cfg.CustomCityIDs {
		forecast, err := s.forecastAPI.FetchForecast(ctx, cityID)
		if err != nil {
			s.logger.Error("Regional forecast fetch failed",
				zap.String("city_id", cityID), zap.Error(err))
			continue
		}

		message, err := s.builder.BuildRegional(forecast)
		if err != nil {
			s.logger.Error("Regional message build failed",
				zap.String("city_id", cityID), zap.Error(err))
			continue
		}

		if err := s.dispatch(ctx, message); err != nil {
			s.logger.Error("Regional notification dispatch failed",
				zap.String("city_id", cityID), zap.Error(err))
		}
	}
}

// renderChart writes the pressure-trend chart next to the process.
func (s *PressureNotifierService) renderChart(fiveDay *models.ForecastResponse) {
	if !s.cfg.ChartEnabled || !fiveDay.HasSamples() {
		return
	}

	buckets, err := pressure.Aggregate(fiveDay.List)
	if err != nil {
		s.logger.Warn("Chart aggregation failed", zap.Error(err))
		return
	}
	if err := util.PlotPressureTrend(buckets, s.cfg.ChartPath); err != nil {
		s.logger.Warn("Chart rendering failed", zap.Error(err))
		return
	}
	s.logger.Info("Pressure trend chart rendered", zap.String("path", s.cfg.ChartPath))
}
