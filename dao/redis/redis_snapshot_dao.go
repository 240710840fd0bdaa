package redis

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"kiatsu-notification/db"
	"kiatsu-notification/models"

	"go.uber.org/zap"
)

const SNAPSHOT_KEY_FORMAT = "snapshot:%s/%s"
const SNAPSHOT_KEY_PREFIX_FORMAT = "snapshot:%s/"
const SNAPSHOT_DATE_FORMAT = "2006-01-02"

// Snapshots older than this many days are removed by cleanup.
const SNAPSHOT_RETENTION_DAYS = 2

// RedisSnapshotDAO persists forecast payload snapshots keyed by data type
// and JST calendar date. Entries are overwritten wholesale on each save.
type RedisSnapshotDAO struct {
	client db.RedisClient
	logger *zap.Logger
}

// NewRedisSnapshotDAO initializes a RedisSnapshotDAO with the Redis client.
func NewRedisSnapshotDAO(client db.RedisClient, logger *zap.Logger) *RedisSnapshotDAO {
	return &RedisSnapshotDAO{client: client, logger: logger}
}

// SaveSnapshot stores the payload under today's key for the data type.
func (dao *RedisSnapshotDAO) SaveSnapshot(dataType string, now time.Time, payload *models.ForecastResponse) error {
	envelope := models.Snapshot{
		Timestamp: now.In(models.JST),
		Data:      *payload,
	}
	data, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("failed to marshal %s snapshot: %w", dataType, err)
	}

	key := dao.snapshotKey(dataType, now)
	if err := dao.client.Set(key, string(data)); err != nil {
		return fmt.Errorf("failed to set snapshot %s in redis: %w", key, err)
	}
	dao.logger.Info("Saved forecast snapshot", zap.String("key", key))
	return nil
}

// GetSnapshot retrieves the snapshot for a data type and date. A missing
// entry returns (nil, nil).
func (dao *RedisSnapshotDAO) GetSnapshot(dataType string, date time.Time) (*models.Snapshot, error) {
	key := dao.snapshotKey(dataType, date)
	str, err := dao.client.Get(key)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get snapshot %s from redis: %w", key, err)
	}

	var snapshot models.Snapshot
	if err := json.Unmarshal([]byte(str), &snapshot); err != nil {
		return nil, fmt.Errorf("failed to unmarshal snapshot %s: %w", key, err)
	}
	return &snapshot, nil
}

// GetPreviousDaySnapshot retrieves yesterday's snapshot for the data type.
func (dao *RedisSnapshotDAO) GetPreviousDaySnapshot(dataType string, now time.Time) (*models.Snapshot, error) {
	return dao.GetSnapshot(dataType, now.In(models.JST).AddDate(0, 0, -1))
}

// CleanupOldSnapshots deletes entries of the data type older than the
// retention window. Unparseable keys are skipped, not fatal.
func (dao *RedisSnapshotDAO) CleanupOldSnapshots(dataType string, now time.Time) error {
	prefix := fmt.Sprintf(SNAPSHOT_KEY_PREFIX_FORMAT, dataType)
	keys, err := dao.client.Keys(prefix + "*")
	if err != nil {
		return fmt.Errorf("failed to list %s snapshot keys: %w", dataType, err)
	}

	cutoff, _ := time.ParseInLocation(SNAPSHOT_DATE_FORMAT,
		now.In(models.JST).AddDate(0, 0, -SNAPSHOT_RETENTION_DAYS).Format(SNAPSHOT_DATE_FORMAT), models.JST)

	for _, key := range keys {
		dateStr := strings.TrimPrefix(key, prefix)
		entryDate, err := time.ParseInLocation(SNAPSHOT_DATE_FORMAT, dateStr, models.JST)
		if err != nil {
			dao.logger.Warn("Skipping snapshot key with unparseable date",
				zap.String("key", key), zap.Error(err))
			continue
		}
		if entryDate.Before(cutoff) {
			if err := dao.client.Del(key); err != nil {
				dao.logger.Warn("Failed to delete old snapshot",
					zap.String("key", key), zap.Error(err))
				continue
			}
			dao.logger.Info("Deleted old forecast snapshot", zap.String("key", key))
		}
	}
	return nil
}

func (dao *RedisSnapshotDAO) snapshotKey(dataType string, date time.Time) string {
	return fmt.Sprintf(SNAPSHOT_KEY_FORMAT, dataType, date.In(models.JST).Format(SNAPSHOT_DATE_FORMAT))
}
