package models

import "time"

// Snapshot data types stored in the blob store.
const (
	SNAPSHOT_TYPE_DAILY  = "daily"
	SNAPSHOT_TYPE_HOURLY = "hourly"
)

// Snapshot is the envelope persisted per forecast payload, keyed by
// data type and JST calendar date.
type Snapshot struct {
	Timestamp time.Time        `json:"timestamp"`
	Data      ForecastResponse `json:"data"`
}
