package domain

import "time"

// SyncStats holds statistics about a sync operation.
type SyncStats struct {
	SourceID   string
	Courses    int // listed by the platform
	Aggregated int
	Failed     int
	Works      int
	Persisted  int
	New        int
	Updated    int
	Published  int
	Errors     int // persistence or publication failures
	Duration   time.Duration
}

type SyncState struct {
	ID           int64     `db:"id"`
	SourceID     string    `db:"source_id"`
	LastSyncedAt time.Time `db:"last_synced_at"`
	TotalSynced  int64     `db:"total_synced"`
}
