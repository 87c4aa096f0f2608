package tipp

import (
	"fmt"
	"time"
)

// IngestRun is the audit record of one dataset update. One row is archived
// per run, successful or not, keyed by season and start timestamp.
type IngestRun struct {
	Season       string `column:"season" dbtype:"TEXT NOT NULL" primary:"true" index:"true"`
	StartedAt    string `column:"started_at" dbtype:"TEXT NOT NULL" primary:"true"`
	RowsFetched  int    `column:"rows_fetched" dbtype:"INTEGER NOT NULL DEFAULT 0"`
	RowsSkipped  int    `column:"rows_skipped" dbtype:"INTEGER NOT NULL DEFAULT 0"`
	RowsAppended int    `column:"rows_appended" dbtype:"INTEGER NOT NULL DEFAULT 0"`
	Success      bool   `column:"success" dbtype:"BOOLEAN NOT NULL DEFAULT 0"`
	Error        string `column:"error" dbtype:"TEXT"`
}

// NewIngestRun starts an audit record for the given season
func NewIngestRun(season string) *IngestRun {
	return &IngestRun{
		Season:    season,
		StartedAt: time.Now().UTC().Format(time.RFC3339),
	}
}

// Fail marks the run as failed and records the cause
func (r *IngestRun) Fail(err error) {
	r.Success = false
	if err != nil {
		r.Error = err.Error()
	}
}

// GetTableName returns the database table name for ingest runs
func (r *IngestRun) GetTableName() string {
	return "ingest_runs"
}

// GetPrimaryKey returns the primary key for database operations
func (r *IngestRun) GetPrimaryKey() map[string]interface{} {
	return map[string]interface{}{
		"season":     r.Season,
		"started_at": r.StartedAt,
	}
}

// BeforeSave validates the record before persistence
func (r *IngestRun) BeforeSave() error {
	if r.Season == "" {
		return fmt.Errorf("ingest run has no season")
	}
	if r.StartedAt == "" {
		return fmt.Errorf("ingest run has no start time")
	}
	return nil
}
