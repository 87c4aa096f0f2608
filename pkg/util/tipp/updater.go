package tipp

import (
	"fmt"

	"github.com/richard-senior/kicktip/internal/logger"
)

// FeedSource supplies raw weekly feed CSV data for a season. The updater
// does not care how the data is retrieved; the Datasource implementation
// fetches it over HTTP with caching, tests inject literal CSV.
type FeedSource interface {
	FetchSeason(season string) (string, error)
}

// DatasetUpdater merges freshly fetched feed rows into the historical store.
// Running it repeatedly against the same feed is idempotent: a row already
// represented in the store is never appended twice.
type DatasetUpdater struct {
	Store  *MatchStore
	Source FeedSource
}

// NewDatasetUpdater wires an updater for the given store and feed source
func NewDatasetUpdater(store *MatchStore, source FeedSource) *DatasetUpdater {
	return &DatasetUpdater{Store: store, Source: source}
}

// Update fetches the current season's feed, labels each row with season and
// matchday, drops rows the store already covers and appends the remainder.
// Deduplication is by matchday threshold: per season, any incoming row whose
// matchday does not exceed the maximum already stored is already known.
//
// A fetch or parse failure aborts the whole run and leaves the store
// untouched. The season cursor is rebuilt from scratch on every run, never
// carried over.
func (u *DatasetUpdater) Update() (*IngestRun, error) {
	run := NewIngestRun(Config.CurrentSeason)

	csvData, err := u.Source.FetchSeason(Config.CurrentSeason)
	if err != nil {
		run.Fail(err)
		return run, fmt.Errorf("feed unavailable: %w", err)
	}

	header, rows, err := ParseFeed(csvData)
	if err != nil {
		run.Fail(err)
		return run, fmt.Errorf("feed unreadable: %w", err)
	}
	run.RowsFetched = len(rows)

	labeled, _ := LabelFeed(rows, NewSeasonCursor())

	existing, err := u.Store.MaxMatchdays()
	if err != nil {
		run.Fail(err)
		return run, err
	}

	var lines []string
	for _, row := range labeled {
		if max, ok := existing[row.Season]; ok && row.Matchday <= max {
			run.RowsSkipped++
			continue
		}
		lines = append(lines, row.Line())
	}

	if len(lines) > 0 {
		if err := u.Store.Append(header, lines); err != nil {
			run.Fail(err)
			return run, err
		}
	}
	run.RowsAppended = len(lines)
	run.Success = true

	logger.Info("Dataset update complete:", run.RowsAppended, "appended,", run.RowsSkipped, "already known")
	return run, nil
}

// Bootstrap builds a fresh store from a list of past season feeds, oldest
// first. A single cursor is threaded across all seasons so matchday labels
// stay consistent at season boundaries. Any existing store file is replaced.
func (u *DatasetUpdater) Bootstrap(seasons []string) error {
	cursor := NewSeasonCursor()
	var header string
	var lines []string

	for _, season := range seasons {
		csvData, err := u.Source.FetchSeason(season)
		if err != nil {
			return fmt.Errorf("failed to fetch season %s: %w", season, err)
		}
		h, rows, err := ParseFeed(csvData)
		if err != nil {
			return fmt.Errorf("failed to parse season %s: %w", season, err)
		}
		if header == "" {
			header = h
		}

		var labeled []*LabeledRow
		labeled, cursor = LabelFeed(rows, cursor)
		for _, row := range labeled {
			lines = append(lines, row.Line())
		}
		logger.Info("Bootstrapped season", season, "with", len(labeled), "matches")
	}

	if header == "" {
		return fmt.Errorf("no feed data retrieved for any season")
	}

	return u.Store.Rewrite("Season,Gameday,"+header, lines)
}
