package tipp

/**
* Tipp is a golang library for maintaining a Bundesliga results dataset
* and estimating the outcomes of upcoming matches
 */

import (
	"fmt"
	"os"

	"github.com/richard-senior/kicktip/internal/logger"
)

// Tipp wires the store, the feed, the updater and the prediction engine
// together behind one façade
type Tipp struct {
	Store      *MatchStore
	Updater    *DatasetUpdater
	Engine     *PredictionEngine
	Harmonizer *TeamNameHarmonizer
}

// NewTipp builds the full pipeline from the global configuration, creating
// the asset directory and archive tables on first use
func NewTipp() (*Tipp, error) {
	if err := os.MkdirAll(Config.TippAssetsPath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create assets directory: %w", err)
	}

	if err := InitDatabase(); err != nil {
		return nil, err
	}

	store := &MatchStore{Path: Config.StorePath}
	return &Tipp{
		Store:      store,
		Updater:    &DatasetUpdater{Store: store, Source: GetDatasourceInstance()},
		Engine:     NewPredictionEngine(store, Config.FixturesPath),
		Harmonizer: NewTeamNameHarmonizer(store, Config.FixturesPath),
	}, nil
}

// Update ingests the latest feed data for the current season. The audit row
// is archived whether the run succeeded or not.
func (t *Tipp) Update() error {
	run, err := t.Updater.Update()
	if saveErr := Save(run); saveErr != nil {
		logger.Warn("Failed to archive ingest run", saveErr)
	}
	return err
}

// Bootstrap rebuilds the store from scratch over the configured seasons
func (t *Tipp) Bootstrap() error {
	return t.Updater.Bootstrap(Config.Seasons)
}

// Predict computes, archives and returns the forecasts for one matchday of
// the current season
func (t *Tipp) Predict(matchday int) ([]*PredictionRecord, error) {
	t.Engine.Reload()

	predictions, err := t.Engine.CalculatePredictions(matchday)
	if err != nil {
		return nil, err
	}
	if len(predictions) == 0 {
		return nil, fmt.Errorf("no fixtures for matchday %d in season %s", matchday, t.Engine.CurrentSeason())
	}

	objects := make([]Persistable, 0, len(predictions))
	for _, p := range predictions {
		objects = append(objects, p)
	}
	if err := BulkSave(objects); err != nil {
		logger.Warn("Failed to archive predictions", err)
	}

	return predictions, nil
}

// AvailableMatchdays lists the matchdays of the current season that can
// still be predicted
func (t *Tipp) AvailableMatchdays() ([]int, error) {
	t.Engine.Reload()
	return t.Engine.AvailableMatchdays()
}

// Harmonize aligns the team names in the store with the fixtures file
func (t *Tipp) Harmonize() error {
	return t.Harmonizer.Harmonize()
}
