package tipp

import (
	"math"
	"sort"

	"github.com/richard-senior/kicktip/internal/logger"
)

// PredictionEngine computes outcome forecasts for future matchdays from the
// historical store and the fixtures file. Its caches are rebuilt in full by
// Reload before each round of predictions, never patched incrementally.
type PredictionEngine struct {
	store        *MatchStore
	fixturesPath string

	currentSeason        string
	historicalMatches    []*MatchRecord
	currentSeasonMatches []*MatchRecord
}

// NewPredictionEngine returns an engine reading from the given store and
// fixtures file
func NewPredictionEngine(store *MatchStore, fixturesPath string) *PredictionEngine {
	return &PredictionEngine{
		store:        store,
		fixturesPath: fixturesPath,
	}
}

// Reload determines the current season and rebuilds the match caches from
// the store. A missing store is not fatal: the engine then predicts from
// empty statistics, which resolves to the neutral fallbacks.
func (e *PredictionEngine) Reload() {
	e.loadCurrentSeason()
	e.loadHistoricalData()
}

// loadCurrentSeason takes the season of the first fixtures row, falling back
// to the configured season if the fixtures file is unavailable
func (e *PredictionEngine) loadCurrentSeason() {
	fixtures, err := LoadFixtures(e.fixturesPath)
	if err != nil || len(fixtures) == 0 {
		logger.Error("Error reading current season from fixtures", err)
		e.currentSeason = Config.FallbackSeason
		return
	}
	e.currentSeason = fixtures[0].Season
}

// loadHistoricalData clears and refills the match caches, splitting the
// store into current-season and prior-season matches
func (e *PredictionEngine) loadHistoricalData() {
	e.historicalMatches = nil
	e.currentSeasonMatches = nil

	if !e.store.Exists() {
		logger.Error("Historical store does not exist:", e.store.Path)
		return
	}

	matches, err := e.store.LoadMatches()
	if err != nil {
		logger.Error("Error reading historical store", err)
		return
	}

	for _, match := range matches {
		if match.Season == e.currentSeason {
			e.currentSeasonMatches = append(e.currentSeasonMatches, match)
		} else {
			e.historicalMatches = append(e.historicalMatches, match)
		}
	}
}

// CurrentSeason returns the season the engine is predicting for
func (e *PredictionEngine) CurrentSeason() string {
	return e.currentSeason
}

// currentMatchday is the maximum matchday already played this season
func (e *PredictionEngine) currentMatchday() int {
	max := 0
	for _, match := range e.currentSeasonMatches {
		if match.Matchday > max {
			max = match.Matchday
		}
	}
	return max
}

// AvailableMatchdays returns, sorted ascending, every matchday in the
// fixtures table for the current season that has not yet been played
func (e *PredictionEngine) AvailableMatchdays() ([]int, error) {
	fixtures, err := LoadFixtures(e.fixturesPath)
	if err != nil {
		return nil, err
	}

	played := e.currentMatchday()
	seen := make(map[int]bool)
	var matchdays []int
	for _, fixture := range fixtures {
		if fixture.Season != e.currentSeason || fixture.Matchday <= played {
			continue
		}
		if !seen[fixture.Matchday] {
			seen[fixture.Matchday] = true
			matchdays = append(matchdays, fixture.Matchday)
		}
	}
	sort.Ints(matchdays)
	return matchdays, nil
}

// CalculatePredictions produces one PredictionRecord per fixture of the
// requested matchday in the current season
func (e *PredictionEngine) CalculatePredictions(matchday int) ([]*PredictionRecord, error) {
	fixtures, err := LoadFixtures(e.fixturesPath)
	if err != nil {
		return nil, err
	}

	var predictions []*PredictionRecord
	for _, fixture := range fixtures {
		if fixture.Season != e.currentSeason || fixture.Matchday != matchday {
			continue
		}

		stats := e.calculateTeamStatistics(fixture.HomeTeam, fixture.AwayTeam, matchday)
		home, draw, away := e.winProbabilities(stats)
		totalAvgGoals := e.averageGoals(fixture.HomeTeam, fixture.AwayTeam)
		over15, over25 := e.overUnderProbabilities(totalAvgGoals)

		predictions = append(predictions, &PredictionRecord{
			Season:            fixture.Season,
			Matchday:          fixture.Matchday,
			Date:              fixture.Date,
			HomeTeam:          fixture.HomeTeam,
			AwayTeam:          fixture.AwayTeam,
			HomeProbability:   home,
			DrawProbability:   draw,
			AwayProbability:   away,
			TotalAvgGoals:     totalAvgGoals,
			Over15Probability: over15,
			Over25Probability: over25,
		})
	}
	return predictions, nil
}

// weights returns the past-season and current-season blend weights for a
// matchday. Reliance on prior-season data decays linearly over the first
// matchdays of a season and is gone after the cutoff.
func weights(matchday int) (weightPast, weightCurrent float64) {
	switch {
	case matchday == 1:
		return 1.0, 0.0
	case matchday <= Config.BlendCutoffMatchday:
		weightPast = math.Max(0, 1-float64(matchday-1)*Config.BlendDecay)
		return weightPast, 1 - weightPast
	default:
		return 0.0, 1.0
	}
}

// calculateTeamStatistics derives the blended TeamStats for one matchup.
// Beyond the blend cutoff only current-season matches before the requested
// matchday count. Earlier in the season, statistics from the most recent
// season in which both teams played are blended in by the weight schedule.
func (e *PredictionEngine) calculateTeamStatistics(homeTeam, awayTeam string, matchday int) *TeamStats {
	current := tally(e.currentSeasonMatches, homeTeam, awayTeam, matchday)

	if matchday > Config.BlendCutoffMatchday {
		return &TeamStats{
			HomeStrength: current.homeStrength(),
			AwayStrength: current.awayStrength(),
			HomeWins:     current.homeWins,
			AwayWins:     current.awayWins,
		}
	}

	weightPast, weightCurrent := weights(matchday)

	var past seasonTally
	if season := e.lastCommonSeason(homeTeam, awayTeam); season != "" {
		var seasonMatches []*MatchRecord
		for _, match := range e.historicalMatches {
			if match.Season == season {
				seasonMatches = append(seasonMatches, match)
			}
		}
		past = tally(seasonMatches, homeTeam, awayTeam, 0)
	}

	return &TeamStats{
		HomeStrength: weightPast*past.homeStrength() + weightCurrent*current.homeStrength(),
		AwayStrength: weightPast*past.awayStrength() + weightCurrent*current.awayStrength(),
		HomeWins:     weightPast*past.homeWins + weightCurrent*current.homeWins,
		AwayWins:     weightPast*past.awayWins + weightCurrent*current.awayWins,
	}
}

// lastCommonSeason finds the most recent prior season in which both teams
// have at least one match, or "" if none exists
func (e *PredictionEngine) lastCommonSeason(homeTeam, awayTeam string) string {
	homeSeasons := make(map[string]bool)
	awaySeasons := make(map[string]bool)
	for _, match := range e.historicalMatches {
		if match.HomeTeam == homeTeam || match.AwayTeam == homeTeam {
			homeSeasons[match.Season] = true
		}
		if match.HomeTeam == awayTeam || match.AwayTeam == awayTeam {
			awaySeasons[match.Season] = true
		}
	}

	last := ""
	for season := range homeSeasons {
		if awaySeasons[season] && season > last {
			last = season
		}
	}
	return last
}

// winProbabilities turns TeamStats into home/draw/away probabilities.
// The draw probability is bounded to [DrawFloor, DrawCeiling]; whatever
// remains is split by combined strength, and the result is normalized to
// absorb floating point drift.
func (e *PredictionEngine) winProbabilities(stats *TeamStats) (home, draw, away float64) {
	combinedHome := Config.StrengthWeight*stats.HomeStrength + Config.WinsWeight*stats.HomeWins
	combinedAway := Config.StrengthWeight*stats.AwayStrength + Config.WinsWeight*stats.AwayWins
	total := combinedHome + combinedAway

	winRatio := 0.5
	if stats.HomeWins+stats.AwayWins > 0 {
		winRatio = stats.HomeWins / (stats.HomeWins + stats.AwayWins)
	}

	strengthRatio := 0.5
	if total > 0 {
		strengthRatio = combinedHome / total
	}

	drawFactor := math.Max(0, 1-math.Abs(1-strengthRatio)) * (1 - math.Abs(1-winRatio))
	drawAdjustment := drawFactor * Config.DrawScale
	draw = math.Min(Config.DrawCeiling, math.Max(Config.DrawFloor, (drawAdjustment+Config.DrawBase)/100.0))

	remaining := 1.0 - draw
	if total > 0 {
		home = remaining * combinedHome / total
		away = remaining * combinedAway / total
	} else {
		home = remaining / 2
		away = remaining / 2
	}

	// Normalize; the sum is always positive because draw has a floor
	sum := home + draw + away
	return home / sum, draw / sum, away / sum
}

// averageGoals sums the home team's scoring at home and the away team's
// scoring away across every known match, historical and current, with no
// matchday cutoff, and returns the combined per-game average
func (e *PredictionEngine) averageGoals(homeTeam, awayTeam string) float64 {
	all := make([]*MatchRecord, 0, len(e.historicalMatches)+len(e.currentSeasonMatches))
	all = append(all, e.historicalMatches...)
	all = append(all, e.currentSeasonMatches...)

	t := tally(all, homeTeam, awayTeam, 0)
	return t.homeStrength() + t.awayStrength()
}

// overUnderProbabilities maps the combined average goals to over-1.5 and
// over-2.5 probabilities via a fixed step function
func (e *PredictionEngine) overUnderProbabilities(totalAvgGoals float64) (over15, over25 float64) {
	switch {
	case totalAvgGoals <= 1:
		over15 = 0.10
	case totalAvgGoals <= 2:
		over15 = 0.20
	case totalAvgGoals <= 3:
		over15 = 0.50
	case totalAvgGoals <= 4:
		over15 = 0.60
	case totalAvgGoals <= 5:
		over15 = 0.70
	default:
		over15 = 0.95
	}

	over25 = math.Max(0, over15-Config.Over25Offset)
	return over15, over25
}
