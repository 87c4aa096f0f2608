package tipp

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func storeLine(season string, matchday int, home, away string, hg, ag int) string {
	return fmt.Sprintf("%s,%d,D1,15/08/2025,%s,%s,%d,%d", season, matchday, home, away, hg, ag)
}

func writeStore(t *testing.T, lines []string) *MatchStore {
	t.Helper()
	store := NewMatchStore(filepath.Join(t.TempDir(), "store.csv"))
	require.NoError(t, store.Append("Div,Date,HomeTeam,AwayTeam,FTHG,FTAG", lines))
	return store
}

func writeFixtures(t *testing.T, rows []string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "gameplan.csv")
	content := "Season,Gameday,Date,Time,HomeTeam,AwayTeam\n" + strings.Join(rows, "\n") + "\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func fixtureLine(season string, matchday int, home, away string) string {
	return fmt.Sprintf("%s,%d,21/02/2026,15:30,%s,%s", season, matchday, home, away)
}

func TestWeights(t *testing.T) {
	cases := []struct {
		matchday   int
		past, curr float64
	}{
		{1, 1.0, 0.0},
		{2, 0.8, 0.2},
		{3, 0.6, 0.4},
		{4, 0.4, 0.6},
		{5, 0.2, 0.8},
		{6, 0.0, 1.0},
		{7, 0.0, 1.0},
		{30, 0.0, 1.0},
	}
	for _, c := range cases {
		past, curr := weights(c.matchday)
		assert.InDelta(t, c.past, past, 1e-9, "past weight for matchday %d", c.matchday)
		assert.InDelta(t, c.curr, curr, 1e-9, "current weight for matchday %d", c.matchday)
	}
}

func TestOverUnderProbabilities(t *testing.T) {
	e := &PredictionEngine{}
	cases := []struct {
		avg    float64
		over15 float64
		over25 float64
	}{
		{0.8, 0.10, 0.00},
		{1.5, 0.20, 0.10},
		{2.5, 0.50, 0.40},
		{3.5, 0.60, 0.50},
		{4.5, 0.70, 0.60},
		{6.0, 0.95, 0.85},
	}
	for _, c := range cases {
		over15, over25 := e.overUnderProbabilities(c.avg)
		assert.InDelta(t, c.over15, over15, 1e-9, "over 1.5 for avg %.1f", c.avg)
		assert.InDelta(t, c.over25, over25, 1e-9, "over 2.5 for avg %.1f", c.avg)
	}
}

func TestWinProbabilitiesNeutralWithoutData(t *testing.T) {
	e := &PredictionEngine{}
	home, draw, away := e.winProbabilities(&TeamStats{})

	assert.InDelta(t, 0.30, draw, 1e-9)
	assert.InDelta(t, 0.35, home, 1e-9)
	assert.InDelta(t, 0.35, away, 1e-9)
	assert.InDelta(t, 1.0, home+draw+away, 1e-9)
}

func TestWinProbabilitiesDrawBounds(t *testing.T) {
	e := &PredictionEngine{}

	// a home side winning everything pushes the draw factor to its maximum,
	// which clamps at the ceiling
	home, draw, away := e.winProbabilities(&TeamStats{HomeStrength: 5, HomeWins: 10})
	assert.InDelta(t, Config.DrawCeiling, draw, 1e-9)
	assert.Greater(t, home, away)
	assert.InDelta(t, 1.0, home+draw+away, 1e-9)

	// evenly matched teams land between the bounds
	_, draw, _ = e.winProbabilities(&TeamStats{HomeStrength: 2, AwayStrength: 2, HomeWins: 3, AwayWins: 3})
	assert.InDelta(t, 0.30, draw, 1e-9)
	assert.GreaterOrEqual(t, draw, Config.DrawFloor)
	assert.LessOrEqual(t, draw, Config.DrawCeiling)
}

func TestCalculateTeamStatisticsCurrentSeasonOnly(t *testing.T) {
	store := writeStore(t, []string{
		storeLine("2025/2026", 1, "Team A", "Team X", 2, 0),
		storeLine("2025/2026", 2, "Team A", "Team Y", 4, 1),
		storeLine("2025/2026", 1, "Team Y", "Team B", 2, 1),
		storeLine("2025/2026", 2, "Team X", "Team B", 3, 1),
		// matchday 7 has not happened from the prediction's point of view
		storeLine("2025/2026", 7, "Team A", "Team Z", 9, 0),
	})
	fixtures := writeFixtures(t, []string{
		fixtureLine("2025/2026", 7, "Team A", "Team B"),
	})

	e := NewPredictionEngine(store, fixtures)
	e.Reload()

	stats := e.calculateTeamStatistics("Team A", "Team B", 7)
	assert.InDelta(t, 3.0, stats.HomeStrength, 1e-9)
	assert.InDelta(t, 2.0, stats.HomeWins, 1e-9)
	assert.InDelta(t, 1.0, stats.AwayStrength, 1e-9)
	assert.InDelta(t, 0.0, stats.AwayWins, 1e-9)
}

func TestCalculateTeamStatisticsUsesLastCommonSeason(t *testing.T) {
	store := writeStore(t, []string{
		// older common season, must be ignored in favour of the newer one
		storeLine("2023/2024", 1, "Team A", "Team W", 9, 0),
		storeLine("2023/2024", 1, "Team W", "Team B", 0, 9),
		// last common season
		storeLine("2024/2025", 1, "Team A", "Team W", 2, 0),
		storeLine("2024/2025", 1, "Team W", "Team B", 1, 3),
	})
	fixtures := writeFixtures(t, []string{
		fixtureLine("2025/2026", 1, "Team A", "Team B"),
	})

	e := NewPredictionEngine(store, fixtures)
	e.Reload()

	assert.Equal(t, "2024/2025", e.lastCommonSeason("Team A", "Team B"))

	// matchday 1 leans entirely on the past season
	stats := e.calculateTeamStatistics("Team A", "Team B", 1)
	assert.InDelta(t, 2.0, stats.HomeStrength, 1e-9)
	assert.InDelta(t, 1.0, stats.HomeWins, 1e-9)
	assert.InDelta(t, 3.0, stats.AwayStrength, 1e-9)
	assert.InDelta(t, 1.0, stats.AwayWins, 1e-9)
}

func TestCalculateTeamStatisticsBlends(t *testing.T) {
	store := writeStore(t, []string{
		storeLine("2024/2025", 1, "Team A", "Team W", 2, 0),
		storeLine("2024/2025", 1, "Team W", "Team B", 1, 3),
		storeLine("2025/2026", 1, "Team A", "Team X", 1, 0),
		storeLine("2025/2026", 1, "Team X", "Team B", 1, 2),
	})
	fixtures := writeFixtures(t, []string{
		fixtureLine("2025/2026", 2, "Team A", "Team B"),
	})

	e := NewPredictionEngine(store, fixtures)
	e.Reload()

	// matchday 2 blends 0.8 past with 0.2 current
	stats := e.calculateTeamStatistics("Team A", "Team B", 2)
	assert.InDelta(t, 0.8*2.0+0.2*1.0, stats.HomeStrength, 1e-9)
	assert.InDelta(t, 0.8*1.0+0.2*1.0, stats.HomeWins, 1e-9)
	assert.InDelta(t, 0.8*3.0+0.2*2.0, stats.AwayStrength, 1e-9)
	assert.InDelta(t, 0.8*1.0+0.2*1.0, stats.AwayWins, 1e-9)
}

func TestCalculatePredictions(t *testing.T) {
	store := writeStore(t, []string{
		storeLine("2025/2026", 1, "Team A", "Team X", 2, 0),
		storeLine("2025/2026", 2, "Team A", "Team Y", 4, 1),
		storeLine("2025/2026", 1, "Team Y", "Team B", 2, 1),
		storeLine("2025/2026", 2, "Team X", "Team B", 3, 1),
		storeLine("2025/2026", 7, "Team A", "Team Z", 9, 0),
	})
	fixtures := writeFixtures(t, []string{
		fixtureLine("2025/2026", 7, "Team A", "Team B"),
		fixtureLine("2025/2026", 8, "Team A", "Team X"),
	})

	e := NewPredictionEngine(store, fixtures)
	e.Reload()
	assert.Equal(t, "2025/2026", e.CurrentSeason())

	predictions, err := e.CalculatePredictions(7)
	require.NoError(t, err)
	require.Len(t, predictions, 1, "only the requested matchday is predicted")

	p := predictions[0]
	assert.Equal(t, "Team A", p.HomeTeam)
	assert.Equal(t, "Team B", p.AwayTeam)

	// combinedHome 2.3 vs combinedAway 0.3, draw capped at the ceiling
	assert.InDelta(t, 0.4, p.DrawProbability, 1e-9)
	assert.InDelta(t, 0.6*2.3/2.6, p.HomeProbability, 1e-9)
	assert.InDelta(t, 0.6*0.3/2.6, p.AwayProbability, 1e-9)
	assert.InDelta(t, 1.0, p.HomeProbability+p.DrawProbability+p.AwayProbability, 1e-9)

	// goal average counts every match, the matchday 7 rout included
	assert.InDelta(t, 6.0, p.TotalAvgGoals, 1e-9)
	assert.InDelta(t, 0.95, p.Over15Probability, 1e-9)
	assert.InDelta(t, 0.85, p.Over25Probability, 1e-9)

	assert.Equal(t, "1", p.Likely())
}

func TestAvailableMatchdays(t *testing.T) {
	store := writeStore(t, []string{
		storeLine("2025/2026", 1, "Team A", "Team B", 1, 0),
		storeLine("2025/2026", 2, "Team B", "Team A", 0, 0),
	})
	fixtures := writeFixtures(t, []string{
		fixtureLine("2025/2026", 1, "Team A", "Team B"),
		fixtureLine("2025/2026", 2, "Team B", "Team A"),
		fixtureLine("2025/2026", 3, "Team A", "Team B"),
		fixtureLine("2025/2026", 4, "Team B", "Team A"),
		fixtureLine("2024/2025", 9, "Team A", "Team B"),
	})

	e := NewPredictionEngine(store, fixtures)
	e.Reload()

	matchdays, err := e.AvailableMatchdays()
	require.NoError(t, err)
	assert.Equal(t, []int{3, 4}, matchdays)
}

func TestCurrentSeasonFallsBackWithoutFixtures(t *testing.T) {
	store := writeStore(t, []string{
		storeLine("2024/2025", 1, "Team A", "Team B", 1, 0),
	})

	e := NewPredictionEngine(store, filepath.Join(t.TempDir(), "missing.csv"))
	e.Reload()
	assert.Equal(t, Config.FallbackSeason, e.CurrentSeason())
}
