package tipp

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/richard-senior/kicktip/internal/logger"
)

// Store rows are the original feed columns with season and matchday
// prepended, which fixes the team columns at these offsets
const (
	storeHomeTeamCol = 4
	storeAwayTeamCol = 5
)

// MatchRecord is one played match as held in the historical store.
// Records are created by the merger and never mutated afterwards.
type MatchRecord struct {
	Season    string
	Matchday  int
	HomeTeam  string
	AwayTeam  string
	HomeGoals int
	AwayGoals int
}

// HomeWin returns true if the home side won the match
func (m *MatchRecord) HomeWin() bool {
	return m.HomeGoals > m.AwayGoals
}

// AwayWin returns true if the away side won the match
func (m *MatchRecord) AwayWin() bool {
	return m.AwayGoals > m.HomeGoals
}

// Draw returns true if the match was drawn
func (m *MatchRecord) Draw() bool {
	return m.HomeGoals == m.AwayGoals
}

// ParseMatchRecord maps a store row to a MatchRecord. Store rows are the
// original feed columns with season and matchday prepended, which puts the
// teams at columns 4 and 5 and the goals at 6 and 7.
func ParseMatchRecord(cols []string) (*MatchRecord, error) {
	if len(cols) < 8 {
		return nil, fmt.Errorf("store row has %d columns, need 8", len(cols))
	}

	matchday, err := strconv.Atoi(strings.TrimSpace(cols[1]))
	if err != nil {
		return nil, fmt.Errorf("bad matchday %q: %w", cols[1], err)
	}
	homeGoals, err := strconv.Atoi(strings.TrimSpace(cols[6]))
	if err != nil {
		return nil, fmt.Errorf("bad home goals %q: %w", cols[6], err)
	}
	awayGoals, err := strconv.Atoi(strings.TrimSpace(cols[7]))
	if err != nil {
		return nil, fmt.Errorf("bad away goals %q: %w", cols[7], err)
	}

	return &MatchRecord{
		Season:    strings.TrimSpace(cols[0]),
		Matchday:  matchday,
		HomeTeam:  strings.TrimSpace(cols[storeHomeTeamCol]),
		AwayTeam:  strings.TrimSpace(cols[storeAwayTeamCol]),
		HomeGoals: homeGoals,
		AwayGoals: awayGoals,
	}, nil
}

// FixtureRecord is one scheduled future match from the fixtures file.
/// No goals: the match has not been played.
type FixtureRecord struct {
	Season   string
	Matchday int
	Date     string
	HomeTeam string
	AwayTeam string
}

// LoadFixtures reads the fixtures file. Rows that fail to parse are logged
// and skipped; a missing file is an error for the caller to handle.
func LoadFixtures(path string) ([]*FixtureRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixtures file %s: %w", path, err)
	}

	lines := strings.Split(string(data), "\n")
	var fixtures []*FixtureRecord
	for i, line := range lines {
		if i == 0 || strings.TrimSpace(line) == "" {
			continue // header
		}
		cols := strings.Split(line, ",")
		if len(cols) < 6 {
			logger.Warn("Skipping short fixtures row", i+1, line)
			continue
		}
		matchday, err := strconv.Atoi(strings.TrimSpace(cols[1]))
		if err != nil {
			logger.Warn("Skipping fixtures row with bad matchday", i+1, line)
			continue
		}
		fixtures = append(fixtures, &FixtureRecord{
			Season:   strings.TrimSpace(cols[0]),
			Matchday: matchday,
			Date:     strings.TrimSpace(cols[2]),
			HomeTeam: strings.TrimSpace(cols[4]),
			AwayTeam: strings.TrimSpace(cols[5]),
		})
	}
	return fixtures, nil
}
