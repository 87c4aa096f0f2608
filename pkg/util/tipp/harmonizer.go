package tipp

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"github.com/richard-senior/kicktip/internal/logger"
	"github.com/richard-senior/kicktip/pkg/util"
)

// TeamNameHarmonizer rewrites the team name columns of the historical store
// so they match the official names found in the fixtures file. The feed and
// the fixtures spell several clubs differently and statistics lookups need
// one spelling throughout.
type TeamNameHarmonizer struct {
	Store        *MatchStore
	FixturesPath string
}

// NewTeamNameHarmonizer returns a harmonizer over the given store and
// fixtures file
func NewTeamNameHarmonizer(store *MatchStore, fixturesPath string) *TeamNameHarmonizer {
	return &TeamNameHarmonizer{
		Store:        store,
		FixturesPath: fixturesPath,
	}
}

// Harmonize replaces every team name in the store with its best official
// match and rewrites the store in place. Names with no close enough official
// counterpart are left as they are.
func (h *TeamNameHarmonizer) Harmonize() error {
	official, err := h.officialTeams()
	if err != nil {
		return err
	}
	if len(official) == 0 {
		return fmt.Errorf("no official team names in %s", h.FixturesPath)
	}

	data, err := os.ReadFile(h.Store.Path)
	if err != nil {
		return fmt.Errorf("failed to read store: %w", err)
	}

	reader := csv.NewReader(strings.NewReader(string(data)))
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return fmt.Errorf("failed to parse store: %w", err)
	}
	if len(records) < 1 {
		return fmt.Errorf("store is empty")
	}

	changed := 0
	lines := make([]string, 0, len(records)-1)
	for _, record := range records[1:] {
		if len(record) > storeAwayTeamCol {
			home := findBestMatch(record[storeHomeTeamCol], official)
			away := findBestMatch(record[storeAwayTeamCol], official)
			if home != record[storeHomeTeamCol] || away != record[storeAwayTeamCol] {
				changed++
			}
			record[storeHomeTeamCol] = home
			record[storeAwayTeamCol] = away
		}
		lines = append(lines, strings.Join(record, ","))
	}

	if err := h.Store.Rewrite(strings.Join(records[0], ","), lines); err != nil {
		return err
	}

	logger.Info("Harmonized team names:", changed, "rows changed")
	return nil
}

// officialTeams collects the distinct team names of the fixtures file
func (h *TeamNameHarmonizer) officialTeams() (map[string]bool, error) {
	fixtures, err := LoadFixtures(h.FixturesPath)
	if err != nil {
		return nil, err
	}

	official := make(map[string]bool)
	for _, fixture := range fixtures {
		official[fixture.HomeTeam] = true
		official[fixture.AwayTeam] = true
	}
	return official, nil
}

// findBestMatch returns the official name closest to teamName, or teamName
// itself when nothing is similar enough. "FC Koln" is matched verbatim only
// because its nearest neighbours are other Koln spellings of different clubs.
func findBestMatch(teamName string, official map[string]bool) string {
	if teamName == "FC Koln" {
		return teamName
	}

	bestMatch := teamName
	bestScore := int(^uint(0) >> 1)

	for choice := range official {
		score := util.LevenshteinDistance(teamName, choice)
		maxLen := len(teamName)
		if len(choice) > maxLen {
			maxLen = len(choice)
		}
		if maxLen == 0 {
			continue
		}
		if score < bestScore && score*100/maxLen < (100-Config.HarmonizerThreshold) {
			bestScore = score
			bestMatch = choice
		}
	}

	return bestMatch
}
