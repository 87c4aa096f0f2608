package tipp

import (
	"fmt"
	"time"

	"github.com/richard-senior/kicktip/pkg/util"
)

// SeasonForDate derives the season label for a match date.
// A competition year runs August to July, so any match from the configured
// start month onwards belongs to the season starting that calendar year.
func SeasonForDate(date time.Time) string {
	year := date.Year()
	if int(date.Month()) >= Config.SeasonStartMonth {
		return fmt.Sprintf("%d/%d", year, year+1)
	}
	return fmt.Sprintf("%d/%d", year-1, year)
}

// ParseSeason normalizes the various season spellings seen in feed data
// to the canonical form YYYY/YYYY+1
func ParseSeason(season any) (string, error) {
	ss, err := util.GetAsString(season)
	if err != nil {
		return "", err
	}
	// full form, delimiter may be a slash or a hyphen
	if len(ss) == 9 && ss[4] == '-' {
		return fmt.Sprintf("%s/%s", ss[:4], ss[5:]), nil
	} else if len(ss) == 9 && ss[4] == '/' {
		return ss, nil
	}
	// short form of the type 2023/24 (again delimiter may be a hyphen)
	if len(ss) == 7 && (ss[4] == '-' || ss[4] == '/') {
		return fmt.Sprintf("%s/20%s", ss[:4], ss[5:]), nil
	}
	// native feed form of the type 2324 meaning 2023/2024
	if len(ss) == 4 {
		return fmt.Sprintf("20%s/20%s", ss[:2], ss[2:]), nil
	}
	return "", fmt.Errorf("invalid season format: %s", ss)
}

// SeasonToNative converts a season label from "2024/2025" to the feed's
// short form "2425"
func SeasonToNative(season string) string {
	if len(season) != 9 {
		return season
	}
	return season[2:4] + season[7:9]
}

// GetFirstYear returns the first year of a season of the form yyyy/yyyy+1
func GetFirstYear(season any) (int, error) {
	s, err := ParseSeason(season)
	if err != nil {
		return 0, err
	}
	return util.GetAsInteger(s[:4])
}

// IsSameSeason returns true if the given two parameters represent the same
// season (year/year+1)
func IsSameSeason(s1 any, s2 any) (bool, error) {
	season1, err := ParseSeason(s1)
	if err != nil {
		return false, err
	}
	season2, err := ParseSeason(s2)
	if err != nil {
		return false, err
	}
	return season1 == season2, nil
}

// IsCurrentSeason returns true if the given season is the one currently
// being played
func IsCurrentSeason(season string) bool {
	same, err := IsSameSeason(season, Config.CurrentSeason)
	if err != nil {
		return false
	}
	return same
}
