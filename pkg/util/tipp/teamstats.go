package tipp

// TeamStats holds the blended strength and win metrics for one matchup.
// Computed fresh for every prediction and discarded afterwards.
// Win counts may be fractional once past and current season data are blended.
type TeamStats struct {
	HomeStrength float64 // weighted average goals scored at home
	AwayStrength float64 // weighted average goals scored away
	HomeWins     float64 // weighted home win count
	AwayWins     float64 // weighted away win count
}

// seasonTally accumulates one team pairing's raw numbers over a set of
// matches: goals and wins for the home side at home, the away side away
type seasonTally struct {
	homeGoals float64
	awayGoals float64
	homeWins  float64
	awayWins  float64
	homeGames int
	awayGames int
}

// tally accumulates over the given matches, counting homeTeam's home
// appearances and awayTeam's away appearances. maxMatchday, when positive,
// restricts to matches strictly before that matchday.
func tally(matches []*MatchRecord, homeTeam, awayTeam string, maxMatchday int) seasonTally {
	var t seasonTally
	for _, match := range matches {
		if maxMatchday > 0 && match.Matchday >= maxMatchday {
			continue
		}
		if match.HomeTeam == homeTeam {
			t.homeGoals += float64(match.HomeGoals)
			if match.HomeWin() {
				t.homeWins++
			}
			t.homeGames++
		}
		if match.AwayTeam == awayTeam {
			t.awayGoals += float64(match.AwayGoals)
			if match.AwayWin() {
				t.awayWins++
			}
			t.awayGames++
		}
	}
	return t
}

// homeStrength is the average goals scored at home, 0 if no games played
func (t seasonTally) homeStrength() float64 {
	if t.homeGames == 0 {
		return 0
	}
	return t.homeGoals / float64(t.homeGames)
}

// awayStrength is the average goals scored away, 0 if no games played
func (t seasonTally) awayStrength() float64 {
	if t.awayGames == 0 {
		return 0
	}
	return t.awayGoals / float64(t.awayGames)
}
