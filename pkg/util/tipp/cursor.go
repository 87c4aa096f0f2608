package tipp

// SeasonCursor tracks the season and matchday labels as a chronologically
// ordered feed is walked. It is a plain value: Advance returns the updated
// cursor rather than mutating shared state, so the rollover logic can be
// tested in isolation.
type SeasonCursor struct {
	Season            string
	Matchday          int
	MatchesInMatchday int
}

// NewSeasonCursor returns a cursor positioned before the first row of a run
func NewSeasonCursor() SeasonCursor {
	return SeasonCursor{Matchday: 1}
}

// Advance moves the cursor over one match belonging to the given season and
// returns the updated cursor. After the call the cursor's Season and Matchday
// are the labels for that match.
//
// A season change always restarts the count: matchday 1, no matches seen.
// Within a season a matchday holds exactly Config.MatchesPerMatchday matches;
// the match that overflows a full matchday becomes the first match of the
// next one.
func (c SeasonCursor) Advance(season string) SeasonCursor {
	if season != c.Season {
		c.Season = season
		c.Matchday = 1
		c.MatchesInMatchday = 0
	}

	if c.MatchesInMatchday < Config.MatchesPerMatchday {
		c.MatchesInMatchday++
	} else {
		c.Matchday++
		c.MatchesInMatchday = 1
	}

	return c
}
