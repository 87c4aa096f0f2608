package tipp

import (
	"fmt"
)

// PredictionRecord is one forecast for one fixture. Records are archived to
// sqlite keyed by season, matchday and pairing, so re-predicting a matchday
// overwrites the earlier forecast rather than duplicating it.
type PredictionRecord struct {
	Season            string  `column:"season" dbtype:"TEXT NOT NULL" primary:"true" index:"true"`
	Matchday          int     `column:"matchday" dbtype:"INTEGER NOT NULL" primary:"true" index:"true"`
	HomeTeam          string  `column:"home_team" dbtype:"TEXT NOT NULL" primary:"true"`
	AwayTeam          string  `column:"away_team" dbtype:"TEXT NOT NULL" primary:"true"`
	Date              string  `column:"match_date" dbtype:"TEXT"`
	HomeProbability   float64 `column:"home_probability" dbtype:"REAL NOT NULL DEFAULT 0"`
	DrawProbability   float64 `column:"draw_probability" dbtype:"REAL NOT NULL DEFAULT 0"`
	AwayProbability   float64 `column:"away_probability" dbtype:"REAL NOT NULL DEFAULT 0"`
	TotalAvgGoals     float64 `column:"total_avg_goals" dbtype:"REAL NOT NULL DEFAULT 0"`
	Over15Probability float64 `column:"over15_probability" dbtype:"REAL NOT NULL DEFAULT 0"`
	Over25Probability float64 `column:"over25_probability" dbtype:"REAL NOT NULL DEFAULT 0"`
}

// GetTableName returns the database table name for predictions
func (p *PredictionRecord) GetTableName() string {
	return "predictions"
}

// GetPrimaryKey returns the primary key for database operations
func (p *PredictionRecord) GetPrimaryKey() map[string]interface{} {
	return map[string]interface{}{
		"season":    p.Season,
		"matchday":  p.Matchday,
		"home_team": p.HomeTeam,
		"away_team": p.AwayTeam,
	}
}

// BeforeSave validates the record before persistence
func (p *PredictionRecord) BeforeSave() error {
	if p.HomeTeam == "" || p.AwayTeam == "" {
		return fmt.Errorf("prediction is missing a team name")
	}
	if p.Matchday < 1 {
		return fmt.Errorf("prediction has invalid matchday %d", p.Matchday)
	}
	return nil
}

// Likely returns the most probable outcome as "1", "X" or "2"
func (p *PredictionRecord) Likely() string {
	if p.HomeProbability >= p.DrawProbability && p.HomeProbability >= p.AwayProbability {
		return "1"
	}
	if p.AwayProbability >= p.DrawProbability {
		return "2"
	}
	return "X"
}

// String renders the prediction as a single display line
func (p *PredictionRecord) String() string {
	return fmt.Sprintf("%s vs %s: 1 %.0f%% X %.0f%% 2 %.0f%% (tip %s, o2.5 %.0f%%)",
		p.HomeTeam, p.AwayTeam,
		p.HomeProbability*100, p.DrawProbability*100, p.AwayProbability*100,
		p.Likely(), p.Over25Probability*100)
}
