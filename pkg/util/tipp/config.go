package tipp

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// TippConfig contains all configurable parameters that influence labeling and
// prediction outcomes. This centralizes all magic numbers and constants for
// easy adjustment.
type TippConfig struct {
	// Paths
	TippAssetsPath string `yaml:"assetsPath"`   // The base directory of kicktip assets
	TippCachePath  string `yaml:"cachePath"`    // Where downloaded feed data is cached
	TippDbPath     string `yaml:"dbPath"`       // The sqlite database holding archived predictions
	StorePath      string `yaml:"storePath"`    // The historical match store (CSV, append-only)
	FixturesPath   string `yaml:"fixturesPath"` // The fixtures file for the current season

	// Feed
	FeedBaseURL string `yaml:"feedBaseURL"` // Base URL for season CSV downloads
	IndexURL    string `yaml:"indexURL"`    // League download index page, scraped for season links
	LeagueCode  string `yaml:"leagueCode"`  // Native league code within the feed (e.g. "D1")

	// === SEASON / MATCHDAY LABELING ===

	MatchesPerMatchday int `yaml:"matchesPerMatchday"` // A full round for an 18-team league (default: 9)
	SeasonStartMonth   int `yaml:"seasonStartMonth"`   // Month in which a new season begins (default: 8, August)

	// === PREDICTION BLENDING ===

	// Over the first matchdays of a season predictions lean on the last common
	// past season, decaying linearly until only current-season data is used
	BlendCutoffMatchday int     `yaml:"blendCutoffMatchday"` // Last matchday that blends past data (default: 6)
	BlendDecay          float64 `yaml:"blendDecay"`          // Past-weight reduction per matchday (default: 0.2)

	// Strength vs wins weighting within the combined score
	StrengthWeight float64 `yaml:"strengthWeight"` // Weight of average goals scored (default: 0.3)
	WinsWeight     float64 `yaml:"winsWeight"`     // Weight of win counts (default: 0.7)

	// === DRAW PROBABILITY ===

	DrawBase    float64 `yaml:"drawBase"`    // Base draw percentage before adjustment (default: 25)
	DrawScale   float64 `yaml:"drawScale"`   // Scale applied to the draw factor (default: 20)
	DrawFloor   float64 `yaml:"drawFloor"`   // Minimum draw probability (default: 0.1)
	DrawCeiling float64 `yaml:"drawCeiling"` // Maximum draw probability (default: 0.4)

	// === OVER/UNDER GOALS ===

	Over25Offset float64 `yaml:"over25Offset"` // over-2.5 is over-1.5 minus this, floored at 0 (default: 0.10)

	// === SEASONS ===

	CurrentSeason  string   `yaml:"currentSeason"`  // The season currently being played
	FallbackSeason string   `yaml:"fallbackSeason"` // Used when the fixtures file yields no season
	Seasons        []string `yaml:"seasons"`        // Seasons ingested by the historical bootstrap

	// === TEAM NAME HARMONIZATION ===

	HarmonizerThreshold int `yaml:"harmonizerThreshold"` // Similarity threshold percentage (default: 60)
}

// DefaultTippConfig returns the default configuration with all standard values
func DefaultTippConfig() *TippConfig {
	assetsPath := os.Getenv("HOME") + "/.kicktip/"
	config := &TippConfig{
		TippAssetsPath: assetsPath,
		TippCachePath:  assetsPath + "cache/",
		TippDbPath:     assetsPath + "kicktip.db",
		StorePath:      assetsPath + "bundesliga.csv",
		FixturesPath:   assetsPath + "gameplan.csv",

		FeedBaseURL: "https://www.football-data.co.uk/mmz4281/",
		IndexURL:    "https://www.football-data.co.uk/germanym.php",
		LeagueCode:  "D1",

		MatchesPerMatchday: 9,
		SeasonStartMonth:   8,

		BlendCutoffMatchday: 6,
		BlendDecay:          0.2,

		StrengthWeight: 0.3,
		WinsWeight:     0.7,

		DrawBase:    25.0,
		DrawScale:   20.0,
		DrawFloor:   0.1,
		DrawCeiling: 0.4,

		Over25Offset: 0.10,

		CurrentSeason:  "2025/2026",
		FallbackSeason: "2024/2025",
		Seasons: []string{
			"2015/2016", "2016/2017", "2017/2018", "2018/2019", "2019/2020",
			"2020/2021", "2021/2022", "2022/2023", "2023/2024", "2024/2025",
		},

		HarmonizerThreshold: 60,
	}
	return config
}

// Global configuration instance
var Config *TippConfig

// init initializes the global configuration with default values
func init() {
	Config = DefaultTippConfig()
}

// UpdateConfig allows updating the global configuration
func UpdateConfig(newConfig *TippConfig) {
	Config = newConfig
}

// LoadConfig reads a yaml configuration file over the defaults and installs
// the result as the global configuration
func LoadConfig(path string) (*TippConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	config := DefaultTippConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if err := ValidateConfig(config); err != nil {
		return nil, err
	}

	Config = config
	return config, nil
}

// ValidateConfig ensures all configuration values are within reasonable ranges
func ValidateConfig(config *TippConfig) error {
	if config.MatchesPerMatchday < 1 {
		return fmt.Errorf("MatchesPerMatchday must be positive, got: %d", config.MatchesPerMatchday)
	}

	if config.SeasonStartMonth < 1 || config.SeasonStartMonth > 12 {
		return fmt.Errorf("SeasonStartMonth must be a month number, got: %d", config.SeasonStartMonth)
	}

	if config.StrengthWeight < 0.0 || config.StrengthWeight > 1.0 {
		return fmt.Errorf("StrengthWeight must be between 0.0 and 1.0, got: %f", config.StrengthWeight)
	}

	if config.DrawFloor < 0.0 || config.DrawCeiling > 1.0 || config.DrawFloor > config.DrawCeiling {
		return fmt.Errorf("draw bounds invalid: floor %f ceiling %f", config.DrawFloor, config.DrawCeiling)
	}

	if config.BlendDecay <= 0.0 || config.BlendDecay > 1.0 {
		return fmt.Errorf("BlendDecay must be in (0.0, 1.0], got: %f", config.BlendDecay)
	}

	return nil
}

// === HELPER FUNCTIONS FOR EASY ACCESS ===

// GetCurrentSeason returns the season currently being played
func GetCurrentSeason() string {
	return Config.CurrentSeason
}

// SetCurrentSeason updates the current season
func SetCurrentSeason(season string) {
	Config.CurrentSeason = season
}

// GetMatchesPerMatchday returns the number of matches in one full round
func GetMatchesPerMatchday() int {
	return Config.MatchesPerMatchday
}
