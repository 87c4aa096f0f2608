package tipp

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"github.com/richard-senior/kicktip/internal/logger"
	"github.com/richard-senior/kicktip/pkg/transport"
)

// FeedDatasource fetches season result files from the public feed and keeps
// a per-season cache on disk. Past seasons never change, so their cache
// files are kept forever. The current season is always refetched.
type FeedDatasource struct {
	BaseURL    string
	IndexURL   string
	LeagueCode string
}

var (
	datasourceInstance *FeedDatasource
	datasourceOnce     sync.Once
)

// GetDatasourceInstance returns the singleton instance of FeedDatasource
func GetDatasourceInstance() *FeedDatasource {
	datasourceOnce.Do(func() {
		datasourceInstance = &FeedDatasource{
			BaseURL:    Config.FeedBaseURL,
			IndexURL:   Config.IndexURL,
			LeagueCode: Config.LeagueCode,
		}
	})
	return datasourceInstance
}

// seasonURL builds the download URL for one season, for example
// mmz4281/2425/D1.csv for 2024/2025
func (d *FeedDatasource) seasonURL(season string) string {
	return fmt.Sprintf("%s%s/%s.csv", d.BaseURL, SeasonToNative(season), d.LeagueCode)
}

// cachePath is the on-disk cache location for one season's feed file
func (d *FeedDatasource) cachePath(season string) string {
	safeSeason := strings.ReplaceAll(season, "/", "-")
	return fmt.Sprintf("%sfeed-%s-%s.csv", Config.TippCachePath, safeSeason, d.LeagueCode)
}

// FetchSeason returns the raw CSV for a season, from cache when the season
// is over, always from the network for the season in progress
func (d *FeedDatasource) FetchSeason(season string) (string, error) {
	if err := os.MkdirAll(Config.TippCachePath, 0755); err != nil {
		return "", fmt.Errorf("failed to create cache directory: %w", err)
	}

	cacheFilename := d.cachePath(season)
	if !IsCurrentSeason(season) {
		if cacheData, err := os.ReadFile(cacheFilename); err == nil {
			logger.Info("Loaded feed from cache:", cacheFilename)
			return string(cacheData), nil
		}
		logger.Warn("Season not in cache:", season)
	}

	url := d.seasonURL(season)
	logger.Info("Fetching feed:", url)
	body, err := transport.Get(url)
	if err != nil {
		return "", fmt.Errorf("error fetching feed for %s: %w", season, err)
	}

	if err := os.WriteFile(cacheFilename, body, 0644); err != nil {
		logger.Warn("Failed to cache feed file", cacheFilename, err)
	}

	return string(body), nil
}

var seasonLinkPattern = regexp.MustCompile(`mmz4281/(\d{4})/([A-Z]\d)\.csv$`)

// DiscoverSeasons scrapes the feed index page and returns the native season
// codes for which a file of our league exists, newest first as listed
func (d *FeedDatasource) DiscoverSeasons() ([]string, error) {
	body, err := transport.Get(d.IndexURL)
	if err != nil {
		return nil, fmt.Errorf("error fetching feed index: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(body)))
	if err != nil {
		return nil, fmt.Errorf("error parsing feed index: %w", err)
	}

	var seasons []string
	seen := make(map[string]bool)
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		m := seasonLinkPattern.FindStringSubmatch(href)
		if m == nil || m[2] != d.LeagueCode {
			return
		}
		if !seen[m[1]] {
			seen[m[1]] = true
			seasons = append(seasons, m[1])
		}
	})

	if len(seasons) == 0 {
		return nil, fmt.Errorf("no %s season files found on index page", d.LeagueCode)
	}

	logger.Info("Discovered", len(seasons), "seasons on feed index")
	return seasons, nil
}
