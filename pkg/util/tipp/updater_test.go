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

// stubFeed serves canned CSV per season, standing in for the HTTP datasource
type stubFeed struct {
	data  map[string]string
	err   error
	calls int
}

func (s *stubFeed) FetchSeason(season string) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	return s.data[season], nil
}

// feedCSV builds a feed file with the given number of complete matchdays,
// every match dated the same day
func feedCSV(date string, matchdays int) string {
	var b strings.Builder
	b.WriteString("Div,Date,HomeTeam,AwayTeam,FTHG,FTAG\n")
	for md := 1; md <= matchdays; md++ {
		for i := 1; i <= Config.MatchesPerMatchday; i++ {
			fmt.Fprintf(&b, "D1,%s,Home %d-%d,Away %d-%d,2,1\n", date, md, i, md, i)
		}
	}
	return b.String()
}

func tempStore(t *testing.T) *MatchStore {
	t.Helper()
	return NewMatchStore(filepath.Join(t.TempDir(), "store.csv"))
}

func TestUpdateCreatesStoreWithHeader(t *testing.T) {
	store := tempStore(t)
	source := &stubFeed{data: map[string]string{
		Config.CurrentSeason: feedCSV("15/08/2025", 1),
	}}

	run, err := NewDatasetUpdater(store, source).Update()
	require.NoError(t, err)

	assert.True(t, run.Success)
	assert.Equal(t, Config.MatchesPerMatchday, run.RowsFetched)
	assert.Equal(t, Config.MatchesPerMatchday, run.RowsAppended)
	assert.Equal(t, 0, run.RowsSkipped)

	content, err := os.ReadFile(store.Path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(string(content), "\n"), "\n")
	assert.Equal(t, "Season,Gameday,Div,Date,HomeTeam,AwayTeam,FTHG,FTAG", lines[0])
	assert.Len(t, lines, Config.MatchesPerMatchday+1)
	assert.True(t, strings.HasPrefix(lines[1], "2025/2026,1,D1,15/08/2025,"))
}

func TestUpdateIsIdempotent(t *testing.T) {
	store := tempStore(t)
	source := &stubFeed{data: map[string]string{
		Config.CurrentSeason: feedCSV("15/08/2025", 1),
	}}
	updater := NewDatasetUpdater(store, source)

	_, err := updater.Update()
	require.NoError(t, err)
	before, err := os.ReadFile(store.Path)
	require.NoError(t, err)

	run, err := updater.Update()
	require.NoError(t, err)
	assert.Equal(t, 0, run.RowsAppended)
	assert.Equal(t, Config.MatchesPerMatchday, run.RowsSkipped)

	after, err := os.ReadFile(store.Path)
	require.NoError(t, err)
	assert.Equal(t, string(before), string(after), "a repeated run must not change the store")
}

func TestUpdateAppendsOnlyNewMatchdays(t *testing.T) {
	store := tempStore(t)
	source := &stubFeed{data: map[string]string{
		Config.CurrentSeason: feedCSV("15/08/2025", 1),
	}}
	updater := NewDatasetUpdater(store, source)

	_, err := updater.Update()
	require.NoError(t, err)

	// the next weekly feed carries the same file plus one more matchday
	source.data[Config.CurrentSeason] = feedCSV("15/08/2025", 2)

	run, err := updater.Update()
	require.NoError(t, err)
	assert.Equal(t, Config.MatchesPerMatchday, run.RowsAppended)
	assert.Equal(t, Config.MatchesPerMatchday, run.RowsSkipped)

	existing, err := store.MaxMatchdays()
	require.NoError(t, err)
	assert.Equal(t, 2, existing["2025/2026"])
}

func TestUpdateFetchFailureLeavesStoreUntouched(t *testing.T) {
	store := tempStore(t)
	source := &stubFeed{data: map[string]string{
		Config.CurrentSeason: feedCSV("15/08/2025", 1),
	}}
	updater := NewDatasetUpdater(store, source)

	_, err := updater.Update()
	require.NoError(t, err)
	before, err := os.ReadFile(store.Path)
	require.NoError(t, err)

	source.err = fmt.Errorf("connection refused")
	run, err := updater.Update()
	assert.Error(t, err)
	assert.False(t, run.Success)
	assert.NotEmpty(t, run.Error)

	after, err := os.ReadFile(store.Path)
	require.NoError(t, err)
	assert.Equal(t, string(before), string(after))
}

func TestUpdateFetchFailureCreatesNoStore(t *testing.T) {
	store := tempStore(t)
	source := &stubFeed{err: fmt.Errorf("connection refused")}

	run, err := NewDatasetUpdater(store, source).Update()
	assert.Error(t, err)
	assert.False(t, run.Success)
	assert.False(t, store.Exists())
}

func TestBootstrapThreadsOneCursorAcrossSeasons(t *testing.T) {
	store := tempStore(t)
	source := &stubFeed{data: map[string]string{
		"2024/2025": feedCSV("15/08/2024", 2),
		"2025/2026": feedCSV("15/08/2025", 1),
	}}

	err := NewDatasetUpdater(store, source).Bootstrap([]string{"2024/2025", "2025/2026"})
	require.NoError(t, err)

	existing, err := store.MaxMatchdays()
	require.NoError(t, err)
	assert.Equal(t, 2, existing["2024/2025"])
	assert.Equal(t, 1, existing["2025/2026"])

	content, err := os.ReadFile(store.Path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(string(content), "\n"), "\n")
	assert.Len(t, lines, 3*Config.MatchesPerMatchday+1, "exactly one header for all seasons")
}

func TestBootstrapReplacesExistingStore(t *testing.T) {
	store := tempStore(t)
	require.NoError(t, store.Append("Div,Date,HomeTeam,AwayTeam,FTHG,FTAG",
		[]string{"2015/2016,1,D1,15/08/2015,Old Home,Old Away,0,0"}))

	source := &stubFeed{data: map[string]string{
		"2025/2026": feedCSV("15/08/2025", 1),
	}}
	err := NewDatasetUpdater(store, source).Bootstrap([]string{"2025/2026"})
	require.NoError(t, err)

	content, err := os.ReadFile(store.Path)
	require.NoError(t, err)
	assert.NotContains(t, string(content), "Old Home")
}
