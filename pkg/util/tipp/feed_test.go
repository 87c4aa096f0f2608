package tipp

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFeedStripsTimeColumn(t *testing.T) {
	csvData := "Div,Date,Time,HomeTeam,AwayTeam,FTHG,FTAG\n" +
		"D1,15/08/2025,20:30,Bayern Munich,RB Leipzig,6,0\n"

	header, rows, err := ParseFeed(csvData)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	assert.Equal(t, "Div,Date,HomeTeam,AwayTeam,FTHG,FTAG", header)

	row := rows[0]
	assert.Equal(t, "D1", row.Division)
	assert.Equal(t, time.Date(2025, 8, 15, 0, 0, 0, 0, time.UTC), row.Date)
	assert.Equal(t, "Bayern Munich", row.HomeTeam)
	assert.Equal(t, "RB Leipzig", row.AwayTeam)
	assert.Equal(t, 6, row.HomeGoals)
	assert.Equal(t, 0, row.AwayGoals)
	assert.Len(t, row.Columns, 6, "time column must be gone from the carried columns")
}

func TestParseFeedWithoutTimeColumn(t *testing.T) {
	csvData := "Div,Date,HomeTeam,AwayTeam,FTHG,FTAG\n" +
		"D1,16/08/2025,Werder Bremen,FC Koln,2,1\n"

	header, rows, err := ParseFeed(csvData)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Div,Date,HomeTeam,AwayTeam,FTHG,FTAG", header)
	assert.Equal(t, "Werder Bremen", rows[0].HomeTeam)
}

func TestParseFeedSkipsBadRows(t *testing.T) {
	csvData := "Div,Date,HomeTeam,AwayTeam,FTHG,FTAG\n" +
		"D1,not-a-date,Mainz,Augsburg,1,1\n" +
		"D1\n" +
		"D1,17/08/2025,Mainz,Augsburg,1,1\n"

	_, rows, err := ParseFeed(csvData)
	require.NoError(t, err, "bad rows must not abort the batch")
	require.Len(t, rows, 1)
	assert.Equal(t, "Mainz", rows[0].HomeTeam)
}

func TestLabelFeedThreadsCursor(t *testing.T) {
	august := time.Date(2025, 8, 15, 0, 0, 0, 0, time.UTC)
	var rows []*FeedRow
	for i := 0; i < Config.MatchesPerMatchday+1; i++ {
		rows = append(rows, &FeedRow{Date: august, Columns: []string{"D1", "15/08/2025"}})
	}

	labeled, cursor := LabelFeed(rows, NewSeasonCursor())
	require.Len(t, labeled, Config.MatchesPerMatchday+1)

	for i := 0; i < Config.MatchesPerMatchday; i++ {
		assert.Equal(t, "2025/2026", labeled[i].Season)
		assert.Equal(t, 1, labeled[i].Matchday)
	}
	assert.Equal(t, 2, labeled[Config.MatchesPerMatchday].Matchday)
	assert.Equal(t, 2, cursor.Matchday)
}

func TestLabeledRowLine(t *testing.T) {
	row := &LabeledRow{
		Season:   "2025/2026",
		Matchday: 3,
		Row:      &FeedRow{Columns: []string{"D1", "30/08/2025", "Mainz", "Augsburg", "1", "1"}},
	}
	assert.Equal(t, "2025/2026,3,D1,30/08/2025,Mainz,Augsburg,1,1", row.Line())
}
