package tipp

import (
	"encoding/csv"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/richard-senior/kicktip/internal/logger"
)

// timePattern matches the optional kick-off time column some feed revisions
// carry in the third position (e.g. "15:30")
var timePattern = regexp.MustCompile(`^\d{2}:\d{2}$`)

// FeedRow is one raw match result from the weekly feed, mapped to named
// fields at the ingestion boundary so downstream code never deals in column
// offsets. Columns holds the original (time-stripped) columns so the full row
// can be carried into the store unchanged.
type FeedRow struct {
	Division  string
	Date      time.Time
	HomeTeam  string
	AwayTeam  string
	HomeGoals int
	AwayGoals int
	Columns   []string
}

// LabeledRow is a feed row with its inferred season and matchday
type LabeledRow struct {
	Season   string
	Matchday int
	Row      *FeedRow
}

// Line renders the labeled row as a store line: the season and matchday
// prepended to the original feed columns
func (l *LabeledRow) Line() string {
	return l.Season + "," + strconv.Itoa(l.Matchday) + "," + strings.Join(l.Row.Columns, ",")
}

// ParseFeed parses raw weekly feed CSV data into feed rows, preserving input
// order. Returns the feed header (with any Time column removed) and the rows.
// Rows that cannot be parsed are logged and skipped; they never abort the
// batch.
func ParseFeed(csvData string) (string, []*FeedRow, error) {
	reader := csv.NewReader(strings.NewReader(csvData))
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return "", nil, err
	}

	if len(records) == 0 {
		return "", nil, nil
	}

	header := strings.Join(records[0], ",")
	header = strings.ReplaceAll(header, ",Time", "")

	var rows []*FeedRow
	for i, record := range records[1:] {
		row, ok := parseFeedRecord(record)
		if !ok {
			continue
		}
		if row == nil {
			logger.Warn("Skipping unparseable feed row", i+2, strings.Join(record, ","))
			continue
		}
		rows = append(rows, row)
	}
	return header, rows, nil
}

// parseFeedRecord maps one raw record to a FeedRow. The second return value
// is false for rows that are silently dropped (too short to be a match row);
// a nil row with true signals a parse failure worth logging.
func parseFeedRecord(record []string) (*FeedRow, bool) {
	cols := make([]string, len(record))
	for i, v := range record {
		cols[i] = strings.TrimSpace(v)
	}

	if len(cols) < 2 {
		return nil, false
	}

	// Some feed revisions carry a kick-off time in the third column; strip it
	// so the remaining offsets are stable
	if len(cols) > 2 && timePattern.MatchString(cols[2]) {
		cols = append(cols[:2], cols[3:]...)
	}

	date, err := time.Parse("02/01/2006", cols[1])
	if err != nil {
		return nil, true
	}

	row := &FeedRow{
		Division: cols[0],
		Date:     date,
		Columns:  cols,
	}

	// Team names and goals sit at fixed offsets once the time column is gone.
	// They are not needed for labeling, so a short row is still usable.
	if len(cols) >= 6 {
		row.HomeTeam = cols[2]
		row.AwayTeam = cols[3]
		if hg, err := strconv.Atoi(cols[4]); err == nil {
			row.HomeGoals = hg
		}
		if ag, err := strconv.Atoi(cols[5]); err == nil {
			row.AwayGoals = ag
		}
	}

	return row, true
}

// LabelFeed walks chronologically ordered feed rows, threading the cursor
// through them and attaching season and matchday labels to each
func LabelFeed(rows []*FeedRow, cursor SeasonCursor) ([]*LabeledRow, SeasonCursor) {
	labeled := make([]*LabeledRow, 0, len(rows))
	for _, row := range rows {
		cursor = cursor.Advance(SeasonForDate(row.Date))
		labeled = append(labeled, &LabeledRow{
			Season:   cursor.Season,
			Matchday: cursor.Matchday,
			Row:      row,
		})
	}
	return labeled, cursor
}
