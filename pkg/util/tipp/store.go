package tipp

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/richard-senior/kicktip/internal/logger"
)

// MatchStore is the canonical historical dataset: an append-only CSV file
// holding every known match labeled with season and matchday. The header is
// written once when the file is created and never rewritten.
type MatchStore struct {
	Path string
}

// NewMatchStore returns a store backed by the given file path
func NewMatchStore(path string) *MatchStore {
	return &MatchStore{Path: path}
}

// Exists returns true if the store file has been created
func (s *MatchStore) Exists() bool {
	_, err := os.Stat(s.Path)
	return err == nil
}

// MaxMatchdays returns, per season present in the store, the maximum stored
// matchday. An absent store yields an empty map: nothing is known yet.
// Rows that fail to parse are logged and skipped.
func (s *MatchStore) MaxMatchdays() (map[string]int, error) {
	result := make(map[string]int)

	file, err := os.Open(s.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return result, nil
		}
		return nil, fmt.Errorf("failed to open store %s: %w", s.Path, err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	first := true
	for scanner.Scan() {
		line := scanner.Text()
		if first {
			first = false
			continue // header
		}
		cols := strings.Split(line, ",")
		if len(cols) < 3 {
			continue
		}
		season := cols[0]
		matchday, err := strconv.Atoi(strings.TrimSpace(cols[1]))
		if err != nil {
			logger.Warn("Invalid matchday in store row:", line)
			continue
		}
		if matchday > result[season] {
			result[season] = matchday
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read store %s: %w", s.Path, err)
	}
	return result, nil
}

// Append adds new lines to the store in input order. When the store file does
// not exist yet it is created and the schema header is written first; an
// existing store never has its header touched again.
func (s *MatchStore) Append(feedHeader string, lines []string) error {
	needHeader := !s.Exists()

	file, err := os.OpenFile(s.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open store %s for append: %w", s.Path, err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	if needHeader {
		if _, err := writer.WriteString("Season,Gameday," + feedHeader + "\n"); err != nil {
			return fmt.Errorf("failed to write store header: %w", err)
		}
	}
	for _, line := range lines {
		if _, err := writer.WriteString(line + "\n"); err != nil {
			return fmt.Errorf("failed to append to store: %w", err)
		}
	}
	if err := writer.Flush(); err != nil {
		return fmt.Errorf("failed to flush store: %w", err)
	}
	return nil
}

// LoadMatches reads every match from the store. Rows that fail to parse are
// logged and skipped; a missing store file is an error for the caller.
func (s *MatchStore) LoadMatches() ([]*MatchRecord, error) {
	file, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open store %s: %w", s.Path, err)
	}
	defer file.Close()

	var matches []*MatchRecord
	scanner := bufio.NewScanner(file)
	first := true
	for scanner.Scan() {
		line := scanner.Text()
		if first {
			first = false
			continue // header
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		match, err := ParseMatchRecord(strings.Split(line, ","))
		if err != nil {
			logger.Warn("Skipping store row:", err, line)
			continue
		}
		matches = append(matches, match)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read store %s: %w", s.Path, err)
	}
	return matches, nil
}

// Rewrite replaces the entire store content. Only the harmonizer uses this;
// the ingestion pipeline itself is strictly append-only.
func (s *MatchStore) Rewrite(header string, lines []string) error {
	tmp := s.Path + ".tmp"
	file, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", tmp, err)
	}

	writer := bufio.NewWriter(file)
	if _, err := writer.WriteString(header + "\n"); err != nil {
		file.Close()
		return fmt.Errorf("failed to write store header: %w", err)
	}
	for _, line := range lines {
		if _, err := writer.WriteString(line + "\n"); err != nil {
			file.Close()
			return fmt.Errorf("failed to write store row: %w", err)
		}
	}
	if err := writer.Flush(); err != nil {
		file.Close()
		return fmt.Errorf("failed to flush store: %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close store: %w", err)
	}
	return os.Rename(tmp, s.Path)
}
