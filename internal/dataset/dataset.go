// Package dataset provides the static lead collection the console starts from.
package dataset

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"sellerconsole/internal/leads"
)

//go:embed leads.json
var bundled []byte

// ErrUnsupportedFormat indicates a data file that is neither JSON nor CSV.
var ErrUnsupportedFormat = errors.New("unsupported data file format")

// ImportResult summarizes a file import.
type ImportResult struct {
	Loaded  int
	Skipped int
	Errors  []string
}

// Source loads the initial lead collection.
type Source struct {
	path string
	// Result holds the outcome of the last CSV import.
	Result ImportResult
}

// Embedded returns the bundled dataset.
func Embedded() *Source {
	return &Source{}
}

// File returns a source reading a .json or .csv file.
func File(path string) *Source {
	return &Source{path: path}
}

// Path returns the file path, empty for the bundled dataset.
func (s *Source) Path() string {
	return s.path
}

// Load reads the leads.
func (s *Source) Load(ctx context.Context) ([]leads.Lead, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.path == "" {
		return DecodeJSON(bytes.NewReader(bundled))
	}
	file, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open data file: %w", err)
	}
	defer file.Close()

	switch strings.ToLower(filepath.Ext(s.path)) {
	case ".json":
		return DecodeJSON(file)
	case ".csv":
		list, result, err := ImportCSV(file)
		s.Result = result
		return list, err
	default:
		return nil, fmt.Errorf("%s: %w", s.path, ErrUnsupportedFormat)
	}
}

// DecodeJSON reads a JSON array of leads.
func DecodeJSON(r io.Reader) ([]leads.Lead, error) {
	var list []leads.Lead
	if err := json.NewDecoder(r).Decode(&list); err != nil {
		return nil, fmt.Errorf("decode leads: %w", err)
	}
	for i := range list {
		list[i].Status = normalizeStatus(string(list[i].Status))
	}
	return list, nil
}

// ImportCSV reads leads from a CSV with a header row. Bad rows are skipped
// and reported in the result rather than failing the import.
func ImportCSV(r io.Reader) ([]leads.Lead, ImportResult, error) {
	result := ImportResult{}
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1
	header, err := reader.Read()
	if err != nil {
		return nil, result, fmt.Errorf("read header: %w", err)
	}
	index := map[string]int{}
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(h))
		if key != "" {
			index[key] = i
		}
	}
	if _, ok := index["name"]; !ok {
		return nil, result, fmt.Errorf("csv missing 'name' column")
	}

	field := func(record []string, name string) string {
		if idx, ok := index[name]; ok && idx < len(record) {
			return strings.TrimSpace(record[idx])
		}
		return ""
	}

	var list []leads.Lead
	seen := map[string]struct{}{}
	row := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		row++
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: %v", row, err))
			result.Skipped++
			continue
		}
		l := leads.Lead{
			ID:      field(record, "id"),
			Name:    field(record, "name"),
			Company: field(record, "company"),
			Email:   field(record, "email"),
			Source:  field(record, "source"),
			Status:  normalizeStatus(field(record, "status")),
		}
		if l.Name == "" {
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: lead name required", row))
			result.Skipped++
			continue
		}
		if l.ID == "" {
			l.ID = fmt.Sprintf("lead-%d", row)
		}
		if _, dup := seen[l.ID]; dup {
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: duplicate id '%s'", row, l.ID))
			result.Skipped++
			continue
		}
		if raw := field(record, "score"); raw != "" {
			score, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("row %d: invalid score '%s'", row, raw))
				result.Skipped++
				continue
			}
			l.Score = score
		}
		seen[l.ID] = struct{}{}
		list = append(list, l)
		result.Loaded++
	}
	return list, result, nil
}

func normalizeStatus(value string) leads.Status {
	if s, ok := leads.ParseStatus(value); ok {
		return s
	}
	return leads.StatusNew
}
