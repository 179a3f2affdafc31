package collector

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/url"
	"path"
	"strings"

	"TreasuryWatch/internal/model"
)

// Format is the encoding of a tabular payload.
type Format int

const (
	FormatUnknown Format = iota
	FormatCSV
	FormatXLSX
	FormatHTML
	FormatJSON
)

func (f Format) String() string {
	switch f {
	case FormatCSV:
		return "csv"
	case FormatXLSX:
		return "xlsx"
	case FormatHTML:
		return "html"
	case FormatJSON:
		return "json"
	}
	return "unknown"
}

// DetectFormat goes by file extension, then content type, then the leading bytes.
func DetectFormat(name, contentType string, data []byte) Format {
	if u, err := url.Parse(name); err == nil && u.Path != "" {
		name = u.Path
	}
	switch strings.ToLower(path.Ext(name)) {
	case ".csv", ".txt":
		return FormatCSV
	case ".xlsx", ".xlsm":
		return FormatXLSX
	case ".html", ".htm":
		return FormatHTML
	case ".json":
		return FormatJSON
	}

	ct := strings.ToLower(contentType)
	switch {
	case strings.Contains(ct, "csv"):
		return FormatCSV
	case strings.Contains(ct, "spreadsheetml"), strings.Contains(ct, "excel"):
		return FormatXLSX
	case strings.Contains(ct, "html"):
		return FormatHTML
	case strings.Contains(ct, "json"):
		return FormatJSON
	}

	trimmed := bytes.TrimSpace(bytes.TrimPrefix(data, utf8BOM))
	switch {
	case len(trimmed) == 0:
		return FormatUnknown
	case bytes.HasPrefix(data, []byte("PK\x03\x04")):
		return FormatXLSX
	case trimmed[0] == '<':
		return FormatHTML
	case trimmed[0] == '[':
		return FormatJSON
	}
	return FormatCSV
}

// Decode turns a payload into raw rows. A payload with a header and no data rows is ErrNoRows.
func Decode(name, contentType string, data []byte) ([]model.RawRow, error) {
	var (
		rows []model.RawRow
		err  error
	)
	switch f := DetectFormat(name, contentType, data); f {
	case FormatCSV:
		rows, err = ReadCSV(bytes.NewReader(data))
	case FormatXLSX:
		rows, err = ReadXLSX(bytes.NewReader(data))
	case FormatHTML:
		rows, err = ReadHTML(bytes.NewReader(data))
	case FormatJSON:
		rows, err = readJSON(data)
	default:
		return nil, fmt.Errorf("decode %s: %w", name, ErrUnsupportedFormat)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("decode %s: %w", name, ErrNoRows)
	}
	return rows, nil
}

// readJSON accepts an array of flat objects.
func readJSON(data []byte) ([]model.RawRow, error) {
	var records []map[string]any
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("json: %w", err)
	}
	rows := make([]model.RawRow, 0, len(records))
	for _, rec := range records {
		rows = append(rows, model.RowFromMap(rec))
	}
	return rows, nil
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// tableRows pads or trims each record to the header width and drops blank records.
func tableRows(header []string, records [][]string) []model.RawRow {
	rows := make([]model.RawRow, 0, len(records))
	for _, rec := range records {
		if blank(rec) {
			continue
		}
		vals := make([]any, len(header))
		for i := range header {
			if i < len(rec) {
				vals[i] = rec[i]
			}
		}
		rows = append(rows, model.NewRawRow(header, vals))
	}
	return rows
}

func blank(rec []string) bool {
	for _, c := range rec {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
