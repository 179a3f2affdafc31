package collector

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"TreasuryWatch/internal/model"
)

var (
	// ErrNoRows is returned when a source decodes to zero data rows.
	ErrNoRows = errors.New("no data rows")
	// ErrUnsupportedFormat is returned when a payload is not CSV, XLSX, HTML or JSON.
	ErrUnsupportedFormat = errors.New("unsupported format")
)

// Loader fetches one tabular dataset and decodes it into raw rows.
type Loader interface {
	Load(ctx context.Context) ([]model.RawRow, error)
	Name() string
}

// NewLoader picks an HTTP loader for http(s) URLs and a file loader otherwise.
func NewLoader(src string, opts HTTPOptions) Loader {
	if strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://") {
		return NewHTTPLoader(src, opts)
	}
	return &FileLoader{Path: src}
}

// FileLoader reads a local export.
type FileLoader struct {
	Path string
}

func (l *FileLoader) Name() string { return filepath.Base(l.Path) }

func (l *FileLoader) Load(ctx context.Context) ([]model.RawRow, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(l.Path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", l.Path, err)
	}
	return Decode(l.Path, "", data)
}

// MockLoader returns fixed rows for development and testing.
type MockLoader struct {
	Label string
	Rows  []model.RawRow
	Err   error
	Calls int
}

func (m *MockLoader) Name() string {
	if m.Label == "" {
		return "mock"
	}
	return m.Label
}

func (m *MockLoader) Load(_ context.Context) ([]model.RawRow, error) {
	m.Calls++
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Rows, nil
}
