package collector

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"TreasuryWatch/internal/model"
)

// ReadCSV parses a comma separated export whose first record is the header.
func ReadCSV(r io.Reader) ([]model.RawRow, error) {
	br := bufio.NewReader(r)
	if b, err := br.Peek(3); err == nil && string(b) == string(utf8BOM) {
		_, _ = br.Discard(3)
	}

	cr := csv.NewReader(br)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("csv header: %w", err)
	}
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("csv: %w", err)
	}
	return tableRows(header, records), nil
}
