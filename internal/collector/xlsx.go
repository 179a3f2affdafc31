package collector

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"TreasuryWatch/internal/model"
)

// ReadXLSX parses the first worksheet that has a header and at least one data row.
func ReadXLSX(r io.Reader) ([]model.RawRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("xlsx open: %w", err)
	}
	defer f.Close()

	for _, sheet := range f.GetSheetList() {
		records, err := f.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("xlsx sheet %q: %w", sheet, err)
		}
		// leading blank rows are common above the header
		for len(records) > 0 && blank(records[0]) {
			records = records[1:]
		}
		if len(records) < 2 {
			continue
		}
		return tableRows(records[0], records[1:]), nil
	}
	return nil, nil
}
