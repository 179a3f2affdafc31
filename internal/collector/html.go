package collector

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"TreasuryWatch/internal/classify"
	"TreasuryWatch/internal/model"
	"TreasuryWatch/internal/normalize"
)

// ReadHTML picks the page's data table: the one with a date column and the most data rows.
// A header without a date label still qualifies when most first-column cells parse as dates.
func ReadHTML(r io.Reader) ([]model.RawRow, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("html: %w", err)
	}

	var best []model.RawRow
	doc.Find("table").Each(func(_ int, table *goquery.Selection) {
		grid := tableGrid(table)
		if len(grid) < 2 {
			return
		}
		header, records := grid[0], grid[1:]
		if !hasDateHeader(header) {
			if !firstColumnDates(records) {
				return
			}
			header = append([]string{"date"}, header[1:]...)
		}
		if rows := tableRows(header, records); len(rows) > len(best) {
			best = rows
		}
	})
	return best, nil
}

// tableGrid flattens a table into text cells. colspan repeats the cell so columns stay aligned.
func tableGrid(table *goquery.Selection) [][]string {
	var grid [][]string
	table.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		var row []string
		tr.Find("td, th").Each(func(_ int, cell *goquery.Selection) {
			span, _ := strconv.Atoi(cell.AttrOr("colspan", "1"))
			if span < 1 {
				span = 1
			}
			text := strings.Join(strings.Fields(cell.Text()), " ")
			for i := 0; i < span; i++ {
				row = append(row, text)
			}
		})
		if len(row) > 0 {
			grid = append(grid, row)
		}
	})
	return grid
}

func hasDateHeader(header []string) bool {
	for _, h := range header {
		key := model.ColumnKey(h)
		for _, d := range classify.DateColumns {
			if key == d {
				return true
			}
		}
	}
	return false
}

func firstColumnDates(records [][]string) bool {
	var dates int
	for _, rec := range records {
		if len(rec) == 0 {
			continue
		}
		if _, ok := normalize.Date(rec[0]); ok {
			dates++
		}
	}
	return dates*2 >= len(records) && dates > 0
}
