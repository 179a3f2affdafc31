package collector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const sampleCSV = "\ufeffDate,Ticker,Metric,Val\n" +
	"2024-01-02,MSTR,price,\"1,000\"\n" +
	",,,\n" +
	"2024-01-02,MSTR,nav,50\n"

func TestReadCSV(t *testing.T) {
	rows, err := Decode("metrics.csv", "", []byte(sampleCSV))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"date", "ticker", "metric", "val"}, rows[0].Columns())
	assert.Equal(t, "1,000", rows[0].Text("val"))
	assert.Equal(t, "nav", rows[1].Text("metric"))
}

func TestDecode_HeaderOnly(t *testing.T) {
	_, err := Decode("metrics.csv", "", []byte("date,ticker,metric,val\n"))
	assert.ErrorIs(t, err, ErrNoRows)
}

func TestDecode_Unsupported(t *testing.T) {
	_, err := Decode("blob", "", []byte("   "))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestDetectFormat(t *testing.T) {
	assert.Equal(t, FormatCSV, DetectFormat("a.csv", "", nil))
	assert.Equal(t, FormatXLSX, DetectFormat("https://x.test/export.xlsx?dl=1", "", nil))
	assert.Equal(t, FormatHTML, DetectFormat("https://x.test/flows/", "text/html; charset=utf-8", nil))
	assert.Equal(t, FormatJSON, DetectFormat("api", "application/json", nil))
	assert.Equal(t, FormatHTML, DetectFormat("page", "", []byte("  <!doctype html><table></table>")))
	assert.Equal(t, FormatJSON, DetectFormat("page", "", []byte(`[{"a":1}]`)))
	assert.Equal(t, FormatXLSX, DetectFormat("blob", "", []byte("PK\x03\x04rest")))
	assert.Equal(t, FormatCSV, DetectFormat("blob", "", []byte("date,btc\n")))
}

func TestReadJSON(t *testing.T) {
	rows, err := Decode("rows.json", "", []byte(`[{"Date":"2024-01-02","BTC":5.5,"metric":"net flow"}]`))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	v, ok := rows[0].Value("btc")
	require.True(t, ok)
	assert.Equal(t, 5.5, v)
}

const farsidePage = `<html><body>
<table class="nav"><tr><td>Home</td><td>About</td></tr></table>
<table class="etf">
  <thead>
    <tr><th></th><th>IBIT</th><th>FBTC</th><th>GBTC</th><th>Total</th></tr>
  </thead>
  <tbody>
    <tr><td>Fee</td><td>0.25%</td><td>0.25%</td><td>1.50%</td><td></td></tr>
    <tr><td>11 Jan 2024</td><td>111.7</td><td>227.0</td><td>(95.1)</td><td>655.3</td></tr>
    <tr><td>12 Jan 2024</td><td>386.0</td><td>-</td><td>(484.1)</td><td>203.0</td></tr>
    <tr><td>15 Jan 2024</td><td>0.0</td><td>0.0</td><td>0.0</td><td>0.0</td></tr>
    <tr><td>Total</td><td>497.7</td><td>227.0</td><td>(579.2)</td><td>858.3</td></tr>
  </tbody>
</table>
</body></html>`

func TestReadHTML_PicksDateTable(t *testing.T) {
	rows, err := Decode("flows.html", "", []byte(farsidePage))
	require.NoError(t, err)
	require.Len(t, rows, 5)
	assert.Equal(t, []string{"date", "ibit", "fbtc", "gbtc", "total"}, rows[0].Columns())
	assert.Equal(t, "11 Jan 2024", rows[1].Text("date"))
	assert.Equal(t, "(95.1)", rows[1].Text("gbtc"))
}

func TestReadHTML_NoDataTable(t *testing.T) {
	_, err := Decode("page.html", "", []byte(`<table><tr><td>a</td><td>b</td></tr><tr><td>c</td><td>d</td></tr></table>`))
	assert.ErrorIs(t, err, ErrNoRows)
}

func TestReadXLSX(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]any{"date", "metric", "EQ-MSTR", "EQ-SBET"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]any{"2024-01-02", "mNAV", "1.8", "0.9"}))
	require.NoError(t, f.SetSheetRow(sheet, "A3", &[]any{"2024-01-03", "mNAV", "1.9", ""}))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	rows, err := Decode("export.xlsx", "", buf.Bytes())
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"date", "metric", "eq-mstr", "eq-sbet"}, rows[0].Columns())
	assert.Equal(t, "1.8", rows[0].Text("eq-mstr"))
	assert.Equal(t, "", rows[1].Text("eq-sbet"))
}
