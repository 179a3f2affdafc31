package ratio

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"TreasuryWatch/internal/model"
)

func longRows(recs ...[4]string) []model.RawRow {
	rows := make([]model.RawRow, 0, len(recs))
	for _, r := range recs {
		rows = append(rows, model.NewRawRow(
			[]string{"date", "ticker", "metric", "val"},
			[]any{r[0], r[1], r[2], r[3]},
		))
	}
	return rows
}

func TestBuild_EndToEnd(t *testing.T) {
	res := Build(longRows(
		[4]string{"2024-01-03", "MSTR", "price", "110"},
		[4]string{"2024-01-03", "MSTR", "NUM_OF_SHARES", "10"},
		[4]string{"2024-01-03", "MSTR", "nav", "55"},
		[4]string{"2024-01-02", "MSTR", "price", "100"},
		[4]string{"2024-01-02", "MSTR", "NUM_OF_SHARES", "10"},
		[4]string{"2024-01-02", "MSTR", "nav", "50"},
		[4]string{"2024-01-02", "SBET", "price", "20"},
		[4]string{"2024-01-02", "BMNR", "mNAV", "1.4"},
	))

	assert.Equal(t, model.LayoutLong, res.Layout)
	assert.Equal(t, []model.RatioPoint{{Date: "2024-01-02", Value: 20}, {Date: "2024-01-03", Value: 20}}, res.Series[model.MSTR])
	assert.Equal(t, []model.RatioPoint{{Date: "2024-01-02", Value: 1.4}}, res.Series[model.BMNR])
	assert.Empty(t, res.Series[model.SBET])
	assert.Equal(t, map[model.CanonicalField]int{model.FieldShares: 1, model.FieldNAV: 1}, res.Missing[model.SBET])
	assert.Equal(t, 3, res.Points())

	for _, tk := range model.Universe {
		require.Contains(t, res.Series, tk)
		require.NotNil(t, res.Series[tk])
		require.Contains(t, res.Missing, tk)
	}
	assert.Contains(t, res.Summary, "MSTR=2")
	assert.Contains(t, res.Summary, "SBET=0")
}

func TestBuild_ZeroNAVCountsAsMissingNAV(t *testing.T) {
	res := Build(longRows(
		[4]string{"2024-01-02", "DFDV", "price", "5"},
		[4]string{"2024-01-02", "DFDV", "shares", "10"},
		[4]string{"2024-01-02", "DFDV", "Shares Outstanding", "10"},
		[4]string{"2024-01-02", "DFDV", "nav", "0"},
	))
	assert.Empty(t, res.Series[model.DFDV])
	assert.Equal(t, map[model.CanonicalField]int{model.FieldNAV: 1}, res.Missing[model.DFDV])
}

func TestBuild_Idempotent(t *testing.T) {
	rows := longRows(
		[4]string{"2024-01-02", "MSTR", "price", "100"},
		[4]string{"2024-01-02", "MSTR", "NUM_OF_SHARES", "10"},
		[4]string{"2024-01-02", "MSTR", "nav", "50"},
		[4]string{"2024-01-02", "UPXI", "market cap", "300"},
	)
	assert.Equal(t, Build(rows), Build(rows))
}

func TestBuild_Ascending(t *testing.T) {
	res := Build(longRows(
		[4]string{"2024-03-01", "MTPLF", "mnav", "2"},
		[4]string{"2024-01-01", "MTPLF", "mnav", "1"},
		[4]string{"2024-02-01", "MTPLF", "mnav", "3"},
	))
	s := res.Series[model.MTPLF]
	require.Len(t, s, 3)
	for i := 1; i < len(s); i++ {
		assert.Less(t, s[i-1].Date, s[i].Date)
	}
}
