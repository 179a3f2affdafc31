// Package flow rebuilds daily net-flow and cumulative series for crypto ETF assets.
package flow

// Asset describes one flow series. Key doubles as the value column name in metric tables.
type Asset struct {
	Key    string
	Anchor string // YYYY-MM-DD; dates strictly before it are skipped, empty means none
	Funds  []string
}

// Issuer fund tickers, summed when a table lists per-fund flows without a metric column.
var (
	BTCFunds = []string{"IBIT", "FBTC", "BITB", "ARKB", "BTCO", "EZBC", "BRRR", "HODL", "BTCW", "GBTC"}
	ETHFunds = []string{"ETHA", "FETH", "ETHW", "TETH", "ETHV", "QETH", "EZET", "ETHE", "ETH"}
)

// ETHLaunch is the first trading day of the spot ETH funds.
const ETHLaunch = "2024-07-23"

// DefaultAssets is used when no assets are configured.
func DefaultAssets() []Asset {
	return []Asset{
		{Key: "BTC", Funds: BTCFunds},
		{Key: "ETH", Anchor: ETHLaunch, Funds: ETHFunds},
	}
}
