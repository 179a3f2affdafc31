package classify

import "TreasuryWatch/internal/model"

// WideAliases lists, per field, the column names probed in wide layout, most preferred first.
var WideAliases = map[model.CanonicalField][]string{
	model.FieldPrice: {
		"price", "px_last", "px", "close", "last", "close_price", "share_price", "stock_price",
	},
	model.FieldShares: {
		"num_of_shares", "shares_outstanding", "shares_basic", "shares_out", "share_count", "shs_out",
		"number_of_shares", "number_of_shares_outstanding", "outstanding_shares", "basic_shares_outstanding",
	},
	model.FieldNAV: {
		"nav", "nav_usd", "net_asset_value", "netassetvalue",
	},
	model.FieldMarketCap: {
		"market_cap", "mc", "mkt_cap", "marketcap", "market_capitalization",
	},
	model.FieldRatio: {
		"mnav", "m_nav", "mnav_usd", "mc_nav", "market_cap_nav",
	},
}

// Row-level column aliases, most preferred first.
var (
	DateColumns   = []string{"date", "day", "as_of", "asof", "as_of_date", "timestamp", "datetime", "time", "period"}
	TickerColumns = []string{"ticker", "symbol", "equity", "asset", "security", "name"}
	ValueColumns  = []string{"val", "value", "amount"}
)

// MetricColumn names the column carrying metric names in long and matrix tables.
const MetricColumn = "metric"
