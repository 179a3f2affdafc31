package classify

import "TreasuryWatch/internal/model"

// Share counts tied to these instruments are contingent, not the outstanding base.
var sharesExclusions = []string{"token", "warrant", "convertible", "bond", "debt"}

// MetricRules is the ordered classification table for metric names. Earlier rules take
// precedence when a name matches several.
var MetricRules = Ruleset{
	Exact(model.FieldRatio, "mnav"),
	Regex(model.FieldRatio, `^m[\s_-]*nav(?:[\s_-]*usd)?$`),
	Regex(model.FieldRatio, `^(?:mc|market[\s_-]*cap)[\s_-]*(?:/[\s_-]*)?nav(?:[\s_-]*ratio)?$`),

	Regex(model.FieldNAV, `(?:^|[\s_-])(?:nav|nav[\s_-]*usd|net[\s_-]*asset[\s_-]*value)(?:$|[\s_-])`,
		"/", " per ", "fdm", "diluted"),

	Regex(model.FieldMarketCap, `(?:^|[\s_-])(?:mc|market[\s_-]*cap|mkt[\s_-]*cap|market[\s_-]*capitali[sz]ation)(?:$|[\s_-])`,
		"/", "diluted"),

	Regex(model.FieldPrice, `(?:^|[\s_-])(?:price|px|px[\s_-]*last|close|last)(?:$|[\s_-])`,
		"/", "target"),

	Contains(model.FieldShares, "shares outstanding", sharesExclusions...),
	Regex(model.FieldShares, `(?:^|[\s_-])(?:num|number)[\s_-]*(?:of[\s_-]*)?shares(?:$|[\s_-])`, sharesExclusions...),
	Regex(model.FieldShares, `shares?[\s_-]*outstanding`, sharesExclusions...),
	Regex(model.FieldShares, `shares?[\s_-]*(?:basic|out)(?:$|[\s_-])`, sharesExclusions...),
	Regex(model.FieldShares, `basic[\s_-]*shares?[\s_-]*out`, sharesExclusions...),
	Regex(model.FieldShares, `share[\s_-]*count`, sharesExclusions...),
	Regex(model.FieldShares, `shs[\s_-]*out`, sharesExclusions...),
}

// Metric classifies a metric name such as "Number of Shares Outstanding" or "PX_LAST".
func Metric(name string) (model.CanonicalField, bool) {
	return MetricRules.Classify(name)
}
