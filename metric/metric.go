// Package metric defines the record types collected by the monitoring layer.
//
// Every record is keyed by a fixed-width ISO-8601 UTC timestamp string so that
// lexicographic order matches chronological order, which is what the store's
// range queries rely on.
package metric

import "time"

// TimeLayout is the fixed-width UTC timestamp format used for all records.
// The nanosecond field is zero-padded so string comparison sorts correctly.
const TimeLayout = "2006-01-02T15:04:05.000000000Z"

// Now returns the current UTC time formatted with TimeLayout.
func Now() string {
	return FormatTime(time.Now())
}

// FormatTime renders t in UTC using TimeLayout.
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

// ParseTime parses a timestamp previously produced by FormatTime.
func ParseTime(s string) (time.Time, error) {
	return time.Parse(TimeLayout, s)
}

// Side is the direction of a trade execution.
type Side string

const (
	Buy  Side = "buy"
	Sell Side = "sell"
)

// Trade is a single trade execution record. NotionalValue is computed once at
// write time (quantity * price) and never recomputed from later reads.
// ProfitLoss is the explicit realized P&L supplied by the producer; it
// defaults to zero and no buy/sell lot matching is attempted.
type Trade struct {
	Timestamp       string  `json:"timestamp"`
	Symbol          string  `json:"symbol"`
	Side            Side    `json:"side"`
	Quantity        float64 `json:"quantity"`
	Price           float64 `json:"price"`
	NotionalValue   float64 `json:"notional_value"`
	Fee             float64 `json:"fee"`
	ExecutionTimeMS float64 `json:"execution_time_ms"`
	SlippageBPS     float64 `json:"slippage_bps"`
	ProfitLoss      float64 `json:"profit_loss"`
	ExecutionID     string  `json:"execution_id,omitempty"`
}

// NewTrade builds a Trade stamped with the current time, computing the
// notional value from quantity and price.
func NewTrade(symbol string, side Side, quantity, price float64) Trade {
	return Trade{
		Timestamp:     Now(),
		Symbol:        symbol,
		Side:          side,
		Quantity:      quantity,
		Price:         price,
		NotionalValue: quantity * price,
	}
}

// Performance is a named metric sample. Value carries either a number or a
// text payload; only numeric samples participate in statistical aggregation.
type Performance struct {
	Timestamp   string         `json:"timestamp"`
	MetricName  string         `json:"metric_name"`
	Value       Value          `json:"metric_value"`
	Unit        string         `json:"unit"`
	ExecutionID string         `json:"execution_id,omitempty"`
	Attributes  map[string]any `json:"additional_data,omitempty"`
}

// Growth is one period-over-period account growth observation. The
// PreviousBalance of record N equals the AccountBalance of the record that
// chronologically precedes it; the tracker cursor enforces this, it is not
// recomputed from history.
type Growth struct {
	Timestamp        string  `json:"timestamp"`
	Hour             int     `json:"hour"`
	AccountBalance   float64 `json:"account_balance"`
	PreviousBalance  float64 `json:"previous_balance"`
	GrowthAmount     float64 `json:"growth_amount"`
	GrowthPercentage float64 `json:"growth_percentage"`
	TradeCount       int     `json:"trade_count"`
	ProfitLoss       float64 `json:"profit_loss"`
}

// Liquidity is an independent order-book observation for one symbol.
type Liquidity struct {
	Timestamp     string  `json:"timestamp"`
	Symbol        string  `json:"symbol"`
	Spread        float64 `json:"spread"`
	BidSize       float64 `json:"bid_size"`
	AskSize       float64 `json:"ask_size"`
	MarketDepth   float64 `json:"market_depth"`
	Volatility24h float64 `json:"volatility_24h"`
	Volume24h     float64 `json:"volume_24h"`
}
