package store

import (
	"encoding/json"

	"github.com/Pouseidon-949/poseidon-monitor/metric"
)

// Trades returns trade rows with timestamp >= since (when non-empty),
// optionally restricted to one symbol, newest first.
func (s *Store) Trades(since, symbol string) ([]metric.Trade, error) {
	query := `
		SELECT timestamp, symbol, side, quantity, price, notional_value, fee, execution_time_ms, slippage_bps, profit_loss, execution_id
		FROM trades WHERE 1=1`
	var args []any
	if since != "" {
		query += ` AND timestamp >= ?`
		args = append(args, since)
	}
	if symbol != "" {
		query += ` AND symbol = ?`
		args = append(args, symbol)
	}
	query += ` ORDER BY timestamp DESC`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, &StorageError{Op: "query", Table: "trades", Err: err}
	}
	defer rows.Close()

	var out []metric.Trade
	for rows.Next() {
		var t metric.Trade
		var side string
		if err := rows.Scan(
			&t.Timestamp, &t.Symbol, &side, &t.Quantity, &t.Price,
			&t.NotionalValue, &t.Fee, &t.ExecutionTimeMS, &t.SlippageBPS,
			&t.ProfitLoss, &t.ExecutionID,
		); err != nil {
			return nil, &StorageError{Op: "scan", Table: "trades", Err: err}
		}
		t.Side = metric.Side(side)
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, &StorageError{Op: "query", Table: "trades", Err: err}
	}
	return out, nil
}

// PerformanceSamples returns performance rows with timestamp >= since (when
// non-empty), optionally restricted to one metric name, newest first.
func (s *Store) PerformanceSamples(since, name string) ([]metric.Performance, error) {
	query := `
		SELECT timestamp, metric_name, metric_value, unit, execution_id, additional_data
		FROM performance_metrics WHERE 1=1`
	var args []any
	if since != "" {
		query += ` AND timestamp >= ?`
		args = append(args, since)
	}
	if name != "" {
		query += ` AND metric_name = ?`
		args = append(args, name)
	}
	query += ` ORDER BY timestamp DESC`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, &StorageError{Op: "query", Table: "performance_metrics", Err: err}
	}
	defer rows.Close()

	var out []metric.Performance
	for rows.Next() {
		var p metric.Performance
		var value, attrs string
		if err := rows.Scan(&p.Timestamp, &p.MetricName, &value, &p.Unit, &p.ExecutionID, &attrs); err != nil {
			return nil, &StorageError{Op: "scan", Table: "performance_metrics", Err: err}
		}
		p.Value = metric.ParseValue(value)
		if attrs != "" {
			if err := json.Unmarshal([]byte(attrs), &p.Attributes); err != nil {
				return nil, &StorageError{Op: "decode", Table: "performance_metrics", Err: err}
			}
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, &StorageError{Op: "query", Table: "performance_metrics", Err: err}
	}
	return out, nil
}

// GrowthRecords returns growth rows with timestamp >= since (when non-empty)
// in chronological order; streak computation consumes them oldest first.
func (s *Store) GrowthRecords(since string) ([]metric.Growth, error) {
	query := `
		SELECT timestamp, hour, account_balance, previous_balance, growth_amount, growth_percentage, trade_count, profit_loss
		FROM growth_metrics WHERE 1=1`
	var args []any
	if since != "" {
		query += ` AND timestamp >= ?`
		args = append(args, since)
	}
	query += ` ORDER BY timestamp ASC`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, &StorageError{Op: "query", Table: "growth_metrics", Err: err}
	}
	defer rows.Close()

	var out []metric.Growth
	for rows.Next() {
		var g metric.Growth
		if err := rows.Scan(
			&g.Timestamp, &g.Hour, &g.AccountBalance, &g.PreviousBalance,
			&g.GrowthAmount, &g.GrowthPercentage, &g.TradeCount, &g.ProfitLoss,
		); err != nil {
			return nil, &StorageError{Op: "scan", Table: "growth_metrics", Err: err}
		}
		out = append(out, g)
	}
	if err := rows.Err(); err != nil {
		return nil, &StorageError{Op: "query", Table: "growth_metrics", Err: err}
	}
	return out, nil
}

// LiquiditySamples returns liquidity rows with timestamp >= since (when
// non-empty), optionally restricted to one symbol, newest first.
func (s *Store) LiquiditySamples(since, symbol string) ([]metric.Liquidity, error) {
	query := `
		SELECT timestamp, symbol, spread, bid_size, ask_size, market_depth, volatility_24h, volume_24h
		FROM liquidity_metrics WHERE 1=1`
	var args []any
	if since != "" {
		query += ` AND timestamp >= ?`
		args = append(args, since)
	}
	if symbol != "" {
		query += ` AND symbol = ?`
		args = append(args, symbol)
	}
	query += ` ORDER BY timestamp DESC`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, &StorageError{Op: "query", Table: "liquidity_metrics", Err: err}
	}
	defer rows.Close()

	var out []metric.Liquidity
	for rows.Next() {
		var l metric.Liquidity
		if err := rows.Scan(
			&l.Timestamp, &l.Symbol, &l.Spread, &l.BidSize, &l.AskSize,
			&l.MarketDepth, &l.Volatility24h, &l.Volume24h,
		); err != nil {
			return nil, &StorageError{Op: "scan", Table: "liquidity_metrics", Err: err}
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, &StorageError{Op: "query", Table: "liquidity_metrics", Err: err}
	}
	return out, nil
}
