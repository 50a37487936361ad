// Package store persists metric records in an embedded SQLite database.
//
// Every write is immediately durable; there is no write buffering and no
// retry. Failures surface as *StorageError for the caller to handle.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/Pouseidon-949/poseidon-monitor/metric"
)

// StorageError wraps an I/O or schema failure on the durable store.
type StorageError struct {
	Op    string
	Table string
	Err   error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s %s: %v", e.Op, e.Table, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// Store is a single-writer SQLite store with one table per record kind.
type Store struct {
	db *sql.DB
}

// New opens (or creates) the database at path and applies the schema.
func New(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, &StorageError{Op: "open", Table: "db", Err: err}
	}

	if _, err := db.Exec(Schema); err != nil {
		_ = db.Close()
		return nil, &StorageError{Op: "migrate", Table: "db", Err: err}
	}

	return &Store{db: db}, nil
}

// RecordTrade appends one trade row.
func (s *Store) RecordTrade(t metric.Trade) error {
	_, err := s.db.Exec(`
		INSERT INTO trades
		(timestamp, symbol, side, quantity, price, notional_value, fee, execution_time_ms, slippage_bps, profit_loss, execution_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.Timestamp, t.Symbol, string(t.Side), t.Quantity, t.Price,
		t.NotionalValue, t.Fee, t.ExecutionTimeMS, t.SlippageBPS, t.ProfitLoss, t.ExecutionID,
	)
	if err != nil {
		return &StorageError{Op: "insert", Table: "trades", Err: err}
	}
	return nil
}

// RecordPerformance appends one performance sample. The value is persisted in
// its text form; numeric-ness is re-derived on read.
func (s *Store) RecordPerformance(p metric.Performance) error {
	attrs := ""
	if len(p.Attributes) > 0 {
		raw, err := json.Marshal(p.Attributes)
		if err != nil {
			return &StorageError{Op: "encode", Table: "performance_metrics", Err: err}
		}
		attrs = string(raw)
	}

	_, err := s.db.Exec(`
		INSERT INTO performance_metrics
		(timestamp, metric_name, metric_value, unit, execution_id, additional_data)
		VALUES (?, ?, ?, ?, ?, ?)`,
		p.Timestamp, p.MetricName, p.Value.String(), p.Unit, p.ExecutionID, attrs,
	)
	if err != nil {
		return &StorageError{Op: "insert", Table: "performance_metrics", Err: err}
	}
	return nil
}

// RecordGrowth appends one growth row.
func (s *Store) RecordGrowth(g metric.Growth) error {
	_, err := s.db.Exec(`
		INSERT INTO growth_metrics
		(timestamp, hour, account_balance, previous_balance, growth_amount, growth_percentage, trade_count, profit_loss)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		g.Timestamp, g.Hour, g.AccountBalance, g.PreviousBalance,
		g.GrowthAmount, g.GrowthPercentage, g.TradeCount, g.ProfitLoss,
	)
	if err != nil {
		return &StorageError{Op: "insert", Table: "growth_metrics", Err: err}
	}
	return nil
}

// RecordLiquidity appends one liquidity row.
func (s *Store) RecordLiquidity(l metric.Liquidity) error {
	_, err := s.db.Exec(`
		INSERT INTO liquidity_metrics
		(timestamp, symbol, spread, bid_size, ask_size, market_depth, volatility_24h, volume_24h)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		l.Timestamp, l.Symbol, l.Spread, l.BidSize, l.AskSize,
		l.MarketDepth, l.Volatility24h, l.Volume24h,
	)
	if err != nil {
		return &StorageError{Op: "insert", Table: "liquidity_metrics", Err: err}
	}
	return nil
}

// PurgeOlderThan hard-deletes rows in every table with a timestamp strictly
// before cutoff. It returns the number of rows removed and is idempotent.
func (s *Store) PurgeOlderThan(cutoff string) (int64, error) {
	var total int64
	for _, table := range tables {
		res, err := s.db.Exec(`DELETE FROM `+table+` WHERE timestamp < ?`, cutoff)
		if err != nil {
			return total, &StorageError{Op: "purge", Table: table, Err: err}
		}
		n, _ := res.RowsAffected()
		total += n
	}
	return total, nil
}

// Stats returns the row count of every table.
func (s *Store) Stats() (map[string]int64, error) {
	stats := make(map[string]int64, len(tables))
	for _, table := range tables {
		var n int64
		if err := s.db.QueryRow(`SELECT COUNT(*) FROM ` + table).Scan(&n); err != nil {
			return nil, &StorageError{Op: "count", Table: table, Err: err}
		}
		stats[table] = n
	}
	return stats, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}
