package store

// Schema is the durable contract: four append-mostly tables, one per record
// kind, each with a surrogate auto-increment key plus the domain timestamp.
// Column semantics must be preserved across versions for data compatibility.
const Schema = `
CREATE TABLE IF NOT EXISTS trades (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	timestamp TEXT NOT NULL,
	symbol TEXT NOT NULL,
	side TEXT NOT NULL,
	quantity REAL NOT NULL,
	price REAL NOT NULL,
	notional_value REAL NOT NULL,
	fee REAL NOT NULL,
	execution_time_ms REAL NOT NULL,
	slippage_bps REAL DEFAULT 0.0,
	profit_loss REAL DEFAULT 0.0,
	execution_id TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS performance_metrics (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	timestamp TEXT NOT NULL,
	metric_name TEXT NOT NULL,
	metric_value TEXT NOT NULL,
	unit TEXT NOT NULL,
	execution_id TEXT NOT NULL DEFAULT '',
	additional_data TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS growth_metrics (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	timestamp TEXT NOT NULL,
	hour INTEGER NOT NULL,
	account_balance REAL NOT NULL,
	previous_balance REAL NOT NULL,
	growth_amount REAL NOT NULL,
	growth_percentage REAL NOT NULL,
	trade_count INTEGER NOT NULL,
	profit_loss REAL NOT NULL
);

CREATE TABLE IF NOT EXISTS liquidity_metrics (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	timestamp TEXT NOT NULL,
	symbol TEXT NOT NULL,
	spread REAL NOT NULL,
	bid_size REAL NOT NULL,
	ask_size REAL NOT NULL,
	market_depth REAL NOT NULL,
	volatility_24h REAL NOT NULL,
	volume_24h REAL NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_trades_timestamp ON trades(timestamp);
CREATE INDEX IF NOT EXISTS idx_performance_timestamp ON performance_metrics(timestamp);
CREATE INDEX IF NOT EXISTS idx_growth_timestamp ON growth_metrics(timestamp);
CREATE INDEX IF NOT EXISTS idx_liquidity_timestamp ON liquidity_metrics(timestamp);
`

// tables enumerates every metrics table, in purge order.
var tables = []string{"trades", "performance_metrics", "growth_metrics", "liquidity_metrics"}
