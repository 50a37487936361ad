// Package monitor is the embeddable entry point: it owns the store, the
// collector, the event logger and the dashboard composer, and exposes the
// producer API the trading process calls from its hot path.
package monitor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Pouseidon-949/poseidon-monitor/config"
	"github.com/Pouseidon-949/poseidon-monitor/dashboard"
	"github.com/Pouseidon-949/poseidon-monitor/eventlog"
	"github.com/Pouseidon-949/poseidon-monitor/metric"
	"github.com/Pouseidon-949/poseidon-monitor/metrics"
	"github.com/Pouseidon-949/poseidon-monitor/pkg/id"
	"github.com/Pouseidon-949/poseidon-monitor/resource"
	"github.com/Pouseidon-949/poseidon-monitor/store"
)

// BalanceFunc reports the current account balance for growth tracking.
type BalanceFunc func() float64

// Option customizes a Monitor.
type Option func(*Monitor)

// WithBalanceFunc enables hourly growth tracking against fn.
func WithBalanceFunc(fn BalanceFunc) Option {
	return func(m *Monitor) { m.balance = fn }
}

// WithSampler overrides the resource sampler. The default observes nothing.
func WithSampler(s resource.Sampler) Option {
	return func(m *Monitor) { m.sampler = s }
}

// TradeInput is the producer-facing trade record. ExecutionID is assigned
// when empty.
type TradeInput struct {
	Symbol          string
	Side            metric.Side
	Quantity        float64
	Price           float64
	Fee             float64
	ExecutionTimeMS float64
	SlippageBPS     float64
	ProfitLoss      float64
	ExecutionID     string
}

// ErrorEvent is the producer-facing error record.
type ErrorEvent struct {
	Type     string
	Message  string
	Critical bool
	Context  map[string]any
}

// Monitor wires the monitoring layer together.
type Monitor struct {
	cfg       config.Config
	store     *store.Store
	collector *metrics.Collector
	events    *eventlog.Logger
	board     *dashboard.Data
	sampler   resource.Sampler
	balance   BalanceFunc

	cbMu          sync.RWMutex
	onTrade       []func(metric.Trade)
	onError       []func(ErrorEvent)
	onPerformance []func(metric.Performance)

	loopMu     sync.Mutex
	loopStarts map[string]time.Time

	lifeMu sync.Mutex
	stop   context.CancelFunc
	runErr chan error
}

// New opens the store and assembles a Monitor from cfg. Invalid settings are
// logged and replaced with defaults; only storage failures abort construction.
func New(cfg config.Config, opts ...Option) (*Monitor, error) {
	problems := cfg.Validate()
	cfg.ApplyDefaults()

	events := eventlog.New(eventlog.Options{
		Level:      cfg.LogLevel,
		Format:     cfg.LogFormat,
		File:       cfg.LogFile,
		MaxSizeMB:  cfg.LogMaxSizeMB,
		MaxBackups: cfg.LogBackups,
	})
	for _, p := range problems {
		events.Warning("invalid configuration value replaced with default",
			eventlog.KindSystem, map[string]any{"problem": p})
	}

	st, err := store.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open metrics store: %w", err)
	}

	m := &Monitor{
		cfg:        cfg,
		store:      st,
		collector:  metrics.NewCollector(st, cfg.MaxDataPoints),
		events:     events,
		sampler:    resource.Nop{},
		loopStarts: make(map[string]time.Time),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.board = dashboard.New(m.collector, events, m.sampler, cfg.Symbols)

	events.Info("monitor initialized", eventlog.KindSystem, map[string]any{
		"db_path":        cfg.DBPath,
		"retention_days": cfg.RetentionDays,
		"symbols":        cfg.Symbols,
	})
	return m, nil
}

// Collector exposes the aggregation engine for direct queries.
func (m *Monitor) Collector() *metrics.Collector { return m.collector }

// Events exposes the event logger.
func (m *Monitor) Events() *eventlog.Logger { return m.events }

// Dashboard exposes the view composer.
func (m *Monitor) Dashboard() *dashboard.Data { return m.board }

// LogTrade records an executed trade: durable row, recent-cache entry, event
// log line, and trade callbacks. Disabled entirely when trade tracking is off.
func (m *Monitor) LogTrade(in TradeInput) (metric.Trade, error) {
	if !m.cfg.TrackTrades {
		return metric.Trade{}, nil
	}

	t := metric.NewTrade(in.Symbol, in.Side, in.Quantity, in.Price)
	t.Fee = in.Fee
	t.ExecutionTimeMS = in.ExecutionTimeMS
	t.SlippageBPS = in.SlippageBPS
	t.ProfitLoss = in.ProfitLoss
	t.ExecutionID = in.ExecutionID
	if t.ExecutionID == "" {
		t.ExecutionID = id.New()
	}

	if err := m.collector.RecordTrade(t); err != nil {
		m.events.Error("trade record failed", eventlog.KindError, map[string]any{
			"error_type": "storage_error",
			"error":      err.Error(),
			"symbol":     t.Symbol,
		})
		return metric.Trade{}, err
	}

	m.events.Info("trade executed", eventlog.KindTrade, map[string]any{
		"symbol":         t.Symbol,
		"side":           string(t.Side),
		"quantity":       t.Quantity,
		"price":          t.Price,
		"notional_value": t.NotionalValue,
		"execution_id":   t.ExecutionID,
	})
	if t.ProfitLoss != 0 {
		m.events.Info("trade profit/loss", eventlog.KindProfitLoss, map[string]any{
			"symbol":       t.Symbol,
			"profit_loss":  t.ProfitLoss,
			"execution_id": t.ExecutionID,
		})
	}

	m.cbMu.RLock()
	callbacks := append([]func(metric.Trade){}, m.onTrade...)
	m.cbMu.RUnlock()
	for _, cb := range callbacks {
		m.safeCall("trade", func() { cb(t) })
	}
	return t, nil
}

// LogPerformanceMetric records one performance sample and notifies callbacks.
func (m *Monitor) LogPerformanceMetric(name string, value metric.Value, unit, executionID string, attrs map[string]any) error {
	if !m.cfg.PerformanceMonitoring {
		return nil
	}

	p := metric.Performance{
		Timestamp:   metric.Now(),
		MetricName:  name,
		Value:       value,
		Unit:        unit,
		ExecutionID: executionID,
		Attributes:  attrs,
	}
	if err := m.collector.RecordPerformance(p); err != nil {
		m.events.Error("performance record failed", eventlog.KindError, map[string]any{
			"error_type": "storage_error",
			"error":      err.Error(),
			"metric":     name,
		})
		return err
	}

	m.events.Debug("performance metric", eventlog.KindPerformance, map[string]any{
		"metric": name,
		"value":  value.String(),
		"unit":   unit,
	})

	m.cbMu.RLock()
	callbacks := append([]func(metric.Performance){}, m.onPerformance...)
	m.cbMu.RUnlock()
	for _, cb := range callbacks {
		m.safeCall("performance", func() { cb(p) })
	}
	return nil
}

// LogLiquidityAnalysis records one liquidity observation.
func (m *Monitor) LogLiquidityAnalysis(l metric.Liquidity) error {
	if !m.cfg.LiquidityTracking {
		return nil
	}
	if l.Timestamp == "" {
		l.Timestamp = metric.Now()
	}

	if err := m.collector.RecordLiquidity(l); err != nil {
		m.events.Error("liquidity record failed", eventlog.KindError, map[string]any{
			"error_type": "storage_error",
			"error":      err.Error(),
			"symbol":     l.Symbol,
		})
		return err
	}

	m.events.Debug("liquidity analyzed", eventlog.KindLiquidity, map[string]any{
		"symbol":       l.Symbol,
		"spread":       l.Spread,
		"market_depth": l.MarketDepth,
	})
	return nil
}

// LogError records an error event and notifies error callbacks.
func (m *Monitor) LogError(e ErrorEvent) {
	if !m.cfg.ErrorTracking {
		return
	}

	data := map[string]any{"error_type": e.Type}
	for k, v := range e.Context {
		data[k] = v
	}

	if e.Critical {
		m.events.Critical(e.Message, eventlog.KindError, data)
	} else {
		m.events.Error(e.Message, eventlog.KindError, data)
	}

	m.cbMu.RLock()
	callbacks := append([]func(ErrorEvent){}, m.onError...)
	m.cbMu.RUnlock()
	for _, cb := range callbacks {
		m.safeCall("error", func() { cb(e) })
	}
}

// StartLoop marks the beginning of a trading-loop iteration.
func (m *Monitor) StartLoop(loopID string) {
	m.loopMu.Lock()
	m.loopStarts[loopID] = time.Now()
	m.loopMu.Unlock()
}

// EndLoop closes a loop iteration: it emits a loop event and a loop duration
// performance sample. An unknown loopID is recorded as an error event.
func (m *Monitor) EndLoop(loopID string, success bool, tradesExecuted int) {
	m.loopMu.Lock()
	start, ok := m.loopStarts[loopID]
	delete(m.loopStarts, loopID)
	m.loopMu.Unlock()

	if !ok {
		m.LogError(ErrorEvent{
			Type:    "loop_tracking",
			Message: "EndLoop called for unknown loop",
			Context: map[string]any{"loop_id": loopID},
		})
		return
	}

	elapsed := time.Since(start).Seconds()
	m.events.Info("loop completed", eventlog.KindLoop, map[string]any{
		"loop_id":         loopID,
		"execution_time":  elapsed,
		"success":         success,
		"trades_executed": tradesExecuted,
	})
	_ = m.LogPerformanceMetric("loop_duration_seconds", metric.Number(elapsed),
		"seconds", loopID, map[string]any{"success": success})
}

// OnTrade registers a callback invoked after each recorded trade.
func (m *Monitor) OnTrade(cb func(metric.Trade)) {
	m.cbMu.Lock()
	m.onTrade = append(m.onTrade, cb)
	m.cbMu.Unlock()
}

// OnError registers a callback invoked after each recorded error event.
func (m *Monitor) OnError(cb func(ErrorEvent)) {
	m.cbMu.Lock()
	m.onError = append(m.onError, cb)
	m.cbMu.Unlock()
}

// OnPerformance registers a callback invoked after each performance sample.
func (m *Monitor) OnPerformance(cb func(metric.Performance)) {
	m.cbMu.Lock()
	m.onPerformance = append(m.onPerformance, cb)
	m.cbMu.Unlock()
}

// safeCall runs a callback, converting a panic into an error event so one
// misbehaving subscriber cannot take down the producer's hot path.
func (m *Monitor) safeCall(kind string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			m.events.Error("callback panicked", eventlog.KindError, map[string]any{
				"error_type": "callback_panic",
				"callback":   kind,
				"panic":      fmt.Sprint(r),
			})
		}
	}()
	fn()
}

// Health is a point-in-time report on the monitoring layer itself.
type Health struct {
	Status       string           `json:"status"`
	Running      bool             `json:"running"`
	DatabaseRows map[string]int64 `json:"database_rows"`
	Timestamp    string           `json:"timestamp"`
}

// Health reports system status (same rule as the dashboard summary), whether
// background jobs are running, and per-table row counts.
func (m *Monitor) Health() (Health, error) {
	summary, err := m.board.Summary()
	if err != nil {
		return Health{}, err
	}
	rows, err := m.collector.Stats()
	if err != nil {
		return Health{}, err
	}
	return Health{
		Status:       summary.SystemStatus,
		Running:      m.running(),
		DatabaseRows: rows,
		Timestamp:    metric.Now(),
	}, nil
}

// Start launches the background jobs (system metrics, hourly growth,
// retention). It returns immediately; Stop shuts the jobs down. Calling Start
// while the jobs are already running is a no-op.
func (m *Monitor) Start(ctx context.Context) {
	m.lifeMu.Lock()
	defer m.lifeMu.Unlock()
	if m.stop != nil {
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	m.stop = cancel
	m.runErr = make(chan error, 1)
	go func() {
		m.runErr <- m.runJobs(ctx)
	}()
}

// Stop cancels the background jobs and waits for them to drain.
func (m *Monitor) Stop() error {
	m.lifeMu.Lock()
	defer m.lifeMu.Unlock()
	if m.stop == nil {
		return nil
	}

	m.stop()
	err := <-m.runErr
	m.stop = nil
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// running reports whether the background jobs are live.
func (m *Monitor) running() bool {
	m.lifeMu.Lock()
	defer m.lifeMu.Unlock()
	return m.stop != nil
}

// Close stops background jobs and releases the store.
func (m *Monitor) Close() error {
	if err := m.Stop(); err != nil {
		return err
	}
	return m.store.Close()
}
