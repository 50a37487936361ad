// Package dashboard assembles aggregation results, recent-window caches and
// event-log output into read-only view models for monitoring frontends.
package dashboard

import (
	"encoding/json"
	"runtime"
	"time"

	"github.com/Pouseidon-949/poseidon-monitor/eventlog"
	"github.com/Pouseidon-949/poseidon-monitor/metric"
	"github.com/Pouseidon-949/poseidon-monitor/metrics"
	"github.com/Pouseidon-949/poseidon-monitor/resource"
)

// System status values.
const (
	StatusHealthy  = "healthy"
	StatusWarning  = "warning"
	StatusCritical = "critical"
)

// EventSource is the narrow contract against the external event logger.
type EventSource interface {
	Recent(limit int, kind eventlog.Kind, level string) []eventlog.Entry
	EventsSince(ts string) []eventlog.Entry
	ErrorsSince(ts string) []eventlog.Entry
}

// Data composes dashboard views. All views are computed on demand from the
// collector and the event source; nothing is cached here.
type Data struct {
	collector *metrics.Collector
	events    EventSource
	sampler   resource.Sampler
	symbols   []string
	start     time.Time
}

// New wires a composer. symbols is the watchlist used for the liquidity
// overview.
func New(c *metrics.Collector, events EventSource, sampler resource.Sampler, symbols []string) *Data {
	return &Data{
		collector: c,
		events:    events,
		sampler:   sampler,
		symbols:   symbols,
		start:     time.Now(),
	}
}

// Summary is the top-level health view.
type Summary struct {
	Timestamp       string  `json:"timestamp"`
	SystemStatus    string  `json:"system_status"`
	UptimeSeconds   int64   `json:"uptime_seconds"`
	TotalTrades24h  int     `json:"total_trades_24h"`
	TotalVolume24h  float64 `json:"total_volume_24h"`
	TotalPnL24h     float64 `json:"total_pnl_24h"`
	Growth24h       float64 `json:"growth_24h"`
	ErrorCount24h   int     `json:"error_count_24h"`
	ActiveLoops     int     `json:"active_loops"`
	MemoryUsageMB   float64 `json:"memory_usage_mb"`
	CPUUsagePercent float64 `json:"cpu_usage_percent"`
}

// ErrorSummary describes recent error activity.
type ErrorSummary struct {
	TotalErrors    int              `json:"total_errors"`
	ErrorTypes     map[string]int   `json:"error_types"`
	CriticalErrors int              `json:"critical_errors"`
	RecentErrors   []eventlog.Entry `json:"recent_errors"`
}

// Trading is the trading-focused view.
type Trading struct {
	Timestamp          string                         `json:"timestamp"`
	RecentTrades       []metric.Trade                 `json:"recent_trades"`
	TradingStats       metrics.TradingSummary         `json:"trading_stats"`
	PerformanceMetrics map[string]metrics.MetricStats `json:"performance_metrics"`
	HourlyGrowth       []metric.Growth                `json:"hourly_growth"`
	ErrorSummary       ErrorSummary                   `json:"error_summary"`
	LiquidityOverview  []metrics.LiquiditySummary     `json:"liquidity_overview"`
}

// LoopSample is one loop execution extracted from the event log.
type LoopSample struct {
	Timestamp      string  `json:"timestamp"`
	ExecutionTime  float64 `json:"execution_time"`
	Success        bool    `json:"success"`
	TradesExecuted int     `json:"trades_executed"`
	LoopID         string  `json:"loop_id"`
}

// SystemMetrics are process-level gauges for the performance view.
type SystemMetrics struct {
	UptimeSeconds float64          `json:"uptime_seconds"`
	Goroutines    int              `json:"goroutines"`
	DatabaseRows  map[string]int64 `json:"database_rows"`
}

// ErrorRates summarize error frequency over a window.
type ErrorRates struct {
	ErrorRatePercent    float64 `json:"error_rate_percent"`
	CriticalRatePercent float64 `json:"critical_rate_percent"`
	EventsPerHour       float64 `json:"events_per_hour"`
}

// Performance is the performance-monitoring view.
type Performance struct {
	Timestamp           string           `json:"timestamp"`
	LoopPerformance     []LoopSample     `json:"loop_performance"`
	SystemMetrics       SystemMetrics    `json:"system_metrics"`
	ErrorRates          ErrorRates       `json:"error_rates"`
	ResourceUtilization resource.Usage   `json:"resource_utilization"`
	ExecutionTimeline   []eventlog.Entry `json:"execution_timeline"`
}

// RealTime is the live-monitoring view.
type RealTime struct {
	Timestamp        string   `json:"timestamp"`
	EventsPerMinute  float64  `json:"events_per_minute"`
	TradesLastHour   int      `json:"trades_last_hour"`
	AvgExecutionTime float64  `json:"avg_execution_time"`
	SystemLoad       float64  `json:"system_load"`
	MemoryUsageMB    float64  `json:"memory_usage"`
	ErrorRatePercent float64  `json:"error_rate"`
	ActiveComponents []string `json:"active_components"`
}

// Export bundles every view for the JSON export contract.
type Export struct {
	Summary     Summary     `json:"summary"`
	Trading     Trading     `json:"trading"`
	Performance Performance `json:"performance"`
	RealTime    RealTime    `json:"real_time"`
}

// Summary builds the top-level health view over the last 24 hours.
func (d *Data) Summary() (Summary, error) {
	trading, err := d.collector.TradingSummary(24)
	if err != nil {
		return Summary{}, err
	}
	growth, err := d.collector.GrowthSummary(24)
	if err != nil {
		return Summary{}, err
	}

	errs := d.events.ErrorsSince(since(24 * time.Hour))
	usage, _ := d.sampler.Sample()

	return Summary{
		Timestamp:       metric.Now(),
		SystemStatus:    classifyStatus(trading.TotalTrades, errs),
		UptimeSeconds:   int64(time.Since(d.start).Seconds()),
		TotalTrades24h:  trading.TotalTrades,
		TotalVolume24h:  trading.TotalVolume,
		TotalPnL24h:     trading.TotalPnL,
		Growth24h:       growth.TotalGrowth,
		ErrorCount24h:   len(errs),
		ActiveLoops:     1,
		MemoryUsageMB:   usage.MemoryMB,
		CPUUsagePercent: usage.CPUPercent,
	}, nil
}

// Trading builds the trading view over the trailing window.
func (d *Data) Trading(hours int) (Trading, error) {
	stats, err := d.collector.TradingSummary(hours)
	if err != nil {
		return Trading{}, err
	}
	perf, err := d.collector.PerformanceSummary(hours)
	if err != nil {
		return Trading{}, err
	}
	growth, err := d.collector.GrowthRecords(hours)
	if err != nil {
		return Trading{}, err
	}

	trades, err := d.collector.Trades(hours, "")
	if err != nil {
		return Trading{}, err
	}
	// Trades arrive newest first; keep the newest 20 in chronological order.
	if len(trades) > 20 {
		trades = trades[:20]
	}
	for i, j := 0, len(trades)-1; i < j; i, j = i+1, j-1 {
		trades[i], trades[j] = trades[j], trades[i]
	}

	var overview []metrics.LiquiditySummary
	for _, symbol := range d.symbols {
		summary, err := d.collector.LiquiditySummary(symbol, hours)
		if err != nil {
			return Trading{}, err
		}
		if summary.DataPoints > 0 {
			overview = append(overview, summary)
		}
	}

	return Trading{
		Timestamp:          metric.Now(),
		RecentTrades:       trades,
		TradingStats:       stats,
		PerformanceMetrics: perf,
		HourlyGrowth:       growth,
		ErrorSummary:       d.errorSummary(hours),
		LiquidityOverview:  overview,
	}, nil
}

// Performance builds the performance view over the trailing window.
func (d *Data) Performance(hours int) (Performance, error) {
	rows, err := d.collector.Stats()
	if err != nil {
		return Performance{}, err
	}

	usage, _ := d.sampler.Sample()
	cutoff := since(time.Duration(hours) * time.Hour)

	var loops []LoopSample
	for _, e := range d.events.Recent(1000, eventlog.KindLoop, "") {
		if e.Timestamp < cutoff {
			continue
		}
		loops = append(loops, LoopSample{
			Timestamp:      e.Timestamp,
			ExecutionTime:  asFloat(e.Data["execution_time"]),
			Success:        asBool(e.Data["success"]),
			TradesExecuted: int(asFloat(e.Data["trades_executed"])),
			LoopID:         asString(e.Data["loop_id"]),
		})
	}

	var timeline []eventlog.Entry
	for _, e := range d.events.EventsSince(cutoff) {
		switch e.Kind {
		case eventlog.KindTrade, eventlog.KindLoop, eventlog.KindError:
			timeline = append(timeline, e)
		}
	}

	return Performance{
		Timestamp:       metric.Now(),
		LoopPerformance: loops,
		SystemMetrics: SystemMetrics{
			UptimeSeconds: time.Since(d.start).Seconds(),
			Goroutines:    runtime.NumGoroutine(),
			DatabaseRows:  rows,
		},
		ErrorRates:          d.errorRates(hours),
		ResourceUtilization: usage,
		ExecutionTimeline:   timeline,
	}, nil
}

// RealTime builds the live view from the last hour of activity.
func (d *Data) RealTime() (RealTime, error) {
	trades, err := d.collector.Trades(1, "")
	if err != nil {
		return RealTime{}, err
	}

	var execTime float64
	for _, t := range trades {
		execTime += t.ExecutionTimeMS
	}
	avgExec := 0.0
	if len(trades) > 0 {
		avgExec = execTime / float64(len(trades))
	}

	events := d.events.Recent(100, "", "")
	usage, _ := d.sampler.Sample()

	return RealTime{
		Timestamp:        metric.Now(),
		EventsPerMinute:  eventsPerMinute(events),
		TradesLastHour:   len(trades),
		AvgExecutionTime: avgExec,
		SystemLoad:       usage.Load1,
		MemoryUsageMB:    usage.MemoryMB,
		ErrorRatePercent: errorShare(events),
		ActiveComponents: []string{"collector", "eventlog", "dashboard", "scheduler"},
	}, nil
}

// ExportJSON renders every view as one indented JSON document.
func (d *Data) ExportJSON() ([]byte, error) {
	summary, err := d.Summary()
	if err != nil {
		return nil, err
	}
	trading, err := d.Trading(24)
	if err != nil {
		return nil, err
	}
	performance, err := d.Performance(24)
	if err != nil {
		return nil, err
	}
	realTime, err := d.RealTime()
	if err != nil {
		return nil, err
	}

	return json.MarshalIndent(Export{
		Summary:     summary,
		Trading:     trading,
		Performance: performance,
		RealTime:    realTime,
	}, "", "  ")
}

// classifyStatus applies the fixed status rule: critical on heavy or CRITICAL
// errors, warning on moderate errors or a silent trading engine, else healthy.
func classifyStatus(totalTrades int, errs []eventlog.Entry) string {
	if len(errs) > 50 {
		return StatusCritical
	}
	for _, e := range errs {
		if e.Level == "CRITICAL" {
			return StatusCritical
		}
	}
	if len(errs) > 10 || totalTrades == 0 {
		return StatusWarning
	}
	return StatusHealthy
}

func (d *Data) errorSummary(hours int) ErrorSummary {
	errs := d.events.ErrorsSince(since(time.Duration(hours) * time.Hour))

	summary := ErrorSummary{
		TotalErrors:  len(errs),
		ErrorTypes:   map[string]int{},
		RecentErrors: errs,
	}
	for _, e := range errs {
		kind := asString(e.Data["error_type"])
		if kind == "" {
			kind = "unknown"
		}
		summary.ErrorTypes[kind]++
		if e.Level == "CRITICAL" {
			summary.CriticalErrors++
		}
	}
	if len(summary.RecentErrors) > 10 {
		summary.RecentErrors = summary.RecentErrors[len(summary.RecentErrors)-10:]
	}
	return summary
}

func (d *Data) errorRates(hours int) ErrorRates {
	events := d.events.EventsSince(since(time.Duration(hours) * time.Hour))
	if len(events) == 0 || hours <= 0 {
		return ErrorRates{}
	}

	var errors, criticals int
	for _, e := range events {
		switch e.Level {
		case "ERROR":
			errors++
		case "CRITICAL":
			errors++
			criticals++
		}
	}

	total := float64(len(events))
	return ErrorRates{
		ErrorRatePercent:    float64(errors) / total * 100,
		CriticalRatePercent: float64(criticals) / total * 100,
		EventsPerHour:       total / float64(hours),
	}
}

// eventsPerMinute averages event arrival over the distinct minutes observed.
func eventsPerMinute(events []eventlog.Entry) float64 {
	if len(events) == 0 {
		return 0
	}
	minutes := map[string]int{}
	for _, e := range events {
		if len(e.Timestamp) >= 16 {
			minutes[e.Timestamp[:16]]++ // YYYY-MM-DDTHH:MM
		}
	}
	if len(minutes) == 0 {
		return 0
	}
	return float64(len(events)) / float64(len(minutes))
}

func errorShare(events []eventlog.Entry) float64 {
	if len(events) == 0 {
		return 0
	}
	errors := 0
	for _, e := range events {
		if e.Level == "ERROR" || e.Level == "CRITICAL" {
			errors++
		}
	}
	return float64(errors) / float64(len(events)) * 100
}

func since(window time.Duration) string {
	return metric.FormatTime(time.Now().UTC().Add(-window))
}

func asFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	}
	return 0
}

func asBool(v any) bool {
	b, _ := v.(bool)
	return b
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}
