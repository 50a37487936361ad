// Package eventlog is the structured event logger consumed by the dashboard
// layer: leveled, typed events written as JSON lines through slog and
// mirrored into a bounded in-memory ring for "events since" queries.
package eventlog

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/Pouseidon-949/poseidon-monitor/cache"
	"github.com/Pouseidon-949/poseidon-monitor/metric"
)

// Level is the event severity.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarning
	LevelError
	LevelCritical
)

// levelCritical sits above slog's built-in error level.
const levelCritical = slog.LevelError + 4

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarning:
		return "WARNING"
	case LevelError:
		return "ERROR"
	case LevelCritical:
		return "CRITICAL"
	}
	return "INFO"
}

// ParseLevel maps a level name to a Level, defaulting to INFO.
func ParseLevel(s string) Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return LevelDebug
	case "INFO":
		return LevelInfo
	case "WARNING", "WARN":
		return LevelWarning
	case "ERROR":
		return LevelError
	case "CRITICAL":
		return LevelCritical
	}
	return LevelInfo
}

func (l Level) slogLevel() slog.Level {
	switch l {
	case LevelDebug:
		return slog.LevelDebug
	case LevelInfo:
		return slog.LevelInfo
	case LevelWarning:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	case LevelCritical:
		return levelCritical
	}
	return slog.LevelInfo
}

// Kind classifies an event.
type Kind string

const (
	KindTrade       Kind = "trade_execution"
	KindProfitLoss  Kind = "profit_loss"
	KindLoop        Kind = "loop_execution"
	KindLiquidity   Kind = "liquidity_analysis"
	KindError       Kind = "error_event"
	KindPerformance Kind = "performance_metric"
	KindGrowth      Kind = "growth_tracking"
	KindSystem      Kind = "system_event"
)

// Entry is one recorded event.
type Entry struct {
	Timestamp string         `json:"timestamp"`
	Level     string         `json:"level"`
	Kind      Kind           `json:"kind"`
	Message   string         `json:"message"`
	Data      map[string]any `json:"data,omitempty"`
}

// ringCapacity bounds the in-memory event window.
const ringCapacity = 1000

// Options configure a Logger.
type Options struct {
	Level      string    // minimum level name; defaults to INFO
	Format     string    // json, text or both; defaults to json
	File       string    // log file path; empty logs to stdout only
	MaxSizeMB  int       // rotate the file after this many MB
	MaxBackups int       // rotated files to keep
	Writer     io.Writer // overrides File/stdout when set (tests)
}

// Logger records events in memory and emits them as JSON lines.
type Logger struct {
	mu     sync.Mutex
	min    Level
	out    *slog.Logger
	ring   *cache.Ring[Entry]
	counts map[Kind]int
}

// New builds a Logger from opts. Format selects the line encoding: "text"
// emits key=value lines, everything else JSON. "both" tees stdout and the
// rotating file; "json" and "text" write to the file alone when one is
// configured.
func New(opts Options) *Logger {
	var file io.Writer
	if opts.File != "" {
		file = &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    opts.MaxSizeMB,
			MaxBackups: opts.MaxBackups,
		}
	}

	format := strings.ToLower(opts.Format)
	var w io.Writer = os.Stdout
	switch {
	case opts.Writer != nil:
		w = opts.Writer
	case format == "both" && file != nil:
		w = io.MultiWriter(os.Stdout, file)
	case file != nil:
		w = file
	}

	min := ParseLevel(opts.Level)
	hopts := &slog.HandlerOptions{Level: min.slogLevel()}
	var handler slog.Handler
	if format == "text" {
		handler = slog.NewTextHandler(w, hopts)
	} else {
		handler = slog.NewJSONHandler(w, hopts)
	}

	return &Logger{
		min:    min,
		out:    slog.New(handler),
		ring:   cache.New[Entry](ringCapacity),
		counts: make(map[Kind]int),
	}
}

func (l *Logger) log(level Level, kind Kind, msg string, data map[string]any) Entry {
	entry := Entry{
		Timestamp: metric.Now(),
		Level:     level.String(),
		Kind:      kind,
		Message:   msg,
		Data:      data,
	}
	if level < l.min {
		return entry
	}

	l.mu.Lock()
	l.ring.Append(entry)
	l.counts[kind]++
	l.mu.Unlock()

	l.out.Log(context.Background(), level.slogLevel(), msg,
		slog.String("kind", string(kind)),
		slog.Any("data", data),
	)
	return entry
}

// Debug records a DEBUG event.
func (l *Logger) Debug(msg string, kind Kind, data map[string]any) Entry {
	return l.log(LevelDebug, kind, msg, data)
}

// Info records an INFO event.
func (l *Logger) Info(msg string, kind Kind, data map[string]any) Entry {
	return l.log(LevelInfo, kind, msg, data)
}

// Warning records a WARNING event.
func (l *Logger) Warning(msg string, kind Kind, data map[string]any) Entry {
	return l.log(LevelWarning, kind, msg, data)
}

// Error records an ERROR event.
func (l *Logger) Error(msg string, kind Kind, data map[string]any) Entry {
	return l.log(LevelError, kind, msg, data)
}

// Critical records a CRITICAL event.
func (l *Logger) Critical(msg string, kind Kind, data map[string]any) Entry {
	return l.log(LevelCritical, kind, msg, data)
}

// Recent returns up to limit of the newest buffered events, oldest first,
// optionally filtered by kind and/or level name.
func (l *Logger) Recent(limit int, kind Kind, level string) []Entry {
	l.mu.Lock()
	events := l.ring.Items()
	l.mu.Unlock()

	filtered := events[:0:0]
	for _, e := range events {
		if kind != "" && e.Kind != kind {
			continue
		}
		if level != "" && e.Level != level {
			continue
		}
		filtered = append(filtered, e)
	}
	if limit > 0 && len(filtered) > limit {
		filtered = filtered[len(filtered)-limit:]
	}
	return filtered
}

// EventsSince returns buffered events with timestamp >= ts, oldest first.
func (l *Logger) EventsSince(ts string) []Entry {
	l.mu.Lock()
	events := l.ring.Items()
	l.mu.Unlock()

	out := events[:0:0]
	for _, e := range events {
		if e.Timestamp >= ts {
			out = append(out, e)
		}
	}
	return out
}

// ErrorsSince returns ERROR and CRITICAL events with timestamp >= ts.
func (l *Logger) ErrorsSince(ts string) []Entry {
	out := []Entry{}
	for _, e := range l.EventsSince(ts) {
		if e.Level == LevelError.String() || e.Level == LevelCritical.String() {
			out = append(out, e)
		}
	}
	return out
}

// Counts returns the number of recorded events per kind.
func (l *Logger) Counts() map[Kind]int {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make(map[Kind]int, len(l.counts))
	for k, v := range l.counts {
		out[k] = v
	}
	return out
}
