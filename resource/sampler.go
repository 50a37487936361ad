// Package resource abstracts process/system resource sampling behind a
// capability interface. Callers pick an implementation at construction time;
// there are no runtime availability checks at call sites.
package resource

import "errors"

// ErrUnavailable is returned by samplers that cannot observe the host.
var ErrUnavailable = errors.New("resource sampling unavailable")

// Usage is one snapshot of process and host resource consumption.
type Usage struct {
	CPUPercent    float64 `json:"cpu_percent"`
	MemoryPercent float64 `json:"memory_percent"`
	MemoryMB      float64 `json:"memory_mb"`
	DiskPercent   float64 `json:"disk_usage_percent"`
	NetBytesSent  uint64  `json:"network_bytes_sent"`
	NetBytesRecv  uint64  `json:"network_bytes_recv"`
	Load1         float64 `json:"load_1m"`
	ProcessCount  int     `json:"process_count"`
}

// Sampler produces resource usage snapshots.
type Sampler interface {
	Sample() (Usage, error)
}

// Nop is the no-op sampler used when host observation is disabled.
type Nop struct{}

// Sample always reports ErrUnavailable.
func (Nop) Sample() (Usage, error) {
	return Usage{}, ErrUnavailable
}
