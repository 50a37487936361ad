package resource

import (
	"os"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/load"
	"github.com/shirou/gopsutil/v4/mem"
	"github.com/shirou/gopsutil/v4/net"
	"github.com/shirou/gopsutil/v4/process"
)

// System samples the host via gopsutil. Individual gauge failures are
// tolerated; the affected field stays zero so one flaky source does not drop
// the whole snapshot.
type System struct{}

// Sample reads a Usage snapshot from the host.
func (System) Sample() (Usage, error) {
	var u Usage

	if percs, err := cpu.Percent(0, false); err == nil && len(percs) > 0 {
		u.CPUPercent = percs[0]
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		u.MemoryPercent = vm.UsedPercent
	}
	if p, err := process.NewProcess(int32(os.Getpid())); err == nil {
		if mi, err := p.MemoryInfo(); err == nil {
			u.MemoryMB = float64(mi.RSS) / 1024 / 1024
		}
	}
	if du, err := disk.Usage("/"); err == nil {
		u.DiskPercent = du.UsedPercent
	}
	if counters, err := net.IOCounters(false); err == nil && len(counters) > 0 {
		u.NetBytesSent = counters[0].BytesSent
		u.NetBytesRecv = counters[0].BytesRecv
	}
	if avg, err := load.Avg(); err == nil {
		u.Load1 = avg.Load1
	}
	if pids, err := process.Pids(); err == nil {
		u.ProcessCount = len(pids)
	}

	return u, nil
}
