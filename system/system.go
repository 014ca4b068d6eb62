// Package system reports host-level information: CPU/memory/disk/load
// utilization and the machine's non-loopback IP addresses. It no longer
// carries the teacher's container-runtime inspection, since this deployment
// has no container layer to report on.
package system

import (
	"net"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/load"
	"github.com/shirou/gopsutil/v3/mem"
)

// IPAddresses lists the host's non-loopback interface addresses.
type IPAddresses struct {
	IPAddresses []string `json:"ip_addresses"`
}

// Utilization is a snapshot of host resource usage, surfaced on the
// gateway's health endpoint alongside SOME/IP service availability.
type Utilization struct {
	MemoryTotal uint64  `json:"memory_total"`
	MemoryUsed  uint64  `json:"memory_used"`
	SwapTotal   uint64  `json:"swap_total"`
	SwapUsed    uint64  `json:"swap_used"`
	LoadAvg1    float64 `json:"load_average1"`
	LoadAvg5    float64 `json:"load_average5"`
	LoadAvg15   float64 `json:"load_average15"`
	CPUPercent  float64 `json:"cpu_percent"`
	DiskTotal   uint64  `json:"disk_total"`
	DiskUsed    uint64  `json:"disk_used"`
}

// GetIPAddresses returns every non-loopback address bound to this host.
func GetIPAddresses() (*IPAddresses, error) {
	var addrs []string
	ifaceAddrs, err := net.InterfaceAddrs()
	if err != nil {
		return nil, err
	}
	for _, addr := range ifaceAddrs {
		ipNet, ok := addr.(*net.IPNet)
		if ok && !ipNet.IP.IsLoopback() {
			addrs = append(addrs, ipNet.IP.String())
		}
	}
	return &IPAddresses{IPAddresses: addrs}, nil
}

// GetUtilization samples CPU, memory, swap, load average, and root
// filesystem usage.
func GetUtilization() (*Utilization, error) {
	c, err := cpu.Percent(0, false)
	if err != nil {
		return nil, err
	}
	m, err := mem.VirtualMemory()
	if err != nil {
		return nil, err
	}
	s, err := mem.SwapMemory()
	if err != nil {
		return nil, err
	}
	l, err := load.Avg()
	if err != nil {
		return nil, err
	}
	d, err := disk.Usage("/")
	if err != nil {
		return nil, err
	}

	return &Utilization{
		MemoryTotal: m.Total,
		MemoryUsed:  m.Used,
		SwapTotal:   s.Total,
		SwapUsed:    s.Used,
		CPUPercent:  c[0],
		LoadAvg1:    l.Load1,
		LoadAvg5:    l.Load5,
		LoadAvg15:   l.Load15,
		DiskTotal:   d.Total,
		DiskUsed:    d.Used,
	}, nil
}
