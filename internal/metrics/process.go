package metrics

import (
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/process"
	"github.com/sirupsen/logrus"
)

// ProcessStats снимает показатели текущего процесса для heartbeat-лога
type ProcessStats struct {
	StartTime time.Time
	proc      *process.Process
}

// NewProcessStats создаёт сборщик для текущего процесса
func NewProcessStats() (*ProcessStats, error) {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return nil, err
	}
	return &ProcessStats{StartTime: time.Now(), proc: proc}, nil
}

// Uptime возвращает время работы в виде "1ч 2м 3с"
func (ps *ProcessStats) Uptime() string {
	return FormatUptime(time.Since(ps.StartTime))
}

// FormatUptime форматирует длительность как в логах сервера
func FormatUptime(uptime time.Duration) string {
	days := int(uptime.Hours()) / 24
	hours := int(uptime.Hours()) % 24
	minutes := int(uptime.Minutes()) % 60
	seconds := int(uptime.Seconds()) % 60

	switch {
	case days > 0:
		return fmt.Sprintf("%dд %dч %dм %dс", days, hours, minutes, seconds)
	case hours > 0:
		return fmt.Sprintf("%dч %dм %dс", hours, minutes, seconds)
	case minutes > 0:
		return fmt.Sprintf("%dм %dс", minutes, seconds)
	default:
		return fmt.Sprintf("%dс", seconds)
	}
}

// RSSMegabytes возвращает резидентную память процесса в MB
func (ps *ProcessStats) RSSMegabytes() (float64, error) {
	info, err := ps.proc.MemoryInfo()
	if err != nil {
		return 0, err
	}
	return float64(info.RSS) / 1024 / 1024, nil
}

// CPUPercent возвращает загрузку CPU процессом; при ошибке - системную
func (ps *ProcessStats) CPUPercent() (float64, error) {
	percent, err := ps.proc.CPUPercent()
	if err == nil {
		return percent, nil
	}
	percents, err := cpu.Percent(100*time.Millisecond, false)
	if err != nil || len(percents) == 0 {
		return 0, err
	}
	return percents[0], nil
}

// Fields собирает показатели для структурированного лога
func (ps *ProcessStats) Fields() logrus.Fields {
	fields := logrus.Fields{
		"uptime":     ps.Uptime(),
		"goroutines": runtime.NumGoroutine(),
	}
	if rss, err := ps.RSSMegabytes(); err == nil {
		fields["rss_mb"] = fmt.Sprintf("%.1f", rss)
	}
	if cpuPercent, err := ps.CPUPercent(); err == nil {
		fields["cpu_percent"] = fmt.Sprintf("%.1f", cpuPercent)
	}
	return fields
}
