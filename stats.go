package RangeGo

import (
	"net/http"
	"runtime"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"
)

// HealthHandler 存活探针
func HealthHandler(c *Context) {
	c.SendJSON(http.StatusOK, map[string]interface{}{"status": "ok"})
}

// StatsHandler 运行状态端点：主机CPU/内存与服务根目录所在磁盘用量
func StatsHandler(root string) HandlerFunc {
	return func(c *Context) {
		stats := map[string]interface{}{
			"goroutines": runtime.NumGoroutine(),
		}

		if percents, err := cpu.Percent(0, false); err == nil && len(percents) > 0 {
			stats["cpu_percent"] = percents[0]
		}
		if vm, err := mem.VirtualMemory(); err == nil {
			stats["mem_percent"] = vm.UsedPercent
			stats["mem_total"] = vm.Total
		}
		if du, err := disk.Usage(root); err == nil {
			stats["disk_percent"] = du.UsedPercent
			stats["disk_free"] = du.Free
		}

		c.SendJSON(http.StatusOK, stats)
	}
}
