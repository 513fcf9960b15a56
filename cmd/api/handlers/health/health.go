package handlers

import (
	"context"
	"runtime"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/shirou/gopsutil/cpu"
	"github.com/shirou/gopsutil/mem"

	"VideoTube.com/pkg/response"
)

type Status struct {
	Status        string  `json:"status"`
	CPUPercent    float64 `json:"cpu_percent"`
	MemoryPercent float64 `json:"memory_percent"`
	Goroutines    int     `json:"goroutines"`
}

// Health reports process liveness with host load. Metric failures are
// logged and reported as zero.
func Health(ctx context.Context, c *app.RequestContext) {
	s := Status{Status: "ok", Goroutines: runtime.NumGoroutine()}
	if percents, err := cpu.PercentWithContext(ctx, 0, false); err != nil {
		hlog.CtxWarnf(ctx, "read cpu usage: %v", err)
	} else if len(percents) > 0 {
		s.CPUPercent = percents[0]
	}
	if vm, err := mem.VirtualMemoryWithContext(ctx); err != nil {
		hlog.CtxWarnf(ctx, "read memory usage: %v", err)
	} else {
		s.MemoryPercent = vm.UsedPercent
	}
	response.SendResponse(c, nil, s)
}
