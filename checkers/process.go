package checkers

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/shirou/gopsutil/v4/process"

	"github.com/healthspeed/healthspeed/internal/contract"
	"github.com/healthspeed/healthspeed/schema"
)

const (
	// highCPUPercent flags a single process hogging the CPU.
	highCPUPercent = 50.0
	// highMemoryMB flags a single process holding a lot of resident memory.
	highMemoryMB = 2048.0
	// topProcessLimit bounds how many processes are considered per scan.
	topProcessLimit = 5
)

// systemProcesses are never reported: killing or restarting them is not an
// option, so flagging them only scares the user.
var systemProcesses = []string{
	"system",
	"registry",
	"smss.exe",
	"csrss.exe",
	"wininit.exe",
	"services.exe",
	"lsass.exe",
	"svchost.exe",
	"kernel_task",
	"systemd",
}

// ProcessChecker flags individual processes that dominate CPU or memory.
type ProcessChecker struct{}

func NewProcessChecker() *ProcessChecker { return &ProcessChecker{} }

func (c *ProcessChecker) Name() string { return "process_monitor" }

func (c *ProcessChecker) Category() schema.CheckCategory { return schema.CategoryPerformance }

func (c *ProcessChecker) Run(ctx context.Context, scanCtx *schema.ScanContext) []schema.Issue {
	if scanCtx.Options.Quick {
		return nil
	}

	top, err := topProcesses(ctx, topProcessLimit)
	if err != nil {
		return nil
	}

	return c.analyze(top)
}

func (c *ProcessChecker) analyze(top []schema.ProcessInfo) []schema.Issue {
	var issues []schema.Issue

	for _, proc := range top {
		if proc.CPUPercent > highCPUPercent && !isSystemProcess(proc.Name) {
			issues = append(issues, schema.Issue{
				ID:             "high_cpu_" + sanitizeID(proc.Name),
				Severity:       schema.SeverityWarning,
				Title:          fmt.Sprintf("%s using %.1f%% CPU", proc.Name, proc.CPUPercent),
				Description:    "This application is consuming significant CPU resources, which may slow down your computer.",
				ImpactCategory: schema.ImpactPerformance,
				Fix: &schema.FixAction{
					ActionID:  "kill_process",
					Label:     "Stop Process",
					IsAutoFix: false,
					Params:    map[string]any{"pid": proc.PID, "name": proc.Name},
				},
			})
		}
	}

	for _, proc := range top {
		if proc.MemoryMB > highMemoryMB && !isSystemProcess(proc.Name) {
			issues = append(issues, schema.Issue{
				ID:             "high_memory_" + sanitizeID(proc.Name),
				Severity:       schema.SeverityInfo,
				Title:          fmt.Sprintf("%s using %.1f GB RAM", proc.Name, proc.MemoryMB/1024.0),
				Description:    "This application is using a lot of memory.",
				ImpactCategory: schema.ImpactPerformance,
				Fix: &schema.FixAction{
					ActionID:  "restart_process",
					Label:     "Restart App",
					IsAutoFix: false,
					Params:    map[string]any{"pid": proc.PID, "name": proc.Name},
				},
			})
		}
	}

	return issues
}

// Fix terminates the process named in the kill_process params. Restarting an
// app cannot be done for the user, so restart_process stays advisory.
func (c *ProcessChecker) Fix(ctx context.Context, actionID string, params map[string]any) contract.FixOutcome {
	if actionID != "kill_process" {
		return contract.NotApplicable()
	}

	pid, ok := pidParam(params)
	if !ok {
		return contract.Failed(fmt.Errorf("kill_process requires a pid parameter"))
	}

	proc, err := process.NewProcessWithContext(ctx, pid)
	if err != nil {
		return contract.Failed(fmt.Errorf("process %d not found: %w", pid, err))
	}
	if err := proc.KillWithContext(ctx); err != nil {
		return contract.Failed(fmt.Errorf("failed to kill process %d: %w", pid, err))
	}

	return contract.Succeeded(schema.FixResult{
		Success: true,
		Message: fmt.Sprintf("Process %d terminated", pid),
	})
}

// pidParam accepts the numeric types a pid takes after a JSON round trip.
func pidParam(params map[string]any) (int32, bool) {
	switch v := params["pid"].(type) {
	case int32:
		return v, true
	case int:
		return int32(v), true
	case int64:
		return int32(v), true
	case float64:
		return int32(v), true
	default:
		return 0, false
	}
}

func isSystemProcess(name string) bool {
	lower := strings.ToLower(name)
	for _, sys := range systemProcesses {
		if strings.Contains(lower, sys) {
			return true
		}
	}
	return false
}

// topProcesses returns the heaviest processes by resident memory, with CPU
// usage sampled since process start.
func topProcesses(ctx context.Context, limit int) ([]schema.ProcessInfo, error) {
	procs, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return nil, err
	}

	infos := make([]schema.ProcessInfo, 0, len(procs))
	for _, proc := range procs {
		name, err := proc.NameWithContext(ctx)
		if err != nil {
			continue
		}
		mem, err := proc.MemoryInfoWithContext(ctx)
		if err != nil || mem == nil {
			continue
		}
		cpu, err := proc.CPUPercentWithContext(ctx)
		if err != nil {
			cpu = 0
		}
		infos = append(infos, schema.ProcessInfo{
			PID:        proc.Pid,
			Name:       name,
			CPUPercent: cpu,
			MemoryMB:   float64(mem.RSS) / 1024.0 / 1024.0,
		})
	}

	sort.Slice(infos, func(i, j int) bool { return infos[i].MemoryMB > infos[j].MemoryMB })
	if len(infos) > limit {
		infos = infos[:limit]
	}
	return infos, nil
}
