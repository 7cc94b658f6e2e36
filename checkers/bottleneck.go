package checkers

import (
	"context"
	"fmt"
	"strings"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/mem"

	"github.com/healthspeed/healthspeed/internal/contract"
	"github.com/healthspeed/healthspeed/schema"
)

const (
	minComfortableRAMGB   = 8.0
	ramExhaustionPercent  = 90.0
	minComfortableCores   = 4
	mechanicalHDDMinBytes = 500 * gigabyte
)

// weakCPUMarkers are brand substrings of entry-level processors that cap
// responsiveness regardless of other upgrades.
var weakCPUMarkers = []string{"Celeron", "Pentium", "Atom"}

// hardwareProfile is the snapshot BottleneckChecker analyzes. Probing and
// analysis are separate so the heuristics stay testable.
type hardwareProfile struct {
	ramTotalGB     float64
	ramUsedPercent float64
	cpuBrand       string
	cpuCores       int
	diskTotalBytes uint64
	diskModel      string
}

// BottleneckChecker looks for the hardware component most likely holding the
// machine back and points at the cheapest effective upgrade.
type BottleneckChecker struct{}

func NewBottleneckChecker() *BottleneckChecker {
	return &BottleneckChecker{}
}

func (c *BottleneckChecker) Name() string { return "bottleneck_analyzer" }

func (c *BottleneckChecker) Category() schema.CheckCategory { return schema.CategoryPerformance }

func (c *BottleneckChecker) Run(ctx context.Context, _ *schema.ScanContext) []schema.Issue {
	profile := probeHardware(ctx)
	if profile == nil {
		return nil
	}
	return analyzeBottlenecks(*profile)
}

func (c *BottleneckChecker) Fix(_ context.Context, actionID string, _ map[string]any) contract.FixOutcome {
	guides := map[string]string{
		"show_ssd_guide": "Replacing a mechanical hard drive with an SSD is the single biggest speed upgrade for an older machine. " +
			"Clone your current drive with free imaging software, swap the drives, and boot times typically drop from minutes to seconds.",
		"show_ram_guide": "Check your laptop or motherboard manual for the supported memory type (DDR4/DDR5) and maximum capacity, " +
			"then install matched modules in pairs. 16GB is a comfortable target for everyday multitasking.",
		"analyze_ram_hogs": "Open your system's task manager, sort processes by memory, and close or uninstall the heaviest ones you " +
			"do not need. Browsers with many tabs and chat apps are the usual culprits.",
	}
	guide, ok := guides[actionID]
	if !ok {
		return contract.NotApplicable()
	}
	return contract.Succeeded(schema.FixResult{
		Success: true,
		Message: guide,
	})
}

// probeHardware gathers the snapshot; nil when memory stats are unavailable,
// since every heuristic depends on them.
func probeHardware(ctx context.Context) *hardwareProfile {
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return nil
	}
	profile := hardwareProfile{
		ramTotalGB:     float64(vm.Total) / gigabyte,
		ramUsedPercent: vm.UsedPercent,
	}

	if infos, err := cpu.InfoWithContext(ctx); err == nil && len(infos) > 0 {
		profile.cpuBrand = infos[0].ModelName
	}
	if count, err := cpu.CountsWithContext(ctx, false); err == nil {
		profile.cpuCores = count
	}

	if partitions, err := disk.PartitionsWithContext(ctx, false); err == nil {
		for _, part := range partitions {
			usage, err := disk.UsageWithContext(ctx, part.Mountpoint)
			if err != nil {
				continue
			}
			if usage.Total > profile.diskTotalBytes {
				profile.diskTotalBytes = usage.Total
				profile.diskModel = part.Device
			}
		}
	}

	return &profile
}

// analyzeBottlenecks applies the upgrade heuristics to a hardware snapshot.
func analyzeBottlenecks(p hardwareProfile) []schema.Issue {
	var issues []schema.Issue

	if looksLikeMechanicalHDD(p) {
		issues = append(issues, schema.Issue{
			ID:       "bottleneck_mechanical_hdd",
			Severity: schema.SeverityWarning,
			Title:    "Mechanical Hard Drive Detected",
			Description: "Your main drive appears to be a mechanical hard disk. " +
				"Upgrading to an SSD is the most effective speed improvement available.",
			ImpactCategory: schema.ImpactPerformance,
			Fix: &schema.FixAction{
				ActionID:  "show_ssd_guide",
				Label:     "Show SSD Upgrade Guide",
				IsAutoFix: false,
			},
		})
	}

	switch {
	case p.ramTotalGB > 0 && p.ramTotalGB < minComfortableRAMGB:
		issues = append(issues, schema.Issue{
			ID:       "bottleneck_low_ram",
			Severity: schema.SeverityWarning,
			Title:    fmt.Sprintf("Low Memory (%.0fGB)", p.ramTotalGB),
			Description: fmt.Sprintf("Your system has %.0fGB of RAM. Modern applications need at least 8GB to run comfortably. "+
				"Adding memory reduces slowdowns when multitasking.", p.ramTotalGB),
			ImpactCategory: schema.ImpactPerformance,
			Fix: &schema.FixAction{
				ActionID:  "show_ram_guide",
				Label:     "Show RAM Upgrade Guide",
				IsAutoFix: false,
			},
		})
	case p.ramUsedPercent > ramExhaustionPercent:
		issues = append(issues, schema.Issue{
			ID:       "bottleneck_ram_exhaustion",
			Severity: schema.SeverityWarning,
			Title:    fmt.Sprintf("Memory Nearly Full (%.0f%% used)", p.ramUsedPercent),
			Description: "Your RAM is nearly exhausted even though the machine has a reasonable amount installed. " +
				"Something is consuming more memory than it should.",
			ImpactCategory: schema.ImpactPerformance,
			Fix: &schema.FixAction{
				ActionID:  "analyze_ram_hogs",
				Label:     "Find Memory-Hungry Programs",
				IsAutoFix: false,
			},
		})
	}

	if weakCPU(p) {
		issues = append(issues, schema.Issue{
			ID:       "bottleneck_weak_cpu",
			Severity: schema.SeverityInfo,
			Title:    "Entry-Level Processor",
			Description: fmt.Sprintf("Your processor (%s, %d cores) limits overall responsiveness. "+
				"A CPU upgrade usually means a new machine, so focus on SSD and RAM improvements first.", p.cpuBrand, p.cpuCores),
			ImpactCategory: schema.ImpactPerformance,
		})
	}

	if len(issues) == 0 {
		if p.ramTotalGB >= minComfortableRAMGB && p.cpuCores >= minComfortableCores {
			issues = append(issues, schema.Issue{
				ID:       "bottleneck_software_optimizable",
				Severity: schema.SeverityInfo,
				Title:    "Hardware Looks Capable",
				Description: "Your hardware is modern enough that any sluggishness is likely caused by software. " +
					"Trimming startup programs and freeing disk space should restore speed.",
				ImpactCategory: schema.ImpactPerformance,
			})
		} else {
			issues = append(issues, schema.Issue{
				ID:             "bottleneck_none",
				Severity:       schema.SeverityInfo,
				Title:          "No Hardware Bottleneck Found",
				Description:    "No single hardware component stands out as a bottleneck.",
				ImpactCategory: schema.ImpactPerformance,
			})
		}
	}

	return issues
}

// looksLikeMechanicalHDD flags big drives whose device name carries no SSD
// marker. Crude, but drives over 500GB without one are usually spinning.
func looksLikeMechanicalHDD(p hardwareProfile) bool {
	if p.diskTotalBytes <= mechanicalHDDMinBytes {
		return false
	}
	upper := strings.ToUpper(p.diskModel)
	return !strings.Contains(upper, "SSD") && !strings.Contains(upper, "NVME")
}

// weakCPU reports entry-level brands or too few physical cores.
func weakCPU(p hardwareProfile) bool {
	for _, marker := range weakCPUMarkers {
		if strings.Contains(p.cpuBrand, marker) {
			return true
		}
	}
	return p.cpuCores > 0 && p.cpuCores < minComfortableCores
}
