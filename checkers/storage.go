package checkers

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v4/disk"

	"github.com/healthspeed/healthspeed/internal/contract"
	"github.com/healthspeed/healthspeed/schema"
)

const (
	// lowSpacePercent free space below this is a warning.
	lowSpacePercent = 20.0
	// criticalSpacePercent free space below this is critical.
	criticalSpacePercent = 10.0
	// tempFileMaxAge is how old a temp file must be before cleanup touches it.
	tempFileMaxAge = 7 * 24 * time.Hour
	// tempCleanupThresholdBytes is the stale temp volume that triggers the issue.
	tempCleanupThresholdBytes = 100 * 1024 * 1024

	gigabyte = 1024 * 1024 * 1024
)

// StorageChecker reports low disk space and stale temp file buildup. Temp
// cleanup is the only built-in fix that deletes files, so it only touches
// the system temp directory and only files past tempFileMaxAge.
type StorageChecker struct {
	// tempDir is overridable for tests; empty means os.TempDir.
	tempDir string
}

func NewStorageChecker() *StorageChecker { return &StorageChecker{} }

func (c *StorageChecker) Name() string { return "storage_checker" }

func (c *StorageChecker) Category() schema.CheckCategory { return schema.CategoryPerformance }

func (c *StorageChecker) Run(ctx context.Context, _ *schema.ScanContext) []schema.Issue {
	var issues []schema.Issue

	partitions, err := disk.PartitionsWithContext(ctx, false)
	if err == nil {
		for _, part := range partitions {
			usage, err := disk.UsageWithContext(ctx, part.Mountpoint)
			if err != nil || usage.Total == 0 {
				continue
			}
			if issue, ok := lowSpaceIssue(part.Mountpoint, usage.Free, usage.Total); ok {
				issues = append(issues, issue)
			}
		}
	}

	if staleBytes, _, err := staleTempFiles(c.resolveTempDir()); err == nil && staleBytes > tempCleanupThresholdBytes {
		issues = append(issues, schema.Issue{
			ID:       "temp_files_accumulated",
			Severity: schema.SeverityInfo,
			Title:    fmt.Sprintf("%.1f GB of old temporary files", float64(staleBytes)/gigabyte),
			Description: fmt.Sprintf(
				"Temporary files older than %d days are taking up space and can be removed safely.",
				int(tempFileMaxAge.Hours()/24)),
			ImpactCategory: schema.ImpactPerformance,
			Fix: &schema.FixAction{
				ActionID:  "cleanup_temp_files",
				Label:     "Clean Up Temp Files",
				IsAutoFix: true,
			},
		})
	}

	return issues
}

func (c *StorageChecker) Fix(_ context.Context, actionID string, _ map[string]any) contract.FixOutcome {
	if actionID != "cleanup_temp_files" {
		return contract.NotApplicable()
	}

	removed, bytes, err := cleanupTempDir(c.resolveTempDir(), tempFileMaxAge)
	if err != nil {
		return contract.Failed(fmt.Errorf("temp cleanup failed: %w", err))
	}

	return contract.Succeeded(schema.FixResult{
		Success: true,
		Message: fmt.Sprintf("Removed %d temporary files (%.1f MB reclaimed)", removed, float64(bytes)/1024.0/1024.0),
	})
}

func (c *StorageChecker) resolveTempDir() string {
	if c.tempDir != "" {
		return c.tempDir
	}
	return os.TempDir()
}

// lowSpaceIssue classifies one volume's free space.
func lowSpaceIssue(mount string, free, total uint64) (schema.Issue, bool) {
	percentFree := float64(free) * 100 / float64(total)
	if percentFree >= lowSpacePercent {
		return schema.Issue{}, false
	}

	severity := schema.SeverityWarning
	title := fmt.Sprintf("Low Disk Space: %s", mount)
	if percentFree < criticalSpacePercent {
		severity = schema.SeverityCritical
		title = fmt.Sprintf("Critically Low Disk Space: %s", mount)
	}

	return schema.Issue{
		ID:       "low_disk_space_" + mountID(mount),
		Severity: severity,
		Title:    title,
		Description: fmt.Sprintf(
			"%s has only %.1f GB free (%.0f%% full). System performance and stability suffer when disks fill up.",
			mount, float64(free)/gigabyte, 100-percentFree),
		ImpactCategory: schema.ImpactPerformance,
	}, true
}

// staleTempFiles totals files older than tempFileMaxAge directly under dir.
func staleTempFiles(dir string) (int64, int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, 0, err
	}

	cutoff := time.Now().Add(-tempFileMaxAge)
	var total int64
	count := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}
		total += info.Size()
		count++
	}
	return total, count, nil
}

// cleanupTempDir removes regular files older than maxAge directly under dir.
// Files that cannot be removed (still open on Windows) are skipped.
func cleanupTempDir(dir string, maxAge time.Duration) (int, int64, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, 0, err
	}

	cutoff := time.Now().Add(-maxAge)
	removed := 0
	var reclaimed int64
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := os.Remove(path); err != nil {
			continue
		}
		removed++
		reclaimed += info.Size()
	}
	return removed, reclaimed, nil
}

// mountID keeps issue ids short for root-ish mounts.
func mountID(mount string) string {
	if mount == "/" {
		return "root"
	}
	return sanitizeID(strings.TrimPrefix(mount, "/"))
}
