// Package parquet exports scan history to Parquet files using
// github.com/parquet-go/parquet-go, for analysis in external tooling.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/parquet-go/parquet-go"

	"github.com/healthspeed/healthspeed/schema"
)

// ScanRecord is one scan run flattened for columnar storage.
type ScanRecord struct {
	// ScanID is the unique identifier for this scan
	ScanID string `parquet:"scan_id,snappy"`

	// ScanTime is when the scan ran (stored as TIMESTAMP with nanosecond precision)
	ScanTime time.Time `parquet:"scan_time,snappy"`

	// DurationMs is how long the scan took in milliseconds
	DurationMs int64 `parquet:"duration_ms,snappy"`

	// HealthScore is the 0-100 health score
	HealthScore int32 `parquet:"health_score,snappy"`

	// SpeedScore is the 0-100 speed score
	SpeedScore int32 `parquet:"speed_score,snappy"`

	// HealthDelta is the health change versus the previous scan (nullable)
	HealthDelta *int32 `parquet:"health_delta,optional,snappy"`

	// SpeedDelta is the speed change versus the previous scan (nullable)
	SpeedDelta *int32 `parquet:"speed_delta,optional,snappy"`

	// IssueCount is the number of issues found
	IssueCount int32 `parquet:"issue_count,snappy"`
}

// IssueRecord is one issue from one scan, flattened for columnar storage.
type IssueRecord struct {
	// ScanID references the parent scan
	ScanID string `parquet:"scan_id,snappy"`

	// ScanTime is when the parent scan ran
	ScanTime time.Time `parquet:"scan_time,snappy"`

	// IssueID identifies the issue type
	IssueID string `parquet:"issue_id,snappy"`

	// Severity is critical, warning or info
	Severity string `parquet:"severity,snappy"`

	// Title is the short user-facing headline
	Title string `parquet:"title,snappy"`

	// ImpactCategory is which score the issue affects
	ImpactCategory string `parquet:"impact_category,snappy"`

	// FixActionID is the fix identifier, if the issue is fixable (nullable)
	FixActionID *string `parquet:"fix_action_id,optional,snappy"`

	// AutoFix reports whether the fix is safe to apply unattended
	AutoFix bool `parquet:"auto_fix,snappy"`
}

// FromScanResult flattens a full scan into one ScanRecord and its IssueRecords.
func FromScanResult(result *schema.ScanResult) (ScanRecord, []IssueRecord) {
	scanTime := time.Unix(int64(result.Timestamp), 0)

	record := ScanRecord{
		ScanID:      result.ScanID,
		ScanTime:    scanTime,
		DurationMs:  int64(result.DurationMs),
		HealthScore: int32(result.Scores.Health),
		SpeedScore:  int32(result.Scores.Speed),
		IssueCount:  int32(len(result.Issues)),
	}
	if result.Scores.HealthDelta != nil {
		delta := int32(*result.Scores.HealthDelta)
		record.HealthDelta = &delta
	}
	if result.Scores.SpeedDelta != nil {
		delta := int32(*result.Scores.SpeedDelta)
		record.SpeedDelta = &delta
	}

	issues := make([]IssueRecord, 0, len(result.Issues))
	for _, issue := range result.Issues {
		row := IssueRecord{
			ScanID:         result.ScanID,
			ScanTime:       scanTime,
			IssueID:        issue.ID,
			Severity:       string(issue.Severity),
			Title:          issue.Title,
			ImpactCategory: string(issue.ImpactCategory),
		}
		if issue.Fix != nil {
			action := issue.Fix.ActionID
			row.FixActionID = &action
			row.AutoFix = issue.Fix.IsAutoFix
		}
		issues = append(issues, row)
	}

	return record, issues
}

// WriteScansParquet writes scan records to a Parquet file.
func WriteScansParquet(data []ScanRecord, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// The schema is derived from the ScanRecord struct tags.
	writer := parquet.NewGenericWriter[ScanRecord](file)
	defer func() { _ = writer.Close() }()

	if _, err := writer.Write(data); err != nil {
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}

	return nil
}

// WriteIssuesParquet writes issue records to a Parquet file.
func WriteIssuesParquet(data []IssueRecord, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// The schema is derived from the IssueRecord struct tags.
	writer := parquet.NewGenericWriter[IssueRecord](file)
	defer func() { _ = writer.Close() }()

	if _, err := writer.Write(data); err != nil {
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}

	return nil
}
