package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/healthspeed/healthspeed/internal/contract"
	"github.com/healthspeed/healthspeed/schema"
)

// WriteScanList prints stored scan summaries, newest first.
func (ow *OutWriter) WriteScanList(summaries []schema.StoredScanSummary, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, summaries)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeScanListCSV(w, summaries)
		}, "Wrote CSV")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeScanListTable(w, summaries, cfg)
		}, "Wrote table")
	}
}

// WriteChangelog prints the record of changes made to the host.
func (ow *OutWriter) WriteChangelog(entries []schema.ChangelogEntry, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, entries)
		}, "Wrote JSON")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeChangelogTable(w, entries)
		}, "Wrote table")
	}
}

func writeScanListTable(w io.Writer, summaries []schema.StoredScanSummary, cfg *contract.Config) error {
	if len(summaries) == 0 {
		_, err := fmt.Fprintln(w, "No scans recorded yet.")
		return err
	}

	table := tablewriter.NewWriter(w)
	table.Header([]string{"When", "Scan ID", "Health", "Speed", "Issues"})

	var data [][]string
	for _, summary := range summaries {
		health := strconv.Itoa(summary.Health)
		speed := strconv.Itoa(summary.Speed)
		if cfg.UseColor {
			health = contract.GetColorScore(summary.Health)
			speed = contract.GetColorScore(summary.Speed)
		}
		data = append(data, []string{
			formatTimestamp(summary.Timestamp),
			contract.TruncateText(summary.ScanID, 12),
			health,
			speed,
			strconv.Itoa(summary.IssueCount),
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

func writeScanListCSV(w io.Writer, summaries []schema.StoredScanSummary) error {
	header := []string{"scan_id", "timestamp", "duration_ms", "health", "speed", "issue_count"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, summary := range summaries {
			row := []string{
				summary.ScanID,
				strconv.FormatUint(summary.Timestamp, 10),
				strconv.FormatUint(summary.DurationMs, 10),
				strconv.Itoa(summary.Health),
				strconv.Itoa(summary.Speed),
				strconv.Itoa(summary.IssueCount),
			}
			if err := cw.Write(row); err != nil {
				return fmt.Errorf("failed to write CSV row: %w", err)
			}
		}
		return nil
	})
}

func writeChangelogTable(w io.Writer, entries []schema.ChangelogEntry) error {
	if len(entries) == 0 {
		_, err := fmt.Fprintln(w, "No changes recorded yet.")
		return err
	}

	table := tablewriter.NewWriter(w)
	table.Header([]string{"When", "Action", "Target", "Reason"})

	var data [][]string
	for _, entry := range entries {
		data = append(data, []string{
			formatTimestamp(uint64(entry.Timestamp)),
			entry.Action,
			contract.TruncateText(entry.Path, 40),
			contract.TruncateText(entry.Reason, 50),
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

func formatTimestamp(ts uint64) string {
	return time.Unix(int64(ts), 0).Format("2006-01-02 15:04")
}
