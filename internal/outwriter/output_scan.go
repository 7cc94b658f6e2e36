package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/healthspeed/healthspeed/internal/contract"
	"github.com/healthspeed/healthspeed/schema"
)

// WriteScanResult prints a scan result, dispatching on the configured format.
func (ow *OutWriter) WriteScanResult(result *schema.ScanResult, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, result)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeScanCSV(w, result)
		}, "Wrote CSV")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeScanTable(w, result, cfg)
		}, "Wrote table")
	}
}

// WriteFixResult prints the outcome of a single fix action.
func (ow *OutWriter) WriteFixResult(actionID string, result schema.FixResult, cfg *contract.Config) error {
	if cfg.Output == schema.JSONOut {
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, map[string]any{
				"action_id": actionID,
				"result":    result,
			})
		}, "Wrote JSON")
	}

	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		if _, err := fmt.Fprintf(w, "Fix %s applied: %s\n", actionID, result.Message); err != nil {
			return err
		}
		if result.RollbackAvailable && result.RestorePointID != nil {
			_, err := fmt.Fprintf(w, "Restore point: %s\n", *result.RestorePointID)
			return err
		}
		return nil
	}, "Wrote result")
}

func writeScanTable(w io.Writer, result *schema.ScanResult, cfg *contract.Config) error {
	health := fmt.Sprintf("%d", result.Scores.Health)
	speed := fmt.Sprintf("%d", result.Scores.Speed)
	if cfg.UseColor {
		health = contract.GetColorScore(result.Scores.Health)
		speed = contract.GetColorScore(result.Scores.Speed)
	}

	if _, err := fmt.Fprintf(w, "Health: %s (%s)%s  Speed: %s (%s)%s\n",
		health, contract.GetScoreLabel(result.Scores.Health), formatDelta(result.Scores.HealthDelta),
		speed, contract.GetScoreLabel(result.Scores.Speed), formatDelta(result.Scores.SpeedDelta),
	); err != nil {
		return err
	}

	if len(result.Issues) == 0 {
		_, err := fmt.Fprintln(w, "No issues found.")
		return err
	}

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Severity", "Issue", "Impact", "Fix"})
	table.Configure(func(tc *tablewriter.Config) {
		tc.Row.Alignment.Global = tw.AlignLeft
	})

	maxTitle := getMaxTitleWidth(cfg)
	var data [][]string
	for _, issue := range result.Issues {
		severity := string(issue.Severity)
		if cfg.UseColor {
			severity = contract.GetColorSeverity(issue.Severity)
		}
		data = append(data, []string{
			severity,
			contract.TruncateText(issue.Title, maxTitle),
			string(issue.ImpactCategory),
			formatFix(issue.Fix),
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(w, "Found %d issues in %v (scan %s)\n",
		len(result.Issues), time.Duration(result.DurationMs)*time.Millisecond, result.ScanID)
	return err
}

func writeScanCSV(w io.Writer, result *schema.ScanResult) error {
	header := []string{"scan_id", "severity", "issue_id", "title", "impact", "fix_action", "auto_fix"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, issue := range result.Issues {
			action, auto := "", "false"
			if issue.Fix != nil {
				action = issue.Fix.ActionID
				if issue.Fix.IsAutoFix {
					auto = "true"
				}
			}
			row := []string{
				result.ScanID,
				string(issue.Severity),
				issue.ID,
				issue.Title,
				string(issue.ImpactCategory),
				action,
				auto,
			}
			if err := cw.Write(row); err != nil {
				return fmt.Errorf("failed to write CSV row: %w", err)
			}
		}
		return nil
	})
}

// formatDelta renders a score delta as a signed suffix, empty when absent.
func formatDelta(delta *int) string {
	if delta == nil {
		return ""
	}
	return fmt.Sprintf(" %+d", *delta)
}

// formatFix summarizes the fix column for one issue.
func formatFix(fix *schema.FixAction) string {
	if fix == nil {
		return "-"
	}
	if fix.IsAutoFix {
		return fix.ActionID + " (auto)"
	}
	return fix.ActionID
}
