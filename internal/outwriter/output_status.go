package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/healthspeed/healthspeed/internal/contract"
	"github.com/healthspeed/healthspeed/schema"
)

// StatusReport is the aggregate state shown by the status command.
type StatusReport struct {
	Tier               string                    `json:"tier"`
	TrialDaysRemaining *int64                    `json:"trial_days_remaining,omitempty"`
	Automation         schema.AutomationSettings `json:"automation"`
	LastScan           *schema.StoredScanSummary `json:"last_scan,omitempty"`
}

// WriteStatus writes the status report in the configured output format.
func (ow *OutWriter) WriteStatus(status StatusReport, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		switch cfg.Output {
		case schema.JSONOut:
			return writeJSON(w, status)
		case schema.CSVOut:
			return writeStatusCSV(w, status)
		default:
			return writeStatusText(w, status, cfg)
		}
	}, "Wrote status")
}

func writeStatusText(w io.Writer, status StatusReport, cfg *contract.Config) error {
	fmt.Fprintf(w, "License tier: %s\n", status.Tier)
	if status.TrialDaysRemaining != nil {
		fmt.Fprintf(w, "Trial days remaining: %d\n", *status.TrialDaysRemaining)
	}

	automation := "disabled"
	if status.Automation.AutomationEnabled {
		automation = fmt.Sprintf("enabled (%s)", status.Automation.RunSchedule)
	}
	autoFix := "off"
	if status.Automation.AutoFixEnabled {
		autoFix = "on"
	}
	fmt.Fprintf(w, "Automation: %s, auto-fix %s\n", automation, autoFix)

	if status.LastScan == nil {
		fmt.Fprintln(w, "Last scan: never")
		return nil
	}
	s := status.LastScan
	health := strconv.Itoa(s.Health)
	speed := strconv.Itoa(s.Speed)
	if cfg.UseColor {
		health = contract.GetColorScore(s.Health)
		speed = contract.GetColorScore(s.Speed)
	}
	fmt.Fprintf(w, "Last scan: %s  Health: %s (%s)  Speed: %s (%s)  Issues: %d\n",
		formatTimestamp(s.Timestamp),
		health, contract.GetScoreLabel(s.Health),
		speed, contract.GetScoreLabel(s.Speed),
		s.IssueCount)
	return nil
}

func writeStatusCSV(w io.Writer, status StatusReport) error {
	return writeCSVWithHeader(w, []string{"key", "value"}, func(cw *csv.Writer) error {
		rows := [][]string{
			{"tier", status.Tier},
			{"automation_enabled", strconv.FormatBool(status.Automation.AutomationEnabled)},
			{"run_schedule", string(status.Automation.RunSchedule)},
			{"auto_fix_enabled", strconv.FormatBool(status.Automation.AutoFixEnabled)},
		}
		if status.TrialDaysRemaining != nil {
			rows = append(rows, []string{"trial_days_remaining", strconv.FormatInt(*status.TrialDaysRemaining, 10)})
		}
		if status.LastScan != nil {
			rows = append(rows,
				[]string{"last_scan_id", status.LastScan.ScanID},
				[]string{"last_scan_health", strconv.Itoa(status.LastScan.Health)},
				[]string{"last_scan_speed", strconv.Itoa(status.LastScan.Speed)},
			)
		}
		for _, row := range rows {
			if err := cw.Write(row); err != nil {
				return err
			}
		}
		return nil
	})
}
