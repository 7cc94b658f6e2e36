package outwriter

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/healthspeed/healthspeed/schema"
)

func sampleStatus() StatusReport {
	days := int64(9)
	return StatusReport{
		Tier:               "trial",
		TrialDaysRemaining: &days,
		Automation: schema.AutomationSettings{
			AutomationEnabled: true,
			RunSchedule:       schema.DailySchedule,
			AutoFixEnabled:    false,
		},
		LastScan: &schema.StoredScanSummary{
			ScanID:     "scan-abc",
			Timestamp:  1700000000,
			Health:     72,
			Speed:      48,
			IssueCount: 4,
		},
	}
}

func TestWriteStatusText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeStatusText(&buf, sampleStatus(), plainConfig()))
	out := buf.String()

	assert.Contains(t, out, "License tier: trial")
	assert.Contains(t, out, "Trial days remaining: 9")
	assert.Contains(t, out, "Automation: enabled (daily), auto-fix off")
	assert.Contains(t, out, "Health: 72 (Good)")
	assert.Contains(t, out, "Speed: 48 (Poor)")
	assert.Contains(t, out, "Issues: 4")
}

func TestWriteStatusTextNeverScanned(t *testing.T) {
	status := StatusReport{Tier: "free", Automation: schema.DefaultAutomationSettings()}

	var buf bytes.Buffer
	require.NoError(t, writeStatusText(&buf, status, plainConfig()))
	out := buf.String()

	assert.Contains(t, out, "License tier: free")
	assert.NotContains(t, out, "Trial days")
	assert.Contains(t, out, "Automation: disabled, auto-fix off")
	assert.Contains(t, out, "Last scan: never")
}

func TestWriteStatusCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeStatusCSV(&buf, sampleStatus()))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.NotEmpty(t, records)
	assert.Equal(t, []string{"key", "value"}, records[0])

	values := make(map[string]string, len(records))
	for _, record := range records[1:] {
		values[record[0]] = record[1]
	}
	assert.Equal(t, "trial", values["tier"])
	assert.Equal(t, "true", values["automation_enabled"])
	assert.Equal(t, "daily", values["run_schedule"])
	assert.Equal(t, "9", values["trial_days_remaining"])
	assert.Equal(t, "scan-abc", values["last_scan_id"])
}
