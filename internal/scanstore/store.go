package scanstore

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/healthspeed/healthspeed/schema"
)

// SaveScan persists a scan result as an idempotent upsert keyed by scan id.
func (s *Store) SaveScan(result *schema.ScanResult) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to serialize scan: %w", err)
	}

	query := rebind(s.backend, upsertScanQuery(s.backend))
	_, err = s.db.Exec(query,
		result.ScanID,
		int64(result.Timestamp),
		int64(result.DurationMs),
		result.Scores.Health,
		result.Scores.Speed,
		len(result.Issues),
		string(payload),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert scan %s: %w", result.ScanID, err)
	}
	return nil
}

// GetScan loads a full scan result by id.
func (s *Store) GetScan(scanID string) (*schema.ScanResult, error) {
	query := rebind(s.backend, fmt.Sprintf(
		"SELECT scan_data FROM %s WHERE scan_id = ?", scansTable))

	var payload string
	if err := s.db.QueryRow(query, scanID).Scan(&payload); err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("scan %s not found", scanID)
		}
		return nil, fmt.Errorf("failed to load scan %s: %w", scanID, err)
	}

	var result schema.ScanResult
	if err := json.Unmarshal([]byte(payload), &result); err != nil {
		return nil, fmt.Errorf("failed to parse scan %s: %w", scanID, err)
	}
	return &result, nil
}

// RecentScans returns up to limit scan summaries, newest first.
func (s *Store) RecentScans(limit int) ([]schema.StoredScanSummary, error) {
	query := rebind(s.backend, fmt.Sprintf(
		`SELECT scan_id, scan_timestamp, duration_ms, health_score, speed_score, issue_count
		 FROM %s ORDER BY scan_timestamp DESC LIMIT ?`, scansTable))

	rows, err := s.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent scans: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []schema.StoredScanSummary
	for rows.Next() {
		var summary schema.StoredScanSummary
		var ts, duration int64
		if err := rows.Scan(&summary.ScanID, &ts, &duration,
			&summary.Health, &summary.Speed, &summary.IssueCount); err != nil {
			return nil, fmt.Errorf("scan row error: %w", err)
		}
		summary.Timestamp = uint64(ts)
		summary.DurationMs = uint64(duration)
		out = append(out, summary)
	}
	return out, rows.Err()
}

// LastScanTimestamp returns the newest persisted scan timestamp, with false
// when no scan exists yet.
func (s *Store) LastScanTimestamp() (uint64, bool, error) {
	query := fmt.Sprintf("SELECT MAX(scan_timestamp) FROM %s", scansTable)

	var ts sql.NullInt64
	if err := s.db.QueryRow(query).Scan(&ts); err != nil {
		return 0, false, fmt.Errorf("failed to query last scan timestamp: %w", err)
	}
	if !ts.Valid {
		return 0, false, nil
	}
	return uint64(ts.Int64), true, nil
}

// GetAutomationSettings returns persisted scheduler settings, or defaults
// when the singleton row was never written.
func (s *Store) GetAutomationSettings() (schema.AutomationSettings, error) {
	query := fmt.Sprintf(
		"SELECT automation_enabled, run_schedule, auto_fix_enabled FROM %s WHERE id = 1",
		settingsTable)

	var enabled, autoFix int
	var runSchedule string
	err := s.db.QueryRow(query).Scan(&enabled, &runSchedule, &autoFix)
	if err == sql.ErrNoRows {
		return schema.DefaultAutomationSettings(), nil
	}
	if err != nil {
		return schema.AutomationSettings{}, fmt.Errorf("failed to load automation settings: %w", err)
	}

	return schema.AutomationSettings{
		AutomationEnabled: enabled != 0,
		RunSchedule:       schema.Schedule(runSchedule),
		AutoFixEnabled:    autoFix != 0,
	}, nil
}

// SetAutomationSettings validates the schedule and persists the settings.
func (s *Store) SetAutomationSettings(settings schema.AutomationSettings) error {
	if _, ok := schema.ValidSchedules[settings.RunSchedule]; !ok {
		return fmt.Errorf("invalid run schedule: %s", settings.RunSchedule)
	}

	query := rebind(s.backend, upsertSettingsQuery(s.backend))
	_, err := s.db.Exec(query,
		boolToInt(settings.AutomationEnabled),
		string(settings.RunSchedule),
		boolToInt(settings.AutoFixEnabled),
		time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to persist automation settings: %w", err)
	}
	return nil
}

// ChangelogEntries returns up to limit changelog rows, newest first.
func (s *Store) ChangelogEntries(limit int) ([]schema.ChangelogEntry, error) {
	query := rebind(s.backend, fmt.Sprintf(
		`SELECT entry_timestamp, action, file_path, file_size_bytes, reason
		 FROM %s ORDER BY entry_timestamp DESC LIMIT ?`, changelogTable))

	rows, err := s.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query changelog: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []schema.ChangelogEntry
	for rows.Next() {
		var entry schema.ChangelogEntry
		var size sql.NullInt64
		if err := rows.Scan(&entry.Timestamp, &entry.Action, &entry.Path, &size, &entry.Reason); err != nil {
			return nil, fmt.Errorf("changelog row error: %w", err)
		}
		entry.SizeBytes = size.Int64
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// AppendChangelog records one host mutation.
func (s *Store) AppendChangelog(entry schema.ChangelogEntry) error {
	query := rebind(s.backend, fmt.Sprintf(
		`INSERT INTO %s (entry_timestamp, action, file_path, file_size_bytes, reason)
		 VALUES (?, ?, ?, ?, ?)`, changelogTable))

	_, err := s.db.Exec(query, entry.Timestamp, entry.Action, entry.Path, entry.SizeBytes, entry.Reason)
	if err != nil {
		return fmt.Errorf("failed to append changelog entry: %w", err)
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
