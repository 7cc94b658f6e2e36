package scanstore

import (
	"fmt"
	"strings"

	"github.com/healthspeed/healthspeed/schema"
)

// createScansQuery returns portable DDL for the scans table. The full scan
// payload is stored as a JSON document beside the summary columns used for
// listing and delta computation.
func createScansQuery() string {
	return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		scan_id VARCHAR(64) PRIMARY KEY,
		scan_timestamp BIGINT NOT NULL,
		duration_ms BIGINT NOT NULL,
		health_score INTEGER NOT NULL,
		speed_score INTEGER NOT NULL,
		issue_count INTEGER NOT NULL,
		scan_data TEXT NOT NULL
	)`, scansTable)
}

// createSettingsQuery returns portable DDL for the settings singleton row.
func createSettingsQuery() string {
	return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		id INTEGER PRIMARY KEY,
		automation_enabled INTEGER NOT NULL,
		run_schedule VARCHAR(16) NOT NULL,
		auto_fix_enabled INTEGER NOT NULL,
		updated_at BIGINT NOT NULL
	)`, settingsTable)
}

// createChangelogQuery returns DDL for the append-only changelog. The
// surrogate key syntax differs per backend.
func createChangelogQuery(backend schema.StoreBackend) string {
	var idColumn string
	switch backend {
	case schema.MySQLBackend:
		idColumn = "id BIGINT PRIMARY KEY AUTO_INCREMENT"
	case schema.PostgreSQLBackend:
		idColumn = "id BIGSERIAL PRIMARY KEY"
	default:
		idColumn = "id INTEGER PRIMARY KEY AUTOINCREMENT"
	}

	return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		%s,
		entry_timestamp BIGINT NOT NULL,
		action VARCHAR(32) NOT NULL,
		file_path TEXT NOT NULL,
		file_size_bytes BIGINT,
		reason TEXT NOT NULL
	)`, changelogTable, idColumn)
}

// upsertScanQuery returns the idempotent insert keyed by scan id. MySQL has
// its own upsert syntax; SQLite and PostgreSQL share ON CONFLICT.
func upsertScanQuery(backend schema.StoreBackend) string {
	if backend == schema.MySQLBackend {
		return fmt.Sprintf(`INSERT INTO %s
			(scan_id, scan_timestamp, duration_ms, health_score, speed_score, issue_count, scan_data)
			VALUES (?, ?, ?, ?, ?, ?, ?)
			ON DUPLICATE KEY UPDATE
				scan_timestamp = VALUES(scan_timestamp),
				duration_ms = VALUES(duration_ms),
				health_score = VALUES(health_score),
				speed_score = VALUES(speed_score),
				issue_count = VALUES(issue_count),
				scan_data = VALUES(scan_data)`, scansTable)
	}

	return fmt.Sprintf(`INSERT INTO %s
		(scan_id, scan_timestamp, duration_ms, health_score, speed_score, issue_count, scan_data)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(scan_id) DO UPDATE SET
			scan_timestamp = excluded.scan_timestamp,
			duration_ms = excluded.duration_ms,
			health_score = excluded.health_score,
			speed_score = excluded.speed_score,
			issue_count = excluded.issue_count,
			scan_data = excluded.scan_data`, scansTable)
}

// upsertSettingsQuery returns the settings upsert for the singleton row.
func upsertSettingsQuery(backend schema.StoreBackend) string {
	if backend == schema.MySQLBackend {
		return fmt.Sprintf(`INSERT INTO %s
			(id, automation_enabled, run_schedule, auto_fix_enabled, updated_at)
			VALUES (1, ?, ?, ?, ?)
			ON DUPLICATE KEY UPDATE
				automation_enabled = VALUES(automation_enabled),
				run_schedule = VALUES(run_schedule),
				auto_fix_enabled = VALUES(auto_fix_enabled),
				updated_at = VALUES(updated_at)`, settingsTable)
	}

	return fmt.Sprintf(`INSERT INTO %s
		(id, automation_enabled, run_schedule, auto_fix_enabled, updated_at)
		VALUES (1, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			automation_enabled = excluded.automation_enabled,
			run_schedule = excluded.run_schedule,
			auto_fix_enabled = excluded.auto_fix_enabled,
			updated_at = excluded.updated_at`, settingsTable)
}

// rebind converts ? placeholders to PostgreSQL's $N form. SQLite and MySQL
// take the query unchanged.
func rebind(backend schema.StoreBackend, query string) string {
	if backend != schema.PostgreSQLBackend {
		return query
	}

	var b strings.Builder
	n := 0
	for _, c := range query {
		if c == '?' {
			n++
			fmt.Fprintf(&b, "$%d", n)
			continue
		}
		b.WriteRune(c)
	}
	return b.String()
}
