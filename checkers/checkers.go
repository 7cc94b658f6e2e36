// Package checkers holds the built-in diagnostic probes. Each checker is
// best-effort: probe failures produce zero issues rather than errors, so a
// missing tool or an unsupported platform never aborts a scan.
package checkers

import (
	"strings"
	"time"

	"github.com/healthspeed/healthspeed/internal/contract"
)

// All returns the default checker set in registration order. The timeout
// bounds fix subprocesses only; probes use their own shorter deadline.
func All(fixTimeout time.Duration) []contract.Checker {
	return []contract.Checker{
		NewFirewallChecker(fixTimeout),
		NewStartupChecker(),
		NewProcessChecker(),
		NewOsUpdateChecker(),
		NewPortScanner(),
		NewStorageChecker(),
		NewNetworkChecker(fixTimeout),
		NewSmartDiskChecker(),
		NewBottleneckChecker(),
	}
}

// sanitizeID normalizes a free-form name into an issue id suffix.
func sanitizeID(name string) string {
	replacer := strings.NewReplacer(
		" ", "_",
		".", "_",
		":", "_",
		"/", "_",
		"\\", "_",
		"(", "",
		")", "",
	)
	return strings.Trim(replacer.Replace(strings.ToLower(name)), "_")
}
