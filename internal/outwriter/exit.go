package outwriter

import "github.com/healthspeed/healthspeed/schema"

// Exit codes reflecting the worst severity a scan found, so scripts can gate
// on scan output.
const (
	ExitClean    = 0
	ExitInfo     = 0
	ExitWarning  = 1
	ExitCritical = 2
)

// ExitCodeForIssues maps the worst issue severity to a process exit code.
// Info-only findings are not failures.
func ExitCodeForIssues(issues []schema.Issue) int {
	worst, ok := schema.WorstSeverity(issues)
	if !ok {
		return ExitClean
	}

	switch worst {
	case schema.SeverityCritical:
		return ExitCritical
	case schema.SeverityWarning:
		return ExitWarning
	default:
		return ExitInfo
	}
}
