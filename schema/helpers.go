package schema

// WorstSeverity returns the most urgent severity present in the issue list.
// The second return is false when the list is empty.
func WorstSeverity(issues []Issue) (Severity, bool) {
	if len(issues) == 0 {
		return "", false
	}
	worst := issues[0].Severity
	for _, issue := range issues[1:] {
		if issue.Severity.Rank() < worst.Rank() {
			worst = issue.Severity
		}
	}
	return worst, true
}

// AutoFixableIssues filters the issue list down to issues whose fix action is
// safe to run without interactive confirmation.
func AutoFixableIssues(issues []Issue) []Issue {
	var out []Issue
	for _, issue := range issues {
		if issue.Fix != nil && issue.Fix.IsAutoFix {
			out = append(out, issue)
		}
	}
	return out
}
