package contract

import "github.com/healthspeed/healthspeed/schema"

// FixStatus is the three-way outcome of asking one checker to run a fix.
type FixStatus int

const (
	// FixNotApplicable means the checker does not own the action.
	FixNotApplicable FixStatus = iota

	// FixFailed means the checker owns the action but the remediation failed.
	FixFailed

	// FixSucceeded means the remediation completed.
	FixSucceeded
)

// FixOutcome distinguishes "not my action" from "my action but it failed".
// A plain first-success dispatch would let an unrelated checker spuriously
// claim an action; the explicit status makes ownership unambiguous.
type FixOutcome struct {
	Status FixStatus
	Result schema.FixResult
	Err    error
}

// NotApplicable signals that the checker does not recognize the action.
func NotApplicable() FixOutcome {
	return FixOutcome{Status: FixNotApplicable}
}

// Failed signals that the owning checker attempted the fix and it failed.
func Failed(err error) FixOutcome {
	return FixOutcome{Status: FixFailed, Err: err}
}

// Succeeded signals a completed remediation.
func Succeeded(result schema.FixResult) FixOutcome {
	return FixOutcome{Status: FixSucceeded, Result: result}
}
