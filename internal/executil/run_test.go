//go:build unix

package executil

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestRunSuccess verifies output capture for a completing process.
func TestRunSuccess(t *testing.T) {
	out, err := Run(context.Background(), 5*time.Second, "echo", "hello")
	require.NoError(t, err)
	assert.Contains(t, string(out), "hello")
}

// TestRunTimeout verifies a hanging process yields an explicit timeout error
// instead of blocking.
func TestRunTimeout(t *testing.T) {
	start := time.Now()
	_, err := Run(context.Background(), 200*time.Millisecond, "sleep", "10")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTimeout)
	assert.Less(t, time.Since(start), 5*time.Second)
}

// TestRunSpawnFailure verifies a missing binary surfaces as an error value.
func TestRunSpawnFailure(t *testing.T) {
	_, err := Run(context.Background(), time.Second, "definitely-not-a-binary-xyz")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrTimeout)
}
