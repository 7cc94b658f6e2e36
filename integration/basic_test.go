//go:build basic

package integration

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestHspcWithSQLite runs the full CLI workflow against a throwaway SQLite store.
func TestHspcWithSQLite(t *testing.T) {
	dir := t.TempDir()

	// Point the store and license at the temp directory
	_ = os.Setenv("HSPC_STORE_BACKEND", "sqlite")
	_ = os.Setenv("HSPC_STORE_CONNECT", filepath.Join(dir, "scans.db"))
	_ = os.Setenv("HSPC_LICENSE_PATH", filepath.Join(dir, "license.json"))
	defer func() { _ = os.Unsetenv("HSPC_STORE_BACKEND") }()
	defer func() { _ = os.Unsetenv("HSPC_STORE_CONNECT") }()
	defer func() { _ = os.Unsetenv("HSPC_LICENSE_PATH") }()

	// Version never touches the store
	err := runHspcCommand(t, "version")
	require.NoError(t, err)

	// Quick scan, then browse the persisted result
	err = runHspcScan(t, "--quick")
	require.NoError(t, err)
	err = runHspcCommand(t, "report", "list")
	require.NoError(t, err)
	err = runHspcCommand(t, "report", "export",
		"--scans-file", filepath.Join(dir, "scans.parquet"),
		"--issues-file", filepath.Join(dir, "issues.parquet"))
	require.NoError(t, err)

	// License lifecycle in the temp directory
	err = runHspcCommand(t, "license", "status")
	require.NoError(t, err)
	err = runHspcCommand(t, "license", "trial")
	require.NoError(t, err)
	err = runHspcCommand(t, "license", "downgrade")
	require.NoError(t, err)

	// Automation settings round trip
	err = runHspcCommand(t, "config", "set", "--automation", "on", "--auto-fix", "off")
	require.NoError(t, err)
	err = runHspcCommand(t, "config", "show")
	require.NoError(t, err)

	// Aggregate status at the end
	err = runHspcCommand(t, "status", "--output", "json")
	require.NoError(t, err)
}
