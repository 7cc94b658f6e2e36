package contract

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"

	"github.com/healthspeed/healthspeed/schema"
)

// Color variables for console output.
var (
	CriticalColor = color.New(color.FgRed, color.Bold)
	WarningColor  = color.New(color.FgYellow)
	InfoColor     = color.New(color.FgCyan)
	GoodColor     = color.New(color.FgGreen)
)

// Score grade labels shared by table, CSV and JSON output.
const (
	ExcellentValue = "Excellent"
	GoodValue      = "Good"
	FairValue      = "Fair"
	PoorValue      = "Poor"
)

// GetScoreLabel returns a plain text grade for a 0-100 score.
func GetScoreLabel(score int) string {
	switch {
	case score >= 90:
		return ExcellentValue
	case score >= 70:
		return GoodValue
	case score >= 50:
		return FairValue
	default:
		return PoorValue
	}
}

// GetColorScore returns a colored score string for console output.
func GetColorScore(score int) string {
	text := fmt.Sprintf("%d", score)
	switch {
	case score >= 70:
		return GoodColor.Sprint(text)
	case score >= 50:
		return WarningColor.Sprint(text)
	default:
		return CriticalColor.Sprint(text)
	}
}

// GetColorSeverity returns a colored severity label for console output.
func GetColorSeverity(severity schema.Severity) string {
	text := string(severity)
	switch severity {
	case schema.SeverityCritical:
		return CriticalColor.Sprint(text)
	case schema.SeverityWarning:
		return WarningColor.Sprint(text)
	default:
		return InfoColor.Sprint(text)
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on
// the provided file path. An empty path means stdout.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// DefaultStoreFilePath returns the path to the SQLite DB file for scan storage.
func DefaultStoreFilePath() string {
	return filepath.Join(configDir(), "scans.db")
}

// DefaultLicenseFilePath returns the path to the license JSON file.
func DefaultLicenseFilePath() string {
	return filepath.Join(configDir(), "license.json")
}

func configDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".hspc"
	}
	return filepath.Join(homeDir, ".hspc")
}

// TruncateText shortens a string for table output, keeping the tail visible
// since the distinguishing part of titles and paths is usually at the end.
func TruncateText(s string, maxLen int) string {
	if maxLen <= 3 || len(s) <= maxLen {
		return s
	}
	return "..." + s[len(s)-(maxLen-3):]
}
