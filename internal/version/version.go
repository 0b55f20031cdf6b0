// Package version carries build metadata injected with -ldflags -X.
package version

import (
	"fmt"
	"time"
)

var (
	BuildDate   string // YYYY-MM-DD (UTC)
	BuildCommit string
	BuildBranch string
	BuildCI     string
)

// buildEpoch is day zero of the build counter.
var buildEpoch = time.Date(2025, time.December, 4, 0, 0, 0, 0, time.UTC)

// VersionInfo describes the build metadata in structured form.
type VersionInfo struct {
	BuildID    int    `json:"build_id"`
	BuildDate  string `json:"build_date"`
	Commit     string `json:"commit"`
	Branch     string `json:"branch"`
	CI         string `json:"ci"`
	Calculated bool   `json:"calculated"`
	Error      string `json:"error,omitempty"`
}

// CalculateBuildID is the number of days between the epoch and BuildDate.
func CalculateBuildID() (int, error) {
	if BuildDate == "" {
		return 0, fmt.Errorf("BuildDate is empty")
	}

	t, err := time.ParseInLocation(time.DateOnly, BuildDate, time.UTC)
	if err != nil {
		return 0, fmt.Errorf("invalid BuildDate %q: %w", BuildDate, err)
	}

	if t.Before(buildEpoch) {
		return 0, fmt.Errorf("BuildDate %s is before epoch", BuildDate)
	}

	// Both ends are UTC midnights, so whole hours divide evenly.
	return int(t.Sub(buildEpoch).Hours() / 24), nil
}

// Info returns structured version information. Safe to call at any time.
func Info() VersionInfo {
	info := VersionInfo{
		BuildDate: BuildDate,
		Commit:    BuildCommit,
		Branch:    BuildBranch,
		CI:        BuildCI,
	}

	id, err := CalculateBuildID()
	if err != nil {
		info.Error = err.Error()
		return info
	}

	info.BuildID = id
	info.Calculated = true
	return info
}

// String returns a human-readable build line for the startup log.
func String() string {
	info := Info()

	if !info.Calculated {
		return fmt.Sprintf("scene-manager build unknown (%s)", info.Error)
	}

	return fmt.Sprintf(
		"scene-manager build %d (%s) commit[%s] branch[%s] ci[%s]",
		info.BuildID,
		info.BuildDate,
		coalesce(info.Commit, "unknown"),
		coalesce(info.Branch, "unknown"),
		coalesce(info.CI, "local"),
	)
}

func coalesce(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
