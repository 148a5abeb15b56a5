package version

import (
	"github.com/Masterminds/semver/v3"
)

var (
	parsedVersion  *semver.Version
	parseAttempted bool
)

// resetParsedVersion clears the cached parsed version for testing.
func resetParsedVersion() {
	parsedVersion = nil
	parseAttempted = false
}

// Parsed returns the parsed semantic version, or nil if unparseable.
// This is computed lazily on first call and cached.
func Parsed() *semver.Version {
	if parsedVersion != nil || parseAttempted {
		return parsedVersion
	}
	parseAttempted = true

	v, err := semver.NewVersion(Version)
	if err != nil {
		return nil
	}
	parsedVersion = v
	return parsedVersion
}

// IsDevBuild returns true if this is a development build (no valid semver).
func IsDevBuild() bool {
	return Parsed() == nil
}

// Compare compares the current version to another version string.
// Returns: -1 if current < other, 0 if equal, 1 if current > other.
// Returns 0 if either version is unparseable.
func Compare(other string) int {
	current := Parsed()
	if current == nil {
		return 0
	}

	otherV, err := semver.NewVersion(other)
	if err != nil {
		return 0
	}

	return current.Compare(otherV)
}

// UpdateAvailable reports whether other is a newer published version
// than the current build. Dev builds never report an update.
func UpdateAvailable(other string) bool {
	current := Parsed()
	if current == nil {
		return false
	}
	otherV, err := semver.NewVersion(other)
	if err != nil {
		return false
	}
	return otherV.GreaterThan(current)
}
