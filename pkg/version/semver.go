package version

import (
	"sync"

	"github.com/Masterminds/semver/v3"
)

var (
	parseOnce     sync.Once
	parsedVersion *semver.Version
)

// resetParsedVersion clears the cached parsed version for testing.
func resetParsedVersion() {
	parseOnce = sync.Once{}
	parsedVersion = nil
}

// Parsed returns the parsed semantic version, or nil if unparseable.
func Parsed() *semver.Version {
	parseOnce.Do(func() {
		if v, err := semver.NewVersion(Version); err == nil {
			parsedVersion = v
		}
	})
	return parsedVersion
}

// IsPrerelease returns true if the current version is a pre-release.
// Returns false for unparseable versions (like "dev").
func IsPrerelease() bool {
	v := Parsed()
	return v != nil && v.Prerelease() != ""
}

// IsDevBuild returns true if this is a development build (no valid semver).
func IsDevBuild() bool {
	return Parsed() == nil
}

// Compare compares the current version to another version string.
// Returns -1 if current < other, 0 if equal, 1 if current > other, and 0 if
// either version is unparseable.
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

// DataStatus describes how the running build relates to the build that last
// wrote a data directory.
type DataStatus int

const (
	// DataUnknown means one of the versions is not semver, or this is a first run.
	DataUnknown DataStatus = iota
	// DataCurrent means the same version wrote the data.
	DataCurrent
	// DataUpgraded means an older version wrote the data.
	DataUpgraded
	// DataNewer means a newer version wrote the data; records may carry
	// sections this build skips.
	DataNewer
)

// CheckData compares the running version with the version recorded in a data
// directory.
func CheckData(recorded string) DataStatus {
	if recorded == "" || IsDevBuild() {
		return DataUnknown
	}
	if _, err := semver.NewVersion(recorded); err != nil {
		return DataUnknown
	}
	switch Compare(recorded) {
	case 0:
		return DataCurrent
	case 1:
		return DataUpgraded
	default:
		return DataNewer
	}
}

func (s DataStatus) String() string {
	switch s {
	case DataCurrent:
		return "current"
	case DataUpgraded:
		return "upgraded"
	case DataNewer:
		return "newer"
	default:
		return "unknown"
	}
}
