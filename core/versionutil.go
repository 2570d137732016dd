package core

import (
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/unascribed/FlexVer/go/flexver"
)

// VersionMatches reports whether a concrete version satisfies an exact version constraint.
// Versions that both parse as semantic versions are compared semantically (so 1.0 matches 1.0.0);
// anything else must match exactly.
func VersionMatches(constraint string, version string) bool {
	if constraint == AnyVersion || constraint == "" {
		return true
	}
	if constraint == version {
		return true
	}
	c, err := semver.NewVersion(constraint)
	if err != nil {
		return false
	}
	v, err := semver.NewVersion(version)
	if err != nil {
		return false
	}
	return c.Equal(v)
}

// CompareVersions orders version numbers using FlexVer, falling back to a case-insensitive comparison
// of the raw strings so the ordering is total
func CompareVersions(a string, b string) int {
	if c := flexver.Compare(a, b); c != 0 {
		if c < 0 {
			return -1
		}
		return 1
	}
	return strings.Compare(strings.ToLower(a), strings.ToLower(b))
}
