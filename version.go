package toolup

import (
	"strconv"
	"strings"
)

// CompareVersions compares two version strings.
// Returns:
//   - negative if v1 < v2
//   - zero if v1 == v2
//   - positive if v1 > v2
//
// Handles versions like "1.0.0", "25.07", "1.2.3-beta" and an optional
// leading "v". Non-numeric suffixes are ignored.
func CompareVersions(v1, v2 string) int {
	parts1 := parseVersion(v1)
	parts2 := parseVersion(v2)

	maxLen := max(len(parts1), len(parts2))
	for i := 0; i < maxLen; i++ {
		var p1, p2 int
		if i < len(parts1) {
			p1 = parts1[i]
		}
		if i < len(parts2) {
			p2 = parts2[i]
		}

		if p1 < p2 {
			return -1
		}
		if p1 > p2 {
			return 1
		}
	}

	return 0
}

// IsSameVersion returns true if the versions are equal.
func IsSameVersion(v1, v2 string) bool {
	return CompareVersions(v1, v2) == 0
}

// parseVersion extracts numeric parts from a version string.
// "v25.07.1" -> [25, 7, 1]
func parseVersion(v string) []int {
	v = strings.TrimPrefix(v, "v")
	v = strings.TrimPrefix(v, "V")

	parts := strings.Split(v, ".")
	result := make([]int, 0, len(parts))

	for _, part := range parts {
		// Handle suffixes like "3-beta" -> take "3"
		if idx := strings.IndexAny(part, "-+_"); idx > 0 {
			part = part[:idx]
		}

		n, err := strconv.Atoi(part)
		if err != nil {
			continue
		}
		result = append(result, n)
	}

	return result
}
