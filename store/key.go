package store

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// PathSeparator is the separator of the entry key segments.
const PathSeparator = "/"

// JoinKey joins the key segments into a fully qualified key. Empty segments are skipped
// and the result always starts with the PathSeparator. The segments are normalized to the unicode NFC form,
// so that canonically equivalent names resolve to the same entry.
func JoinKey(segments ...string) string {
	sb := strings.Builder{}
	for _, segment := range segments {
		segment = norm.NFC.String(strings.Trim(segment, PathSeparator))
		if segment == "" {
			continue
		}
		sb.WriteString(PathSeparator)
		sb.WriteString(segment)
	}
	if sb.Len() == 0 {
		return PathSeparator
	}
	return sb.String()
}

// ValidKey checks if the 'key' is a valid, fully qualified entry key.
func ValidKey(key string) bool {
	if len(key) < 2 || !strings.HasPrefix(key, PathSeparator) || strings.HasSuffix(key, PathSeparator) {
		return false
	}
	return !strings.Contains(key, PathSeparator+PathSeparator)
}
