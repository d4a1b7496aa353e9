package sessionauth

import "strings"

// RequireAuth reports whether path needs authentication given the excluded
// patterns. It returns false for an empty path or an empty pattern list.
//
// Patterns are trimmed. A pattern ending in "*" excludes every path that
// starts with the text before the "*". Any other pattern, with trailing
// slashes removed, excludes itself and every path below it, so
// "/api/v1/status/" excludes "/api/v1/status" and "/api/v1/status/x" but not
// "/api/v1/statuses".
func RequireAuth(path string, excluded []string) bool {
	if path == "" || len(excluded) == 0 {
		return false
	}

	for _, pattern := range excluded {
		pattern = strings.TrimSpace(pattern)
		if pattern == "" {
			continue
		}
		if excludedBy(path, pattern) {
			return false
		}
	}

	return true
}

func excludedBy(path, pattern string) bool {
	if prefix, ok := strings.CutSuffix(pattern, "*"); ok {
		return strings.HasPrefix(path, prefix)
	}

	dir := strings.TrimRight(pattern, "/")
	return path == dir || strings.HasPrefix(path, dir+"/")
}
