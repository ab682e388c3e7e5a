package authz

import "strings"

// MatchPattern reports whether an ant-style route pattern matches a request
// path. Pattern segments are compared one to one: "*" matches exactly one
// segment, "**" matches any number of segments including none, anything else
// must match literally.
func MatchPattern(pattern, path string) bool {
	return matchSegments(splitPath(pattern), splitPath(path))
}

func matchSegments(pattern, path []string) bool {
	if len(pattern) == 0 {
		return len(path) == 0
	}

	head := pattern[0]
	if head == "**" {
		// Let ** absorb zero or more leading path segments.
		for skip := 0; skip <= len(path); skip++ {
			if matchSegments(pattern[1:], path[skip:]) {
				return true
			}
		}
		return false
	}

	if len(path) == 0 {
		return false
	}
	if head != "*" && head != path[0] {
		return false
	}
	return matchSegments(pattern[1:], path[1:])
}

func splitPath(value string) []string {
	trimmed := strings.Trim(value, "/")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "/")
}
