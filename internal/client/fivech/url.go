package fivech

import (
	"regexp"
	"strings"
)

var (
	postCountSuffix = regexp.MustCompile(`/l\d+/?$`)
	threadIDPattern = regexp.MustCompile(`/test/read\.cgi/\w+/(\d+)`)
)

// NormalizeThreadPath strips the post-count suffix (/l50 etc.) and any
// trailing slash so the same thread always maps to one path.
func NormalizeThreadPath(raw string) string {
	path := strings.TrimSpace(raw)
	path = postCountSuffix.ReplaceAllString(path, "")
	return strings.TrimRight(path, "/")
}

// ThreadID extracts the numeric thread id from a read.cgi path, or "" when
// the path has another shape.
func ThreadID(path string) string {
	m := threadIDPattern.FindStringSubmatch(path)
	if len(m) < 2 {
		return ""
	}
	return m[1]
}
