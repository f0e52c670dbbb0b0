package router

import (
	"net/url"
	"regexp"
	"strings"
)

var separators = regexp.MustCompile(`/+`)

// normalizePrefix makes a non-empty prefix end with a separator.
func normalizePrefix(prefix string) string {
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return prefix
}

// splitPath turns an escaped URL path into unescaped segments. The prefix is
// removed when the path starts with it, then exactly one leading separator.
// An empty remainder yields a single empty segment.
func splitPath(escaped, prefix string) (trimmed string, segments []string) {
	trimmed = escaped
	if prefix != "" && strings.HasPrefix(trimmed, prefix) {
		trimmed = trimmed[len(prefix):]
	}
	trimmed = strings.TrimPrefix(trimmed, "/")
	segments = separators.Split(trimmed, -1)
	for i, s := range segments {
		if u, err := url.PathUnescape(s); err == nil {
			segments[i] = u
		}
	}
	return trimmed, segments
}
