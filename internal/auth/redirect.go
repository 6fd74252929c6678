package auth

import "strings"

// IsLocalPath reports whether path is safe to redirect to, i.e. a path on
// this host and not a URL that a browser would resolve elsewhere.
func IsLocalPath(path string) bool {
	if path == "" || !strings.HasPrefix(path, "/") {
		return false
	}
	// Protocol-relative URLs (//evil.com)
	if strings.HasPrefix(path, "//") {
		return false
	}
	if strings.Contains(path, "://") || strings.Contains(path, "\\") {
		return false
	}
	return true
}

// SanitizeRedirectPath returns path if it is local, fallback otherwise.
func SanitizeRedirectPath(path, fallback string) string {
	if IsLocalPath(path) {
		return path
	}
	return fallback
}
