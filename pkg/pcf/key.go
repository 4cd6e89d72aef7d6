package pcf

import (
	"strings"
	"unicode"
)

// ValidKey reports whether s can be used as a record key.
// The empty key is valid and means "use the entity's own name".
func ValidKey(s string) bool {
	if s == "" {
		return true
	}
	if s == "/" {
		return false
	}
	return !strings.ContainsAny(s, " #")
}

// ValidNamespacedKey reports whether s is a valid key rooted at '/'.
func ValidNamespacedKey(s string) bool {
	if s == "" {
		return true
	}
	if !strings.HasPrefix(s, "/") {
		return false
	}
	return ValidKey(s)
}

// normalizePrefix turns a namespace key into a '/'-terminated prefix.
// The empty key stays empty and matches every record.
func normalizePrefix(key string) string {
	if key == "" || strings.HasSuffix(key, "/") {
		return key
	}
	return key + "/"
}

// matchPrefix reports whether a record key falls under prefix.
func matchPrefix(key, prefix string) bool {
	return prefix == "" || strings.HasPrefix(key, prefix)
}

// InNamespace reports whether key falls under the namespace ns, using the
// same matching rule as PopulateModel. An empty ns matches every key.
func InNamespace(key, ns string) bool {
	return matchPrefix(key, normalizePrefix(ns))
}

// headerKey reports whether key can be written into a header line. Headers
// are split on any whitespace, so tabs and newlines are refused along with
// everything ValidKey refuses.
func headerKey(key string) bool {
	return key != "" && ValidKey(key) && !strings.ContainsFunc(key, unicode.IsSpace)
}
