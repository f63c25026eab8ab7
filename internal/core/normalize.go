package core

import (
	"regexp"
	"strings"
)

var (
	// Characters unsafe as a path component on the common desktop
	// filesystems, plus wikilink-significant characters and the Unicode
	// curly-quote variants.
	unsafeCharRe = regexp.MustCompile("[/\\\\:*?\"<>|#^\\[\\].'‘’“”]")
	whitespaceRe = regexp.MustCompile(`\s+`)

	datePrefixRe = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})T`)
)

// sanitizeName makes a title safe as a filesystem path component while
// keeping it readable: unsafe characters become "_", whitespace runs collapse
// to a single space. Idempotent.
func sanitizeName(name string) string {
	s := unsafeCharRe.ReplaceAllString(name, "_")
	s = whitespaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// datePrefix extracts "YYYY-MM-DD" from an ISO 8601 timestamp string.
// Returns "" when the input does not start with a date followed by 'T';
// callers treat the absence of a date as a name without a date segment.
func datePrefix(iso string) string {
	m := datePrefixRe.FindStringSubmatch(iso)
	if m == nil {
		return ""
	}
	return m[1] + "-" + m[2] + "-" + m[3]
}

// splitAliases splits a raw frontmatter aliases value into its parts.
// One optional leading "[" and trailing "]" are stripped, parts are separated
// by commas, and each part is trimmed of whitespace and quote characters.
func splitAliases(raw string) []string {
	content := strings.TrimSpace(raw)
	content = strings.TrimPrefix(content, "[")
	content = strings.TrimSuffix(content, "]")
	parts := strings.Split(content, ",")
	out := make([]string, len(parts))
	for i, p := range parts {
		p = strings.TrimSpace(p)
		p = strings.Trim(p, `'"`)
		out[i] = strings.TrimSpace(p)
	}
	return out
}

// firstAlias returns the artifact's human title: the first element of the
// aliases list, or "" when the field is empty.
func firstAlias(raw string) string {
	return splitAliases(raw)[0]
}

// secondAlias returns the legacy filename stem encoded as the second alias,
// or "" when there is no second element.
func secondAlias(raw string) string {
	parts := splitAliases(raw)
	if len(parts) > 1 {
		return parts[1]
	}
	return ""
}
