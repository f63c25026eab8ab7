package core

import (
	"os"
	"regexp"
	"strings"
)

const frontmatterSentinel = "---"

var frontmatterFieldRe = regexp.MustCompile(`^(\w+):\s*(.+)$`)

// parseFrontmatter extracts key-value pairs from the first sentinel-delimited
// block of content. Scanning stops at the second sentinel; malformed lines are
// skipped; duplicate keys overwrite earlier values (last write wins). A
// document without a sentinel yields an empty map.
func parseFrontmatter(content string) map[string]string {
	fm := make(map[string]string)
	inBlock := false
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if line == frontmatterSentinel {
			if inBlock {
				break
			}
			inBlock = true
			continue
		}
		if !inBlock {
			continue
		}
		if m := frontmatterFieldRe.FindStringSubmatch(line); m != nil {
			fm[m[1]] = m[2]
		}
	}
	return fm
}

// parseFrontmatterFile reads path and extracts its frontmatter. An unreadable
// file yields an empty map rather than an error: one bad file must never
// abort a multi-thousand-file batch.
func parseFrontmatterFile(path string) map[string]string {
	data, err := os.ReadFile(path)
	if err != nil {
		return map[string]string{}
	}
	return parseFrontmatter(string(data))
}
