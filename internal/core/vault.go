package core

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// Vault layout (fixed):
//
//	<vault>/AI/Attachments/claude/artifacts/<folder>/<file>.md
//	<vault>/AI/Conversations/claude/**/<file>.md
//
// linkPathPrefix is the wikilink form of the artifacts area; wikilink tokens
// always use forward slashes regardless of the host path separator.
const linkPathPrefix = "AI/Attachments/claude/artifacts/"

var (
	artifactsRel     = filepath.Join("AI", "Attachments", "claude", "artifacts")
	conversationsRel = filepath.Join("AI", "Conversations", "claude")
)

func artifactsDir(vaultPath string) string {
	return filepath.Join(vaultPath, artifactsRel)
}

func conversationsDir(vaultPath string) string {
	return filepath.Join(vaultPath, conversationsRel)
}

var (
	uuidNameRe  = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)
	datedNameRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2} - `)
)

// isUUIDName reports whether a folder name has the pre-migration UUID shape.
func isUUIDName(name string) bool {
	return uuidNameRe.MatchString(name)
}

// isDatedName reports whether a folder name already carries the
// post-migration "YYYY-MM-DD - " prefix.
func isDatedName(name string) bool {
	return datedNameRe.MatchString(name)
}

func isMarkdown(name string) bool {
	return strings.HasSuffix(name, ".md")
}

// collectMarkdownFiles returns the paths of all .md files under root,
// recursively, in lexical order. A missing root yields no files and no error.
func collectMarkdownFiles(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if !d.IsDir() && isMarkdown(d.Name()) {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

// listSubdirs returns the names of the immediate subdirectories of dir in
// sorted order.
func listSubdirs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	return names, nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func writeFilePreservePerm(path string, data []byte, perm os.FileMode) error {
	if err := os.WriteFile(path, data, perm); err != nil {
		return err
	}
	return os.Chmod(path, perm)
}
