package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// Vault layout used by the tools under test.
const (
	ArtifactsRel     = "AI/Attachments/claude/artifacts"
	ConversationsRel = "AI/Conversations/claude"
)

// NewVault creates a temporary vault with the expected directory layout and
// returns its root path.
func NewVault(t *testing.T) string {
	t.Helper()
	root := filepath.Join(t.TempDir(), "vault")
	for _, rel := range []string{ArtifactsRel, ConversationsRel} {
		if err := os.MkdirAll(filepath.Join(root, filepath.FromSlash(rel)), 0o755); err != nil {
			t.Fatalf("create vault dir %s: %v", rel, err)
		}
	}
	return root
}

// WriteFile writes content at the slash-separated rel path under root,
// creating parent directories as needed.
func WriteFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("create dir for %s: %v", rel, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", rel, err)
	}
}

// ReadFile returns the content of the slash-separated rel path under root.
func ReadFile(t *testing.T, root, rel string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
	if err != nil {
		t.Fatalf("read %s: %v", rel, err)
	}
	return string(data)
}

// Exists reports whether the slash-separated rel path exists under root.
func Exists(root, rel string) bool {
	_, err := os.Stat(filepath.Join(root, filepath.FromSlash(rel)))
	return err == nil
}
