package core

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"

	"github.com/example/vaultmig/internal/testutil"
)

const (
	convID1 = "11111111-1111-1111-1111-111111111111"
	convID2 = "22222222-2222-2222-2222-222222222222"
)

func conversationDoc(cid, aliases, createTime string) string {
	return fmt.Sprintf("---\nconversation_id: %s\naliases: %s\ncreate_time: %s\n---\n", cid, aliases, createTime)
}

func artifactDoc(cid, aliases, createTime, version string) string {
	doc := fmt.Sprintf("---\nconversation_id: %s\naliases: %s\n", cid, aliases)
	if createTime != "" {
		doc += "create_time: " + createTime + "\n"
	}
	if version != "" {
		doc += "version_number: " + version + "\n"
	}
	return doc + "---\nartifact body\n"
}

func setupEndToEndVault(t *testing.T) string {
	t.Helper()
	vault := testutil.NewVault(t)
	testutil.WriteFile(t, vault, testutil.ConversationsRel+"/2024/chat.md",
		conversationDoc(convID1, "[My Conversation]", "2024-01-01T00:00:00Z"))
	testutil.WriteFile(t, vault, testutil.ArtifactsRel+"/"+convID1+"/draft.md",
		artifactDoc(convID1, "[My Title, draft]", "2024-01-02T00:00:00Z", "2"))
	return vault
}

func TestMigrate_EndToEnd(t *testing.T) {
	vault := setupEndToEndVault(t)

	result, err := Migrate(vault, MigrateOptions{})
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}

	if result.Conversations != 1 {
		t.Errorf("Conversations = %d, want 1", result.Conversations)
	}
	if result.FoldersMoved != 1 || result.FilesRenamed != 1 || result.Skipped != 0 {
		t.Errorf("counters = (%d, %d, %d), want (1, 1, 0)",
			result.FoldersMoved, result.FilesRenamed, result.Skipped)
	}

	newFolder := testutil.ArtifactsRel + "/2024-01-01 - My Conversation"
	if !testutil.Exists(vault, newFolder) {
		t.Fatalf("expected migrated folder %s", newFolder)
	}
	if !testutil.Exists(vault, newFolder+"/2024-01-02 - My Title v2.md") {
		t.Error("expected renamed artifact file with date prefix and version suffix")
	}
	if testutil.Exists(vault, testutil.ArtifactsRel+"/"+convID1) {
		t.Error("UUID folder should be gone after migration")
	}

	if len(result.Folders) != 1 {
		t.Fatalf("got %d folder reports, want 1", len(result.Folders))
	}
	f := result.Folders[0]
	if f.Outcome != OutcomeMoved {
		t.Errorf("outcome = %q, want %q", f.Outcome, OutcomeMoved)
	}
	if f.NewName != "2024-01-01 - My Conversation" {
		t.Errorf("new name = %q", f.NewName)
	}
}

func TestMigrate_Idempotent(t *testing.T) {
	vault := setupEndToEndVault(t)

	if _, err := Migrate(vault, MigrateOptions{}); err != nil {
		t.Fatalf("first run: %v", err)
	}
	second, err := Migrate(vault, MigrateOptions{})
	if err != nil {
		t.Fatalf("second run: %v", err)
	}

	if second.FoldersMoved != 0 || second.FilesRenamed != 0 || second.Skipped != 0 {
		t.Errorf("second run should be a no-op, got counters (%d, %d, %d)",
			second.FoldersMoved, second.FilesRenamed, second.Skipped)
	}
	if len(second.Folders) != 0 {
		t.Errorf("second run reported %d folders, want 0", len(second.Folders))
	}
	if !testutil.Exists(vault, testutil.ArtifactsRel+"/2024-01-01 - My Conversation/2024-01-02 - My Title v2.md") {
		t.Error("migrated file should survive a re-run")
	}
}

func TestMigrate_DryRun(t *testing.T) {
	vault := setupEndToEndVault(t)

	result, err := Migrate(vault, MigrateOptions{DryRun: true})
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}

	if !result.DryRun {
		t.Error("result should carry the dry-run flag")
	}
	if result.FoldersMoved != 1 || result.FilesRenamed != 1 {
		t.Errorf("dry run should still report actions, got (%d, %d)",
			result.FoldersMoved, result.FilesRenamed)
	}
	if !testutil.Exists(vault, testutil.ArtifactsRel+"/"+convID1+"/draft.md") {
		t.Error("dry run must not touch the filesystem")
	}
	if testutil.Exists(vault, testutil.ArtifactsRel+"/2024-01-01 - My Conversation") {
		t.Error("dry run must not create the destination folder")
	}
}

func TestMigrate_MergeWithoutOverwrite(t *testing.T) {
	vault := testutil.NewVault(t)
	// Two conversations with the same title and date: both folders resolve to
	// the same destination name.
	testutil.WriteFile(t, vault, testutil.ConversationsRel+"/a.md",
		conversationDoc(convID1, "[Same Title]", "2024-01-01T00:00:00Z"))
	testutil.WriteFile(t, vault, testutil.ConversationsRel+"/b.md",
		conversationDoc(convID2, "[Same Title]", "2024-01-01T00:00:00Z"))

	testutil.WriteFile(t, vault, testutil.ArtifactsRel+"/"+convID1+"/Only One.md",
		artifactDoc(convID1, "[Only One]", "", ""))
	testutil.WriteFile(t, vault, testutil.ArtifactsRel+"/"+convID1+"/Shared.md",
		"---\naliases: [Shared]\n---\nfrom first\n")
	testutil.WriteFile(t, vault, testutil.ArtifactsRel+"/"+convID2+"/Only Two.md",
		artifactDoc(convID2, "[Only Two]", "", ""))
	testutil.WriteFile(t, vault, testutil.ArtifactsRel+"/"+convID2+"/Shared.md",
		"---\naliases: [Shared]\n---\nfrom second\n")

	result, err := Migrate(vault, MigrateOptions{})
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}

	dest := testutil.ArtifactsRel + "/2024-01-01 - Same Title"
	for _, rel := range []string{dest + "/Only One.md", dest + "/Only Two.md", dest + "/Shared.md"} {
		if !testutil.Exists(vault, rel) {
			t.Errorf("expected %s after merge", rel)
		}
	}
	if got := testutil.ReadFile(t, vault, dest+"/Shared.md"); got != "---\naliases: [Shared]\n---\nfrom first\n" {
		t.Errorf("merge overwrote the destination file: %q", got)
	}
	// The colliding file could not be merged; it stays behind in the source
	// folder rather than being destroyed.
	if !testutil.Exists(vault, testutil.ArtifactsRel+"/"+convID2+"/Shared.md") {
		t.Error("unmergeable file should remain in the source folder")
	}

	if result.FoldersMoved != 2 {
		t.Errorf("FoldersMoved = %d, want 2 (one move, one merge)", result.FoldersMoved)
	}
	if len(result.Folders) != 2 {
		t.Fatalf("got %d folder reports, want 2", len(result.Folders))
	}
	if result.Folders[0].Outcome != OutcomeMoved || result.Folders[1].Outcome != OutcomeMerged {
		t.Errorf("outcomes = (%q, %q), want (moved, merged)",
			result.Folders[0].Outcome, result.Folders[1].Outcome)
	}
}

func TestMigrate_NoConversationRecord(t *testing.T) {
	vault := testutil.NewVault(t)
	id := uuid.NewString()
	testutil.WriteFile(t, vault, testutil.ArtifactsRel+"/"+id+"/note.md",
		artifactDoc(id, "[A Note]", "", ""))

	result, err := Migrate(vault, MigrateOptions{})
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}

	if result.Skipped != 1 || result.FoldersMoved != 0 {
		t.Errorf("counters = (moved %d, skipped %d), want (0, 1)",
			result.FoldersMoved, result.Skipped)
	}
	if len(result.Folders) != 1 || result.Folders[0].Outcome != OutcomeSkipped {
		t.Fatalf("expected one skipped folder report, got %+v", result.Folders)
	}
	// Untouched: no partial rename.
	if !testutil.Exists(vault, testutil.ArtifactsRel+"/"+id+"/note.md") {
		t.Error("skipped folder must be left exactly as-is")
	}
}

func TestMigrate_SilentSkips(t *testing.T) {
	vault := testutil.NewVault(t)
	testutil.WriteFile(t, vault, testutil.ArtifactsRel+"/2024-01-01 - Done/file.md", "already migrated\n")
	testutil.WriteFile(t, vault, testutil.ArtifactsRel+"/not-a-uuid/file.md", "unrecognized\n")
	testutil.WriteFile(t, vault, testutil.ArtifactsRel+"/loose.md", "not a folder\n")

	result, err := Migrate(vault, MigrateOptions{})
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}

	if len(result.Folders) != 0 {
		t.Errorf("silent skips should not be reported, got %+v", result.Folders)
	}
	if result.FoldersMoved != 0 || result.Skipped != 0 {
		t.Errorf("counters = (%d, %d), want (0, 0)", result.FoldersMoved, result.Skipped)
	}
	if !testutil.Exists(vault, testutil.ArtifactsRel+"/2024-01-01 - Done/file.md") {
		t.Error("dated folder must not be re-touched")
	}
}

func TestMigrate_FileWithoutTitle(t *testing.T) {
	vault := testutil.NewVault(t)
	testutil.WriteFile(t, vault, testutil.ConversationsRel+"/chat.md",
		conversationDoc(convID1, "[My Conversation]", "2024-01-01T00:00:00Z"))
	testutil.WriteFile(t, vault, testutil.ArtifactsRel+"/"+convID1+"/untitled.md",
		"---\nconversation_id: "+convID1+"\n---\nno aliases here\n")

	result, err := Migrate(vault, MigrateOptions{})
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}

	if result.Skipped != 1 {
		t.Errorf("Skipped = %d, want 1", result.Skipped)
	}
	if result.FilesRenamed != 0 {
		t.Errorf("FilesRenamed = %d, want 0", result.FilesRenamed)
	}
	// The folder itself still migrates; the untitled file moves with it,
	// never deleted or overwritten.
	if !testutil.Exists(vault, testutil.ArtifactsRel+"/2024-01-01 - My Conversation/untitled.md") {
		t.Error("untitled file should survive inside the migrated folder")
	}
}

func TestMigrate_MissingArtifactsDir(t *testing.T) {
	vault := t.TempDir()
	if _, err := Migrate(vault, MigrateOptions{}); err == nil {
		t.Fatal("expected error for missing artifacts directory")
	}
}

func TestMigrate_MissingConversationsDir(t *testing.T) {
	vault := testutil.NewVault(t)
	if err := os.RemoveAll(filepath.Join(vault, filepath.FromSlash(testutil.ConversationsRel))); err != nil {
		t.Fatal(err)
	}
	id := uuid.NewString()
	testutil.WriteFile(t, vault, testutil.ArtifactsRel+"/"+id+"/note.md",
		artifactDoc(id, "[A Note]", "", ""))

	result, err := Migrate(vault, MigrateOptions{})
	if err != nil {
		t.Fatalf("a missing conversations directory must not fail the run: %v", err)
	}
	if result.Conversations != 0 {
		t.Errorf("Conversations = %d, want 0", result.Conversations)
	}
	if result.Skipped != 1 {
		t.Errorf("Skipped = %d, want 1 (artifact with no matching conversation)", result.Skipped)
	}
}

func TestArtifactFileName(t *testing.T) {
	tests := []struct {
		name string
		fm   map[string]string
		want string
	}{
		{
			"title only",
			map[string]string{"aliases": "[My Title]"},
			"My Title.md",
		},
		{
			"version above one",
			map[string]string{"aliases": "[My Title]", "version_number": "3"},
			"My Title v3.md",
		},
		{
			"version one omitted",
			map[string]string{"aliases": "[My Title]", "version_number": "1"},
			"My Title.md",
		},
		{
			"non-integer version treated as one",
			map[string]string{"aliases": "[My Title]", "version_number": "two"},
			"My Title.md",
		},
		{
			"date prefix",
			map[string]string{"aliases": "[My Title]", "create_time": "2024-01-02T00:00:00Z"},
			"2024-01-02 - My Title.md",
		},
		{
			"date and version",
			map[string]string{"aliases": "[My Title, draft]", "create_time": "2024-01-02T00:00:00Z", "version_number": "2"},
			"2024-01-02 - My Title v2.md",
		},
		{
			"unsafe title characters",
			map[string]string{"aliases": "[app/config.yaml]"},
			"app_config_yaml.md",
		},
		{
			"no aliases",
			map[string]string{},
			"",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := artifactFileName(tt.fm); got != tt.want {
				t.Errorf("artifactFileName = %q, want %q", got, tt.want)
			}
		})
	}
}
