package core

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// MigrateOptions controls the artifact migration.
type MigrateOptions struct {
	DryRun bool
}

// Folder outcomes.
const (
	OutcomeMoved     = "moved"
	OutcomeMerged    = "merged"
	OutcomeSkipped   = "skipped"
	OutcomeUnchanged = "unchanged"
)

// FileRename records one artifact file rename inside its folder.
type FileRename struct {
	From string
	To   string
}

// FileSkip records an artifact file left untouched, with the reason.
type FileSkip struct {
	Path   string // relative to the artifacts root
	Reason string
}

// FolderReport is the per-folder result of the migration state machine.
// Folders skipped silently (already dated, not UUID-shaped) do not produce
// a report.
type FolderReport struct {
	Name    string
	NewName string
	Outcome string
	Reason  string // set when Outcome is OutcomeSkipped
	Renames []FileRename
	Skips   []FileSkip
}

// MigrateResult aggregates a whole migration run.
type MigrateResult struct {
	Conversations int
	Folders       []FolderReport
	FoldersMoved  int
	FilesRenamed  int
	Skipped       int
	DryRun        bool
}

// Migrate renames UUID-named artifact folders and the files inside them to
// dated, human-readable names derived from the conversation index. Already
// migrated folders are skipped, so re-running after an interruption is safe.
func Migrate(vaultPath string, opts MigrateOptions) (*MigrateResult, error) {
	artDir := artifactsDir(vaultPath)
	if !dirExists(artDir) {
		return nil, fmt.Errorf("artifacts directory not found: %s", artDir)
	}

	ix, err := openRunIndex()
	if err != nil {
		return nil, err
	}
	defer ix.Close()

	if err := buildConversationIndex(ix, conversationsDir(vaultPath)); err != nil {
		return nil, err
	}

	result := &MigrateResult{DryRun: opts.DryRun}
	result.Conversations, err = ix.conversationCount()
	if err != nil {
		return nil, err
	}

	folders, err := listSubdirs(artDir)
	if err != nil {
		return nil, err
	}

	for _, name := range folders {
		// Already migrated, or not an artifact folder.
		if isDatedName(name) || !isUUIDName(name) {
			continue
		}
		report, err := migrateFolder(artDir, name, ix, opts.DryRun)
		if err != nil {
			return nil, err
		}
		result.Folders = append(result.Folders, *report)
		switch report.Outcome {
		case OutcomeMoved, OutcomeMerged:
			result.FoldersMoved++
		case OutcomeSkipped:
			result.Skipped++
		}
		result.FilesRenamed += len(report.Renames)
		result.Skipped += len(report.Skips)
	}
	return result, nil
}

// buildConversationIndex scans the conversations area once, recording the raw
// aliases value and creation time for every document that carries both a
// conversation_id and aliases. A missing conversations directory yields an
// empty index; artifacts without a matching conversation are then reported
// per item rather than failing the run.
func buildConversationIndex(ix *runIndex, dir string) error {
	files, err := collectMarkdownFiles(dir)
	if err != nil {
		return err
	}
	for _, path := range files {
		fm := parseFrontmatterFile(path)
		cid := fm["conversation_id"]
		aliases := fm["aliases"]
		if cid == "" || aliases == "" {
			continue
		}
		if err := ix.putConversation(cid, aliases, fm["create_time"]); err != nil {
			return err
		}
	}
	return nil
}

// migrateFolder runs the rename state machine for a single UUID-named folder:
// files are renamed in place first, then the folder itself is renamed or
// merged into an existing destination.
func migrateFolder(artDir, name string, ix *runIndex, dryRun bool) (*FolderReport, error) {
	report := &FolderReport{Name: name}

	titleRaw, created, ok, err := ix.conversation(name)
	if err != nil {
		return nil, err
	}
	title := ""
	if ok {
		title = firstAlias(titleRaw)
	}
	if title == "" {
		report.Outcome = OutcomeSkipped
		report.Reason = "no conversation found"
		return report, nil
	}

	newName := sanitizeName(title)
	if dp := datePrefix(created); dp != "" {
		newName = dp + " - " + newName
	}
	report.NewName = newName

	folder := filepath.Join(artDir, name)
	entries, err := os.ReadDir(folder)
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		if e.IsDir() || !isMarkdown(e.Name()) {
			continue
		}
		fname := e.Name()
		fm := parseFrontmatterFile(filepath.Join(folder, fname))
		newFile := artifactFileName(fm)
		if newFile == "" {
			report.Skips = append(report.Skips, FileSkip{
				Path:   name + "/" + fname,
				Reason: "no title alias",
			})
			continue
		}
		if fname == newFile {
			continue
		}
		if !dryRun {
			if err := os.Rename(filepath.Join(folder, fname), filepath.Join(folder, newFile)); err != nil {
				return nil, err
			}
		}
		report.Renames = append(report.Renames, FileRename{From: fname, To: newFile})
	}

	if name == newName {
		report.Outcome = OutcomeUnchanged
		return report, nil
	}
	if dryRun {
		report.Outcome = OutcomeMoved
		return report, nil
	}

	dest := filepath.Join(artDir, newName)
	if dirExists(dest) {
		if err := mergeFolder(folder, dest); err != nil {
			return nil, err
		}
		report.Outcome = OutcomeMerged
	} else {
		if err := os.Rename(folder, dest); err != nil {
			return nil, err
		}
		report.Outcome = OutcomeMoved
	}
	return report, nil
}

// artifactFileName computes the dated, human-readable name for an artifact
// file from its frontmatter, or "" when the file has no usable title alias.
// The " v{n}" suffix is appended only when version_number parses as an
// integer greater than 1.
func artifactFileName(fm map[string]string) string {
	aliases := fm["aliases"]
	if aliases == "" {
		return ""
	}
	title := firstAlias(aliases)
	if title == "" {
		return ""
	}

	name := sanitizeName(title)
	version := strings.TrimSpace(fm["version_number"])
	if n, err := strconv.Atoi(version); err == nil && n > 1 {
		name += " v" + version
	}
	if dp := datePrefix(fm["create_time"]); dp != "" {
		name = dp + " - " + name
	}
	return name + ".md"
}

// mergeFolder moves every entry of src into dst, never overwriting an entry
// that already exists at the destination, then removes the emptied source.
// A source left non-empty by unmergeable entries is tolerated.
func mergeFolder(src, dst string) error {
	entries, err := os.ReadDir(src)
	if err != nil {
		return err
	}
	for _, e := range entries {
		target := filepath.Join(dst, e.Name())
		if fileExists(target) {
			continue
		}
		if err := os.Rename(filepath.Join(src, e.Name()), target); err != nil {
			return err
		}
	}
	_ = os.Remove(src)
	return nil
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
