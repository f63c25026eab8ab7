package core

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Embed marker normalization: the legacy export prefixed image embeds with a
// palette emoji instead of the standard "!" embed marker.
const (
	legacyEmbedMarker = "🎨 [["
	embedMarker       = "![["
)

// FixLinksOptions controls the link rewrite.
type FixLinksOptions struct {
	DryRun bool
}

// FileUpdate records one rewritten document. Path is vault-relative for
// conversation files and "folder/file" for artifact files. Changes is an
// approximate count of touched links, tracked for conversation files only.
type FileUpdate struct {
	Path     string
	Changes  int
	Artifact bool
}

// FixLinksResult aggregates a whole link-fix run.
type FixLinksResult struct {
	Mappings     int
	Files        []FileUpdate
	FilesUpdated int
	LinksChanged int
	DryRun       bool
}

// FixLinks rewrites artifact wikilinks after a migration run. It derives an
// old-path → new-path map from the frontmatter of migrated artifact files,
// then replaces every occurrence of an old path in conversation and artifact
// documents. Replacement is literal substring substitution: link paths may
// contain regex metacharacters and must never be treated as patterns.
func FixLinks(vaultPath string, opts FixLinksOptions) (*FixLinksResult, error) {
	artDir := artifactsDir(vaultPath)
	if !dirExists(artDir) {
		return nil, fmt.Errorf("artifacts directory not found: %s", artDir)
	}

	ix, err := openRunIndex()
	if err != nil {
		return nil, err
	}
	defer ix.Close()

	folders, err := listSubdirs(artDir)
	if err != nil {
		return nil, err
	}

	// Pass 1: build the path map from migrated (dated-prefix) folders. The
	// second alias still encodes the legacy filename stem; the current
	// filename is the new stem.
	for _, folderName := range folders {
		if !isDatedName(folderName) {
			continue
		}
		entries, err := os.ReadDir(filepath.Join(artDir, folderName))
		if err != nil {
			return nil, err
		}
		for _, e := range entries {
			if e.IsDir() || !isMarkdown(e.Name()) {
				continue
			}
			fm := parseFrontmatterFile(filepath.Join(artDir, folderName, e.Name()))
			cid := fm["conversation_id"]
			aliases := fm["aliases"]
			if cid == "" || aliases == "" {
				continue
			}
			oldStem := secondAlias(aliases)
			if oldStem == "" {
				continue
			}
			newStem := strings.TrimSuffix(e.Name(), ".md")
			oldLink := linkPathPrefix + cid + "/" + oldStem
			newLink := linkPathPrefix + folderName + "/" + newStem
			if oldLink == newLink {
				continue
			}
			if err := ix.putMapping(oldLink, newLink); err != nil {
				return nil, err
			}
		}
	}

	mappings, err := ix.mappings()
	if err != nil {
		return nil, err
	}
	result := &FixLinksResult{Mappings: len(mappings), DryRun: opts.DryRun}

	// Pass 2: conversation files, with approximate per-file change counts.
	convFiles, err := collectMarkdownFiles(conversationsDir(vaultPath))
	if err != nil {
		return nil, err
	}
	for _, path := range convFiles {
		rel, err := filepath.Rel(vaultPath, path)
		if err != nil {
			return nil, err
		}
		update, err := rewriteDocument(path, filepath.ToSlash(rel), mappings, true, opts.DryRun)
		if err != nil {
			return nil, err
		}
		if update != nil {
			result.Files = append(result.Files, *update)
			result.FilesUpdated++
			result.LinksChanged += update.Changes
		}
	}

	// Pass 2, continued: artifact files link back to conversations and to
	// each other. All folders this time, no change counting.
	for _, folderName := range folders {
		entries, err := os.ReadDir(filepath.Join(artDir, folderName))
		if err != nil {
			return nil, err
		}
		for _, e := range entries {
			if e.IsDir() || !isMarkdown(e.Name()) {
				continue
			}
			path := filepath.Join(artDir, folderName, e.Name())
			update, err := rewriteDocument(path, folderName+"/"+e.Name(), mappings, false, opts.DryRun)
			if err != nil {
				return nil, err
			}
			if update != nil {
				update.Artifact = true
				result.Files = append(result.Files, *update)
				result.FilesUpdated++
			}
		}
	}

	return result, nil
}

// rewriteDocument applies the link map (and, for conversation files, the
// legacy embed-marker normalization) to one document. Returns nil when the
// file is unreadable, contains no artifact paths, or ends up unchanged.
func rewriteDocument(path, displayPath string, mappings []LinkMapping, countChanges, dryRun bool) (*FileUpdate, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil
	}
	content := string(data)
	if !strings.Contains(content, "artifacts/") {
		return nil, nil
	}

	updated, changes := applyMappings(content, mappings, countChanges)
	if countChanges {
		updated, changes = normalizeEmbedMarkers(updated, changes)
	}
	if updated == content {
		return nil, nil
	}

	if !dryRun {
		if err := writeFilePreservePerm(path, []byte(updated), info.Mode().Perm()); err != nil {
			return nil, err
		}
	}
	return &FileUpdate{Path: displayPath, Changes: changes}, nil
}

// applyMappings replaces every literal occurrence of each old path with its
// new path, in insertion order of the map. The change count approximates the
// number of links touched by diffing occurrence counts of the new path
// against the original content; it can undercount when one old path is a
// substring of another's replacement, which is acceptable for a
// human-facing summary.
func applyMappings(content string, mappings []LinkMapping, countChanges bool) (string, int) {
	updated := content
	changes := 0
	for _, m := range mappings {
		if !strings.Contains(updated, m.Old) {
			continue
		}
		updated = strings.ReplaceAll(updated, m.Old, m.New)
		if countChanges {
			changes += strings.Count(updated, m.New) - strings.Count(content, m.New)
		}
	}
	return updated, changes
}

// normalizeEmbedMarkers rewrites the legacy image-embed marker to the
// standard one. Idempotent: a normalized document is left unchanged.
func normalizeEmbedMarkers(content string, changes int) (string, int) {
	if n := strings.Count(content, legacyEmbedMarker); n > 0 {
		changes += n
		content = strings.ReplaceAll(content, legacyEmbedMarker, embedMarker)
	}
	return content, changes
}
