package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/example/vaultmig/internal/core"
)

// FixLinksCmd builds the fix-artifact-links command.
func FixLinksCmd() *cobra.Command {
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "fix-artifact-links <vault_path>",
		Short: "Rewrite artifact wikilinks to match migrated folder and file names",
		Long: `fix-artifact-links maps each migrated artifact file's legacy wikilink path
(recovered from the second frontmatter alias) to its current path, then
replaces the old paths in every conversation and artifact document. It also
normalizes the legacy 🎨 image-embed marker to the standard ![[ form.

Run migrate-artifacts first; this command reads the names it produced.`,
		Version:      versionString(),
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Building artifact path map...")
			result, err := core.FixLinks(args[0], core.FixLinksOptions{DryRun: dryRun})
			if err != nil {
				return err
			}
			printFixLinksResult(out, result)
			return nil
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "report affected files without writing them")
	return cmd
}

func printFixLinksResult(w io.Writer, result *core.FixLinksResult) {
	fmt.Fprintf(w, "Found %d path mappings\n", result.Mappings)

	for _, f := range result.Files {
		switch {
		case f.Artifact && result.DryRun:
			fmt.Fprintf(w, "  UPDATE (artifact): %s\n", f.Path)
		case f.Artifact:
			// Artifact rewrites are silent; they show up in the summary.
		case result.DryRun:
			fmt.Fprintf(w, "  UPDATE: %s (%d changes)\n", f.Path, f.Changes)
		default:
			fmt.Fprintf(w, "  %s: %s\n", updatedTag(), f.Path)
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "--- Link Update Summary ---")
	fmt.Fprintf(w, "Files updated:  %d\n", result.FilesUpdated)
	fmt.Fprintf(w, "Links changed:  %d\n", result.LinksChanged)
	if result.DryRun {
		fmt.Fprintln(w, "(dry run — no changes made)")
	}
}
