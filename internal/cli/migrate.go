package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/example/vaultmig/internal/core"
)

// MigrateCmd builds the migrate-artifacts command.
func MigrateCmd() *cobra.Command {
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "migrate-artifacts <vault_path>",
		Short: "Rename UUID-named artifact folders and files to dated, readable names",
		Long: `migrate-artifacts renames every UUID-named artifact folder in the vault to
"YYYY-MM-DD - <conversation title>", and each artifact file inside to
"YYYY-MM-DD - <title>[ v{n}]", using the conversation metadata recorded in
each file's frontmatter. Already migrated folders are skipped, so the command
can be re-run safely after an interruption.`,
		Version:      versionString(),
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Building conversation index...")
			result, err := core.Migrate(args[0], core.MigrateOptions{DryRun: dryRun})
			if err != nil {
				return err
			}
			printMigrateResult(out, result)
			return nil
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "report planned renames without touching the filesystem")
	return cmd
}

func printMigrateResult(w io.Writer, result *core.MigrateResult) {
	fmt.Fprintf(w, "Found %d conversations\n", result.Conversations)

	for _, f := range result.Folders {
		if f.Outcome == core.OutcomeSkipped {
			fmt.Fprintf(w, "  %s: No conversation found for %s, skipping\n", warnTag(), f.Name)
			continue
		}
		for _, s := range f.Skips {
			fmt.Fprintf(w, "  %s: No title in %s, skipping file\n", warnTag(), s.Path)
		}
		if result.DryRun {
			for _, r := range f.Renames {
				fmt.Fprintf(w, "  RENAME: %s → %s\n", r.From, r.To)
			}
			if f.Outcome != core.OutcomeUnchanged {
				fmt.Fprintf(w, "FOLDER: %s → %s\n", f.Name, f.NewName)
			}
			continue
		}
		switch f.Outcome {
		case core.OutcomeMoved:
			fmt.Fprintf(w, "  %s: %s → %s\n", movedTag(), f.Name, f.NewName)
		case core.OutcomeMerged:
			fmt.Fprintf(w, "  %s: %s → %s\n", mergedTag(), f.Name, f.NewName)
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "--- Migration Summary ---")
	fmt.Fprintf(w, "Folders moved:  %d\n", result.FoldersMoved)
	fmt.Fprintf(w, "Files renamed:  %d\n", result.FilesRenamed)
	fmt.Fprintf(w, "Skipped:        %d\n", result.Skipped)
	if result.DryRun {
		fmt.Fprintln(w, "(dry run — no changes made)")
	}
}
