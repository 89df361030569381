package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"digitalthread/internal/domain"
	"digitalthread/internal/thread"
)

func newExportCmd(opts *rootOptions) *cobra.Command {
	var (
		exportFormat string
		output       string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the merged dataset as JSON or YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := openThread(cmd.Context(), opts)
			if err != nil {
				return err
			}

			if output == "" {
				return svc.Export(exportFormat, cmd.OutOrStdout())
			}
			if !cmd.Flags().Changed("format") {
				if ext := strings.TrimPrefix(filepath.Ext(output), "."); ext != "" {
					exportFormat = ext
				}
			}
			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("create %s: %w", output, err)
			}
			if err := svc.Export(exportFormat, f); err != nil {
				f.Close()
				return err
			}
			return f.Close()
		},
	}
	f := cmd.Flags()
	f.StringVarP(&exportFormat, "format", "f", "yaml", "Output format: json or yaml")
	f.StringVarP(&output, "output", "o", "", "Output file (default: stdout; format from extension)")
	return cmd
}

// problem is one data quality finding
type problem struct {
	id      string
	message string
}

func newCheckCmd(opts *rootOptions) *cobra.Command {
	var strict bool
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Report dangling links, unknown kinds and statuses, and unparseable dates",
		Long: "check loads the dataset (failing on duplicate ids) and lists data quality\n" +
			"findings. With --strict any finding makes the command fail.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := openThread(cmd.Context(), opts)
			if err != nil {
				return err
			}

			problems := findProblems(svc.Snapshot().Store)
			out := cmd.OutOrStdout()
			for _, p := range problems {
				fmt.Fprintf(out, "%s: %s\n", p.id, p.message)
			}
			if len(problems) == 0 {
				fmt.Fprintln(out, "No problems found")
				return nil
			}
			fmt.Fprintf(out, "%d problems found\n", len(problems))
			if strict {
				return fmt.Errorf("check failed with %d problems", len(problems))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "Exit non-zero when any problem is found")
	return cmd
}

func findProblems(store *thread.Store) []problem {
	var problems []problem
	for _, a := range store.All() {
		if !a.Kind.Valid() {
			problems = append(problems, problem{a.ID, fmt.Sprintf("unknown kind %q", a.Kind)})
		}
		if !a.Status.Valid() {
			problems = append(problems, problem{a.ID, fmt.Sprintf("unknown status %q", a.Status)})
		}
		if _, err := domain.ParseDate(a.LastModified); err != nil {
			problems = append(problems, problem{a.ID, fmt.Sprintf("lastModified: %v", err)})
		}
		for i, c := range a.Changes {
			if _, err := domain.ParseDate(c.Date); err != nil {
				problems = append(problems, problem{a.ID, fmt.Sprintf("change %d: %v", i+1, err)})
			}
			if c.ChangeKind != "" && !c.ChangeKind.Valid() {
				problems = append(problems, problem{a.ID, fmt.Sprintf("change %d: unknown change kind %q", i+1, c.ChangeKind)})
			}
		}
	}
	for _, d := range store.DanglingLinks() {
		problems = append(problems, problem{d.From, fmt.Sprintf("links to unknown artifact %q", d.To)})
	}
	return problems
}
