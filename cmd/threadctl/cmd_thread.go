package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"digitalthread/internal/domain"
	"digitalthread/internal/format"
)

func newSummaryCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Show artifact counts per kind and link totals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := openThread(cmd.Context(), opts)
			if err != nil {
				return err
			}
			snap := svc.Snapshot()
			out := cmd.OutOrStdout()
			fmt.Fprint(out, format.Stats(opts.mode(), snap.Store))
			fmt.Fprintf(out, "Digest: %s\n", snap.Digest)
			return nil
		},
	}
}

func newListCmd(opts *rootOptions) *cobra.Command {
	var kind string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List artifacts, optionally of one kind",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var k domain.Kind
			if kind != "" {
				parsed, ok := domain.ParseKind(kind)
				if !ok {
					return fmt.Errorf("unknown kind %q (want one of %s)", kind, kindNames())
				}
				k = parsed
			}
			svc, err := openThread(cmd.Context(), opts)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), format.Artifacts(opts.mode(), svc.Artifacts(k), opts.now()))
			return nil
		},
	}
	cmd.Flags().StringVarP(&kind, "kind", "k", "", "Only list artifacts of this kind")
	return cmd
}

func newShowCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one artifact with its change log",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := openThread(cmd.Context(), opts)
			if err != nil {
				return err
			}
			a, err := svc.Artifact(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "ID:          %s\n", a.ID)
			fmt.Fprintf(out, "Name:        %s\n", a.DisplayName())
			fmt.Fprintf(out, "Kind:        %s\n", a.Kind)
			fmt.Fprintf(out, "Status:      %s\n", a.Status)
			if a.Version != "" {
				fmt.Fprintf(out, "Version:     %s\n", a.Version)
			}
			fmt.Fprintf(out, "Modified:    %s (%s) by %s\n", a.LastModified, format.Ago(a.LastModified, opts.now()), a.ModifiedBy)
			if a.Description != "" {
				fmt.Fprintf(out, "Description: %s\n", a.Description)
			}
			if len(a.LinkedItems) > 0 {
				fmt.Fprintf(out, "Links:       %s\n", strings.Join(a.LinkedItems, ", "))
			}
			if a.HasChanges() {
				t := format.NewTable(opts.mode())
				t.Title("Changes")
				t.Header("Date", "User", "Change", "Description")
				for _, c := range a.Changes {
					t.Row(c.Date, c.User, c.ChangeKind, c.Description)
				}
				fmt.Fprintln(out, t.String())
			}
			return nil
		},
	}
}

func newRelationCmd(opts *rootOptions, name, short string) *cobra.Command {
	return &cobra.Command{
		Use:   name + " <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := openThread(cmd.Context(), opts)
			if err != nil {
				return err
			}
			lookup := svc.Linked
			switch name {
			case "incoming":
				lookup = svc.Incoming
			case "connected":
				lookup = svc.Connected
			}
			related, err := lookup(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), format.Artifacts(opts.mode(), related, opts.now()))
			return nil
		},
	}
}

func kindNames() string {
	names := make([]string, 0)
	for _, k := range domain.CanonicalKindOrder() {
		names = append(names, string(k))
	}
	return strings.Join(names, ", ")
}
