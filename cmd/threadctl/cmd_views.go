package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"digitalthread/internal/domain"
	"digitalthread/internal/format"
	"digitalthread/internal/view"
)

func newFlowCmd(opts *rootOptions) *cobra.Command {
	var order []string
	cmd := &cobra.Command{
		Use:   "flow",
		Short: "Group artifacts by kind in lifecycle order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := openThread(cmd.Context(), opts)
			if err != nil {
				return err
			}
			groups := svc.Flow(view.ParseKindOrder(order))
			fmt.Fprintln(cmd.OutOrStdout(), format.Flow(opts.mode(), groups))
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&order, "order", nil, "Column order, e.g. Requirement,Test,Result")
	return cmd
}

func newNetworkCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "network",
		Short: "Show resolved links and kind-to-kind adjacency",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := openThread(cmd.Context(), opts)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), format.Network(opts.mode(), svc.Network()))
			return nil
		},
	}
}

func newTimelineCmd(opts *rootOptions) *cobra.Command {
	var (
		window  string
		changes bool
		byMonth bool
	)
	cmd := &cobra.Command{
		Use:   "timeline",
		Short: "List creation and change events in date order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := openThread(cmd.Context(), opts)
			if err != nil {
				return err
			}

			topts := svc.TimelineDefaults()
			if cmd.Flags().Changed("window") {
				w, err := domain.ParseTimeWindow(window)
				if err != nil {
					return err
				}
				topts.Window = w
			}
			if cmd.Flags().Changed("changes") {
				topts.IncludeChangeEvents = changes
			}

			out := cmd.OutOrStdout()
			if byMonth {
				groups, err := svc.TimelineByMonth(topts)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, format.Months(opts.mode(), groups, opts.now()))
				return nil
			}
			events, err := svc.Timeline(topts)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, format.Timeline(opts.mode(), events, opts.now()))
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVarP(&window, "window", "w", string(domain.WindowAll), "Time window: 1W, 1M, 3M, 6M, 1Y or All")
	f.BoolVar(&changes, "changes", false, "Include change log events")
	f.BoolVar(&byMonth, "by-month", false, "Group events by calendar month")
	return cmd
}
