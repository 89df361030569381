package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/spf13/cobra"

	"digitalthread/internal/config"
	"digitalthread/internal/format"
	"digitalthread/internal/loader"
	"digitalthread/internal/service"
)

// version is set at build time via -ldflags.
var version = "dev"

// rootOptions are the flags shared by every subcommand
type rootOptions struct {
	data       []string
	configPath string
	markdown   bool
	verbose    bool
	now        func() time.Time
}

func (o *rootOptions) mode() format.Mode {
	if o.markdown {
		return format.Markdown
	}
	return format.ASCII
}

func newRootCmd() *cobra.Command {
	return buildRootCmd(&rootOptions{now: time.Now})
}

func buildRootCmd(opts *rootOptions) *cobra.Command {
	root := &cobra.Command{
		Use:   "threadctl",
		Short: "Inspect a digital thread dataset",
		Long: "threadctl loads a digital thread dataset and prints its traceability\n" +
			"relations and the flow, network and timeline views.",
		Version:      version,
		SilenceUsage: true,
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			log.SetOutput(cmd.ErrOrStderr())
			if !opts.verbose {
				log.SetOutput(io.Discard)
			}
		},
	}

	pf := root.PersistentFlags()
	pf.StringSliceVarP(&opts.data, "data", "d", nil, "Dataset files or doublestar globs (default: from config)")
	pf.StringVar(&opts.configPath, "config", "", "Config file path")
	pf.BoolVar(&opts.markdown, "markdown", false, "Render tables as Markdown")
	pf.BoolVarP(&opts.verbose, "verbose", "v", false, "Log loading details to stderr")

	root.AddCommand(
		newSummaryCmd(opts),
		newListCmd(opts),
		newShowCmd(opts),
		newRelationCmd(opts, "linked", "Show artifacts an artifact links to"),
		newRelationCmd(opts, "incoming", "Show artifacts linking to an artifact"),
		newRelationCmd(opts, "connected", "Show artifacts adjacent to an artifact in either direction"),
		newFlowCmd(opts),
		newNetworkCmd(opts),
		newTimelineCmd(opts),
		newExportCmd(opts),
		newCheckCmd(opts),
		newConfigCmd(opts),
	)
	return root
}

// openThread loads the dataset named by --data, or by the config file, into a
// ThreadService configured from the same config
func openThread(ctx context.Context, opts *rootOptions) (*service.ThreadService, error) {
	cfg, err := loadConfig(opts.configPath)
	if err != nil {
		return nil, err
	}
	paths := cfg.Dataset.Paths
	if len(opts.data) > 0 {
		paths = opts.data
	}

	svc := service.NewThreadService(loader.NewFileSource(paths...), nil,
		service.WithClock(opts.now),
		service.WithKindOrder(cfg.KindOrder()),
		service.WithTimelineDefaults(cfg.DefaultWindow(), cfg.Views.IncludeChanges),
	)
	if err := svc.Reload(ctx); err != nil {
		return nil, err
	}
	return svc, nil
}

func loadConfig(path string) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if path != "" {
		cfg, path, err = config.LoadFromPath(path)
	} else {
		cfg, path, err = config.Load()
	}
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	cfg.ResolveDatasetPaths(path)
	return cfg, nil
}
