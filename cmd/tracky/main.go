package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"tracky/internal/bootstrap"
	"tracky/internal/platform/config"
	"tracky/internal/ui/render"
)

// errReported marks a failure already printed by the command itself.
var errReported = errors.New("reported")

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if !errors.Is(err, errReported) {
			_, _ = fmt.Fprintln(os.Stderr, render.Message(err))
		}
		os.Exit(1)
	}
}

type rootOptions struct {
	dataDir string
	store   string
	verbose bool
	noColor bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "tracky",
		Short:         "Personal time tracker",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.dataDir, "data-dir", "", "directory holding tracker data (default <config dir>/tracky_cli)")
	root.PersistentFlags().StringVar(&opts.store, "store", "", "state backend: json|yaml|sqlite")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "debug logging on stderr")
	root.PersistentFlags().BoolVar(&opts.noColor, "no-color", false, "disable colored output")

	root.AddCommand(
		newNewCmd(opts),
		newStartCmd(opts),
		newStopCmd(opts),
		newStatusCmd(opts),
		newCurrentCmd(opts),
		newSwitchCmd(opts),
		newDeleteCmd(opts),
		newLogsCmd(opts),
		newListCmd(opts),
		newTUICmd(opts),
	)
	return root
}

func loadApp(opts *rootOptions) (*bootstrap.App, error) {
	overrides := config.Overrides{
		DataDir: opts.dataDir,
		Backend: opts.store,
		NoColor: opts.noColor,
	}
	if opts.verbose {
		overrides.LogLevel = "debug"
	}
	cfg, err := config.Load(overrides)
	if err != nil {
		return nil, err
	}
	return bootstrap.New(cfg, os.Stderr)
}

// runWithApp loads the app, runs fn and prints its output. Operation
// failures are rendered through the app's renderer.
func runWithApp(cmd *cobra.Command, opts *rootOptions, fn func(ctx context.Context, app *bootstrap.App) (string, error)) error {
	app, err := loadApp(opts)
	if err != nil {
		return err
	}
	defer func() { _ = app.Close() }()

	out, err := fn(cmd.Context(), app)
	if err != nil {
		_, _ = fmt.Fprintln(cmd.ErrOrStderr(), app.Renderer.Error(err))
		return errReported
	}
	if out != "" {
		_, _ = fmt.Fprint(cmd.OutOrStdout(), out)
		if !strings.HasSuffix(out, "\n") {
			_, _ = fmt.Fprintln(cmd.OutOrStdout())
		}
	}
	return nil
}

func optionalTitle(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}

func newNewCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "new <title>",
		Short: "Create a new tracker",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithApp(cmd, opts, func(ctx context.Context, app *bootstrap.App) (string, error) {
				out, err := app.TrackerCLI.New(ctx, args[0])
				if err != nil {
					return "", err
				}
				return app.Renderer.Created(out), nil
			})
		},
	}
}

func newStartCmd(opts *rootOptions) *cobra.Command {
	var notes string
	start := &cobra.Command{
		Use:   "start [title]",
		Short: "Start timing the current or named tracker",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithApp(cmd, opts, func(ctx context.Context, app *bootstrap.App) (string, error) {
				out, err := app.TrackerCLI.Start(ctx, optionalTitle(args), notes)
				if err != nil {
					return "", err
				}
				return app.Renderer.Started(out), nil
			})
		},
	}
	start.Flags().StringVarP(&notes, "note", "n", "", "note attached to the new log")
	return start
}

func newStopCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "stop [title]",
		Short: "Stop the running log",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithApp(cmd, opts, func(ctx context.Context, app *bootstrap.App) (string, error) {
				out, err := app.TrackerCLI.Stop(ctx, optionalTitle(args))
				if err != nil {
					return "", err
				}
				return app.Renderer.Stopped(out), nil
			})
		},
	}
}

func newStatusCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status [title]",
		Short: "Show running state and recent logs",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithApp(cmd, opts, func(ctx context.Context, app *bootstrap.App) (string, error) {
				out, err := app.TrackerCLI.Status(ctx, optionalTitle(args))
				if err != nil {
					return "", err
				}
				return app.Renderer.Status(out), nil
			})
		},
	}
}

func newCurrentCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "current",
		Short: "Show the selected tracker",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runWithApp(cmd, opts, func(ctx context.Context, app *bootstrap.App) (string, error) {
				out, err := app.TrackerCLI.Current(ctx)
				if err != nil {
					return "", err
				}
				return app.Renderer.Current(out), nil
			})
		},
	}
}

func newSwitchCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "switch <title>",
		Short: "Select another tracker",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithApp(cmd, opts, func(ctx context.Context, app *bootstrap.App) (string, error) {
				out, err := app.TrackerCLI.Switch(ctx, args[0])
				if err != nil {
					return "", err
				}
				return app.Renderer.Switched(out), nil
			})
		},
	}
}

func newDeleteCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete [title]",
		Short: "Delete the current or named tracker",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithApp(cmd, opts, func(ctx context.Context, app *bootstrap.App) (string, error) {
				out, err := app.TrackerCLI.Delete(ctx, optionalTitle(args))
				if err != nil {
					return "", err
				}
				return app.Renderer.Deleted(out), nil
			})
		},
	}
}

func newLogsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "logs [title]",
		Short: "Show every log of a tracker",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithApp(cmd, opts, func(ctx context.Context, app *bootstrap.App) (string, error) {
				out, err := app.TrackerCLI.Logs(ctx, optionalTitle(args))
				if err != nil {
					return "", err
				}
				return app.Renderer.Logs(out), nil
			})
		},
	}
}

func newListCmd(opts *rootOptions) *cobra.Command {
	var match string
	list := &cobra.Command{
		Use:   "list",
		Short: "List trackers, marking the current one",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runWithApp(cmd, opts, func(ctx context.Context, app *bootstrap.App) (string, error) {
				out, err := app.TrackerCLI.List(ctx, match)
				if err != nil {
					return "", err
				}
				return app.Renderer.List(out), nil
			})
		},
	}
	list.Flags().StringVar(&match, "match", "", "glob filter on titles, e.g. 'work/**'")
	return list
}

func newTUICmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Run the tracker dashboard",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			app, err := loadApp(opts)
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()
			return bootstrap.RunTUI(app)
		},
	}
}
