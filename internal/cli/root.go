// Package cli implements seatctl, the operator command line for the
// reservation service.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/iliyamo/concert-seat-reservation/internal/app"
	"github.com/iliyamo/concert-seat-reservation/internal/config"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	EnvFiles []string
	JSON     bool

	// open builds the application; tests replace it.
	open func(ctx context.Context) (*app.App, error)
}

// NewRootCommand creates the root command for seatctl.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}
	opts.open = func(ctx context.Context) (*app.App, error) {
		config.LoadEnvFiles(opts.EnvFiles...)
		return app.New(ctx, config.Load())
	}
	return newRootCommand(opts)
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "seatctl",
		Short:         "Operate the concert seat reservation service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringSliceVar(&opts.EnvFiles, "env-file", nil, "dotenv files to load (default .env)")
	cmd.PersistentFlags().BoolVar(&opts.JSON, "json", false, "print JSON instead of text")

	cmd.AddCommand(newMigrateCommand(opts))
	cmd.AddCommand(newSeedCommand(opts))
	cmd.AddCommand(newEventsCommand(opts))
	cmd.AddCommand(newCountsCommand(opts))
	cmd.AddCommand(newConsumeCommand(opts))
	return cmd
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func withApp(cmd *cobra.Command, opts *RootOptions, fn func(a *app.App) error) error {
	a, err := opts.open(cmd.Context())
	if err != nil {
		return fmt.Errorf("open service: %w", err)
	}
	defer a.Close()
	return fn(a)
}
