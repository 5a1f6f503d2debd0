package cli

import (
	"errors"
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/iliyamo/concert-seat-reservation/internal/app"
	"github.com/iliyamo/concert-seat-reservation/internal/config"
	"github.com/iliyamo/concert-seat-reservation/internal/database"
	"github.com/iliyamo/concert-seat-reservation/internal/queue"
)

func newMigrateCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create missing database tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, opts, func(a *app.App) error {
				if a.DB == nil {
					return errors.New("migrate needs STORE_BACKEND=mysql")
				}
				if err := database.Migrate(cmd.Context(), a.DB); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "applied %d statements\n", len(database.Statements()))
				return nil
			})
		},
	}
}

func newSeedCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load the demo venues, concerts, users and reservations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, opts, func(a *app.App) error {
				return a.Seed(cmd.Context())
			})
		},
	}
}

func newEventsCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "events",
		Short: "List events with their reserved seat counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, opts, func(a *app.App) error {
				events, err := a.Engine.Events(cmd.Context())
				if err != nil {
					return err
				}
				if opts.JSON {
					return printJSON(cmd.OutOrStdout(), events)
				}
				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "ID\tDATE\tTITLE\tVENUE\tRESERVED")
				for _, e := range events {
					fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%d/%d\n",
						e.ID, e.Date.Format("2006-01-02"), e.Title, e.VenueName, e.Reserved, e.Rows*e.Columns)
				}
				return tw.Flush()
			})
		},
	}
}

func newCountsCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "counts <event-id>",
		Short: "Show reserved and available seats for an event",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseUint(args[0], 10, 64)
			if err != nil || id == 0 {
				return fmt.Errorf("invalid event id %q", args[0])
			}
			return withApp(cmd, opts, func(a *app.App) error {
				counts, err := a.Engine.Counts(cmd.Context(), id)
				if err != nil {
					return err
				}
				if opts.JSON {
					return printJSON(cmd.OutOrStdout(), counts)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "event %d: %d reserved, %d available of %d (%dx%d)\n",
					id, counts.Reserved, counts.Available, counts.Total, counts.Rows, counts.Columns)
				return nil
			})
		},
	}
}

func newConsumeCommand(opts *RootOptions) *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "consume",
		Short: "Append reservation events from RabbitMQ to a log file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			config.LoadEnvFiles(opts.EnvFiles...)
			cc := config.LoadConsumerConfig()
			if dir == "" {
				dir = cc.LogDir
			}
			err := queue.StartReservationConsumer(cmd.Context(), cc.AMQPURL, dir)
			if errors.Is(err, cmd.Context().Err()) {
				return nil
			}
			return err
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "", "log directory (default $LOG_DIR or logs)")
	return cmd
}
