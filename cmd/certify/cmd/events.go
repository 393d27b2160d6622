package cmd

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/viant/certify/service/approval"
)

var eventsFor time.Duration

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Print approval events from the configured event queue",
	Long: `events consumes approval events, typically from a file queue shared
with earlier runs (events.vendor: fs). It stops after --for or on interrupt.`,
	Args: cobra.NoArgs,
	RunE: runEvents,
}

func init() {
	eventsCmd.Flags().DurationVar(&eventsFor, "for", 0, "stop after duration, 0 waits for interrupt")
	rootCmd.AddCommand(eventsCmd)
}

func runEvents(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if eventsFor > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, eventsFor)
		defer cancel()
	}
	srv, err := newService(ctx)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	listener := srv.Listen(ctx, func(_ context.Context, e *approval.Event) error {
		switch {
		case e.Outcome != nil:
			printf(out, "%s %s %s %s success=%v\n", e.Time.Format(time.RFC3339), e.Topic, e.ApprovalID, e.Outcome.Destination, e.Outcome.Success)
		default:
			printf(out, "%s %s %s %s\n", e.Time.Format(time.RFC3339), e.Topic, e.ApprovalID, e.Version.String())
		}
		return nil
	})
	<-ctx.Done()
	listener.Stop()
	return nil
}
