package cmd

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/viant/certify/service/task"
)

var (
	waitInterval string
	waitAttempts int
)

var waitCmd = &cobra.Command{
	Use:   "wait <task id or href>",
	Short: "Wait for a backend task to complete",
	Args:  cobra.ExactArgs(1),
	RunE:  runWait,
}

func init() {
	waitCmd.Flags().StringVar(&waitInterval, "interval", "", "poll interval override, e.g. 2s")
	waitCmd.Flags().IntVar(&waitAttempts, "attempts", 0, "max attempts override")
	rootCmd.AddCommand(waitCmd)
}

func runWait(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	srv, err := newService(ctx)
	if err != nil {
		return err
	}
	var options []task.WaitOption
	if waitInterval != "" {
		interval, err := parseDuration(waitInterval)
		if err != nil {
			return err
		}
		options = append(options, task.WithPollInterval(interval))
	}
	if waitAttempts > 0 {
		options = append(options, task.WithMaxAttempts(waitAttempts))
	}
	ref := args[0]
	if strings.Contains(ref, "/") {
		err = srv.WaitForTaskURL(ctx, ref, options...)
	} else {
		err = srv.WaitForTask(ctx, ref, options...)
	}
	if err != nil {
		return err
	}
	printf(cmd.OutOrStdout(), "task %s completed\n", ref)
	return nil
}
