package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/viant/certify/service/dao"
	"github.com/viant/certify/service/dao/history"
)

var historyCmd = &cobra.Command{
	Use:   "history [namespace name]",
	Short: "List recorded approvals",
	Long:  `history lists approvals stored at historyURL, optionally for one collection.`,
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) == 1 {
			return fmt.Errorf("expected namespace and name")
		}
		return cobra.MaximumNArgs(2)(cmd, args)
	},
	RunE: runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	srv, err := newService(ctx)
	if err != nil {
		return err
	}
	var parameters []*dao.Parameter
	if len(args) == 2 {
		parameters = append(parameters, history.ByCollection(args[0], args[1]))
	}
	approvals, err := srv.History(ctx, parameters...)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	for _, item := range approvals {
		printf(out, "%s %s %s succeeded=%v failed=%d\n", item.StartedAt.Format(time.RFC3339), item.ID, item.Version.String(), item.Succeeded(), len(item.Failed()))
	}
	return nil
}
