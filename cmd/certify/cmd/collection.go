package cmd

import (
	"github.com/spf13/cobra"
	"github.com/viant/certify/model"
	"github.com/viant/certify/service/alert"
)

var deleteRepository string

var usedByCmd = &cobra.Command{
	Use:   "usedby <namespace> <name>",
	Short: "Count collection versions depending on a collection",
	Args:  cobra.ExactArgs(2),
	RunE:  runUsedBy,
}

var removeCmd = &cobra.Command{
	Use:   "remove <repository> <version href>",
	Short: "Remove a collection version from a repository",
	Args:  cobra.ExactArgs(2),
	RunE:  runRemove,
}

var deleteCmd = &cobra.Command{
	Use:   "delete <namespace> <name> [version]",
	Short: "Delete a collection, or a single version of it",
	Args:  cobra.RangeArgs(2, 3),
	RunE:  runDelete,
}

func init() {
	deleteCmd.Flags().StringVar(&deleteRepository, "repository", "", "repository holding the collection")
	_ = deleteCmd.MarkFlagRequired("repository")
	rootCmd.AddCommand(usedByCmd, removeCmd, deleteCmd)
}

func runUsedBy(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	srv, err := newService(ctx)
	if err != nil {
		return err
	}
	guard, err := srv.DeleteGuard(ctx, args[0], args[1])
	if err != nil {
		if item, ok := alert.From(err); ok {
			printAlert(cmd.OutOrStdout(), item)
		}
		return err
	}
	printf(cmd.OutOrStdout(), "%s.%s is used by %d collection versions\n", args[0], args[1], guard.Dependents)
	if !guard.Allowed {
		printf(cmd.OutOrStdout(), "%s\n", guard.Reason)
	}
	return nil
}

func runRemove(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	srv, err := newService(ctx)
	if err != nil {
		return err
	}
	if err = srv.RemoveFromRepository(ctx, args[0], args[1]); err != nil {
		if item, ok := alert.From(err); ok {
			printAlert(cmd.OutOrStdout(), item)
		}
		return err
	}
	printf(cmd.OutOrStdout(), "removed %s from %s\n", args[1], args[0])
	return nil
}

func runDelete(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	srv, err := newService(ctx)
	if err != nil {
		return err
	}
	version := &model.CollectionVersion{Namespace: args[0], Name: args[1], Repository: deleteRepository}
	whole := len(args) == 2
	if !whole {
		version.Version = args[2]
	}
	success, err := srv.DeleteCollection(ctx, version, whole)
	if err != nil {
		if item, ok := alert.From(err); ok {
			printAlert(cmd.OutOrStdout(), item)
		}
		return err
	}
	printAlert(cmd.OutOrStdout(), success)
	return nil
}
