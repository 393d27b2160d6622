package cmd

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"
	"github.com/viant/certify/model"
	"github.com/viant/certify/policy"
	"github.com/viant/certify/progress"
	"github.com/viant/certify/service/alert"
	"github.com/viant/certify/service/approval"
)

var (
	approveHref     string
	approveSource   string
	approveApproved bool
	approveMode     string
	approveAllow    []string
	approveBlock    []string
	approveJSON     bool
)

var approveCmd = &cobra.Command{
	Use:   "approve <namespace/name/version> [destination...]",
	Short: "Move a collection version into destinations",
	Long: `approve moves the version from its source repository into the first
destination and copies it into every other one. With --approved the single
repository labelled pipeline=approved is the destination.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runApprove,
}

func init() {
	flags := approveCmd.Flags()
	flags.StringVar(&approveHref, "href", "", "collection version href")
	flags.StringVar(&approveSource, "source", "", "source repository name")
	flags.BoolVar(&approveApproved, "approved", false, "approve into the approved pipeline repository")
	flags.StringVar(&approveMode, "mode", policy.ModeAuto, "transfer policy: auto, ask or deny")
	flags.StringSliceVar(&approveAllow, "allow", nil, "allowed destinations")
	flags.StringSliceVar(&approveBlock, "block", nil, "blocked destinations")
	flags.BoolVar(&approveJSON, "json", false, "print the approval as JSON")
	rootCmd.AddCommand(approveCmd)
}

// parseVersion parses namespace/name/version
func parseVersion(value string) (*model.CollectionVersion, error) {
	parts := strings.Split(value, "/")
	if len(parts) != 3 || parts[0] == "" || parts[1] == "" || parts[2] == "" {
		return nil, fmt.Errorf("invalid collection version %q, expected namespace/name/version", value)
	}
	return &model.CollectionVersion{Namespace: parts[0], Name: parts[1], Version: parts[2]}, nil
}

func parseDuration(value string) (time.Duration, error) {
	ret, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q: %w", value, err)
	}
	return ret, nil
}

// prompter asks on in/out, one question at a time.
func prompter(in io.Reader, out io.Writer) policy.AskFunc {
	var mux sync.Mutex
	reader := bufio.NewReader(in)
	return func(_ context.Context, destination string, version *model.CollectionVersion, _ *policy.Policy) bool {
		mux.Lock()
		defer mux.Unlock()
		printf(out, "Transfer %s to %s? [y/N] ", version.String(), destination)
		answer, _ := reader.ReadString('\n')
		switch strings.ToLower(strings.TrimSpace(answer)) {
		case "y", "yes":
			return true
		}
		return false
	}
}

func runApprove(cmd *cobra.Command, args []string) error {
	version, err := parseVersion(args[0])
	if err != nil {
		return err
	}
	version.Href = approveHref
	version.Repository = approveSource
	destinations := args[1:]
	if approveApproved == (len(destinations) > 0) {
		return fmt.Errorf("specify destinations or --approved")
	}
	srv, err := newService(cmd.Context())
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	if transferPolicy := approvePolicy(cmd, srv.Config().Approval.Policy); transferPolicy != nil {
		ctx = policy.WithPolicy(ctx, transferPolicy)
	}
	ctx, _ = progress.WithNewTracker(ctx, "", version.String(), func(p progress.Progress) {
		if p.RunningDestinations == 0 {
			return
		}
		printf(cmd.ErrOrStderr(), "%d/%d destinations running\n", p.RunningDestinations, p.TotalDestinations)
	})
	var result *model.Approval
	if approveApproved {
		result, err = srv.ApproveToApproved(ctx, version)
	} else {
		result, err = srv.Approve(ctx, version, destinations)
	}
	if err != nil {
		if precondition, ok := approval.AsPrecondition(err); ok {
			printAlert(cmd.OutOrStdout(), precondition.Alert)
		}
		return err
	}
	out := cmd.OutOrStdout()
	if approveJSON {
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		if err = encoder.Encode(result); err != nil {
			return err
		}
	} else {
		for _, item := range approval.Alerts(result) {
			printAlert(out, item)
		}
	}
	if failed := result.Failed(); len(failed) > 0 {
		return fmt.Errorf("%d of %d destinations failed", len(failed), len(result.Outcomes))
	}
	return nil
}

// approvePolicy builds the policy from flags, else from the configured one;
// both get an interactive prompt for mode ask.
func approvePolicy(cmd *cobra.Command, configured *policy.Config) *policy.Policy {
	var ret *policy.Policy
	switch {
	case cmd.Flags().Changed("mode") || len(approveAllow) > 0 || len(approveBlock) > 0:
		ret = &policy.Policy{Mode: approveMode, AllowList: approveAllow, BlockList: approveBlock}
	case configured != nil:
		ret = policy.FromConfig(configured)
	default:
		return nil
	}
	ret.Ask = prompter(cmd.InOrStdin(), cmd.ErrOrStderr())
	return ret
}

func printAlert(w io.Writer, item *alert.Alert) {
	if item.Description == "" {
		printf(w, "[%s] %s\n", item.Variant, item.Title)
		return
	}
	printf(w, "[%s] %s %s\n", item.Variant, item.Title, item.Description)
}
