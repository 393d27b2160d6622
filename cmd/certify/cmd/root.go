package cmd

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/viant/certify"
	"github.com/viant/certify/model"
)

var (
	// Version information
	Version   = certify.Version
	CommitSHA = "unknown"
	BuildTime = "unknown"

	// Global flags
	cfgFile    string
	envFiles   []string
	baseURL    string
	token      string
	signing    string
	addressing string
	debugMode  bool

	// extraOptions are appended to every service built by the CLI.
	extraOptions []certify.Option
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "certify",
	Short: "Collection certification client",
	Long: `certify approves collection versions into hub repositories, waits for
backend tasks and guards collection deletion.

Configuration is read from --config, then CERTIFY_* environment variables,
then command line flags.`,
	Version:           fmt.Sprintf("%s (Build: %s, Commit: %s)", Version, BuildTime, CommitSHA),
	SilenceUsage:      true,
	PersistentPreRunE: setupLogging,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file URL (yaml or json)")
	flags.StringSliceVar(&envFiles, "env", nil, "dotenv files to load (default .env when present)")
	flags.StringVar(&baseURL, "base-url", "", "hub API base URL, e.g. https://hub/api/galaxy/")
	flags.StringVar(&token, "token", "", "hub API token")
	flags.StringVar(&signing, "signing-service", "", "signing service attached to transfers")
	flags.StringVar(&addressing, "addressing", "", "transfer addressing: distribution or repository")
	flags.BoolVar(&debugMode, "debug", false, "enable debug logging")

	rootCmd.SetVersionTemplate(`Version: {{.Version}}
`)
}

func setupLogging(cmd *cobra.Command, _ []string) error {
	level := zerolog.InfoLevel
	if debugMode {
		level = zerolog.DebugLevel
	}
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: cmd.ErrOrStderr(), TimeFormat: time.RFC3339}).
		Level(level).With().Timestamp().Logger()
	return nil
}

// loadConfig merges config file, environment and flags.
func loadConfig(ctx context.Context) (*certify.Config, error) {
	if err := certify.LoadEnv(envFiles...); err != nil {
		return nil, fmt.Errorf("failed to load env: %w", err)
	}
	config := certify.DefaultConfig()
	if cfgFile != "" {
		loaded, err := certify.LoadConfig(ctx, cfgFile)
		if err != nil {
			return nil, err
		}
		config = loaded
	}
	if err := config.ApplyEnv(); err != nil {
		return nil, err
	}
	if baseURL != "" {
		config.Hub.BaseURL = baseURL
	}
	if token != "" {
		config.Hub.Token = token
		config.Hub.Username = ""
		config.Hub.Password = ""
	}
	if signing != "" {
		config.Approval.SigningService = signing
	}
	if addressing != "" {
		config.Approval.Addressing = model.Addressing(addressing)
	}
	return config, nil
}

func newService(ctx context.Context) (*certify.Service, error) {
	config, err := loadConfig(ctx)
	if err != nil {
		return nil, err
	}
	options := append([]certify.Option{certify.WithConfig(config), certify.WithLogger(log.Logger)}, extraOptions...)
	return certify.New(ctx, options...)
}

func printf(w io.Writer, format string, args ...interface{}) {
	_, _ = fmt.Fprintf(w, format, args...)
}
