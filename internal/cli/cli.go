package cli

import (
	"context"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
)

var (
	version = "v0.1.0"
	commit  = ""
	date    = ""
)

type rootOptions struct {
	configPath string
	logLevel   string

	logger *slog.Logger
}

func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cmd := newRootCmd()
	if err := cmd.ExecuteContext(ctx); err != nil {
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	players := &rosterOptions{}

	cmd := &cobra.Command{
		Use:           "ss14-roster [server]",
		Short:         "Show who is online on SS14 game servers",
		SilenceErrors: false,
		SilenceUsage:  true,
		Version:       buildVersion(),
		Args:          cobra.MaximumNArgs(1),
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			logger, err := newLogger(cmd.ErrOrStderr(), opts.logLevel)
			if err != nil {
				return err
			}
			opts.logger = logger
			return nil
		},
		ValidArgsFunction: completeServerNames(opts),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDefault(cmd, opts, players, args)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "Override config file path (default: OS user config dir)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	players.bindFlags(cmd, rosterPlayers.kind)

	cmd.AddCommand(
		newRosterCmd(opts, rosterPlayers),
		newRosterCmd(opts, rosterAdmins),
		newServersCmd(opts),
	)

	return cmd
}

func buildVersion() string {
	v := version
	if commit != "" {
		v += " (" + commit + ")"
	}
	if date != "" {
		v += " " + date
	}
	return v
}
