package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/baaaaaaaka/ss14-roster/internal/config"
)

func newServersCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "servers",
		Short: "Manage configured game servers",
	}
	cmd.AddCommand(
		newServersListCmd(root),
		newServersAddCmd(root),
		newServersRemoveCmd(root),
	)
	return cmd
}

func newServersListCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List configured servers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			reg, err := loadRegistry(root)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if reg.Len() == 0 {
				_, _ = fmt.Fprintln(out, "No servers configured.")
				return nil
			}
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			_, _ = fmt.Fprintln(tw, "NAME\tADDRESS\tACTOR")
			for _, s := range reg.All() {
				_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\n", s.Name, s.Address, s.ActorName)
			}
			return tw.Flush()
		},
	}
}

type addServerOptions struct {
	address   string
	token     string
	actorID   string
	actorName string
}

func newServersAddCmd(root *rootOptions) *cobra.Command {
	opts := &addServerOptions{}
	cmd := &cobra.Command{
		Use:   "add [name]",
		Short: "Add or replace a server, prompting for missing fields",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := config.NewStore(root.configPath)
			if err != nil {
				return err
			}
			name := ""
			if len(args) == 1 {
				name = args[0]
			}
			srv, err := addServer(store, bufio.NewReader(cmd.InOrStdin()), cmd.ErrOrStderr(), name, *opts)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Saved server %q (%s)\n", srv.Name, srv.Address)
			return nil
		},
	}
	cmd.Flags().StringVar(&opts.address, "address", "", "Admin API address (host:port)")
	cmd.Flags().StringVar(&opts.token, "token", "", "Admin API token")
	cmd.Flags().StringVar(&opts.actorID, "actor-id", "", "Actor GUID for this server (default: config-wide actor)")
	cmd.Flags().StringVar(&opts.actorName, "actor-name", "", "Actor name for this server (default: config-wide actor)")
	return cmd
}

func addServer(store *config.Store, reader *bufio.Reader, prompts io.Writer, name string, opts addServerOptions) (config.Server, error) {
	srv := config.Server{
		Name:      strings.TrimSpace(name),
		Address:   strings.TrimSpace(opts.address),
		Token:     strings.TrimSpace(opts.token),
		ActorID:   strings.TrimSpace(opts.actorID),
		ActorName: strings.TrimSpace(opts.actorName),
	}
	if srv.Name == "" {
		srv.Name = promptRequired(reader, prompts, "Server name (required)", "")
	}

	// Re-adding a known server offers its current values.
	cfg, err := store.Load()
	if err != nil {
		return config.Server{}, err
	}
	existing, _ := cfg.FindServer(srv.Name)
	if srv.Address == "" {
		srv.Address = promptRequired(reader, prompts, "Admin API address host:port (required)", existing.Address)
	}
	if srv.Token == "" {
		if existing.Token != "" {
			srv.Token = existing.Token
		} else {
			srv.Token = promptRequired(reader, prompts, "Admin API token (required)", "")
		}
	}
	if srv.ActorID == "" {
		srv.ActorID = existing.ActorID
	}
	if srv.ActorName == "" {
		srv.ActorName = existing.ActorName
	}

	err = store.Update(func(cfg *config.Config) error {
		if strings.TrimSpace(cfg.Actor.ID) == "" {
			cfg.Actor.ID = config.NewActorID()
		}
		if strings.TrimSpace(cfg.Actor.Name) == "" {
			cfg.Actor.Name = config.DefaultActorName
		}
		cfg.UpsertServer(srv)
		// Refuse to persist something the registry would reject on load.
		_, err := config.NewRegistry(*cfg)
		return err
	})
	if err != nil {
		return config.Server{}, err
	}
	return srv, nil
}

func newServersRemoveCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:               "remove <name>",
		Aliases:           []string{"rm"},
		Short:             "Remove a server",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeServerNames(root),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := config.NewStore(root.configPath)
			if err != nil {
				return err
			}
			name := args[0]
			if err := store.Update(func(cfg *config.Config) error {
				if !cfg.RemoveServer(name) {
					return fmt.Errorf("server %q not found", name)
				}
				return nil
			}); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Removed server %q\n", name)
			return nil
		},
	}
}

func prompt(r *bufio.Reader, w io.Writer, label, def string) string {
	if def != "" {
		_, _ = fmt.Fprintf(w, "%s [%s]: ", label, def)
	} else {
		_, _ = fmt.Fprintf(w, "%s: ", label)
	}
	s, _ := r.ReadString('\n')
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	return s
}

// promptRequired asks until it gets an answer, accepting def on an empty
// line when def is set. It gives up with an empty string once the input is
// exhausted.
func promptRequired(r *bufio.Reader, w io.Writer, label, def string) string {
	for {
		v := prompt(r, w, label, def)
		if strings.TrimSpace(v) != "" {
			return v
		}
		if _, err := r.Peek(1); err != nil {
			return ""
		}
	}
}
