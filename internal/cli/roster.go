package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/baaaaaaaka/ss14-roster/internal/config"
	"github.com/baaaaaaaka/ss14-roster/internal/pages"
	"github.com/baaaaaaaka/ss14-roster/internal/roster"
	"github.com/baaaaaaaka/ss14-roster/internal/tui"
	"github.com/baaaaaaaka/ss14-roster/internal/view"
)

var browsePages = tui.Browse

type rosterKind struct {
	kind  roster.Kind
	title string
	short string
}

var (
	rosterPlayers = rosterKind{kind: roster.KindPlayers, title: "Players", short: "Show the players online on a server"}
	rosterAdmins  = rosterKind{kind: roster.KindAdmins, title: "Admins", short: "Show the admins online on a server"}
)

type rosterOptions struct {
	plain       bool
	json        bool
	all         bool
	pageSize    int
	idleTimeout time.Duration
	timeout     time.Duration
	filter      string
}

func (o *rosterOptions) bindFlags(cmd *cobra.Command, kind roster.Kind) {
	cmd.Flags().BoolVar(&o.plain, "plain", false, "Print every page and exit instead of opening the viewer")
	cmd.Flags().BoolVar(&o.json, "json", false, "Print the roster as JSON")
	cmd.Flags().BoolVar(&o.all, "all", false, "Query every configured server (implies --plain)")
	cmd.Flags().IntVar(&o.pageSize, "page-size", 0, "Entries per page (default: 10 players, 5 admins)")
	cmd.Flags().DurationVar(&o.idleTimeout, "idle-timeout", view.DefaultIdleTimeout, "Freeze the viewer after this long without input")
	cmd.Flags().DurationVar(&o.timeout, "timeout", roster.DefaultTimeout, "Request timeout per server")
	cmd.MarkFlagsMutuallyExclusive("plain", "json")
	if kind == roster.KindPlayers {
		cmd.Flags().StringVar(&o.filter, "filter", "hide-active-admins", "Player filter (hide-active-admins, hide-admins, all)")
	}
}

func newRosterCmd(root *rootOptions, rk rosterKind) *cobra.Command {
	opts := &rosterOptions{}
	cmd := &cobra.Command{
		Use:               string(rk.kind) + " [server]",
		Short:             rk.short,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: completeServerNames(root),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRoster(cmd, root, rk, opts, args)
		},
	}
	opts.bindFlags(cmd, rk.kind)
	return cmd
}

func runDefault(cmd *cobra.Command, root *rootOptions, opts *rosterOptions, args []string) error {
	return runRoster(cmd, root, rosterPlayers, opts, args)
}

func runRoster(cmd *cobra.Command, root *rootOptions, rk rosterKind, opts *rosterOptions, args []string) error {
	reg, err := loadRegistry(root)
	if err != nil {
		return err
	}
	client, err := newRosterClient(root, reg, opts)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	out := cmd.OutOrStdout()

	if opts.all {
		if len(args) > 0 {
			return errors.New("--all does not take a server name")
		}
		return showAll(ctx, out, client, reg, rk, opts)
	}

	srv, err := resolveServer(reg, args)
	if err != nil {
		return err
	}
	r, err := client.Fetch(ctx, srv, rk.kind)
	if err != nil {
		return err
	}

	if opts.json {
		return writeJSON(out, r)
	}
	if r.Empty() {
		_, _ = fmt.Fprintln(out, noDataMessage(rk, srv))
		return nil
	}

	pgs := pages.Build(r, opts.pageSize, pages.MaxChars)
	title := rk.title + " on " + srv.Name
	footer := "Server address: " + srv.Address
	if opts.plain {
		printPages(out, title, footer, pgs)
		return nil
	}

	reason, err := browsePages(ctx, tui.Options{
		Title:       title,
		Footer:      footer,
		Pages:       pgs,
		IdleTimeout: opts.idleTimeout,
		Logger:      loggerFor(root),
	})
	loggerFor(root).Debug("viewer closed", "server", srv.Name, "reason", reason.String())
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

type serverReport struct {
	Server string         `json:"server"`
	Roster *roster.Roster `json:"roster,omitempty"`
	Error  string         `json:"error,omitempty"`
}

func showAll(ctx context.Context, out io.Writer, client *roster.Client, reg *config.Registry, rk rosterKind, opts *rosterOptions) error {
	if reg.Len() == 0 {
		return errNoServers
	}

	results := client.FetchAll(ctx, reg.All(), rk.kind)
	failed := 0
	reports := make([]serverReport, 0, len(results))
	for i, res := range results {
		rep := serverReport{Server: res.Server.Name}
		if res.Err != nil {
			failed++
			rep.Error = res.Err.Error()
		} else {
			r := res.Roster
			rep.Roster = &r
		}
		reports = append(reports, rep)

		if opts.json {
			continue
		}
		if i > 0 {
			_, _ = fmt.Fprintln(out)
		}
		title := rk.title + " on " + res.Server.Name
		switch {
		case res.Err != nil:
			_, _ = fmt.Fprintf(out, "== %s ==\nerror: %v\n", title, res.Err)
		case res.Roster.Empty():
			_, _ = fmt.Fprintf(out, "== %s ==\n%s\n", title, noDataMessage(rk, res.Server))
		default:
			printPages(out, "== "+title+" ==", "Server address: "+res.Server.Address, pages.Build(res.Roster, opts.pageSize, pages.MaxChars))
		}
	}

	if opts.json {
		if err := writeJSON(out, reports); err != nil {
			return err
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d servers failed", failed, len(results))
	}
	return nil
}

func newRosterClient(root *rootOptions, reg *config.Registry, opts *rosterOptions) (*roster.Client, error) {
	filter, err := roster.ParsePlayerFilter(opts.filter)
	if err != nil {
		return nil, err
	}
	return roster.NewClient(roster.Options{
		Timeout:      opts.timeout,
		SOCKSProxy:   reg.SOCKSProxy(),
		PlayerFilter: filter,
		Logger:       loggerFor(root),
	})
}

var errNoServers = errors.New("no servers configured (add one with `ss14-roster servers add`)")

func loadRegistry(root *rootOptions) (*config.Registry, error) {
	store, err := config.NewStore(root.configPath)
	if err != nil {
		return nil, err
	}
	cfg, err := store.Load()
	if err != nil {
		return nil, err
	}
	return config.NewRegistry(cfg)
}

func resolveServer(reg *config.Registry, args []string) (roster.Server, error) {
	if len(args) == 1 {
		srv, ok := reg.Lookup(args[0])
		if !ok {
			return roster.Server{}, fmt.Errorf("server %q not found", args[0])
		}
		return srv, nil
	}
	switch reg.Len() {
	case 0:
		return roster.Server{}, errNoServers
	case 1:
		return reg.All()[0], nil
	default:
		return roster.Server{}, fmt.Errorf("server name required (one of: %s)", strings.Join(reg.Names(), ", "))
	}
}

func noDataMessage(rk rosterKind, srv roster.Server) string {
	return fmt.Sprintf("No data for %s on server %s", rk.kind, srv.Name)
}

func printPages(out io.Writer, title, footer string, pgs []pages.Page) {
	_, _ = fmt.Fprintln(out, title)
	for _, p := range pgs {
		_, _ = fmt.Fprintf(out, "\n%s\n%s\n", p.Header, p.Text)
	}
	if footer != "" {
		_, _ = fmt.Fprintf(out, "\n%s\n", footer)
	}
}

func writeJSON(out io.Writer, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	_, _ = fmt.Fprintln(out, string(b))
	return nil
}

func completeServerNames(root *rootOptions) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(_ *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if len(args) > 0 {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		reg, err := loadRegistry(root)
		if err != nil {
			return nil, cobra.ShellCompDirectiveError
		}
		prefix := strings.ToLower(toComplete)
		var out []string
		for _, name := range reg.Names() {
			if strings.HasPrefix(strings.ToLower(name), prefix) {
				out = append(out, name)
			}
		}
		return out, cobra.ShellCompDirectiveNoFileComp
	}
}
