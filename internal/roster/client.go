package roster

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	DefaultTimeout = 10 * time.Second

	maxBodyBytes = 4 << 20
)

var kindPaths = map[Kind]string{
	KindPlayers: "/admin/info",
	KindAdmins:  "/admin/players",
}

type Options struct {
	// Timeout bounds a whole request, connect through body read.
	Timeout time.Duration
	// SOCKSProxy routes requests through a SOCKS5 proxy (host:port) when set.
	SOCKSProxy   string
	PlayerFilter PlayerFilter
	DefaultTitle string
	Logger       *slog.Logger
	// Transport replaces the default transport; SOCKSProxy is ignored then.
	Transport http.RoundTripper
}

// Client fetches rosters from SS14 admin APIs. It holds no per-request state
// and is safe for concurrent use.
type Client struct {
	http         *http.Client
	timeout      time.Duration
	filter       PlayerFilter
	defaultTitle string
	log          *slog.Logger
}

func NewClient(opts Options) (*Client, error) {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	filter := opts.PlayerFilter
	if filter == nil {
		filter = HideActiveAdmins
	}
	title := opts.DefaultTitle
	if strings.TrimSpace(title) == "" {
		title = DefaultTitle
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	transport := opts.Transport
	if transport == nil {
		t, err := newTransport(opts.SOCKSProxy, timeout)
		if err != nil {
			return nil, err
		}
		transport = t
	}

	return &Client{
		http:         &http.Client{Timeout: timeout, Transport: transport},
		timeout:      timeout,
		filter:       filter,
		defaultTitle: title,
		log:          logger,
	}, nil
}

func (c *Client) Timeout() time.Duration { return c.timeout }

// Fetch performs a single GET against srv and returns either the roster or a
// *Error, never both. An empty roster with a nil error means the server
// answered with no entries.
func (c *Client) Fetch(ctx context.Context, srv Server, kind Kind) (Roster, error) {
	path, ok := kindPaths[kind]
	if !ok {
		return Roster{}, newError(ErrProtocol, "unknown list kind %q", kind)
	}

	req, err := c.newRequest(ctx, srv, path)
	if err != nil {
		return Roster{}, err
	}

	start := time.Now()
	c.log.Debug("fetching roster", "server", srv.Name, "kind", kind, "url", req.URL.String())

	resp, err := c.http.Do(req)
	if err != nil {
		e := classifyTransport(err, c.timeout)
		c.log.Warn("roster request failed", "server", srv.Name, "kind", kind, "error", e.Message)
		return Roster{}, e
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		e := classifyTransport(err, c.timeout)
		c.log.Warn("reading roster response failed", "server", srv.Name, "kind", kind, "error", e.Message)
		return Roster{}, e
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		e := classifyStatus(resp.StatusCode, body)
		c.log.Warn("roster request rejected", "server", srv.Name, "kind", kind, "status", resp.StatusCode, "error", e.Message)
		return Roster{}, e
	}

	var out Roster
	switch kind {
	case KindAdmins:
		out, err = decodeAdmins(body, c.defaultTitle)
	default:
		out, err = decodePlayers(body, c.filter)
	}
	if err != nil {
		return Roster{}, &Error{
			Kind:    ErrProtocol,
			Message: fmt.Sprintf("unexpected response from %s: %v", srv.Name, err),
			Status:  resp.StatusCode,
			Err:     err,
		}
	}

	c.log.Debug("fetched roster", "server", srv.Name, "kind", kind, "entries", out.Len(), "elapsed", time.Since(start))
	return out, nil
}

func (c *Client) newRequest(ctx context.Context, srv Server, path string) (*http.Request, error) {
	addr := strings.TrimSpace(srv.Address)
	if addr == "" {
		return nil, newError(ErrConnection, "server %q has no address", srv.Name)
	}
	u := &url.URL{Scheme: "http", Host: addr, Path: path}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, &Error{Kind: ErrConnection, Message: fmt.Sprintf("invalid server address %q", addr), Err: err}
	}

	actor, err := actorHeader(srv)
	if err != nil {
		return nil, &Error{Kind: ErrProtocol, Message: "encode actor header", Err: err}
	}
	req.Header.Set("Authorization", "SS14Token "+srv.Token)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Actor", actor)
	return req, nil
}

func actorHeader(srv Server) (string, error) {
	b, err := json.Marshal(struct {
		Guid string `json:"Guid"`
		Name string `json:"Name"`
	}{Guid: srv.ActorID, Name: srv.ActorName})
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func classifyTransport(err error, timeout time.Duration) *Error {
	e := &Error{Kind: ErrConnection, Err: err}

	var dnsErr *net.DNSError
	var netErr net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		e.Message = fmt.Sprintf("connection error: request timed out after %s", timeout)
	case errors.Is(err, context.Canceled):
		e.Message = "connection error: request canceled"
	case errors.As(err, &dnsErr):
		e.Message = fmt.Sprintf("connection error: cannot resolve host %q", dnsErr.Name)
	case errors.As(err, &netErr) && netErr.Timeout():
		e.Message = fmt.Sprintf("connection error: request timed out after %s", timeout)
	default:
		e.Message = "connection error: " + transportCause(err)
	}
	return e
}

// transportCause strips the url.Error wrapper ("Get \"http://...\": ") so the
// message shows the underlying reason only.
func transportCause(err error) string {
	var uerr *url.Error
	if errors.As(err, &uerr) && uerr.Err != nil {
		return uerr.Err.Error()
	}
	return err.Error()
}
