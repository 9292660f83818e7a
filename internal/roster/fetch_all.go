package roster

import (
	"context"

	"golang.org/x/sync/errgroup"
)

const defaultFetchConcurrency = 4

// ServerResult is the outcome of one server in a FetchAll call.
type ServerResult struct {
	Server Server
	Roster Roster
	Err    error
}

// FetchAll queries every server concurrently. Results come back in the order
// of servers; one server failing does not cancel the others.
func (c *Client) FetchAll(ctx context.Context, servers []Server, kind Kind) []ServerResult {
	results := make([]ServerResult, len(servers))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(defaultFetchConcurrency)
	for i, srv := range servers {
		g.Go(func() error {
			r, err := c.Fetch(gctx, srv, kind)
			results[i] = ServerResult{Server: srv, Roster: r, Err: err}
			return nil
		})
	}
	_ = g.Wait()
	return results
}
