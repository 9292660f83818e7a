package config

import (
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/google/uuid"

	"github.com/baaaaaaaka/ss14-roster/internal/roster"
)

const DefaultActorName = "ss14-roster"

// Registry is the read-only view of the configured servers. Build it once at
// startup and pass it to whoever needs lookups.
type Registry struct {
	servers []roster.Server
	byName  map[string]int
	socks   string
}

func NewRegistry(cfg Config) (*Registry, error) {
	r := &Registry{
		byName: make(map[string]int, len(cfg.Servers)),
		socks:  strings.TrimSpace(cfg.SOCKSProxy),
	}

	var errs []error
	for i, s := range cfg.Servers {
		desc, err := descriptor(cfg.Actor, s)
		if err != nil {
			errs = append(errs, fmt.Errorf("server #%d: %w", i+1, err))
			continue
		}
		key := strings.ToLower(desc.Name)
		if _, dup := r.byName[key]; dup {
			errs = append(errs, fmt.Errorf("server #%d: duplicate name %q", i+1, desc.Name))
			continue
		}
		r.byName[key] = len(r.servers)
		r.servers = append(r.servers, desc)
	}
	if err := errors.Join(errs...); err != nil {
		return nil, fmt.Errorf("load servers: %w", err)
	}
	return r, nil
}

func descriptor(actor Actor, s Server) (roster.Server, error) {
	name := strings.TrimSpace(s.Name)
	if name == "" {
		return roster.Server{}, errors.New("missing name")
	}
	addr := strings.TrimSpace(s.Address)
	if addr == "" {
		return roster.Server{}, fmt.Errorf("%q: missing address", name)
	}
	if host, port, err := net.SplitHostPort(addr); err != nil || host == "" || port == "" {
		return roster.Server{}, fmt.Errorf("%q: invalid address %q (want host:port)", name, addr)
	}

	actorID := firstNonEmpty(s.ActorID, actor.ID)
	if actorID != "" {
		id, err := uuid.Parse(actorID)
		if err != nil {
			return roster.Server{}, fmt.Errorf("%q: invalid actor id %q: %w", name, actorID, err)
		}
		actorID = id.String()
	}

	return roster.Server{
		Name:      name,
		Address:   addr,
		Token:     s.Token,
		ActorID:   actorID,
		ActorName: firstNonEmpty(s.ActorName, actor.Name, DefaultActorName),
	}, nil
}

func (r *Registry) Lookup(name string) (roster.Server, bool) {
	i, ok := r.byName[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return roster.Server{}, false
	}
	return r.servers[i], true
}

func (r *Registry) Names() []string {
	out := make([]string, 0, len(r.servers))
	for _, s := range r.servers {
		out = append(out, s.Name)
	}
	return out
}

func (r *Registry) All() []roster.Server {
	return append([]roster.Server(nil), r.servers...)
}

func (r *Registry) Len() int { return len(r.servers) }

func (r *Registry) SOCKSProxy() string { return r.socks }

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

// NewActorID returns a fresh actor GUID for new configs.
func NewActorID() string { return uuid.NewString() }
