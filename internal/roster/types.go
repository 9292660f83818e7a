package roster

import (
	"encoding/json"
	"fmt"
	"strings"
)

type Kind string

const (
	KindPlayers Kind = "players"
	KindAdmins  Kind = "admins"
)

func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "players", "player", "player_list":
		return KindPlayers, nil
	case "admins", "admin", "admin_list":
		return KindAdmins, nil
	default:
		return "", fmt.Errorf("unknown list kind %q (expected players or admins)", s)
	}
}

// Server describes one remote admin API. It is shared read-only between
// concurrent fetches.
type Server struct {
	Name      string
	Address   string
	Token     string
	ActorID   string
	ActorName string
}

// Entry is either a Player or an Admin.
type Entry interface {
	DisplayName() string
	isEntry()
}

type Player struct {
	Name string `json:"name"`
}

func (p Player) DisplayName() string { return p.Name }
func (Player) isEntry()              {}

type Admin struct {
	Name   string `json:"name"`
	Title  string `json:"title"`
	Active bool   `json:"active"`
}

func (a Admin) DisplayName() string { return a.Name }
func (Admin) isEntry()              {}

// Roster is kind-homogeneous: Entries holds only Players or only Admins.
type Roster struct {
	Kind    Kind
	Entries []Entry
}

func (r Roster) Len() int { return len(r.Entries) }

func (r Roster) Empty() bool { return len(r.Entries) == 0 }

func (r Roster) Players() []Player {
	out := make([]Player, 0, len(r.Entries))
	for _, e := range r.Entries {
		if p, ok := e.(Player); ok {
			out = append(out, p)
		}
	}
	return out
}

func (r Roster) Admins() []Admin {
	out := make([]Admin, 0, len(r.Entries))
	for _, e := range r.Entries {
		if a, ok := e.(Admin); ok {
			out = append(out, a)
		}
	}
	return out
}

func (r Roster) MarshalJSON() ([]byte, error) {
	payload := struct {
		Kind    Kind     `json:"kind"`
		Players []Player `json:"players,omitempty"`
		Admins  []Admin  `json:"admins,omitempty"`
	}{Kind: r.Kind}
	switch r.Kind {
	case KindAdmins:
		payload.Admins = r.Admins()
	default:
		payload.Players = r.Players()
	}
	return json.Marshal(payload)
}
