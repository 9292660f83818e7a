package roster

import (
	"fmt"
	"strings"
)

// PlayerFilter decides which /admin/info records end up in a player roster.
type PlayerFilter func(PlayerRecord) bool

// HideActiveAdmins drops admins that are currently acting as admins and keeps
// regular players plus admins who deadminned.
func HideActiveAdmins(p PlayerRecord) bool {
	return !(p.IsAdmin && !p.Deadminned())
}

func HideAllAdmins(p PlayerRecord) bool { return !p.IsAdmin }

func ShowAll(PlayerRecord) bool { return true }

func ParsePlayerFilter(s string) (PlayerFilter, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "hide-active-admins":
		return HideActiveAdmins, nil
	case "hide-admins":
		return HideAllAdmins, nil
	case "all":
		return ShowAll, nil
	default:
		return nil, fmt.Errorf("unknown player filter %q (expected hide-active-admins, hide-admins or all)", s)
	}
}
