// Package pages splits a roster into fixed-size, length-capped text pages.
package pages

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/baaaaaaaka/ss14-roster/internal/roster"
)

const (
	PlayersPerPage = 10
	AdminsPerPage  = 5

	// MaxChars is the hard cap on a page's text, in characters.
	MaxChars = 1024

	truncationMarker = "..."
	activeMarker     = "[active]"
)

type Page struct {
	Index  int
	Total  int
	Header string
	Text   string
	// Lines are the source lines joined into Text, before truncation.
	Lines []string
}

func (p Page) First() bool { return p.Index == 0 }

func (p Page) Last() bool { return p.Index == p.Total-1 }

// DefaultPageSize returns the page size used for a roster kind when the
// caller does not choose one.
func DefaultPageSize(kind roster.Kind) int {
	if kind == roster.KindAdmins {
		return AdminsPerPage
	}
	return PlayersPerPage
}

func Line(e roster.Entry) string {
	switch v := e.(type) {
	case roster.Admin:
		name := v.Name
		if v.Active {
			name += " " + activeMarker
		}
		title := v.Title
		if strings.TrimSpace(title) == "" {
			title = roster.DefaultTitle
		}
		return name + " - " + title
	case roster.Player:
		return v.Name
	case nil:
		return ""
	default:
		return e.DisplayName()
	}
}

func Lines(r roster.Roster) []string {
	out := make([]string, 0, len(r.Entries))
	for _, e := range r.Entries {
		out = append(out, Line(e))
	}
	return out
}

// Build renders r and paginates it. pageSize <= 0 selects the default for the
// roster kind and maxChars <= 0 selects MaxChars. An empty roster yields no
// pages.
func Build(r roster.Roster, pageSize, maxChars int) []Page {
	if pageSize <= 0 {
		pageSize = DefaultPageSize(r.Kind)
	}
	return Paginate(Lines(r), pageSize, maxChars)
}

func Paginate(lines []string, pageSize, maxChars int) []Page {
	if len(lines) == 0 {
		return nil
	}
	if pageSize <= 0 {
		pageSize = PlayersPerPage
	}
	if maxChars <= 0 {
		maxChars = MaxChars
	}

	total := (len(lines) + pageSize - 1) / pageSize
	out := make([]Page, 0, total)
	for i := 0; i < total; i++ {
		start := i * pageSize
		end := start + pageSize
		if end > len(lines) {
			end = len(lines)
		}
		chunk := append([]string(nil), lines[start:end]...)
		out = append(out, Page{
			Index:  i,
			Total:  total,
			Header: fmt.Sprintf("Page %d of %d", i+1, total),
			Text:   capText(strings.Join(chunk, "\n"), maxChars),
			Lines:  chunk,
		})
	}
	return out
}

func capText(s string, maxChars int) string {
	if utf8.RuneCountInString(s) <= maxChars {
		return s
	}
	keep := maxChars - utf8.RuneCountInString(truncationMarker)
	if keep <= 0 {
		return string([]rune(truncationMarker)[:maxChars])
	}
	return string([]rune(s)[:keep]) + truncationMarker
}
