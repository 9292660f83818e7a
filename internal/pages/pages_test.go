package pages

import (
	"fmt"
	"reflect"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/baaaaaaaka/ss14-roster/internal/roster"
)

func playerRoster(n int) roster.Roster {
	r := roster.Roster{Kind: roster.KindPlayers}
	for i := 0; i < n; i++ {
		r.Entries = append(r.Entries, roster.Player{Name: fmt.Sprintf("player-%02d", i)})
	}
	return r
}

func TestLineRendering(t *testing.T) {
	cases := []struct {
		entry roster.Entry
		want  string
	}{
		{roster.Player{Name: "Urist"}, "Urist"},
		{roster.Admin{Name: "Zed", Title: "Host", Active: true}, "Zed [active] - Host"},
		{roster.Admin{Name: "X", Title: ""}, "X - No title"},
		{roster.Admin{Name: "Amy", Title: "Mentor"}, "Amy - Mentor"},
	}
	for _, tc := range cases {
		if got := Line(tc.entry); got != tc.want {
			t.Fatalf("Line(%#v)=%q want %q", tc.entry, got, tc.want)
		}
	}
}

func TestBuildEmptyRosterHasNoPages(t *testing.T) {
	if got := Build(roster.Roster{Kind: roster.KindPlayers}, 10, MaxChars); len(got) != 0 {
		t.Fatalf("expected no pages, got %d", len(got))
	}
}

func TestBuildExactlyOnePage(t *testing.T) {
	got := Build(playerRoster(10), 10, MaxChars)
	if len(got) != 1 {
		t.Fatalf("expected 1 page, got %d", len(got))
	}
	if got[0].Header != "Page 1 of 1" || got[0].Total != 1 {
		t.Fatalf("unexpected page %#v", got[0])
	}
}

func TestBuildRoundTripsLines(t *testing.T) {
	for _, n := range []int{0, 1, 9, 10, 11, 25, 100} {
		r := playerRoster(n)
		pgs := Build(r, 10, MaxChars)

		var joined []string
		for i, p := range pgs {
			if p.Index != i {
				t.Fatalf("n=%d: page %d has Index %d", n, i, p.Index)
			}
			if p.Total != len(pgs) {
				t.Fatalf("n=%d: Total=%d want %d", n, p.Total, len(pgs))
			}
			if want := fmt.Sprintf("Page %d of %d", i+1, len(pgs)); p.Header != want {
				t.Fatalf("n=%d: Header=%q want %q", n, p.Header, want)
			}
			if len(p.Lines) == 0 {
				t.Fatalf("n=%d: empty page %d", n, i)
			}
			if p.Text != strings.Join(p.Lines, "\n") {
				t.Fatalf("n=%d: page %d text does not match its lines", n, i)
			}
			joined = append(joined, p.Lines...)
		}
		want := Lines(r)
		if len(want) == 0 {
			want = nil
		}
		if !reflect.DeepEqual(joined, want) {
			t.Fatalf("n=%d: lines mismatch\n got %v\nwant %v", n, joined, want)
		}
		if wantPages := (n + 9) / 10; len(pgs) != wantPages {
			t.Fatalf("n=%d: pages=%d want %d", n, len(pgs), wantPages)
		}
	}
}

func TestBuildDefaultPageSizeByKind(t *testing.T) {
	admins := roster.Roster{Kind: roster.KindAdmins}
	for i := 0; i < 12; i++ {
		admins.Entries = append(admins.Entries, roster.Admin{Name: fmt.Sprintf("a%d", i), Title: "t"})
	}
	if got := Build(admins, 0, 0); len(got) != 3 {
		t.Fatalf("admins: expected 3 pages of %d, got %d", AdminsPerPage, len(got))
	}
	if got := Build(playerRoster(12), 0, 0); len(got) != 2 {
		t.Fatalf("players: expected 2 pages of %d, got %d", PlayersPerPage, len(got))
	}
}

func TestBuildCapsPageText(t *testing.T) {
	r := roster.Roster{Kind: roster.KindPlayers}
	for i := 0; i < 10; i++ {
		r.Entries = append(r.Entries, roster.Player{Name: strings.Repeat("я", 200)})
	}
	pgs := Build(r, 10, MaxChars)
	if len(pgs) != 1 {
		t.Fatalf("expected 1 page, got %d", len(pgs))
	}
	text := pgs[0].Text
	if n := utf8.RuneCountInString(text); n != MaxChars {
		t.Fatalf("expected %d chars, got %d", MaxChars, n)
	}
	if !strings.HasSuffix(text, "...") {
		t.Fatalf("expected truncation marker, got %q", text[len(text)-10:])
	}
	if len(pgs[0].Lines) != 10 {
		t.Fatalf("source lines should survive truncation, got %d", len(pgs[0].Lines))
	}
}

func TestCapTextLimits(t *testing.T) {
	cases := []struct {
		in   string
		max  int
		want string
	}{
		{"short", 10, "short"},
		{"exactly10!", 10, "exactly10!"},
		{"this is too long", 10, "this is..."},
		{"abcdef", 2, ".."},
	}
	for _, tc := range cases {
		if got := capText(tc.in, tc.max); got != tc.want {
			t.Fatalf("capText(%q, %d)=%q want %q", tc.in, tc.max, got, tc.want)
		}
	}
}
