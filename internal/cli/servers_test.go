package cli

import (
	"bufio"
	"io"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/baaaaaaaka/ss14-roster/internal/config"
)

func TestServersAddPromptsAndGeneratesActor(t *testing.T) {
	store := newTempStore(t)

	out, stderr, err := runCLI(t, store, "10.0.0.1:1212\nsecret\n", "servers", "add", "Main")
	if err != nil {
		t.Fatalf("servers add: %v", err)
	}
	if !strings.Contains(out, `Saved server "Main" (10.0.0.1:1212)`) {
		t.Fatalf("unexpected output %q", out)
	}
	if !strings.Contains(stderr, "Admin API address") || !strings.Contains(stderr, "Admin API token") {
		t.Fatalf("expected prompts on stderr, got %q", stderr)
	}

	cfg, err := store.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if _, err := uuid.Parse(cfg.Actor.ID); err != nil {
		t.Fatalf("actor id %q is not a UUID: %v", cfg.Actor.ID, err)
	}
	if cfg.Actor.Name != config.DefaultActorName {
		t.Fatalf("actor name=%q", cfg.Actor.Name)
	}
	s, ok := cfg.FindServer("main")
	if !ok || s.Address != "10.0.0.1:1212" || s.Token != "secret" {
		t.Fatalf("unexpected server %#v", s)
	}
}

func TestServersAddFlagsKeepExistingActor(t *testing.T) {
	store := newTempStore(t)
	writeServers(t, store)

	if _, _, err := runCLI(t, store, "", "servers", "add", "Event", "--address", "10.0.0.2:1212", "--token", "t2"); err != nil {
		t.Fatalf("servers add: %v", err)
	}
	cfg, err := store.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Actor.ID != testActorID {
		t.Fatalf("existing actor replaced: %q", cfg.Actor.ID)
	}
	if len(cfg.Servers) != 1 || cfg.Servers[0].Name != "Event" {
		t.Fatalf("unexpected servers %#v", cfg.Servers)
	}
}

func TestServersAddRejectsBadActorID(t *testing.T) {
	store := newTempStore(t)
	_, _, err := runCLI(t, store, "", "servers", "add", "Main", "--address", "h:1", "--token", "t", "--actor-id", "not-a-guid")
	if err == nil || !strings.Contains(err.Error(), "invalid actor id") {
		t.Fatalf("expected invalid actor id error, got %v", err)
	}
	cfg, err := store.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(cfg.Servers) != 0 {
		t.Fatalf("rejected server was saved: %#v", cfg.Servers)
	}
}

func TestServersAddRejectsAddressWithScheme(t *testing.T) {
	store := newTempStore(t)
	_, _, err := runCLI(t, store, "", "servers", "add", "Main", "--address", "http://10.0.0.1:1212", "--token", "t")
	if err == nil || !strings.Contains(err.Error(), "want host:port") {
		t.Fatalf("expected address error, got %v", err)
	}
}

func TestServersListAndRemove(t *testing.T) {
	store := newTempStore(t)

	out, _, err := runCLI(t, store, "", "servers", "list")
	if err != nil || strings.TrimSpace(out) != "No servers configured." {
		t.Fatalf("list on empty config: %q, %v", out, err)
	}

	writeServers(t, store,
		config.Server{Name: "Main", Address: "10.0.0.1:1212", Token: "secret-a"},
		config.Server{Name: "Event", Address: "10.0.0.2:1212", Token: "secret-b"},
	)
	out, _, err = runCLI(t, store, "", "servers", "list")
	if err != nil {
		t.Fatalf("servers list: %v", err)
	}
	if !strings.Contains(out, "NAME") || !strings.Contains(out, "10.0.0.2:1212") || !strings.Contains(out, "test-bot") {
		t.Fatalf("unexpected list output:\n%s", out)
	}
	if strings.Contains(out, "secret") {
		t.Fatalf("tokens must not be listed:\n%s", out)
	}

	if _, _, err := runCLI(t, store, "", "servers", "remove", "main"); err != nil {
		t.Fatalf("servers remove: %v", err)
	}
	_, _, err = runCLI(t, store, "", "servers", "rm", "main")
	if err == nil || err.Error() != `server "main" not found` {
		t.Fatalf("expected not found, got %v", err)
	}
	cfg, err := store.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(cfg.Servers) != 1 || cfg.Servers[0].Name != "Event" {
		t.Fatalf("unexpected servers %#v", cfg.Servers)
	}
}

func TestPromptRequired(t *testing.T) {
	r := bufio.NewReader(strings.NewReader("\n  \nvalue\n"))
	if got := promptRequired(r, io.Discard, "Name", ""); got != "value" {
		t.Fatalf("promptRequired=%q", got)
	}

	r = bufio.NewReader(strings.NewReader(""))
	if got := promptRequired(r, io.Discard, "Name", ""); got != "" {
		t.Fatalf("promptRequired on EOF=%q", got)
	}
}

func TestServersAddOffersCurrentValues(t *testing.T) {
	store := newTempStore(t)
	writeServers(t, store, config.Server{Name: "Main", Address: "10.0.0.1:1212", Token: "secret", ActorName: "mainbot"})

	_, stderr, err := runCLI(t, store, "\n", "servers", "add", "main")
	if err != nil {
		t.Fatalf("servers add: %v", err)
	}
	if !strings.Contains(stderr, "[10.0.0.1:1212]") {
		t.Fatalf("expected current address as default, got %q", stderr)
	}
	if strings.Contains(stderr, "token") || strings.Contains(stderr, "secret") {
		t.Fatalf("existing token should be kept without prompting, got %q", stderr)
	}

	cfg, err := store.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(cfg.Servers) != 1 {
		t.Fatalf("unexpected servers %#v", cfg.Servers)
	}
	s := cfg.Servers[0]
	if s.Address != "10.0.0.1:1212" || s.Token != "secret" || s.ActorName != "mainbot" {
		t.Fatalf("unexpected server %#v", s)
	}
}

func TestPromptRequiredDefault(t *testing.T) {
	var out strings.Builder
	r := bufio.NewReader(strings.NewReader("\n"))
	if got := promptRequired(r, &out, "Address", "h:1"); got != "h:1" {
		t.Fatalf("promptRequired=%q", got)
	}
	if out.String() != "Address [h:1]: " {
		t.Fatalf("prompt text=%q", out.String())
	}
}

func TestPromptDefault(t *testing.T) {
	var out strings.Builder
	r := bufio.NewReader(strings.NewReader("\n"))
	if got := prompt(r, &out, "Port", "1212"); got != "1212" {
		t.Fatalf("prompt=%q", got)
	}
	if out.String() != "Port [1212]: " {
		t.Fatalf("prompt text=%q", out.String())
	}
}
