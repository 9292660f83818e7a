package cli

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/baaaaaaaka/ss14-roster/internal/config"
)

const testActorID = "4ea95dec-2225-4fa2-ba15-68af263873b0"

func newTempStore(t *testing.T) *config.Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	store, err := config.NewStore(path)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	return store
}

func writeServers(t *testing.T, store *config.Store, servers ...config.Server) {
	t.Helper()
	cfg := config.Config{
		Version: config.CurrentVersion,
		Actor:   config.Actor{ID: testActorID, Name: "test-bot"},
		Servers: servers,
	}
	if err := store.Save(cfg); err != nil {
		t.Fatalf("save config: %v", err)
	}
}

// newAdminAPI serves the two roster endpoints with canned bodies.
func newAdminAPI(t *testing.T, players, admins string) string {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/admin/info", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(players))
	})
	mux.HandleFunc("/admin/players", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(admins))
	})
	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return strings.TrimPrefix(ts.URL, "http://")
}

func runCLI(t *testing.T, store *config.Store, stdin string, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(stdin))
	if store != nil {
		args = append([]string{"--config", store.Path()}, args...)
	}
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}
