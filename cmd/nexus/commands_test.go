package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/MrSnakeDoc/nexus/internal/domain"
)

func fakeBackend(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := map[string]any{}
		for _, key := range strings.Split(r.URL.Query().Get("platforms"), ",") {
			raw[key] = map[string]any{"exists": false}
		}
		if _, ok := raw["github"]; ok {
			raw["github"] = map[string]any{
				"exists":  true,
				"profile": map[string]any{"username": "octocat", "followers": 5000, "public_repos": 8},
			}
		}
		_ = json.NewEncoder(w).Encode(raw)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func setupEnv(t *testing.T, backendURL string) {
	t.Helper()
	t.Setenv("NEXUS_BACKEND_URL", backendURL+"/api")
	t.Setenv("NEXUS_BACKEND_TIMEOUT", "2s")
	t.Setenv("NEXUS_HISTORY_STORE", "sqlite")
	t.Setenv("NEXUS_SQLITE_PATH", filepath.Join(t.TempDir(), "nexus.db"))
	t.Setenv("NEXUS_PLATFORM_FILE", "")
	t.Setenv("NEXUS_LOG_LEVEL", "error")
}

// execute runs the root command with fresh flag state.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	searchPlatforms, searchJSON = "", false
	noColor, verbose = true, false

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(append(args, "--env-file", filepath.Join(t.TempDir(), "missing.env"), "--no-color"))
	err := rootCmd.Execute()
	return out.String(), err
}

func TestSearchCommand(t *testing.T) {
	setupEnv(t, fakeBackend(t).URL)

	out, err := execute(t, "search", "octocat")
	if err != nil {
		t.Fatalf("search error = %v", err)
	}
	for _, want := range []string{"PLATFORM", "GitHub", "found", "5.0K", "46", "https://github.com/octocat", "not found", "Found on 1/7 platforms (14% presence)"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestSearchCommand_PlatformsAndJSON(t *testing.T) {
	setupEnv(t, fakeBackend(t).URL)

	out, err := execute(t, "search", "octocat", "--platforms", "GitHub, Twitter", "--json")
	if err != nil {
		t.Fatalf("search error = %v", err)
	}

	var results []domain.SearchResult
	if err := json.Unmarshal([]byte(out), &results); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if len(results) != 2 {
		t.Fatalf("len(results) = %d, want 2", len(results))
	}
	if results[0].Platform.Name != domain.Twitter || results[1].Platform.Name != domain.GitHub {
		t.Errorf("order = %s, %s; want registry order", results[0].Platform.Name, results[1].Platform.Name)
	}
}

func TestSearchCommand_Errors(t *testing.T) {
	setupEnv(t, "http://127.0.0.1:1")

	if _, err := execute(t, "search"); err == nil {
		t.Error("missing username accepted")
	}
	if _, err := execute(t, "search", "octocat"); err == nil || !strings.Contains(err.Error(), "cannot connect") {
		t.Errorf("unreachable backend error = %v", err)
	}
}

func TestHistoryCommands(t *testing.T) {
	setupEnv(t, fakeBackend(t).URL)

	out, err := execute(t, "history")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "No searches yet") {
		t.Errorf("empty history output = %q", out)
	}

	if _, err := execute(t, "search", "octocat", "--platforms", "GitHub"); err != nil {
		t.Fatal(err)
	}

	out, err = execute(t, "history", "list")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "octocat") || !strings.Contains(out, "GitHub") {
		t.Errorf("history output = %q", out)
	}

	out, err = execute(t, "history", "rerun", "octocat")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Found on 1/7 platforms") {
		t.Errorf("rerun output = %q", out)
	}

	if _, err := execute(t, "history", "rerun", "nobody"); err == nil {
		t.Error("rerun of unknown term succeeded")
	}

	if _, err := execute(t, "history", "clear"); err != nil {
		t.Fatal(err)
	}
	out, _ = execute(t, "history")
	if !strings.Contains(out, "No searches yet") {
		t.Errorf("history after clear = %q", out)
	}
}

func TestPlatformsCommand(t *testing.T) {
	setupEnv(t, "http://127.0.0.1:1")

	out, err := execute(t, "platforms")
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 8 {
		t.Fatalf("got %d lines, want header + 7:\n%s", len(lines), out)
	}
	if !strings.HasPrefix(lines[1], "LinkedIn") || !strings.HasPrefix(lines[7], "Spotify") {
		t.Errorf("unexpected order:\n%s", out)
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out, "nexus ") {
		t.Errorf("version output = %q", out)
	}
}

func TestColorize(t *testing.T) {
	noColor = true
	if got := colorize(colorRed, "x"); got != "x" {
		t.Errorf("colorize with noColor = %q", got)
	}
	noColor = false
	if got := colorize(colorRed, "x"); got != colorRed+"x"+colorReset {
		t.Errorf("colorize = %q", got)
	}
}
