// Keepfeed - Objective Data Providers for Keymaster's Keep
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/keepfeed

package main

import (
	"bytes"
	"errors"
	"fmt"
	"math/rand/v2"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"

	"github.com/tomtom215/keepfeed/internal/objective"
)

const testLibrary = `[
	{"Name": "Hades", "Playtime": 36000, "Source": {"Name": "Steam"}, "Genres": [{"Name": "Roguelike"}]},
	{"Name": "Celeste", "Playtime": 600, "Source": "Switch", "Genres": ["Platformer"]},
	{"Name": "Tetris", "Playtime": 0}
]`

// testEnv writes a library, a pack base directory and a config file
// pointing at them and at a fake Wikipedia.
type testEnv struct {
	dir     string
	library string
	config  string
}

func newTestEnv(t *testing.T, wiki http.Handler) testEnv {
	t.Helper()

	dir := t.TempDir()
	lib := filepath.Join(dir, "library.json")
	if err := os.WriteFile(lib, []byte(testLibrary), 0o600); err != nil {
		t.Fatal(err)
	}

	if wiki == nil {
		wiki = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "offline", http.StatusServiceUnavailable)
		})
	}
	srv := httptest.NewServer(wiki)
	t.Cleanup(srv.Close)

	cfg := fmt.Sprintf(`library:
  json_path: %q
  watch: false
wikipedia:
  pack_base_dir: %q
  api_url: %q
  pageviews_url: %q
  featured_objectives: false
  popular_objectives: false
logging:
  level: error
`, lib, dir, srv.URL+"/w/api.php", srv.URL+"/pageviews")

	path := filepath.Join(dir, "keepfeed.yaml")
	if err := os.WriteFile(path, []byte(cfg), 0o600); err != nil {
		t.Fatal(err)
	}
	return testEnv{dir: dir, library: lib, config: path}
}

func (e testEnv) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--config", e.config}, args...))
	err := cmd.Execute()
	return stdout.String(), err
}

func decode[T any](t *testing.T, out string) T {
	t.Helper()
	var v T
	if err := json.Unmarshal([]byte(out), &v); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	return v
}

func TestLibraryCommands(t *testing.T) {
	env := newTestEnv(t, nil)

	out, err := env.run(t, "library", "templates")
	if err != nil {
		t.Fatalf("library templates: %v", err)
	}
	tpl := decode[libraryTemplatesOutput](t, out)
	if tpl.Games != 3 || tpl.LoadError != "" || len(tpl.Templates) < 2 {
		t.Errorf("library templates = %+v", tpl)
	}

	out, err = env.run(t, "library", "stats")
	if err != nil {
		t.Fatalf("library stats: %v", err)
	}
	stats := decode[map[string]any](t, out)
	if stats["games"] != float64(3) {
		t.Errorf("library stats = %v", stats)
	}

	out, err = env.run(t, "library", "facets")
	if err != nil {
		t.Fatalf("library facets: %v", err)
	}
	if !strings.Contains(out, "Roguelike") || !strings.Contains(out, "Steam") {
		t.Errorf("library facets = %s", out)
	}
}

func TestLibraryCommandsMissingPath(t *testing.T) {
	env := newTestEnv(t, nil)
	missing := filepath.Join(env.dir, "nope.json")

	out, err := env.run(t, "library", "templates", "--path", missing)
	if err != nil {
		t.Fatalf("library templates: %v", err)
	}
	tpl := decode[libraryTemplatesOutput](t, out)
	if tpl.LoadError == "" || len(tpl.Templates) != 1 {
		t.Errorf("missing library should give the fallback and an error, got %+v", tpl)
	}

	if _, err := env.run(t, "library", "stats", "--path", missing); err == nil {
		t.Error("library stats should fail for a missing library")
	}
}

func TestPacksCommands(t *testing.T) {
	env := newTestEnv(t, nil)

	out, err := env.run(t, "packs", "init", "--subfolder", "Weekly Run")
	if err != nil {
		t.Fatalf("packs init: %v", err)
	}
	report := decode[map[string]any](t, out)
	wantDir := filepath.Join(env.dir, "wikipedia_game_packs", "Weekly Run")
	if report["dir"] != wantDir {
		t.Errorf("packs init dir = %v, want %s", report["dir"], wantDir)
	}

	out, err = env.run(t, "packs", "list", "--subfolder", "Weekly Run")
	if err != nil {
		t.Fatalf("packs list: %v", err)
	}
	list := decode[packListOutput](t, out)
	if len(list.Packs) == 0 {
		t.Fatal("packs list returned no packs after init")
	}

	out, err = env.run(t, "packs", "master", "--subfolder", "Weekly Run")
	if err != nil {
		t.Fatalf("packs master: %v", err)
	}
	master := decode[masterOutput](t, out)
	if master.Count == 0 || master.Count != len(master.Articles) {
		t.Errorf("packs master count = %d for %d articles", master.Count, len(master.Articles))
	}

	if _, err := env.run(t, "packs", "init", "--refresh", "sideways"); err == nil {
		t.Error("packs init should reject an unknown refresh kind")
	}
}

func TestArticlesCommand(t *testing.T) {
	env := newTestEnv(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("list") != "recentchanges" {
			http.Error(w, "unexpected", http.StatusBadRequest)
			return
		}
		_, _ = w.Write([]byte(`{"query":{"recentchanges":[{"title":"Ada Lovelace"},{"title":"Talk:Ada Lovelace"},{"title":"Grace Hopper"}]}}`))
	}))

	out, err := env.run(t, "articles", "trending", "--limit", "2")
	if err != nil {
		t.Fatalf("articles trending: %v", err)
	}
	got := decode[articlesOutput](t, out)
	if got.Kind != "trending" || got.Count != 2 || got.Articles[0] != "Ada Lovelace" {
		t.Errorf("articles trending = %+v", got)
	}

	if _, err := env.run(t, "articles", "sideways"); err == nil {
		t.Error("articles should reject an unknown kind")
	}
}

func TestTemplatesSample(t *testing.T) {
	env := newTestEnv(t, nil)

	for _, p := range []string{"library", "wikipedia"} {
		out, err := env.run(t, "templates", "sample", "--provider", p, "--count", "4", "--seed", "9", "--constraints")
		if err != nil {
			t.Fatalf("templates sample %s: %v", p, err)
		}
		samples := decode[[]sampledObjective](t, out)
		if len(samples) != 4 {
			t.Fatalf("%s: %d samples, want 4", p, len(samples))
		}
		for _, s := range samples {
			if s.Objective == "" || strings.Contains(s.Objective, "ARTICLE") {
				t.Errorf("%s: unrendered objective %+v", p, s)
			}
		}
	}

	_, err := env.run(t, "templates", "sample", "--provider", "steam")
	if !errors.Is(err, errUnknownProvider) {
		t.Errorf("unknown provider error = %v", err)
	}
}

func TestPickWeighted(t *testing.T) {
	t.Parallel()

	templates := []objective.Template{
		objective.New("rare").Weighted(1),
		objective.New("common").Weighted(9),
	}
	rng := rand.New(rand.NewPCG(1, 1))
	counts := map[string]int{}
	for i := 0; i < 1000; i++ {
		counts[pickWeighted(templates, 10, rng).Label]++
	}
	if counts["common"] < 800 || counts["rare"] == 0 {
		t.Errorf("weighted picks = %v", counts)
	}
}
