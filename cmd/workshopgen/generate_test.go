package main

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/nao1215/workshopgen/internal/config"
	"github.com/nao1215/workshopgen/internal/extractor"
	"github.com/nao1215/workshopgen/internal/fetcher"
)

const collectionPage = `<!DOCTYPE html>
<html><body>
<div class="workshopItemTitle">Server Pack</div>
<div class="collectionChildren">
	<div class="collectionItemDetails"><a href="BASE111"><div class="workshopItemTitle">Foo</div></a></div>
	<div class="collectionItemDetails"><a href="BASE222"><div class="workshopItemTitle">Bar</div></a></div>
</div>
</body></html>`

// newWorkshopServer serves page for every request. BASE in page is
// replaced with the server's item endpoint.
func newWorkshopServer(t *testing.T, status int, page string) (*httptest.Server, string) {
	t.Helper()
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(strings.ReplaceAll(page, "BASE", srv.URL+"/?id=")))
	}))
	t.Cleanup(srv.Close)
	return srv, srv.URL + "/?id="
}

// emptyConfig returns the path of an empty config file so tests never
// pick up a .workshopgen from the developer's machine.
func emptyConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".workshopgen")
	if err := os.WriteFile(path, nil, 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

type cmdResult struct {
	stdout string
	stderr string
	err    error
}

func runRoot(t *testing.T, args ...string) cmdResult {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return cmdResult{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

var headerPattern = regexp.MustCompile(`^-- Auto-generated workshop file of collection Server Pack \(http://[^)]+/\?id=5\)\n-- Generated on \d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}\n\n`)

func TestGenerate(t *testing.T) {
	t.Parallel()

	t.Run("writes the workshop file", func(t *testing.T) {
		t.Parallel()

		_, baseURL := newWorkshopServer(t, http.StatusOK, collectionPage)
		dir := t.TempDir()

		res := runRoot(t, "-c", emptyConfig(t), "--base-url", baseURL, "-i", "5", "-o", dir, "--no-history")
		if res.err != nil {
			t.Fatalf("unexpected error: %v\n%s", res.err, res.stderr)
		}

		data, err := os.ReadFile(filepath.Join(dir, config.DefaultFilename))
		if err != nil {
			t.Fatalf("failed to read output: %v", err)
		}
		content := string(data)
		if !headerPattern.MatchString(content) {
			t.Errorf("unexpected header:\n%s", content)
		}
		body := "resource.AddWorkshop(\"111\") -- Foo\nresource.AddWorkshop(\"222\") -- Bar\n\n"
		if !strings.HasSuffix(content, body) {
			t.Errorf("unexpected body:\n%s", content)
		}
		if res.stdout != "" {
			t.Errorf("expected nothing on stdout, got %q", res.stdout)
		}
		for _, want := range []string{"Getting content of", "Found 2 different collection items", "1. Foo ==> "} {
			if !strings.Contains(res.stderr, want) {
				t.Errorf("expected %q in log output:\n%s", want, res.stderr)
			}
		}
	})

	t.Run("custom filename", func(t *testing.T) {
		t.Parallel()

		_, baseURL := newWorkshopServer(t, http.StatusOK, collectionPage)
		dir := t.TempDir()

		res := runRoot(t, "-c", emptyConfig(t), "--base-url", baseURL, "-o", dir, "-f", "content.lua", "--no-history")
		if res.err != nil {
			t.Fatalf("unexpected error: %v", res.err)
		}
		if _, err := os.Stat(filepath.Join(dir, "content.lua")); err != nil {
			t.Errorf("expected content.lua: %v", err)
		}
	})

	t.Run("identifies itself and logs requests in verbose mode", func(t *testing.T) {
		t.Parallel()

		agents := make(chan string, 1)
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			agents <- r.UserAgent()
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			_, _ = w.Write([]byte(strings.ReplaceAll(collectionPage, "BASE", "x")))
		}))
		t.Cleanup(srv.Close)

		res := runRoot(t, "-c", emptyConfig(t), "--base-url", srv.URL+"/?id=", "-o", t.TempDir(), "-v", "--no-history")
		if res.err != nil {
			t.Fatalf("unexpected error: %v\n%s", res.err, res.stderr)
		}
		if ua := <-agents; !strings.HasPrefix(ua, "workshopgen/") {
			t.Errorf("expected workshopgen user agent, got %q", ua)
		}
		if got := strings.Count(res.stderr, "start request"); got != 1 {
			t.Errorf("expected 1 request log, got %d:\n%s", got, res.stderr)
		}
	})

	t.Run("quiet suppresses progress", func(t *testing.T) {
		t.Parallel()

		_, baseURL := newWorkshopServer(t, http.StatusOK, collectionPage)
		res := runRoot(t, "-c", emptyConfig(t), "--base-url", baseURL, "-o", t.TempDir(), "-q", "--no-history")
		if res.err != nil {
			t.Fatalf("unexpected error: %v", res.err)
		}
		if res.stderr != "" {
			t.Errorf("expected no log output, got:\n%s", res.stderr)
		}
	})

	t.Run("unopenable file falls back to stdout even when quiet", func(t *testing.T) {
		t.Parallel()

		_, baseURL := newWorkshopServer(t, http.StatusOK, collectionPage)
		missing := filepath.Join(t.TempDir(), "does", "not", "exist")

		res := runRoot(t, "-c", emptyConfig(t), "--base-url", baseURL, "-i", "5", "-o", missing, "-q", "--no-history")
		if res.err != nil {
			t.Fatalf("unexpected error: %v", res.err)
		}
		if !headerPattern.MatchString(res.stdout) {
			t.Errorf("expected generated content on stdout, got:\n%s", res.stdout)
		}
		if !strings.HasSuffix(res.stdout, "-- Bar\n\n") {
			t.Errorf("expected trailing blank line, got %q", res.stdout)
		}
	})

	t.Run("http error fails without writing", func(t *testing.T) {
		t.Parallel()

		_, baseURL := newWorkshopServer(t, http.StatusNotFound, collectionPage)
		dir := t.TempDir()

		res := runRoot(t, "-c", emptyConfig(t), "--base-url", baseURL, "-o", dir, "--no-history")
		var fetchErr *fetcher.FetchError
		if !errors.As(res.err, &fetchErr) {
			t.Fatalf("expected FetchError, got %v", res.err)
		}
		if _, err := os.Stat(filepath.Join(dir, config.DefaultFilename)); !os.IsNotExist(err) {
			t.Error("expected no output file")
		}
	})

	t.Run("page without collection marker is rejected", func(t *testing.T) {
		t.Parallel()

		_, baseURL := newWorkshopServer(t, http.StatusOK, `<div class="workshopItemTitle">Single item</div>`)
		res := runRoot(t, "-c", emptyConfig(t), "--base-url", baseURL, "-o", t.TempDir(), "--no-history")

		var invalid *fetcher.InvalidCollectionError
		if !errors.As(res.err, &invalid) {
			t.Fatalf("expected InvalidCollectionError, got %v", res.err)
		}
	})

	t.Run("page without title is rejected", func(t *testing.T) {
		t.Parallel()

		_, baseURL := newWorkshopServer(t, http.StatusOK, `<div class="collectionChildren"></div>`)
		res := runRoot(t, "-c", emptyConfig(t), "--base-url", baseURL, "-o", t.TempDir(), "--no-history")

		var missing *extractor.MissingTitleError
		if !errors.As(res.err, &missing) {
			t.Fatalf("expected MissingTitleError, got %v", res.err)
		}
	})

	t.Run("empty collection id is a configuration error", func(t *testing.T) {
		t.Parallel()

		res := runRoot(t, "-c", emptyConfig(t), "-i", "", "--no-history")
		if !errors.Is(res.err, config.ErrNoCollectionID) {
			t.Fatalf("expected ErrNoCollectionID, got %v", res.err)
		}
	})

	t.Run("records the run in history", func(t *testing.T) {
		t.Parallel()

		_, baseURL := newWorkshopServer(t, http.StatusOK, collectionPage)
		historyDir := t.TempDir()

		res := runRoot(t, "-c", emptyConfig(t), "--base-url", baseURL, "-i", "5", "-o", t.TempDir(), "--history-dir", historyDir)
		if res.err != nil {
			t.Fatalf("unexpected error: %v", res.err)
		}

		res = runRoot(t, "history", "5", "--history-dir", historyDir)
		if res.err != nil {
			t.Fatalf("unexpected error: %v", res.err)
		}
		if !strings.Contains(res.stdout, "Server Pack") || !strings.Contains(res.stdout, "items: 2") {
			t.Errorf("expected recorded run, got:\n%s", res.stdout)
		}
	})
}

func TestBuildConfig(t *testing.T) {
	t.Parallel()

	writeConfig := func(t *testing.T, content string) string {
		t.Helper()
		path := filepath.Join(t.TempDir(), ".workshopgen")
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatal(err)
		}
		return path
	}

	parse := func(t *testing.T, args ...string) (*config.Config, error) {
		t.Helper()
		cmd := NewRootCmd()
		if err := cmd.ParseFlags(args); err != nil {
			t.Fatalf("failed to parse flags: %v", err)
		}
		return buildConfig(cmd)
	}

	t.Run("defaults without file values", func(t *testing.T) {
		t.Parallel()

		cfg, err := parse(t, "-c", writeConfig(t, ""))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.CollectionID != config.DefaultCollectionID || cfg.Filename != config.DefaultFilename || cfg.OutputDir != config.DefaultOutputDir {
			t.Errorf("unexpected defaults %+v", cfg)
		}
		if !cfg.SaveHistory {
			t.Error("expected history enabled by default")
		}
	})

	t.Run("file overrides defaults", func(t *testing.T) {
		t.Parallel()

		cfg, err := parse(t, "-c", writeConfig(t, "collection: \"77\"\nfilename: from-file.lua\nquiet: true\nhistory: false\n"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.CollectionID != "77" || cfg.Filename != "from-file.lua" || !cfg.Quiet || cfg.SaveHistory {
			t.Errorf("file values not applied: %+v", cfg)
		}
	})

	t.Run("explicit flags override file", func(t *testing.T) {
		t.Parallel()

		path := writeConfig(t, "collection: \"77\"\nfilename: from-file.lua\nverbose: false\n")
		cfg, err := parse(t, "-c", path, "-i", "88", "-v")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.CollectionID != "88" {
			t.Errorf("expected flag id 88, got %q", cfg.CollectionID)
		}
		if cfg.Filename != "from-file.lua" {
			t.Errorf("unset flag should not override file, got %q", cfg.Filename)
		}
		if !cfg.Verbose {
			t.Error("expected verbose from flag")
		}
	})

	t.Run("unknown key is rejected", func(t *testing.T) {
		t.Parallel()

		_, err := parse(t, "-c", writeConfig(t, "colection: \"77\"\n"))
		if err == nil {
			t.Fatal("expected error for unknown key")
		}
	})

	t.Run("missing explicit file is an error", func(t *testing.T) {
		t.Parallel()

		_, err := parse(t, "-c", filepath.Join(t.TempDir(), "missing.yaml"))
		if !errors.Is(err, config.ErrConfigNotFound) {
			t.Fatalf("expected ErrConfigNotFound, got %v", err)
		}
	})
}
