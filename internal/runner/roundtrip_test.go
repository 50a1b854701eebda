package runner

import (
	"archive/zip"
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"oscalctl/internal/paths"
	"oscalctl/internal/tools"
)

const roundTripMetadata = `<?xml version="1.0" encoding="UTF-8"?>
<metadata>
  <versioning>
    <release>3.0.0</release>
    <versions><version>3.0.0</version></versions>
  </versioning>
</metadata>`

func TestInstallThenRun(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("the fake entry point is a shell script")
	}

	var archive bytes.Buffer
	zw := zip.NewWriter(&archive)
	w, err := zw.Create("bin/oscal-cli")
	if err != nil {
		t.Fatalf("zip create: %v", err)
	}
	if _, err := w.Write([]byte("#!/bin/sh\necho \"oscal-cli $1\"\nexit 0\n")); err != nil {
		t.Fatalf("zip write: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("zip close: %v", err)
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "maven-metadata.xml"):
			w.Write([]byte(roundTripMetadata))
		case strings.HasSuffix(r.URL.Path, "/3.0.0/oscal-cli-enhanced-3.0.0-oscal-cli.zip"):
			w.Write(archive.Bytes())
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	layout, err := paths.Resolve(t.TempDir())
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	installer := tools.NewInstaller(layout, srv.URL+"/maven-metadata.xml", srv.URL, 10*time.Second, zerolog.Nop())

	res, err := installer.Install(context.Background(), "latest")
	if err != nil {
		t.Fatalf("install: %v", err)
	}
	if res.Version != "3.0.0" {
		t.Fatalf("expected 3.0.0, got %q", res.Version)
	}

	t.Setenv("PATH", layout.BinDir)
	r := New(tools.ToolName)
	located, err := r.Locate()
	if err != nil {
		t.Fatalf("locate: %v", err)
	}
	if located != filepath.Join(layout.BinDir, "oscal-cli") {
		t.Fatalf("expected the alias, got %s", located)
	}

	out, err := r.Run(context.Background(), "noop")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if out.Stdout != "oscal-cli noop\n" {
		t.Fatalf("unexpected stdout %q", out.Stdout)
	}
}
