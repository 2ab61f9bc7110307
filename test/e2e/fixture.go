// Package e2e drives the flicksearch binary in a pseudo-terminal against
// the fixture search backend.
package e2e

import (
	"net/http/httptest"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/abelbrown/flicksearch/internal/searchtest"
)

// buildFlicksearch compiles ./cmd/flicksearch into a temp dir.
func buildFlicksearch(t *testing.T) string {
	t.Helper()
	binPath := filepath.Join(t.TempDir(), "flicksearch")

	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	// test/e2e -> repo root
	rootDir := filepath.Join(wd, "..", "..")

	cmd := exec.Command("go", "build", "-o", binPath, "./cmd/flicksearch")
	cmd.Dir = rootDir
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("build failed: %v\n%s", err, out)
	}
	return binPath
}

// startBackend serves the default catalogue and returns the fixture so
// tests can inspect the requests it received.
func startBackend(t *testing.T) (*searchtest.Server, *httptest.Server) {
	t.Helper()
	fixture := searchtest.New(nil)
	srv := fixture.Start()
	t.Cleanup(srv.Close)
	return fixture, srv
}
