package toolup

import (
	"archive/zip"
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crafted-tech/toolup/release"
	"github.com/crafted-tech/toolup/userenv"
)

// editorFixture serves a fake release API plus the asset it points at:
// a zip wrapping files {hx.exe, runtime/config} in a single root folder.
func editorFixture(t *testing.T, tag string, assetStatus int) *httptest.Server {
	t.Helper()

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for name, content := range map[string]string{
		"pkg-" + tag + "-x86_64-windows/hx.exe":         "editor binary",
		"pkg-" + tag + "-x86_64-windows/runtime/config": "runtime data",
	} {
		entry, err := w.Create(name)
		require.NoError(t, err)
		_, err = entry.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	mux := http.NewServeMux()
	var srv *httptest.Server
	mux.HandleFunc("/repos/acme/pkg/releases/latest", func(rw http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(rw, `{
			"tag_name": %q,
			"assets": [
				{"name": "pkg-%s-x86_64-linux.tar.gz", "browser_download_url": "%s/dl/linux"},
				{"name": "pkg-%s-x86_64-windows.zip", "browser_download_url": "%s/dl/windows"}
			]
		}`, tag, tag, srv.URL, tag, srv.URL)
	})
	mux.HandleFunc("/dl/windows", func(rw http.ResponseWriter, r *http.Request) {
		if assetStatus != http.StatusOK {
			rw.WriteHeader(assetStatus)
			return
		}
		rw.Write(buf.Bytes())
	})
	srv = httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func editorTestProduct(dir string, srv *httptest.Server) Product {
	target := filepath.Join(dir, "pkg")
	return Product{
		Name:       "pkg",
		InstallDir: dir,
		TargetDir:  target,
		Source: Source{Release: &release.Query{
			Owner:   "acme",
			Repo:    "pkg",
			Suffix:  "x86_64-windows.zip",
			BaseURL: srv.URL,
		}},
		Method: ExtractArchive,
		Env: []userenv.Var{
			{Name: "TOOLUP_TEST_RUNTIME", Value: filepath.Join(target, "runtime")},
		},
		PathDirs: []string{target},
	}
}

func noStagingLeft(t *testing.T, dir string) {
	t.Helper()
	leftovers, err := filepath.Glob(filepath.Join(dir, ".toolup-stage-*"))
	require.NoError(t, err)
	assert.Empty(t, leftovers, "staging directories must not survive the run")
}

func TestRunArchiveInstall(t *testing.T) {
	t.Setenv("PATH", "")
	t.Setenv("TOOLUP_TEST_RUNTIME", "")

	srv := editorFixture(t, "25.07.1", http.StatusOK)
	dir := filepath.Join(t.TempDir(), "tools")
	store := userenv.MapStore{}

	require.NoError(t, Run(editorTestProduct(dir, srv), store, nil))

	target := filepath.Join(dir, "pkg")
	data, err := os.ReadFile(filepath.Join(target, "hx.exe"))
	require.NoError(t, err)
	assert.Equal(t, "editor binary", string(data))
	assert.True(t, FileExists(filepath.Join(target, "runtime", "config")))
	assert.False(t, DirExists(filepath.Join(target, "pkg-25.07.1-x86_64-windows")),
		"the archive's wrapping folder must not survive")

	assert.Equal(t, "25.07.1", ReadVersionMarker(target))
	assert.Equal(t, filepath.Join(target, "runtime"), store["TOOLUP_TEST_RUNTIME"])
	assert.True(t, strings.HasPrefix(store[userenv.PathName], target),
		"target dir must be prepended to the persisted PATH")

	noStagingLeft(t, dir)
}

func TestRunArchiveInstallSkipsWhenCurrent(t *testing.T) {
	t.Setenv("PATH", "")
	t.Setenv("TOOLUP_TEST_RUNTIME", "")

	srv := editorFixture(t, "25.07.1", http.StatusOK)
	dir := filepath.Join(t.TempDir(), "tools")
	store := userenv.MapStore{}

	require.NoError(t, Run(editorTestProduct(dir, srv), store, nil))
	pathAfterFirst := store[userenv.PathName]

	// Second run finds the version marker current and changes nothing.
	require.NoError(t, Run(editorTestProduct(dir, srv), store, nil))
	assert.Equal(t, pathAfterFirst, store[userenv.PathName],
		"repeated runs must not grow the PATH list")

	// A forced run reinstalls over the same version.
	p := editorTestProduct(dir, srv)
	p.Force = true
	require.NoError(t, Run(p, store, nil))
	assert.Equal(t, pathAfterFirst, store[userenv.PathName])
	noStagingLeft(t, dir)
}

func TestRunCleansUpOnFailedExtraction(t *testing.T) {
	t.Setenv("PATH", "")
	t.Setenv("TOOLUP_TEST_RUNTIME", "")

	// The asset downloads fine but is not a zip, so extraction fails after
	// the staging directory exists.
	mux := http.NewServeMux()
	var srv *httptest.Server
	mux.HandleFunc("/repos/acme/pkg/releases/latest", func(rw http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(rw, `{
			"tag_name": "25.07.1",
			"assets": [{"name": "pkg-x86_64-windows.zip", "browser_download_url": "%s/corrupt"}]
		}`, srv.URL)
	})
	mux.HandleFunc("/corrupt", func(rw http.ResponseWriter, r *http.Request) {
		rw.Write([]byte("this is not a zip archive"))
	})
	srv = httptest.NewServer(mux)
	defer srv.Close()

	dir := filepath.Join(t.TempDir(), "tools")
	err := Run(editorTestProduct(dir, srv), userenv.MapStore{}, nil)
	require.Error(t, err)
	noStagingLeft(t, dir)
}

func TestRunDownloadFailureIsFatal(t *testing.T) {
	t.Setenv("PATH", "")
	t.Setenv("TOOLUP_TEST_RUNTIME", "")

	srv := editorFixture(t, "25.07.1", http.StatusNotFound)
	dir := filepath.Join(t.TempDir(), "tools")

	err := Run(editorTestProduct(dir, srv), userenv.MapStore{}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 404")
	noStagingLeft(t, dir)
}

func TestRunExecutableInstall(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("fixture bootstrapper is a shell script")
	}
	t.Setenv("PATH", "")
	t.Setenv("TOOLUP_TEST_HOME", "")

	dir := filepath.Join(t.TempDir(), "tools")
	marker := filepath.Join(dir, "bootstrapper-ran")

	srv := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		rw.Write([]byte("#!/bin/sh\ntouch \"$1\"\n"))
	}))
	defer srv.Close()

	p := Product{
		Name:       "toolchain",
		InstallDir: dir,
		Source:     Source{URL: srv.URL, Filename: "bootstrap"},
		Method:     RunExecutable,
		Args:       []string{marker},
		Env: []userenv.Var{
			{Name: "TOOLUP_TEST_HOME", Value: filepath.Join(dir, "home")},
		},
		PathDirs: []string{filepath.Join(dir, "bin")},
	}

	store := userenv.MapStore{}
	require.NoError(t, Run(p, store, nil))

	assert.True(t, FileExists(marker), "the bootstrapper must actually run")
	assert.Equal(t, filepath.Join(dir, "home"), store["TOOLUP_TEST_HOME"])
	assert.Equal(t, filepath.Join(dir, "bin"), store[userenv.PathName])
}

func TestRunExecutableFailureIsFatal(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("fixture bootstrapper is a shell script")
	}
	t.Setenv("PATH", "")

	dir := filepath.Join(t.TempDir(), "tools")
	srv := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		rw.Write([]byte("#!/bin/sh\nexit 3\n"))
	}))
	defer srv.Close()

	p := Product{
		Name:       "toolchain",
		InstallDir: dir,
		Source:     Source{URL: srv.URL, Filename: "bootstrap"},
		Method:     RunExecutable,
	}

	err := Run(p, userenv.MapStore{}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "run installer")
}

func TestRunRejectsRelativeDir(t *testing.T) {
	p := Product{Name: "x", InstallDir: "relative/dir"}
	err := Run(p, userenv.MapStore{}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "absolute")
}

func TestRunRejectsEmptyDir(t *testing.T) {
	err := Run(Product{Name: "x"}, userenv.MapStore{}, nil)
	require.Error(t, err)
}

func TestToolchainProductDerivedPaths(t *testing.T) {
	cfg := DefaultConfig()
	dir := string(os.PathSeparator) + filepath.Join("tools")

	p := ToolchainProduct(dir, cfg)

	assert.Equal(t, []userenv.Var{
		{Name: "RUSTUP_HOME", Value: filepath.Join(dir, "rustup")},
		{Name: "CARGO_HOME", Value: filepath.Join(dir, "cargo")},
	}, p.Env)
	assert.Equal(t, []string{filepath.Join(dir, "cargo", "bin")}, p.PathDirs)
	assert.Equal(t, RunExecutable, p.Method)
	assert.Contains(t, p.Args, "--no-modify-path")
}

func TestEditorProductDerivedPaths(t *testing.T) {
	cfg := DefaultConfig()
	dir := string(os.PathSeparator) + filepath.Join("tools")

	p := EditorProduct(dir, cfg)

	target := filepath.Join(dir, "helix")
	assert.Equal(t, target, p.TargetDir)
	assert.Equal(t, []string{target}, p.PathDirs)
	assert.Equal(t, ExtractArchive, p.Method)
	require.NotNil(t, p.Source.Release)
	assert.Equal(t, "helix-editor", p.Source.Release.Owner)
}
