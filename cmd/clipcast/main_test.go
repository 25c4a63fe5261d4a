package main

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"clipcast/internal/clipboard"
	"clipcast/internal/config"
	"clipcast/pkg/testutils"
	"clipcast/pkg/workflow"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type result struct {
	stdout string
	stderr string
	err    error
}

// runCli runs one invocation against an empty config file
func runCli(t *testing.T, stdin string, opts []workflow.Option, args ...string) result {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd(opts...)
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--config", filepath.Join(t.TempDir(), "config.yaml")}, args...))
	err := cmd.Execute()
	return result{
		stdout: testutils.StripANSI(out.String()),
		stderr: testutils.StripANSI(errOut.String()),
		err:    err,
	}
}

type fileHost struct {
	mu        sync.Mutex
	filenames []string
	status    int
}

func (h *fileHost) sent() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.filenames...)
}

// newFileHost serves the upload route and answers with a tmpfiles style body
func newFileHost(t *testing.T, status int) (*httptest.Server, *fileHost) {
	t.Helper()
	host := &fileHost{status: status}
	r := mux.NewRouter()
	r.HandleFunc("/api/v1/upload", func(w http.ResponseWriter, req *http.Request) {
		f, header, err := req.FormFile("file")
		require.NoError(t, err)
		_, _ = io.Copy(io.Discard, f)
		f.Close()

		host.mu.Lock()
		host.filenames = append(host.filenames, header.Filename)
		host.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(host.status)
		fmt.Fprintf(w, `{"status":"success","data":{"url":"https://tmpfiles.org/7/%s"}}`, header.Filename)
	}).Methods(http.MethodPost)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, host
}

func TestCliVersionCommand(t *testing.T) {
	res := runCli(t, "", nil, "version")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "clipcast version dev")
}

func TestCliHelpCommand(t *testing.T) {
	res := runCli(t, "", nil, "--help")
	require.NoError(t, res.err)

	assert.Contains(t, res.stdout, "Available Commands:")
	for _, name := range []string{"text", "file", "tui", "gui"} {
		assert.Contains(t, res.stdout, name)
	}
	assert.Contains(t, res.stdout, "--endpoint")
}

func TestTextCommand(t *testing.T) {
	t.Run("arguments", func(t *testing.T) {
		res := runCli(t, "", nil, "text", "hello", "world")
		require.NoError(t, res.err)
		assert.Contains(t, res.stdout, "11 characters encoded")
		assert.Greater(t, strings.Count(res.stdout, "\n"), 10, "QR code should span several lines")
	})

	t.Run("stdin is trimmed", func(t *testing.T) {
		res := runCli(t, "  piped \n", nil, "text")
		require.NoError(t, res.err)
		assert.Contains(t, res.stdout, "5 characters encoded")
	})

	t.Run("clipboard", func(t *testing.T) {
		opts := []workflow.Option{workflow.WithClipboard(clipboard.Static{Text: "from clip"})}
		res := runCli(t, "", opts, "text", "--paste")
		require.NoError(t, res.err)
		assert.Contains(t, res.stdout, "9 characters encoded")
	})

	t.Run("clipboard denied", func(t *testing.T) {
		opts := []workflow.Option{workflow.WithClipboard(clipboard.Unsupported{})}
		res := runCli(t, "", opts, "text", "-p")
		require.Error(t, res.err)
		assert.Equal(t, workflow.MsgClipboardDenied, res.err.Error())
	})

	t.Run("png output", func(t *testing.T) {
		pngPath := filepath.Join(t.TempDir(), "qr.png")
		res := runCli(t, "", nil, "text", "--png", pngPath, "hello")
		require.NoError(t, res.err)
		assert.Contains(t, res.stdout, "QR image written to "+pngPath)

		data, err := os.ReadFile(pngPath)
		require.NoError(t, err)
		assert.True(t, bytes.HasPrefix(data, []byte("\x89PNG")), "file should be a PNG")
	})

	t.Run("nothing to encode", func(t *testing.T) {
		res := runCli(t, "   \n", nil, "text")
		require.Error(t, res.err)
		assert.Contains(t, res.err.Error(), "nothing to encode")
	})
}

func TestFileCommand(t *testing.T) {
	srv, host := newFileHost(t, http.StatusOK)
	endpoint := srv.URL + "/api/v1/upload"
	dir := t.TempDir()
	paths := testutils.CreateTestFilesWithDefault(t, dir)

	t.Run("single file is sent as is", func(t *testing.T) {
		res := runCli(t, "", nil, "--endpoint", endpoint, "file", paths[0])
		require.NoError(t, res.err)

		assert.Contains(t, res.stdout, "https://tmpfiles.org/7/test1.txt")
		assert.Contains(t, res.stdout, "test1.txt · 14 B")
		assert.Contains(t, res.stdout, "blake3 ")
		assert.Contains(t, res.stderr, "Uploading 1 file(s)")
		assert.Contains(t, res.stderr, "Auto-deletes after 1 hour")
		assert.Equal(t, "test1.txt", host.sent()[len(host.sent())-1])
	})

	t.Run("several files are zipped", func(t *testing.T) {
		res := runCli(t, "", nil, "--endpoint", endpoint, "file", filepath.Join(dir, "*.txt"))
		require.NoError(t, res.err)

		assert.Contains(t, res.stderr, "Uploading 2 file(s)")
		assert.Contains(t, res.stdout, config.DefaultArchiveName)
		assert.Equal(t, config.DefaultArchiveName, host.sent()[len(host.sent())-1])
	})

	t.Run("exclude leaves files out", func(t *testing.T) {
		res := runCli(t, "", nil, "--endpoint", endpoint, "file", filepath.Join(dir, "*"), "--exclude", "*.txt")
		require.NoError(t, res.err)
		assert.Equal(t, "test3.jpg", host.sent()[len(host.sent())-1])
	})

	t.Run("endpoint from environment", func(t *testing.T) {
		t.Setenv("CLIPCAST_UPLOAD_ENDPOINT", endpoint)
		before := len(host.sent())
		res := runCli(t, "", nil, "file", paths[2])
		require.NoError(t, res.err)
		assert.Len(t, host.sent(), before+1)
	})

	t.Run("missing file", func(t *testing.T) {
		res := runCli(t, "", nil, "--endpoint", endpoint, "file", filepath.Join(dir, "nope.txt"))
		require.Error(t, res.err)
		assert.Contains(t, res.err.Error(), "file not found")
		assert.Contains(t, res.err.Error(), "quote globs")
	})

	t.Run("bad exclude pattern", func(t *testing.T) {
		res := runCli(t, "", nil, "--endpoint", endpoint, "file", paths[0], "--exclude", "[abc")
		require.Error(t, res.err)
		assert.Contains(t, res.err.Error(), "invalid exclude pattern")
		assert.Contains(t, res.err.Error(), "--exclude")
	})

	t.Run("no arguments", func(t *testing.T) {
		res := runCli(t, "", nil, "--endpoint", endpoint, "file")
		require.Error(t, res.err)
	})
}

func TestFileCommandUploadFailure(t *testing.T) {
	srv, _ := newFileHost(t, http.StatusRequestEntityTooLarge)
	path := testutils.CreateTestFilesWithContent(t, t.TempDir(), map[string]string{"big.bin": "pretend"})[0]

	res := runCli(t, "", nil, "--endpoint", srv.URL+"/api/v1/upload", "file", path)
	require.Error(t, res.err)
	assert.Contains(t, res.err.Error(), workflow.MsgUploadFailed)
	assert.Contains(t, res.err.Error(), "status")
}

func TestConfigFileAndOverrides(t *testing.T) {
	t.Run("invalid endpoint from environment", func(t *testing.T) {
		t.Setenv("CLIPCAST_UPLOAD_ENDPOINT", "ftp://files.example.com")
		res := runCli(t, "", nil, "text", "x")
		require.Error(t, res.err)
		assert.Contains(t, res.err.Error(), "invalid configuration")
	})

	t.Run("endpoint from config file", func(t *testing.T) {
		srv, host := newFileHost(t, http.StatusOK)
		cfgPath := filepath.Join(t.TempDir(), "config.yaml")
		yaml := fmt.Sprintf("upload:\n  endpoint: %q\n", srv.URL+"/api/v1/upload")
		require.NoError(t, os.WriteFile(cfgPath, []byte(yaml), 0644))
		path := testutils.CreateTestFilesWithContent(t, t.TempDir(), map[string]string{"cfg.txt": "c"})[0]

		var out bytes.Buffer
		cmd := newRootCmd()
		cmd.SetOut(&out)
		cmd.SetErr(io.Discard)
		cmd.SetArgs([]string{"--config", cfgPath, "file", path})
		require.NoError(t, cmd.Execute())
		assert.Equal(t, []string{"cfg.txt"}, host.sent())
	})

	t.Run("broken config file", func(t *testing.T) {
		cfgPath := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(cfgPath, []byte("upload: [oops"), 0644))

		cmd := newRootCmd()
		cmd.SetOut(io.Discard)
		cmd.SetErr(io.Discard)
		cmd.SetArgs([]string{"--config", cfgPath, "text", "x"})
		err := cmd.Execute()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "error parsing config file")
	})
}
