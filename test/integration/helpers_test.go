//go:build integration

package integration_test

import (
	"archive/zip"
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/purduesigbots/pros-cli/internal/kernel"
	"github.com/purduesigbots/pros-cli/internal/scaffold"
	"github.com/purduesigbots/pros-cli/internal/upgrader"
)

// testEnv holds paths to isolated test directories.
type testEnv struct {
	HomeDir    string // PROS_HOME, holds config.yaml
	KernelDir  string // PROS_KERNELS, the kernel cache root
	ProjectDir string // parent for generated projects
}

// setupTestEnv creates isolated temp directories and points the PROS
// environment variables at them. The env vars are restored after the test.
func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		HomeDir:    t.TempDir(),
		KernelDir:  filepath.Join(t.TempDir(), "kernels"),
		ProjectDir: t.TempDir(),
	}

	t.Setenv("PROS_HOME", env.HomeDir)
	t.Setenv("PROS_KERNELS", env.KernelDir)

	return env
}

// kernelSite is a static kernel site backed by httptest.
type kernelSite struct {
	*httptest.Server

	mu       sync.Mutex
	latest   string
	archives map[string][]byte
	requests []string
}

func newKernelSite(t *testing.T) *kernelSite {
	t.Helper()
	s := &kernelSite{archives: make(map[string][]byte)}
	s.Server = httptest.NewServer(http.HandlerFunc(s.serve))
	t.Cleanup(s.Close)
	return s
}

func (s *kernelSite) serve(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = append(s.requests, r.URL.Path)

	if r.Header.Get("User-Agent") != "pros-cli" {
		http.Error(w, "bad user agent", http.StatusForbidden)
		return
	}
	if r.URL.Path == "/"+kernel.LatestPointerName && s.latest != "" {
		_, _ = w.Write([]byte(s.latest + "\n"))
		return
	}
	if data, ok := s.archives[strings.TrimPrefix(r.URL.Path, "/")]; ok {
		_, _ = w.Write(data)
		return
	}
	http.NotFound(w, r)
}

// publish adds a kernel archive and optionally moves the latest pointer.
func (s *kernelSite) publish(t *testing.T, id string, files map[string]string, latest bool) {
	t.Helper()
	data := zipFiles(t, files)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.archives[id+".zip"] = data
	if latest {
		s.latest = id
	}
}

func (s *kernelSite) setLatest(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.latest = id
}

func (s *kernelSite) archiveRequests() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, p := range s.requests {
		if strings.HasSuffix(p, ".zip") {
			n++
		}
	}
	return n
}

// stockKernel returns the files of a default-layout kernel for id.
func stockKernel(id string) map[string]string {
	return map[string]string{
		".project":              "<project><name>Default_VeX_Cortex</name></project>\r\n",
		"Makefile":              "# kernel " + id + "\n",
		"firmware/libccos.a":    "libccos " + id + "\n",
		"firmware/uniflash.jar": "uniflash " + id + "\n",
		"include/API.h":         "// API " + id + "\n",
		"include/main.h":        "#include \"API.h\"\n",
		"src/Makefile":          "# src " + id + "\n",
		"src/opcontrol.c":       "void operatorControl() {}\n",
	}
}

func zipFiles(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range files {
		hdr := &zip.FileHeader{Name: name, Method: zip.Deflate}
		if strings.HasSuffix(name, ".sh") {
			hdr.SetMode(0755)
		}
		w, err := zw.CreateHeader(hdr)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatal(err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

// newScaffolder wires the real resolver, fetcher and provider the way the
// CLI does.
func newScaffolder(t *testing.T, site string, out *bytes.Buffer) *scaffold.Scaffolder {
	t.Helper()
	root, err := kernel.DefaultRoot()
	if err != nil {
		t.Fatal(err)
	}

	var remote kernel.Remote
	if site != "" {
		remote = kernel.NewFetcher(site)
	}
	resolver := kernel.NewResolver(kernel.NewCache(root), remote, kernel.WithOutput(out))
	provider := upgrader.NewProvider(upgrader.DefaultLayout(), out,
		upgrader.WithHookRunner(&upgrader.HookRunner{Stdout: out, Stderr: out}))
	return scaffold.New(resolver, provider, nil)
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	return string(data)
}

func assertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected file to exist: %s", path)
	}
}

func assertNotExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err == nil {
		t.Errorf("expected path to not exist: %s", path)
	}
}

func assertContent(t *testing.T, path, want string) {
	t.Helper()
	if got := readFile(t, path); got != want {
		t.Errorf("%s = %q, want %q", path, got, want)
	}
}
