package kernel

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
)

// zipArchive builds an in-memory zip holding files (relative path -> content).
func zipArchive(t *testing.T, files map[string]string) []byte {
	t.Helper()

	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, name := range names {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(files[name]))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

// mkKernelDirs creates empty kernel directories under root.
func mkKernelDirs(t *testing.T, root string, ids ...string) {
	t.Helper()
	for _, id := range ids {
		require.NoError(t, os.MkdirAll(filepath.Join(root, id), 0755))
	}
}

var errOffline = errors.New("dial tcp: lookup kernels.example.com: no such host")

// fakeRemote is an in-memory Remote that counts calls.
type fakeRemote struct {
	latest       string
	latestErr    error
	archives     map[string][]byte
	latestCalls  int
	archiveCalls int
}

func (f *fakeRemote) LatestPointer(_ context.Context) (string, error) {
	f.latestCalls++
	if f.latestErr != nil {
		return "", f.latestErr
	}
	return NormalizeID(f.latest), nil
}

func (f *fakeRemote) Archive(_ context.Context, id string) ([]byte, error) {
	f.archiveCalls++
	data, ok := f.archives[id]
	if !ok {
		return nil, errors.New("fetching " + id + ".zip: server returned status 404")
	}
	return data, nil
}

func (f *fakeRemote) ArchiveURL(id string) string {
	return "https://kernels.example.com/" + id + ".zip"
}
