package upgrader

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultStrategy_CreateTree(t *testing.T) {
	kernelDir := writeKernel(t, t.TempDir(), "2.1.0")
	target := filepath.Join(t.TempDir(), "MyBot")

	s := NewDefaultStrategy(DefaultLayout(), nil)
	require.NoError(t, s.Create(context.Background(), target, kernelDir, "MyBot"))

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "create_tree", snapshotTree(t, target))
}

func TestDefaultStrategy_CreateMessages(t *testing.T) {
	kernelDir := writeKernel(t, t.TempDir(), "2.1.0")
	target := filepath.Join(t.TempDir(), "bot")
	var out bytes.Buffer

	s := NewDefaultStrategy(DefaultLayout(), &out)
	require.NoError(t, s.Create(context.Background(), target, kernelDir, "bot"))

	assert.NotContains(t, out.String(), "Directory already exists")
	assert.Contains(t, out.String(), "Copying from 2.1.0...")
	assert.Contains(t, out.String(), "Fixing template files")
}

func TestDefaultStrategy_CreateReplacesExistingDirectory(t *testing.T) {
	kernelDir := writeKernel(t, t.TempDir(), "2.1.0")
	target := filepath.Join(t.TempDir(), "bot")
	writeFiles(t, target, map[string]string{
		"src/user_code.c": "int main() {}\n",
		"notes.txt":       "keep me?\n",
	})
	var out bytes.Buffer

	s := NewDefaultStrategy(DefaultLayout(), &out)
	require.NoError(t, s.Create(context.Background(), target, kernelDir, "bot"))

	assert.Contains(t, out.String(), "Directory already exists, removing.")
	assert.NoFileExists(t, filepath.Join(target, "src", "user_code.c"))
	assert.NoFileExists(t, filepath.Join(target, "notes.txt"))
	assert.FileExists(t, filepath.Join(target, "src", "init.c"))
}

func TestDefaultStrategy_CreateIsIdempotent(t *testing.T) {
	kernelDir := writeKernel(t, t.TempDir(), "2.1.0")
	target := filepath.Join(t.TempDir(), "bot")
	s := NewDefaultStrategy(DefaultLayout(), nil)

	require.NoError(t, s.Create(context.Background(), target, kernelDir, "bot"))
	first := snapshotTree(t, target)
	require.NoError(t, s.Create(context.Background(), target, kernelDir, "bot"))

	assert.Equal(t, string(first), string(snapshotTree(t, target)))
}

func TestDefaultStrategy_CreateCustomLayout(t *testing.T) {
	kernelDir := filepath.Join(t.TempDir(), "3.0.0")
	writeFiles(t, kernelDir, map[string]string{
		"project.pros": "name=Default_Template\n",
		"src/main.c":   "int main() {}\n",
	})
	target := filepath.Join(t.TempDir(), "bot")

	layout := DefaultLayout().Merge(Layout{MetadataFile: "project.pros", Placeholder: "Default_Template"})
	s := NewDefaultStrategy(layout, nil)
	require.NoError(t, s.Create(context.Background(), target, kernelDir, "MyBot"))

	assert.Equal(t, "name=MyBot\n", readFile(t, filepath.Join(target, "project.pros")))
}

func TestDefaultStrategy_CreateMissingMetadataFile(t *testing.T) {
	kernelDir := writeKernel(t, t.TempDir(), "2.1.0")
	require.NoError(t, os.Remove(filepath.Join(kernelDir, ".project")))
	target := filepath.Join(t.TempDir(), "bot")

	err := NewDefaultStrategy(DefaultLayout(), nil).Create(context.Background(), target, kernelDir, "bot")
	require.Error(t, err)
	assert.Contains(t, err.Error(), ".project")
}

func TestDefaultStrategy_CreateMissingKernel(t *testing.T) {
	target := filepath.Join(t.TempDir(), "bot")
	writeFiles(t, target, map[string]string{"keep.c": "x\n"})

	err := NewDefaultStrategy(DefaultLayout(), nil).Create(context.Background(), target, filepath.Join(t.TempDir(), "absent"), "bot")
	require.Error(t, err)
	assert.FileExists(t, filepath.Join(target, "keep.c"), "project must survive a missing kernel")
}

func TestDefaultStrategy_UpgradeTouchesOnlyManagedFiles(t *testing.T) {
	root := t.TempDir()
	oldKernel := writeKernel(t, root, "2.0.0")
	newKernel := writeKernel(t, root, "2.1.0")
	target := filepath.Join(t.TempDir(), "bot")

	s := NewDefaultStrategy(DefaultLayout(), nil)
	require.NoError(t, s.Create(context.Background(), target, oldKernel, "bot"))
	writeFiles(t, target, map[string]string{
		"src/user_code.c": "int main() { return 7; }\n",
		"src/init.c":      "void initialize() { customized(); }\n",
	})

	var out bytes.Buffer
	s.Out = &out
	require.NoError(t, s.Upgrade(context.Background(), target, newKernel, "bot"))

	assert.Equal(t, "libccos 2.1.0\n", readFile(t, filepath.Join(target, "firmware", "libccos.a")))
	assert.Equal(t, "uniflash 2.1.0\n", readFile(t, filepath.Join(target, "firmware", "uniflash.jar")))
	assert.Equal(t, "// API 2.1.0\n", readFile(t, filepath.Join(target, "include", "API.h")))
	assert.Equal(t, "# src makefile 2.1.0\n", readFile(t, filepath.Join(target, "src", "Makefile")))

	assert.Equal(t, "int main() { return 7; }\n", readFile(t, filepath.Join(target, "src", "user_code.c")))
	assert.Equal(t, "void initialize() { customized(); }\n", readFile(t, filepath.Join(target, "src", "init.c")))
	assert.Equal(t, "name=bot\nplatform=cortex\n", readFile(t, filepath.Join(target, ".project")))

	for _, p := range DefaultLayout().ManagedFiles {
		assert.Contains(t, out.String(), "Upgrading "+p)
	}
	assert.Contains(t, out.String(), "Upgraded project to 2.1.0")
}

func TestDefaultStrategy_UpgradeCreatesMissingDirectories(t *testing.T) {
	kernelDir := writeKernel(t, t.TempDir(), "2.1.0")
	target := t.TempDir()

	require.NoError(t, NewDefaultStrategy(DefaultLayout(), nil).Upgrade(context.Background(), target, kernelDir, "bot"))
	assert.FileExists(t, filepath.Join(target, "firmware", "uniflash.jar"))
	assert.FileExists(t, filepath.Join(target, "include", "API.h"))
}

func TestDefaultStrategy_UpgradeAbortsOnFirstFailure(t *testing.T) {
	kernelDir := writeKernel(t, t.TempDir(), "2.1.0")
	require.NoError(t, os.Remove(filepath.Join(kernelDir, "include", "API.h")))
	target := t.TempDir()
	var out bytes.Buffer

	err := NewDefaultStrategy(DefaultLayout(), &out).Upgrade(context.Background(), target, kernelDir, "bot")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "include/API.h")
	assert.NoFileExists(t, filepath.Join(target, "src", "Makefile"))
	assert.NotContains(t, out.String(), "Upgraded project to")
}

func TestDefaultStrategy_RejectsUnsafeLayout(t *testing.T) {
	kernelDir := writeKernel(t, t.TempDir(), "2.1.0")
	layout := DefaultLayout().Merge(Layout{ManagedFiles: []string{"../outside"}})

	err := NewDefaultStrategy(layout, nil).Upgrade(context.Background(), t.TempDir(), kernelDir, "bot")
	assert.ErrorIs(t, err, ErrUnsafePath)
}

func TestDefaultStrategy_CanceledContext(t *testing.T) {
	kernelDir := writeKernel(t, t.TempDir(), "2.1.0")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewDefaultStrategy(DefaultLayout(), nil).Create(ctx, filepath.Join(t.TempDir(), "bot"), kernelDir, "bot")
	assert.ErrorIs(t, err, context.Canceled)
}
