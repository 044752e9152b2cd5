package upgrader

import (
	"bytes"
	"os"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProvider(t *testing.T) (*Provider, *bytes.Buffer) {
	t.Helper()
	var logs bytes.Buffer
	log := logrus.New()
	log.SetOutput(&logs)
	log.SetLevel(logrus.DebugLevel)
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true, DisableColors: true})
	return NewProvider(DefaultLayout(), nil, WithLogger(log)), &logs
}

func TestProviderSelect_NoManifest(t *testing.T) {
	p, logs := newTestProvider(t)
	kernelDir := writeKernel(t, t.TempDir(), "2.1.0")

	s := p.Select(kernelDir, "2.1.0")
	d, ok := s.(*DefaultStrategy)
	require.True(t, ok, "expected default strategy, got %T", s)
	assert.Equal(t, DefaultLayout(), d.Layout)
	assert.Contains(t, logs.String(), "Attempting to load")
	assert.Contains(t, logs.String(), "using the default upgrader")
}

func TestProviderSelect_ValidManifest(t *testing.T) {
	p, logs := newTestProvider(t)
	kernelDir := writeKernel(t, t.TempDir(), "2.1.0")
	require.NoError(t, os.WriteFile(ManifestPath(kernelDir, "2.1.0"),
		[]byte("placeholder: Default_Template\nupgrade_files: [Makefile]\n"), 0644))

	s := p.Select(kernelDir, "2.1.0")
	ks, ok := s.(*KernelStrategy)
	require.True(t, ok, "expected kernel strategy, got %T", s)
	assert.Equal(t, ManifestPath(kernelDir, "2.1.0"), ks.ManifestPath)
	assert.Equal(t, []string{"Makefile"}, ks.builtin.Layout.ManagedFiles)
	assert.Equal(t, "Default_Template", ks.builtin.Layout.Placeholder)
	assert.Equal(t, ".project", ks.builtin.Layout.MetadataFile)
	assert.Contains(t, logs.String(), "Using upgrader from")
}

func TestProviderSelect_FallsBack(t *testing.T) {
	tests := []struct {
		name     string
		manifest string
	}{
		{"malformed yaml", "hooks: [unclosed\n"},
		{"schema violation", "builtin: false\n"},
		{"unsafe layout", "upgrade_files: [../../etc/passwd]\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, logs := newTestProvider(t)
			kernelDir := writeKernel(t, t.TempDir(), "2.1.0")
			require.NoError(t, os.WriteFile(ManifestPath(kernelDir, "2.1.0"), []byte(tt.manifest), 0644))

			s := p.Select(kernelDir, "2.1.0")
			assert.IsType(t, &DefaultStrategy{}, s)
			assert.Contains(t, logs.String(), "Could not load")
		})
	}
}

func TestProviderSelect_UsesConfiguredLayout(t *testing.T) {
	layout := DefaultLayout().Merge(Layout{Placeholder: "Custom"})
	p := NewProvider(layout, nil)

	s := p.Select(t.TempDir(), "2.1.0")
	d, ok := s.(*DefaultStrategy)
	require.True(t, ok)
	assert.Equal(t, "Custom", d.Layout.Placeholder)
}
