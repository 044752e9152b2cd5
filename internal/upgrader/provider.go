package upgrader

import (
	"errors"
	"io"
	"io/fs"

	"github.com/sirupsen/logrus"
)

// Provider picks the Strategy for a kernel.
type Provider struct {
	layout Layout
	out    io.Writer
	hooks  *HookRunner
	log    logrus.FieldLogger
}

// ProviderOption configures a Provider.
type ProviderOption func(*Provider)

// WithLogger sets the logger used for verbose diagnostics.
func WithLogger(log logrus.FieldLogger) ProviderOption {
	return func(p *Provider) {
		p.log = log
	}
}

// WithHookRunner sets the runner used for manifest hooks.
func WithHookRunner(h *HookRunner) ProviderOption {
	return func(p *Provider) {
		p.hooks = h
	}
}

// NewProvider returns a Provider whose default strategy uses layout and
// prints progress to out.
func NewProvider(layout Layout, out io.Writer, opts ...ProviderOption) *Provider {
	if out == nil {
		out = io.Discard
	}
	discard := logrus.New()
	discard.SetOutput(io.Discard)

	p := &Provider{
		layout: layout,
		out:    out,
		hooks:  &HookRunner{},
		log:    discard,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Default returns the built-in strategy.
func (p *Provider) Default() *DefaultStrategy {
	return NewDefaultStrategy(p.layout, p.out)
}

// Select returns the kernel's own strategy when kernelDir holds a valid
// <kernelID>.yaml manifest, and the default strategy otherwise.
func (p *Provider) Select(kernelDir, kernelID string) Strategy {
	path := ManifestPath(kernelDir, kernelID)
	p.log.Debugf("Attempting to load %s", path)

	ks, err := p.Load(kernelDir, kernelID)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		p.log.Debugf("%s not found, using the default upgrader", path)
		return p.Default()
	case err != nil:
		p.log.WithError(err).Debugf("Could not load %s, using the default upgrader", path)
		return p.Default()
	}
	p.log.Debugf("Using upgrader from %s", path)
	return ks
}

// Load reads the kernel's manifest and builds a KernelStrategy from it.
func (p *Provider) Load(kernelDir, kernelID string) (*KernelStrategy, error) {
	path := ManifestPath(kernelDir, kernelID)
	m, err := LoadManifest(path)
	if err != nil {
		return nil, err
	}

	layout := m.Layout(p.layout)
	if err := layout.Validate(); err != nil {
		return nil, err
	}

	return &KernelStrategy{
		Manifest:     m,
		ManifestPath: path,
		builtin:      NewDefaultStrategy(layout, p.out),
		hooks:        p.hooks,
	}, nil
}
