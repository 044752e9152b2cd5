package scaffold

import (
	"context"
	"io"

	"github.com/purduesigbots/pros-cli/internal/kernel"
	"github.com/purduesigbots/pros-cli/internal/upgrader"
	"github.com/sirupsen/logrus"
)

// Options is everything a run needs from the caller.
type Options struct {
	// Dir is the project directory. Empty means the working directory.
	Dir string
	// Name overrides the project name derived from Dir.
	Name string
	// Kernel pins a kernel identifier. Empty means the latest.
	Kernel string
	// Redownload fetches the kernel even when it is cached.
	Redownload bool
	// Force creates a fresh project even when Dir exists.
	Force bool
}

// Result describes what a run did.
type Result struct {
	Kernel    *kernel.Resolution
	Target    *Target
	Operation upgrader.Operation
	Strategy  string
}

// KernelResolver ensures a kernel is cached and says where.
type KernelResolver interface {
	Resolve(ctx context.Context, req kernel.Request) (*kernel.Resolution, error)
}

// StrategySelector picks the strategy for a cached kernel.
type StrategySelector interface {
	Select(kernelDir, kernelID string) upgrader.Strategy
}

// Scaffolder runs the create-or-upgrade flow.
type Scaffolder struct {
	kernels    KernelResolver
	strategies StrategySelector
	log        logrus.FieldLogger
}

// New returns a Scaffolder. log may be nil.
func New(kernels KernelResolver, strategies StrategySelector, log logrus.FieldLogger) *Scaffolder {
	if log == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)
		log = discard
	}
	return &Scaffolder{kernels: kernels, strategies: strategies, log: log}
}

// Run resolves the kernel, selects its strategy and creates or upgrades the
// target directory. Kernel resolution errors are returned unwrapped.
func (s *Scaffolder) Run(ctx context.Context, opts Options) (*Result, error) {
	res, err := s.kernels.Resolve(ctx, kernel.Request{Kernel: opts.Kernel, Redownload: opts.Redownload})
	if err != nil {
		return nil, err
	}

	strategy := s.strategies.Select(res.Dir, res.ID)

	target, err := ResolveTarget(opts.Dir, opts.Name)
	if err != nil {
		return nil, err
	}
	if opts.Dir != target.Dir {
		s.log.Debugf("Resolved %q to %s", opts.Dir, target.Dir)
	}

	op := target.Operation(opts.Force)
	switch {
	case op == upgrader.OperationUpgrade:
		s.log.Debugf("Upgrading directory in %s", target.Dir)
	case target.Exists:
		s.log.Debugf("Overwriting directory in %s", target.Dir)
	default:
		s.log.Debugf("Creating directory in %s", target.Dir)
	}

	if err := upgrader.Apply(ctx, strategy, op, target.Dir, res.Dir, target.ProjectName); err != nil {
		return nil, err
	}

	return &Result{
		Kernel:    res,
		Target:    target,
		Operation: op,
		Strategy:  upgrader.Name(strategy),
	}, nil
}
