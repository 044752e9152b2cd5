package kernel

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/purduesigbots/pros-cli/internal/notify"
	"github.com/sirupsen/logrus"
)

// Source names where a kernel identifier came from.
type Source string

// Identifier sources, in precedence order.
const (
	SourceExplicit Source = "explicit"
	SourceRemote   Source = "remote"
	SourceLocal    Source = "local"
)

// Lookup is the outcome of one attempt to determine a kernel identifier.
// A Lookup with an empty ID is "not available"; Err optionally says why.
type Lookup struct {
	ID     string
	Source Source
	Err    error
}

// Available reports whether the attempt produced an identifier.
func (l Lookup) Available() bool {
	return l.ID != ""
}

// Request describes which kernel the caller wants.
type Request struct {
	// Kernel is an explicit identifier. Empty means "latest".
	Kernel string
	// Redownload forces the archive to be fetched even when cached.
	Redownload bool
}

// Resolution is a kernel identifier guaranteed to be present in the cache.
type Resolution struct {
	ID         string
	Dir        string
	Source     Source
	Downloaded bool
}

// Resolver decides which kernel to use and makes sure it is cached.
type Resolver struct {
	cache  *Cache
	remote Remote
	log    logrus.FieldLogger
	out    io.Writer
	now    func() time.Time
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithLogger sets the logger used for verbose diagnostics.
func WithLogger(log logrus.FieldLogger) ResolverOption {
	return func(r *Resolver) {
		r.log = log
	}
}

// WithOutput sets where user-facing warnings are printed.
func WithOutput(w io.Writer) ResolverOption {
	return func(r *Resolver) {
		r.out = w
	}
}

// NewResolver creates a Resolver over cache. remote may be nil, in which
// case only explicit and cached kernels can be used.
func NewResolver(cache *Cache, remote Remote, opts ...ResolverOption) *Resolver {
	discard := logrus.New()
	discard.SetOutput(io.Discard)

	r := &Resolver{
		cache:  cache,
		remote: remote,
		log:    discard,
		out:    io.Discard,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Cache returns the cache this resolver ensures kernels into.
func (r *Resolver) Cache() *Cache {
	return r.cache
}

// Resolve picks a kernel identifier and ensures the cache holds it.
//
// The identifier comes from the first source that yields one: the explicit
// request, the remote latest pointer, then the greatest cached identifier.
// ErrNoKernel is returned when none does, and ErrKernelUnavailable when the
// chosen kernel is still missing after the download attempt.
func (r *Resolver) Resolve(ctx context.Context, req Request) (*Resolution, error) {
	existed, err := r.cache.Ensure()
	if err != nil {
		return nil, err
	}
	if existed {
		r.log.Debugf("%s already exists", r.cache.Root())
	}

	lookup, err := r.choose(ctx, req.Kernel)
	if err != nil {
		return nil, err
	}
	r.log.WithField("source", lookup.Source).Debugf("Using kernel %s", lookup.ID)

	downloaded := r.ensure(ctx, lookup.ID, req.Redownload)

	if !r.cache.Exists(lookup.ID) {
		return nil, fmt.Errorf("%w %s: unable to download and not locally available", ErrKernelUnavailable, lookup.ID)
	}

	return &Resolution{
		ID:         lookup.ID,
		Dir:        r.cache.Dir(lookup.ID),
		Source:     lookup.Source,
		Downloaded: downloaded,
	}, nil
}

// choose runs the precedence chain, skipping lookups that are not available.
// An explicit identifier is used as given and must be valid.
func (r *Resolver) choose(ctx context.Context, explicit string) (Lookup, error) {
	if explicit != "" {
		id := NormalizeID(explicit)
		if err := ValidateID(id); err != nil {
			return Lookup{}, err
		}
		return Lookup{ID: id, Source: SourceExplicit}, nil
	}

	attempts := []func() Lookup{
		func() Lookup { return r.latestRemote(ctx) },
		r.latestLocal,
	}

	for _, attempt := range attempts {
		lookup := attempt()
		if lookup.Available() {
			if err := ValidateID(lookup.ID); err != nil {
				lookup = Lookup{Source: lookup.Source, Err: err}
			}
		}
		if lookup.Err != nil {
			r.log.WithError(lookup.Err).WithField("source", lookup.Source).Debug("No kernel from source")
		}
		if lookup.Available() {
			return lookup, nil
		}
	}
	return Lookup{}, ErrNoKernel
}

func (r *Resolver) latestRemote(ctx context.Context) Lookup {
	if r.remote == nil {
		return Lookup{Source: SourceRemote}
	}
	id, err := r.remote.LatestPointer(ctx)
	if err != nil {
		return Lookup{Source: SourceRemote, Err: err}
	}
	return Lookup{ID: NormalizeID(id), Source: SourceRemote}
}

func (r *Resolver) latestLocal() Lookup {
	all, err := r.cache.List()
	if err != nil {
		return Lookup{Source: SourceLocal, Err: err}
	}
	ids, skipped := ValidIDs(all)
	if len(skipped) > 0 {
		r.log.Debugf("Ignoring cache entries that are not kernel identifiers: %q", skipped)
	}
	if len(ids) == 0 {
		return Lookup{Source: SourceLocal}
	}

	reversed := make([]string, len(ids))
	for i, id := range ids {
		reversed[len(ids)-1-i] = id
	}
	r.log.Debugf("Local kernels: %s", strings.Join(reversed, " "))

	latest := ids[len(ids)-1]
	if newer, ok := OrderingMismatch(latest, ids); ok {
		r.log.Warnf("Picked kernel %s by name order; %s is newer by version number. Pass --kernel %s to use it.", latest, newer, newer)
	}
	return Lookup{ID: latest, Source: SourceLocal}
}

// ensure downloads kernel id unless it is cached and no redownload was
// requested. Download failures are reported but not returned; the caller
// re-checks the cache. It reports whether a fresh copy was extracted.
func (r *Resolver) ensure(ctx context.Context, id string, redownload bool) bool {
	if r.cache.Exists(id) && !redownload {
		r.log.Debugf("%s is available locally.", id)
		return false
	}
	r.log.Debugf("%s must be downloaded.", id)

	if r.remote == nil {
		notify.Warningf(r.out, "Unable to download requested kernel %s: %v", id, ErrNoSite)
		return false
	}

	url := r.remote.ArchiveURL(id)
	archive, err := r.remote.Archive(ctx, id)
	if err == nil {
		err = r.cache.Materialize(id, archive)
	}
	if err != nil {
		notify.Warningf(r.out, "Unable to download requested kernel at %s", url)
		r.log.WithError(err).Debug("Kernel download failed")
		return false
	}

	receipt := &Receipt{Kernel: id, Source: url, FetchedAt: r.now().UTC()}
	if err := r.cache.SaveReceipt(receipt); err != nil {
		r.log.WithError(err).Debug("Could not write kernel receipt")
	}
	return true
}
