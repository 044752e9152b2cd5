package cli

import (
	"io"

	"github.com/purduesigbots/pros-cli/internal/branding"
	"github.com/purduesigbots/pros-cli/internal/config"
	"github.com/purduesigbots/pros-cli/internal/kernel"
	"github.com/purduesigbots/pros-cli/internal/upgrader"
)

// siteURL picks the kernel site: --site, then config, then the built-in
// default.
func siteURL() string {
	if flagSite != "" {
		return flagSite
	}
	if v := config.Get(config.KeySite); v != "" {
		return v
	}
	return branding.KernelSite()
}

// newCache opens the kernel cache at its configured location.
func newCache() (*kernel.Cache, error) {
	root, err := kernel.DefaultRoot()
	if err != nil {
		return nil, err
	}
	return kernel.NewCache(root), nil
}

// newRemote returns the fetcher for the configured site, or nil when no
// site is configured.
func newRemote() kernel.Remote {
	site := siteURL()
	if site == "" {
		return nil
	}
	return kernel.NewFetcher(site)
}

func newResolver(out io.Writer) (*kernel.Resolver, error) {
	cache, err := newCache()
	if err != nil {
		return nil, err
	}
	logger.Debugf("Kernel cache at %s", cache.Root())
	return kernel.NewResolver(cache, newRemote(), kernel.WithLogger(logger), kernel.WithOutput(out)), nil
}

// loadLayout applies the upgrade.* config keys to the default layout.
func loadLayout() upgrader.Layout {
	return upgrader.DefaultLayout().Merge(upgrader.Layout{
		ManagedFiles: config.GetStringSlice(config.KeyUpgradeFiles),
		MetadataFile: config.Get(config.KeyUpgradeMetadataFile),
		Placeholder:  config.Get(config.KeyUpgradePlaceholder),
	})
}
