package cli

import (
	"os"

	"github.com/purduesigbots/pros-cli/internal/branding"
	"github.com/purduesigbots/pros-cli/internal/config"
	"github.com/purduesigbots/pros-cli/internal/notify"
	"github.com/purduesigbots/pros-cli/internal/scaffold"
	"github.com/purduesigbots/pros-cli/internal/upgrader"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	buildVersion string
	buildCommit  string
	buildDate    string
)

var (
	flagKernel   string
	flagSite     string
	flagDownload bool
	flagForce    bool
	flagName     string
	flagVerbose  bool
)

// logger carries --verbose diagnostics. It is rebuilt for every invocation.
var logger = newLogger(false, os.Stderr)

func init() {
	rootCmd.Flags().StringVarP(&flagKernel, "kernel", "k", "", "Kernel version to use (default: latest)")
	rootCmd.Flags().BoolVarP(&flagDownload, "download", "d", false, "Re-download the kernel even if it is cached")
	rootCmd.Flags().BoolVarP(&flagForce, "force", "f", false, "Create a fresh project, replacing the directory if it exists")
	rootCmd.Flags().StringVarP(&flagName, "name", "n", "", "Project name (default: the directory name)")
	rootCmd.PersistentFlags().StringVarP(&flagSite, "site", "s", "", "Kernel site URL (default: config key \"site\")")
	rootCmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "Print diagnostic output")

	rootCmd.SetGlobalNormalizationFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		if name == "fresh" {
			name = "force"
		}
		return pflag.NormalizedName(name)
	})
}

var rootCmd = &cobra.Command{
	Use:   branding.CLIName() + " [directory]",
	Short: branding.Description(),
	Long: branding.DisplayName() + ` creates and upgrades PROS projects from versioned kernel templates.

With no existing project in the directory (default: the current one) a new
project is created from the kernel. An existing project is upgraded: only the
kernel-owned files are replaced and your code is left alone.

  pros my-robot              # create or upgrade ./my-robot with the latest kernel
  pros -k 2.11.1 my-robot    # use a specific kernel
  pros --force my-robot      # start over from a fresh template`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config.Load()
		logger = newLogger(flagVerbose, cmd.ErrOrStderr())
		return nil
	},
	RunE: runRoot,
}

func runRoot(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	resolver, err := newResolver(out)
	if err != nil {
		return err
	}
	provider := upgrader.NewProvider(loadLayout(), out,
		upgrader.WithLogger(logger),
		upgrader.WithHookRunner(&upgrader.HookRunner{Stdout: out, Stderr: cmd.ErrOrStderr()}),
	)

	result, err := scaffold.New(resolver, provider, logger).Run(cmd.Context(), scaffoldOptions(args))
	if err != nil {
		return err
	}

	logger.WithFields(logrus.Fields{
		"kernel":    result.Kernel.ID,
		"source":    result.Kernel.Source,
		"operation": result.Operation,
		"strategy":  result.Strategy,
	}).Debugf("Finished %s", result.Target.Dir)
	return nil
}

// Execute runs the root command with build info injected via ldflags.
// A failure is reported as a single error line.
func Execute(version, commit, date string) error {
	buildVersion = version
	buildCommit = commit
	buildDate = date

	rootCmd.Version = buildVersion
	rootCmd.SetVersionTemplate(branding.CLIName() + " version {{.Version}}\n")

	err := rootCmd.Execute()
	if err != nil {
		notify.Errorf(rootCmd.ErrOrStderr(), "%v", err)
	}
	return err
}

// scaffoldOptions builds the run options from the parsed flags.
func scaffoldOptions(args []string) scaffold.Options {
	opts := scaffold.Options{
		Dir:        ".",
		Name:       flagName,
		Kernel:     flagKernel,
		Redownload: flagDownload,
		Force:      flagForce,
	}
	if len(args) == 1 {
		opts.Dir = args[0]
	}
	return opts
}
