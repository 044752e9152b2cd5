package cli

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/purduesigbots/pros-cli/internal/kernel"
	"github.com/purduesigbots/pros-cli/internal/notify"
	"github.com/spf13/cobra"
)

var (
	kernelsRemote bool
	fetchForce    bool
)

func init() {
	kernelsCmd.Flags().BoolVar(&kernelsRemote, "remote", false, "Also show the latest kernel advertised by the kernel site")
	kernelsFetchCmd.Flags().BoolVar(&fetchForce, "force", false, "Download even if the kernel is already cached")

	kernelsCmd.AddCommand(kernelsFetchCmd)
	rootCmd.AddCommand(kernelsCmd)
}

var kernelsCmd = &cobra.Command{
	Use:   "kernels",
	Short: "List cached kernels",
	Long: `Lists the kernels in the local cache, newest first. The kernel marked
latest is the one used when no --kernel is given and the kernel site cannot
be reached.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cache, err := newCache()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()

		if kernelsRemote {
			printRemoteLatest(cmd.Context(), out, newRemote())
		}

		all, err := cache.List()
		if err != nil {
			return fmt.Errorf("listing kernels in %s: %w", cache.Root(), err)
		}
		ids, _ := kernel.ValidIDs(all)
		return printKernelTable(out, cache, ids)
	},
}

var kernelsFetchCmd = &cobra.Command{
	Use:   "fetch <kernel>",
	Short: "Download a kernel into the cache",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		resolver, err := newResolver(out)
		if err != nil {
			return err
		}

		res, err := resolver.Resolve(cmd.Context(), kernel.Request{Kernel: args[0], Redownload: fetchForce})
		if err != nil {
			return err
		}
		if res.Downloaded {
			notify.Successf(out, "Fetched kernel %s into %s", res.ID, res.Dir)
		} else {
			notify.Infof(out, "Kernel %s is already cached in %s", res.ID, res.Dir)
		}
		return nil
	},
}

func printRemoteLatest(ctx context.Context, w io.Writer, remote kernel.Remote) {
	if remote == nil {
		notify.Warningf(w, "No kernel site configured")
		return
	}
	id, err := remote.LatestPointer(ctx)
	if err != nil {
		notify.Warningf(w, "Could not read the latest kernel from %s: %v", siteURL(), err)
		return
	}
	notify.Infof(w, "Latest kernel on %s: %s", siteURL(), kernel.NormalizeID(id))
}

// printKernelTable lists ids newest first with their fetch receipts.
func printKernelTable(w io.Writer, cache *kernel.Cache, ids []string) error {
	if len(ids) == 0 {
		fmt.Fprintf(w, "No kernels cached in %s\n", cache.Root())
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	fmt.Fprintln(tw, "KERNEL\tFETCHED\tSOURCE")
	latest := ids[len(ids)-1]
	for i := len(ids) - 1; i >= 0; i-- {
		id := ids[i]
		name := id
		if id == latest {
			name += " (latest)"
		}

		fetched, source := "-", "-"
		if r, err := cache.LoadReceipt(id); err == nil && r != nil {
			fetched = r.FetchedAt.Format("2006-01-02 15:04")
			source = r.Source
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", name, fetched, source)
	}
	return tw.Flush()
}
