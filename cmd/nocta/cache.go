package main

import (
	"github.com/spf13/cobra"

	"github.com/nocta-ui/cli/internal/cache"
)

func cacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear the registry cache",
		Long: `Inspect or clear the local registry cache.

Registry manifests and component files are cached on disk so repeated
installs avoid network round-trips. Set ` + cache.DirEnv + ` to relocate
the cache directory.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCacheInfo()
		},
	}

	cmd.AddCommand(
		cacheInfoCmd(),
		cacheClearCmd(),
	)

	return cmd
}

func cacheInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Print the cache directory location",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCacheInfo()
		},
	}
}

func cacheClearCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached registry data",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCacheClear(force)
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "y", false, "Confirm cache deletion without prompting")

	return cmd
}

func runCacheInfo() error {
	info("Cache directory: %s", cache.NewContext().Dir())
	return nil
}

func runCacheClear(force bool) error {
	if !force {
		warn("Cache not cleared. Re-run with `--force` to confirm deletion.")
		return nil
	}

	if err := cache.NewContext().Clear(); err != nil {
		return err
	}
	success("Cache directory removed.")
	return nil
}
