package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nocta-ui/cli/internal/cache"
	"github.com/nocta-ui/cli/internal/registry"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var registryURL string

func main() {
	rootCmd := &cobra.Command{
		Use:   "nocta",
		Short: "CLI for the Nocta UI component library",
		Long: `Nocta installs reusable UI components into your project.

Components are copied into your source tree as code you own.
You can modify them freely after installation.

Features:

  • Components fetched from a versioned registry with local caching
  • Automatic internal dependency resolution
  • Monorepo workspaces with shared UI packages
  • npm / pnpm / yarn / bun dependency reconciliation
  • Dry-run mode for every mutating command`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&registryURL, "registry-url", "",
		"Override registry endpoint (env: "+registry.BaseURLEnv+")")

	rootCmd.AddCommand(
		initCmd(),
		addCmd(),
		listCmd(),
		cacheCmd(),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "\033[31mError:\033[0m %s\n", err)
		os.Exit(1)
	}
}

// newRegistryClient builds the registry client for one command run,
// honoring the --registry-url flag and its environment fallback.
func newRegistryClient() *registry.Client {
	client := registry.NewClient(registry.BaseURL(registryURL), cache.NewContext())
	client.Warn = func(message string) { warn("%s", message) }
	return client
}

// commandContext returns a context cancelled on SIGINT/SIGTERM.
func commandContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	return ctx, cancel
}

// success prints a success message.
func success(format string, args ...any) {
	fmt.Printf("\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(format string, args ...any) {
	fmt.Printf("  %s\n", fmt.Sprintf(format, args...))
}

// warn prints a warning message.
func warn(format string, args ...any) {
	fmt.Printf("\033[33m⚠\033[0m %s\n", fmt.Sprintf(format, args...))
}

// errorMsg prints an error message.
func errorMsg(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "\033[31m✗\033[0m %s\n", fmt.Sprintf(format, args...))
}

// dimmed wraps text in the faint ANSI style for secondary output.
func dimmed(text string) string {
	return "\033[2m" + text + "\033[0m"
}

// heading wraps text in the bold blue style used for section titles.
func heading(text string) string {
	return "\033[1;34m" + text + "\033[0m"
}
