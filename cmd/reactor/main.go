package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "\033[31mError:\033[0m %s\n", err)
		os.Exit(1)
	}
}

type globalFlags struct {
	configPath string
	logLevel   string
	logFormat  string
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}
	rootCmd := &cobra.Command{
		Use:   "reactor",
		Short: "Run and inspect reactive component lessons",
		Long: `reactor runs the tutorial components on the reactive update runtime.

Use "run" to drive a lesson with scripted events and print the committed
tree, or "serve" to mount it behind the HTTP inspector and watch commits
stream over a WebSocket.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&flags.configPath, "config", "c", "", "Config file (default reactor.json or reactor.yaml, or $REACTOR_CONFIG)")
	pf.StringVar(&flags.logLevel, "log-level", "", "Log level: debug, info, warn, error (default from config)")
	pf.StringVar(&flags.logFormat, "log-format", "", "Log format: text or json (default from config)")

	rootCmd.AddCommand(
		listCmd(),
		runCmd(flags),
		serveCmd(flags),
		versionCmd(),
	)
	return rootCmd
}
