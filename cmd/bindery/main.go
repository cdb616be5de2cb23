package main

import (
	"fmt"
	"io"
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
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "\033[31mError:\033[0m %s\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bindery",
		Short: "Declarative data binding for document trees",
		Long: `Bindery binds model properties to document elements through
data-model, data-bind:* and data-on:* markers.

  • lint     check markup for directive errors
  • inspect  bind a page and serve a live view of its bindings
  • init     write a default configuration file`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringP("config", "c", "", "Config file or directory (default: bindery.{json,yaml,toml} in the working directory)")

	cmd.AddCommand(
		lintCmd(),
		inspectCmd(),
		initCmd(),
		versionCmd(),
	)
	return cmd
}

// success prints a success message.
func success(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// warn prints a warning message.
func warn(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "\033[33m⚠\033[0m %s\n", fmt.Sprintf(format, args...))
}
