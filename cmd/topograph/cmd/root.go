package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/nfrund/topograph/internal/config"
	"github.com/nfrund/topograph/internal/diagram"
	"github.com/nfrund/topograph/internal/logging"
)

// cfg is loaded once before any subcommand runs.
var cfg *config.Config

// osFs backs every command with the real filesystem.
var osFs = afero.NewOsFs()

var rootCmd = &cobra.Command{
	Use:   "topograph",
	Short: "Recover the publish/subscribe graph of a robotics code base",
	Long: `Topograph statically scans C++ source units and launch descriptions,
resolves topic remappings and writes the resulting connection graph as CSV
files and a rendered diagram.

Available commands:
  extract    Extract the connection graph of a source tree
  diff       Highlight the connections a newer extraction added

Use "topograph [command] --help" for more information about a specific command.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.New()
		if err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}
		cfg = loaded
		logging.New(os.Stderr, cfg.LogFormat, cfg.LogLevel)
		return nil
	},
}

// Execute executes the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func renderer() diagram.Renderer {
	return diagram.Graphviz{Binary: cfg.DotBinary}
}

// fail reports a command error and exits non-zero.
func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
