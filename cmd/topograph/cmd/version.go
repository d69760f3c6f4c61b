package cmd

import (
	"fmt"
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// version is set at build time with -ldflags "-X github.com/nfrund/topograph/cmd/topograph/cmd.version=v1.2.3".
var version = ""

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the topograph version and the Go toolchain it was built with",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), versionString(version, readModuleVersion()))
	},
}

// versionString prefers the linker-injected version, then the module
// version recorded by go install, then "dev".
func versionString(injected, module string) string {
	v := injected
	if v == "" {
		v = module
	}
	if v == "" || v == "(devel)" {
		v = "dev"
	}
	return fmt.Sprintf("topograph %s (%s %s/%s)", v, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}

func readModuleVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok {
		return info.Main.Version
	}
	return ""
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
