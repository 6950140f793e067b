package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "camtrace",
	Short: "Inspect camera view files and trace camera transitions",
	Long: `camtrace loads camera views described in YAML or TOML files and lets you
list them or trace how a camera moves while blending from one view to another.
Views that follow a target follow a single object placed with --target.`,
	Version: "1.0.0",
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
