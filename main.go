package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "soctopo",
	Short: "Compose and simulate multi-core SoC topologies",
	Long: `soctopo assembles a simulated machine (cores, private and shared
caches, buses, and the bridge fabric for externally-modeled cores) from a
declarative configuration, then hands the finished topology to the
simulation kernel to run.`,
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
