package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/soctopo/compose"
	"github.com/example/soctopo/config"
)

var inspectFlags struct {
	configPath string
	preset     string
	serveAddr  string
}

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Assemble a machine and print or serve its topology without running it",
	RunE: func(cmd *cobra.Command, args []string) error {
		var cfg *config.Machine
		var err error
		switch {
		case inspectFlags.configPath != "":
			cfg, err = config.Load(inspectFlags.configPath)
			if err != nil {
				return err
			}
		case inspectFlags.preset != "":
			cfg = GetPresetByName(inspectFlags.preset)
			if cfg == nil {
				return fmt.Errorf("unknown preset %q", inspectFlags.preset)
			}
			if err := config.Validate(cfg); err != nil {
				return err
			}
		default:
			cfg = config.Default()
		}

		sys, err := compose.Assemble(cfg)
		if err != nil {
			return fmt.Errorf("assembly failed: %w", err)
		}

		if inspectFlags.serveAddr != "" {
			server := NewWebServer(inspectFlags.serveAddr, sys)
			GetLogger().Infof("serving topology on %s", inspectFlags.serveAddr)
			return server.Serve()
		}

		snapshot := BuildTopologySnapshot(sys)
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(snapshot)
	},
}

var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "List predefined machine configurations",
	Run: func(cmd *cobra.Command, args []string) {
		for _, p := range GetPresets() {
			fmt.Printf("%-24s %s\n", p.Name, p.Description)
		}
	},
}

func init() {
	f := inspectCmd.Flags()
	f.StringVar(&inspectFlags.configPath, "config", "", "Machine configuration YAML file")
	f.StringVar(&inspectFlags.preset, "preset", "", "Predefined machine configuration name")
	f.StringVar(&inspectFlags.serveAddr, "serve", "", "Serve the topology inspector on this address")
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(presetsCmd)
}
