package main

import (
	"fmt"
	"path/filepath"

	"github.com/rs/xid"
	"github.com/spf13/cobra"

	"github.com/example/soctopo/compose"
	"github.com/example/soctopo/config"
	"github.com/example/soctopo/elab"
)

var runFlags struct {
	configPath      string
	preset          string
	cpu             string
	numCores        int
	cpuFreq         string
	l1iSize         string
	l1dSize         string
	l2Size          string
	maxInsts        uint64
	traceFile       string
	restore         string
	checkpointAtEnd bool
	serveAddr       string
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Assemble a machine and run it on the simulation kernel",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := resolveMachine()
		if err != nil {
			return err
		}

		sys, err := compose.Assemble(cfg)
		if err != nil {
			return fmt.Errorf("assembly failed: %w", err)
		}
		GetLogger().Infof("assembled %d cluster(s), %d core(s), mode %s",
			sys.NumClusters(), sys.NumCores(), sys.MemMode)

		var server *WebServer
		if runFlags.serveAddr != "" {
			server = NewWebServer(runFlags.serveAddr, sys)
			go func() {
				if err := server.Serve(); err != nil {
					GetLogger().Errorf("web server stopped: %v", err)
				}
			}()
		}

		el := elab.New(sys)
		if err := el.Instantiate(); err != nil {
			return fmt.Errorf("instantiation failed: %w", err)
		}
		defer el.Terminate()

		event, err := el.Run()
		if err != nil {
			GetLogger().Errorf("kernel exited with error: %v", err)
		}
		PrintReport(sys, event, el.Progress())
		if server != nil {
			server.PublishReport(event, el.Progress())
		}

		if runFlags.checkpointAtEnd {
			outdir := cfg.OutDir
			if outdir == "" {
				outdir = filepath.Join("out", "run-"+xid.New().String())
			}
			dir, err := el.Checkpoint(outdir, cfg, event)
			if err != nil {
				return fmt.Errorf("checkpoint failed: %w", err)
			}
			GetLogger().Infof("checkpoint written to %s", dir)
		}

		if server != nil {
			GetLogger().Infof("serving topology on %s; interrupt to exit", runFlags.serveAddr)
			select {}
		}
		return err
	},
}

// resolveMachine builds the machine configuration from, in priority order:
// a restore path, an explicit config file, a named preset, or defaults,
// with command-line overrides applied last.
func resolveMachine() (*config.Machine, error) {
	var cfg *config.Machine
	var err error

	switch {
	case runFlags.restore != "":
		cfg, err = elab.Restore(runFlags.restore)
		if err != nil {
			return nil, err
		}
		GetLogger().Infof("restored machine configuration from %s", runFlags.restore)
	case runFlags.configPath != "":
		cfg, err = config.Load(runFlags.configPath)
		if err != nil {
			return nil, err
		}
	case runFlags.preset != "":
		cfg = GetPresetByName(runFlags.preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset %q", runFlags.preset)
		}
	default:
		cfg = config.Default()
	}

	if runFlags.cpu != "" {
		cfg.CPU = runFlags.cpu
	}
	if runFlags.numCores != 0 {
		cfg.NumCores = runFlags.numCores
		cfg.Workloads = nil // re-derive one default workload per core
	}
	if runFlags.cpuFreq != "" {
		cfg.CPUFreq = runFlags.cpuFreq
	}
	if runFlags.l1iSize != "" {
		cfg.L1ISize = runFlags.l1iSize
	}
	if runFlags.l1dSize != "" {
		cfg.L1DSize = runFlags.l1dSize
	}
	if runFlags.l2Size != "" {
		cfg.L2Size = runFlags.l2Size
	}
	if runFlags.maxInsts != 0 {
		cfg.MaxInsts = runFlags.maxInsts
	}
	if runFlags.traceFile != "" {
		cfg.TraceFile = runFlags.traceFile
	}

	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func init() {
	f := runCmd.Flags()
	f.StringVar(&runFlags.configPath, "config", "", "Machine configuration YAML file")
	f.StringVar(&runFlags.preset, "preset", "", "Predefined machine configuration name")
	f.StringVar(&runFlags.cpu, "cpu", "", "Core type selector (atomic, ac, virt, o3, timing, external)")
	f.IntVar(&runFlags.numCores, "num-cores", 0, "Number of cores")
	f.StringVar(&runFlags.cpuFreq, "cpu-freq", "", "Core clock, e.g. 2GHz")
	f.StringVar(&runFlags.l1iSize, "l1i-size", "", "L1 instruction cache size override")
	f.StringVar(&runFlags.l1dSize, "l1d-size", "", "L1 data cache size override")
	f.StringVar(&runFlags.l2Size, "l2-size", "", "L2 size override; 0 removes the L2")
	f.Uint64Var(&runFlags.maxInsts, "maxinsts", 0, "Per-core access cap, 0 = unlimited")
	f.StringVar(&runFlags.traceFile, "trace", "", "Memory trace probe output file")
	f.StringVar(&runFlags.restore, "restore", "", "Checkpoint directory to restore from")
	f.BoolVar(&runFlags.checkpointAtEnd, "checkpoint-at-end", false, "Take a checkpoint at end of run")
	f.StringVar(&runFlags.serveAddr, "serve", "", "Serve the topology inspector on this address")
	rootCmd.AddCommand(runCmd)
}
