package compose

import (
	"fmt"

	"github.com/example/soctopo/config"
	"github.com/example/soctopo/descriptor"
)

// ExternalCPUType selects the externally-modeled processor in place of a
// native prototype.
const ExternalCPUType = "external"

// DefaultControllerSpec is the interrupt controller the external variant
// binds when the configuration does not supply one: a single claimed
// window at the redistributor base.
func DefaultControllerSpec() InterruptControllerSpec {
	return InterruptControllerSpec{
		RedistBase: 0x2c000000,
		AddrRanges: []AddrRange{{Start: 0x2c000000, Size: 0x200000}},
	}
}

// Assemble is the top-level system assembler: it resolves override
// parameters, builds one cluster of the selected core type, decides cache
// wiring from the cluster's memory mode, binds one workload per core, and
// derives the final memory mode. The result is handed to the elab package
// for instantiation.
func Assemble(cfg *config.Machine) (*System, error) {
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}

	sys := NewSystem()
	if err := AssembleCluster(sys, "cluster0", cfg); err != nil {
		return nil, err
	}

	memSize, err := descriptor.ParseByteSize(cfg.MemSize)
	if err != nil {
		return nil, fmt.Errorf("memSize: %w", err)
	}
	sys.MemSize = uint64(memSize)
	sys.MemLatencyCycles = cfg.MemLatency
	sys.MemRanges = []AddrRange{{Start: 0, Size: uint64(memSize)}}
	sys.MaxInsts = cfg.MaxInsts
	sys.TraceFile = cfg.TraceFile

	workloads := make([]Workload, len(cfg.Workloads))
	for i, w := range cfg.Workloads {
		maxAddr, err := descriptor.ParseByteSize(w.MaxAddress)
		if err != nil {
			return nil, fmt.Errorf("workload %d: maxAddress: %w", i, err)
		}
		if uint64(maxAddr) > uint64(memSize) {
			maxAddr = memSize
		}
		workloads[i] = Workload{
			Reads:      w.Reads,
			Writes:     w.Writes,
			MaxAddress: uint64(maxAddr),
		}
	}
	if err := sys.BindWorkloads(workloads); err != nil {
		return nil, err
	}

	if cfg.MaxInsts > 0 {
		for _, core := range sys.AllCores() {
			core.MaxInsts = cfg.MaxInsts
		}
	}

	// The system mode is re-derived from the cluster, never hard-coded.
	sys.MemMode = sys.Clusters()[0].MemoryMode()
	return sys, nil
}

// AssembleCluster adds one cluster described by cfg to an existing system.
// Splitting this out keeps repeated composition on one system possible:
// core ids continue monotonically across calls.
func AssembleCluster(sys *System, name string, cfg *config.Machine) error {
	freqMHz, err := config.ParseFreqMHz(cfg.CPUFreq)
	if err != nil {
		return err
	}
	clk := ClockDomain{FreqMHz: freqMHz, Voltage: cfg.Voltage}

	if cfg.CPU == ExternalCPUType {
		_, err := NewExternalCluster(sys, name, cfg.NumCores, clk, DefaultControllerSpec())
		return err
	}

	proto, ok := Prototypes()[cfg.CPU]
	if !ok {
		return fmt.Errorf("unknown cpu type %q", cfg.CPU)
	}
	proto, err = resolveCacheOverrides(proto, cfg)
	if err != nil {
		return err
	}

	cluster, err := NewCPUCluster(sys, name, cfg.NumCores, clk, proto)
	if err != nil {
		return err
	}

	// Timing-mode clusters get the cache hierarchy; atomic-with-caches
	// ("ac") builds one too even though accesses complete atomically.
	if cluster.MemoryMode() == MemTiming || cfg.CPU == "ac" {
		if err := cluster.AddL1(); err != nil {
			return err
		}
		if err := cluster.AddL2(clk); err != nil {
			return err
		}
	}
	return cluster.ConnectMemSide(sys.MemBus)
}

// resolveCacheOverrides applies the configured size overrides to the
// prototype's cache types. "" keeps the model default. The L2 "0" sentinel
// removes the level entirely, equivalent to a prototype that never declared
// one.
func resolveCacheOverrides(proto CPUPrototype, cfg *config.Machine) (CPUPrototype, error) {
	apply := func(spec *descriptor.CacheSpec, field, override string) (*descriptor.CacheSpec, error) {
		if override == "" || spec == nil {
			return spec, nil
		}
		size, err := descriptor.ParseByteSize(override)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", field, err)
		}
		if size == 0 {
			return nil, fmt.Errorf("%s: size 0 is only supported for l2Size", field)
		}
		return spec.WithSize(size), nil
	}

	var err error
	if proto.L1I, err = apply(proto.L1I, "l1iSize", cfg.L1ISize); err != nil {
		return proto, err
	}
	if proto.L1D, err = apply(proto.L1D, "l1dSize", cfg.L1DSize); err != nil {
		return proto, err
	}

	if cfg.L2Size != "" {
		size, err := descriptor.ParseByteSize(cfg.L2Size)
		if err != nil {
			return proto, fmt.Errorf("l2Size: %w", err)
		}
		if size == 0 {
			proto.L2 = nil
		} else if proto.L2 != nil {
			proto.L2 = proto.L2.WithSize(size)
		}
	}
	return proto, nil
}
