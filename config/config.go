// Package config loads and validates the machine configuration that the
// topology composer consumes. The file format is YAML; named presets live
// in the main package.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/example/soctopo/descriptor"
)

// Default knob values applied by Validate when a field is unset.
const (
	DefaultCPU        = "atomic"
	DefaultCPUFreq    = "2GHz"
	DefaultMemSize    = "2GB"
	DefaultMemLatency = 100
	DefaultOutDir     = "out"

	// DefaultWorkloadReads/Writes size the per-core traffic program bound
	// to each core when the config does not list workloads explicitly.
	DefaultWorkloadReads  = 10000
	DefaultWorkloadWrites = 10000
	DefaultMaxAddress     = "1GB"
)

// Workload is the per-core traffic program: how many reads and writes the
// core's workload driver issues, bounded to an address window.
type Workload struct {
	Reads      int    `yaml:"reads"`
	Writes     int    `yaml:"writes"`
	MaxAddress string `yaml:"maxAddress"`
}

// Machine is the full configuration surface of one simulated machine.
type Machine struct {
	CPU      string `yaml:"cpu"`      // core type selector
	NumCores int    `yaml:"numCores"` // cores in the one cluster
	CPUFreq  string `yaml:"cpuFreq"`  // e.g. "2GHz"
	Voltage  string `yaml:"voltage"`  // e.g. "1.2V"

	MemSize    string `yaml:"memSize"`    // total memory, e.g. "2GB"
	MemLatency int    `yaml:"memLatency"` // off-chip access latency in cycles

	// Cache size overrides. "" keeps the core model's default; "0" removes
	// the level entirely.
	L1ISize string `yaml:"l1iSize"`
	L1DSize string `yaml:"l1dSize"`
	L2Size  string `yaml:"l2Size"`

	MaxInsts  uint64 `yaml:"maxInsts"`  // instruction cap per core, 0 = unlimited
	TraceFile string `yaml:"traceFile"` // memory trace probe output, "" = off

	OutDir  string `yaml:"outDir"`
	Restore string `yaml:"restore"` // checkpoint path to restore from

	// Workloads bind 1:1 to cores in order. Empty = one default workload
	// per core; any other count mismatch is fatal.
	Workloads []Workload `yaml:"workloads"`
}

// Default returns a Machine with every knob at its default.
func Default() *Machine {
	cfg := &Machine{}
	if err := Validate(cfg); err != nil {
		panic(err)
	}
	return cfg
}

// Load reads a Machine from a YAML file and validates it.
func Load(path string) (*Machine, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &Machine{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate applies structural checks to the Machine and populates defaults
// where required.
func Validate(cfg *Machine) error {
	if cfg == nil {
		return errors.New("config is nil")
	}

	if cfg.CPU == "" {
		cfg.CPU = DefaultCPU
	}
	if cfg.NumCores == 0 {
		cfg.NumCores = 1
	}
	if cfg.NumCores < 0 {
		return fmt.Errorf("numCores must be positive, got %d", cfg.NumCores)
	}
	if cfg.CPUFreq == "" {
		cfg.CPUFreq = DefaultCPUFreq
	}
	if _, err := ParseFreqMHz(cfg.CPUFreq); err != nil {
		return fmt.Errorf("cpuFreq: %w", err)
	}
	if cfg.Voltage == "" {
		cfg.Voltage = "1.2V"
	}

	if cfg.MemSize == "" {
		cfg.MemSize = DefaultMemSize
	}
	if size, err := descriptor.ParseByteSize(cfg.MemSize); err != nil {
		return fmt.Errorf("memSize: %w", err)
	} else if size == 0 {
		return errors.New("memSize must be > 0")
	}
	if cfg.MemLatency == 0 {
		cfg.MemLatency = DefaultMemLatency
	}
	if cfg.MemLatency < 0 {
		return fmt.Errorf("memLatency must be >= 0, got %d", cfg.MemLatency)
	}

	for _, o := range []struct {
		field, value string
	}{
		{"l1iSize", cfg.L1ISize},
		{"l1dSize", cfg.L1DSize},
		{"l2Size", cfg.L2Size},
	} {
		if o.value == "" {
			continue
		}
		if _, err := descriptor.ParseByteSize(o.value); err != nil {
			return fmt.Errorf("%s: %w", o.field, err)
		}
	}

	if cfg.OutDir == "" {
		cfg.OutDir = DefaultOutDir
	}

	if len(cfg.Workloads) == 0 {
		cfg.Workloads = make([]Workload, cfg.NumCores)
	}
	if len(cfg.Workloads) != cfg.NumCores {
		return fmt.Errorf("cannot map %d workload(s) onto %d core(s)",
			len(cfg.Workloads), cfg.NumCores)
	}
	for i := range cfg.Workloads {
		w := &cfg.Workloads[i]
		if w.Reads < 0 || w.Writes < 0 {
			return fmt.Errorf("workload %d: reads and writes must be >= 0", i)
		}
		if w.Reads == 0 && w.Writes == 0 {
			w.Reads = DefaultWorkloadReads
			w.Writes = DefaultWorkloadWrites
		}
		if w.MaxAddress == "" {
			w.MaxAddress = DefaultMaxAddress
		}
		if _, err := descriptor.ParseByteSize(w.MaxAddress); err != nil {
			return fmt.Errorf("workload %d: maxAddress: %w", i, err)
		}
	}

	return nil
}

// Clone returns a deep copy of the Machine.
func (m *Machine) Clone() *Machine {
	out := *m
	if m.Workloads != nil {
		out.Workloads = make([]Workload, len(m.Workloads))
		copy(out.Workloads, m.Workloads)
	}
	return &out
}

// Save writes the Machine to a YAML file. Checkpoints embed the machine so
// a restore can reconstruct an equivalent topology.
func (m *Machine) Save(path string) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// ParseFreqMHz parses clock strings like "2GHz", "1200MHz" into MHz.
func ParseFreqMHz(s string) (int, error) {
	s = strings.TrimSpace(s)
	lower := strings.ToLower(s)

	mult := 0
	switch {
	case strings.HasSuffix(lower, "ghz"):
		mult = 1000
		s = s[:len(s)-3]
	case strings.HasSuffix(lower, "mhz"):
		mult = 1
		s = s[:len(s)-3]
	default:
		return 0, fmt.Errorf("invalid frequency %q: expected MHz or GHz suffix", s)
	}

	n, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid frequency %q: %w", s, err)
	}
	if n <= 0 {
		return 0, fmt.Errorf("frequency must be positive, got %q", s)
	}
	return int(n * float64(mult)), nil
}
