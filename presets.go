package main

import "github.com/example/soctopo/config"

// MachinePreset is a predefined machine configuration.
type MachinePreset struct {
	Name        string
	Description string
	Machine     *config.Machine
}

// GetPresets returns all available predefined machine configurations.
func GetPresets() []MachinePreset {
	return []MachinePreset{
		{
			Name:        "quad_atomic",
			Description: "4 atomic cores, no caches, direct bus connection",
			Machine: &config.Machine{
				CPU:      "atomic",
				NumCores: 4,
				CPUFreq:  "2GHz",
				MemSize:  "2GB",
			},
		},
		{
			Name:        "dual_timing",
			Description: "2 PostK out-of-order cores with private L1I/L1D and a shared L2",
			Machine: &config.Machine{
				CPU:      "timing",
				NumCores: 2,
				CPUFreq:  "2GHz",
				MemSize:  "2GB",
			},
		},
		{
			Name:        "dual_timing_no_l2",
			Description: "2 PostK cores with private L1s only (L2 removed by override)",
			Machine: &config.Machine{
				CPU:      "timing",
				NumCores: 2,
				CPUFreq:  "2GHz",
				MemSize:  "2GB",
				L2Size:   "0",
			},
		},
		{
			Name:        "quad_external",
			Description: "4-core externally-modeled processor bridged into the native fabric",
			Machine: &config.Machine{
				CPU:      "external",
				NumCores: 4,
				CPUFreq:  "2GHz",
				MemSize:  "2GB",
			},
		},
		{
			Name:        "single_o3_small_caches",
			Description: "1 o3 core with generic caches shrunk by overrides",
			Machine: &config.Machine{
				CPU:      "o3",
				NumCores: 1,
				CPUFreq:  "1500MHz",
				MemSize:  "1GB",
				L1ISize:  "16kB",
				L1DSize:  "16kB",
				L2Size:   "256kB",
			},
		},
	}
}

// GetPresetByName returns a copy of the Machine for the named preset, or
// nil if the preset is not found. The copy keeps callers from mutating the
// preset table.
func GetPresetByName(name string) *config.Machine {
	for _, p := range GetPresets() {
		if p.Name == name {
			return p.Machine.Clone()
		}
	}
	return nil
}
