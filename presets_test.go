package main

import (
	"testing"

	"github.com/example/soctopo/compose"
)

func TestAllPresetsAssemble(t *testing.T) {
	for _, p := range GetPresets() {
		machine := p.Machine.Clone()
		sys, err := compose.Assemble(machine)
		if err != nil {
			t.Errorf("preset %s: %v", p.Name, err)
			continue
		}
		if err := sys.CheckStructure(); err != nil {
			t.Errorf("preset %s: %v", p.Name, err)
		}
		if sys.NumCores() != machine.NumCores {
			t.Errorf("preset %s: %d cores, want %d", p.Name, sys.NumCores(), machine.NumCores)
		}
	}
}

func TestGetPresetByName(t *testing.T) {
	cfg := GetPresetByName("dual_timing")
	if cfg == nil {
		t.Fatal("preset not found")
	}
	if cfg.CPU != "timing" || cfg.NumCores != 2 {
		t.Errorf("got %q x%d, want timing x2", cfg.CPU, cfg.NumCores)
	}

	// Mutating the returned copy must not leak into the preset table.
	cfg.NumCores = 64
	if again := GetPresetByName("dual_timing"); again.NumCores != 2 {
		t.Error("preset table was mutated through a returned copy")
	}

	if GetPresetByName("does_not_exist") != nil {
		t.Error("unknown preset should return nil")
	}
}

func TestNoL2PresetDropsTheLevel(t *testing.T) {
	sys, err := compose.Assemble(GetPresetByName("dual_timing_no_l2"))
	if err != nil {
		t.Fatal(err)
	}
	cluster := sys.Clusters()[0].(*compose.CPUCluster)
	if cluster.L2 != nil {
		t.Error("override should have removed the shared L2")
	}
	for _, core := range sys.AllCores() {
		if core.L1D == nil {
			t.Errorf("core %s lost its private L1", core.Name)
		}
	}
}
