package compose

import (
	"fmt"
	"sort"
	"strings"
)

// MaxExternalCores is the largest core count the external model ships
// variants for.
const MaxExternalCores = 4

// Redistributor frame sizes for the two supported interrupt-controller
// generations.
const (
	redistFrameSizeV3  = 0x20000
	redistFrameSizeV41 = 0x40000
)

// InterruptControllerSpec describes the shared interrupt controller the
// external model binds to: where its per-core redistributor register frames
// start, which address ranges it claims on the native fabric, and the
// generation flag that selects the frame size. The flag's provenance is
// outside this subsystem; it is consumed as an opaque boolean.
type InterruptControllerSpec struct {
	RedistBase uint64
	AddrRanges []AddrRange
	V41        bool
}

// FrameSize returns the per-core redistributor frame size for the
// controller generation.
func (g InterruptControllerSpec) FrameSize() uint64 {
	if g.V41 {
		return redistFrameSizeV41
	}
	return redistFrameSizeV3
}

// RedistFrame is one core's redistributor register frame.
type RedistFrame struct {
	Affinity string
	Base     uint64
}

// BridgeSet groups the four protocol adapters that splice the external
// model into the native fabric: the forward pair (external -> native) and
// the reverse pair (native -> external), plus the address filter on the
// reverse path.
type BridgeSet struct {
	// Forward path: external model's bus master into the native I/O bus.
	AmbaToTLM   *Connection
	TLMToNative *Connection

	// Reverse path: native memory bus into the external controller's
	// secure/non-secure input.
	NativeToTLM *Connection
	TLMToAmba   *Connection

	// AddrRanges filters the reverse bridge: only accesses inside these
	// ranges route through it, everything else is ordinary memory.
	AddrRanges []AddrRange
}

// All returns the four bridge connections.
func (b *BridgeSet) All() []*Connection {
	return []*Connection{b.AmbaToTLM, b.TLMToNative, b.NativeToTLM, b.TLMToAmba}
}

// ExternalCore is one core inside the externally-modeled processor. The
// model is opaque; only the boot and interrupt bookkeeping the native side
// must fix up is represented.
type ExternalCore struct {
	*Core

	SemihostingEnabled bool
	ResetVectorBase    uint64
	Redistributor      RedistFrame
}

// ExternalCluster integrates an externally-modeled multi-core processor
// through the bridge fabric. It does not share the common composer's core
// construction; it only exposes the same contract so the top-level
// assembler can treat all variants uniformly.
type ExternalCluster struct {
	sys  *System
	name string

	Clock ClockDomain
	cores []*Core
	ext   []*ExternalCore

	Controller InterruptControllerSpec

	// Affinities is the comma-joined per-core affinity list handed to the
	// controller; RedistTable maps each affinity to its register base.
	Affinities  string
	RedistTable []RedistFrame
}

// NewExternalCluster assembles the external processor, its interrupt
// controller addressing, and the bridge set. The bridge sub-assembly is
// owned by the system since it mediates system-wide address space.
func NewExternalCluster(
	sys *System,
	name string,
	numCores int,
	clk ClockDomain,
	ctrl InterruptControllerSpec,
) (*ExternalCluster, error) {
	if sys == nil {
		return nil, fmt.Errorf("cluster %s: owning system is nil", name)
	}
	if numCores <= 0 {
		return nil, fmt.Errorf("cluster %s: core count must be positive, got %d", name, numCores)
	}
	if numCores > MaxExternalCores {
		return nil, fmt.Errorf("cluster %s: external model supports at most %d cores, got %d",
			name, MaxExternalCores, numCores)
	}
	if len(ctrl.AddrRanges) == 0 {
		return nil, fmt.Errorf("cluster %s: interrupt controller claims no address ranges; "+
			"reverse bridge would route nothing", name)
	}

	c := &ExternalCluster{
		sys:        sys,
		name:       name,
		Clock:      clk,
		Controller: ctrl,
	}

	// Affinity identifiers are monotonic 0..N-1; the serialized list is
	// how the external model and the native interrupt fabric agree on
	// topology.
	affinities := make([]string, numCores)
	frameSize := ctrl.FrameSize()
	for i := 0; i < numCores; i++ {
		aff := fmt.Sprintf("0.0.%d.0", i)
		affinities[i] = aff
		c.RedistTable = append(c.RedistTable, RedistFrame{
			Affinity: aff,
			Base:     ctrl.RedistBase + frameSize*uint64(i),
		})
	}
	c.Affinities = strings.Join(affinities, ",")
	if err := checkRedistFrames(name, c.RedistTable); err != nil {
		return nil, err
	}

	if sys.IOBus == nil {
		sys.IOBus = NewConnection("iobus", KindBus)
	}
	bridges := &BridgeSet{
		AmbaToTLM:   NewConnection(name+".amba2tlm", KindBridge),
		TLMToNative: NewConnection(name+".tlm2native", KindBridge),
		NativeToTLM: NewConnection(name+".native2tlm", KindBridge),
		TLMToAmba:   NewConnection(name+".tlm2amba", KindBridge),
		AddrRanges:  append([]AddrRange(nil), ctrl.AddrRanges...),
	}

	// Forward path: the model's bus master crosses into the I/O bus.
	if err := bridges.TLMToNative.PlugIn(NewPort(name, "amba_m")); err != nil {
		return nil, err
	}
	if err := sys.IOBus.PlugIn(NewPort(bridges.TLMToNative.Name, "native_side")); err != nil {
		return nil, err
	}

	// Reverse path: the memory bus reaches the controller's register file,
	// filtered to exactly the ranges the controller claims.
	if err := bridges.NativeToTLM.PlugIn(NewPort(bridges.NativeToTLM.Name, "native_side")); err != nil {
		return nil, err
	}
	if err := sys.MemBus.PlugIn(NewPort(bridges.NativeToTLM.Name, "mem_side")); err != nil {
		return nil, err
	}
	if err := bridges.TLMToAmba.PlugIn(NewPort(name, "amba_s")); err != nil {
		return nil, err
	}

	sys.Bridges = bridges

	socketID := sys.NumClusters()
	baseID := sys.NumCores()
	for idx := 0; idx < numCores; idx++ {
		coreName := fmt.Sprintf("%s.core%d", name, idx)
		core := &Core{
			ID:       baseID + idx,
			SocketID: socketID,
			Name:     coreName,
			Clock:    clk,
		}
		core.CachedPort = NewPort(coreName, "amba")
		if err := bridges.AmbaToTLM.PlugIn(core.CachedPort); err != nil {
			return nil, err
		}
		c.cores = append(c.cores, core)

		// Native-side fixups applied to each external core: no alternate
		// boot path, fixed reset vector, redistributor bound.
		c.ext = append(c.ext, &ExternalCore{
			Core:               core,
			SemihostingEnabled: false,
			ResetVectorBase:    0x10,
			Redistributor:      c.RedistTable[idx],
		})
	}

	if err := sys.AddCluster(c, numCores); err != nil {
		return nil, err
	}
	return c, nil
}

func checkRedistFrames(cluster string, frames []RedistFrame) error {
	bases := make([]uint64, len(frames))
	for i, f := range frames {
		bases[i] = f.Base
	}
	sort.Slice(bases, func(i, j int) bool { return bases[i] < bases[j] })
	for i := 1; i < len(bases); i++ {
		if bases[i] == bases[i-1] {
			return fmt.Errorf("cluster %s: duplicate redistributor base %#x", cluster, bases[i])
		}
	}
	return nil
}

// Name returns the cluster name.
func (c *ExternalCluster) Name() string { return c.name }

// Cores returns the cluster's cores in id order.
func (c *ExternalCluster) Cores() []*Core { return c.cores }

// ExternalCores returns the cores with their native-side fixups.
func (c *ExternalCluster) ExternalCores() []*ExternalCore { return c.ext }

// RequireCaches reports false; the external model brings its own hierarchy.
func (c *ExternalCluster) RequireCaches() bool { return false }

// MemoryMode reports atomic non-caching; the external model owns timing.
func (c *ExternalCluster) MemoryMode() MemoryMode { return MemAtomicNonCaching }

// AddL1 is a no-op; the external model owns its caches.
func (c *ExternalCluster) AddL1() error { return nil }

// AddL2 is a no-op; the external model owns its caches.
func (c *ExternalCluster) AddL2(clk ClockDomain) error { return nil }

// ConnectMemSide is a no-op; the bridge fabric carries all traffic.
func (c *ExternalCluster) ConnectMemSide(bus *Connection) error { return nil }
