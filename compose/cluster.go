package compose

import (
	"fmt"

	"github.com/example/soctopo/descriptor"
)

// CPUPrototype selects a core model, its cache types, and the capability
// flags the core type declares. Cache type fields left nil mean that level
// is never constructed. Variants that differ only in capability flags
// (atomic, hardware-virtualized) are prototype data, not separate composer
// types.
type CPUPrototype struct {
	Name string

	Core *descriptor.CoreSpec
	L1I  *descriptor.CacheSpec
	L1D  *descriptor.CacheSpec
	L2   *descriptor.CacheSpec

	Mode       MemoryMode
	NeedCaches bool
}

// CPUCluster instantiates N cores of one prototype sharing a clock/voltage
// domain, and owns the caches it constructs.
type CPUCluster struct {
	sys   *System
	name  string
	proto CPUPrototype

	Clock ClockDomain
	cores []*Core

	// L2 is the one shared instance stamped by AddL2; ToL2Bus is the
	// crossbar between the cores and the L2.
	L2             *descriptor.CacheSpec
	ToL2Bus        *Connection
	l2UpstreamPort *Port
	l2MemSidePort  *Port
}

// NewCPUCluster builds the cluster: allocates global core ids from the
// owning system's tally, assigns the cluster-local socket id, and registers
// the cluster exactly once.
func NewCPUCluster(
	sys *System,
	name string,
	numCores int,
	clk ClockDomain,
	proto CPUPrototype,
) (*CPUCluster, error) {
	if sys == nil {
		return nil, fmt.Errorf("cluster %s: owning system is nil", name)
	}
	if numCores <= 0 {
		return nil, fmt.Errorf("cluster %s: core count must be positive, got %d", name, numCores)
	}
	if proto.Core == nil {
		return nil, fmt.Errorf("cluster %s: prototype %q has no core spec", name, proto.Name)
	}
	if err := proto.Core.Validate(); err != nil {
		return nil, fmt.Errorf("cluster %s: %w", name, err)
	}
	for _, cs := range []*descriptor.CacheSpec{proto.L1I, proto.L1D, proto.L2} {
		if cs == nil {
			continue
		}
		if err := cs.Validate(); err != nil {
			return nil, fmt.Errorf("cluster %s: %w", name, err)
		}
	}

	c := &CPUCluster{
		sys:   sys,
		name:  name,
		proto: proto,
		Clock: clk,
	}

	socketID := sys.NumClusters()
	baseID := sys.NumCores()
	for idx := 0; idx < numCores; idx++ {
		coreName := fmt.Sprintf("%s.cpu%d", name, idx)
		core := &Core{
			ID:       baseID + idx,
			SocketID: socketID,
			Name:     coreName,
			Spec:     proto.Core,
			Clock:    clk,
		}
		core.CachedPort = NewPort(coreName, "cached")
		c.cores = append(c.cores, core)
	}

	if err := sys.AddCluster(c, numCores); err != nil {
		return nil, err
	}
	return c, nil
}

// Name returns the cluster name.
func (c *CPUCluster) Name() string { return c.name }

// Cores returns the cluster's cores in id order.
func (c *CPUCluster) Cores() []*Core { return c.cores }

// RequireCaches passes through the prototype's capability flag.
func (c *CPUCluster) RequireCaches() bool { return c.proto.NeedCaches }

// MemoryMode passes through the prototype's declared memory-access mode.
func (c *CPUCluster) MemoryMode() MemoryMode { return c.proto.Mode }

// AddL1 stamps private per-core L1 instances. Both an instruction and a
// data cache type must be configured; otherwise nothing is constructed.
// Caches are owned exclusively by the core they attach to.
func (c *CPUCluster) AddL1() error {
	if c.proto.L1I == nil || c.proto.L1D == nil {
		return nil
	}
	for _, core := range c.cores {
		core.L1I = c.proto.L1I.Clone()
		core.L1D = c.proto.L1D.Clone()
	}
	return nil
}

// AddL2 constructs exactly one shared L2 for the cluster, a crossbar
// connecting every core's cached port to it, and the cache's upstream port
// into that crossbar. With no L2 type configured this is a no-op, not an
// error.
func (c *CPUCluster) AddL2(clk ClockDomain) error {
	if c.proto.L2 == nil {
		return nil
	}
	if c.L2 != nil {
		return fmt.Errorf("cluster %s: L2 already constructed", c.name)
	}

	c.L2 = c.proto.L2.Clone()
	l2Name := c.name + ".l2"
	c.ToL2Bus = NewConnection(c.name+".toL2Bus", KindCrossbar)
	c.l2UpstreamPort = NewPort(l2Name, "cpu_side")
	c.l2MemSidePort = NewPort(l2Name, "mem_side")

	for _, core := range c.cores {
		if err := c.ToL2Bus.PlugIn(core.CachedPort); err != nil {
			return err
		}
	}
	return c.ToL2Bus.PlugIn(c.l2UpstreamPort)
}

// ConnectMemSide wires the cluster's upstream side to the given bus. A
// cluster with a shared L2 presents exactly one upstream port (the L2's
// memory side); a cluster without one presents N upstream ports, one per
// core.
func (c *CPUCluster) ConnectMemSide(bus *Connection) error {
	if c.L2 != nil {
		return bus.PlugIn(c.l2MemSidePort)
	}
	for _, core := range c.cores {
		if err := bus.PlugIn(core.CachedPort); err != nil {
			return err
		}
	}
	return nil
}
