package compose

import (
	"fmt"

	"github.com/example/soctopo/descriptor"
)

// MemoryMode is the memory-access mode a core type declares. The top-level
// assembler re-derives the system mode from the cluster, never hard-codes
// it.
type MemoryMode string

const (
	// MemTiming models cache and bus timing; clusters in this mode carry a
	// cache hierarchy.
	MemTiming MemoryMode = "timing"
	// MemAtomic completes accesses functionally in one call.
	MemAtomic MemoryMode = "atomic"
	// MemAtomicNonCaching is atomic mode with caching disabled, used by
	// hardware-virtualized and externally-modeled cores.
	MemAtomicNonCaching MemoryMode = "atomic_noncaching"
)

// ClockDomain is a (clock, voltage) pair shared by the cores of a cluster.
type ClockDomain struct {
	FreqMHz int
	Voltage string
}

// Workload is the traffic program bound to one core, resolved to numbers.
type Workload struct {
	Reads      int
	Writes     int
	MaxAddress uint64
}

// Core is one constructed core instance inside a cluster. The cluster owns
// its cores exclusively.
type Core struct {
	ID       int // global, system-wide
	SocketID int // cluster index within the system
	Name     string

	Spec  *descriptor.CoreSpec
	Clock ClockDomain

	// CachedPort is the core's upstream memory port: the outermost cached
	// port when L1s are attached, the core's own port otherwise.
	CachedPort *Port

	// Private caches, stamped by AddL1. Nil for cache-less cores.
	L1I *descriptor.CacheSpec
	L1D *descriptor.CacheSpec

	Workload *Workload
	MaxInsts uint64
}

// Cluster is the capability contract every cluster variant exposes. The
// top-level assembler drives all variants through this interface and stays
// ignorant of which variant it holds.
type Cluster interface {
	Name() string
	RequireCaches() bool
	MemoryMode() MemoryMode
	AddL1() error
	AddL2(clk ClockDomain) error
	ConnectMemSide(bus *Connection) error
	Cores() []*Core
}

// System is the top-level machine graph under assembly. Its core-count and
// cluster tallies are the only mutable shared state during assembly; every
// write is append-only and composer invocations are strictly sequential.
type System struct {
	MemRanges        []AddrRange
	MemMode          MemoryMode
	MemSize          uint64
	MemLatencyCycles int

	// MemBus is the shared off-chip memory bus. IOBus carries device
	// traffic and is only materialized for the external-core variant.
	MemBus *Connection
	IOBus  *Connection

	// Bridges mediate system-wide address space, so the system owns the
	// sub-assembly, not the cluster that created it.
	Bridges *BridgeSet

	MaxInsts  uint64
	TraceFile string

	clusters []Cluster
	numCores int
}

// NewSystem creates a system with its shared memory bus.
func NewSystem() *System {
	return &System{
		MemBus: NewConnection("membus", KindBus),
	}
}

// NumCores returns the running total of cores across all registered
// clusters. Monotonically increasing; ids are never reused.
func (s *System) NumCores() int {
	return s.numCores
}

// NumClusters returns how many clusters have been registered.
func (s *System) NumClusters() int {
	return len(s.clusters)
}

// Clusters returns the registered clusters in registration order.
func (s *System) Clusters() []Cluster {
	return s.clusters
}

// AddCluster registers a cluster and bumps the core tally. Exactly one
// registration per cluster; this is what makes global core-id allocation
// correct for subsequently created clusters.
func (s *System) AddCluster(c Cluster, numCores int) error {
	if numCores <= 0 {
		return fmt.Errorf("cluster %s: core count must be positive, got %d", c.Name(), numCores)
	}
	for _, existing := range s.clusters {
		if existing == c {
			return fmt.Errorf("cluster %s already registered", c.Name())
		}
	}
	s.clusters = append(s.clusters, c)
	s.numCores += numCores
	return nil
}

// AllCores returns every core of every cluster in id order.
func (s *System) AllCores() []*Core {
	var cores []*Core
	for _, c := range s.clusters {
		cores = append(cores, c.Cores()...)
	}
	return cores
}

// BindWorkloads assigns one workload per core, order-preserving. A count
// mismatch is fatal before instantiation, never truncated or padded.
func (s *System) BindWorkloads(workloads []Workload) error {
	cores := s.AllCores()
	if len(workloads) != len(cores) {
		return fmt.Errorf("cannot map %d workload(s) onto %d core(s)",
			len(workloads), len(cores))
	}
	for i, core := range cores {
		w := workloads[i]
		core.Workload = &w
	}
	return nil
}

// Connections returns every connection reachable from the system graph,
// used by structural checks and the topology inspector.
func (s *System) Connections() []*Connection {
	conns := []*Connection{s.MemBus}
	if s.IOBus != nil {
		conns = append(conns, s.IOBus)
	}
	if s.Bridges != nil {
		conns = append(conns, s.Bridges.All()...)
	}
	for _, c := range s.clusters {
		if cc, ok := c.(*CPUCluster); ok && cc.ToL2Bus != nil {
			conns = append(conns, cc.ToL2Bus)
		}
	}
	return conns
}

// CheckStructure verifies the graph is runnable: every core has a bound
// workload and, outside bridge-mediated clusters, an attached upstream
// port. Called by the elaborator before instantiation.
func (s *System) CheckStructure() error {
	if len(s.clusters) == 0 {
		return fmt.Errorf("system has no clusters")
	}
	for _, cluster := range s.clusters {
		for _, core := range cluster.Cores() {
			if core.Workload == nil {
				return fmt.Errorf("core %s has no workload bound", core.Name)
			}
			if !core.CachedPort.Attached() {
				return fmt.Errorf("core %s: upstream port %s is dangling",
					core.Name, core.CachedPort.FullName())
			}
		}
	}
	return nil
}
