// Package elab lowers a composed system graph onto the discrete-event
// simulation kernel and drives the kernel's boundary operations:
// instantiate, run, checkpoint. Everything past instantiation is the
// kernel's own concern; this package only reports its results.
package elab

import (
	"fmt"
	"log"
	"os"

	"github.com/sarchlab/akita/v4/mem/acceptancetests/memaccessagent"
	"github.com/sarchlab/akita/v4/mem/cache/writeback"
	"github.com/sarchlab/akita/v4/mem/cache/writethrough"
	"github.com/sarchlab/akita/v4/mem/idealmemcontroller"
	"github.com/sarchlab/akita/v4/mem/trace"
	"github.com/sarchlab/akita/v4/sim"
	"github.com/sarchlab/akita/v4/sim/directconnection"
	"github.com/sarchlab/akita/v4/simulation"
	"github.com/sarchlab/akita/v4/tracing"

	"github.com/example/soctopo/compose"
)

// Elaborator turns one composed *compose.System into a runnable kernel
// simulation. Build once, Instantiate once, Run once.
type Elaborator struct {
	sys *compose.System

	simulation *simulation.Simulation
	engine     sim.Engine

	memCtrl *idealmemcontroller.Comp
	agents  []*memaccessagent.MemAccessAgent

	traceFile    *os.File
	instantiated bool
}

// New creates an elaborator for the system.
func New(sys *compose.System) *Elaborator {
	return &Elaborator{sys: sys}
}

// Instantiate freezes the composed graph into kernel components. It fails
// fatally on a structurally invalid graph: dangling ports or unbound
// workloads are rejected here, before any kernel object exists.
func (e *Elaborator) Instantiate() error {
	if e.instantiated {
		return fmt.Errorf("system already instantiated")
	}
	if err := e.sys.CheckStructure(); err != nil {
		return fmt.Errorf("structurally invalid topology: %w", err)
	}

	e.simulation = simulation.MakeBuilder().Build()
	e.engine = e.simulation.GetEngine()

	e.memCtrl = idealmemcontroller.MakeBuilder().
		WithEngine(e.engine).
		WithNewStorage(e.sys.MemSize).
		WithLatency(e.sys.MemLatencyCycles).
		Build("MemCtrl")
	e.simulation.RegisterComponent(e.memCtrl)

	membus := directconnection.MakeBuilder().
		WithEngine(e.engine).
		WithFreq(1 * sim.GHz).
		Build("MemBus")
	membus.PlugIn(e.memCtrl.GetPortByName("Top"))

	for _, cluster := range e.sys.Clusters() {
		if err := e.lowerCluster(cluster, membus); err != nil {
			return err
		}
	}

	if err := e.setupTraceProbe(); err != nil {
		return err
	}

	e.instantiated = true
	return nil
}

func (e *Elaborator) lowerCluster(cluster compose.Cluster, membus *directconnection.Comp) error {
	switch c := cluster.(type) {
	case *compose.CPUCluster:
		return e.lowerCPUCluster(c, membus)
	case *compose.ExternalCluster:
		return e.lowerExternalCluster(c)
	default:
		return fmt.Errorf("cluster %s: unknown cluster variant %T", cluster.Name(), cluster)
	}
}

// lowerCPUCluster builds the cache hierarchy the composer declared. The
// kernel owns the timing algorithms, so only the knobs it supports lower
// to component parameters; the rest of the descriptor stays declarative.
func (e *Elaborator) lowerCPUCluster(c *compose.CPUCluster, membus *directconnection.Comp) error {
	freq := clusterFreq(c.Clock)
	memSidePort := e.memCtrl.GetPortByName("Top")

	if c.L2 != nil {
		l2 := writeback.MakeBuilder().
			WithEngine(e.engine).
			WithFreq(freq).
			WithWayAssociativity(c.L2.Assoc).
			WithNumReqPerCycle(2).
			WithAddressMapperType("single").
			WithRemotePorts(memSidePort.AsRemote()).
			Build(c.Name() + ".L2")
		e.simulation.RegisterComponent(l2)

		membus.PlugIn(l2.GetPortByName("Bottom"))

		toL2Bus := directconnection.MakeBuilder().
			WithEngine(e.engine).
			WithFreq(freq).
			Build(c.Name() + ".ToL2Bus")
		toL2Bus.PlugIn(l2.GetPortByName("Top"))

		for _, core := range c.Cores() {
			if err := e.lowerCachedCore(core, freq, l2.GetPortByName("Top"), toL2Bus); err != nil {
				return err
			}
		}
		return nil
	}

	if c.Cores()[0].L1D != nil {
		// Private L1s with no shared L2 (the "L2 size 0" path): misses go
		// straight to memory over the system bus.
		for _, core := range c.Cores() {
			if err := e.lowerCachedCore(core, freq, memSidePort, membus); err != nil {
				return err
			}
		}
		return nil
	}

	// Cache-less cluster: every core connects directly to the system bus.
	for _, core := range c.Cores() {
		agent := e.buildAgent(core, freq, memSidePort)
		membus.PlugIn(agent.GetPortByName("Mem"))
	}
	return nil
}

// lowerCachedCore stamps a core's private L1s and its workload driver. The
// L1 data cache carries the core's load/store traffic; the instruction
// cache is wired to the same lower level and left to the kernel's fetch
// path.
func (e *Elaborator) lowerCachedCore(
	core *compose.Core,
	freq sim.Freq,
	lowPort sim.Port,
	lowConn *directconnection.Comp,
) error {
	l1d := writethrough.MakeBuilder().
		WithEngine(e.engine).
		WithFreq(freq).
		WithWayAssociativity(core.L1D.Assoc).
		WithAddressMapperType("single").
		WithRemotePorts(lowPort.AsRemote()).
		Build(core.Name + ".L1D")
	e.simulation.RegisterComponent(l1d)
	lowConn.PlugIn(l1d.GetPortByName("Bottom"))

	l1i := writethrough.MakeBuilder().
		WithEngine(e.engine).
		WithFreq(freq).
		WithWayAssociativity(core.L1I.Assoc).
		WithAddressMapperType("single").
		WithRemotePorts(lowPort.AsRemote()).
		Build(core.Name + ".L1I")
	e.simulation.RegisterComponent(l1i)
	lowConn.PlugIn(l1i.GetPortByName("Bottom"))

	agent := e.buildAgent(core, freq, l1d.GetPortByName("Top"))

	coreConn := directconnection.MakeBuilder().
		WithEngine(e.engine).
		WithFreq(freq).
		Build(core.Name + ".L1DConn")
	coreConn.PlugIn(agent.GetPortByName("Mem"))
	coreConn.PlugIn(l1d.GetPortByName("Top"))
	return nil
}

// lowerExternalCluster represents the opaque external model by its
// workload drivers and the interrupt controller's redistributor register
// block; the four bridge adapters collapse to the one connection carrying
// the round-trip path, since their wire format is outside this subsystem.
func (e *Elaborator) lowerExternalCluster(c *compose.ExternalCluster) error {
	freq := clusterFreq(c.Clock)

	window := c.Controller.AddrRanges[0].Size
	gic := idealmemcontroller.MakeBuilder().
		WithEngine(e.engine).
		WithNewStorage(window).
		WithLatency(10).
		Build(c.Name() + ".GIC")
	e.simulation.RegisterComponent(gic)

	bridgeConn := directconnection.MakeBuilder().
		WithEngine(e.engine).
		WithFreq(freq).
		Build(c.Name() + ".BridgeConn")
	bridgeConn.PlugIn(gic.GetPortByName("Top"))

	for _, core := range c.Cores() {
		if core.Workload.MaxAddress > window {
			core.Workload.MaxAddress = window
		}
		agent := e.buildAgent(core, freq, gic.GetPortByName("Top"))
		bridgeConn.PlugIn(agent.GetPortByName("Mem"))
	}
	return nil
}

func (e *Elaborator) buildAgent(
	core *compose.Core,
	freq sim.Freq,
	lowModule sim.Port,
) *memaccessagent.MemAccessAgent {
	reads, writes := core.Workload.Reads, core.Workload.Writes
	if core.MaxInsts > 0 {
		reads, writes = capWork(reads, writes, core.MaxInsts)
	}

	agent := memaccessagent.MakeBuilder().
		WithEngine(e.engine).
		WithFreq(freq).
		WithMaxAddress(core.Workload.MaxAddress).
		WithReadLeft(reads).
		WithWriteLeft(writes).
		WithLowModule(lowModule).
		Build(core.Name + ".Agent")
	e.simulation.RegisterComponent(agent)
	e.agents = append(e.agents, agent)
	return agent
}

// capWork truncates a workload to at most max total accesses, preserving
// the read/write mix.
func capWork(reads, writes int, max uint64) (int, int) {
	total := uint64(reads + writes)
	if total <= max {
		return reads, writes
	}
	cappedReads := int(uint64(reads) * max / total)
	cappedWrites := int(max) - cappedReads
	return cappedReads, cappedWrites
}

func (e *Elaborator) setupTraceProbe() error {
	if e.sys.TraceFile == "" {
		return nil
	}
	f, err := os.Create(e.sys.TraceFile)
	if err != nil {
		return fmt.Errorf("failed to create trace file: %w", err)
	}
	e.traceFile = f
	tracer := trace.NewTracer(log.New(f, "", 0), e.engine)
	tracing.CollectTrace(e.memCtrl, tracer)
	return nil
}

func clusterFreq(clk compose.ClockDomain) sim.Freq {
	return sim.Freq(clk.FreqMHz) * sim.MHz
}
