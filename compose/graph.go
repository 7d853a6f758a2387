// Package compose builds the simulated-machine graph: clusters of cores
// with private and shared caches, the buses and crossbars that connect
// them, and the cross-domain bridge fabric for externally-modeled cores.
// The graph is pure data; the elab package lowers it onto the simulation
// kernel.
package compose

import "fmt"

// Port is one attachment point on a graph node. A port belongs to at most
// one connection.
type Port struct {
	Owner string // component name, e.g. "cluster0.cpu1"
	Name  string // port name on the owner, e.g. "cached"

	conn *Connection
}

// NewPort creates an unattached port.
func NewPort(owner, name string) *Port {
	return &Port{Owner: owner, Name: name}
}

// FullName returns "owner.name".
func (p *Port) FullName() string {
	return p.Owner + "." + p.Name
}

// Attached reports whether the port is plugged into a connection.
func (p *Port) Attached() bool {
	return p.conn != nil
}

// ConnectionKind distinguishes the interconnect flavors in the graph.
type ConnectionKind string

const (
	// KindBus is a shared system or I/O bus.
	KindBus ConnectionKind = "bus"
	// KindCrossbar fans multiple initiator ports into one target.
	KindCrossbar ConnectionKind = "crossbar"
	// KindBridge adapts between the native fabric and an external
	// transaction-level protocol.
	KindBridge ConnectionKind = "bridge"
)

// Connection joins two or more ports. Plugging is append-only; the graph
// never rewires once assembled.
type Connection struct {
	Name  string
	Kind  ConnectionKind
	Ports []*Port
}

// NewConnection creates an empty connection.
func NewConnection(name string, kind ConnectionKind) *Connection {
	return &Connection{Name: name, Kind: kind}
}

// PlugIn attaches a port to the connection. A port already attached
// elsewhere is a wiring bug, reported as an error.
func (c *Connection) PlugIn(p *Port) error {
	if p == nil {
		return fmt.Errorf("connection %s: cannot plug nil port", c.Name)
	}
	if p.conn != nil {
		return fmt.Errorf("connection %s: port %s already attached to %s",
			c.Name, p.FullName(), p.conn.Name)
	}
	p.conn = c
	c.Ports = append(c.Ports, p)
	return nil
}

// NumPorts returns how many ports are plugged in.
func (c *Connection) NumPorts() int {
	return len(c.Ports)
}

// AddrRange is a half-open physical address window [Start, Start+Size).
type AddrRange struct {
	Start uint64
	Size  uint64
}

// End returns the first address past the range.
func (r AddrRange) End() uint64 {
	return r.Start + r.Size
}

// Overlaps reports whether two ranges share any address.
func (r AddrRange) Overlaps(o AddrRange) bool {
	return r.Start < o.End() && o.Start < r.End()
}
