package main

import (
	"fmt"

	"github.com/example/soctopo/compose"
)

// TopologyNode is one component in the inspector's graph view.
type TopologyNode struct {
	ID       string         `json:"id"`
	Label    string         `json:"label"`
	Type     string         `json:"type"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// TopologyEdge joins a component to a connection it is plugged into.
type TopologyEdge struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Label  string `json:"label"`
}

// TopologySnapshot is the JSON rendering of a composed system.
type TopologySnapshot struct {
	MemMode string         `json:"memMode"`
	Nodes   []TopologyNode `json:"nodes"`
	Edges   []TopologyEdge `json:"edges"`
}

// BuildTopologySnapshot flattens the composed graph for the inspector:
// one node per core, cache, and connection, one edge per plugged port.
func BuildTopologySnapshot(sys *compose.System) *TopologySnapshot {
	snap := &TopologySnapshot{MemMode: string(sys.MemMode)}

	for _, cluster := range sys.Clusters() {
		for _, core := range cluster.Cores() {
			meta := map[string]any{
				"coreId":   core.ID,
				"socketId": core.SocketID,
			}
			if core.Spec != nil {
				meta["model"] = core.Spec.Name
			}
			snap.Nodes = append(snap.Nodes, TopologyNode{
				ID:       core.Name,
				Label:    core.Name,
				Type:     "core",
				Metadata: meta,
			})
			if core.L1I != nil {
				snap.Nodes = append(snap.Nodes, cacheNode(core.Name+".l1i", core.L1I.Name, core.L1I.Size.String()))
				snap.Edges = append(snap.Edges, TopologyEdge{Source: core.Name, Target: core.Name + ".l1i", Label: "l1i"})
			}
			if core.L1D != nil {
				snap.Nodes = append(snap.Nodes, cacheNode(core.Name+".l1d", core.L1D.Name, core.L1D.Size.String()))
				snap.Edges = append(snap.Edges, TopologyEdge{Source: core.Name, Target: core.Name + ".l1d", Label: "l1d"})
			}
		}
		if cc, ok := cluster.(*compose.CPUCluster); ok && cc.L2 != nil {
			snap.Nodes = append(snap.Nodes, cacheNode(cluster.Name()+".l2", cc.L2.Name, cc.L2.Size.String()))
		}
		if ec, ok := cluster.(*compose.ExternalCluster); ok {
			for _, core := range ec.ExternalCores() {
				snap.Nodes = append(snap.Nodes, TopologyNode{
					ID:    core.Name + ".redist",
					Label: core.Redistributor.Affinity,
					Type:  "redistributor",
					Metadata: map[string]any{
						"base": fmt.Sprintf("%#x", core.Redistributor.Base),
					},
				})
				snap.Edges = append(snap.Edges, TopologyEdge{
					Source: core.Name, Target: core.Name + ".redist", Label: "redistributor",
				})
			}
		}
	}

	for _, conn := range sys.Connections() {
		snap.Nodes = append(snap.Nodes, TopologyNode{
			ID:    conn.Name,
			Label: conn.Name,
			Type:  string(conn.Kind),
			Metadata: map[string]any{
				"numPorts": conn.NumPorts(),
			},
		})
		for _, port := range conn.Ports {
			snap.Edges = append(snap.Edges, TopologyEdge{
				Source: port.Owner,
				Target: conn.Name,
				Label:  port.Name,
			})
		}
	}
	return snap
}

func cacheNode(id, name, size string) TopologyNode {
	return TopologyNode{
		ID:    id,
		Label: name,
		Type:  "cache",
		Metadata: map[string]any{
			"size": size,
		},
	}
}
