package main

import (
	"fmt"

	"github.com/example/soctopo/compose"
	"github.com/example/soctopo/elab"
)

// PrintReport prints the run outcome and a structural summary of the
// machine that produced it.
func PrintReport(sys *compose.System, event *elab.ExitEvent, progress []elab.CoreProgress) {
	fmt.Println("=== Machine ===")
	fmt.Printf("Clusters: %d\n", sys.NumClusters())
	fmt.Printf("Cores: %d\n", sys.NumCores())
	fmt.Printf("Memory mode: %s\n", sys.MemMode)
	for _, cluster := range sys.Clusters() {
		caches := "no caches"
		if cc, ok := cluster.(*compose.CPUCluster); ok {
			cores := cc.Cores()
			switch {
			case cc.L2 != nil:
				caches = fmt.Sprintf("private L1s, shared L2 (%s)", cc.L2.Size)
			case len(cores) > 0 && cores[0].L1D != nil:
				caches = "private L1s only"
			}
		}
		if _, ok := cluster.(*compose.ExternalCluster); ok {
			caches = "externally modeled"
		}
		fmt.Printf("  %s: %d core(s), %s\n", cluster.Name(), len(cluster.Cores()), caches)
	}

	if event != nil {
		fmt.Println()
		fmt.Println("=== Exit ===")
		fmt.Printf("%s (%d) @ %.9fs\n", event.Cause, event.Code, event.Seconds)
	}

	if len(progress) > 0 {
		fmt.Println()
		fmt.Println("=== Workloads ===")
		for _, p := range progress {
			fmt.Printf("%s: reads left %d, writes left %d\n", p.Core, p.ReadsLeft, p.WritesLeft)
		}
	}
}
