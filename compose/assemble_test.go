package compose_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/example/soctopo/compose"
	"github.com/example/soctopo/config"
	"github.com/example/soctopo/descriptor"
)

var _ = Describe("Assemble", func() {
	Describe("atomic quad-core machine", func() {
		var sys *compose.System

		BeforeEach(func() {
			cfg := &config.Machine{CPU: "atomic", NumCores: 4}
			var err error
			sys, err = compose.Assemble(cfg)
			Expect(err).NotTo(HaveOccurred())
		})

		It("should build four cache-less cores", func() {
			cores := sys.AllCores()
			Expect(cores).To(HaveLen(4))
			for i, core := range cores {
				Expect(core.ID).To(Equal(i))
				Expect(core.L1I).To(BeNil())
				Expect(core.L1D).To(BeNil())
			}
		})

		It("should derive the system mode from the cluster", func() {
			Expect(sys.MemMode).To(Equal(compose.MemAtomic))
		})

		It("should plug every core straight into the memory bus", func() {
			Expect(sys.MemBus.NumPorts()).To(Equal(4))
		})

		It("should bind a default workload to every core", func() {
			for _, core := range sys.AllCores() {
				Expect(core.Workload).NotTo(BeNil())
				Expect(core.Workload.Reads).To(Equal(config.DefaultWorkloadReads))
			}
		})

		It("should pass the structural check", func() {
			Expect(sys.CheckStructure()).To(Succeed())
		})
	})

	Describe("timing dual-core machine", func() {
		var sys *compose.System

		BeforeEach(func() {
			cfg := &config.Machine{CPU: "timing", NumCores: 2}
			var err error
			sys, err = compose.Assemble(cfg)
			Expect(err).NotTo(HaveOccurred())
		})

		It("should run in timing mode with private L1s", func() {
			Expect(sys.MemMode).To(Equal(compose.MemTiming))
			for _, core := range sys.AllCores() {
				Expect(core.L1I).NotTo(BeNil())
				Expect(core.L1D).NotTo(BeNil())
			}
		})

		It("should funnel both cores through one shared L2", func() {
			cluster := sys.Clusters()[0].(*compose.CPUCluster)
			Expect(cluster.L2).NotTo(BeNil())
			Expect(cluster.ToL2Bus.NumPorts()).To(Equal(3))
			Expect(sys.MemBus.NumPorts()).To(Equal(1))
		})
	})

	Describe("cache size overrides", func() {
		It("should resize the prototype's caches", func() {
			cfg := &config.Machine{
				CPU: "timing", NumCores: 1,
				L1ISize: "32kB", L1DSize: "16kB", L2Size: "1MB",
			}
			sys, err := compose.Assemble(cfg)
			Expect(err).NotTo(HaveOccurred())

			core := sys.AllCores()[0]
			Expect(core.L1I.Size).To(Equal(32 * descriptor.KB))
			Expect(core.L1D.Size).To(Equal(16 * descriptor.KB))

			cluster := sys.Clusters()[0].(*compose.CPUCluster)
			Expect(cluster.L2.Size).To(Equal(1 * descriptor.MB))
		})

		It("should remove the L2 level on the zero sentinel", func() {
			cfg := &config.Machine{CPU: "timing", NumCores: 2, L2Size: "0"}
			sys, err := compose.Assemble(cfg)
			Expect(err).NotTo(HaveOccurred())

			cluster := sys.Clusters()[0].(*compose.CPUCluster)
			Expect(cluster.L2).To(BeNil())
			// Without the shared level each core faces the bus directly.
			Expect(sys.MemBus.NumPorts()).To(Equal(2))
			Expect(sys.CheckStructure()).To(Succeed())
		})

		It("should reject the zero sentinel for L1 levels", func() {
			cfg := &config.Machine{CPU: "timing", NumCores: 1, L1ISize: "0"}
			_, err := compose.Assemble(cfg)
			Expect(err).To(MatchError(ContainSubstring("l1iSize")))
		})
	})

	Describe("core type selection", func() {
		It("should reject an unknown type", func() {
			cfg := &config.Machine{CPU: "pentium", NumCores: 1}
			_, err := compose.Assemble(cfg)
			Expect(err).To(MatchError(`unknown cpu type "pentium"`))
		})

		It("should build the bridge fabric for the external type", func() {
			cfg := &config.Machine{CPU: "external", NumCores: 2}
			sys, err := compose.Assemble(cfg)
			Expect(err).NotTo(HaveOccurred())

			Expect(sys.Bridges).NotTo(BeNil())
			Expect(sys.MemMode).To(Equal(compose.MemAtomicNonCaching))
			Expect(sys.CheckStructure()).To(Succeed())
		})

		It("should refuse an oversized external cluster", func() {
			cfg := &config.Machine{CPU: "external", NumCores: 8}
			_, err := compose.Assemble(cfg)
			Expect(err).To(MatchError(ContainSubstring("at most 4 cores")))
		})

		It("should keep the atomic-with-caches variant cached", func() {
			cfg := &config.Machine{CPU: "ac", NumCores: 2}
			sys, err := compose.Assemble(cfg)
			Expect(err).NotTo(HaveOccurred())

			Expect(sys.MemMode).To(Equal(compose.MemAtomic))
			for _, core := range sys.AllCores() {
				Expect(core.L1D).NotTo(BeNil())
			}
			Expect(sys.Clusters()[0].(*compose.CPUCluster).L2).NotTo(BeNil())
		})
	})

	Describe("workload resolution", func() {
		It("should reject a workload count mismatch", func() {
			cfg := &config.Machine{
				CPU: "atomic", NumCores: 4,
				Workloads: []config.Workload{{Reads: 1, Writes: 1}},
			}
			_, err := compose.Assemble(cfg)
			Expect(err).To(MatchError(ContainSubstring("cannot map 1 workload(s) onto 4 core(s)")))
		})

		It("should clamp workload windows to the memory size", func() {
			cfg := &config.Machine{
				CPU: "atomic", NumCores: 1, MemSize: "1GB",
				Workloads: []config.Workload{{Reads: 5, Writes: 5, MaxAddress: "4GB"}},
			}
			sys, err := compose.Assemble(cfg)
			Expect(err).NotTo(HaveOccurred())
			Expect(sys.AllCores()[0].Workload.MaxAddress).To(Equal(uint64(1 * descriptor.GB)))
		})

		It("should cap every core when maxInsts is set", func() {
			cfg := &config.Machine{CPU: "atomic", NumCores: 2, MaxInsts: 500}
			sys, err := compose.Assemble(cfg)
			Expect(err).NotTo(HaveOccurred())
			for _, core := range sys.AllCores() {
				Expect(core.MaxInsts).To(Equal(uint64(500)))
			}
		})
	})

	Describe("determinism", func() {
		It("should produce the same structural shape from the same config", func() {
			build := func() *compose.System {
				cfg := &config.Machine{CPU: "timing", NumCores: 2}
				sys, err := compose.Assemble(cfg)
				Expect(err).NotTo(HaveOccurred())
				return sys
			}
			a, b := build(), build()

			Expect(a.NumCores()).To(Equal(b.NumCores()))
			Expect(a.MemMode).To(Equal(b.MemMode))
			Expect(len(a.Connections())).To(Equal(len(b.Connections())))
			for i, conn := range a.Connections() {
				Expect(conn.NumPorts()).To(Equal(b.Connections()[i].NumPorts()))
			}
		})
	})

	Describe("repeated composition", func() {
		It("should keep core ids monotonic across assembler calls", func() {
			sys := compose.NewSystem()
			first := &config.Machine{CPU: "atomic", NumCores: 4}
			Expect(config.Validate(first)).To(Succeed())
			Expect(compose.AssembleCluster(sys, "cluster0", first)).To(Succeed())

			second := &config.Machine{CPU: "timing", NumCores: 2}
			Expect(config.Validate(second)).To(Succeed())
			Expect(compose.AssembleCluster(sys, "cluster1", second)).To(Succeed())

			cores := sys.AllCores()
			Expect(cores).To(HaveLen(6))
			Expect(cores[4].ID).To(Equal(4))
			Expect(cores[5].ID).To(Equal(5))
			Expect(cores[5].SocketID).To(Equal(1))
		})
	})
})
