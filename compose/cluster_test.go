package compose_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/example/soctopo/compose"
)

var _ = Describe("CPUCluster", func() {
	var (
		sys *compose.System
		clk compose.ClockDomain
	)

	BeforeEach(func() {
		sys = compose.NewSystem()
		clk = compose.ClockDomain{FreqMHz: 2000, Voltage: "1.2V"}
	})

	Describe("core id allocation", func() {
		It("should number cores from the system tally, gap-free", func() {
			c, err := compose.NewCPUCluster(sys, "cluster0", 4, clk,
				compose.Prototypes()["atomic"])
			Expect(err).NotTo(HaveOccurred())

			for i, core := range c.Cores() {
				Expect(core.ID).To(Equal(i))
				Expect(core.SocketID).To(Equal(0))
			}
		})

		It("should continue ids monotonically across clusters", func() {
			_, err := compose.NewCPUCluster(sys, "cluster0", 2, clk,
				compose.Prototypes()["atomic"])
			Expect(err).NotTo(HaveOccurred())

			second, err := compose.NewCPUCluster(sys, "cluster1", 2, clk,
				compose.Prototypes()["timing"])
			Expect(err).NotTo(HaveOccurred())

			Expect(second.Cores()[0].ID).To(Equal(2))
			Expect(second.Cores()[1].ID).To(Equal(3))
			Expect(second.Cores()[0].SocketID).To(Equal(1))
			Expect(sys.NumCores()).To(Equal(4))

			ids := make(map[int]bool)
			for _, core := range sys.AllCores() {
				Expect(ids[core.ID]).To(BeFalse())
				ids[core.ID] = true
			}
		})

		It("should reject a non-positive core count", func() {
			_, err := compose.NewCPUCluster(sys, "cluster0", 0, clk,
				compose.Prototypes()["atomic"])
			Expect(err).To(HaveOccurred())
		})

		It("should reject a prototype without a core spec", func() {
			_, err := compose.NewCPUCluster(sys, "cluster0", 1, clk,
				compose.CPUPrototype{Name: "empty"})
			Expect(err).To(MatchError(ContainSubstring("no core spec")))
		})

		It("should reject registering the same cluster twice", func() {
			c, err := compose.NewCPUCluster(sys, "cluster0", 2, clk,
				compose.Prototypes()["atomic"])
			Expect(err).NotTo(HaveOccurred())

			err = sys.AddCluster(c, 2)
			Expect(err).To(MatchError(ContainSubstring("already registered")))
			Expect(sys.NumCores()).To(Equal(2))
		})
	})

	Describe("AddL1", func() {
		It("should stamp a private instance pair per core", func() {
			c, err := compose.NewCPUCluster(sys, "cluster0", 2, clk,
				compose.Prototypes()["timing"])
			Expect(err).NotTo(HaveOccurred())
			Expect(c.AddL1()).To(Succeed())

			cores := c.Cores()
			Expect(cores[0].L1I).NotTo(BeNil())
			Expect(cores[0].L1D).NotTo(BeNil())
			Expect(cores[0].L1D).NotTo(BeIdenticalTo(cores[1].L1D))

			// Instances are private: resizing one core's cache must not
			// leak into its sibling.
			cores[0].L1D.Size *= 2
			Expect(cores[1].L1D.Size).NotTo(Equal(cores[0].L1D.Size))
		})

		It("should construct nothing for a cache-less prototype", func() {
			c, err := compose.NewCPUCluster(sys, "cluster0", 2, clk,
				compose.Prototypes()["atomic"])
			Expect(err).NotTo(HaveOccurred())
			Expect(c.AddL1()).To(Succeed())

			Expect(c.Cores()[0].L1I).To(BeNil())
			Expect(c.Cores()[0].L1D).To(BeNil())
		})
	})

	Describe("AddL2", func() {
		It("should build one shared L2 behind a crossbar", func() {
			c, err := compose.NewCPUCluster(sys, "cluster0", 4, clk,
				compose.Prototypes()["timing"])
			Expect(err).NotTo(HaveOccurred())
			Expect(c.AddL1()).To(Succeed())
			Expect(c.AddL2(clk)).To(Succeed())

			Expect(c.L2).NotTo(BeNil())
			// Four core ports plus the L2's own upstream port.
			Expect(c.ToL2Bus.NumPorts()).To(Equal(5))
		})

		It("should refuse to construct the L2 twice", func() {
			c, err := compose.NewCPUCluster(sys, "cluster0", 2, clk,
				compose.Prototypes()["timing"])
			Expect(err).NotTo(HaveOccurred())
			Expect(c.AddL2(clk)).To(Succeed())
			Expect(c.AddL2(clk)).To(MatchError(ContainSubstring("already constructed")))
		})

		It("should construct nothing when the prototype has no L2 type", func() {
			c, err := compose.NewCPUCluster(sys, "cluster0", 2, clk,
				compose.Prototypes()["atomic"])
			Expect(err).NotTo(HaveOccurred())
			Expect(c.AddL2(clk)).To(Succeed())
			Expect(c.L2).To(BeNil())
			Expect(c.ToL2Bus).To(BeNil())
		})
	})

	Describe("ConnectMemSide", func() {
		It("should present one upstream port when an L2 is present", func() {
			c, err := compose.NewCPUCluster(sys, "cluster0", 4, clk,
				compose.Prototypes()["timing"])
			Expect(err).NotTo(HaveOccurred())
			Expect(c.AddL1()).To(Succeed())
			Expect(c.AddL2(clk)).To(Succeed())
			Expect(c.ConnectMemSide(sys.MemBus)).To(Succeed())

			Expect(sys.MemBus.NumPorts()).To(Equal(1))
		})

		It("should present one port per core without an L2", func() {
			c, err := compose.NewCPUCluster(sys, "cluster0", 4, clk,
				compose.Prototypes()["atomic"])
			Expect(err).NotTo(HaveOccurred())
			Expect(c.ConnectMemSide(sys.MemBus)).To(Succeed())

			Expect(sys.MemBus.NumPorts()).To(Equal(4))
		})
	})

	Describe("workload binding", func() {
		It("should bind one workload per core in order", func() {
			c, err := compose.NewCPUCluster(sys, "cluster0", 2, clk,
				compose.Prototypes()["atomic"])
			Expect(err).NotTo(HaveOccurred())

			err = sys.BindWorkloads([]compose.Workload{
				{Reads: 10, Writes: 5, MaxAddress: 4096},
				{Reads: 20, Writes: 15, MaxAddress: 4096},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(c.Cores()[0].Workload.Reads).To(Equal(10))
			Expect(c.Cores()[1].Workload.Writes).To(Equal(15))
		})

		It("should reject a count mismatch instead of truncating", func() {
			_, err := compose.NewCPUCluster(sys, "cluster0", 3, clk,
				compose.Prototypes()["atomic"])
			Expect(err).NotTo(HaveOccurred())

			err = sys.BindWorkloads([]compose.Workload{{Reads: 1}})
			Expect(err).To(MatchError("cannot map 1 workload(s) onto 3 core(s)"))
		})
	})

	Describe("CheckStructure", func() {
		It("should flag a core whose upstream port is dangling", func() {
			_, err := compose.NewCPUCluster(sys, "cluster0", 1, clk,
				compose.Prototypes()["atomic"])
			Expect(err).NotTo(HaveOccurred())
			Expect(sys.BindWorkloads([]compose.Workload{{Reads: 1}})).To(Succeed())

			Expect(sys.CheckStructure()).To(MatchError(ContainSubstring("dangling")))
		})

		It("should flag a core without a workload", func() {
			c, err := compose.NewCPUCluster(sys, "cluster0", 1, clk,
				compose.Prototypes()["atomic"])
			Expect(err).NotTo(HaveOccurred())
			Expect(c.ConnectMemSide(sys.MemBus)).To(Succeed())

			Expect(sys.CheckStructure()).To(MatchError(ContainSubstring("no workload")))
		})

		It("should pass a fully wired system", func() {
			c, err := compose.NewCPUCluster(sys, "cluster0", 2, clk,
				compose.Prototypes()["atomic"])
			Expect(err).NotTo(HaveOccurred())
			Expect(c.ConnectMemSide(sys.MemBus)).To(Succeed())
			Expect(sys.BindWorkloads([]compose.Workload{{Reads: 1}, {Reads: 1}})).To(Succeed())

			Expect(sys.CheckStructure()).To(Succeed())
		})
	})
})
