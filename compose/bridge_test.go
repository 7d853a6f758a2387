package compose_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/example/soctopo/compose"
)

var _ = Describe("ExternalCluster", func() {
	var (
		sys  *compose.System
		clk  compose.ClockDomain
		ctrl compose.InterruptControllerSpec
	)

	BeforeEach(func() {
		sys = compose.NewSystem()
		clk = compose.ClockDomain{FreqMHz: 2000, Voltage: "1.2V"}
		ctrl = compose.DefaultControllerSpec()
	})

	Describe("construction limits", func() {
		It("should reject more cores than the model ships variants for", func() {
			_, err := compose.NewExternalCluster(sys, "ext0", 5, clk, ctrl)
			Expect(err).To(MatchError(ContainSubstring("at most 4 cores")))
		})

		It("should reject a controller that claims no address ranges", func() {
			ctrl.AddrRanges = nil
			_, err := compose.NewExternalCluster(sys, "ext0", 2, clk, ctrl)
			Expect(err).To(MatchError(ContainSubstring("no address ranges")))
		})

		It("should accept the maximum core count", func() {
			c, err := compose.NewExternalCluster(sys, "ext0", 4, clk, ctrl)
			Expect(err).NotTo(HaveOccurred())
			Expect(c.Cores()).To(HaveLen(4))
		})
	})

	Describe("affinity and redistributor layout", func() {
		It("should serialize monotonic affinities comma-joined", func() {
			c, err := compose.NewExternalCluster(sys, "ext0", 4, clk, ctrl)
			Expect(err).NotTo(HaveOccurred())
			Expect(c.Affinities).To(Equal("0.0.0.0,0.0.1.0,0.0.2.0,0.0.3.0"))
		})

		It("should stride frames by 128KiB for the v3 generation", func() {
			c, err := compose.NewExternalCluster(sys, "ext0", 4, clk, ctrl)
			Expect(err).NotTo(HaveOccurred())

			for i, frame := range c.RedistTable {
				Expect(frame.Base).To(Equal(ctrl.RedistBase + 0x20000*uint64(i)))
			}
		})

		It("should stride frames by 256KiB for the v4.1 generation", func() {
			ctrl.V41 = true
			c, err := compose.NewExternalCluster(sys, "ext0", 4, clk, ctrl)
			Expect(err).NotTo(HaveOccurred())

			for i, frame := range c.RedistTable {
				Expect(frame.Base).To(Equal(ctrl.RedistBase + 0x40000*uint64(i)))
			}
		})

		It("should keep frame bases pairwise distinct in both generations", func() {
			for _, v41 := range []bool{false, true} {
				s := compose.NewSystem()
				spec := compose.DefaultControllerSpec()
				spec.V41 = v41

				c, err := compose.NewExternalCluster(s, "ext0", 4, clk, spec)
				Expect(err).NotTo(HaveOccurred())

				seen := make(map[uint64]bool)
				for _, frame := range c.RedistTable {
					Expect(seen[frame.Base]).To(BeFalse())
					seen[frame.Base] = true
				}
			}
		})
	})

	Describe("bridge fabric", func() {
		It("should hand the bridge set to the system", func() {
			_, err := compose.NewExternalCluster(sys, "ext0", 2, clk, ctrl)
			Expect(err).NotTo(HaveOccurred())

			Expect(sys.Bridges).NotTo(BeNil())
			Expect(sys.Bridges.All()).To(HaveLen(4))
			for _, conn := range sys.Bridges.All() {
				Expect(conn.Kind).To(Equal(compose.KindBridge))
			}
		})

		It("should materialize the I/O bus", func() {
			_, err := compose.NewExternalCluster(sys, "ext0", 2, clk, ctrl)
			Expect(err).NotTo(HaveOccurred())
			Expect(sys.IOBus).NotTo(BeNil())
			Expect(sys.IOBus.NumPorts()).To(Equal(1))
		})

		It("should plug each core's port into the forward bridge", func() {
			c, err := compose.NewExternalCluster(sys, "ext0", 3, clk, ctrl)
			Expect(err).NotTo(HaveOccurred())

			Expect(sys.Bridges.AmbaToTLM.NumPorts()).To(Equal(3))
			for _, core := range c.Cores() {
				Expect(core.CachedPort.Attached()).To(BeTrue())
			}
		})

		It("should filter the reverse bridge to the claimed ranges", func() {
			_, err := compose.NewExternalCluster(sys, "ext0", 2, clk, ctrl)
			Expect(err).NotTo(HaveOccurred())

			Expect(sys.Bridges.AddrRanges).To(Equal(ctrl.AddrRanges))
			// The reverse path taps the shared memory bus.
			Expect(sys.MemBus.NumPorts()).To(Equal(1))
		})
	})

	Describe("native-side fixups", func() {
		It("should disable the alternate boot path and pin the reset vector", func() {
			c, err := compose.NewExternalCluster(sys, "ext0", 2, clk, ctrl)
			Expect(err).NotTo(HaveOccurred())

			for _, ext := range c.ExternalCores() {
				Expect(ext.SemihostingEnabled).To(BeFalse())
				Expect(ext.ResetVectorBase).To(Equal(uint64(0x10)))
			}
		})

		It("should bind each core its own redistributor frame", func() {
			c, err := compose.NewExternalCluster(sys, "ext0", 2, clk, ctrl)
			Expect(err).NotTo(HaveOccurred())

			ext := c.ExternalCores()
			Expect(ext[0].Redistributor.Affinity).To(Equal("0.0.0.0"))
			Expect(ext[1].Redistributor.Affinity).To(Equal("0.0.1.0"))
			Expect(ext[1].Redistributor.Base).NotTo(Equal(ext[0].Redistributor.Base))
		})
	})

	Describe("capability contract", func() {
		var c *compose.ExternalCluster

		BeforeEach(func() {
			var err error
			c, err = compose.NewExternalCluster(sys, "ext0", 2, clk, ctrl)
			Expect(err).NotTo(HaveOccurred())
		})

		It("should report atomic non-caching mode and no cache demand", func() {
			Expect(c.MemoryMode()).To(Equal(compose.MemAtomicNonCaching))
			Expect(c.RequireCaches()).To(BeFalse())
		})

		It("should treat cache construction as a no-op", func() {
			Expect(c.AddL1()).To(Succeed())
			Expect(c.AddL2(clk)).To(Succeed())
			Expect(c.ConnectMemSide(sys.MemBus)).To(Succeed())

			for _, core := range c.Cores() {
				Expect(core.L1I).To(BeNil())
				Expect(core.L1D).To(BeNil())
			}
		})

		It("should share the system core-id space with native clusters", func() {
			second, err := compose.NewCPUCluster(sys, "cluster1", 2, clk,
				compose.Prototypes()["atomic"])
			Expect(err).NotTo(HaveOccurred())

			Expect(second.Cores()[0].ID).To(Equal(2))
			Expect(second.Cores()[0].SocketID).To(Equal(1))
		})
	})
})
