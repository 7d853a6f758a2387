package compose

import "github.com/example/soctopo/descriptor"

// atomicCore is the functional core model used by the cache-less variants.
// Its pipeline parameters are nominal; atomic cores complete accesses in
// one call and the kernel ignores the widths.
func atomicCore() *descriptor.CoreSpec {
	return &descriptor.CoreSpec{
		Name:             "AtomicSimple",
		FetchWidth:       1,
		DecodeWidth:      1,
		RenameWidth:      1,
		DispatchWidth:    1,
		IssueWidth:       1,
		WritebackWidth:   1,
		CommitWidth:      1,
		SquashWidth:      1,
		FetchBufferSize:  64,
		LQEntries:        1,
		SQEntries:        1,
		IQEntries:        1,
		ROBEntries:       2,
		NumPhysIntRegs:   32,
		NumPhysFloatRegs: 32,
		NumPhysVecRegs:   32,
		TrapLatency:      1,
		CacheLoadPorts:   1,
		CacheStorePorts:  1,
		FUs: &descriptor.FUPool{Units: []descriptor.FuncUnit{
			{
				Name:  "All",
				Count: 1,
				Ops: []descriptor.OpLatency{
					descriptor.Op(descriptor.OpIntAlu, 1),
					descriptor.Op(descriptor.OpMemRead, 1),
					descriptor.Op(descriptor.OpMemWrite, 1),
					descriptor.Op(descriptor.OpFloatMemRead, 1),
					descriptor.Op(descriptor.OpFloatMemWrite, 1),
				},
			},
		}},
		BranchPred: &descriptor.BranchPredictorSpec{
			Name:                "Static",
			GlobalPredictorSize: 1,
			GlobalCtrBits:       1,
			ChoicePredictorSize: 1,
			ChoiceCtrBits:       1,
			BTBEntries:          1,
			BTBTagSize:          1,
			RASSize:             1,
		},
	}
}

// Prototypes returns the core-type selector table. Each entry is ordered
// (core, l1i, l1d, l2); a nil cache type means that level is not present
// for the type.
func Prototypes() map[string]CPUPrototype {
	return map[string]CPUPrototype{
		"atomic": {
			Name: "atomic",
			Core: atomicCore(),
			Mode: MemAtomic,
		},
		// Atomic core with a cache hierarchy attached, used to study cache
		// contents without pipeline timing.
		"ac": {
			Name: "ac",
			Core: atomicCore(),
			L1I:  descriptor.GenericL1I(),
			L1D:  descriptor.GenericL1D(),
			L2:   descriptor.GenericL2(),
			Mode: MemAtomic,
		},
		// Hardware-virtualized variant: same shape as atomic, different
		// capability flags.
		"virt": {
			Name: "virt",
			Core: atomicCore(),
			Mode: MemAtomicNonCaching,
		},
		"o3": {
			Name:       "o3",
			Core:       descriptor.PostKCore(),
			L1I:        descriptor.GenericL1I(),
			L1D:        descriptor.GenericL1D(),
			L2:         descriptor.GenericL2(),
			Mode:       MemTiming,
			NeedCaches: true,
		},
		"timing": {
			Name:       "timing",
			Core:       descriptor.PostKCore(),
			L1I:        descriptor.PostKICache(),
			L1D:        descriptor.PostKDCache(),
			L2:         descriptor.PostKL2(),
			Mode:       MemTiming,
			NeedCaches: true,
		},
	}
}
