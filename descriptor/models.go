package descriptor

// Built-in model tables. These are declarative data: the assembly logic in
// the compose package consumes them but never re-derives them.

// PostKFUPool returns the functional-unit mix of the PostK out-of-order
// core: two integer ports, two FP/SIMD ports, and two load/store units.
func PostKFUPool() *FUPool {
	return &FUPool{Units: []FuncUnit{
		{
			Name:  "IntA",
			Count: 1,
			Ops: []OpLatency{
				Op(OpIntAlu, 1),
				Op(OpIntMult, 5),
				Op(OpIprAccess, 3),
			},
		},
		{
			Name:  "IntB",
			Count: 1,
			Ops: []OpLatency{
				Op(OpIntAlu, 1),
				OpUnpipelined(OpIntDiv, 12),
				Op(OpIprAccess, 3),
			},
		},
		{
			Name:  "FLA",
			Count: 1,
			Ops: []OpLatency{
				Op(OpSimdAdd, 4),
				Op(OpSimdAddAcc, 8),
				Op(OpSimdAlu, 4),
				Op(OpSimdCmp, 4),
				Op(OpSimdMisc, 4),
				Op(OpSimdCvt, 9),
				Op(OpSimdMult, 9),
				Op(OpSimdMultAcc, 9),
				Op(OpSimdShift, 4),
				Op(OpSimdShiftAcc, 4),
				Op(OpSimdSqrt, 4),
				Op(OpSimdFloatAdd, 9),
				Op(OpSimdFloatAlu, 4),
				Op(OpSimdFloatCmp, 4),
				Op(OpSimdFloatCvt, 9),
				Op(OpSimdFloatMisc, 4),
				Op(OpSimdFloatMult, 9),
				Op(OpSimdFloatMultAcc, 9),
				OpUnpipelined(OpSimdFloatSqrt, 154),
				Op(OpFloatAdd, 9),
				Op(OpFloatCmp, 4),
				Op(OpFloatCvt, 9),
				Op(OpFloatMult, 9),
				Op(OpFloatMultAcc, 9),
				OpUnpipelined(OpFloatDiv, 29),
				Op(OpFloatMisc, 4),
				OpUnpipelined(OpFloatSqrt, 29),
			},
		},
		{
			Name:  "FLB",
			Count: 1,
			Ops: []OpLatency{
				Op(OpSimdAdd, 4),
				Op(OpSimdAddAcc, 8),
				Op(OpSimdAlu, 4),
				Op(OpSimdMisc, 4),
				Op(OpSimdCvt, 9),
				Op(OpSimdMult, 9),
				Op(OpSimdMultAcc, 9),
				Op(OpSimdShift, 4),
				Op(OpSimdShiftAcc, 4),
				Op(OpSimdFloatAdd, 9),
				Op(OpSimdFloatAlu, 4),
				Op(OpSimdFloatCvt, 9),
				Op(OpSimdFloatMisc, 4),
				Op(OpSimdFloatMult, 9),
				Op(OpSimdFloatMultAcc, 9),
				Op(OpFloatAdd, 9),
				Op(OpFloatCmp, 4),
				Op(OpFloatCvt, 9),
				Op(OpFloatMult, 9),
				Op(OpFloatMultAcc, 9),
				Op(OpFloatMisc, 4),
			},
		},
		{
			Name:  "LoadStoreA",
			Count: 1,
			Ops: []OpLatency{
				Op(OpMemRead, 2),
				Op(OpFloatMemRead, 5),
				Op(OpMemWrite, 1),
				Op(OpFloatMemWrite, 1),
			},
		},
		{
			Name:  "LoadStoreB",
			Count: 1,
			Ops: []OpLatency{
				Op(OpMemRead, 2),
				Op(OpFloatMemRead, 5),
				Op(OpMemWrite, 1),
				Op(OpFloatMemWrite, 1),
			},
		},
	}}
}

// PostKBranchPred returns the PostK bi-mode branch predictor sizing.
func PostKBranchPred() *BranchPredictorSpec {
	return &BranchPredictorSpec{
		Name:                "PostKBiMode",
		GlobalPredictorSize: 16384,
		GlobalCtrBits:       2,
		ChoicePredictorSize: 16384,
		ChoiceCtrBits:       2,
		BTBEntries:          4096,
		BTBTagSize:          18,
		RASSize:             8,
		InstShiftAmt:        2,
	}
}

// PostKCore returns the PostK out-of-order core descriptor: a 8-wide fetch,
// 4-wide decode/rename/issue/commit machine with deep inter-stage delays.
func PostKCore() *CoreSpec {
	return &CoreSpec{
		Name: "PostK",
		StageDelays: map[StageLink]int{
			Link(StageFetch, StageDecode):  2,
			Link(StageDecode, StageRename): 2,
			Link(StageRename, StageIEW):    2,
			Link(StageIEW, StageCommit):    1,
			Link(StageRename, StageROB):    1,
			Link(StageDecode, StageFetch):  1,
			Link(StageRename, StageFetch):  1,
			Link(StageIEW, StageFetch):     1,
			Link(StageCommit, StageFetch):  1,
			Link(StageRename, StageDecode): 1,
			Link(StageIEW, StageDecode):    1,
			Link(StageCommit, StageDecode): 1,
			Link(StageIEW, StageRename):    1,
			Link(StageCommit, StageRename): 1,
			Link(StageCommit, StageIEW):    1,
		},
		FetchWidth:       8,
		DecodeWidth:      4,
		RenameWidth:      4,
		DispatchWidth:    4,
		IssueWidth:       4,
		WritebackWidth:   4,
		CommitWidth:      4,
		SquashWidth:      40,
		FetchBufferSize:  64,
		LQEntries:        40,
		SQEntries:        24,
		IQEntries:        48,
		ROBEntries:       128,
		NumPhysIntRegs:   96,
		NumPhysFloatRegs: 512,
		NumPhysVecRegs:   128,
		TrapLatency:      13,
		CacheLoadPorts:   2,
		CacheStorePorts:  1,
		SwitchedOut:      false,
		FUs:              PostKFUPool(),
		BranchPred:       PostKBranchPred(),
	}
}

// PostKICache returns the PostK L1 instruction cache.
func PostKICache() *CacheSpec {
	return &CacheSpec{
		Name:            "PostKICache",
		TagLatency:      2,
		DataLatency:     3,
		ResponseLatency: 3,
		Size:            64 * KB,
		Assoc:           4,
		MSHRs:           8,
		TargetsPerMSHR:  8,
		ReadOnly:        true,
	}
}

// PostKDCache returns the PostK L1 data cache with its stride prefetcher.
func PostKDCache() *CacheSpec {
	return &CacheSpec{
		Name:            "PostKDCache",
		TagLatency:      2,
		DataLatency:     3,
		ResponseLatency: 3,
		Size:            64 * KB,
		Assoc:           4,
		MSHRs:           21,
		TargetsPerMSHR:  32,
		WriteBuffers:    21,
		Prefetcher:      &PrefetcherSpec{Kind: "stride", Degree: 8, Latency: 1},
	}
}

// PostKL2 returns the PostK shared L2.
func PostKL2() *CacheSpec {
	return &CacheSpec{
		Name:            "PostKL2",
		TagLatency:      37,
		DataLatency:     37,
		ResponseLatency: 37,
		Size:            8 * MB,
		Assoc:           16,
		MSHRs:           64,
		TargetsPerMSHR:  12,
		WriteBuffers:    64,
		Clusivity:       MostlyInclusive,
	}
}

// GenericL1I returns the generic L1 instruction cache.
func GenericL1I() *CacheSpec {
	return &CacheSpec{
		Name:            "L1I",
		TagLatency:      1,
		DataLatency:     1,
		ResponseLatency: 1,
		Size:            48 * KB,
		Assoc:           3,
		MSHRs:           4,
		TargetsPerMSHR:  8,
		ReadOnly:        true,
	}
}

// GenericL1D returns the generic L1 data cache.
func GenericL1D() *CacheSpec {
	return &CacheSpec{
		Name:            "L1D",
		TagLatency:      2,
		DataLatency:     2,
		ResponseLatency: 1,
		Size:            32 * KB,
		Assoc:           2,
		MSHRs:           16,
		TargetsPerMSHR:  16,
		WriteBuffers:    16,
	}
}

// GenericL2 returns the generic shared L2.
func GenericL2() *CacheSpec {
	return &CacheSpec{
		Name:            "L2",
		TagLatency:      12,
		DataLatency:     12,
		ResponseLatency: 5,
		Size:            1 * MB,
		Assoc:           16,
		MSHRs:           32,
		TargetsPerMSHR:  8,
		WriteBuffers:    8,
		Clusivity:       MostlyExclusive,
	}
}

// GenericL3 returns the generic L3, declared for completeness; no built-in
// prototype wires a third level today.
func GenericL3() *CacheSpec {
	return &CacheSpec{
		Name:            "L3",
		TagLatency:      20,
		DataLatency:     20,
		ResponseLatency: 20,
		Size:            16 * MB,
		Assoc:           16,
		MSHRs:           20,
		TargetsPerMSHR:  12,
		Clusivity:       MostlyExclusive,
	}
}
