package descriptor

// OpClass identifies a class of instructions that a functional unit can
// execute. The set mirrors the operation classes an out-of-order core's
// instruction mix can emit.
type OpClass string

const (
	OpIntAlu    OpClass = "IntAlu"
	OpIntMult   OpClass = "IntMult"
	OpIntDiv    OpClass = "IntDiv"
	OpIprAccess OpClass = "IprAccess"

	OpFloatAdd     OpClass = "FloatAdd"
	OpFloatCmp     OpClass = "FloatCmp"
	OpFloatCvt     OpClass = "FloatCvt"
	OpFloatMult    OpClass = "FloatMult"
	OpFloatMultAcc OpClass = "FloatMultAcc"
	OpFloatDiv     OpClass = "FloatDiv"
	OpFloatMisc    OpClass = "FloatMisc"
	OpFloatSqrt    OpClass = "FloatSqrt"

	OpSimdAdd          OpClass = "SimdAdd"
	OpSimdAddAcc       OpClass = "SimdAddAcc"
	OpSimdAlu          OpClass = "SimdAlu"
	OpSimdCmp          OpClass = "SimdCmp"
	OpSimdCvt          OpClass = "SimdCvt"
	OpSimdMisc         OpClass = "SimdMisc"
	OpSimdMult         OpClass = "SimdMult"
	OpSimdMultAcc      OpClass = "SimdMultAcc"
	OpSimdShift        OpClass = "SimdShift"
	OpSimdShiftAcc     OpClass = "SimdShiftAcc"
	OpSimdSqrt         OpClass = "SimdSqrt"
	OpSimdFloatAdd     OpClass = "SimdFloatAdd"
	OpSimdFloatAlu     OpClass = "SimdFloatAlu"
	OpSimdFloatCmp     OpClass = "SimdFloatCmp"
	OpSimdFloatCvt     OpClass = "SimdFloatCvt"
	OpSimdFloatMisc    OpClass = "SimdFloatMisc"
	OpSimdFloatMult    OpClass = "SimdFloatMult"
	OpSimdFloatMultAcc OpClass = "SimdFloatMultAcc"
	OpSimdFloatSqrt    OpClass = "SimdFloatSqrt"

	OpMemRead       OpClass = "MemRead"
	OpMemWrite      OpClass = "MemWrite"
	OpFloatMemRead  OpClass = "FloatMemRead"
	OpFloatMemWrite OpClass = "FloatMemWrite"
)

var knownOpClasses = map[OpClass]bool{
	OpIntAlu: true, OpIntMult: true, OpIntDiv: true, OpIprAccess: true,
	OpFloatAdd: true, OpFloatCmp: true, OpFloatCvt: true, OpFloatMult: true,
	OpFloatMultAcc: true, OpFloatDiv: true, OpFloatMisc: true, OpFloatSqrt: true,
	OpSimdAdd: true, OpSimdAddAcc: true, OpSimdAlu: true, OpSimdCmp: true,
	OpSimdCvt: true, OpSimdMisc: true, OpSimdMult: true, OpSimdMultAcc: true,
	OpSimdShift: true, OpSimdShiftAcc: true, OpSimdSqrt: true,
	OpSimdFloatAdd: true, OpSimdFloatAlu: true, OpSimdFloatCmp: true,
	OpSimdFloatCvt: true, OpSimdFloatMisc: true, OpSimdFloatMult: true,
	OpSimdFloatMultAcc: true, OpSimdFloatSqrt: true,
	OpMemRead: true, OpMemWrite: true, OpFloatMemRead: true, OpFloatMemWrite: true,
}

// Known reports whether the class is one of the declared operation classes.
func (c OpClass) Known() bool {
	return knownOpClasses[c]
}

// MemoryClasses returns the operation classes that dispatch through the
// load/store path. Used by the pool coverage lint for memory-capable cores.
func MemoryClasses() []OpClass {
	return []OpClass{OpMemRead, OpMemWrite, OpFloatMemRead, OpFloatMemWrite}
}
