package descriptor

import (
	"strings"
	"testing"
)

func TestCoreSpecValidateWidths(t *testing.T) {
	spec := PostKCore()
	spec.IssueWidth = 0
	err := spec.Validate()
	if err == nil {
		t.Fatal("expected error for zero issue width")
	}
	if !strings.Contains(err.Error(), "issueWidth") {
		t.Errorf("error %q does not name issueWidth", err)
	}
}

func TestCoreSpecValidateROBCapacity(t *testing.T) {
	// A reorder buffer smaller than the combined load/store queues is a
	// deadlock hazard and must be rejected up front.
	spec := PostKCore()
	spec.ROBEntries = spec.LQEntries + spec.SQEntries - 1
	err := spec.Validate()
	if err == nil {
		t.Fatal("expected error for undersized ROB")
	}
	if !strings.Contains(err.Error(), "robEntries") {
		t.Errorf("error %q does not name robEntries", err)
	}
}

func TestCoreSpecValidateMemoryCoverage(t *testing.T) {
	spec := PostKCore()
	spec.FUs = &FUPool{Units: []FuncUnit{
		{Name: "IntOnly", Count: 1, Ops: []OpLatency{Op(OpIntAlu, 1)}},
	}}
	err := spec.Validate()
	if err == nil {
		t.Fatal("expected error for missing memory units")
	}
	if !strings.Contains(err.Error(), "MemRead") {
		t.Errorf("error %q does not list the uncovered classes", err)
	}
}

func TestCoreSpecValidateNegativeStageDelay(t *testing.T) {
	spec := PostKCore()
	spec.StageDelays[Link(StageFetch, StageDecode)] = -1
	if err := spec.Validate(); err == nil {
		t.Fatal("expected error for negative stage delay")
	}
}

func TestCoreSpecValidateRequiresPredictor(t *testing.T) {
	spec := PostKCore()
	spec.BranchPred = nil
	err := spec.Validate()
	if err == nil {
		t.Fatal("expected error for missing branch predictor")
	}
	if !strings.Contains(err.Error(), "branch predictor") {
		t.Errorf("error %q does not name the branch predictor", err)
	}
}
