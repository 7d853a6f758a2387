package descriptor

import "fmt"

// BranchPredictorSpec declares the sizing of a bi-mode branch predictor:
// the two direction-predictor tables with their counter widths, the
// branch-target buffer, and the return-address stack.
type BranchPredictorSpec struct {
	Name string `yaml:"name"`

	GlobalPredictorSize int `yaml:"globalPredictorSize"`
	GlobalCtrBits       int `yaml:"globalCtrBits"`
	ChoicePredictorSize int `yaml:"choicePredictorSize"`
	ChoiceCtrBits       int `yaml:"choiceCtrBits"`

	BTBEntries int `yaml:"btbEntries"`
	BTBTagSize int `yaml:"btbTagSize"`

	RASSize      int `yaml:"rasSize"`
	InstShiftAmt int `yaml:"instShiftAmt"`
}

// Validate fails fast on malformed predictor sizing.
func (b *BranchPredictorSpec) Validate() error {
	if b.Name == "" {
		return fmt.Errorf("branch predictor spec has no name")
	}
	check := func(field string, v int) error {
		if v < 1 {
			return fmt.Errorf("branch predictor %q: %s must be >= 1, got %d", b.Name, field, v)
		}
		return nil
	}
	if err := check("globalPredictorSize", b.GlobalPredictorSize); err != nil {
		return err
	}
	if err := check("globalCtrBits", b.GlobalCtrBits); err != nil {
		return err
	}
	if err := check("choicePredictorSize", b.ChoicePredictorSize); err != nil {
		return err
	}
	if err := check("choiceCtrBits", b.ChoiceCtrBits); err != nil {
		return err
	}
	if err := check("btbEntries", b.BTBEntries); err != nil {
		return err
	}
	if err := check("btbTagSize", b.BTBTagSize); err != nil {
		return err
	}
	if err := check("rasSize", b.RASSize); err != nil {
		return err
	}
	if b.InstShiftAmt < 0 {
		return fmt.Errorf("branch predictor %q: instShiftAmt must be >= 0, got %d",
			b.Name, b.InstShiftAmt)
	}
	return nil
}
