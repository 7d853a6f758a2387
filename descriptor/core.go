package descriptor

import "fmt"

// Stage names a pipeline stage for the inter-stage delay matrix.
type Stage string

const (
	StageFetch  Stage = "fetch"
	StageDecode Stage = "decode"
	StageRename Stage = "rename"
	StageIEW    Stage = "iew" // issue/execute/writeback
	StageCommit Stage = "commit"
	StageROB    Stage = "rob"
)

// StageLink is one (producer, consumer) pair in the sparse delay matrix.
type StageLink struct {
	From Stage
	To   Stage
}

// Link builds a StageLink.
func Link(from, to Stage) StageLink {
	return StageLink{From: from, To: to}
}

// CoreSpec declares an out-of-order core: inter-stage communication delays,
// structural widths per stage, queue capacities, and references to one
// functional-unit pool and one branch predictor. It is pure configuration;
// the pipeline algorithms that consume it live in the simulation kernel.
type CoreSpec struct {
	Name string `yaml:"name"`

	// Sparse (producer, consumer) -> cycle delay matrix. Pairs not present
	// default to the kernel's single-cycle forwarding.
	StageDelays map[StageLink]int `yaml:"-"`

	// Structural widths.
	FetchWidth      int `yaml:"fetchWidth"`
	DecodeWidth     int `yaml:"decodeWidth"`
	RenameWidth     int `yaml:"renameWidth"`
	DispatchWidth   int `yaml:"dispatchWidth"`
	IssueWidth      int `yaml:"issueWidth"`
	WritebackWidth  int `yaml:"wbWidth"`
	CommitWidth     int `yaml:"commitWidth"`
	SquashWidth     int `yaml:"squashWidth"`
	FetchBufferSize int `yaml:"fetchBufferSize"`

	// Queue capacities.
	LQEntries  int `yaml:"lqEntries"`
	SQEntries  int `yaml:"sqEntries"`
	IQEntries  int `yaml:"iqEntries"`
	ROBEntries int `yaml:"robEntries"`

	// Physical register files.
	NumPhysIntRegs   int `yaml:"numPhysIntRegs"`
	NumPhysFloatRegs int `yaml:"numPhysFloatRegs"`
	NumPhysVecRegs   int `yaml:"numPhysVecRegs"`

	TrapLatency     int `yaml:"trapLatency"`
	CacheLoadPorts  int `yaml:"cacheLoadPorts"`
	CacheStorePorts int `yaml:"cacheStorePorts"`

	// SwitchedOut marks a core that is constructed but not active.
	SwitchedOut bool `yaml:"switchedOut"`

	FUs        *FUPool              `yaml:"fus"`
	BranchPred *BranchPredictorSpec `yaml:"branchPred"`
}

// Validate fails fast on malformed core parameters and runs the
// configuration-time lints: functional-unit coverage of the memory classes
// and the reorder-buffer capacity expectation.
func (c *CoreSpec) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("core spec has no name")
	}

	widths := []struct {
		field string
		value int
	}{
		{"fetchWidth", c.FetchWidth},
		{"decodeWidth", c.DecodeWidth},
		{"renameWidth", c.RenameWidth},
		{"dispatchWidth", c.DispatchWidth},
		{"issueWidth", c.IssueWidth},
		{"wbWidth", c.WritebackWidth},
		{"commitWidth", c.CommitWidth},
		{"squashWidth", c.SquashWidth},
		{"fetchBufferSize", c.FetchBufferSize},
		{"lqEntries", c.LQEntries},
		{"sqEntries", c.SQEntries},
		{"iqEntries", c.IQEntries},
		{"robEntries", c.ROBEntries},
		{"numPhysIntRegs", c.NumPhysIntRegs},
		{"numPhysFloatRegs", c.NumPhysFloatRegs},
		{"cacheLoadPorts", c.CacheLoadPorts},
		{"cacheStorePorts", c.CacheStorePorts},
	}
	for _, w := range widths {
		if w.value < 1 {
			return fmt.Errorf("core %q: %s must be >= 1, got %d", c.Name, w.field, w.value)
		}
	}

	for link, delay := range c.StageDelays {
		if delay < 0 {
			return fmt.Errorf("core %q: stage delay %s->%s must be >= 0, got %d",
				c.Name, link.From, link.To, delay)
		}
	}

	// A reorder buffer smaller than the combined load and store queues can
	// deadlock on a full LSQ.
	if c.ROBEntries < c.LQEntries+c.SQEntries {
		return fmt.Errorf("core %q: robEntries (%d) must be >= lqEntries+sqEntries (%d)",
			c.Name, c.ROBEntries, c.LQEntries+c.SQEntries)
	}

	if c.FUs == nil {
		return fmt.Errorf("core %q: no functional unit pool assigned", c.Name)
	}
	if err := c.FUs.Validate(); err != nil {
		return fmt.Errorf("core %q: %w", c.Name, err)
	}
	if gaps := c.FUs.CoverageGaps(MemoryClasses()); len(gaps) != 0 {
		return fmt.Errorf("core %q: functional unit pool covers no unit for classes %v",
			c.Name, gaps)
	}

	if c.BranchPred == nil {
		return fmt.Errorf("core %q: no branch predictor assigned", c.Name)
	}
	if err := c.BranchPred.Validate(); err != nil {
		return fmt.Errorf("core %q: %w", c.Name, err)
	}
	return nil
}
