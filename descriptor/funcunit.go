package descriptor

import "fmt"

// OpLatency declares the timing of one operation class on one functional
// unit: execution latency in cycles, whether the unit is pipelined for the
// class, and how many operations of the class issue per cycle.
type OpLatency struct {
	Class     OpClass `yaml:"class"`
	Latency   int     `yaml:"latency"`
	Pipelined bool    `yaml:"pipelined"`
	IssueRate int     `yaml:"issueRate"`
}

// Op is a convenience constructor for a pipelined, single-issue OpLatency.
func Op(class OpClass, latency int) OpLatency {
	return OpLatency{Class: class, Latency: latency, Pipelined: true, IssueRate: 1}
}

// OpUnpipelined constructs an OpLatency for an unpipelined operation class.
func OpUnpipelined(class OpClass, latency int) OpLatency {
	return OpLatency{Class: class, Latency: latency, Pipelined: false, IssueRate: 1}
}

// FuncUnit describes one functional unit: the operation classes it accepts
// and how many copies of the unit exist. Constructed once at configuration
// time and immutable after it is attached to a pool.
type FuncUnit struct {
	Name  string      `yaml:"name"`
	Ops   []OpLatency `yaml:"ops"`
	Count int         `yaml:"count"`
}

// Validate checks the unit's parameters. An operation class may appear at
// most once within one unit; the same class on two different units of a
// pool is legal and represents parallel issue ports.
func (u *FuncUnit) Validate() error {
	if u.Name == "" {
		return fmt.Errorf("functional unit has no name")
	}
	if u.Count < 1 {
		return fmt.Errorf("functional unit %q: count must be >= 1, got %d", u.Name, u.Count)
	}
	if len(u.Ops) == 0 {
		return fmt.Errorf("functional unit %q: no operation classes declared", u.Name)
	}
	seen := make(map[OpClass]bool, len(u.Ops))
	for _, op := range u.Ops {
		if !op.Class.Known() {
			return fmt.Errorf("functional unit %q: unknown operation class %q", u.Name, op.Class)
		}
		if op.Latency < 1 {
			return fmt.Errorf("functional unit %q: class %s: latency must be >= 1, got %d",
				u.Name, op.Class, op.Latency)
		}
		if op.IssueRate < 1 {
			return fmt.Errorf("functional unit %q: class %s: issue rate must be >= 1, got %d",
				u.Name, op.Class, op.IssueRate)
		}
		if seen[op.Class] {
			return fmt.Errorf("functional unit %q: duplicate operation class %s", u.Name, op.Class)
		}
		seen[op.Class] = true
	}
	return nil
}

// FUPool groups the functional units available to one core.
type FUPool struct {
	Units []FuncUnit `yaml:"units"`
}

// Validate checks every unit in the pool.
func (p *FUPool) Validate() error {
	if len(p.Units) == 0 {
		return fmt.Errorf("functional unit pool is empty")
	}
	for i := range p.Units {
		if err := p.Units[i].Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Covers reports whether at least one unit in the pool accepts the class.
func (p *FUPool) Covers(class OpClass) bool {
	for i := range p.Units {
		for _, op := range p.Units[i].Ops {
			if op.Class == class {
				return true
			}
		}
	}
	return false
}

// CoverageGaps returns the required classes that no unit in the pool
// accepts. A non-empty result means dispatch of those classes would fail at
// run time, so callers treat it as a configuration error.
func (p *FUPool) CoverageGaps(required []OpClass) []OpClass {
	var gaps []OpClass
	for _, class := range required {
		if !p.Covers(class) {
			gaps = append(gaps, class)
		}
	}
	return gaps
}
