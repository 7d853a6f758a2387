package descriptor

import "fmt"

// Clusivity is the inclusion policy between a cache and the level above it.
type Clusivity string

const (
	Inclusive       Clusivity = "inclusive"
	MostlyInclusive Clusivity = "mostly_incl"
	MostlyExclusive Clusivity = "mostly_excl"
	Exclusive       Clusivity = "exclusive"
)

func (c Clusivity) valid() bool {
	switch c {
	case Inclusive, MostlyInclusive, MostlyExclusive, Exclusive:
		return true
	}
	return false
}

// PrefetcherSpec declares an optional hardware prefetcher attached to a
// cache level.
type PrefetcherSpec struct {
	Kind    string `yaml:"kind"` // "stride" is the only kind declared today
	Degree  int    `yaml:"degree"`
	Latency int    `yaml:"latency"`
}

// CacheSpec declares one cache level: access timing, geometry, and the
// queueing resources that bound outstanding misses. A spec is a template;
// the composer stamps private copies when it attaches caches to cores.
type CacheSpec struct {
	Name string `yaml:"name"`

	// Timing, in cycles.
	TagLatency      int `yaml:"tagLatency"`
	DataLatency     int `yaml:"dataLatency"`
	ResponseLatency int `yaml:"responseLatency"`

	// Geometry.
	Size  ByteSize `yaml:"size"`
	Assoc int      `yaml:"assoc"`

	// Queueing. MSHRs bound the number of in-flight misses; each MSHR
	// holds up to TargetsPerMSHR coalesced requesters.
	MSHRs          int `yaml:"mshrs"`
	TargetsPerMSHR int `yaml:"tgtsPerMshr"`
	WriteBuffers   int `yaml:"writeBuffers"`

	ReadOnly       bool      `yaml:"readOnly"`
	WritebackClean bool      `yaml:"writebackClean"`
	Clusivity      Clusivity `yaml:"clusivity"`

	Prefetcher *PrefetcherSpec `yaml:"prefetcher"`
}

// Validate fails fast on malformed parameters, naming the offending field
// and the owning descriptor.
func (c *CacheSpec) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("cache spec has no name")
	}
	if c.TagLatency < 0 {
		return fmt.Errorf("cache %q: tagLatency must be >= 0, got %d", c.Name, c.TagLatency)
	}
	if c.DataLatency < 0 {
		return fmt.Errorf("cache %q: dataLatency must be >= 0, got %d", c.Name, c.DataLatency)
	}
	if c.ResponseLatency < 0 {
		return fmt.Errorf("cache %q: responseLatency must be >= 0, got %d", c.Name, c.ResponseLatency)
	}
	if c.Size == 0 {
		return fmt.Errorf("cache %q: size must be > 0", c.Name)
	}
	if c.Assoc < 1 {
		return fmt.Errorf("cache %q: assoc must be >= 1, got %d", c.Name, c.Assoc)
	}
	if c.MSHRs < 1 {
		return fmt.Errorf("cache %q: mshrs must be >= 1, got %d", c.Name, c.MSHRs)
	}
	if c.TargetsPerMSHR < 1 {
		return fmt.Errorf("cache %q: tgtsPerMshr must be >= 1, got %d", c.Name, c.TargetsPerMSHR)
	}
	if c.WriteBuffers < 0 {
		return fmt.Errorf("cache %q: writeBuffers must be >= 0, got %d", c.Name, c.WriteBuffers)
	}
	if c.Clusivity != "" && !c.Clusivity.valid() {
		return fmt.Errorf("cache %q: unknown clusivity %q", c.Name, c.Clusivity)
	}
	if c.Prefetcher != nil {
		if c.Prefetcher.Kind != "stride" {
			return fmt.Errorf("cache %q: unknown prefetcher kind %q", c.Name, c.Prefetcher.Kind)
		}
		if c.Prefetcher.Degree < 1 {
			return fmt.Errorf("cache %q: prefetcher degree must be >= 1, got %d",
				c.Name, c.Prefetcher.Degree)
		}
	}
	return nil
}

// ResponseCoversAccess reports whether the response latency is at least the
// slower of the tag and data paths. This is a semantic expectation of the
// timing model, not a hard constraint, so it is surfaced separately from
// Validate.
func (c *CacheSpec) ResponseCoversAccess() bool {
	m := c.TagLatency
	if c.DataLatency > m {
		m = c.DataLatency
	}
	return c.ResponseLatency >= m
}

// WithSize returns a copy of the spec with the size replaced. Specs are
// immutable once attached; override resolution works on copies.
func (c *CacheSpec) WithSize(size ByteSize) *CacheSpec {
	out := *c
	if c.Prefetcher != nil {
		pf := *c.Prefetcher
		out.Prefetcher = &pf
	}
	out.Size = size
	return &out
}

// Clone returns a deep copy of the spec.
func (c *CacheSpec) Clone() *CacheSpec {
	return c.WithSize(c.Size)
}
