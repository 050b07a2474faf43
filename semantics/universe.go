package semantics

import (
	"fmt"
	"strings"
)

// A Universe is the fixed domain of discourse for a grammar's
// expressions: an ordered collection of uniquely named referents together
// with a prior probability over them. A universe is immutable once
// constructed.
type Universe struct {
	referents []*Referent
	byName    map[string]*Referent
	prior     map[string]float64
}

// NewUniverse builds a universe from referents and an optional prior over
// referent names. Referent names must be unique. A nil prior yields the
// uniform distribution; an explicit prior must assign a non-negative mass
// to every referent and is normalized to sum to one.
func NewUniverse(referents []*Referent, prior map[string]float64) (*Universe, error) {
	if len(referents) == 0 {
		return nil, fmt.Errorf("universe must contain at least one referent")
	}
	byName := make(map[string]*Referent, len(referents))
	ordered := make([]*Referent, len(referents))
	for i, ref := range referents {
		if _, ok := byName[ref.Name()]; ok {
			return nil, fmt.Errorf("universe referent names must be unique: duplicate %q", ref.Name())
		}
		byName[ref.Name()] = ref
		ordered[i] = ref
	}

	normalized := make(map[string]float64, len(referents))
	if prior == nil {
		mass := 1.0 / float64(len(referents))
		for _, ref := range ordered {
			normalized[ref.Name()] = mass
		}
	} else {
		total := 0.0
		for _, ref := range ordered {
			mass, ok := prior[ref.Name()]
			if !ok {
				return nil, fmt.Errorf("prior is missing referent %q", ref.Name())
			}
			if mass < 0 {
				return nil, fmt.Errorf("prior mass for referent %q is negative", ref.Name())
			}
			total += mass
		}
		if total <= 0 {
			return nil, fmt.Errorf("prior must have positive total mass")
		}
		for _, ref := range ordered {
			normalized[ref.Name()] = prior[ref.Name()] / total
		}
	}

	return &Universe{referents: ordered, byName: byName, prior: normalized}, nil
}

// Referents returns the universe's referents in order.
func (u *Universe) Referents() []*Referent {
	out := make([]*Referent, len(u.referents))
	copy(out, u.referents)
	return out
}

// Referent looks up a referent by name.
func (u *Universe) Referent(name string) (*Referent, bool) {
	ref, ok := u.byName[name]
	return ref, ok
}

// At returns the i-th referent.
func (u *Universe) At(i int) *Referent {
	return u.referents[i]
}

func (u *Universe) Len() int {
	return len(u.referents)
}

// Prior returns the prior probability of each referent, in referent
// order.
func (u *Universe) Prior() []float64 {
	out := make([]float64, len(u.referents))
	for i, ref := range u.referents {
		out[i] = u.prior[ref.Name()]
	}
	return out
}

// PriorOf returns the prior mass of the named referent.
func (u *Universe) PriorOf(name string) (float64, bool) {
	mass, ok := u.prior[name]
	return mass, ok
}

// Equal reports whether two universes contain the same set of referent
// names.
func (u *Universe) Equal(other *Universe) bool {
	if other == nil || len(u.referents) != len(other.referents) {
		return false
	}
	for name := range u.byName {
		if _, ok := other.byName[name]; !ok {
			return false
		}
	}
	return true
}

func (u *Universe) String() string {
	names := make([]string, len(u.referents))
	for i, ref := range u.referents {
		names[i] = ref.Name()
	}
	return fmt.Sprintf("universe{%s}", strings.Join(names, ", "))
}
