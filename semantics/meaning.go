package semantics

import (
	"fmt"
	"sort"
	"strings"
)

// A Meaning is the denotation of an expression: the subset of a
// universe's referents the expression selects, together with a
// distribution over the universe. Unchosen referents carry zero mass.
type Meaning struct {
	referents []*Referent
	universe  *Universe
	dist      map[string]float64
}

// NewMeaning builds a meaning from a subset of the universe's referents.
// Every referent must belong to the universe. A nil dist yields the
// uniform distribution over the chosen referents; an explicit dist is
// keyed by referent name, must only mention chosen referents, and is
// normalized to sum to one.
func NewMeaning(referents []*Referent, universe *Universe, dist map[string]float64) (*Meaning, error) {
	if universe == nil {
		return nil, fmt.Errorf("meaning requires a universe")
	}
	chosen := make(map[string]bool, len(referents))
	ordered := make([]*Referent, len(referents))
	for i, ref := range referents {
		if _, ok := universe.Referent(ref.Name()); !ok {
			return nil, fmt.Errorf("referent %q is not in the universe of discourse", ref.Name())
		}
		if chosen[ref.Name()] {
			return nil, fmt.Errorf("meaning referents must be unique: duplicate %q", ref.Name())
		}
		chosen[ref.Name()] = true
		ordered[i] = ref
	}

	full := make(map[string]float64, universe.Len())
	for _, ref := range universe.Referents() {
		full[ref.Name()] = 0
	}
	if dist != nil {
		total := 0.0
		for name, mass := range dist {
			if !chosen[name] {
				return nil, fmt.Errorf("distribution mentions %q, which the meaning does not select", name)
			}
			if mass < 0 {
				return nil, fmt.Errorf("distribution mass for %q is negative", name)
			}
			total += mass
		}
		if total <= 0 {
			return nil, fmt.Errorf("distribution must have positive total mass")
		}
		for name, mass := range dist {
			full[name] = mass / total
		}
	} else if len(ordered) > 0 {
		mass := 1.0 / float64(len(ordered))
		for _, ref := range ordered {
			full[ref.Name()] = mass
		}
	}

	return &Meaning{referents: ordered, universe: universe, dist: full}, nil
}

// Referents returns the chosen referents in order.
func (m *Meaning) Referents() []*Referent {
	out := make([]*Referent, len(m.referents))
	copy(out, m.referents)
	return out
}

func (m *Meaning) Universe() *Universe {
	return m.universe
}

// Dist returns a copy of the distribution over the universe, keyed by
// referent name.
func (m *Meaning) Dist() map[string]float64 {
	out := make(map[string]float64, len(m.dist))
	for k, v := range m.dist {
		out[k] = v
	}
	return out
}

// IsEmpty reports whether the meaning selects no referents.
func (m *Meaning) IsEmpty() bool {
	return len(m.referents) == 0
}

// Equal reports whether two meanings select the same referent names from
// equal universes.
func (m *Meaning) Equal(other *Meaning) bool {
	if other == nil || !m.universe.Equal(other.universe) {
		return false
	}
	return m.Key() == other.Key()
}

// Key returns a canonical string for the selected referent set: the
// sorted referent names joined by "|". Two meanings over the same
// universe have equal keys iff they select the same referents, which
// makes Key suitable as a deduplication key during enumeration.
func (m *Meaning) Key() string {
	names := make([]string, len(m.referents))
	for i, ref := range m.referents {
		names[i] = ref.Name()
	}
	sort.Strings(names)
	return strings.Join(names, "|")
}

func (m *Meaning) String() string {
	names := make([]string, len(m.referents))
	for i, ref := range m.referents {
		names[i] = ref.Name()
	}
	return fmt.Sprintf("meaning{%s}", strings.Join(names, ", "))
}
