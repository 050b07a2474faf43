package semantics

import (
	"fmt"
	"sort"
	"strings"
)

// A Referent is a named object in a universe of discourse. Beyond its
// name, a referent carries an open-ended bag of properties that terminal
// rule functions may inspect.
type Referent struct {
	name       string
	properties map[string]any
}

// NewReferent returns a referent with the given name and properties. The
// properties map is copied; nil is allowed.
func NewReferent(name string, properties map[string]any) *Referent {
	props := make(map[string]any, len(properties))
	for k, v := range properties {
		props[k] = v
	}
	return &Referent{name: name, properties: props}
}

func (r *Referent) Name() string {
	return r.name
}

// Property returns the named property and whether it is present.
func (r *Referent) Property(key string) (any, bool) {
	v, ok := r.properties[key]
	return v, ok
}

// BoolProperty returns the named property as a boolean. Absent or
// non-boolean properties read as false.
func (r *Referent) BoolProperty(key string) bool {
	b, _ := r.properties[key].(bool)
	return b
}

// Properties returns a copy of the referent's property map.
func (r *Referent) Properties() map[string]any {
	props := make(map[string]any, len(r.properties))
	for k, v := range r.properties {
		props[k] = v
	}
	return props
}

func (r *Referent) String() string {
	if len(r.properties) == 0 {
		return r.name
	}
	keys := make([]string, 0, len(r.properties))
	for k := range r.properties {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var sb strings.Builder
	sb.WriteString(r.name)
	sb.WriteString("{")
	for i, k := range keys {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%s: %v", k, r.properties[k])
	}
	sb.WriteString("}")
	return sb.String()
}
