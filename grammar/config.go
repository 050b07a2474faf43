package grammar

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// A Registry resolves the function references appearing in a declarative
// grammar document. Documents name functions by key rather than carrying
// executable code, so loading a grammar never evaluates configuration as
// code; the registry is the caller's fixed vocabulary of operations.
type Registry interface {
	Resolve(name string) (Func, bool)
}

// MapRegistry is a Registry backed by a plain map.
type MapRegistry map[string]Func

func (m MapRegistry) Resolve(name string) (Func, bool) {
	fn, ok := m[name]
	return fn, ok
}

type ruleDoc struct {
	Name     string   `yaml:"name"`
	LHS      string   `yaml:"lhs"`
	RHS      []string `yaml:"rhs"`
	Function string   `yaml:"function"`
	Weight   float64  `yaml:"weight"`
}

type grammarDoc struct {
	Start string    `yaml:"start"`
	Rules []ruleDoc `yaml:"rules"`
}

// Load reads a grammar from a YAML document of the form
//
//	start: bool
//	rules:
//	  - lhs: bool
//	    rhs: [bool, bool]
//	    name: and
//	    function: and
//	    weight: 2.0
//
// An absent rhs declares a terminal rule. The function field names a
// registry key and defaults to the rule's name; an unresolvable key is a
// load error. An absent weight defaults to 1.
func Load(r io.Reader, registry Registry) (*Grammar, error) {
	var doc grammarDoc
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decoding grammar document: %w", err)
	}
	if doc.Start == "" {
		return nil, fmt.Errorf("grammar document must declare a start symbol")
	}
	g := New(Symbol(doc.Start))
	for i, rd := range doc.Rules {
		if rd.Name == "" {
			return nil, fmt.Errorf("rule %d must have a name", i)
		}
		if rd.LHS == "" {
			return nil, fmt.Errorf("rule %q must have an lhs", rd.Name)
		}
		fnKey := rd.Function
		if fnKey == "" {
			fnKey = rd.Name
		}
		fn, ok := registry.Resolve(fnKey)
		if !ok {
			return nil, fmt.Errorf("rule %q references unknown function %q", rd.Name, fnKey)
		}
		var rule *Rule
		if len(rd.RHS) == 0 {
			rule = NewTerminal(rd.Name, Symbol(rd.LHS), fn)
		} else {
			rhs := make([]Symbol, len(rd.RHS))
			for j, sym := range rd.RHS {
				rhs[j] = Symbol(sym)
			}
			rule = NewRule(rd.Name, Symbol(rd.LHS), rhs, fn)
		}
		if rd.Weight != 0 {
			if rd.Weight < 0 {
				return nil, fmt.Errorf("rule %q has negative weight %v", rd.Name, rd.Weight)
			}
			rule = rule.WithWeight(rd.Weight)
		}
		if err := g.AddRule(rule); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// LoadFile reads a grammar document from the named file.
func LoadFile(path string, registry Registry) (*Grammar, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	g, err := Load(f, registry)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return g, nil
}
