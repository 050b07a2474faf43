package semantics

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUniverseFromCSV(t *testing.T) {
	data := `name,big,legs,label
ant,false,6,insect
dog,true,4,mammal
`
	u, err := UniverseFromCSV(strings.NewReader(data))
	require.NoError(t, err)
	require.Equal(t, 2, u.Len())

	ant, ok := u.Referent("ant")
	require.True(t, ok)
	assert.False(t, ant.BoolProperty("big"))
	legs, ok := ant.Property("legs")
	require.True(t, ok)
	assert.Equal(t, 6.0, legs)
	label, ok := ant.Property("label")
	require.True(t, ok)
	assert.Equal(t, "insect", label)

	// no probability column: uniform prior
	mass, ok := u.PriorOf("dog")
	require.True(t, ok)
	assert.InDelta(t, 0.5, mass, 1e-12)
}

func TestUniverseFromCSVWithPrior(t *testing.T) {
	data := `name,probability
a,0.2
b,0.8
`
	u, err := UniverseFromCSV(strings.NewReader(data))
	require.NoError(t, err)
	a, _ := u.PriorOf("a")
	b, _ := u.PriorOf("b")
	assert.InDelta(t, 0.2, a, 1e-12)
	assert.InDelta(t, 0.8, b, 1e-12)

	// probability must not leak into properties
	ref, _ := u.Referent("a")
	_, ok := ref.Property("probability")
	assert.False(t, ok)
}

func TestUniverseFromCSVErrors(t *testing.T) {
	cases := map[string]struct {
		data    string
		wantErr string
	}{
		"no name column": {
			data:    "id,big\n1,true\n",
			wantErr: `"name" column`,
		},
		"header only": {
			data:    "name\n",
			wantErr: "at least one referent row",
		},
		"bad probability": {
			data:    "name,probability\na,lots\n",
			wantErr: "bad probability",
		},
		"duplicate names": {
			data:    "name\na\na\n",
			wantErr: "unique",
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := UniverseFromCSV(strings.NewReader(tc.data))
			assert.ErrorContains(t, err, tc.wantErr)
		})
	}
}
