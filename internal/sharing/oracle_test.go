package sharing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"proxy-generator/internal/analyze"
)

type countingOracle struct {
	Static
	calls int
}

func (c *countingOracle) TypeShareKind(id analyze.TypeID) Kind {
	c.calls++
	return c.Static.TypeShareKind(id)
}

func TestStatic_Fallbacks(t *testing.T) {
	order := analyze.TypeID{Namespace: "Shop", Name: "Order"}
	status := analyze.TypeID{Namespace: "Shop", Name: "Status"}

	s := NewStatic()
	s.SetType(status, SharedByReference)
	s.SetProperty(order, "Total", SharedBySource)
	s.SetMethod(order, "Cancel", []analyze.TypeID{{Name: "string"}}, SharedByReference)

	assert.Equal(t, NotShared, s.TypeShareKind(order))
	assert.Equal(t, SharedByReference, s.TypeShareKind(status))
	assert.Equal(t, SharedBySource, s.PropertyShareKind(order, "Total"))
	assert.Equal(t, NotShared, s.PropertyShareKind(order, "ID"))
	assert.Equal(t, SharedByReference, s.PropertyShareKind(status, "Anything"))
	assert.Equal(t, SharedByReference, s.MethodShareKind(order, "Cancel", []analyze.TypeID{{Name: "string"}}))
	assert.Equal(t, NotShared, s.MethodShareKind(order, "Cancel", nil))
}

func TestCached_Memoizes(t *testing.T) {
	id := analyze.TypeID{Namespace: "Shop", Name: "Order"}

	inner := &countingOracle{Static: *NewStatic()}
	inner.SetType(id, SharedBySource)

	c := NewCached(inner)
	for range 3 {
		assert.Equal(t, SharedBySource, c.TypeShareKind(id))
	}

	assert.Equal(t, 1, inner.calls)
}

func TestParseKind(t *testing.T) {
	tests := []struct {
		in   string
		want Kind
	}{
		{"", NotShared},
		{"not_shared", NotShared},
		{"by_source", SharedBySource},
		{"Reference", SharedByReference},
	}

	for _, tt := range tests {
		got, err := ParseKind(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
		_, err = ParseKind(got.String())
		require.NoError(t, err)
	}

	_, err := ParseKind("sometimes")
	assert.Error(t, err)
}
