package plan

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"proxy-generator/internal/analyze"
	"proxy-generator/internal/diagnostic"
	"proxy-generator/internal/sharing"
)

func TestEnumRegistry_OrderIndependent(t *testing.T) {
	f := newFixture()
	a := f.enum("Alpha", true)
	b := f.enum("Beta", true)
	c := f.enum("Gamma", true)
	model := f.model(t)

	oracle := sharing.NewStatic()
	oracle.SetType(id("Gamma"), sharing.SharedBySource)

	first := NewEnumRegistry(model, oracle, &diagnostic.Diagnostics{})
	for _, e := range []analyze.TypeRef{a, b, c, a, b} {
		first.RegisterUse(e)
	}

	second := NewEnumRegistry(model, oracle, &diagnostic.Diagnostics{})
	for _, e := range []analyze.TypeRef{c, b, b, a} {
		second.RegisterUse(e)
	}

	assert.Equal(t, []analyze.TypeRef{a, b}, first.Generated())
	assert.Equal(t, first.Generated(), second.Generated())
	assert.True(t, first.isRegistered(c))
}

func TestEnumRegistry_CanExpose(t *testing.T) {
	f := newFixture()
	public := f.enum("Public", true)
	private := f.enum("Private", false)
	nested := f.b.Declare(analyze.TypeInfo{ID: id("Outer.Inner"), Kind: analyze.TypeKindEnum, Public: true, Nested: true})
	model := f.model(t)

	oracle := sharing.NewStatic()
	oracle.SetType(id("Outer.Inner"), sharing.SharedByReference)

	sink := &diagnostic.Diagnostics{}
	r := NewEnumRegistry(model, oracle, sink)

	assert.True(t, r.CanExpose(public))
	assert.False(t, r.CanExpose(private))
	assert.False(t, r.CanExpose(private))
	assert.False(t, r.CanExpose(nested), "nested enums are never exposable, even when shared")

	assert.Len(t, sink.WithCode(diagnostic.CodeEnumNotExposable), 2)
}
