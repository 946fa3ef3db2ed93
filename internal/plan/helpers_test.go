package plan

import (
	"testing"

	"github.com/stretchr/testify/require"

	"proxy-generator/internal/analyze"
	"proxy-generator/internal/diagnostic"
	"proxy-generator/internal/sharing"
)

const testNS = "Shop"

func id(name string) analyze.TypeID {
	return analyze.TypeID{Namespace: testNS, Name: name}
}

// fixture builds small metadata models inline.
type fixture struct {
	b      *analyze.Builder
	oracle *sharing.Static
	units  []Unit
}

func newFixture() *fixture {
	return &fixture{b: analyze.NewBuilder(), oracle: sharing.NewStatic()}
}

func (f *fixture) prim(kind analyze.PrimitiveKind) analyze.TypeRef {
	return f.b.Primitive(kind)
}

func (f *fixture) ref(name string) analyze.TypeRef {
	return f.b.Ref(id(name))
}

// entity declares Shop.<name> with an optional base ("" for roots).
func (f *fixture) entity(name, base string, members ...analyze.Member) analyze.TypeRef {
	info := analyze.TypeInfo{
		ID:      id(name),
		Kind:    analyze.TypeKindEntity,
		Members: members,
		Public:  true,
	}
	if base != "" {
		info.Base = f.ref(base)
	}

	return f.b.Declare(info)
}

func (f *fixture) enum(name string, public bool, values ...string) analyze.TypeRef {
	info := analyze.TypeInfo{ID: id(name), Kind: analyze.TypeKindEnum, Public: public}
	for i, v := range values {
		info.EnumValues = append(info.EnumValues, analyze.EnumValue{Name: v, Value: string(rune('0' + i))})
	}

	return f.b.Declare(info)
}

func (f *fixture) unit(name string, entities ...string) {
	u := Unit{Name: name}
	for _, e := range entities {
		u.Entities = append(u.Entities, id(e))
	}

	f.units = append(f.units, u)
}

func (f *fixture) key(name string) analyze.Member {
	return analyze.Member{Name: name, Type: f.prim(analyze.KindInt), IsKey: true}
}

func (f *fixture) field(name string, kind analyze.PrimitiveKind) analyze.Member {
	return analyze.Member{Name: name, Type: f.prim(kind)}
}

func (f *fixture) model(t *testing.T) *analyze.Model {
	t.Helper()

	m, err := f.b.Build()
	require.NoError(t, err)

	return m
}

func (f *fixture) run(t *testing.T) (*ProxyPlan, *diagnostic.Diagnostics) {
	t.Helper()

	return f.runWith(t, Options{Language: "csharp"})
}

func (f *fixture) runWith(t *testing.T, opts Options) (*ProxyPlan, *diagnostic.Diagnostics) {
	t.Helper()

	sink := &diagnostic.Diagnostics{}
	p, err := NewPlanner(f.model(t), f.units, f.oracle, sink, opts).Plan()
	require.NoError(t, err)

	return p, sink
}

func typeNames(p *ProxyPlan) []string {
	out := make([]string, len(p.Types))
	for i, d := range p.Types {
		out[i] = d.Name
	}

	return out
}

func propertyNames(d *TypeDecl) []string {
	out := make([]string, len(d.Properties))
	for i, prop := range d.Properties {
		out[i] = prop.Name
	}

	return out
}
