package manifest

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"proxy-generator/internal/analyze"
	"proxy-generator/internal/diagnostic"
	"proxy-generator/internal/plan"
	"proxy-generator/internal/sharing"
)

func shopID(name string) analyze.TypeID {
	return analyze.TypeID{Namespace: "Shop", Name: name}
}

func buildYAML(t *testing.T, src string) (*Result, *diagnostic.Diagnostics) {
	t.Helper()

	f, err := Parse([]byte(src))
	require.NoError(t, err)

	return Build(f)
}

func TestBuild_ShopManifest(t *testing.T) {
	f, err := LoadFile(filepath.Join("testdata", "shop.yaml"))
	require.NoError(t, err)

	res, diags := Build(f)
	require.True(t, diags.IsValid(), diags.Error())
	require.NotNil(t, res.Model)

	customer, ok := res.Model.Lookup(shopID("Customer"))
	require.True(t, ok)

	info := res.Model.Type(customer)
	assert.Equal(t, analyze.TypeKindEntity, info.Kind)
	assert.Equal(t, shopID("Auditable"), res.Model.ID(info.Base))
	assert.Len(t, info.Methods, 2)

	orders := res.Model.Property(customer, "Orders")
	require.NotNil(t, orders)
	assert.True(t, res.Model.IsCollection(orders.Type))
	assert.Equal(t, "Customer_Orders", orders.Association.Name)

	tier := res.Model.Property(customer, "Tier")
	require.NotNil(t, tier)
	assert.Equal(t, analyze.TypeKindNullable, res.Model.Type(tier.Type).Kind)

	require.Len(t, res.Units, 2)
	assert.Equal(t, []analyze.TypeID{shopID("Entity"), shopID("Customer"), shopID("Order")}, res.Units[0].Entities)

	assert.Equal(t, sharing.SharedByReference, res.Oracle.TypeShareKind(shopID("Region")))
	assert.Equal(t, sharing.SharedBySource, res.Oracle.MethodShareKind(shopID("Customer"), "Recalculate", []analyze.TypeID{}))
	assert.Equal(t, sharing.NotShared, res.Oracle.TypeShareKind(shopID("Customer")))
}

func TestBuild_ShopManifestPlans(t *testing.T) {
	f, err := LoadFile(filepath.Join("testdata", "shop.yaml"))
	require.NoError(t, err)

	res, diags := Build(f)
	require.True(t, diags.IsValid(), diags.Error())

	sink := &diagnostic.Diagnostics{}
	p, err := plan.NewPlanner(res.Model, res.Units, res.Oracle, sink, plan.Options{Language: "csharp"}).Plan()
	require.NoError(t, err)
	require.False(t, sink.HasErrors(), sink.Error())

	names := make([]string, len(p.Types))
	for i, d := range p.Types {
		names[i] = d.Name
	}

	assert.Equal(t, []string{"Entity", "Customer", "Order"}, names)

	customer := p.Type(shopID("Customer"))
	require.NotNil(t, customer)
	require.NotNil(t, customer.Base)
	assert.Equal(t, "Entity", customer.Base.Name)
	assert.Equal(t, "Shop.Auditable", customer.Property("CreatedAt").LiftedFrom)
	assert.Nil(t, customer.Property("ID"))
	assert.Equal(t, []plan.AttributeDecl{{Name: "Required"}}, customer.Property("Email").Attributes)
	assert.Len(t, sink.WithCode(diagnostic.CodeAttributeFailed), 1)

	require.Len(t, customer.Methods, 1)
	assert.Equal(t, "Merge", customer.Methods[0].Name)

	orders := customer.Association("Orders")
	require.NotNil(t, orders)
	assert.True(t, orders.IsBiDirectional)
	assert.Equal(t, "AttachOrders", orders.Attach)

	order := p.Type(shopID("Order"))
	require.NotNil(t, order.Association("Customer"))
	assert.True(t, order.Association("Customer").HasStep(plan.StepSyncKeys))
	assert.Equal(t, "[]string", order.Property("Notes").Type.String())

	entity := p.Type(shopID("Entity"))
	assert.Equal(t, []string{"ID"}, entity.IdentityKeys)
	assert.Nil(t, entity.Property("Version"))

	enumNames := make([]string, len(p.Enums))
	for i, e := range p.Enums {
		enumNames[i] = e.Name
	}

	assert.Equal(t, []string{"OrderStatus", "Tier"}, enumNames)
	assert.Nil(t, p.Type(shopID("Region")))
	assert.Len(t, sink.WithCode(diagnostic.CodeTypeShared), 1)
}

func TestBuild_UnknownTypeSuggestions(t *testing.T) {
	res, diags := buildYAML(t, `
types:
  - name: Shop.Order
    members:
      - {name: ID, type: int, key: true}
      - {name: Customer, type: Custmer}
  - name: Shop.Customer
    members:
      - {name: ID, type: int, key: true}
units:
  - name: main
    entities: [Shop.Ordr]
`)

	errs := diags.WithCode(diagnostic.CodeUnknownType)
	require.Len(t, errs, 2)

	assert.Equal(t, "Customer", errs[0].Member)
	assert.Contains(t, errs[0].Suggestions, "Shop.Customer")
	assert.Contains(t, errs[1].Suggestions, "Shop.Order")

	// The broken member is dropped, the rest of the model still builds
	require.NotNil(t, res.Model)
	order, _ := res.Model.Lookup(shopID("Order"))
	assert.Nil(t, res.Model.Property(order, "Customer"))
	assert.Empty(t, res.Units[0].Entities)
}

func TestBuild_StructuralErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		code string
	}{
		{
			name: "duplicate type",
			src:  "types: [{name: Shop.A}, {name: Shop.A}]",
			code: diagnostic.CodeDuplicateType,
		},
		{
			name: "unknown kind",
			src:  "types: [{name: Shop.A, kind: interface}]",
			code: diagnostic.CodeInvalidTypeRef,
		},
		{
			name: "empty member type",
			src:  "types: [{name: Shop.A, members: [{name: X}]}]",
			code: diagnostic.CodeInvalidTypeRef,
		},
		{
			name: "duplicate unit",
			src:  "types: [{name: Shop.A}]\nunits: [{name: u, entities: [Shop.A]}, {name: u, entities: [Shop.A]}]",
			code: diagnostic.CodeDuplicateUnit,
		},
		{
			name: "invalid share kind",
			src:  "types: [{name: Shop.A}]\nsharing: [{type: Shop.A, kind: sometimes}]",
			code: diagnostic.CodeInvalidShareKind,
		},
		{
			name: "base is not an entity",
			src:  "types: [{name: Shop.Money, kind: complex}, {name: Shop.A, base: Money}]",
			code: diagnostic.CodeInvalidModel,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, diags := buildYAML(t, tt.src)
			assert.NotEmpty(t, diags.WithCode(tt.code), diags.Error())
		})
	}
}

func TestBuild_ProjectedMemberAndDefaults(t *testing.T) {
	res, diags := buildYAML(t, `
types:
  - name: Shop.Order
    members:
      - {name: ID, type: int, key: true}
      - {name: Tag, type: string, declaring: Mixin}
  - name: Shop.Mixin
    kind: complex
  - name: Ext.Handle
    kind: external
`)
	require.True(t, diags.IsValid(), diags.Error())

	order, _ := res.Model.Lookup(shopID("Order"))
	mixin, _ := res.Model.Lookup(shopID("Mixin"))
	handle, _ := res.Model.Lookup(analyze.TypeID{Namespace: "Ext", Name: "Handle"})

	assert.Equal(t, mixin, res.Model.Property(order, "Tag").Declaring)
	assert.True(t, res.Model.IsSerializable(mixin))
	assert.False(t, res.Model.IsSerializable(handle))
	assert.True(t, res.Model.Type(order).Public)
}

func TestBuildInto_ExistingTypes(t *testing.T) {
	b := analyze.NewBuilder()
	b.Declare(analyze.TypeInfo{
		ID:      analyze.TypeID{Namespace: "example.com/store", Name: "Order"},
		Kind:    analyze.TypeKindEntity,
		Public:  true,
		Members: []analyze.Member{{Name: "ID", Type: b.Primitive(analyze.KindInt64), IsKey: true}},
	})

	f, err := Parse([]byte(`
units:
  - name: main
    entities: [example.com/store.Order]
sharing:
  - type: example.com/store.Order
    properties: {ID: by_reference}
`))
	require.NoError(t, err)

	res, diags := BuildInto(f, b)
	require.True(t, diags.IsValid(), diags.Error())

	require.Len(t, res.Units, 1)
	assert.Equal(t, []analyze.TypeID{{Namespace: "example.com/store", Name: "Order"}}, res.Units[0].Entities)
	assert.Equal(t, sharing.SharedByReference,
		res.Oracle.PropertyShareKind(analyze.TypeID{Namespace: "example.com/store", Name: "Order"}, "ID"))
}

func TestSplitName(t *testing.T) {
	assert.Equal(t, analyze.TypeID{Namespace: "Shop.Sales", Name: "Order"}, SplitName("Shop.Sales.Order"))
	assert.Equal(t, analyze.TypeID{Name: "Order"}, SplitName("Order"))
}
