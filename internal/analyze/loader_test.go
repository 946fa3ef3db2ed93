package analyze

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	storePkg     = "proxy-generator/store"
	warehousePkg = "proxy-generator/warehouse"
)

func loadModel(t *testing.T, patterns ...string) *Model {
	t.Helper()

	analyzer := NewAnalyzer()
	require.NoError(t, analyzer.LoadPackages(patterns...))

	model, err := analyzer.Builder().Build()
	require.NoError(t, err)

	return model
}

func mustLookup(t *testing.T, m *Model, ns, name string) TypeRef {
	t.Helper()

	ref, ok := m.Lookup(TypeID{Namespace: ns, Name: name})
	require.True(t, ok, "%s.%s not found", ns, name)

	return ref
}

func memberNames(info *TypeInfo) []string {
	names := make([]string, len(info.Members))
	for i, m := range info.Members {
		names[i] = m.Name
	}

	return names
}

func TestAnalyzer_LoadPackages(t *testing.T) {
	model := loadModel(t, storePkg, warehousePkg)

	for _, name := range []string{"Entity", "Auditable", "Product", "Customer", "Order", "OrderLine"} {
		ref := mustLookup(t, model, storePkg, name)
		assert.Equal(t, TypeKindEntity, model.Type(ref).Kind, name)
	}

	storeOrder := mustLookup(t, model, storePkg, "Order")
	warehouseOrder := mustLookup(t, model, warehousePkg, "Order")
	assert.NotEqual(t, storeOrder, warehouseOrder)
}

func TestAnalyzer_EmbeddedEntityIsBase(t *testing.T) {
	model := loadModel(t, storePkg, warehousePkg)

	entity := mustLookup(t, model, storePkg, "Entity")
	auditable := mustLookup(t, model, storePkg, "Auditable")
	order := mustLookup(t, model, storePkg, "Order")

	assert.Equal(t, auditable, model.Type(order).Base)
	assert.Equal(t, entity, model.Type(auditable).Base)
	assert.Equal(t, []TypeRef{auditable, entity}, model.Bases(order))

	cold := mustLookup(t, model, warehousePkg, "ColdLocation")
	location := mustLookup(t, model, warehousePkg, "Location")
	assert.Equal(t, location, model.Type(cold).Base)

	// Inherited members stay on their declaring type
	id := model.Property(order, "ID")
	require.NotNil(t, id)
	assert.Equal(t, entity, id.Declaring)
	assert.True(t, id.IsKey)
}

func TestAnalyzer_Members(t *testing.T) {
	model := loadModel(t, storePkg)

	order := model.Type(mustLookup(t, model, storePkg, "Order"))
	assert.Equal(t,
		[]string{"CustomerID", "Status", "PreviousStatus", "OrderedAt", "Customer", "Lines"},
		memberNames(order))

	entity := mustLookup(t, model, storePkg, "Entity")
	version := model.Property(entity, "Version")
	require.NotNil(t, version)
	assert.True(t, version.NotSerialized)

	orderedAt := model.Property(mustLookup(t, model, storePkg, "Order"), "OrderedAt")
	require.NotNil(t, orderedAt)
	assert.Equal(t, KindTime, model.Type(orderedAt.Type).Primitive)
}

func TestAnalyzer_Associations(t *testing.T) {
	model := loadModel(t, storePkg)

	orderRef := mustLookup(t, model, storePkg, "Order")
	customerRef := mustLookup(t, model, storePkg, "Customer")

	customer := model.Property(orderRef, "Customer")
	require.NotNil(t, customer)
	require.NotNil(t, customer.Association)
	assert.Equal(t, "Customer_Orders", customer.Association.Name)
	assert.Equal(t, []string{"CustomerID"}, customer.Association.ThisKey)
	assert.Equal(t, []string{"ID"}, customer.Association.OtherKey)
	assert.True(t, customer.Association.IsForeignKey)
	assert.Equal(t, TypeKindNullable, model.Type(customer.Type).Kind)
	assert.Equal(t, customerRef, model.ElementType(customer.Type))

	lines := model.Property(orderRef, "Lines")
	require.NotNil(t, lines)
	assert.True(t, model.IsCollection(lines.Type))
	assert.False(t, lines.Association.IsForeignKey)
}

func TestAnalyzer_Enums(t *testing.T) {
	model := loadModel(t, storePkg, warehousePkg)

	status := model.Type(mustLookup(t, model, storePkg, "OrderStatus"))
	assert.Equal(t, TypeKindEnum, status.Kind)
	assert.True(t, status.Public)
	assert.False(t, status.System)
	assert.Len(t, status.EnumValues, 4)

	priority := model.Type(mustLookup(t, model, warehousePkg, "Priority"))
	assert.Equal(t, TypeKindEnum, priority.Kind)
	assert.Len(t, priority.EnumValues, 3)

	order := mustLookup(t, model, storePkg, "Order")
	prev := model.Property(order, "PreviousStatus")
	require.NotNil(t, prev)
	assert.Equal(t, mustLookup(t, model, storePkg, "OrderStatus"), model.EnumOf(prev.Type))
}

func TestAnalyzer_FlagsAndAttributes(t *testing.T) {
	model := loadModel(t, storePkg, warehousePkg)

	item := mustLookup(t, model, warehousePkg, "StockItem")

	reserved := model.Property(item, "Reserved")
	require.NotNil(t, reserved)
	assert.True(t, reserved.Excluded)

	metadata := model.Property(item, "Metadata")
	require.NotNil(t, metadata)
	assert.False(t, model.IsSerializable(metadata.Type))

	tags := model.Property(item, "Tags")
	require.NotNil(t, tags)
	assert.True(t, model.IsSerializable(tags.Type))
	assert.False(t, model.IsSimple(tags.Type))

	product := mustLookup(t, model, storePkg, "Product")
	sku := model.Property(product, "SKU")
	require.NotNil(t, sku)
	assert.Equal(t, []Attribute{
		{Name: "json", Args: []string{"sku"}},
		{Name: "validate", Args: []string{"required"}},
	}, sku.Attributes)
}

func TestParseProxyTag(t *testing.T) {
	f := parseProxyTag("assoc=A_B, this=X|Y, other=P|Q, fk, virtual")

	assert.Equal(t, "A_B", f.assoc)
	assert.Equal(t, []string{"X", "Y"}, f.thisKey)
	assert.Equal(t, []string{"P", "Q"}, f.otherKey)
	assert.True(t, f.fk)
	assert.True(t, f.virtual)
	assert.False(t, f.key)

	assert.True(t, parseProxyTag("-").exclude)
	assert.True(t, parseProxyTag("key,new").hides)
}

func TestTagAttributes(t *testing.T) {
	tests := []struct {
		name    string
		tag     string
		want    []Attribute
		failure bool
	}{
		{
			name: "sorted and proxy dropped",
			tag:  `yaml:"x" proxy:"key" json:"id,omitempty"`,
			want: []Attribute{
				{Name: "json", Args: []string{"id", "omitempty"}},
				{Name: "yaml", Args: []string{"x"}},
			},
		},
		{name: "empty", tag: ""},
		{name: "missing quote", tag: `json:id`, failure: true},
		{name: "unterminated", tag: `json:"id`, failure: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tagAttributes(tt.tag)
			if !tt.failure {
				assert.Equal(t, tt.want, got)
				return
			}

			require.NotEmpty(t, got)
			assert.NotEmpty(t, got[len(got)-1].Failure)
		})
	}
}
