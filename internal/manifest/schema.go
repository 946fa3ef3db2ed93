package manifest

// File is the root of a manifest document.
type File struct {
	Version string     `yaml:"version"`
	Types   []TypeDef  `yaml:"types"`
	Units   []UnitDef  `yaml:"units,omitempty"`
	Sharing []ShareDef `yaml:"sharing,omitempty"`
}

// Type kinds accepted in TypeDef.Kind.
const (
	KindEntity   = "entity"
	KindComplex  = "complex"
	KindEnum     = "enum"
	KindExternal = "external"
)

// TypeDef declares one named type.
type TypeDef struct {
	// Name is the qualified name, e.g. "Shop.Order". The namespace is
	// everything before the last dot.
	Name string `yaml:"name"`
	// Kind defaults to entity.
	Kind string `yaml:"kind,omitempty"`
	Base string `yaml:"base,omitempty"`
	// Public defaults to true.
	Public *bool `yaml:"public,omitempty"`
	Nested bool  `yaml:"nested,omitempty"`
	System bool  `yaml:"system,omitempty"`
	// Serializable applies to complex and external types; it defaults to
	// true for complex and false for external.
	Serializable *bool          `yaml:"serializable,omitempty"`
	Attributes   []AttributeDef `yaml:"attributes,omitempty"`
	Members      []MemberDef    `yaml:"members,omitempty"`
	Methods      []MethodDef    `yaml:"methods,omitempty"`
	Values       []EnumValueDef `yaml:"values,omitempty"`
}

// MemberDef declares a property.
type MemberDef struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
	// Declaring names the type that declares a projected member. Empty means
	// the owning type.
	Declaring     string          `yaml:"declaring,omitempty"`
	Key           bool            `yaml:"key,omitempty"`
	Exclude       bool            `yaml:"exclude,omitempty"`
	Virtual       bool            `yaml:"virtual,omitempty"`
	New           bool            `yaml:"new,omitempty"`
	NotSerialized bool            `yaml:"not_serialized,omitempty"`
	Attributes    []AttributeDef  `yaml:"attributes,omitempty"`
	Association   *AssociationDef `yaml:"association,omitempty"`
}

// AssociationDef is the association metadata of a member.
type AssociationDef struct {
	Name       string   `yaml:"name"`
	This       []string `yaml:"this,omitempty"`
	Other      []string `yaml:"other,omitempty"`
	ForeignKey bool     `yaml:"foreign_key,omitempty"`
}

// AttributeDef is an explicit attribute. Failure records an attribute the
// metadata source could not materialize.
type AttributeDef struct {
	Name    string   `yaml:"name"`
	Args    []string `yaml:"args,omitempty"`
	Failure string   `yaml:"failure,omitempty"`
}

// MethodDef declares a custom entity method.
type MethodDef struct {
	Name   string   `yaml:"name"`
	Params []string `yaml:"params,omitempty"`
}

// EnumValueDef is a named enum constant.
type EnumValueDef struct {
	Name  string `yaml:"name"`
	Value string `yaml:"value,omitempty"`
}

// UnitDef declares a generation unit.
type UnitDef struct {
	Name     string   `yaml:"name"`
	Entities []string `yaml:"entities"`
}

// ShareDef classifies a type and, optionally, some of its members.
type ShareDef struct {
	Type       string            `yaml:"type"`
	Kind       string            `yaml:"kind,omitempty"`
	Properties map[string]string `yaml:"properties,omitempty"`
	Methods    []MethodShareDef  `yaml:"methods,omitempty"`
}

// MethodShareDef classifies one method overload.
type MethodShareDef struct {
	Name   string   `yaml:"name"`
	Params []string `yaml:"params,omitempty"`
	Kind   string   `yaml:"kind"`
}
