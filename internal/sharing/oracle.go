package sharing

import (
	"fmt"
	"strings"
	"sync"

	"proxy-generator/internal/analyze"
	"proxy-generator/internal/common"
)

// Kind is the share classification of a type or member.
type Kind int

const (
	// NotShared - the target does not see it; it must be generated.
	NotShared Kind = iota
	// SharedBySource - the target compiles the same source file.
	SharedBySource
	// SharedByReference - the target references the compiled type directly.
	SharedByReference
)

// String returns a human-readable kind name.
func (k Kind) String() string {
	switch k {
	case NotShared:
		return "not_shared"
	case SharedBySource:
		return "by_source"
	case SharedByReference:
		return "by_reference"
	default:
		return common.UnknownStr
	}
}

// IsShared returns true for any classification other than NotShared.
func (k Kind) IsShared() bool {
	return k != NotShared
}

// ParseKind parses a kind name as written in manifests.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none", "not_shared":
		return NotShared, nil
	case "source", "by_source":
		return SharedBySource, nil
	case "reference", "by_reference":
		return SharedByReference, nil
	default:
		return NotShared, fmt.Errorf("unknown share kind %q", s)
	}
}

// Oracle reports share classifications. Answers must be a pure function of
// static input for the duration of one run.
type Oracle interface {
	TypeShareKind(id analyze.TypeID) Kind
	PropertyShareKind(id analyze.TypeID, property string) Kind
	MethodShareKind(id analyze.TypeID, method string, params []analyze.TypeID) Kind
}

// Static is a table-driven Oracle. Unlisted types are NotShared; unlisted
// properties and methods inherit the classification of their type.
type Static struct {
	types      map[analyze.TypeID]Kind
	properties map[analyze.TypeID]map[string]Kind
	methods    map[string]Kind
}

var _ Oracle = (*Static)(nil)

// NewStatic creates an empty Static oracle.
func NewStatic() *Static {
	return &Static{
		types:      make(map[analyze.TypeID]Kind),
		properties: make(map[analyze.TypeID]map[string]Kind),
		methods:    make(map[string]Kind),
	}
}

// SetType records the classification of a type.
func (s *Static) SetType(id analyze.TypeID, k Kind) {
	s.types[id] = k
}

// SetProperty records the classification of a property.
func (s *Static) SetProperty(id analyze.TypeID, property string, k Kind) {
	props, ok := s.properties[id]
	if !ok {
		props = make(map[string]Kind)
		s.properties[id] = props
	}

	props[property] = k
}

// SetMethod records the classification of a method overload.
func (s *Static) SetMethod(id analyze.TypeID, method string, params []analyze.TypeID, k Kind) {
	s.methods[methodKey(id, method, params)] = k
}

// TypeShareKind implements Oracle.
func (s *Static) TypeShareKind(id analyze.TypeID) Kind {
	return s.types[id]
}

// PropertyShareKind implements Oracle.
func (s *Static) PropertyShareKind(id analyze.TypeID, property string) Kind {
	if k, ok := s.properties[id][property]; ok {
		return k
	}

	return s.TypeShareKind(id)
}

// MethodShareKind implements Oracle.
func (s *Static) MethodShareKind(id analyze.TypeID, method string, params []analyze.TypeID) Kind {
	if k, ok := s.methods[methodKey(id, method, params)]; ok {
		return k
	}

	return s.TypeShareKind(id)
}

func methodKey(id analyze.TypeID, method string, params []analyze.TypeID) string {
	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = p.String()
	}

	return id.String() + "." + method + "(" + strings.Join(parts, ",") + ")"
}

// Cached memoizes the answers of another Oracle.
type Cached struct {
	inner Oracle

	mu         sync.Mutex
	types      map[analyze.TypeID]Kind
	properties map[string]Kind
	methods    map[string]Kind
}

var _ Oracle = (*Cached)(nil)

// NewCached wraps inner with a memoizing cache.
func NewCached(inner Oracle) *Cached {
	return &Cached{
		inner:      inner,
		types:      make(map[analyze.TypeID]Kind),
		properties: make(map[string]Kind),
		methods:    make(map[string]Kind),
	}
}

// TypeShareKind implements Oracle.
func (c *Cached) TypeShareKind(id analyze.TypeID) Kind {
	c.mu.Lock()
	defer c.mu.Unlock()

	if k, ok := c.types[id]; ok {
		return k
	}

	k := c.inner.TypeShareKind(id)
	c.types[id] = k

	return k
}

// PropertyShareKind implements Oracle.
func (c *Cached) PropertyShareKind(id analyze.TypeID, property string) Kind {
	key := id.String() + "." + property

	c.mu.Lock()
	defer c.mu.Unlock()

	if k, ok := c.properties[key]; ok {
		return k
	}

	k := c.inner.PropertyShareKind(id, property)
	c.properties[key] = k

	return k
}

// MethodShareKind implements Oracle.
func (c *Cached) MethodShareKind(id analyze.TypeID, method string, params []analyze.TypeID) Kind {
	key := methodKey(id, method, params)

	c.mu.Lock()
	defer c.mu.Unlock()

	if k, ok := c.methods[key]; ok {
		return k
	}

	k := c.inner.MethodShareKind(id, method, params)
	c.methods[key] = k

	return k
}
