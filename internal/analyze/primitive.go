package analyze

import "strings"

// PrimitiveKind enumerates the simple value kinds the model understands.
type PrimitiveKind int

const (
	_ PrimitiveKind = iota // skip zero value, use it as a default (invalid) value

	KindInt
	KindInt8
	KindInt16
	KindInt32
	KindInt64
	KindUint
	KindUint8
	KindUint16
	KindUint32
	KindUint64
	KindFloat32
	KindFloat64
	KindDecimal
	KindBool
	KindChar
	KindString
	KindTime
	KindDuration
	KindGUID
	KindURI
	KindBinary

	// KindTotal is a constant that represents the total number of kinds defined
	KindTotal = int(iota)
)

var primitiveNames = map[PrimitiveKind]string{
	KindInt:      "int",
	KindInt8:     "int8",
	KindInt16:    "int16",
	KindInt32:    "int32",
	KindInt64:    "int64",
	KindUint:     "uint",
	KindUint8:    "uint8",
	KindUint16:   "uint16",
	KindUint32:   "uint32",
	KindUint64:   "uint64",
	KindFloat32:  "float32",
	KindFloat64:  "float64",
	KindDecimal:  "decimal",
	KindBool:     "bool",
	KindChar:     "char",
	KindString:   "string",
	KindTime:     "time",
	KindDuration: "duration",
	KindGUID:     "guid",
	KindURI:      "uri",
	KindBinary:   "binary",
}

// aliases accepted by ParsePrimitive in addition to the canonical names.
var primitiveAliases = map[string]PrimitiveKind{
	"byte":      KindUint8,
	"rune":      KindChar,
	"float":     KindFloat32,
	"double":    KindFloat64,
	"boolean":   KindBool,
	"datetime":  KindTime,
	"timespan":  KindDuration,
	"uuid":      KindGUID,
	"bytes":     KindBinary,
	"[]byte":    KindBinary,
	"time.time": KindTime,
}

// String returns the canonical name of the kind.
func (k PrimitiveKind) String() string {
	if name, ok := primitiveNames[k]; ok {
		return name
	}

	return "invalid"
}

// ParsePrimitive maps a primitive type name (case-insensitive) to its kind.
func ParsePrimitive(name string) (PrimitiveKind, bool) {
	lower := strings.ToLower(name)
	for k, n := range primitiveNames {
		if n == lower {
			return k, true
		}
	}

	k, ok := primitiveAliases[lower]

	return k, ok
}

// IsSimpleKey reports whether a member of this kind may be an entity key.
// Binary blobs are excluded since they have no value identity.
func (k PrimitiveKind) IsSimpleKey() bool {
	switch k {
	default:
		return false
	case KindBool, KindChar, KindString, KindTime, KindDuration, KindGUID, KindURI:
		return true
	case KindInt, KindInt8, KindInt16, KindInt32, KindInt64,
		KindUint, KindUint8, KindUint16, KindUint32, KindUint64,
		KindFloat32, KindFloat64, KindDecimal:
		return true
	}
}
