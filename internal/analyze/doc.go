// Package analyze provides the metadata model the planner consumes.
//
// Types live in an arena inside a Model and are addressed by TypeRef, so
// self-referencing and mutually referencing entities never nest by value.
// A Model is assembled with a Builder, either directly (manifest loader, tests)
// or by the Analyzer, which loads Go packages with golang.org/x/tools/go/packages
// and reads entity metadata from `proxy:"..."` struct tags.
//
// Key types:
//   - TypeID: namespace + simple name
//   - TypeInfo: kind (primitive/enum/entity/complex/collection/nullable/external),
//     base type, members, methods, explicit attributes
//   - Member: name, declaring type, value type, key/exclusion/accessor flags,
//     association metadata
package analyze
