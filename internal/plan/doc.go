// Package plan decides which client-side mirror types and members must be
// synthesized for a set of server-side entities, and produces the ProxyPlan
// consumed by an emission backend.
//
// Planning pipeline:
//  1. Resolve generation units → per-entity aggregates
//  2. Admit entities (namespace present, not shared by reference, shared root agrees)
//  3. Register every generated and referenced name → per-namespace conflict state
//  4. For each admitted entity:
//     - Decide each visible property (exclusion, flattening, key and
//     serialization checks, polymorphism guard)
//     - Pair association ends, plan attach/detach and key synchronization
//     - Register referenced enums
//  5. Order types base-before-derived, collect generated enums
//
// Business-rule violations go to a diagnostic.Sink and planning continues;
// only contract violations (missing model, oracle, sink or language) abort.
package plan
