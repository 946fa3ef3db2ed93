// Package sharing classifies whether a type, property or method is already
// visible to the generation target by some other means.
//
// The planner consumes an Oracle. Static is a table-driven oracle fed from
// the manifest; Cached memoizes any oracle for the duration of a run.
package sharing
