// Package diagnostic provides structured errors, warnings and messages
// produced while planning proxy declarations.
//
// Planners never fail on business-rule violations. They report through a
// Sink and keep going, so a single run surfaces every problem at once:
//   - Per-entity structural errors (the member or type is skipped)
//   - Advisory warnings (the declaration proceeds)
//   - Informational messages (silent skips worth tracing)
package diagnostic
