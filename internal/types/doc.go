// Package types defines shared types for service definitions and the
// evidence-synthesis data model (study effects, GRADE factor sets,
// quality levels, and per-call result records).
package types
