// Package diag defines the diagnostic values the compiler reports back to us.
//
// The set is deliberately closed: the frontend's wire protocol admits exactly
// two severities, and anything else is treated as a protocol violation by the
// caller rather than mapped to a nearest match.
package diag
