// Package dimension defines the twelve self-report axes tracked by statefield
// and the [StateVector] that holds one integer value per axis.
//
// The registry is static and ordered:
//
//   - [Registry]: canonical ordering used for display and positional encoding
//   - [Lookup]: resolve a key or label, case-insensitively
//   - [StateVector]: complete mapping of every key to a value in [Min, Max]
//
// # Coercion
//
// Values never fail validation. Non-numeric input becomes 0, fractional
// values round to the nearest integer and anything outside [Min, Max] is
// clamped, the same way a 0..5 slider would behave:
//
//	sv := dimension.FromMap(map[string]any{"Energy": 7, "Focus": "x"})
//	sv.Get(dimension.Energy) // 5
//	sv.Get(dimension.Focus)  // 0
package dimension
