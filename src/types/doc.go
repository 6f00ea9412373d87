// Package types contains the closed set of kinds the checker can infer for an
// expression. Only the primitive kinds are tracked. Anything the checker cannot
// pin down, tables, functions, nil and the results of arbitrary calls, is
// Unknown, and Unknown never takes part in a comparison. This means that a
// mismatch is only ever reported between two concrete kinds.
package types //nolint:revive
