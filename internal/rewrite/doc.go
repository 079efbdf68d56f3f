// Package rewrite implements the textual modernization engine for legacy
// T-SQL stored-procedure source.
//
// The engine converts the legacy RAISERROR statement (both the parenthesized
// form and the pre-SQL-Server-7 unparenthesized form) into the modern THROW
// statement, then applies a fixed, ordered set of unconditional substitutions
// for deprecated syntax (large-object types, GETDATE, legacy outer-join
// operators, compatibility settings, CREATE-to-ALTER conversion).
//
// # Scanning model
//
// There is no SQL parser here, by design. The scanner is anchored on the
// RAISERROR keyword and bounds each statement with a parenthesis-depth
// counter (parenthesized form) or a line terminator (unparenthesized form).
// It does NOT understand string-literal or comment boundaries: a parenthesis
// or comma inside a string literal is counted like any other. Occurrences the
// scanner cannot confidently bound are skipped, not failed, and surfaced on
// the Report for manual review.
//
// # Guarantees
//
//   - Idempotence: Rewrite(Rewrite(T)) == Rewrite(T) for any T.
//   - No-op detection: text with no legacy signature is returned unchanged.
//   - Error-code floor: literal codes below 50000 are raised to exactly 50000.
//
// The severity argument of RAISERROR is deliberately dropped during
// conversion; THROW has no severity slot and the legacy value is not carried
// anywhere. Callers that filter on severity downstream must not rely on the
// rewritten text preserving it.
package rewrite
