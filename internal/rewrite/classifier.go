package rewrite

import (
	"strconv"
	"strings"
)

// MinErrorCode is the platform floor for user-defined error codes. Literal
// codes below it are raised to exactly this value during conversion; it is
// also the fixed code emitted when the first parameter is not a literal.
const MinErrorCode = 50000

// DefaultMessage is substituted when a parenthesized statement carries no
// message argument.
const DefaultMessage = "'An error occurred'"

// Params is the classified shape of one legacy statement's argument list,
// ready for THROW emission.
type Params struct {
	// Code is the effective error number: the floored literal, or
	// MinErrorCode when the first argument was a reference.
	Code int

	// Message is the expression emitted as the THROW message, verbatim.
	Message string

	// State is the THROW state argument; 1 when absent or unparseable.
	State int

	// Reference is true when the first argument was a variable or
	// expression rather than an integer literal. The original expression is
	// then carried through as Message.
	Reference bool
}

// Classify splits a parenthesized parameter list on top-level commas and
// decides the replacement shape.
//
// The split is parenthesis-depth aware but not string-literal aware: a comma
// inside a quoted string splits like any other (documented limitation; such
// units should be flagged for manual review by the caller).
//
// The second argument (severity) is read but deliberately dropped: THROW has
// no severity. Only the state (third argument) survives, defaulting to 1.
func Classify(paramList string) Params {
	parts := splitTopLevel(paramList)

	p := Params{Code: MinErrorCode, State: 1, Message: DefaultMessage}
	if len(parts) == 0 {
		return p
	}

	first := strings.TrimSpace(parts[0])
	if n, ok := literalCode(first); ok {
		p.Code = n
		if p.Code < MinErrorCode {
			p.Code = MinErrorCode
		}
		if len(parts) >= 4 {
			p.Message = strings.TrimSpace(parts[3])
		}
	} else {
		// Reference fallback: fixed code, original expression as message.
		p.Reference = true
		p.Message = first
	}

	if len(parts) >= 3 {
		if state, err := strconv.Atoi(strings.TrimSpace(parts[2])); err == nil {
			p.State = state
		}
	}

	return p
}

// literalCode reports whether the token is an integer literal usable as an
// error code. Variable-prefixed tokens and anything containing a parenthesis
// classify as references instead.
func literalCode(tok string) (int, bool) {
	if tok == "" || strings.HasPrefix(tok, "@") || strings.ContainsAny(tok, "()") {
		return 0, false
	}
	n, err := strconv.Atoi(tok)
	if err != nil {
		return 0, false
	}
	return n, true
}

// splitTopLevel splits on commas at parenthesis depth zero. Commas nested
// inside parentheses (function calls, expressions) do not split. Commas
// inside string literals DO split; this scan has no literal awareness.
func splitTopLevel(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var parts []string
	depth := 0
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	parts = append(parts, s[start:])
	return parts
}
