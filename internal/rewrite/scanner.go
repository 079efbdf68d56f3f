package rewrite

import (
	"strings"
)

// keyword is the trigger that anchors every scan. Matching is
// case-insensitive and keyword-boundary checked on both sides.
const keyword = "RAISERROR"

// ScanResult tags the outcome of a single Locate call.
//
// Ambiguous is not an error: it marks an occurrence the scanner found but
// could not confidently bound (unbalanced parentheses, or an unparenthesized
// form with no code/message separator). The caller must resume scanning past
// Match.End to avoid rescanning the same occurrence forever.
type ScanResult int

const (
	// ScanNotFound means no further RAISERROR occurrence exists at or after
	// the requested offset.
	ScanNotFound ScanResult = iota

	// ScanFound means Match holds a fully bounded statement.
	ScanFound

	// ScanAmbiguous means an occurrence exists but could not be bounded;
	// Match.Start/End cover only the keyword so the caller can skip it.
	ScanAmbiguous
)

// Match describes one located legacy statement.
//
// For the parenthesized form, Params holds the raw parameter list between the
// outer parentheses, verbatim. For the unparenthesized form, Code and Message
// hold the two tokens of the statement instead and Params is empty.
type Match struct {
	Start int // byte offset of the keyword
	End   int // byte offset one past the statement (or past the keyword when ambiguous)

	Params string // parenthesized form: raw parameter list, outer parens stripped

	Unparenthesized bool   // true for the legacy "RAISERROR <int> <expr>" form
	Code            string // unparenthesized form: numeric code token
	Message         string // unparenthesized form: message expression, verbatim up to the line boundary
}

// Locate finds the first RAISERROR statement at or after from.
//
// Parenthesized form: the keyword followed (after optional spaces/tabs) by
// "(" begins a depth-counted scan; the statement ends where the counter
// returns to zero. Nested parentheses inside the parameter list are spanned
// correctly; parentheses inside string literals are not distinguished from
// real nesting.
//
// Unparenthesized form: the keyword followed by whitespace and a leading
// digit is bounded by the next CR, LF, or end of text. The parameter region
// splits at the first interior whitespace into a numeric code candidate and a
// verbatim message expression.
//
// Occurrences that match neither shape (for example an identifier that merely
// contains the keyword) are stepped over silently.
func Locate(text string, from int) (Match, ScanResult) {
	for {
		idx := indexKeyword(text, from)
		if idx < 0 {
			return Match{}, ScanNotFound
		}

		after := idx + len(keyword)

		// Parenthesized form: optional horizontal whitespace, then "(".
		p := after
		for p < len(text) && (text[p] == ' ' || text[p] == '\t') {
			p++
		}
		if p < len(text) && text[p] == '(' {
			end, ok := matchParens(text, p)
			if !ok {
				// No balancing close parenthesis anywhere ahead. Skip the
				// keyword so the next Locate call moves forward.
				return Match{Start: idx, End: after}, ScanAmbiguous
			}
			return Match{
				Start:  idx,
				End:    end,
				Params: text[p+1 : end-1],
			}, ScanFound
		}

		// Unparenthesized form: whitespace then a leading digit.
		if m, res, matched := matchUnparenthesized(text, idx, after); matched {
			return m, res
		}

		// Neither form. Not a legacy statement; keep looking.
		from = after
	}
}

// indexKeyword returns the offset of the next boundary-anchored keyword
// occurrence at or after from, or -1.
func indexKeyword(text string, from int) int {
	for from < len(text) {
		rel := indexFold(text[from:], keyword)
		if rel < 0 {
			return -1
		}
		idx := from + rel
		if boundedBefore(text, idx) {
			return idx
		}
		from = idx + 1
	}
	return -1
}

// indexFold is a case-insensitive strings.Index for ASCII needles.
func indexFold(haystack, needle string) int {
	n := len(needle)
	for i := 0; i+n <= len(haystack); i++ {
		if strings.EqualFold(haystack[i:i+n], needle) {
			return i
		}
	}
	return -1
}

// boundedBefore reports whether position idx starts a fresh word: the
// preceding byte must not be an identifier character. T-SQL identifiers may
// contain letters, digits, underscore, and the @/# sigils.
func boundedBefore(text string, idx int) bool {
	if idx == 0 {
		return true
	}
	c := text[idx-1]
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		return false
	case c == '_', c == '@', c == '#':
		return false
	}
	return true
}

// matchParens scans from the opening parenthesis at open and returns the
// offset one past the balancing close parenthesis.
func matchParens(text string, open int) (end int, ok bool) {
	depth := 0
	for i := open; i < len(text); i++ {
		switch text[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i + 1, true
			}
		}
	}
	return 0, false
}

// matchUnparenthesized tries the legacy no-parenthesis form starting at the
// byte after the keyword. Returns matched=false when the text after the
// keyword does not look like that form at all.
func matchUnparenthesized(text string, start, after int) (Match, ScanResult, bool) {
	p := after
	for p < len(text) && (text[p] == ' ' || text[p] == '\t') {
		p++
	}
	if p == after || p >= len(text) || text[p] < '0' || text[p] > '9' {
		return Match{}, ScanNotFound, false
	}

	// Statement runs to the first line terminator or end of text.
	end := len(text)
	for i := p; i < len(text); i++ {
		if text[i] == '\r' || text[i] == '\n' {
			end = i
			break
		}
	}

	region := text[p:end]
	sep := strings.IndexAny(region, " \t")
	if sep < 0 {
		// A code with no message expression cannot be converted confidently.
		return Match{Start: start, End: after}, ScanAmbiguous, true
	}

	code := region[:sep]
	message := strings.TrimSpace(region[sep:])
	if message == "" {
		return Match{Start: start, End: after}, ScanAmbiguous, true
	}

	return Match{
		Start:           start,
		End:             end,
		Unparenthesized: true,
		Code:            code,
		Message:         message,
	}, ScanFound, true
}
