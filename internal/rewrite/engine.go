package rewrite

import (
	"fmt"
	"strconv"
)

// Report summarizes what a Rewrite call detected and changed. It backs the
// preview surface: one Report per source unit.
type Report struct {
	// Changed is true when the returned text differs from the input.
	Changed bool

	// Issues lists each detected legacy-pattern category once, in detection
	// order.
	Issues []Issue

	// Converted counts successfully converted RAISERROR statements.
	Converted int

	// Skipped counts RAISERROR occurrences the scanner could not bound.
	// Any nonzero value means the unit needs manual review.
	Skipped int
}

// NeedsReview reports whether the unit carries occurrences the engine
// deliberately left untouched.
func (r *Report) NeedsReview() bool { return r.Skipped > 0 }

func (r *Report) addIssue(issue Issue) {
	for _, have := range r.Issues {
		if have == issue {
			return
		}
	}
	r.Issues = append(r.Issues, issue)
}

// Engine composes the scanner, the classifier, and the substitution rules
// into a single text-to-text rewrite. An Engine is stateless and safe for
// reuse across units.
type Engine struct {
	rules []Rule
}

// New returns an Engine carrying the fixed rule set.
func New() *Engine {
	return &Engine{rules: Rules()}
}

// Rewrite converts every bounded legacy statement in text to its THROW
// equivalent, then applies the substitution rules once. The returned text
// equals the input when no legacy pattern is found (no-op detection), and a
// second Rewrite over the output changes nothing (idempotence).
func (e *Engine) Rewrite(text string) (string, *Report) {
	report := &Report{}
	out := text
	from := 0

	for {
		m, res := Locate(out, from)
		if res == ScanNotFound {
			break
		}
		if res == ScanAmbiguous {
			// Fail-soft: leave the occurrence alone, resume past it.
			report.Skipped++
			report.addIssue(IssueRaiserrorSkip)
			from = m.End
			continue
		}

		repl := emitThrow(m)
		out = out[:m.Start] + repl + out[m.End:]
		from = m.Start + len(repl)
		report.Converted++
		if m.Unparenthesized {
			report.addIssue(IssueRaiserrorLegacy)
		} else {
			report.addIssue(IssueRaiserror)
		}
	}

	for _, rule := range e.rules {
		next := rule.Apply(out)
		if next != out {
			report.addIssue(rule.Issue)
			out = next
		}
	}

	report.Changed = out != text
	return out, report
}

// emitThrow renders the modern three-argument statement for one match.
// The leading semicolon guards against the preceding statement being
// unterminated; THROW requires its statement to be terminated.
func emitThrow(m Match) string {
	if m.Unparenthesized {
		code := MinErrorCode
		if n, err := strconv.Atoi(m.Code); err == nil && n > code {
			code = n
		}
		return fmt.Sprintf(";THROW %d, %s, 1", code, m.Message)
	}
	p := Classify(m.Params)
	return fmt.Sprintf(";THROW %d, %s, %d", p.Code, p.Message, p.State)
}

// HasLegacySignature reports whether text contains at least one pattern this
// engine would act on. Used by catalog providers to pre-filter candidates
// without running the full rewrite.
func HasLegacySignature(text string) bool {
	if _, res := Locate(text, 0); res != ScanNotFound {
		return true
	}
	for _, rule := range Rules() {
		if rule.Apply(text) != text {
			return true
		}
	}
	return false
}
