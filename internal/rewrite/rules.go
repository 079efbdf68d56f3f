package rewrite

import (
	"regexp"
	"strings"
)

// Issue categorizes a detected legacy pattern for preview output.
type Issue string

const (
	IssueRaiserror       Issue = "raiserror"             // parenthesized RAISERROR converted to THROW
	IssueRaiserrorLegacy Issue = "raiserror-legacy"      // unparenthesized RAISERROR converted to THROW
	IssueRaiserrorSkip   Issue = "raiserror-unparseable" // occurrence skipped, needs manual review
	IssueDeprecatedType  Issue = "deprecated-type"       // TEXT/NTEXT/IMAGE
	IssueDeprecatedFunc  Issue = "deprecated-function"   // GETDATE
	IssueLegacyJoin      Issue = "legacy-join"           // *= / =* operators
	IssueCompatSetting   Issue = "compat-setting"        // ANSI_NULLS / QUOTED_IDENTIFIER OFF
	IssueCreateToAlter   Issue = "create-to-alter"       // CREATE PROC converted for redeploy
)

// Rule is one unconditional substitution. Rules are pure text-to-text
// functions; order matters only in that no rule may re-match text produced by
// an earlier one.
type Rule struct {
	Name  string
	Issue Issue
	apply func(string) string
}

// Apply runs the substitution.
func (r Rule) Apply(text string) string { return r.apply(text) }

var (
	ntextRe       = regexp.MustCompile(`(?i)(\s)NTEXT(\s)`)
	textRe        = regexp.MustCompile(`(?i)(\s)TEXT(\s)`)
	imageRe       = regexp.MustCompile(`(?i)(\s)IMAGE(\s)`)
	getdateRe     = regexp.MustCompile(`(?i)\bGETDATE\s*\(\s*\)`)
	ansiNullsRe   = regexp.MustCompile(`(?i)\b(ANSI_NULLS)\s+OFF\b`)
	quotedIdentRe = regexp.MustCompile(`(?i)\b(QUOTED_IDENTIFIER)\s+OFF\b`)
	createProcRe  = regexp.MustCompile(`(?i)\bCREATE\s+PROC(?:EDURE)?\b`)
)

// Rules returns the fixed, ordered substitution set applied after statement
// rewriting. The set is confluent: a second run over its own output changes
// nothing. (The CREATE conversion replaces the first occurrence only; a unit
// is one procedure, so one occurrence is the well-formed case.)
func Rules() []Rule {
	return []Rule{
		{
			Name:  "deprecated large-object types",
			Issue: IssueDeprecatedType,
			apply: func(s string) string {
				// Whitespace-delimited to avoid substring hits inside
				// identifiers. The delimiters are consumed by each match, so
				// run to fixpoint to catch adjacent occurrences in one pass.
				s = toFixpoint(s, func(t string) string {
					return ntextRe.ReplaceAllString(t, "${1}NVARCHAR(MAX)${2}")
				})
				s = toFixpoint(s, func(t string) string {
					return textRe.ReplaceAllString(t, "${1}VARCHAR(MAX)${2}")
				})
				return toFixpoint(s, func(t string) string {
					return imageRe.ReplaceAllString(t, "${1}VARBINARY(MAX)${2}")
				})
			},
		},
		{
			Name:  "deprecated timestamp function",
			Issue: IssueDeprecatedFunc,
			apply: func(s string) string {
				return getdateRe.ReplaceAllString(s, "SYSDATETIME()")
			},
		},
		{
			Name:  "legacy outer-join operators",
			Issue: IssueLegacyJoin,
			apply: func(s string) string {
				// The keyword marker keeps the join direction visible for the
				// manual predicate-to-JOIN-clause move; the predicate itself
				// cannot be relocated textually.
				s = strings.ReplaceAll(s, "*=", "= /*LEFT JOIN*/")
				return strings.ReplaceAll(s, "=*", "= /*RIGHT JOIN*/")
			},
		},
		{
			Name:  "compatibility settings",
			Issue: IssueCompatSetting,
			apply: func(s string) string {
				s = ansiNullsRe.ReplaceAllString(s, "${1} ON")
				return quotedIdentRe.ReplaceAllString(s, "${1} ON")
			},
		},
		{
			Name:  "definition keyword conversion",
			Issue: IssueCreateToAlter,
			apply: ToAlter,
		},
	}
}

// ToAlter converts the first "CREATE PROC[EDURE]" in text to
// "ALTER PROCEDURE" so the definition can be redeployed against an existing
// unit without a separate existence check. Long and short keyword forms and
// arbitrary interior whitespace are tolerated; only the first occurrence
// converts (a well-formed unit defines one procedure).
func ToAlter(s string) string {
	loc := createProcRe.FindStringIndex(s)
	if loc == nil {
		return s
	}
	return s[:loc[0]] + "ALTER PROCEDURE" + s[loc[1]:]
}

// toFixpoint applies f until the text stops changing. Every rule here
// strictly removes its own trigger pattern, so the loop terminates.
func toFixpoint(s string, f func(string) string) string {
	for {
		next := f(s)
		if next == s {
			return s
		}
		s = next
	}
}
