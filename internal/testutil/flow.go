package testutil

// FixedTokenGenerator returns the same run token every time.
//
// Unlike migrate.FixedGenerator, which returns tokens in sequence and panics
// when exhausted, this generator never runs out. It suits tests where every
// application cycle should share one token.
//
// Thread-safety: stateless and safe for concurrent use.
type FixedTokenGenerator struct {
	token string
}

// NewFixedTokenGenerator creates a generator for the given token.
// An empty token defaults to "test-run-default".
func NewFixedTokenGenerator(token string) *FixedTokenGenerator {
	if token == "" {
		token = "test-run-default"
	}
	return &FixedTokenGenerator{token: token}
}

// Generate returns the fixed run token. Implements migrate.TokenGenerator.
func (g *FixedTokenGenerator) Generate() string {
	return g.token
}
