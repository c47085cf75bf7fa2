package qgen

import (
	"math/rand/v2"

	"github.com/sirupsen/logrus"
)

// Config controls the behavior of the Generator. It is passed in at
// construction so tests can vary it per-case without environment mutation.
type Config struct {
	// Roles maps role keys to their generation profiles. Unknown roles use
	// Default.
	Roles map[string]RoleProfile

	// Default is the profile for unknown roles.
	Default RoleProfile

	// MaxTokens is the token budget for one service response.
	MaxTokens int

	// Temperature controls model output randomness (0.0-1.0).
	Temperature float64

	// MaxTextLen is the hard cap on accepted question text length.
	MaxTextLen int

	// MaxStubAttempts caps the backfill loop per request. Zero means
	// max(50, count*10).
	MaxStubAttempts int

	// AllowVariantSuffix permits appending a "(variant N)" suffix to force
	// stub uniqueness when the template space is exhausted. Development
	// escape hatch; leave false in production, where backfill exhaustion
	// returns a short batch instead.
	AllowVariantSuffix bool

	// Rand seeds the template stub. Nil gets a fresh source.
	Rand *rand.Rand

	// Logger receives attempt-level warnings. Nil falls back to the logrus
	// standard logger.
	Logger *logrus.Logger
}

// DefaultConfig returns a Config with the built-in role table and
// recommended defaults.
func DefaultConfig() Config {
	return Config{
		Roles:       DefaultRoles(),
		Default:     defaultProfile,
		MaxTokens:   700,
		Temperature: 0.2,
		MaxTextLen:  300,
	}
}
