package qgen

// RoleProfile drives generation quotas for one role key.
// Static configuration, never mutated at runtime.
type RoleProfile struct {
	// MathRatio is the fraction of a batch that should be math questions,
	// in [0,1]. The math quota for a request of n questions is
	// round(n * MathRatio).
	MathRatio float64

	// AllowedTypes is the set of question types this role accepts.
	AllowedTypes []QuestionType
}

// Allows reports whether t is in the profile's allowed-type set.
func (p RoleProfile) Allows(t QuestionType) bool {
	for _, a := range p.AllowedTypes {
		if a == t {
			return true
		}
	}
	return false
}

var bothTypes = []QuestionType{TypeMath, TypeReasoning}

// DefaultRoles returns the built-in role table. Role keys mirror the
// interview tracks: tech, hr, apt (aptitude), beh (behavioral).
func DefaultRoles() map[string]RoleProfile {
	return map[string]RoleProfile{
		"tech": {MathRatio: 0.05, AllowedTypes: bothTypes},
		"hr":   {MathRatio: 0, AllowedTypes: []QuestionType{TypeReasoning}},
		"apt":  {MathRatio: 0.7, AllowedTypes: bothTypes},
		"beh":  {MathRatio: 0, AllowedTypes: []QuestionType{TypeReasoning}},
	}
}

// defaultProfile is used for unknown roles: balanced quota, both types.
var defaultProfile = RoleProfile{MathRatio: 0.5, AllowedTypes: bothTypes}
