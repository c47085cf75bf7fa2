package qgen

import (
	"context"
	"fmt"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/abhisek/intervue/internal/llm"
	"github.com/abhisek/intervue/internal/textsig"
)

// Generator produces role-constrained, quota-balanced interview question
// batches. It drives the external service in a bounded retry loop and
// backfills with the template stub when the service under-delivers.
//
// Generate is a total function: service and parse failures are absorbed at
// each attempt boundary, and the worst case is an empty (or short) Result,
// never an error.
type Generator struct {
	provider llm.Provider
	stub     *TemplateStub
	cfg      Config
	log      *logrus.Logger
}

// New creates a Generator with the given provider and config. A nil provider
// skips the service entirely; every question then comes from the template
// stub.
func New(provider llm.Provider, cfg Config) *Generator {
	log := cfg.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Generator{
		provider: provider,
		stub:     NewTemplateStub(cfg.Rand),
		cfg:      cfg,
		log:      log,
	}
}

// batch tracks the questions assembled during one Generate call. The
// signature set is local to the call; cross-request dedup belongs to the
// persistence layer.
type batch struct {
	items     []Question
	seen      map[string]bool
	mathCount int
}

func newBatch() *batch {
	return &batch{seen: map[string]bool{}}
}

// add appends q unless its signature is already present.
func (b *batch) add(q Question) bool {
	if b.seen[q.Signature] {
		return false
	}
	b.seen[q.Signature] = true
	b.items = append(b.items, q)
	if q.Type == TypeMath {
		b.mathCount++
	}
	return true
}

// removeReasoning drops up to n reasoning questions, newest first, and
// rebuilds the signature set.
func (b *batch) removeReasoning(n int) int {
	removed := 0
	for i := len(b.items) - 1; i >= 0 && removed < n; i-- {
		if b.items[i].Type == TypeReasoning {
			b.items = append(b.items[:i], b.items[i+1:]...)
			removed++
		}
	}
	b.rebuildSeen()
	return removed
}

// removeDisallowed drops every question whose type the profile rejects and
// rebuilds the signature set.
func (b *batch) removeDisallowed(profile RoleProfile) int {
	kept := b.items[:0]
	removed := 0
	for _, q := range b.items {
		if profile.Allows(q.Type) {
			kept = append(kept, q)
		} else {
			removed++
		}
	}
	b.items = kept
	b.rebuildSeen()
	return removed
}

func (b *batch) rebuildSeen() {
	b.seen = map[string]bool{}
	b.mathCount = 0
	for _, q := range b.items {
		b.seen[q.Signature] = true
		if q.Type == TypeMath {
			b.mathCount++
		}
	}
}

// Generate builds a batch of up to req.Count questions for req.Role.
func (g *Generator) Generate(ctx context.Context, req Request) Result {
	ctx = llm.WithPurpose(ctx, "question-gen")

	profile := g.resolveProfile(req.Role)
	mathNeed := int(math.Round(float64(req.Count) * profile.MathRatio))

	b := newBatch()

	// Main service loop: each attempt asks for the remaining need and the
	// remaining math sub-quota.
	maxAttempts := max(3, req.Count*3)
	for attempt := 1; attempt <= maxAttempts && len(b.items) < req.Count; attempt++ {
		remaining := req.Count - len(b.items)
		mathRemaining := min(max(0, mathNeed-b.mathCount), remaining)

		prompt := buildPrompt(req.Role, remaining, mathRemaining, req.Difficulty)
		g.collect(ctx, b, prompt, req.Count, mathNeed, attempt)
	}

	// Quota repair: when the service ignored the math quota, make room by
	// swapping out reasoning items and ask for the deficit directly.
	// Best-effort; the quota is a soft goal.
	if deficit := mathNeed - b.mathCount; deficit > 0 && profile.Allows(TypeMath) {
		b.removeReasoning(deficit)
		g.replace(ctx, b, req, profile, TypeMath, deficit, mathNeed)
	}

	// Policy enforcement: drop disallowed types and request targeted
	// reasoning-only replacements for the vacated slots.
	if removed := b.removeDisallowed(profile); removed > 0 {
		g.replace(ctx, b, req, profile, TypeReasoning, removed, mathNeed)
	}

	// Backfill with template stubs.
	g.backfill(b, req, profile, mathNeed)

	if len(b.items) > req.Count {
		b.items = b.items[:req.Count]
	}

	return g.finish(b, req)
}

// collect performs one service call and folds its valid items into the batch.
func (g *Generator) collect(ctx context.Context, b *batch, prompt string, count, mathNeed int, attempt int) {
	if g.provider == nil {
		return
	}
	resp, err := g.provider.Complete(ctx, llm.Request{
		System:      systemPrompt,
		Prompt:      prompt,
		MaxTokens:   g.cfg.MaxTokens,
		Temperature: g.cfg.Temperature,
	})
	if err != nil {
		g.log.WithError(err).WithField("attempt", attempt).Warn("question generation call failed")
		return
	}

	items, err := extractArray(resp.Text)
	if err != nil {
		g.log.WithError(err).WithField("attempt", attempt).Warn("question generation response unparsable")
		return
	}

	for _, raw := range items {
		if len(b.items) >= count {
			return
		}
		q, ok := g.buildQuestion(raw)
		if !ok {
			continue
		}
		// A zero (or met) math quota is a hard cap on math items. Allowed-type
		// policy is enforced afterwards, with targeted replacement calls.
		if q.Type == TypeMath && b.mathCount >= mathNeed {
			continue
		}
		b.add(q)
	}
}

// buildQuestion validates, classifies, and signs one wire item.
func (g *Generator) buildQuestion(raw []byte) (Question, bool) {
	item, ok := validateItem(raw, g.cfg.MaxTextLen)
	if !ok {
		return Question{}, false
	}

	q := Question{
		Text:       item.Text,
		Keywords:   item.Keywords,
		Difficulty: item.Difficulty,
		Type:       Classify(item.DeclaredType, item.Text),
		Source:     SourceLLM,
	}
	if q.Type == TypeMath {
		ensureNumericContent(&q)
	}
	q.Signature = textsig.Of(q.Text)
	return q, true
}

// replace runs bounded targeted calls asking for `need` items of a single
// type. Items of any other type, duplicates, and invalid items are ignored.
func (g *Generator) replace(ctx context.Context, b *batch, req Request, profile RoleProfile, want QuestionType, need, mathNeed int) {
	if need <= 0 || g.provider == nil {
		return
	}
	accepted := 0
	maxCalls := max(2, need*3)

	for call := 1; call <= maxCalls && accepted < need; call++ {
		prompt := buildReplacementPrompt(req.Role, need-accepted, req.Difficulty, want)
		resp, err := g.provider.Complete(ctx, llm.Request{
			System:      systemPrompt,
			Prompt:      prompt,
			MaxTokens:   g.cfg.MaxTokens,
			Temperature: g.cfg.Temperature,
		})
		if err != nil {
			g.log.WithError(err).WithField("want", string(want)).Warn("replacement call failed")
			continue
		}
		items, err := extractArray(resp.Text)
		if err != nil {
			g.log.WithError(err).Warn("replacement response unparsable")
			continue
		}
		for _, raw := range items {
			if accepted >= need {
				break
			}
			q, ok := g.buildQuestion(raw)
			if !ok || q.Type != want || !profile.Allows(q.Type) {
				continue
			}
			if q.Type == TypeMath && b.mathCount >= mathNeed {
				continue
			}
			if b.add(q) {
				accepted++
			}
		}
	}
}

// backfill tops the batch up to the requested count with template stubs,
// enforcing signature uniqueness and the role's type policy.
func (g *Generator) backfill(b *batch, req Request, profile RoleProfile, mathNeed int) {
	maxAttempts := g.cfg.MaxStubAttempts
	if maxAttempts == 0 {
		maxAttempts = max(50, req.Count*10)
	}

	for attempt := 0; attempt < maxAttempts && len(b.items) < req.Count; attempt++ {
		payload := g.stub.Stub(req.Role, req.Difficulty)
		if q, ok := g.stubQuestion(payload, b, profile, mathNeed); ok {
			b.add(q)
		}
	}

	// Last resort, development only: force uniqueness with a short suffix.
	if g.cfg.AllowVariantSuffix {
		for variant := 2; len(b.items) < req.Count && variant < 2+req.Count*2; variant++ {
			payload := g.stub.Stub(req.Role, req.Difficulty)
			payload.Text = fmt.Sprintf("%s (variant %d)", payload.Text, variant)
			if q, ok := g.stubQuestion(payload, b, profile, mathNeed); ok {
				b.add(q)
			}
		}
	}
}

// stubQuestion classifies and signs a stub payload, rejecting it when the
// role policy or math cap would be violated.
func (g *Generator) stubQuestion(payload StubQuestion, b *batch, profile RoleProfile, mathNeed int) (Question, bool) {
	q := Question{
		Text:       payload.Text,
		Keywords:   payload.Keywords,
		Difficulty: payload.Difficulty,
		Type:       inferType(payload.Text),
		Source:     SourceTemplate,
	}
	if !profile.Allows(q.Type) {
		return Question{}, false
	}
	if q.Type == TypeMath {
		if b.mathCount >= mathNeed {
			return Question{}, false
		}
		ensureNumericContent(&q)
	}
	q.Signature = textsig.Of(q.Text)
	return q, true
}

func (g *Generator) resolveProfile(role string) RoleProfile {
	if p, ok := g.cfg.Roles[role]; ok {
		return p
	}
	return g.cfg.Default
}

func (g *Generator) finish(b *batch, req Request) Result {
	res := Result{
		Questions: b.items,
		Requested: req.Count,
		Degraded:  len(b.items) < req.Count,
	}
	for _, q := range b.items {
		if q.Source == SourceTemplate {
			res.FromStub++
		} else {
			res.FromLLM++
		}
	}
	if res.Degraded {
		g.log.WithFields(logrus.Fields{
			"role":      req.Role,
			"requested": req.Count,
			"created":   len(b.items),
		}).Warn("generated fewer unique questions than requested")
	}
	return res
}
