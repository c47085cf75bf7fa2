package qgen

import (
	"math/rand/v2"
	"strings"
	"testing"
)

func seededStub() *TemplateStub {
	return NewTemplateStub(rand.New(rand.NewPCG(1, 2)))
}

func TestStub_ProducesNonEmptyPayload(t *testing.T) {
	s := seededStub()
	for _, role := range []string{"tech", "hr", "apt", "beh"} {
		q := s.Stub(role, 3)
		if q.Text == "" {
			t.Errorf("role %q: empty text", role)
		}
		if q.Keywords == "" {
			t.Errorf("role %q: empty keywords", role)
		}
		if q.Difficulty != 3 {
			t.Errorf("role %q: difficulty = %d, want 3", role, q.Difficulty)
		}
		if strings.Contains(q.Text, "{") || strings.Contains(q.Text, "}") {
			t.Errorf("role %q: unfilled placeholder in %q", role, q.Text)
		}
	}
}

func TestStub_UnknownRoleFallsBackToTech(t *testing.T) {
	s := seededStub()
	q := s.Stub("astronaut", 2)
	if q.Text == "" {
		t.Fatal("expected a tech-template question for unknown role")
	}
}

func TestStub_DeterministicForSeed(t *testing.T) {
	a := NewTemplateStub(rand.New(rand.NewPCG(7, 7))).Stub("tech", 3)
	b := NewTemplateStub(rand.New(rand.NewPCG(7, 7))).Stub("tech", 3)
	if a != b {
		t.Errorf("same seed produced different payloads: %+v vs %+v", a, b)
	}
}

func TestStub_VariesAcrossDraws(t *testing.T) {
	s := seededStub()
	texts := map[string]bool{}
	for range 30 {
		texts[s.Stub("tech", 3).Text] = true
	}
	if len(texts) < 2 {
		t.Error("expected varied stub texts over 30 draws")
	}
}

func TestStub_KeywordsAreLowercasedAndCapped(t *testing.T) {
	s := seededStub()
	for range 20 {
		q := s.Stub("hr", 2)
		parts := strings.Split(q.Keywords, ",")
		if len(parts) > 4 {
			t.Fatalf("more than 4 keywords: %q", q.Keywords)
		}
		for _, p := range parts {
			if p != strings.ToLower(p) {
				t.Fatalf("keyword not lowercased: %q", p)
			}
		}
	}
}
