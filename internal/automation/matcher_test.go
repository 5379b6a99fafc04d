package automation

import (
	"strings"
	"testing"

	"whatsapp-autoreply/pkg/models"
)

func rule(id string, mt models.MatchType, pattern string, active bool) models.AutomationRule {
	return models.AutomationRule{
		ID:        id,
		Name:      id,
		MatchType: mt,
		Pattern:   pattern,
		Response:  "reply from " + id,
		Active:    active,
	}
}

func TestEvaluate(t *testing.T) {
	cases := []struct {
		name   string
		rules  []models.AutomationRule
		text   string
		wantID string // empty means no match
	}{
		{
			name:  "empty rule set",
			rules: nil,
			text:  "hello",
		},
		{
			name:   "always ignores pattern",
			rules:  []models.AutomationRule{rule("a", models.MatchAlways, "zzz", true)},
			text:   "anything at all",
			wantID: "a",
		},
		{
			name:   "contains is case insensitive",
			rules:  []models.AutomationRule{rule("c", models.MatchContains, "PriCing", true)},
			text:   "What is the PRICING?",
			wantID: "c",
		},
		{
			name:  "contains is not stemmed",
			rules: []models.AutomationRule{rule("c", models.MatchContains, "price", true)},
			text:  "What is the pricing?",
		},
		{
			name:  "contains miss",
			rules: []models.AutomationRule{rule("c", models.MatchContains, "refund", true)},
			text:  "What is the pricing?",
		},
		{
			name:   "keyword matches whole token",
			rules:  []models.AutomationRule{rule("k", models.MatchKeyword, "Hello", true)},
			text:   "well, hello!",
			wantID: "k",
		},
		{
			name:  "keyword does not match inside a word",
			rules: []models.AutomationRule{rule("k", models.MatchKeyword, "hi", true)},
			text:  "this is a test",
		},
		{
			name:  "multi-word keyword is one token and never matches",
			rules: []models.AutomationRule{rule("k", models.MatchKeyword, "good morning", true)},
			text:  "good morning team",
		},
		{
			name:   "keyword splits on punctuation",
			rules:  []models.AutomationRule{rule("k", models.MatchKeyword, "order", true)},
			text:   "status of my order#1234?",
			wantID: "k",
		},
		{
			name:  "empty pattern never matches",
			rules: []models.AutomationRule{rule("c", models.MatchContains, "  ", true), rule("k", models.MatchKeyword, "", true)},
			text:  "hello",
		},
		{
			name:  "unknown match type never matches",
			rules: []models.AutomationRule{rule("x", "regex", ".*", true)},
			text:  "hello",
		},
		{
			name: "all inactive returns none",
			rules: []models.AutomationRule{
				rule("a", models.MatchAlways, "", false),
				rule("c", models.MatchContains, "hello", false),
			},
			text: "hello",
		},
		{
			name: "earlier rule wins",
			rules: []models.AutomationRule{
				rule("r1", models.MatchContains, "help", true),
				rule("r2", models.MatchKeyword, "help", true),
			},
			text:   "help me",
			wantID: "r1",
		},
		{
			name: "inactive earlier rule is skipped",
			rules: []models.AutomationRule{
				rule("r1", models.MatchContains, "help", false),
				rule("r2", models.MatchAlways, "", true),
			},
			text:   "help me",
			wantID: "r2",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := Evaluate(tc.rules, tc.text)
			if tc.wantID == "" {
				if ok {
					t.Fatalf("expected no match, got %q", got.ID)
				}
				return
			}
			if !ok {
				t.Fatalf("expected %q, got no match", tc.wantID)
			}
			if got.ID != tc.wantID {
				t.Errorf("got %q, want %q", got.ID, tc.wantID)
			}
		})
	}
}

// Any returned rule must be active and genuinely match the text.
func TestEvaluateReturnsOnlyGenuineMatches(t *testing.T) {
	rules := []models.AutomationRule{
		rule("off", models.MatchAlways, "", false),
		rule("refund", models.MatchKeyword, "refund", true),
		rule("ship", models.MatchContains, "ship", true),
	}
	texts := []string{"", "I want a REFUND.", "when will you ship it", "refunds please", "nothing here"}

	for _, text := range texts {
		got, ok := Evaluate(rules, text)
		if !ok {
			continue
		}
		if !got.Active {
			t.Errorf("%q: matched inactive rule %q", text, got.ID)
		}
		switch got.MatchType {
		case models.MatchContains:
			if !strings.Contains(strings.ToLower(text), got.Pattern) {
				t.Errorf("%q: contains rule %q does not match", text, got.ID)
			}
		case models.MatchKeyword:
			if !matchKeyword(tokenize(text), got.Pattern) {
				t.Errorf("%q: keyword rule %q does not match", text, got.ID)
			}
		}
	}

	if _, ok := Evaluate(rules, "refunds please"); ok {
		t.Error("keyword 'refund' should not match token 'refunds'")
	}
}

func TestDefaultConfigMatchesPricingQuestion(t *testing.T) {
	cfg := models.DefaultAgentConfig()

	got, ok := Evaluate(cfg.Rules, "Hi, what's your pricing?")
	if !ok || got.ID != "pricing" {
		t.Fatalf("got %q (matched=%v), want pricing", got.ID, ok)
	}
}
