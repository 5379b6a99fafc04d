package automation

import (
	"strings"
	"testing"

	"whatsapp-autoreply/pkg/models"
)

func TestResolveFallback(t *testing.T) {
	got := Resolve(models.AutomationRule{}, false, models.AgentConfig{DefaultResponse: "X"})
	want := Reply{Text: "X", Path: PathFallback}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestResolveAIFallback(t *testing.T) {
	got := Resolve(models.AutomationRule{}, false, models.AgentConfig{DefaultResponse: "X", AIEnabled: true})
	if !strings.HasPrefix(got.Text, "X") {
		t.Errorf("text %q does not start with default response", got.Text)
	}
	if !strings.HasSuffix(got.Text, "\n\n"+AINote) {
		t.Errorf("text %q does not end with the AI note", got.Text)
	}
	if got.RuleID != "" || got.Path != PathAIFallback {
		t.Errorf("unexpected reply %+v", got)
	}
}

func TestResolveRuleMatchIgnoresAIFlag(t *testing.T) {
	r := rule("r1", models.MatchAlways, "", true)
	for _, ai := range []bool{false, true} {
		got := Resolve(r, true, models.AgentConfig{DefaultResponse: "X", AIEnabled: ai})
		if got.Text != r.Response || got.RuleID != "r1" || got.Path != PathRule {
			t.Errorf("aiEnabled=%v: got %+v", ai, got)
		}
	}
}

func TestResolveEmptyDefault(t *testing.T) {
	got := Resolve(models.AutomationRule{}, false, models.AgentConfig{})
	if got.Text != "" {
		t.Fatalf("expected empty text, got %q", got.Text)
	}
}
