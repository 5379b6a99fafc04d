package automation

import "whatsapp-autoreply/pkg/models"

// AINote is appended to the default response when AI enrichment is on
const AINote = "(Automated AI note: I'll follow up with more details soon.)"

// Path names how a reply was chosen
type Path string

const (
	PathRule       Path = "rule"
	PathFallback   Path = "fallback"
	PathAIFallback Path = "ai_fallback"
)

// Reply is the outcome of Resolve. An empty Text means nothing is sent.
type Reply struct {
	Text   string
	RuleID string
	Path   Path
}

// Resolve picks the outbound text for a message. matched and ok are the
// results of Evaluate.
func Resolve(matched models.AutomationRule, ok bool, cfg models.AgentConfig) Reply {
	if ok {
		return Reply{Text: matched.Response, RuleID: matched.ID, Path: PathRule}
	}
	if cfg.AIEnabled {
		return Reply{Text: cfg.DefaultResponse + "\n\n" + AINote, Path: PathAIFallback}
	}
	return Reply{Text: cfg.DefaultResponse, Path: PathFallback}
}
