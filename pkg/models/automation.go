package models

import "time"

// MatchType selects how a rule's pattern is tested against an inbound message
type MatchType string

const (
	MatchAlways   MatchType = "always"
	MatchKeyword  MatchType = "keyword"
	MatchContains MatchType = "contains"
)

// Direction tells whether a log entry records an inbound or outbound message
type Direction string

const (
	DirectionIncoming Direction = "incoming"
	DirectionOutgoing Direction = "outgoing"
)

// AutomationRule represents a configured condition/response pair
type AutomationRule struct {
	ID        string    `json:"id" yaml:"id" validate:"required"`
	Name      string    `json:"name" yaml:"name" validate:"required"`
	MatchType MatchType `json:"matchType" yaml:"matchType" validate:"required,oneof=always keyword contains"`
	Pattern   string    `json:"pattern" yaml:"pattern" validate:"required_unless=MatchType always"`
	Response  string    `json:"response" yaml:"response" validate:"required"`
	Active    bool      `json:"active" yaml:"active"`
}

// AgentConfig is the full document edited from the dashboard. It is always
// replaced as a whole, never patched per field.
type AgentConfig struct {
	Rules           []AutomationRule `json:"rules" yaml:"rules" validate:"dive"`
	DefaultResponse string           `json:"defaultResponse" yaml:"defaultResponse"`
	AIEnabled       bool             `json:"aiEnabled" yaml:"aiEnabled"`
}

// Clone returns a copy that shares no slice memory with c
func (c AgentConfig) Clone() AgentConfig {
	out := c
	out.Rules = make([]AutomationRule, len(c.Rules))
	copy(out.Rules, c.Rules)
	return out
}

// DefaultAgentConfig is the configuration a fresh store starts with
func DefaultAgentConfig() AgentConfig {
	return AgentConfig{
		Rules: []AutomationRule{
			{
				ID:        "pricing",
				Name:      "Pricing questions",
				MatchType: MatchContains,
				Pattern:   "pricing",
				Response:  "Thanks for asking about pricing! Our team will share the latest price list with you shortly.",
				Active:    true,
			},
		},
		DefaultResponse: "Thanks for reaching out! We'll get back to you shortly.",
		AIEnabled:       false,
	}
}

// LogEntry represents one line of the activity feed
type LogEntry struct {
	ID        string    `json:"id"`
	Direction Direction `json:"direction"`
	Timestamp time.Time `json:"timestamp"`
	Contact   string    `json:"contact"`
	Preview   string    `json:"preview"`
	RuleID    string    `json:"ruleId,omitempty"`
}

// AgentState is the snapshot served to the dashboard on first load
type AgentState struct {
	Config AgentConfig `json:"config"`
	Logs   []LogEntry  `json:"logs"` // newest first
}
