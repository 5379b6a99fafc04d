package store

import (
	"context"

	"whatsapp-autoreply/pkg/models"
)

// DefaultLogWindow is how many activity entries the dashboard sees
const DefaultLogWindow = 50

// Mutator derives the next config from the current one
type Mutator func(current models.AgentConfig) models.AgentConfig

// Store owns the agent configuration and the activity log.
//
// GetAgentState and GetConfig must return a consistent snapshot: a concurrent
// UpdateConfig is either fully visible or not at all. PushLog must not lose entries under
// concurrent callers.
type Store interface {
	GetAgentState(ctx context.Context) (models.AgentState, error)
	GetConfig(ctx context.Context) (models.AgentConfig, error)
	UpdateConfig(ctx context.Context, mutate Mutator) (models.AgentConfig, error)
	PushLog(ctx context.Context, entry models.LogEntry) error
	RecentLogs(ctx context.Context, limit int) ([]models.LogEntry, error)
}

// Replace returns a Mutator that discards the current config
func Replace(cfg models.AgentConfig) Mutator {
	return func(models.AgentConfig) models.AgentConfig { return cfg }
}
