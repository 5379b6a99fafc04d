package store

import (
	"context"
	"sync"

	"whatsapp-autoreply/pkg/models"
)

// Memory keeps the agent state in process memory. Logs grow without bound;
// only RecentLogs and GetAgentState apply the window.
type Memory struct {
	mu     sync.RWMutex
	config models.AgentConfig
	logs   []models.LogEntry // oldest first, appended
	window int
}

func NewMemory(initial models.AgentConfig, window int) *Memory {
	if window <= 0 {
		window = DefaultLogWindow
	}
	return &Memory{config: initial.Clone(), window: window}
}

func (m *Memory) GetAgentState(ctx context.Context) (models.AgentState, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return models.AgentState{
		Config: m.config.Clone(),
		Logs:   m.recent(m.window),
	}, nil
}

func (m *Memory) GetConfig(ctx context.Context) (models.AgentConfig, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.config.Clone(), nil
}

func (m *Memory) UpdateConfig(ctx context.Context, mutate Mutator) (models.AgentConfig, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	next := mutate(m.config.Clone()).Clone()
	m.config = next
	return next.Clone(), nil
}

func (m *Memory) PushLog(ctx context.Context, entry models.LogEntry) error {
	m.mu.Lock()
	m.logs = append(m.logs, entry)
	m.mu.Unlock()
	return nil
}

func (m *Memory) RecentLogs(ctx context.Context, limit int) ([]models.LogEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.recent(limit), nil
}

// recent returns up to limit entries newest first. Caller holds the lock.
func (m *Memory) recent(limit int) []models.LogEntry {
	n := len(m.logs)
	if limit <= 0 || limit > n {
		limit = n
	}
	out := make([]models.LogEntry, 0, limit)
	for i := n - 1; i >= n-limit; i-- {
		out = append(out, m.logs[i])
	}
	return out
}
