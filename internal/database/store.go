package database

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"whatsapp-autoreply/internal/models"
	"whatsapp-autoreply/internal/store"
	domain "whatsapp-autoreply/pkg/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	keyDefaultResponse = "default_response"
	keyAIEnabled       = "ai_enabled"
)

// Store persists the agent state through GORM
type Store struct {
	db     *gorm.DB
	mu     sync.RWMutex // writers replace the config, readers see whole saves
	window int
}

// NewStore wraps db and writes initial as the config when the database has
// none yet.
func NewStore(ctx context.Context, db *gorm.DB, initial domain.AgentConfig, window int) (*Store, error) {
	if window <= 0 {
		window = store.DefaultLogWindow
	}
	s := &Store{db: db, window: window}

	var count int64
	if err := db.WithContext(ctx).Model(&models.SystemSetting{}).Where("key = ?", keyDefaultResponse).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("check settings: %w", err)
	}
	if count == 0 {
		if _, err := s.UpdateConfig(ctx, store.Replace(initial)); err != nil {
			return nil, fmt.Errorf("seed config: %w", err)
		}
	}
	return s, nil
}

// GetAgentState reads the config and the log window. The read lock keeps a
// save from landing between the rules and settings queries; READ COMMITTED
// on PostgreSQL gives each SELECT its own snapshot.
func (s *Store) GetAgentState(ctx context.Context) (domain.AgentState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var state domain.AgentState
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cfg, err := loadConfig(tx)
		if err != nil {
			return err
		}
		logs, err := recentLogs(tx, s.window)
		if err != nil {
			return err
		}
		state = domain.AgentState{Config: cfg, Logs: logs}
		return nil
	})
	return state, err
}

// GetConfig reads only the config, skipping the log window
func (s *Store) GetConfig(ctx context.Context) (domain.AgentConfig, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var cfg domain.AgentConfig
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		cfg, err = loadConfig(tx)
		return err
	})
	return cfg, err
}

func (s *Store) UpdateConfig(ctx context.Context, mutate store.Mutator) (domain.AgentConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var next domain.AgentConfig
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		current, err := loadConfig(tx)
		if err != nil {
			return err
		}
		next = mutate(current).Clone()

		if err := tx.Where("1 = 1").Delete(&models.AutomationRule{}).Error; err != nil {
			return fmt.Errorf("clear rules: %w", err)
		}
		if len(next.Rules) > 0 {
			rows := make([]models.AutomationRule, len(next.Rules))
			for i, r := range next.Rules {
				rows[i] = models.AutomationRule{
					RuleID:    r.ID,
					Position:  i,
					Name:      r.Name,
					MatchType: string(r.MatchType),
					Pattern:   r.Pattern,
					Response:  r.Response,
					Active:    r.Active,
				}
			}
			if err := tx.Create(&rows).Error; err != nil {
				return fmt.Errorf("insert rules: %w", err)
			}
		}

		settings := []models.SystemSetting{
			{Key: keyDefaultResponse, Value: next.DefaultResponse},
			{Key: keyAIEnabled, Value: strconv.FormatBool(next.AIEnabled)},
		}
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).Create(&settings).Error
	})
	if err != nil {
		return domain.AgentConfig{}, err
	}
	return next, nil
}

func (s *Store) PushLog(ctx context.Context, entry domain.LogEntry) error {
	row := models.ActivityLog{
		EntryID:   entry.ID,
		Direction: string(entry.Direction),
		Contact:   entry.Contact,
		Preview:   entry.Preview,
		RuleID:    entry.RuleID,
		Timestamp: entry.Timestamp,
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("insert activity log: %w", err)
	}
	return nil
}

func (s *Store) RecentLogs(ctx context.Context, limit int) ([]domain.LogEntry, error) {
	return recentLogs(s.db.WithContext(ctx), limit)
}

func loadConfig(tx *gorm.DB) (domain.AgentConfig, error) {
	var cfg domain.AgentConfig

	var rows []models.AutomationRule
	if err := tx.Order("position ASC").Find(&rows).Error; err != nil {
		return cfg, fmt.Errorf("load rules: %w", err)
	}
	cfg.Rules = make([]domain.AutomationRule, len(rows))
	for i, r := range rows {
		cfg.Rules[i] = domain.AutomationRule{
			ID:        r.RuleID,
			Name:      r.Name,
			MatchType: domain.MatchType(r.MatchType),
			Pattern:   r.Pattern,
			Response:  r.Response,
			Active:    r.Active,
		}
	}

	var settings []models.SystemSetting
	if err := tx.Where("key IN ?", []string{keyDefaultResponse, keyAIEnabled}).Find(&settings).Error; err != nil {
		return cfg, fmt.Errorf("load settings: %w", err)
	}
	for _, st := range settings {
		switch st.Key {
		case keyDefaultResponse:
			cfg.DefaultResponse = st.Value
		case keyAIEnabled:
			b, err := strconv.ParseBool(st.Value)
			if err != nil {
				return cfg, fmt.Errorf("setting %s: %w", keyAIEnabled, err)
			}
			cfg.AIEnabled = b
		}
	}
	return cfg, nil
}

// recentLogs returns up to limit entries newest first; limit <= 0 means all
func recentLogs(tx *gorm.DB, limit int) ([]domain.LogEntry, error) {
	q := tx.Order("logged_at DESC, id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var rows []models.ActivityLog
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("load activity logs: %w", err)
	}
	out := make([]domain.LogEntry, len(rows))
	for i, r := range rows {
		out[i] = domain.LogEntry{
			ID:        r.EntryID,
			Direction: domain.Direction(r.Direction),
			Timestamp: r.Timestamp,
			Contact:   r.Contact,
			Preview:   r.Preview,
			RuleID:    r.RuleID,
		}
	}
	return out, nil
}
