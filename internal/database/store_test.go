package database

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"whatsapp-autoreply/internal/store"
	domain "whatsapp-autoreply/pkg/models"

	"gorm.io/driver/sqlite"
)

// Compile-time interface check.
var _ store.Store = (*Store)(nil)

func newTestStore(t *testing.T, initial domain.AgentConfig) *Store {
	t.Helper()
	db, err := OpenDialector(sqlite.Open("file::memory:"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	s, err := NewStore(context.Background(), db, initial, 3)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	return s
}

func TestStoreSeedsInitialConfig(t *testing.T) {
	s := newTestStore(t, domain.DefaultAgentConfig())

	state, err := s.GetAgentState(context.Background())
	if err != nil {
		t.Fatalf("GetAgentState: %v", err)
	}
	want := domain.DefaultAgentConfig()
	if state.Config.DefaultResponse != want.DefaultResponse || len(state.Config.Rules) != 1 {
		t.Fatalf("unexpected seeded config %+v", state.Config)
	}
	if state.Config.Rules[0] != want.Rules[0] {
		t.Errorf("rule = %+v, want %+v", state.Config.Rules[0], want.Rules[0])
	}
}

func TestStoreReplaceKeepsOrderAndFlags(t *testing.T) {
	s := newTestStore(t, domain.DefaultAgentConfig())
	ctx := context.Background()

	next := domain.AgentConfig{
		Rules: []domain.AutomationRule{
			{ID: "z", Name: "Z", MatchType: domain.MatchAlways, Response: "z", Active: false},
			{ID: "a", Name: "A", MatchType: domain.MatchKeyword, Pattern: "hi", Response: "a", Active: true},
			{ID: "m", Name: "M", MatchType: domain.MatchContains, Pattern: "help", Response: "m", Active: true},
		},
		DefaultResponse: "",
		AIEnabled:       true,
	}
	saved, err := s.UpdateConfig(ctx, store.Replace(next))
	if err != nil {
		t.Fatalf("UpdateConfig: %v", err)
	}
	if len(saved.Rules) != 3 {
		t.Fatalf("unexpected saved config %+v", saved)
	}

	state, err := s.GetAgentState(ctx)
	if err != nil {
		t.Fatalf("GetAgentState: %v", err)
	}
	got := state.Config
	if !got.AIEnabled || got.DefaultResponse != "" {
		t.Errorf("unexpected globals %+v", got)
	}
	for i, id := range []string{"z", "a", "m"} {
		if got.Rules[i].ID != id {
			t.Fatalf("rule %d = %q, want %q", i, got.Rules[i].ID, id)
		}
	}
	if got.Rules[0].Active {
		t.Error("inactive rule persisted as active")
	}

	// Replacing with an empty rule set clears the table
	if _, err := s.UpdateConfig(ctx, store.Replace(domain.AgentConfig{DefaultResponse: "x"})); err != nil {
		t.Fatalf("UpdateConfig: %v", err)
	}
	state, _ = s.GetAgentState(ctx)
	if len(state.Config.Rules) != 0 || state.Config.DefaultResponse != "x" || state.Config.AIEnabled {
		t.Fatalf("unexpected config after clear %+v", state.Config)
	}
}

func TestStoreSeedDoesNotOverwrite(t *testing.T) {
	db, err := OpenDialector(sqlite.Open("file::memory:"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	ctx := context.Background()

	if _, err := NewStore(ctx, db, domain.AgentConfig{DefaultResponse: "first"}, 0); err != nil {
		t.Fatalf("NewStore: %v", err)
	}

	second, err := NewStore(ctx, db, domain.AgentConfig{DefaultResponse: "second"}, 0)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	state, _ := second.GetAgentState(ctx)
	if state.Config.DefaultResponse != "first" {
		t.Fatalf("existing config overwritten: %q", state.Config.DefaultResponse)
	}
}

func TestStoreLogsNewestFirst(t *testing.T) {
	s := newTestStore(t, domain.AgentConfig{})
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		err := s.PushLog(ctx, domain.LogEntry{
			ID:        fmt.Sprintf("e%d", i),
			Direction: domain.DirectionIncoming,
			Timestamp: base.Add(time.Duration(i) * time.Minute),
			Contact:   "Ana",
			Preview:   "hi",
			RuleID:    "r",
		})
		if err != nil {
			t.Fatalf("PushLog: %v", err)
		}
	}

	state, _ := s.GetAgentState(ctx)
	if len(state.Logs) != 3 || state.Logs[0].ID != "e4" || state.Logs[2].ID != "e2" {
		t.Fatalf("unexpected window %+v", state.Logs)
	}

	all, err := s.RecentLogs(ctx, 0)
	if err != nil {
		t.Fatalf("RecentLogs: %v", err)
	}
	if len(all) != 5 {
		t.Fatalf("expected all 5 entries retained, got %d", len(all))
	}
	if all[4].RuleID != "r" || all[4].Direction != domain.DirectionIncoming || !all[4].Timestamp.Equal(base) {
		t.Errorf("entry not round-tripped: %+v", all[4])
	}
}

func TestStoreConcurrentPushLog(t *testing.T) {
	s := newTestStore(t, domain.AgentConfig{})
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if err := s.PushLog(ctx, domain.LogEntry{ID: fmt.Sprint(i), Direction: domain.DirectionOutgoing, Timestamp: time.Now()}); err != nil {
				t.Errorf("PushLog: %v", err)
			}
		}(i)
	}
	wg.Wait()

	all, _ := s.RecentLogs(ctx, 0)
	if len(all) != 50 {
		t.Fatalf("lost entries: got %d", len(all))
	}
}

func TestStoreReadsNeverMixTwoSaves(t *testing.T) {
	configFor := func(id string) domain.AgentConfig {
		return domain.AgentConfig{
			Rules: []domain.AutomationRule{
				{ID: id, Name: id, MatchType: domain.MatchAlways, Response: id, Active: true},
			},
			DefaultResponse: id,
			AIEnabled:       id == "b",
		}
	}
	s := newTestStore(t, configFor("a"))
	ctx := context.Background()

	check := func(cfg domain.AgentConfig) {
		if len(cfg.Rules) != 1 {
			t.Errorf("rules = %+v", cfg.Rules)
			return
		}
		id := cfg.Rules[0].ID
		if cfg.DefaultResponse != id || cfg.AIEnabled != (id == "b") {
			t.Errorf("mixed snapshot: rule %q with default %q ai=%v", id, cfg.DefaultResponse, cfg.AIEnabled)
		}
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 20; i++ {
			id := "a"
			if i%2 == 0 {
				id = "b"
			}
			if _, err := s.UpdateConfig(ctx, store.Replace(configFor(id))); err != nil {
				t.Errorf("UpdateConfig: %v", err)
			}
		}
	}()
	for r := 0; r < 4; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 20; i++ {
				cfg, err := s.GetConfig(ctx)
				if err != nil {
					t.Errorf("GetConfig: %v", err)
					return
				}
				check(cfg)
				state, err := s.GetAgentState(ctx)
				if err != nil {
					t.Errorf("GetAgentState: %v", err)
					return
				}
				check(state.Config)
			}
		}()
	}
	wg.Wait()
}
