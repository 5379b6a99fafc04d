package models

import (
	"time"
)

// AutomationRule is one row of the ordered rule set. Position keeps the
// declared order; RuleID is the id the dashboard assigned.
type AutomationRule struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	RuleID    string    `gorm:"type:varchar(255);not null;uniqueIndex" json:"id"`
	Position  int       `gorm:"not null;index" json:"-"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	MatchType string    `gorm:"type:varchar(20);not null" json:"matchType"`
	Pattern   string    `gorm:"type:text" json:"pattern"`
	Response  string    `gorm:"type:text" json:"response"`
	Active    bool      `json:"active"` // no default tag: false must persist
	CreatedAt time.Time `gorm:"autoCreateTime" json:"-"`
}

func (AutomationRule) TableName() string {
	return "automation_rules"
}

// SystemSetting holds the scalar parts of the agent config
type SystemSetting struct {
	Key       string    `gorm:"primaryKey;type:varchar(100)" json:"key"`
	Value     string    `gorm:"type:text" json:"value"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (SystemSetting) TableName() string {
	return "system_settings"
}

// ActivityLog is a persisted activity feed entry
type ActivityLog struct {
	ID        uint      `gorm:"primaryKey"`
	EntryID   string    `gorm:"type:varchar(64);not null;uniqueIndex"`
	Direction string    `gorm:"type:varchar(20);not null"`
	Contact   string    `gorm:"type:varchar(255)"`
	Preview   string    `gorm:"type:text"`
	RuleID    string    `gorm:"type:varchar(255)"`
	Timestamp time.Time `gorm:"column:logged_at;not null;index"`
}

func (ActivityLog) TableName() string {
	return "activity_logs"
}

// All lists every table for AutoMigrate and the data tools
func All() []interface{} {
	return []interface{}{
		&AutomationRule{},
		&SystemSetting{},
		&ActivityLog{},
	}
}
