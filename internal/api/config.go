package api

import (
	"context"
	"log"
	"net/http"

	"whatsapp-autoreply/internal/store"
	"whatsapp-autoreply/internal/validation"
	"whatsapp-autoreply/pkg/models"

	"github.com/gin-gonic/gin"
)

// ConfigNotifier is told about every saved config
type ConfigNotifier interface {
	NotifyConfig(cfg models.AgentConfig)
}

type ConfigHandler struct {
	Store    store.Store
	Notifier ConfigNotifier
}

func NewConfigHandler(s store.Store, notifier ConfigNotifier) *ConfigHandler {
	return &ConfigHandler{Store: s, Notifier: notifier}
}

// GetConfig returns the current agent config
func (h *ConfigHandler) GetConfig(c *gin.Context) {
	cfg, err := h.Store.GetConfig(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, cfg)
}

// UpdateConfig replaces the whole agent config
func (h *ConfigHandler) UpdateConfig(c *gin.Context) {
	var cfg models.AgentConfig
	if err := c.ShouldBindJSON(&cfg); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid payload: " + err.Error()})
		return
	}
	if err := validation.AgentConfig(cfg); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	updated, err := h.Apply(c.Request.Context(), cfg)
	if err != nil {
		log.Printf("Error saving agent config: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, updated)
}

// Apply saves an already validated config and tells the notifier. Dashboard
// saves and agent file reloads both go through here.
func (h *ConfigHandler) Apply(ctx context.Context, cfg models.AgentConfig) (models.AgentConfig, error) {
	if cfg.Rules == nil {
		cfg.Rules = []models.AutomationRule{}
	}
	updated, err := h.Store.UpdateConfig(ctx, store.Replace(cfg))
	if err != nil {
		return models.AgentConfig{}, err
	}

	log.Printf("Agent config saved: %d rules, aiEnabled=%v", len(updated.Rules), updated.AIEnabled)
	if h.Notifier != nil {
		h.Notifier.NotifyConfig(updated)
	}
	return updated, nil
}
