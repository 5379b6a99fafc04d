package api

import (
	"log"
	"net/http"
	"strconv"

	"whatsapp-autoreply/internal/automation"
	"whatsapp-autoreply/internal/config"
	"whatsapp-autoreply/internal/store"
	"whatsapp-autoreply/internal/validation"
	"whatsapp-autoreply/pkg/models"

	"github.com/gin-gonic/gin"
)

const maxLogLimit = 500

type DashboardHandler struct {
	Config   *config.Config
	Store    store.Store
	Sender   automation.Sender
	Recorder *automation.Recorder
}

func NewDashboardHandler(cfg *config.Config, s store.Store, sender automation.Sender, recorder *automation.Recorder) *DashboardHandler {
	return &DashboardHandler{Config: cfg, Store: s, Sender: sender, Recorder: recorder}
}

type SendRequest struct {
	To      string `json:"to" validate:"required,min=8"`
	Message string `json:"message" validate:"required"`
}

// SendMessage delivers a one-off text message typed into the dashboard
func (h *DashboardHandler) SendMessage(c *gin.Context) {
	var req SendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid payload: " + err.Error()})
		return
	}
	if err := validation.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	if err := h.Sender.SendMessage(c.Request.Context(), req.To, req.Message); err != nil {
		log.Printf("Error sending manual message to %s: %v", req.To, err)
		c.JSON(http.StatusBadGateway, gin.H{"message": "Failed to send message: " + err.Error()})
		return
	}

	if h.Config.LogOutgoing && h.Recorder != nil {
		if _, err := h.Recorder.Record(c.Request.Context(), models.LogEntry{
			Direction: models.DirectionOutgoing,
			Contact:   req.To,
			Preview:   req.Message,
		}); err != nil {
			log.Printf("Error recording manual message to %s: %v", req.To, err)
		}
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// GetLogs returns the newest activity entries
func (h *DashboardHandler) GetLogs(c *gin.Context) {
	limit := h.Config.LogWindow
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"message": "limit must be a positive integer"})
			return
		}
		limit = n
	}
	if limit <= 0 {
		limit = store.DefaultLogWindow
	}
	if limit > maxLogLimit {
		limit = maxLogLimit
	}

	logs, err := h.Store.RecentLogs(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, logs)
}

// GetState returns the config and the recent activity in one document
func (h *DashboardHandler) GetState(c *gin.Context) {
	state, err := h.Store.GetAgentState(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, state)
}

// GetStatus reports which provider credentials are configured
func (h *DashboardHandler) GetStatus(c *gin.Context) {
	c.JSON(http.StatusOK, h.Config.Status())
}
