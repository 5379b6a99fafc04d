package webhook

import (
	"context"
	"log"
	"net/http"

	"whatsapp-autoreply/internal/automation"
	"whatsapp-autoreply/internal/config"
	"whatsapp-autoreply/pkg/models"

	"github.com/gin-gonic/gin"
)

// Processor handles a decoded webhook batch
type Processor interface {
	HandleWebhook(ctx context.Context, payload models.WebhookPayload) (automation.Report, error)
}

type Handler struct {
	Config           *config.Config
	AutomationEngine Processor
}

func NewHandler(cfg *config.Config, automationEngine Processor) *Handler {
	return &Handler{
		Config:           cfg,
		AutomationEngine: automationEngine,
	}
}

func (h *Handler) VerifyWebhook(c *gin.Context) {
	mode := c.Query("hub.mode")
	token := c.Query("hub.verify_token")
	challenge := c.Query("hub.challenge")

	if mode == "subscribe" && token != "" && token == h.Config.VerifyToken {
		log.Println("Webhook verified successfully!")
		c.String(http.StatusOK, challenge)
		return
	}

	log.Printf("Webhook verification failed (mode=%q)", mode)
	c.JSON(http.StatusForbidden, gin.H{"message": "Verification failed"})
}

func (h *Handler) HandleMessage(c *gin.Context) {
	var payload models.WebhookPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		log.Printf("Error binding JSON: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Webhook error", "detail": err.Error()})
		return
	}

	// Replies already decided must still go out if the provider hangs up
	ctx := context.WithoutCancel(c.Request.Context())
	report, err := h.AutomationEngine.HandleWebhook(ctx, payload)
	if err != nil {
		log.Printf("Error processing webhook: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Webhook error", "detail": err.Error()})
		return
	}

	if report.Messages > 0 {
		log.Printf("Webhook processed: %d messages, %d replies, %d delivered, %d failed",
			report.Messages, report.Intents, report.Delivered, report.Failed)
	}
	c.JSON(http.StatusOK, gin.H{"status": "received"})
}
