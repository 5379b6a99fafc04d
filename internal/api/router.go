package api

import (
	"net/http"

	"whatsapp-autoreply/internal/webhook"
	"whatsapp-autoreply/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handlers bundles everything the router mounts. Hub may be nil.
type Handlers struct {
	Webhook   *webhook.Handler
	Dashboard *DashboardHandler
	Config    *ConfigHandler
	Hub       *ws.Hub
}

// NewRouter mounts every route on r
func NewRouter(r *gin.Engine, h Handlers) *gin.Engine {
	r.Use(CORS())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Webhook Routes
	r.GET("/webhook", h.Webhook.VerifyWebhook)
	r.POST("/webhook", h.Webhook.HandleMessage)

	if h.Hub != nil {
		r.GET("/ws", func(c *gin.Context) {
			h.Hub.ServeWs(c.Writer, c.Request)
		})
	}

	// Dashboard API Routes
	apiGroup := r.Group("/api")
	{
		// Alias the dashboard frontend points Meta at
		apiGroup.GET("/webhook", h.Webhook.VerifyWebhook)
		apiGroup.POST("/webhook", h.Webhook.HandleMessage)

		apiGroup.POST("/send", h.Dashboard.SendMessage)
		apiGroup.GET("/logs", h.Dashboard.GetLogs)
		apiGroup.GET("/state", h.Dashboard.GetState)
		apiGroup.GET("/status", h.Dashboard.GetStatus)

		apiGroup.GET("/config", h.Config.GetConfig)
		apiGroup.PUT("/config", h.Config.UpdateConfig)
	}

	return r
}
