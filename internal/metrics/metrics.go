package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	MessagesReceived = promauto.NewCounter(prometheus.CounterOpts{
		Name: "autoreply_messages_received_total",
		Help: "Total number of inbound text messages taken from webhook payloads.",
	})

	RepliesResolved = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "autoreply_replies_resolved_total",
		Help: "Total number of resolved replies, labelled by path (rule, fallback, ai_fallback).",
	}, []string{"path"})

	RulesMatched = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "autoreply_rules_matched_total",
		Help: "Total number of rule matches, labelled by rule ID.",
	}, []string{"rule_id"})

	RepliesSuppressed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "autoreply_replies_suppressed_total",
		Help: "Total number of replies not sent because the resolved text was empty.",
	})

	Deliveries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "autoreply_deliveries_total",
		Help: "Total number of outbound deliveries, labelled by status.",
	}, []string{"status"})

	WebhookDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "autoreply_webhook_duration_ms",
		Help:    "Webhook batch processing latency in milliseconds, delivery included.",
		Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 10000},
	})
)
