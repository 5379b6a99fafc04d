package automation

import (
	"context"
	"fmt"
	"log"
	"time"

	"whatsapp-autoreply/internal/metrics"
	"whatsapp-autoreply/internal/store"
	"whatsapp-autoreply/pkg/models"

	"golang.org/x/sync/errgroup"
)

// Sender delivers a text message through the messaging provider
type Sender interface {
	SendMessage(ctx context.Context, to, body string) error
}

// OutboundIntent is a decided reply waiting for delivery
type OutboundIntent struct {
	To     string
	Text   string
	RuleID string
	Path   Path
}

// DeliveryResult reports the outcome of one intent
type DeliveryResult struct {
	Intent OutboundIntent
	Err    error
}

// Report summarises one webhook batch
type Report struct {
	Messages  int
	Intents   int
	Delivered int
	Failed    int
}

type Options struct {
	// LogOutgoing records an outgoing entry for every emitted reply
	LogOutgoing bool
	// Concurrency bounds parallel deliveries within one batch
	Concurrency int
}

type Engine struct {
	Store    store.Store
	Recorder *Recorder
	Sender   Sender
	opts     Options
}

func NewEngine(s store.Store, recorder *Recorder, sender Sender, opts Options) *Engine {
	if opts.Concurrency <= 0 {
		opts.Concurrency = 8
	}
	return &Engine{Store: s, Recorder: recorder, Sender: sender, opts: opts}
}

// HandleWebhook ingests a payload and delivers the resulting replies. It
// returns only after every delivery task has finished.
func (e *Engine) HandleWebhook(ctx context.Context, payload models.WebhookPayload) (Report, error) {
	start := time.Now()
	defer func() {
		metrics.WebhookDuration.Observe(float64(time.Since(start).Milliseconds()))
	}()

	messages := payload.Normalize()
	intents, err := e.ingest(ctx, messages)
	if err != nil {
		return Report{Messages: len(messages)}, err
	}

	report := Report{Messages: len(messages), Intents: len(intents)}
	for _, res := range e.Deliver(ctx, intents) {
		if res.Err != nil {
			report.Failed++
		} else {
			report.Delivered++
		}
	}
	return report, nil
}

// Ingest decides the replies for every text message in payload and records
// the activity. Nothing is sent.
func (e *Engine) Ingest(ctx context.Context, payload models.WebhookPayload) ([]OutboundIntent, error) {
	return e.ingest(ctx, payload.Normalize())
}

func (e *Engine) ingest(ctx context.Context, messages []models.InboundMessage) ([]OutboundIntent, error) {
	if len(messages) == 0 {
		return nil, nil
	}

	// One snapshot per batch; a concurrent save is either fully seen or not
	cfg, err := e.Store.GetConfig(ctx)
	if err != nil {
		return nil, err
	}

	var intents []OutboundIntent
	for _, msg := range messages {
		if intent, ok := e.processMessage(ctx, msg, cfg); ok {
			intents = append(intents, intent)
		}
	}
	return intents, nil
}

// processMessage runs the steps for one message in order
func (e *Engine) processMessage(ctx context.Context, msg models.InboundMessage, cfg models.AgentConfig) (OutboundIntent, bool) {
	metrics.MessagesReceived.Inc()
	log.Printf("Received text message from %s", msg.From)

	if _, err := e.Recorder.Record(ctx, models.LogEntry{
		Direction: models.DirectionIncoming,
		Contact:   msg.ContactName,
		Preview:   msg.Body,
	}); err != nil {
		log.Printf("Error recording incoming message from %s: %v", msg.From, err)
	}

	rule, matched := Evaluate(cfg.Rules, msg.Body)
	if matched {
		log.Printf("Rule '%s' matched for message from %s", rule.Name, msg.From)
		metrics.RulesMatched.WithLabelValues(rule.ID).Inc()
	}

	reply := Resolve(rule, matched, cfg)
	metrics.RepliesResolved.WithLabelValues(string(reply.Path)).Inc()
	if reply.Text == "" {
		metrics.RepliesSuppressed.Inc()
		return OutboundIntent{}, false
	}

	intent := OutboundIntent{To: msg.From, Text: reply.Text, RuleID: reply.RuleID, Path: reply.Path}
	if e.opts.LogOutgoing {
		if _, err := e.Recorder.Record(ctx, models.LogEntry{
			Direction: models.DirectionOutgoing,
			Contact:   msg.ContactName,
			Preview:   reply.Text,
			RuleID:    reply.RuleID,
		}); err != nil {
			log.Printf("Error recording reply to %s: %v", msg.From, err)
		}
	}
	return intent, true
}

// Deliver sends every intent on its own task. A failed send is logged and
// reported in its result; it never stops the other tasks.
func (e *Engine) Deliver(ctx context.Context, intents []OutboundIntent) []DeliveryResult {
	results := make([]DeliveryResult, len(intents))

	var g errgroup.Group
	g.SetLimit(e.opts.Concurrency)
	for i, intent := range intents {
		i, intent := i, intent
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = nil
					log.Printf("Panic delivering reply to %s: %v", intent.To, r)
					metrics.Deliveries.WithLabelValues("failed").Inc()
					results[i] = DeliveryResult{Intent: intent, Err: fmt.Errorf("delivery panic: %v", r)}
				}
			}()

			err = e.Sender.SendMessage(ctx, intent.To, intent.Text)
			if err != nil {
				log.Printf("Error delivering reply to %s: %v", intent.To, err)
				metrics.Deliveries.WithLabelValues("failed").Inc()
			} else {
				metrics.Deliveries.WithLabelValues("sent").Inc()
			}
			results[i] = DeliveryResult{Intent: intent, Err: err}
			return nil
		})
	}
	_ = g.Wait()

	return results
}
