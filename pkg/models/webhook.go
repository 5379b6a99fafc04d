package models

// WebhookPayload represents the incoming JSON payload from WhatsApp. Every
// level is optional; absent arrays and objects decode to their zero values.
type WebhookPayload struct {
	Object string         `json:"object"`
	Entry  []WebhookEntry `json:"entry"`
}

type WebhookEntry struct {
	ID      string          `json:"id"`
	Changes []WebhookChange `json:"changes"`
}

type WebhookChange struct {
	Value *ChangeValue `json:"value"`
	Field string       `json:"field"`
}

type ChangeValue struct {
	MessagingProduct string `json:"messaging_product"`
	Metadata         struct {
		DisplayPhoneNumber string `json:"display_phone_number"`
		PhoneNumberID      string `json:"phone_number_id"`
	} `json:"metadata"`
	Contacts []WebhookContact `json:"contacts,omitempty"`
	Messages []WebhookMessage `json:"messages,omitempty"`
	Statuses []struct {
		ID          string `json:"id"`
		Status      string `json:"status"`
		Timestamp   string `json:"timestamp"`
		RecipientId string `json:"recipient_id"`
	} `json:"statuses,omitempty"`
}

// WebhookContact carries the sender's WhatsApp profile
type WebhookContact struct {
	WaID    string `json:"wa_id"`
	Profile *struct {
		Name string `json:"name"`
	} `json:"profile,omitempty"`
}

type WebhookMessage struct {
	From      string `json:"from"`
	ID        string `json:"id"`
	Timestamp string `json:"timestamp"`
	Type      string `json:"type"`
	Text      *struct {
		Body string `json:"body"`
	} `json:"text,omitempty"`
}

// InboundMessage is a text message flattened out of a webhook payload
type InboundMessage struct {
	MessageID   string
	From        string
	ContactName string
	Body        string
}

// Normalize walks the payload and returns its text messages in payload order,
// with the contact name already resolved.
func (p WebhookPayload) Normalize() []InboundMessage {
	var out []InboundMessage
	for _, entry := range p.Entry {
		for _, change := range entry.Changes {
			if change.Value == nil {
				continue
			}
			for _, msg := range change.Value.Messages {
				if msg.Type != "text" {
					continue
				}
				body := ""
				if msg.Text != nil {
					body = msg.Text.Body
				}
				out = append(out, InboundMessage{
					MessageID:   msg.ID,
					From:        msg.From,
					ContactName: contactName(change.Value.Contacts, msg.From),
					Body:        body,
				})
			}
		}
	}
	return out
}

func contactName(contacts []WebhookContact, waID string) string {
	for _, c := range contacts {
		if c.WaID == waID {
			if c.Profile != nil && c.Profile.Name != "" {
				return c.Profile.Name
			}
			break
		}
	}
	return waID
}
