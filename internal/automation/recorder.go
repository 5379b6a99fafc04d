package automation

import (
	"context"
	"fmt"
	"time"

	"whatsapp-autoreply/internal/store"
	"whatsapp-autoreply/pkg/models"

	"github.com/google/uuid"
)

// PreviewLength is the maximum number of characters kept in a log preview
const PreviewLength = 120

// LogNotifier is told about every entry after it has been stored
type LogNotifier interface {
	NotifyLog(entry models.LogEntry)
}

// Recorder appends activity entries to the store
type Recorder struct {
	Store    store.Store
	Notifier LogNotifier
	now      func() time.Time
}

func NewRecorder(s store.Store, notifier LogNotifier) *Recorder {
	return &Recorder{Store: s, Notifier: notifier, now: time.Now}
}

// Record fills in the id and timestamp when missing, truncates the preview
// and stores the entry. It returns the entry as stored.
func (r *Recorder) Record(ctx context.Context, entry models.LogEntry) (models.LogEntry, error) {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = r.now().UTC()
	}
	entry.Preview = Preview(entry.Preview)

	if err := r.Store.PushLog(ctx, entry); err != nil {
		return entry, fmt.Errorf("push log %s: %w", entry.ID, err)
	}
	if r.Notifier != nil {
		r.Notifier.NotifyLog(entry)
	}
	return entry, nil
}

// Preview returns the first PreviewLength characters of text
func Preview(text string) string {
	runes := []rune(text)
	if len(runes) <= PreviewLength {
		return text
	}
	return string(runes[:PreviewLength])
}
