package repository

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"cipherdoc/internal/models"
)

// AuditLog is the append-only security log observable by the owner.
// Entries are mirrored to the structured logger and fanned out to
// subscribers for live streaming.
type AuditLog struct {
	mu      sync.Mutex
	entries []models.AuditEntry
	subs    map[chan models.AuditEntry]struct{}
	log     *zap.Logger
}

// NewAuditLog creates an empty audit log mirroring entries to the given
// logger.
func NewAuditLog(log *zap.Logger) *AuditLog {
	return &AuditLog{
		subs: make(map[chan models.AuditEntry]struct{}),
		log:  log,
	}
}

// Append adds a timestamped entry to the log.
func (a *AuditLog) Append(message string) {
	entry := models.AuditEntry{
		Timestamp: time.Now().Format("15:04:05"),
		Message:   message,
	}
	a.mu.Lock()
	a.entries = append(a.entries, entry)
	for ch := range a.subs {
		select {
		case ch <- entry:
		default:
			// Slow subscribers drop entries rather than block the writer.
		}
	}
	a.mu.Unlock()
	a.log.Info("audit", zap.String("message", message))
}

// Entries returns a copy of all entries in append order.
func (a *AuditLog) Entries() []models.AuditEntry {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]models.AuditEntry, len(a.entries))
	copy(out, a.entries)
	return out
}

// Export serializes all entries newline-joined as a downloadable text blob.
// The returned filename is derived from the current epoch time.
func (a *AuditLog) Export() (filename string, blob []byte) {
	a.mu.Lock()
	defer a.mu.Unlock()
	lines := make([]string, len(a.entries))
	for i, e := range a.entries {
		lines[i] = fmt.Sprintf("[%s] %s", e.Timestamp, e.Message)
	}
	return fmt.Sprintf("security-log-%d.txt", time.Now().Unix()),
		[]byte(strings.Join(lines, "\n"))
}

// Subscribe registers a live feed of new entries. The returned cancel
// function must be called to release the subscription.
func (a *AuditLog) Subscribe() (<-chan models.AuditEntry, func()) {
	ch := make(chan models.AuditEntry, 16)
	a.mu.Lock()
	a.subs[ch] = struct{}{}
	a.mu.Unlock()
	cancel := func() {
		a.mu.Lock()
		delete(a.subs, ch)
		a.mu.Unlock()
	}
	return ch, cancel
}
