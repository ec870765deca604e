// Package notify is the non-fatal notification surface. Persistence
// failures and milestones are reported here as transient events; they
// must never block or crash a practice session.
package notify

import (
	"fmt"
	"os"
	"sync"
)

// Notifier receives user-facing, non-blocking notifications.
type Notifier interface {
	Info(message string)
	Error(context string, err error)
}

// Noop discards all notifications.
type Noop struct{}

// Info implements Notifier.
func (Noop) Info(string) {}

// Error implements Notifier.
func (Noop) Error(string, error) {}

// Stderr writes notifications to standard error, one line each.
type Stderr struct{}

// Info implements Notifier.
func (Stderr) Info(message string) {
	logErrf("%s\n", message)
}

// Error implements Notifier.
func (Stderr) Error(context string, err error) {
	logErrf("%s: %v\n", context, err)
}

// Buffer collects notifications for display inside a TUI as toasts.
// Safe for concurrent use.
type Buffer struct {
	mu     sync.Mutex
	events []string
}

// Info implements Notifier.
func (b *Buffer) Info(message string) {
	b.push(message)
}

// Error implements Notifier.
func (b *Buffer) Error(context string, err error) {
	b.push(fmt.Sprintf("%s: %v", context, err))
}

func (b *Buffer) push(msg string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, msg)
}

// Drain returns and clears the pending notifications, oldest first.
func (b *Buffer) Drain() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := b.events
	b.events = nil
	return out
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
