// Package notify delivers transient user-facing notifications.
//
// Notifications are side-band feedback (background download finished, a
// non-fatal client problem) and never part of the conversation log. Senders
// must never block on delivery.
package notify

import "time"

// Level indicates how a notification should be presented.
type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Notification is one transient message for the user.
type Notification struct {
	Level   Level
	Message string
	// ActionRef optionally points at something the user can act on, such
	// as a download URL or a project id.
	ActionRef string
	Timestamp time.Time
}

// Notifier is the sink interface consumed by the core.
type Notifier interface {
	Notify(n Notification)
}

// Func adapts a function to the Notifier interface.
type Func func(Notification)

// Notify calls f.
func (f Func) Notify(n Notification) { f(n) }

// Nop discards all notifications.
type Nop struct{}

// Notify does nothing.
func (Nop) Notify(Notification) {}

// Sink is a channel-backed Notifier for the UI layer. Delivery is
// non-blocking: when the buffer is full the oldest pending notification is
// dropped so a stalled UI can never stall a background task.
type Sink struct {
	ch chan Notification
}

// NewSink creates a sink with the given buffer size.
func NewSink(buffer int) *Sink {
	if buffer < 1 {
		buffer = 1
	}
	return &Sink{ch: make(chan Notification, buffer)}
}

// Notify enqueues a notification without blocking.
func (s *Sink) Notify(n Notification) {
	if n.Timestamp.IsZero() {
		n.Timestamp = time.Now()
	}
	for {
		select {
		case s.ch <- n:
			return
		default:
		}
		select {
		case <-s.ch:
		default:
		}
	}
}

// Events returns the receive side of the sink.
func (s *Sink) Events() <-chan Notification {
	return s.ch
}
