package tui

import "github.com/forgeline-ai/forgeline/internal/notify"

// turnDoneMsg signals that a user turn finished. The conversation has
// already appended the reply (or the apology on failure); err carries only
// gate rejections such as ErrBusy or ErrEmptyMessage.
type turnDoneMsg struct {
	err error
}

// notificationMsg carries a background notification into the UI loop.
type notificationMsg notify.Notification

// notificationExpiredMsg clears the footer notification once its display
// window has passed. seq guards against clearing a newer notification.
type notificationExpiredMsg struct {
	seq int
}
