// Package notifier abstracts outbound message delivery. Delivery is
// best-effort: failures are logged and swallowed, and callers never branch
// on success.
package notifier

// Options controls how a direct message is rendered.
type Options struct {
	HTML               bool
	DisableLinkPreview bool
}

// Notifier delivers outbound text to a chat or to the broadcast channel.
type Notifier interface {
	Send(chatID string, text string, opts Options)
	Broadcast(text string)
}
