package notification

// Publisher fans an event out to every connected client. Implementations
// must never block the caller.
type Publisher interface {
	Publish(event string, payload any)
}

// NopPublisher discards events. Used by tests and callers that do not have
// a live hub.
type NopPublisher struct{}

func (NopPublisher) Publish(string, any) {}
