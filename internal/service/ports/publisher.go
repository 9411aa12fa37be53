package ports

// EventPublisher pushes a change notification to every observer of a
// performer (dashboard and audience pages). Publishing must never block the
// mutation that triggered it.
type EventPublisher interface {
	Publish(performerID, event string, payload any)
}
