package services

// Notifier delivers a message to a recipient address. Implementations are
// expected to be asynchronous with their own retry policy; callers treat the
// send as fire-and-forget and never fail a request on a Notify error.
type Notifier interface {
	Notify(to, subject, body string) error
}
