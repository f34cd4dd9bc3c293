package crossbind

// SelfValidator is implemented by request types that validate themselves.
// It runs after resolution succeeds, before the endpoint is invoked.
type SelfValidator interface {
	Validate() error
}
