package auth

import "context"

// Principal is the authenticated identity returned by the identity
// provider.
type Principal struct {
	UID         string `json:"uid"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	PhotoURL    string `json:"photoUrl"`
}

// IdentityProvider abstracts the third-party sign-in service. Session
// transitions are pushed to observers registered with OnSessionChange; a
// nil principal means "no active session".
type IdentityProvider interface {
	// InteractiveSignIn runs the provider's interactive flow. It blocks
	// until the flow resolves; the session change itself arrives through
	// the observer.
	InteractiveSignIn(ctx context.Context) (*Principal, error)
	// SignOut terminates the current provider session.
	SignOut(ctx context.Context) error
	// OnSessionChange registers an observer and returns its cancel func.
	// The observer fires once with the current session state on
	// registration, then on every transition.
	OnSessionChange(fn func(*Principal)) (cancel func())
}

// Notifier is the fire-and-forget surface for user-visible notices.
type Notifier interface {
	Notify(title, message string)
}
