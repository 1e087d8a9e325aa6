package auth

import (
	"context"
	"strings"
	"sync"

	"github.com/luckyfood/stockpilot/pkg/logger"
)

// DefaultAllowedDomains is the email domain allowlist for the reference
// deployment.
var DefaultAllowedDomains = []string{"luckyfood.com"}

const accessDeniedMessage = "You do not have permission to access this application."

// Gate wraps the identity provider and enforces the email-domain
// allowlist. It owns the process-wide session cell: the provider observer
// is its only writer, anyone may read.
type Gate struct {
	provider IdentityProvider
	notifier Notifier
	allowed  map[string]struct{}

	mu             sync.RWMutex
	principal      *Principal
	loading        bool
	observers      map[int]func(*Principal)
	nextObserverID int

	cancelProvider func()
}

// NewGate builds a gate over the provider and starts observing session
// transitions. The gate reports loading until the first transition lands.
func NewGate(provider IdentityProvider, notifier Notifier, allowedDomains []string) *Gate {
	allowed := make(map[string]struct{}, len(allowedDomains))
	for _, domain := range allowedDomains {
		allowed[strings.ToLower(domain)] = struct{}{}
	}

	g := &Gate{
		provider:  provider,
		notifier:  notifier,
		allowed:   allowed,
		loading:   true,
		observers: make(map[int]func(*Principal)),
	}
	g.cancelProvider = provider.OnSessionChange(g.handleSession)
	return g
}

// SignIn starts the provider's interactive flow. Provider errors are
// logged, never surfaced; the session stays unauthenticated and the caller
// may retry.
func (g *Gate) SignIn(ctx context.Context) {
	if _, err := g.provider.InteractiveSignIn(ctx); err != nil {
		logger.Error(ctx).Err(err).Msg("Error signing in")
	}
}

// SignOut terminates the provider session. Same failure policy as SignIn.
func (g *Gate) SignOut(ctx context.Context) {
	if err := g.provider.SignOut(ctx); err != nil {
		logger.Error(ctx).Err(err).Msg("Error signing out")
	}
}

// Principal returns the currently accepted principal, or nil.
func (g *Gate) Principal() *Principal {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.principal
}

// Loading reports whether the initial session resolution is still pending.
func (g *Gate) Loading() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.loading
}

// OnChange registers an observer for accepted-session transitions. The
// returned cancel is idempotent.
func (g *Gate) OnChange(fn func(*Principal)) (cancel func()) {
	g.mu.Lock()
	id := g.nextObserverID
	g.nextObserverID++
	g.observers[id] = fn
	g.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			g.mu.Lock()
			delete(g.observers, id)
			g.mu.Unlock()
		})
	}
}

// Close detaches the gate from the provider.
func (g *Gate) Close() {
	if g.cancelProvider != nil {
		g.cancelProvider()
	}
}

// handleSession is the single writer of the session cell. A principal from
// outside the allowlist is rejected: one denial notice, a forced provider
// sign-out, and a published nil session.
func (g *Gate) handleSession(p *Principal) {
	if p != nil && !g.domainAllowed(p.Email) {
		logger.Logger.Warn().
			Str("email", p.Email).
			Msg("Rejected sign-in from non-allowlisted domain")
		g.notifier.Notify("Access Denied", accessDeniedMessage)
		g.SignOut(context.Background())
		p = nil
	}
	g.publish(p)
}

func (g *Gate) domainAllowed(email string) bool {
	_, domain, found := strings.Cut(email, "@")
	if !found || domain == "" {
		return false
	}
	_, ok := g.allowed[strings.ToLower(domain)]
	return ok
}

func (g *Gate) publish(p *Principal) {
	g.mu.Lock()
	g.principal = p
	g.loading = false
	observers := make([]func(*Principal), 0, len(g.observers))
	for _, fn := range g.observers {
		observers = append(observers, fn)
	}
	g.mu.Unlock()

	for _, fn := range observers {
		fn(p)
	}
}
