package auth

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeProvider pushes session transitions on demand. Unlike the real
// provider it does not fire on registration, which models the initial
// resolution round-trip still being in flight.
type fakeProvider struct {
	mu        sync.Mutex
	observers []func(*Principal)
	signOuts  int
	signInErr error
}

func (f *fakeProvider) InteractiveSignIn(context.Context) (*Principal, error) {
	return nil, f.signInErr
}

func (f *fakeProvider) SignOut(context.Context) error {
	f.mu.Lock()
	f.signOuts++
	observers := append([]func(*Principal){}, f.observers...)
	f.mu.Unlock()
	for _, fn := range observers {
		fn(nil)
	}
	return nil
}

func (f *fakeProvider) OnSessionChange(fn func(*Principal)) func() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.observers = append(f.observers, fn)
	return func() {}
}

func (f *fakeProvider) push(p *Principal) {
	f.mu.Lock()
	observers := append([]func(*Principal){}, f.observers...)
	f.mu.Unlock()
	for _, fn := range observers {
		fn(p)
	}
}

func (f *fakeProvider) signOutCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.signOuts
}

func TestGateAcceptsAllowlistedDomain(t *testing.T) {
	provider := &fakeProvider{}
	notifier := NewMemoryNotifier()
	gate := NewGate(provider, notifier, DefaultAllowedDomains)
	defer gate.Close()

	assert.True(t, gate.Loading())

	provider.push(&Principal{UID: "u1", Email: "user@luckyfood.com"})

	assert.False(t, gate.Loading())
	require.NotNil(t, gate.Principal())
	assert.Equal(t, "user@luckyfood.com", gate.Principal().Email)
	assert.Empty(t, notifier.Drain())
	assert.Zero(t, provider.signOutCount())
}

func TestGateRejectsForeignDomain(t *testing.T) {
	provider := &fakeProvider{}
	notifier := NewMemoryNotifier()
	gate := NewGate(provider, notifier, DefaultAllowedDomains)
	defer gate.Close()

	provider.push(&Principal{UID: "u2", Email: "user@other.com"})

	assert.Nil(t, gate.Principal())
	assert.False(t, gate.Loading())
	assert.Equal(t, 1, provider.signOutCount())

	notices := notifier.Drain()
	require.Len(t, notices, 1, "denial notice must fire exactly once per rejected session")
	assert.Equal(t, "Access Denied", notices[0].Title)
}

func TestGateRejectsPrincipalWithoutDomain(t *testing.T) {
	provider := &fakeProvider{}
	notifier := NewMemoryNotifier()
	gate := NewGate(provider, notifier, DefaultAllowedDomains)
	defer gate.Close()

	provider.push(&Principal{UID: "u3", Email: "not-an-email"})

	assert.Nil(t, gate.Principal())
	assert.Len(t, notifier.Drain(), 1)
}

func TestGateSignOutTransition(t *testing.T) {
	provider := &fakeProvider{}
	gate := NewGate(provider, NewMemoryNotifier(), DefaultAllowedDomains)
	defer gate.Close()

	provider.push(&Principal{UID: "u1", Email: "user@luckyfood.com"})
	require.NotNil(t, gate.Principal())

	gate.SignOut(context.Background())

	assert.Nil(t, gate.Principal())
	assert.False(t, gate.Loading())
}

func TestGateSignInFailureStaysUnauthenticated(t *testing.T) {
	provider := &fakeProvider{signInErr: errors.New("popup closed")}
	gate := NewGate(provider, NewMemoryNotifier(), DefaultAllowedDomains)
	defer gate.Close()

	gate.SignIn(context.Background())

	assert.Nil(t, gate.Principal())
}

func TestGateObserversSeeAcceptedSessionsOnly(t *testing.T) {
	provider := &fakeProvider{}
	gate := NewGate(provider, NewMemoryNotifier(), DefaultAllowedDomains)
	defer gate.Close()

	var seen []*Principal
	cancel := gate.OnChange(func(p *Principal) { seen = append(seen, p) })
	defer cancel()

	provider.push(&Principal{UID: "bad", Email: "user@other.com"})
	provider.push(&Principal{UID: "good", Email: "user@luckyfood.com"})

	// rejected session publishes nil twice (rejection + forced sign-out),
	// the accepted one publishes the principal
	require.NotEmpty(t, seen)
	last := seen[len(seen)-1]
	require.NotNil(t, last)
	assert.Equal(t, "good", last.UID)
	for _, p := range seen[:len(seen)-1] {
		assert.Nil(t, p)
	}

	cancel()
	cancel() // idempotent
	before := len(seen)
	provider.push(&Principal{UID: "good2", Email: "other@luckyfood.com"})
	assert.Equal(t, before, len(seen))
}

func TestGateDomainMatchingIsCaseInsensitive(t *testing.T) {
	provider := &fakeProvider{}
	notifier := NewMemoryNotifier()
	gate := NewGate(provider, notifier, []string{"LuckyFood.com"})
	defer gate.Close()

	provider.push(&Principal{UID: "u1", Email: "user@LUCKYFOOD.COM"})

	require.NotNil(t, gate.Principal())
	assert.Empty(t, notifier.Drain())
}
