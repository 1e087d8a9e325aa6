package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

const (
	googleAuthURL      = "https://accounts.google.com/o/oauth2/v2/auth"
	googleTokenURL     = "https://oauth2.googleapis.com/token"
	googleTokenInfoURL = "https://oauth2.googleapis.com/tokeninfo"
)

// GoogleConfig holds the OAuth client registration.
type GoogleConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

// GoogleProvider implements IdentityProvider over Google's OAuth code
// flow. The interactive part happens in the browser; the callback handler
// feeds the authorization code into ExchangeCode, which resolves any
// pending InteractiveSignIn and pushes the session to observers.
type GoogleProvider struct {
	cfg        GoogleConfig
	httpClient *http.Client

	mu        sync.Mutex
	current   *Principal
	waiters   []chan *Principal
	observers map[int]func(*Principal)
	nextID    int
}

func NewGoogleProvider(cfg GoogleConfig) *GoogleProvider {
	return &GoogleProvider{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		observers:  make(map[int]func(*Principal)),
	}
}

// AuthCodeURL builds the consent-screen URL for the popup/redirect cycle.
func (p *GoogleProvider) AuthCodeURL(state string) string {
	q := url.Values{}
	q.Set("client_id", p.cfg.ClientID)
	q.Set("redirect_uri", p.cfg.RedirectURL)
	q.Set("response_type", "code")
	q.Set("scope", "openid email profile")
	q.Set("state", state)
	return googleAuthURL + "?" + q.Encode()
}

// InteractiveSignIn waits for the browser redirect cycle to complete. The
// wait is unbounded except for ctx; cancellation by the provider surface
// shows up as ctx expiry.
func (p *GoogleProvider) InteractiveSignIn(ctx context.Context) (*Principal, error) {
	wait := make(chan *Principal, 1)
	p.mu.Lock()
	p.waiters = append(p.waiters, wait)
	p.mu.Unlock()

	select {
	case principal := <-wait:
		return principal, nil
	case <-ctx.Done():
		return nil, fmt.Errorf("sign-in not completed: %w", ctx.Err())
	}
}

// ExchangeCode redeems an authorization code for an identity and publishes
// the new session.
func (p *GoogleProvider) ExchangeCode(ctx context.Context, code string) (*Principal, error) {
	idToken, err := p.redeemCode(ctx, code)
	if err != nil {
		return nil, err
	}

	principal, err := p.resolveIdentity(ctx, idToken)
	if err != nil {
		return nil, err
	}

	p.setSession(principal)
	return principal, nil
}

// SignOut drops the current session and notifies observers.
func (p *GoogleProvider) SignOut(_ context.Context) error {
	p.setSession(nil)
	return nil
}

// OnSessionChange registers an observer; it fires immediately with the
// current state, then on every transition.
func (p *GoogleProvider) OnSessionChange(fn func(*Principal)) (cancel func()) {
	p.mu.Lock()
	id := p.nextID
	p.nextID++
	p.observers[id] = fn
	current := p.current
	p.mu.Unlock()

	fn(current)

	var once sync.Once
	return func() {
		once.Do(func() {
			p.mu.Lock()
			delete(p.observers, id)
			p.mu.Unlock()
		})
	}
}

func (p *GoogleProvider) setSession(principal *Principal) {
	p.mu.Lock()
	p.current = principal
	observers := make([]func(*Principal), 0, len(p.observers))
	for _, fn := range p.observers {
		observers = append(observers, fn)
	}
	waiters := p.waiters
	if principal != nil {
		p.waiters = nil
	}
	p.mu.Unlock()

	if principal != nil {
		for _, wait := range waiters {
			wait <- principal
		}
	}
	for _, fn := range observers {
		fn(principal)
	}
}

func (p *GoogleProvider) redeemCode(ctx context.Context, code string) (string, error) {
	form := url.Values{}
	form.Set("code", code)
	form.Set("client_id", p.cfg.ClientID)
	form.Set("client_secret", p.cfg.ClientSecret)
	form.Set("redirect_uri", p.cfg.RedirectURL)
	form.Set("grant_type", "authorization_code")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, googleTokenURL,
		strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to build token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("token exchange failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("token exchange failed: status %d", resp.StatusCode)
	}

	var body struct {
		IDToken string `json:"id_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("failed to decode token response: %w", err)
	}
	if body.IDToken == "" {
		return "", fmt.Errorf("token response carried no id_token")
	}
	return body.IDToken, nil
}

func (p *GoogleProvider) resolveIdentity(ctx context.Context, idToken string) (*Principal, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		googleTokenInfoURL+"?id_token="+url.QueryEscape(idToken), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build tokeninfo request: %w", err)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tokeninfo lookup failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tokeninfo rejected id_token: status %d", resp.StatusCode)
	}

	var claims struct {
		Sub     string `json:"sub"`
		Email   string `json:"email"`
		Name    string `json:"name"`
		Picture string `json:"picture"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&claims); err != nil {
		return nil, fmt.Errorf("failed to decode tokeninfo response: %w", err)
	}
	if claims.Sub == "" {
		return nil, fmt.Errorf("tokeninfo response carried no subject")
	}

	return &Principal{
		UID:         claims.Sub,
		Email:       claims.Email,
		DisplayName: claims.Name,
		PhotoURL:    claims.Picture,
	}, nil
}
