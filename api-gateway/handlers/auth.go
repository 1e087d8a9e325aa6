package handlers

import (
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/luckyfood/stockpilot/api-gateway/middleware"
	"github.com/luckyfood/stockpilot/internal/auth"
	pkgauth "github.com/luckyfood/stockpilot/pkg/auth"
	"github.com/luckyfood/stockpilot/pkg/logger"
)

const stateCookie = "stockpilot_oauth_state"

// AuthHandler serves the sign-in cycle: consent redirect, code callback
// through the domain gate, session issue and teardown.
type AuthHandler struct {
	gate     *auth.Gate
	provider *auth.GoogleProvider
	notifier *auth.MemoryNotifier
}

func NewAuthHandler(gate *auth.Gate, provider *auth.GoogleProvider, notifier *auth.MemoryNotifier) *AuthHandler {
	return &AuthHandler{gate: gate, provider: provider, notifier: notifier}
}

// Login redirects the browser to the Google consent screen.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	state := newState()
	c.Cookie(&fiber.Cookie{
		Name:     stateCookie,
		Value:    state,
		HTTPOnly: true,
		SameSite: "Lax",
		Expires:  time.Now().Add(10 * time.Minute),
	})
	return c.Redirect(h.provider.AuthCodeURL(state), fiber.StatusFound)
}

// Callback redeems the authorization code. The gate observes the provider
// session synchronously, so by the time ExchangeCode returns the principal
// is either accepted or already rejected and signed back out.
func (h *AuthHandler) Callback(c *fiber.Ctx) error {
	if c.Query("state") == "" || c.Query("state") != c.Cookies(stateCookie) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid OAuth state",
		})
	}
	c.ClearCookie(stateCookie)

	code := c.Query("code")
	if code == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Missing authorization code",
		})
	}

	if _, err := h.provider.ExchangeCode(c.UserContext(), code); err != nil {
		logger.Error(c.UserContext()).Err(err).Msg("Code exchange failed")
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Sign-in failed",
		})
	}

	principal := h.gate.Principal()
	if principal == nil {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error":   "Access denied",
			"notices": h.notifier.Drain(),
		})
	}

	token, err := pkgauth.GenerateToken(principal.UID, principal.Email, principal.DisplayName)
	if err != nil {
		logger.Error(c.UserContext()).Err(err).Msg("Failed to mint session token")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create session",
		})
	}

	c.Cookie(&fiber.Cookie{
		Name:     middleware.SessionCookie,
		Value:    token,
		HTTPOnly: true,
		SameSite: "Lax",
		Expires:  time.Now().Add(24 * time.Hour),
	})

	return c.JSON(fiber.Map{
		"success": true,
		"user":    principal,
		"token":   token,
	})
}

// Logout tears down both the provider session and the browser session.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	h.gate.SignOut(c.UserContext())
	c.ClearCookie(middleware.SessionCookie)
	return c.JSON(fiber.Map{"success": true})
}

// Me reports the current session.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	if h.gate.Loading() {
		return c.JSON(fiber.Map{"loading": true})
	}

	uid := c.Locals("uid")
	if uid == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Not signed in",
		})
	}

	return c.JSON(fiber.Map{
		"loading": false,
		"user": fiber.Map{
			"uid":         uid,
			"email":       c.Locals("email"),
			"displayName": c.Locals("display_name"),
		},
	})
}

// Notices drains pending user notices, the gate's denial notice included.
func (h *AuthHandler) Notices(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"notices": h.notifier.Drain()})
}

func newState() string {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "state-fallback"
	}
	return hex.EncodeToString(buf)
}
