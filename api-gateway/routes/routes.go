package routes

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/luckyfood/stockpilot/api-gateway/config"
	"github.com/luckyfood/stockpilot/api-gateway/handlers"
	"github.com/luckyfood/stockpilot/api-gateway/health"
	"github.com/luckyfood/stockpilot/api-gateway/middleware"
	"github.com/luckyfood/stockpilot/api-gateway/proxy"
)

// RouteDefinition defines a proxied route mapping.
type RouteDefinition struct {
	Prefix      string
	ServiceName string
	Description string
	RequireAuth bool
}

// Routes holds all proxied route definitions. Auth endpoints are served
// locally by the gateway and are not listed here.
var Routes = []RouteDefinition{
	{
		Prefix:      "/api",
		ServiceName: "stockpilot",
		Description: "Catalog, inventory, reports and recommendations",
		RequireAuth: true,
	},
}

// SetupRoutes configures all routes in the gateway.
func SetupRoutes(app *fiber.App, cfg *config.GatewayConfig, authHandler *handlers.AuthHandler, cbManager *middleware.CircuitBreakerManager) {
	reverseProxy := proxy.NewReverseProxy(cfg)
	healthChecker := health.NewHealthChecker(cfg)

	// Gateway quick health check (no downstream checks)
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(healthChecker.QuickCheck())
	})

	// Liveness probe (for Kubernetes)
	app.Get("/health/live", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "alive",
		})
	})

	// Readiness probe (checks downstream instances)
	app.Get("/health/ready", func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 3*time.Second)
		defer cancel()

		healthStatus := healthChecker.CheckAll(ctx)

		statusCode := fiber.StatusOK
		if healthStatus.Status == "unhealthy" {
			statusCode = fiber.StatusServiceUnavailable
		}

		return c.Status(statusCode).JSON(healthStatus)
	})

	// Detailed per-instance health
	app.Get("/health/services", func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
		defer cancel()

		return c.JSON(healthChecker.CheckAll(ctx))
	})

	// Load balancer and circuit breaker stats
	app.Get("/stats", func(c *fiber.Ctx) error {
		lbStats := make(map[string]interface{})
		for name, lb := range reverseProxy.GetLoadBalancers() {
			lbStats[name] = lb.Stats()
		}

		return c.JSON(fiber.Map{
			"load_balancers":   lbStats,
			"circuit_breakers": cbManager.AllStats(),
		})
	})

	// Sign-in cycle, served by the gateway itself
	authGroup := app.Group("/auth")
	authGroup.Get("/google/login", authHandler.Login)
	authGroup.Get("/google/callback", authHandler.Callback)
	authGroup.Post("/logout", authHandler.Logout)
	authGroup.Get("/me", middleware.OptionalAuthMiddleware(), authHandler.Me)
	authGroup.Get("/notices", middleware.AuthMiddleware(), authHandler.Notices)

	// API routes overview
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "StockPilot API Gateway",
			"version": "1.0.0",
			"routes":  Routes,
		})
	})

	// Register all proxied service routes
	for _, route := range Routes {
		registerServiceRoutes(app, route, reverseProxy)
	}
}

// registerServiceRoutes registers all HTTP methods for a service prefix.
func registerServiceRoutes(app *fiber.App, route RouteDefinition, proxyHandler *proxy.ReverseProxy) {
	handler := func(c *fiber.Ctx) error {
		return proxyHandler.ProxyRequest(c, route.ServiceName)
	}

	var middlewares []fiber.Handler
	if route.RequireAuth {
		middlewares = append(middlewares, middleware.AuthMiddleware())
	}

	group := app.Group(route.Prefix, middlewares...)
	group.All("/*", handler)

	// Also handle the exact prefix path (without /*)
	if len(middlewares) > 0 {
		app.All(route.Prefix, append(middlewares, handler)...)
	} else {
		app.All(route.Prefix, handler)
	}
}
