// Package server wires the HTTP surface: route registration, token
// guarding, and error rendering.
package server

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/agentpay/agentpay"
	"github.com/agentpay/agentpay/method"
	"github.com/agentpay/agentpay/middleware/jwtware"
)

// Server holds the fiber app and the collaborators the controllers
// need.
type Server struct {
	app    *fiber.App
	cfg    *agentpay.Config
	repo   agentpay.RepositoryManager
	auther *agentpay.Auther
	method *method.Client
	logger agentpay.Logger
}

func New(cfg *agentpay.Config, repo agentpay.RepositoryManager, auther *agentpay.Auther, mc *method.Client, logger agentpay.Logger) *Server {
	app := fiber.New(fiber.Config{
		AppName:      "agentpay",
		ReadTimeout:  cfg.HTTPServer.ReadTimeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
		ErrorHandler: renderError,
	})

	s := &Server{
		app:    app,
		cfg:    cfg,
		repo:   repo,
		auther: auther,
		method: mc,
		logger: logger,
	}

	s.registerRoutes()

	return s
}

// App exposes the underlying fiber app, mostly for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) Listen() error {
	return s.app.Listen(s.cfg.HTTPServer.Address)
}

func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

func (s *Server) registerRoutes() {
	s.app.Get("/", s.Root)
	s.app.Get("/health", s.Health)

	api := s.app.Group("/api")
	api.Get("/health", s.Health)

	auth := NewAuthController(s.auther, s.logger)
	api.Post("/auth/register", auth.Register)
	api.Post("/auth/login", auth.Login)

	protected := jwtware.New(jwtware.Config{
		TokenValidator: tokenValidatorAdapter{s.auther.TokenService()},
		ErrorHandler:   renderAuthError,
		ContextEnricher: func(ctx context.Context, claims jwtware.AuthClaims) context.Context {
			if ac, ok := claims.(agentpay.AuthClaims); ok {
				return agentpay.WithClaimsContext(ctx, ac)
			}
			return ctx
		},
	})

	api.Get("/auth/me", protected, auth.Me)
	api.Post("/auth/logout", protected, auth.Logout)

	users := NewUsersController(s.repo, s.method, s.logger)
	api.Get("/users/me", protected, users.Profile)
	api.Put("/users/me", protected, users.UpdateProfile)
	api.Get("/users/settings", protected, users.Settings)
	api.Put("/users/settings", protected, users.UpdateSettings)
	api.Post("/users/method-account", protected, users.CreateMethodAccount)

	entities := NewEntitiesController(s.repo, s.method, s.logger)
	api.Get("/entities", protected, entities.List)
	api.Get("/entities/me", protected, entities.Me)
	api.Put("/entities/me", protected, entities.UpdateMe)

	connect := NewConnectController(s.repo, s.method, s.logger)
	api.Post("/connect/element-token", protected, connect.CreateElementToken)
	api.Get("/connect/element-results/:element_token", protected, connect.ElementResults)
	api.Get("/connect/bank-accounts", protected, connect.BankAccounts)
	api.Post("/connect/manual-account", protected, connect.CreateManualAccount)
	api.Post("/connect/simulate-connection", protected, connect.SimulateConnection)
	api.Post("/connect/simulate-multiple-accounts", protected, connect.SimulateMultipleAccounts)
	api.Post("/connect/simulate-credit-cards", protected, connect.SimulateCreditCards)
	api.Post("/connect/simulate-full-setup", protected, connect.SimulateFullSetup)

	cards := NewCardsController(s.repo, s.method, s.logger)
	api.Get("/cards/", protected, cards.List)
	api.Get("/cards/:card_id/preferences", protected, cards.GetPreferences)
	api.Post("/cards/:card_id/preferences", protected, cards.SavePreferences)
	api.Put("/cards/:card_id/preferences", protected, cards.SavePreferences)

	payments := NewPaymentsController(s.repo, s.method, s.logger)
	api.Post("/payments/", protected, payments.Create)
	api.Get("/payments/", protected, payments.List)
	api.Get("/payments/:payment_id", protected, payments.Get)
	api.Delete("/payments/:payment_id", protected, payments.Delete)
	api.Post("/payments/:payment_id/simulate", protected, payments.Simulate)

	bills := NewBillsController(s.repo, s.method, s.logger)
	api.Get("/bills/", protected, bills.List)
	api.Post("/bills/process", protected, bills.ProcessEmail)
	api.Post("/bills/pay", protected, bills.Pay)

	sims := NewSimulationsController(s.repo, s.method, s.cfg, s.logger)
	api.Post("/simulations/payments/:payment_id", protected, sims.UpdatePayment)
	api.Post("/simulations/transactions", protected, sims.CreateTransaction)
	api.Post("/simulations/events", protected, sims.CreateEvent)
	api.Get("/simulations/status", protected, sims.Status)
}

// Root is a plain landing response for anyone poking the base URL.
func (s *Server) Root(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"message": "AgentPay API is running",
		"version": "1.0.0",
		"status":  "healthy",
	})
}

// Health reports liveness plus which aggregator environment is in use.
func (s *Server) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":             "healthy",
		"environment":        s.cfg.Env,
		"method_environment": s.method.Environment(),
	})
}

// tokenValidatorAdapter bridges the root token service to the
// middleware's narrower claims interface.
type tokenValidatorAdapter struct {
	svc *agentpay.TokenService
}

func (a tokenValidatorAdapter) Validate(tokenString string) (jwtware.AuthClaims, error) {
	claims, err := a.svc.Validate(tokenString)
	if err != nil {
		return nil, err
	}
	return claims, nil
}
