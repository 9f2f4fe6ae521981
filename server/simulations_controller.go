package server

import (
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"

	"github.com/agentpay/agentpay"
	"github.com/agentpay/agentpay/method"
)

// SimulationsController groups the dev-only endpoints that drive
// aggregator state forward without real money moving.
type SimulationsController struct {
	repo   agentpay.RepositoryManager
	method *method.Client
	cfg    *agentpay.Config
	logger agentpay.Logger
}

func NewSimulationsController(repo agentpay.RepositoryManager, mc *method.Client, cfg *agentpay.Config, logger agentpay.Logger) *SimulationsController {
	return &SimulationsController{
		repo:   repo,
		method: mc,
		cfg:    cfg,
		logger: logger,
	}
}

// UpdatePayment advances a payment through its lifecycle.
func (sc *SimulationsController) UpdatePayment(c *fiber.Ctx) error {
	if _, err := currentUserID(c); err != nil {
		return err
	}

	paymentID := c.Params("payment_id")

	payload := PaymentSimulatePayload{}
	if err := c.BodyParser(&payload); err != nil {
		return errors.Wrap(err, errors.CategoryBadInput, "failed to parse simulation payload").
			WithCode(errors.CodeBadRequest)
	}

	if payload.Status == "" {
		return errors.New("status is required", errors.CategoryValidation).
			WithCode(errors.CodeBadRequest)
	}

	updated, err := sc.method.SimulatePaymentUpdate(c.UserContext(), paymentID, payload.Status, payload.ErrorCode)
	if err != nil {
		return err
	}

	if _, err := sc.repo.Payments().UpdateStatus(c.UserContext(), paymentID, updated.Status, updated.ErrorCode); err != nil {
		if !agentpay.IsNotFound(err) {
			sc.logger.Error("failed to mirror payment status", "error", err, "payment_id", paymentID)
		}
	}

	return c.JSON(updated)
}

// CreateTransaction posts a fabricated transaction to the aggregator.
func (sc *SimulationsController) CreateTransaction(c *fiber.Ctx) error {
	if _, err := currentUserID(c); err != nil {
		return err
	}

	transaction := map[string]any{}
	if err := c.BodyParser(&transaction); err != nil {
		return errors.Wrap(err, errors.CategoryBadInput, "failed to parse transaction payload").
			WithCode(errors.CodeBadRequest)
	}

	result, err := sc.method.SimulateCreateTransaction(c.UserContext(), transaction)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(result)
}

// CreateEvent is the reserved webhook-event simulation route. The
// aggregator client has no event support yet, the payload is echoed
// back untouched.
func (sc *SimulationsController) CreateEvent(c *fiber.Ctx) error {
	if _, err := currentUserID(c); err != nil {
		return err
	}

	event := map[string]any{}
	if err := c.BodyParser(&event); err != nil {
		return errors.Wrap(err, errors.CategoryBadInput, "failed to parse event payload").
			WithCode(errors.CodeBadRequest)
	}

	return c.Status(fiber.StatusNotImplemented).JSON(fiber.Map{
		"message": "event simulation is not implemented",
		"data":    event,
	})
}

// Status reports whether simulation is available in this deployment.
func (sc *SimulationsController) Status(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"simulation_available": sc.method.Environment() == method.EnvDev,
		"method_environment":   sc.method.Environment(),
		"app_environment":      sc.cfg.Env,
	})
}
