package server

import (
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"

	"github.com/agentpay/agentpay"
	"github.com/agentpay/agentpay/method"
)

// PaymentsController triggers payments through the aggregator and
// keeps a local record of every one.
type PaymentsController struct {
	repo   agentpay.RepositoryManager
	method *method.Client
	logger agentpay.Logger
}

func NewPaymentsController(repo agentpay.RepositoryManager, mc *method.Client, logger agentpay.Logger) *PaymentsController {
	return &PaymentsController{
		repo:   repo,
		method: mc,
		logger: logger,
	}
}

// PaymentCreatePayload is the create-payment request body. Amount is
// in cents.
type PaymentCreatePayload struct {
	Source      string `json:"source"`
	Destination string `json:"destination"`
	Amount      int64  `json:"amount"`
	Description string `json:"description"`
}

// Create sends the payment to the aggregator and records it locally
// so the history endpoint does not depend on upstream availability.
func (pc *PaymentsController) Create(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	if _, err := requireEntityID(c, pc.repo); err != nil {
		return err
	}

	payload := PaymentCreatePayload{}
	if err := c.BodyParser(&payload); err != nil {
		return errors.Wrap(err, errors.CategoryBadInput, "failed to parse payment payload").
			WithCode(errors.CodeBadRequest)
	}

	if payload.Amount <= 0 {
		return errors.New("payment amount must be positive", errors.CategoryValidation).
			WithTextCode("INVALID_AMOUNT").
			WithCode(errors.CodeBadRequest)
	}

	if payload.Source == "" || payload.Destination == "" {
		return errors.New("source and destination are required", errors.CategoryValidation).
			WithCode(errors.CodeBadRequest)
	}

	created, err := pc.method.CreatePayment(
		c.UserContext(),
		payload.Source,
		payload.Destination,
		payload.Amount,
		payload.Description,
	)
	if err != nil {
		return err
	}

	record := &agentpay.Payment{
		MethodPaymentID: created.ID,
		UserID:          userID,
		Source:          created.Source,
		Destination:     created.Destination,
		Amount:          created.Amount,
		Description:     created.Description,
		Status:          created.Status,
	}

	if _, err := pc.repo.Payments().Record(c.UserContext(), record); err != nil {
		pc.logger.Error("failed to record payment", "error", err, "payment_id", created.ID)
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}

// Get fetches the live payment state from the aggregator.
func (pc *PaymentsController) Get(c *fiber.Ctx) error {
	if _, err := currentUserID(c); err != nil {
		return err
	}

	paymentID := c.Params("payment_id")
	payment, err := pc.method.GetPayment(c.UserContext(), paymentID)
	if err != nil {
		return err
	}

	return c.JSON(payment)
}

// List returns the locally recorded payment history, filterable by
// status and paginated.
func (pc *PaymentsController) List(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	filter := agentpay.PaymentFilter{
		Status: c.Query("status"),
		Limit:  c.QueryInt("limit", 50),
		Offset: c.QueryInt("offset", 0),
	}

	payments, err := pc.repo.Payments().ListForUser(c.UserContext(), userID, filter)
	if err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to load payment history")
	}

	return c.JSON(payments)
}

func (pc *PaymentsController) Delete(c *fiber.Ctx) error {
	if _, err := currentUserID(c); err != nil {
		return err
	}

	paymentID := c.Params("payment_id")
	result, err := pc.method.DeletePayment(c.UserContext(), paymentID)
	if err != nil {
		return err
	}

	if _, err := pc.repo.Payments().UpdateStatus(c.UserContext(), paymentID, agentpay.PaymentStatusReversed, ""); err != nil {
		if !agentpay.IsNotFound(err) {
			pc.logger.Error("failed to mark payment reversed", "error", err, "payment_id", paymentID)
		}
	}

	return c.JSON(result)
}

// PaymentSimulatePayload drives a payment through its lifecycle in
// dev.
type PaymentSimulatePayload struct {
	Status    string `json:"status"`
	ErrorCode string `json:"error_code"`
}

// Simulate updates the payment's status through the aggregator's
// simulate endpoint and mirrors the change locally.
func (pc *PaymentsController) Simulate(c *fiber.Ctx) error {
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

	updated, err := pc.method.SimulatePaymentUpdate(c.UserContext(), paymentID, payload.Status, payload.ErrorCode)
	if err != nil {
		return err
	}

	if _, err := pc.repo.Payments().UpdateStatus(c.UserContext(), paymentID, updated.Status, updated.ErrorCode); err != nil {
		if !agentpay.IsNotFound(err) {
			pc.logger.Error("failed to mirror payment status", "error", err, "payment_id", paymentID)
		}
	}

	return c.JSON(updated)
}
