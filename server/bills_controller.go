package server

import (
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"

	"github.com/agentpay/agentpay"
	"github.com/agentpay/agentpay/method"
)

// BillsController derives upcoming bills from the user's linked credit
// cards and pays them from a connected bank account.
type BillsController struct {
	repo   agentpay.RepositoryManager
	method *method.Client
	logger agentpay.Logger
}

func NewBillsController(repo agentpay.RepositoryManager, mc *method.Client, logger agentpay.Logger) *BillsController {
	return &BillsController{
		repo:   repo,
		method: mc,
		logger: logger,
	}
}

// billView is one upcoming credit card bill.
type billView struct {
	CardID           string `json:"card_id"`
	CardName         string `json:"card_name,omitempty"`
	Brand            string `json:"brand,omitempty"`
	LastFour         string `json:"last_four,omitempty"`
	StatementBalance int64  `json:"statement_balance"`
	MinimumPayment   int64  `json:"minimum_payment"`
	DueDate          string `json:"due_date,omitempty"`
}

// List builds the bill list from the liability accounts: statement
// balance, minimum payment, and due date per card.
func (bc *BillsController) List(c *fiber.Ctx) error {
	entityID, err := requireEntityID(c, bc.repo)
	if err != nil {
		return err
	}

	accounts, err := bc.method.GetAccounts(c.UserContext(), entityID)
	if err != nil {
		return err
	}

	bills := []billView{}
	for _, account := range accounts.Data {
		if account.Type != "liability" || account.Liability == nil {
			continue
		}
		bills = append(bills, billView{
			CardID:           account.ID,
			CardName:         account.Name,
			Brand:            account.Brand,
			LastFour:         account.LastFour,
			StatementBalance: account.Liability.StatementBalance,
			MinimumPayment:   account.Liability.NextPaymentMinimumAmount,
			DueDate:          account.Liability.NextPaymentDueDate,
		})
	}

	return c.JSON(fiber.Map{
		"bills": bills,
		"total": len(bills),
	})
}

// BillPayPayload asks for a card bill to be paid. Amount is in cents.
type BillPayPayload struct {
	CardID      string `json:"card_id"`
	Amount      int64  `json:"amount"`
	Description string `json:"description"`
}

// Pay funds a card payment from the user's first connected bank
// account and records it in the local payment history.
func (bc *BillsController) Pay(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	entityID, err := requireEntityID(c, bc.repo)
	if err != nil {
		return err
	}

	payload := BillPayPayload{}
	if err := c.BodyParser(&payload); err != nil {
		return errors.Wrap(err, errors.CategoryBadInput, "failed to parse bill payment payload").
			WithCode(errors.CodeBadRequest)
	}

	if payload.CardID == "" {
		return errors.New("card_id is required", errors.CategoryValidation).
			WithCode(errors.CodeBadRequest)
	}

	if payload.Amount <= 0 {
		return errors.New("payment amount must be positive", errors.CategoryValidation).
			WithTextCode("INVALID_AMOUNT").
			WithCode(errors.CodeBadRequest)
	}

	accounts, err := bc.method.GetAccounts(c.UserContext(), entityID)
	if err != nil {
		return err
	}

	var source string
	for _, account := range accounts.Data {
		switch account.Type {
		case "checking", "savings", "ach":
			source = account.ID
		}
		if source != "" {
			break
		}
	}

	if source == "" {
		return errors.New("no connected bank account to fund the payment", errors.CategoryBadInput).
			WithTextCode("NO_FUNDING_ACCOUNT").
			WithCode(errors.CodeBadRequest)
	}

	created, err := bc.method.CreatePayment(
		c.UserContext(),
		source,
		payload.CardID,
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

	if _, err := bc.repo.Payments().Record(c.UserContext(), record); err != nil {
		bc.logger.Error("failed to record bill payment", "error", err, "payment_id", created.ID)
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}

// ProcessEmail is the inbound bill-email hook. Parsing is out of
// scope, the endpoint only reserves the route.
func (bc *BillsController) ProcessEmail(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotImplemented).JSON(fiber.Map{
		"message": "bill email processing is not implemented",
	})
}
