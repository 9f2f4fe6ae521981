package server

import (
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"

	"github.com/agentpay/agentpay"
	"github.com/agentpay/agentpay/method"
)

// ConnectController handles the bank-connection surface: the hosted
// Connect element flow, manual account entry, and the dev-only
// simulated connections.
type ConnectController struct {
	repo   agentpay.RepositoryManager
	method *method.Client
	logger agentpay.Logger
}

func NewConnectController(repo agentpay.RepositoryManager, mc *method.Client, logger agentpay.Logger) *ConnectController {
	return &ConnectController{
		repo:   repo,
		method: mc,
		logger: logger,
	}
}

// CreateElementToken mints a token the frontend Connect component
// exchanges for a bank connection session.
func (cc *ConnectController) CreateElementToken(c *fiber.Ctx) error {
	entityID, err := requireEntityID(c, cc.repo)
	if err != nil {
		return err
	}

	token, err := cc.method.CreateElementToken(c.UserContext(), entityID, "connect")
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"element_token": token.ElementToken,
		"entity_id":     entityID,
	})
}

func (cc *ConnectController) ElementResults(c *fiber.Ctx) error {
	elementToken := c.Params("element_token")
	if elementToken == "" {
		return errors.New("element token is required", errors.CategoryBadInput).
			WithCode(errors.CodeBadRequest)
	}

	results, err := cc.method.GetElementResults(c.UserContext(), elementToken)
	if err != nil {
		return err
	}

	return c.JSON(results)
}

// BankAccounts lists the connected checking and savings accounts,
// leaving credit cards out.
func (cc *ConnectController) BankAccounts(c *fiber.Ctx) error {
	entityID, err := requireEntityID(c, cc.repo)
	if err != nil {
		return err
	}

	accounts, err := cc.method.GetAccounts(c.UserContext(), entityID)
	if err != nil {
		return err
	}

	bankAccounts := []method.Account{}
	for _, account := range accounts.Data {
		switch account.Type {
		case "checking", "savings", "ach":
			bankAccounts = append(bankAccounts, account)
		}
	}

	return c.JSON(fiber.Map{
		"bank_accounts": bankAccounts,
		"total":         len(bankAccounts),
	})
}

// ManualAccountPayload carries the fields for linking a bank account
// by routing and account number.
type ManualAccountPayload struct {
	Type          string `json:"type"`
	RoutingNumber string `json:"routing_number"`
	AccountNumber string `json:"account_number"`
	AccountName   string `json:"account_name"`
}

func (cc *ConnectController) CreateManualAccount(c *fiber.Ctx) error {
	entityID, err := requireEntityID(c, cc.repo)
	if err != nil {
		return err
	}

	payload := ManualAccountPayload{}
	if err := c.BodyParser(&payload); err != nil {
		return errors.Wrap(err, errors.CategoryBadInput, "failed to parse account payload").
			WithCode(errors.CodeBadRequest)
	}

	if payload.RoutingNumber == "" || payload.AccountNumber == "" {
		return errors.New("routing_number and account_number are required", errors.CategoryBadInput).
			WithCode(errors.CodeBadRequest)
	}

	if payload.Type == "" {
		payload.Type = method.AccountTypeChecking
	}
	if payload.AccountName == "" {
		payload.AccountName = "Primary Account"
	}

	account, err := cc.method.CreateAccount(c.UserContext(), map[string]any{
		"entity_id":      entityID,
		"type":           payload.Type,
		"routing_number": payload.RoutingNumber,
		"account_number": payload.AccountNumber,
		"account_name":   payload.AccountName,
	})
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(account)
}

func (cc *ConnectController) simulator() (*method.Simulator, error) {
	sim := cc.method.Simulator()
	if sim == nil {
		return nil, method.ErrSimulationUnavailable
	}
	return sim, nil
}

// SimulateConnection fabricates a single checking account.
func (cc *ConnectController) SimulateConnection(c *fiber.Ctx) error {
	entityID, err := requireEntityID(c, cc.repo)
	if err != nil {
		return err
	}

	sim, err := cc.simulator()
	if err != nil {
		return err
	}

	account := sim.ConnectBankAccount(entityID, method.AccountTypeChecking)

	return c.Status(fiber.StatusCreated).JSON(account)
}

// SimulateMultipleAccounts fabricates a checking and a savings
// account.
func (cc *ConnectController) SimulateMultipleAccounts(c *fiber.Ctx) error {
	entityID, err := requireEntityID(c, cc.repo)
	if err != nil {
		return err
	}

	sim, err := cc.simulator()
	if err != nil {
		return err
	}

	accounts := sim.ConnectBankAccounts(entityID)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"accounts": accounts,
		"total":    len(accounts),
	})
}

// SimulateCreditCards fabricates three credit cards with distinct
// brands.
func (cc *ConnectController) SimulateCreditCards(c *fiber.Ctx) error {
	entityID, err := requireEntityID(c, cc.repo)
	if err != nil {
		return err
	}

	sim, err := cc.simulator()
	if err != nil {
		return err
	}

	cards := sim.ConnectCreditCards(entityID)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"cards": cards,
		"total": len(cards),
	})
}

// SimulateFullSetup fabricates bank accounts and credit cards in one
// call so a fresh entity can exercise the payment flow immediately.
func (cc *ConnectController) SimulateFullSetup(c *fiber.Ctx) error {
	entityID, err := requireEntityID(c, cc.repo)
	if err != nil {
		return err
	}

	sim, err := cc.simulator()
	if err != nil {
		return err
	}

	accounts := sim.ConnectBankAccounts(entityID)
	cards := sim.ConnectCreditCards(entityID)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"bank_accounts": accounts,
		"cards":         cards,
		"total":         len(accounts) + len(cards),
	})
}
