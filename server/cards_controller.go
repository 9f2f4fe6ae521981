package server

import (
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"

	"github.com/agentpay/agentpay"
	"github.com/agentpay/agentpay/method"
)

// CardsController lists the user's credit cards and manages the
// per-card autopay preferences.
type CardsController struct {
	repo   agentpay.RepositoryManager
	method *method.Client
	logger agentpay.Logger
}

func NewCardsController(repo agentpay.RepositoryManager, mc *method.Client, logger agentpay.Logger) *CardsController {
	return &CardsController{
		repo:   repo,
		method: mc,
		logger: logger,
	}
}

// cardView pairs an aggregator card with its stored preferences.
type cardView struct {
	ID          string                    `json:"id"`
	MethodCard  method.Account            `json:"method_card"`
	Preferences *agentpay.CardPreferences `json:"preferences,omitempty"`
}

// List returns every liability account for the user, each paired with
// its stored preferences when any exist.
func (cc *CardsController) List(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	entityID, err := requireEntityID(c, cc.repo)
	if err != nil {
		return err
	}

	accounts, err := cc.method.GetAccounts(c.UserContext(), entityID)
	if err != nil {
		return err
	}

	prefs, err := cc.repo.CardPrefs().ListForUser(c.UserContext(), userID)
	if err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to load card preferences")
	}

	prefsByCard := map[string]*agentpay.CardPreferences{}
	for _, p := range prefs {
		prefsByCard[p.MethodCardID] = p
	}

	cards := []cardView{}
	for _, account := range accounts.Data {
		if account.Type != "liability" {
			continue
		}
		cards = append(cards, cardView{
			ID:          account.ID,
			MethodCard:  account,
			Preferences: prefsByCard[account.ID],
		})
	}

	return c.JSON(cards)
}

// CardPreferencesPayload carries the mutable preference fields.
type CardPreferencesPayload struct {
	AutopayEnabled   bool  `json:"autopay_enabled"`
	ReminderDays     int   `json:"reminder_days"`
	MaxAutopayAmount int64 `json:"max_autopay_amount"`
}

// SavePreferences creates or replaces the preferences for a card.
func (cc *CardsController) SavePreferences(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	cardID := c.Params("card_id")
	if cardID == "" {
		return errors.New("card id is required", errors.CategoryBadInput).
			WithCode(errors.CodeBadRequest)
	}

	payload := CardPreferencesPayload{}
	if err := c.BodyParser(&payload); err != nil {
		return errors.Wrap(err, errors.CategoryBadInput, "failed to parse preferences payload").
			WithCode(errors.CodeBadRequest)
	}

	record := &agentpay.CardPreferences{
		UserID:           userID,
		MethodCardID:     cardID,
		AutopayEnabled:   payload.AutopayEnabled,
		ReminderDays:     payload.ReminderDays,
		MaxAutopayAmount: payload.MaxAutopayAmount,
	}

	saved, err := cc.repo.CardPrefs().UpsertForCard(c.UserContext(), record)
	if err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to save card preferences")
	}

	return c.JSON(saved)
}

func (cc *CardsController) GetPreferences(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	cardID := c.Params("card_id")
	if cardID == "" {
		return errors.New("card id is required", errors.CategoryBadInput).
			WithCode(errors.CodeBadRequest)
	}

	prefs, err := cc.repo.CardPrefs().GetForCard(c.UserContext(), userID, cardID)
	if err != nil {
		if agentpay.IsNotFound(err) {
			return errors.New("no preferences stored for card", errors.CategoryNotFound).
				WithCode(errors.CodeNotFound).
				WithMetadata(map[string]any{"card_id": cardID})
		}
		return errors.Wrap(err, errors.CategoryInternal, "failed to load card preferences")
	}

	return c.JSON(prefs)
}
