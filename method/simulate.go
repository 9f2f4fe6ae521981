package method

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

// ErrSimulationUnavailable is returned when a simulation operation is
// requested outside the dev environment.
var ErrSimulationUnavailable = errors.New(
	"simulation endpoints only available in dev environment",
	errors.CategoryAuthz,
).WithTextCode("SIMULATION_UNAVAILABLE").WithCode(errors.CodeForbidden)

// Card brands the simulator knows how to fabricate.
const (
	BrandVisa       = "visa"
	BrandMastercard = "mastercard"
	BrandAmex       = "amex"
	BrandDiscover   = "discover"
)

// Bank account types the simulator knows how to fabricate.
const (
	AccountTypeChecking = "checking"
	AccountTypeSavings  = "savings"
)

type brandProfile struct {
	name     string
	lastFour string
}

var brandProfiles = map[string]brandProfile{
	BrandVisa:       {name: "Chase Sapphire Preferred", lastFour: "4242"},
	BrandMastercard: {name: "Capital One Venture", lastFour: "5555"},
	BrandAmex:       {name: "American Express Gold", lastFour: "1005"},
	BrandDiscover:   {name: "Discover it Cash Back", lastFour: "1117"},
}

// Simulator fabricates connected accounts in memory so the payment
// flows can run end to end against the dev environment without the
// hosted Connect UI.
type Simulator struct {
	mu       sync.Mutex
	accounts map[string][]Account
}

func NewSimulator() *Simulator {
	return &Simulator{
		accounts: map[string][]Account{},
	}
}

// ConnectCreditCard fabricates one credit card for the entity. Unknown
// brands fall back to visa.
func (s *Simulator) ConnectCreditCard(entityID, brand string) Account {
	profile, ok := brandProfiles[brand]
	if !ok {
		brand = BrandVisa
		profile = brandProfiles[BrandVisa]
	}

	now := time.Now()

	// balance $500 to $5000 in cents, with headroom for the limit
	balance := int64(rand.Intn(450000) + 50000)
	creditLimit := balance + int64(rand.Intn(900000)+100000)
	minimumPayment := balance / 50
	if minimumPayment < 2500 {
		minimumPayment = 2500
	}

	dueDate := now.AddDate(0, 0, rand.Intn(31)+15)
	lastPaymentDate := now.AddDate(0, 0, -(rand.Intn(26) + 5))

	lastPaymentAmount := int64(5000)
	if minimumPayment > lastPaymentAmount {
		lastPaymentAmount += rand.Int63n(minimumPayment - lastPaymentAmount + 1)
	}

	card := Account{
		ID:       "acc_cc_" + shortID(),
		EntityID: entityID,
		Type:     "liability",
		Status:   "active",
		Balance:  balance,
		Brand:    brand,
		LastFour: profile.lastFour,
		Name:     profile.name,
		ExpMonth: rand.Intn(12) + 1,
		ExpYear:  now.Year() + rand.Intn(5) + 1,
		Liability: &Liability{
			MCH:                      profile.lastFour,
			Mask:                     profile.lastFour,
			Name:                     profile.name,
			Type:                     "credit_card",
			Balance:                  balance,
			CreditLimit:              creditLimit,
			AvailableCredit:          creditLimit - balance,
			LastPaymentDate:          lastPaymentDate.Format(time.RFC3339),
			LastPaymentAmount:        lastPaymentAmount,
			NextPaymentDueDate:       dueDate.Format(time.RFC3339),
			NextPaymentMinimumAmount: minimumPayment,
			APR:                      15.99 + rand.Float64()*14,
			StatementBalance:         balance,
		},
		CreatedAt:      "2024-01-01T00:00:00Z",
		UpdatedAt:      now.Format(time.RFC3339),
		Simulation:     true,
		SimulationNote: fmt.Sprintf("This is a simulated %s credit card for development testing", brand),
	}

	s.store(entityID, card)

	return card
}

// ConnectCreditCards fabricates three cards with distinct brands.
func (s *Simulator) ConnectCreditCards(entityID string) []Account {
	brands := []string{BrandVisa, BrandMastercard, BrandAmex}

	cards := make([]Account, 0, len(brands))
	for _, brand := range brands {
		cards = append(cards, s.ConnectCreditCard(entityID, brand))
	}

	return cards
}

// ConnectBankAccount fabricates a checking or savings account.
func (s *Simulator) ConnectBankAccount(entityID, accountType string) Account {
	if accountType != AccountTypeChecking && accountType != AccountTypeSavings {
		accountType = AccountTypeChecking
	}

	lastFour := shortID()[:4]

	account := Account{
		ID:            "acc_sim_" + shortID(),
		EntityID:      entityID,
		Type:          accountType,
		Status:        "active",
		Balance:       500000,
		RoutingNumber: "021000021",
		AccountNumber: "****" + lastFour,
		LastFour:      lastFour,
		AccountName:   fmt.Sprintf("Simulated %s Account", titleCase(accountType)),
		BankName:      "Chase Bank (Simulated)",
		CreatedAt:     "2024-01-01T00:00:00Z",
		UpdatedAt:     "2024-01-01T00:00:00Z",

		Simulation:     true,
		SimulationNote: "This is a simulated bank account for development testing",
	}

	s.store(entityID, account)

	return account
}

// ConnectBankAccounts fabricates one checking and one savings account.
func (s *Simulator) ConnectBankAccounts(entityID string) []Account {
	return []Account{
		s.ConnectBankAccount(entityID, AccountTypeChecking),
		s.ConnectBankAccount(entityID, AccountTypeSavings),
	}
}

// Accounts returns a copy of everything fabricated for the entity.
func (s *Simulator) Accounts(entityID string) []Account {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := s.accounts[entityID]
	out := make([]Account, len(stored))
	copy(out, stored)

	return out
}

func (s *Simulator) store(entityID string, account Account) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.accounts[entityID] = append(s.accounts[entityID], account)
}

func shortID() string {
	return uuid.NewString()[:8]
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return string(s[0]-'a'+'A') + s[1:]
}
