package method

// Entity is an aggregator-side person or business that holds accounts.
type Entity struct {
	ID         string      `json:"id,omitempty"`
	Type       string      `json:"type,omitempty"`
	Individual *Individual `json:"individual,omitempty"`
	Status     string      `json:"status,omitempty"`
	CreatedAt  string      `json:"created_at,omitempty"`
	UpdatedAt  string      `json:"updated_at,omitempty"`
}

type Individual struct {
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
}

// EntityList is the paginated entities response.
type EntityList struct {
	Data  []Entity `json:"data"`
	Total int      `json:"total,omitempty"`
}

// Liability carries the credit card detail block of an account.
type Liability struct {
	MCH                      string  `json:"mch,omitempty"`
	Mask                     string  `json:"mask,omitempty"`
	Name                     string  `json:"name,omitempty"`
	Type                     string  `json:"type,omitempty"`
	Balance                  int64   `json:"balance,omitempty"`
	CreditLimit              int64   `json:"credit_limit,omitempty"`
	AvailableCredit          int64   `json:"available_credit,omitempty"`
	LastPaymentDate          string  `json:"last_payment_date,omitempty"`
	LastPaymentAmount        int64   `json:"last_payment_amount,omitempty"`
	NextPaymentDueDate       string  `json:"next_payment_due_date,omitempty"`
	NextPaymentMinimumAmount int64   `json:"next_payment_minimum_amount,omitempty"`
	APR                      float64 `json:"apr,omitempty"`
	StatementBalance         int64   `json:"statement_balance,omitempty"`
}

// Account is a connected bank account or credit card. Amounts are in
// cents.
type Account struct {
	ID       string `json:"id,omitempty"`
	EntityID string `json:"entity_id,omitempty"`
	Type     string `json:"type,omitempty"`
	Status   string `json:"status,omitempty"`
	Balance  int64  `json:"balance,omitempty"`

	// credit card fields
	Brand     string     `json:"brand,omitempty"`
	LastFour  string     `json:"last_four,omitempty"`
	Name      string     `json:"name,omitempty"`
	ExpMonth  int        `json:"exp_month,omitempty"`
	ExpYear   int        `json:"exp_year,omitempty"`
	Liability *Liability `json:"liability,omitempty"`

	// bank account fields
	RoutingNumber string `json:"routing_number,omitempty"`
	AccountNumber string `json:"account_number,omitempty"`
	AccountName   string `json:"account_name,omitempty"`
	BankName      string `json:"bank_name,omitempty"`

	CreatedAt string `json:"created_at,omitempty"`
	UpdatedAt string `json:"updated_at,omitempty"`

	Simulation     bool   `json:"_simulation,omitempty"`
	SimulationNote string `json:"_simulation_note,omitempty"`
}

// AccountList is the accounts response shape.
type AccountList struct {
	Data       []Account `json:"data"`
	Total      int       `json:"total,omitempty"`
	Simulation bool      `json:"_simulation,omitempty"`
}

// Payment is an aggregator payment between two accounts.
type Payment struct {
	ID          string `json:"id,omitempty"`
	Source      string `json:"source,omitempty"`
	Destination string `json:"destination,omitempty"`
	Amount      int64  `json:"amount"`
	Description string `json:"description,omitempty"`
	Status      string `json:"status,omitempty"`
	ErrorCode   string `json:"error_code,omitempty"`
	CreatedAt   string `json:"created_at,omitempty"`
	UpdatedAt   string `json:"updated_at,omitempty"`
}

// PaymentList is the paginated payments response.
type PaymentList struct {
	Data  []Payment `json:"data"`
	Total int       `json:"total,omitempty"`
}

// ElementToken is a one-time token for the hosted Connect flow.
type ElementToken struct {
	ElementToken string `json:"element_token,omitempty"`
	EntityID     string `json:"entity_id,omitempty"`
	Type         string `json:"type,omitempty"`
}

// ElementResults reports what a finished Connect session produced.
type ElementResults struct {
	ElementToken string    `json:"element_token,omitempty"`
	Accounts     []Account `json:"accounts,omitempty"`
	Status       string    `json:"status,omitempty"`
}

// ListPaymentsParams mirrors the aggregator's payments query surface.
// Zero-valued fields are omitted from the request.
type ListPaymentsParams struct {
	Source              string
	Destination         string
	AccID               string
	SourceHolderID      string
	DestinationHolderID string
	HolderID            string
	Status              string
	FromDate            string
	ToDate              string
	Page                string
	PageCursor          string
	PageLimit           string
}
