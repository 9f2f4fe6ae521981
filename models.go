package agentpay

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// User is the identity record. The email column carries a unique index;
// the store, not the application, owns that invariant so two concurrent
// registrations of the same address cannot both commit.
type User struct {
	bun.BaseModel `bun:"table:users,alias:usr"`

	ID             uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Email          string     `bun:"email,notnull,unique" json:"email,omitempty"`
	FullName       string     `bun:"full_name" json:"full_name,omitempty"`
	PhoneNumber    string     `bun:"phone_number" json:"phone_number,omitempty"`
	PasswordHash   string     `bun:"password_hash,notnull" json:"-"`
	MethodEntityID string     `bun:"method_entity_id" json:"method_entity_id,omitempty"`
	LoginAttempts  int        `bun:"login_attempts" json:"-"`
	LoginAttemptAt *time.Time `bun:"login_attempt_at" json:"-"`
	LoggedInAt     *time.Time `bun:"loggedin_at" json:"-"`
	CreatedAt      *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt      *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// UserSettings holds account-wide autopay and notification preferences.
// Amounts are integer cents, matching the aggregator wire format.
type UserSettings struct {
	bun.BaseModel `bun:"table:user_settings,alias:uset"`

	ID                 uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	UserID             uuid.UUID  `bun:"user_id,notnull,unique,type:uuid" json:"user_id,omitempty"`
	AutopayEnabled     bool       `bun:"autopay_enabled" json:"autopay_enabled"`
	DefaultReminderDays int       `bun:"default_reminder_days" json:"default_reminder_days"`
	EmailNotifications bool       `bun:"email_notifications" json:"email_notifications"`
	SMSNotifications   bool       `bun:"sms_notifications" json:"sms_notifications"`
	MaxAutopayAmount   int64      `bun:"max_autopay_amount" json:"max_autopay_amount"`
	CreatedAt          *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt          *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// DefaultUserSettings returns the settings row created lazily on first
// read for an account that never saved any.
func DefaultUserSettings(userID uuid.UUID) *UserSettings {
	return &UserSettings{
		UserID:              userID,
		AutopayEnabled:      true,
		DefaultReminderDays: 3,
		EmailNotifications:  true,
		SMSNotifications:    false,
		MaxAutopayAmount:    100000,
	}
}

// CardPreferences holds per-card autopay preferences keyed by the
// aggregator card id. One row per (user, card) pair.
type CardPreferences struct {
	bun.BaseModel `bun:"table:card_preferences,alias:cpref"`

	ID               uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	UserID           uuid.UUID  `bun:"user_id,notnull,type:uuid" json:"user_id,omitempty"`
	MethodCardID     string     `bun:"method_card_id,notnull" json:"method_card_id,omitempty"`
	AutopayEnabled   bool       `bun:"autopay_enabled" json:"autopay_enabled"`
	ReminderDays     int        `bun:"reminder_days" json:"reminder_days"`
	MaxAutopayAmount int64      `bun:"max_autopay_amount" json:"max_autopay_amount"`
	CreatedAt        *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt        *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// Payment statuses mirror the aggregator lifecycle.
const (
	PaymentStatusPending    = "pending"
	PaymentStatusProcessing = "processing"
	PaymentStatusSent       = "sent"
	PaymentStatusCompleted  = "completed"
	PaymentStatusFailed     = "failed"
	PaymentStatusReversed   = "reversed"
)

// Payment is the stored record of a payment triggered through the
// backend. Amount is integer cents.
type Payment struct {
	bun.BaseModel `bun:"table:payments,alias:pmt"`

	ID              uuid.UUID `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	MethodPaymentID string    `bun:"method_payment_id,unique" json:"method_payment_id,omitempty"`

	UserID      uuid.UUID  `bun:"user_id,notnull,type:uuid" json:"user_id,omitempty"`
	Source      string     `bun:"source,notnull" json:"source,omitempty"`
	Destination string     `bun:"destination,notnull" json:"destination,omitempty"`
	Amount      int64      `bun:"amount,notnull" json:"amount"`
	Description string     `bun:"description" json:"description,omitempty"`
	Status      string     `bun:"status,notnull" json:"status,omitempty"`
	ErrorCode   string     `bun:"error_code" json:"error_code,omitempty"`
	CreatedAt   *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt   *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}
