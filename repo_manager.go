package agentpay

import (
	"context"
	"database/sql"
	"errors"
	"log"

	"github.com/goliatone/go-repository-bun"
	"github.com/uptrace/bun"
)

// RepositoryManager exposes all repositories
type RepositoryManager interface {
	repository.Validator
	repository.TransactionManager
	Users() Users
	Settings() Settings
	CardPrefs() CardPrefs
	Payments() Payments
}

type mngr struct {
	db        *bun.DB
	users     Users
	settings  Settings
	cardPrefs CardPrefs
	payments  Payments
}

func NewRepositoryManager(db *bun.DB) RepositoryManager {
	return &mngr{
		db:        db,
		users:     NewUsersRepository(db),
		settings:  NewSettingsRepository(db),
		cardPrefs: NewCardPrefsRepository(db),
		payments:  NewPaymentsRepository(db),
	}
}

func (m mngr) Validate() error {
	if m.users == nil {
		return errors.New("repository users should be initialized")
	}

	if m.settings == nil {
		return errors.New("repository settings should be initialized")
	}

	if m.cardPrefs == nil {
		return errors.New("repository cardPrefs should be initialized")
	}

	if m.payments == nil {
		return errors.New("repository payments should be initialized")
	}

	return nil
}

func (m mngr) MustValidate() {
	if err := m.Validate(); err != nil {
		log.Panic(err)
	}
}

func (m mngr) RunInTx(ctx context.Context, opts *sql.TxOptions, f func(ctx context.Context, tx bun.Tx) error) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return m.db.RunInTx(ctx, opts, f)
	}
}

func (m mngr) Users() Users {
	return m.users
}

func (m mngr) Settings() Settings {
	return m.settings
}

func (m mngr) CardPrefs() CardPrefs {
	return m.cardPrefs
}

func (m mngr) Payments() Payments {
	return m.payments
}
