package agentpay

import (
	"context"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type CardPrefs interface {
	repository.Repository[*CardPreferences]

	ListForUser(ctx context.Context, userID uuid.UUID) ([]*CardPreferences, error)
	GetForCard(ctx context.Context, userID uuid.UUID, methodCardID string) (*CardPreferences, error)
	UpsertForCard(ctx context.Context, record *CardPreferences) (*CardPreferences, error)
	DeleteForCard(ctx context.Context, userID uuid.UUID, methodCardID string) error
}

type cardPrefs struct {
	repository.Repository[*CardPreferences]
	db *bun.DB
}

var _ CardPrefs = (*cardPrefs)(nil)

func NewCardPrefsRepository(db *bun.DB) CardPrefs {
	repo := repository.NewRepository[*CardPreferences](db, repository.ModelHandlers[*CardPreferences]{
		NewRecord: func() *CardPreferences { return &CardPreferences{} },
		GetID: func(c *CardPreferences) uuid.UUID {
			if c == nil {
				return uuid.Nil
			}
			return c.ID
		},
		SetID: func(c *CardPreferences, id uuid.UUID) {
			if c != nil {
				c.ID = id
			}
		},
	})

	return &cardPrefs{
		Repository: repo,
		db:         db,
	}
}

func (a *cardPrefs) ListForUser(ctx context.Context, userID uuid.UUID) ([]*CardPreferences, error) {
	records := []*CardPreferences{}
	err := a.db.NewSelect().
		Model(&records).
		Where("?TableAlias.user_id = ?", userID).
		Order("created_at ASC").
		Scan(ctx)

	if err != nil {
		return nil, err
	}

	return records, nil
}

func (a *cardPrefs) GetForCard(ctx context.Context, userID uuid.UUID, methodCardID string) (*CardPreferences, error) {
	record := &CardPreferences{}
	err := a.db.NewSelect().
		Model(record).
		Where("?TableAlias.user_id = ?", userID).
		Where("?TableAlias.method_card_id = ?", methodCardID).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{
					"user_id":        userID.String(),
					"method_card_id": methodCardID,
				})
		}
		return nil, err
	}

	return record, nil
}

// UpsertForCard writes the preferences for a (user, card) pair,
// replacing any existing row for that pair.
func (a *cardPrefs) UpsertForCard(ctx context.Context, record *CardPreferences) (*CardPreferences, error) {
	current, err := a.GetForCard(ctx, record.UserID, record.MethodCardID)
	if err == nil {
		record.ID = current.ID
		return a.Repository.Update(ctx, record, repository.UpdateByID(current.ID.String()))
	}

	if !repository.IsRecordNotFound(err) {
		return nil, err
	}

	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	return a.Repository.Create(ctx, record)
}

func (a *cardPrefs) DeleteForCard(ctx context.Context, userID uuid.UUID, methodCardID string) error {
	current, err := a.GetForCard(ctx, userID, methodCardID)
	if err != nil {
		return err
	}

	_, err = a.db.NewDelete().
		Model((*CardPreferences)(nil)).
		Where("id = ?", current.ID).
		Exec(ctx)

	return err
}
