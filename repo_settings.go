package agentpay

import (
	"context"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type Settings interface {
	repository.Repository[*UserSettings]

	GetOrCreateForUser(ctx context.Context, userID uuid.UUID) (*UserSettings, error)
	UpdateForUser(ctx context.Context, record *UserSettings) (*UserSettings, error)
}

type settings struct {
	repository.Repository[*UserSettings]
	db *bun.DB
}

var _ Settings = (*settings)(nil)

func NewSettingsRepository(db *bun.DB) Settings {
	repo := repository.NewRepository[*UserSettings](db, repository.ModelHandlers[*UserSettings]{
		NewRecord: func() *UserSettings { return &UserSettings{} },
		GetID: func(s *UserSettings) uuid.UUID {
			if s == nil {
				return uuid.Nil
			}
			return s.ID
		},
		SetID: func(s *UserSettings, id uuid.UUID) {
			if s != nil {
				s.ID = id
			}
		},
	})

	return &settings{
		Repository: repo,
		db:         db,
	}
}

// GetOrCreateForUser returns the user's settings row, creating it with
// defaults the first time it is asked for.
func (a *settings) GetOrCreateForUser(ctx context.Context, userID uuid.UUID) (*UserSettings, error) {
	record := &UserSettings{}
	err := a.db.NewSelect().
		Model(record).
		Where("?TableAlias.user_id = ?", userID).
		Limit(1).
		Scan(ctx)

	if err == nil {
		return record, nil
	}

	if !repository.IsRecordNotFound(err) {
		return nil, err
	}

	record = DefaultUserSettings(userID)
	record.ID = uuid.New()
	return a.Repository.Create(ctx, record)
}

func (a *settings) UpdateForUser(ctx context.Context, record *UserSettings) (*UserSettings, error) {
	current, err := a.GetOrCreateForUser(ctx, record.UserID)
	if err != nil {
		return nil, err
	}

	record.ID = current.ID
	return a.Repository.Update(ctx, record, repository.UpdateByID(current.ID.String()))
}
