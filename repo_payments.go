package agentpay

import (
	"context"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// PaymentFilter narrows ListForUser results.
type PaymentFilter struct {
	Status string
	Limit  int
	Offset int
}

type Payments interface {
	repository.Repository[*Payment]

	Record(ctx context.Context, payment *Payment) (*Payment, error)
	GetByMethodID(ctx context.Context, methodPaymentID string) (*Payment, error)
	ListForUser(ctx context.Context, userID uuid.UUID, filter PaymentFilter) ([]*Payment, error)
	UpdateStatus(ctx context.Context, methodPaymentID, status, errorCode string) (*Payment, error)
}

type payments struct {
	repository.Repository[*Payment]
	db *bun.DB
}

var _ Payments = (*payments)(nil)

func NewPaymentsRepository(db *bun.DB) Payments {
	repo := repository.NewRepository[*Payment](db, repository.ModelHandlers[*Payment]{
		NewRecord: func() *Payment { return &Payment{} },
		GetID: func(p *Payment) uuid.UUID {
			if p == nil {
				return uuid.Nil
			}
			return p.ID
		},
		SetID: func(p *Payment, id uuid.UUID) {
			if p != nil {
				p.ID = id
			}
		},
	})

	return &payments{
		Repository: repo,
		db:         db,
	}
}

func (a *payments) Record(ctx context.Context, payment *Payment) (*Payment, error) {
	if payment.ID == uuid.Nil {
		payment.ID = uuid.New()
	}
	if payment.Status == "" {
		payment.Status = PaymentStatusPending
	}
	return a.Repository.Create(ctx, payment)
}

func (a *payments) GetByMethodID(ctx context.Context, methodPaymentID string) (*Payment, error) {
	record := &Payment{}
	err := a.db.NewSelect().
		Model(record).
		Where("?TableAlias.method_payment_id = ?", methodPaymentID).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{
					"method_payment_id": methodPaymentID,
				})
		}
		return nil, err
	}

	return record, nil
}

func (a *payments) ListForUser(ctx context.Context, userID uuid.UUID, filter PaymentFilter) ([]*Payment, error) {
	records := []*Payment{}

	q := a.db.NewSelect().
		Model(&records).
		Where("?TableAlias.user_id = ?", userID).
		Order("created_at DESC")

	if filter.Status != "" {
		q = q.Where("?TableAlias.status = ?", filter.Status)
	}

	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}

	if filter.Offset > 0 {
		q = q.Offset(filter.Offset)
	}

	if err := q.Scan(ctx); err != nil {
		return nil, err
	}

	return records, nil
}

func (a *payments) UpdateStatus(ctx context.Context, methodPaymentID, status, errorCode string) (*Payment, error) {
	current, err := a.GetByMethodID(ctx, methodPaymentID)
	if err != nil {
		return nil, err
	}

	record := &Payment{
		ID:        current.ID,
		Status:    status,
		ErrorCode: errorCode,
	}

	return a.Repository.Update(ctx, record,
		repository.UpdateByID(current.ID.String()),
		repository.UpdateSkipZeroValues(),
	)
}
