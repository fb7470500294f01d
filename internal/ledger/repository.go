package ledger

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"restopos/kit/db"
)

type attemptRow struct {
	Reference             string          `gorm:"primaryKey"`
	OrderID               uint64          `gorm:"index;not null"`
	Method                Method          `gorm:"not null"`
	Amount                decimal.Decimal `gorm:"type:decimal(12,2)"`
	State                 State           `gorm:"index;not null"`
	ProviderTransactionID string
	Reason                string
	CreatedAt             time.Time
	ReconciledAt          *time.Time
}

func (attemptRow) TableName() string { return "payment_attempts" }

// Row returns the persistence model for migrations.
func Row() any { return &attemptRow{} }

type GormRepository struct {
	db *gorm.DB
}

func NewGormRepository(conn *gorm.DB) *GormRepository {
	return &GormRepository{db: conn}
}

func (r *GormRepository) RecordInitiated(ctx context.Context, a *PaymentAttempt) error {
	row := toRow(a)
	row.State = StateInitiated
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(err.Error(), "UNIQUE") {
			return db.ErrConflict
		}
		log.Printf("layer=repo component=ledger repo=GormRepository method=RecordInitiated reference=%s err=%v", a.Reference, err)
		return errors.Join(db.ErrInternal, err)
	}
	a.State = StateInitiated
	a.CreatedAt = row.CreatedAt
	return nil
}

func (r *GormRepository) Get(ctx context.Context, reference string) (*PaymentAttempt, error) {
	var row attemptRow
	err := r.db.WithContext(ctx).First(&row, "reference = ?", reference).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, db.ErrNotFound
		}
		log.Printf("layer=repo component=ledger repo=GormRepository method=Get reference=%s err=%v", reference, err)
		return nil, errors.Join(db.ErrInternal, err)
	}
	return fromRow(&row), nil
}

func (r *GormRepository) ByOrder(ctx context.Context, orderID uint64) ([]PaymentAttempt, error) {
	var rows []attemptRow
	err := r.db.WithContext(ctx).Where("order_id = ?", orderID).Order("created_at").Find(&rows).Error
	if err != nil {
		log.Printf("layer=repo component=ledger repo=GormRepository method=ByOrder order_id=%d err=%v", orderID, err)
		return nil, errors.Join(db.ErrInternal, err)
	}
	out := make([]PaymentAttempt, 0, len(rows))
	for i := range rows {
		out = append(out, *fromRow(&rows[i]))
	}
	return out, nil
}

func (r *GormRepository) TryReconcile(ctx context.Context, reference, providerTxID string) (*PaymentAttempt, error) {
	var out *PaymentAttempt
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row attemptRow
		if err := tx.First(&row, "reference = ?", reference).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return db.ErrNotFound
			}
			return errors.Join(db.ErrInternal, err)
		}
		if row.State == StateReconciled {
			out = fromRow(&row)
			return ErrAlreadyReconciled
		}

		var settled int64
		if err := tx.Model(&attemptRow{}).
			Where("order_id = ? AND state = ? AND reference <> ?", row.OrderID, StateReconciled, reference).
			Count(&settled).Error; err != nil {
			return errors.Join(db.ErrInternal, err)
		}
		if settled > 0 {
			out = fromRow(&row)
			return ErrOrderSettled
		}

		now := time.Now().UTC()
		res := tx.Model(&attemptRow{}).
			Where("reference = ? AND state <> ?", reference, StateReconciled).
			Updates(map[string]any{
				"state":                   StateReconciled,
				"provider_transaction_id": providerTxID,
				"reconciled_at":           now,
			})
		if res.Error != nil {
			return errors.Join(db.ErrInternal, res.Error)
		}
		if res.RowsAffected == 0 {
			// lost the race inside this transaction window; re-read and report
			if err := tx.First(&row, "reference = ?", reference).Error; err != nil {
				return errors.Join(db.ErrInternal, err)
			}
			out = fromRow(&row)
			return ErrAlreadyReconciled
		}

		row.State = StateReconciled
		row.ProviderTransactionID = providerTxID
		row.ReconciledAt = &now
		out = fromRow(&row)
		return nil
	})
	if err != nil && !errors.Is(err, ErrAlreadyReconciled) && !errors.Is(err, ErrOrderSettled) && !errors.Is(err, db.ErrNotFound) {
		log.Printf("layer=repo component=ledger repo=GormRepository method=TryReconcile reference=%s err=%v", reference, err)
	}
	return out, err
}

func (r *GormRepository) MarkFailed(ctx context.Context, reference, reason string) error {
	res := r.db.WithContext(ctx).Model(&attemptRow{}).
		Where("reference = ? AND state <> ?", reference, StateReconciled).
		Updates(map[string]any{"state": StateFailed, "reason": reason})
	if res.Error != nil {
		log.Printf("layer=repo component=ledger repo=GormRepository method=MarkFailed reference=%s err=%v", reference, res.Error)
		return errors.Join(db.ErrInternal, res.Error)
	}
	if res.RowsAffected == 0 {
		// either unknown, or already reconciled; reconciled entries are left alone
		if _, err := r.Get(ctx, reference); err != nil {
			return err
		}
	}
	return nil
}

type InMemoryRepository struct {
	mu   sync.Mutex
	data map[string]*PaymentAttempt
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{data: make(map[string]*PaymentAttempt)}
}

func (r *InMemoryRepository) RecordInitiated(ctx context.Context, a *PaymentAttempt) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.data[a.Reference]; ok {
		return db.ErrConflict
	}
	a.State = StateInitiated
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	cpy := *a
	r.data[a.Reference] = &cpy
	return nil
}

func (r *InMemoryRepository) Get(ctx context.Context, reference string) (*PaymentAttempt, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.data[reference]
	if !ok {
		return nil, db.ErrNotFound
	}
	cpy := *a
	return &cpy, nil
}

func (r *InMemoryRepository) ByOrder(ctx context.Context, orderID uint64) ([]PaymentAttempt, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []PaymentAttempt
	for _, a := range r.data {
		if a.OrderID == orderID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (r *InMemoryRepository) TryReconcile(ctx context.Context, reference, providerTxID string) (*PaymentAttempt, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.data[reference]
	if !ok {
		return nil, db.ErrNotFound
	}
	if a.State == StateReconciled {
		cpy := *a
		return &cpy, ErrAlreadyReconciled
	}
	for _, other := range r.data {
		if other.OrderID == a.OrderID && other.Reference != reference && other.State == StateReconciled {
			cpy := *a
			return &cpy, ErrOrderSettled
		}
	}
	a.State = StateReconciled
	a.ProviderTransactionID = providerTxID
	a.ReconciledAt = time.Now().UTC()
	cpy := *a
	return &cpy, nil
}

func (r *InMemoryRepository) MarkFailed(ctx context.Context, reference, reason string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.data[reference]
	if !ok {
		return db.ErrNotFound
	}
	if a.State == StateReconciled {
		return nil
	}
	a.State = StateFailed
	a.Reason = reason
	return nil
}

func toRow(a *PaymentAttempt) *attemptRow {
	row := &attemptRow{
		Reference:             a.Reference,
		OrderID:               a.OrderID,
		Method:                a.Method,
		Amount:                a.Amount,
		State:                 a.State,
		ProviderTransactionID: a.ProviderTransactionID,
		Reason:                a.Reason,
		CreatedAt:             a.CreatedAt,
	}
	if !a.ReconciledAt.IsZero() {
		t := a.ReconciledAt
		row.ReconciledAt = &t
	}
	return row
}

func fromRow(row *attemptRow) *PaymentAttempt {
	a := &PaymentAttempt{
		Reference:             row.Reference,
		OrderID:               row.OrderID,
		Method:                row.Method,
		Amount:                row.Amount,
		State:                 row.State,
		ProviderTransactionID: row.ProviderTransactionID,
		Reason:                row.Reason,
		CreatedAt:             row.CreatedAt,
	}
	if row.ReconciledAt != nil {
		a.ReconciledAt = *row.ReconciledAt
	}
	return a
}
