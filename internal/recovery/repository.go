package recovery

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"gorm.io/gorm"

	"restopos/kit/db"
)

type retryRow struct {
	Reference string `gorm:"primaryKey"`
	Reason    string
	Count     int
	QueuedAt  time.Time
	LastAt    time.Time
}

func (retryRow) TableName() string { return "pending_retries" }

// Row returns the persistence model for migrations.
func Row() any { return &retryRow{} }

type GormRepository struct {
	db *gorm.DB
}

func NewGormRepository(conn *gorm.DB) *GormRepository {
	return &GormRepository{db: conn}
}

func (r *GormRepository) Upsert(ctx context.Context, reference, reason string) error {
	now := time.Now().UTC()
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row retryRow
		err := tx.First(&row, "reference = ?", reference).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return tx.Create(&retryRow{
				Reference: reference,
				Reason:    reason,
				Count:     1,
				QueuedAt:  now,
				LastAt:    now,
			}).Error
		}
		if err != nil {
			return err
		}
		return tx.Model(&retryRow{}).Where("reference = ?", reference).
			Updates(map[string]any{"reason": reason, "count": row.Count + 1, "last_at": now}).Error
	})
	if err != nil {
		log.Printf("layer=repo component=recovery repo=GormRepository method=Upsert reference=%s err=%v", reference, err)
		return errors.Join(db.ErrInternal, err)
	}
	return nil
}

func (r *GormRepository) Pending(ctx context.Context) ([]PendingRetry, error) {
	var rows []retryRow
	if err := r.db.WithContext(ctx).Order("queued_at").Find(&rows).Error; err != nil {
		log.Printf("layer=repo component=recovery repo=GormRepository method=Pending err=%v", err)
		return nil, errors.Join(db.ErrInternal, err)
	}
	out := make([]PendingRetry, 0, len(rows))
	for _, row := range rows {
		out = append(out, PendingRetry{
			Reference: row.Reference,
			Reason:    row.Reason,
			Count:     row.Count,
			QueuedAt:  row.QueuedAt,
			LastAt:    row.LastAt,
		})
	}
	return out, nil
}

func (r *GormRepository) Resolve(ctx context.Context, reference string) error {
	res := r.db.WithContext(ctx).Delete(&retryRow{}, "reference = ?", reference)
	if res.Error != nil {
		log.Printf("layer=repo component=recovery repo=GormRepository method=Resolve reference=%s err=%v", reference, res.Error)
		return errors.Join(db.ErrInternal, res.Error)
	}
	if res.RowsAffected == 0 {
		return db.ErrNotFound
	}
	return nil
}

type InMemoryRepository struct {
	mu   sync.Mutex
	data map[string]*PendingRetry
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{data: make(map[string]*PendingRetry)}
}

func (r *InMemoryRepository) Upsert(ctx context.Context, reference, reason string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	if p, ok := r.data[reference]; ok {
		p.Reason = reason
		p.Count++
		p.LastAt = now
		return nil
	}
	r.data[reference] = &PendingRetry{
		Reference: reference,
		Reason:    reason,
		Count:     1,
		QueuedAt:  now,
		LastAt:    now,
	}
	return nil
}

func (r *InMemoryRepository) Pending(ctx context.Context) ([]PendingRetry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]PendingRetry, 0, len(r.data))
	for _, p := range r.data {
		out = append(out, *p)
	}
	return out, nil
}

func (r *InMemoryRepository) Resolve(ctx context.Context, reference string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.data[reference]; !ok {
		return db.ErrNotFound
	}
	delete(r.data, reference)
	return nil
}
