package order

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"restopos/kit/db"
)

type orderRow struct {
	ID            uint64          `gorm:"primaryKey;autoIncrement"`
	TableNumber   int             `gorm:"not null"`
	WaiterName    string          `gorm:"not null"`
	LineItems     []LineItem      `gorm:"serializer:json"`
	Total         decimal.Decimal `gorm:"type:decimal(12,2)"`
	Status        Status          `gorm:"index;not null"`
	PaymentMethod Method
	CreatedAt     time.Time
}

func (orderRow) TableName() string { return "orders" }

// Row returns the persistence model for migrations.
func Row() any { return &orderRow{} }

type GormRepository struct {
	db *gorm.DB
}

func NewGormRepository(conn *gorm.DB) *GormRepository {
	return &GormRepository{db: conn}
}

func (r *GormRepository) Create(ctx context.Context, o *Order) error {
	row := toRow(o)
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		log.Printf("layer=repo component=order repo=GormRepository method=Create table=%d err=%v", o.TableNumber, err)
		return errors.Join(db.ErrInternal, err)
	}
	o.ID = row.ID
	o.CreatedAt = row.CreatedAt
	return nil
}

func (r *GormRepository) Get(ctx context.Context, id uint64) (*Order, error) {
	var row orderRow
	err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, db.ErrNotFound
		}
		log.Printf("layer=repo component=order repo=GormRepository method=Get order_id=%d err=%v", id, err)
		return nil, errors.Join(db.ErrInternal, err)
	}
	return fromRow(&row), nil
}

func (r *GormRepository) MarkPaid(ctx context.Context, id uint64, method Method) (*Order, error) {
	res := r.db.WithContext(ctx).
		Model(&orderRow{}).
		Where("id = ? AND status = ?", id, StatusOpen).
		Updates(map[string]any{"status": StatusPaid, "payment_method": method})
	if res.Error != nil {
		log.Printf("layer=repo component=order repo=GormRepository method=MarkPaid order_id=%d err=%v", id, res.Error)
		return nil, errors.Join(db.ErrInternal, res.Error)
	}

	cur, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if res.RowsAffected == 0 {
		if cur.Status == StatusPaid {
			return cur, ErrAlreadyPaid
		}
		return nil, db.ErrConflict
	}
	return cur, nil
}

type InMemoryRepository struct {
	mu     sync.Mutex
	nextID uint64
	data   map[uint64]*Order
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{nextID: 1, data: make(map[uint64]*Order)}
}

func (r *InMemoryRepository) Create(ctx context.Context, o *Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	o.ID = r.nextID
	r.nextID++
	cpy := cloneOrder(o)
	r.data[o.ID] = cpy
	return nil
}

func (r *InMemoryRepository) Get(ctx context.Context, id uint64) (*Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.data[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	return cloneOrder(o), nil
}

func (r *InMemoryRepository) MarkPaid(ctx context.Context, id uint64, method Method) (*Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.data[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	if o.Status == StatusPaid {
		return cloneOrder(o), ErrAlreadyPaid
	}
	o.Status = StatusPaid
	o.PaymentMethod = method
	return cloneOrder(o), nil
}

func cloneOrder(o *Order) *Order {
	cpy := *o
	cpy.LineItems = append([]LineItem(nil), o.LineItems...)
	return &cpy
}

func toRow(o *Order) *orderRow {
	return &orderRow{
		ID:            o.ID,
		TableNumber:   o.TableNumber,
		WaiterName:    o.WaiterName,
		LineItems:     o.LineItems,
		Total:         o.Total,
		Status:        o.Status,
		PaymentMethod: o.PaymentMethod,
		CreatedAt:     o.CreatedAt,
	}
}

func fromRow(row *orderRow) *Order {
	return &Order{
		ID:            row.ID,
		TableNumber:   row.TableNumber,
		WaiterName:    row.WaiterName,
		LineItems:     row.LineItems,
		Total:         row.Total,
		Status:        row.Status,
		PaymentMethod: row.PaymentMethod,
		CreatedAt:     row.CreatedAt,
	}
}
