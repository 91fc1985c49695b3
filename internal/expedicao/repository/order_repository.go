package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/mqsfps1-maker/ecomflow/internal/expedicao/entity"
	"gorm.io/gorm"
)

type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

func (r *OrderRepository) DB() *gorm.DB {
	return r.db
}

func (r *OrderRepository) Create(ctx context.Context, item *entity.OrderItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *OrderRepository) Update(ctx context.Context, item *entity.OrderItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

// FindByKey resolves the reconciliation identity (orderId, sku), both
// case-insensitive.
func (r *OrderRepository) FindByKey(ctx context.Context, orderID, sku string) (*entity.OrderItem, error) {
	var item entity.OrderItem
	err := r.db.WithContext(ctx).
		Where("UPPER(order_id) = ? AND UPPER(sku) = ?",
			strings.ToUpper(strings.TrimSpace(orderID)),
			strings.ToUpper(strings.TrimSpace(sku))).
		First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// ExistingKeys returns which of the given keys already have a stored record.
// Keys are entity.OrderKey values.
func (r *OrderRepository) ExistingKeys(ctx context.Context, keys []string) (map[string]bool, error) {
	existing := make(map[string]bool)
	if len(keys) == 0 {
		return existing, nil
	}
	orderIDs := make([]string, 0, len(keys))
	for _, k := range keys {
		if idx := strings.IndexByte(k, '\x00'); idx >= 0 {
			orderIDs = append(orderIDs, k[:idx])
		}
	}
	var items []entity.OrderItem
	err := r.db.WithContext(ctx).
		Select("order_id", "sku").
		Where("UPPER(order_id) IN ?", orderIDs).
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	stored := make(map[string]bool, len(items))
	for i := range items {
		stored[items[i].Key()] = true
	}
	for _, k := range keys {
		if stored[k] {
			existing[k] = true
		}
	}
	return existing, nil
}

// List pages through order items, newest sale date first. Canal and status
// filter when non-empty.
func (r *OrderRepository) List(ctx context.Context, canal, status string, page, pageSize int) ([]entity.OrderItem, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 500 {
		pageSize = 50
	}

	query := r.db.WithContext(ctx).Model(&entity.OrderItem{})
	if canal != "" {
		query = query.Where("canal = ?", strings.ToUpper(canal))
	}
	if status != "" {
		query = query.Where("status = ?", strings.ToUpper(status))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []entity.OrderItem
	err := query.
		Order("data DESC, created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&items).Error
	return items, total, err
}

// ListActive returns the working snapshot used by material explosion and
// label matching: every item not yet scanned.
func (r *OrderRepository) ListActive(ctx context.Context) ([]entity.OrderItem, error) {
	var items []entity.OrderItem
	err := r.db.WithContext(ctx).
		Where("status <> ?", entity.StatusBipado).
		Order("data ASC, created_at ASC").
		Find(&items).Error
	return items, err
}

func (r *OrderRepository) UpdateStatus(ctx context.Context, id, status, reason string) error {
	result := r.db.WithContext(ctx).Model(&entity.OrderItem{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"status": status, "error_reason": reason})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
