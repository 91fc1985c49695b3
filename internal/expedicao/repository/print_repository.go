package repository

import (
	"context"
	"time"

	"github.com/mqsfps1-maker/ecomflow/internal/expedicao/entity"
	"gorm.io/gorm"
)

type PrintRepository struct {
	db *gorm.DB
}

func NewPrintRepository(db *gorm.DB) *PrintRepository {
	return &PrintRepository{db: db}
}

func (r *PrintRepository) Create(ctx context.Context, record *entity.PrintRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

// ExistingHashes returns which of the given content hashes were already
// printed. Drives the reprint flag shown to the operator.
func (r *PrintRepository) ExistingHashes(ctx context.Context, hashes []string) (map[string]bool, error) {
	existing := make(map[string]bool)
	if len(hashes) == 0 {
		return existing, nil
	}
	var stored []string
	err := r.db.WithContext(ctx).Model(&entity.PrintRecord{}).
		Where("content_hash IN ?", hashes).
		Distinct().
		Pluck("content_hash", &stored).Error
	if err != nil {
		return nil, err
	}
	for _, h := range stored {
		existing[h] = true
	}
	return existing, nil
}

func (r *PrintRepository) List(ctx context.Context, page, pageSize int) ([]entity.PrintRecord, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 500 {
		pageSize = 50
	}

	query := r.db.WithContext(ctx).Model(&entity.PrintRecord{})
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var records []entity.PrintRecord
	err := query.
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&records).Error
	return records, total, err
}

// PurgeOlderThan removes history past the retention window. Returns the
// number of rows removed.
func (r *PrintRepository) PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("created_at < ?", cutoff).
		Delete(&entity.PrintRecord{})
	return result.RowsAffected, result.Error
}
