package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/mqsfps1-maker/ecomflow/internal/expedicao/entity"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SettingsRepository struct {
	db *gorm.DB
}

func NewSettingsRepository(db *gorm.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

func (r *SettingsRepository) Get(ctx context.Context, key string) (*entity.SystemConfig, error) {
	var config entity.SystemConfig
	err := r.db.WithContext(ctx).Where("key = ?", key).First(&config).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &config, nil
}

// Set upserts one settings key.
func (r *SettingsRepository) Set(ctx context.Context, key string, value entity.JSONB) error {
	config := entity.SystemConfig{
		ID:        uuid.New().String(),
		Key:       key,
		Value:     value,
		UpdatedAt: time.Now(),
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&config).Error
}
