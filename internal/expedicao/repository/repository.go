package repository

import (
	"errors"

	"gorm.io/gorm"
)

var (
	ErrNotFound = errors.New("record not found")
)

// Repositories groups the expedition module's data access.
type Repositories struct {
	Order    *OrderRepository
	Catalog  *CatalogRepository
	Print    *PrintRepository
	Settings *SettingsRepository
}

func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Order:    NewOrderRepository(db),
		Catalog:  NewCatalogRepository(db),
		Print:    NewPrintRepository(db),
		Settings: NewSettingsRepository(db),
	}
}
