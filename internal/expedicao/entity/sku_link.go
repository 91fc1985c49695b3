package entity

import (
	"strings"
	"time"
)

// SkuLink maps a marketplace-reported SKU to a master product code.
// Many imported SKUs may point at the same master product.
type SkuLink struct {
	ID          string    `json:"id" gorm:"primaryKey;size:36"`
	ImportedSKU string    `json:"imported_sku" gorm:"size:128;not null;uniqueIndex"`
	MasterSKU   string    `json:"master_sku" gorm:"size:64;not null;index"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (SkuLink) TableName() string {
	return "sku_links"
}

// LinkMap is a case-insensitive importedSku -> masterSku lookup snapshot.
type LinkMap map[string]string

func NewLinkMap(links []SkuLink) LinkMap {
	m := make(LinkMap, len(links))
	for _, l := range links {
		m[strings.ToUpper(strings.TrimSpace(l.ImportedSKU))] = strings.ToUpper(strings.TrimSpace(l.MasterSKU))
	}
	return m
}

// Resolve returns the master code for an imported SKU. An unlinked SKU
// resolves to itself, which signals "not linked" to downstream consumers.
func (m LinkMap) Resolve(sku string) string {
	key := strings.ToUpper(strings.TrimSpace(sku))
	if master, ok := m[key]; ok && master != "" {
		return master
	}
	return key
}

// Linked reports whether an imported SKU has an explicit link.
func (m LinkMap) Linked(sku string) bool {
	_, ok := m[strings.ToUpper(strings.TrimSpace(sku))]
	return ok
}
