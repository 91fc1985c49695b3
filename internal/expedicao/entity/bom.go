package entity

import (
	"strings"
	"time"
)

// CompositeProduct is the BOM of one product: the recipe of stock items
// consumed to produce one pack of ProductSKU. Lines whose target is a
// PROCESSADO stock item form a DAG of sub-assemblies.
type CompositeProduct struct {
	ID         string      `json:"id" gorm:"primaryKey;size:36"`
	ProductSKU string      `json:"product_sku" gorm:"size:64;not null;uniqueIndex"`
	Items      BOMLineList `json:"items" gorm:"type:jsonb;not null"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
}

func (CompositeProduct) TableName() string {
	return "composite_products"
}

// BOMMap is a productSku -> recipe adjacency snapshot for explosion.
type BOMMap map[string][]BOMLine

func NewBOMMap(products []CompositeProduct) BOMMap {
	m := make(BOMMap, len(products))
	for _, p := range products {
		m[strings.ToUpper(strings.TrimSpace(p.ProductSKU))] = p.Items
	}
	return m
}

func (m BOMMap) Lines(productSKU string) []BOMLine {
	return m[strings.ToUpper(strings.TrimSpace(productSKU))]
}
