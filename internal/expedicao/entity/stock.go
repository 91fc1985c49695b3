package entity

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Stock item kinds
const (
	KindProduto    = "PRODUTO"    // finished good
	KindProcessado = "PROCESSADO" // semi-finished, has its own BOM
	KindInsumo     = "INSUMO"     // raw material / packaging
)

// Product types (drive packaging band selection)
const (
	ProductTypeWallpaper = "papel_de_parede"
	ProductTypeMiudos    = "miudos"
)

// BOMLine is one consumption entry: qty of a stock code per produced pack.
// Used both by composite product recipes and per-unit expedition items.
type BOMLine struct {
	StockItemCode string  `json:"stock_item_code"`
	QtyPerPack    float64 `json:"qty_per_pack"`
}

// BOMLineList is stored as a JSONB column.
type BOMLineList []BOMLine

func (l BOMLineList) Value() (driver.Value, error) {
	if l == nil {
		return nil, nil
	}
	return json.Marshal(l)
}

func (l *BOMLineList) Scan(value interface{}) error {
	if value == nil {
		*l = nil
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("failed to scan BOMLineList: %v", value)
	}
	return json.Unmarshal(bytes, l)
}

// StockItem is a master catalog entry, identified by its unique code.
type StockItem struct {
	ID              string      `json:"id" gorm:"primaryKey;size:36"`
	Code            string      `json:"code" gorm:"size:64;not null;uniqueIndex"`
	Name            string      `json:"name" gorm:"size:200;not null"`
	Kind            string      `json:"kind" gorm:"size:16;not null;default:INSUMO"`
	ProductType     string      `json:"product_type" gorm:"size:32;not null;default:papel_de_parede"`
	Unit            string      `json:"unit" gorm:"size:8;not null;default:un"`
	CurrentQty      float64     `json:"current_qty" gorm:"type:decimal(12,4);default:0"`
	MinQty          float64     `json:"min_qty" gorm:"type:decimal(12,4);default:0"`
	ExpeditionItems BOMLineList `json:"expedition_items" gorm:"type:jsonb"` // extra per-pack consumption
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

func (StockItem) TableName() string {
	return "stock_items"
}

// StockReceiptItem is one <prod> node of an NFe receipt document.
type StockReceiptItem struct {
	Code     string  `json:"code"`
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
}
