package entity

import (
	"strings"
	"time"
)

// Sales channels
const (
	CanalML     = "ML"
	CanalShopee = "SHOPEE"
	CanalSite   = "SITE"
)

// Order item status
const (
	StatusNormal = "NORMAL"
	StatusErro   = "ERRO"
	StatusBipado = "BIPADO" // already scanned/fulfilled (imported history)
)

// OrderItem is one line of a customer order in canonical form. Every importer
// (spreadsheet, NFe XML) normalizes into this shape.
type OrderItem struct {
	ID                string  `json:"id" gorm:"primaryKey;size:36"`
	OrderID           string  `json:"order_id" gorm:"size:64;not null;index:idx_order_items_key"`
	Tracking          string  `json:"tracking" gorm:"size:64;index"`
	SKU               string  `json:"sku" gorm:"size:128;not null;index:idx_order_items_key"`
	QtyOriginal       float64 `json:"qty_original" gorm:"type:decimal(12,4);not null"`
	Multiplicador     int     `json:"multiplicador" gorm:"not null;default:1"`
	QtyFinal          int     `json:"qty_final" gorm:"not null"`
	Color             string  `json:"color" gorm:"size:64"`
	Canal             string  `json:"canal" gorm:"size:16;not null"`
	Data              string  `json:"data" gorm:"size:10"` // YYYY-MM-DD
	DataPrevistaEnvio string  `json:"data_prevista_envio" gorm:"size:10"`
	Status            string  `json:"status" gorm:"size:16;not null;default:NORMAL"`
	ErrorReason       string  `json:"error_reason" gorm:"size:256"`
	CustomerName      string  `json:"customer_name" gorm:"size:200"`
	CustomerCpfCnpj   string  `json:"customer_cpf_cnpj" gorm:"size:20"`

	PriceTotal             float64 `json:"price_total" gorm:"type:decimal(12,2);default:0"`
	PriceGross             float64 `json:"price_gross" gorm:"type:decimal(12,2);default:0"`
	PriceNet               float64 `json:"price_net" gorm:"type:decimal(12,2);default:0"`
	PlatformFees           float64 `json:"platform_fees" gorm:"type:decimal(12,2);default:0"`
	ShippingFee            float64 `json:"shipping_fee" gorm:"type:decimal(12,2);default:0"`
	ShippingPaidByCustomer float64 `json:"shipping_paid_by_customer" gorm:"type:decimal(12,2);default:0"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (OrderItem) TableName() string {
	return "order_items"
}

// Key is the reconciliation identity: (orderId, sku), case-insensitive.
func (o *OrderItem) Key() string {
	return OrderKey(o.OrderID, o.SKU)
}

func OrderKey(orderID, sku string) string {
	return strings.ToUpper(strings.TrimSpace(orderID)) + "\x00" + strings.ToUpper(strings.TrimSpace(sku))
}

// MergeFinancial copies the financial fields of a freshly imported record onto
// an existing one. Non-financial fields of the existing record are preserved.
func (o *OrderItem) MergeFinancial(imported *OrderItem) {
	o.PriceTotal = imported.PriceTotal
	o.PriceGross = imported.PriceGross
	o.PriceNet = imported.PriceNet
	o.PlatformFees = imported.PlatformFees
	o.ShippingFee = imported.ShippingFee
	o.ShippingPaidByCustomer = imported.ShippingPaidByCustomer
}
