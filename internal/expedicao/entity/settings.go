package entity

import "time"

// Settings keys stored in system_configs.
const (
	SettingChannelMappings  = "import.channel_mappings"
	SettingZplPatterns      = "zpl.patterns"
	SettingPackagingBands   = "materials.packaging_bands"
	SettingBaseColorClasses = "materials.base_color_classes"
)

// SystemConfig is a JSON key/value settings row.
type SystemConfig struct {
	ID        string    `json:"id" gorm:"primaryKey;size:36"`
	Key       string    `json:"key" gorm:"size:64;not null;uniqueIndex"`
	Value     JSONB     `json:"value" gorm:"type:jsonb;not null"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (SystemConfig) TableName() string {
	return "system_configs"
}

// ColumnMapping names the spreadsheet columns of one sales channel export.
// Fees columns are summed into platform fees.
type ColumnMapping struct {
	OrderID                string   `json:"order_id"`
	SKU                    string   `json:"sku"`
	Qty                    string   `json:"qty"`
	Date                   string   `json:"date"`
	ShippingDate           string   `json:"shipping_date"`
	Tracking               string   `json:"tracking"`
	CustomerName           string   `json:"customer_name"`
	CustomerCpf            string   `json:"customer_cpf"`
	Fees                   []string `json:"fees"`
	ShippingFee            string   `json:"shipping_fee"`
	ShippingPaidByCustomer string   `json:"shipping_paid_by_customer"`
	TotalValue             string   `json:"total_value"`
	PriceGross             string   `json:"price_gross"`
	StatusColumn           string   `json:"status_column"`
	AcceptedStatusValues   []string `json:"accepted_status_values"`
}

// ChannelMapping is the per-channel import configuration: which channel the
// mapping emits, how many preamble rows precede the header, and the columns.
type ChannelMapping struct {
	Canal        string        `json:"canal"`
	HeaderOffset int           `json:"header_offset"`
	Columns      ColumnMapping `json:"columns"`
}

// PackagingRules holds both band tables, selected by package content type.
type PackagingRules struct {
	Wallpaper []PackagingBand `json:"wallpaper"`
	Miudos    []PackagingBand `json:"miudos"`
}
