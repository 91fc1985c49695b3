package entity

// MaterialItem is one aggregated material requirement, keyed by stock code
// and displayed by name.
type MaterialItem struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
}

// PackagingBand selects packaging material by the total unit count of one
// physical package: a band matches when From <= units <= To. The first
// matching band wins.
type PackagingBand struct {
	From          int     `json:"from"`
	To            int     `json:"to"`
	StockItemCode string  `json:"stock_item_code"`
	QtyPerPackage float64 `json:"qty_per_package"`
}

// Summary splits the imported demand by base color class and product type.
type Summary struct {
	White   int `json:"white"`
	Black   int `json:"black"`
	Special int `json:"special"`
	Miudos  int `json:"miudos"`
}
