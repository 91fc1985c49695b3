package entity

// ZPL page kinds
const (
	PageLabel = "label"
	PageDanfe = "danfe"
	PageOther = "other"
)

// ZplPage is one standalone ^XA...^XZ block of a raw ZPL stream, with any
// preceding ~DG graphic-download directives attached.
type ZplPage struct {
	Raw  string `json:"raw"`
	Kind string `json:"kind"`
}

// ZplPair associates one invoice document (a danfe page plus any absorbed
// continuation pages, or a synthetic empty page) with exactly one label page.
type ZplPair struct {
	InvoicePages []ZplPage `json:"invoice_pages"`
	Label        ZplPage   `json:"label"`
	Synthetic    bool      `json:"synthetic"` // invoice slot is the empty ^XA^XZ placeholder
}

// InvoiceText returns the merged raw text of the invoice document, the unit
// the field extractor operates on.
func (p *ZplPair) InvoiceText() string {
	var s string
	for _, pg := range p.InvoicePages {
		s += pg.Raw
	}
	return s
}

// SkuQty is one extracted SKU/quantity token pair.
type SkuQty struct {
	SKU string  `json:"sku"`
	Qty float64 `json:"qty"`
}

// ExtractedZplData is the per-pair identity resolution result. Ephemeral:
// produced and consumed in-memory during one processing run.
type ExtractedZplData struct {
	OrderID              string   `json:"order_id,omitempty"`
	SKUs                 []SkuQty `json:"skus"`
	HasDanfe             bool     `json:"has_danfe"`
	IsMercadoLivre       bool     `json:"is_mercado_livre,omitempty"`
	ContainsDanfeInLabel bool     `json:"contains_danfe_in_label,omitempty"`
}

// PatternSet holds the configurable extraction regexes. SKU and Quantity
// patterns are applied pairwise; OrderID is matched independently.
type PatternSet struct {
	SKU      []string `json:"sku"`
	Quantity []string `json:"quantity"`
	OrderID  []string `json:"order_id"`
}
