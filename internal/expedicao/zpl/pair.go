package zpl

import (
	"regexp"
	"strings"

	"github.com/mqsfps1-maker/ecomflow/internal/expedicao/entity"
	"github.com/mqsfps1-maker/ecomflow/internal/expedicao/sku"
)

// Pair sweeps the classified page sequence left to right. A danfe page
// absorbs the immediately-following continuation pages into one invoice
// document, then takes the next label page as its partner; a standalone
// label pairs with the synthetic empty invoice; orphan continuation pages
// are dropped. Relative page order is preserved.
func Pair(pages []entity.ZplPage) []entity.ZplPair {
	var pairs []entity.ZplPair
	i := 0
	for i < len(pages) {
		switch pages[i].Kind {
		case entity.PageDanfe:
			invoice := []entity.ZplPage{pages[i]}
			i++
			for i < len(pages) && pages[i].Kind == entity.PageOther {
				invoice = append(invoice, pages[i])
				i++
			}
			pair := entity.ZplPair{InvoicePages: invoice}
			if i < len(pages) && pages[i].Kind == entity.PageLabel {
				pair.Label = pages[i]
				i++
			} else {
				// invoice without a label still prints on its own slot
				pair.Label = entity.ZplPage{Raw: EmptyPage, Kind: entity.PageOther}
			}
			pairs = append(pairs, pair)

		case entity.PageLabel:
			pairs = append(pairs, entity.ZplPair{
				InvoicePages: []entity.ZplPage{{Raw: EmptyPage, Kind: entity.PageOther}},
				Label:        pages[i],
				Synthetic:    true,
			})
			i++

		default:
			// continuation page with no adjacent danfe
			i++
		}
	}
	return pairs
}

// VisualPages flattens pairs into the final page stream: one invoice slot
// and one label slot per pair, in order.
func VisualPages(pairs []entity.ZplPair) []string {
	out := make([]string, 0, len(pairs)*2)
	for _, p := range pairs {
		out = append(out, p.InvoiceText(), p.Label.Raw)
	}
	return out
}

var (
	packIDRe  = regexp.MustCompile(`PACK ID:\s*([0-9]{8,})`)
	barcodeRe = regexp.MustCompile(`\^FD>?[:;]?([0-9A-Z-]{10,})`)
)

// Resolve determines the order identity of one pair.
//
// Mercado Livre labels prefer the absorbed invoice text: when it yields at
// least one SKU that extraction wins. Otherwise a long identifier is pulled
// from the label (pack id, else barcode field) and matched against the order
// snapshot; only an unambiguous match is adopted. Other carriers go by
// order id, label first then invoice, with a direct-extraction fallback.
func Resolve(pair entity.ZplPair, orders []entity.OrderItem, pats entity.PatternSet) entity.ExtractedZplData {
	labelUpper := strings.ToUpper(pair.Label.Raw)
	invoiceText := pair.InvoiceText()

	data := entity.ExtractedZplData{
		HasDanfe:             !pair.Synthetic,
		IsMercadoLivre:       strings.Contains(labelUpper, "MERCADO ENVIOS") || strings.Contains(labelUpper, "PACK ID:"),
		ContainsDanfeInLabel: strings.Contains(labelUpper, "DANFE SIMPLIFICADO") || strings.Contains(labelUpper, "CHAVE DE ACESSO"),
	}

	if data.IsMercadoLivre {
		if skus := ExtractSkus(invoiceText, pats); len(skus) > 0 {
			data.SKUs = applyMultiplier(skus)
			data.OrderID = ExtractOrderID(invoiceText, pats)
			return data
		}
		if id := mlIdentifier(pair.Label.Raw); id != "" {
			if matches := MatchOrders(orders, id); len(matches) > 0 {
				data.OrderID = matches[0].OrderID
				data.SKUs = adoptOrderLines(matches)
			}
		}
		return data
	}

	orderID := ExtractOrderID(pair.Label.Raw, pats)
	if orderID == "" {
		orderID = ExtractOrderID(invoiceText, pats)
	}
	if orderID != "" {
		var matches []entity.OrderItem
		for _, o := range orders {
			if strings.EqualFold(strings.TrimSpace(o.OrderID), orderID) {
				matches = append(matches, o)
			}
		}
		if len(matches) > 0 {
			data.OrderID = orderID
			data.SKUs = adoptOrderLines(matches)
			return data
		}
	}

	data.OrderID = orderID
	data.SKUs = applyMultiplier(ExtractSkus(invoiceText, pats))
	return data
}

// mlIdentifier extracts the long numeric/alphanumeric identifier of a
// Mercado Livre label: the pack id when printed, else a barcode field.
func mlIdentifier(label string) string {
	upper := strings.ToUpper(label)
	if m := packIDRe.FindStringSubmatch(upper); m != nil {
		return m[1]
	}
	if m := barcodeRe.FindStringSubmatch(upper); m != nil {
		return m[1]
	}
	return ""
}

// applyMultiplier corrects extracted quantities by the SKU pack multiplier:
// the invoice prints sold lines, production counts physical units.
func applyMultiplier(skus []entity.SkuQty) []entity.SkuQty {
	out := make([]entity.SkuQty, 0, len(skus))
	for _, s := range skus {
		out = append(out, entity.SkuQty{
			SKU: s.SKU,
			Qty: s.Qty * float64(sku.Multiplicador(s.SKU)),
		})
	}
	return out
}

func adoptOrderLines(orders []entity.OrderItem) []entity.SkuQty {
	out := make([]entity.SkuQty, 0, len(orders))
	for _, o := range orders {
		out = append(out, entity.SkuQty{SKU: o.SKU, Qty: float64(o.QtyFinal)})
	}
	return out
}
