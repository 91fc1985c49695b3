// Package zpl splits raw ZPL-II streams into pages, classifies them as
// shipping labels or DANFE invoices, pairs the two for combined printing and
// resolves each pair back to a known order. Everything here is deterministic:
// the same stream and order snapshot always produce the same result.
package zpl

import (
	"strings"

	"github.com/mqsfps1-maker/ecomflow/internal/expedicao/entity"
)

// EmptyPage is the minimal no-op ZPL document. It fills whichever slot of a
// pair has no real page: the invoice slot of a standalone label, or the label
// slot of an invoice that ships without one.
const EmptyPage = "^XA^XZ"

// classRule is one entry of the ordered classification table, evaluated top
// to bottom. Label rules come first: a page carrying both a label marker and
// invoice text is a label.
type classRule struct {
	match func(upper string) bool
	kind  string
}

func contains(token string) func(string) bool {
	return func(upper string) bool { return strings.Contains(upper, token) }
}

var classRules = []classRule{
	// carrier / marketplace label markers
	{contains("MERCADO ENVIOS"), entity.PageLabel},
	{contains("PACK ID:"), entity.PageLabel},
	{contains("SHOPEE XPRESS"), entity.PageLabel},
	{contains("CODIGO DE RASTREIO"), entity.PageLabel},
	{contains("SIGEP WEB"), entity.PageLabel},
	{contains("KANGU"), entity.PageLabel},
	{contains("TOTAL EXPRESS"), entity.PageLabel},
	// graphic recall: labels re-print a downloaded carrier logo
	{contains("^XG"), entity.PageLabel},
	// inline logo graphic combined with a barcode is also a label
	{func(u string) bool { return strings.Contains(u, "^GFA") && strings.Contains(u, "^BC") }, entity.PageLabel},
	// invoice markers
	{contains("DANFE SIMPLIFICADO"), entity.PageDanfe},
	{contains("CHAVE DE ACESSO"), entity.PageDanfe},
}

// Classify is a pure, order-independent page classification.
func Classify(raw string) string {
	upper := strings.ToUpper(raw)
	for _, rule := range classRules {
		if rule.match(upper) {
			return rule.kind
		}
	}
	return entity.PageOther
}

// SplitPages cuts a raw ZPL stream into standalone ^XA...^XZ pages. A ~DG
// graphic-download directive preceding a page that recalls it via ^XG is
// attached to that page so the pair travels to the printer together.
func SplitPages(raw string) []entity.ZplPage {
	var pages []entity.ZplPage
	rest := raw
	for {
		start := strings.Index(rest, "^XA")
		if start < 0 {
			break
		}
		end := strings.Index(rest[start:], "^XZ")
		if end < 0 {
			break
		}
		end += start + len("^XZ")

		body := rest[start:end]
		prefix := rest[:start]
		if idx := strings.Index(prefix, "~DG"); idx >= 0 && strings.Contains(body, "^XG") {
			body = strings.TrimSpace(prefix[idx:]) + "\n" + body
		}

		pages = append(pages, entity.ZplPage{Raw: body, Kind: Classify(body)})
		rest = rest[end:]
	}
	return pages
}
