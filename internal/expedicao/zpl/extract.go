package zpl

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/mqsfps1-maker/ecomflow/internal/expedicao/entity"
)

// fdQtyUN recognizes the trailing "<qty>UN" token of a product text field;
// quantity supports a comma decimal.
var fdQtyUN = regexp.MustCompile(`^([0-9]+(?:[.,][0-9]+)?)\s*UN\.?$`)

// ExtractSkus pulls SKU/quantity pairs out of one page's raw text.
//
// It first runs a domain token scan: the page is split on field separators,
// and ^FD payloads shaped like "SKU - ... - <qty>UN" are parsed directly.
// Only when that yields nothing do the configured regex patterns apply,
// paired sku[i] with qty[i] up to the shorter match count. Pattern failures
// degrade to empty results, never an error.
func ExtractSkus(text string, pats entity.PatternSet) []entity.SkuQty {
	if skus := scanFieldTokens(text); len(skus) > 0 {
		return skus
	}
	return applyPatterns(text, pats)
}

func scanFieldTokens(text string) []entity.SkuQty {
	var out []entity.SkuQty
	for _, segment := range strings.Split(text, "^FS") {
		idx := strings.Index(segment, "^FD")
		if idx < 0 {
			continue
		}
		payload := segment[idx+len("^FD"):]
		if caret := strings.Index(payload, "^"); caret >= 0 {
			payload = payload[:caret]
		}
		payload = strings.TrimSpace(payload)
		if !strings.Contains(strings.ToUpper(payload), "UN") {
			continue
		}

		parts := strings.Split(payload, " - ")
		if len(parts) < 2 {
			continue
		}
		m := fdQtyUN.FindStringSubmatch(strings.TrimSpace(strings.ToUpper(parts[len(parts)-1])))
		if m == nil {
			continue
		}
		qty, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", "."), 64)
		if err != nil || qty <= 0 {
			continue
		}
		skuName := strings.ToUpper(strings.TrimSpace(parts[0]))
		if skuName == "" {
			continue
		}
		out = append(out, entity.SkuQty{SKU: skuName, Qty: qty})
	}
	return out
}

func applyPatterns(text string, pats entity.PatternSet) []entity.SkuQty {
	skus := collectMatches(text, pats.SKU)
	qtys := collectMatches(text, pats.Quantity)

	n := len(skus)
	if len(qtys) < n {
		n = len(qtys)
	}
	var out []entity.SkuQty
	for i := 0; i < n; i++ {
		qty, err := strconv.ParseFloat(strings.ReplaceAll(qtys[i], ",", "."), 64)
		if err != nil || qty <= 0 {
			continue
		}
		out = append(out, entity.SkuQty{SKU: strings.ToUpper(strings.TrimSpace(skus[i])), Qty: qty})
	}
	return out
}

// ExtractOrderID applies the configured order-id patterns independently of
// the SKU scan; the first capture wins.
func ExtractOrderID(text string, pats entity.PatternSet) string {
	for _, pattern := range pats.OrderID {
		re, err := regexp.Compile(pattern)
		if err != nil {
			continue
		}
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		if len(m) > 1 && m[1] != "" {
			return strings.ToUpper(strings.TrimSpace(m[1]))
		}
		if m[0] != "" {
			return strings.ToUpper(strings.TrimSpace(m[0]))
		}
	}
	return ""
}

// collectMatches gathers the first capture group (or whole match) of every
// occurrence of every pattern, in pattern order. Invalid patterns are
// skipped.
func collectMatches(text string, patterns []string) []string {
	var out []string
	for _, pattern := range patterns {
		re, err := regexp.Compile(pattern)
		if err != nil {
			continue
		}
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			if len(m) > 1 {
				out = append(out, m[1])
			} else {
				out = append(out, m[0])
			}
		}
	}
	return out
}
