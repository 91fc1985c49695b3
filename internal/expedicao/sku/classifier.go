// Package sku derives pack multipliers and color labels from raw marketplace
// SKU strings. Both functions are pure and deterministic; marketplace SKUs
// carry no schema, so everything here is prioritized pattern matching.
package sku

import (
	"regexp"
	"strconv"
	"strings"
)

// multiplierPatterns are tried in order; the first family that matches wins.
// A match only overrides the default of 1 when the parsed integer is > 1.
var multiplierPatterns = []*regexp.Regexp{
	regexp.MustCompile(`X(\d+)UNIDADES?`),       // glued "X3UNIDADES"
	regexp.MustCompile(`X\s+(\d+)\s+UNIDADES?`), // spaced "X 2 UNIDADES"
	regexp.MustCompile(`COM\s*(\d+)\s*UNIDADES?`),
	regexp.MustCompile(`(\d+)\s*UNIDADES?`),
	regexp.MustCompile(`X(\d+)\b`),
	regexp.MustCompile(`\b(\d+)X\b`),
}

// lengthMultipliers maps roll-length hints to pack multipliers: a 10 metre
// roll ships as 2 standard packs, a 15 metre roll as 3.
var lengthMultipliers = []struct {
	pattern *regexp.Regexp
	mult    int
}{
	{regexp.MustCompile(`10\s*METROS?`), 2},
	{regexp.MustCompile(`15\s*METROS?`), 3},
}

// Multiplicador scans a raw SKU for pack-size hints and returns the inferred
// number of physical units per sold line. No hint yields 1.
func Multiplicador(sku string) int {
	s := strings.ToUpper(strings.TrimSpace(sku))
	if s == "" {
		return 1
	}

	for _, re := range multiplierPatterns {
		m := re.FindStringSubmatch(s)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err == nil && n > 1 {
			return n
		}
		// matched but n <= 1: the family consumed the hint, default stands
		return 1
	}

	for _, lm := range lengthMultipliers {
		if lm.pattern.MatchString(s) {
			return lm.mult
		}
	}

	return 1
}

// colorRules is an explicit ordered table evaluated top to bottom. Specific
// multi-word colors must come before their generic prefixes ("AZUL MARINHO"
// before "AZUL"), so ordering here is load-bearing.
var colorRules = []struct {
	keyword string
	label   string
}{
	{"AZUL MARINHO", "Azul Marinho"},
	{"AZUL CLARO", "Azul Claro"},
	{"VERDE MUSGO", "Verde Musgo"},
	{"VERDE AGUA", "Verde Água"},
	{"CINZA ESCURO", "Cinza Escuro"},
	{"CINZA CLARO", "Cinza Claro"},
	{"ROSA BEBE", "Rosa Bebê"},
	{"OFF WHITE", "Off White"},
	{"BRANCO", "Branco"},
	{"PRETO", "Preto"},
	{"AZUL", "Azul"},
	{"VERDE", "Verde"},
	{"CINZA", "Cinza"},
	{"ROSA", "Rosa"},
	{"VERMELHO", "Vermelho"},
	{"AMARELO", "Amarelo"},
	{"BEGE", "Bege"},
	{"MARROM", "Marrom"},
	{"DOURADO", "Dourado"},
	{"PRATA", "Prata"},
	{"MADEIRA", "Madeira"},
	{"ROXO", "Roxo"},
	{"LILAS", "Lilás"},
	{"LARANJA", "Laranja"},
}

// ClassificarCor returns the first color keyword found in the SKU, title
// cased, or "Diversos" when none matches. Comparison ignores spacing so
// "AZULMARINHO" and "AZUL MARINHO" classify alike.
func ClassificarCor(sku string) string {
	s := strings.ToUpper(sku)
	compact := strings.ReplaceAll(s, " ", "")
	for _, rule := range colorRules {
		if strings.Contains(s, rule.keyword) ||
			strings.Contains(compact, strings.ReplaceAll(rule.keyword, " ", "")) {
			return rule.label
		}
	}
	return "Diversos"
}
