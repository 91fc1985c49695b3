package zpl

import (
	"testing"

	"github.com/mqsfps1-maker/ecomflow/internal/expedicao/entity"
)

func TestExtractSkusFieldTokens(t *testing.T) {
	text := "^XA" +
		"^FDPAREDE-AZUL X2 - Papel de Parede - 2UN^FS" +
		"^FDKIT-BANHEIRO - Adesivo - 1,5UN^FS" +
		"^FDtexto sem formato^FS" +
		"^XZ"
	skus := ExtractSkus(text, entity.PatternSet{})
	if len(skus) != 2 {
		t.Fatalf("esperado 2 skus, obteve %d: %+v", len(skus), skus)
	}
	if skus[0].SKU != "PAREDE-AZUL X2" || skus[0].Qty != 2 {
		t.Errorf("sku 0 = %+v", skus[0])
	}
	if skus[1].SKU != "KIT-BANHEIRO" || skus[1].Qty != 1.5 {
		t.Errorf("sku 1 = %+v", skus[1])
	}
}

func TestExtractSkusPatternFallback(t *testing.T) {
	text := "SKU: ABC-1 QTD: 3 SKU: DEF-2 QTD: 5"
	pats := entity.PatternSet{
		SKU:      []string{`SKU: ([A-Z0-9-]+)`},
		Quantity: []string{`QTD: (\d+)`},
	}
	skus := ExtractSkus(text, pats)
	if len(skus) != 2 {
		t.Fatalf("esperado 2 skus, obteve %d", len(skus))
	}
	if skus[0].SKU != "ABC-1" || skus[0].Qty != 3 {
		t.Errorf("sku 0 = %+v", skus[0])
	}
	if skus[1].SKU != "DEF-2" || skus[1].Qty != 5 {
		t.Errorf("sku 1 = %+v", skus[1])
	}
}

func TestExtractSkusTokenScanWinsOverPatterns(t *testing.T) {
	text := "^FDREAL-SKU - Produto - 2UN^FS SKU: FANTASMA QTD: 9"
	pats := entity.PatternSet{
		SKU:      []string{`SKU: ([A-Z]+)`},
		Quantity: []string{`QTD: (\d+)`},
	}
	skus := ExtractSkus(text, pats)
	if len(skus) != 1 || skus[0].SKU != "REAL-SKU" {
		t.Errorf("varredura de tokens deveria ter prioridade: %+v", skus)
	}
}

func TestExtractSkusInvalidPatternIsSkipped(t *testing.T) {
	pats := entity.PatternSet{
		SKU:      []string{`([`, `SKU: (\w+)`},
		Quantity: []string{`QTD: (\d+)`},
	}
	skus := ExtractSkus("SKU: OK QTD: 1", pats)
	if len(skus) != 1 || skus[0].SKU != "OK" {
		t.Errorf("padrao invalido deveria ser ignorado: %+v", skus)
	}
}

func TestExtractOrderID(t *testing.T) {
	pats := entity.PatternSet{OrderID: []string{`Pedido:\s*(\d+)`, `Venda (\w+)`}}
	if got := ExtractOrderID("nota Pedido: 12345 fim", pats); got != "12345" {
		t.Errorf("primeiro padrao: %q", got)
	}
	if got := ExtractOrderID("nota Venda abc99 fim", pats); got != "ABC99" {
		t.Errorf("segundo padrao, normalizado: %q", got)
	}
	if got := ExtractOrderID("nada aqui", pats); got != "" {
		t.Errorf("sem casamento deveria ser vazio: %q", got)
	}
}
