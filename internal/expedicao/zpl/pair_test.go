package zpl

import (
	"testing"

	"github.com/mqsfps1-maker/ecomflow/internal/expedicao/entity"
)

func page(raw, kind string) entity.ZplPage {
	return entity.ZplPage{Raw: raw, Kind: kind}
}

func TestPairDanfeAbsorbsContinuation(t *testing.T) {
	pages := []entity.ZplPage{
		page("^XA^FDDANFE SIMPLIFICADO^FS^XZ", entity.PageDanfe),
		page("^XA^FDcontinuacao^FS^XZ", entity.PageOther),
		page("^XA^FDMercado Envios^FS^XZ", entity.PageLabel),
	}
	pairs := Pair(pages)
	if len(pairs) != 1 {
		t.Fatalf("esperado 1 par, obteve %d", len(pairs))
	}
	p := pairs[0]
	if len(p.InvoicePages) != 2 {
		t.Errorf("nota deveria absorver a continuacao: %d paginas", len(p.InvoicePages))
	}
	if p.Label.Kind != entity.PageLabel {
		t.Errorf("label kind = %s", p.Label.Kind)
	}
	if p.Synthetic {
		t.Error("par com danfe real marcado como sintetico")
	}
	visual := VisualPages(pairs)
	if len(visual) != 2 {
		t.Fatalf("esperado 2 paginas visuais, obteve %d", len(visual))
	}
}

func TestPairStandaloneLabelGetsSyntheticInvoice(t *testing.T) {
	pairs := Pair([]entity.ZplPage{page("^XA^FDShopee Xpress^FS^XZ", entity.PageLabel)})
	if len(pairs) != 1 {
		t.Fatalf("esperado 1 par, obteve %d", len(pairs))
	}
	if !pairs[0].Synthetic {
		t.Error("par de etiqueta avulsa deveria ser sintetico")
	}
	if pairs[0].InvoiceText() != EmptyPage {
		t.Errorf("nota sintetica = %q", pairs[0].InvoiceText())
	}
}

func TestPairDanfeWithoutLabel(t *testing.T) {
	pairs := Pair([]entity.ZplPage{page("^XA^FDDANFE SIMPLIFICADO^FS^XZ", entity.PageDanfe)})
	if len(pairs) != 1 {
		t.Fatalf("esperado 1 par, obteve %d", len(pairs))
	}
	if pairs[0].Synthetic {
		t.Error("danfe sem etiqueta nao e um par sintetico")
	}
	if pairs[0].Label.Raw != EmptyPage {
		t.Errorf("slot de etiqueta = %q", pairs[0].Label.Raw)
	}
}

func TestPairDropsOrphanContinuation(t *testing.T) {
	pairs := Pair([]entity.ZplPage{
		page("^XA^FDsolta^FS^XZ", entity.PageOther),
		page("^XA^FDMercado Envios^FS^XZ", entity.PageLabel),
	})
	if len(pairs) != 1 {
		t.Fatalf("esperado 1 par, obteve %d", len(pairs))
	}
	if !pairs[0].Synthetic {
		t.Error("continuacao orfa nao deveria virar nota da etiqueta seguinte")
	}
}

func TestResolveMercadoLivreFromInvoice(t *testing.T) {
	pair := entity.ZplPair{
		InvoicePages: []entity.ZplPage{page("^XA^FDSKU-A X2 - Papel - 3UN^FS^FDPedido: 2000001111^FS^XZ", entity.PageDanfe)},
		Label:        page("^XA^FDMercado Envios^FS^XZ", entity.PageLabel),
	}
	pats := entity.PatternSet{OrderID: []string{`Pedido: (\d+)`}}
	data := Resolve(pair, nil, pats)
	if !data.IsMercadoLivre {
		t.Error("etiqueta Mercado Envios nao reconhecida como ML")
	}
	if !data.HasDanfe {
		t.Error("HasDanfe deveria ser true")
	}
	if len(data.SKUs) != 1 {
		t.Fatalf("esperado 1 sku, obteve %d", len(data.SKUs))
	}
	// the X2 pack multiplier corrects the sold quantity
	if data.SKUs[0].SKU != "SKU-A X2" || data.SKUs[0].Qty != 6 {
		t.Errorf("sku extraido = %+v", data.SKUs[0])
	}
	if data.OrderID != "2000001111" {
		t.Errorf("orderId = %q", data.OrderID)
	}
}

func TestResolveMercadoLivreByPackID(t *testing.T) {
	orders := []entity.OrderItem{
		{OrderID: "2000005555", SKU: "SKU-B", QtyFinal: 4},
		{OrderID: "2000005555", SKU: "SKU-C", QtyFinal: 1},
	}
	pair := entity.ZplPair{
		InvoicePages: []entity.ZplPage{page(EmptyPage, entity.PageOther)},
		Label:        page("^XA^FDPack ID: 2000005555^FS^XZ", entity.PageLabel),
		Synthetic:    true,
	}
	data := Resolve(pair, orders, entity.PatternSet{})
	if data.HasDanfe {
		t.Error("par sintetico marcado com danfe")
	}
	if data.OrderID != "2000005555" {
		t.Errorf("orderId = %q", data.OrderID)
	}
	if len(data.SKUs) != 2 {
		t.Fatalf("esperado 2 linhas do pedido, obteve %d", len(data.SKUs))
	}
	if data.SKUs[0].SKU != "SKU-B" || data.SKUs[0].Qty != 4 {
		t.Errorf("linha adotada = %+v", data.SKUs[0])
	}
}

func TestResolveByOrderIDFromLabel(t *testing.T) {
	orders := []entity.OrderItem{{OrderID: "PED-77", SKU: "SKU-D", QtyFinal: 2}}
	pair := entity.ZplPair{
		InvoicePages: []entity.ZplPage{page("^XA^FDDANFE SIMPLIFICADO^FS^XZ", entity.PageDanfe)},
		Label:        page("^XA^FDShopee Xpress^FS^FDPedido: PED-77^FS^XZ", entity.PageLabel),
	}
	pats := entity.PatternSet{OrderID: []string{`Pedido: (PED-\d+)`}}
	data := Resolve(pair, orders, pats)
	if data.IsMercadoLivre {
		t.Error("etiqueta Shopee classificada como ML")
	}
	if data.OrderID != "PED-77" {
		t.Errorf("orderId = %q", data.OrderID)
	}
	if len(data.SKUs) != 1 || data.SKUs[0].SKU != "SKU-D" || data.SKUs[0].Qty != 2 {
		t.Errorf("linhas adotadas = %+v", data.SKUs)
	}
}

func TestResolveFallsBackToInvoiceExtraction(t *testing.T) {
	pair := entity.ZplPair{
		InvoicePages: []entity.ZplPage{page("^XA^FDSKU-E - Painel - 1UN^FS^XZ", entity.PageDanfe)},
		Label:        page("^XA^FDShopee Xpress^FS^XZ", entity.PageLabel),
	}
	data := Resolve(pair, nil, entity.PatternSet{})
	if len(data.SKUs) != 1 || data.SKUs[0].SKU != "SKU-E" {
		t.Errorf("extracao direta falhou: %+v", data.SKUs)
	}
}
