package importer

import (
	"archive/zip"
	"bytes"
	"errors"
	"testing"

	"github.com/mqsfps1-maker/ecomflow/internal/expedicao/entity"
)

const salesNFe = `<?xml version="1.0" encoding="UTF-8"?>
<nfeProc xmlns="http://www.portalfiscal.inf.br/nfe">
  <NFe>
    <infNFe>
      <ide><nNF>123</nNF><dhEmi>2024-03-15T10:22:33-03:00</dhEmi></ide>
      <dest><xNome>Maria Silva</xNome><CPF>12345678900</CPF></dest>
      <det nItem="1">
        <prod><cProd>SKU1</cProd><xProd>Papel adesivo</xProd><qCom>2.0000</qCom><uCom>UN</uCom><vProd>50.00</vProd></prod>
      </det>
    </infNFe>
  </NFe>
</nfeProc>`

func TestParseSalesXML(t *testing.T) {
	orders := ParseSalesXML([]byte(salesNFe))
	if len(orders) != 1 {
		t.Fatalf("got %d orders, want 1", len(orders))
	}
	o := orders[0]
	if o.OrderID != "123" || o.SKU != "SKU1" {
		t.Errorf("identity: %+v", o)
	}
	if o.QtyOriginal != 2 {
		t.Errorf("qty = %v", o.QtyOriginal)
	}
	if o.Status != entity.StatusBipado || o.Canal != entity.CanalSite {
		t.Errorf("status/canal: %q/%q", o.Status, o.Canal)
	}
	if o.PriceGross != 50 || o.PriceTotal != 50 {
		t.Errorf("gross/total = %v/%v", o.PriceGross, o.PriceTotal)
	}
	if o.Data != "2024-03-15" {
		t.Errorf("date = %q", o.Data)
	}
	if o.CustomerName != "Maria Silva" || o.CustomerCpfCnpj != "12345678900" {
		t.Errorf("customer: %+v", o)
	}
	if o.QtyFinal != 2*o.Multiplicador {
		t.Errorf("qty_final = %d with mult %d", o.QtyFinal, o.Multiplicador)
	}
}

func TestParseSalesXMLLenient(t *testing.T) {
	if got := ParseSalesXML([]byte("<broken")); got != nil {
		t.Errorf("malformed sales XML must yield empty, got %+v", got)
	}
	// missing nNF also resolves to empty, not an error
	if got := ParseSalesXML([]byte(`<NFe><det><prod><cProd>X</cProd><qCom>1</qCom></prod></det></NFe>`)); got != nil {
		t.Errorf("sales XML without nNF must yield empty, got %+v", got)
	}
}

func TestParseStockXML(t *testing.T) {
	doc := `<nfeProc><NFe><infNFe>
	  <det><prod><cProd>mat-01</cProd><xProd>Cola</xProd><qCom>3.5</qCom><uCom>KG</uCom></prod></det>
	  <det><prod><cProd>MAT-02</cProd><xProd>Tubo</xProd><qCom>10</qCom><uCom>PCT</uCom></prod></det>
	</infNFe></NFe></nfeProc>`

	items, err := ParseStockXML([]byte(doc))
	if err != nil {
		t.Fatalf("ParseStockXML: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("got %d items, want 2", len(items))
	}
	if items[0].Code != "MAT-01" || items[0].Quantity != 3.5 || items[0].Unit != "kg" {
		t.Errorf("first item: %+v", items[0])
	}
	if items[1].Unit != "un" { // unknown unit code defaults to un
		t.Errorf("unit = %q", items[1].Unit)
	}
}

func TestParseStockXMLStrict(t *testing.T) {
	if _, err := ParseStockXML([]byte("<broken")); err == nil {
		t.Error("malformed stock XML must error")
	}
	if _, err := ParseStockXML([]byte("<NFe><infNFe></infNFe></NFe>")); !errors.Is(err, ErrNoProductNodes) {
		t.Errorf("err = %v, want ErrNoProductNodes", err)
	}
}

func TestParseSalesZip(t *testing.T) {
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)

	for name, content := range map[string]string{
		"notas/nfe1.xml":  salesNFe,
		"leia-me.txt":     "ignored",
		"notas/broken.xml": "<broken",
	} {
		f, err := w.Create(name)
		if err != nil {
			t.Fatalf("zip create: %v", err)
		}
		f.Write([]byte(content))
	}
	if err := w.Close(); err != nil {
		t.Fatalf("zip close: %v", err)
	}

	orders, err := ParseSalesZip(buf.Bytes())
	if err != nil {
		t.Fatalf("ParseSalesZip: %v", err)
	}
	// one valid XML parsed, broken one skipped silently, txt ignored
	if len(orders) != 1 || orders[0].OrderID != "123" {
		t.Fatalf("orders = %+v", orders)
	}
}
