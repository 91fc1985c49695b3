package importer

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/mqsfps1-maker/ecomflow/internal/expedicao/entity"
)

func testMappings() map[string]entity.ChannelMapping {
	return map[string]entity.ChannelMapping{
		entity.CanalShopee: {
			Canal:        entity.CanalShopee,
			HeaderOffset: 0,
			Columns: entity.ColumnMapping{
				OrderID:                "ID do pedido",
				SKU:                    "SKU",
				Qty:                    "Quantidade",
				Date:                   "Data do pedido",
				Tracking:               "Rastreio",
				CustomerName:           "Comprador",
				CustomerCpf:            "CPF",
				Fees:                   []string{"Taxa de comissão", "Taxa de serviço"},
				ShippingFee:            "Frete vendedor",
				ShippingPaidByCustomer: "Frete comprador",
				TotalValue:             "Valor total",
				PriceGross:             "Valor produto",
				StatusColumn:           "Status",
				AcceptedStatusValues:   []string{"A enviar", "Enviado"},
			},
		},
	}
}

func buildSheet(t *testing.T, rows [][]interface{}) []byte {
	t.Helper()
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	for i, row := range rows {
		for j, v := range row {
			cell, _ := excelize.CoordinatesToCellName(j+1, i+1)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				t.Fatalf("set cell: %v", err)
			}
		}
	}
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatalf("write xlsx: %v", err)
	}
	return buf.Bytes()
}

var shopeeHeader = []interface{}{
	"ID do pedido", "SKU", "Quantidade", "Data do pedido", "Rastreio", "Comprador",
	"CPF", "Taxa de comissão", "Taxa de serviço", "Frete vendedor", "Frete comprador",
	"Valor total", "Valor produto", "Status",
}

func TestParseSpreadsheet(t *testing.T) {
	data := buildSheet(t, [][]interface{}{
		shopeeHeader,
		{"PED-1", "papel azul marinho x2unidades", "1", "15/03/2024", "BR123", "Maria",
			"123.456.789-00", "1,50", "0,50", "2,00", "5,00", "55,00", "", "A enviar"},
		{"PED-2", "SKU-MIUDO", "3", "16/03/2024", "", "João",
			"", "0", "0", "0", "0", "", "30,00", "Cancelado"},
		{"", "SEM-PEDIDO", "1", "", "", "", "", "", "", "", "", "", "", "A enviar"}, // dropped
	})

	got, err := ParseSpreadsheet(data, "shopee-export.xlsx", nil, testMappings(), Options{ImportName: true, ImportCPF: true})
	if err != nil {
		t.Fatalf("ParseSpreadsheet: %v", err)
	}
	if len(got.Orders) != 2 {
		t.Fatalf("got %d orders, want 2", len(got.Orders))
	}

	first := got.Orders[0]
	if first.OrderID != "PED-1" || first.Canal != entity.CanalShopee {
		t.Errorf("unexpected identity: %+v", first)
	}
	if first.SKU != "PAPEL AZUL MARINHO X2UNIDADES" {
		t.Errorf("sku not upper-trimmed: %q", first.SKU)
	}
	if first.Multiplicador != 2 || first.QtyFinal != 2 {
		t.Errorf("multiplier: got x%d final %d", first.Multiplicador, first.QtyFinal)
	}
	if first.Color != "Azul Marinho" {
		t.Errorf("color = %q", first.Color)
	}
	if first.Data != "2024-03-15" {
		t.Errorf("date = %q", first.Data)
	}
	// total present: product = total - customer shipping
	if first.PriceTotal != 55 || first.PriceGross != 50 {
		t.Errorf("total/gross = %v/%v", first.PriceTotal, first.PriceGross)
	}
	// net = product - fees - seller shipping
	if first.PriceNet != 50-2-2 {
		t.Errorf("net = %v", first.PriceNet)
	}
	if first.CustomerName != "Maria" || first.CustomerCpfCnpj != "123.456.789-00" {
		t.Errorf("customer fields: %+v", first)
	}
	if first.Status != entity.StatusNormal {
		t.Errorf("status = %q", first.Status)
	}

	second := got.Orders[1]
	if second.Status != entity.StatusErro || second.ErrorReason == "" {
		t.Errorf("rejected status row should be kept flagged ERRO: %+v", second)
	}
	// total column empty: product from gross, total derived
	if second.PriceGross != 30 || second.PriceTotal != 30 {
		t.Errorf("gross/total = %v/%v", second.PriceGross, second.PriceTotal)
	}

	if len(got.Suggestions) != 2 {
		t.Errorf("suggestions = %+v", got.Suggestions)
	}
	if got.Idempotencia.Lancaveis != 2 || got.Idempotencia.JaSalvos != 0 {
		t.Errorf("idempotencia = %+v", got.Idempotencia)
	}
	if got.Summary != (entity.Summary{}) {
		t.Errorf("summary must be zeroed here, got %+v", got.Summary)
	}
}

func TestParseSpreadsheetIdempotente(t *testing.T) {
	data := buildSheet(t, [][]interface{}{
		shopeeHeader,
		{"PED-1", "SKU-A", "1", "15/03/2024", "", "", "", "", "", "", "", "", "10,00", "A enviar"},
		{"PED-2", "SKU-B", "2", "15/03/2024", "", "", "", "", "", "", "", "", "20,00", "A enviar"},
	})

	first, err := ParseSpreadsheet(data, "shopee.xlsx", nil, testMappings(), Options{})
	if err != nil {
		t.Fatalf("first pass: %v", err)
	}
	second, err := ParseSpreadsheet(data, "shopee.xlsx", first.Orders, testMappings(), Options{})
	if err != nil {
		t.Fatalf("second pass: %v", err)
	}
	if second.Idempotencia.JaSalvos != second.Idempotencia.Lancaveis {
		t.Fatalf("re-import must recognize all rows as saved: %+v", second.Idempotencia)
	}
}

func TestParseSpreadsheetEmpty(t *testing.T) {
	data := buildSheet(t, [][]interface{}{shopeeHeader})
	_, err := ParseSpreadsheet(data, "shopee.xlsx", nil, testMappings(), Options{})
	if !errors.Is(err, ErrEmptySheet) {
		t.Fatalf("err = %v, want ErrEmptySheet", err)
	}
}

func TestParseSpreadsheetNoValidRows(t *testing.T) {
	data := buildSheet(t, [][]interface{}{
		shopeeHeader,
		{"", "SKU-A", "1"},
		{"PED-1", "", "1"},
		{"PED-2", "SKU-B", "0"},
	})
	_, err := ParseSpreadsheet(data, "shopee.xlsx", nil, testMappings(), Options{})
	if !errors.Is(err, ErrNoValidRows) {
		t.Fatalf("err = %v, want ErrNoValidRows", err)
	}
}

func TestResolveCanal(t *testing.T) {
	cases := []struct {
		filename, forced, want string
	}{
		{"vendas_2024.xlsx", "", entity.CanalML},
		{"Mercado Livre export.xlsx", "", entity.CanalML},
		{"shopee_orders.xlsx", "", entity.CanalShopee},
		{"whatever.xlsx", "site", entity.CanalSite},
	}
	for _, tc := range cases {
		if got := ResolveCanal(tc.filename, tc.forced); got != tc.want {
			t.Errorf("ResolveCanal(%q, %q) = %q, want %q", tc.filename, tc.forced, got, tc.want)
		}
	}
}

func TestParseSpreadsheetHeaderOffset(t *testing.T) {
	mappings := testMappings()
	ml := mappings[entity.CanalShopee]
	ml.Canal = entity.CanalML
	ml.HeaderOffset = 5 // ML exports carry a 5-row preamble
	mappings[entity.CanalML] = ml

	rows := [][]interface{}{
		{"Relatório de vendas"}, {}, {}, {}, {fmt.Sprintf("Gerado em %s", "2024-03-15")},
		shopeeHeader,
		{"ML-1", "SKU-ML", "1", "15/03/2024", "", "", "", "", "", "", "", "", "10,00", "A enviar"},
	}
	got, err := ParseSpreadsheet(buildSheet(t, rows), "vendas.xlsx", nil, mappings, Options{})
	if err != nil {
		t.Fatalf("ParseSpreadsheet: %v", err)
	}
	if len(got.Orders) != 1 || got.Orders[0].Canal != entity.CanalML {
		t.Fatalf("orders = %+v", got.Orders)
	}
}
