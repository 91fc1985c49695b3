package zpl

import (
	"testing"

	"github.com/mqsfps1-maker/ecomflow/internal/expedicao/entity"
)

func TestMatchOrdersExact(t *testing.T) {
	orders := []entity.OrderItem{
		{OrderID: "2000001111", SKU: "A"},
		{OrderID: "2000001111", SKU: "B"},
		{OrderID: "2000002222", SKU: "C"},
	}
	got := MatchOrders(orders, "2000001111")
	if len(got) != 2 {
		t.Fatalf("esperado 2 linhas, obteve %d", len(got))
	}
}

func TestMatchOrdersSuffix(t *testing.T) {
	orders := []entity.OrderItem{{OrderID: "VENDA-2000001111", SKU: "A"}}
	got := MatchOrders(orders, "2000001111")
	if len(got) != 1 {
		t.Fatalf("sufixo deveria casar, obteve %d", len(got))
	}
}

func TestMatchOrdersTruncatedIdentifier(t *testing.T) {
	// carrier truncates: the label id is a suffix of nothing, but the order
	// id is a suffix of the longer label identifier
	orders := []entity.OrderItem{{OrderID: "001111", SKU: "A"}}
	got := MatchOrders(orders, "2000001111")
	if len(got) != 1 {
		t.Fatalf("sufixo bidirecional deveria casar, obteve %d", len(got))
	}
}

func TestMatchOrdersByTracking(t *testing.T) {
	orders := []entity.OrderItem{{OrderID: "PED-1", Tracking: "BR123456789XX", SKU: "A"}}
	got := MatchOrders(orders, "br123456789xx")
	if len(got) != 1 {
		t.Fatalf("rastreio deveria casar sem diferenciar caixa, obteve %d", len(got))
	}
}

func TestMatchOrdersAmbiguousAbstains(t *testing.T) {
	orders := []entity.OrderItem{
		{OrderID: "AB-2000001111", SKU: "A"},
		{OrderID: "CD-2000001111", SKU: "B"},
	}
	if got := MatchOrders(orders, "2000001111"); got != nil {
		t.Errorf("casamento ambiguo deveria abster: %+v", got)
	}
}

func TestMatchOrdersTightestStrategyDecides(t *testing.T) {
	// an exact hit exists; the substring strategy would also catch the second
	// order, but the exact strategy decides first
	orders := []entity.OrderItem{
		{OrderID: "1111", SKU: "A"},
		{OrderID: "XX1111YY", SKU: "B"},
	}
	got := MatchOrders(orders, "1111")
	if len(got) != 1 || got[0].SKU != "A" {
		t.Errorf("estrategia exata deveria decidir: %+v", got)
	}
}

func TestMatchOrdersEmptyIdentifier(t *testing.T) {
	orders := []entity.OrderItem{{OrderID: "PED-1", SKU: "A"}}
	if got := MatchOrders(orders, "  "); got != nil {
		t.Errorf("identificador vazio deveria abster: %+v", got)
	}
}
