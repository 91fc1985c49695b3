package zpl

import (
	"strings"
	"testing"

	"github.com/mqsfps1-maker/ecomflow/internal/expedicao/entity"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want string
	}{
		{"mercado envios", "^XA^FDMercado Envios^FS^XZ", entity.PageLabel},
		{"pack id", "^XA^FDPack ID: 2000001234567890^FS^XZ", entity.PageLabel},
		{"shopee xpress", "^XA^FDShopee Xpress^FS^XZ", entity.PageLabel},
		{"tracking phrase", "^XA^FDCODIGO DE RASTREIO^FS^XZ", entity.PageLabel},
		{"sigep", "^XA^FDSIGEP WEB^FS^XZ", entity.PageLabel},
		{"danfe", "^XA^FDDANFE SIMPLIFICADO^FS^XZ", entity.PageDanfe},
		{"access key", "^XA^FDChave de Acesso^FS^XZ", entity.PageDanfe},
		{"graphic recall wins over danfe text", "^XA^XGR:LOGO.GRF^FS^FDDANFE SIMPLIFICADO^FS^XZ", entity.PageLabel},
		{"inline graphic with barcode", "^XA^GFA,100,100,10,ABC^BCN,100^FD123^FS^XZ", entity.PageLabel},
		{"inline graphic without barcode", "^XA^GFA,100,100,10,ABC^XZ", entity.PageOther},
		{"plain page", "^XA^FDqualquer coisa^FS^XZ", entity.PageOther},
	}
	for _, tc := range cases {
		if got := Classify(tc.raw); got != tc.want {
			t.Errorf("%s: Classify = %s, esperado %s", tc.name, got, tc.want)
		}
	}
}

func TestSplitPages(t *testing.T) {
	raw := "^XA^FDDANFE SIMPLIFICADO^FS^XZ\n^XA^FDMercado Envios^FS^XZ"
	pages := SplitPages(raw)
	if len(pages) != 2 {
		t.Fatalf("esperado 2 paginas, obteve %d", len(pages))
	}
	if pages[0].Kind != entity.PageDanfe {
		t.Errorf("pagina 0: kind = %s", pages[0].Kind)
	}
	if pages[1].Kind != entity.PageLabel {
		t.Errorf("pagina 1: kind = %s", pages[1].Kind)
	}
}

func TestSplitPagesAttachesGraphicDownload(t *testing.T) {
	raw := "~DGR:LOGO.GRF,100,10,ABCDEF\n^XA^XGR:LOGO.GRF^FS^FDMercado Envios^FS^XZ"
	pages := SplitPages(raw)
	if len(pages) != 1 {
		t.Fatalf("esperado 1 pagina, obteve %d", len(pages))
	}
	if !strings.HasPrefix(pages[0].Raw, "~DG") {
		t.Errorf("diretiva ~DG nao foi anexada a pagina: %q", pages[0].Raw[:20])
	}
	if pages[0].Kind != entity.PageLabel {
		t.Errorf("kind = %s", pages[0].Kind)
	}
}

func TestSplitPagesIgnoresUnterminatedBlock(t *testing.T) {
	pages := SplitPages("^XA^FDincompleto")
	if len(pages) != 0 {
		t.Fatalf("esperado 0 paginas, obteve %d", len(pages))
	}
}
