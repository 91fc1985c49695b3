package materials

import (
	"strings"

	"github.com/mqsfps1-maker/ecomflow/internal/expedicao/entity"
)

// Base-color classes for the production summary.
const (
	ClassWhite   = "white"
	ClassBlack   = "black"
	ClassSpecial = "special"
)

// Summarize splits the demand into the white/black/special/miudos production
// buckets. baseColors maps a classified color label onto a base-color class;
// unmapped colors count as special. Lines flagged ERRO are excluded.
func Summarize(orders []entity.OrderItem, links entity.LinkMap, stock map[string]entity.StockItem, baseColors map[string]string) entity.Summary {
	classes := make(map[string]string, len(baseColors))
	for label, class := range baseColors {
		classes[strings.ToLower(strings.TrimSpace(label))] = class
	}

	var s entity.Summary
	for _, o := range orders {
		if o.Status == entity.StatusErro {
			continue
		}
		master := links.Resolve(o.SKU)
		if item, ok := stock[master]; ok && item.ProductType == entity.ProductTypeMiudos {
			s.Miudos += o.QtyFinal
			continue
		}
		switch classes[strings.ToLower(strings.TrimSpace(o.Color))] {
		case ClassWhite:
			s.White += o.QtyFinal
		case ClassBlack:
			s.Black += o.QtyFinal
		default:
			s.Special += o.QtyFinal
		}
	}
	return s
}
