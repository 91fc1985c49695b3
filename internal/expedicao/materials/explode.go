// Package materials turns imported orders into aggregate material and
// packaging requirements by walking the SKU-link map and the BOM graph.
package materials

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mqsfps1-maker/ecomflow/internal/expedicao/entity"
)

// ErrCyclicBOM is returned when the BOM graph contains a cycle. The explosion
// refuses to guess instead of recursing forever.
type ErrCyclicBOM struct {
	ProductSKU string
}

func (e *ErrCyclicBOM) Error() string {
	return fmt.Sprintf("ciclo detectado no BOM do produto %s", e.ProductSKU)
}

// Input is a read-only snapshot of everything the explosion consumes. Callers
// must not mutate it during the call.
type Input struct {
	Orders    []entity.OrderItem
	Links     entity.LinkMap
	Stock     map[string]entity.StockItem // keyed by upper code
	BOMs      entity.BOMMap
	Packaging entity.PackagingRules
}

// NewStockIndex builds the upper-cased code index the engine expects.
func NewStockIndex(items []entity.StockItem) map[string]entity.StockItem {
	m := make(map[string]entity.StockItem, len(items))
	for _, it := range items {
		m[strings.ToUpper(strings.TrimSpace(it.Code))] = it
	}
	return m
}

// Explode computes the aggregate material requirements for the given orders:
// one packaging entry per physical package (selected by quantity band), the
// per-unit expedition items of each resolved product, and the recursive BOM
// expansion. Requirements come back sorted by display name.
func Explode(in Input) ([]entity.MaterialItem, error) {
	acc := newAccumulator(in.Stock)

	for _, group := range groupPackages(in.Orders) {
		hasWallpaper := false
		totalUnits := 0
		for _, o := range group {
			totalUnits += o.QtyFinal
			master := in.Links.Resolve(o.SKU)
			if item, ok := in.Stock[master]; ok && item.ProductType == entity.ProductTypeWallpaper {
				hasWallpaper = true
			}
		}

		bands := in.Packaging.Miudos
		if hasWallpaper {
			bands = in.Packaging.Wallpaper
		}
		if band, ok := matchBand(bands, totalUnits); ok {
			acc.add(band.StockItemCode, band.QtyPerPackage)
		}

		for _, o := range group {
			master := in.Links.Resolve(o.SKU)
			product, known := in.Stock[master]
			if !known {
				continue
			}
			for _, exp := range product.ExpeditionItems {
				acc.add(exp.StockItemCode, exp.QtyPerPack*float64(o.QtyFinal))
			}
			if err := explodeBOM(in, acc, master, float64(o.QtyFinal), map[string]bool{master: true}); err != nil {
				return nil, err
			}
		}
	}

	return acc.sorted(), nil
}

// explodeBOM walks one product's recipe depth first. A line whose target is a
// PROCESSADO item recurses into that item's own BOM and still records the
// intermediate's requirement: both the semi-finished good and its inputs are
// produced. visiting carries the recursion stack for cycle detection.
func explodeBOM(in Input, acc *accumulator, productSKU string, multiplier float64, visiting map[string]bool) error {
	for _, line := range in.BOMs.Lines(productSKU) {
		code := strings.ToUpper(strings.TrimSpace(line.StockItemCode))
		qty := line.QtyPerPack * multiplier

		if visiting[code] {
			return &ErrCyclicBOM{ProductSKU: code}
		}

		if item, ok := in.Stock[code]; ok && item.Kind == entity.KindProcessado && len(in.BOMs.Lines(code)) > 0 {
			visiting[code] = true
			if err := explodeBOM(in, acc, code, qty, visiting); err != nil {
				return err
			}
			delete(visiting, code)
		}
		acc.add(code, qty)
	}
	return nil
}

// groupPackages buckets order lines into physical packages: by orderId,
// falling back to tracking, falling back to the line's own id. Iteration
// order follows first appearance so results stay deterministic.
func groupPackages(orders []entity.OrderItem) [][]entity.OrderItem {
	index := make(map[string]int)
	var groups [][]entity.OrderItem
	for _, o := range orders {
		key := strings.ToUpper(strings.TrimSpace(o.OrderID))
		if key == "" {
			key = strings.ToUpper(strings.TrimSpace(o.Tracking))
		}
		if key == "" {
			key = o.ID
		}
		if i, ok := index[key]; ok {
			groups[i] = append(groups[i], o)
			continue
		}
		index[key] = len(groups)
		groups = append(groups, []entity.OrderItem{o})
	}
	return groups
}

// matchBand returns the first band with From <= units <= To.
func matchBand(bands []entity.PackagingBand, units int) (entity.PackagingBand, bool) {
	for _, b := range bands {
		if units >= b.From && units <= b.To {
			return b, true
		}
	}
	return entity.PackagingBand{}, false
}

// accumulator aggregates per stock code, resolving display name and unit
// through the catalog (unknown codes display as themselves).
type accumulator struct {
	stock map[string]entity.StockItem
	total map[string]float64
}

func newAccumulator(stock map[string]entity.StockItem) *accumulator {
	return &accumulator{stock: stock, total: make(map[string]float64)}
}

func (a *accumulator) add(code string, qty float64) {
	a.total[strings.ToUpper(strings.TrimSpace(code))] += qty
}

func (a *accumulator) sorted() []entity.MaterialItem {
	out := make([]entity.MaterialItem, 0, len(a.total))
	for code, qty := range a.total {
		name, unit := code, "un"
		if item, ok := a.stock[code]; ok {
			if item.Name != "" {
				name = item.Name
			}
			if item.Unit != "" {
				unit = item.Unit
			}
		}
		out = append(out, entity.MaterialItem{Name: name, Quantity: qty, Unit: unit})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
