package zpl

import (
	"strings"

	"github.com/mqsfps1-maker/ecomflow/internal/expedicao/entity"
)

// matchStrategy reports whether a label identifier matches an order key.
type matchStrategy func(key, id string) bool

// strategies are tried in order, tightest first. Suffix and substring run in
// both directions: carrier labels truncate ids and marketplaces prefix them.
var strategies = []matchStrategy{
	func(key, id string) bool { return key == id },
	func(key, id string) bool { return strings.HasSuffix(key, id) || strings.HasSuffix(id, key) },
	func(key, id string) bool { return strings.Contains(key, id) || strings.Contains(id, key) },
}

// MatchOrders resolves a label identifier against the order snapshot. Each
// strategy is tried against orderId and tracking of every line; the first
// strategy producing candidates decides. Candidates spanning more than one
// distinct orderId mean the label is ambiguous: the matcher abstains and
// returns nil rather than guessing a wrong order.
func MatchOrders(orders []entity.OrderItem, id string) []entity.OrderItem {
	id = strings.ToUpper(strings.TrimSpace(id))
	if id == "" {
		return nil
	}

	for _, match := range strategies {
		var candidates []entity.OrderItem
		distinct := make(map[string]bool)
		for _, o := range orders {
			orderKey := strings.ToUpper(strings.TrimSpace(o.OrderID))
			trackKey := strings.ToUpper(strings.TrimSpace(o.Tracking))
			if (orderKey != "" && match(orderKey, id)) || (trackKey != "" && match(trackKey, id)) {
				candidates = append(candidates, o)
				distinct[orderKey] = true
			}
		}
		if len(candidates) == 0 {
			continue
		}
		if len(distinct) != 1 {
			return nil
		}
		return candidates
	}
	return nil
}
