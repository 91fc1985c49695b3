// Package importer normalizes heterogeneous sales exports (marketplace
// spreadsheets, NFe XML invoices, ZIP batches) into canonical order and
// stock-receipt records.
package importer

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/mqsfps1-maker/ecomflow/internal/expedicao/entity"
	"github.com/mqsfps1-maker/ecomflow/internal/expedicao/sku"
)

var (
	ErrEmptySheet  = errors.New("a planilha não contém linhas de dados")
	ErrNoValidRows = errors.New("nenhum pedido válido encontrado na planilha")
)

// Options are the caller-supplied import switches.
type Options struct {
	ImportCPF   bool
	ImportName  bool
	ForcedCanal string
}

// SkuSuggestion is a distinct imported SKU with the classifier's color guess,
// offered to the operator for master-product linking.
type SkuSuggestion struct {
	SKU   string `json:"sku"`
	Color string `json:"color"`
}

// Idempotencia counts distinct (orderId, sku) keys of the import against the
// prior order snapshot: Lancaveis keys were parsed, JaSalvos of them already
// exist. Re-importing a sheet against its own output makes the two equal.
type Idempotencia struct {
	JaSalvos  int `json:"ja_salvos"`
	Lancaveis int `json:"lancaveis"`
}

// ProcessedData is the spreadsheet import result. Summary is zeroed here; the
// material explosion engine enriches it downstream.
type ProcessedData struct {
	Orders       []entity.OrderItem `json:"orders"`
	Suggestions  []SkuSuggestion    `json:"suggestions"`
	Idempotencia Idempotencia       `json:"idempotencia"`
	Summary      entity.Summary     `json:"summary"`
}

// ResolveCanal picks the sales channel for a spreadsheet: an explicit forced
// channel wins, then filename heuristics (Mercado Livre exports are named
// "vendas..."/"mercado..."), defaulting to Shopee.
func ResolveCanal(filename, forced string) string {
	if forced != "" {
		return strings.ToUpper(forced)
	}
	name := strings.ToLower(filename)
	if strings.Contains(name, "vendas") || strings.Contains(name, "mercado") {
		return entity.CanalML
	}
	return entity.CanalShopee
}

// ParseSpreadsheet reads the first sheet of a sales export into canonical
// order items. existing supplies the idempotency snapshot; mappings the
// per-channel column configuration.
func ParseSpreadsheet(data []byte, filename string, existing []entity.OrderItem, mappings map[string]entity.ChannelMapping, opts Options) (*ProcessedData, error) {
	canal := ResolveCanal(filename, opts.ForcedCanal)
	mapping, ok := mappings[canal]
	if !ok {
		return nil, fmt.Errorf("nenhum mapeamento de colunas configurado para o canal %s", canal)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("não foi possível abrir a planilha: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptySheet
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("não foi possível ler a planilha: %w", err)
	}
	if len(rows) <= mapping.HeaderOffset+1 {
		return nil, ErrEmptySheet
	}

	header := newHeaderIndex(rows[mapping.HeaderOffset])
	cols := mapping.Columns

	var orders []entity.OrderItem
	for _, row := range rows[mapping.HeaderOffset+1:] {
		item, ok := parseRow(row, header, cols, canal, opts)
		if !ok {
			continue
		}
		orders = append(orders, item)
	}
	if len(orders) == 0 {
		return nil, ErrNoValidRows
	}

	return &ProcessedData{
		Orders:       orders,
		Suggestions:  distinctSuggestions(orders),
		Idempotencia: countIdempotencia(orders, existing),
	}, nil
}

// parseRow builds one OrderItem from a data row. Rows missing orderId/sku or
// with non-positive quantity are dropped silently; rows failing the status
// allow-list are kept flagged ERRO.
func parseRow(row []string, header headerIndex, cols entity.ColumnMapping, canal string, opts Options) (entity.OrderItem, bool) {
	orderID := strings.ToUpper(strings.TrimSpace(header.cell(row, cols.OrderID)))
	rawSKU := strings.ToUpper(strings.TrimSpace(header.cell(row, cols.SKU)))
	qty := CleanMoney(header.cell(row, cols.Qty))
	if orderID == "" || rawSKU == "" || qty <= 0 {
		return entity.OrderItem{}, false
	}

	status := entity.StatusNormal
	reason := ""
	if cols.StatusColumn != "" && len(cols.AcceptedStatusValues) > 0 {
		rowStatus := strings.TrimSpace(header.cell(row, cols.StatusColumn))
		if !containsFold(cols.AcceptedStatusValues, rowStatus) {
			status = entity.StatusErro
			reason = fmt.Sprintf("status %q não é aceito para importação", rowStatus)
		}
	}

	fees := 0.0
	for _, col := range cols.Fees {
		fees += CleanMoney(header.cell(row, col))
	}
	sellerShipping := CleanMoney(header.cell(row, cols.ShippingFee))
	customerShipping := CleanMoney(header.cell(row, cols.ShippingPaidByCustomer))
	total := CleanMoney(header.cell(row, cols.TotalValue))
	gross := CleanMoney(header.cell(row, cols.PriceGross))

	// Incomplete exports carry only one of total/gross; derive the missing
	// one from the customer-paid shipping.
	var product float64
	if header.has(cols.TotalValue) && total != 0 {
		product = math.Max(0, total-customerShipping)
	} else {
		product = gross
		total = product + customerShipping
	}
	net := product - fees - sellerShipping

	mult := sku.Multiplicador(rawSKU)

	item := entity.OrderItem{
		ID:                uuid.New().String(),
		OrderID:           orderID,
		Tracking:          strings.TrimSpace(header.cell(row, cols.Tracking)),
		SKU:               rawSKU,
		QtyOriginal:       qty,
		Multiplicador:     mult,
		QtyFinal:          int(math.Round(qty * float64(mult))),
		Color:             sku.ClassificarCor(rawSKU),
		Canal:             canal,
		Data:              NormalizeDate(header.cell(row, cols.Date)),
		DataPrevistaEnvio: NormalizeDate(header.cell(row, cols.ShippingDate)),
		Status:            status,
		ErrorReason:       reason,

		PriceTotal:             total,
		PriceGross:             product,
		PriceNet:               net,
		PlatformFees:           fees,
		ShippingFee:            sellerShipping,
		ShippingPaidByCustomer: customerShipping,
	}
	if opts.ImportName {
		item.CustomerName = strings.TrimSpace(header.cell(row, cols.CustomerName))
	}
	if opts.ImportCPF {
		item.CustomerCpfCnpj = strings.TrimSpace(header.cell(row, cols.CustomerCpf))
	}
	return item, true
}

// headerIndex resolves configured column names to row indices,
// case-insensitively and ignoring surrounding whitespace.
type headerIndex map[string]int

func newHeaderIndex(headerRow []string) headerIndex {
	idx := make(headerIndex, len(headerRow))
	for i, name := range headerRow {
		key := strings.ToLower(strings.TrimSpace(name))
		if key == "" {
			continue
		}
		if _, dup := idx[key]; !dup {
			idx[key] = i
		}
	}
	return idx
}

func (h headerIndex) has(column string) bool {
	if column == "" {
		return false
	}
	_, ok := h[strings.ToLower(strings.TrimSpace(column))]
	return ok
}

func (h headerIndex) cell(row []string, column string) string {
	if column == "" {
		return ""
	}
	i, ok := h[strings.ToLower(strings.TrimSpace(column))]
	if !ok || i >= len(row) {
		return ""
	}
	return row[i]
}

func containsFold(values []string, v string) bool {
	for _, s := range values {
		if strings.EqualFold(strings.TrimSpace(s), v) {
			return true
		}
	}
	return false
}

func distinctSuggestions(orders []entity.OrderItem) []SkuSuggestion {
	seen := make(map[string]bool, len(orders))
	var out []SkuSuggestion
	for _, o := range orders {
		if seen[o.SKU] {
			continue
		}
		seen[o.SKU] = true
		out = append(out, SkuSuggestion{SKU: o.SKU, Color: o.Color})
	}
	return out
}

func countIdempotencia(orders, existing []entity.OrderItem) Idempotencia {
	existingKeys := make(map[string]bool, len(existing))
	for i := range existing {
		existingKeys[existing[i].Key()] = true
	}
	seen := make(map[string]bool, len(orders))
	var idem Idempotencia
	for i := range orders {
		key := orders[i].Key()
		if seen[key] {
			continue
		}
		seen[key] = true
		idem.Lancaveis++
		if existingKeys[key] {
			idem.JaSalvos++
		}
	}
	return idem
}
