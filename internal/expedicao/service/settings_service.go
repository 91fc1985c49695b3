package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mqsfps1-maker/ecomflow/internal/expedicao/entity"
	"github.com/mqsfps1-maker/ecomflow/internal/expedicao/repository"
)

// SettingsService reads and writes the system_configs KV table. Every typed
// getter falls back to the in-code default when the key was never saved, so a
// fresh database works out of the box.
type SettingsService struct {
	repo *repository.SettingsRepository
}

func NewSettingsService(repo *repository.SettingsRepository) *SettingsService {
	return &SettingsService{repo: repo}
}

// defaultChannelMappings covers the three supported sales channels. The
// Mercado Livre export carries a five-row report preamble before the header.
var defaultChannelMappings = map[string]entity.ChannelMapping{
	entity.CanalML: {
		Canal:        entity.CanalML,
		HeaderOffset: 5,
		Columns: entity.ColumnMapping{
			OrderID:      "n.º de venda",
			SKU:          "sku",
			Qty:          "unidades",
			Date:         "data da venda",
			Tracking:     "código de rastreamento",
			CustomerName: "comprador",
			CustomerCpf:  "cpf",
			Fees:         []string{"tarifa de venda e impostos", "tarifas de envio"},
			TotalValue:   "total (brl)",
			PriceGross:   "receita por produtos (brl)",
			StatusColumn: "status",
			AcceptedStatusValues: []string{
				"pacote a caminho", "entregue", "pronto para envio", "etiqueta pronta para imprimir",
			},
		},
	},
	entity.CanalShopee: {
		Canal: entity.CanalShopee,
		Columns: entity.ColumnMapping{
			OrderID:                "id do pedido",
			SKU:                    "número de referência sku",
			Qty:                    "quantidade",
			Date:                   "data de criação do pedido",
			ShippingDate:           "data prevista de envio",
			Tracking:               "número de rastreamento",
			CustomerName:           "nome de usuário (comprador)",
			CustomerCpf:            "cpf do comprador",
			Fees:                   []string{"taxa de comissão", "taxa de serviço"},
			ShippingFee:            "taxa de envio pagas pelo comprador",
			ShippingPaidByCustomer: "frete pago pelo comprador",
			TotalValue:             "valor total",
			PriceGross:             "preço acordado",
			StatusColumn:           "status do pedido",
			AcceptedStatusValues:   []string{"pago", "a enviar", "enviado", "concluído"},
		},
	},
	entity.CanalSite: {
		Canal: entity.CanalSite,
		Columns: entity.ColumnMapping{
			OrderID:    "pedido",
			SKU:        "sku",
			Qty:        "quantidade",
			Date:       "data",
			TotalValue: "total",
		},
	},
}

// defaultPatterns extract fields from DANFE invoice pages when the token scan
// finds nothing.
var defaultPatterns = entity.PatternSet{
	SKU:      []string{`\^FD([A-Z0-9][A-Z0-9 .\-]{2,40}?) - [^\^]* - \d`},
	Quantity: []string{`- (\d+(?:[.,]\d+)?)UN`},
	OrderID:  []string{`Pedido:?\s*#?\s*([A-Z0-9-]{4,})`, `VENDA:?\s*([0-9]{8,})`},
}

var defaultPackagingRules = entity.PackagingRules{
	Wallpaper: []entity.PackagingBand{
		{From: 1, To: 1, StockItemCode: "TUBO-P", QtyPerPackage: 1},
		{From: 2, To: 2, StockItemCode: "TUBO-M", QtyPerPackage: 1},
		{From: 3, To: 6, StockItemCode: "TUBO-G", QtyPerPackage: 1},
		{From: 7, To: 999, StockItemCode: "CAIXA-G", QtyPerPackage: 1},
	},
	Miudos: []entity.PackagingBand{
		{From: 1, To: 4, StockItemCode: "ENVELOPE-P", QtyPerPackage: 1},
		{From: 5, To: 999, StockItemCode: "ENVELOPE-G", QtyPerPackage: 1},
	},
}

var defaultBaseColorClasses = map[string]string{
	"branco": "white",
	"preto":  "black",
}

// Get returns the stored raw value of a key, or the in-code default.
func (s *SettingsService) Get(ctx context.Context, key string) (entity.JSONB, error) {
	config, err := s.repo.Get(ctx, key)
	if err == nil {
		return config.Value, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	switch key {
	case entity.SettingChannelMappings:
		return toJSONB(map[string]interface{}{"mappings": defaultChannelMappings})
	case entity.SettingZplPatterns:
		return toJSONB(map[string]interface{}{"patterns": defaultPatterns})
	case entity.SettingPackagingBands:
		return toJSONB(map[string]interface{}{"rules": defaultPackagingRules})
	case entity.SettingBaseColorClasses:
		return toJSONB(map[string]interface{}{"classes": defaultBaseColorClasses})
	}
	return nil, repository.ErrNotFound
}

func (s *SettingsService) Put(ctx context.Context, key string, value entity.JSONB) error {
	switch key {
	case entity.SettingChannelMappings, entity.SettingZplPatterns,
		entity.SettingPackagingBands, entity.SettingBaseColorClasses:
		return s.repo.Set(ctx, key, value)
	}
	return fmt.Errorf("chave de configuração desconhecida: %s", key)
}

// ChannelMappings returns the typed per-channel import configuration.
func (s *SettingsService) ChannelMappings(ctx context.Context) (map[string]entity.ChannelMapping, error) {
	value, err := s.Get(ctx, entity.SettingChannelMappings)
	if err != nil {
		return nil, err
	}
	var wrapper struct {
		Mappings map[string]entity.ChannelMapping `json:"mappings"`
	}
	if err := decodeSetting(value, &wrapper); err != nil {
		return nil, err
	}
	if len(wrapper.Mappings) == 0 {
		return defaultChannelMappings, nil
	}
	return wrapper.Mappings, nil
}

// Patterns returns the typed ZPL extraction pattern set.
func (s *SettingsService) Patterns(ctx context.Context) (entity.PatternSet, error) {
	value, err := s.Get(ctx, entity.SettingZplPatterns)
	if err != nil {
		return entity.PatternSet{}, err
	}
	var wrapper struct {
		Patterns entity.PatternSet `json:"patterns"`
	}
	if err := decodeSetting(value, &wrapper); err != nil {
		return entity.PatternSet{}, err
	}
	return wrapper.Patterns, nil
}

// PackagingRules returns the typed packaging band tables.
func (s *SettingsService) PackagingRules(ctx context.Context) (entity.PackagingRules, error) {
	value, err := s.Get(ctx, entity.SettingPackagingBands)
	if err != nil {
		return entity.PackagingRules{}, err
	}
	var wrapper struct {
		Rules entity.PackagingRules `json:"rules"`
	}
	if err := decodeSetting(value, &wrapper); err != nil {
		return entity.PackagingRules{}, err
	}
	return wrapper.Rules, nil
}

// BaseColorClasses returns the color label -> summary class mapping.
func (s *SettingsService) BaseColorClasses(ctx context.Context) (map[string]string, error) {
	value, err := s.Get(ctx, entity.SettingBaseColorClasses)
	if err != nil {
		return nil, err
	}
	var wrapper struct {
		Classes map[string]string `json:"classes"`
	}
	if err := decodeSetting(value, &wrapper); err != nil {
		return nil, err
	}
	if len(wrapper.Classes) == 0 {
		return defaultBaseColorClasses, nil
	}
	return wrapper.Classes, nil
}

func toJSONB(v interface{}) (entity.JSONB, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("serializar configuração padrão: %w", err)
	}
	var out entity.JSONB
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("materializar configuração padrão: %w", err)
	}
	return out, nil
}

func decodeSetting(value entity.JSONB, target interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("serializar configuração: %w", err)
	}
	if err := json.Unmarshal(data, target); err != nil {
		return fmt.Errorf("decodificar configuração: %w", err)
	}
	return nil
}
