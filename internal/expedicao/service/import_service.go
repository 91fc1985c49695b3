package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/mqsfps1-maker/ecomflow/internal/expedicao/entity"
	"github.com/mqsfps1-maker/ecomflow/internal/expedicao/importer"
	"github.com/mqsfps1-maker/ecomflow/internal/expedicao/materials"
	"github.com/mqsfps1-maker/ecomflow/internal/expedicao/repository"
	"go.uber.org/zap"
)

// ImportService turns external sales/stock documents into persisted canonical
// records. Uploads are archived to object storage when available.
type ImportService struct {
	orders   *repository.OrderRepository
	catalog  *repository.CatalogRepository
	settings *SettingsService
	storage  *minio.Client
	bucket   string
	logger   *zap.Logger
}

func NewImportService(orders *repository.OrderRepository, catalog *repository.CatalogRepository,
	settings *SettingsService, storage *minio.Client, bucket string, logger *zap.Logger) *ImportService {
	return &ImportService{
		orders:   orders,
		catalog:  catalog,
		settings: settings,
		storage:  storage,
		bucket:   bucket,
		logger:   logger,
	}
}

// ImportSpreadsheet parses one sales export and upserts its orders. Existing
// records keep their non-financial fields; financial fields are refreshed from
// the sheet. Suggestions exclude SKUs already linked to a master product.
func (s *ImportService) ImportSpreadsheet(ctx context.Context, data []byte, filename string, opts importer.Options) (*importer.ProcessedData, error) {
	mappings, err := s.settings.ChannelMappings(ctx)
	if err != nil {
		return nil, fmt.Errorf("carregar mapeamentos de colunas: %w", err)
	}
	result, err := importer.ParseSpreadsheet(data, filename, nil, mappings, opts)
	if err != nil {
		return nil, err
	}

	// Idempotency runs against the full table, not the active snapshot:
	// re-importing rows already scanned (BIPADO) still reads as saved.
	keys := distinctOrderKeys(result.Orders)
	stored, err := s.orders.ExistingKeys(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("consultar pedidos já salvos: %w", err)
	}
	saved := 0
	for _, k := range keys {
		if stored[k] {
			saved++
		}
	}
	result.Idempotencia = importer.Idempotencia{JaSalvos: saved, Lancaveis: len(keys)}

	links, err := s.catalog.ListLinks(ctx)
	if err != nil {
		return nil, fmt.Errorf("carregar vínculos de SKU: %w", err)
	}
	linkMap := entity.NewLinkMap(links)
	result.Suggestions = filterSuggestions(result.Suggestions, linkMap)

	if err := s.upsertOrders(ctx, result.Orders); err != nil {
		return nil, err
	}

	if err := s.summarize(ctx, result, linkMap); err != nil {
		s.logger.Warn("falha ao montar o resumo da importação", zap.Error(err))
	}

	s.archive(ctx, "spreadsheets/"+filename, data)
	s.logger.Info("planilha importada",
		zap.String("arquivo", filename),
		zap.Int("pedidos", len(result.Orders)),
		zap.Int("ja_salvos", result.Idempotencia.JaSalvos),
		zap.Int("lancaveis", result.Idempotencia.Lancaveis),
	)
	return result, nil
}

// ImportStockNFe applies a stock receipt NFe: each <prod> quantity is added
// to the catalog. Malformed documents abort the whole receipt.
func (s *ImportService) ImportStockNFe(ctx context.Context, data []byte) ([]entity.StockReceiptItem, error) {
	items, err := importer.ParseStockXML(data)
	if err != nil {
		return nil, err
	}
	for _, item := range items {
		if err := s.catalog.AddStockQty(ctx, item, uuid.New().String()); err != nil {
			return nil, fmt.Errorf("aplicar recebimento do item %s: %w", item.Code, err)
		}
	}
	s.logger.Info("NFe de estoque aplicada", zap.Int("itens", len(items)))
	return items, nil
}

// ImportSalesNFe reads one sales NFe into orders. Lenient: an unreadable
// document imports zero orders instead of failing.
func (s *ImportService) ImportSalesNFe(ctx context.Context, data []byte) ([]entity.OrderItem, error) {
	orders := importer.ParseSalesXML(data)
	if err := s.upsertOrders(ctx, orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// ImportSalesZip reads every .xml entry of a ZIP batch in lenient sales mode.
func (s *ImportService) ImportSalesZip(ctx context.Context, data []byte) ([]entity.OrderItem, error) {
	orders, err := importer.ParseSalesZip(data)
	if err != nil {
		return nil, err
	}
	if err := s.upsertOrders(ctx, orders); err != nil {
		return nil, err
	}
	s.logger.Info("lote ZIP de NFe importado", zap.Int("pedidos", len(orders)))
	return orders, nil
}

// upsertOrders persists parsed orders under the (orderId, sku) identity.
// A record that already exists receives only the fresh financial fields.
func (s *ImportService) upsertOrders(ctx context.Context, orders []entity.OrderItem) error {
	for i := range orders {
		imported := &orders[i]
		stored, err := s.orders.FindByKey(ctx, imported.OrderID, imported.SKU)
		if errors.Is(err, repository.ErrNotFound) {
			if imported.ID == "" {
				imported.ID = uuid.New().String()
			}
			if err := s.orders.Create(ctx, imported); err != nil {
				return fmt.Errorf("gravar pedido %s/%s: %w", imported.OrderID, imported.SKU, err)
			}
			continue
		}
		if err != nil {
			return fmt.Errorf("consultar pedido %s/%s: %w", imported.OrderID, imported.SKU, err)
		}
		stored.MergeFinancial(imported)
		if err := s.orders.Update(ctx, stored); err != nil {
			return fmt.Errorf("atualizar pedido %s/%s: %w", imported.OrderID, imported.SKU, err)
		}
	}
	return nil
}

// summarize fills the color/type demand summary of an import result.
func (s *ImportService) summarize(ctx context.Context, result *importer.ProcessedData, links entity.LinkMap) error {
	stockItems, err := s.catalog.ListStockItems(ctx)
	if err != nil {
		return err
	}
	baseColors, err := s.settings.BaseColorClasses(ctx)
	if err != nil {
		return err
	}
	result.Summary = materials.Summarize(result.Orders, links, materials.NewStockIndex(stockItems), baseColors)
	return nil
}

func distinctOrderKeys(orders []entity.OrderItem) []string {
	seen := make(map[string]bool, len(orders))
	keys := make([]string, 0, len(orders))
	for i := range orders {
		k := orders[i].Key()
		if seen[k] {
			continue
		}
		seen[k] = true
		keys = append(keys, k)
	}
	return keys
}

func filterSuggestions(suggestions []importer.SkuSuggestion, links entity.LinkMap) []importer.SkuSuggestion {
	out := suggestions[:0]
	for _, sug := range suggestions {
		if !links.Linked(sug.SKU) {
			out = append(out, sug)
		}
	}
	return out
}

// archive stores the raw upload for audit. Best effort: import results never
// depend on object storage being up.
func (s *ImportService) archive(ctx context.Context, name string, data []byte) {
	if s.storage == nil || s.bucket == "" {
		return
	}
	key := fmt.Sprintf("%s/%s-%s", time.Now().Format("2006-01-02"), uuid.New().String()[:8], name)
	_, err := s.storage.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{})
	if err != nil {
		s.logger.Warn("falha ao arquivar upload", zap.String("objeto", key), zap.Error(err))
	}
}
