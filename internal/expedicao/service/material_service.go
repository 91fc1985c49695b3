package service

import (
	"context"
	"fmt"

	"github.com/mqsfps1-maker/ecomflow/internal/expedicao/entity"
	"github.com/mqsfps1-maker/ecomflow/internal/expedicao/materials"
	"github.com/mqsfps1-maker/ecomflow/internal/expedicao/repository"
	"go.uber.org/zap"
)

// MaterialService assembles the read-only snapshot the explosion engine
// consumes and runs it over the active order book.
type MaterialService struct {
	orders   *repository.OrderRepository
	catalog  *repository.CatalogRepository
	settings *SettingsService
	logger   *zap.Logger
}

func NewMaterialService(orders *repository.OrderRepository, catalog *repository.CatalogRepository,
	settings *SettingsService, logger *zap.Logger) *MaterialService {
	return &MaterialService{orders: orders, catalog: catalog, settings: settings, logger: logger}
}

// Requirements is the aggregated material demand plus the color/type summary
// for every active (not yet scanned) order.
type Requirements struct {
	Items   []entity.MaterialItem `json:"items"`
	Summary entity.Summary        `json:"summary"`
}

func (s *MaterialService) Requirements(ctx context.Context) (*Requirements, error) {
	orders, err := s.orders.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("carregar pedidos ativos: %w", err)
	}
	links, err := s.catalog.ListLinks(ctx)
	if err != nil {
		return nil, fmt.Errorf("carregar vínculos de SKU: %w", err)
	}
	stockItems, err := s.catalog.ListStockItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("carregar catálogo de estoque: %w", err)
	}
	composites, err := s.catalog.ListComposites(ctx)
	if err != nil {
		return nil, fmt.Errorf("carregar produtos compostos: %w", err)
	}
	packaging, err := s.settings.PackagingRules(ctx)
	if err != nil {
		return nil, fmt.Errorf("carregar faixas de embalagem: %w", err)
	}
	baseColors, err := s.settings.BaseColorClasses(ctx)
	if err != nil {
		return nil, fmt.Errorf("carregar classes de cor: %w", err)
	}

	linkMap := entity.NewLinkMap(links)
	stock := materials.NewStockIndex(stockItems)

	items, err := materials.Explode(materials.Input{
		Orders:    orders,
		Links:     linkMap,
		Stock:     stock,
		BOMs:      entity.NewBOMMap(composites),
		Packaging: packaging,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Debug("explosão de materiais concluída",
		zap.Int("pedidos", len(orders)),
		zap.Int("materiais", len(items)),
	)
	return &Requirements{
		Items:   items,
		Summary: materials.Summarize(orders, linkMap, stock, baseColors),
	}, nil
}
