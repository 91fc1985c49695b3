package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/mqsfps1-maker/ecomflow/internal/expedicao/entity"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CatalogRepository covers the master data behind material explosion: stock
// items, SKU links and composite product recipes.
type CatalogRepository struct {
	db *gorm.DB
}

func NewCatalogRepository(db *gorm.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

func (r *CatalogRepository) DB() *gorm.DB {
	return r.db
}

// ========== StockItem ==========

func (r *CatalogRepository) CreateStockItem(ctx context.Context, item *entity.StockItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *CatalogRepository) UpdateStockItem(ctx context.Context, item *entity.StockItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

func (r *CatalogRepository) FindStockItemByCode(ctx context.Context, code string) (*entity.StockItem, error) {
	var item entity.StockItem
	err := r.db.WithContext(ctx).
		Where("UPPER(code) = ?", strings.ToUpper(strings.TrimSpace(code))).
		First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *CatalogRepository) ListStockItems(ctx context.Context) ([]entity.StockItem, error) {
	var items []entity.StockItem
	err := r.db.WithContext(ctx).Order("code ASC").Find(&items).Error
	return items, err
}

// AddStockQty increments current_qty of the item with the given code. A
// receipt for an unknown code is not an error: the row is created on the fly
// so the operator can fill in the details later.
func (r *CatalogRepository) AddStockQty(ctx context.Context, receipt entity.StockReceiptItem, newID string) error {
	item, err := r.FindStockItemByCode(ctx, receipt.Code)
	if errors.Is(err, ErrNotFound) {
		return r.CreateStockItem(ctx, &entity.StockItem{
			ID:         newID,
			Code:       strings.ToUpper(strings.TrimSpace(receipt.Code)),
			Name:       receipt.Name,
			Kind:       entity.KindInsumo,
			Unit:       receipt.Unit,
			CurrentQty: receipt.Quantity,
		})
	}
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Model(item).
		Update("current_qty", gorm.Expr("current_qty + ?", receipt.Quantity)).Error
}

// ========== SkuLink ==========

// SaveLink upserts by imported SKU, so relinking replaces the old target.
func (r *CatalogRepository) SaveLink(ctx context.Context, link *entity.SkuLink) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "imported_sku"}},
			DoUpdates: clause.AssignmentColumns([]string{"master_sku", "updated_at"}),
		}).
		Create(link).Error
}

func (r *CatalogRepository) DeleteLink(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&entity.SkuLink{}, "id = ?", id).Error
}

func (r *CatalogRepository) ListLinks(ctx context.Context) ([]entity.SkuLink, error) {
	var links []entity.SkuLink
	err := r.db.WithContext(ctx).Find(&links).Error
	return links, err
}

// ========== CompositeProduct ==========

// SaveComposite upserts by product SKU: one recipe per product.
func (r *CatalogRepository) SaveComposite(ctx context.Context, product *entity.CompositeProduct) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "product_sku"}},
			DoUpdates: clause.AssignmentColumns([]string{"items", "updated_at"}),
		}).
		Create(product).Error
}

func (r *CatalogRepository) ListComposites(ctx context.Context) ([]entity.CompositeProduct, error) {
	var products []entity.CompositeProduct
	err := r.db.WithContext(ctx).Find(&products).Error
	return products, err
}
