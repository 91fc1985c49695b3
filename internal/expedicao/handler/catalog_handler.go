package handler

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/mqsfps1-maker/ecomflow/internal/expedicao/entity"
	"github.com/mqsfps1-maker/ecomflow/internal/expedicao/repository"
)

// CatalogHandler manages the master data the explosion engine resolves
// through: SKU links, composite product recipes and the stock item catalog.
type CatalogHandler struct {
	repo *repository.CatalogRepository
}

func NewCatalogHandler(repo *repository.CatalogRepository) *CatalogHandler {
	return &CatalogHandler{repo: repo}
}

// ========== SkuLink ==========

// ListLinks returns every imported-SKU link.
// GET /api/v1/catalog/links
func (h *CatalogHandler) ListLinks(c *gin.Context) {
	links, err := h.repo.ListLinks(c.Request.Context())
	if err != nil {
		InternalError(c, "falha ao listar vínculos de SKU: "+err.Error())
		return
	}
	Success(c, gin.H{"links": links})
}

// SaveLinkRequest binds one imported SKU to a master product code.
type SaveLinkRequest struct {
	ImportedSKU string `json:"imported_sku" binding:"required"`
	MasterSKU   string `json:"master_sku" binding:"required"`
}

// SaveLink creates or redirects one link. Codes are stored upper-cased, the
// form every resolver compares in.
// POST /api/v1/catalog/links
func (h *CatalogHandler) SaveLink(c *gin.Context) {
	var req SaveLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "corpo da requisição inválido: "+err.Error())
		return
	}
	link := &entity.SkuLink{
		ID:          uuid.New().String(),
		ImportedSKU: strings.ToUpper(strings.TrimSpace(req.ImportedSKU)),
		MasterSKU:   strings.ToUpper(strings.TrimSpace(req.MasterSKU)),
	}
	if err := h.repo.SaveLink(c.Request.Context(), link); err != nil {
		InternalError(c, "falha ao salvar vínculo de SKU: "+err.Error())
		return
	}
	Created(c, link)
}

// DeleteLink removes one link; the imported SKU goes back to resolving to
// itself.
// DELETE /api/v1/catalog/links/:id
func (h *CatalogHandler) DeleteLink(c *gin.Context) {
	if err := h.repo.DeleteLink(c.Request.Context(), c.Param("id")); err != nil {
		InternalError(c, "falha ao remover vínculo de SKU: "+err.Error())
		return
	}
	Success(c, nil)
}

// ========== CompositeProduct ==========

// ListComposites returns every product recipe.
// GET /api/v1/catalog/boms
func (h *CatalogHandler) ListComposites(c *gin.Context) {
	products, err := h.repo.ListComposites(c.Request.Context())
	if err != nil {
		InternalError(c, "falha ao listar produtos compostos: "+err.Error())
		return
	}
	Success(c, gin.H{"products": products})
}

// SaveCompositeRequest carries one product recipe. Items must name at least
// one consumed stock code.
type SaveCompositeRequest struct {
	ProductSKU string             `json:"product_sku" binding:"required"`
	Items      entity.BOMLineList `json:"items" binding:"required,min=1"`
}

// SaveComposite upserts the recipe of one product.
// PUT /api/v1/catalog/boms
func (h *CatalogHandler) SaveComposite(c *gin.Context) {
	var req SaveCompositeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "corpo da requisição inválido: "+err.Error())
		return
	}
	for _, line := range req.Items {
		if strings.TrimSpace(line.StockItemCode) == "" || line.QtyPerPack <= 0 {
			BadRequest(c, "cada linha da receita precisa de código e quantidade positiva")
			return
		}
	}
	product := &entity.CompositeProduct{
		ID:         uuid.New().String(),
		ProductSKU: strings.ToUpper(strings.TrimSpace(req.ProductSKU)),
		Items:      req.Items,
	}
	if err := h.repo.SaveComposite(c.Request.Context(), product); err != nil {
		InternalError(c, "falha ao salvar produto composto: "+err.Error())
		return
	}
	Success(c, product)
}

// ========== StockItem ==========

// ListStockItems returns the full catalog, ordered by code.
// GET /api/v1/catalog/stock-items
func (h *CatalogHandler) ListStockItems(c *gin.Context) {
	items, err := h.repo.ListStockItems(c.Request.Context())
	if err != nil {
		InternalError(c, "falha ao listar itens de estoque: "+err.Error())
		return
	}
	Success(c, gin.H{"items": items})
}

// StockItemRequest creates one catalog entry.
type StockItemRequest struct {
	Code            string             `json:"code" binding:"required"`
	Name            string             `json:"name" binding:"required"`
	Kind            string             `json:"kind"`
	ProductType     string             `json:"product_type"`
	Unit            string             `json:"unit"`
	MinQty          float64            `json:"min_qty"`
	ExpeditionItems entity.BOMLineList `json:"expedition_items"`
}

// CreateStockItem adds one catalog entry. Kind defaults to INSUMO.
// POST /api/v1/catalog/stock-items
func (h *CatalogHandler) CreateStockItem(c *gin.Context) {
	var req StockItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "corpo da requisição inválido: "+err.Error())
		return
	}
	kind := strings.ToUpper(strings.TrimSpace(req.Kind))
	if kind == "" {
		kind = entity.KindInsumo
	}
	if !validKind(kind) {
		BadRequest(c, "tipo de item desconhecido: "+kind)
		return
	}
	item := &entity.StockItem{
		ID:              uuid.New().String(),
		Code:            strings.ToUpper(strings.TrimSpace(req.Code)),
		Name:            strings.TrimSpace(req.Name),
		Kind:            kind,
		ProductType:     req.ProductType,
		Unit:            req.Unit,
		MinQty:          req.MinQty,
		ExpeditionItems: req.ExpeditionItems,
	}
	if err := h.repo.CreateStockItem(c.Request.Context(), item); err != nil {
		InternalError(c, "falha ao criar item de estoque: "+err.Error())
		return
	}
	Created(c, item)
}

// UpdateStockItemRequest changes the mutable fields of one catalog entry.
// Zero-valued fields keep the stored value.
type UpdateStockItemRequest struct {
	Name            string             `json:"name"`
	Kind            string             `json:"kind"`
	ProductType     string             `json:"product_type"`
	Unit            string             `json:"unit"`
	MinQty          *float64           `json:"min_qty"`
	ExpeditionItems entity.BOMLineList `json:"expedition_items"`
}

// UpdateStockItem edits one catalog entry, addressed by its code.
// PUT /api/v1/catalog/stock-items/:code
func (h *CatalogHandler) UpdateStockItem(c *gin.Context) {
	var req UpdateStockItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "corpo da requisição inválido: "+err.Error())
		return
	}
	if req.Kind != "" && !validKind(strings.ToUpper(strings.TrimSpace(req.Kind))) {
		BadRequest(c, "tipo de item desconhecido: "+req.Kind)
		return
	}

	item, err := h.repo.FindStockItemByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "item de estoque não encontrado")
			return
		}
		InternalError(c, "falha ao carregar item de estoque: "+err.Error())
		return
	}

	if req.Name != "" {
		item.Name = strings.TrimSpace(req.Name)
	}
	if req.Kind != "" {
		item.Kind = strings.ToUpper(strings.TrimSpace(req.Kind))
	}
	if req.ProductType != "" {
		item.ProductType = req.ProductType
	}
	if req.Unit != "" {
		item.Unit = req.Unit
	}
	if req.MinQty != nil {
		item.MinQty = *req.MinQty
	}
	if req.ExpeditionItems != nil {
		item.ExpeditionItems = req.ExpeditionItems
	}

	if err := h.repo.UpdateStockItem(c.Request.Context(), item); err != nil {
		InternalError(c, "falha ao atualizar item de estoque: "+err.Error())
		return
	}
	Success(c, item)
}

func validKind(kind string) bool {
	switch kind {
	case entity.KindProduto, entity.KindProcessado, entity.KindInsumo:
		return true
	}
	return false
}
