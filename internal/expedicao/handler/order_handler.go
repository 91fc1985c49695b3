package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/mqsfps1-maker/ecomflow/internal/expedicao/repository"
)

// OrderHandler reads the canonical order book. Orders are written only by
// the importers; the API mutates nothing but the status.
type OrderHandler struct {
	repo *repository.OrderRepository
}

func NewOrderHandler(repo *repository.OrderRepository) *OrderHandler {
	return &OrderHandler{repo: repo}
}

// List pages through orders, filtered by canal and status query params.
// GET /api/v1/orders
func (h *OrderHandler) List(c *gin.Context) {
	page, pageSize := GetPagination(c)
	items, total, err := h.repo.List(c.Request.Context(), c.Query("canal"), c.Query("status"), page, pageSize)
	if err != nil {
		InternalError(c, "falha ao listar pedidos: "+err.Error())
		return
	}
	Success(c, ListResponse{
		Items: items,
		Pagination: &Pagination{
			Page:       page,
			PageSize:   pageSize,
			Total:      int(total),
			TotalPages: (int(total) + pageSize - 1) / pageSize,
		},
	})
}

// UpdateStatusRequest flips one order's status, e.g. marking it scanned.
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
	Reason string `json:"reason"`
}

// UpdateStatus changes the status of one order item.
// PUT /api/v1/orders/:id/status
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "corpo da requisição inválido: "+err.Error())
		return
	}
	err := h.repo.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status, req.Reason)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "pedido não encontrado")
			return
		}
		InternalError(c, "falha ao atualizar status: "+err.Error())
		return
	}
	Success(c, nil)
}
