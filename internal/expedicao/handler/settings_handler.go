package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/mqsfps1-maker/ecomflow/internal/expedicao/entity"
	"github.com/mqsfps1-maker/ecomflow/internal/expedicao/repository"
	"github.com/mqsfps1-maker/ecomflow/internal/expedicao/service"
)

type SettingsHandler struct {
	svc *service.SettingsService
}

func NewSettingsHandler(svc *service.SettingsService) *SettingsHandler {
	return &SettingsHandler{svc: svc}
}

// Get returns one settings key, falling back to the in-code default.
// GET /api/v1/settings/:key
func (h *SettingsHandler) Get(c *gin.Context) {
	key := c.Param("key")
	value, err := h.svc.Get(c.Request.Context(), key)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "chave de configuração não encontrada")
			return
		}
		InternalError(c, "falha ao carregar configuração: "+err.Error())
		return
	}
	Success(c, gin.H{"key": key, "value": value})
}

// Put stores one settings key.
// PUT /api/v1/settings/:key
func (h *SettingsHandler) Put(c *gin.Context) {
	key := c.Param("key")
	var value entity.JSONB
	if err := c.ShouldBindJSON(&value); err != nil {
		BadRequest(c, "corpo da requisição inválido: "+err.Error())
		return
	}
	if err := h.svc.Put(c.Request.Context(), key, value); err != nil {
		BadRequest(c, err.Error())
		return
	}
	Success(c, gin.H{"key": key})
}
