package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/mqsfps1-maker/ecomflow/internal/expedicao/materials"
	"github.com/mqsfps1-maker/ecomflow/internal/expedicao/service"
)

type MaterialHandler struct {
	svc *service.MaterialService
}

func NewMaterialHandler(svc *service.MaterialService) *MaterialHandler {
	return &MaterialHandler{svc: svc}
}

// Requirements returns the aggregated material demand of the active orders.
// GET /api/v1/materials/requirements
func (h *MaterialHandler) Requirements(c *gin.Context) {
	result, err := h.svc.Requirements(c.Request.Context())
	if err != nil {
		var cyclic *materials.ErrCyclicBOM
		if errors.As(err, &cyclic) {
			BadRequest(c, cyclic.Error())
			return
		}
		InternalError(c, "falha ao calcular necessidades de material: "+err.Error())
		return
	}
	Success(c, result)
}
