package handler

import (
	"errors"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mqsfps1-maker/ecomflow/internal/expedicao/service"
)

type PrintHandler struct {
	svc *service.PrintService
}

func NewPrintHandler(svc *service.PrintService) *PrintHandler {
	return &PrintHandler{svc: svc}
}

// CreateJobRequest carries the raw ZPL stream to render.
type CreateJobRequest struct {
	ZPL      string `json:"zpl" binding:"required"`
	FastMode *bool  `json:"fast_mode"`
}

// CreateJob pairs and resolves the stream, then starts rendering.
// POST /api/v1/print/jobs
func (h *PrintHandler) CreateJob(c *gin.Context) {
	var req CreateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "corpo da requisição inválido: "+err.Error())
		return
	}

	job, err := h.svc.CreateJob(c.Request.Context(), req.ZPL, service.CreateJobOptions{FastMode: req.FastMode})
	if err != nil {
		if errors.Is(err, service.ErrNoPages) {
			BadRequest(c, err.Error())
			return
		}
		InternalError(c, "falha ao criar job de impressão: "+err.Error())
		return
	}
	Created(c, job)
}

// Job returns the current state of one job.
// GET /api/v1/print/jobs/:id
func (h *PrintHandler) Job(c *gin.Context) {
	job, err := h.svc.Job(c.Param("id"))
	if err != nil {
		NotFound(c, "job de impressão não encontrado")
		return
	}
	Success(c, job)
}

// Events streams the job's render events over SSE, replaying what was
// already published before the client connected.
// GET /api/v1/print/jobs/:id/events
func (h *PrintHandler) Events(c *gin.Context) {
	jobID := c.Param("id")
	clientID := fmt.Sprintf("%s_%d", jobID, time.Now().UnixNano())

	replay, client, err := h.svc.Subscribe(jobID, clientID)
	if err != nil {
		NotFound(c, "job de impressão não encontrado")
		return
	}
	defer h.svc.Unsubscribe(clientID)

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Header().Set("X-Accel-Buffering", "no")

	c.Writer.WriteString("event: connected\ndata: {\"client_id\":\"" + clientID + "\"}\n\n")
	for _, event := range replay {
		c.Writer.WriteString(fmt.Sprintf("event: %s\ndata: %s\n\n", event.EventType, event.Data))
	}
	c.Writer.Flush()

	heartbeat := time.NewTicker(30 * time.Second)
	defer heartbeat.Stop()

	clientGone := c.Request.Context().Done()

	for {
		select {
		case <-clientGone:
			return
		case event, ok := <-client.Events:
			if !ok {
				return
			}
			c.Writer.WriteString(fmt.Sprintf("event: %s\ndata: %s\n\n", event.EventType, event.Data))
			c.Writer.Flush()
		case <-heartbeat.C:
			c.Writer.WriteString(": keepalive\n\n")
			c.Writer.Flush()
		}
	}
}

// History pages through the print records.
// GET /api/v1/print/history
func (h *PrintHandler) History(c *gin.Context) {
	page, pageSize := GetPagination(c)
	records, total, err := h.svc.History(c.Request.Context(), page, pageSize)
	if err != nil {
		InternalError(c, "falha ao consultar histórico de impressão: "+err.Error())
		return
	}
	Success(c, ListResponse{
		Items: records,
		Pagination: &Pagination{
			Page:       page,
			PageSize:   pageSize,
			Total:      int(total),
			TotalPages: (int(total) + pageSize - 1) / pageSize,
		},
	})
}
