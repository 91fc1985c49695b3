package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/mqsfps1-maker/ecomflow/internal/expedicao/repository"
	"github.com/mqsfps1-maker/ecomflow/internal/expedicao/service"
)

// Handlers groups the HTTP handlers of the expedition module.
type Handlers struct {
	Import   *ImportHandler
	Order    *OrderHandler
	Catalog  *CatalogHandler
	Material *MaterialHandler
	Print    *PrintHandler
	Settings *SettingsHandler
}

func NewHandlers(svc *service.Services, repos *repository.Repositories) *Handlers {
	return &Handlers{
		Import:   NewImportHandler(svc.Import),
		Order:    NewOrderHandler(repos.Order),
		Catalog:  NewCatalogHandler(repos.Catalog),
		Material: NewMaterialHandler(svc.Material),
		Print:    NewPrintHandler(svc.Print),
		Settings: NewSettingsHandler(svc.Settings),
	}
}

// Response is the uniform JSON envelope.
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// ListResponse wraps a paginated collection.
type ListResponse struct {
	Items      interface{} `json:"items"`
	Pagination *Pagination `json:"pagination"`
}

type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

func Success(c *gin.Context, data interface{}) {
	c.JSON(200, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

func Created(c *gin.Context, data interface{}) {
	c.JSON(201, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

// Error maps the 5-digit business code onto the HTTP status.
func Error(c *gin.Context, code int, message string) {
	statusCode := code / 100
	if statusCode < 100 || statusCode > 599 {
		statusCode = 500
	}
	c.JSON(statusCode, Response{
		Code:    code,
		Message: message,
	})
}

func BadRequest(c *gin.Context, message string) {
	Error(c, 40000, message)
}

func NotFound(c *gin.Context, message string) {
	Error(c, 40400, message)
}

func InternalError(c *gin.Context, message string) {
	Error(c, 50000, message)
}

// GetPagination reads page/page_size query params with sane bounds.
func GetPagination(c *gin.Context) (page, pageSize int) {
	page = 1
	pageSize = 20

	if p := c.Query("page"); p != "" {
		if v, err := strconv.Atoi(p); err == nil && v > 0 {
			page = v
		}
	}

	if ps := c.Query("page_size"); ps != "" {
		if v, err := strconv.Atoi(ps); err == nil && v > 0 && v <= 100 {
			pageSize = v
		}
	}

	return page, pageSize
}
