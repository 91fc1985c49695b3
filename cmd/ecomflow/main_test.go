package main

import (
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/mqsfps1-maker/ecomflow/internal/config"
	"github.com/mqsfps1-maker/ecomflow/internal/expedicao/handler"
)

func TestRegisterRoutesExposesAPISurface(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	registerRoutes(r, &handler.Handlers{}, &config.Config{})

	registered := make(map[string]bool)
	for _, route := range r.Routes() {
		registered[route.Method+" "+route.Path] = true
	}

	want := []string{
		"POST /api/v1/imports/spreadsheet",
		"POST /api/v1/imports/nfe",
		"POST /api/v1/imports/nfe-zip",
		"GET /api/v1/orders",
		"PUT /api/v1/orders/:id/status",
		"GET /api/v1/catalog/links",
		"POST /api/v1/catalog/links",
		"DELETE /api/v1/catalog/links/:id",
		"GET /api/v1/catalog/boms",
		"PUT /api/v1/catalog/boms",
		"GET /api/v1/catalog/stock-items",
		"POST /api/v1/catalog/stock-items",
		"PUT /api/v1/catalog/stock-items/:code",
		"GET /api/v1/materials/requirements",
		"POST /api/v1/print/jobs",
		"GET /api/v1/print/jobs/:id",
		"GET /api/v1/print/jobs/:id/events",
		"GET /api/v1/print/history",
		"GET /api/v1/settings/:key",
		"PUT /api/v1/settings/:key",
	}
	for _, route := range want {
		if !registered[route] {
			t.Errorf("rota não registrada: %s", route)
		}
	}
}
