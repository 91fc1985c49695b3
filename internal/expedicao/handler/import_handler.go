package handler

import (
	"errors"
	"io"

	"github.com/gin-gonic/gin"
	"github.com/mqsfps1-maker/ecomflow/internal/expedicao/importer"
	"github.com/mqsfps1-maker/ecomflow/internal/expedicao/service"
)

// 50 MB covers the largest marketplace exports seen in production.
const maxUploadBytes = 50 << 20

type ImportHandler struct {
	svc *service.ImportService
}

func NewImportHandler(svc *service.ImportService) *ImportHandler {
	return &ImportHandler{svc: svc}
}

// Spreadsheet imports a sales export.
// POST /api/v1/imports/spreadsheet (multipart: file, import_cpf, import_name, canal)
func (h *ImportHandler) Spreadsheet(c *gin.Context) {
	data, filename, ok := readUpload(c)
	if !ok {
		return
	}
	opts := importer.Options{
		ImportCPF:   c.PostForm("import_cpf") == "true",
		ImportName:  c.PostForm("import_name") == "true",
		ForcedCanal: c.PostForm("canal"),
	}

	result, err := h.svc.ImportSpreadsheet(c.Request.Context(), data, filename, opts)
	if err != nil {
		if errors.Is(err, importer.ErrEmptySheet) || errors.Is(err, importer.ErrNoValidRows) {
			BadRequest(c, err.Error())
			return
		}
		InternalError(c, "falha ao importar planilha: "+err.Error())
		return
	}
	Success(c, result)
}

// NFe imports a single NFe document: strict stock receipt by default,
// lenient sales mode on request.
// POST /api/v1/imports/nfe?mode=stock (default) | mode=sales
func (h *ImportHandler) NFe(c *gin.Context) {
	data, _, ok := readUpload(c)
	if !ok {
		return
	}

	if c.DefaultQuery("mode", "stock") == "sales" {
		orders, err := h.svc.ImportSalesNFe(c.Request.Context(), data)
		if err != nil {
			InternalError(c, "falha ao importar NFe de venda: "+err.Error())
			return
		}
		Success(c, gin.H{"orders": orders})
		return
	}

	items, err := h.svc.ImportStockNFe(c.Request.Context(), data)
	if err != nil {
		if errors.Is(err, importer.ErrNoProductNodes) {
			BadRequest(c, err.Error())
			return
		}
		BadRequest(c, "falha ao importar NFe de estoque: "+err.Error())
		return
	}
	Success(c, gin.H{"items": items})
}

// NFeZip imports a ZIP batch of sales NFes.
// POST /api/v1/imports/nfe-zip
func (h *ImportHandler) NFeZip(c *gin.Context) {
	data, _, ok := readUpload(c)
	if !ok {
		return
	}
	orders, err := h.svc.ImportSalesZip(c.Request.Context(), data)
	if err != nil {
		BadRequest(c, "falha ao importar lote ZIP: "+err.Error())
		return
	}
	Success(c, gin.H{"orders": orders})
}

func readUpload(c *gin.Context) ([]byte, string, bool) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		BadRequest(c, "arquivo não enviado")
		return nil, "", false
	}
	if fileHeader.Size > maxUploadBytes {
		BadRequest(c, "arquivo excede o tamanho máximo permitido")
		return nil, "", false
	}
	file, err := fileHeader.Open()
	if err != nil {
		InternalError(c, "falha ao abrir o arquivo enviado")
		return nil, "", false
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		InternalError(c, "falha ao ler o arquivo enviado")
		return nil, "", false
	}
	return data, fileHeader.Filename, true
}
