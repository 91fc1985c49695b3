package handler

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func postJSON(t *testing.T, body string) (*httptest.ResponseRecorder, *gin.Context) {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("POST", "/", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	return w, c
}

func TestSaveLinkRejectsInvalidBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewCatalogHandler(nil)

	cases := []string{
		`{`,
		`{"imported_sku":"ABC-123"}`,
		`{"master_sku":"MASTER"}`,
	}
	for _, body := range cases {
		w, c := postJSON(t, body)
		h.SaveLink(c)
		if w.Code != 400 {
			t.Errorf("corpo %q: status = %d, esperado 400", body, w.Code)
		}
	}
}

func TestSaveCompositeRejectsBadRecipe(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewCatalogHandler(nil)

	cases := []string{
		`{"product_sku":"KIT"}`,
		`{"product_sku":"KIT","items":[]}`,
		`{"product_sku":"KIT","items":[{"stock_item_code":"","qty_per_pack":1}]}`,
		`{"product_sku":"KIT","items":[{"stock_item_code":"COLA","qty_per_pack":0}]}`,
	}
	for _, body := range cases {
		w, c := postJSON(t, body)
		h.SaveComposite(c)
		if w.Code != 400 {
			t.Errorf("corpo %q: status = %d, esperado 400", body, w.Code)
		}
	}
}

func TestCreateStockItemRejectsUnknownKind(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewCatalogHandler(nil)

	w, c := postJSON(t, `{"code":"tubo-p","name":"Tubo P","kind":"MAGICO"}`)
	h.CreateStockItem(c)
	if w.Code != 400 {
		t.Errorf("status = %d, esperado 400", w.Code)
	}
}

func TestUpdateStockItemRejectsUnknownKind(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewCatalogHandler(nil)

	w, c := postJSON(t, `{"kind":"MAGICO"}`)
	h.UpdateStockItem(c)
	if w.Code != 400 {
		t.Errorf("status = %d, esperado 400", w.Code)
	}
}
