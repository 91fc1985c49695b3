package importer

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/text/encoding/charmap"

	"github.com/mqsfps1-maker/ecomflow/internal/expedicao/entity"
	"github.com/mqsfps1-maker/ecomflow/internal/expedicao/sku"
)

var ErrNoProductNodes = errors.New("o XML não contém itens <prod>")

// nfeUnits maps NFe commercial unit codes onto catalog units.
var nfeUnits = map[string]string{
	"KG":   "kg",
	"UN":   "un",
	"UND":  "un",
	"UNID": "un",
	"PC":   "un",
	"M":    "m",
	"MT":   "m",
	"MTS":  "m",
	"L":    "L",
	"LT":   "L",
}

// xmlNode is a minimal document tree. NFe files in the wild carry or omit
// namespace prefixes freely, so lookups go by local name only.
type xmlNode struct {
	name     string
	text     string
	children []*xmlNode
}

func parseXMLTree(data []byte) (*xmlNode, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.CharsetReader = func(charset string, input io.Reader) (io.Reader, error) {
		switch strings.ToLower(charset) {
		case "iso-8859-1", "latin1", "windows-1252":
			return charmap.ISO8859_1.NewDecoder().Reader(input), nil
		}
		return input, nil
	}

	root := &xmlNode{}
	stack := []*xmlNode{root}
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			node := &xmlNode{name: t.Name.Local}
			parent := stack[len(stack)-1]
			parent.children = append(parent.children, node)
			stack = append(stack, node)
		case xml.EndElement:
			if len(stack) > 1 {
				stack = stack[:len(stack)-1]
			}
		case xml.CharData:
			stack[len(stack)-1].text += string(t)
		}
	}
	if len(root.children) == 0 {
		return nil, errors.New("documento XML vazio")
	}
	return root, nil
}

// find returns the first node with the given local name, depth first.
func (n *xmlNode) find(name string) *xmlNode {
	for _, c := range n.children {
		if c.name == name {
			return c
		}
		if found := c.find(name); found != nil {
			return found
		}
	}
	return nil
}

func (n *xmlNode) findAll(name string) []*xmlNode {
	var out []*xmlNode
	for _, c := range n.children {
		if c.name == name {
			out = append(out, c)
		}
		out = append(out, c.findAll(name)...)
	}
	return out
}

func (n *xmlNode) childText(name string) string {
	if c := n.find(name); c != nil {
		return strings.TrimSpace(c.text)
	}
	return ""
}

// nfeFloat parses an NFe numeric field. The schema mandates a plain dot
// decimal, so no thousands-separator guessing applies here.
func nfeFloat(s string) float64 {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", "."))
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

// ParseStockXML extracts stock-receipt items from one NFe document, one per
// <prod> node. This is the strict entry point: malformed documents and
// documents without product nodes are errors.
func ParseStockXML(data []byte) ([]entity.StockReceiptItem, error) {
	root, err := parseXMLTree(data)
	if err != nil {
		return nil, fmt.Errorf("XML inválido: %w", err)
	}

	prods := root.findAll("prod")
	if len(prods) == 0 {
		return nil, ErrNoProductNodes
	}

	items := make([]entity.StockReceiptItem, 0, len(prods))
	for _, p := range prods {
		unit, ok := nfeUnits[strings.ToUpper(p.childText("uCom"))]
		if !ok {
			unit = "un"
		}
		items = append(items, entity.StockReceiptItem{
			Code:     strings.ToUpper(p.childText("cProd")),
			Name:     p.childText("xProd"),
			Quantity: nfeFloat(p.childText("qCom")),
			Unit:     unit,
		})
	}
	return items, nil
}

// ParseSalesXML synthesizes order items from one sales NFe. This is the
// lenient entry point used for batches: malformed documents or documents
// missing the invoice number resolve to an empty list, never an error.
func ParseSalesXML(data []byte) []entity.OrderItem {
	root, err := parseXMLTree(data)
	if err != nil {
		return nil
	}

	orderID := strings.TrimSpace(root.childText("nNF"))
	if orderID == "" {
		return nil
	}

	date := root.childText("dhEmi")
	if date == "" {
		date = root.childText("dEmi")
	}
	if len(date) >= 10 {
		date = NormalizeDate(date[:10])
	} else {
		date = NormalizeDate(date)
	}

	var customerName, customerDoc string
	if dest := root.find("dest"); dest != nil {
		customerName = dest.childText("xNome")
		customerDoc = dest.childText("CPF")
		if customerDoc == "" {
			customerDoc = dest.childText("CNPJ")
		}
	}

	var orders []entity.OrderItem
	for _, det := range root.findAll("det") {
		prod := det.find("prod")
		if prod == nil {
			continue
		}
		rawSKU := strings.ToUpper(prod.childText("cProd"))
		qty := nfeFloat(prod.childText("qCom"))
		if rawSKU == "" || qty <= 0 {
			continue
		}

		gross := nfeFloat(prod.childText("vProd"))
		freight := nfeFloat(prod.childText("vFrete"))
		mult := sku.Multiplicador(rawSKU)

		orders = append(orders, entity.OrderItem{
			ID:              uuid.New().String(),
			OrderID:         strings.ToUpper(orderID),
			SKU:             rawSKU,
			QtyOriginal:     qty,
			Multiplicador:   mult,
			QtyFinal:        int(math.Round(qty * float64(mult))),
			Color:           sku.ClassificarCor(rawSKU),
			Canal:           entity.CanalSite,
			Data:            date,
			Status:          entity.StatusBipado, // site NFe imports are fulfilled history
			CustomerName:    customerName,
			CustomerCpfCnpj: customerDoc,

			PriceTotal:             gross + freight,
			PriceGross:             gross,
			PriceNet:               gross,
			ShippingPaidByCustomer: freight,
		})
	}
	return orders
}
