package importer

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/mqsfps1-maker/ecomflow/internal/expedicao/entity"
)

// ExtractZipXML unwraps a ZIP archive and returns the contents of every
// non-directory entry ending in .xml. Other entries are ignored.
func ExtractZipXML(data []byte) ([][]byte, error) {
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("arquivo ZIP inválido: %w", err)
	}

	var docs [][]byte
	for _, f := range r.File {
		if f.FileInfo().IsDir() || !strings.HasSuffix(strings.ToLower(f.Name), ".xml") {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			continue
		}
		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			continue
		}
		docs = append(docs, content)
	}
	return docs, nil
}

// ParseSalesZip runs the lenient sales parser over every XML entry of a ZIP
// batch. Per-document failures are skipped silently; the batch succeeds with
// whatever parsed.
func ParseSalesZip(data []byte) ([]entity.OrderItem, error) {
	docs, err := ExtractZipXML(data)
	if err != nil {
		return nil, err
	}
	var orders []entity.OrderItem
	for _, doc := range docs {
		orders = append(orders, ParseSalesXML(doc)...)
	}
	return orders, nil
}
