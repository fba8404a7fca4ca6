package acquire

import (
	"bytes"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/rotisserie/eris"

	"github.com/verdantlabs/carbonpeer/model"
)

// extractPDFPages parses the document and returns per-page plain text.
// Pages with no extractable text are omitted so scanned-image filler
// never reaches the chunker.
func extractPDFPages(data []byte) ([]model.Page, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, eris.Wrap(err, "acquire: parse pdf")
	}

	var pages []model.Page
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			// skip pages the parser cannot decode
			continue
		}
		if strings.TrimSpace(text) == "" {
			continue
		}
		pages = append(pages, model.Page{Number: i, Text: text})
	}
	return pages, nil
}
