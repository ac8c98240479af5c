package parse

import (
	"context"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/localrag/go-localrag/embedding"
	"github.com/localrag/go-localrag/pdfboundary"
	"github.com/localrag/go-localrag/ragerr"
)

// PositionedText mirrors pdfboundary.PositionedText; kept as a distinct
// name here so this file reads independently of the pdfboundary package.
type PositionedText = pdfboundary.PositionedText

func parsePDF(ctx context.Context, filePath string, embedder embedding.Model) (Result, error) {
	f, reader, err := pdf.Open(filePath)
	if err != nil {
		return Result{}, ragerr.Wrap(ragerr.FileOperation, filePath, "failed to open PDF", err)
	}
	defer f.Close()

	numPages := reader.NumPage()
	if numPages == 0 {
		return Result{}, ragerr.New(ragerr.FileOperation, "PDF has no pages")
	}

	pages := make([]pdfboundary.Page, 0, numPages)
	var firstPageItems []PositionedText

	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		content := page.Content()
		items := make([]PositionedText, 0, len(content.Text))
		for _, t := range content.Text {
			items = append(items, PositionedText{
				Text:     t.S,
				X:        t.X,
				Y:        t.Y,
				FontSize: t.FontSize,
			})
		}
		if i == 1 {
			firstPageItems = items
		}
		pages = append(pages, pdfboundary.Page{Items: items})
	}

	cleaned, err := pdfboundary.Filter(ctx, pages, embedder)
	if err != nil {
		return Result{}, err
	}

	title := extractPDFTitle(reader)

	return Result{
		Text:              cleaned,
		PDFInfoTitle:      title,
		PDFFirstPageItems: firstPageItems,
	}, nil
}

// extractPDFTitle reads the document /Title key from the trailer's Info
// dictionary, rejected later (§4.6) if empty/whitespace or path-shaped.
func extractPDFTitle(reader *pdf.Reader) string {
	trailer := reader.Trailer()
	if trailer.IsNull() {
		return ""
	}
	info := trailer.Key("Info")
	if info.IsNull() {
		return ""
	}
	title := info.Key("Title")
	if title.IsNull() {
		return ""
	}
	return strings.TrimSpace(title.Text())
}
