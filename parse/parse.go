// Package parse implements the format dispatch of §4.4 step 3: turn a
// file's raw bytes into plain text, keyed off its extension.
package parse

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/localrag/go-localrag/embedding"
	"github.com/localrag/go-localrag/ragerr"
)

// Result is a parsed file: its text body plus whatever the parser could
// recover toward title extraction (§4.6).
type Result struct {
	Text string
	// PDFInfoTitle is set only for PDF files, from the /Title metadata key.
	PDFInfoTitle string
	// PDFFirstPageItems is set only for PDF files, the positioned text
	// items of page 1, for the largest-font-text title fallback.
	PDFFirstPageItems []PositionedText
	// DocxFirstHeading is set only for DOCX files whose first heading-
	// styled paragraph was found.
	DocxFirstHeading string
	// HTMLTitle is set only for HTML files, from readability's title.
	HTMLTitle string
}

// File dispatches on filePath's extension and parses its content.
func File(ctx context.Context, filePath string, embedder embedding.Model) (Result, error) {
	ext := strings.ToLower(filepath.Ext(filePath))
	switch ext {
	case ".pdf":
		return parsePDF(ctx, filePath, embedder)
	case ".docx":
		return parseDocx(filePath)
	case ".txt", ".md", ".markdown":
		return parseText(filePath)
	case ".json":
		return parseJSON(filePath)
	case ".html", ".htm":
		return parseHTML(filePath)
	default:
		return Result{}, ragerr.New(ragerr.Validation, "unsupported file extension: "+ext)
	}
}

func readFile(filePath string) ([]byte, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, ragerr.Wrap(ragerr.FileOperation, filePath, "failed to read file", err)
	}
	return data, nil
}

func parseText(filePath string) (Result, error) {
	data, err := readFile(filePath)
	if err != nil {
		return Result{}, err
	}
	return Result{Text: string(data)}, nil
}
