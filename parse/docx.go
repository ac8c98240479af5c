package parse

import (
	"archive/zip"
	"encoding/xml"
	"io"
	"regexp"
	"strings"

	"github.com/localrag/go-localrag/ragerr"
)

// docxDocument binds the root <w:document> element; its single <w:body>
// child is what actually carries the paragraph/table sequence.
type docxDocument struct {
	XMLName xml.Name `xml:"document"`
	Body    docxBody `xml:"body"`
}

type docxBody struct {
	Content []docxContent `xml:",any"`
}

// docxContent is one direct child of <w:body>: a <w:p> paragraph (Runs,
// Properties, Hyperlinks) or a <w:tbl> table (Rows), told apart by XMLName.
type docxContent struct {
	XMLName    xml.Name
	Runs       []docxRun       `xml:"r"`
	Properties *docxParaProps  `xml:"pPr"`
	Hyperlinks []docxHyperlink `xml:"hyperlink"`
	Rows       []docxTableRow  `xml:"tr"`
}

type docxParagraph struct {
	Runs       []docxRun       `xml:"r"`
	Properties *docxParaProps  `xml:"pPr"`
	Hyperlinks []docxHyperlink `xml:"hyperlink"`
}

type docxParaProps struct {
	Style *docxStyle `xml:"pStyle"`
}

type docxStyle struct {
	Val string `xml:"val,attr"`
}

type docxRun struct {
	Text []docxText `xml:"t"`
	Tab  []struct{} `xml:"tab"`
}

type docxText struct {
	Content string `xml:",chardata"`
}

type docxHyperlink struct {
	Runs []docxRun `xml:"r"`
}

type docxTable struct {
	Rows []docxTableRow `xml:"tr"`
}

type docxTableRow struct {
	Cells []docxTableCell `xml:"tc"`
}

type docxTableCell struct {
	Paragraphs []docxParagraph `xml:"p"`
}

// headingStyles are the pStyle values LibreOffice/Word use for a level-1
// heading; used to approximate "first <h1> in mammoth-equivalent HTML
// output" (§4.6) without an actual HTML conversion step.
var headingStyles = map[string]bool{"Heading1": true, "heading1": true, "Heading1Char": true}

func parseDocx(filePath string) (Result, error) {
	zr, err := zip.OpenReader(filePath)
	if err != nil {
		return Result{}, ragerr.Wrap(ragerr.FileOperation, filePath, "failed to open DOCX", err)
	}
	defer zr.Close()

	var documentXML []byte
	for _, file := range zr.File {
		if file.Name == "word/document.xml" {
			rc, err := file.Open()
			if err != nil {
				return Result{}, ragerr.Wrap(ragerr.FileOperation, filePath, "failed to read document.xml", err)
			}
			documentXML, err = io.ReadAll(rc)
			rc.Close()
			if err != nil {
				return Result{}, ragerr.Wrap(ragerr.FileOperation, filePath, "failed to read document.xml", err)
			}
			break
		}
	}
	if documentXML == nil {
		return Result{}, ragerr.New(ragerr.FileOperation, "document.xml not found in DOCX")
	}

	text, heading := parseDocumentXML(documentXML)
	return Result{Text: text, DocxFirstHeading: heading}, nil
}

func parseDocumentXML(content []byte) (string, string) {
	var doc docxDocument
	if err := xml.Unmarshal(content, &doc); err != nil {
		return extractTextFallback(content), ""
	}

	var textParts []string
	var heading string

	for _, c := range doc.Body.Content {
		switch c.XMLName.Local {
		case "p":
			para := docxParagraph{Runs: c.Runs, Properties: c.Properties, Hyperlinks: c.Hyperlinks}
			text := extractParagraphText(&para)
			if text == "" {
				continue
			}
			if heading == "" && para.Properties != nil && para.Properties.Style != nil && headingStyles[para.Properties.Style.Val] {
				heading = text
			}
			textParts = append(textParts, text)
		case "tbl":
			tbl := docxTable{Rows: c.Rows}
			if t := extractTableText(&tbl); t != "" {
				textParts = append(textParts, t)
			}
		}
	}

	return strings.Join(textParts, "\n\n"), heading
}

func extractParagraphText(para *docxParagraph) string {
	var parts []string
	for _, run := range para.Runs {
		for _, t := range run.Text {
			if t.Content != "" {
				parts = append(parts, t.Content)
			}
		}
		for range run.Tab {
			parts = append(parts, "\t")
		}
	}
	for _, link := range para.Hyperlinks {
		for _, run := range link.Runs {
			for _, t := range run.Text {
				if t.Content != "" {
					parts = append(parts, t.Content)
				}
			}
		}
	}
	return strings.TrimSpace(strings.Join(parts, ""))
}

func extractTableText(tbl *docxTable) string {
	var rows []string
	for _, row := range tbl.Rows {
		var cells []string
		for _, cell := range row.Cells {
			var cellText []string
			for _, para := range cell.Paragraphs {
				if t := extractParagraphText(&para); t != "" {
					cellText = append(cellText, t)
				}
			}
			cells = append(cells, strings.Join(cellText, " "))
		}
		if len(cells) > 0 {
			rows = append(rows, strings.Join(cells, " | "))
		}
	}
	return strings.Join(rows, "\n")
}

var docxTextRegex = regexp.MustCompile(`<w:t[^>]*>([^<]*)</w:t>`)

func extractTextFallback(content []byte) string {
	matches := docxTextRegex.FindAllSubmatch(content, -1)
	parts := make([]string, 0, len(matches))
	for _, m := range matches {
		if len(m) > 1 && len(m[1]) > 0 {
			parts = append(parts, string(m[1]))
		}
	}
	return strings.Join(parts, " ")
}
