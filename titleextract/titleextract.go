// Package titleextract implements the Title Extractor (§4.6): a
// rule-based, per-format precedence chain that always terminates at a
// filename-derived title. The result is strictly display-only and must
// never influence chunking, embedding, or scoring.
package titleextract

import (
	"bufio"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/localrag/go-localrag/parse"
	"github.com/localrag/go-localrag/pdfboundary"
)

// Source identifies where a title came from, for telemetry only.
type Source string

const (
	SourceMetadata Source = "metadata"
	SourceContent  Source = "content"
	SourceFilename Source = "filename"
)

// Extract applies §4.6's precedence table for the given extension.
func Extract(filePath string, ext string, result parse.Result) (string, Source) {
	switch strings.ToLower(ext) {
	case ".md", ".markdown":
		if t := frontmatterTitle(result.Text); t != "" {
			return t, SourceMetadata
		}
		if t := firstH1(result.Text); t != "" {
			return t, SourceContent
		}
	case ".txt":
		if t := firstLineFollowedByBlank(result.Text); t != "" {
			return t, SourceContent
		}
	case ".html", ".htm":
		if t := strings.TrimSpace(result.HTMLTitle); t != "" {
			return t, SourceMetadata
		}
	case ".pdf":
		if t := result.PDFInfoTitle; t != "" && validPDFTitle(t) {
			return t, SourceMetadata
		}
		if t := largestFontText(result.PDFFirstPageItems); t != "" {
			return t, SourceContent
		}
	case ".docx":
		if t := strings.TrimSpace(result.DocxFirstHeading); t != "" {
			return t, SourceContent
		}
	}
	return fromFilename(filePath), SourceFilename
}

func fromFilename(filePath string) string {
	base := filepath.Base(filePath)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	base = strings.ReplaceAll(base, "-", " ")
	base = strings.ReplaceAll(base, "_", " ")
	return base
}

var frontmatterRe = regexp.MustCompile(`(?s)^---\n(.*?)\n---`)

func frontmatterTitle(text string) string {
	m := frontmatterRe.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	var fm struct {
		Title string `yaml:"title"`
	}
	if err := yaml.Unmarshal([]byte(m[1]), &fm); err != nil {
		return ""
	}
	return strings.TrimSpace(fm.Title)
}

var h1Re = regexp.MustCompile(`(?m)^#\s+(.+)$`)

func firstH1(text string) string {
	m := h1Re.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}

func firstLineFollowedByBlank(text string) string {
	scanner := bufio.NewScanner(strings.NewReader(text))
	var first string
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Text()
		if lineNum == 1 {
			if strings.TrimSpace(line) == "" {
				return ""
			}
			first = strings.TrimSpace(line)
			continue
		}
		if lineNum == 2 {
			if strings.TrimSpace(line) == "" {
				return first
			}
			return ""
		}
	}
	return ""
}

func validPDFTitle(title string) bool {
	trimmed := strings.TrimSpace(title)
	if trimmed == "" {
		return false
	}
	return !strings.ContainsAny(trimmed, "/\\")
}

func largestFontText(items []pdfboundary.PositionedText) string {
	if len(items) == 0 {
		return ""
	}
	var best pdfboundary.PositionedText
	for _, it := range items {
		if it.FontSize > best.FontSize {
			best = it
		}
	}
	return strings.TrimSpace(best.Text)
}
