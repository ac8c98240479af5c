package parse

import (
	"net/url"
	"os"
	"strings"

	readability "github.com/go-shiori/go-readability"
	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"

	"github.com/localrag/go-localrag/ragerr"
)

func parseHTML(filePath string) (Result, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return Result{}, ragerr.Wrap(ragerr.FileOperation, filePath, "failed to open HTML file", err)
	}
	defer f.Close()

	article, err := readability.FromReader(f, &url.URL{})
	if err != nil {
		return Result{}, ragerr.Wrap(ragerr.FileOperation, filePath, "failed to extract main content", err)
	}

	markdown, err := ConvertHTMLToMarkdown(article.Content)
	if err != nil {
		return Result{}, ragerr.Wrap(ragerr.FileOperation, filePath, "failed to convert content to markdown", err)
	}

	return Result{Text: markdown, HTMLTitle: strings.TrimSpace(article.Title)}, nil
}

// ConvertHTMLToMarkdown converts an HTML fragment to Markdown; shared by
// ingestFile's HTML dispatch, which passes readability's main content, and
// ingestData's format=="html" path, which passes the caller's HTML as is
// (§4.4).
func ConvertHTMLToMarkdown(html string) (string, error) {
	if strings.TrimSpace(html) == "" {
		return "", ragerr.New(ragerr.FileOperation, "no extractable content")
	}
	return htmltomarkdown.ConvertString(html)
}
