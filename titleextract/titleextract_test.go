package titleextract

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/localrag/go-localrag/parse"
	"github.com/localrag/go-localrag/pdfboundary"
)

type TitleextractTestSuite struct {
	suite.Suite
}

func TestTitleextractTestSuite(t *testing.T) {
	suite.Run(t, new(TitleextractTestSuite))
}

func (s *TitleextractTestSuite) TestMarkdownFrontmatterWins() {
	text := "---\ntitle: From Frontmatter\n---\n\n# A Heading\n"
	title, src := Extract("/docs/report.md", ".md", parse.Result{Text: text})
	s.Equal("From Frontmatter", title)
	s.Equal(SourceMetadata, src)
}

func (s *TitleextractTestSuite) TestMarkdownFallsBackToH1() {
	text := "no frontmatter here\n\n# A Heading\nbody\n"
	title, src := Extract("/docs/report.md", ".md", parse.Result{Text: text})
	s.Equal("A Heading", title)
	s.Equal(SourceContent, src)
}

func (s *TitleextractTestSuite) TestMarkdownFallsBackToFilename() {
	title, src := Extract("/docs/my-report_final.md", ".md", parse.Result{Text: "just body text"})
	s.Equal("my report final", title)
	s.Equal(SourceFilename, src)
}

func (s *TitleextractTestSuite) TestPlainTextFirstLineNeedsBlankFollower() {
	title, src := Extract("/docs/notes.txt", ".txt", parse.Result{Text: "Title Line\n\nbody text\n"})
	s.Equal("Title Line", title)
	s.Equal(SourceContent, src)
}

func (s *TitleextractTestSuite) TestPlainTextNoBlankLineFallsBackToFilename() {
	title, src := Extract("/docs/notes.txt", ".txt", parse.Result{Text: "Title Line\nbody text\n"})
	s.Equal("notes", title)
	s.Equal(SourceFilename, src)
}

func (s *TitleextractTestSuite) TestPDFRejectsTitleContainingSlash() {
	title, src := Extract("/docs/doc.pdf", ".pdf", parse.Result{PDFInfoTitle: "a/b"})
	s.Equal(SourceFilename, src)
	s.Equal("doc", title)
}

func (s *TitleextractTestSuite) TestPDFFallsBackToLargestFont() {
	items := []pdfboundary.PositionedText{
		{Text: "small", FontSize: 10},
		{Text: "BIG TITLE", FontSize: 24},
	}
	title, src := Extract("/docs/doc.pdf", ".pdf", parse.Result{PDFFirstPageItems: items})
	s.Equal("BIG TITLE", title)
	s.Equal(SourceContent, src)
}

func (s *TitleextractTestSuite) TestHTMLUsesReadabilityTitle() {
	title, src := Extract("/docs/page.html", ".html", parse.Result{HTMLTitle: "  Page Title  "})
	s.Equal("Page Title", title)
	s.Equal(SourceMetadata, src)
}

func (s *TitleextractTestSuite) TestDocxUsesFirstHeading() {
	title, src := Extract("/docs/report.docx", ".docx", parse.Result{DocxFirstHeading: "Quarterly Report"})
	s.Equal("Quarterly Report", title)
	s.Equal(SourceContent, src)
}
