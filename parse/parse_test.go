package parse

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/suite"
)

type ParseTestSuite struct {
	suite.Suite
}

func TestParseTestSuite(t *testing.T) {
	suite.Run(t, new(ParseTestSuite))
}

func (s *ParseTestSuite) TestFlattenJSONPrimitiveArray() {
	var lines []string
	flattenJSON("tags", []interface{}{"a", "b", "c"}, &lines)
	s.Equal([]string{"tags: a, b, c"}, lines)
}

func (s *ParseTestSuite) TestFlattenJSONObjectArrayIndexed() {
	var lines []string
	flattenJSON("items", []interface{}{
		map[string]interface{}{"name": "x"},
	}, &lines)
	s.Equal([]string{"items[0].name: x"}, lines)
}

func (s *ParseTestSuite) TestFlattenJSONEmptyObject() {
	var lines []string
	flattenJSON("meta", map[string]interface{}{}, &lines)
	s.Equal([]string{"meta: "}, lines)
}

func (s *ParseTestSuite) TestFlattenJSONNestedKeyPath() {
	var lines []string
	flattenJSON("", map[string]interface{}{
		"a": map[string]interface{}{"b": "c"},
	}, &lines)
	s.Equal([]string{"a.b: c"}, lines)
}

func (s *ParseTestSuite) TestParseJSONFile() {
	dir := s.T().TempDir()
	path := filepath.Join(dir, "doc.json")
	s.Require().NoError(os.WriteFile(path, []byte(`{"title":"hi","tags":["x","y"]}`), 0o644))

	result, err := parseJSON(path)
	s.Require().NoError(err)
	s.Contains(result.Text, "tags: x, y")
	s.Contains(result.Text, "title: hi")
}

func (s *ParseTestSuite) TestParseTextReadsRawBytes() {
	dir := s.T().TempDir()
	path := filepath.Join(dir, "note.txt")
	s.Require().NoError(os.WriteFile(path, []byte("hello there"), 0o644))

	result, err := parseText(path)
	s.Require().NoError(err)
	s.Equal("hello there", result.Text)
}

func (s *ParseTestSuite) TestDocxFallbackExtractsRunText() {
	text := extractTextFallback([]byte(`<w:p><w:r><w:t>Hello</w:t></w:r><w:r><w:t>World</w:t></w:r></w:p>`))
	s.Equal("Hello World", text)
}

func (s *ParseTestSuite) TestParseDocumentXMLExtractsParagraphAndTable() {
	doc := []byte(`<w:document>
		<w:body>
			<w:p>
				<w:pPr><w:pStyle w:val="Heading1"/></w:pPr>
				<w:r><w:t>Title</w:t></w:r>
			</w:p>
			<w:p><w:r><w:t>Body text</w:t></w:r></w:p>
			<w:tbl>
				<w:tr>
					<w:tc><w:p><w:r><w:t>A1</w:t></w:r></w:p></w:tc>
					<w:tc><w:p><w:r><w:t>B1</w:t></w:r></w:p></w:tc>
				</w:tr>
			</w:tbl>
		</w:body>
	</w:document>`)

	text, heading := parseDocumentXML(doc)
	s.Equal("Title", heading)
	s.Contains(text, "Title")
	s.Contains(text, "Body text")
	s.Contains(text, "A1 | B1")
}
