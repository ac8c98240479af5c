package pdfboundary

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/localrag/go-localrag/embedding"
)

type PdfboundaryTestSuite struct {
	suite.Suite
}

func TestPdfboundaryTestSuite(t *testing.T) {
	suite.Run(t, new(PdfboundaryTestSuite))
}

func page(text string, y float64) Page {
	return Page{Items: []PositionedText{{Text: text, X: 0, Y: y, FontSize: 10}}}
}

func (s *PdfboundaryTestSuite) TestFewerThanMinPagesSkipsFiltering() {
	pages := []Page{page("Header. Body one.", 100), page("Header. Body two.", 100)}
	out, err := Filter(context.Background(), pages, embedding.NewMockModel([]float64{1, 0}))
	s.Require().NoError(err)
	s.Contains(out, "Header")
}

func (s *PdfboundaryTestSuite) TestRepeatingHeaderStripped() {
	model := embedding.NewMockModel([]float64{1, 0})
	var pages []Page
	for i := 0; i < 5; i++ {
		pages = append(pages, page("Repeating header. Unique body content here.", 100))
	}
	out, err := Filter(context.Background(), pages, model)
	s.Require().NoError(err)
	s.NotContains(out, "Repeating header")
}

func (s *PdfboundaryTestSuite) TestSampleIndicesCentered() {
	idx := sampleIndices(11, 5)
	s.Equal([]int{3, 4, 5, 6, 7}, idx)
}

func (s *PdfboundaryTestSuite) TestSampleIndicesClampedWhenFewerThanCount() {
	idx := sampleIndices(3, 5)
	s.Equal([]int{0, 1, 2}, idx)
}
