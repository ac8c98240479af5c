package query

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/localrag/go-localrag/embedding"
	"github.com/localrag/go-localrag/rawdata"
	"github.com/localrag/go-localrag/schema"
)

type fakeSearcher struct {
	results []schema.SearchResult
	lastQ   string
	lastLim int
}

func (f *fakeSearcher) Search(ctx context.Context, queryVector []float64, queryText string, limit int) ([]schema.SearchResult, error) {
	f.lastQ = queryText
	f.lastLim = limit
	return f.results, nil
}

type QueryTestSuite struct {
	suite.Suite
}

func TestQueryTestSuite(t *testing.T) {
	suite.Run(t, new(QueryTestSuite))
}

func (s *QueryTestSuite) TestDefaultLimitAppliedWhenZero() {
	searcher := &fakeSearcher{}
	coord := NewCoordinator(searcher, embedding.NewMockModel([]float64{1, 0}), "/db")
	_, err := coord.QueryDocuments(context.Background(), "hello", 0)
	s.Require().NoError(err)
	s.Equal(defaultLimit, searcher.lastLim)
}

func (s *QueryTestSuite) TestRawDataSourceReconstructed() {
	source := rawdata.NormalizeSource("https://example.com/a?x=1")
	path := rawdata.Path("/db", source)

	searcher := &fakeSearcher{results: []schema.SearchResult{{FilePath: path, Text: "t"}}}
	coord := NewCoordinator(searcher, embedding.NewMockModel([]float64{1, 0}), "/db")

	results, err := coord.QueryDocuments(context.Background(), "hello", 5)
	s.Require().NoError(err)
	s.Require().Len(results, 1)
	s.Require().NotNil(results[0].Source)
	s.Equal(source, *results[0].Source)
}

func (s *QueryTestSuite) TestNonRawDataPathLeavesSourceNil() {
	searcher := &fakeSearcher{results: []schema.SearchResult{{FilePath: "/docs/report.pdf"}}}
	coord := NewCoordinator(searcher, embedding.NewMockModel([]float64{1, 0}), "/db")

	results, err := coord.QueryDocuments(context.Background(), "hello", 5)
	s.Require().NoError(err)
	s.Nil(results[0].Source)
}
