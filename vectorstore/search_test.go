package vectorstore

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/localrag/go-localrag/schema"
)

type SearchTestSuite struct {
	suite.Suite
}

func TestSearchTestSuite(t *testing.T) {
	suite.Run(t, new(SearchTestSuite))
}

func mkCandidate(path string, dist float64) candidate {
	return candidate{filePath: path, distance: dist, result: schema.SearchResult{FilePath: path, Score: dist}}
}

func (s *SearchTestSuite) TestFileFilterKeepsClosestFilesOnly() {
	candidates := []candidate{
		mkCandidate("/a.txt", 0.1),
		mkCandidate("/b.txt", 0.2),
		mkCandidate("/c.txt", 0.05),
		mkCandidate("/a.txt", 0.15),
	}
	out := fileFilter(candidates, 2)
	paths := make(map[string]bool)
	for _, c := range out {
		paths[c.filePath] = true
	}
	s.True(paths["/a.txt"])
	s.True(paths["/c.txt"])
	s.False(paths["/b.txt"])
}

func (s *SearchTestSuite) TestFileFilterNoopWhenUnderLimit() {
	candidates := []candidate{
		mkCandidate("/a.txt", 0.1),
		mkCandidate("/b.txt", 0.2),
	}
	out := fileFilter(candidates, 5)
	s.Len(out, 2)
}
