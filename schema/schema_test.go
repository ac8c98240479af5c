package schema

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type SchemaTestSuite struct {
	suite.Suite
}

func TestSchemaTestSuite(t *testing.T) {
	suite.Run(t, new(SchemaTestSuite))
}

func (s *SchemaTestSuite) TestChunkFileTitleIsNullable() {
	c := Chunk{ID: "1", FilePath: "/a.txt", Timestamp: time.Now()}
	s.Nil(c.FileTitle)
	title := "A Title"
	c.FileTitle = &title
	s.Equal("A Title", *c.FileTitle)
}

func (s *SchemaTestSuite) TestSearchModeDerivation() {
	s.Equal(SearchMode("hybrid"), SearchModeHybrid)
	s.Equal(SearchMode("vector-only"), SearchModeVectorOnly)
}
