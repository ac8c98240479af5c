package vectorstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/localrag/go-localrag/schema"
)

type StoreTestSuite struct {
	suite.Suite
	store *Store
}

func (s *StoreTestSuite) SetupTest() {
	store, err := Open(s.T().TempDir(), Config{HybridWeight: 0.6})
	s.Require().NoError(err)
	s.store = store
}

func (s *StoreTestSuite) TearDownTest() {
	s.store.Close()
}

func chunk(filePath string, idx int, text string, vec []float64) schema.Chunk {
	return schema.Chunk{
		ID:         filePath + "#" + time.Now().String() + "#" + string(rune('0'+idx)),
		FilePath:   filePath,
		ChunkIndex: idx,
		Text:       text,
		Vector:     vec,
		Metadata:   schema.Metadata{FileName: "f", FileType: "txt"},
		Timestamp:  time.Now(),
	}
}

func (s *StoreTestSuite) TestInsertThenListFiles() {
	ctx := context.Background()
	chunks := []schema.Chunk{
		chunk("/a.txt", 0, "hello world", []float64{1, 0, 0}),
		chunk("/a.txt", 1, "second chunk", []float64{0, 1, 0}),
	}
	s.Require().NoError(s.store.InsertChunks(ctx, chunks))

	files := s.store.ListFiles()
	s.Require().Len(files, 1)
	s.Equal("/a.txt", files[0].FilePath)
	s.Equal(2, files[0].ChunkCount)
}

func (s *StoreTestSuite) TestEmptyInsertIsNoop() {
	s.Require().NoError(s.store.InsertChunks(context.Background(), nil))
	s.Empty(s.store.ListFiles())
}

func (s *StoreTestSuite) TestDeleteNonexistentFileIsNoop() {
	s.Require().NoError(s.store.DeleteChunks(context.Background(), "/never.txt"))
}

func (s *StoreTestSuite) TestDeleteRemovesFromListing() {
	ctx := context.Background()
	s.Require().NoError(s.store.InsertChunks(ctx, []schema.Chunk{
		chunk("/b.txt", 0, "content", []float64{1, 0, 0}),
	}))
	s.Require().NoError(s.store.DeleteChunks(ctx, "/b.txt"))
	s.Empty(s.store.ListFiles())
}

func (s *StoreTestSuite) TestSearchReturnsNearestFirst() {
	ctx := context.Background()
	s.Require().NoError(s.store.InsertChunks(ctx, []schema.Chunk{
		chunk("/near.txt", 0, "close match", []float64{1, 0, 0}),
		chunk("/far.txt", 0, "far match", []float64{0, 0, 1}),
	}))

	results, err := s.store.Search(ctx, []float64{1, 0, 0}, "", 10)
	s.Require().NoError(err)
	s.Require().NotEmpty(results)
	s.Equal("/near.txt", results[0].FilePath)
}

func (s *StoreTestSuite) TestSearchRejectsOutOfRangeLimit() {
	_, err := s.store.Search(context.Background(), []float64{1, 0, 0}, "", 0)
	s.Error(err)
	_, err = s.store.Search(context.Background(), []float64{1, 0, 0}, "", 21)
	s.Error(err)
}

func (s *StoreTestSuite) TestStatusReflectsIngestedData() {
	ctx := context.Background()
	s.Require().NoError(s.store.InsertChunks(ctx, []schema.Chunk{
		chunk("/c.txt", 0, "content", []float64{1, 0, 0}),
	}))
	status := s.store.Status()
	s.Equal(1, status.DocumentCount)
	s.Equal(1, status.ChunkCount)
	s.Equal(schema.SearchModeHybrid, status.SearchMode)
}

func TestStoreTestSuite(t *testing.T) {
	suite.Run(t, new(StoreTestSuite))
}
