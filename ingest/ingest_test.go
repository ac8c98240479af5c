package ingest

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/localrag/go-localrag/chunker"
	"github.com/localrag/go-localrag/embedding"
	"github.com/localrag/go-localrag/schema"
)

type fakeReplacer struct {
	lastPath   string
	lastChunks []schema.Chunk
}

func (f *fakeReplacer) ReplaceFile(ctx context.Context, filePath string, chunks []schema.Chunk) error {
	f.lastPath = filePath
	f.lastChunks = chunks
	return nil
}

type IngestTestSuite struct {
	suite.Suite
	baseDir string
}

func (s *IngestTestSuite) SetupTest() {
	s.baseDir = s.T().TempDir()
}

func TestIngestTestSuite(t *testing.T) {
	suite.Run(t, new(IngestTestSuite))
}

func (s *IngestTestSuite) TestIngestFileRejectsRelativePath() {
	store := &fakeReplacer{}
	model := embedding.NewMockModel([]float64{1, 0})
	ch := chunker.New(model)
	coord := NewCoordinator(store, model, ch, s.baseDir, s.baseDir, 1024)

	_, err := coord.IngestFile(context.Background(), "relative/path.txt")
	s.Error(err)
}

func (s *IngestTestSuite) TestIngestFileRejectsPathOutsideBaseDir() {
	store := &fakeReplacer{}
	model := embedding.NewMockModel([]float64{1, 0})
	ch := chunker.New(model)
	coord := NewCoordinator(store, model, ch, s.baseDir, s.baseDir, 1024)

	outside := filepath.Join(os.TempDir(), "elsewhere.txt")
	s.Require().NoError(os.WriteFile(outside, []byte("hi"), 0o644))
	defer os.Remove(outside)

	_, err := coord.IngestFile(context.Background(), outside)
	s.Error(err)
}

func (s *IngestTestSuite) TestIngestFileRejectsOversizedFile() {
	store := &fakeReplacer{}
	model := embedding.NewMockModel([]float64{1, 0})
	ch := chunker.New(model)
	coord := NewCoordinator(store, model, ch, s.baseDir, s.baseDir, 2)

	path := filepath.Join(s.baseDir, "big.txt")
	s.Require().NoError(os.WriteFile(path, []byte("way too big for the limit"), 0o644))

	_, err := coord.IngestFile(context.Background(), path)
	s.Error(err)
}

func (s *IngestTestSuite) TestIngestDataWritesRawDataFileAndReplaces() {
	store := &fakeReplacer{}
	model := embedding.NewMockModel([]float64{1, 0})
	ch := chunker.New(model)
	coord := NewCoordinator(store, model, ch, s.baseDir, s.baseDir, 1024)

	outcome, err := coord.IngestData(context.Background(), "Hello there. This is some meaningful content for testing the ingestion pipeline end to end.", "note-1", "text")
	s.Require().NoError(err)
	s.Greater(outcome.ChunkCount, 0)
	s.FileExists(outcome.FilePath)
	s.Equal(outcome.FilePath, store.lastPath)
}
