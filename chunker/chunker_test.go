package chunker

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/localrag/go-localrag/embedding"
)

type ChunkerTestSuite struct {
	suite.Suite
}

func TestChunkerTestSuite(t *testing.T) {
	suite.Run(t, new(ChunkerTestSuite))
}

// identicalVectorsModel embeds every sentence to the same unit vector, so
// every pairwise cosine similarity is exactly 1 and only MaxSentencesPerChunk
// governs group size.
func identicalVectorsModel(n int) *embedding.MockModel {
	vectors := make([][]float64, n)
	for i := range vectors {
		vectors[i] = []float64{1, 0}
	}
	return &embedding.MockModel{Vectors: vectors}
}

func longSentences(n int) string {
	var text string
	for i := 0; i < n; i++ {
		text += fmt.Sprintf("This is reasonably long filler sentence number %d for testing purposes. ", i)
	}
	return text
}

func (s *ChunkerTestSuite) TestEmptyInput() {
	ch := New(identicalVectorsModel(0))
	out, err := ch.ChunkText(context.Background(), "")
	s.NoError(err)
	s.Empty(out)
}

func (s *ChunkerTestSuite) TestFifteenHighSimilaritySentencesMakeOneChunk() {
	text := longSentences(15)
	ch := New(identicalVectorsModel(15))
	out, err := ch.ChunkText(context.Background(), text)
	s.Require().NoError(err)
	s.Len(out, 1)
	s.Equal(0, out[0].Index)
}

func (s *ChunkerTestSuite) TestSeventeenHighSimilaritySentencesMakeTwoChunks() {
	text := longSentences(17)
	ch := New(identicalVectorsModel(17))
	out, err := ch.ChunkText(context.Background(), text)
	s.Require().NoError(err)
	s.Require().Len(out, 2)
	s.Equal(0, out[0].Index)
	s.Equal(1, out[1].Index)
}

func (s *ChunkerTestSuite) TestGarbageChunkRejected() {
	ch := New(&embedding.MockModel{Vector: []float64{1, 0}})
	out, err := ch.ChunkText(context.Background(), "-----======-----======-----======-----======-----")
	s.Require().NoError(err)
	s.Empty(out)
}

func (s *ChunkerTestSuite) TestShortChunkRejected() {
	ch := New(&embedding.MockModel{Vector: []float64{1, 0}})
	out, err := ch.ChunkText(context.Background(), "Too short.")
	s.Require().NoError(err)
	s.Empty(out)
}

func (s *ChunkerTestSuite) TestDissimilarSentencesStartNewGroups() {
	vectors := [][]float64{
		{1, 0},
		{0, 1},
		{1, 0},
	}
	ch := New(&embedding.MockModel{Vectors: vectors})
	text := longSentences(3)
	out, err := ch.ChunkText(context.Background(), text)
	s.Require().NoError(err)
	// Every consecutive pair is orthogonal (similarity 0), well under the
	// hard threshold, so each sentence starts its own group; only groups
	// whose joined text clears MinChunkLength survive.
	for _, c := range out {
		s.GreaterOrEqual(len(c.Text), DefaultMinChunkLength)
	}
}
