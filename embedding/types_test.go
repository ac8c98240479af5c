package embedding

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"
)

type TypesTestSuite struct {
	suite.Suite
}

func TestTypesTestSuite(t *testing.T) {
	suite.Run(t, new(TypesTestSuite))
}

func (s *TypesTestSuite) TestDefaultInfoFallsBackTo384Dimensions() {
	info := DefaultInfo("some-unknown-model")
	s.Equal("some-unknown-model", info.ModelName)
	s.Equal(384, info.Dimensions)
}

func (s *TypesTestSuite) TestMockModelEmbedRejectsEmptyText() {
	m := NewMockModel([]float64{0.1, 0.2})
	_, err := m.Embed(context.Background(), "")
	s.ErrorIs(err, ErrEmptyText)
}

func (s *TypesTestSuite) TestMockModelEmbedBatchRepeatsVectorWhenVectorsUnset() {
	m := NewMockModel([]float64{1, 2, 3})
	out, err := m.EmbedBatch(context.Background(), []string{"a", "b", "c"})
	s.Require().NoError(err)
	s.Require().Len(out, 3)
	for _, v := range out {
		s.Equal([]float64{1, 2, 3}, v)
	}
}

func (s *TypesTestSuite) TestMockModelEmbedBatchUsesExplicitVectors() {
	m := &MockModel{Vectors: [][]float64{{1}, {2}}}
	out, err := m.EmbedBatch(context.Background(), []string{"a", "b"})
	s.Require().NoError(err)
	s.Equal([][]float64{{1}, {2}}, out)
}

func (s *TypesTestSuite) TestMockModelInfoDefaultsToMock() {
	m := NewMockModel([]float64{1})
	s.Equal(DefaultInfo("mock"), m.Info())
}

func (s *TypesTestSuite) TestMockModelInfoOverride() {
	override := Info{ModelName: "custom", Dimensions: 7, MaxTokens: 99}
	m := &MockModel{Vector: []float64{1}, ModelInfo: &override}
	s.Equal(override, m.Info())
}

func (s *TypesTestSuite) TestProgressCallbackInvocable() {
	var calls [][2]int
	var cb ProgressCallback = func(current, total int) {
		calls = append(calls, [2]int{current, total})
	}
	cb(1, 10)
	cb(10, 10)
	s.Equal([][2]int{{1, 10}, {10, 10}}, calls)
}
