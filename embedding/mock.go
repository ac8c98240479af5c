package embedding

import "context"

// MockModel is a test double for Model. Configure Vector/Vectors/Err and use
// it anywhere a real embedding runtime would be injected.
type MockModel struct {
	// Vector is returned for every single-text call.
	Vector []float64
	// Vectors, if non-nil, is returned verbatim for EmbedBatch (must match
	// the input length). When nil, EmbedBatch repeats Vector.
	Vectors [][]float64
	// Err, if set, is returned instead of a result.
	Err error
	// ModelInfo overrides Info(); defaults to DefaultInfo("mock").
	ModelInfo *Info
}

// NewMockModel returns a MockModel that always embeds to vector.
func NewMockModel(vector []float64) *MockModel {
	return &MockModel{Vector: vector}
}

func (m *MockModel) Embed(ctx context.Context, text string) ([]float64, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if text == "" {
		return nil, ErrEmptyText
	}
	return m.Vector, nil
}

func (m *MockModel) EmbedBatch(ctx context.Context, texts []string) ([][]float64, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	for _, t := range texts {
		if t == "" {
			return nil, ErrEmptyText
		}
	}
	if m.Vectors != nil {
		return m.Vectors, nil
	}
	out := make([][]float64, len(texts))
	for i := range texts {
		out[i] = m.Vector
	}
	return out, nil
}

func (m *MockModel) Info() Info {
	if m.ModelInfo != nil {
		return *m.ModelInfo
	}
	return DefaultInfo("mock")
}

var _ Model = (*MockModel)(nil)
var _ ModelWithInfo = (*MockModel)(nil)
