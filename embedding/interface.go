// Package embedding defines the pure embed(text)->vector capability consumed
// by the chunker, the PDF boundary filter, and the ingestion/query coordinators.
//
// The model runtime itself (weight loading, tokenization, inference) is an
// external collaborator: callers depend only on Model, never on a concrete
// provider. Dimensions are fixed per model and every vector is assumed
// L2-normalized by the runtime before it is returned.
package embedding

import "context"

// Model is the single embedding capability every component depends on.
type Model interface {
	// Embed returns the embedding of a single text.
	Embed(ctx context.Context, text string) ([]float64, error)
	// EmbedBatch returns one embedding per input text, same order, one round trip.
	EmbedBatch(ctx context.Context, texts []string) ([][]float64, error)
}

// ModelWithInfo additionally reports static model metadata.
type ModelWithInfo interface {
	Model
	Info() Info
}
