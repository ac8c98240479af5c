// Package query implements the Query Coordinator (§4.5): embed the query,
// delegate to the Vector Store's hybrid search, and shape results back
// into display-ready records, reconstructing raw-data sources.
package query

import (
	"context"

	"github.com/localrag/go-localrag/embedding"
	"github.com/localrag/go-localrag/rawdata"
	"github.com/localrag/go-localrag/ragerr"
	"github.com/localrag/go-localrag/schema"
)

// Searcher is the subset of vectorstore.Store the coordinator depends on.
type Searcher interface {
	Search(ctx context.Context, queryVector []float64, queryText string, limit int) ([]schema.SearchResult, error)
}

// Coordinator implements queryDocuments.
type Coordinator struct {
	store    Searcher
	embedder embedding.Model
	dbDir    string
}

func NewCoordinator(store Searcher, embedder embedding.Model, dbDir string) *Coordinator {
	return &Coordinator{store: store, embedder: embedder, dbDir: dbDir}
}

const defaultLimit = 10

// QueryDocuments implements §4.5's queryDocuments(query, limit=10).
func (c *Coordinator) QueryDocuments(ctx context.Context, queryText string, limit int) ([]schema.SearchResult, error) {
	if limit <= 0 {
		limit = defaultLimit
	}

	vec, err := c.embedder.Embed(ctx, queryText)
	if err != nil {
		return nil, ragerr.Wrap(ragerr.Embedding, "", "failed to embed query", err)
	}

	results, err := c.store.Search(ctx, vec, queryText, limit)
	if err != nil {
		return nil, err
	}

	for i := range results {
		if source, ok := rawdata.IsRawDataPath(c.dbDir, results[i].FilePath); ok {
			results[i].Source = &source
		}
	}
	return results, nil
}
