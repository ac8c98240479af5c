// Command localrag-server runs the tool surface (§4.8) over stdin/stdout:
// line-delimited JSON requests in, one JSON response per line out. All
// logging goes to stderr.
package main

import (
	"context"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/localrag/go-localrag/chunker"
	"github.com/localrag/go-localrag/config"
	"github.com/localrag/go-localrag/embedding"
	"github.com/localrag/go-localrag/ingest"
	"github.com/localrag/go-localrag/query"
	"github.com/localrag/go-localrag/schema"
	"github.com/localrag/go-localrag/toolsurface"
	"github.com/localrag/go-localrag/vectorstore"
)

func main() {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()

	cfg := config.Load()
	if cfg.Development {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	model := embedding.NewOllamaEmbedding(cfg.ModelName)
	ch := chunker.New(model)

	store, err := vectorstore.Open(cfg.DBPath, vectorstore.Config{
		HybridWeight: cfg.HybridWeight,
		MaxDistance:  cfg.MaxDistance,
		MaxFiles:     cfg.MaxFiles,
		Grouping:     cfg.Grouping,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open vector store")
	}
	defer store.Close()

	surface := &toolsurface.Surface{
		Ingest: ingest.NewCoordinator(store, model, ch, cfg.BaseDir, cfg.DBPath, cfg.MaxFileSize),
		Query:  query.NewCoordinator(store, model, cfg.DBPath),
		Store:  storeAdapter{store},
		DBDir:  cfg.DBPath,
	}

	if err := surface.Run(context.Background(), os.Stdin, os.Stdout); err != nil {
		log.Fatal().Err(err).Msg("tool surface terminated")
	}
}

// storeAdapter narrows *vectorstore.Store to toolsurface.Store.
type storeAdapter struct {
	store *vectorstore.Store
}

func (a storeAdapter) ListFiles() []schema.FileListing { return a.store.ListFiles() }
func (a storeAdapter) Status() schema.Status            { return a.store.Status() }
func (a storeAdapter) DeleteChunks(ctx context.Context, filePath string) error {
	return a.store.DeleteChunks(ctx, filePath)
}
