// Package ingest implements the Ingestion Coordinator (§4.4): path and
// size validation, format dispatch, title extraction, chunking, embedding,
// and transactional replacement into the Vector Store.
package ingest

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/localrag/go-localrag/chunker"
	"github.com/localrag/go-localrag/embedding"
	"github.com/localrag/go-localrag/parse"
	"github.com/localrag/go-localrag/ragerr"
	"github.com/localrag/go-localrag/rawdata"
	"github.com/localrag/go-localrag/schema"
	"github.com/localrag/go-localrag/titleextract"
)

// Replacer is the subset of vectorstore.Store the coordinator depends on.
type Replacer interface {
	ReplaceFile(ctx context.Context, filePath string, chunks []schema.Chunk) error
}

// Coordinator implements ingestFile and ingestData.
type Coordinator struct {
	store       Replacer
	embedder    embedding.Model
	chunker     *chunker.Chunker
	baseDir     string
	dbDir       string
	maxFileSize int64
}

func NewCoordinator(store Replacer, embedder embedding.Model, ch *chunker.Chunker, baseDir, dbDir string, maxFileSize int64) *Coordinator {
	return &Coordinator{store: store, embedder: embedder, chunker: ch, baseDir: baseDir, dbDir: dbDir, maxFileSize: maxFileSize}
}

// Outcome is the shared return shape of ingestFile and ingestData.
type Outcome struct {
	FilePath   string
	ChunkCount int
	Timestamp  time.Time
}

// IngestFile implements §4.4's ingestFile(path).
func (c *Coordinator) IngestFile(ctx context.Context, path string) (Outcome, error) {
	resolved, err := c.validatePath(path)
	if err != nil {
		return Outcome{}, err
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return Outcome{}, ragerr.Wrap(ragerr.FileOperation, resolved, "failed to stat file", err)
	}
	if info.Size() > c.maxFileSize {
		return Outcome{}, ragerr.New(ragerr.Validation, "file size exceeds maxFileSize")
	}

	result, err := parse.File(ctx, resolved, c.embedder)
	if err != nil {
		return Outcome{}, err
	}

	title, _ := titleextract.Extract(resolved, filepath.Ext(resolved), result)

	return c.ingestParsed(ctx, resolved, result.Text, title, info.Size(), strings.TrimPrefix(filepath.Ext(resolved), "."))
}

// IngestData implements §4.4's ingestData(content, source, format).
func (c *Coordinator) IngestData(ctx context.Context, content, source, format string) (Outcome, error) {
	normalized := rawdata.NormalizeSource(source)
	derivedPath := rawdata.Path(c.dbDir, normalized)

	text := content
	if format == "html" {
		converted, err := parse.ConvertHTMLToMarkdown(content)
		if err != nil {
			return Outcome{}, err
		}
		text = converted
	}

	if err := os.MkdirAll(filepath.Dir(derivedPath), 0o755); err != nil {
		return Outcome{}, ragerr.Wrap(ragerr.FileOperation, derivedPath, "failed to create raw-data directory", err)
	}
	if err := os.WriteFile(derivedPath, []byte(text), 0o644); err != nil {
		return Outcome{}, ragerr.Wrap(ragerr.FileOperation, derivedPath, "failed to write raw-data file", err)
	}

	parsed := parse.Result{Text: text}
	title, _ := titleextract.Extract(derivedPath, ".md", parsed)

	return c.ingestParsed(ctx, derivedPath, text, title, int64(len(content)), "md")
}

func (c *Coordinator) ingestParsed(ctx context.Context, filePath, text, title string, fileSize int64, fileType string) (Outcome, error) {
	chunks, err := c.chunker.ChunkText(ctx, text)
	if err != nil {
		return Outcome{}, err
	}
	if len(chunks) == 0 {
		return Outcome{}, ragerr.New(ragerr.Validation, "ingestion produced zero chunks, refusing to replace existing rows")
	}

	texts := make([]string, len(chunks))
	for i, ch := range chunks {
		texts[i] = ch.Text
	}
	vectors, err := c.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return Outcome{}, ragerr.Wrap(ragerr.Embedding, filePath, "failed to embed chunks", err)
	}

	now := time.Now()
	fileName := filepath.Base(filePath)
	records := make([]schema.Chunk, len(chunks))
	for i, ch := range chunks {
		var fileTitle *string
		if title != "" {
			t := title
			fileTitle = &t
		}
		records[i] = schema.Chunk{
			ID:         uuid.NewString(),
			FilePath:   filePath,
			ChunkIndex: ch.Index,
			Text:       ch.Text,
			Vector:     vectors[i],
			Metadata:   schema.Metadata{FileName: fileName, FileSize: fileSize, FileType: fileType},
			FileTitle:  fileTitle,
			Timestamp:  now,
		}
	}

	if err := c.store.ReplaceFile(ctx, filePath, records); err != nil {
		return Outcome{}, err
	}

	return Outcome{FilePath: filePath, ChunkCount: len(records), Timestamp: now}, nil
}

// validatePath implements §4.4 step 1: require absolute, resolve symlinks,
// require the resolved path to lie inside baseDir.
func (c *Coordinator) validatePath(path string) (string, error) {
	if !filepath.IsAbs(path) {
		return "", ragerr.New(ragerr.Validation, "path must be absolute")
	}
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		return "", ragerr.Wrap(ragerr.Validation, path, "failed to resolve path", err)
	}
	baseResolved, err := filepath.EvalSymlinks(c.baseDir)
	if err != nil {
		baseResolved = c.baseDir
	}
	rel, err := filepath.Rel(baseResolved, resolved)
	if err != nil || strings.HasPrefix(rel, "..") {
		return "", ragerr.New(ragerr.Validation, "path must lie inside BASE_DIR")
	}
	return resolved, nil
}
