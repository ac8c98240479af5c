// Package vectorstore implements the Vector Store: a chromem-go backed
// embedding index, a bleve-backed n-gram full-text index, and the
// bookkeeping sidecar that lets both be addressed by filePath predicates
// the way a relational "chunks" table would be.
package vectorstore

import (
	"context"
	"fmt"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/philippgille/chromem-go"

	"github.com/localrag/go-localrag/ragerr"
	"github.com/localrag/go-localrag/schema"
)

const collectionName = "chunks"

// backupLimit bounds the best-effort backup read in the transactional
// replace protocol (§4.7.4 step 1).
const backupLimit = 20

// Config configures search-time behavior; none of it affects what gets
// stored, only how search() ranks and trims results.
type Config struct {
	HybridWeight float64
	MaxDistance  *float64
	MaxFiles     int
	Grouping     schema.Grouping
}

// Store is the Vector Store described in §4.7.
type Store struct {
	mu         sync.RWMutex
	dbPath     string
	db         *chromem.DB
	collection *chromem.Collection
	fts        *ftsIndex
	books      *bookkeeping
	cfg        Config
	startTime  time.Time
}

// Open implements §4.7.2's initialize(): connect (creating dbPath if
// missing), open or create the chunks collection, load the bookkeeping
// sidecar that stands in for the store's own schema/migration bookkeeping,
// and ensure the FTS index.
func Open(dbPath string, cfg Config) (*Store, error) {
	db, err := chromem.NewPersistentDB(dbPath, false)
	if err != nil {
		return nil, ragerr.Wrap(ragerr.Database, dbPath, "failed to open vector store", err)
	}
	collection, err := db.GetOrCreateCollection(collectionName, nil, nil)
	if err != nil {
		return nil, ragerr.Wrap(ragerr.Database, dbPath, "failed to open chunks collection", err)
	}

	books, err := loadBookkeeping(dbPath)
	if err != nil {
		return nil, ragerr.Wrap(ragerr.Database, dbPath, "failed to load bookkeeping", err)
	}

	fts, err := openOrCreateFTS(dbPath)
	if err != nil {
		// FTS index creation failure is fatal at initialization, whether
		// or not the chunks table already exists.
		return nil, err
	}

	return &Store{
		dbPath:     dbPath,
		db:         db,
		collection: collection,
		fts:        fts,
		books:      books,
		cfg:        cfg,
		startTime:  time.Now(),
	}, nil
}

func (s *Store) Close() error {
	return s.fts.close()
}

// InsertChunks implements §4.7.4's insertChunks: no-op on empty input,
// otherwise add every chunk's embedding to chromem, index its text in
// bleve, and record it in the bookkeeping sidecar before triggering FTS
// optimization.
func (s *Store) InsertChunks(ctx context.Context, chunks []schema.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	docs := make([]chromem.Document, len(chunks))
	for i, c := range chunks {
		embedding32 := toFloat32(c.Vector)
		docs[i] = chromem.Document{
			ID:        c.ID,
			Content:   c.Text,
			Embedding: embedding32,
			Metadata: map[string]string{
				"filePath":   c.FilePath,
				"chunkIndex": fmt.Sprintf("%d", c.ChunkIndex),
				"fileName":   c.Metadata.FileName,
				"fileType":   c.Metadata.FileType,
			},
		}
	}

	if err := s.collection.AddDocuments(ctx, docs, runtime.NumCPU()); err != nil {
		return ragerr.Wrap(ragerr.Database, "", "failed to insert chunks", err)
	}

	records := make([]chunkRecord, len(chunks))
	for i, c := range chunks {
		records[i] = chunkRecord{ID: c.ID, ChunkIndex: c.ChunkIndex, FileTitle: c.FileTitle, Timestamp: c.Timestamp}
		if s.fts.enabled {
			if err := s.fts.index_(c.ID, ftsDoc{Text: c.Text, FilePath: c.FilePath}); err != nil {
				s.fts.disable()
			}
		}
	}

	byFile := make(map[string][]chunkRecord)
	for i, c := range chunks {
		byFile[c.FilePath] = append(byFile[c.FilePath], records[i])
	}
	for path, recs := range byFile {
		s.books.put(path, recs)
	}
	s.books.markCreated()
	if err := s.books.save(); err != nil {
		return ragerr.Wrap(ragerr.Database, "", "failed to persist bookkeeping", err)
	}

	s.fts.optimize(time.Now().Add(-60 * time.Second))
	return nil
}

// DeleteChunks implements §4.7.4's deleteChunks(filePath): no-op if the
// table was never created; a delete matching zero rows is not an error.
func (s *Store) DeleteChunks(ctx context.Context, filePath string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.books.exists() {
		return nil
	}

	ids := s.books.take(filePath)
	if len(ids) == 0 {
		return nil
	}

	if err := s.collection.Delete(ctx, nil, nil, ids...); err != nil {
		if isBenignMissing(err) {
			return nil
		}
		return ragerr.Wrap(ragerr.Database, filePath, "failed to delete chunks", err)
	}
	if err := s.fts.delete(ids...); err != nil {
		s.fts.disable()
	}
	if err := s.books.save(); err != nil {
		return ragerr.Wrap(ragerr.Database, filePath, "failed to persist bookkeeping after delete", err)
	}

	s.fts.optimize(time.Now().Add(-60 * time.Second))
	return nil
}

func isBenignMissing(err error) bool {
	msg := strings.ToLower(err.Error())
	for _, needle := range []string{"not found", "does not exist", "no matching"} {
		if strings.Contains(msg, needle) {
			return true
		}
	}
	return false
}

// ReplaceFile implements the transactional replacement protocol of
// §4.7.4: best-effort backup, delete, insert, and restore-on-failure.
func (s *Store) ReplaceFile(ctx context.Context, filePath string, newChunks []schema.Chunk) error {
	var backup []schema.Chunk
	if len(newChunks) > 0 {
		backup = s.backupFor(ctx, filePath, newChunks[0].Vector)
	}

	if err := s.DeleteChunks(ctx, filePath); err != nil {
		return err
	}

	if err := s.InsertChunks(ctx, newChunks); err != nil {
		if len(backup) > 0 {
			if restoreErr := s.InsertChunks(ctx, backup); restoreErr != nil {
				return ragerr.Wrap(ragerr.Database, filePath,
					fmt.Sprintf("insert failed (%v) and restore failed (%v)", err, restoreErr), err)
			}
		}
		return ragerr.Wrap(ragerr.Database, filePath, "failed to insert replacement chunks", err)
	}
	return nil
}

// backupFor approximates the prior rows for filePath using a vector
// search seeded by the first new embedding (§4.7.4 step 1), returning at
// most backupLimit rows. Identity and text are restored, but every restored
// chunk carries the seed vector in place of its original one, and the search
// may miss rows of the deleted set. Failure here does not abort the replace:
// it is not logged and is treated as "new file" (no backup).
func (s *Store) backupFor(ctx context.Context, filePath string, seedVector []float64) []schema.Chunk {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.books.exists() {
		return nil
	}
	recs, ok := s.books.Files[filePath]
	if !ok || len(recs) == 0 {
		return nil
	}

	// chromem rejects a request for more results than the collection holds.
	n := backupLimit
	if count := s.collection.Count(); n > count {
		n = count
	}
	if n == 0 {
		return nil
	}
	results, err := s.collection.QueryEmbedding(ctx, toFloat32(seedVector), n, map[string]string{"filePath": filePath}, nil)
	if err != nil {
		return nil
	}

	out := make([]schema.Chunk, 0, len(results))
	for _, r := range results {
		idx := 0
		fmt.Sscanf(r.Metadata["chunkIndex"], "%d", &idx)
		out = append(out, schema.Chunk{
			ID:         r.ID,
			FilePath:   filePath,
			ChunkIndex: idx,
			Text:       r.Content,
			Vector:     seedVector, // placeholder: exact vectors aren't retrievable from the store interface.
			Metadata: schema.Metadata{
				FileName: r.Metadata["fileName"],
				FileType: r.Metadata["fileType"],
			},
			Timestamp: time.Now(),
		})
	}
	return out
}

// ListFiles implements §4.7.7's listFiles().
func (s *Store) ListFiles() []schema.FileListing {
	entries := s.books.listFiles()
	out := make([]schema.FileListing, len(entries))
	for i, e := range entries {
		out[i] = schema.FileListing{FilePath: e.FilePath, ChunkCount: e.ChunkCount, Timestamp: e.Timestamp}
	}
	return out
}

// Status implements §4.7.7's getStatus().
func (s *Store) Status() schema.Status {
	mode := schema.SearchModeVectorOnly
	if s.fts.enabled && s.cfg.HybridWeight > 0 {
		mode = schema.SearchModeHybrid
	}
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)
	return schema.Status{
		DocumentCount:   s.books.documentCount(),
		ChunkCount:      s.books.chunkCount(),
		MemoryUsageMB:   float64(mem.Alloc) / (1024 * 1024),
		UptimeSeconds:   time.Since(s.startTime).Seconds(),
		FTSIndexEnabled: s.fts.enabled,
		SearchMode:      mode,
	}
}

func toFloat32(v []float64) []float32 {
	out := make([]float32, len(v))
	for i, f := range v {
		out[i] = float32(f)
	}
	return out
}
