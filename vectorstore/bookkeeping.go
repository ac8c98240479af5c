package vectorstore

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/natefinch/atomic"
)

// chunkRecord is the bookkeeping shadow of one schema.Chunk: everything
// needed to answer listFiles/getStatus and to resolve deleteChunks'
// predicate into concrete IDs, without re-reading the vector store itself.
type chunkRecord struct {
	ID         string    `json:"id"`
	ChunkIndex int       `json:"chunkIndex"`
	FileTitle  *string   `json:"fileTitle,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// bookkeeping tracks filePath -> chunk records. It is the "table" in the
// sense of §4.7.1: the backing vector store only ever sees bare IDs and
// embeddings, so every predicate in §4.7 ("does table chunks exist",
// "delete rows where filePath = ...", "list distinct filePaths") is
// evaluated here first and then translated into ID-based calls against
// the embedding store.
type bookkeeping struct {
	mu      sync.RWMutex
	path    string
	Files   map[string][]chunkRecord `json:"files"`
	Created bool                     `json:"created"`
}

func loadBookkeeping(dbPath string) (*bookkeeping, error) {
	b := &bookkeeping{
		path:  filepath.Join(dbPath, "bookkeeping.json"),
		Files: make(map[string][]chunkRecord),
	}
	data, err := os.ReadFile(b.path)
	if os.IsNotExist(err) {
		return b, nil
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(data, b); err != nil {
		return nil, err
	}
	if b.Files == nil {
		b.Files = make(map[string][]chunkRecord)
	}
	return b, nil
}

func (b *bookkeeping) save() error {
	data, err := json.Marshal(b)
	if err != nil {
		return err
	}
	return atomic.WriteFile(b.path, bytes.NewReader(data))
}

// exists reports whether the chunks "table" has ever been created, i.e.
// whether at least one insert has ever succeeded (§4.7.2 step 3).
func (b *bookkeeping) exists() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.Created
}

func (b *bookkeeping) markCreated() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Created = true
}

func (b *bookkeeping) put(filePath string, records []chunkRecord) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Files[filePath] = append(b.Files[filePath], records...)
}

// take resolves the deleteChunks(filePath) predicate into the concrete
// chunk IDs currently on record, and removes the bookkeeping entry.
func (b *bookkeeping) take(filePath string) []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	recs, ok := b.Files[filePath]
	if !ok {
		return nil
	}
	ids := make([]string, len(recs))
	for i, r := range recs {
		ids[i] = r.ID
	}
	delete(b.Files, filePath)
	return ids
}

func (b *bookkeeping) listFiles() []fileListing {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]fileListing, 0, len(b.Files))
	for path, recs := range b.Files {
		if len(recs) == 0 {
			continue
		}
		latest := recs[0].Timestamp
		for _, r := range recs[1:] {
			if r.Timestamp.After(latest) {
				latest = r.Timestamp
			}
		}
		out = append(out, fileListing{FilePath: path, ChunkCount: len(recs), Timestamp: latest})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FilePath < out[j].FilePath })
	return out
}

// fileTitle looks up the display title recorded for (filePath, chunkIndex),
// used to propagate schema.Chunk.FileTitle onto search results (§3).
func (b *bookkeeping) fileTitle(filePath string, chunkIndex int) *string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, r := range b.Files[filePath] {
		if r.ChunkIndex == chunkIndex {
			return r.FileTitle
		}
	}
	return nil
}

func (b *bookkeeping) documentCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.Files)
}

func (b *bookkeeping) chunkCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	n := 0
	for _, recs := range b.Files {
		n += len(recs)
	}
	return n
}

type fileListing struct {
	FilePath   string
	ChunkCount int
	Timestamp  time.Time
}
