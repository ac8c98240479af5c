package vectorstore

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/token/ngram"
	"github.com/blevesearch/bleve/v2/analysis/tokenizer/unicode"
	"github.com/blevesearch/bleve/v2/mapping"

	"github.com/localrag/go-localrag/ragerr"
)

// ftsIndexVersion is bumped whenever the analyzer configuration changes in
// a way that stale on-disk indices can't serve; §4.7.3 rolls old-version
// index directories forward rather than migrating them in place.
const ftsIndexVersion = 2

const ngramAnalyzerName = "rag_ngram"

func ftsIndexName() string {
	return fmt.Sprintf("fts_index_v%d", ftsIndexVersion)
}

// ftsDoc is the body indexed per chunk: just enough to search the text
// column and filter by filePath; everything else lives in the bookkeeping
// sidecar and the embedding store.
type ftsDoc struct {
	Text     string `json:"text"`
	FilePath string `json:"filePath"`
}

type ftsIndex struct {
	dbPath  string
	index   bleve.Index
	enabled bool
}

func buildIndexMapping() *mapping.IndexMappingImpl {
	m := bleve.NewIndexMapping()
	// min=2, max=3, positions anywhere (not prefix-only), no stemming:
	// captures CJK bigrams while bounding index size (§4.7.3).
	if err := m.AddCustomTokenFilter("rag_ngram_filter", map[string]interface{}{
		"type": ngram.Name,
		"min":  2.0,
		"max":  3.0,
	}); err != nil {
		panic(err)
	}
	if err := m.AddCustomAnalyzer(ngramAnalyzerName, map[string]interface{}{
		"type":      "custom",
		"tokenizer": unicode.Name,
		"token_filters": []string{
			"rag_ngram_filter",
		},
	}); err != nil {
		panic(err)
	}
	m.DefaultAnalyzer = ngramAnalyzerName

	doc := bleve.NewDocumentMapping()
	textField := bleve.NewTextFieldMapping()
	textField.Analyzer = ngramAnalyzerName
	doc.AddFieldMappingsAt("text", textField)

	pathField := bleve.NewTextFieldMapping()
	pathField.Analyzer = "keyword"
	doc.AddFieldMappingsAt("filePath", pathField)

	m.DefaultMapping = doc
	return m
}

// openOrCreateFTS implements §4.7.3's lifecycle check: if the expected
// version's index is absent, create it and drop every other fts_index_v*
// directory found alongside it. Creation failure at init is fail-fast.
func openOrCreateFTS(dbPath string) (*ftsIndex, error) {
	wantPath := filepath.Join(dbPath, ftsIndexName())

	idx, err := bleve.Open(wantPath)
	if err == nil {
		return &ftsIndex{dbPath: dbPath, index: idx, enabled: true}, nil
	}

	idx, err = bleve.New(wantPath, buildIndexMapping())
	if err != nil {
		return nil, ragerr.Wrap(ragerr.Database, dbPath, "failed to create full-text index", err)
	}
	dropOtherIndexVersions(dbPath, ftsIndexName())
	return &ftsIndex{dbPath: dbPath, index: idx, enabled: true}, nil
}

func dropOtherIndexVersions(dbPath, keep string) {
	entries, err := os.ReadDir(dbPath)
	if err != nil {
		return
	}
	for _, e := range entries {
		if !e.IsDir() || e.Name() == keep || !strings.HasPrefix(e.Name(), "fts_index_v") {
			continue
		}
		_ = os.RemoveAll(filepath.Join(dbPath, e.Name()))
	}
}

// optimize rolls forward any other-version index directories whose last
// write predates the cutoff. bleve has no SQL-style VACUUM, so "optimize
// with an older-than cutoff" is implemented as filesystem-level pruning of
// superseded index generations rather than in-place compaction.
func (f *ftsIndex) optimize(cutoff time.Time) {
	entries, err := os.ReadDir(f.dbPath)
	if err != nil {
		return
	}
	keep := ftsIndexName()
	for _, e := range entries {
		if !e.IsDir() || e.Name() == keep || !strings.HasPrefix(e.Name(), "fts_index_v") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			_ = os.RemoveAll(filepath.Join(f.dbPath, e.Name()))
		}
	}
}

func (f *ftsIndex) index_(id string, doc ftsDoc) error {
	if !f.enabled {
		return nil
	}
	return f.index.Index(id, doc)
}

func (f *ftsIndex) delete(ids ...string) error {
	if !f.enabled {
		return nil
	}
	for _, id := range ids {
		if err := f.index.Delete(id); err != nil {
			return err
		}
	}
	return nil
}

// disable turns off FTS for the remainder of the process, per §4.7.3's
// "runtime FTS search failure degrades to vector-only" rule.
func (f *ftsIndex) disable() {
	f.enabled = false
}

// search runs a BM25-scored text query restricted to the given filePath
// set (the "`filePath` IN (...)" predicate from §4.7.5 step 3), returning
// normalized (filePath, chunkIndex)-free raw hits keyed by chunk ID; the
// caller maps IDs back to (filePath, chunkIndex) via its own bookkeeping.
func (f *ftsIndex) search(queryText string, filePaths []string, limit int) (map[string]float64, error) {
	if !f.enabled || queryText == "" || len(filePaths) == 0 {
		return nil, nil
	}

	textQuery := bleve.NewMatchQuery(queryText)
	textQuery.SetField("text")

	pathQueries := make([]bleve.Query, 0, len(filePaths))
	for _, p := range filePaths {
		tq := bleve.NewTermQuery(p)
		tq.SetField("filePath")
		pathQueries = append(pathQueries, tq)
	}
	pathFilter := bleve.NewDisjunctionQuery(pathQueries...)

	combined := bleve.NewConjunctionQuery(textQuery, pathFilter)

	req := bleve.NewSearchRequestOptions(combined, limit, 0, false)
	res, err := f.index.Search(req)
	if err != nil {
		f.disable()
		return nil, err
	}

	scores := make(map[string]float64, len(res.Hits))
	var maxScore float64
	for _, hit := range res.Hits {
		scores[hit.ID] = hit.Score
		if hit.Score > maxScore {
			maxScore = hit.Score
		}
	}
	if maxScore == 0 {
		return scores, nil
	}
	for id, s := range scores {
		scores[id] = s / maxScore
	}
	return scores, nil
}

func (f *ftsIndex) close() error {
	if f.index == nil {
		return nil
	}
	return f.index.Close()
}
