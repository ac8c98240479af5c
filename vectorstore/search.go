package vectorstore

import (
	"context"
	"fmt"
	"sort"

	"github.com/localrag/go-localrag/ragerr"
	"github.com/localrag/go-localrag/schema"
)

type candidate struct {
	result   schema.SearchResult
	filePath string
	distance float64
}

// Search implements §4.7.5's hybrid search: prefetch, grouping filter,
// keyword boost, file filter, then truncate to limit.
func (s *Store) Search(ctx context.Context, queryVector []float64, queryText string, limit int) ([]schema.SearchResult, error) {
	if limit < 1 || limit > 20 {
		return nil, ragerr.New(ragerr.Validation, "limit must be in [1, 20]")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.books.exists() {
		return nil, nil
	}

	candidateLimit := limit * 2
	// chromem rejects a request for more results than the collection holds.
	if n := s.collection.Count(); candidateLimit > n {
		candidateLimit = n
	}
	if candidateLimit == 0 {
		return nil, nil
	}
	hits, err := s.collection.QueryEmbedding(ctx, toFloat32(queryVector), candidateLimit, nil, nil)
	if err != nil {
		return nil, ragerr.Wrap(ragerr.Database, "", "vector search failed", err)
	}

	candidates := make([]candidate, 0, len(hits))
	for _, h := range hits {
		// vectors are L2-normalized, so cosine similarity approximates
		// dot-product distance; chromem reports similarity (higher =
		// better), so distance = 1 - similarity (smaller = better).
		dist := 1 - float64(h.Similarity)
		if s.cfg.MaxDistance != nil && dist > *s.cfg.MaxDistance {
			continue
		}
		idx := 0
		fmt.Sscanf(h.Metadata["chunkIndex"], "%d", &idx)
		filePath := h.Metadata["filePath"]
		candidates = append(candidates, candidate{
			filePath: filePath,
			distance: dist,
			result: schema.SearchResult{
				FilePath:   filePath,
				ChunkIndex: idx,
				Text:       h.Content,
				Score:      dist,
				FileTitle:  s.books.fileTitle(filePath, idx),
			},
		})
	}

	sort.Slice(candidates, func(i, j int) bool { return candidates[i].distance < candidates[j].distance })

	if s.cfg.Grouping != schema.GroupingNone && len(candidates) > 1 {
		distances := make([]float64, len(candidates))
		for i, c := range candidates {
			distances[i] = c.distance
		}
		keep := groupingCut(string(s.cfg.Grouping), distances)
		candidates = candidates[:keep]
	}

	if s.fts.enabled && queryText != "" && s.cfg.HybridWeight > 0 && len(candidates) > 0 {
		candidates = s.keywordBoost(candidates, queryText)
	}

	if s.cfg.MaxFiles > 0 {
		candidates = fileFilter(candidates, s.cfg.MaxFiles)
	}

	if len(candidates) > limit {
		candidates = candidates[:limit]
	}

	out := make([]schema.SearchResult, len(candidates))
	for i, c := range candidates {
		out[i] = c.result
	}
	return out, nil
}

// keywordBoost implements §4.7.5 step 3. Keying results by chunk ID (via
// bookkeeping) would require resolving chunk IDs back from (filePath,
// chunkIndex); bleve's docs are indexed by chunk ID, and the FTS search
// below returns hit scores by that same ID, so candidates are matched by
// looking up the record whose (filePath, chunkIndex) matches.
func (s *Store) keywordBoost(candidates []candidate, queryText string) []candidate {
	filePathSet := make(map[string]bool)
	for _, c := range candidates {
		filePathSet[c.filePath] = true
	}
	filePaths := make([]string, 0, len(filePathSet))
	for p := range filePathSet {
		filePaths = append(filePaths, p)
	}

	idScores, err := s.fts.search(queryText, filePaths, len(candidates)*2)
	if err != nil || idScores == nil {
		return candidates
	}

	idByKey := make(map[string]string)
	for path, recs := range s.books.Files {
		for _, r := range recs {
			idByKey[fmt.Sprintf("%s\x00%d", path, r.ChunkIndex)] = r.ID
		}
	}

	for i, c := range candidates {
		id, ok := idByKey[fmt.Sprintf("%s\x00%d", c.filePath, c.result.ChunkIndex)]
		if !ok {
			continue
		}
		k, ok := idScores[id]
		if !ok {
			continue
		}
		boosted := c.distance / (1 + k*s.cfg.HybridWeight)
		candidates[i].distance = boosted
		candidates[i].result.Score = boosted
	}

	sort.Slice(candidates, func(i, j int) bool { return candidates[i].distance < candidates[j].distance })
	return candidates
}

// fileFilter implements §4.7.5 step 4: if the result set spans more than
// maxFiles distinct files, keep only chunks in the maxFiles files with the
// smallest best-per-file distance, preserving order within survivors.
func fileFilter(candidates []candidate, maxFiles int) []candidate {
	bestPerFile := make(map[string]float64)
	order := make([]string, 0)
	for _, c := range candidates {
		if best, ok := bestPerFile[c.filePath]; !ok || c.distance < best {
			if !ok {
				order = append(order, c.filePath)
			}
			bestPerFile[c.filePath] = c.distance
		}
	}
	if len(order) <= maxFiles {
		return candidates
	}

	sort.Slice(order, func(i, j int) bool { return bestPerFile[order[i]] < bestPerFile[order[j]] })
	keep := make(map[string]bool, maxFiles)
	for _, p := range order[:maxFiles] {
		keep[p] = true
	}

	out := make([]candidate, 0, len(candidates))
	for _, c := range candidates {
		if keep[c.filePath] {
			out = append(out, c)
		}
	}
	return out
}
