// Package schema defines the persistent data model: the Chunk record stored
// by the vector store, the Metadata it carries, and the SearchResult
// projection returned from a query.
package schema

import "time"

// Metadata is the small, fixed set of per-file descriptors carried on every
// chunk. It is never used for scoring, only for display and filtering.
type Metadata struct {
	FileName string `json:"fileName"`
	FileSize int64  `json:"fileSize"`
	FileType string `json:"fileType"`
}

// Chunk is the primary stored entity. (filePath, chunkIndex) is unique; all
// vectors sharing a table share one dimension, fixed at first insertion.
type Chunk struct {
	ID         string    `json:"id"`
	FilePath   string    `json:"filePath"`
	ChunkIndex int       `json:"chunkIndex"`
	Text       string    `json:"text"`
	Vector     []float64 `json:"vector"`
	Metadata   Metadata  `json:"metadata"`
	// FileTitle is a nullable display title; never used for scoring.
	FileTitle *string   `json:"fileTitle"`
	Timestamp time.Time `json:"timestamp"`
}

// SearchResult projects a Chunk plus a distance score (smaller = better),
// with an optional reconstructed inline-ingestion source.
type SearchResult struct {
	FilePath   string  `json:"filePath"`
	ChunkIndex int     `json:"chunkIndex"`
	Text       string  `json:"text"`
	Score      float64 `json:"score"`
	FileTitle  *string `json:"fileTitle,omitempty"`
	Source     *string `json:"source,omitempty"`
}

// FileListing is one entry of listFiles(): the chunk count and most recent
// ingestion instant for a distinct filePath.
type FileListing struct {
	FilePath   string    `json:"filePath"`
	ChunkCount int       `json:"chunkCount"`
	Timestamp  time.Time `json:"timestamp"`
	Source     *string   `json:"source,omitempty"`
}

// SearchMode describes whether keyword boosting is active for the store.
type SearchMode string

const (
	SearchModeHybrid     SearchMode = "hybrid"
	SearchModeVectorOnly SearchMode = "vector-only"
)

// Status is the payload of getStatus().
type Status struct {
	DocumentCount   int        `json:"documentCount"`
	ChunkCount      int        `json:"chunkCount"`
	MemoryUsageMB   float64    `json:"memoryUsageMB"`
	UptimeSeconds   float64    `json:"uptimeSeconds"`
	FTSIndexEnabled bool       `json:"ftsIndexEnabled"`
	SearchMode      SearchMode `json:"searchMode"`
}

// Grouping selects the statistical grouping mode applied to raw vector
// distances before keyword boosting (§4.7.6).
type Grouping string

const (
	GroupingNone    Grouping = ""
	GroupingSimilar Grouping = "similar"
	GroupingRelated Grouping = "related"
)
