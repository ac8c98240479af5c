// Package chunker groups sentences into semantically coherent chunks using
// the Max-Min algorithm: a chunk grows while its newest candidate sentence
// stays close to the group's recent coherence floor, and closes once that
// candidate drifts too far from every member already in the group.
package chunker

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/localrag/go-localrag/embedding"
	"github.com/localrag/go-localrag/sentsplit"
)

// Defaults mirror the reference parameters; see Config doc comments for what
// each one controls.
const (
	DefaultHardThreshold         = 0.6
	DefaultInitConst             = 1.5
	DefaultC                     = 0.9
	DefaultMinChunkLength        = 50
	DefaultWindowSize            = 5
	DefaultMaxSentencesPerChunk  = 15
)

// Chunk is one contiguous span of sentences grouped for indexing.
type Chunk struct {
	Text  string
	Index int
}

// Config holds the Max-Min tuning parameters.
type Config struct {
	// HardThreshold is the similarity floor: a third or later candidate
	// whose best similarity to the group does not exceed it never joins,
	// regardless of windowed minimum similarity. The second sentence joins
	// when InitConst times its similarity to the first exceeds it.
	HardThreshold float64
	// InitConst scales the first pairwise similarity when deciding whether
	// the second sentence joins the first.
	InitConst float64
	// C scales the windowed minimum similarity when deriving the running
	// threshold for the third and later sentences.
	C float64
	// MinChunkLength is the minimum joined-text length a surviving chunk
	// must have (shorter groups are dropped).
	MinChunkLength int
	// WindowSize bounds how many of the group's most recent members are
	// considered when computing the windowed minimum similarity, keeping
	// the inner loop O(1) amortized.
	WindowSize int
	// MaxSentencesPerChunk force-closes a group once it reaches this size.
	MaxSentencesPerChunk int
}

// Option configures a Chunker.
type Option func(*Config)

func WithHardThreshold(v float64) Option        { return func(c *Config) { c.HardThreshold = v } }
func WithInitConst(v float64) Option            { return func(c *Config) { c.InitConst = v } }
func WithC(v float64) Option                    { return func(c *Config) { c.C = v } }
func WithMinChunkLength(v int) Option           { return func(c *Config) { c.MinChunkLength = v } }
func WithWindowSize(v int) Option               { return func(c *Config) { c.WindowSize = v } }
func WithMaxSentencesPerChunk(v int) Option     { return func(c *Config) { c.MaxSentencesPerChunk = v } }

func defaultConfig() Config {
	return Config{
		HardThreshold:        DefaultHardThreshold,
		InitConst:            DefaultInitConst,
		C:                    DefaultC,
		MinChunkLength:       DefaultMinChunkLength,
		WindowSize:           DefaultWindowSize,
		MaxSentencesPerChunk: DefaultMaxSentencesPerChunk,
	}
}

// Chunker implements the Max-Min semantic chunking algorithm.
type Chunker struct {
	cfg      Config
	embedder embedding.Model
}

// New creates a Chunker bound to an embedding runtime.
func New(embedder embedding.Model, opts ...Option) *Chunker {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Chunker{cfg: cfg, embedder: embedder}
}

// ChunkText runs the full §4.2 algorithm over arbitrary text: sentence
// splitting, one batch embedding call, windowed grouping, and garbage/length
// filtering. Empty input returns no chunks and a nil error.
func (ch *Chunker) ChunkText(ctx context.Context, text string) ([]Chunk, error) {
	sentences := sentsplit.Split(text)
	if len(sentences) == 0 {
		return nil, nil
	}

	vectors, err := ch.embedder.EmbedBatch(ctx, sentences)
	if err != nil {
		return nil, fmt.Errorf("embed sentences: %w", err)
	}

	groups, err := ch.group(sentences, vectors)
	if err != nil {
		return nil, err
	}

	var chunks []Chunk
	for _, g := range groups {
		joined := strings.Join(g.sentences, " ")
		if len(joined) < ch.cfg.MinChunkLength {
			continue
		}
		if isGarbageChunk(joined) {
			continue
		}
		chunks = append(chunks, Chunk{Text: joined, Index: len(chunks)})
	}
	return chunks, nil
}

type group struct {
	sentences []string
	vectors   [][]float64
}

// group walks sentences left to right, maintaining the current group and
// closing it whenever the next candidate fails the running coherence test.
func (ch *Chunker) group(sentences []string, vectors [][]float64) ([]group, error) {
	var groups []group
	cur := group{sentences: []string{sentences[0]}, vectors: [][]float64{vectors[0]}}

	for i := 1; i < len(sentences); i++ {
		candidate, candidateVec := sentences[i], vectors[i]

		switch {
		case len(cur.sentences) == 1:
			s, err := embedding.CosineSimilarity(cur.vectors[0], candidateVec)
			if err != nil {
				return nil, fmt.Errorf("compare sentence %d: %w", i, err)
			}
			if ch.cfg.InitConst*s > ch.cfg.HardThreshold {
				cur = appended(cur, candidate, candidateVec)
			} else {
				groups = append(groups, cur)
				cur = group{sentences: []string{candidate}, vectors: [][]float64{candidateVec}}
			}

		case len(cur.sentences) >= ch.cfg.MaxSentencesPerChunk:
			groups = append(groups, cur)
			cur = group{sentences: []string{candidate}, vectors: [][]float64{candidateVec}}

		default:
			minSim, err := windowedMinSimilarity(cur.vectors, ch.cfg.WindowSize)
			if err != nil {
				return nil, fmt.Errorf("windowed min at sentence %d: %w", i, err)
			}
			maxSim, err := maxSimilarityToGroup(candidateVec, cur.vectors)
			if err != nil {
				return nil, fmt.Errorf("max similarity at sentence %d: %w", i, err)
			}

			threshold := ch.cfg.C * minSim * sigmoid(float64(len(cur.sentences)))
			if threshold < ch.cfg.HardThreshold {
				threshold = ch.cfg.HardThreshold
			}

			if maxSim > threshold {
				cur = appended(cur, candidate, candidateVec)
			} else {
				groups = append(groups, cur)
				cur = group{sentences: []string{candidate}, vectors: [][]float64{candidateVec}}
			}
		}
	}
	groups = append(groups, cur)
	return groups, nil
}

func appended(g group, sentence string, vector []float64) group {
	g.sentences = append(g.sentences, sentence)
	g.vectors = append(g.vectors, vector)
	return g
}

// windowedMinSimilarity returns the minimum pairwise cosine similarity among
// the last windowSize members of vectors. Returns 1.0 (the identity case)
// when fewer than two members are available.
func windowedMinSimilarity(vectors [][]float64, windowSize int) (float64, error) {
	if len(vectors) < 2 {
		return 1.0, nil
	}
	start := len(vectors) - windowSize
	if start < 0 {
		start = 0
	}
	window := vectors[start:]

	min := math.Inf(1)
	for i := 0; i < len(window); i++ {
		for j := i + 1; j < len(window); j++ {
			sim, err := embedding.CosineSimilarity(window[i], window[j])
			if err != nil {
				return 0, err
			}
			if sim < min {
				min = sim
			}
		}
	}
	return min, nil
}

// maxSimilarityToGroup returns the largest cosine similarity between the
// candidate vector and any member currently in the group.
func maxSimilarityToGroup(candidate []float64, group [][]float64) (float64, error) {
	max := math.Inf(-1)
	for _, v := range group {
		sim, err := embedding.CosineSimilarity(candidate, v)
		if err != nil {
			return 0, err
		}
		if sim > max {
			max = sim
		}
	}
	return max, nil
}

func sigmoid(x float64) float64 {
	return 1.0 / (1.0 + math.Exp(-x))
}

// decorationClassRe matches text made up entirely of punctuation/decoration
// characters and whitespace, with no word content at all.
var decorationClassRe = regexp.MustCompile(`^[-=_.*#|~` + "`" + `@!%^&*()\[\]{}\\/<>:+\s]+$`)

var alnumRe = regexp.MustCompile(`[[:alnum:]]`)

// isGarbageChunk reports whether joined text has no alphanumeric content and
// is either pure decoration or dominated (>80%) by one repeated character.
func isGarbageChunk(joined string) bool {
	trimmed := strings.TrimSpace(joined)
	if trimmed == "" {
		return false
	}
	if alnumRe.MatchString(trimmed) {
		return false
	}
	if decorationClassRe.MatchString(trimmed) {
		return true
	}
	return dominatedBySingleChar(trimmed, 0.8)
}

func dominatedBySingleChar(s string, fraction float64) bool {
	counts := make(map[rune]int)
	total := 0
	for _, r := range s {
		counts[r]++
		total++
	}
	if total == 0 {
		return false
	}
	for _, n := range counts {
		if float64(n)/float64(total) > fraction {
			return true
		}
	}
	return false
}
