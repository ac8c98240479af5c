// Package pdfboundary implements the PDF Boundary Filter (§4.3): detecting
// repeating headers/footers across a PDF's pages by clustering the
// embeddings of their first and last sentences, and stripping them from
// the document.
package pdfboundary

import (
	"context"
	"math"
	"sort"
	"strings"

	"github.com/localrag/go-localrag/embedding"
	"github.com/localrag/go-localrag/ragerr"
	"github.com/localrag/go-localrag/sentsplit"
)

const (
	similarityThreshold = 0.85
	minPages             = 3
	samplePages          = 5
)

// PositionedText is one text item on a page, as extracted from a PDF
// content stream.
type PositionedText struct {
	Text     string
	X, Y     float64
	FontSize float64
	HasEOL   bool
}

// Page is one page's positioned items, in the order the PDF emits them.
type Page struct {
	Items []PositionedText
}

// Filter implements §4.3's algorithm, returning the cleaned per-page text
// joined into one document (blank line between pages).
func Filter(ctx context.Context, pages []Page, embedder embedding.Model) (string, error) {
	if len(pages) < minPages {
		return joinPages(linesFromPages(pages)), nil
	}

	sampled := sampleIndices(len(pages), samplePages)

	var firsts, lasts []string
	for _, idx := range sampled {
		lines := pageLines(pages[idx])
		sentences := sentsplit.Split(strings.Join(lines, "\n"))
		if len(sentences) == 0 {
			continue
		}
		firsts = append(firsts, sentences[0])
		lasts = append(lasts, sentences[len(sentences)-1])
	}

	headerDetected, err := detectRepeating(ctx, firsts, embedder)
	if err != nil {
		return "", err
	}
	footerDetected, err := detectRepeating(ctx, lasts, embedder)
	if err != nil {
		return "", err
	}

	var out []string
	for _, page := range pages {
		lines := pageLines(page)
		sentences := sentsplit.Split(strings.Join(lines, "\n"))
		if headerDetected && len(sentences) > 0 {
			sentences = sentences[1:]
		}
		if footerDetected && len(sentences) > 0 {
			sentences = sentences[:len(sentences)-1]
		}
		out = append(out, strings.Join(sentences, " "))
	}

	return joinPages(out), nil
}

func detectRepeating(ctx context.Context, sentences []string, embedder embedding.Model) (bool, error) {
	if len(sentences) < 2 {
		return false, nil
	}
	vectors, err := embedder.EmbedBatch(ctx, sentences)
	if err != nil {
		return false, ragerr.Wrap(ragerr.Embedding, "", "failed to embed boundary sample sentences", err)
	}

	sims := make([]float64, 0, len(vectors)*(len(vectors)-1)/2)
	for i := 0; i < len(vectors); i++ {
		for j := i + 1; j < len(vectors); j++ {
			sim, err := embedding.CosineSimilarity(vectors[i], vectors[j])
			if err != nil {
				return false, ragerr.Wrap(ragerr.Embedding, "", "failed to compare boundary sample sentences", err)
			}
			sims = append(sims, sim)
		}
	}
	return median(sims) >= similarityThreshold, nil
}

func median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}

// sampleIndices picks `count` page indices centered on the document's
// midpoint, clamped to the available range.
func sampleIndices(total, count int) []int {
	if total <= count {
		idx := make([]int, total)
		for i := range idx {
			idx[i] = i
		}
		return idx
	}
	center := total / 2
	start := center - count/2
	if start < 0 {
		start = 0
	}
	if start+count > total {
		start = total - count
	}
	idx := make([]int, count)
	for i := range idx {
		idx[i] = start + i
	}
	return idx
}

// pageLines renders a page's positioned items into lines: items sharing a
// rounded Y join left-to-right by X, and lines sort top-to-bottom by
// descending Y (PDF's coordinate origin is bottom-left).
func pageLines(page Page) []string {
	const yRound = 2.0

	groups := make(map[int][]PositionedText)
	for _, item := range page.Items {
		key := int(math.Round(item.Y / yRound))
		groups[key] = append(groups[key], item)
	}

	keys := make([]int, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(keys)))

	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		items := groups[k]
		sort.Slice(items, func(i, j int) bool { return items[i].X < items[j].X })
		parts := make([]string, len(items))
		for i, it := range items {
			parts[i] = it.Text
		}
		lines = append(lines, strings.Join(parts, " "))
	}
	return lines
}

func linesFromPages(pages []Page) []string {
	out := make([]string, len(pages))
	for i, p := range pages {
		out[i] = strings.Join(pageLines(p), " ")
	}
	return out
}

func joinPages(pages []string) string {
	return strings.Join(pages, "\n\n")
}
