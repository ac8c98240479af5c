// Package sentsplit breaks arbitrary UTF-8 text into an ordered sequence of
// sentences, the unit the semantic chunker and the PDF boundary filter both
// operate on.
//
// Segmentation itself follows Unicode UAX #29 (via clipperhouse/uax29/v2),
// the same segmentation algorithm used by the corpus's other text-splitting
// components, but three protections run around it: fenced/inline code must
// never be split internally, paragraphs are segmented independently of one
// another, and Markdown headings pass through untouched.
package sentsplit

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/clipperhouse/uax29/v2/sentences"
)

var (
	fencedCodeBlockRe = regexp.MustCompile("(?s)```.*?```")
	inlineCodeRe      = regexp.MustCompile("`[^`\n]+`")
	headingRe         = regexp.MustCompile(`^#{1,6}\x20`)
	// A newline is a paragraph boundary when it is blank-line-followed or
	// immediately precedes non-whitespace (i.e. a hard line break into new
	// content rather than mid-sentence wrapping). The second alternative
	// also matches the following character; splitParagraphs keeps it.
	paragraphBoundaryRe = regexp.MustCompile(`\n[ \t]*\n|\n\S`)
)

const placeholderFormat = "\x00CODE%d\x00"

// Split implements the full §4.1 contract: code isolation, paragraph
// pre-split, heading pass-through, UAX #29 sentence segmentation, and
// placeholder restoration. Empty or whitespace-only input yields nil.
func Split(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	protected, blocks := isolateCode(text)

	var out []string
	for _, para := range splitParagraphs(protected) {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		if headingRe.MatchString(para) {
			out = append(out, restore(para, blocks))
			continue
		}
		for _, s := range segment(para) {
			s = strings.TrimSpace(s)
			if s == "" {
				continue
			}
			out = append(out, restore(s, blocks))
		}
	}
	return out
}

// isolateCode replaces fenced and inline code spans with single-token
// placeholders so that segmentation never splits inside one, returning the
// placeholder-bearing text and the blocks to restore afterward.
func isolateCode(text string) (string, []string) {
	var blocks []string
	replace := func(match string) string {
		idx := len(blocks)
		blocks = append(blocks, match)
		return fmt.Sprintf(placeholderFormat, idx)
	}
	text = fencedCodeBlockRe.ReplaceAllStringFunc(text, replace)
	text = inlineCodeRe.ReplaceAllStringFunc(text, replace)
	return text, blocks
}

func restore(s string, blocks []string) string {
	for i, block := range blocks {
		s = strings.ReplaceAll(s, fmt.Sprintf(placeholderFormat, i), block)
	}
	return s
}

// splitParagraphs splits on blank-line boundaries and on newlines
// immediately preceding non-whitespace, so that each resulting paragraph
// segments independently.
func splitParagraphs(text string) []string {
	var out []string
	start := 0
	for _, m := range paragraphBoundaryRe.FindAllStringIndex(text, -1) {
		next := m[1]
		if text[next-1] != '\n' {
			// "\n\S" match: the non-whitespace character opens the next paragraph.
			next = m[0] + 1
		}
		out = append(out, text[start:m[0]])
		start = next
	}
	return append(out, text[start:])
}

// segment runs Unicode sentence segmentation (UAX #29) over a single
// paragraph, which by construction contains no protected code block splits
// (placeholders are opaque single tokens to the segmenter).
func segment(para string) []string {
	var out []string
	seg := sentences.FromString(para)
	for seg.Next() {
		out = append(out, seg.Value())
	}
	return out
}
