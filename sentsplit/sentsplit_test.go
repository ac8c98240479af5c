package sentsplit

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

type SentSplitTestSuite struct {
	suite.Suite
}

func TestSentSplitTestSuite(t *testing.T) {
	suite.Run(t, new(SentSplitTestSuite))
}

func (s *SentSplitTestSuite) TestEmptyInput() {
	s.Empty(Split(""))
	s.Empty(Split("   \n\t  "))
}

func (s *SentSplitTestSuite) TestBasicSentences() {
	out := Split("TypeScript is great. It has types. Types help.")
	s.Len(out, 3)
	s.Equal("TypeScript is great.", out[0])
}

func (s *SentSplitTestSuite) TestFencedCodeBlockNotSplit() {
	text := "Here is code:\n\n```go\nfmt.Println(\"a. b. c.\")\n```\n\nAfter the block."
	out := Split(text)
	var sawBlock bool
	for _, sentence := range out {
		if sentence == "```go\nfmt.Println(\"a. b. c.\")\n```" {
			sawBlock = true
			continue
		}
		// The period-laden code content must never appear split across
		// multiple output sentences.
		s.NotContains(sentence, "fmt.Println(\"a.")
	}
	s.True(sawBlock)
}

func (s *SentSplitTestSuite) TestInlineCodeNotSplit() {
	out := Split("Call `foo.Bar()` to start. Then call `baz.Qux()`.")
	s.Len(out, 2)
	s.Contains(out[0], "`foo.Bar()`")
}

func (s *SentSplitTestSuite) TestHeadingPassthrough() {
	out := Split("# A Heading With. A Period\n\nBody sentence one. Body sentence two.")
	s.Require().NotEmpty(out)
	s.Equal("# A Heading With. A Period", out[0])
}

func (s *SentSplitTestSuite) TestParagraphsSegmentIndependently() {
	text := "First paragraph sentence.\n\nSecond paragraph sentence."
	out := Split(text)
	s.Len(out, 2)
}

func (s *SentSplitTestSuite) TestHardLineBreakIsParagraphBoundary() {
	text := "Line one\nLine two continues."
	out := Split(text)
	s.Len(out, 2)
}
