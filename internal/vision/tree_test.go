package vision

import (
	"testing"

	"github.com/Lllllllleong/ocrdocumentflow/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	vision "google.golang.org/api/vision/v1"
)

func symbol(text string, breakType string) *vision.Symbol {
	s := &vision.Symbol{Text: text, Confidence: 0.9}
	if breakType != "" {
		s.Property = &vision.TextProperty{DetectedBreak: &vision.DetectedBreak{Type: breakType}}
	}
	return s
}

func word(symbols ...*vision.Symbol) *vision.Word {
	return &vision.Word{
		Confidence: 0.8,
		BoundingBox: &vision.BoundingPoly{Vertices: []*vision.Vertex{
			{X: 1, Y: 2}, {X: 3, Y: 2}, {X: 3, Y: 4}, {X: 1, Y: 4},
		}},
		Symbols: symbols,
	}
}

func annotation(words ...*vision.Word) *vision.TextAnnotation {
	return &vision.TextAnnotation{
		Text: "hello world",
		Pages: []*vision.Page{{
			Blocks: []*vision.Block{{
				Confidence: 0.95,
				BoundingBox: &vision.BoundingPoly{Vertices: []*vision.Vertex{
					{X: 0, Y: 0}, {X: 100, Y: 0}, {X: 100, Y: 50}, {X: 0, Y: 50},
				}},
				Paragraphs: []*vision.Paragraph{{
					Confidence: 0.9,
					Words:      words,
				}},
			}},
		}},
	}
}

func TestBuildPageResult_WordAndParagraphText(t *testing.T) {
	ann := annotation(
		word(symbol("h", ""), symbol("e", ""), symbol("l", ""), symbol("l", ""), symbol("o", "SPACE")),
		word(symbol("w", ""), symbol("o", ""), symbol("r", ""), symbol("l", ""), symbol("d", "LINE_BREAK")),
	)

	result := BuildPageResult(1, ann)
	require.Len(t, result.Blocks, 1)
	require.Len(t, result.Blocks[0].Paragraphs, 1)

	para := result.Blocks[0].Paragraphs[0]
	require.Len(t, para.Words, 2)
	// A word's text is the ordered concatenation of its symbols' text.
	assert.Equal(t, "hello", para.Words[0].Text)
	assert.Equal(t, "world", para.Words[1].Text)
	// A paragraph's text is its words joined by single spaces, trimmed.
	assert.Equal(t, "hello world", para.Text)
	assert.Equal(t, "hello world", result.FullText)
}

func TestBuildPageResult_SiblingOrderPreserved(t *testing.T) {
	ann := annotation(
		word(symbol("b", "")),
		word(symbol("a", "")),
		word(symbol("c", "")),
	)

	result := BuildPageResult(1, ann)
	para := result.Blocks[0].Paragraphs[0]
	require.Len(t, para.Words, 3)
	// Recognition-service order is preserved verbatim, never re-sorted.
	assert.Equal(t, "b a c", para.Text)
	assert.Equal(t, 0, para.Words[0].WordID)
	assert.Equal(t, 1, para.Words[1].WordID)
	assert.Equal(t, 2, para.Words[2].WordID)
}

func TestBuildPageResult_BreakTypes(t *testing.T) {
	ann := annotation(word(
		symbol("a", ""),
		symbol("b", "UNKNOWN"),
		symbol("c", "EOL_SURE_SPACE"),
	))

	symbols := BuildPageResult(1, ann).Blocks[0].Paragraphs[0].Words[0].Symbols
	require.Len(t, symbols, 3)
	// No break and break-of-type-unknown both yield an absent tag.
	assert.Empty(t, symbols[0].BreakType)
	assert.Empty(t, symbols[1].BreakType)
	assert.Equal(t, "EOL_SURE_SPACE", symbols[2].BreakType)
}

func TestBuildPageResult_BoundingBoxes(t *testing.T) {
	ann := annotation(word(symbol("x", "")))

	result := BuildPageResult(3, ann)
	assert.Equal(t, 3, result.PageNumber)

	block := result.Blocks[0]
	require.Len(t, block.BoundingBox.Vertices, 4)
	assert.Equal(t, models.Vertex{X: 100, Y: 50}, block.BoundingBox.Vertices[2])
	assert.InDelta(t, 0.95, block.Confidence, 1e-9)

	w := block.Paragraphs[0].Words[0]
	assert.Equal(t, models.Vertex{X: 1, Y: 2}, w.BoundingBox.Vertices[0])
}

func TestBuildPageResult_NilBoundingBox(t *testing.T) {
	w := &vision.Word{Symbols: []*vision.Symbol{symbol("x", "")}}
	ann := annotation(w)

	result := BuildPageResult(1, ann)
	got := result.Blocks[0].Paragraphs[0].Words[0].BoundingBox
	assert.NotNil(t, got.Vertices)
	assert.Empty(t, got.Vertices)
}

func TestBuildPageResult_NilAnnotation(t *testing.T) {
	result := BuildPageResult(2, nil)
	assert.Equal(t, 2, result.PageNumber)
	assert.Empty(t, result.FullText)
	assert.NotNil(t, result.Blocks)
	assert.Empty(t, result.Blocks)
}
