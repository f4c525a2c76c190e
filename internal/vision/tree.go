package vision

import (
	"strings"

	"github.com/Lllllllleong/ocrdocumentflow/internal/models"
	vision "google.golang.org/api/vision/v1"
)

// BuildPageResult walks an annotation tree exactly once and produces this
// page's entry in the structured document model. Sibling order from the
// service is preserved verbatim at every level; nothing is re-sorted.
//
// A nil annotation (no text detected) yields an entry with empty text and no
// blocks, keeping the walk total.
func BuildPageResult(pageNumber int, annotation *vision.TextAnnotation) models.RecognitionResult {
	result := models.RecognitionResult{
		PageNumber: pageNumber,
		Blocks:     []models.Block{},
	}
	if annotation == nil {
		return result
	}
	result.FullText = annotation.Text

	for _, page := range annotation.Pages {
		for idx, block := range page.Blocks {
			result.Blocks = append(result.Blocks, buildBlock(idx, block))
		}
	}
	return result
}

func buildBlock(id int, block *vision.Block) models.Block {
	out := models.Block{
		BlockID:     id,
		Confidence:  block.Confidence,
		BoundingBox: buildBoundingBox(block.BoundingBox),
		Paragraphs:  []models.Paragraph{},
	}
	for idx, paragraph := range block.Paragraphs {
		out.Paragraphs = append(out.Paragraphs, buildParagraph(idx, paragraph))
	}
	return out
}

func buildParagraph(id int, paragraph *vision.Paragraph) models.Paragraph {
	out := models.Paragraph{
		ParagraphID: id,
		Confidence:  paragraph.Confidence,
		BoundingBox: buildBoundingBox(paragraph.BoundingBox),
		Words:       []models.Word{},
	}
	texts := make([]string, 0, len(paragraph.Words))
	for idx, word := range paragraph.Words {
		built := buildWord(idx, word)
		texts = append(texts, built.Text)
		out.Words = append(out.Words, built)
	}
	out.Text = strings.TrimSpace(strings.Join(texts, " "))
	return out
}

func buildWord(id int, word *vision.Word) models.Word {
	out := models.Word{
		WordID:      id,
		Confidence:  word.Confidence,
		BoundingBox: buildBoundingBox(word.BoundingBox),
		Symbols:     []models.Symbol{},
	}
	var text strings.Builder
	for _, symbol := range word.Symbols {
		text.WriteString(symbol.Text)
		out.Symbols = append(out.Symbols, buildSymbol(symbol))
	}
	out.Text = text.String()
	return out
}

func buildSymbol(symbol *vision.Symbol) models.Symbol {
	out := models.Symbol{
		Text:       symbol.Text,
		Confidence: symbol.Confidence,
	}
	// "no break" must stay distinct from "break of some type": the field is
	// only populated when the service reported one.
	if symbol.Property != nil && symbol.Property.DetectedBreak != nil {
		if t := symbol.Property.DetectedBreak.Type; t != "" && t != "UNKNOWN" {
			out.BreakType = t
		}
	}
	return out
}

func buildBoundingBox(poly *vision.BoundingPoly) models.BoundingBox {
	box := models.BoundingBox{Vertices: []models.Vertex{}}
	if poly == nil {
		return box
	}
	for _, vertex := range poly.Vertices {
		box.Vertices = append(box.Vertices, models.Vertex{X: vertex.X, Y: vertex.Y})
	}
	return box
}
