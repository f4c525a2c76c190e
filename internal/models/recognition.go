package models

// These structs make up the structured document model: the per-page
// annotation tree returned by the OCR service, flattened into plain data
// that serialises 1:1 into the structured JSON artifact.

// RecognitionResult is the extraction output for a single page.
type RecognitionResult struct {
	PageNumber int     `json:"page_number"`
	FullText   string  `json:"full_text"`
	Blocks     []Block `json:"blocks"`
}

// Block is a top-level text region on a page, typically a column or section.
type Block struct {
	BlockID     int         `json:"block_id"`
	Confidence  float64     `json:"confidence"`
	BoundingBox BoundingBox `json:"bounding_box"`
	Paragraphs  []Paragraph `json:"paragraphs"`
}

// Paragraph groups the words of one paragraph. Text is the child word texts
// joined by single spaces and trimmed.
type Paragraph struct {
	ParagraphID int         `json:"paragraph_id"`
	Confidence  float64     `json:"confidence"`
	BoundingBox BoundingBox `json:"bounding_box"`
	Text        string      `json:"text"`
	Words       []Word      `json:"words"`
}

// Word carries its symbols plus the concatenation of their texts.
type Word struct {
	WordID      int         `json:"word_id"`
	Text        string      `json:"text"`
	Confidence  float64     `json:"confidence"`
	BoundingBox BoundingBox `json:"bounding_box"`
	Symbols     []Symbol    `json:"symbols"`
}

// Symbol is a single detected character. BreakType is only set when the OCR
// service reported a detected break after this symbol; an absent break is an
// absent field, not a neutral value.
type Symbol struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
	BreakType  string  `json:"break_type,omitempty"`
}

// BoundingBox is the 4-vertex pixel-coordinate polygon enclosing a region.
type BoundingBox struct {
	Vertices []Vertex `json:"vertices"`
}

// Vertex is one corner of a bounding polygon.
type Vertex struct {
	X int64 `json:"x"`
	Y int64 `json:"y"`
}
