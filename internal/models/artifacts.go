package models

import "time"

// PageImageArtifact describes one rasterised page produced by the conversion
// stage. Artifacts are ordered by PageNumber ascending; PageNumber is the
// 1-based ordinal of the artifact in numeric filename order, so it stays
// correct even if the conversion tool emits zero-based or non-contiguous
// indices.
type PageImageArtifact struct {
	PageNumber int
	Path       string
	ByteSize   int64
	ModifiedAt time.Time
}

// EncodedPagePayload is the base64 form of a page image, persisted as a
// sibling .b64 file and used as the OCR request payload.
type EncodedPagePayload struct {
	PageNumber int
	Path       string
	Content    string
}

// DocumentArtifacts lists the whole-document output files written by the
// aggregation stage. A path is empty when its write failed and the run
// continued best-effort.
type DocumentArtifacts struct {
	TextPath       string
	StructuredPath string
	TimingPath     string
}

// Paths returns the artifact paths that were actually written.
func (d DocumentArtifacts) Paths() []string {
	var paths []string
	for _, p := range []string{d.TextPath, d.StructuredPath, d.TimingPath} {
		if p != "" {
			paths = append(paths, p)
		}
	}
	return paths
}
