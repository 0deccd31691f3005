package driven

// TextExtractor converts raw document bytes into plain text.
// This is a collaborator boundary: PDF or OCR extraction plugs in behind the
// same interface without the pipeline knowing.
type TextExtractor interface {
	// Name identifies the extractor (e.g. "plaintext", "markdown").
	Name() string

	// CanExtract reports whether this extractor handles the given filename.
	CanExtract(filename string) bool

	// Extract returns a title guess and the full text. Fails with
	// domain.ErrExtraction on non-text or corrupted input.
	Extract(raw []byte) (title string, text string, err error)
}
