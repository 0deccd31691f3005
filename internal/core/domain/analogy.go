package domain

import "time"

// RetrievalOptions configures a structural similarity query.
type RetrievalOptions struct {
	// TopK is the maximum number of matches to return. Zero or negative
	// yields an empty match list.
	TopK int

	// ExcludeDomain removes candidates whose domain matches
	// case-insensitively. Used to bias results toward cross-disciplinary
	// matches.
	ExcludeDomain string
}

// DefaultTopK is the match count used when the caller does not specify one.
const DefaultTopK = 5

// AnalogyMatch pairs a candidate paper with its structural similarity score.
type AnalogyMatch struct {
	// Paper is the matched record.
	Paper *PaperRecord

	// Score is the cosine similarity in [-1, 1].
	Score float64
}

// Explanation is the free-text result of analogy explanation.
type Explanation struct {
	// Text is the natural-language explanation of the structural analogy.
	Text string

	// Latency is the measured gateway call duration.
	Latency time.Duration
}
