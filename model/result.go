package model

// RetrievalResult is one ranked passage returned by the retriever.
// Score is a cosine-derived similarity, higher is more relevant.
type RetrievalResult struct {
	SourceID string  `json:"source_id"`
	Content  string  `json:"content"`
	Score    float64 `json:"score"`
}

// Answer is the synthesized answer for a question. Text is nil when
// generation is disabled or failed; a failure additionally carries its
// message in GenerationError. GroundedIn lists the source ids of the
// passages the answer was generated from.
type Answer struct {
	Text            *string  `json:"text"`
	GroundedIn      []string `json:"grounded_in,omitempty"`
	GenerationError *string  `json:"generation_error,omitempty"`
}

// QueryResult combines retrieval evidence with the optional synthesized
// answer. Results are always present, even when generation failed.
type QueryResult struct {
	Results []*RetrievalResult `json:"results"`
	Answer  *Answer            `json:"answer"`
}
