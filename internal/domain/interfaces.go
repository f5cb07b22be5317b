package domain

import "context"

// QARecord is one (context, question, answer) triple from the dataset with
// the embedding of its question. Records are built once at load time and
// never modified afterwards.
type QARecord struct {
	Context   string
	Question  string
	Answer    string
	Embedding []float64
}

// Match is the stored question closest to a user query.
type Match struct {
	Question string
	Answer   string
	Score    float64
}

// ScoredRecord is a vector store hit.
type ScoredRecord struct {
	Record   QARecord
	Position int
	Score    float64
}

// Embedder converts free text into a numeric vector representation.
// Implementations may require a preparation phase over the corpus.
type Embedder interface {
	Name() string
	Prepare(corpus []string) error
	Dimension() int
	Embed(ctx context.Context, text string) ([]float64, error)
}

// Matcher finds the stored question closest to a query. ok is false when no
// stored question clears the acceptance threshold.
type Matcher interface {
	Name() string
	FindMatch(ctx context.Context, query string) (m Match, ok bool, err error)
}

// Answerer extracts an answer to question from a passage of text.
type Answerer interface {
	Answer(ctx context.Context, question, passage string) (string, error)
}

// Chunker splits a passage into candidate answer spans.
type Chunker interface {
	Chunk(text string) []string
}

// Summarizer produces a brief summary of the provided text.
type Summarizer interface {
	Summarize(text string, maxSentences int) (string, error)
}

// ChatService defines the operations exposed by the application core.
type ChatService interface {
	Respond(ctx context.Context, question string) (string, error)
}
