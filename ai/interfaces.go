package ai

import "context"

// Embedder generates vector embeddings from text for semantic similarity
// search. Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a fixed-length vector embedding for one text.
	// Returns an error if the embedding service fails or times out.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates embeddings for multiple texts in a batch.
	// The returned slice matches the input order.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// Generator produces a natural-language answer from a question and the
// retrieval context assembled for it. Implementations must be thread-safe.
type Generator interface {
	// GenerateAnswer sends context plus question to the generation service
	// and returns its response verbatim.
	GenerateAnswer(ctx context.Context, question, contextText string) (string, error)
}

// Provider aggregates the AI services for convenient initialization and
// lifecycle management.
type Provider interface {
	// Embedder returns the text embedding service.
	Embedder() Embedder

	// Generator returns the answer generation service.
	Generator() Generator

	// Close releases resources held by the provider and its services.
	Close() error
}
