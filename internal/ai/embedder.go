package ai

import (
	"context"
)

// TaskSemanticSimilarity is the embedding task type used to compare a resume with a posting.
const TaskSemanticSimilarity = "SEMANTIC_SIMILARITY"

// Embedder turns two texts into two vectors of equal dimensionality.
type Embedder interface {
	EmbedPair(ctx context.Context, first, second string) ([]float32, []float32, error)
}
