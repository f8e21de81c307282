package vector

import "math"

// Cosine returns dot(a, b) / (|a| * |b|), or 0 when either norm is zero.
// When lengths differ the dot product covers the common prefix while norms use full vectors.
func Cosine(a, b []float32) float64 {
	var dot float64
	for i := range min(len(a), len(b)) {
		dot += float64(a[i]) * float64(b[i])
	}

	normA := norm(a)
	normB := norm(b)
	if normA == 0 || normB == 0 {
		return 0
	}

	return dot / (normA * normB)
}

// Rescale maps a cosine similarity from [-1, 1] onto [0, 1].
func Rescale(similarity float64) float64 {
	return (similarity + 1) / 2
}

func norm(v []float32) float64 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	return math.Sqrt(sum)
}
