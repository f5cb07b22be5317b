// Package vectormath implements the similarity measures used by the matchers.
package vectormath

import "math"

// Cosine returns dot(a,b) / (||a|| * ||b||). Vectors of different lengths
// come from different embedding spaces and yield 0, as does a zero-norm
// operand.
func Cosine(a, b []float64) float64 {
	if len(a) != len(b) {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
