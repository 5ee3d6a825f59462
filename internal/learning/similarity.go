package learning

import "math"

// JobFeatures is the input-derived feature vector of a job: the four
// sub-scores computed from the job and profile alone. The historical-success
// sub-score is excluded to keep the similarity definition non-circular.
type JobFeatures [4]float64

// Cosine computes cosine similarity between two feature vectors, mapped from
// [-1,1] to [0,1]. Zero vectors compare as neutral 0.5.
func Cosine(a, b JobFeatures) float64 {
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0.5
	}
	cos := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	return (cos + 1) / 2
}
