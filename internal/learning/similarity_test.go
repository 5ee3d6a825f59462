package learning

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCosine_Identical(t *testing.T) {
	v := JobFeatures{0.8, 0.5, 1.0, 0.3}
	assert.InDelta(t, 1.0, Cosine(v, v), 0.001)
}

func TestCosine_ZeroVectorIsNeutral(t *testing.T) {
	assert.Equal(t, 0.5, Cosine(JobFeatures{}, JobFeatures{0.8, 0.5, 1.0, 0.3}))
	assert.Equal(t, 0.5, Cosine(JobFeatures{0.8, 0.5, 1.0, 0.3}, JobFeatures{}))
}

func TestCosine_Orthogonal(t *testing.T) {
	a := JobFeatures{1, 0, 0, 0}
	b := JobFeatures{0, 1, 0, 0}
	assert.InDelta(t, 0.5, Cosine(a, b), 0.001)
}

func TestCosine_Symmetric(t *testing.T) {
	a := JobFeatures{0.9, 0.2, 0.7, 0.4}
	b := JobFeatures{0.1, 0.8, 0.3, 0.6}
	assert.Equal(t, Cosine(a, b), Cosine(b, a))
}

func TestCosine_RangeBounded(t *testing.T) {
	a := JobFeatures{0.9, 0.2, 0.7, 0.4}
	b := JobFeatures{0.1, 0.8, 0.3, 0.6}
	got := Cosine(a, b)
	assert.GreaterOrEqual(t, got, 0.0)
	assert.LessOrEqual(t, got, 1.0)
}
