package wham

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHistogram_AddTracksNumPointsAndBins(t *testing.T) {
	h := NewHistogram(4)
	h.Add(1)
	h.Add(1)
	h.Add(3)

	assert.Equal(t, int64(3), h.NumPoints)
	assert.Equal(t, []float64{0, 2, 0, 1}, h.Bins)
	assert.False(t, h.Empty())
}

func TestHistogram_Empty(t *testing.T) {
	h := NewHistogram(4)
	assert.True(t, h.Empty())
}
