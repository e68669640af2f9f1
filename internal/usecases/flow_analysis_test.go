package usecases

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateMock(t *testing.T) {
	f := NewFlowAnalysis(rand.NewPCG(1, 2))
	start := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(100 * time.Hour)

	series, err := f.GenerateMock("三峡", start, end)
	require.NoError(t, err)

	assert.Equal(t, "三峡流量变化趋势", series.Title())
	require.Len(t, series.Points, MockPointCount)
	assert.Equal(t, start, series.Points[0].Time)
	assert.Equal(t, start.Add(99*time.Hour), series.Points[MockPointCount-1].Time)

	for i, p := range series.Points {
		assert.GreaterOrEqual(t, p.Rate, MockMinRate)
		assert.Less(t, p.Rate, MockMinRate+MockRateSpan)
		if i > 0 {
			assert.True(t, p.Time.After(series.Points[i-1].Time))
		}
	}
}

func TestGenerateMockDeterministicWithSeed(t *testing.T) {
	start := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	a, err := NewFlowAnalysis(rand.NewPCG(7, 7)).GenerateMock("三峡", start, start.Add(time.Hour))
	require.NoError(t, err)
	b, err := NewFlowAnalysis(rand.NewPCG(7, 7)).GenerateMock("三峡", start, start.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestGenerateMockRejectsBadInput(t *testing.T) {
	f := NewFlowAnalysis(nil)
	now := time.Now()

	_, err := f.GenerateMock("三峡", now, now.Add(-time.Hour))
	assert.Error(t, err)

	_, err = f.GenerateMock(" ", now, now.Add(time.Hour))
	assert.Error(t, err)
}
