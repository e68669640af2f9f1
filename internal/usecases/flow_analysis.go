package usecases

import (
	"errors"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/abelzeko/hydro-dash/internal/entities"
)

// Mock series shape
const (
	MockPointCount = 100
	MockMinRate    = 50.0
	MockRateSpan   = 100.0
)

// FlowAnalysis produces flow-rate series for the chart. There is no flow
// backend yet, so series are generated.
type FlowAnalysis struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewFlowAnalysis creates a generator. A nil source is seeded randomly.
func NewFlowAnalysis(src rand.Source) *FlowAnalysis {
	if src == nil {
		src = rand.NewPCG(rand.Uint64(), rand.Uint64())
	}
	return &FlowAnalysis{rng: rand.New(src)}
}

// GenerateMock returns MockPointCount points evenly spaced over [start, end)
// with rates uniform in [50, 150) m³/s
func (f *FlowAnalysis) GenerateMock(reservoir string, start, end time.Time) (entities.FlowSeries, error) {
	reservoir = strings.TrimSpace(reservoir)
	if reservoir == "" {
		return entities.FlowSeries{}, errors.New("reservoir name is required")
	}
	if end.Before(start) {
		return entities.FlowSeries{}, errors.New("end time is before start time")
	}

	span := end.Sub(start)
	points := make([]entities.FlowPoint, MockPointCount)

	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range points {
		points[i] = entities.FlowPoint{
			Time: start.Add(time.Duration(float64(span) * float64(i) / MockPointCount)),
			Rate: MockMinRate + f.rng.Float64()*MockRateSpan,
		}
	}

	return entities.FlowSeries{Reservoir: reservoir, Points: points}, nil
}
