package entities

import "time"

// FlowPoint is a single flow-rate sample
type FlowPoint struct {
	Time time.Time `json:"time"`
	Rate float64   `json:"rate"` // m³/s
}

// FlowSeries is a flow-rate time series for one reservoir
type FlowSeries struct {
	Reservoir string      `json:"reservoir"`
	Points    []FlowPoint `json:"points"`
}

// Title is the chart title for the series
func (s FlowSeries) Title() string {
	return s.Reservoir + "流量变化趋势"
}
