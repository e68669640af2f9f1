// Package entities contains the core domain objects for the hydro-dash application
package entities

import (
	"fmt"
	"net/url"
	"strings"
)

// QueryKind selects which hydrology endpoint a query is sent to
type QueryKind string

const (
	// KindLocation searches static station metadata
	KindLocation QueryKind = "location"
	// KindRealTime searches live reservoir telemetry
	KindRealTime QueryKind = "real-time"
)

// ParseQueryKind converts selector text into a QueryKind
func ParseQueryKind(s string) (QueryKind, error) {
	switch QueryKind(strings.TrimSpace(s)) {
	case KindLocation:
		return KindLocation, nil
	case KindRealTime, "realtime", "real_time":
		return KindRealTime, nil
	default:
		return "", fmt.Errorf("unknown query type %q", s)
	}
}

// Query is a request over one of the two hydrology endpoints.
// Implementations are LocationQuery and RealTimeQuery.
type Query interface {
	Kind() QueryKind
	// Params returns the URL parameters for the request. Every parameter
	// is present, absent optional values are sent as empty strings.
	Params() url.Values
	Validate() error
}

// LocationQuery searches stations by administrative region, basin and name
type LocationQuery struct {
	Province    string // 行政区
	Valley      string // 流域
	StationName string // 站名
}

// Kind implements Query
func (q LocationQuery) Kind() QueryKind { return KindLocation }

// Params implements Query
func (q LocationQuery) Params() url.Values {
	v := url.Values{}
	v.Set("province", q.Province)
	v.Set("valley", q.Valley)
	v.Set("target_station", q.StationName)
	v.Set("queried_variable", "station_name")
	return v
}

// Validate implements Query. Location queries have no required fields.
func (q LocationQuery) Validate() error { return nil }

// RealTimeQuery asks for the current state of one reservoir
type RealTimeQuery struct {
	River       string // 河名, required
	StationName string // 库名, required
	PubTime     string // publication date, optional (YYYY-MM-DD)
}

// Kind implements Query
func (q RealTimeQuery) Kind() QueryKind { return KindRealTime }

// Params implements Query
func (q RealTimeQuery) Params() url.Values {
	v := url.Values{}
	v.Set("river", q.River)
	v.Set("station_name", q.StationName)
	v.Set("pubtime", q.PubTime)
	return v
}

// Validate implements Query
func (q RealTimeQuery) Validate() error {
	var missing []string
	if strings.TrimSpace(q.River) == "" {
		missing = append(missing, "river")
	}
	if strings.TrimSpace(q.StationName) == "" {
		missing = append(missing, "station_name")
	}
	if len(missing) > 0 {
		return &ValidationError{Fields: missing}
	}
	return nil
}

// ValidationErrorMessage is shown to the user when required real-time fields are blank
const ValidationErrorMessage = "河名和库名为必填项！"

// ValidationError reports blank required fields. It is a user-input error:
// the request is never sent.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s (missing: %s)", ValidationErrorMessage, strings.Join(e.Fields, ", "))
}
