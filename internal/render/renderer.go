package render

import (
	"fmt"

	"github.com/abelzeko/hydro-dash/internal/entities"
)

// ErrorPrefix precedes transport and decoding errors in the no-results panel
const ErrorPrefix = "查询出错: "

// Policy is how one query kind is rendered
type Policy struct {
	Fields  []Field
	Success SuccessFunc
	// MaxRows limits rendered records, 0 renders all of them
	MaxRows int
}

// Renderer maps query outcomes to render states
type Renderer struct {
	policies map[entities.QueryKind]Policy
}

// NewRenderer creates a renderer with the default policies: every station
// for location queries, the first reservoir record for real-time queries.
func NewRenderer() *Renderer {
	return &Renderer{
		policies: map[entities.QueryKind]Policy{
			entities.KindLocation: {Fields: LocationFields, Success: LocationSuccess},
			entities.KindRealTime: {Fields: RealTimeFields, Success: RealTimeSuccess, MaxRows: 1},
		},
	}
}

// WithPolicy replaces the policy for kind and returns the renderer
func (r *Renderer) WithPolicy(kind entities.QueryKind, p Policy) *Renderer {
	r.policies[kind] = p
	return r
}

// WithRealTimeMaxRows changes how many reservoir records are rendered
func (r *Renderer) WithRealTimeMaxRows(n int) *Renderer {
	p := r.policies[entities.KindRealTime]
	p.MaxRows = n
	r.policies[entities.KindRealTime] = p
	return r
}

// Policy returns the policy used for kind
func (r *Renderer) Policy(kind entities.QueryKind) (Policy, bool) {
	p, ok := r.policies[kind]
	return p, ok
}

// Render decides the state for a finished request. A non-nil err is a
// request failure and its text is shown verbatim. An unsuccessful or empty
// response gives the silent empty state.
func (r *Renderer) Render(kind entities.QueryKind, resp *entities.Response, err error) entities.RenderState {
	if err != nil {
		return entities.ErrorState(kind, ErrorPrefix+err.Error())
	}

	p, ok := r.policies[kind]
	if !ok {
		return entities.ErrorState(kind, ErrorPrefix+fmt.Sprintf("unknown query type %q", kind))
	}
	if !p.Success(resp) {
		return entities.EmptyState(kind)
	}

	records := resp.Data
	if p.MaxRows > 0 && len(records) > p.MaxRows {
		records = records[:p.MaxRows]
	}

	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		rows = append(rows, Row(p.Fields, rec))
	}

	return entities.RenderState{
		Kind:      entities.StateResults,
		QueryKind: kind,
		Columns:   Headers(p.Fields),
		Rows:      rows,
	}
}
