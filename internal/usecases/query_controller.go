// Package usecases contains the application's business logic
package usecases

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/abelzeko/hydro-dash/internal/entities"
	"github.com/abelzeko/hydro-dash/internal/render"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Form field names read by the controller
const (
	FieldProvince    = "province"
	FieldValley      = "valley"
	FieldStationName = "station_name"
	FieldRiver       = "river"
	FieldPubTime     = "pub_time"
)

// Fetcher performs a single request for a query
type Fetcher interface {
	Fetch(ctx context.Context, q entities.Query) (*entities.Response, error)
}

// Alerter shows a blocking, user-facing message
type Alerter interface {
	Alert(message string)
}

// FilterForm is the filter panel: a query-type selector plus input fields
type FilterForm interface {
	SelectedKind() string
	Value(field string) string
}

// Form is a FilterForm backed by a map
type Form struct {
	Kind   string
	Values map[string]string
}

// SelectedKind implements FilterForm
func (f Form) SelectedKind() string { return f.Kind }

// Value implements FilterForm
func (f Form) Value(field string) string { return f.Values[field] }

// ReadQuery builds the query for the form's selected kind from that kind's fields
func ReadQuery(form FilterForm) (entities.Query, error) {
	kind, err := entities.ParseQueryKind(form.SelectedKind())
	if err != nil {
		return nil, err
	}

	value := form.Value

	switch kind {
	case entities.KindRealTime:
		return entities.RealTimeQuery{
			River:       value(FieldRiver),
			StationName: value(FieldStationName),
			PubTime:     value(FieldPubTime),
		}, nil
	default:
		return entities.LocationQuery{
			Province:    value(FieldProvince),
			Valley:      value(FieldValley),
			StationName: value(FieldStationName),
		}, nil
	}
}

// QueryController reads filters, dispatches requests and pushes the rendered
// outcome to a view.
//
// Submissions are independent: there is no de-duplication, cancellation or
// retry, and whichever request resolves last overwrites the view, even if it
// was issued first.
type QueryController struct {
	fetcher  Fetcher
	renderer *render.Renderer
	view     render.View
	alerter  Alerter

	viewMu   sync.Mutex // one view update at a time
	inflight sync.WaitGroup
}

// NewQueryController creates a controller. view and alerter may be nil
// when the caller only uses Run's return value.
func NewQueryController(fetcher Fetcher, renderer *render.Renderer, view render.View, alerter Alerter) *QueryController {
	if renderer == nil {
		renderer = render.NewRenderer()
	}
	return &QueryController{
		fetcher:  fetcher,
		renderer: renderer,
		view:     view,
		alerter:  alerter,
	}
}

// Submit reads the form, validates it and starts an asynchronous request.
// A validation failure is alerted and returned, and no request is sent.
func (c *QueryController) Submit(ctx context.Context, form FilterForm) error {
	q, err := ReadQuery(form)
	if err != nil {
		return err
	}
	if err := c.validate(q); err != nil {
		return err
	}

	c.inflight.Add(1)
	go func() {
		defer c.inflight.Done()
		if _, err := c.execute(ctx, q); err != nil {
			zap.S().Errorf("Failed to show %s result: %v", q.Kind(), err)
		}
	}()
	return nil
}

// Run validates and executes q synchronously and returns the state it showed
func (c *QueryController) Run(ctx context.Context, q entities.Query) (entities.RenderState, error) {
	if err := c.validate(q); err != nil {
		return entities.RenderState{}, err
	}
	return c.execute(ctx, q)
}

// Wait blocks until every submitted request has been rendered
func (c *QueryController) Wait() {
	c.inflight.Wait()
}

func (c *QueryController) validate(q entities.Query) error {
	err := q.Validate()
	if err == nil {
		return nil
	}
	var verr *entities.ValidationError
	if errors.As(err, &verr) && c.alerter != nil {
		c.alerter.Alert(entities.ValidationErrorMessage)
	}
	zap.S().Infof("Rejected %s query: %v", q.Kind(), err)
	return err
}

func (c *QueryController) execute(ctx context.Context, q entities.Query) (entities.RenderState, error) {
	id := uuid.NewString()
	zap.S().Infof("Dispatching %s query %s", q.Kind(), id)

	resp, err := c.fetcher.Fetch(ctx, q)
	if err != nil {
		zap.S().Warnf("Query %s failed: %v", id, err)
	}
	state := c.renderer.Render(q.Kind(), resp, err)
	zap.S().Infof("Query %s resolved: %s (%d rows)", id, state.Kind, len(state.Rows))

	if c.view == nil {
		return state, nil
	}

	c.viewMu.Lock()
	defer c.viewMu.Unlock()
	if err := c.view.Show(state); err != nil {
		return state, fmt.Errorf("failed to show result: %w", err)
	}
	return state, nil
}
