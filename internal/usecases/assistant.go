package usecases

import (
	"context"
	"errors"
	"fmt"

	"github.com/abelzeko/hydro-dash/internal/entities"
	"github.com/abelzeko/hydro-dash/internal/integration/openai"
	"github.com/abelzeko/hydro-dash/internal/render"
	"go.uber.org/zap"
)

// AskResult is the outcome of a free-text question
type AskResult struct {
	UserMessage string
	Query       entities.Query        // nil for general questions
	State       *entities.RenderState // nil when no query ran
}

// Text formats the result for chat front ends
func (r *AskResult) Text() string {
	if r.State == nil {
		return r.UserMessage
	}
	msg := r.UserMessage
	if msg != "" {
		msg += "\n\n"
	}
	return msg + render.FormatMessage(*r.State)
}

// Assistant answers free-text questions by interpreting them as queries
// and running them through the controller
type Assistant struct {
	interpreter openai.QueryInterpreter
	controller  *QueryController
}

// NewAssistant creates an assistant
func NewAssistant(interpreter openai.QueryInterpreter, controller *QueryController) *Assistant {
	return &Assistant{interpreter: interpreter, controller: controller}
}

// Ask interprets text and runs the resulting query. Interpreted queries are
// validated like typed ones, a ValidationError comes back with the
// interpreter's message still set on the result.
func (a *Assistant) Ask(ctx context.Context, text string) (*AskResult, error) {
	zap.S().Infof("Interpreting natural language query: %s", text)

	intent, err := a.interpreter.InterpretQuery(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("failed to interpret query: %w", err)
	}
	zap.S().Infof("Interpreted as %q (river=%q, station=%q)", intent.QueryType, intent.River, intent.StationName)

	result := &AskResult{UserMessage: intent.UserMessage}
	q, ok := intent.Query()
	if !ok {
		return result, nil
	}
	result.Query = q

	state, err := a.controller.Run(ctx, q)
	if err != nil {
		var verr *entities.ValidationError
		if errors.As(err, &verr) {
			return result, err
		}
		return nil, err
	}
	result.State = &state
	return result, nil
}
