// Package app wires configuration into the clients and use cases shared by
// the hydro-dash binaries
package app

import (
	"net/http"

	"github.com/abelzeko/hydro-dash/internal/config"
	"github.com/abelzeko/hydro-dash/internal/integration"
	"github.com/abelzeko/hydro-dash/internal/integration/openai"
	"github.com/abelzeko/hydro-dash/internal/render"
	"github.com/abelzeko/hydro-dash/internal/usecases"
	"go.uber.org/zap"
)

// App holds the components built from a Config
type App struct {
	Config *config.Config
	Hydro  *integration.HydroClient
	Chat   *integration.ChatClient
	Flow   *usecases.FlowAnalysis
	// Interpreter is nil when no OpenAI key is configured
	Interpreter openai.QueryInterpreter
}

// New builds the clients for cfg
func New(cfg *config.Config) *App {
	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}

	a := &App{
		Config: cfg,
		Hydro:  integration.NewHydroClient(cfg.APIBaseURL, httpClient),
		Chat:   integration.NewChatClient(cfg.ChatURL, httpClient),
		Flow:   usecases.NewFlowAnalysis(nil),
	}

	if cfg.OpenAIAPIKey != "" {
		interp, err := openai.NewQueryInterpreter(cfg.OpenAIAPIKey, cfg.OpenAIModel)
		if err != nil {
			zap.S().Warnf("Query interpreter disabled: %v", err)
		} else {
			a.Interpreter = interp
		}
	}
	return a
}

// Renderer returns a renderer configured with the row limits from the config
func (a *App) Renderer() *render.Renderer {
	return render.NewRenderer().WithRealTimeMaxRows(a.Config.Render.RealTimeMaxRows)
}

// Controller builds a query controller showing results on view
func (a *App) Controller(view render.View, alerter usecases.Alerter) *usecases.QueryController {
	return usecases.NewQueryController(a.Hydro, a.Renderer(), view, alerter)
}

// Assistant returns the free-text assistant, or nil without an interpreter
func (a *App) Assistant(controller *usecases.QueryController) *usecases.Assistant {
	if a.Interpreter == nil {
		return nil
	}
	return usecases.NewAssistant(a.Interpreter, controller)
}
