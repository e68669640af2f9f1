package app

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/abelzeko/hydro-dash/internal/config"
	"github.com/abelzeko/hydro-dash/internal/entities"
	"github.com/abelzeko/hydro-dash/internal/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithoutOpenAI(t *testing.T) {
	a := New(&config.Config{APIBaseURL: "http://example", Render: config.RenderConfig{RealTimeMaxRows: 1}})
	assert.Nil(t, a.Interpreter)
	assert.Nil(t, a.Assistant(a.Controller(nil, nil)))
}

func TestNewWithOpenAI(t *testing.T) {
	a := New(&config.Config{OpenAIAPIKey: "sk-test"})
	assert.NotNil(t, a.Interpreter)
	assert.NotNil(t, a.Assistant(a.Controller(nil, nil)))
}

func TestControllerUsesConfiguredRowLimit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"errCode": 0, "data": [{"库名": "三峡"}, {"库名": "葛洲坝"}]}`)
	}))
	defer server.Close()

	a := New(&config.Config{APIBaseURL: server.URL, Render: config.RenderConfig{RealTimeMaxRows: 0}})
	var buf bytes.Buffer
	c := a.Controller(render.NewTextView(&buf), nil)

	state, err := c.Run(context.Background(), entities.RealTimeQuery{River: "长江", StationName: "三峡"})
	require.NoError(t, err)
	assert.Len(t, state.Rows, 2)
	assert.Contains(t, buf.String(), "葛洲坝")
}
