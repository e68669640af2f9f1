package main

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/abelzeko/hydro-dash/internal/entities"
	"github.com/abelzeko/hydro-dash/internal/integration"
	"github.com/abelzeko/hydro-dash/internal/usecases"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduleRejectsBadCronExpression(t *testing.T) {
	_, err := schedule(context.Background(), "not a cron spec", nil, entities.RealTimeQuery{})
	assert.Error(t, err)
}

func TestScheduleRunsQuery(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		io.WriteString(w, `{"errCode": 0, "data": [{"库名": "三峡"}]}`)
	}))
	defer server.Close()

	controller := usecases.NewQueryController(integration.NewHydroClient(server.URL, server.Client()), nil, nil, nil)
	c, err := schedule(context.Background(), "@every 1h", controller, entities.RealTimeQuery{River: "长江", StationName: "三峡"})
	require.NoError(t, err)

	entries := c.Entries()
	require.Len(t, entries, 1)

	// Invoke the registered job directly instead of waiting for the tick
	entries[0].Job.Run()
	assert.Equal(t, int32(1), hits.Load())
}
