package entities

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocationQueryParams(t *testing.T) {
	q := LocationQuery{Province: "湖北", StationName: "宜昌"}
	params := q.Params()

	assert.Equal(t, "湖北", params.Get("province"))
	assert.Equal(t, "宜昌", params.Get("target_station"))
	assert.Equal(t, "station_name", params.Get("queried_variable"))

	// Empty optional fields are sent, not omitted
	_, ok := params["valley"]
	assert.True(t, ok, "valley should be present even when empty")
	assert.Contains(t, params.Encode(), "valley=&")
	assert.NoError(t, q.Validate())
}

func TestRealTimeQueryParams(t *testing.T) {
	q := RealTimeQuery{River: "长江", StationName: "三峡"}
	params := q.Params()

	assert.Equal(t, "长江", params.Get("river"))
	assert.Equal(t, "三峡", params.Get("station_name"))
	_, ok := params["pubtime"]
	assert.True(t, ok, "pubtime should be present even when empty")
}

func TestRealTimeQueryValidate(t *testing.T) {
	tests := []struct {
		name    string
		query   RealTimeQuery
		missing []string
	}{
		{"valid", RealTimeQuery{River: "长江", StationName: "三峡"}, nil},
		{"missing river", RealTimeQuery{StationName: "三峡"}, []string{"river"}},
		{"missing station", RealTimeQuery{River: "长江"}, []string{"station_name"}},
		{"blank both", RealTimeQuery{River: "  ", StationName: ""}, []string{"river", "station_name"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.query.Validate()
			if tt.missing == nil {
				assert.NoError(t, err)
				return
			}
			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.missing, verr.Fields)
			assert.Contains(t, err.Error(), ValidationErrorMessage)
		})
	}
}

func TestParseQueryKind(t *testing.T) {
	kind, err := ParseQueryKind("location")
	require.NoError(t, err)
	assert.Equal(t, KindLocation, kind)

	kind, err = ParseQueryKind("real-time")
	require.NoError(t, err)
	assert.Equal(t, KindRealTime, kind)

	_, err = ParseQueryKind("forecast")
	assert.Error(t, err)
}

func TestResultRecordText(t *testing.T) {
	rec := ResultRecord{
		"站名":  "宜昌",
		"empty": "",
		"level": float64(66.5),
		"zero":  float64(0),
		"null":  nil,
	}

	s, ok := rec.Text("站名")
	assert.True(t, ok)
	assert.Equal(t, "宜昌", s)

	s, ok = rec.Text("level")
	assert.True(t, ok)
	assert.Equal(t, "66.5", s)

	s, ok = rec.Text("zero")
	assert.True(t, ok)
	assert.Equal(t, "0", s)

	_, ok = rec.Text("empty")
	assert.False(t, ok)
	_, ok = rec.Text("null")
	assert.False(t, ok)
	_, ok = rec.Text("missing")
	assert.False(t, ok)
}
