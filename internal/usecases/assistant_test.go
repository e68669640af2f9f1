package usecases

import (
	"context"
	"errors"
	"testing"

	"github.com/abelzeko/hydro-dash/internal/entities"
	"github.com/abelzeko/hydro-dash/internal/integration/openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubInterpreter struct {
	intent *openai.QueryIntent
	err    error
}

func (s stubInterpreter) InterpretQuery(ctx context.Context, text string) (*openai.QueryIntent, error) {
	return s.intent, s.err
}

func TestAssistantRunsInterpretedQuery(t *testing.T) {
	var got entities.Query
	fetcher := fetchFunc(func(ctx context.Context, q entities.Query) (*entities.Response, error) {
		got = q
		return &entities.Response{ErrCode: intPtr(0), Data: []entities.ResultRecord{{"河名": "长江", "库名": "三峡"}}}, nil
	})
	intent := &openai.QueryIntent{QueryType: openai.QueryTypeRealTime, River: "长江", StationName: "三峡", UserMessage: "好的"}
	a := NewAssistant(stubInterpreter{intent: intent}, NewQueryController(fetcher, nil, nil, nil))

	result, err := a.Ask(context.Background(), "三峡现在水位多少")
	require.NoError(t, err)
	assert.Equal(t, entities.RealTimeQuery{River: "长江", StationName: "三峡"}, got)
	require.NotNil(t, result.State)
	assert.Equal(t, entities.StateResults, result.State.Kind)
	assert.Contains(t, result.Text(), "好的\n\n")
	assert.Contains(t, result.Text(), "库名: 三峡")
}

func TestAssistantGeneralQuestion(t *testing.T) {
	intent := &openai.QueryIntent{QueryType: openai.QueryTypeGeneral, UserMessage: "你好！"}
	a := NewAssistant(stubInterpreter{intent: intent}, NewQueryController(fetchFunc(nil), nil, nil, nil))

	result, err := a.Ask(context.Background(), "hello")
	require.NoError(t, err)
	assert.Nil(t, result.State)
	assert.Equal(t, "你好！", result.Text())
}

func TestAssistantValidationError(t *testing.T) {
	intent := &openai.QueryIntent{QueryType: openai.QueryTypeRealTime, StationName: "三峡", UserMessage: "哪条河？"}
	a := NewAssistant(stubInterpreter{intent: intent}, NewQueryController(fetchFunc(nil), nil, nil, nil))

	result, err := a.Ask(context.Background(), "三峡")
	var verr *entities.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "哪条河？", result.UserMessage)
}

func TestAssistantInterpreterError(t *testing.T) {
	a := NewAssistant(stubInterpreter{err: errors.New("rate limited")}, NewQueryController(fetchFunc(nil), nil, nil, nil))
	_, err := a.Ask(context.Background(), "x")
	assert.ErrorContains(t, err, "rate limited")
}
