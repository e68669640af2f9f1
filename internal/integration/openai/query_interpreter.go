// Package openai turns free-text questions into hydrology queries
package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/abelzeko/hydro-dash/internal/entities"
	"github.com/invopop/jsonschema"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"go.uber.org/zap"
)

// Query types the model may choose
const (
	QueryTypeLocation = "location"
	QueryTypeRealTime = "real-time"
	QueryTypeGeneral  = "general"
)

// QueryIntent defines the structured output of the model
type QueryIntent struct {
	QueryType   string `json:"query_type" jsonschema:"enum=location,enum=real-time,enum=general" jsonschema_description:"location for station metadata searches, real-time for current reservoir telemetry, general for anything else"`
	Province    string `json:"province" jsonschema_description:"Administrative region (行政区) for location searches, empty if not given"`
	Valley      string `json:"valley" jsonschema_description:"River basin (流域) for location searches, empty if not given"`
	StationName string `json:"station_name" jsonschema_description:"Station (站名) or reservoir (库名) name, empty if not given"`
	River       string `json:"river" jsonschema_description:"River name (河名) for real-time searches, empty if not given"`
	PubTime     string `json:"pub_time" jsonschema_description:"Date in YYYY-MM-DD for real-time searches, empty for the latest data"`
	UserMessage string `json:"user_message" jsonschema_description:"A short reply to show the user in their language"`
}

// Query converts the intent into a query. General intents have no query.
func (i *QueryIntent) Query() (entities.Query, bool) {
	switch i.QueryType {
	case QueryTypeLocation:
		return entities.LocationQuery{Province: i.Province, Valley: i.Valley, StationName: i.StationName}, true
	case QueryTypeRealTime:
		return entities.RealTimeQuery{River: i.River, StationName: i.StationName, PubTime: i.PubTime}, true
	default:
		return nil, false
	}
}

// QueryInterpreter interprets free text as a hydrology query
type QueryInterpreter interface {
	InterpretQuery(ctx context.Context, text string) (*QueryIntent, error)
}

type queryInterpreterImpl struct {
	client openai.Client
	model  openai.ChatModel
	schema interface{}
}

// GenerateSchema generates a JSON schema for a given type.
func GenerateSchema[T any]() interface{} {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v T
	return reflector.Reflect(v)
}

// NewQueryInterpreter creates an interpreter backed by the OpenAI chat API
func NewQueryInterpreter(apiKey, model string) (QueryInterpreter, error) {
	if apiKey == "" {
		return nil, errors.New("OpenAI API key is not set")
	}
	chatModel := openai.ChatModel(model)
	if model == "" {
		chatModel = openai.ChatModelGPT4o
	}
	return &queryInterpreterImpl{
		client: openai.NewClient(option.WithAPIKey(apiKey)),
		model:  chatModel,
		schema: GenerateSchema[QueryIntent](),
	}, nil
}

const systemPrompt = `You translate questions about Chinese hydrology into dashboard queries.

There are two kinds of query:
1. "location": search hydrological stations by administrative region (province), river basin (valley) and station name.
2. "real-time": current water level, inflow, outflow and storage of one reservoir. Requires the river name and the reservoir name; pub_time is an optional YYYY-MM-DD date.

Rules:
- Keep place, river and station names in Chinese exactly as the user wrote them.
- Leave fields you cannot fill as empty strings. Never invent names.
- If the question is not a station or reservoir lookup, use "general" and answer briefly in user_message.
- user_message is one short line in the user's language.

Output strictly in JSON.`

// InterpretQuery sends text to the model and returns the structured intent
func (s *queryInterpreterImpl) InterpretQuery(ctx context.Context, text string) (*QueryIntent, error) {
	schemaParam := openai.ResponseFormatJSONSchemaJSONSchemaParam{
		Name:        "query_intent",
		Description: openai.String("Hydrology dashboard query extracted from the user's question"),
		Schema:      s.schema,
		Strict:      openai.Bool(true),
	}

	chat, err := s.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(text),
		},
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{JSONSchema: schemaParam},
		},
		Model: s.model,
	})
	if err != nil {
		return nil, fmt.Errorf("error calling OpenAI API: %w", err)
	}

	if len(chat.Choices) == 0 || chat.Choices[0].Message.Content == "" {
		return nil, errors.New("received empty response from OpenAI")
	}

	return ParseIntent(chat.Choices[0].Message.Content)
}

// ParseIntent decodes the model's JSON answer
func ParseIntent(content string) (*QueryIntent, error) {
	var intent QueryIntent
	if err := json.Unmarshal([]byte(content), &intent); err != nil {
		zap.S().Warnf("Failed to unmarshal OpenAI response: %s\nRaw response: %s", err, content)
		return nil, fmt.Errorf("error unmarshalling OpenAI response: %w", err)
	}
	return &intent, nil
}
