package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/abelzeko/hydro-dash/internal/entities"
	"go.uber.org/zap"
)

// ChatClient forwards chat messages to the assistant endpoint
type ChatClient struct {
	url        string
	httpClient HTTPClient
}

// NewChatClient creates a chat client posting to url
// (DefaultBaseURL + "/chat" when empty)
func NewChatClient(url string, client HTTPClient) *ChatClient {
	if url == "" {
		url = DefaultBaseURL + "/chat"
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &ChatClient{url: url, httpClient: client}
}

// Send posts the message together with the conversation history.
// A reply with Success=false is returned without error, transport
// failures and non-2xx statuses are errors.
func (c *ChatClient) Send(ctx context.Context, message string, history []entities.ChatTurn) (*entities.ChatReply, error) {
	if history == nil {
		history = []entities.ChatTurn{}
	}
	body, err := json.Marshal(entities.ChatRequest{Message: message, History: history})
	if err != nil {
		return nil, fmt.Errorf("failed to encode chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	zap.S().Debugf("Posting chat message (%d history turns) to %s", len(history), c.url)
	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach chat endpoint: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, &StatusError{StatusCode: res.StatusCode, Status: res.Status}
	}

	var reply entities.ChatReply
	if err := json.NewDecoder(res.Body).Decode(&reply); err != nil {
		return nil, fmt.Errorf("failed to decode chat reply: %w", err)
	}
	return &reply, nil
}
