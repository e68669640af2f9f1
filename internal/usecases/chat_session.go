package usecases

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/abelzeko/hydro-dash/internal/entities"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Messages shown when the assistant could not answer
const (
	ChatErrorPrefix    = "错误: "
	ChatNetworkMessage = "网络连接错误，请确保后端服务器正在运行"
)

// ChatSender forwards a message and history to the assistant
type ChatSender interface {
	Send(ctx context.Context, message string, history []entities.ChatTurn) (*entities.ChatReply, error)
}

// ChatSession is one conversation with the assistant. History belongs to
// the session, each front end creates its own.
type ChatSession struct {
	sender ChatSender
	now    func() time.Time

	// sendMu makes exchanges one at a time so each request carries
	// the turns of the one before it
	sendMu sync.Mutex

	mu      sync.Mutex
	history []entities.ChatTurn
}

// NewChatSession creates an empty conversation
func NewChatSession(sender ChatSender) *ChatSession {
	return &ChatSession{sender: sender, now: time.Now}
}

// Send forwards text and returns the messages to display: the user's own
// message followed by the reply, output log entries or a system error.
// Blank text is ignored and returns nothing.
func (s *ChatSession) Send(ctx context.Context, text string) []entities.ChatMessage {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	s.sendMu.Lock()
	defer s.sendMu.Unlock()

	shown := []entities.ChatMessage{s.message(entities.RoleUser, text)}

	reply, err := s.sender.Send(ctx, text, s.History())
	if err != nil {
		zap.S().Warnf("Chat request failed: %v", err)
		return append(shown, s.message(entities.RoleSystem, ChatNetworkMessage))
	}
	if !reply.Success {
		zap.S().Warnf("Chat endpoint reported an error: %s", reply.Error)
		return append(shown, s.message(entities.RoleSystem, ChatErrorPrefix+reply.Error))
	}
	if len(reply.Messages) == 0 {
		zap.S().Warnf("Chat endpoint returned success without messages")
		return append(shown, s.message(entities.RoleSystem, ChatErrorPrefix+"empty reply"))
	}

	content := reply.Messages[0].Content
	shown = append(shown, s.message(entities.RoleAssistant, content))

	s.mu.Lock()
	s.history = append(s.history,
		entities.ChatTurn{Role: entities.RoleUser, Content: text},
		entities.ChatTurn{Role: entities.RoleAssistant, Content: content},
	)
	s.mu.Unlock()

	for _, line := range reply.OutputLog {
		shown = append(shown, s.message(entities.RoleAssistant, line))
	}
	return shown
}

// History returns a copy of the successful turns so far
func (s *ChatSession) History() []entities.ChatTurn {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]entities.ChatTurn(nil), s.history...)
}

// Reset forgets the conversation
func (s *ChatSession) Reset() {
	s.mu.Lock()
	s.history = nil
	s.mu.Unlock()
}

func (s *ChatSession) message(role, content string) entities.ChatMessage {
	return entities.ChatMessage{
		ID:        uuid.NewString(),
		Role:      role,
		Content:   content,
		Timestamp: s.now(),
	}
}
