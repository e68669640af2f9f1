package api

import (
	"context"
	"io"
	"math/rand/v2"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/abelzeko/hydro-dash/internal/entities"
	"github.com/abelzeko/hydro-dash/internal/integration"
	"github.com/abelzeko/hydro-dash/internal/render"
	"github.com/abelzeko/hydro-dash/internal/usecases"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockBackend serves both hydrology endpoints and the chat endpoint
func mockBackend(t *testing.T) (*httptest.Server, *[]string) {
	t.Helper()
	var queries []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		queries = append(queries, r.URL.Path+"?"+r.URL.RawQuery)
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/api/stations":
			io.WriteString(w, `{"success": true, "data": [{"站名": "宜昌", "行政区": "湖北"}]}`)
		case "/api/reservoir":
			io.WriteString(w, `{"errCode": 0, "data": [{"河名": "长江", "库名": "三峡", "库水位": 160.5}]}`)
		case "/chat":
			io.WriteString(w, `{"success": true, "messages": [{"role": "assistant", "content": "你好，我是水文助手"}]}`)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)
	return server, &queries
}

func newTestBot(t *testing.T, withChat bool) (*TelegramBot, *[]string) {
	server, queries := mockBackend(t)
	services := Services{
		Controller: usecases.NewQueryController(integration.NewHydroClient(server.URL, server.Client()), nil, nil, nil),
		Flow:       usecases.NewFlowAnalysis(rand.NewPCG(1, 1)),
	}
	if withChat {
		services.Chat = integration.NewChatClient(server.URL+"/chat", server.Client())
	}
	bot := newTelegramBot(nil, services)
	bot.now = func() time.Time { return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC) }
	return bot, queries
}

func TestStationsCommand(t *testing.T) {
	bot, queries := newTestBot(t, false)

	reply := bot.respond(context.Background(), 1, "stations", "province=湖北 valley=长江", "")
	assert.Contains(t, reply, "站名: 宜昌")
	assert.Contains(t, reply, "行政区: 湖北")
	assert.Contains(t, reply, "地址: "+render.Placeholder)

	require.Len(t, *queries, 1)
	assert.Contains(t, (*queries)[0], "/api/stations?")
	assert.Contains(t, (*queries)[0], "target_station=&")
}

func TestReservoirCommand(t *testing.T) {
	bot, queries := newTestBot(t, false)

	reply := bot.respond(context.Background(), 1, "reservoir", "长江 三峡", "")
	assert.Contains(t, reply, "实时水情")
	assert.Contains(t, reply, "水位(m): 160.5")
	require.Len(t, *queries, 1)
}

func TestReservoirCommandRequiresFields(t *testing.T) {
	bot, queries := newTestBot(t, false)

	reply := bot.respond(context.Background(), 1, "reservoir", "长江", "")
	assert.Contains(t, reply, entities.ValidationErrorMessage)
	assert.Empty(t, *queries, "no request should be sent")
}

func TestFlowCommand(t *testing.T) {
	bot, _ := newTestBot(t, false)

	reply := bot.respond(context.Background(), 1, "flow", "三峡 48", "")
	assert.True(t, strings.HasPrefix(reply, "三峡流量变化趋势"))
	assert.Contains(t, reply, "平均")

	assert.Contains(t, bot.respond(context.Background(), 1, "flow", "", ""), "Please specify")
	assert.Contains(t, bot.respond(context.Background(), 1, "flow", "三峡 abc", ""), "Invalid number")
}

func TestPlainTextGoesToChat(t *testing.T) {
	bot, _ := newTestBot(t, true)

	reply := bot.respond(context.Background(), 42, "", "", "你好")
	assert.Equal(t, "你好，我是水文助手", reply)
	assert.Len(t, bot.session(42).History(), 2)
	assert.Empty(t, bot.session(7).History(), "sessions are per chat")

	bot.respond(context.Background(), 42, "reset", "", "/reset")
	assert.Empty(t, bot.session(42).History())
}

func TestPlainTextWithoutChat(t *testing.T) {
	bot, _ := newTestBot(t, false)
	assert.Contains(t, bot.respond(context.Background(), 1, "", "", "hi"), "/help")
	assert.Contains(t, bot.respond(context.Background(), 1, "ask", "三峡水位", ""), "not configured")
}

func TestUnknownCommand(t *testing.T) {
	bot, _ := newTestBot(t, false)
	assert.Contains(t, bot.respond(context.Background(), 1, "forecast", "", ""), "Unknown command")
	assert.Equal(t, helpText, bot.respond(context.Background(), 1, "help", "", ""))
}

func TestParseKeyValues(t *testing.T) {
	values := parseKeyValues("Province=湖北 junk valley= station=宜昌")
	assert.Equal(t, map[string]string{"province": "湖北", "valley": "", "station": "宜昌"}, values)
}

// blockingSender records replies and holds each one until released
type blockingSender struct {
	release chan struct{}

	mu   sync.Mutex
	sent []tgbotapi.MessageConfig
}

func (s *blockingSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	<-s.release
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, c.(tgbotapi.MessageConfig))
	return tgbotapi.Message{}, nil
}

func TestServeWaitsForReplies(t *testing.T) {
	bot, _ := newTestBot(t, false)
	sender := &blockingSender{release: make(chan struct{})}
	bot.sender = sender

	ctx, cancel := context.WithCancel(context.Background())
	updates := make(chan tgbotapi.Update)
	served := make(chan struct{})
	go func() {
		bot.serve(ctx, updates)
		close(served)
	}()

	for _, chatID := range []int64{1, 2} {
		updates <- tgbotapi.Update{Message: &tgbotapi.Message{
			Chat: &tgbotapi.Chat{ID: chatID},
			Text: "hello",
		}}
	}
	cancel()

	select {
	case <-served:
		t.Fatal("serve returned while replies were still pending")
	case <-time.After(50 * time.Millisecond):
	}

	close(sender.release)
	<-served

	sender.mu.Lock()
	defer sender.mu.Unlock()
	require.Len(t, sender.sent, 2)
	assert.ElementsMatch(t, []int64{1, 2}, []int64{sender.sent[0].ChatID, sender.sent[1].ChatID})
	assert.Contains(t, sender.sent[0].Text, "/help")
}
