// Package api provides handlers for external APIs and interfaces
package api

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/abelzeko/hydro-dash/internal/entities"
	"github.com/abelzeko/hydro-dash/internal/render"
	"github.com/abelzeko/hydro-dash/internal/usecases"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

const helpText = "Available commands:\n" +
	"/stations province=<行政区> valley=<流域> station=<站名> - Search stations (all filters optional)\n" +
	"/reservoir <河名> <库名> [YYYY-MM-DD] - Show real-time reservoir data\n" +
	"/flow <库名> [hours] - Show the flow trend for the last hours (default 24)\n" +
	"/ask <question> - Ask in your own words\n" +
	"/reset - Forget the chat history\n" +
	"/help - Show this help message\n\n" +
	"Any other message is forwarded to the assistant."

// Services are the use cases the bot exposes. Chat and Assistant are optional.
type Services struct {
	Controller *usecases.QueryController
	Chat       usecases.ChatSender
	Assistant  *usecases.Assistant
	Flow       *usecases.FlowAnalysis
}

// messageSender is the part of *tgbotapi.BotAPI used to reply
type messageSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// TelegramBot handles interactions with the Telegram API
type TelegramBot struct {
	bot      *tgbotapi.BotAPI
	sender   messageSender
	services Services
	now      func() time.Time

	mu       sync.Mutex
	sessions map[int64]*usecases.ChatSession
	inflight sync.WaitGroup
}

// NewTelegramBot creates a new Telegram bot handler
func NewTelegramBot(botToken string, services Services) (*TelegramBot, error) {
	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}
	return newTelegramBot(bot, services), nil
}

func newTelegramBot(bot *tgbotapi.BotAPI, services Services) *TelegramBot {
	t := &TelegramBot{
		bot:      bot,
		services: services,
		now:      time.Now,
		sessions: make(map[int64]*usecases.ChatSession),
	}
	if bot != nil {
		t.sender = bot
	}
	return t
}

// Start begins listening for and handling Telegram messages until ctx is
// done. It returns once every reply in flight has been sent.
func (t *TelegramBot) Start(ctx context.Context) {
	zap.S().Infof("Authorized on Telegram account %s", t.bot.Self.UserName)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := t.bot.GetUpdatesChan(u)
	zap.S().Info("Bot is now listening for messages...")

	t.serve(ctx, updates)
	t.bot.StopReceivingUpdates()
}

// serve handles updates until ctx is done or the channel closes, then
// waits for the handlers it started
func (t *TelegramBot) serve(ctx context.Context, updates tgbotapi.UpdatesChannel) {
	defer t.inflight.Wait()

	for {
		select {
		case <-ctx.Done():
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			if update.Message == nil {
				continue
			}

			zap.S().Infof("Received message from %s (chat ID: %d): %s",
				senderName(update.Message),
				update.Message.Chat.ID,
				update.Message.Text)

			// Each message is handled on its own goroutine; replies go out as they resolve
			t.inflight.Add(1)
			go func(message *tgbotapi.Message) {
				defer t.inflight.Done()
				t.handleMessage(ctx, message)
			}(update.Message)
		}
	}
}

func senderName(message *tgbotapi.Message) string {
	if message.From == nil {
		return "unknown"
	}
	return message.From.UserName
}

// handleMessage processes a Telegram message and sends the reply
func (t *TelegramBot) handleMessage(ctx context.Context, message *tgbotapi.Message) {
	var text string
	if message.IsCommand() {
		text = t.respond(ctx, message.Chat.ID, message.Command(), message.CommandArguments(), message.Text)
	} else {
		text = t.respond(ctx, message.Chat.ID, "", "", message.Text)
	}

	msg := tgbotapi.NewMessage(message.Chat.ID, text)
	zap.S().Infof("Sending response to user %s", senderName(message))
	if _, err := t.sender.Send(msg); err != nil {
		zap.S().Errorf("Error sending message: %v", err)
	}
}

// respond computes the reply for a command (empty for plain text)
func (t *TelegramBot) respond(ctx context.Context, chatID int64, command, args, text string) string {
	switch command {
	case "":
		return t.handleNonCommand(ctx, chatID, text)
	case "start":
		return "Welcome to the hydrology bot! Use /stations to search stations, /reservoir for real-time reservoir data or /help for more information."
	case "help":
		return helpText
	case "stations":
		return t.handleStationsCommand(ctx, args)
	case "reservoir":
		return t.handleReservoirCommand(ctx, args)
	case "flow":
		return t.handleFlowCommand(args)
	case "ask":
		return t.handleAskCommand(ctx, args)
	case "reset":
		t.session(chatID).Reset()
		return "Chat history cleared."
	default:
		zap.S().Infof("Received unknown command /%s", command)
		return "Unknown command. Use /help to see available commands."
	}
}

// handleStationsCommand processes /stations key=value ...
func (t *TelegramBot) handleStationsCommand(ctx context.Context, args string) string {
	values := parseKeyValues(args)
	q := entities.LocationQuery{
		Province:    values["province"],
		Valley:      values["valley"],
		StationName: values["station"],
	}
	return t.runQuery(ctx, q)
}

// handleReservoirCommand processes /reservoir river station [date]
func (t *TelegramBot) handleReservoirCommand(ctx context.Context, args string) string {
	fields := strings.Fields(args)
	var q entities.RealTimeQuery
	if len(fields) > 0 {
		q.River = fields[0]
	}
	if len(fields) > 1 {
		q.StationName = fields[1]
	}
	if len(fields) > 2 {
		q.PubTime = fields[2]
	}
	return t.runQuery(ctx, q)
}

func (t *TelegramBot) runQuery(ctx context.Context, q entities.Query) string {
	state, err := t.services.Controller.Run(ctx, q)
	if err != nil {
		var verr *entities.ValidationError
		if errors.As(err, &verr) {
			return entities.ValidationErrorMessage + "\nExample: /reservoir 长江 三峡"
		}
		zap.S().Errorf("Error running %s query: %v", q.Kind(), err)
		return "Error fetching hydrology data. Please try again later."
	}
	return render.FormatMessage(state)
}

// handleFlowCommand processes /flow reservoir [hours]
func (t *TelegramBot) handleFlowCommand(args string) string {
	fields := strings.Fields(args)
	if len(fields) == 0 {
		return "Please specify a reservoir. Example: /flow 三峡 48"
	}
	hours := 24
	if len(fields) > 1 {
		h, err := strconv.Atoi(fields[1])
		if err != nil || h <= 0 {
			return fmt.Sprintf("Invalid number of hours '%s'.", fields[1])
		}
		hours = h
	}

	end := t.now()
	series, err := t.services.Flow.GenerateMock(fields[0], end.Add(-time.Duration(hours)*time.Hour), end)
	if err != nil {
		return err.Error()
	}

	rates := make([]float64, len(series.Points))
	for i, p := range series.Points {
		rates[i] = p.Rate
	}
	stats := render.Stats(series.Points)
	return fmt.Sprintf("%s\n\n%s\n\n最小: %.2f m³/s\n最大: %.2f m³/s\n平均: %.2f m³/s",
		series.Title(), render.Sparkline(rates), stats.Min, stats.Max, stats.Mean)
}

// handleAskCommand processes /ask question
func (t *TelegramBot) handleAskCommand(ctx context.Context, question string) string {
	if t.services.Assistant == nil {
		return "The assistant is not configured."
	}
	if strings.TrimSpace(question) == "" {
		return "Please ask a question. Example: /ask 三峡水库现在的水位是多少？"
	}

	result, err := t.services.Assistant.Ask(ctx, question)
	if err != nil {
		var verr *entities.ValidationError
		if errors.As(err, &verr) && result != nil {
			return strings.TrimSpace(result.UserMessage + "\n\n" + entities.ValidationErrorMessage)
		}
		zap.S().Errorf("Error answering question: %v", err)
		return "Sorry, I'm having trouble understanding right now. Please try again later or use /help."
	}
	return result.Text()
}

// handleNonCommand forwards plain text to the chat assistant
func (t *TelegramBot) handleNonCommand(ctx context.Context, chatID int64, text string) string {
	if t.services.Chat == nil {
		if t.services.Assistant != nil {
			return t.handleAskCommand(ctx, text)
		}
		return "I don't understand. Use /help to see available commands."
	}

	shown := t.session(chatID).Send(ctx, text)
	var reply []string
	for _, m := range shown {
		if m.Role == entities.RoleUser {
			continue
		}
		reply = append(reply, m.Content)
	}
	if len(reply) == 0 {
		return "Use /help to see available commands."
	}
	return strings.Join(reply, "\n\n")
}

// session returns the chat session of a Telegram chat, creating it on first use
func (t *TelegramBot) session(chatID int64) *usecases.ChatSession {
	t.mu.Lock()
	defer t.mu.Unlock()
	s, ok := t.sessions[chatID]
	if !ok {
		s = usecases.NewChatSession(t.services.Chat)
		t.sessions[chatID] = s
	}
	return s
}

// parseKeyValues parses "a=1 b=2" into a map. Keys are lower-cased.
func parseKeyValues(args string) map[string]string {
	values := make(map[string]string)
	for _, field := range strings.Fields(args) {
		key, value, ok := strings.Cut(field, "=")
		if !ok {
			continue
		}
		values[strings.ToLower(key)] = value
	}
	return values
}
