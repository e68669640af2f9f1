package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/abelzeko/hydro-dash/internal/api"
	"github.com/abelzeko/hydro-dash/internal/app"
	"github.com/abelzeko/hydro-dash/internal/config"
	"github.com/abelzeko/hydro-dash/internal/logging"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

func main() {
	flags := pflag.NewFlagSet("bot", pflag.ExitOnError)
	cfgFile := flags.String("config", "", "Config file (default hydrodash.yaml)")
	flags.String("api-base-url", config.DefaultAPIBaseURL, "Hydrology API base URL")
	flags.String("chat-url", "", "Chat assistant endpoint")
	flags.Bool("debug", false, "Enable debug logging")
	_ = flags.Parse(os.Args[1:])

	cfg, err := config.Load(*cfgFile, flags)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	_, flush, err := logging.New(cfg.Debug)
	if err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}
	defer flush()
	zap.S().Info("Starting hydrology bot...")

	if cfg.TelegramToken == "" {
		zap.S().Fatal("TELEGRAM_BOT_TOKEN environment variable is not set")
	}

	a := app.New(cfg)
	controller := a.Controller(nil, nil)
	services := api.Services{
		Controller: controller,
		Chat:       a.Chat,
		Assistant:  a.Assistant(controller),
		Flow:       a.Flow,
	}
	// An empty chat_url turns chat forwarding off
	if cfg.ChatURL == "" {
		services.Chat = nil
	}

	telegramBot, err := api.NewTelegramBot(cfg.TelegramToken, services)
	if err != nil {
		zap.S().Fatalf("Failed to initialize Telegram bot: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	telegramBot.Start(ctx)
	zap.S().Info("Bot stopped")
}
