package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/abelzeko/hydro-dash/internal/app"
	"github.com/abelzeko/hydro-dash/internal/config"
	"github.com/abelzeko/hydro-dash/internal/entities"
	"github.com/abelzeko/hydro-dash/internal/logging"
	"github.com/abelzeko/hydro-dash/internal/render"
	"github.com/abelzeko/hydro-dash/internal/usecases"
	"github.com/robfig/cron/v3"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

func main() {
	flags := pflag.NewFlagSet("watcher", pflag.ExitOnError)
	cfgFile := flags.String("config", "", "Config file (default hydrodash.yaml)")
	flags.String("api-base-url", config.DefaultAPIBaseURL, "Hydrology API base URL")
	flags.String("schedule", "0 * * * *", "Cron schedule for the query")
	flags.String("river", "", "River name (河名)")
	flags.String("station-name", "", "Reservoir name (库名)")
	flags.String("pub-time", "", "Publication date (YYYY-MM-DD), empty for latest")
	flags.StringP("output", "o", "table", "Output format: table, json or html")
	flags.Int("realtime-max-rows", 1, "Reservoir records to show, 0 for all")
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
	zap.S().Info("Starting reservoir watcher...")

	view, err := render.NewView(cfg.Output, os.Stdout)
	if err != nil {
		zap.S().Fatalf("Failed to create view: %v", err)
	}

	query := entities.RealTimeQuery{
		River:       cfg.Watch.River,
		StationName: cfg.Watch.StationName,
		PubTime:     cfg.Watch.PubTime,
	}
	if err := query.Validate(); err != nil {
		zap.S().Fatalf("Invalid watch query: %v", err)
	}

	controller := app.New(cfg).Controller(view, nil)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	c, err := schedule(ctx, cfg.Watch.Schedule, controller, query)
	if err != nil {
		zap.S().Fatalf("Failed to set up cron job: %v", err)
	}

	// Run immediately on startup
	if _, err := controller.Run(ctx, query); err != nil {
		zap.S().Errorf("Initial query failed: %v", err)
	}

	zap.S().Infof("Watcher scheduled with %q for %s/%s", cfg.Watch.Schedule, query.River, query.StationName)
	c.Start()

	<-ctx.Done()
	zap.S().Info("Shutting down...")
	<-c.Stop().Done()
	controller.Wait()
}

// schedule registers the query on a cron scheduler. Every tick is a new
// independent submission.
func schedule(ctx context.Context, spec string, controller *usecases.QueryController, q entities.Query) (*cron.Cron, error) {
	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		if _, err := controller.Run(ctx, q); err != nil {
			zap.S().Errorf("Scheduled query failed: %v", err)
		}
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}
