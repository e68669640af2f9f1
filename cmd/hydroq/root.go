package main

import (
	"fmt"
	"io"

	"github.com/abelzeko/hydro-dash/internal/app"
	"github.com/abelzeko/hydro-dash/internal/config"
	"github.com/abelzeko/hydro-dash/internal/logging"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

// cli carries state shared by the subcommands of one invocation
type cli struct {
	cfgFile string
	app     *app.App
	flush   func()
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:           "hydroq",
		Short:         "Query hydrological stations and reservoirs",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(c.cfgFile, cmd.Root().PersistentFlags())
			if err != nil {
				return err
			}
			_, flush, err := logging.New(cfg.Debug)
			if err != nil {
				return err
			}
			c.flush = flush
			c.app = app.New(cfg)
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if c.flush != nil {
				c.flush()
			}
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&c.cfgFile, "config", "", "Config file (default hydrodash.yaml)")
	pf.String("api-base-url", config.DefaultAPIBaseURL, "Hydrology API base URL")
	pf.String("chat-url", config.DefaultAPIBaseURL+"/chat", "Chat assistant endpoint")
	pf.Duration("http-timeout", 0, "HTTP timeout, 0 for none")
	pf.StringP("output", "o", "table", "Output format: table, json or html")
	pf.Int("realtime-max-rows", 1, "Reservoir records to show, 0 for all")
	pf.Bool("debug", false, "Enable debug logging")

	root.AddCommand(
		c.newStationsCmd(),
		c.newReservoirCmd(),
		c.newFlowCmd(),
		c.newChatCmd(),
		c.newAskCmd(),
	)
	return root
}

var alertStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))

// writerAlerter shows alerts on a writer, normally stderr
type writerAlerter struct {
	w io.Writer
}

func (a writerAlerter) Alert(message string) {
	fmt.Fprintln(a.w, alertStyle.Render("⚠ "+message))
}
