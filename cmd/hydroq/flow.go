package main

import (
	"fmt"
	"time"

	"github.com/abelzeko/hydro-dash/internal/render"
	"github.com/spf13/cobra"
)

var timeLayouts = []string{"2006-01-02T15:04", "2006-01-02 15:04", "2006-01-02"}

func parseTime(s string) (time.Time, error) {
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid time %q (want YYYY-MM-DD or YYYY-MM-DDTHH:MM)", s)
}

func (c *cli) newFlowCmd() *cobra.Command {
	var start, end string
	cmd := &cobra.Command{
		Use:   "flow <reservoir>",
		Short: "Chart the flow-rate trend of a reservoir",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			endTime := time.Now()
			if end != "" {
				t, err := parseTime(end)
				if err != nil {
					return err
				}
				endTime = t
			}
			startTime := endTime.Add(-24 * time.Hour)
			if start != "" {
				t, err := parseTime(start)
				if err != nil {
					return err
				}
				startTime = t
			}

			series, err := c.app.Flow.GenerateMock(args[0], startTime, endTime)
			if err != nil {
				return err
			}
			return render.RenderFlowChart(cmd.OutOrStdout(), series)
		},
	}
	cmd.Flags().StringVar(&start, "start", "", "Start time (default 24h before end)")
	cmd.Flags().StringVar(&end, "end", "", "End time (default now)")
	return cmd
}
