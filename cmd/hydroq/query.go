package main

import (
	"errors"

	"github.com/abelzeko/hydro-dash/internal/entities"
	"github.com/abelzeko/hydro-dash/internal/render"
	"github.com/abelzeko/hydro-dash/internal/usecases"
	"github.com/spf13/cobra"
)

// errAlerted marks a failure already shown to the user
var errAlerted = errors.New("invalid query")

func (c *cli) newStationsCmd() *cobra.Command {
	var province, valley, station string
	cmd := &cobra.Command{
		Use:   "stations",
		Short: "Search station metadata by region, basin and name",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.submit(cmd, usecases.Form{
				Kind: string(entities.KindLocation),
				Values: map[string]string{
					usecases.FieldProvince:    province,
					usecases.FieldValley:      valley,
					usecases.FieldStationName: station,
				},
			})
		},
	}
	cmd.Flags().StringVar(&province, "province", "", "Administrative region (行政区)")
	cmd.Flags().StringVar(&valley, "valley", "", "River basin (流域)")
	cmd.Flags().StringVar(&station, "station", "", "Station name (站名)")
	return cmd
}

func (c *cli) newReservoirCmd() *cobra.Command {
	var river, station, date string
	cmd := &cobra.Command{
		Use:   "reservoir",
		Short: "Show real-time water level, flow and storage of a reservoir",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.submit(cmd, usecases.Form{
				Kind: string(entities.KindRealTime),
				Values: map[string]string{
					usecases.FieldRiver:       river,
					usecases.FieldStationName: station,
					usecases.FieldPubTime:     date,
				},
			})
		},
	}
	cmd.Flags().StringVar(&river, "river", "", "River name (河名), required")
	cmd.Flags().StringVar(&station, "station", "", "Reservoir name (库名), required")
	cmd.Flags().StringVar(&date, "date", "", "Publication date YYYY-MM-DD, empty for latest")
	return cmd
}

// submit sends the form through a controller bound to the configured view
func (c *cli) submit(cmd *cobra.Command, form usecases.Form) error {
	view, err := render.NewView(c.app.Config.Output, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	controller := c.app.Controller(view, writerAlerter{w: cmd.ErrOrStderr()})

	if err := controller.Submit(cmd.Context(), form); err != nil {
		var verr *entities.ValidationError
		if errors.As(err, &verr) {
			return errAlerted
		}
		return err
	}
	controller.Wait()
	return nil
}
