package cmd

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kilianp07/ferry/app"
	"github.com/kilianp07/ferry/config"
	"github.com/kilianp07/ferry/core/allocation"
	"github.com/kilianp07/ferry/infra/logger"
	"github.com/kilianp07/ferry/pkg/export"
	"github.com/kilianp07/ferry/pkg/problem"
	"github.com/kilianp07/ferry/pkg/render"
)

type loadOptions struct {
	input       string
	seed        int64
	format      string
	view        bool
	width       int
	publish     bool
	noRearrange bool
}

func newLoadCmd(cfgPath *string) *cobra.Command {
	var opts loadOptions
	cmd := &cobra.Command{
		Use:   "load [strategy]",
		Short: "Assign the vehicles of a problem file to lanes",
		Long: "Reads the problem file (capacity, lane count, then one vehicle length per line)\n" +
			"and prints the lane assignment. The strategy is one of first, emptiest,\n" +
			"fullest or random and defaults to the configured one.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*cfgPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if len(args) == 1 {
				cfg.Allocation.Strategy = args[0]
			}
			flags := cmd.Flags()
			if flags.Changed("seed") {
				cfg.Allocation.Seed = opts.seed
			}
			if flags.Changed("format") {
				cfg.Output.Format = opts.format
			}
			if flags.Changed("view") {
				cfg.Output.View = opts.view
			}
			if opts.noRearrange {
				off := false
				cfg.Allocation.Rearrangement = &off
			}
			if err := cfg.Output.Validate(); err != nil {
				return err
			}
			return runLoad(cmd, cfg, opts)
		},
	}
	f := cmd.Flags()
	f.StringVarP(&opts.input, "input", "i", "input.txt", "problem file")
	f.Int64Var(&opts.seed, "seed", 0, "seed for the random strategy (0 seeds from the clock)")
	f.StringVarP(&opts.format, "format", "f", config.FormatText, "output format: text, json or csv")
	f.BoolVar(&opts.view, "view", false, "draw lane bars after the text summary")
	f.IntVar(&opts.width, "width", render.DefaultWidth, "lane bar width in cells")
	f.BoolVar(&opts.publish, "publish", false, "publish the report to the configured MQTT topic")
	f.BoolVar(&opts.noRearrange, "no-rearrange", false, "disable the small car relocation fallback")
	return cmd
}

func runLoad(cmd *cobra.Command, cfg *config.Config, opts loadOptions) error {
	if err := logger.SetLevel(cfg.Logging.Level); err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	in, err := problem.LoadFile(opts.input)
	if err != nil {
		return err
	}
	svc, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := svc.Close(); err != nil {
			logger.New("main").Errorf("service close: %v", err)
		}
	}()
	svc.ServeMetrics(ctx)

	res, err := svc.Run(ctx, in)
	if err != nil {
		return err
	}
	if err := writeResult(cmd.OutOrStdout(), cfg.Output, res, opts.width); err != nil {
		return err
	}
	if opts.publish {
		if err := svc.Publish(ctx, res); err != nil {
			return err
		}
	}
	return nil
}

func writeResult(w io.Writer, out config.OutputConfig, res allocation.Result, width int) error {
	switch out.Format {
	case config.FormatJSON:
		return export.WriteJSON(w, res)
	case config.FormatCSV:
		return export.WriteCSV(w, res)
	}
	if err := export.WriteSummary(w, res); err != nil {
		return err
	}
	if out.View {
		_, err := fmt.Fprintln(w, "\n"+render.Lanes(res, width))
		return err
	}
	return nil
}
