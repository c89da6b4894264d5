package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/star/scenario/internal/access"
	"github.com/star/scenario/internal/config"
	"github.com/star/scenario/internal/distance"
	"github.com/star/scenario/internal/interp"
	"github.com/star/scenario/internal/player"
	"github.com/star/scenario/internal/report"
	"github.com/star/scenario/internal/sim"
	"github.com/star/scenario/internal/trajectory"
)

const (
	taskName  = "mainTask"
	bodyTag   = "DRO_Satellite"
	targetTag = "Target_Satellite"
)

// run executes one scenario and writes the report to out. Nothing is written to out
// or to the output files unless the run and every analysis succeed.
func run(ctx context.Context, cfg config.Scenario, logger *slog.Logger, out io.Writer) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	logger.Info("scenario config", "scenario", cfg)

	// All loading and validation happens before the step loop.
	primaryStore, err := trajectory.LoadTable(cfg.DataFile, logger)
	if err != nil {
		return fmt.Errorf("loading trajectory: %w", err)
	}

	var targetStore *trajectory.Store
	if cfg.TargetFile != "" {
		targetStore, err = trajectory.LoadTable(cfg.TargetFile, logger)
		if err != nil {
			return fmt.Errorf("loading target trajectory: %w", err)
		}
	}

	var accessSamples []access.Sample
	if cfg.AccessFile != "" {
		accessSamples, err = access.LoadSeries(cfg.AccessFile, logger)
		if err != nil {
			return fmt.Errorf("loading access series: %w", err)
		}
	}

	task, err := sim.NewTask(taskName, player.Nanos(cfg.LogStep.Seconds()), logger)
	if err != nil {
		return err
	}
	recordEvery := player.Nanos(cfg.RecordStep.Seconds())

	// The primary body keeps the engine's spacecraft shape: the player overwrites the
	// hub and the body publishes it in the same tick.
	body := sim.NewBody(bodyTag, primaryStore.PositionAt(0), primaryStore.VelocityAt(0))
	pl := player.New(interp.New(primaryStore), player.HubSink{Hub: body.Hub}, logger,
		player.WithTag(bodyTag), player.WithPriority(cfg.PlayerPriority))
	primaryRec := sim.NewRecorder(body.Out, recordEvery)

	task.AddModel(pl, pl.Priority())
	task.AddModel(body, sim.DefaultPriority)
	task.AddModel(primaryRec, sim.DefaultPriority)

	// The target is replayed straight into a state message.
	var targetRec *sim.Recorder
	if targetStore != nil {
		msg := &player.Message{}
		tp := player.New(interp.New(targetStore), msg, logger,
			player.WithTag(targetTag), player.WithPriority(cfg.PlayerPriority))
		targetRec = sim.NewRecorder(msg, recordEvery)
		task.AddModel(tp, tp.Priority())
		task.AddModel(targetRec, sim.DefaultPriority)
	}

	stop := stopTime(cfg, primaryStore, targetStore)
	if _, err := task.Run(ctx, stop); err != nil {
		return fmt.Errorf("running simulation: %w", err)
	}

	// Analysis over the complete recorded series.
	var windows []access.Window
	if cfg.AccessFile != "" {
		windows, err = access.Extract(accessSamples)
		if err != nil {
			return fmt.Errorf("extracting access windows: %w", err)
		}
	}

	var closest distance.Result
	if targetRec != nil {
		closest, err = distance.Analyze(primaryRec.Positions(), targetRec.Positions(), primaryRec.Times())
		if err != nil {
			return fmt.Errorf("analyzing relative distance: %w", err)
		}
	}

	var states bytes.Buffer
	if err := primaryRec.WriteCSV(&states); err != nil {
		return fmt.Errorf("encoding recorded states: %w", err)
	}

	var timeline []byte
	if cfg.TimelinePNG != "" && len(accessSamples) > 0 {
		timeline, err = report.Timeline(fmt.Sprintf("%s Communication Access", bodyTag), accessSamples, "png")
		if err != nil {
			return err
		}
	}

	var rpt bytes.Buffer
	fmt.Fprintf(&rpt, "loaded %d trajectory points, time range [%g, %g] s\n",
		primaryStore.Len(), primaryStore.FirstTime(), primaryStore.LastTime())
	if cfg.AccessFile != "" {
		if err := report.Windows(&rpt, "Access windows (UTC):", windows, cfg.Anchor()); err != nil {
			return err
		}
	}
	if targetRec != nil {
		if err := report.Distance(&rpt, closest); err != nil {
			return err
		}
	}

	// Everything succeeded; persist artifacts then the report.
	statesPath := cfg.OutputName + ".csv"
	if err := os.WriteFile(statesPath, states.Bytes(), 0644); err != nil {
		return fmt.Errorf("writing recorded states: %w", err)
	}
	logger.Info("recorded states saved", "path", statesPath, "samples", primaryRec.Len())

	if timeline != nil {
		if err := os.WriteFile(cfg.TimelinePNG, timeline, 0644); err != nil {
			return fmt.Errorf("writing access timeline: %w", err)
		}
		logger.Info("access timeline saved", "path", cfg.TimelinePNG)
	}

	if _, err := out.Write(rpt.Bytes()); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	return nil
}

// stopTime returns the configured duration, or one log step past the last sample of
// the longest replayed trajectory.
func stopTime(cfg config.Scenario, stores ...*trajectory.Store) uint64 {
	if cfg.Duration > 0 {
		return player.Nanos(cfg.Duration.Seconds())
	}
	var last float64
	for _, s := range stores {
		if s != nil && s.LastTime() > last {
			last = s.LastTime()
		}
	}
	return player.Nanos(last + cfg.LogStep.Seconds())
}
