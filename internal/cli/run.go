package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/luccascomvoce/temporizador/internal/duration"
	"github.com/luccascomvoce/temporizador/internal/model"
	"github.com/luccascomvoce/temporizador/internal/timer"
)

func newRunCmd() *cobra.Command {
	var quiet bool
	cmd := &cobra.Command{
		Use:   "run <tempo>",
		Short: "Contagem regressiva sem interface (HH:MM:SS, MM:SS, SS ou 1h30m)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := duration.Parse(args[0])
			if err != nil {
				return err
			}

			application, err := openApp(false)
			if err != nil {
				return err
			}
			defer application.Close()

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()

			opts := application.TimerOptions()
			opts.ResetDelay = 0
			ctrl := timer.New(opts)
			ctrl.SetFromTotalSeconds(value.TotalSeconds())

			r := &headlessRun{
				ctrl: ctrl,
				out:  cmd.OutOrStdout(),
				tick: cfg.Timer.Tick,
				now:  time.Now,
				record: func(run model.Run) {
					if err := application.RecordRun(run); err != nil {
						logger.Warn("failed to record run", "error", err)
					}
				},
				complete: func(planned duration.Value) {
					if quiet {
						return
					}
					if application.Settings().SoundEnabled {
						if err := application.Player().PlayAndWait(); err != nil {
							logger.Warn("failed to play sound", "error", err)
							fmt.Fprint(cmd.OutOrStdout(), "\a")
						}
					}
					if err := application.Notifier.SendTimerComplete(planned.String()); err != nil {
						logger.Debug("notification failed", "error", err)
					}
				},
			}
			return r.run(ctx)
		},
	}
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "sem som nem notificação ao terminar")
	return cmd
}

// errRejected is returned when the countdown cannot start at 00:00:00
var errRejected = errors.New("duration must be greater than 00:00:00")

// headlessRun drives a controller from a wall clock ticker, printing the
// remaining time on one line.
type headlessRun struct {
	ctrl     *timer.Controller
	out      io.Writer
	tick     time.Duration
	now      func() time.Time
	ticks    <-chan time.Time
	record   func(model.Run)
	complete func(planned duration.Value)
}

func (r *headlessRun) run(ctx context.Context) error {
	planned := r.ctrl.Value()
	effects := r.ctrl.Start()
	if timer.Has(effects, timer.EffectRejected) {
		return errRejected
	}
	started := r.now()
	seq := effects[0].Seq

	if r.ticks == nil {
		ticker := time.NewTicker(r.tick)
		defer ticker.Stop()
		r.ticks = ticker.C
	}

	fmt.Fprintf(r.out, "%s\n%s", effects[0].Status(), planned)
	for {
		select {
		case <-ctx.Done():
			effects := r.ctrl.Pause()
			r.finish(effects, planned, started, model.OutcomePaused)
			return nil

		case <-r.ticks:
			effects := r.ctrl.Tick(seq)
			fmt.Fprintf(r.out, "\r%s", r.ctrl.Value())
			if timer.Has(effects, timer.EffectCompleted) {
				r.finish(effects, planned, started, model.OutcomeCompleted)
				if r.complete != nil {
					r.complete(planned)
				}
				return nil
			}
		}
	}
}

func (r *headlessRun) finish(effects []timer.Effect, planned duration.Value, started time.Time, outcome model.Outcome) {
	remaining := r.ctrl.Value()
	fmt.Fprintln(r.out)
	for _, e := range effects {
		if s := e.Status(); s != "" {
			fmt.Fprintln(r.out, s)
		}
		if e.Type == timer.EffectPaused || e.Type == timer.EffectCompleted {
			remaining = e.Value
		}
	}
	if r.record != nil {
		r.record(model.Run{
			PlannedSeconds:   planned.TotalSeconds(),
			RemainingSeconds: remaining.TotalSeconds(),
			Outcome:          outcome,
			StartedAt:        started,
			EndedAt:          r.now(),
		})
	}
}
