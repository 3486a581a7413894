package supervisor

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"

	"github.com/kpcyrd/sn0int/pkg/errkind"
)

type result struct {
	task Task
	err  error
}

// RunAll drains tasks across s.opts.Workers concurrent worker goroutines,
// each owning one child's full spawn/Start/pump/join lifecycle at a time
// (SPEC_FULL.md §4.3's worker pool). A single Ctrl+C cancels the run and
// signals every live child; a second one within the same run exits the
// whole process immediately with code 130 (spec scenario S7). The signal
// register resets the moment RunAll returns, so a later invocation starts
// fresh.
func (s *Supervisor) RunAll(ctx context.Context, tasks []Task) (Summary, error) {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, os.Interrupt)
	defer signal.Stop(sigc)

	var presses int32
	sigDone := make(chan struct{})
	go func() {
		defer close(sigDone)
		for range sigc {
			if atomic.AddInt32(&presses, 1) == 1 {
				s.log.Warn("cancelling run, press Ctrl+C again to exit immediately")
				cancel()
			} else {
				s.log.Warn("exiting immediately")
				os.Exit(130)
			}
		}
	}()

	taskCh := make(chan Task)
	resultCh := make(chan result)

	var wg sync.WaitGroup
	for i := 0; i < s.opts.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for t := range taskCh {
				err := s.runOne(runCtx, t)
				resultCh <- result{t, err}
			}
		}()
	}

	go func() {
		defer close(taskCh)
		for _, t := range tasks {
			select {
			case taskCh <- t:
			case <-runCtx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(resultCh)
	}()

	var summary Summary
	for r := range resultCh {
		summary.Total++
		switch {
		case r.err == nil:
			summary.OK++
		case errkind.IsCancellation(r.err):
			summary.Cancelled++
		default:
			summary.Failed++
			s.log.WithField("module", r.task.Label).WithError(r.err).Error("module failed")
			if s.opts.ExitOnError {
				cancel()
			}
		}
	}

	return summary, nil
}

// RunOne is the single-task convenience entry point `run` uses when the
// caller already knows exactly which module/arg pair to execute, skipping
// the pool machinery entirely. Ctrl+C cancellation still applies: a single
// press aborts ctx, which runOne turns into a Cancellation error.
func (s *Supervisor) RunOne(ctx context.Context, task Task) error {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, os.Interrupt)
	defer signal.Stop(sigc)

	go func() {
		if _, ok := <-sigc; ok {
			s.log.Warn("cancelling run")
			cancel()
		}
	}()

	return s.runOne(runCtx, task)
}
