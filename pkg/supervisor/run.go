package supervisor

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/kpcyrd/sn0int/pkg/errkind"
)

// runOne drives one task's full lifecycle: spawn a sandboxed child, send
// its Start message, pump its requests until Exit, then join the
// process. Ctrl+C (propagated through ctx) sends the child SIGINT and
// gives it a grace period before a hard kill.
func (s *Supervisor) runOne(ctx context.Context, task Task) error {
	cmd, conn, err := s.spawnChild(ctx, task)
	if err != nil {
		return errkind.New(errkind.SandboxSetup, err)
	}

	start := s.buildStart(task)
	if err := conn.Send(start); err != nil {
		_ = cmd.Process.Kill()
		_ = cmd.Wait()
		return errkind.New(errkind.IONetwork, fmt.Errorf("failed to send start message to %s: %w", task.Label, err))
	}

	pumpDone := make(chan error, 1)
	go func() { pumpDone <- s.pump(conn, task) }()

	select {
	case pumpErr := <-pumpDone:
		waitErr := cmd.Wait()
		if pumpErr != nil {
			return pumpErr
		}
		if waitErr != nil {
			return errkind.New(errkind.IONetwork, fmt.Errorf("child for %s exited uncleanly: %w", task.Label, waitErr))
		}
		return nil

	case <-ctx.Done():
		if cmd.Process != nil {
			_ = cmd.Process.Signal(os.Interrupt)
		}
		select {
		case <-pumpDone:
		case <-time.After(2 * time.Second):
			if cmd.Process != nil {
				_ = cmd.Process.Kill()
			}
		}
		_ = cmd.Wait()
		return errkind.New(errkind.Cancellation, ctx.Err())
	}
}
