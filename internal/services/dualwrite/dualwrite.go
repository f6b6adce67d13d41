// File: internal/services/dualwrite/dualwrite.go
package dualwrite

import (
	"context"
	"fmt"
	"time"
)

// Logger interface for workflow diagnostics
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
	Debug(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
}

// compensationTimeout bounds the unwind of an already-failed workflow so
// a hung remote call cannot pin the request forever.
const compensationTimeout = 15 * time.Second

// Step is one unit of a remote-then-local workflow. Run performs the
// step; Compensate undoes it if a later step fails. A nil Compensate
// marks the step as irreversible once run.
type Step struct {
	Name       string
	Run        func(ctx context.Context) error
	Compensate func(ctx context.Context) error
}

// Sequence executes steps in order. When a step fails, the compensations
// of every already-completed step run in reverse order, each failure
// logged without halting the unwind, and the step's own error is
// returned to the caller. Which side of a dual write survives a partial
// failure is therefore decided by the declared steps, not by accident.
type Sequence struct {
	name   string
	logger Logger
	steps  []Step
}

func NewSequence(name string, logger Logger, steps ...Step) *Sequence {
	return &Sequence{name: name, logger: logger, steps: steps}
}

// Run executes the sequence. The returned error wraps the failing
// step's error, so callers can still match it with errors.Is/As.
func (s *Sequence) Run(ctx context.Context) error {
	for i, step := range s.steps {
		if err := step.Run(ctx); err != nil {
			s.logger.Warn("workflow step failed, unwinding",
				"workflow", s.name,
				"step", step.Name,
				"completed_steps", i,
				"error", err)
			s.unwind(ctx, i)
			return fmt.Errorf("%s: %s: %w", s.name, step.Name, err)
		}
		s.logger.Debug("workflow step completed", "workflow", s.name, "step", step.Name)
	}
	return nil
}

// unwind compensates steps[0:failed] in reverse order. The caller's
// context may already be cancelled (that can be why the step failed),
// so compensations run on a detached context with their own deadline.
func (s *Sequence) unwind(ctx context.Context, failed int) {
	cctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), compensationTimeout)
	defer cancel()

	for i := failed - 1; i >= 0; i-- {
		step := s.steps[i]
		if step.Compensate == nil {
			continue
		}
		if err := step.Compensate(cctx); err != nil {
			s.logger.Error("workflow compensation failed",
				"workflow", s.name,
				"step", step.Name,
				"error", err)
			continue
		}
		s.logger.Info("workflow step compensated", "workflow", s.name, "step", step.Name)
	}
}
