package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Dosada05/tournament-sync/models"
)

// SagaStep is one forward action plus the action that undoes it.
// Compensate may be nil when there is nothing to undo.
type SagaStep struct {
	Level      models.SaveLevel
	Commit     func(ctx context.Context) error
	Compensate func(ctx context.Context) error
}

// SagaError is returned when a step fails. CompensationErr joins the
// errors of compensations that failed themselves; in that case the store
// is left partially written.
type SagaError struct {
	Level           models.SaveLevel
	Err             error
	CompensationErr error
}

func (e *SagaError) Error() string {
	if e.CompensationErr != nil {
		return fmt.Sprintf("save failed at %s: %v (compensation incomplete: %v)", e.Level, e.Err, e.CompensationErr)
	}
	return fmt.Sprintf("save failed at %s: %v", e.Level, e.Err)
}

func (e *SagaError) Unwrap() error { return e.Err }

// FailedLevel extracts the failed level from err, LevelNone if err carries
// no saga failure.
func FailedLevel(err error) models.SaveLevel {
	var sagaErr *SagaError
	if errors.As(err, &sagaErr) {
		return sagaErr.Level
	}
	return models.LevelNone
}

// Saga runs its steps strictly in order. On the first failure it runs the
// compensations of the already committed steps in reverse order.
type Saga struct {
	steps  []SagaStep
	logger *slog.Logger
}

func NewSaga(logger *slog.Logger) *Saga {
	return &Saga{logger: logger}
}

func (s *Saga) AddStep(step SagaStep) *Saga {
	s.steps = append(s.steps, step)
	return s
}

func (s *Saga) Run(ctx context.Context) error {
	for k, step := range s.steps {
		if err := step.Commit(ctx); err != nil {
			s.logger.ErrorContext(ctx, "saga step failed",
				slog.String("level", step.Level.String()), slog.Any("error", err))
			return &SagaError{
				Level:           step.Level,
				Err:             err,
				CompensationErr: s.compensate(ctx, k),
			}
		}
		s.logger.DebugContext(ctx, "saga step committed", slog.String("level", step.Level.String()))
	}
	return nil
}

// compensate undoes steps [0, failed) in reverse. Best effort: a failing
// compensation is logged and the remaining ones still run, nothing is retried.
func (s *Saga) compensate(ctx context.Context, failed int) error {
	var errs []error
	for i := failed - 1; i >= 0; i-- {
		step := s.steps[i]
		if step.Compensate == nil {
			continue
		}
		if err := step.Compensate(ctx); err != nil {
			s.logger.ErrorContext(ctx, "compensation failed",
				slog.String("level", step.Level.String()), slog.Any("error", err))
			errs = append(errs, fmt.Errorf("compensate %s: %w", step.Level, err))
			continue
		}
		s.logger.WarnContext(ctx, "step compensated", slog.String("level", step.Level.String()))
	}
	return errors.Join(errs...)
}
