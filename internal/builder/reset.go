package builder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Zachkp/portfolio-builder/internal/storage"
)

// ErrNoResetPending is returned by Confirm when no confirmation prompt is open.
var ErrNoResetPending = errors.New("no reset pending")

const promptKey = "reset-prompt"

// Resettable is the part of the store the reset flow drives. ResetWith must run wipe,
// the in-memory reset and the reload as one step with respect to other mutations.
type Resettable interface {
	ResetWith(ctx context.Context, wipe func(context.Context) error) error
}

// ResetFlow is the two-step reset: Request opens a confirmation prompt, Confirm wipes
// storage and state, Cancel leaves everything as it was.
type ResetFlow struct {
	state   Resettable
	durable storage.KV
	session storage.KV
	logger  *slog.Logger
}

func NewResetFlow(state Resettable, durable, session storage.KV, logger *slog.Logger) *ResetFlow {
	if logger == nil {
		logger = slog.Default()
	}
	return &ResetFlow{state: state, durable: durable, session: session, logger: logger}
}

// Request opens the confirmation prompt.
func (f *ResetFlow) Request(ctx context.Context) error {
	if err := f.session.Set(ctx, promptKey, "open"); err != nil {
		return fmt.Errorf("open reset prompt: %w", err)
	}
	return nil
}

// Pending reports whether the confirmation prompt is open.
func (f *ResetFlow) Pending(ctx context.Context) bool {
	_, ok, err := f.session.Get(ctx, promptKey)
	if err != nil {
		f.logger.Warn("read reset prompt", "error", err)
		return false
	}
	return ok
}

// Cancel closes the prompt without touching anything else.
func (f *ResetFlow) Cancel(ctx context.Context) error {
	if err := f.session.Remove(ctx, promptKey); err != nil {
		return fmt.Errorf("close reset prompt: %w", err)
	}
	return nil
}

// Confirm performs the reset. The order is fixed: storage is wiped before the
// in-memory state is reset, and the store is held for the whole sequence so no
// concurrent mutation can write the old state back in between.
// Storage failures do not stop the in-memory reset; they are returned joined.
func (f *ResetFlow) Confirm(ctx context.Context) error {
	if !f.Pending(ctx) {
		return ErrNoResetPending
	}

	err := f.state.ResetWith(ctx, f.wipe)
	if err != nil {
		f.logger.Warn("reset finished with storage errors", "error", err)
	} else {
		f.logger.Info("workspace reset to defaults")
	}
	return err
}

func (f *ResetFlow) wipe(ctx context.Context) error {
	var errs []error
	if f.durable != nil {
		if err := f.durable.Remove(ctx, ContentKey); err != nil {
			errs = append(errs, fmt.Errorf("remove %s: %w", ContentKey, err))
		}
		if err := f.durable.Clear(ctx); err != nil {
			errs = append(errs, fmt.Errorf("clear durable storage: %w", err))
		}
	}
	if err := f.session.Clear(ctx); err != nil {
		errs = append(errs, fmt.Errorf("clear session storage: %w", err))
	}
	return errors.Join(errs...)
}
