package builder

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zachkp/portfolio-builder/internal/content"
	"github.com/Zachkp/portfolio-builder/internal/section"
	"github.com/Zachkp/portfolio-builder/internal/storage"
)

// recorder logs every step of the reset in order.
type recorder struct{ steps []string }

type recordingKV struct {
	name string
	rec  *recorder
	storage.KV
	fail error
}

func (r recordingKV) Remove(ctx context.Context, key string) error {
	r.rec.steps = append(r.rec.steps, r.name+".remove "+key)
	if r.fail != nil {
		return r.fail
	}
	return r.KV.Remove(ctx, key)
}

func (r recordingKV) Clear(ctx context.Context) error {
	r.rec.steps = append(r.rec.steps, r.name+".clear")
	if r.fail != nil {
		return r.fail
	}
	return r.KV.Clear(ctx)
}

type recordingState struct{ rec *recorder }

func (s recordingState) ResetWith(ctx context.Context, wipe func(context.Context) error) error {
	err := wipe(ctx)
	s.rec.steps = append(s.rec.steps, "reset", "reinitialize")
	return err
}

// toggleOnClear starts a toggle on store as soon as durable storage is cleared.
type toggleOnClear struct {
	storage.KV
	store *Store
	done  chan struct{}
}

func (k toggleOnClear) Clear(ctx context.Context) error {
	err := k.KV.Clear(ctx)
	go func() {
		k.store.Toggle(ctx, section.Contact)
		close(k.done)
	}()
	return err
}

func TestConfirmRunsStepsInOrder(t *testing.T) {
	ctx := context.Background()
	rec := &recorder{}
	durable := recordingKV{name: "durable", rec: rec, KV: storage.NewMemory()}
	session := recordingKV{name: "session", rec: rec, KV: storage.NewMemory()}
	f := NewResetFlow(recordingState{rec: rec}, durable, session, nil)

	require.NoError(t, f.Request(ctx))
	require.NoError(t, f.Confirm(ctx))

	assert.Equal(t, []string{
		"durable.remove " + ContentKey,
		"durable.clear",
		"session.clear",
		"reset",
		"reinitialize",
	}, rec.steps)
	assert.False(t, f.Pending(ctx))
}

func TestConfirmWithoutRequest(t *testing.T) {
	ctx := context.Background()
	rec := &recorder{}
	f := NewResetFlow(recordingState{rec: rec}, storage.NewMemory(), storage.NewMemory(), nil)

	assert.ErrorIs(t, f.Confirm(ctx), ErrNoResetPending)
	assert.Empty(t, rec.steps)
}

func TestCancelLeavesStateAlone(t *testing.T) {
	ctx := context.Background()
	durable := storage.NewMemory()
	s := NewStore(Options{Durable: durable, PersistLayout: true})
	s.Toggle(ctx, section.Hero)
	before := s.Snapshot()

	f := NewResetFlow(s, durable, storage.NewMemory(), nil)
	require.NoError(t, f.Request(ctx))
	assert.True(t, f.Pending(ctx))
	require.NoError(t, f.Cancel(ctx))

	assert.False(t, f.Pending(ctx))
	assert.Equal(t, before, s.Snapshot())
	assert.Equal(t, 1, durable.Len())
	assert.ErrorIs(t, f.Confirm(ctx), ErrNoResetPending)
}

func TestConfirmResetsStoreAndStorage(t *testing.T) {
	ctx := context.Background()
	durable := storage.NewMemory()
	session := storage.NewMemory()
	s := NewStore(Options{Durable: durable, PersistLayout: true})
	for _, id := range allIDs {
		s.Toggle(ctx, id)
	}
	s.SetEditing(ctx, section.About)
	require.NoError(t, s.UpdateContent(ctx, section.About, func(c *content.Portfolio) { c.About.Bio = "changed" }))
	require.NoError(t, session.Set(ctx, "scroll", "120"))

	f := NewResetFlow(s, durable, session, nil)
	require.NoError(t, f.Request(ctx))
	require.NoError(t, f.Confirm(ctx))

	st := s.Snapshot()
	assert.Empty(t, st.Selected)
	assert.Equal(t, section.None, st.Editing)
	assert.Equal(t, content.Defaults(), st.Content)
	assert.Equal(t, 0, durable.Len())
	assert.Equal(t, 0, session.Len())
}

func TestConfirmContinuesPastStorageFailure(t *testing.T) {
	ctx := context.Background()
	rec := &recorder{}
	durable := recordingKV{name: "durable", rec: rec, KV: storage.NewMemory(), fail: errDiskFull}
	session := storage.NewMemory()
	f := NewResetFlow(recordingState{rec: rec}, durable, session, nil)

	require.NoError(t, f.Request(ctx))
	err := f.Confirm(ctx)

	assert.ErrorIs(t, err, errDiskFull)
	assert.Equal(t, []string{"durable.remove " + ContentKey, "durable.clear", "reset", "reinitialize"}, rec.steps)
}

func TestToggleDuringConfirmCannotRestoreOldLayout(t *testing.T) {
	ctx := context.Background()
	mem := storage.NewMemory()
	s := NewStore(Options{Durable: mem, PersistLayout: true})
	durable := toggleOnClear{KV: mem, store: s, done: make(chan struct{})}
	s.durable = durable

	s.Toggle(ctx, section.Hero)
	s.Toggle(ctx, section.About)

	f := NewResetFlow(s, durable, storage.NewMemory(), nil)
	require.NoError(t, f.Request(ctx))
	require.NoError(t, f.Confirm(ctx))
	<-durable.done

	// The toggle waits for the reset to finish, so it applies to the default state.
	assert.Equal(t, []section.ID{section.Contact}, s.Snapshot().Selected)

	restored := NewStore(Options{Durable: mem, PersistLayout: true})
	require.NoError(t, restored.Load(ctx))
	assert.Equal(t, []section.ID{section.Contact}, restored.Snapshot().Selected)
}
