package usecase_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	trackerout "tracky/internal/modules/tracker/adapter/out"
	"tracky/internal/modules/tracker/domain"
	"tracky/internal/modules/tracker/dto"
	trackerin "tracky/internal/modules/tracker/port/in"
	"tracky/internal/modules/tracker/service"
	"tracky/internal/modules/tracker/usecase"
	apperrors "tracky/internal/platform/errors"
	"tracky/internal/platform/logging"
)

var t0 = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

type memoryStore struct {
	app     *domain.App
	saves   int
	loadErr error
	saveErr error
}

func (m *memoryStore) Load(context.Context) (*domain.App, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	if m.app == nil {
		m.app = domain.NewApp()
	}
	return m.app, nil
}

func (m *memoryStore) Save(_ context.Context, app *domain.App) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.app = app
	m.saves++
	return nil
}

func newInteractor(store *memoryStore) (trackerin.Usecase, *clockwork.FakeClock) {
	clk := clockwork.NewFakeClockAt(t0)
	return usecase.NewInteractor(service.NewTrackerService(clk), store, logging.Discard()), clk
}

func TestTrackerLifecycleThroughJSONStore(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "data.json")
	clk := clockwork.NewFakeClockAt(t0)
	uc := usecase.NewInteractor(service.NewTrackerService(clk), trackerout.NewJSONStateStore(path), logging.Discard())

	created, err := uc.Create(ctx, dto.CreateInput{Title: "work"})
	require.NoError(t, err)
	assert.Equal(t, dto.CreateOutput{Title: "work", Selected: true}, created)

	started, err := uc.Start(ctx, dto.StartInput{Notes: "inbox zero"})
	require.NoError(t, err)
	assert.Equal(t, "work", started.Title)
	assert.True(t, started.StartedAt.Equal(t0))

	clk.Advance(5*time.Minute + 7*time.Second)
	status, err := uc.Status(ctx, dto.TargetInput{})
	require.NoError(t, err)
	assert.True(t, status.Running)
	require.Len(t, status.Recent, 1)
	assert.True(t, status.Recent[0].Open)
	assert.Equal(t, 5*time.Minute+7*time.Second, status.Recent[0].Duration)

	stopped, err := uc.Stop(ctx, dto.TargetInput{})
	require.NoError(t, err)
	assert.Equal(t, "inbox zero", stopped.Notes)
	assert.Equal(t, "5:07", domain.FormatDuration(stopped.Duration))

	logs, err := uc.Logs(ctx, dto.TargetInput{Title: "work"})
	require.NoError(t, err)
	require.Len(t, logs.Logs, 1)
	assert.False(t, logs.Logs[0].Open)
	assert.False(t, logs.Running)

	list, err := uc.List(ctx, dto.ListInput{})
	require.NoError(t, err)
	assert.Equal(t, []dto.TrackerOutput{{Title: "work", Current: true, Logs: 1}}, list.Trackers)

	deleted, err := uc.Delete(ctx, dto.TargetInput{})
	require.NoError(t, err)
	assert.Equal(t, "work", deleted.Title)

	list, err = uc.List(ctx, dto.ListInput{})
	require.NoError(t, err)
	assert.True(t, list.Empty())
	_, err = uc.Current(ctx)
	assert.True(t, errors.Is(err, domain.ErrNoneSelected))
}

func TestRefusedOperationsStillPersistSelfHealing(t *testing.T) {
	t.Parallel()
	app := domain.NewApp()
	require.NoError(t, app.Add(domain.NewTracker("keep")))
	app.SetCurrent("vanished")
	store := &memoryStore{app: app}
	uc, _ := newInteractor(store)

	_, err := uc.Start(context.Background(), dto.StartInput{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNoneSelected))
	assert.Equal(t, 1, store.saves)
	_, selected := store.app.Current()
	assert.False(t, selected)
}

func TestDuplicateCreateLeavesStateUnchanged(t *testing.T) {
	t.Parallel()
	store := &memoryStore{}
	uc, _ := newInteractor(store)
	ctx := context.Background()

	_, err := uc.Create(ctx, dto.CreateInput{Title: "alpha"})
	require.NoError(t, err)
	_, err = uc.Create(ctx, dto.CreateInput{Title: "alpha"})
	var domErr *domain.Error
	require.True(t, errors.As(err, &domErr))
	assert.Equal(t, domain.KindAlreadyExists, domErr.Kind)
	assert.Equal(t, "alpha", domErr.Title)
	assert.Equal(t, []string{"alpha"}, store.app.Titles())
}

func TestCreateRejectsBlankTitle(t *testing.T) {
	t.Parallel()
	store := &memoryStore{}
	uc, _ := newInteractor(store)
	_, err := uc.Create(context.Background(), dto.CreateInput{Title: "   "})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidInput))
	assert.Equal(t, 0, store.saves)
}

func TestSwitchUnknownKeepsCurrent(t *testing.T) {
	t.Parallel()
	store := &memoryStore{}
	uc, _ := newInteractor(store)
	ctx := context.Background()
	_, err := uc.Create(ctx, dto.CreateInput{Title: "real"})
	require.NoError(t, err)

	_, err = uc.Switch(ctx, dto.SwitchInput{Title: "ghost"})
	assert.True(t, errors.Is(err, domain.ErrDoesNotExist))
	current, err := uc.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, "real", current.Title)
}

func TestListFiltersByGlob(t *testing.T) {
	t.Parallel()
	store := &memoryStore{}
	uc, _ := newInteractor(store)
	ctx := context.Background()
	for _, title := range []string{"work/api", "work/web", "home/garden", "workshop"} {
		_, err := uc.Create(ctx, dto.CreateInput{Title: title})
		require.NoError(t, err)
	}

	out, err := uc.List(ctx, dto.ListInput{Match: "work/*"})
	require.NoError(t, err)
	titles := []string{}
	for _, tr := range out.Trackers {
		titles = append(titles, tr.Title)
	}
	assert.Equal(t, []string{"work/api", "work/web"}, titles)

	none, err := uc.List(ctx, dto.ListInput{Match: "nothing/**"})
	require.NoError(t, err)
	assert.True(t, none.Empty())

	_, err = uc.List(ctx, dto.ListInput{Match: "[unclosed"})
	assert.True(t, errors.Is(err, apperrors.ErrInvalidInput))
}

func TestStoreFailuresAreWrapped(t *testing.T) {
	t.Parallel()
	boom := errors.New("disk full")

	uc, _ := newInteractor(&memoryStore{loadErr: boom})
	_, err := uc.Status(context.Background(), dto.TargetInput{})
	assert.ErrorIs(t, err, boom)
	assert.ErrorContains(t, err, "load tracker state")

	uc, _ = newInteractor(&memoryStore{saveErr: boom})
	_, err = uc.Create(context.Background(), dto.CreateInput{Title: "x"})
	assert.ErrorIs(t, err, boom)
	assert.ErrorContains(t, err, "save tracker state")
}

func TestQueriesDoNotRewriteUnchangedState(t *testing.T) {
	t.Parallel()
	app := domain.NewApp()
	require.NoError(t, app.Add(domain.NewTracker("work")))
	app.SetCurrent("work")
	store := &memoryStore{app: app}
	uc, _ := newInteractor(store)
	ctx := context.Background()

	_, err := uc.Status(ctx, dto.TargetInput{})
	require.NoError(t, err)
	_, err = uc.Logs(ctx, dto.TargetInput{})
	require.NoError(t, err)
	_, err = uc.List(ctx, dto.ListInput{})
	require.NoError(t, err)
	_, err = uc.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, store.saves)
}

func TestQueriesPersistSelfHealing(t *testing.T) {
	t.Parallel()
	app := domain.NewApp()
	app.SetCurrent("vanished")
	store := &memoryStore{app: app}
	uc, _ := newInteractor(store)

	_, err := uc.Current(context.Background())
	assert.True(t, errors.Is(err, domain.ErrNoneSelected))
	assert.Equal(t, 1, store.saves)
	_, selected := store.app.Current()
	assert.False(t, selected)
}
