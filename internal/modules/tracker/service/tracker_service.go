package service

import (
	"time"

	"tracky/internal/modules/tracker/domain"
	"tracky/internal/platform/clock"
)

const (
	// UntitledNote stands in for a stopped session that had no notes.
	UntitledNote = "untitled"
	// RecentLimit is how many logs Status reports.
	RecentLimit = 3
)

// TrackerService holds the state-transition rules. It never performs I/O:
// every method mutates the *domain.App it is handed and returns.
type TrackerService struct {
	clock clock.Clock
}

func NewTrackerService(clock clock.Clock) *TrackerService {
	return &TrackerService{clock: clock}
}

// Stopped describes a session that was just closed.
type Stopped struct {
	Title    string
	Notes    string
	Duration time.Duration
	Log      domain.Log
}

// Entry is one row of the tracker listing.
type Entry struct {
	Title   string
	Current bool
	Running bool
	Logs    int
}

// Snapshot is a read-only view of one tracker at a point in time.
type Snapshot struct {
	Title   string
	Running bool
	Logs    []domain.Log
	Now     time.Time
}

// Persisted timestamps are whole seconds.
func (s *TrackerService) now() time.Time {
	return s.clock.Now().UTC().Truncate(time.Second)
}

// resolve picks the tracker an operation acts on: the explicit title when
// given, otherwise current. A stale current is cleared and reported as
// NoneSelected since the caller never named it.
func (s *TrackerService) resolve(app *domain.App, explicit string) (*domain.Tracker, error) {
	if explicit != "" {
		t, ok := app.Tracker(explicit)
		if !ok {
			return nil, domain.DoesNotExist(explicit)
		}
		return t, nil
	}
	current, ok := app.Current()
	if !ok {
		return nil, domain.ErrNoneSelected
	}
	t, ok := app.Tracker(current)
	if !ok {
		app.ClearCurrent()
		return nil, domain.ErrNoneSelected
	}
	return t, nil
}

func (s *TrackerService) Create(app *domain.App, title string) (string, error) {
	if err := app.Add(domain.NewTracker(title)); err != nil {
		return "", err
	}
	if _, ok := app.Current(); !ok {
		app.SetCurrent(title)
	}
	return title, nil
}

// Delete removes the resolved tracker and drops the selection if it named it.
func (s *TrackerService) Delete(app *domain.App, explicit string) (string, error) {
	t, err := s.resolve(app, explicit)
	if err != nil {
		return "", err
	}
	title := t.Title()
	app.Remove(title)
	if current, ok := app.Current(); ok && current == title {
		app.ClearCurrent()
	}
	return title, nil
}

func (s *TrackerService) Start(app *domain.App, explicit, notes string) (string, time.Time, error) {
	t, err := s.resolve(app, explicit)
	if err != nil {
		return "", time.Time{}, err
	}
	at := s.now()
	if err := t.Start(notes, at); err != nil {
		return "", time.Time{}, err
	}
	return t.Title(), at, nil
}

func (s *TrackerService) Stop(app *domain.App, explicit string) (Stopped, error) {
	t, err := s.resolve(app, explicit)
	if err != nil {
		return Stopped{}, err
	}
	closed, err := t.Stop(s.now())
	if err != nil {
		return Stopped{}, err
	}
	notes := closed.Notes
	if notes == "" {
		notes = UntitledNote
	}
	return Stopped{
		Title:    t.Title(),
		Notes:    notes,
		Duration: closed.Duration(closed.EndTime),
		Log:      closed,
	}, nil
}

// Switch only accepts an explicit title; there is nothing to fall back to.
func (s *TrackerService) Switch(app *domain.App, title string) (string, error) {
	if !app.Has(title) {
		return "", domain.DoesNotExist(title)
	}
	app.SetCurrent(title)
	return title, nil
}

// Current reports the selected tracker, healing a stale selection.
func (s *TrackerService) Current(app *domain.App) (string, error) {
	t, err := s.resolve(app, "")
	if err != nil {
		return "", err
	}
	return t.Title(), nil
}

// Status returns the resolved tracker with its most recent logs, newest
// first.
func (s *TrackerService) Status(app *domain.App, explicit string) (Snapshot, error) {
	t, err := s.resolve(app, explicit)
	if err != nil {
		return Snapshot{}, err
	}
	return Snapshot{
		Title:   t.Title(),
		Running: t.IsRunning(),
		Logs:    t.Recent(RecentLimit),
		Now:     s.now(),
	}, nil
}

// Logs returns every log of the resolved tracker in chronological order.
func (s *TrackerService) Logs(app *domain.App, explicit string) (Snapshot, error) {
	t, err := s.resolve(app, explicit)
	if err != nil {
		return Snapshot{}, err
	}
	return Snapshot{
		Title:   t.Title(),
		Running: t.IsRunning(),
		Logs:    t.Logs(),
		Now:     s.now(),
	}, nil
}

// List returns every tracker sorted by title. An empty result is not an
// error.
func (s *TrackerService) List(app *domain.App) []Entry {
	current, _ := app.Current()
	titles := app.Titles()
	out := make([]Entry, 0, len(titles))
	for _, title := range titles {
		t, _ := app.Tracker(title)
		out = append(out, Entry{
			Title:   title,
			Current: title == current,
			Running: t.IsRunning(),
			Logs:    t.Len(),
		})
	}
	return out
}
