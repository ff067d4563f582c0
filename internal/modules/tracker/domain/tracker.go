package domain

import (
	"fmt"
	"sort"
	"time"
)

// Log is one timed work session. A zero EndTime means the session is open.
type Log struct {
	StartTime time.Time
	EndTime   time.Time
	Notes     string
}

func (l Log) Open() bool {
	return l.EndTime.IsZero()
}

// Duration is the closed span of the log, or the live span up to now when
// the log is still open.
func (l Log) Duration(now time.Time) time.Duration {
	end := l.EndTime
	if l.Open() {
		end = now
	}
	d := end.Sub(l.StartTime)
	if d < 0 {
		return 0
	}
	return d
}

// Tracker is a named, append-only sequence of logs. At most one log is open
// and, when one is, it is the last.
type Tracker struct {
	title string
	logs  []Log
}

func NewTracker(title string) *Tracker {
	return &Tracker{title: title}
}

// RestoreTracker rebuilds a tracker from persisted logs, rejecting sequences
// that break the single-open-log rule or end before they start.
func RestoreTracker(title string, logs []Log) (*Tracker, error) {
	for idx, l := range logs {
		if l.Open() && idx != len(logs)-1 {
			return nil, fmt.Errorf("tracker %q: open log at position %d is not last", title, idx)
		}
		if !l.Open() && l.EndTime.Before(l.StartTime) {
			return nil, fmt.Errorf("tracker %q: log at position %d ends before it starts", title, idx)
		}
	}
	restored := make([]Log, len(logs))
	copy(restored, logs)
	return &Tracker{title: title, logs: restored}, nil
}

func (t *Tracker) Title() string { return t.title }

// Logs returns a copy of the log sequence in chronological order.
func (t *Tracker) Logs() []Log {
	out := make([]Log, len(t.logs))
	copy(out, t.logs)
	return out
}

func (t *Tracker) Len() int { return len(t.logs) }

// Last returns the most recent log.
func (t *Tracker) Last() (Log, bool) {
	if len(t.logs) == 0 {
		return Log{}, false
	}
	return t.logs[len(t.logs)-1], true
}

func (t *Tracker) IsRunning() bool {
	last, ok := t.Last()
	return ok && last.Open()
}

// Recent returns up to n logs, newest first.
func (t *Tracker) Recent(n int) []Log {
	if n > len(t.logs) {
		n = len(t.logs)
	}
	out := make([]Log, 0, n)
	for i := len(t.logs) - 1; i >= len(t.logs)-n; i-- {
		out = append(out, t.logs[i])
	}
	return out
}

// Start appends a new open log.
func (t *Tracker) Start(notes string, at time.Time) error {
	if t.IsRunning() {
		return ErrAlreadyRunning
	}
	t.logs = append(t.logs, Log{StartTime: at, Notes: notes})
	return nil
}

// Stop closes the open log and returns it.
func (t *Tracker) Stop(at time.Time) (Log, error) {
	if len(t.logs) == 0 {
		return Log{}, ErrNoLogs
	}
	last := &t.logs[len(t.logs)-1]
	if !last.Open() {
		return Log{}, ErrIsNotRunning
	}
	if at.Before(last.StartTime) {
		at = last.StartTime
	}
	last.EndTime = at
	return *last, nil
}

// App is the root aggregate: every tracker keyed by title plus the soft
// reference to the selected one. current is a name, not a handle, and may
// go stale if trackers are edited outside the service.
type App struct {
	trackers map[string]*Tracker
	current  string
}

func NewApp() *App {
	return &App{trackers: map[string]*Tracker{}}
}

func (a *App) Current() (string, bool) {
	return a.current, a.current != ""
}

func (a *App) SetCurrent(title string) { a.current = title }

func (a *App) ClearCurrent() { a.current = "" }

func (a *App) Tracker(title string) (*Tracker, bool) {
	t, ok := a.trackers[title]
	return t, ok
}

func (a *App) Has(title string) bool {
	_, ok := a.trackers[title]
	return ok
}

// Add inserts a tracker under its title. Existing keys are never replaced.
func (a *App) Add(t *Tracker) error {
	if a.trackers == nil {
		a.trackers = map[string]*Tracker{}
	}
	if _, exists := a.trackers[t.title]; exists {
		return AlreadyExists(t.title)
	}
	a.trackers[t.title] = t
	return nil
}

func (a *App) Remove(title string) bool {
	if _, ok := a.trackers[title]; !ok {
		return false
	}
	delete(a.trackers, title)
	return true
}

func (a *App) Len() int { return len(a.trackers) }

// Titles returns every tracker title in lexicographic order.
func (a *App) Titles() []string {
	titles := make([]string, 0, len(a.trackers))
	for title := range a.trackers {
		titles = append(titles, title)
	}
	sort.Strings(titles)
	return titles
}
