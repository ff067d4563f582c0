package dto

import "time"

type CreateInput struct {
	Title string
}

type CreateOutput struct {
	Title    string
	Selected bool
}

// TargetInput names the tracker to act on. An empty Title falls back to the
// current selection.
type TargetInput struct {
	Title string
}

type StartInput struct {
	Title string
	Notes string
}

type StartOutput struct {
	Title     string
	StartedAt time.Time
	Notes     string
}

type StopOutput struct {
	Title     string
	Notes     string
	StartedAt time.Time
	EndedAt   time.Time
	Duration  time.Duration
}

type SwitchInput struct {
	Title string
}

type TitleOutput struct {
	Title string
}

type LogOutput struct {
	StartedAt time.Time
	EndedAt   time.Time
	Open      bool
	Notes     string
	Duration  time.Duration
}

type StatusOutput struct {
	Title   string
	Running bool
	Recent  []LogOutput
}

type LogsOutput struct {
	Title   string
	Running bool
	Logs    []LogOutput
}

// ListInput filters the listing by a doublestar glob when Match is set.
type ListInput struct {
	Match string
}

type TrackerOutput struct {
	Title   string
	Current bool
	Running bool
	Logs    int
}

type ListOutput struct {
	Trackers []TrackerOutput
}

// Empty reports the dedicated "no trackers" case.
func (o ListOutput) Empty() bool {
	return len(o.Trackers) == 0
}
