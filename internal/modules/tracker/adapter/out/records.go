package out

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"tracky/internal/modules/tracker/domain"
	apperrors "tracky/internal/platform/errors"
)

const tempFilePrefix = ".tracky-tmp-"

// stateRecord is the persisted document. Timestamps are Unix seconds and the
// map key, not the embedded title, identifies a tracker.
type stateRecord struct {
	Trackers map[string]trackerRecord `json:"trackers" yaml:"trackers"`
	Current  *string                  `json:"current" yaml:"current"`
}

type trackerRecord struct {
	Title string      `json:"title" yaml:"title"`
	Logs  []logRecord `json:"logs" yaml:"logs"`
}

type logRecord struct {
	StartTime int64   `json:"start_time" yaml:"start_time"`
	EndTime   *int64  `json:"end_time" yaml:"end_time"`
	Notes     *string `json:"notes" yaml:"notes"`
}

func toRecord(app *domain.App) stateRecord {
	rec := stateRecord{Trackers: make(map[string]trackerRecord, app.Len())}
	for _, title := range app.Titles() {
		t, _ := app.Tracker(title)
		logs := t.Logs()
		tr := trackerRecord{Title: title, Logs: make([]logRecord, 0, len(logs))}
		for _, l := range logs {
			tr.Logs = append(tr.Logs, toLogRecord(l))
		}
		rec.Trackers[title] = tr
	}
	if current, ok := app.Current(); ok {
		rec.Current = &current
	}
	return rec
}

func toLogRecord(l domain.Log) logRecord {
	out := logRecord{StartTime: l.StartTime.Unix()}
	if !l.Open() {
		end := l.EndTime.Unix()
		out.EndTime = &end
	}
	if l.Notes != "" {
		notes := l.Notes
		out.Notes = &notes
	}
	return out
}

func fromLogRecord(r logRecord) domain.Log {
	l := domain.Log{StartTime: fromUnix(r.StartTime)}
	if r.EndTime != nil {
		l.EndTime = fromUnix(*r.EndTime)
	}
	if r.Notes != nil {
		l.Notes = *r.Notes
	}
	return l
}

func fromRecord(rec stateRecord) (*domain.App, error) {
	app := domain.NewApp()
	for key, tr := range rec.Trackers {
		logs := make([]domain.Log, 0, len(tr.Logs))
		for _, l := range tr.Logs {
			logs = append(logs, fromLogRecord(l))
		}
		t, err := domain.RestoreTracker(key, logs)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrCorruptState, err)
		}
		if err := app.Add(t); err != nil {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrCorruptState, err)
		}
	}
	// A stale selection is kept as-is; the service heals it on first use.
	if rec.Current != nil {
		app.SetCurrent(*rec.Current)
	}
	return app, nil
}

func fromUnix(secs int64) time.Time {
	return time.Unix(secs, 0).UTC()
}

// writeFileAtomic writes to a temp file in the target directory and renames
// it over the target.
func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, tempFilePrefix+"*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmp.Name(), perm); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename temp file to %s: %w", path, err)
	}
	return nil
}
