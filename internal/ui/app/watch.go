package app

import (
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"
)

type stateChangedMsg struct{}

type watchFailedMsg struct{ err error }

// StateWatcher reports writes to the state file made by other processes,
// such as a CLI invocation in another terminal. It watches the parent
// directory because saves replace the file by rename.
type StateWatcher struct {
	w    *fsnotify.Watcher
	name string
}

func WatchState(path string) (*StateWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(filepath.Dir(path)); err != nil {
		_ = w.Close()
		return nil, err
	}
	return &StateWatcher{w: w, name: filepath.Base(path)}, nil
}

func (s *StateWatcher) Close() error {
	return s.w.Close()
}

// next blocks until the state file changes. A closed watcher yields nil,
// which ends the loop.
func (s *StateWatcher) next() tea.Cmd {
	return func() tea.Msg {
		for {
			select {
			case ev, ok := <-s.w.Events:
				if !ok {
					return nil
				}
				if filepath.Base(ev.Name) != s.name {
					continue
				}
				if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename) || ev.Has(fsnotify.Remove) {
					return stateChangedMsg{}
				}
			case err, ok := <-s.w.Errors:
				if !ok {
					return nil
				}
				return watchFailedMsg{err: err}
			}
		}
	}
}
