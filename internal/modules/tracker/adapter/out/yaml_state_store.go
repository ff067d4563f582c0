package out

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"tracky/internal/modules/tracker/domain"
	trackerout "tracky/internal/modules/tracker/port/out"
	apperrors "tracky/internal/platform/errors"
)

// YAMLStateStore keeps the same document as the JSON store in a
// hand-editable form.
type YAMLStateStore struct {
	path string
}

func NewYAMLStateStore(path string) trackerout.StateStore {
	return &YAMLStateStore{path: path}
}

func (s *YAMLStateStore) Load(_ context.Context) (*domain.App, error) {
	payload, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return domain.NewApp(), nil
		}
		return nil, fmt.Errorf("read state: %w", err)
	}
	if len(bytes.TrimSpace(payload)) == 0 {
		return domain.NewApp(), nil
	}
	rec := stateRecord{}
	if err := yaml.Unmarshal(payload, &rec); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", apperrors.ErrCorruptState, s.path, err)
	}
	return fromRecord(rec)
}

func (s *YAMLStateStore) Save(_ context.Context, app *domain.App) error {
	payload, err := yaml.Marshal(toRecord(app))
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}
	if err := writeFileAtomic(s.path, payload, 0o644); err != nil {
		return fmt.Errorf("write state: %w", err)
	}
	return nil
}
