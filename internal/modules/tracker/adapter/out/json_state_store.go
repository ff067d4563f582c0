package out

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"tracky/internal/modules/tracker/domain"
	trackerout "tracky/internal/modules/tracker/port/out"
	apperrors "tracky/internal/platform/errors"
)

type JSONStateStore struct {
	path string
}

func NewJSONStateStore(path string) trackerout.StateStore {
	return &JSONStateStore{path: path}
}

func (s *JSONStateStore) Load(_ context.Context) (*domain.App, error) {
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
	if err := json.Unmarshal(payload, &rec); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", apperrors.ErrCorruptState, s.path, err)
	}
	return fromRecord(rec)
}

func (s *JSONStateStore) Save(_ context.Context, app *domain.App) error {
	payload, err := json.Marshal(toRecord(app))
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}
	if err := writeFileAtomic(s.path, payload, 0o644); err != nil {
		return fmt.Errorf("write state: %w", err)
	}
	return nil
}
