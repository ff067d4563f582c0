package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/sirupsen/logrus"

	"tracky/internal/modules/tracker/domain"
	"tracky/internal/modules/tracker/dto"
	trackerin "tracky/internal/modules/tracker/port/in"
	trackerout "tracky/internal/modules/tracker/port/out"
	"tracky/internal/modules/tracker/service"
	apperrors "tracky/internal/platform/errors"
)

type Interactor struct {
	svc   *service.TrackerService
	store trackerout.StateStore
	log   logrus.FieldLogger
}

func NewInteractor(svc *service.TrackerService, store trackerout.StateStore, log logrus.FieldLogger) trackerin.Usecase {
	return &Interactor{svc: svc, store: store, log: log}
}

// run loads the state, applies fn and saves the result. Mutating operations
// save even when fn fails, and queries save only when the selection changed:
// a refused or read-only operation may still have cleared a stale selection,
// and that repair must persist.
func (i *Interactor) run(ctx context.Context, op string, mutates bool, fn func(app *domain.App) error) error {
	app, err := i.store.Load(ctx)
	if err != nil {
		i.log.WithError(err).WithField("op", op).Error("load tracker state")
		return fmt.Errorf("load tracker state: %w", err)
	}
	before, _ := app.Current()
	opErr := fn(app)
	after, _ := app.Current()
	if mutates || before != after {
		if err := i.store.Save(ctx, app); err != nil {
			i.log.WithError(err).WithField("op", op).Error("save tracker state")
			return fmt.Errorf("save tracker state: %w", err)
		}
	}
	entry := i.log.WithField("op", op)
	if opErr != nil {
		entry.WithError(opErr).Debug("operation refused")
		return opErr
	}
	entry.Debug("operation applied")
	return nil
}

func (i *Interactor) Create(ctx context.Context, input dto.CreateInput) (dto.CreateOutput, error) {
	if strings.TrimSpace(input.Title) == "" {
		return dto.CreateOutput{}, fmt.Errorf("%w: tracker title is required", apperrors.ErrInvalidInput)
	}
	out := dto.CreateOutput{}
	err := i.run(ctx, "create", true, func(app *domain.App) error {
		title, err := i.svc.Create(app, input.Title)
		if err != nil {
			return err
		}
		current, _ := app.Current()
		out = dto.CreateOutput{Title: title, Selected: current == title}
		return nil
	})
	return out, err
}

func (i *Interactor) Delete(ctx context.Context, input dto.TargetInput) (dto.TitleOutput, error) {
	out := dto.TitleOutput{}
	err := i.run(ctx, "delete", true, func(app *domain.App) error {
		title, err := i.svc.Delete(app, input.Title)
		out.Title = title
		return err
	})
	return out, err
}

func (i *Interactor) Start(ctx context.Context, input dto.StartInput) (dto.StartOutput, error) {
	out := dto.StartOutput{}
	err := i.run(ctx, "start", true, func(app *domain.App) error {
		title, at, err := i.svc.Start(app, input.Title, input.Notes)
		if err != nil {
			return err
		}
		out = dto.StartOutput{Title: title, StartedAt: at, Notes: input.Notes}
		return nil
	})
	return out, err
}

func (i *Interactor) Stop(ctx context.Context, input dto.TargetInput) (dto.StopOutput, error) {
	out := dto.StopOutput{}
	err := i.run(ctx, "stop", true, func(app *domain.App) error {
		stopped, err := i.svc.Stop(app, input.Title)
		if err != nil {
			return err
		}
		out = dto.StopOutput{
			Title:     stopped.Title,
			Notes:     stopped.Notes,
			StartedAt: stopped.Log.StartTime,
			EndedAt:   stopped.Log.EndTime,
			Duration:  stopped.Duration,
		}
		return nil
	})
	return out, err
}

func (i *Interactor) Switch(ctx context.Context, input dto.SwitchInput) (dto.TitleOutput, error) {
	out := dto.TitleOutput{}
	err := i.run(ctx, "switch", true, func(app *domain.App) error {
		title, err := i.svc.Switch(app, input.Title)
		out.Title = title
		return err
	})
	return out, err
}

func (i *Interactor) Current(ctx context.Context) (dto.TitleOutput, error) {
	out := dto.TitleOutput{}
	err := i.run(ctx, "current", false, func(app *domain.App) error {
		title, err := i.svc.Current(app)
		out.Title = title
		return err
	})
	return out, err
}

func (i *Interactor) Status(ctx context.Context, input dto.TargetInput) (dto.StatusOutput, error) {
	out := dto.StatusOutput{}
	err := i.run(ctx, "status", false, func(app *domain.App) error {
		snap, err := i.svc.Status(app, input.Title)
		if err != nil {
			return err
		}
		out = dto.StatusOutput{Title: snap.Title, Running: snap.Running, Recent: toLogOutputs(snap)}
		return nil
	})
	return out, err
}

func (i *Interactor) Logs(ctx context.Context, input dto.TargetInput) (dto.LogsOutput, error) {
	out := dto.LogsOutput{}
	err := i.run(ctx, "logs", false, func(app *domain.App) error {
		snap, err := i.svc.Logs(app, input.Title)
		if err != nil {
			return err
		}
		out = dto.LogsOutput{Title: snap.Title, Running: snap.Running, Logs: toLogOutputs(snap)}
		return nil
	})
	return out, err
}

func (i *Interactor) List(ctx context.Context, input dto.ListInput) (dto.ListOutput, error) {
	if input.Match != "" && !doublestar.ValidatePattern(input.Match) {
		return dto.ListOutput{}, fmt.Errorf("%w: bad pattern %q", apperrors.ErrInvalidInput, input.Match)
	}
	out := dto.ListOutput{Trackers: []dto.TrackerOutput{}}
	err := i.run(ctx, "list", false, func(app *domain.App) error {
		for _, entry := range i.svc.List(app) {
			if input.Match != "" {
				ok, err := doublestar.Match(input.Match, entry.Title)
				if err != nil {
					return fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
				}
				if !ok {
					continue
				}
			}
			out.Trackers = append(out.Trackers, dto.TrackerOutput{
				Title:   entry.Title,
				Current: entry.Current,
				Running: entry.Running,
				Logs:    entry.Logs,
			})
		}
		return nil
	})
	return out, err
}

func toLogOutputs(snap service.Snapshot) []dto.LogOutput {
	out := make([]dto.LogOutput, 0, len(snap.Logs))
	for _, l := range snap.Logs {
		out = append(out, dto.LogOutput{
			StartedAt: l.StartTime,
			EndedAt:   l.EndTime,
			Open:      l.Open(),
			Notes:     l.Notes,
			Duration:  l.Duration(snap.Now),
		})
	}
	return out
}
