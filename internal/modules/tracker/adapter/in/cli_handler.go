package in

import (
	"context"

	trackerdto "tracky/internal/modules/tracker/dto"
	trackerin "tracky/internal/modules/tracker/port/in"
)

type CLIHandler struct {
	usecase trackerin.Usecase
}

func NewCLIHandler(usecase trackerin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) New(ctx context.Context, title string) (trackerdto.CreateOutput, error) {
	return h.usecase.Create(ctx, trackerdto.CreateInput{Title: title})
}

func (h CLIHandler) Delete(ctx context.Context, title string) (trackerdto.TitleOutput, error) {
	return h.usecase.Delete(ctx, trackerdto.TargetInput{Title: title})
}

func (h CLIHandler) Start(ctx context.Context, title, notes string) (trackerdto.StartOutput, error) {
	return h.usecase.Start(ctx, trackerdto.StartInput{Title: title, Notes: notes})
}

func (h CLIHandler) Stop(ctx context.Context, title string) (trackerdto.StopOutput, error) {
	return h.usecase.Stop(ctx, trackerdto.TargetInput{Title: title})
}

func (h CLIHandler) Switch(ctx context.Context, title string) (trackerdto.TitleOutput, error) {
	return h.usecase.Switch(ctx, trackerdto.SwitchInput{Title: title})
}

func (h CLIHandler) Current(ctx context.Context) (trackerdto.TitleOutput, error) {
	return h.usecase.Current(ctx)
}

func (h CLIHandler) Status(ctx context.Context, title string) (trackerdto.StatusOutput, error) {
	return h.usecase.Status(ctx, trackerdto.TargetInput{Title: title})
}

func (h CLIHandler) Logs(ctx context.Context, title string) (trackerdto.LogsOutput, error) {
	return h.usecase.Logs(ctx, trackerdto.TargetInput{Title: title})
}

func (h CLIHandler) List(ctx context.Context, match string) (trackerdto.ListOutput, error) {
	return h.usecase.List(ctx, trackerdto.ListInput{Match: match})
}
