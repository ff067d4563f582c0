package in

import (
	"context"

	"tracky/internal/modules/tracker/dto"
)

type Usecase interface {
	Create(ctx context.Context, input dto.CreateInput) (dto.CreateOutput, error)
	Delete(ctx context.Context, input dto.TargetInput) (dto.TitleOutput, error)
	Start(ctx context.Context, input dto.StartInput) (dto.StartOutput, error)
	Stop(ctx context.Context, input dto.TargetInput) (dto.StopOutput, error)
	Switch(ctx context.Context, input dto.SwitchInput) (dto.TitleOutput, error)
	Current(ctx context.Context) (dto.TitleOutput, error)
	Status(ctx context.Context, input dto.TargetInput) (dto.StatusOutput, error)
	Logs(ctx context.Context, input dto.TargetInput) (dto.LogsOutput, error)
	List(ctx context.Context, input dto.ListInput) (dto.ListOutput, error)
}
