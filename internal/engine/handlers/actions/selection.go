package actions

import (
	"fmt"

	"scene-manager/internal/core/types"
	"scene-manager/internal/domain"
	"scene-manager/internal/engine/handlers"
	"scene-manager/pkg/api"
)

func HandleToggleSelect(ctx handlers.Context, p api.EntityPayload) (handlers.Result, error) {
	h, err := types.ParseEntityHandle(p.Handle)
	if err != nil {
		return handlers.Result{}, fmt.Errorf("toggle select: %w", err)
	}
	ctx.Panel.ToggleSelect(h)
	return handlers.EmptyResult(), nil
}

func HandleClearSelection(ctx handlers.Context) (handlers.Result, error) {
	ctx.Panel.ClearSelection()
	return handlers.EmptyResult(), nil
}

// HandleToggleActive flips the active flag of one entity. A stale handle is a no-op.
func HandleToggleActive(ctx handlers.Context, p api.EntityPayload) (handlers.Result, error) {
	h, err := types.ParseEntityHandle(p.Handle)
	if err != nil {
		return handlers.Result{}, fmt.Errorf("toggle active: %w", err)
	}
	if err := ctx.Panel.ToggleActive(h); err != nil {
		return handlers.Result{Msg: err.Error(), MsgType: "WARN"}, nil
	}
	return handlers.EmptyResult(), nil
}

func HandleSetFilter(ctx handlers.Context, p api.FilterPayload) (handlers.Result, error) {
	ctx.Panel.SetFilter(domain.FilterCriteria{
		RequiredCapabilities: domain.NewCapabilitySet(p.Capabilities...),
		Search:               p.Search,
	})
	return handlers.Result{Unchanged: true}, nil
}
