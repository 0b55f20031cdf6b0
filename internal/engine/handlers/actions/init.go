package actions

import "scene-manager/internal/engine/handlers"

// HandleInit only answers the sender with the current state.
func HandleInit(ctx handlers.Context) (handlers.Result, error) {
	return handlers.Result{
		Msg:       "Scene panel ready.",
		MsgType:   "INFO",
		Unchanged: true,
	}, nil
}

// HandleRefresh forces a population rebuild, bypassing the count check.
func HandleRefresh(ctx handlers.Context) (handlers.Result, error) {
	ctx.Panel.Refresh()
	return handlers.EmptyResult(), nil
}
