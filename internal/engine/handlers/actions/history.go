package actions

import "scene-manager/internal/engine/handlers"

func HandleUndo(ctx handlers.Context) (handlers.Result, error) {
	if !ctx.Panel.Undo() {
		return handlers.Result{Msg: "Nothing to undo.", MsgType: "INFO", Unchanged: true}, nil
	}
	return handlers.EmptyResult(), nil
}

func HandleRedo(ctx handlers.Context) (handlers.Result, error) {
	if !ctx.Panel.Redo() {
		return handlers.Result{Msg: "Nothing to redo.", MsgType: "INFO", Unchanged: true}, nil
	}
	return handlers.EmptyResult(), nil
}
