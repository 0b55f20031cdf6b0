package handlers

import (
	"encoding/json"

	"scene-manager/internal/core/types"
	"scene-manager/internal/domain"
	"scene-manager/internal/modules"
)

// Panel is the slice of the panel a handler may drive. The engine's Panel
// implements it; handlers never reach the host directly.
type Panel interface {
	Refresh() bool
	ToggleSelect(h types.EntityHandle)
	ClearSelection()
	ToggleActive(h types.EntityHandle) error
	SetFilter(criteria domain.FilterCriteria)
	EditField(attr domain.Attribute, axis domain.Axis, value float64) (int, error)
	ApplyTransform(edited domain.Transform) (int, error)
	EndEdit()
	Attach(typeID string) modules.BatchResult
	Detach(typeID string) modules.BatchResult
	Undo() bool
	Redo() bool
}

// Context hands the handler the panel and the session that sent the intent.
type Context struct {
	Panel   Panel
	Session string
}

// Result is what a handler returns instead of writing to the session itself.
type Result struct {
	Msg     string // status line
	MsgType string // INFO, WARN

	// Batch is set by ATTACH and DETACH.
	Batch *modules.BatchResult

	// Unchanged means nothing other sessions care about happened, so the state
	// only goes back to the sender.
	Unchanged bool
}

// HandlerFunc is the contract for every intent (TOGGLE_SELECT, EDIT_FIELD, ...).
type HandlerFunc func(ctx Context, payload json.RawMessage) (Result, error)

// EmptyResult is a successful result with nothing to report.
func EmptyResult() Result {
	return Result{}
}
