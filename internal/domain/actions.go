package domain

import (
	"encoding/json"
	"strings"
)

// ActionType is the internal id of a shell intent.
type ActionType uint8

const (
	ActionUnknown ActionType = iota
	ActionInit
	ActionRefresh
	ActionToggleSelect
	ActionClearSelection
	ActionToggleActive
	ActionSetFilter
	ActionEditField
	ActionSetTransform
	ActionEndEdit
	ActionAttach
	ActionDetach
	ActionUndo
	ActionRedo
)

// JSON -> domain
var actionStringToCmd = map[string]ActionType{
	"INIT":            ActionInit,
	"REFRESH":         ActionRefresh,
	"TOGGLE_SELECT":   ActionToggleSelect,
	"CLEAR_SELECTION": ActionClearSelection,
	"TOGGLE_ACTIVE":   ActionToggleActive,
	"SET_FILTER":      ActionSetFilter,
	"EDIT_FIELD":      ActionEditField,
	"SET_TRANSFORM":   ActionSetTransform,
	"END_EDIT":        ActionEndEdit,
	"ATTACH":          ActionAttach,
	"DETACH":          ActionDetach,
	"UNDO":            ActionUndo,
	"REDO":            ActionRedo,
}

// domain -> logs
var actionCmdToString = func() map[ActionType]string {
	m := make(map[ActionType]string, len(actionStringToCmd))
	for s, a := range actionStringToCmd {
		m[a] = s
	}
	return m
}()

// ParseAction converts a wire action name into an ActionType, ignoring case.
func ParseAction(s string) ActionType {
	if val, ok := actionStringToCmd[strings.ToUpper(s)]; ok {
		return val
	}
	return ActionUnknown
}

func (a ActionType) String() string {
	if val, ok := actionCmdToString[a]; ok {
		return val
	}
	return "UNKNOWN"
}

// InternalCommand is an intent after the action name has been resolved.
type InternalCommand struct {
	Action  ActionType
	Session string // websocket session that sent it, empty for local callers
	Payload json.RawMessage
}
