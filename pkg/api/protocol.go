package api

import (
	"encoding/json"
)

// --- SERVER -> CLIENT ---

// Response types.
const (
	TypeState = "STATE"
	TypeError = "ERROR"
)

// ServerResponse is the root object the server sends to a shell session.
type ServerResponse struct {
	// Type is STATE or ERROR.
	Type string `json:"type"`

	// Tick is the panel loop tick the message was built on.
	Tick int64 `json:"tick"`

	// Session is the id of the receiving session, set on the first STATE.
	Session string `json:"session,omitempty"`

	State *PanelState `json:"state,omitempty"`

	// Batch reports the outcome of an ATTACH or DETACH.
	Batch *BatchView `json:"batch,omitempty"`

	Logs []LogEntry `json:"logs,omitempty"`

	// Error is set for ERROR responses.
	Error string `json:"error,omitempty"`
}

// PanelState is the full read model a shell needs to redraw.
type PanelState struct {
	// Population is the eligible entity count known to the registry.
	Population int          `json:"population"`
	Visible    []EntityView `json:"visible"`

	// Selection holds handles in click order.
	Selection []string `json:"selection"`

	// Transform is nil when nothing is selected.
	Transform *TransformView `json:"transform,omitempty"`

	Catalog   []CapabilityView `json:"catalog"`
	Filter    FilterView       `json:"filter"`
	ApplyMode string           `json:"applyMode"`
	CanUndo   bool             `json:"canUndo"`
	CanRedo   bool             `json:"canRedo"`
}

// EntityView is one row of the visible list.
type EntityView struct {
	Handle       string   `json:"handle"`
	Name         string   `json:"name"`
	Active       bool     `json:"active"`
	Static       bool     `json:"static,omitempty"`
	Selected     bool     `json:"selected"`
	Capabilities []string `json:"capabilities"`
}

type Vec3View struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// TransformView carries the representative values and the per-axis mixed flags.
// A shell shows a dash instead of the value for every mixed axis.
type TransformView struct {
	Representative string   `json:"representative"`
	Count          int      `json:"count"`
	Position       Vec3View `json:"position"`
	Rotation       Vec3View `json:"rotation"`
	Scale          Vec3View `json:"scale"`
	PositionMixed  [3]bool  `json:"positionMixed"`
	RotationMixed  [3]bool  `json:"rotationMixed"`
	ScaleMixed     [3]bool  `json:"scaleMixed"`
	Editing        bool     `json:"editing"`
}

type CapabilityView struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
}

type FilterView struct {
	Capabilities []string `json:"capabilities"`
	Search       string   `json:"search"`
}

// BatchView reports a selection-wide attach or detach.
type BatchView struct {
	TypeID  string        `json:"typeId"`
	Changed []string      `json:"changed"`
	Skipped []string      `json:"skipped"`
	Failed  []FailureView `json:"failed,omitempty"`
}

type FailureView struct {
	Handle string `json:"handle"`
	Error  string `json:"error"`
}

// LogEntry is one human-readable line for the shell's status bar.
type LogEntry struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Type      string `json:"type"`      // INFO, WARN, ERROR
	Timestamp int64  `json:"timestamp"` // Unix milliseconds
}

// --- CLIENT -> SERVER ---

// ClientCommand is the root object of every shell intent.
type ClientCommand struct {
	// Action is the intent name, e.g. TOGGLE_SELECT.
	Action string `json:"action"`

	// Payload depends on Action.
	Payload json.RawMessage `json:"payload,omitempty"`
}

// --- Payloads ---

// EntityPayload targets one entity (TOGGLE_SELECT, TOGGLE_ACTIVE).
type EntityPayload struct {
	Handle string `json:"handle"`
}

// FilterPayload replaces the filter criteria (SET_FILTER).
type FilterPayload struct {
	Capabilities []string `json:"capabilities"`
	Search       string   `json:"search"`
}

// EditFieldPayload sets one axis of one transform attribute (EDIT_FIELD).
type EditFieldPayload struct {
	Attribute string  `json:"attribute"` // position, rotation, scale
	Axis      string  `json:"axis"`      // x, y, z
	Value     float64 `json:"value"`
}

// TransformPayload submits all three edited vectors at once (SET_TRANSFORM).
type TransformPayload struct {
	Position Vec3View `json:"position"`
	Rotation Vec3View `json:"rotation"`
	Scale    Vec3View `json:"scale"`
}

// CapabilityPayload names a catalog type (ATTACH, DETACH).
type CapabilityPayload struct {
	TypeID string `json:"typeId"`
}
