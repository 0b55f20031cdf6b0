package actions

import (
	"fmt"

	"scene-manager/internal/domain"
	"scene-manager/internal/engine/handlers"
	"scene-manager/pkg/api"
)

// HandleEditField applies one keystroke of a field edit. Keystrokes keep feeding
// the same gesture until END_EDIT.
func HandleEditField(ctx handlers.Context, p api.EditFieldPayload) (handlers.Result, error) {
	attr := domain.ParseAttribute(p.Attribute)
	axis, ok := domain.ParseAxis(p.Axis)
	if attr == domain.AttributeUnknown || !ok {
		return handlers.Result{}, fmt.Errorf("edit field %s.%s: unknown field", p.Attribute, p.Axis)
	}

	n, err := ctx.Panel.EditField(attr, axis, p.Value)
	if err != nil {
		return handlers.Result{Msg: err.Error(), MsgType: "WARN"}, nil
	}
	if n == 0 {
		return handlers.Result{Unchanged: true}, nil
	}
	return handlers.EmptyResult(), nil
}

// HandleSetTransform submits all three vectors of the transform fields at once.
func HandleSetTransform(ctx handlers.Context, p api.TransformPayload) (handlers.Result, error) {
	n, err := ctx.Panel.ApplyTransform(domain.Transform{
		Position: toVec3(p.Position),
		Rotation: toVec3(p.Rotation),
		Scale:    toVec3(p.Scale),
	})
	if err != nil {
		return handlers.Result{Msg: err.Error(), MsgType: "WARN"}, nil
	}
	if n == 0 {
		return handlers.Result{Unchanged: true}, nil
	}
	return handlers.Result{
		Msg:     fmt.Sprintf("Modified transform of %d entities.", n),
		MsgType: "INFO",
	}, nil
}

func HandleEndEdit(ctx handlers.Context) (handlers.Result, error) {
	ctx.Panel.EndEdit()
	return handlers.Result{Unchanged: true}, nil
}

func toVec3(v api.Vec3View) domain.Vec3 {
	return domain.Vec3{X: v.X, Y: v.Y, Z: v.Z}
}
