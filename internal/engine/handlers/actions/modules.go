package actions

import (
	"fmt"

	"scene-manager/internal/engine/handlers"
	"scene-manager/internal/modules"
	"scene-manager/pkg/api"
)

func HandleAttach(ctx handlers.Context, p api.CapabilityPayload) (handlers.Result, error) {
	res := ctx.Panel.Attach(p.TypeID)
	return batchResult("Added", res), nil
}

func HandleDetach(ctx handlers.Context, p api.CapabilityPayload) (handlers.Result, error) {
	res := ctx.Panel.Detach(p.TypeID)
	return batchResult("Removed", res), nil
}

func batchResult(verb string, res modules.BatchResult) handlers.Result {
	name := res.TypeID
	if ct, ok := modules.Lookup(res.TypeID); ok {
		name = ct.DisplayName
	}

	out := handlers.Result{
		Msg:     fmt.Sprintf("%s %s on %d entities.", verb, name, len(res.Changed)),
		MsgType: "INFO",
		Batch:   &res,
	}
	if len(res.Failed) > 0 {
		out.Msg = fmt.Sprintf("%s %s on %d entities, %d refused.", verb, name, len(res.Changed), len(res.Failed))
		out.MsgType = "WARN"
	}
	if len(res.Changed) == 0 {
		out.Unchanged = true
	}
	return out
}
