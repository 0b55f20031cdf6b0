package systems

import (
	"errors"
	"fmt"
	"strings"

	"scene-manager/internal/core/types"
	"scene-manager/internal/domain"
	"scene-manager/pkg/logger"

	"github.com/sirupsen/logrus"
)

// ApplyMode selects how an edited vector turns into a delta.
type ApplyMode uint8

const (
	// ApplyWholeVector compares the edited vector to the baseline as a whole and,
	// when they differ, adds the full difference to every axis.
	ApplyWholeVector ApplyMode = iota
	// ApplyPerAxis only moves the axes whose edited value differs from the baseline
	// beyond tolerance, so float noise on untouched fields is not spread.
	ApplyPerAxis
)

// ParseApplyMode accepts "whole" and "per_axis"; anything else is an error.
func ParseApplyMode(s string) (ApplyMode, error) {
	switch strings.ToLower(s) {
	case "", "whole", "whole_vector":
		return ApplyWholeVector, nil
	case "per_axis", "peraxis":
		return ApplyPerAxis, nil
	}
	return ApplyWholeVector, fmt.Errorf("unknown apply mode %q", s)
}

func (m ApplyMode) String() string {
	if m == ApplyPerAxis {
		return "per_axis"
	}
	return "whole"
}

// Reconciliation is the read model for the transform fields of a selection.
type Reconciliation struct {
	Representative types.EntityHandle    `json:"representative"`
	Count          int                   `json:"count"`
	Baseline       domain.Transform      `json:"baseline"`
	PositionMixed  domain.AxisMixedState `json:"positionMixed"`
	RotationMixed  domain.AxisMixedState `json:"rotationMixed"`
	ScaleMixed     domain.AxisMixedState `json:"scaleMixed"`
}

// Mixed returns the mixed flags for one attribute.
func (r Reconciliation) Mixed(a domain.Attribute) domain.AxisMixedState {
	switch a {
	case domain.AttributePosition:
		return r.PositionMixed
	case domain.AttributeRotation:
		return r.RotationMixed
	case domain.AttributeScale:
		return r.ScaleMixed
	}
	return domain.AxisMixedState{}
}

// TransformReconciler computes common/mixed transform values over a selection
// and applies edits to it as relative deltas.
type TransformReconciler struct {
	host     domain.Host
	recorder domain.Recorder
	eps      float64
	mode     ApplyMode
}

func NewTransformReconciler(host domain.Host, recorder domain.Recorder, eps float64, mode ApplyMode) *TransformReconciler {
	if recorder == nil {
		recorder = domain.ApplyDirectly
	}
	if eps <= 0 {
		eps = domain.Float32Epsilon
	}
	return &TransformReconciler{host: host, recorder: recorder, eps: eps, mode: mode}
}

func (r *TransformReconciler) Mode() ApplyMode { return r.mode }

// Recompute takes the first live member as the baseline (representative, not an
// average) and flags every axis on which some other member differs beyond tolerance.
// ok is false when no member resolves.
func (r *TransformReconciler) Recompute(selection []types.EntityHandle) (Reconciliation, bool) {
	var (
		res   Reconciliation
		found bool
	)

	for _, h := range selection {
		snap, ok := r.host.Snapshot(h)
		if !ok {
			continue
		}
		res.Count++
		if !found {
			found = true
			res.Representative = h
			res.Baseline = snap.Transform
			continue
		}
		for _, ax := range domain.Axes {
			res.PositionMixed[ax] = res.PositionMixed[ax] || r.differs(snap.Transform.Position, res.Baseline.Position, ax)
			res.RotationMixed[ax] = res.RotationMixed[ax] || r.differs(snap.Transform.Rotation, res.Baseline.Rotation, ax)
			res.ScaleMixed[ax] = res.ScaleMixed[ax] || r.differs(snap.Transform.Scale, res.Baseline.Scale, ax)
		}
	}

	return res, found
}

func (r *TransformReconciler) differs(v, base domain.Vec3, ax domain.Axis) bool {
	return !domain.Approximately(v.Get(ax), base.Get(ax), r.eps)
}

// deltas returns, per attribute, the delta to add and whether it applies at all.
func (r *TransformReconciler) deltas(edited, baseline domain.Transform) (map[domain.Attribute]domain.Vec3, bool) {
	out := make(map[domain.Attribute]domain.Vec3, len(domain.Attributes))
	for _, a := range domain.Attributes {
		e, b := edited.Get(a), baseline.Get(a)
		// approximate like the host's vector equality, so echoed float noise is no edit
		if e.ApproxEqual(b, r.eps) {
			continue
		}
		delta := e.Sub(b)
		if r.mode == ApplyPerAxis {
			var changed [3]bool
			for _, ax := range domain.Axes {
				changed[ax] = !domain.Approximately(e.Get(ax), b.Get(ax), r.eps)
			}
			if changed == [3]bool{} {
				continue
			}
			delta = delta.Mask(changed)
		}
		out[a] = delta
	}
	return out, len(out) > 0
}

// ApplyDelta adds (edited - baseline) to the current value of every selected
// entity, per attribute that changed. Each entity is one recorded mutation.
// Stale members are skipped. Returns how many entities were mutated.
func (r *TransformReconciler) ApplyDelta(selection []types.EntityHandle, edited, baseline domain.Transform) (int, error) {
	deltas, ok := r.deltas(edited, baseline)
	if !ok {
		return 0, nil
	}

	var (
		mutated int
		errs    []error
	)
	for _, h := range selection {
		snap, ok := r.host.Snapshot(h)
		if !ok {
			continue
		}

		before := snap.Transform
		after := before
		for a, d := range deltas {
			after = after.With(a, after.Get(a).Add(d))
		}
		if after == before {
			continue
		}

		handle := h
		err := r.recorder.RecordAndApply(handle, domain.Mutation{
			Label:  "Modify Transform",
			Entity: handle,
			Apply:  func() error { return r.host.SetTransform(handle, after) },
			Revert: func() error { return r.host.SetTransform(handle, before) },
		})
		if err != nil {
			if !r.host.Alive(handle) {
				continue
			}
			logger.Log.WithFields(logrus.Fields{
				"component": "transform",
				"entity":    handle,
			}).WithError(err).Warn("transform edit rejected")
			errs = append(errs, err)
			continue
		}
		mutated++
	}

	return mutated, errors.Join(errs...)
}

// Gesture is one continuous edit (a drag or a run of keystrokes in a field).
// The baseline is captured once when the gesture begins; every edit is applied
// relative to the value the previous edit produced, so deltas never compound.
type Gesture struct {
	r         *TransformReconciler
	selection []types.EntityHandle
	baseline  domain.Transform
	reference domain.Transform
}

// BeginGesture snapshots the selection and its baseline. ok is false for an
// empty (or fully stale) selection.
func (r *TransformReconciler) BeginGesture(selection []types.EntityHandle) (*Gesture, bool) {
	rec, ok := r.Recompute(selection)
	if !ok {
		return nil, false
	}
	sel := make([]types.EntityHandle, len(selection))
	copy(sel, selection)
	return &Gesture{
		r:         r,
		selection: sel,
		baseline:  rec.Baseline,
		reference: rec.Baseline,
	}, true
}

// Baseline is the representative transform captured when the gesture began.
func (g *Gesture) Baseline() domain.Transform { return g.baseline }

// Reference is the value the last edit produced.
func (g *Gesture) Reference() domain.Transform { return g.reference }

// Edit sets one axis of one attribute to value.
func (g *Gesture) Edit(attr domain.Attribute, axis domain.Axis, value float64) (int, error) {
	if attr == domain.AttributeUnknown {
		return 0, nil
	}
	edited := g.reference.With(attr, g.reference.Get(attr).With(axis, value))
	return g.Set(edited)
}

// Set applies a full edited transform.
func (g *Gesture) Set(edited domain.Transform) (int, error) {
	n, err := g.r.ApplyDelta(g.selection, edited, g.reference)
	g.reference = edited
	return n, err
}
