// Package history keeps the undo/redo record of entity mutations.
package history

import (
	"fmt"
	"time"

	"scene-manager/internal/core/types"
	"scene-manager/internal/domain"
	"scene-manager/pkg/logger"

	"github.com/sirupsen/logrus"
)

// DefaultDepth bounds the undo stack when no depth is configured.
const DefaultDepth = 256

// Record is one applied mutation.
type Record struct {
	Label     string             `json:"label"`
	Entity    types.EntityHandle `json:"entity"`
	Timestamp int64              `json:"timestamp"`

	mutation domain.Mutation
}

// Journal implements domain.Recorder. Every entity mutation becomes one record.
type Journal struct {
	depth int
	undo  []Record
	redo  []Record
}

func NewJournal(depth int) *Journal {
	if depth <= 0 {
		depth = DefaultDepth
	}
	return &Journal{depth: depth}
}

// RecordAndApply applies m and, on success, pushes it onto the undo stack.
// Any pending redo records are discarded.
func (j *Journal) RecordAndApply(h types.EntityHandle, m domain.Mutation) error {
	if m.Apply == nil {
		return fmt.Errorf("mutation %q has no apply step", m.Label)
	}
	if err := m.Apply(); err != nil {
		return err
	}

	m.Entity = h
	j.undo = append(j.undo, Record{
		Label:     m.Label,
		Entity:    h,
		Timestamp: time.Now().UnixMilli(),
		mutation:  m,
	})
	if len(j.undo) > j.depth {
		dropped := len(j.undo) - j.depth
		j.undo = append(j.undo[:0], j.undo[dropped:]...)
	}
	j.redo = j.redo[:0]
	return nil
}

// Undo reverts the most recent record. ok is false when nothing is left to undo.
// A failing revert (entity destroyed meanwhile) drops the record and reports the error.
func (j *Journal) Undo() (Record, bool, error) {
	n := len(j.undo)
	if n == 0 {
		return Record{}, false, nil
	}
	rec := j.undo[n-1]
	j.undo = j.undo[:n-1]

	if rec.mutation.Revert == nil {
		return rec, true, fmt.Errorf("undo %q: not reversible", rec.Label)
	}
	if err := rec.mutation.Revert(); err != nil {
		logger.Log.WithFields(logrus.Fields{
			"component": "history",
			"entity":    rec.Entity,
			"label":     rec.Label,
		}).WithError(err).Debug("undo dropped")
		return rec, true, fmt.Errorf("undo %q: %w", rec.Label, err)
	}
	j.redo = append(j.redo, rec)
	return rec, true, nil
}

// Redo re-applies the most recently undone record.
func (j *Journal) Redo() (Record, bool, error) {
	n := len(j.redo)
	if n == 0 {
		return Record{}, false, nil
	}
	rec := j.redo[n-1]
	j.redo = j.redo[:n-1]

	if err := rec.mutation.Apply(); err != nil {
		return rec, true, fmt.Errorf("redo %q: %w", rec.Label, err)
	}
	j.undo = append(j.undo, rec)
	return rec, true, nil
}

func (j *Journal) CanUndo() bool { return len(j.undo) > 0 }
func (j *Journal) CanRedo() bool { return len(j.redo) > 0 }

// Len is the number of undoable records.
func (j *Journal) Len() int { return len(j.undo) }

// Records returns a copy of the undo stack, oldest first.
func (j *Journal) Records() []Record {
	out := make([]Record, len(j.undo))
	copy(out, j.undo)
	return out
}
