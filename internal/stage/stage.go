// Package stage holds the lead pipeline transition rules.
package stage

import (
	"errors"
	"fmt"

	"zillowlike.app/api/internal/model"
)

var (
	ErrUnknownStage      = errors.New("unknown pipeline stage")
	ErrSameStage         = errors.New("lead is already in this stage")
	ErrInvalidTransition = errors.New("stage transition not allowed")
)

// CanTransition validates a stage move.
//
// Open stages may move anywhere, forward (skipping) or backward. WON is final.
// LOST may only be reopened back to CONTACT.
func CanTransition(from, to model.Stage) error {
	if !to.IsValid() {
		return fmt.Errorf("%w: %q", ErrUnknownStage, to)
	}
	if from == to {
		return ErrSameStage
	}
	switch from {
	case model.StageWon:
		return fmt.Errorf("%w: %s is final", ErrInvalidTransition, from)
	case model.StageLost:
		if to != model.StageContact {
			return fmt.Errorf("%w: lost leads reopen to %s only", ErrInvalidTransition, model.StageContact)
		}
	}
	return nil
}

// Index returns the board position of s, or -1.
func Index(s model.Stage) int {
	for i, st := range model.Stages {
		if st == s {
			return i
		}
	}
	return -1
}

// Next returns the stage after s in the happy path, or s itself at the end.
func Next(s model.Stage) model.Stage {
	switch s {
	case model.StageNew:
		return model.StageContact
	case model.StageContact:
		return model.StageVisit
	case model.StageVisit:
		return model.StageProposal
	case model.StageProposal:
		return model.StageDocuments
	case model.StageDocuments:
		return model.StageWon
	}
	return s
}
