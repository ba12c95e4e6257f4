package billing

import (
	"errors"
	"fmt"
)

// EditorState is a state of the discount edit workflow.
type EditorState int

const (
	EditorViewing EditorState = iota
	EditorEditing
	EditorApplying
)

func (s EditorState) String() string {
	switch s {
	case EditorViewing:
		return "viewing"
	case EditorEditing:
		return "editing"
	case EditorApplying:
		return "applying"
	}
	return "unknown"
}

// ErrInvalidTransition is returned for an operation the current state does not allow.
var ErrInvalidTransition = errors.New("invalid discount editor transition")

// DiscountEditor drives Viewing -> Editing -> (Applying | Cancelled) -> Viewing.
// The draft never touches the persisted discount; on Confirm the server's
// values replace both.
type DiscountEditor struct {
	state     EditorState
	persisted DiscountSpec
	draft     DiscountSpec
}

// NewDiscountEditor starts in Viewing with the last persisted discount.
func NewDiscountEditor(persisted DiscountSpec) *DiscountEditor {
	return &DiscountEditor{state: EditorViewing, persisted: persisted}
}

func (e *DiscountEditor) State() EditorState { return e.state }

func (e *DiscountEditor) Persisted() DiscountSpec { return e.persisted }

// Draft is only meaningful while Editing or Applying.
func (e *DiscountEditor) Draft() DiscountSpec { return e.draft }

func (e *DiscountEditor) transition(op string, from EditorState) error {
	if e.state != from {
		return fmt.Errorf("%w: %s while %s", ErrInvalidTransition, op, e.state)
	}
	return nil
}

// Begin opens an editing session seeded with the persisted discount.
func (e *DiscountEditor) Begin() error {
	if err := e.transition("begin", EditorViewing); err != nil {
		return err
	}
	e.draft = e.persisted
	e.state = EditorEditing
	return nil
}

// SetDraft replaces the local draft.
func (e *DiscountEditor) SetDraft(spec DiscountSpec) error {
	if err := e.transition("set draft", EditorEditing); err != nil {
		return err
	}
	e.draft = spec
	return nil
}

// Preview computes the breakdown the draft would produce.
func (e *DiscountEditor) Preview(lines []Line, rules []ChargeRule) (Breakdown, error) {
	if err := e.transition("preview", EditorEditing); err != nil {
		return Breakdown{}, err
	}
	d := e.draft
	return ComputeCharges(lines, rules, &d)
}

// Submit hands the draft over for persistence.
func (e *DiscountEditor) Submit() (DiscountSpec, error) {
	if err := e.transition("submit", EditorEditing); err != nil {
		return DiscountSpec{}, err
	}
	e.state = EditorApplying
	return e.draft, nil
}

// Confirm accepts the server's values and discards the draft.
func (e *DiscountEditor) Confirm(server DiscountSpec) error {
	if err := e.transition("confirm", EditorApplying); err != nil {
		return err
	}
	e.persisted = server
	e.draft = DiscountSpec{}
	e.state = EditorViewing
	return nil
}

// Fail returns to Editing with the draft intact so the user can retry.
func (e *DiscountEditor) Fail() error {
	if err := e.transition("fail", EditorApplying); err != nil {
		return err
	}
	e.state = EditorEditing
	return nil
}

// Cancel discards the draft and reverts to the persisted discount.
func (e *DiscountEditor) Cancel() error {
	if err := e.transition("cancel", EditorEditing); err != nil {
		return err
	}
	e.draft = DiscountSpec{}
	e.state = EditorViewing
	return nil
}
