package models

import "fmt"

// ActionKind enumerates the five workflow action categories.
type ActionKind string

const (
	ActionIssue      ActionKind = "issue"
	ActionProduce    ActionKind = "produce"
	ActionAlteration ActionKind = "alteration"
	ActionQC         ActionKind = "qc"
	ActionPack       ActionKind = "pack"
)

// Action is the closed set of workflow actions. Each variant carries its own
// quantity so the engine dispatches over concrete types rather than a kind
// string; adding a sixth action forces every type switch to be revisited.
type Action interface {
	Kind() ActionKind
	Qty() int
	sealedAction()
}

// Issue hands raw goods to a worker.
type Issue struct{ Quantity int }

// Produce records completed units.
type Produce struct{ Quantity int }

// Alteration flags units for rework.
type Alteration struct{ Quantity int }

// QC records units that cleared inspection.
type QC struct{ Quantity int }

// Pack records units finalized into shippable state.
type Pack struct{ Quantity int }

func (a Issue) Kind() ActionKind      { return ActionIssue }
func (a Produce) Kind() ActionKind    { return ActionProduce }
func (a Alteration) Kind() ActionKind { return ActionAlteration }
func (a QC) Kind() ActionKind         { return ActionQC }
func (a Pack) Kind() ActionKind       { return ActionPack }

func (a Issue) Qty() int      { return a.Quantity }
func (a Produce) Qty() int    { return a.Quantity }
func (a Alteration) Qty() int { return a.Quantity }
func (a QC) Qty() int         { return a.Quantity }
func (a Pack) Qty() int       { return a.Quantity }

func (Issue) sealedAction()      {}
func (Produce) sealedAction()    {}
func (Alteration) sealedAction() {}
func (QC) sealedAction()         {}
func (Pack) sealedAction()       {}

// Stage returns the workflow stage tag an action stamps onto a record.
func (a Issue) Stage() WorkflowStage      { return StageIssued }
func (a Produce) Stage() WorkflowStage    { return StageProduction }
func (a Alteration) Stage() WorkflowStage { return StageAlteration }
func (a QC) Stage() WorkflowStage         { return StageQC }
func (a Pack) Stage() WorkflowStage       { return StagePacking }

// ActionStage maps an action to its resulting stage without instantiating it.
func ActionStage(kind ActionKind) WorkflowStage {
	switch kind {
	case ActionIssue:
		return StageIssued
	case ActionProduce:
		return StageProduction
	case ActionAlteration:
		return StageAlteration
	case ActionQC:
		return StageQC
	case ActionPack:
		return StagePacking
	default:
		return StageIdle
	}
}

// ParseAction builds the action variant for a wire-level kind string.
func ParseAction(kind string, quantity int) (Action, error) {
	switch ActionKind(kind) {
	case ActionIssue:
		return Issue{Quantity: quantity}, nil
	case ActionProduce:
		return Produce{Quantity: quantity}, nil
	case ActionAlteration:
		return Alteration{Quantity: quantity}, nil
	case ActionQC:
		return QC{Quantity: quantity}, nil
	case ActionPack:
		return Pack{Quantity: quantity}, nil
	default:
		return nil, fmt.Errorf("%w: unknown action %q", ErrValidation, kind)
	}
}
