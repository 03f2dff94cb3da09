package statemachine

import (
	"context"
	"fmt"

	"github.com/avergara/mantencion-api/internal/models"
	"github.com/looplab/fsm"
)

// RequirementFSM wraps a requirement with its lifecycle state machine
type RequirementFSM struct {
	requirement *models.Requirement
	fsm         *fsm.FSM
}

// NewRequirementFSM creates a new requirement state machine
func NewRequirementFSM(req *models.Requirement) *RequirementFSM {
	rfsm := &RequirementFSM{
		requirement: req,
	}

	rfsm.fsm = fsm.NewFSM(
		req.Status,
		fsm.Events{
			// pendiente → en_ot
			{Name: "link_order", Src: []string{models.RequirementStatusPending}, Dst: models.RequirementStatusInOrder},

			// en_ot → pendiente
			{Name: "unlink_order", Src: []string{models.RequirementStatusInOrder}, Dst: models.RequirementStatusPending},

			// pendiente/en_ot → en_informe
			{Name: "link_report", Src: []string{models.RequirementStatusPending, models.RequirementStatusInOrder}, Dst: models.RequirementStatusInReport},

			// en_informe → pendiente
			{Name: "unlink_report", Src: []string{models.RequirementStatusInReport}, Dst: models.RequirementStatusPending},
		},
		fsm.Callbacks{},
	)

	return rfsm
}

// LinkOrder transitions the requirement into a work order
func (r *RequirementFSM) LinkOrder(ctx context.Context) error {
	if !r.requirement.MayEnterOrder() {
		return fmt.Errorf("el requerimiento %d no puede entrar a una OT en estado: %s", r.requirement.ID, r.requirement.Status)
	}

	if err := r.fsm.Event(ctx, "link_order"); err != nil {
		return fmt.Errorf("no se pudo vincular el requerimiento a la OT: %w", err)
	}

	r.requirement.Status = r.fsm.Current()
	return nil
}

// UnlinkOrder returns the requirement from a work order to pending
func (r *RequirementFSM) UnlinkOrder(ctx context.Context) error {
	if err := r.fsm.Event(ctx, "unlink_order"); err != nil {
		return fmt.Errorf("no se pudo desvincular el requerimiento de la OT: %w", err)
	}

	r.requirement.Status = r.fsm.Current()
	r.requirement.WorkOrderID = nil
	return nil
}

// LinkReport transitions the requirement into a payment report. A requirement
// belongs to at most one aggregate at a time, so any work order link is
// dropped here.
func (r *RequirementFSM) LinkReport(ctx context.Context) error {
	if !r.requirement.MayEnterReport() {
		if !r.requirement.HasReception() {
			return fmt.Errorf("el requerimiento %d no tiene fecha de recepción", r.requirement.ID)
		}
		return fmt.Errorf("el requerimiento %d ya pertenece a un informe de pago", r.requirement.ID)
	}

	if err := r.fsm.Event(ctx, "link_report"); err != nil {
		return fmt.Errorf("no se pudo vincular el requerimiento al informe: %w", err)
	}

	r.requirement.Status = r.fsm.Current()
	r.requirement.WorkOrderID = nil
	return nil
}

// UnlinkReport returns the requirement from a payment report to pending
func (r *RequirementFSM) UnlinkReport(ctx context.Context) error {
	if err := r.fsm.Event(ctx, "unlink_report"); err != nil {
		return fmt.Errorf("no se pudo desvincular el requerimiento del informe: %w", err)
	}

	r.requirement.Status = r.fsm.Current()
	r.requirement.PaymentReportID = nil
	return nil
}

// Current returns the current state
func (r *RequirementFSM) Current() string {
	return r.fsm.Current()
}

// Can checks if a transition is possible
func (r *RequirementFSM) Can(event string) bool {
	return r.fsm.Can(event)
}
