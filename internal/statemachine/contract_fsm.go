package statemachine

import (
	"context"
	"fmt"

	"github.com/buildsign/buildsign-api/internal/models"
	"github.com/looplab/fsm"
)

// Event names
const (
	EventSend        = "send"
	EventResend      = "resend"
	EventView        = "view"
	EventSign        = "sign"
	EventSignPending = "sign_pending"
	EventCounterSign = "countersign"
)

// ContractFSM wraps a contract with its lifecycle state machine
type ContractFSM struct {
	contract *models.Contract
	fsm      *fsm.FSM
}

// NewContractFSM creates a new contract state machine
func NewContractFSM(contract *models.Contract) *ContractFSM {
	cfsm := &ContractFSM{
		contract: contract,
	}

	cfsm.fsm = fsm.NewFSM(
		contract.Status,
		fsm.Events{
			// draft → sent
			{Name: EventSend, Src: []string{models.ContractStatusDraft}, Dst: models.ContractStatusSent},

			// draft/sent/viewed → sent (new share link, old token invalidated)
			{Name: EventResend, Src: []string{models.ContractStatusDraft, models.ContractStatusSent, models.ContractStatusViewed}, Dst: models.ContractStatusSent},

			// sent → viewed (first link open only; later opens are no-ops)
			{Name: EventView, Src: []string{models.ContractStatusSent}, Dst: models.ContractStatusViewed},

			// viewed → signed (contractor already countersigned)
			{Name: EventSign, Src: []string{models.ContractStatusViewed}, Dst: models.ContractStatusSigned},

			// viewed → pending_contractor (contractor signature still missing)
			{Name: EventSignPending, Src: []string{models.ContractStatusViewed}, Dst: models.ContractStatusPendingContractor},

			// pending_contractor → signed
			{Name: EventCounterSign, Src: []string{models.ContractStatusPendingContractor}, Dst: models.ContractStatusSigned},
		},
		fsm.Callbacks{},
	)

	return cfsm
}

// Send transitions the contract to sent for the first time
func (c *ContractFSM) Send(ctx context.Context) error {
	if !c.contract.MaySend() {
		return fmt.Errorf("contract cannot be sent in current state: %s", c.contract.Status)
	}

	if err := c.fsm.Event(ctx, EventSend); err != nil {
		return fmt.Errorf("failed to send contract: %w", err)
	}

	c.contract.Status = c.fsm.Current()
	return nil
}

// Resend re-issues the share link, returning the contract to sent
func (c *ContractFSM) Resend(ctx context.Context) error {
	if !c.contract.MayResend() {
		return fmt.Errorf("contract cannot be re-sent in current state: %s", c.contract.Status)
	}

	if err := c.fsm.Event(ctx, EventResend); err != nil {
		return fmt.Errorf("failed to re-send contract: %w", err)
	}

	c.contract.Status = c.fsm.Current()
	return nil
}

// View transitions the contract to viewed on the first link open
func (c *ContractFSM) View(ctx context.Context) error {
	if !c.contract.MayView() {
		return fmt.Errorf("contract cannot be marked viewed in current state: %s", c.contract.Status)
	}

	if err := c.fsm.Event(ctx, EventView); err != nil {
		return fmt.Errorf("failed to mark contract viewed: %w", err)
	}

	c.contract.Status = c.fsm.Current()
	return nil
}

// Sign applies the client signature transition. The destination depends on
// whether the contractor has already countersigned: signed when present,
// pending_contractor otherwise.
func (c *ContractFSM) Sign(ctx context.Context) error {
	if !c.contract.MaySign() {
		return fmt.Errorf("contract cannot be signed in current state: %s", c.contract.Status)
	}

	event := EventSignPending
	if c.contract.ContractorSignature != nil {
		event = EventSign
	}

	if err := c.fsm.Event(ctx, event); err != nil {
		return fmt.Errorf("failed to sign contract: %w", err)
	}

	c.contract.Status = c.fsm.Current()
	return nil
}

// CounterSign completes a contract the client signed first
func (c *ContractFSM) CounterSign(ctx context.Context) error {
	if !c.contract.MayCounterSign() {
		return fmt.Errorf("contract cannot be countersigned in current state: %s", c.contract.Status)
	}

	if err := c.fsm.Event(ctx, EventCounterSign); err != nil {
		return fmt.Errorf("failed to countersign contract: %w", err)
	}

	c.contract.Status = c.fsm.Current()
	return nil
}

// Current returns the current state
func (c *ContractFSM) Current() string {
	return c.fsm.Current()
}

// Can checks if a transition is possible
func (c *ContractFSM) Can(event string) bool {
	return c.fsm.Can(event)
}
