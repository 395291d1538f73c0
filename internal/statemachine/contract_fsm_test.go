package statemachine

import (
	"context"
	"testing"

	"github.com/buildsign/buildsign-api/internal/models"
	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }

func TestSendTransitions(t *testing.T) {
	tests := []struct {
		name        string
		status      string
		expectError bool
		expected    string
	}{
		{name: "draft can be sent", status: models.ContractStatusDraft, expected: models.ContractStatusSent},
		{name: "sent cannot be sent again", status: models.ContractStatusSent, expectError: true},
		{name: "signed cannot be sent", status: models.ContractStatusSigned, expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			contract := &models.Contract{Status: tt.status}
			err := NewContractFSM(contract).Send(context.Background())
			if tt.expectError {
				assert.Error(t, err)
				assert.Equal(t, tt.status, contract.Status)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expected, contract.Status)
			}
		})
	}
}

func TestResendTransitions(t *testing.T) {
	tests := []struct {
		name        string
		status      string
		expectError bool
	}{
		{name: "draft", status: models.ContractStatusDraft},
		{name: "sent", status: models.ContractStatusSent},
		{name: "viewed", status: models.ContractStatusViewed},
		{name: "signed is terminal", status: models.ContractStatusSigned, expectError: true},
		{name: "pending_contractor is terminal", status: models.ContractStatusPendingContractor, expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			contract := &models.Contract{Status: tt.status}
			err := NewContractFSM(contract).Resend(context.Background())
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, models.ContractStatusSent, contract.Status)
			}
		})
	}
}

func TestViewTransitions(t *testing.T) {
	contract := &models.Contract{Status: models.ContractStatusSent}
	assert.NoError(t, NewContractFSM(contract).View(context.Background()))
	assert.Equal(t, models.ContractStatusViewed, contract.Status)

	// Already viewed: the guard rejects, the service treats it as a repeat view
	assert.Error(t, NewContractFSM(contract).View(context.Background()))
	assert.Equal(t, models.ContractStatusViewed, contract.Status)
}

func TestSignBranchesOnContractorSignature(t *testing.T) {
	tests := []struct {
		name                string
		contractorSignature *string
		expected            string
	}{
		{name: "countersigned contract lands in signed", contractorSignature: strPtr("sig"), expected: models.ContractStatusSigned},
		{name: "uncountersigned contract awaits contractor", contractorSignature: nil, expected: models.ContractStatusPendingContractor},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			contract := &models.Contract{
				Status:              models.ContractStatusViewed,
				ContractorSignature: tt.contractorSignature,
			}
			assert.NoError(t, NewContractFSM(contract).Sign(context.Background()))
			assert.Equal(t, tt.expected, contract.Status)
		})
	}
}

func TestSignRejectedOutsideViewed(t *testing.T) {
	for _, status := range []string{
		models.ContractStatusDraft,
		models.ContractStatusSent,
		models.ContractStatusSigned,
		models.ContractStatusPendingContractor,
	} {
		contract := &models.Contract{Status: status}
		assert.Error(t, NewContractFSM(contract).Sign(context.Background()), "status %s", status)
		assert.Equal(t, status, contract.Status)
	}
}

func TestCounterSign(t *testing.T) {
	contract := &models.Contract{Status: models.ContractStatusPendingContractor}
	assert.NoError(t, NewContractFSM(contract).CounterSign(context.Background()))
	assert.Equal(t, models.ContractStatusSigned, contract.Status)

	assert.Error(t, NewContractFSM(contract).CounterSign(context.Background()))
}
