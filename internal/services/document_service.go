package services

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/buildsign/buildsign-api/internal/models"
	"github.com/jung-kurt/gofpdf"
)

// DocumentService renders a contract to PDF. The same renderer serves the
// owner download and the client download through the share link, with the
// redaction decided by the caller-supplied snapshot.
type DocumentService struct{}

func NewDocumentService() *DocumentService {
	return &DocumentService{}
}

// ContractPDF renders the full contract document for the owner.
func (s *DocumentService) ContractPDF(ctx context.Context, contract *models.Contract) ([]byte, string, error) {
	return s.renderPDF(contract, contract.ClientEmail, contract.ClientPhone)
}

// ClientContractPDF renders the contract for the external client with the
// client's own contact details masked, matching the share-link view.
func (s *DocumentService) ClientContractPDF(ctx context.Context, contract *models.Contract) ([]byte, string, error) {
	return s.renderPDF(contract, models.MaskEmail(contract.ClientEmail), models.MaskPhone(contract.ClientPhone))
}

func (s *DocumentService) renderPDF(contract *models.Contract, clientEmail, clientPhone string) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	// Title
	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(190, 10, "Construction Contract")
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(190, 6, fmt.Sprintf("Contract No: %s", contract.ContractNumber))
	pdf.Ln(10)

	// Parties
	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(190, 8, "Parties")
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 10)
	s.field(pdf, "Contractor", contract.ContractorName)
	s.field(pdf, "Contractor Address", contract.ContractorAddress)
	s.field(pdf, "Contractor Phone", contract.ContractorPhone)
	s.field(pdf, "Contractor Email", contract.ContractorEmail)
	s.field(pdf, "License No", contract.ContractorLicense)
	pdf.Ln(2)
	s.field(pdf, "Client", contract.ClientName)
	s.field(pdf, "Client Phone", clientPhone)
	s.field(pdf, "Client Email", clientEmail)
	pdf.Ln(4)

	// Scope and terms
	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(190, 8, "Scope of Work")
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 10)
	pdf.MultiCell(190, 5, contract.ScopeOfWork, "", "L", false)
	pdf.Ln(4)

	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(190, 8, "Financial Terms")
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 10)
	s.field(pdf, "Total Amount", fmt.Sprintf("$%.2f", contract.TotalAmount))
	s.field(pdf, "Deposit", fmt.Sprintf("$%.2f (%.1f%%)", contract.DepositAmount, contract.DepositPercentage))
	if contract.PaymentSchedule != "" {
		pdf.Cell(50, 5, "Payment Schedule:")
		pdf.Ln(5)
		pdf.MultiCell(190, 5, contract.PaymentSchedule, "", "L", false)
	}
	pdf.Ln(2)

	if contract.StartDate != nil {
		s.field(pdf, "Start Date", contract.StartDate.Format("01/02/2006"))
	}
	if contract.EndDate != nil {
		s.field(pdf, "Completion Date", contract.EndDate.Format("01/02/2006"))
	}
	pdf.Ln(4)

	// Clauses
	s.clause(pdf, "Warranty", contract.Warranty)
	s.clause(pdf, "Change Orders", contract.ChangeOrderClause)
	s.clause(pdf, "Cancellation", contract.CancellationClause)
	s.clause(pdf, "Dispute Resolution", contract.DisputeClause)

	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(190, 8, "Insurance")
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 10)
	s.field(pdf, "Liability Insurance", yesNo(contract.LiabilityInsurance))
	s.field(pdf, "Workers Compensation", yesNo(contract.WorkersComp))
	pdf.Ln(6)

	// Signatures
	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(190, 8, "Signatures")
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 10)
	if contract.ContractorSignature != nil {
		s.field(pdf, "Contractor", "Signed")
	} else {
		s.field(pdf, "Contractor", "Not yet signed")
	}
	if contract.ClientSignature != nil && contract.ClientSignedAt != nil {
		s.field(pdf, "Client", fmt.Sprintf("Signed on %s", contract.ClientSignedAt.Format("01/02/2006 15:04")))
	} else {
		s.field(pdf, "Client", "Not yet signed")
	}

	pdf.Ln(8)
	pdf.SetFont("Arial", "I", 8)
	pdf.Cell(190, 5, fmt.Sprintf("Generated on %s", time.Now().Format("01/02/2006 15:04")))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", fmt.Errorf("failed to generate contract PDF: %w", err)
	}

	filename := fmt.Sprintf("contract_%s.pdf", contract.ContractNumber)
	return buf.Bytes(), filename, nil
}

func (s *DocumentService) field(pdf *gofpdf.Fpdf, label, value string) {
	if value == "" {
		return
	}
	pdf.Cell(50, 5, label+":")
	pdf.Cell(140, 5, value)
	pdf.Ln(5)
}

func (s *DocumentService) clause(pdf *gofpdf.Fpdf, title, body string) {
	if body == "" {
		return
	}
	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(190, 8, title)
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 10)
	pdf.MultiCell(190, 5, body, "", "L", false)
	pdf.Ln(4)
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
