package services

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"

	"github.com/buildsign/buildsign-api/internal/config"
	"github.com/buildsign/buildsign-api/internal/models"
	"github.com/buildsign/buildsign-api/pkg/logger"
	"github.com/resend/resend-go/v2"
)

//go:embed templates/email/*.html
var emailTemplates embed.FS

type EmailService struct {
	config       *config.Config
	resendClient *resend.Client
}

func NewEmailService(cfg *config.Config) *EmailService {
	client := resend.NewClient(cfg.ResendAPIKey)
	return &EmailService{
		config:       cfg,
		resendClient: client,
	}
}

// SendShareLink emails the client their signing link. The full token only
// ever travels in this email and in the resulting HTTPS requests.
func (s *EmailService) SendShareLink(ctx context.Context, contract *models.Contract, shareURL string, expiresHours int) error {
	if s.config.ResendAPIKey == "" {
		logger.Warn(fmt.Sprintf("Email disabled, share link for contract %s not sent", contract.ContractNumber))
		return nil
	}

	data := struct {
		ClientName     string
		ContractorName string
		ContractNumber string
		ScopeOfWork    string
		TotalAmount    string
		ShareURL       string
		ExpiresHours   int
	}{
		ClientName:     contract.ClientName,
		ContractorName: contract.ContractorName,
		ContractNumber: contract.ContractNumber,
		ScopeOfWork:    contract.ScopeOfWork,
		TotalAmount:    fmt.Sprintf("$%.2f", contract.TotalAmount),
		ShareURL:       shareURL,
		ExpiresHours:   expiresHours,
	}

	body, err := s.renderTemplate("contract_sent.html", data)
	if err != nil {
		return err
	}

	params := &resend.SendEmailRequest{
		From:    s.config.FromEmail,
		To:      []string{contract.ClientEmail},
		Subject: fmt.Sprintf("Contract %s is ready for your review", contract.ContractNumber),
		Html:    body,
	}
	_, err = s.resendClient.Emails.Send(params)
	if err != nil {
		logger.Error(fmt.Sprintf("Failed to send email to %s: %v", contract.ClientEmail, err))
		return err
	}

	logger.Info(fmt.Sprintf("📧 [Email Sent] To: %s | Contract: %s", models.MaskEmail(contract.ClientEmail), contract.ContractNumber))
	return nil
}

// SendSignedNotice tells the owner the client has signed.
func (s *EmailService) SendSignedNotice(ctx context.Context, owner *models.User, contract *models.Contract) error {
	if s.config.ResendAPIKey == "" {
		logger.Warn(fmt.Sprintf("Email disabled, signed notice for contract %s not sent", contract.ContractNumber))
		return nil
	}

	needsCounterSign := contract.Status == models.ContractStatusPendingContractor

	data := struct {
		OwnerName        string
		ClientName       string
		ContractNumber   string
		SignedAt         string
		NeedsCounterSign bool
		AppURL           string
	}{
		OwnerName:        owner.FullName,
		ClientName:       contract.ClientName,
		ContractNumber:   contract.ContractNumber,
		SignedAt:         contract.ClientSignedAt.Format("01/02/2006 15:04"),
		NeedsCounterSign: needsCounterSign,
		AppURL:           s.config.AppURL,
	}

	body, err := s.renderTemplate("contract_signed.html", data)
	if err != nil {
		return err
	}

	subject := fmt.Sprintf("Contract %s has been signed", contract.ContractNumber)
	if needsCounterSign {
		subject = fmt.Sprintf("Contract %s signed, your countersignature is needed", contract.ContractNumber)
	}

	params := &resend.SendEmailRequest{
		From:    s.config.FromEmail,
		To:      []string{owner.Email},
		Subject: subject,
		Html:    body,
	}
	_, err = s.resendClient.Emails.Send(params)
	if err != nil {
		logger.Error(fmt.Sprintf("Failed to send email to %s: %v", owner.Email, err))
		return err
	}

	logger.Info(fmt.Sprintf("📧 [Email Sent] To: %s | Contract: %s signed", owner.Email, contract.ContractNumber))
	return nil
}

func (s *EmailService) renderTemplate(name string, data interface{}) (string, error) {
	tmpl, err := template.ParseFS(emailTemplates, "templates/email/"+name)
	if err != nil {
		return "", fmt.Errorf("failed to parse template %s: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template %s: %w", name, err)
	}

	return buf.String(), nil
}
