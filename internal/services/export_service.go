package services

import (
	"context"
	"fmt"
	"time"

	"github.com/buildsign/buildsign-api/internal/repository"
	"github.com/xuri/excelize/v2"
)

// ExportService generates the owner's contracts spreadsheet
type ExportService struct {
	contractRepo repository.ContractRepository
}

func NewExportService(contractRepo repository.ContractRepository) *ExportService {
	return &ExportService{contractRepo: contractRepo}
}

// ContractsXLSX exports all of an owner's contracts to an Excel workbook.
func (s *ExportService) ContractsXLSX(ctx context.Context, ownerID uint, status string) ([]byte, string, error) {
	query := &repository.ContractQuery{
		ListQuery: repository.NewListQuery(),
		OwnerID:   ownerID,
		Status:    status,
	}
	query.PerPage = 0 // no pagination for exports

	contracts, _, err := s.contractRepo.List(ctx, query)
	if err != nil {
		return nil, "", fmt.Errorf("failed to load contracts for export: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Contracts"
	f.SetSheetName("Sheet1", sheet)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"1D4ED8"}, Pattern: 1},
	})
	if err != nil {
		return nil, "", fmt.Errorf("failed to create header style: %w", err)
	}

	headers := []string{"Contract No", "Status", "Client", "Client Email", "Total Amount", "Deposit", "Sent At", "Viewed At", "Signed At", "Created At"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}
	f.SetCellStyle(sheet, "A1", "J1", headerStyle)

	for row, c := range contracts {
		r := row + 2
		f.SetCellValue(sheet, fmt.Sprintf("A%d", r), c.ContractNumber)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", r), c.Status)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", r), c.ClientName)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", r), c.ClientEmail)
		f.SetCellValue(sheet, fmt.Sprintf("E%d", r), c.TotalAmount)
		f.SetCellValue(sheet, fmt.Sprintf("F%d", r), c.DepositAmount)
		f.SetCellValue(sheet, fmt.Sprintf("G%d", r), formatTimePtr(c.SentToClientAt))
		f.SetCellValue(sheet, fmt.Sprintf("H%d", r), formatTimePtr(c.ClientViewedAt))
		f.SetCellValue(sheet, fmt.Sprintf("I%d", r), formatTimePtr(c.ClientSignedAt))
		f.SetCellValue(sheet, fmt.Sprintf("J%d", r), c.CreatedAt.Format("2006-01-02 15:04"))
	}

	f.SetColWidth(sheet, "A", "A", 18)
	f.SetColWidth(sheet, "C", "D", 25)
	f.SetColWidth(sheet, "G", "J", 18)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", fmt.Errorf("failed to write export buffer: %w", err)
	}

	filename := fmt.Sprintf("contracts_%s.xlsx", time.Now().Format("2006-01-02"))
	return buf.Bytes(), filename, nil
}

func formatTimePtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02 15:04")
}
