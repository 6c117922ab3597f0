package service

import (
	"bytes"
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"luxbyte/internal/domain"
	"luxbyte/internal/manifest"
	"luxbyte/internal/port"
)

const exportSheet = "Registrations"

// exportPageSize bounds one repository page while streaming rows into the
// workbook.
const exportPageSize = 200

// ExportService produces an XLSX workbook of registrations and their
// document-checklist progress for offline review.
type ExportService interface {
	RegistrationsXLSX(ctx context.Context, status domain.RegistrationStatus) ([]byte, error)
}

type exportService struct {
	regRepo   port.RegistrationRepository
	slotRepo  port.SlotRepository
	userRepo  port.UserRepository
	registry  *manifest.Registry
	checklist ChecklistService
}

// NewExportService creates an ExportService.
func NewExportService(
	regRepo port.RegistrationRepository,
	slotRepo port.SlotRepository,
	userRepo port.UserRepository,
	registry *manifest.Registry,
	checklist ChecklistService,
) ExportService {
	return &exportService{
		regRepo:   regRepo,
		slotRepo:  slotRepo,
		userRepo:  userRepo,
		registry:  registry,
		checklist: checklist,
	}
}

func (s *exportService) RegistrationsXLSX(ctx context.Context, status domain.RegistrationStatus) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return nil, fmt.Errorf("export: rename sheet: %w", err)
	}

	header := []interface{}{
		"Registration ID", "Business", "Activity", "Status",
		"Applicant", "Email", "Submitted At",
		"Required Uploaded", "Required Total", "Completion %",
	}
	if err := f.SetSheetRow(exportSheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("export: write header: %w", err)
	}

	row := 2
	for offset := 0; ; offset += exportPageSize {
		regs, total, err := s.regRepo.ListByStatus(ctx, status, offset, exportPageSize)
		if err != nil {
			return nil, err
		}
		for i := range regs {
			if err := s.writeRow(ctx, f, row, &regs[i]); err != nil {
				return nil, err
			}
			row++
		}
		if offset+len(regs) >= total || len(regs) == 0 {
			break
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("export: serialize workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func (s *exportService) writeRow(ctx context.Context, f *excelize.File, row int, reg *domain.Registration) error {
	owner, err := s.userRepo.GetByID(ctx, reg.UserID)
	if err != nil {
		return err
	}
	// The export runs with admin scope.
	cl, err := s.checklist.Get(ctx, reg.UserID, domain.RoleAdmin, reg.ID)
	if err != nil {
		return err
	}

	uploaded := 0
	for i := range cl.Required {
		if cl.Required[i].Status == domain.SlotStatusUploaded {
			uploaded++
		}
	}

	submittedAt := ""
	if reg.SubmittedAt != nil {
		submittedAt = reg.SubmittedAt.UTC().Format("2006-01-02 15:04:05")
	}

	cells := []interface{}{
		reg.ID.String(), reg.BusinessName, string(reg.Activity), string(reg.Status),
		owner.FullName, owner.Email, submittedAt,
		uploaded, len(cl.Required), cl.CompletionPercentage(),
	}
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("export: cell name: %w", err)
	}
	if err := f.SetSheetRow(exportSheet, cell, &cells); err != nil {
		return fmt.Errorf("export: write row %d: %w", row, err)
	}
	return nil
}
