package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"luxbyte/internal/domain"
	"luxbyte/internal/port"
)

type slotRepo struct {
	db *sqlx.DB
}

// NewSlotRepo creates a new PostgreSQL-backed SlotRepository.
func NewSlotRepo(db *sqlx.DB) port.SlotRepository {
	return &slotRepo{db: db}
}

func (r *slotRepo) Ensure(ctx context.Context, slots []domain.UploadSlot) error {
	if len(slots) == 0 {
		return nil
	}
	now := time.Now().UTC()

	// ON CONFLICT DO NOTHING makes re-rendering a registration's slots a
	// no-op, so slot rows are never duplicated.
	query := `INSERT INTO upload_slots
		(id, registration_id, requirement_id, mandatory, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $6)
		ON CONFLICT (registration_id, requirement_id) DO NOTHING`

	for i := range slots {
		s := &slots[i]
		if s.ID == uuid.Nil {
			s.ID = uuid.New()
		}
		if s.Status == "" {
			s.Status = domain.SlotStatusEmpty
		}
		if _, err := r.db.ExecContext(ctx, query,
			s.ID, s.RegistrationID, s.RequirementID, s.Mandatory, s.Status, now); err != nil {
			return fmt.Errorf("slotRepo.Ensure: %w", err)
		}
	}
	return nil
}

func (r *slotRepo) Get(ctx context.Context, registrationID uuid.UUID, requirementID string) (*domain.UploadSlot, error) {
	var slot domain.UploadSlot
	err := r.db.GetContext(ctx, &slot,
		"SELECT * FROM upload_slots WHERE registration_id = $1 AND requirement_id = $2",
		registrationID, requirementID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("slotRepo.Get: %w", err)
	}
	return &slot, nil
}

func (r *slotRepo) ListByRegistration(ctx context.Context, registrationID uuid.UUID) ([]domain.UploadSlot, error) {
	var slots []domain.UploadSlot
	err := r.db.SelectContext(ctx, &slots,
		"SELECT * FROM upload_slots WHERE registration_id = $1 ORDER BY created_at ASC",
		registrationID)
	if err != nil {
		return nil, fmt.Errorf("slotRepo.ListByRegistration: %w", err)
	}
	return slots, nil
}

// MarkValidating claims the slot for one in-flight operation. The conditional
// UPDATE is the single-flight guard: a slot already validating or uploading
// stays claimed, a slot already uploaded must be reset first.
func (r *slotRepo) MarkValidating(ctx context.Context, registrationID uuid.UUID, requirementID string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE upload_slots
		 SET status = $1, error_reason = '', error_message = '', updated_at = $2
		 WHERE registration_id = $3 AND requirement_id = $4 AND status IN ($5, $6)`,
		domain.SlotStatusValidating, time.Now().UTC(), registrationID, requirementID,
		domain.SlotStatusEmpty, domain.SlotStatusFailed)
	if err != nil {
		return fmt.Errorf("slotRepo.MarkValidating: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows > 0 {
		return nil
	}

	slot, getErr := r.Get(ctx, registrationID, requirementID)
	if getErr != nil {
		return getErr
	}
	if slot.Status == domain.SlotStatusUploaded {
		return domain.ErrSlotNotEmpty
	}
	return domain.ErrSlotBusy
}

// MarkUploading advances a claimed slot from validating to uploading.
func (r *slotRepo) MarkUploading(ctx context.Context, registrationID uuid.UUID, requirementID string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE upload_slots
		 SET status = $1, updated_at = $2
		 WHERE registration_id = $3 AND requirement_id = $4 AND status = $5`,
		domain.SlotStatusUploading, time.Now().UTC(), registrationID, requirementID,
		domain.SlotStatusValidating)
	if err != nil {
		return fmt.Errorf("slotRepo.MarkUploading: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *slotRepo) MarkUploaded(ctx context.Context, registrationID uuid.UUID, requirementID string, docID uuid.UUID, remoteKey, remoteURL string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE upload_slots
		 SET status = $1, document_id = $2, remote_key = $3, remote_url = $4,
		     error_reason = '', error_message = '', updated_at = $5
		 WHERE registration_id = $6 AND requirement_id = $7`,
		domain.SlotStatusUploaded, docID, remoteKey, remoteURL, time.Now().UTC(),
		registrationID, requirementID)
	if err != nil {
		return fmt.Errorf("slotRepo.MarkUploaded: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *slotRepo) MarkFailed(ctx context.Context, registrationID uuid.UUID, requirementID string, reason, message string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE upload_slots
		 SET status = $1, error_reason = $2, error_message = $3, updated_at = $4
		 WHERE registration_id = $5 AND requirement_id = $6`,
		domain.SlotStatusFailed, reason, message, time.Now().UTC(),
		registrationID, requirementID)
	if err != nil {
		return fmt.Errorf("slotRepo.MarkFailed: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *slotRepo) Reset(ctx context.Context, registrationID uuid.UUID, requirementID string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE upload_slots
		 SET status = $1, document_id = NULL, remote_key = '', remote_url = '',
		     error_reason = '', error_message = '', updated_at = $2
		 WHERE registration_id = $3 AND requirement_id = $4`,
		domain.SlotStatusEmpty, time.Now().UTC(), registrationID, requirementID)
	if err != nil {
		return fmt.Errorf("slotRepo.Reset: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *slotRepo) FailStuck(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE upload_slots
		 SET status = $1, error_reason = $2, error_message = 'upload did not settle in time', updated_at = $3
		 WHERE status IN ($4, $5) AND updated_at < $6`,
		domain.SlotStatusFailed, domain.FailReasonTimeout, time.Now().UTC(),
		domain.SlotStatusValidating, domain.SlotStatusUploading, cutoff.UTC())
	if err != nil {
		return 0, fmt.Errorf("slotRepo.FailStuck: %w", err)
	}
	rows, _ := result.RowsAffected()
	return rows, nil
}
