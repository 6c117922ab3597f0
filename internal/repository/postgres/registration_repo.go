package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"luxbyte/internal/domain"
	"luxbyte/internal/port"
)

type registrationRepo struct {
	db *sqlx.DB
}

// NewRegistrationRepo creates a new PostgreSQL-backed RegistrationRepository.
func NewRegistrationRepo(db *sqlx.DB) port.RegistrationRepository {
	return &registrationRepo{db: db}
}

func (r *registrationRepo) Create(ctx context.Context, reg *domain.Registration) error {
	reg.ID = uuid.New()
	now := time.Now().UTC()
	reg.CreatedAt = now
	reg.UpdatedAt = now

	query := `INSERT INTO registrations (id, user_id, activity, business_name, status, reviewer_notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.db.ExecContext(ctx, query,
		reg.ID, reg.UserID, reg.Activity, reg.BusinessName, reg.Status,
		reg.ReviewerNotes, reg.CreatedAt, reg.UpdatedAt)
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return domain.ErrDuplicateActivity
		}
		return fmt.Errorf("registrationRepo.Create: %w", err)
	}
	return nil
}

func (r *registrationRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Registration, error) {
	var reg domain.Registration
	err := r.db.GetContext(ctx, &reg, "SELECT * FROM registrations WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("registrationRepo.GetByID: %w", err)
	}
	return &reg, nil
}

func (r *registrationRepo) GetByUserAndActivity(ctx context.Context, userID uuid.UUID, activity domain.ActivityType) (*domain.Registration, error) {
	var reg domain.Registration
	err := r.db.GetContext(ctx, &reg,
		"SELECT * FROM registrations WHERE user_id = $1 AND activity = $2", userID, activity)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("registrationRepo.GetByUserAndActivity: %w", err)
	}
	return &reg, nil
}

func (r *registrationRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Registration, error) {
	var regs []domain.Registration
	err := r.db.SelectContext(ctx, &regs,
		"SELECT * FROM registrations WHERE user_id = $1 ORDER BY created_at DESC", userID)
	if err != nil {
		return nil, fmt.Errorf("registrationRepo.ListByUser: %w", err)
	}
	return regs, nil
}

func (r *registrationRepo) ListByStatus(ctx context.Context, status domain.RegistrationStatus, offset, limit int) ([]domain.Registration, int, error) {
	var total int
	err := r.db.GetContext(ctx, &total,
		"SELECT COUNT(*) FROM registrations WHERE status = $1", status)
	if err != nil {
		return nil, 0, fmt.Errorf("registrationRepo.ListByStatus count: %w", err)
	}

	var regs []domain.Registration
	err = r.db.SelectContext(ctx, &regs,
		`SELECT * FROM registrations WHERE status = $1
		 ORDER BY submitted_at ASC NULLS LAST, created_at ASC LIMIT $2 OFFSET $3`,
		status, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("registrationRepo.ListByStatus: %w", err)
	}
	return regs, total, nil
}

func (r *registrationRepo) MarkSubmitted(ctx context.Context, id uuid.UUID, at time.Time) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE registrations SET status = $1, submitted_at = $2, updated_at = $2
		 WHERE id = $3 AND status = $4`,
		domain.RegistrationStatusSubmitted, at.UTC(), id, domain.RegistrationStatusDraft)
	if err != nil {
		return fmt.Errorf("registrationRepo.MarkSubmitted: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrRegistrationNotDraft
	}
	return nil
}

func (r *registrationRepo) Review(ctx context.Context, id uuid.UUID, status domain.RegistrationStatus, reviewer uuid.UUID, notes string) error {
	now := time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`UPDATE registrations SET status = $1, reviewed_by = $2, reviewed_at = $3, reviewer_notes = $4, updated_at = $3
		 WHERE id = $5 AND status = $6`,
		status, reviewer, now, notes, id, domain.RegistrationStatusSubmitted)
	if err != nil {
		return fmt.Errorf("registrationRepo.Review: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
