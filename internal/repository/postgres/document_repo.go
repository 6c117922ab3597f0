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

type documentRepo struct {
	db *sqlx.DB
}

// NewDocumentRepo creates a new PostgreSQL-backed DocumentRepository.
func NewDocumentRepo(db *sqlx.DB) port.DocumentRepository {
	return &documentRepo{db: db}
}

func (r *documentRepo) Create(ctx context.Context, doc *domain.DocumentRecord) error {
	now := time.Now().UTC()
	doc.CreatedAt = now
	doc.UpdatedAt = now

	query := `INSERT INTO documents
		(id, registration_id, owner_id, requirement_id, bucket, object_key, public_url,
		 original_name, file_type, file_size, content_type, status, uploaded_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`

	_, err := r.db.ExecContext(ctx, query,
		doc.ID, doc.RegistrationID, doc.OwnerID, doc.RequirementID, doc.Bucket,
		doc.ObjectKey, doc.PublicURL, doc.OriginalName, doc.FileType, doc.FileSize,
		doc.ContentType, doc.Status, doc.UploadedAt, doc.CreatedAt, doc.UpdatedAt)
	if err != nil {
		return fmt.Errorf("documentRepo.Create: %w", err)
	}
	return nil
}

func (r *documentRepo) GetByID(ctx context.Context, registrationID, docID uuid.UUID) (*domain.DocumentRecord, error) {
	var doc domain.DocumentRecord
	err := r.db.GetContext(ctx, &doc,
		"SELECT * FROM documents WHERE id = $1 AND registration_id = $2", docID, registrationID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("documentRepo.GetByID: %w", err)
	}
	return &doc, nil
}

func (r *documentRepo) ListByRegistration(ctx context.Context, registrationID uuid.UUID) ([]domain.DocumentRecord, error) {
	var docs []domain.DocumentRecord
	err := r.db.SelectContext(ctx, &docs,
		`SELECT * FROM documents
		 WHERE registration_id = $1 AND status != $2
		 ORDER BY uploaded_at DESC`,
		registrationID, domain.DocumentStatusDeleted)
	if err != nil {
		return nil, fmt.Errorf("documentRepo.ListByRegistration: %w", err)
	}
	return docs, nil
}

func (r *documentRepo) UpdateStatus(ctx context.Context, registrationID, docID uuid.UUID, status domain.DocumentStatus) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE documents SET status = $1, updated_at = $2 WHERE id = $3 AND registration_id = $4",
		status, time.Now().UTC(), docID, registrationID)
	if err != nil {
		return fmt.Errorf("documentRepo.UpdateStatus: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
