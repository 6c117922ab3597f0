package port

import (
	"context"
	"time"

	"github.com/google/uuid"

	"luxbyte/internal/domain"
)

// UserRepository defines the contract for user persistence.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
}

// RegistrationRepository defines the contract for registration persistence.
type RegistrationRepository interface {
	Create(ctx context.Context, reg *domain.Registration) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Registration, error)
	GetByUserAndActivity(ctx context.Context, userID uuid.UUID, activity domain.ActivityType) (*domain.Registration, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Registration, error)
	ListByStatus(ctx context.Context, status domain.RegistrationStatus, offset, limit int) ([]domain.Registration, int, error)
	MarkSubmitted(ctx context.Context, id uuid.UUID, at time.Time) error
	Review(ctx context.Context, id uuid.UUID, status domain.RegistrationStatus, reviewer uuid.UUID, notes string) error
}

// SlotRepository defines the contract for upload-slot persistence. Status
// transitions are conditional updates so that single-flight per slot is
// enforced at the data layer, not just in memory.
type SlotRepository interface {
	// Ensure inserts the given slots, skipping any that already exist for
	// their (registration, requirement) pair. Calling it repeatedly with the
	// same manifest is a no-op.
	Ensure(ctx context.Context, slots []domain.UploadSlot) error
	Get(ctx context.Context, registrationID uuid.UUID, requirementID string) (*domain.UploadSlot, error)
	ListByRegistration(ctx context.Context, registrationID uuid.UUID) ([]domain.UploadSlot, error)
	// MarkValidating claims the slot, transitioning empty or failed to
	// validating. Returns domain.ErrSlotBusy when an operation is already in
	// flight and domain.ErrSlotNotEmpty when the slot already holds an upload.
	MarkValidating(ctx context.Context, registrationID uuid.UUID, requirementID string) error
	// MarkUploading advances a claimed slot from validating to uploading.
	MarkUploading(ctx context.Context, registrationID uuid.UUID, requirementID string) error
	MarkUploaded(ctx context.Context, registrationID uuid.UUID, requirementID string, docID uuid.UUID, remoteKey, remoteURL string) error
	MarkFailed(ctx context.Context, registrationID uuid.UUID, requirementID string, reason, message string) error
	// Reset returns a slot to empty and detaches its document reference.
	Reset(ctx context.Context, registrationID uuid.UUID, requirementID string) error
	// FailStuck forces slots stuck in flight since before the cutoff into
	// failed. Returns the number of slots transitioned.
	FailStuck(ctx context.Context, cutoff time.Time) (int64, error)
}

// DocumentRepository defines the contract for document-metadata persistence.
type DocumentRepository interface {
	Create(ctx context.Context, doc *domain.DocumentRecord) error
	GetByID(ctx context.Context, registrationID, docID uuid.UUID) (*domain.DocumentRecord, error)
	ListByRegistration(ctx context.Context, registrationID uuid.UUID) ([]domain.DocumentRecord, error)
	UpdateStatus(ctx context.Context, registrationID, docID uuid.UUID, status domain.DocumentStatus) error
}
