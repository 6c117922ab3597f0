package service

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	gonanoid "github.com/matoous/go-nanoid/v2"
	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"luxbyte/internal/config"
	"luxbyte/internal/domain"
	"luxbyte/internal/intake"
	"luxbyte/internal/manifest"
	"luxbyte/internal/port"
	"luxbyte/internal/validator"
	"luxbyte/pkg/logger"
	"luxbyte/pkg/retry"
)

// ProgressFunc receives slot status transitions as the pipeline advances.
// Callers use it to push per-slot progress to clients; it must not block.
type ProgressFunc func(registrationID uuid.UUID, requirementID string, status domain.SlotStatus)

// UploadService runs the document upload pipeline for one slot at a time:
// claim, validate, store the blob, persist metadata, settle the slot. Blob
// and metadata failures are reported distinctly so clients can retry just
// the half that failed.
type UploadService interface {
	// Upload pushes a file through the full pipeline. The returned slot
	// reflects the settled state even when the error is non-nil.
	Upload(ctx context.Context, userID, registrationID uuid.UUID, requirementID string, file *intake.RawFile) (*domain.UploadSlot, error)
	// RetryPersist re-attempts the metadata write for a slot whose blob was
	// stored but whose document record failed to persist. It never re-uploads.
	RetryPersist(ctx context.Context, userID, registrationID uuid.UUID, requirementID string) (*domain.UploadSlot, error)
	// Remove clears a slot without touching the stored blob; the document
	// record, if any, is marked orphaned.
	Remove(ctx context.Context, userID, registrationID uuid.UUID, requirementID string) error
	// Delete removes the stored blob, marks the document record deleted and
	// clears the slot.
	Delete(ctx context.Context, userID, registrationID uuid.UUID, requirementID string) error
	// DownloadURL returns a presigned URL for an uploaded document. URLs are
	// cached for less than their validity window.
	DownloadURL(ctx context.Context, actorID uuid.UUID, actorRole domain.UserRole, registrationID, docID uuid.UUID) (string, error)
	SetProgressFunc(fn ProgressFunc)
}

type uploadService struct {
	regRepo  port.RegistrationRepository
	slotRepo port.SlotRepository
	docRepo  port.DocumentRepository
	storage  port.ObjectStorage
	registry *manifest.Registry

	bucket        string
	presignExpiry int64
	urlCache      *gocache.Cache

	// pendingPersist holds document records whose blob landed in storage but
	// whose metadata insert failed, keyed by registration/requirement. A
	// RetryPersist for that slot re-inserts without re-uploading.
	mu             sync.Mutex
	pendingPersist map[string]*domain.DocumentRecord

	onProgress ProgressFunc
}

// NewUploadService creates the upload pipeline service.
func NewUploadService(
	regRepo port.RegistrationRepository,
	slotRepo port.SlotRepository,
	docRepo port.DocumentRepository,
	storage port.ObjectStorage,
	registry *manifest.Registry,
	s3cfg config.S3Config,
	upcfg config.UploadConfig,
) UploadService {
	return &uploadService{
		regRepo:        regRepo,
		slotRepo:       slotRepo,
		docRepo:        docRepo,
		storage:        storage,
		registry:       registry,
		bucket:         s3cfg.Bucket,
		presignExpiry:  upcfg.PresignExpiry,
		urlCache:       gocache.New(upcfg.URLCacheTTL, 10*time.Minute),
		pendingPersist: make(map[string]*domain.DocumentRecord),
	}
}

func (s *uploadService) SetProgressFunc(fn ProgressFunc) {
	s.onProgress = fn
}

func (s *uploadService) notify(registrationID uuid.UUID, requirementID string, status domain.SlotStatus) {
	if s.onProgress != nil {
		s.onProgress(registrationID, requirementID, status)
	}
}

func (s *uploadService) Upload(ctx context.Context, userID, registrationID uuid.UUID, requirementID string, file *intake.RawFile) (*domain.UploadSlot, error) {
	reg, m, err := s.ownedDraft(ctx, userID, registrationID)
	if err != nil {
		return nil, err
	}
	req := m.Lookup(requirementID)
	if req == nil {
		return nil, fmt.Errorf("%w: requirement %q not in %s manifest", domain.ErrNotFound, requirementID, reg.Activity)
	}

	if err := s.slotRepo.MarkValidating(ctx, registrationID, requirementID); err != nil {
		return nil, err
	}
	s.notify(registrationID, requirementID, domain.SlotStatusValidating)

	var cand *validator.Candidate
	if file != nil {
		cand = &validator.Candidate{Name: file.Name, Size: file.Size, Reader: file.Reader()}
	}
	res := validator.Validate(ctx, cand, *req)
	if !res.Valid {
		return s.failSlot(ctx, registrationID, requirementID, string(res.Reason), res.Message, res.Err())
	}

	if err := s.slotRepo.MarkUploading(ctx, registrationID, requirementID); err != nil {
		return nil, err
	}
	s.notify(registrationID, requirementID, domain.SlotStatusUploading)

	key, err := s.objectKey(req, reg.UserID, file.Name)
	if err != nil {
		return s.failSlot(ctx, registrationID, requirementID, domain.FailReasonStorage,
			"could not derive object key", fmt.Errorf("%w: %v", domain.ErrStorage, err))
	}
	contentType := file.ContentType
	fileType := fileTypeOf(file.Name)
	if contentType == "" {
		contentType = domain.AllowedFileTypes[fileType]
	}

	upErr := retry.Do(ctx, retry.StorageConfig(), "upload document object", func() error {
		// Fresh reader per attempt; a failed attempt may have consumed it.
		_, err := s.storage.Upload(ctx, port.UploadInput{
			Bucket:      s.bucket,
			Key:         key,
			Body:        file.Reader(),
			ContentType: contentType,
			Size:        file.Size,
		})
		return err
	})
	if upErr != nil {
		logger.Error("document blob upload failed",
			zap.String("registration_id", registrationID.String()),
			zap.String("requirement_id", requirementID),
			zap.Error(upErr))
		return s.failSlot(ctx, registrationID, requirementID, domain.FailReasonStorage,
			"the file could not be stored", fmt.Errorf("%w: %v", domain.ErrStorage, upErr))
	}

	doc := &domain.DocumentRecord{
		ID:             uuid.New(),
		RegistrationID: registrationID,
		OwnerID:        reg.UserID,
		RequirementID:  requirementID,
		Bucket:         s.bucket,
		ObjectKey:      key,
		PublicURL:      s.storage.PublicURL(s.bucket, key),
		OriginalName:   file.Name,
		FileType:       fileType,
		FileSize:       file.Size,
		ContentType:    contentType,
		Status:         domain.DocumentStatusStored,
		UploadedAt:     time.Now().UTC(),
	}
	if err := s.docRepo.Create(ctx, doc); err != nil {
		// The blob is in storage. Keep the prepared record so a retry can
		// persist it without a second upload.
		s.stashPending(registrationID, requirementID, doc)
		logger.Error("document metadata persist failed after blob upload",
			zap.String("registration_id", registrationID.String()),
			zap.String("requirement_id", requirementID),
			zap.String("object_key", key),
			zap.Error(err))
		return s.failSlot(ctx, registrationID, requirementID, domain.FailReasonPersistence,
			"the file was stored but could not be recorded", fmt.Errorf("%w: %v", domain.ErrPersistence, err))
	}

	if err := s.slotRepo.MarkUploaded(ctx, registrationID, requirementID, doc.ID, key, doc.PublicURL); err != nil {
		return nil, err
	}
	s.notify(registrationID, requirementID, domain.SlotStatusUploaded)

	return s.slotRepo.Get(ctx, registrationID, requirementID)
}

func (s *uploadService) RetryPersist(ctx context.Context, userID, registrationID uuid.UUID, requirementID string) (*domain.UploadSlot, error) {
	if _, _, err := s.ownedDraft(ctx, userID, registrationID); err != nil {
		return nil, err
	}

	doc := s.peekPending(registrationID, requirementID)
	if doc == nil {
		return nil, fmt.Errorf("%w: no pending document for slot %s", domain.ErrNotFound, requirementID)
	}

	if err := s.docRepo.Create(ctx, doc); err != nil {
		return s.failSlot(ctx, registrationID, requirementID, domain.FailReasonPersistence,
			"the file was stored but could not be recorded", fmt.Errorf("%w: %v", domain.ErrPersistence, err))
	}
	s.dropPending(registrationID, requirementID)

	if err := s.slotRepo.MarkUploaded(ctx, registrationID, requirementID, doc.ID, doc.ObjectKey, doc.PublicURL); err != nil {
		return nil, err
	}
	s.notify(registrationID, requirementID, domain.SlotStatusUploaded)

	return s.slotRepo.Get(ctx, registrationID, requirementID)
}

func (s *uploadService) Remove(ctx context.Context, userID, registrationID uuid.UUID, requirementID string) error {
	if _, _, err := s.ownedDraft(ctx, userID, registrationID); err != nil {
		return err
	}
	slot, err := s.slotRepo.Get(ctx, registrationID, requirementID)
	if err != nil {
		return err
	}

	s.dropPending(registrationID, requirementID)
	if slot.DocumentID != nil {
		if err := s.docRepo.UpdateStatus(ctx, registrationID, *slot.DocumentID, domain.DocumentStatusOrphaned); err != nil {
			return err
		}
	}
	return s.slotRepo.Reset(ctx, registrationID, requirementID)
}

func (s *uploadService) Delete(ctx context.Context, userID, registrationID uuid.UUID, requirementID string) error {
	if _, _, err := s.ownedDraft(ctx, userID, registrationID); err != nil {
		return err
	}
	slot, err := s.slotRepo.Get(ctx, registrationID, requirementID)
	if err != nil {
		return err
	}

	s.dropPending(registrationID, requirementID)
	if slot.DocumentID == nil {
		return s.slotRepo.Reset(ctx, registrationID, requirementID)
	}

	doc, err := s.docRepo.GetByID(ctx, registrationID, *slot.DocumentID)
	if err != nil {
		return err
	}
	delErr := retry.Do(ctx, retry.StorageConfig(), "delete document object", func() error {
		return s.storage.Delete(ctx, doc.Bucket, doc.ObjectKey)
	})
	if delErr != nil {
		return fmt.Errorf("%w: %v", domain.ErrStorage, delErr)
	}
	s.urlCache.Delete(urlCacheKey(registrationID, doc.ID))

	if err := s.docRepo.UpdateStatus(ctx, registrationID, doc.ID, domain.DocumentStatusDeleted); err != nil {
		return err
	}
	return s.slotRepo.Reset(ctx, registrationID, requirementID)
}

func (s *uploadService) DownloadURL(ctx context.Context, actorID uuid.UUID, actorRole domain.UserRole, registrationID, docID uuid.UUID) (string, error) {
	reg, err := s.regRepo.GetByID(ctx, registrationID)
	if err != nil {
		return "", err
	}
	if reg.UserID != actorID && actorRole != domain.RoleAdmin {
		return "", domain.ErrForbidden
	}

	cacheKey := urlCacheKey(registrationID, docID)
	if cached, ok := s.urlCache.Get(cacheKey); ok {
		return cached.(string), nil
	}

	doc, err := s.docRepo.GetByID(ctx, registrationID, docID)
	if err != nil {
		return "", err
	}
	if doc.Status == domain.DocumentStatusDeleted {
		return "", domain.ErrNotFound
	}

	url, err := s.storage.GetPresignedURL(ctx, doc.Bucket, doc.ObjectKey, s.presignExpiry)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrStorage, err)
	}
	s.urlCache.Set(cacheKey, url, gocache.DefaultExpiration)
	return url, nil
}

// ownedDraft loads the registration and its manifest, enforcing that the
// caller owns it and that it is still editable.
func (s *uploadService) ownedDraft(ctx context.Context, userID, registrationID uuid.UUID) (*domain.Registration, *domain.ActivityManifest, error) {
	reg, err := s.regRepo.GetByID(ctx, registrationID)
	if err != nil {
		return nil, nil, err
	}
	if reg.UserID != userID {
		return nil, nil, domain.ErrForbidden
	}
	if reg.Status != domain.RegistrationStatusDraft {
		return nil, nil, domain.ErrRegistrationNotDraft
	}
	m, err := s.registry.GetManifest(reg.Activity)
	if err != nil {
		return nil, nil, err
	}
	return reg, m, nil
}

// failSlot settles the slot as failed and returns it alongside the cause.
func (s *uploadService) failSlot(ctx context.Context, registrationID uuid.UUID, requirementID, reason, message string, cause error) (*domain.UploadSlot, error) {
	if err := s.slotRepo.MarkFailed(ctx, registrationID, requirementID, reason, message); err != nil {
		logger.Error("could not settle slot as failed",
			zap.String("registration_id", registrationID.String()),
			zap.String("requirement_id", requirementID),
			zap.Error(err))
		return nil, cause
	}
	s.notify(registrationID, requirementID, domain.SlotStatusFailed)

	slot, err := s.slotRepo.Get(ctx, registrationID, requirementID)
	if err != nil {
		return nil, cause
	}
	return slot, cause
}

// objectKey derives a collision-resistant storage key under the owner's
// prefix. The canonical name keeps keys stable per requirement; the
// timestamp and random suffix keep repeat uploads from colliding, since the
// store refuses overwrites.
func (s *uploadService) objectKey(req *domain.DocumentRequirement, ownerID uuid.UUID, originalName string) (string, error) {
	suffix, err := gonanoid.New(10)
	if err != nil {
		return "", err
	}
	prefix := strings.ReplaceAll(req.PathTemplate, "{uid}", ownerID.String())
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(originalName), "."))
	return fmt.Sprintf("%s/%d-%s_%s.%s", prefix, time.Now().Unix(), suffix, req.CanonicalName, ext), nil
}

func (s *uploadService) stashPending(registrationID uuid.UUID, requirementID string, doc *domain.DocumentRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pendingPersist[pendingKey(registrationID, requirementID)] = doc
}

func (s *uploadService) peekPending(registrationID uuid.UUID, requirementID string) *domain.DocumentRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pendingPersist[pendingKey(registrationID, requirementID)]
}

func (s *uploadService) dropPending(registrationID uuid.UUID, requirementID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.pendingPersist, pendingKey(registrationID, requirementID))
}

func pendingKey(registrationID uuid.UUID, requirementID string) string {
	return registrationID.String() + "/" + requirementID
}

func urlCacheKey(registrationID, docID uuid.UUID) string {
	return registrationID.String() + "/" + docID.String()
}

func fileTypeOf(name string) domain.FileType {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
	return domain.AllowedExtensions[ext]
}
