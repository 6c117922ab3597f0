package service_test

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"luxbyte/internal/config"
	"luxbyte/internal/domain"
	"luxbyte/internal/intake"
	"luxbyte/internal/manifest"
	"luxbyte/internal/port"
	"luxbyte/internal/service"
	"luxbyte/mocks"
)

func testS3Config() config.S3Config {
	return config.S3Config{Region: "eu-central-1", Bucket: "test-bucket"}
}

func testUploadConfig() config.UploadConfig {
	return config.UploadConfig{MaxFileSizeMB: 5, PresignExpiry: 3600, URLCacheTTL: time.Minute}
}

func pngFile(t *testing.T, name string, width, height int) *intake.RawFile {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, width, height))))
	return &intake.RawFile{
		Name:        name,
		Size:        int64(buf.Len()),
		ContentType: "image/png",
		Source:      intake.SourcePicker,
		Data:        buf.Bytes(),
	}
}

func draftRegistration(userID uuid.UUID) *domain.Registration {
	return &domain.Registration{
		ID:       uuid.New(),
		UserID:   userID,
		Activity: domain.ActivityPharmacy,
		Status:   domain.RegistrationStatusDraft,
	}
}

func newUploadService(regRepo *mocks.MockRegistrationRepo, slotRepo *mocks.MockSlotRepo, docRepo *mocks.MockDocumentRepo, storage *mocks.MockObjectStorage) service.UploadService {
	return service.NewUploadService(regRepo, slotRepo, docRepo, storage, manifest.NewRegistry(), testS3Config(), testUploadConfig())
}

func TestUploadService_Upload_Success(t *testing.T) {
	regRepo := new(mocks.MockRegistrationRepo)
	slotRepo := new(mocks.MockSlotRepo)
	docRepo := new(mocks.MockDocumentRepo)
	storage := new(mocks.MockObjectStorage)
	svc := newUploadService(regRepo, slotRepo, docRepo, storage)

	userID := uuid.New()
	reg := draftRegistration(userID)
	file := pngFile(t, "logo.png", 512, 512)

	regRepo.On("GetByID", mock.Anything, reg.ID).Return(reg, nil)
	slotRepo.On("MarkValidating", mock.Anything, reg.ID, "pharmacy_logo").Return(nil)
	slotRepo.On("MarkUploading", mock.Anything, reg.ID, "pharmacy_logo").Return(nil)
	storage.On("Upload", mock.Anything, mock.AnythingOfType("port.UploadInput")).
		Return(&port.UploadOutput{Location: "https://test-bucket.s3.amazonaws.com/key", ETag: "abc"}, nil)
	storage.On("PublicURL", "test-bucket", mock.AnythingOfType("string")).
		Return("https://cdn.example.com/key")
	docRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.DocumentRecord")).Return(nil)
	slotRepo.On("MarkUploaded", mock.Anything, reg.ID, "pharmacy_logo",
		mock.AnythingOfType("uuid.UUID"), mock.AnythingOfType("string"), "https://cdn.example.com/key").Return(nil)
	uploaded := &domain.UploadSlot{RegistrationID: reg.ID, RequirementID: "pharmacy_logo", Status: domain.SlotStatusUploaded}
	slotRepo.On("Get", mock.Anything, reg.ID, "pharmacy_logo").Return(uploaded, nil)

	var transitions []domain.SlotStatus
	svc.SetProgressFunc(func(_ uuid.UUID, _ string, status domain.SlotStatus) {
		transitions = append(transitions, status)
	})

	slot, err := svc.Upload(context.Background(), userID, reg.ID, "pharmacy_logo", file)
	require.NoError(t, err)
	assert.Equal(t, domain.SlotStatusUploaded, slot.Status)
	assert.Equal(t, []domain.SlotStatus{
		domain.SlotStatusValidating,
		domain.SlotStatusUploading,
		domain.SlotStatusUploaded,
	}, transitions)

	// Key lands under the owner's prefix with the canonical name.
	input := storage.Calls[0].Arguments.Get(1).(port.UploadInput)
	assert.Contains(t, input.Key, "registrations/"+userID.String()+"/pharmacy_logo/")
	assert.Contains(t, input.Key, "_logo.png")
	assert.Equal(t, "image/png", input.ContentType)

	slotRepo.AssertExpectations(t)
	docRepo.AssertExpectations(t)
}

func TestUploadService_Upload_ValidationFailureSettlesSlot(t *testing.T) {
	regRepo := new(mocks.MockRegistrationRepo)
	slotRepo := new(mocks.MockSlotRepo)
	docRepo := new(mocks.MockDocumentRepo)
	storage := new(mocks.MockObjectStorage)
	svc := newUploadService(regRepo, slotRepo, docRepo, storage)

	userID := uuid.New()
	reg := draftRegistration(userID)
	file := pngFile(t, "logo.png", 511, 512) // off by one pixel

	regRepo.On("GetByID", mock.Anything, reg.ID).Return(reg, nil)
	slotRepo.On("MarkValidating", mock.Anything, reg.ID, "pharmacy_logo").Return(nil)
	slotRepo.On("MarkFailed", mock.Anything, reg.ID, "pharmacy_logo",
		string(domain.ReasonBadDimensions), mock.AnythingOfType("string")).Return(nil)
	failed := &domain.UploadSlot{RegistrationID: reg.ID, RequirementID: "pharmacy_logo",
		Status: domain.SlotStatusFailed, ErrorReason: string(domain.ReasonBadDimensions)}
	slotRepo.On("Get", mock.Anything, reg.ID, "pharmacy_logo").Return(failed, nil)

	slot, err := svc.Upload(context.Background(), userID, reg.ID, "pharmacy_logo", file)
	assert.ErrorIs(t, err, domain.ErrBadDimensions)
	require.NotNil(t, slot)
	assert.Equal(t, domain.SlotStatusFailed, slot.Status)

	storage.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything)
	docRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestUploadService_Upload_NoFile(t *testing.T) {
	regRepo := new(mocks.MockRegistrationRepo)
	slotRepo := new(mocks.MockSlotRepo)
	docRepo := new(mocks.MockDocumentRepo)
	storage := new(mocks.MockObjectStorage)
	svc := newUploadService(regRepo, slotRepo, docRepo, storage)

	userID := uuid.New()
	reg := draftRegistration(userID)

	regRepo.On("GetByID", mock.Anything, reg.ID).Return(reg, nil)
	slotRepo.On("MarkValidating", mock.Anything, reg.ID, "pharmacy_logo").Return(nil)
	slotRepo.On("MarkFailed", mock.Anything, reg.ID, "pharmacy_logo",
		string(domain.ReasonNoFile), mock.AnythingOfType("string")).Return(nil)
	failed := &domain.UploadSlot{Status: domain.SlotStatusFailed, ErrorReason: string(domain.ReasonNoFile)}
	slotRepo.On("Get", mock.Anything, reg.ID, "pharmacy_logo").Return(failed, nil)

	_, err := svc.Upload(context.Background(), userID, reg.ID, "pharmacy_logo", nil)
	assert.ErrorIs(t, err, domain.ErrNoFile)
}

func TestUploadService_Upload_SlotBusy(t *testing.T) {
	regRepo := new(mocks.MockRegistrationRepo)
	slotRepo := new(mocks.MockSlotRepo)
	docRepo := new(mocks.MockDocumentRepo)
	storage := new(mocks.MockObjectStorage)
	svc := newUploadService(regRepo, slotRepo, docRepo, storage)

	userID := uuid.New()
	reg := draftRegistration(userID)

	regRepo.On("GetByID", mock.Anything, reg.ID).Return(reg, nil)
	slotRepo.On("MarkValidating", mock.Anything, reg.ID, "pharmacy_logo").Return(domain.ErrSlotBusy)

	_, err := svc.Upload(context.Background(), userID, reg.ID, "pharmacy_logo", pngFile(t, "logo.png", 512, 512))
	assert.ErrorIs(t, err, domain.ErrSlotBusy)
	storage.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything)
}

func TestUploadService_Upload_NotOwner(t *testing.T) {
	regRepo := new(mocks.MockRegistrationRepo)
	slotRepo := new(mocks.MockSlotRepo)
	docRepo := new(mocks.MockDocumentRepo)
	storage := new(mocks.MockObjectStorage)
	svc := newUploadService(regRepo, slotRepo, docRepo, storage)

	reg := draftRegistration(uuid.New())
	regRepo.On("GetByID", mock.Anything, reg.ID).Return(reg, nil)

	_, err := svc.Upload(context.Background(), uuid.New(), reg.ID, "pharmacy_logo", pngFile(t, "logo.png", 512, 512))
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestUploadService_Upload_SubmittedRegistrationRefused(t *testing.T) {
	regRepo := new(mocks.MockRegistrationRepo)
	slotRepo := new(mocks.MockSlotRepo)
	docRepo := new(mocks.MockDocumentRepo)
	storage := new(mocks.MockObjectStorage)
	svc := newUploadService(regRepo, slotRepo, docRepo, storage)

	userID := uuid.New()
	reg := draftRegistration(userID)
	reg.Status = domain.RegistrationStatusSubmitted
	regRepo.On("GetByID", mock.Anything, reg.ID).Return(reg, nil)

	_, err := svc.Upload(context.Background(), userID, reg.ID, "pharmacy_logo", pngFile(t, "logo.png", 512, 512))
	assert.ErrorIs(t, err, domain.ErrRegistrationNotDraft)
}

func TestUploadService_Upload_StorageFailure(t *testing.T) {
	regRepo := new(mocks.MockRegistrationRepo)
	slotRepo := new(mocks.MockSlotRepo)
	docRepo := new(mocks.MockDocumentRepo)
	storage := new(mocks.MockObjectStorage)
	svc := newUploadService(regRepo, slotRepo, docRepo, storage)

	userID := uuid.New()
	reg := draftRegistration(userID)

	regRepo.On("GetByID", mock.Anything, reg.ID).Return(reg, nil)
	slotRepo.On("MarkValidating", mock.Anything, reg.ID, "pharmacy_logo").Return(nil)
	slotRepo.On("MarkUploading", mock.Anything, reg.ID, "pharmacy_logo").Return(nil)
	storage.On("Upload", mock.Anything, mock.AnythingOfType("port.UploadInput")).
		Return(nil, errors.New("connection reset"))
	slotRepo.On("MarkFailed", mock.Anything, reg.ID, "pharmacy_logo",
		domain.FailReasonStorage, mock.AnythingOfType("string")).Return(nil)
	failed := &domain.UploadSlot{Status: domain.SlotStatusFailed, ErrorReason: domain.FailReasonStorage}
	slotRepo.On("Get", mock.Anything, reg.ID, "pharmacy_logo").Return(failed, nil)

	slot, err := svc.Upload(context.Background(), userID, reg.ID, "pharmacy_logo", pngFile(t, "logo.png", 512, 512))
	assert.ErrorIs(t, err, domain.ErrStorage)
	require.NotNil(t, slot)
	assert.Equal(t, domain.FailReasonStorage, slot.ErrorReason)

	// Nothing must be recorded when the blob never landed.
	docRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestUploadService_Upload_PersistenceFailureThenRetry(t *testing.T) {
	regRepo := new(mocks.MockRegistrationRepo)
	slotRepo := new(mocks.MockSlotRepo)
	docRepo := new(mocks.MockDocumentRepo)
	storage := new(mocks.MockObjectStorage)
	svc := newUploadService(regRepo, slotRepo, docRepo, storage)

	userID := uuid.New()
	reg := draftRegistration(userID)
	file := pngFile(t, "logo.png", 512, 512)

	regRepo.On("GetByID", mock.Anything, reg.ID).Return(reg, nil)
	slotRepo.On("MarkValidating", mock.Anything, reg.ID, "pharmacy_logo").Return(nil)
	slotRepo.On("MarkUploading", mock.Anything, reg.ID, "pharmacy_logo").Return(nil)
	storage.On("Upload", mock.Anything, mock.AnythingOfType("port.UploadInput")).
		Return(&port.UploadOutput{Location: "loc", ETag: "abc"}, nil)
	storage.On("PublicURL", "test-bucket", mock.AnythingOfType("string")).Return("https://cdn.example.com/key")
	docRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.DocumentRecord")).
		Return(errors.New("db down")).Once()
	slotRepo.On("MarkFailed", mock.Anything, reg.ID, "pharmacy_logo",
		domain.FailReasonPersistence, mock.AnythingOfType("string")).Return(nil)
	failed := &domain.UploadSlot{Status: domain.SlotStatusFailed, ErrorReason: domain.FailReasonPersistence}
	slotRepo.On("Get", mock.Anything, reg.ID, "pharmacy_logo").Return(failed, nil).Once()

	_, err := svc.Upload(context.Background(), userID, reg.ID, "pharmacy_logo", file)
	assert.ErrorIs(t, err, domain.ErrPersistence)

	// Retry persists the prepared record without touching storage again.
	docRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.DocumentRecord")).Return(nil).Once()
	slotRepo.On("MarkUploaded", mock.Anything, reg.ID, "pharmacy_logo",
		mock.AnythingOfType("uuid.UUID"), mock.AnythingOfType("string"), "https://cdn.example.com/key").Return(nil)
	uploaded := &domain.UploadSlot{Status: domain.SlotStatusUploaded}
	slotRepo.On("Get", mock.Anything, reg.ID, "pharmacy_logo").Return(uploaded, nil).Once()

	slot, err := svc.RetryPersist(context.Background(), userID, reg.ID, "pharmacy_logo")
	require.NoError(t, err)
	assert.Equal(t, domain.SlotStatusUploaded, slot.Status)
	storage.AssertNumberOfCalls(t, "Upload", 1)

	// A second retry has nothing pending.
	_, err = svc.RetryPersist(context.Background(), userID, reg.ID, "pharmacy_logo")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUploadService_Remove_OrphansDocument(t *testing.T) {
	regRepo := new(mocks.MockRegistrationRepo)
	slotRepo := new(mocks.MockSlotRepo)
	docRepo := new(mocks.MockDocumentRepo)
	storage := new(mocks.MockObjectStorage)
	svc := newUploadService(regRepo, slotRepo, docRepo, storage)

	userID := uuid.New()
	reg := draftRegistration(userID)
	docID := uuid.New()

	regRepo.On("GetByID", mock.Anything, reg.ID).Return(reg, nil)
	slotRepo.On("Get", mock.Anything, reg.ID, "pharmacy_logo").Return(&domain.UploadSlot{
		RegistrationID: reg.ID, RequirementID: "pharmacy_logo",
		Status: domain.SlotStatusUploaded, DocumentID: &docID,
	}, nil)
	docRepo.On("UpdateStatus", mock.Anything, reg.ID, docID, domain.DocumentStatusOrphaned).Return(nil)
	slotRepo.On("Reset", mock.Anything, reg.ID, "pharmacy_logo").Return(nil)

	err := svc.Remove(context.Background(), userID, reg.ID, "pharmacy_logo")
	require.NoError(t, err)

	// The stored blob stays in place.
	storage.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything)
	slotRepo.AssertExpectations(t)
	docRepo.AssertExpectations(t)
}

func TestUploadService_Delete_RemovesBlob(t *testing.T) {
	regRepo := new(mocks.MockRegistrationRepo)
	slotRepo := new(mocks.MockSlotRepo)
	docRepo := new(mocks.MockDocumentRepo)
	storage := new(mocks.MockObjectStorage)
	svc := newUploadService(regRepo, slotRepo, docRepo, storage)

	userID := uuid.New()
	reg := draftRegistration(userID)
	docID := uuid.New()

	regRepo.On("GetByID", mock.Anything, reg.ID).Return(reg, nil)
	slotRepo.On("Get", mock.Anything, reg.ID, "pharmacy_logo").Return(&domain.UploadSlot{
		RegistrationID: reg.ID, RequirementID: "pharmacy_logo",
		Status: domain.SlotStatusUploaded, DocumentID: &docID,
	}, nil)
	docRepo.On("GetByID", mock.Anything, reg.ID, docID).Return(&domain.DocumentRecord{
		ID: docID, Bucket: "test-bucket", ObjectKey: "registrations/u/pharmacy_logo/key.png",
	}, nil)
	storage.On("Delete", mock.Anything, "test-bucket", "registrations/u/pharmacy_logo/key.png").Return(nil)
	docRepo.On("UpdateStatus", mock.Anything, reg.ID, docID, domain.DocumentStatusDeleted).Return(nil)
	slotRepo.On("Reset", mock.Anything, reg.ID, "pharmacy_logo").Return(nil)

	err := svc.Delete(context.Background(), userID, reg.ID, "pharmacy_logo")
	require.NoError(t, err)
	storage.AssertExpectations(t)
	docRepo.AssertExpectations(t)
}

func TestUploadService_DownloadURL_Cached(t *testing.T) {
	regRepo := new(mocks.MockRegistrationRepo)
	slotRepo := new(mocks.MockSlotRepo)
	docRepo := new(mocks.MockDocumentRepo)
	storage := new(mocks.MockObjectStorage)
	svc := newUploadService(regRepo, slotRepo, docRepo, storage)

	userID := uuid.New()
	reg := draftRegistration(userID)
	docID := uuid.New()

	regRepo.On("GetByID", mock.Anything, reg.ID).Return(reg, nil)
	docRepo.On("GetByID", mock.Anything, reg.ID, docID).Return(&domain.DocumentRecord{
		ID: docID, Bucket: "test-bucket", ObjectKey: "key", Status: domain.DocumentStatusStored,
	}, nil)
	storage.On("GetPresignedURL", mock.Anything, "test-bucket", "key", int64(3600)).
		Return("https://presigned.example.com/key", nil)

	url1, err := svc.DownloadURL(context.Background(), userID, domain.RoleApplicant, reg.ID, docID)
	require.NoError(t, err)
	url2, err := svc.DownloadURL(context.Background(), userID, domain.RoleApplicant, reg.ID, docID)
	require.NoError(t, err)

	assert.Equal(t, url1, url2)
	storage.AssertNumberOfCalls(t, "GetPresignedURL", 1)
}

func TestUploadService_DownloadURL_ForbiddenForStranger(t *testing.T) {
	regRepo := new(mocks.MockRegistrationRepo)
	slotRepo := new(mocks.MockSlotRepo)
	docRepo := new(mocks.MockDocumentRepo)
	storage := new(mocks.MockObjectStorage)
	svc := newUploadService(regRepo, slotRepo, docRepo, storage)

	reg := draftRegistration(uuid.New())
	regRepo.On("GetByID", mock.Anything, reg.ID).Return(reg, nil)

	_, err := svc.DownloadURL(context.Background(), uuid.New(), domain.RoleApplicant, reg.ID, uuid.New())
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
