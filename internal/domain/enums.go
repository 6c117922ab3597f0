package domain

// ActivityType is the business category a registrant selects. It determines
// which compliance documents are required.
type ActivityType string

const (
	ActivityRestaurant  ActivityType = "restaurant"
	ActivityPharmacy    ActivityType = "pharmacy"
	ActivitySupermarket ActivityType = "supermarket"
	ActivityClinic      ActivityType = "clinic"
	ActivityCourier     ActivityType = "courier"
	ActivityDriver      ActivityType = "driver"
)

// FileType represents the allowed file types for document upload.
type FileType string

const (
	FileTypePDF FileType = "pdf"
	FileTypeJPG FileType = "jpg"
	FileTypePNG FileType = "png"
)

// AllowedFileTypes maps FileType to its MIME content type.
var AllowedFileTypes = map[FileType]string{
	FileTypePDF: "application/pdf",
	FileTypeJPG: "image/jpeg",
	FileTypePNG: "image/png",
}

// AllowedExtensions maps file extensions (without dot) to FileType.
var AllowedExtensions = map[string]FileType{
	"pdf":  FileTypePDF,
	"jpg":  FileTypeJPG,
	"jpeg": FileTypeJPG,
	"png":  FileTypePNG,
}

// ImageFileTypes holds the file types subject to dimension checks.
var ImageFileTypes = map[FileType]bool{
	FileTypeJPG: true,
	FileTypePNG: true,
}

// UserRole defines the role hierarchy.
type UserRole string

const (
	RoleAdmin     UserRole = "admin"
	RoleApplicant UserRole = "applicant"
)

// SlotStatus represents the lifecycle of one document slot within a registration.
type SlotStatus string

const (
	SlotStatusEmpty      SlotStatus = "empty"
	SlotStatusValidating SlotStatus = "validating"
	SlotStatusUploading  SlotStatus = "uploading"
	SlotStatusUploaded   SlotStatus = "uploaded"
	SlotStatusFailed     SlotStatus = "failed"
)

// InFlight reports whether the status represents an unfinished operation.
func (s SlotStatus) InFlight() bool {
	return s == SlotStatusValidating || s == SlotStatusUploading
}

// RegistrationStatus represents the lifecycle of a business registration.
type RegistrationStatus string

const (
	RegistrationStatusDraft     RegistrationStatus = "draft"
	RegistrationStatusSubmitted RegistrationStatus = "submitted"
	RegistrationStatusApproved  RegistrationStatus = "approved"
	RegistrationStatusRejected  RegistrationStatus = "rejected"
)

// DocumentStatus represents the lifecycle of an uploaded document record.
type DocumentStatus string

const (
	DocumentStatusStored   DocumentStatus = "stored"
	DocumentStatusOrphaned DocumentStatus = "orphaned"
	DocumentStatusDeleted  DocumentStatus = "deleted"
)

// RejectReason identifies why a candidate file failed validation.
type RejectReason string

const (
	ReasonNoFile            RejectReason = "NO_FILE"
	ReasonUnsupportedFormat RejectReason = "UNSUPPORTED_FORMAT"
	ReasonFileTooLarge      RejectReason = "FILE_TOO_LARGE"
	ReasonBadDimensions     RejectReason = "BAD_DIMENSIONS"
	ReasonUnreadableImage   RejectReason = "UNREADABLE_IMAGE"
)

// Slot failure reasons recorded after validation has passed.
const (
	FailReasonStorage     = "STORAGE"
	FailReasonPersistence = "PERSISTENCE"
	FailReasonTimeout     = "TIMEOUT"
)
