package domain

import "errors"

var (
	ErrNotFound           = errors.New("resource not found")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserInactive       = errors.New("user is inactive")
	ErrDuplicateEmail     = errors.New("email already registered")

	// ErrUnknownActivityType signals a manifest lookup for an activity that has
	// no registered document requirements. This is a configuration error, not a
	// user error.
	ErrUnknownActivityType = errors.New("unknown activity type")

	ErrNoFile            = errors.New("no file provided")
	ErrUnsupportedFormat = errors.New("unsupported file format")
	ErrFileTooLarge      = errors.New("file exceeds maximum allowed size")
	ErrBadDimensions     = errors.New("image dimensions do not satisfy requirement")
	ErrUnreadableImage   = errors.New("file content could not be read or decoded")

	// ErrStorage covers blob upload failures: no metadata has been written and
	// the whole upload may be retried from scratch.
	ErrStorage = errors.New("object storage operation failed")
	// ErrPersistence covers metadata write failures after the blob was stored.
	// The blob exists without a matching record; retry must skip re-uploading.
	ErrPersistence = errors.New("document metadata write failed after upload")

	ErrSlotBusy             = errors.New("slot already has an operation in flight")
	ErrSlotNotEmpty         = errors.New("slot already holds an uploaded document")
	ErrChecklistIncomplete  = errors.New("required documents are missing")
	ErrRegistrationNotDraft = errors.New("registration is no longer editable")
	ErrDuplicateActivity    = errors.New("registration already exists for this activity")
)
