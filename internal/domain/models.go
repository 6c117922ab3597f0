package domain

import (
	"time"

	"github.com/google/uuid"
)

// DimensionRule constrains the pixel dimensions of an image document. Either
// Width and Height are both set (exact match) or MinWidth is set (lower bound).
type DimensionRule struct {
	Width    int `json:"width,omitempty"`
	Height   int `json:"height,omitempty"`
	MinWidth int `json:"min_width,omitempty"`
}

// Exact reports whether the rule demands exact dimensions.
func (d DimensionRule) Exact() bool {
	return d.Width > 0 && d.Height > 0
}

// DocumentRequirement is a static descriptor of one document slot for an
// activity. Defined at build time, immutable.
type DocumentRequirement struct {
	ID              string         `json:"id"`
	Label           string         `json:"label"`
	AcceptedFormats []FileType     `json:"accepted_formats"`
	MaxSizeBytes    int64          `json:"max_size_bytes"`
	Dimensions      *DimensionRule `json:"dimensions,omitempty"`
	Mandatory       bool           `json:"mandatory"`
	// PathTemplate is the object-key template with a {uid} placeholder for the
	// owner's user ID.
	PathTemplate string `json:"-"`
	// CanonicalName is the filename documents for this slot are stored under.
	CanonicalName string `json:"-"`
}

// Accepts reports whether the requirement accepts the given file type.
func (r DocumentRequirement) Accepts(ft FileType) bool {
	for _, f := range r.AcceptedFormats {
		if f == ft {
			return true
		}
	}
	return false
}

// ActivityManifest lists the required and optional document requirements for
// one activity type, in display order.
type ActivityManifest struct {
	Activity ActivityType          `json:"activity"`
	Required []DocumentRequirement `json:"required"`
	Optional []DocumentRequirement `json:"optional"`
}

// Lookup returns the requirement with the given slot ID, or nil.
func (m *ActivityManifest) Lookup(id string) *DocumentRequirement {
	for i := range m.Required {
		if m.Required[i].ID == id {
			return &m.Required[i]
		}
	}
	for i := range m.Optional {
		if m.Optional[i].ID == id {
			return &m.Optional[i]
		}
	}
	return nil
}

// All returns every requirement, required first.
func (m *ActivityManifest) All() []DocumentRequirement {
	out := make([]DocumentRequirement, 0, len(m.Required)+len(m.Optional))
	out = append(out, m.Required...)
	out = append(out, m.Optional...)
	return out
}

// User represents an authenticated registrant or reviewer.
type User struct {
	ID           uuid.UUID `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	FullName     string    `db:"full_name" json:"full_name"`
	Phone        string    `db:"phone" json:"phone"`
	Role         UserRole  `db:"role" json:"role"`
	IsActive     bool      `db:"is_active" json:"is_active"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// Registration represents one business-registration session for an activity.
type Registration struct {
	ID            uuid.UUID          `db:"id" json:"id"`
	UserID        uuid.UUID          `db:"user_id" json:"user_id"`
	Activity      ActivityType       `db:"activity" json:"activity"`
	BusinessName  string             `db:"business_name" json:"business_name"`
	Status        RegistrationStatus `db:"status" json:"status"`
	SubmittedAt   *time.Time         `db:"submitted_at" json:"submitted_at"`
	ReviewedBy    *uuid.UUID         `db:"reviewed_by" json:"reviewed_by"`
	ReviewedAt    *time.Time         `db:"reviewed_at" json:"reviewed_at"`
	ReviewerNotes string             `db:"reviewer_notes" json:"reviewer_notes"`
	CreatedAt     time.Time          `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time          `db:"updated_at" json:"updated_at"`
}

// UploadSlot tracks the per-requirement upload state within a registration.
// Mutated only by the upload pipeline for that slot.
type UploadSlot struct {
	ID             uuid.UUID  `db:"id" json:"id"`
	RegistrationID uuid.UUID  `db:"registration_id" json:"registration_id"`
	RequirementID  string     `db:"requirement_id" json:"requirement_id"`
	Mandatory      bool       `db:"mandatory" json:"mandatory"`
	Status         SlotStatus `db:"status" json:"status"`
	DocumentID     *uuid.UUID `db:"document_id" json:"document_id"`
	RemoteKey      string     `db:"remote_key" json:"remote_key"`
	RemoteURL      string     `db:"remote_url" json:"remote_url"`
	ErrorReason    string     `db:"error_reason" json:"error_reason,omitempty"`
	ErrorMessage   string     `db:"error_message" json:"error_message,omitempty"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at" json:"updated_at"`
}

// DocumentRecord stores metadata about an uploaded compliance document.
type DocumentRecord struct {
	ID             uuid.UUID      `db:"id" json:"id"`
	RegistrationID uuid.UUID      `db:"registration_id" json:"registration_id"`
	OwnerID        uuid.UUID      `db:"owner_id" json:"owner_id"`
	RequirementID  string         `db:"requirement_id" json:"requirement_id"`
	Bucket         string         `db:"bucket" json:"bucket"`
	ObjectKey      string         `db:"object_key" json:"object_key"`
	PublicURL      string         `db:"public_url" json:"public_url"`
	OriginalName   string         `db:"original_name" json:"original_name"`
	FileType       FileType       `db:"file_type" json:"file_type"`
	FileSize       int64          `db:"file_size" json:"file_size"`
	ContentType    string         `db:"content_type" json:"content_type"`
	Status         DocumentStatus `db:"status" json:"status"`
	UploadedAt     time.Time      `db:"uploaded_at" json:"uploaded_at"`
	CreatedAt      time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time      `db:"updated_at" json:"updated_at"`
}

// Checklist aggregates the upload slots of one registration. It is rebuilt
// from storage on every read; completeness is always derived, never cached.
type Checklist struct {
	RegistrationID uuid.UUID    `json:"registration_id"`
	Activity       ActivityType `json:"activity"`
	Required       []UploadSlot `json:"required"`
	Optional       []UploadSlot `json:"optional"`
}

// IsComplete reports whether every required slot has an uploaded document.
// Optional slots never affect completeness.
func (c *Checklist) IsComplete() bool {
	if len(c.Required) == 0 {
		return false
	}
	for i := range c.Required {
		if c.Required[i].Status != SlotStatusUploaded {
			return false
		}
	}
	return true
}

// CompletionPercentage returns the share of required slots uploaded, 0-100.
func (c *Checklist) CompletionPercentage() float64 {
	if len(c.Required) == 0 {
		return 0
	}
	uploaded := 0
	for i := range c.Required {
		if c.Required[i].Status == SlotStatusUploaded {
			uploaded++
		}
	}
	return float64(uploaded) / float64(len(c.Required)) * 100
}
