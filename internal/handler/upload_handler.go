package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"luxbyte/internal/intake"
	"luxbyte/internal/service"
)

// UploadHandler handles document upload endpoints for one slot at a time.
type UploadHandler struct {
	controller    *intake.Controller
	uploadService service.UploadService
}

// NewUploadHandler creates a new UploadHandler.
func NewUploadHandler(controller *intake.Controller, uploadService service.UploadService) *UploadHandler {
	return &UploadHandler{controller: controller, uploadService: uploadService}
}

// Upload handles POST /api/v1/registrations/:id/slots/:slot/upload.
// The payload is either a multipart "file" part, a base64 "camera_frame"
// form value, or both; the camera frame wins when both are present.
func (h *UploadHandler) Upload(c *gin.Context) {
	userID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}
	regID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid registration ID")
		return
	}
	slotID := c.Param("slot")

	req := intake.Request{
		SlotID:      slotID,
		CameraFrame: c.PostForm("camera_frame"),
	}
	if file, header, ferr := c.Request.FormFile("file"); ferr == nil {
		req.File = file
		req.Header = header
	}

	raw, err := h.controller.Acquire(c.Request.Context(), req)
	if err != nil {
		HandleError(c, err)
		return
	}

	slot, err := h.uploadService.Upload(c.Request.Context(), userID, regID, slotID, raw)
	if err != nil {
		status, code, msg := MapDomainError(err)
		// The slot settled as failed; return it so the client can render the
		// slot state without another round trip.
		c.JSON(status, APIResponse{
			Success: false,
			Data:    gin.H{"slot": slot},
			Error:   &APIError{Code: code, Message: msg},
		})
		return
	}
	RespondCreated(c, slot)
}

// RetryPersist handles POST /api/v1/registrations/:id/slots/:slot/retry-persist
func (h *UploadHandler) RetryPersist(c *gin.Context) {
	userID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}
	regID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid registration ID")
		return
	}

	slot, err := h.uploadService.RetryPersist(c.Request.Context(), userID, regID, c.Param("slot"))
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, slot)
}

// Remove handles DELETE /api/v1/registrations/:id/slots/:slot. The slot is
// cleared; the stored blob, if any, stays in place.
func (h *UploadHandler) Remove(c *gin.Context) {
	userID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}
	regID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid registration ID")
		return
	}

	if err := h.uploadService.Remove(c.Request.Context(), userID, regID, c.Param("slot")); err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, gin.H{"message": "slot cleared"})
}

// Delete handles DELETE /api/v1/registrations/:id/slots/:slot/file. The
// stored blob is deleted along with the slot contents.
func (h *UploadHandler) Delete(c *gin.Context) {
	userID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}
	regID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid registration ID")
		return
	}

	if err := h.uploadService.Delete(c.Request.Context(), userID, regID, c.Param("slot")); err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, gin.H{"message": "document deleted"})
}

// DownloadURL handles GET /api/v1/registrations/:id/documents/:docID/url
func (h *UploadHandler) DownloadURL(c *gin.Context) {
	userID, role, ok := extractAuthContext(c)
	if !ok {
		return
	}
	regID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid registration ID")
		return
	}
	docID, err := uuid.Parse(c.Param("docID"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid document ID")
		return
	}

	url, err := h.uploadService.DownloadURL(c.Request.Context(), userID, role, regID, docID)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, gin.H{"download_url": url})
}
