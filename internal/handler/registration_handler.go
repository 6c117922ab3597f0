package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"luxbyte/internal/domain"
	"luxbyte/internal/service"
)

// RegistrationHandler handles registration lifecycle endpoints.
type RegistrationHandler struct {
	regService       service.RegistrationService
	checklistService service.ChecklistService
}

// NewRegistrationHandler creates a new RegistrationHandler.
func NewRegistrationHandler(regService service.RegistrationService, checklistService service.ChecklistService) *RegistrationHandler {
	return &RegistrationHandler{regService: regService, checklistService: checklistService}
}

// Create handles POST /api/v1/registrations
func (h *RegistrationHandler) Create(c *gin.Context) {
	userID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	var input service.CreateRegistrationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_INPUT", err.Error())
		return
	}

	reg, err := h.regService.Create(c.Request.Context(), userID, input)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondCreated(c, reg)
}

// List handles GET /api/v1/registrations
func (h *RegistrationHandler) List(c *gin.Context) {
	userID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	regs, err := h.regService.ListMine(c.Request.Context(), userID)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, regs)
}

// GetByID handles GET /api/v1/registrations/:id
func (h *RegistrationHandler) GetByID(c *gin.Context) {
	userID, role, ok := extractAuthContext(c)
	if !ok {
		return
	}
	regID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid registration ID")
		return
	}

	reg, err := h.regService.Get(c.Request.Context(), userID, role, regID)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, reg)
}

// EnsureSlots handles POST /api/v1/registrations/:id/slots. Calling it again
// for the same registration changes nothing.
func (h *RegistrationHandler) EnsureSlots(c *gin.Context) {
	userID, role, ok := extractAuthContext(c)
	if !ok {
		return
	}
	regID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid registration ID")
		return
	}

	if err := h.regService.EnsureSlots(c.Request.Context(), userID, role, regID); err != nil {
		HandleError(c, err)
		return
	}

	cl, err := h.checklistService.Get(c.Request.Context(), userID, role, regID)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, cl)
}

// GetChecklist handles GET /api/v1/registrations/:id/checklist
func (h *RegistrationHandler) GetChecklist(c *gin.Context) {
	userID, role, ok := extractAuthContext(c)
	if !ok {
		return
	}
	regID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid registration ID")
		return
	}

	cl, err := h.checklistService.Get(c.Request.Context(), userID, role, regID)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, gin.H{
		"checklist":  cl,
		"complete":   cl.IsComplete(),
		"completion": cl.CompletionPercentage(),
	})
}

// Submit handles POST /api/v1/registrations/:id/submit
func (h *RegistrationHandler) Submit(c *gin.Context) {
	userID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}
	regID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid registration ID")
		return
	}

	reg, err := h.regService.Submit(c.Request.Context(), userID, regID)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, reg)
}

// AdminList handles GET /api/v1/admin/registrations
func (h *RegistrationHandler) AdminList(c *gin.Context) {
	status := domain.RegistrationStatus(c.DefaultQuery("status", string(domain.RegistrationStatusSubmitted)))

	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	regs, total, err := h.regService.ListByStatus(c.Request.Context(), status, offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondPaginated(c, regs, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// Review handles POST /api/v1/admin/registrations/:id/review
func (h *RegistrationHandler) Review(c *gin.Context) {
	reviewerID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}
	regID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid registration ID")
		return
	}

	var input service.ReviewInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_INPUT", err.Error())
		return
	}

	reg, err := h.regService.Review(c.Request.Context(), reviewerID, regID, input)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, reg)
}
