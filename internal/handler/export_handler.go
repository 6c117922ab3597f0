package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"luxbyte/internal/domain"
	"luxbyte/internal/service"
)

// ExportHandler serves admin workbook exports.
type ExportHandler struct {
	exportService service.ExportService
}

// NewExportHandler creates a new ExportHandler.
func NewExportHandler(exportService service.ExportService) *ExportHandler {
	return &ExportHandler{exportService: exportService}
}

// RegistrationsXLSX handles GET /api/v1/admin/registrations/export
func (h *ExportHandler) RegistrationsXLSX(c *gin.Context) {
	status := domain.RegistrationStatus(c.DefaultQuery("status", string(domain.RegistrationStatusSubmitted)))

	data, err := h.exportService.RegistrationsXLSX(c.Request.Context(), status)
	if err != nil {
		HandleError(c, err)
		return
	}

	filename := fmt.Sprintf("registrations-%s-%s.xlsx", status, time.Now().UTC().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename=%q`, filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}
