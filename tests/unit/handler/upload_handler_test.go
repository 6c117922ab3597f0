package handler_test

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"luxbyte/internal/domain"
	"luxbyte/internal/handler"
	"luxbyte/internal/intake"
	"luxbyte/mocks"
)

func uploadRequest(t *testing.T, path string, fileName string, fileBody []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if fileName != "" {
		part, err := mw.CreateFormFile("file", fileName)
		assert.NoError(t, err)
		_, err = part.Write(fileBody)
		assert.NoError(t, err)
	}
	assert.NoError(t, mw.Close())

	req, _ := http.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func smallPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			img.Set(x, y, color.RGBA{R: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	assert.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestUploadHandler_Upload_Success(t *testing.T) {
	upSvc := new(mocks.MockUploadService)
	h := handler.NewUploadHandler(intake.NewController(10<<20), upSvc)

	userID := uuid.New()
	regID := uuid.New()
	slot := &domain.UploadSlot{
		RegistrationID: regID,
		RequirementID:  "pharmacy_logo",
		Status:         domain.SlotStatusUploaded,
	}
	upSvc.On("Upload", mock.Anything, userID, regID, "pharmacy_logo", mock.AnythingOfType("*intake.RawFile")).
		Return(slot, nil)

	w := httptest.NewRecorder()
	c, _ := authedContext(w, userID, domain.RoleApplicant)
	c.Request = uploadRequest(t, "/api/v1/registrations/"+regID.String()+"/slots/pharmacy_logo/upload", "logo.png", smallPNG(t))
	c.Params = gin.Params{{Key: "id", Value: regID.String()}, {Key: "slot", Value: "pharmacy_logo"}}

	h.Upload(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	upSvc.AssertExpectations(t)
}

func TestUploadHandler_Upload_NoFile(t *testing.T) {
	upSvc := new(mocks.MockUploadService)
	h := handler.NewUploadHandler(intake.NewController(10<<20), upSvc)

	userID := uuid.New()
	regID := uuid.New()
	failed := &domain.UploadSlot{
		RegistrationID: regID,
		RequirementID:  "pharmacy_logo",
		Status:         domain.SlotStatusFailed,
		ErrorReason:    "NO_FILE",
	}
	upSvc.On("Upload", mock.Anything, userID, regID, "pharmacy_logo", (*intake.RawFile)(nil)).
		Return(failed, domain.ErrNoFile)

	w := httptest.NewRecorder()
	c, _ := authedContext(w, userID, domain.RoleApplicant)
	c.Request = uploadRequest(t, "/api/v1/registrations/"+regID.String()+"/slots/pharmacy_logo/upload", "", nil)
	c.Params = gin.Params{{Key: "id", Value: regID.String()}, {Key: "slot", Value: "pharmacy_logo"}}

	h.Upload(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var resp handler.APIResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, "NO_FILE", resp.Error.Code)
	// The settled slot rides along with the error envelope.
	data := resp.Data.(map[string]interface{})
	assert.NotNil(t, data["slot"])
}

func TestUploadHandler_Upload_SlotBusy(t *testing.T) {
	upSvc := new(mocks.MockUploadService)
	h := handler.NewUploadHandler(intake.NewController(10<<20), upSvc)

	userID := uuid.New()
	regID := uuid.New()
	upSvc.On("Upload", mock.Anything, userID, regID, "pharmacy_logo", mock.Anything).
		Return(nil, domain.ErrSlotBusy)

	w := httptest.NewRecorder()
	c, _ := authedContext(w, userID, domain.RoleApplicant)
	c.Request = uploadRequest(t, "/api/v1/registrations/"+regID.String()+"/slots/pharmacy_logo/upload", "logo.png", smallPNG(t))
	c.Params = gin.Params{{Key: "id", Value: regID.String()}, {Key: "slot", Value: "pharmacy_logo"}}

	h.Upload(c)

	assert.Equal(t, http.StatusConflict, w.Code)
	var resp handler.APIResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "SLOT_BUSY", resp.Error.Code)
}

func TestUploadHandler_Upload_InvalidRegistrationID(t *testing.T) {
	upSvc := new(mocks.MockUploadService)
	h := handler.NewUploadHandler(intake.NewController(10<<20), upSvc)

	w := httptest.NewRecorder()
	c, _ := authedContext(w, uuid.New(), domain.RoleApplicant)
	c.Request = uploadRequest(t, "/api/v1/registrations/oops/slots/pharmacy_logo/upload", "logo.png", smallPNG(t))
	c.Params = gin.Params{{Key: "id", Value: "oops"}, {Key: "slot", Value: "pharmacy_logo"}}

	h.Upload(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	upSvc.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestUploadHandler_RetryPersist(t *testing.T) {
	upSvc := new(mocks.MockUploadService)
	h := handler.NewUploadHandler(intake.NewController(10<<20), upSvc)

	userID := uuid.New()
	regID := uuid.New()
	slot := &domain.UploadSlot{RegistrationID: regID, RequirementID: "pharmacy_logo", Status: domain.SlotStatusUploaded}
	upSvc.On("RetryPersist", mock.Anything, userID, regID, "pharmacy_logo").Return(slot, nil)

	w := httptest.NewRecorder()
	c, _ := authedContext(w, userID, domain.RoleApplicant)
	c.Request, _ = http.NewRequest(http.MethodPost, "/api/v1/registrations/"+regID.String()+"/slots/pharmacy_logo/retry-persist", nil)
	c.Params = gin.Params{{Key: "id", Value: regID.String()}, {Key: "slot", Value: "pharmacy_logo"}}

	h.RetryPersist(c)

	assert.Equal(t, http.StatusOK, w.Code)
	upSvc.AssertExpectations(t)
}

func TestUploadHandler_RetryPersist_NothingPending(t *testing.T) {
	upSvc := new(mocks.MockUploadService)
	h := handler.NewUploadHandler(intake.NewController(10<<20), upSvc)

	userID := uuid.New()
	regID := uuid.New()
	upSvc.On("RetryPersist", mock.Anything, userID, regID, "pharmacy_logo").
		Return(nil, domain.ErrNotFound)

	w := httptest.NewRecorder()
	c, _ := authedContext(w, userID, domain.RoleApplicant)
	c.Request, _ = http.NewRequest(http.MethodPost, "/api/v1/registrations/"+regID.String()+"/slots/pharmacy_logo/retry-persist", nil)
	c.Params = gin.Params{{Key: "id", Value: regID.String()}, {Key: "slot", Value: "pharmacy_logo"}}

	h.RetryPersist(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUploadHandler_Remove(t *testing.T) {
	upSvc := new(mocks.MockUploadService)
	h := handler.NewUploadHandler(intake.NewController(10<<20), upSvc)

	userID := uuid.New()
	regID := uuid.New()
	upSvc.On("Remove", mock.Anything, userID, regID, "pharmacy_logo").Return(nil)

	w := httptest.NewRecorder()
	c, _ := authedContext(w, userID, domain.RoleApplicant)
	c.Request, _ = http.NewRequest(http.MethodDelete, "/api/v1/registrations/"+regID.String()+"/slots/pharmacy_logo", nil)
	c.Params = gin.Params{{Key: "id", Value: regID.String()}, {Key: "slot", Value: "pharmacy_logo"}}

	h.Remove(c)

	assert.Equal(t, http.StatusOK, w.Code)
	upSvc.AssertExpectations(t)
}

func TestUploadHandler_Delete_StorageFailure(t *testing.T) {
	upSvc := new(mocks.MockUploadService)
	h := handler.NewUploadHandler(intake.NewController(10<<20), upSvc)

	userID := uuid.New()
	regID := uuid.New()
	upSvc.On("Delete", mock.Anything, userID, regID, "pharmacy_logo").Return(domain.ErrStorage)

	w := httptest.NewRecorder()
	c, _ := authedContext(w, userID, domain.RoleApplicant)
	c.Request, _ = http.NewRequest(http.MethodDelete, "/api/v1/registrations/"+regID.String()+"/slots/pharmacy_logo/file", nil)
	c.Params = gin.Params{{Key: "id", Value: regID.String()}, {Key: "slot", Value: "pharmacy_logo"}}

	h.Delete(c)

	assert.Equal(t, http.StatusBadGateway, w.Code)
	var resp handler.APIResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "STORAGE", resp.Error.Code)
}

func TestUploadHandler_DownloadURL(t *testing.T) {
	upSvc := new(mocks.MockUploadService)
	h := handler.NewUploadHandler(intake.NewController(10<<20), upSvc)

	userID := uuid.New()
	regID := uuid.New()
	docID := uuid.New()
	upSvc.On("DownloadURL", mock.Anything, userID, domain.RoleApplicant, regID, docID).
		Return("https://cdn.example.com/signed", nil)

	w := httptest.NewRecorder()
	c, _ := authedContext(w, userID, domain.RoleApplicant)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/v1/registrations/"+regID.String()+"/documents/"+docID.String()+"/url", nil)
	c.Params = gin.Params{{Key: "id", Value: regID.String()}, {Key: "docID", Value: docID.String()}}

	h.DownloadURL(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp handler.APIResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, "https://cdn.example.com/signed", data["download_url"])
}
