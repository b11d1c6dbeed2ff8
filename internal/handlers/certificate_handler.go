package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campus-events/event-service/internal/models"
	"github.com/campus-events/event-service/internal/repositories"
	"github.com/campus-events/event-service/internal/services"
	"github.com/campus-events/event-service/internal/utils"
	"github.com/campus-events/event-service/internal/validator"
)

type CertificateHandler struct {
	BaseHandler
	certificateService services.CertificateService
}

func NewCertificateHandler(certificateService services.CertificateService, logger utils.Logger) *CertificateHandler {
	return &CertificateHandler{
		BaseHandler:        NewBaseHandler(logger),
		certificateService: certificateService,
	}
}

// GenerateCertificate issues a certificate for a registration (organizer only)
// @Summary Generate certificate
// @Tags certificates
// @Accept json
// @Produce json
// @Param certificate body validator.CertificateGenerateRequest true "Certificate data"
// @Success 201 {object} SuccessResponse{data=models.Certificate}
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /certificates/generate [post]
func (h *CertificateHandler) GenerateCertificate(c *gin.Context) {
	actor, ok := h.currentActor(c)
	if !ok {
		return
	}

	var req validator.CertificateGenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	certificate, err := h.certificateService.Generate(c.Request.Context(), actor, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, SuccessResponse{Success: true, Data: certificate})
}

// GetCertificate retrieves a certificate record
// @Summary Get certificate
// @Tags certificates
// @Produce json
// @Param id path uint true "Certificate ID"
// @Success 200 {object} SuccessResponse{data=models.Certificate}
// @Failure 404 {object} ErrorResponse
// @Router /certificates/{id} [get]
func (h *CertificateHandler) GetCertificate(c *gin.Context) {
	actor, ok := h.currentActor(c)
	if !ok {
		return
	}

	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	certificate, err := h.certificateService.GetByID(c.Request.Context(), actor, id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Success: true, Data: certificate})
}

// GetMyCertificates lists the caller's certificates
// @Summary My certificates
// @Tags certificates
// @Produce json
// @Success 200 {object} ListResponse
// @Router /certificates/my [get]
func (h *CertificateHandler) GetMyCertificates(c *gin.Context) {
	actor, ok := h.currentActor(c)
	if !ok {
		return
	}

	limit, offset := parsePagination(c)
	filters := repositories.CertificateFilters{Limit: limit, Offset: offset}
	if certType := c.Query("type"); certType != "" {
		t := models.CertificateType(certType)
		filters.Type = &t
	}
	if status := c.Query("status"); status != "" {
		s := models.CertificateStatus(status)
		filters.Status = &s
	}

	certificates, total, err := h.certificateService.GetMine(c.Request.Context(), actor, filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, ListResponse{Success: true, Data: certificates, Total: total})
}

// VerifyCertificate is the public verification endpoint
// @Summary Verify certificate
// @Tags certificates
// @Produce json
// @Param code path string true "Verification code"
// @Success 200 {object} SuccessResponse{data=services.VerificationResponse}
// @Failure 404 {object} ErrorResponse
// @Router /certificates/verify/{code} [get]
func (h *CertificateHandler) VerifyCertificate(c *gin.Context) {
	code := c.Param("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid code parameter"})
		return
	}

	result, err := h.certificateService.Verify(c.Request.Context(), code)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Success: true, Data: result})
}

// DownloadCertificate streams the rendered PDF
// @Summary Download certificate
// @Tags certificates
// @Produce application/pdf
// @Param id path uint true "Certificate ID"
// @Success 200 {file} binary
// @Failure 404 {object} ErrorResponse
// @Router /certificates/{id}/download [get]
func (h *CertificateHandler) DownloadCertificate(c *gin.Context) {
	actor, ok := h.currentActor(c)
	if !ok {
		return
	}

	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	pdf, filename, err := h.certificateService.Download(c.Request.Context(), actor, id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "application/pdf", pdf)
}

// ShareCertificate bumps the share counter
// @Summary Record certificate share
// @Tags certificates
// @Produce json
// @Param id path uint true "Certificate ID"
// @Success 200 {object} SuccessResponse
// @Router /certificates/{id}/share [post]
func (h *CertificateHandler) ShareCertificate(c *gin.Context) {
	actor, ok := h.currentActor(c)
	if !ok {
		return
	}

	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	if err := h.certificateService.RecordShare(c.Request.Context(), actor, id); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Success: true, Message: "Share recorded"})
}

// RevokeCertificate revokes a certificate (admin only)
// @Summary Revoke certificate
// @Tags certificates
// @Produce json
// @Param id path uint true "Certificate ID"
// @Success 200 {object} SuccessResponse
// @Failure 403 {object} ErrorResponse
// @Router /certificates/{id}/revoke [post]
func (h *CertificateHandler) RevokeCertificate(c *gin.Context) {
	actor, ok := h.currentActor(c)
	if !ok {
		return
	}

	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	if err := h.certificateService.Revoke(c.Request.Context(), actor, id); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Success: true, Message: "Certificate revoked"})
}
