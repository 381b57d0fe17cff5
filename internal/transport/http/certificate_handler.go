package handlers

import (
	"net/http"

	"coursestream/internal/application/usecase"
	"coursestream/internal/infrastructure/logger"

	"github.com/gin-gonic/gin"
)

type CertificateHandler struct {
	useCase *usecase.CertificateUseCase
	log     *logger.Logger
}

func NewCertificateHandler(uc *usecase.CertificateUseCase, l *logger.Logger) *CertificateHandler {
	return &CertificateHandler{useCase: uc, log: l}
}

// GET /api/v1/courses/:id/certificate
func (h *CertificateHandler) Status(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	courseID, ok := uintParam(c, "id")
	if !ok {
		return
	}
	status, err := h.useCase.Status(c, actor, courseID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, status)
}

// POST /api/v1/courses/:id/certificate
func (h *CertificateHandler) Issue(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	courseID, ok := uintParam(c, "id")
	if !ok {
		return
	}
	cert, err := h.useCase.Issue(c, actor, courseID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, cert)
}

func (h *CertificateHandler) Mine(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	certs, err := h.useCase.Mine(c, actor.UserID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, certs)
}

// GET /api/v1/certificates/:code is public.
func (h *CertificateHandler) Verify(c *gin.Context) {
	cert, err := h.useCase.Verify(c, c.Param("code"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"valid":         true,
		"code":          cert.Code,
		"course":        cert.Course,
		"issued_at":     cert.IssuedAt,
		"average_score": cert.AverageScore,
	})
}
