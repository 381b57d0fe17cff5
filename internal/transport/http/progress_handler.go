package handlers

import (
	"net/http"

	"coursestream/internal/application/usecase"
	"coursestream/internal/infrastructure/logger"

	"github.com/gin-gonic/gin"
)

type ProgressHandler struct {
	useCase *usecase.ProgressUseCase
	log     *logger.Logger
}

func NewProgressHandler(uc *usecase.ProgressUseCase, l *logger.Logger) *ProgressHandler {
	return &ProgressHandler{useCase: uc, log: l}
}

type positionReq struct {
	Position *float64 `json:"position" binding:"required"`
}

func videoPath(c *gin.Context) (courseID, videoID uint, ok bool) {
	if courseID, ok = uintParam(c, "id"); !ok {
		return
	}
	videoID, ok = uintParam(c, "videoId")
	return
}

// PUT /api/v1/courses/:id/videos/:videoId/progress
func (h *ProgressHandler) SavePosition(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	courseID, videoID, ok := videoPath(c)
	if !ok {
		return
	}
	var req positionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	p, err := h.useCase.SavePosition(c, actor, courseID, videoID, *req.Position)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// POST /api/v1/courses/:id/videos/:videoId/complete
func (h *ProgressHandler) MarkComplete(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	courseID, videoID, ok := videoPath(c)
	if !ok {
		return
	}
	p, err := h.useCase.MarkComplete(c, actor, courseID, videoID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *ProgressHandler) Summary(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	courseID, ok := uintParam(c, "id")
	if !ok {
		return
	}
	summary, err := h.useCase.Summary(c, actor, courseID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// Resume answers 204 when nothing was watched yet.
func (h *ProgressHandler) Resume(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	courseID, ok := uintParam(c, "id")
	if !ok {
		return
	}
	p, err := h.useCase.Resume(c, actor, courseID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	if p == nil {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *ProgressHandler) Completed(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	courseID, ok := uintParam(c, "id")
	if !ok {
		return
	}
	done, err := h.useCase.Completed(c, actor, courseID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, done)
}
