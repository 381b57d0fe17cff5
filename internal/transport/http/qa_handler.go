package handlers

import (
	"net/http"

	"coursestream/internal/application/usecase"
	"coursestream/internal/infrastructure/logger"

	"github.com/gin-gonic/gin"
)

type QAHandler struct {
	useCase *usecase.QAUseCase
	log     *logger.Logger
}

func NewQAHandler(uc *usecase.QAUseCase, l *logger.Logger) *QAHandler {
	return &QAHandler{useCase: uc, log: l}
}

type askReq struct {
	Title string `json:"title" binding:"required,notblank,max=200"`
	Body  string `json:"body" binding:"required,notblank"`
}

type replyReq struct {
	Body string `json:"body" binding:"required,notblank"`
}

type closeReq struct {
	Closed *bool `json:"closed" binding:"required"`
}

// GET /api/v1/courses/:id/videos/:videoId/questions
func (h *QAHandler) List(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	courseID, videoID, ok := videoPath(c)
	if !ok {
		return
	}
	questions, err := h.useCase.ListForVideo(c, actor, courseID, videoID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, questions)
}

func (h *QAHandler) Ask(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	courseID, videoID, ok := videoPath(c)
	if !ok {
		return
	}
	var req askReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	question, err := h.useCase.Ask(c, actor, courseID, videoID, req.Title, req.Body)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, question)
}

func (h *QAHandler) Reply(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	courseID, videoID, ok := videoPath(c)
	if !ok {
		return
	}
	questionID, ok := uintParam(c, "questionId")
	if !ok {
		return
	}
	var req replyReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	reply, err := h.useCase.Reply(c, actor, courseID, videoID, questionID, req.Body)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, reply)
}

// GET /api/v1/admin/questions/pending
func (h *QAHandler) Pending(c *gin.Context) {
	questions, err := h.useCase.Pending(c)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, questions)
}

func (h *QAHandler) CountPending(c *gin.Context) {
	count, err := h.useCase.CountPending(c)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": count})
}

func (h *QAHandler) SetClosed(c *gin.Context) {
	questionID, ok := uintParam(c, "questionId")
	if !ok {
		return
	}
	var req closeReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := h.useCase.SetClosed(c, questionID, *req.Closed); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"closed": *req.Closed})
}
