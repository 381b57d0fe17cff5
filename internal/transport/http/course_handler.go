package handlers

import (
	"net/http"

	"coursestream/internal/application/usecase"
	"coursestream/internal/domain"
	"coursestream/internal/infrastructure/logger"
	"coursestream/internal/middleware"

	"github.com/gin-gonic/gin"
)

type CourseHandler struct {
	useCase *usecase.CourseUseCase
	log     *logger.Logger
}

func NewCourseHandler(uc *usecase.CourseUseCase, l *logger.Logger) *CourseHandler {
	return &CourseHandler{useCase: uc, log: l}
}

type courseReq struct {
	Title       string `json:"title" binding:"required,notblank,max=200"`
	Description string `json:"description"`
	Category    string `json:"category" binding:"max=100"`
	CoverURL    string `json:"cover_url" binding:"omitempty,url"`
}

func (r courseReq) input() usecase.CourseInput {
	return usecase.CourseInput{Title: r.Title, Description: r.Description, Category: r.Category, CoverURL: r.CoverURL}
}

type videoReq struct {
	Title           string `json:"title" binding:"required,notblank,max=200"`
	Description     string `json:"description"`
	URL             string `json:"url" binding:"required,url"`
	Section         string `json:"section" binding:"max=100"`
	Order           *int   `json:"order"`
	DurationSeconds int    `json:"duration_seconds" binding:"min=0"`
}

func (r videoReq) input() usecase.VideoInput {
	return usecase.VideoInput{
		Title:           r.Title,
		Description:     r.Description,
		URL:             r.URL,
		Section:         r.Section,
		Order:           r.Order,
		DurationSeconds: r.DurationSeconds,
	}
}

type pdfReq struct {
	Title   string `json:"title" binding:"required,notblank,max=200"`
	FileURL string `json:"file_url" binding:"required,url"`
	Section string `json:"section" binding:"max=100"`
	Order   *int   `json:"order"`
}

func (r pdfReq) input() usecase.PDFInput {
	return usecase.PDFInput{Title: r.Title, FileURL: r.FileURL, Section: r.Section, Order: r.Order}
}

type reorderReq struct {
	IDs []uint `json:"ids" binding:"required,min=1"`
}

// GET /api/v1/courses
// Administrators may pass status=all or status=disabled.
func (h *CourseHandler) List(c *gin.Context) {
	active := true
	filter := &active
	if actor, ok := middleware.Actor(c); ok && actor.IsAdmin() {
		switch c.Query("status") {
		case "all":
			filter = nil
		case "disabled":
			active = false
		}
	}

	page, err := h.useCase.List(c, c.Query("search"), c.Query("category"), filter, intQuery(c, "page", 1), intQuery(c, "size", 0))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// GET /api/v1/courses/:id
func (h *CourseHandler) GetOne(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	var actor *domain.Actor
	if a, ok := middleware.Actor(c); ok {
		actor = &a
	}

	course, err := h.useCase.Get(c, actor, id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	res := gin.H{"course": course}
	if actor != nil {
		enrolled, err := h.useCase.IsEnrolled(c, actor.UserID, id)
		if err != nil {
			respondError(c, h.log, err)
			return
		}
		res["enrolled"] = enrolled
	}
	c.JSON(http.StatusOK, res)
}

// GET /api/v1/courses/:id/outline
func (h *CourseHandler) Outline(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	course, outline, err := h.useCase.Outline(c, actor, id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"course": course, "sections": outline})
}

func (h *CourseHandler) Enroll(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	if err := h.useCase.Enroll(c, actor.UserID, id); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"enrolled": true})
}

func (h *CourseHandler) Cancel(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	if err := h.useCase.Cancel(c, actor.UserID, id); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"enrolled": false})
}

func (h *CourseHandler) MyCourses(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	courses, err := h.useCase.MyCourses(c, actor.UserID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, courses)
}

func (h *CourseHandler) Videos(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	videos, err := h.useCase.Videos(c, actor, id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, videos)
}

func (h *CourseHandler) Video(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	videoID, ok := uintParam(c, "videoId")
	if !ok {
		return
	}
	view, err := h.useCase.Video(c, actor, id, videoID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *CourseHandler) PDF(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	pdfID, ok := uintParam(c, "pdfId")
	if !ok {
		return
	}
	pdf, err := h.useCase.PDF(c, actor, id, pdfID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, pdf)
}

// POST /api/v1/admin/courses
func (h *CourseHandler) Create(c *gin.Context) {
	var req courseReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	course, err := h.useCase.Create(c, req.input())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, course)
}

func (h *CourseHandler) Update(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	var req courseReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	course, err := h.useCase.Update(c, id, req.input())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, course)
}

// DELETE /api/v1/admin/courses/:id only disables the course.
func (h *CourseHandler) Delete(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	if err := h.useCase.Disable(c, id); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *CourseHandler) Enable(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	if err := h.useCase.Enable(c, id); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *CourseHandler) AddVideo(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	var req videoReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	video, err := h.useCase.AddVideo(c, id, req.input())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, video)
}

func (h *CourseHandler) UpdateVideo(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	videoID, ok := uintParam(c, "videoId")
	if !ok {
		return
	}
	var req videoReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	video, err := h.useCase.UpdateVideo(c, id, videoID, req.input())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, video)
}

func (h *CourseHandler) DeleteVideo(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	videoID, ok := uintParam(c, "videoId")
	if !ok {
		return
	}
	if err := h.useCase.DeleteVideo(c, id, videoID); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CourseHandler) ReorderVideos(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	var req reorderReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := h.useCase.ReorderVideos(c, id, req.IDs); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *CourseHandler) AddPDF(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	var req pdfReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	pdf, err := h.useCase.AddPDF(c, id, req.input())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, pdf)
}

func (h *CourseHandler) UpdatePDF(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	pdfID, ok := uintParam(c, "pdfId")
	if !ok {
		return
	}
	var req pdfReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	pdf, err := h.useCase.UpdatePDF(c, id, pdfID, req.input())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, pdf)
}

func (h *CourseHandler) DeletePDF(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	pdfID, ok := uintParam(c, "pdfId")
	if !ok {
		return
	}
	if err := h.useCase.DeletePDF(c, id, pdfID); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}
