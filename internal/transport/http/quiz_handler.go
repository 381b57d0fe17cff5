package handlers

import (
	"net/http"

	"coursestream/internal/application/usecase"
	"coursestream/internal/domain"
	"coursestream/internal/infrastructure/logger"

	"github.com/gin-gonic/gin"
)

type QuizHandler struct {
	useCase *usecase.QuizUseCase
	log     *logger.Logger
}

func NewQuizHandler(uc *usecase.QuizUseCase, l *logger.Logger) *QuizHandler {
	return &QuizHandler{useCase: uc, log: l}
}

type quizReq struct {
	Title       string `json:"title" binding:"required,notblank,max=200"`
	Section     string `json:"section" binding:"required,notblank,max=100"`
	MaxAttempts int    `json:"max_attempts"`
	Active      *bool  `json:"active"`
}

func (r quizReq) input() usecase.QuizInput {
	return usecase.QuizInput{Title: r.Title, Section: r.Section, MaxAttempts: r.MaxAttempts, Active: r.Active}
}

type questionReq struct {
	Text  string              `json:"text" binding:"required,notblank"`
	Type  domain.QuestionType `json:"type" binding:"omitempty,oneof=single multiple"`
	Order *int                `json:"order"`
}

func (r questionReq) input() usecase.QuestionInput {
	return usecase.QuestionInput{Text: r.Text, Type: r.Type, Order: r.Order}
}

type optionReq struct {
	Text    string `json:"text" binding:"required,notblank"`
	Correct bool   `json:"correct"`
	Order   *int   `json:"order"`
}

func (r optionReq) input() usecase.OptionInput {
	return usecase.OptionInput{Text: r.Text, Correct: r.Correct, Order: r.Order}
}

// submitReq maps question ids to the selected option ids.
type submitReq struct {
	Answers map[uint][]uint `json:"answers" binding:"required"`
}

// quizPath reads the course and quiz ids shared by every quiz route.
func quizPath(c *gin.Context) (courseID, quizID uint, ok bool) {
	if courseID, ok = uintParam(c, "id"); !ok {
		return
	}
	quizID, ok = uintParam(c, "quizId")
	return
}

func questionPath(c *gin.Context) (courseID, quizID, questionID uint, ok bool) {
	if courseID, quizID, ok = quizPath(c); !ok {
		return
	}
	questionID, ok = uintParam(c, "questionId")
	return
}

// GET /api/v1/courses/:id/quizzes/:quizId
func (h *QuizHandler) Session(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	courseID, quizID, ok := quizPath(c)
	if !ok {
		return
	}
	session, err := h.useCase.Session(c, actor, courseID, quizID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, newSessionView(session))
}

// POST /api/v1/courses/:id/quizzes/:quizId/submit
func (h *QuizHandler) Submit(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	courseID, quizID, ok := quizPath(c)
	if !ok {
		return
	}
	var req submitReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	res, err := h.useCase.Submit(c, actor, courseID, quizID, req.Answers)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

func (h *QuizHandler) Attempts(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	courseID, quizID, ok := quizPath(c)
	if !ok {
		return
	}
	attempts, err := h.useCase.Attempts(c, actor, courseID, quizID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, attempts)
}

func (h *QuizHandler) Review(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	courseID, quizID, ok := quizPath(c)
	if !ok {
		return
	}
	review, err := h.useCase.Review(c, actor, courseID, quizID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, review)
}

// GET /api/v1/admin/courses/:id/quizzes
func (h *QuizHandler) List(c *gin.Context) {
	courseID, ok := uintParam(c, "id")
	if !ok {
		return
	}
	quizzes, err := h.useCase.Quizzes(c, courseID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	if quizzes == nil {
		quizzes = []domain.Quiz{}
	}
	c.JSON(http.StatusOK, quizzes)
}

func (h *QuizHandler) Get(c *gin.Context) {
	courseID, quizID, ok := quizPath(c)
	if !ok {
		return
	}
	quiz, err := h.useCase.Quiz(c, courseID, quizID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, quiz)
}

func (h *QuizHandler) Create(c *gin.Context) {
	courseID, ok := uintParam(c, "id")
	if !ok {
		return
	}
	var req quizReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	quiz, err := h.useCase.CreateQuiz(c, courseID, req.input())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, quiz)
}

func (h *QuizHandler) Update(c *gin.Context) {
	courseID, quizID, ok := quizPath(c)
	if !ok {
		return
	}
	var req quizReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	quiz, err := h.useCase.UpdateQuiz(c, courseID, quizID, req.input())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, quiz)
}

func (h *QuizHandler) AddQuestion(c *gin.Context) {
	courseID, quizID, ok := quizPath(c)
	if !ok {
		return
	}
	var req questionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	question, err := h.useCase.AddQuestion(c, courseID, quizID, req.input())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, question)
}

func (h *QuizHandler) UpdateQuestion(c *gin.Context) {
	courseID, quizID, questionID, ok := questionPath(c)
	if !ok {
		return
	}
	var req questionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	question, err := h.useCase.UpdateQuestion(c, courseID, quizID, questionID, req.input())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, question)
}

func (h *QuizHandler) DeleteQuestion(c *gin.Context) {
	courseID, quizID, questionID, ok := questionPath(c)
	if !ok {
		return
	}
	if err := h.useCase.DeleteQuestion(c, courseID, quizID, questionID); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *QuizHandler) AddOption(c *gin.Context) {
	courseID, quizID, questionID, ok := questionPath(c)
	if !ok {
		return
	}
	var req optionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	option, err := h.useCase.AddOption(c, courseID, quizID, questionID, req.input())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, option)
}

func (h *QuizHandler) UpdateOption(c *gin.Context) {
	courseID, quizID, questionID, ok := questionPath(c)
	if !ok {
		return
	}
	optionID, ok := uintParam(c, "optionId")
	if !ok {
		return
	}
	var req optionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	option, err := h.useCase.UpdateOption(c, courseID, quizID, questionID, optionID, req.input())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, option)
}

func (h *QuizHandler) DeleteOption(c *gin.Context) {
	courseID, quizID, questionID, ok := questionPath(c)
	if !ok {
		return
	}
	optionID, ok := uintParam(c, "optionId")
	if !ok {
		return
	}
	if err := h.useCase.DeleteOption(c, courseID, quizID, questionID, optionID); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}
