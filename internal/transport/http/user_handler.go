package handlers

import (
	"net/http"

	"coursestream/internal/application/usecase"
	"coursestream/internal/infrastructure/logger"

	"github.com/gin-gonic/gin"
)

// UserHandler serves account administration.
type UserHandler struct {
	useCase *usecase.UserAdminUseCase
	log     *logger.Logger
}

func NewUserHandler(uc *usecase.UserAdminUseCase, l *logger.Logger) *UserHandler {
	return &UserHandler{useCase: uc, log: l}
}

type updateUserReq struct {
	Email  string `json:"email" binding:"required,email"`
	Active *bool  `json:"active" binding:"required"`
}

// GET /api/v1/admin/users?q=
func (h *UserHandler) Search(c *gin.Context) {
	users, err := h.useCase.Search(c, c.Query("q"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

func (h *UserHandler) Update(c *gin.Context) {
	id, ok := uuidParam(c, "userId")
	if !ok {
		return
	}
	var req updateUserReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	user, err := h.useCase.Update(c, id, req.Email, *req.Active)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) Delete(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "userId")
	if !ok {
		return
	}
	if err := h.useCase.Delete(c, actor, id); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}
