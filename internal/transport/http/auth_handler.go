package handlers

import (
	"net/http"
	"strconv"

	"coursestream/internal/application/usecase"
	"coursestream/internal/domain"
	"coursestream/internal/infrastructure/logger"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
)

const refreshCookie = "refresh_token"

type AuthHandler struct {
	useCase      *usecase.AuthUseCase
	log          *logger.Logger
	secureCookie bool
}

func NewAuthHandler(uc *usecase.AuthUseCase, l *logger.Logger, secureCookie bool) *AuthHandler {
	return &AuthHandler{useCase: uc, log: l, secureCookie: secureCookie}
}

type registerReq struct {
	Email    string `json:"email" binding:"required,email"`
	Username string `json:"username" binding:"required,notblank,max=50"`
	Password string `json:"password" binding:"required,min=6"`
	FullName string `json:"full_name" binding:"max=100"`
	Phone    string `json:"phone" binding:"max=20"`
}

type loginReq struct {
	Login    string `json:"login" binding:"required,notblank"`
	Password string `json:"password" binding:"required"`
}

type refreshReq struct {
	RefreshToken string `json:"refresh_token"`
}

type forgotReq struct {
	Email string `json:"email" binding:"required,email"`
}

type resetReq struct {
	Token           string `json:"token" binding:"required"`
	Password        string `json:"password" binding:"required,min=6"`
	ConfirmPassword string `json:"confirm_password" binding:"required"`
}

func (h *AuthHandler) setRefreshCookie(c *gin.Context, token string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(refreshCookie, token, maxAge, "/", "", h.secureCookie, true)
}

// refreshToken prefers the cookie and falls back to the JSON body.
func (h *AuthHandler) refreshToken(c *gin.Context) string {
	if token, err := c.Cookie(refreshCookie); err == nil && token != "" {
		return token
	}
	var req refreshReq
	_ = c.ShouldBindJSON(&req)
	return req.RefreshToken
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req registerReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	user, err := h.useCase.Register(c, usecase.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
		Phone:    req.Phone,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, user)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	user, tokens, err := h.useCase.Login(c, req.Login, req.Password)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	h.setRefreshCookie(c, tokens.RefreshToken, 7*24*3600)

	c.JSON(http.StatusOK, gin.H{
		"access_token":  tokens.AccessToken,
		"refresh_token": tokens.RefreshToken,
		"user":          user,
	})
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	token := h.refreshToken(c)
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Refresh token not found"})
		return
	}

	tokens, err := h.useCase.Refresh(c, token)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	h.setRefreshCookie(c, tokens.RefreshToken, 7*24*3600)

	c.JSON(http.StatusOK, tokens)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	if token := h.refreshToken(c); token != "" {
		_ = h.useCase.Logout(c, token)
	}

	h.setRefreshCookie(c, "", -1)

	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

func (h *AuthHandler) Me(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	user, err := h.useCase.Me(c, actor.UserID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// ForgotPassword answers the same way whether or not the email is known.
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req forgotReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	err := h.useCase.ForgotPassword(c, req.Email)
	if errors.Is(err, domain.ErrTooManyAttempts) {
		retry := h.useCase.RetryAfter(req.Email)
		c.Header("Retry-After", strconv.Itoa(retry))
		c.JSON(http.StatusTooManyRequests, gin.H{"error": err.Error(), "retry_after": retry})
		return
	}
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "If the email is registered, a reset link has been sent"})
}

func (h *AuthHandler) CheckResetToken(c *gin.Context) {
	if err := h.useCase.CheckResetToken(c, c.Query("token")); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"valid": true})
}

func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req resetReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	if err := h.useCase.ResetPassword(c, req.Token, req.Password, req.ConfirmPassword); err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password updated"})
}
