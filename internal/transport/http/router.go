package handlers

import (
	"sync"
	"time"

	"coursestream/internal/infrastructure/security"
	"coursestream/internal/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type Handlers struct {
	Auth         *AuthHandler
	Courses      *CourseHandler
	Quizzes      *QuizHandler
	Progress     *ProgressHandler
	Certificates *CertificateHandler
	QA           *QAHandler
	Users        *UserHandler
}

var registerOnce sync.Once

func NewRouter(h Handlers, tm *security.TokenManager, limiter *middleware.RateLimiter, origins []string) *gin.Engine {
	registerOnce.Do(func() {
		if err := RegisterValidators(); err != nil {
			panic(err)
		}
	})

	r := gin.Default()

	config := cors.DefaultConfig()
	config.AllowOrigins = origins
	config.AllowCredentials = true
	config.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	config.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"}
	if len(origins) == 0 {
		config.AllowOrigins = nil
		config.AllowAllOrigins = true
		config.AllowCredentials = false
	}
	r.Use(cors.New(config))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	authRequired := middleware.AuthMiddleware(tm)

	api := r.Group("/api/v1")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", limiter.Limit("register", 5, time.Hour), h.Auth.Register)
			auth.POST("/login", limiter.Limit("login", 5, 1*time.Minute), h.Auth.Login)
			auth.POST("/refresh", h.Auth.Refresh)
			auth.POST("/logout", h.Auth.Logout)
			auth.POST("/forgot-password", limiter.Limit("forgot_pass", 3, 5*time.Minute), h.Auth.ForgotPassword)
			auth.GET("/reset-password", h.Auth.CheckResetToken)
			auth.POST("/reset-password", h.Auth.ResetPassword)
			auth.GET("/me", authRequired, h.Auth.Me)
		}

		api.GET("/certificates/:code", h.Certificates.Verify)

		public := api.Group("/courses")
		public.Use(middleware.OptionalAuth(tm))
		{
			public.GET("", h.Courses.List)
			public.GET("/:id", h.Courses.GetOne)
		}

		me := api.Group("/me")
		me.Use(authRequired)
		{
			me.GET("/courses", h.Courses.MyCourses)
			me.GET("/certificates", h.Certificates.Mine)
		}

		course := api.Group("/courses/:id")
		course.Use(authRequired)
		{
			course.POST("/enroll", h.Courses.Enroll)
			course.DELETE("/enroll", h.Courses.Cancel)
			course.GET("/outline", h.Courses.Outline)
			course.GET("/videos", h.Courses.Videos)
			course.GET("/videos/:videoId", h.Courses.Video)
			course.GET("/pdfs/:pdfId", h.Courses.PDF)

			course.PUT("/videos/:videoId/progress", h.Progress.SavePosition)
			course.POST("/videos/:videoId/complete", h.Progress.MarkComplete)
			course.GET("/progress", h.Progress.Summary)
			course.GET("/progress/resume", h.Progress.Resume)
			course.GET("/progress/completed", h.Progress.Completed)

			course.GET("/videos/:videoId/questions", h.QA.List)
			course.POST("/videos/:videoId/questions", h.QA.Ask)
			course.POST("/videos/:videoId/questions/:questionId/replies", h.QA.Reply)

			course.GET("/quizzes/:quizId", h.Quizzes.Session)
			course.POST("/quizzes/:quizId/submit", limiter.Limit("quiz_submit", 10, time.Minute), h.Quizzes.Submit)
			course.GET("/quizzes/:quizId/attempts", h.Quizzes.Attempts)
			course.GET("/quizzes/:quizId/review", h.Quizzes.Review)

			course.GET("/certificate", h.Certificates.Status)
			course.POST("/certificate", h.Certificates.Issue)
		}

		admin := api.Group("/admin")
		admin.Use(authRequired, middleware.RequireAdmin())
		{
			admin.POST("/courses", h.Courses.Create)
			admin.PUT("/courses/:id", h.Courses.Update)
			admin.DELETE("/courses/:id", h.Courses.Delete)
			admin.POST("/courses/:id/enable", h.Courses.Enable)

			admin.POST("/courses/:id/videos", h.Courses.AddVideo)
			admin.PUT("/courses/:id/videos/:videoId", h.Courses.UpdateVideo)
			admin.DELETE("/courses/:id/videos/:videoId", h.Courses.DeleteVideo)
			admin.PUT("/courses/:id/video-order", h.Courses.ReorderVideos)

			admin.POST("/courses/:id/pdfs", h.Courses.AddPDF)
			admin.PUT("/courses/:id/pdfs/:pdfId", h.Courses.UpdatePDF)
			admin.DELETE("/courses/:id/pdfs/:pdfId", h.Courses.DeletePDF)

			admin.GET("/courses/:id/quizzes", h.Quizzes.List)
			admin.POST("/courses/:id/quizzes", h.Quizzes.Create)
			admin.GET("/courses/:id/quizzes/:quizId", h.Quizzes.Get)
			admin.PUT("/courses/:id/quizzes/:quizId", h.Quizzes.Update)
			admin.POST("/courses/:id/quizzes/:quizId/questions", h.Quizzes.AddQuestion)
			admin.PUT("/courses/:id/quizzes/:quizId/questions/:questionId", h.Quizzes.UpdateQuestion)
			admin.DELETE("/courses/:id/quizzes/:quizId/questions/:questionId", h.Quizzes.DeleteQuestion)
			admin.POST("/courses/:id/quizzes/:quizId/questions/:questionId/options", h.Quizzes.AddOption)
			admin.PUT("/courses/:id/quizzes/:quizId/questions/:questionId/options/:optionId", h.Quizzes.UpdateOption)
			admin.DELETE("/courses/:id/quizzes/:quizId/questions/:questionId/options/:optionId", h.Quizzes.DeleteOption)

			admin.GET("/users", h.Users.Search)
			admin.PUT("/users/:userId", h.Users.Update)
			admin.DELETE("/users/:userId", h.Users.Delete)

			admin.GET("/questions/pending", h.QA.Pending)
			admin.GET("/questions/pending/count", h.QA.CountPending)
			admin.PUT("/questions/:questionId/closed", h.QA.SetClosed)
		}
	}

	return r
}
