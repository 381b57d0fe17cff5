package usecase

import (
	"context"
	"strings"
	"testing"

	"coursestream/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCertificateUseCase_Lifecycle(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.register(t, "alice")
	learner := e.register(t, "bob")
	course, videos := e.course(t)
	q, right, _ := e.quiz(t, course.ID, "Basics", 3)
	require.NoError(t, e.courses.Enroll(ctx, learner.UserID, course.ID))

	_, err := e.certs.Issue(ctx, learner, course.ID)
	assert.ErrorIs(t, err, domain.ErrNotEligible)

	status, err := e.certs.Status(ctx, learner, course.ID)
	require.NoError(t, err)
	assert.Nil(t, status.Certificate)
	require.NotNil(t, status.Eligibility)
	assert.False(t, status.Eligibility.Eligible)
	assert.Equal(t, 2, status.Eligibility.TotalVideos)
	assert.Equal(t, 1, status.Eligibility.TotalQuizzes)

	for _, v := range videos {
		_, err := e.progress.MarkComplete(ctx, learner, course.ID, v.ID)
		require.NoError(t, err)
	}
	status, err = e.certs.Status(ctx, learner, course.ID)
	require.NoError(t, err)
	require.Nil(t, status.Certificate, "quiz still pending")
	assert.True(t, status.Eligibility.VideosComplete)

	_, err = e.quizzes.Submit(ctx, learner, course.ID, q.ID, map[uint][]uint{q.Questions[0].ID: {right}})
	require.NoError(t, err)

	status, err = e.certs.Status(ctx, learner, course.ID)
	require.NoError(t, err)
	require.NotNil(t, status.Certificate, "passing the last quiz issues the certificate")
	cert := status.Certificate
	assert.True(t, strings.HasPrefix(cert.Code, "CERT-"))
	assert.Len(t, cert.Code, len("CERT-")+8)
	assert.Equal(t, 100.0, cert.AverageScore)
	assert.Equal(t, 2, cert.VideosCompleted)
	assert.Equal(t, 1, cert.QuizzesPassed)
	assert.NotEmpty(t, cert.Snapshot)

	again, err := e.certs.Issue(ctx, learner, course.ID)
	require.NoError(t, err)
	assert.Equal(t, cert.Code, again.Code)

	verified, err := e.certs.Verify(ctx, "  "+strings.ToLower(cert.Code)+" ")
	require.NoError(t, err)
	assert.Equal(t, learner.UserID, verified.UserID)
	require.NotNil(t, verified.Course)
	assert.Equal(t, "Go", verified.Course.Title)

	_, err = e.certs.Verify(ctx, "CERT-NOPE0000")
	assert.ErrorIs(t, err, domain.ErrCertificateNotFound)
	_, err = e.certs.Verify(ctx, " ")
	assert.ErrorIs(t, err, domain.ErrCertificateNotFound)

	mine, err := e.certs.Mine(ctx, learner.UserID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, cert.Code, mine[0].Code)
}

func TestCertificateUseCase_LowScoreBlocks(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.register(t, "alice")
	learner := e.register(t, "bob")
	course, videos := e.course(t)
	q, _, wrong := e.quiz(t, course.ID, "Basics", 1)
	require.NoError(t, e.courses.Enroll(ctx, learner.UserID, course.ID))

	for _, v := range videos {
		_, err := e.progress.MarkComplete(ctx, learner, course.ID, v.ID)
		require.NoError(t, err)
	}
	_, err := e.quizzes.Submit(ctx, learner, course.ID, q.ID, map[uint][]uint{q.Questions[0].ID: {wrong}})
	require.NoError(t, err)

	standing, err := e.certs.Eligibility(ctx, learner.UserID, course.ID)
	require.NoError(t, err)
	assert.False(t, standing.Eligible)
	require.Len(t, standing.Quizzes, 1)
	assert.Equal(t, 1, standing.Quizzes[0].Attempts)
	assert.Zero(t, standing.Quizzes[0].BestScore)

	_, err = e.certs.Issue(ctx, learner, course.ID)
	assert.ErrorIs(t, err, domain.ErrNotEligible)

	mine, err := e.certs.Mine(ctx, learner.UserID)
	require.NoError(t, err)
	assert.Empty(t, mine)
}

func TestCertificateUseCase_CourseWithoutVideos(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	admin := e.register(t, "alice")
	course, err := e.courses.Create(ctx, CourseInput{Title: "Empty"})
	require.NoError(t, err)

	_, err = e.certs.Issue(ctx, admin, course.ID)
	assert.ErrorIs(t, err, domain.ErrNotEligible)
}
