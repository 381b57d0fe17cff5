package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeEligibility(t *testing.T) {
	videos := []Video{{ID: 1}, {ID: 2}}
	quizzes := []Quiz{{ID: 10, Title: "Intro", Active: true}, {ID: 11, Title: "Final", Active: true}}

	tests := []struct {
		name         string
		completed    map[uint]bool
		attempts     map[uint][]QuizAttempt
		wantEligible bool
		wantAverage  float64
		wantPassed   int
	}{
		{
			name:      "all done",
			completed: map[uint]bool{1: true, 2: true},
			attempts: map[uint][]QuizAttempt{
				10: {{Score: 2, TotalQuestions: 4}, {Score: 4, TotalQuestions: 4}},
				11: {{Score: 7, TotalQuestions: 10}},
			},
			wantEligible: true, wantAverage: 85, wantPassed: 2,
		},
		{
			name:      "missing video",
			completed: map[uint]bool{1: true},
			attempts: map[uint][]QuizAttempt{
				10: {{Score: 4, TotalQuestions: 4}},
				11: {{Score: 4, TotalQuestions: 4}},
			},
			wantEligible: false, wantAverage: 100, wantPassed: 2,
		},
		{
			name:      "quiz below min score",
			completed: map[uint]bool{1: true, 2: true},
			attempts: map[uint][]QuizAttempt{
				10: {{Score: 4, TotalQuestions: 4}},
				11: {{Score: 6, TotalQuestions: 10}},
			},
			wantEligible: false, wantAverage: 80, wantPassed: 1,
		},
		{
			name:         "quiz never attempted",
			completed:    map[uint]bool{1: true, 2: true},
			attempts:     map[uint][]QuizAttempt{10: {{Score: 1, TotalQuestions: 1}}},
			wantEligible: false, wantAverage: 50, wantPassed: 1,
		},
		{
			name:         "stale completed ids are ignored",
			completed:    map[uint]bool{1: true, 99: true},
			attempts:     nil,
			wantEligible: false, wantAverage: 0, wantPassed: 0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := ComputeEligibility(videos, tt.completed, quizzes, tt.attempts, DefaultCertificateMinScore)
			assert.Equal(t, tt.wantEligible, e.Eligible)
			assert.InDelta(t, tt.wantAverage, e.AverageScore, 0.001)
			assert.Equal(t, tt.wantPassed, e.QuizzesPassed)
			assert.Equal(t, 2, e.TotalQuizzes)
		})
	}
}

func TestComputeEligibility_NoQuizzes(t *testing.T) {
	e := ComputeEligibility([]Video{{ID: 1}}, map[uint]bool{1: true}, nil, nil, DefaultCertificateMinScore)
	assert.True(t, e.QuizzesComplete)
	assert.True(t, e.Eligible)
	assert.Zero(t, e.AverageScore)
}

func TestComputeEligibility_NoVideos(t *testing.T) {
	e := ComputeEligibility(nil, nil, nil, nil, DefaultCertificateMinScore)
	assert.False(t, e.VideosComplete)
	assert.False(t, e.Eligible)
}

func TestComputeEligibility_InactiveQuizIgnored(t *testing.T) {
	quizzes := []Quiz{{ID: 1, Active: true}, {ID: 2, Active: false}}
	attempts := map[uint][]QuizAttempt{1: {{Score: 3, TotalQuestions: 3}}}

	e := ComputeEligibility([]Video{{ID: 1}}, map[uint]bool{1: true}, quizzes, attempts, DefaultCertificateMinScore)
	assert.Equal(t, 1, e.TotalQuizzes)
	assert.True(t, e.Eligible)
	require.Len(t, e.Quizzes, 1)
	assert.Equal(t, uint(1), e.Quizzes[0].QuizID)
}

func TestComputeEligibility_EmptyAttemptCountsAsZero(t *testing.T) {
	quizzes := []Quiz{{ID: 1, Active: true}}
	attempts := map[uint][]QuizAttempt{1: {{Score: 0, TotalQuestions: 0}}}

	e := ComputeEligibility([]Video{{ID: 1}}, map[uint]bool{1: true}, quizzes, attempts, DefaultCertificateMinScore)
	assert.False(t, e.QuizzesComplete)
	assert.Equal(t, 1, e.Quizzes[0].Attempts)
}
