package domain

// DefaultCertificateMinScore is the best-attempt percentage a quiz needs to
// count toward a certificate.
const DefaultCertificateMinScore = 70.0

type QuizStanding struct {
	QuizID    uint    `json:"quiz_id"`
	Title     string  `json:"title"`
	Section   string  `json:"section"`
	Attempts  int     `json:"attempts"`
	BestScore float64 `json:"best_score"`
	Passed    bool    `json:"passed"`
}

type Eligibility struct {
	Eligible        bool           `json:"eligible"`
	TotalVideos     int            `json:"total_videos"`
	VideosCompleted int            `json:"videos_completed"`
	VideosComplete  bool           `json:"videos_complete"`
	TotalQuizzes    int            `json:"total_quizzes"`
	QuizzesPassed   int            `json:"quizzes_passed"`
	QuizzesComplete bool           `json:"quizzes_complete"`
	AverageScore    float64        `json:"average_score"`
	Quizzes         []QuizStanding `json:"quizzes"`
}

// ComputeEligibility checks whether a learner has finished a course: every
// video completed and the best attempt of every active quiz at or above
// minScore. completed holds the ids of completed videos; ids outside videos
// are ignored.
func ComputeEligibility(videos []Video, completed map[uint]bool, quizzes []Quiz, attempts map[uint][]QuizAttempt, minScore float64) Eligibility {
	e := Eligibility{TotalVideos: len(videos), Quizzes: []QuizStanding{}}
	for _, v := range videos {
		if completed[v.ID] {
			e.VideosCompleted++
		}
	}
	e.VideosComplete = e.TotalVideos > 0 && e.VideosCompleted >= e.TotalVideos

	var sum float64
	for _, q := range quizzes {
		if !q.Active {
			continue
		}
		e.TotalQuizzes++

		standing := QuizStanding{QuizID: q.ID, Title: q.Title, Section: q.Section}
		for _, a := range attempts[q.ID] {
			standing.Attempts++
			if p := a.Percent(); p > standing.BestScore {
				standing.BestScore = p
			}
		}
		standing.Passed = standing.BestScore >= minScore
		if standing.Passed {
			e.QuizzesPassed++
		}
		sum += standing.BestScore
		e.Quizzes = append(e.Quizzes, standing)
	}

	if e.TotalQuizzes > 0 {
		e.AverageScore = sum / float64(e.TotalQuizzes)
	}
	e.QuizzesComplete = e.TotalQuizzes == 0 || e.QuizzesPassed >= e.TotalQuizzes
	e.Eligible = e.VideosComplete && e.QuizzesComplete
	return e
}
