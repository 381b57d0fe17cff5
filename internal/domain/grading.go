package domain

import (
	"math"
	"sort"
)

// DefaultPassThreshold is the percentage an attempt needs to be marked passed.
const DefaultPassThreshold = 80

type Grade struct {
	Correct int
	Total   int
	Percent int
	Passed  bool
	// Results holds per-question correctness keyed by question id.
	Results map[uint]bool
	Answers []QuizAnswer
}

// GradeAttempt scores selections (question id -> selected option ids) against
// the questions of quiz. Answers are returned without an attempt id.
func GradeAttempt(quiz *Quiz, selections map[uint][]uint, passThreshold int) Grade {
	g := Grade{
		Total:   len(quiz.Questions),
		Results: make(map[uint]bool, len(quiz.Questions)),
	}

	for _, q := range quiz.Questions {
		selected := idSet(selections[q.ID])
		ok := QuestionCorrect(q, selected)
		g.Results[q.ID] = ok
		if ok {
			g.Correct++
		}

		if len(selected) == 0 {
			g.Answers = append(g.Answers, QuizAnswer{QuestionID: q.ID, Correct: ok})
			continue
		}

		options := make(map[uint]QuizOption, len(q.Options))
		for _, o := range q.Options {
			options[o.ID] = o
		}
		for _, id := range sortedIDs(selected) {
			o, known := options[id]
			if !known {
				continue
			}
			optionID := o.ID
			g.Answers = append(g.Answers, QuizAnswer{QuestionID: q.ID, OptionID: &optionID, Correct: o.Correct})
		}
	}

	g.Percent = Percent(g.Correct, g.Total)
	g.Passed = g.Percent >= passThreshold
	return g
}

// QuestionCorrect reports whether selected is exactly the set of correct
// options. Single-choice questions also need exactly one selection.
func QuestionCorrect(q QuizQuestion, selected map[uint]struct{}) bool {
	if q.Type == QuestionSingle && len(selected) != 1 {
		return false
	}
	correct := q.CorrectOptionIDs()
	if len(selected) != len(correct) {
		return false
	}
	for id := range selected {
		if _, ok := correct[id]; !ok {
			return false
		}
	}
	return true
}

// Percent rounds correct/total to a whole percentage.
func Percent(correct, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(correct) * 100 / float64(total)))
}

func idSet(ids []uint) map[uint]struct{} {
	set := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

func sortedIDs(set map[uint]struct{}) []uint {
	ids := make([]uint, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
