package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intp(v int) *int { return &v }

func TestBuildOutline_SectionOrder(t *testing.T) {
	videos := []Video{
		{ID: 1, Section: "Basics", Order: intp(1)},
		{ID: 2, Section: "  ", Order: intp(1)},
		{ID: 3, Section: "Basics", Order: intp(2)},
	}
	pdfs := []MaterialPDF{
		{ID: 1, Section: "Extra"},
		{ID: 2, Section: "Basics", Order: intp(1)},
	}
	quizzes := []Quiz{
		{ID: 1, Section: "Wrap-up"},
		{ID: 2, Section: "Basics"},
	}

	outline := BuildOutline(videos, pdfs, quizzes)
	names := make([]string, 0, len(outline))
	for _, s := range outline {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{"Basics", DefaultSection, "Extra", "Wrap-up"}, names)
}

func TestBuildOutline_ItemOrder(t *testing.T) {
	videos := []Video{
		{ID: 5, Section: "A", Order: intp(2)},
		{ID: 4, Section: "A"},
		{ID: 3, Section: "A", Order: intp(1)},
		{ID: 1, Section: "A"},
	}
	pdfs := []MaterialPDF{
		{ID: 9, Section: "A", Order: intp(1)},
		{ID: 2, Section: "A"},
	}
	quizzes := []Quiz{{ID: 7, Section: "A"}}

	outline := BuildOutline(videos, pdfs, quizzes)
	require.Len(t, outline, 1)

	type key struct {
		kind ContentKind
		id   uint
	}
	var got []key
	for _, item := range outline[0].Items {
		got = append(got, key{item.Kind, item.ID})
	}
	assert.Equal(t, []key{
		{KindVideo, 3},
		{KindPDF, 9},
		{KindVideo, 5},
		{KindVideo, 1},
		{KindVideo, 4},
		{KindPDF, 2},
		{KindQuiz, 7},
	}, got)
}

func TestBuildOutline_OneQuizPerSection(t *testing.T) {
	quizzes := []Quiz{
		{ID: 3, Section: "A", Title: "first"},
		{ID: 1, Section: " A ", Title: "second"},
	}
	outline := BuildOutline(nil, nil, quizzes)
	require.Len(t, outline, 1)
	require.Len(t, outline[0].Items, 1)
	assert.Equal(t, "first", outline[0].Items[0].Title)
}

func TestBuildOutline_Empty(t *testing.T) {
	assert.Empty(t, BuildOutline(nil, nil, nil))
}

func TestOutline_Locate(t *testing.T) {
	outline := BuildOutline(
		[]Video{{ID: 1, Section: "Intro"}, {ID: 2, Section: "Deep dive"}},
		[]MaterialPDF{{ID: 1, Section: ""}},
		nil,
	)

	section, ok := outline.Locate(KindVideo, 2)
	assert.True(t, ok)
	assert.Equal(t, "Deep dive", section)

	section, ok = outline.Locate(KindPDF, 1)
	assert.True(t, ok)
	assert.Equal(t, DefaultSection, section)

	_, ok = outline.Locate(KindQuiz, 1)
	assert.False(t, ok)
}

func TestOutline_Items(t *testing.T) {
	outline := BuildOutline([]Video{{ID: 1, Section: "B"}, {ID: 2, Section: "A"}}, nil, nil)
	items := outline.Items()
	require.Len(t, items, 2)
	assert.Equal(t, uint(1), items[0].ID)
	assert.Equal(t, uint(2), items[1].ID)
}
