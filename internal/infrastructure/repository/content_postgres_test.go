package repository

import (
	"context"
	"testing"

	"coursestream/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContentRepository_VideosOrderAndReorder(t *testing.T) {
	db := newDB(t)
	repo := NewContentRepository(db)
	ctx := context.Background()
	course := seedCourse(t, db, "Go")
	other := seedCourse(t, db, "Other")

	v1 := &domain.Video{CourseID: course.ID, Title: "one", URL: "u1"}
	v2 := &domain.Video{CourseID: course.ID, Title: "two", URL: "u2", Order: intp(2)}
	v3 := &domain.Video{CourseID: course.ID, Title: "three", URL: "u3", Order: intp(1)}
	foreign := &domain.Video{CourseID: other.ID, Title: "foreign", URL: "u4", Order: intp(7)}
	for _, v := range []*domain.Video{v1, v2, v3, foreign} {
		require.NoError(t, repo.CreateVideo(ctx, v))
	}

	videos, err := repo.Videos(ctx, course.ID)
	require.NoError(t, err)
	require.Len(t, videos, 3)
	assert.Equal(t, []string{"three", "two", "one"}, []string{videos[0].Title, videos[1].Title, videos[2].Title})

	require.NoError(t, repo.ReorderVideos(ctx, course.ID, []uint{v1.ID, foreign.ID, v2.ID}))

	got, err := repo.GetVideo(ctx, v1.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, *got.Order)
	got, err = repo.GetVideo(ctx, v2.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, *got.Order)
	got, err = repo.GetVideo(ctx, foreign.ID)
	require.NoError(t, err)
	assert.Equal(t, 7, *got.Order)
}

func TestContentRepository_DeleteVideo(t *testing.T) {
	db := newDB(t)
	repo := NewContentRepository(db)
	ctx := context.Background()
	course := seedCourse(t, db, "Go")
	u := seedUser(t, db, "ana")

	v := &domain.Video{CourseID: course.ID, Title: "one", URL: "u1"}
	require.NoError(t, repo.CreateVideo(ctx, v))
	require.NoError(t, db.Create(&domain.VideoProgress{UserID: u.ID, CourseID: course.ID, VideoID: v.ID, Completed: true}).Error)

	require.NoError(t, repo.DeleteVideo(ctx, v.ID))
	_, err := repo.GetVideo(ctx, v.ID)
	assert.ErrorIs(t, err, domain.ErrVideoNotFound)

	var count int64
	require.NoError(t, db.Model(&domain.VideoProgress{}).Count(&count).Error)
	assert.Zero(t, count)

	assert.ErrorIs(t, repo.DeleteVideo(ctx, v.ID), domain.ErrVideoNotFound)
}

func TestContentRepository_PDFs(t *testing.T) {
	db := newDB(t)
	repo := NewContentRepository(db)
	ctx := context.Background()
	course := seedCourse(t, db, "Go")

	p := &domain.MaterialPDF{CourseID: course.ID, Title: "Slides", FileURL: "https://files/slides.pdf", Section: "Intro"}
	require.NoError(t, repo.CreatePDF(ctx, p))

	p.Title = "Slides v2"
	require.NoError(t, repo.UpdatePDF(ctx, p))

	pdfs, err := repo.PDFs(ctx, course.ID)
	require.NoError(t, err)
	require.Len(t, pdfs, 1)
	assert.Equal(t, "Slides v2", pdfs[0].Title)

	require.NoError(t, repo.DeletePDF(ctx, p.ID))
	_, err = repo.GetPDF(ctx, p.ID)
	assert.ErrorIs(t, err, domain.ErrPDFNotFound)
}
