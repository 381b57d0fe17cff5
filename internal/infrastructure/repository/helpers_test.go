package repository

import (
	"context"
	"testing"

	"coursestream/internal/domain"
	"coursestream/internal/testutil"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newDB(t *testing.T) *gorm.DB {
	db := testutil.NewDB(t)
	require.NoError(t, Migrate(db))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, username string) *domain.User {
	u := &domain.User{Username: username, Email: username + "@example.com", Password: "x", Role: domain.RoleUser, Active: true}
	require.NoError(t, NewUserRepository(db).Create(context.Background(), u))
	return u
}

func seedCourse(t *testing.T, db *gorm.DB, title string) *domain.Course {
	c := &domain.Course{Title: title, Active: true}
	require.NoError(t, db.Create(c).Error)
	return c
}

func intp(v int) *int { return &v }
