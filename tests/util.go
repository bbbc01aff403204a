package testutil

import (
	"testing"
	"time"

	"github.com/veta-academy/backend/core"
	"github.com/veta-academy/backend/core/catalog"
	"github.com/veta-academy/backend/core/platform"
	"github.com/veta-academy/backend/core/user"
)

func CreateUser(
	t *testing.T,
	repo user.Repository,
	name, uname, email, pwd string,
	roles []string,
	isActive bool,
	createdAt ...time.Time,
) user.User {
	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	usr := user.User{
		Name:      name,
		Username:  uname,
		Email:     email,
		Roles:     roles,
		IsActive:  isActive,
		CreatedAt: tstamp,
		UpdatedAt: tstamp,
	}
	if pwd != "" {
		if err := usr.SetPassword(pwd); err != nil {
			t.Fatalf("CreateUser() failed: %v", err)
		}
	}
	usr, err := repo.CreateUser(usr)
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	return usr
}

func CreateCourse(
	t *testing.T,
	repo catalog.Repository,
	title, instructor, area, level, duration string,
	price float64,
) catalog.Course {
	now := time.Now().UTC()
	course, err := repo.CreateCourse(catalog.Course{
		Title:      title,
		Slug:       core.Slugify(title),
		Instructor: instructor,
		Area:       area,
		Level:      level,
		Duration:   duration,
		Price:      price,
		CreatedAt:  now,
		UpdatedAt:  now,
	})
	if err != nil {
		t.Fatalf("CreateCourse() failed: %v", err)
	}
	return course
}

func CreateArea(t *testing.T, repo platform.Repository, name string, isActive bool) platform.Area {
	now := time.Now().UTC()
	area, err := repo.CreateArea(platform.Area{
		Slug:      core.Slugify(name),
		Name:      name,
		IsActive:  isActive,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("CreateArea() failed: %v", err)
	}
	return area
}
