package catalog

import (
	"errors"
	"time"

	"github.com/veta-academy/backend/core"
)

var (
	// errors
	ErrNotFound   = errors.New("course not found")
	ErrSlugExists = errors.New("a course with this title already exists")
)

type (
	Repository interface {
		CheckCourseSlugUniqueness(slug string, excludedCourses ...Course) error
		CreateCourse(c Course) (Course, error)
		QueryAllCourses() ([]Course, error)
		GetCourseByID(id string) (Course, error)
		GetCourseBySlug(slug string) (Course, error)
		UpdateCourse(c Course) (Course, error)
		DeleteCoursesByID(ids ...string) error
		SetCourseRating(id string, rating float64, count int) error
		IncrementCourseStudents(id string) error

		// Curated lists; empty when no explicit curation was made.
		QueryCuratedCourses(list string) ([]Course, error)
		SetCuratedCourses(list string, ids []string) error

		// ToggleFavorite flips set membership and reports whether the course is
		// now a favorite; the flip is a single atomic operation.
		ToggleFavorite(owner, courseID string) (bool, error)
		QueryFavoriteIDs(owner string) ([]string, error)
	}

	Service interface {
		CheckSlugUniqueness(slug string, exclCourses ...Course) error
		Create(nc NewCourse) (Course, error)
		QueryAll() ([]Course, error)
		GetByID(id string) (Course, error)
		GetBySlug(slug string) (Course, error)
		// Filter applies AND operation on available QueryFilter fields;
		// QueryFilter.Search does a case-insensitive match on one of
		// Course.Title or Course.Instructor.
		Filter(filter QueryFilter) ([]Course, error)
		Update(id string, uc UpdateCourse) (Course, error)
		Delete(ids ...string) error

		ToggleFavorite(owner, courseID string) (bool, error)
		Favorites(owner string) ([]Course, error)

		Featured() ([]Course, error)
		Popular() ([]Course, error)
		SetFeatured(ids []string) error
		SetPopular(ids []string) error

		SetRating(courseID string, rating float64, count int) error
		IncrementStudents(courseID string) error
	}

	service struct {
		repo Repository
	}
)

// Curated list names.
const (
	curatedFeatured = "featured"
	curatedPopular  = "popular"
)

var _ Service = (*service)(nil)

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (svc *service) CheckSlugUniqueness(slug string, exclCourses ...Course) error {
	if err := svc.repo.CheckCourseSlugUniqueness(slug, exclCourses...); err != nil {
		if err == ErrSlugExists {
			return core.NewValidationError(err, core.FieldError{Field: "title", Error: err.Error()})
		}
		return err
	}
	return nil
}

func (svc *service) Create(nc NewCourse) (Course, error) {
	now := time.Now().UTC()
	crs := Course{
		Title:         nc.Title,
		Slug:          core.Slugify(nc.Title),
		Description:   nc.Description,
		Instructor:    nc.Instructor,
		Price:         nc.Price,
		OriginalPrice: nc.OriginalPrice,
		Area:          nc.Area,
		Level:         nc.Level,
		Duration:      nc.Duration,
		Featured:      nc.Featured,
		Popular:       nc.Popular,
		New:           nc.New,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	return svc.repo.CreateCourse(crs)
}

func (svc *service) QueryAll() ([]Course, error) {
	return svc.repo.QueryAllCourses()
}

func (svc *service) GetByID(id string) (Course, error) {
	return svc.repo.GetCourseByID(id)
}

func (svc *service) GetBySlug(slug string) (Course, error) {
	return svc.repo.GetCourseBySlug(core.CleanString(slug, true /* lower */))
}

func (svc *service) Filter(filter QueryFilter) ([]Course, error) {
	courses, err := svc.repo.QueryAllCourses()
	if err != nil {
		return nil, err
	}
	return filter.Apply(courses), nil
}

func (svc *service) Update(id string, uc UpdateCourse) (Course, error) {
	orig, err := svc.repo.GetCourseByID(id)
	if err != nil {
		return Course{}, err
	}

	crs := orig
	crs.Title = uc.Title
	crs.Slug = core.Slugify(uc.Title)
	crs.Instructor = uc.Instructor
	crs.Area = uc.Area
	crs.Level = uc.Level
	if uc.Description != nil {
		crs.Description = *uc.Description
	}
	if uc.Price != nil {
		crs.Price = *uc.Price
	}
	if uc.OriginalPrice != nil {
		crs.OriginalPrice = *uc.OriginalPrice
	}
	if uc.Duration != nil {
		crs.Duration = *uc.Duration
	}
	if uc.Featured != nil {
		crs.Featured = *uc.Featured
	}
	if uc.Popular != nil {
		crs.Popular = *uc.Popular
	}
	if uc.New != nil {
		crs.New = *uc.New
	}
	crs.UpdatedAt = time.Now().UTC()

	return svc.repo.UpdateCourse(crs)
}

func (svc *service) Delete(ids ...string) error {
	return svc.repo.DeleteCoursesByID(ids...)
}

func (svc *service) ToggleFavorite(owner, courseID string) (bool, error) {
	if _, err := svc.repo.GetCourseByID(courseID); err != nil {
		return false, err
	}
	return svc.repo.ToggleFavorite(owner, courseID)
}

func (svc *service) Favorites(owner string) ([]Course, error) {
	ids, err := svc.repo.QueryFavoriteIDs(owner)
	if err != nil {
		return nil, err
	}
	courses := make([]Course, 0, len(ids))
	for _, id := range ids {
		crs, err := svc.repo.GetCourseByID(id)
		if err == ErrNotFound { // course deleted since; skip
			continue
		} else if err != nil {
			return nil, err
		}
		courses = append(courses, crs)
	}
	return courses, nil
}

// Featured prefers the explicitly curated list; when none was curated it
// falls back to courses carrying the featured flag.
func (svc *service) Featured() ([]Course, error) {
	return svc.curatedOrFlagged(curatedFeatured, func(c Course) bool { return c.Featured })
}

// Popular prefers the explicitly curated list; when none was curated it
// falls back to courses carrying the popular flag.
func (svc *service) Popular() ([]Course, error) {
	return svc.curatedOrFlagged(curatedPopular, func(c Course) bool { return c.Popular })
}

func (svc *service) curatedOrFlagged(list string, flagged func(Course) bool) ([]Course, error) {
	curated, err := svc.repo.QueryCuratedCourses(list)
	if err != nil {
		return nil, err
	}
	if len(curated) > 0 {
		return curated, nil
	}

	all, err := svc.repo.QueryAllCourses()
	if err != nil {
		return nil, err
	}
	courses := make([]Course, 0, len(all))
	for _, c := range all {
		if flagged(c) {
			courses = append(courses, c)
		}
	}
	return courses, nil
}

func (svc *service) SetFeatured(ids []string) error {
	return svc.repo.SetCuratedCourses(curatedFeatured, ids)
}

func (svc *service) SetPopular(ids []string) error {
	return svc.repo.SetCuratedCourses(curatedPopular, ids)
}

func (svc *service) SetRating(courseID string, rating float64, count int) error {
	return svc.repo.SetCourseRating(courseID, rating, count)
}

func (svc *service) IncrementStudents(courseID string) error {
	return svc.repo.IncrementCourseStudents(courseID)
}
