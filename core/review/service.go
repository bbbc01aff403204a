package review

import (
	"errors"
	"time"

	"github.com/veta-academy/backend/core/catalog"
)

var (
	// errors
	ErrNotFound = errors.New("review not found")
)

type (
	Repository interface {
		CreateReview(r Review) (Review, error)
		QueryAllReviews() ([]Review, error)
		GetReviewByID(id string) (Review, error)
		// QueryReviewsByCourse returns the course's reviews in creation order,
		// optionally restricted to approved ones.
		QueryReviewsByCourse(courseID string, approvedOnly bool) ([]Review, error)
		SetReviewApproved(id string, approved bool) (Review, error)
		DeleteReviewsByID(ids ...string) error
	}

	// courseRatings is the slice of the catalog the review moderation needs.
	courseRatings interface {
		GetByID(id string) (catalog.Course, error)
		SetRating(courseID string, rating float64, count int) error
	}

	Service interface {
		// Create stores an unapproved review pending moderation.
		Create(nr NewReview) (Review, error)
		QueryAll() ([]Review, error)
		GetByID(id string) (Review, error)
		// ByCourse lists a course's approved reviews.
		ByCourse(courseID string) ([]Review, error)
		// Approve publishes the review and refreshes the course's average rating.
		Approve(id string) (Review, error)
		Delete(ids ...string) error
	}

	service struct {
		repo    Repository
		courses courseRatings
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository, courses courseRatings) Service {
	return &service{repo: repo, courses: courses}
}

func (svc *service) Create(nr NewReview) (Review, error) {
	if _, err := svc.courses.GetByID(nr.CourseID); err != nil {
		return Review{}, err
	}
	r := Review{
		CourseID:  nr.CourseID,
		Author:    nr.Author,
		Rating:    nr.Rating,
		Comment:   nr.Comment,
		CreatedAt: time.Now().UTC(),
	}
	return svc.repo.CreateReview(r)
}

func (svc *service) QueryAll() ([]Review, error) {
	return svc.repo.QueryAllReviews()
}

func (svc *service) GetByID(id string) (Review, error) {
	return svc.repo.GetReviewByID(id)
}

func (svc *service) ByCourse(courseID string) ([]Review, error) {
	return svc.repo.QueryReviewsByCourse(courseID, true /* approvedOnly */)
}

func (svc *service) Approve(id string) (Review, error) {
	r, err := svc.repo.SetReviewApproved(id, true)
	if err != nil {
		return Review{}, err
	}
	if err := svc.refreshCourseRating(r.CourseID); err != nil {
		return Review{}, err
	}
	return r, nil
}

func (svc *service) Delete(ids ...string) error {
	courseIDs := make(map[string]bool, len(ids))
	for _, id := range ids {
		if r, err := svc.repo.GetReviewByID(id); err == nil && r.Approved {
			courseIDs[r.CourseID] = true
		}
	}
	if err := svc.repo.DeleteReviewsByID(ids...); err != nil {
		return err
	}
	for courseID := range courseIDs {
		if err := svc.refreshCourseRating(courseID); err != nil {
			return err
		}
	}
	return nil
}

// refreshCourseRating recomputes the average over approved reviews and pushes
// it onto the course record.
func (svc *service) refreshCourseRating(courseID string) error {
	reviews, err := svc.repo.QueryReviewsByCourse(courseID, true /* approvedOnly */)
	if err != nil {
		return err
	}
	var rating float64
	if len(reviews) > 0 {
		var sum int
		for _, r := range reviews {
			sum += r.Rating
		}
		rating = float64(sum) / float64(len(reviews))
	}
	return svc.courses.SetRating(courseID, rating, len(reviews))
}
