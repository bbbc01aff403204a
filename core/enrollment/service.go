package enrollment

import (
	"errors"
	"math"
	"time"

	"github.com/veta-academy/backend/core/catalog"
	"github.com/veta-academy/backend/core/platform"
)

var (
	// errors
	ErrNotFound        = errors.New("enrollment not found")
	ErrAlreadyEnrolled = errors.New("already enrolled in this course")
)

type (
	Repository interface {
		CreateEnrollment(e Enrollment) (Enrollment, error)
		GetEnrollment(userID, courseID string) (Enrollment, error)
		QueryEnrollmentsByUser(userID string) ([]Enrollment, error)
		DeleteEnrollmentsByID(ids ...string) error
	}

	// courses is the slice of the catalog the enrollment flow needs.
	courses interface {
		GetByID(id string) (catalog.Course, error)
		IncrementStudents(courseID string) error
	}

	// loyalty resolves the configured points economy; enrollments accrue no
	// points while it is unset.
	loyalty interface {
		Loyalty() (platform.LoyaltyConfig, error)
	}

	Service interface {
		// Enroll enrolls the user in the course at its current price, accrues
		// loyalty points per the configured earn rate (plus the welcome bonus on
		// a first enrollment) and bumps the course's student count.
		Enroll(userID, courseID string) (Enrollment, error)
		ByUser(userID string) ([]Enrollment, error)
		// PointsBalance sums the loyalty points across the user's enrollments.
		PointsBalance(userID string) (int, error)
		// Tier resolves the user's loyalty tier from their points balance.
		Tier(userID string) (platform.LoyaltyTier, bool, error)
	}

	service struct {
		repo    Repository
		courses courses
		loyalty loyalty
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository, courses courses, loyalty loyalty) Service {
	return &service{repo: repo, courses: courses, loyalty: loyalty}
}

func (svc *service) Enroll(userID, courseID string) (Enrollment, error) {
	crs, err := svc.courses.GetByID(courseID)
	if err != nil {
		return Enrollment{}, err
	}
	if _, err := svc.repo.GetEnrollment(userID, courseID); err == nil {
		return Enrollment{}, ErrAlreadyEnrolled
	} else if err != ErrNotFound {
		return Enrollment{}, err
	}

	var points int
	if lc, err := svc.loyalty.Loyalty(); err == nil {
		points = int(math.Floor(crs.Price * lc.EarnRate))
		prior, err := svc.repo.QueryEnrollmentsByUser(userID)
		if err != nil {
			return Enrollment{}, err
		}
		if len(prior) == 0 {
			points += lc.WelcomeBonus
		}
	}

	e := Enrollment{
		UserID:    userID,
		CourseID:  courseID,
		PricePaid: crs.Price,
		Points:    points,
		CreatedAt: time.Now().UTC(),
	}
	e, err = svc.repo.CreateEnrollment(e)
	if err != nil {
		return Enrollment{}, err
	}
	if err := svc.courses.IncrementStudents(courseID); err != nil {
		return Enrollment{}, err
	}
	return e, nil
}

func (svc *service) ByUser(userID string) ([]Enrollment, error) {
	return svc.repo.QueryEnrollmentsByUser(userID)
}

func (svc *service) PointsBalance(userID string) (int, error) {
	enrollments, err := svc.repo.QueryEnrollmentsByUser(userID)
	if err != nil {
		return 0, err
	}
	var points int
	for _, e := range enrollments {
		points += e.Points
	}
	return points, nil
}

func (svc *service) Tier(userID string) (platform.LoyaltyTier, bool, error) {
	points, err := svc.PointsBalance(userID)
	if err != nil {
		return platform.LoyaltyTier{}, false, err
	}
	lc, err := svc.loyalty.Loyalty()
	if err != nil {
		return platform.LoyaltyTier{}, false, nil
	}
	tier, ok := lc.TierFor(points)
	return tier, ok, nil
}
