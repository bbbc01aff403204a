package review

import (
	"strconv"
	"testing"

	"github.com/veta-academy/backend/core/catalog"
)

type fakeRepo struct {
	reviews []Review
}

func (r *fakeRepo) CreateReview(rv Review) (Review, error) {
	rv.ID = "r" + strconv.Itoa(len(r.reviews)+1)
	r.reviews = append(r.reviews, rv)
	return rv, nil
}

func (r *fakeRepo) QueryAllReviews() ([]Review, error) { return r.reviews, nil }

func (r *fakeRepo) GetReviewByID(id string) (Review, error) {
	for _, rv := range r.reviews {
		if rv.ID == id {
			return rv, nil
		}
	}
	return Review{}, ErrNotFound
}

func (r *fakeRepo) QueryReviewsByCourse(courseID string, approvedOnly bool) ([]Review, error) {
	var out []Review
	for _, rv := range r.reviews {
		if rv.CourseID != courseID {
			continue
		}
		if approvedOnly && !rv.Approved {
			continue
		}
		out = append(out, rv)
	}
	return out, nil
}

func (r *fakeRepo) SetReviewApproved(id string, approved bool) (Review, error) {
	for i := range r.reviews {
		if r.reviews[i].ID == id {
			r.reviews[i].Approved = approved
			return r.reviews[i], nil
		}
	}
	return Review{}, ErrNotFound
}

func (r *fakeRepo) DeleteReviewsByID(ids ...string) error {
	for _, id := range ids {
		for i := range r.reviews {
			if r.reviews[i].ID == id {
				r.reviews = append(r.reviews[:i], r.reviews[i+1:]...)
				break
			}
		}
	}
	return nil
}

type fakeCourses struct {
	courses map[string]catalog.Course
}

func (f *fakeCourses) GetByID(id string) (catalog.Course, error) {
	if c, ok := f.courses[id]; ok {
		return c, nil
	}
	return catalog.Course{}, catalog.ErrNotFound
}

func (f *fakeCourses) SetRating(courseID string, rating float64, count int) error {
	c, ok := f.courses[courseID]
	if !ok {
		return catalog.ErrNotFound
	}
	c.Rating = rating
	c.RatingCount = count
	f.courses[courseID] = c
	return nil
}

func newTestService() (Service, *fakeRepo, *fakeCourses) {
	repo := &fakeRepo{}
	courses := &fakeCourses{courses: map[string]catalog.Course{
		"c1": {ID: "c1", Title: "Flotación de Minerales"},
	}}
	return NewService(repo, courses), repo, courses
}

func TestNewReview_Validate(t *testing.T) {
	nr := NewReview{CourseID: "c1", Author: "  Rosa  ", Rating: 5}
	if err := nr.Validate(); err != nil {
		t.Fatalf("Validate(): %v", err)
	}
	if nr.Author != "Rosa" {
		t.Errorf("Author = %q", nr.Author)
	}

	for _, rating := range []int{0, 6, -1} {
		nr := NewReview{CourseID: "c1", Author: "Rosa", Rating: rating}
		if err := nr.Validate(); err == nil {
			t.Errorf("Validate() accepted rating %d", rating)
		}
	}
}

func TestModeration(t *testing.T) {
	svc, _, courses := newTestService()

	if _, err := svc.Create(NewReview{CourseID: "nope", Author: "Rosa", Rating: 5}); err != catalog.ErrNotFound {
		t.Errorf("Create(unknown course) error = %v; want %v", err, catalog.ErrNotFound)
	}

	first, err := svc.Create(NewReview{CourseID: "c1", Author: "Rosa", Rating: 5, Comment: "Excelente curso"})
	if err != nil {
		t.Fatalf("Create(): %v", err)
	}
	if first.Approved {
		t.Error("Create() published the review without moderation")
	}

	// pending reviews stay hidden
	visible, err := svc.ByCourse("c1")
	if err != nil {
		t.Fatalf("ByCourse(): %v", err)
	}
	if len(visible) != 0 {
		t.Errorf("ByCourse() = %v before approval; want empty", visible)
	}
	if courses.courses["c1"].RatingCount != 0 {
		t.Error("rating touched before approval")
	}

	if _, err := svc.Approve(first.ID); err != nil {
		t.Fatalf("Approve(): %v", err)
	}
	if got := courses.courses["c1"]; got.Rating != 5 || got.RatingCount != 1 {
		t.Errorf("rating = %v (%d); want 5 (1)", got.Rating, got.RatingCount)
	}

	second, _ := svc.Create(NewReview{CourseID: "c1", Author: "Pedro", Rating: 2})
	if _, err := svc.Approve(second.ID); err != nil {
		t.Fatalf("Approve(): %v", err)
	}
	if got := courses.courses["c1"]; got.Rating != 3.5 || got.RatingCount != 2 {
		t.Errorf("rating = %v (%d); want 3.5 (2)", got.Rating, got.RatingCount)
	}

	// deleting an approved review recomputes the average
	if err := svc.Delete(second.ID); err != nil {
		t.Fatalf("Delete(): %v", err)
	}
	if got := courses.courses["c1"]; got.Rating != 5 || got.RatingCount != 1 {
		t.Errorf("rating after delete = %v (%d); want 5 (1)", got.Rating, got.RatingCount)
	}

	if err := svc.Delete(first.ID); err != nil {
		t.Fatalf("Delete(): %v", err)
	}
	if got := courses.courses["c1"]; got.Rating != 0 || got.RatingCount != 0 {
		t.Errorf("rating after last delete = %v (%d); want 0 (0)", got.Rating, got.RatingCount)
	}
}
