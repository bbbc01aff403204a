package inmemdb

import (
	"github.com/google/uuid"

	"github.com/veta-academy/backend/core/review"
)

type reviewRepository struct {
	db *reviewTable
}

var _ review.Repository = (*reviewRepository)(nil) // interface compliance check

func NewReviewRepository(db *DB) review.Repository {
	return &reviewRepository{db: db.review}
}

// query returns reviews in creation order. Callers must hold the lock.
func (repo *reviewRepository) query() []review.Review {
	reviews := make([]review.Review, 0, len(repo.db.seq))
	for _, id := range repo.db.seq {
		if r, ok := repo.db.table[id]; ok {
			reviews = append(reviews, *r)
		}
	}
	return reviews
}

func (repo *reviewRepository) CreateReview(r review.Review) (review.Review, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	r.ID = uuid.New().String()
	repo.db.table[r.ID] = &r
	repo.db.seq = append(repo.db.seq, r.ID)
	return r, nil
}

func (repo *reviewRepository) QueryAllReviews() ([]review.Review, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return repo.query(), nil
}

func (repo *reviewRepository) GetReviewByID(id string) (review.Review, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if r, ok := repo.db.table[id]; ok {
		return *r, nil
	}
	return review.Review{}, review.ErrNotFound
}

func (repo *reviewRepository) QueryReviewsByCourse(courseID string, approvedOnly bool) ([]review.Review, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var reviews []review.Review
	for _, r := range repo.query() {
		if r.CourseID != courseID {
			continue
		}
		if approvedOnly && !r.Approved {
			continue
		}
		reviews = append(reviews, r)
	}
	return reviews, nil
}

func (repo *reviewRepository) SetReviewApproved(id string, approved bool) (review.Review, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	r, ok := repo.db.table[id]
	if !ok {
		return review.Review{}, review.ErrNotFound
	}
	r.Approved = approved
	return *r, nil
}

func (repo *reviewRepository) DeleteReviewsByID(ids ...string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	for _, id := range ids {
		delete(repo.db.table, id)
	}
	repo.db.seq = dropIDs(repo.db.seq, ids)
	return nil
}
