package sqlxrepos

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/veta-academy/backend/core/review"
)

type reviewRow struct {
	ID        string    `db:"id"`
	CourseID  string    `db:"course_id"`
	Author    string    `db:"author"`
	Rating    int       `db:"rating"`
	Comment   string    `db:"comment"`
	Approved  bool      `db:"approved"`
	CreatedAt time.Time `db:"created_at"`
}

type reviewRepository struct {
	db *sqlx.DB
}

var _ review.Repository = (*reviewRepository)(nil) // interface compliance check

func NewReviewRepository(db *sqlx.DB) review.Repository {
	return &reviewRepository{db: db}
}

func (repo *reviewRepository) CreateReview(r review.Review) (review.Review, error) {
	r.ID = uuid.New().String()
	query := `
INSERT INTO review (id, course_id, author, rating, comment, approved, created_at)
VALUES (:id, :course_id, :author, :rating, :comment, :approved, :created_at)`
	if _, err := repo.db.NamedExec(query, reviewRow(r)); err != nil {
		return review.Review{}, errors.Wrap(err, "creating review")
	}
	return r, nil
}

func (repo *reviewRepository) QueryAllReviews() ([]review.Review, error) {
	var rows []reviewRow
	if err := repo.db.Select(&rows, `SELECT * FROM review ORDER BY created_at`); err != nil {
		return nil, errors.Wrap(err, "querying reviews")
	}
	return reviews(rows), nil
}

func (repo *reviewRepository) GetReviewByID(id string) (review.Review, error) {
	var row reviewRow
	if err := repo.db.Get(&row, `SELECT * FROM review WHERE id = $1`, id); err != nil {
		if err == sql.ErrNoRows {
			return review.Review{}, review.ErrNotFound
		}
		return review.Review{}, errors.Wrap(err, "getting review")
	}
	return review.Review(row), nil
}

func (repo *reviewRepository) QueryReviewsByCourse(courseID string, approvedOnly bool) ([]review.Review, error) {
	query := `SELECT * FROM review WHERE course_id = $1`
	if approvedOnly {
		query += ` AND approved`
	}
	query += ` ORDER BY created_at`

	var rows []reviewRow
	if err := repo.db.Select(&rows, query, courseID); err != nil {
		return nil, errors.Wrap(err, "querying course reviews")
	}
	return reviews(rows), nil
}

func (repo *reviewRepository) SetReviewApproved(id string, approved bool) (review.Review, error) {
	res, err := repo.db.Exec(`UPDATE review SET approved = $1 WHERE id = $2`, approved, id)
	if err != nil {
		return review.Review{}, errors.Wrap(err, "setting review approval")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return review.Review{}, review.ErrNotFound
	}
	return repo.GetReviewByID(id)
}

func (repo *reviewRepository) DeleteReviewsByID(ids ...string) error {
	if _, err := repo.db.Exec(`DELETE FROM review WHERE id = ANY($1)`, pq.Array(ids)); err != nil {
		return errors.Wrap(err, "deleting reviews")
	}
	return nil
}

func reviews(rows []reviewRow) []review.Review {
	rs := make([]review.Review, len(rows))
	for i, row := range rows {
		rs[i] = review.Review(row)
	}
	return rs
}
