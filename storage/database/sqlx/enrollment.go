package sqlxrepos

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/veta-academy/backend/core/enrollment"
)

type enrollmentRow struct {
	ID        string    `db:"id"`
	UserID    string    `db:"user_id"`
	CourseID  string    `db:"course_id"`
	PricePaid float64   `db:"price_paid"`
	Points    int       `db:"points"`
	CreatedAt time.Time `db:"created_at"`
}

type enrollmentRepository struct {
	db *sqlx.DB
}

var _ enrollment.Repository = (*enrollmentRepository)(nil) // interface compliance check

func NewEnrollmentRepository(db *sqlx.DB) enrollment.Repository {
	return &enrollmentRepository{db: db}
}

func (repo *enrollmentRepository) CreateEnrollment(e enrollment.Enrollment) (enrollment.Enrollment, error) {
	e.ID = uuid.New().String()
	query := `
INSERT INTO enrollment (id, user_id, course_id, price_paid, points, created_at)
VALUES (:id, :user_id, :course_id, :price_paid, :points, :created_at)`
	if _, err := repo.db.NamedExec(query, enrollmentRow(e)); err != nil {
		return enrollment.Enrollment{}, errors.Wrap(err, "creating enrollment")
	}
	return e, nil
}

func (repo *enrollmentRepository) GetEnrollment(userID, courseID string) (enrollment.Enrollment, error) {
	var row enrollmentRow
	query := `SELECT * FROM enrollment WHERE user_id = $1 AND course_id = $2`
	if err := repo.db.Get(&row, query, userID, courseID); err != nil {
		if err == sql.ErrNoRows {
			return enrollment.Enrollment{}, enrollment.ErrNotFound
		}
		return enrollment.Enrollment{}, errors.Wrap(err, "getting enrollment")
	}
	return enrollment.Enrollment(row), nil
}

func (repo *enrollmentRepository) QueryEnrollmentsByUser(userID string) ([]enrollment.Enrollment, error) {
	var rows []enrollmentRow
	query := `SELECT * FROM enrollment WHERE user_id = $1 ORDER BY created_at`
	if err := repo.db.Select(&rows, query, userID); err != nil {
		return nil, errors.Wrap(err, "querying user enrollments")
	}
	enrollments := make([]enrollment.Enrollment, len(rows))
	for i, row := range rows {
		enrollments[i] = enrollment.Enrollment(row)
	}
	return enrollments, nil
}

func (repo *enrollmentRepository) DeleteEnrollmentsByID(ids ...string) error {
	if _, err := repo.db.Exec(`DELETE FROM enrollment WHERE id = ANY($1)`, pq.Array(ids)); err != nil {
		return errors.Wrap(err, "deleting enrollments")
	}
	return nil
}
