package inmemdb

import (
	"github.com/google/uuid"

	"github.com/veta-academy/backend/core/enrollment"
)

type enrollmentRepository struct {
	db *enrollmentTable
}

var _ enrollment.Repository = (*enrollmentRepository)(nil) // interface compliance check

func NewEnrollmentRepository(db *DB) enrollment.Repository {
	return &enrollmentRepository{db: db.enrollment}
}

func (repo *enrollmentRepository) CreateEnrollment(e enrollment.Enrollment) (enrollment.Enrollment, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	e.ID = uuid.New().String()
	repo.db.table[e.ID] = &e
	repo.db.seq = append(repo.db.seq, e.ID)
	return e, nil
}

func (repo *enrollmentRepository) GetEnrollment(userID, courseID string) (enrollment.Enrollment, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, id := range repo.db.seq {
		if e, ok := repo.db.table[id]; ok && e.UserID == userID && e.CourseID == courseID {
			return *e, nil
		}
	}
	return enrollment.Enrollment{}, enrollment.ErrNotFound
}

func (repo *enrollmentRepository) QueryEnrollmentsByUser(userID string) ([]enrollment.Enrollment, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var enrollments []enrollment.Enrollment
	for _, id := range repo.db.seq {
		if e, ok := repo.db.table[id]; ok && e.UserID == userID {
			enrollments = append(enrollments, *e)
		}
	}
	return enrollments, nil
}

func (repo *enrollmentRepository) DeleteEnrollmentsByID(ids ...string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	for _, id := range ids {
		delete(repo.db.table, id)
	}
	repo.db.seq = dropIDs(repo.db.seq, ids)
	return nil
}
