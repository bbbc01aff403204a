package sqlxrepos

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/veta-academy/backend/core/catalog"
)

type courseRow struct {
	ID            string    `db:"id"`
	Title         string    `db:"title"`
	Slug          string    `db:"slug"`
	Description   string    `db:"description"`
	Instructor    string    `db:"instructor"`
	Price         float64   `db:"price"`
	OriginalPrice float64   `db:"original_price"`
	Area          string    `db:"area"`
	Level         string    `db:"level"`
	Duration      string    `db:"duration"`
	Rating        float64   `db:"rating"`
	RatingCount   int       `db:"rating_count"`
	Students      int       `db:"students"`
	Featured      bool      `db:"featured"`
	Popular       bool      `db:"popular"`
	IsNew         bool      `db:"is_new"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}

func newCourseRow(c catalog.Course) courseRow {
	return courseRow{
		ID:            c.ID,
		Title:         c.Title,
		Slug:          c.Slug,
		Description:   c.Description,
		Instructor:    c.Instructor,
		Price:         c.Price,
		OriginalPrice: c.OriginalPrice,
		Area:          c.Area,
		Level:         c.Level,
		Duration:      c.Duration,
		Rating:        c.Rating,
		RatingCount:   c.RatingCount,
		Students:      c.Students,
		Featured:      c.Featured,
		Popular:       c.Popular,
		IsNew:         c.New,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
}

func (row courseRow) course() catalog.Course {
	return catalog.Course{
		ID:            row.ID,
		Title:         row.Title,
		Slug:          row.Slug,
		Description:   row.Description,
		Instructor:    row.Instructor,
		Price:         row.Price,
		OriginalPrice: row.OriginalPrice,
		Area:          row.Area,
		Level:         row.Level,
		Duration:      row.Duration,
		Rating:        row.Rating,
		RatingCount:   row.RatingCount,
		Students:      row.Students,
		Featured:      row.Featured,
		Popular:       row.Popular,
		New:           row.IsNew,
		CreatedAt:     row.CreatedAt,
		UpdatedAt:     row.UpdatedAt,
	}
}

func courses(rows []courseRow) []catalog.Course {
	cs := make([]catalog.Course, len(rows))
	for i, row := range rows {
		cs[i] = row.course()
	}
	return cs
}

type courseRepository struct {
	db *sqlx.DB
}

var _ catalog.Repository = (*courseRepository)(nil) // interface compliance check

func NewCourseRepository(db *sqlx.DB) catalog.Repository {
	return &courseRepository{db: db}
}

func (repo *courseRepository) CheckCourseSlugUniqueness(slug string, excludedCourses ...catalog.Course) error {
	query := `SELECT COUNT(*) FROM course WHERE slug = $1`
	args := []interface{}{slug}
	if len(excludedCourses) > 0 {
		ids := make([]string, len(excludedCourses))
		for i, c := range excludedCourses {
			ids[i] = c.ID
		}
		query += ` AND NOT (id = ANY($2))`
		args = append(args, pq.Array(ids))
	}

	var count int
	if err := repo.db.Get(&count, query, args...); err != nil {
		return errors.Wrap(err, "checking slug uniqueness")
	}
	if count > 0 {
		return catalog.ErrSlugExists
	}
	return nil
}

func (repo *courseRepository) CreateCourse(c catalog.Course) (catalog.Course, error) {
	c.ID = uuid.New().String()
	query := `
INSERT INTO course (id, title, slug, description, instructor, price, original_price, area, level, duration,
                    rating, rating_count, students, featured, popular, is_new, created_at, updated_at)
VALUES (:id, :title, :slug, :description, :instructor, :price, :original_price, :area, :level, :duration,
        :rating, :rating_count, :students, :featured, :popular, :is_new, :created_at, :updated_at)`
	if _, err := repo.db.NamedExec(query, newCourseRow(c)); err != nil {
		return catalog.Course{}, errors.Wrap(err, "creating course")
	}
	return c, nil
}

func (repo *courseRepository) QueryAllCourses() ([]catalog.Course, error) {
	var rows []courseRow
	if err := repo.db.Select(&rows, `SELECT * FROM course ORDER BY created_at`); err != nil {
		return nil, errors.Wrap(err, "querying courses")
	}
	return courses(rows), nil
}

func (repo *courseRepository) getCourse(query string, args ...interface{}) (catalog.Course, error) {
	var row courseRow
	if err := repo.db.Get(&row, query, args...); err != nil {
		if err == sql.ErrNoRows {
			return catalog.Course{}, catalog.ErrNotFound
		}
		return catalog.Course{}, errors.Wrap(err, "getting course")
	}
	return row.course(), nil
}

func (repo *courseRepository) GetCourseByID(id string) (catalog.Course, error) {
	return repo.getCourse(`SELECT * FROM course WHERE id = $1`, id)
}

func (repo *courseRepository) GetCourseBySlug(slug string) (catalog.Course, error) {
	return repo.getCourse(`SELECT * FROM course WHERE slug = $1`, slug)
}

func (repo *courseRepository) UpdateCourse(c catalog.Course) (catalog.Course, error) {
	// rating, rating_count and students are owned by their dedicated mutators
	query := `
UPDATE course
SET title = :title, slug = :slug, description = :description, instructor = :instructor,
    price = :price, original_price = :original_price, area = :area, level = :level,
    duration = :duration, featured = :featured, popular = :popular, is_new = :is_new,
    updated_at = :updated_at
WHERE id = :id`
	res, err := repo.db.NamedExec(query, newCourseRow(c))
	if err != nil {
		return catalog.Course{}, errors.Wrap(err, "updating course")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return catalog.Course{}, catalog.ErrNotFound
	}
	return repo.GetCourseByID(c.ID)
}

func (repo *courseRepository) DeleteCoursesByID(ids ...string) error {
	if _, err := repo.db.Exec(`DELETE FROM course WHERE id = ANY($1)`, pq.Array(ids)); err != nil {
		return errors.Wrap(err, "deleting courses")
	}
	return nil
}

func (repo *courseRepository) SetCourseRating(id string, rating float64, count int) error {
	res, err := repo.db.Exec(`UPDATE course SET rating = $1, rating_count = $2 WHERE id = $3`, rating, count, id)
	if err != nil {
		return errors.Wrap(err, "setting course rating")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return catalog.ErrNotFound
	}
	return nil
}

func (repo *courseRepository) IncrementCourseStudents(id string) error {
	res, err := repo.db.Exec(`UPDATE course SET students = students + 1 WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "incrementing course students")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return catalog.ErrNotFound
	}
	return nil
}

func (repo *courseRepository) QueryCuratedCourses(list string) ([]catalog.Course, error) {
	var rows []courseRow
	query := `
SELECT c.* FROM course c
JOIN curated_course cc ON cc.course_id = c.id
WHERE cc.list_name = $1
ORDER BY cc.position`
	if err := repo.db.Select(&rows, query, list); err != nil {
		return nil, errors.Wrap(err, "querying curated courses")
	}
	return courses(rows), nil
}

func (repo *courseRepository) SetCuratedCourses(list string, ids []string) error {
	tx, err := repo.db.Beginx()
	if err != nil {
		return errors.Wrap(err, "setting curated courses")
	}
	defer func() { _ = tx.Rollback() }()

	if _, err = tx.Exec(`DELETE FROM curated_course WHERE list_name = $1`, list); err != nil {
		return errors.Wrap(err, "setting curated courses")
	}
	for i, id := range ids {
		_, err = tx.Exec(`INSERT INTO curated_course (list_name, position, course_id) VALUES ($1, $2, $3)`, list, i, id)
		if err != nil {
			return errors.Wrap(err, "setting curated courses")
		}
	}
	return errors.Wrap(tx.Commit(), "setting curated courses")
}

func (repo *courseRepository) ToggleFavorite(owner, courseID string) (bool, error) {
	res, err := repo.db.Exec(
		`INSERT INTO favorite (owner, course_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`, owner, courseID)
	if err != nil {
		return false, errors.Wrap(err, "toggling favorite")
	}
	if n, err := res.RowsAffected(); err == nil && n > 0 {
		return true, nil
	}

	// already a favorite; flip it off
	if _, err = repo.db.Exec(`DELETE FROM favorite WHERE owner = $1 AND course_id = $2`, owner, courseID); err != nil {
		return false, errors.Wrap(err, "toggling favorite")
	}
	return false, nil
}

func (repo *courseRepository) QueryFavoriteIDs(owner string) ([]string, error) {
	var ids []string
	query := `SELECT course_id FROM favorite WHERE owner = $1 ORDER BY position`
	if err := repo.db.Select(&ids, query, owner); err != nil {
		return nil, errors.Wrap(err, "querying favorites")
	}
	return ids, nil
}
