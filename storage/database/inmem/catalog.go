package inmemdb

import (
	"github.com/google/uuid"

	"github.com/veta-academy/backend/core/catalog"
)

type courseRepository struct {
	db *courseTable
}

var _ catalog.Repository = (*courseRepository)(nil) // interface compliance check

func NewCourseRepository(db *DB) catalog.Repository {
	return &courseRepository{db: db.course}
}

// query returns courses in insertion order. Callers must hold the lock.
func (repo *courseRepository) query() []catalog.Course {
	courses := make([]catalog.Course, 0, len(repo.db.seq))
	for _, id := range repo.db.seq {
		if c, ok := repo.db.table[id]; ok {
			courses = append(courses, *c)
		}
	}
	return courses
}

func (repo *courseRepository) CheckCourseSlugUniqueness(slug string, excludedCourses ...catalog.Course) error {
	repo.db.RLock()
	defer repo.db.RUnlock()

	excluded := make(map[string]bool, len(excludedCourses))
	for _, c := range excludedCourses {
		excluded[c.ID] = true
	}
	for _, c := range repo.query() {
		if c.Slug == slug && !excluded[c.ID] {
			return catalog.ErrSlugExists
		}
	}
	return nil
}

func (repo *courseRepository) CreateCourse(c catalog.Course) (catalog.Course, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	c.ID = uuid.New().String()
	repo.db.table[c.ID] = &c
	repo.db.seq = append(repo.db.seq, c.ID)
	return c, nil
}

func (repo *courseRepository) QueryAllCourses() ([]catalog.Course, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return repo.query(), nil
}

func (repo *courseRepository) GetCourseByID(id string) (catalog.Course, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if c, ok := repo.db.table[id]; ok {
		return *c, nil
	}
	return catalog.Course{}, catalog.ErrNotFound
}

func (repo *courseRepository) GetCourseBySlug(slug string) (catalog.Course, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, c := range repo.query() {
		if c.Slug == slug {
			return c, nil
		}
	}
	return catalog.Course{}, catalog.ErrNotFound
}

func (repo *courseRepository) UpdateCourse(c catalog.Course) (catalog.Course, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	orig, ok := repo.db.table[c.ID]
	if !ok {
		return catalog.Course{}, catalog.ErrNotFound
	}
	// rating and engagement counters are owned by their dedicated mutators
	c.Rating = orig.Rating
	c.RatingCount = orig.RatingCount
	c.Students = orig.Students
	repo.db.table[c.ID] = &c
	return c, nil
}

func (repo *courseRepository) DeleteCoursesByID(ids ...string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	for _, id := range ids {
		delete(repo.db.table, id)
	}
	repo.db.seq = dropIDs(repo.db.seq, ids)
	return nil
}

func (repo *courseRepository) SetCourseRating(id string, rating float64, count int) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	c, ok := repo.db.table[id]
	if !ok {
		return catalog.ErrNotFound
	}
	c.Rating = rating
	c.RatingCount = count
	return nil
}

func (repo *courseRepository) IncrementCourseStudents(id string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	c, ok := repo.db.table[id]
	if !ok {
		return catalog.ErrNotFound
	}
	c.Students++
	return nil
}

func (repo *courseRepository) QueryCuratedCourses(list string) ([]catalog.Course, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	ids := repo.db.curated[list]
	courses := make([]catalog.Course, 0, len(ids))
	for _, id := range ids {
		if c, ok := repo.db.table[id]; ok {
			courses = append(courses, *c)
		}
	}
	return courses, nil
}

func (repo *courseRepository) SetCuratedCourses(list string, ids []string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.curated[list] = append([]string(nil), ids...)
	return nil
}

func (repo *courseRepository) ToggleFavorite(owner, courseID string) (bool, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	favs, ok := repo.db.favorites[owner]
	if !ok {
		favs = make(map[string]bool)
		repo.db.favorites[owner] = favs
	}
	if favs[courseID] {
		delete(favs, courseID)
		repo.db.favSeq[owner] = dropIDs(repo.db.favSeq[owner], []string{courseID})
		return false, nil
	}
	favs[courseID] = true
	repo.db.favSeq[owner] = append(repo.db.favSeq[owner], courseID)
	return true, nil
}

func (repo *courseRepository) QueryFavoriteIDs(owner string) ([]string, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	return append([]string(nil), repo.db.favSeq[owner]...), nil
}
