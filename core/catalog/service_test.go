package catalog

import (
	"strconv"
	"testing"
)

type fakeRepo struct {
	courses   []Course
	curated   map[string][]string
	favorites map[string][]string
}

func newFakeRepo(courses ...Course) *fakeRepo {
	r := &fakeRepo{
		curated:   make(map[string][]string),
		favorites: make(map[string][]string),
	}
	for i, c := range courses {
		c.ID = "c" + strconv.Itoa(i+1)
		r.courses = append(r.courses, c)
	}
	return r
}

func (r *fakeRepo) CheckCourseSlugUniqueness(slug string, excludedCourses ...Course) error {
	for _, c := range r.courses {
		if c.Slug == slug {
			return ErrSlugExists
		}
	}
	return nil
}

func (r *fakeRepo) CreateCourse(c Course) (Course, error) {
	c.ID = "c" + strconv.Itoa(len(r.courses)+1)
	r.courses = append(r.courses, c)
	return c, nil
}

func (r *fakeRepo) QueryAllCourses() ([]Course, error) { return r.courses, nil }

func (r *fakeRepo) GetCourseByID(id string) (Course, error) {
	for _, c := range r.courses {
		if c.ID == id {
			return c, nil
		}
	}
	return Course{}, ErrNotFound
}

func (r *fakeRepo) GetCourseBySlug(slug string) (Course, error) {
	for _, c := range r.courses {
		if c.Slug == slug {
			return c, nil
		}
	}
	return Course{}, ErrNotFound
}

func (r *fakeRepo) UpdateCourse(c Course) (Course, error) {
	for i := range r.courses {
		if r.courses[i].ID == c.ID {
			r.courses[i] = c
			return c, nil
		}
	}
	return Course{}, ErrNotFound
}

func (r *fakeRepo) DeleteCoursesByID(ids ...string) error {
	for _, id := range ids {
		for i := range r.courses {
			if r.courses[i].ID == id {
				r.courses = append(r.courses[:i], r.courses[i+1:]...)
				break
			}
		}
	}
	return nil
}

func (r *fakeRepo) SetCourseRating(id string, rating float64, count int) error {
	for i := range r.courses {
		if r.courses[i].ID == id {
			r.courses[i].Rating = rating
			r.courses[i].RatingCount = count
			return nil
		}
	}
	return ErrNotFound
}

func (r *fakeRepo) IncrementCourseStudents(id string) error {
	for i := range r.courses {
		if r.courses[i].ID == id {
			r.courses[i].Students++
			return nil
		}
	}
	return ErrNotFound
}

func (r *fakeRepo) QueryCuratedCourses(list string) ([]Course, error) {
	var courses []Course
	for _, id := range r.curated[list] {
		if c, err := r.GetCourseByID(id); err == nil {
			courses = append(courses, c)
		}
	}
	return courses, nil
}

func (r *fakeRepo) SetCuratedCourses(list string, ids []string) error {
	r.curated[list] = ids
	return nil
}

func (r *fakeRepo) ToggleFavorite(owner, courseID string) (bool, error) {
	for i, id := range r.favorites[owner] {
		if id == courseID {
			r.favorites[owner] = append(r.favorites[owner][:i], r.favorites[owner][i+1:]...)
			return false, nil
		}
	}
	r.favorites[owner] = append(r.favorites[owner], courseID)
	return true, nil
}

func (r *fakeRepo) QueryFavoriteIDs(owner string) ([]string, error) {
	return r.favorites[owner], nil
}

func TestService_curatedFallsBackToFlags(t *testing.T) {
	repo := newFakeRepo(
		Course{Title: "Flotación de Minerales", Slug: "flotacion-de-minerales", Featured: true},
		Course{Title: "Lixiviación de Oro", Slug: "lixiviacion-de-oro", Popular: true},
		Course{Title: "Perforación y Voladura", Slug: "perforacion-y-voladura", Featured: true, Popular: true},
	)
	svc := NewService(repo)

	featured, err := svc.Featured()
	if err != nil {
		t.Fatalf("Featured(): %v", err)
	}
	if len(featured) != 2 || featured[0].Slug != "flotacion-de-minerales" || featured[1].Slug != "perforacion-y-voladura" {
		t.Errorf("Featured() fallback = %v", featured)
	}

	// explicit curation wins and keeps its order
	if err := svc.SetFeatured([]string{"c2", "c1"}); err != nil {
		t.Fatalf("SetFeatured(): %v", err)
	}
	featured, _ = svc.Featured()
	if len(featured) != 2 || featured[0].ID != "c2" || featured[1].ID != "c1" {
		t.Errorf("Featured() curated = %v", featured)
	}

	popular, _ := svc.Popular()
	if len(popular) != 2 {
		t.Errorf("Popular() fallback = %v", popular)
	}
}

func TestService_ToggleFavorite(t *testing.T) {
	repo := newFakeRepo(Course{Title: "Flotación de Minerales", Slug: "flotacion-de-minerales"})
	svc := NewService(repo)

	if _, err := svc.ToggleFavorite("dev-1", "nope"); err != ErrNotFound {
		t.Errorf("ToggleFavorite(unknown course) error = %v; want %v", err, ErrNotFound)
	}

	fav, err := svc.ToggleFavorite("dev-1", "c1")
	if err != nil || !fav {
		t.Fatalf("ToggleFavorite() = %v, %v; want true, nil", fav, err)
	}
	fav, err = svc.ToggleFavorite("dev-1", "c1")
	if err != nil || fav {
		t.Fatalf("second ToggleFavorite() = %v, %v; want false, nil", fav, err)
	}

	favorites, err := svc.Favorites("dev-1")
	if err != nil {
		t.Fatalf("Favorites(): %v", err)
	}
	if len(favorites) != 0 {
		t.Errorf("Favorites() after involution = %v; want empty", favorites)
	}
}

func TestService_FavoritesSkipDeleted(t *testing.T) {
	repo := newFakeRepo(
		Course{Title: "Flotación de Minerales", Slug: "flotacion-de-minerales"},
		Course{Title: "Lixiviación de Oro", Slug: "lixiviacion-de-oro"},
	)
	svc := NewService(repo)

	svc.ToggleFavorite("u1", "c1")
	svc.ToggleFavorite("u1", "c2")
	if err := svc.Delete("c1"); err != nil {
		t.Fatalf("Delete(): %v", err)
	}

	favorites, err := svc.Favorites("u1")
	if err != nil {
		t.Fatalf("Favorites(): %v", err)
	}
	if len(favorites) != 1 || favorites[0].ID != "c2" {
		t.Errorf("Favorites() = %v; want only c2", favorites)
	}
}

func TestService_Update(t *testing.T) {
	repo := newFakeRepo(Course{
		Title: "Flotación de Minerales", Slug: "flotacion-de-minerales",
		Instructor: "Carlos Huamán", Area: "metalurgia", Level: LevelBasic, Price: 90,
	})
	svc := NewService(repo)

	price := 75.0
	featured := true
	uc := UpdateCourse{Price: &price, Featured: &featured}
	orig, _ := svc.GetByID("c1")
	if err := uc.Validate(orig, svc); err != nil {
		t.Fatalf("Validate(): %v", err)
	}
	crs, err := svc.Update("c1", uc)
	if err != nil {
		t.Fatalf("Update(): %v", err)
	}
	if crs.Price != 75 || !crs.Featured {
		t.Errorf("Update() = %+v", crs)
	}
	// unset fields keep their values
	if crs.Title != orig.Title || crs.Slug != orig.Slug || crs.Instructor != orig.Instructor {
		t.Errorf("Update() cleared unset fields: %+v", crs)
	}
}
